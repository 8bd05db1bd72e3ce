package response

import (
	"time"

	"parq-core/internal/domain/money"
	"parq-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type SpotResponse struct {
	ID            uuid.UUID     `json:"id"`
	HostID        uuid.UUID     `json:"hostId"`
	Name          string        `json:"name"`
	TotalCapacity int           `json:"totalCapacity"`
	PricePerHour  money.Amount  `json:"pricePerHour"`
	PricePerDay   *money.Amount `json:"pricePerDay,omitempty"`
	Active        bool          `json:"active"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

func FromSpotView(v *queries.SpotView) *SpotResponse {
	return &SpotResponse{
		ID:            v.ID,
		HostID:        v.HostID,
		Name:          v.Name,
		TotalCapacity: v.TotalCapacity,
		PricePerHour:  v.PricePerHour,
		PricePerDay:   v.PricePerDay,
		Active:        v.Active,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

type AvailabilityResponse struct {
	SpotID    uuid.UUID `json:"spotId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Capacity  int       `json:"capacity"`
	Available int       `json:"available"`
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	return &AvailabilityResponse{
		SpotID:    v.SpotID,
		StartTime: v.StartTime,
		EndTime:   v.EndTime,
		Capacity:  v.Capacity,
		Available: v.Available,
	}
}
