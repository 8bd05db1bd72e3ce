package request

import (
	"parq-core/internal/domain/money"
	"parq-core/internal/usecase/orchestrator"

	"github.com/google/uuid"
)

type CreateSpotRequest struct {
	// HostID lets an admin create a spot on behalf of a host.
	HostID        *uuid.UUID    `json:"hostId,omitempty"`
	Name          string        `json:"name" binding:"required,max=120"`
	TotalCapacity int           `json:"totalCapacity" binding:"min=0"`
	PricePerHour  money.Amount  `json:"pricePerHour" binding:"required"`
	PricePerDay   *money.Amount `json:"pricePerDay,omitempty"`
}

func (r CreateSpotRequest) ToInput() orchestrator.CreateSpotInput {
	return orchestrator.CreateSpotInput{
		HostID:       r.HostID,
		Name:         r.Name,
		Capacity:     r.TotalCapacity,
		PricePerHour: r.PricePerHour,
		PricePerDay:  r.PricePerDay,
	}
}

type UpdateCapacityRequest struct {
	TotalCapacity *int `json:"totalCapacity" binding:"required,min=0"`
}

type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type AvailabilityQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}
