//go:build unit || e2e

package builder

import (
	"time"

	"parq-core/internal/domain/money"
	"parq-core/internal/domain/spot"

	"github.com/google/uuid"
)

type SpotBuilder struct {
	ID            uuid.UUID
	HostID        uuid.UUID
	Name          string
	TotalCapacity int
	PricePerHour  money.Amount
	PricePerDay   *money.Amount
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewSpotBuilder() *SpotBuilder {
	created := At(0, 0).Add(-72 * time.Hour)
	return &SpotBuilder{
		ID:            uuid.New(),
		HostID:        uuid.New(),
		Name:          "Indiranagar 100ft Road",
		TotalCapacity: 1,
		PricePerHour:  money.FromRupees(50),
		Active:        true,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func (s *SpotBuilder) With(mutate func(*SpotBuilder)) *SpotBuilder {
	mutate(s)
	return s
}

func (s *SpotBuilder) WithCapacity(n int) *SpotBuilder {
	s.TotalCapacity = n
	return s
}

func (s *SpotBuilder) WithHost(id uuid.UUID) *SpotBuilder {
	s.HostID = id
	return s
}

func (s *SpotBuilder) WithHourly(rupees int64) *SpotBuilder {
	s.PricePerHour = money.FromRupees(rupees)
	return s
}

func (s *SpotBuilder) WithDaily(rupees int64) *SpotBuilder {
	d := money.FromRupees(rupees)
	s.PricePerDay = &d
	return s
}

func (s *SpotBuilder) Inactive() *SpotBuilder {
	s.Active = false
	return s
}

func (s *SpotBuilder) BuildDomain() *spot.Spot {
	return spot.ReconstructSpot(
		s.ID, s.HostID, s.Name, s.TotalCapacity,
		s.PricePerHour, s.PricePerDay, s.Active,
		s.CreatedAt, s.UpdatedAt,
	)
}
