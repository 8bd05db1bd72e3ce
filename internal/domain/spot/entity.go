package spot

import (
	"strings"
	"time"

	"parq-core/internal/domain/money"
	"parq-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidName     = errs.Validation("spot name must be 1-120 characters")
	ErrInvalidCapacity = errs.Validation("total capacity cannot be negative")
	ErrInvalidPrice    = errs.Validation("price per hour must be positive")
)

const maxNameLength = 120

type Spot struct {
	id            uuid.UUID
	hostID        uuid.UUID
	name          string
	totalCapacity int
	pricePerHour  money.Amount
	pricePerDay   *money.Amount
	active        bool
	createdAt     time.Time
	updatedAt     time.Time
}

func NewSpot(
	hostID uuid.UUID,
	name string,
	totalCapacity int,
	pricePerHour money.Amount,
	pricePerDay *money.Amount,
	now time.Time,
) (*Spot, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return nil, ErrInvalidName
	}
	if totalCapacity < 0 {
		return nil, ErrInvalidCapacity
	}
	if !pricePerHour.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if pricePerDay != nil && !pricePerDay.IsPositive() {
		return nil, errs.Validation("price per day must be positive when set")
	}

	return &Spot{
		id:            uuid.New(),
		hostID:        hostID,
		name:          name,
		totalCapacity: totalCapacity,
		pricePerHour:  pricePerHour,
		pricePerDay:   pricePerDay,
		active:        true,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func ReconstructSpot(
	id, hostID uuid.UUID,
	name string,
	totalCapacity int,
	pricePerHour money.Amount,
	pricePerDay *money.Amount,
	active bool,
	createdAt, updatedAt time.Time,
) *Spot {
	return &Spot{
		id:            id,
		hostID:        hostID,
		name:          name,
		totalCapacity: totalCapacity,
		pricePerHour:  pricePerHour,
		pricePerDay:   pricePerDay,
		active:        active,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ChangeCapacity is a host action. Callers check that live reservations still fit.
func (s *Spot) ChangeCapacity(capacity int, now time.Time) error {
	if capacity < 0 {
		return ErrInvalidCapacity
	}
	s.totalCapacity = capacity
	s.updatedAt = now
	return nil
}

func (s *Spot) SetActive(active bool, now time.Time) {
	s.active = active
	s.updatedAt = now
}

func (s *Spot) ID() uuid.UUID               { return s.id }
func (s *Spot) HostID() uuid.UUID           { return s.hostID }
func (s *Spot) Name() string                { return s.name }
func (s *Spot) TotalCapacity() int          { return s.totalCapacity }
func (s *Spot) PricePerHour() money.Amount  { return s.pricePerHour }
func (s *Spot) PricePerDay() *money.Amount  { return s.pricePerDay }
func (s *Spot) IsActive() bool              { return s.active }
func (s *Spot) CreatedAt() time.Time        { return s.createdAt }
func (s *Spot) UpdatedAt() time.Time        { return s.updatedAt }
