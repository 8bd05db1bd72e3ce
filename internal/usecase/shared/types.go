package shared

import (
	"time"

	"github.com/google/uuid"
)

type IdempotencyStatus string

const (
	IdempotencyInProgress IdempotencyStatus = "in_progress"
	IdempotencyCompleted  IdempotencyStatus = "completed"
)

type IdempotencyRecord struct {
	Key         string
	ActorID     uuid.UUID
	RequestHash string
	BookingID   uuid.UUID
	Status      IdempotencyStatus
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

func (r IdempotencyRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// OutboxEvent is written in the same unit as the state change it announces.
type OutboxEvent struct {
	ID          uuid.UUID
	Topic       string
	AggregateID uuid.UUID
	Payload     []byte
	CreatedAt   time.Time
	PublishedAt *time.Time
}

const (
	TopicBookingConfirmed = "booking.confirmed"
	TopicBookingFailed    = "booking.failed"
	TopicBookingCancelled = "booking.cancelled"
	TopicBookingCompleted = "booking.completed"
)

// Keyset pages newest first. A zero AfterTime starts from the top.
type Keyset struct {
	AfterTime time.Time
	AfterID   uuid.UUID
	Limit     int
}

func (k Keyset) First() bool {
	return k.AfterTime.IsZero()
}

// Before reports whether (t, id) sorts after the keyset position.
func (k Keyset) Before(t time.Time, id uuid.UUID) bool {
	if k.First() {
		return true
	}
	if t.Equal(k.AfterTime) {
		return id.String() < k.AfterID.String()
	}
	return t.Before(k.AfterTime)
}
