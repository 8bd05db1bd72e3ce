package booking

import (
	"strings"
	"time"
	"unicode/utf8"

	"parq-core/internal/pkg/errs"
)

var ErrReasonRequired = errs.Validation("cancellation reason is required")

const maxReasonLength = 500

// allowed lists the targets reachable from each effective status. Active is
// a time-derived view of Confirmed, so it is never a target.
var allowed = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusFailed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusActive:    {StatusCompleted, StatusCancelled},
}

type TransitionContext struct {
	Now    time.Time
	Reason string
}

// ResolveStatus is the only place the reported status of a booking is
// computed. Every read path goes through it.
func ResolveStatus(b *Booking, now time.Time) Status {
	if b.status == StatusConfirmed && b.slot.Contains(now) {
		return StatusActive
	}
	return b.status
}

func (b *Booking) Status(now time.Time) Status {
	return ResolveStatus(b, now)
}

func CanTransition(from, to Status) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition moves the booking to target or explains why it cannot.
func (b *Booking) Transition(target Status, tc TransitionContext) error {
	from := ResolveStatus(b, tc.Now)
	if from.IsTerminal() {
		return errs.Wrapf(errs.ErrAlreadyTerminal, "booking %s is %s", b.id, from)
	}
	if !CanTransition(from, target) {
		return errs.Wrapf(errs.ErrInvalidTransition, "%s -> %s", from, target)
	}

	reason := truncateRunes(strings.TrimSpace(tc.Reason), maxReasonLength)

	switch target {
	case StatusCancelled:
		if reason == "" {
			return ErrReasonRequired
		}
		b.cancellationReason = &reason
	case StatusFailed:
		if reason != "" {
			b.failureReason = &reason
		}
	}

	b.status = target
	b.updatedAt = tc.Now
	return nil
}

// truncateRunes keeps at most n runes of s.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
