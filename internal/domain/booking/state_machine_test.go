//go:build unit

package booking_test

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"parq-core/internal/domain/booking"
	"parq-core/internal/pkg/errs"
	"parq-core/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStatus(t *testing.T) {
	b := builder.NewBookingBuilder().
		WithSlot(builder.At(10, 0), builder.At(12, 0)).
		WithStatus(booking.StatusConfirmed).
		BuildDomain()

	tests := []struct {
		name string
		now  time.Time
		want booking.Status
	}{
		{name: "before start stays confirmed", now: builder.At(9, 59), want: booking.StatusConfirmed},
		{name: "start instant is active", now: builder.At(10, 0), want: booking.StatusActive},
		{name: "inside window is active", now: builder.At(11, 30), want: booking.StatusActive},
		{name: "end instant is no longer active", now: builder.At(12, 0), want: booking.StatusConfirmed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booking.ResolveStatus(b, tt.now))
			assert.Equal(t, tt.want, b.Status(tt.now))
		})
	}

	pending := builder.NewBookingBuilder().WithSlot(builder.At(10, 0), builder.At(12, 0)).BuildDomain()
	assert.Equal(t, booking.StatusPending, booking.ResolveStatus(pending, builder.At(11, 0)))
}

func TestTransition(t *testing.T) {
	before := builder.At(8, 0)
	during := builder.At(11, 0)

	tests := []struct {
		name   string
		from   booking.Status
		to     booking.Status
		now    time.Time
		reason string
		errIs  error
	}{
		{name: "pending to confirmed", from: booking.StatusPending, to: booking.StatusConfirmed, now: before},
		{name: "pending to failed", from: booking.StatusPending, to: booking.StatusFailed, now: before, reason: "capacity"},
		{name: "pending to cancelled", from: booking.StatusPending, to: booking.StatusCancelled, now: before, reason: "changed plans"},
		{name: "confirmed to completed", from: booking.StatusConfirmed, to: booking.StatusCompleted, now: before},
		{name: "confirmed to cancelled", from: booking.StatusConfirmed, to: booking.StatusCancelled, now: before, reason: "host closed"},
		{name: "active to completed", from: booking.StatusConfirmed, to: booking.StatusCompleted, now: during},
		{name: "active to cancelled", from: booking.StatusConfirmed, to: booking.StatusCancelled, now: during, reason: "left early"},

		{name: "cancel without reason", from: booking.StatusConfirmed, to: booking.StatusCancelled, now: before, errIs: booking.ErrReasonRequired},
		{name: "whitespace reason", from: booking.StatusPending, to: booking.StatusCancelled, now: before, reason: "   ", errIs: booking.ErrReasonRequired},
		{name: "active is never a target", from: booking.StatusConfirmed, to: booking.StatusActive, now: during, errIs: errs.ErrInvalidTransition},
		{name: "pending cannot complete", from: booking.StatusPending, to: booking.StatusCompleted, now: before, errIs: errs.ErrInvalidTransition},
		{name: "confirmed cannot fail", from: booking.StatusConfirmed, to: booking.StatusFailed, now: before, errIs: errs.ErrInvalidTransition},
		{name: "confirmed cannot go back to pending", from: booking.StatusConfirmed, to: booking.StatusPending, now: before, errIs: errs.ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := builder.NewBookingBuilder().
				WithSlot(builder.At(10, 0), builder.At(12, 0)).
				WithStatus(tt.from).
				BuildDomain()

			err := b.Transition(tt.to, booking.TransitionContext{Now: tt.now, Reason: tt.reason})
			if tt.errIs != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tt.errIs), "got %v", err)
				assert.Equal(t, tt.from, b.StoredStatus())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, b.StoredStatus())
			assert.Equal(t, tt.now, b.UpdatedAt())
			if tt.to == booking.StatusCancelled {
				require.NotNil(t, b.CancellationReason())
				assert.Equal(t, tt.reason, *b.CancellationReason())
			} else {
				assert.Nil(t, b.CancellationReason())
			}
		})
	}
}

func TestCancellationReasonTruncatedByRune(t *testing.T) {
	tests := []struct {
		name   string
		reason string
		want   string
	}{
		{name: "ascii", reason: strings.Repeat("a", 600), want: strings.Repeat("a", 500)},
		{name: "devanagari", reason: strings.Repeat("रद्द", 200), want: string([]rune(strings.Repeat("रद्द", 200))[:500])},
		{name: "short", reason: "  ट्रैफ़िक  ", want: "ट्रैफ़िक"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := builder.NewBookingBuilder().WithStatus(booking.StatusConfirmed).BuildDomain()
			require.NoError(t, b.Transition(booking.StatusCancelled, booking.TransitionContext{Now: builder.At(8, 0), Reason: tt.reason}))
			got := *b.CancellationReason()
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, utf8.RuneCountInString(got), 500)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTerminalImmutability(t *testing.T) {
	targets := []booking.Status{
		booking.StatusPending, booking.StatusConfirmed, booking.StatusActive,
		booking.StatusCompleted, booking.StatusCancelled, booking.StatusFailed,
	}
	for _, terminal := range []booking.Status{booking.StatusCompleted, booking.StatusCancelled, booking.StatusFailed} {
		for _, target := range targets {
			t.Run(string(terminal)+"->"+string(target), func(t *testing.T) {
				b := builder.NewBookingBuilder().WithStatus(terminal).BuildDomain()
				err := b.Transition(target, booking.TransitionContext{Now: builder.At(9, 0), Reason: "x"})
				assert.True(t, errs.Is(err, errs.ErrAlreadyTerminal), "got %v", err)
				assert.Equal(t, terminal, b.StoredStatus())
			})
		}
	}
}

func TestSettleCancellation(t *testing.T) {
	t.Run("full refund marks refunded", func(t *testing.T) {
		b := builder.NewBookingBuilder().WithStatus(booking.StatusConfirmed).WithHeldTotal(12000).BuildDomain()
		require.NoError(t, b.SettleCancellation(12000, builder.At(8, 0)))
		assert.Equal(t, booking.PaymentRefunded, b.PaymentStatus())
		assert.EqualValues(t, 12000, b.RefundedAmount())
	})

	t.Run("no refund marks captured", func(t *testing.T) {
		b := builder.NewBookingBuilder().WithStatus(booking.StatusConfirmed).WithHeldTotal(12000).BuildDomain()
		require.NoError(t, b.SettleCancellation(0, builder.At(11, 0)))
		assert.Equal(t, booking.PaymentCaptured, b.PaymentStatus())
	})

	t.Run("refund above total is rejected", func(t *testing.T) {
		b := builder.NewBookingBuilder().WithStatus(booking.StatusConfirmed).WithHeldTotal(12000).BuildDomain()
		err := b.SettleCancellation(12001, builder.At(8, 0))
		assert.True(t, errs.Is(err, errs.ErrValidation))
	})

	t.Run("unpaid booking has nothing to settle", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildDomain()
		err := b.SettleCancellation(0, builder.At(8, 0))
		assert.True(t, errs.Is(err, booking.ErrPaymentState))
	})
}

func TestNewVehicle(t *testing.T) {
	v, err := booking.NewVehicle("  ka01  ab 1234 ")
	require.NoError(t, err)
	assert.Equal(t, booking.Vehicle("KA01 AB 1234"), v)

	for _, bad := range []string{"", "   ", "-KA01", "KA01#12", "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"} {
		_, err := booking.NewVehicle(bad)
		assert.ErrorIs(t, err, booking.ErrInvalidVehicle, bad)
	}
}
