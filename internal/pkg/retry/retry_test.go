//go:build unit

package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"parq-core/internal/pkg/errs"
	"parq-core/internal/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo(t *testing.T) {
	policy := retry.OnConflict(4, time.Microsecond, time.Millisecond)

	t.Run("succeeds after transient conflicts", func(t *testing.T) {
		calls := 0
		err := retry.Do(context.Background(), policy, func() error {
			calls++
			if calls < 3 {
				return errs.Wrap(errs.ErrConcurrencyConflict, "wallet version moved")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-retryable error returns immediately", func(t *testing.T) {
		calls := 0
		err := retry.Do(context.Background(), policy, func() error {
			calls++
			return errs.ErrCapacityExceeded
		})
		assert.True(t, errs.Is(err, errs.ErrCapacityExceeded))
		assert.Equal(t, 1, calls)
	})

	t.Run("bounded attempts surface the conflict", func(t *testing.T) {
		calls := 0
		err := retry.Do(context.Background(), policy, func() error {
			calls++
			return errs.ErrConcurrencyConflict
		})
		require.Error(t, err)
		assert.Equal(t, 4, calls)
		assert.True(t, errs.Is(err, errs.ErrConcurrencyConflict))
		assert.True(t, errs.Is(err, retry.ErrAttemptsExhausted))
	})

	t.Run("context cancellation stops waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		slow := retry.OnConflict(10, time.Hour, time.Hour)
		calls := 0
		err := retry.Do(ctx, slow, func() error {
			calls++
			cancel()
			return errs.ErrConcurrencyConflict
		})
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, 1, calls)
	})
}

func TestBackoff(t *testing.T) {
	base := 10 * time.Millisecond

	for attempt := 0; attempt < 4; attempt++ {
		want := time.Duration(1<<attempt) * base
		got := retry.Backoff(attempt, base, 0)
		assert.GreaterOrEqual(t, got, want)
		assert.LessOrEqual(t, got, want+want/5)
	}

	capped := retry.Backoff(20, base, 50*time.Millisecond)
	assert.LessOrEqual(t, capped, 60*time.Millisecond)
}
