package retry

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"time"

	"parq-core/internal/pkg/errs"
)

var ErrAttemptsExhausted = errs.New("retry attempts exhausted")

type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Retryable decides whether an error is worth another attempt.
	Retryable func(error) bool
}

// OnConflict retries only optimistic write races.
func OnConflict(maxAttempts int, base, maxDelay time.Duration) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   base,
		MaxDelay:    maxDelay,
		Retryable: func(err error) bool {
			return errs.Is(err, errs.ErrConcurrencyConflict)
		},
	}
}

// Do runs fn until it succeeds, returns a non-retryable error, the attempts
// run out, or ctx is done. The last error is returned marked with
// ErrAttemptsExhausted so callers still see its kind.
func Do(ctx context.Context, p Policy, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return err
		}
		if attempt == attempts-1 {
			break
		}

		wait := Backoff(attempt, p.BaseDelay, p.MaxDelay)
		slog.Debug("retrying after retryable error",
			"attempt", attempt+1,
			"wait_ms", wait.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	slog.Warn("giving up after max attempts", "attempts", attempts, "error", err.Error())
	return errs.Mark(err, ErrAttemptsExhausted)
}

// Backoff is exponential in attempt with up to 20% jitter, capped at maxDelay when it is positive.
func Backoff(attempt int, base, maxDelay time.Duration) time.Duration {
	if attempt > 30 {
		attempt = 30
	}
	waitTime := time.Duration(1<<attempt) * base
	if maxDelay > 0 && waitTime > maxDelay {
		waitTime = maxDelay
	}
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	// Safe conversion: mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}
