//go:build unit

package memstore_test

import (
	"context"
	"testing"

	"parq-core/internal/domain/ledger"
	"parq-core/internal/domain/money"
	"parq-core/internal/infra/memstore"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/usecase/shared"
	"parq-core/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	sp := builder.NewSpotBuilder().BuildDomain()
	b := builder.NewBookingBuilder().WithSpot(sp.ID()).BuildDomain()
	account := uuid.New()

	require.NoError(t, store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Spots().Create(ctx, sp)
	}))

	boom := errs.New("boom")
	err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		require.NoError(t, tx.Bookings().Create(ctx, b))
		require.NoError(t, tx.Reservations().Insert(ctx, builder.NewBookingBuilder().With(func(bb *builder.BookingBuilder) {
			bb.ID = b.ID()
			bb.SpotID = sp.ID()
		}).BuildReservation()))
		w, err := tx.Wallets().Get(ctx, account)
		require.NoError(t, err)
		require.NoError(t, w.Apply(ledger.TypeCredit, money.FromRupees(100), builder.At(9, 0)))
		require.NoError(t, tx.Wallets().CompareAndSwap(ctx, w))
		txn, err := ledger.NewTransaction(account, ledger.TypeCredit, money.FromRupees(100), nil, "top up", w.Balance(), builder.At(9, 0))
		require.NoError(t, err)
		require.NoError(t, tx.Transactions().Append(ctx, txn))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, store.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Bookings().FindByID(ctx, b.ID())
		assert.True(t, errs.Is(err, errs.ErrBookingNotFound))

		rs, err := tx.Reservations().ListEndingAfter(ctx, sp.ID(), builder.At(0, 0))
		require.NoError(t, err)
		assert.Empty(t, rs)

		w, err := tx.Wallets().Get(ctx, account)
		require.NoError(t, err)
		assert.True(t, w.Balance().IsZero())
		assert.Zero(t, w.Version())

		txns, err := tx.Transactions().ListAllByAccount(ctx, account)
		require.NoError(t, err)
		assert.Empty(t, txns)
		return nil
	}))
}

func TestCompareAndSwapDetectsStaleWallet(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	account := uuid.New()

	var stale *ledger.Wallet
	require.NoError(t, store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		w, err := tx.Wallets().Get(ctx, account)
		if err != nil {
			return err
		}
		stale, _ = tx.Wallets().Get(ctx, account)
		if err := w.Apply(ledger.TypeCredit, money.FromRupees(10), builder.At(9, 0)); err != nil {
			return err
		}
		return tx.Wallets().CompareAndSwap(ctx, w)
	}))

	err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		require.NoError(t, stale.Apply(ledger.TypeCredit, money.FromRupees(5), builder.At(9, 1)))
		return tx.Wallets().CompareAndSwap(ctx, stale)
	})
	assert.True(t, errs.Is(err, errs.ErrConcurrencyConflict), "got %v", err)
}

func TestBookingUpdateIsVersioned(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	sp := builder.NewSpotBuilder().BuildDomain()
	b := builder.NewBookingBuilder().WithSpot(sp.ID()).BuildDomain()

	require.NoError(t, store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Spots().Create(ctx, sp); err != nil {
			return err
		}
		return tx.Bookings().Create(ctx, b)
	}))

	first := builder.NewBookingBuilder().With(func(bb *builder.BookingBuilder) { bb.ID = b.ID(); bb.SpotID = sp.ID() }).BuildDomain()
	second := builder.NewBookingBuilder().With(func(bb *builder.BookingBuilder) { bb.ID = b.ID(); bb.SpotID = sp.ID() }).BuildDomain()

	require.NoError(t, store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Bookings().Update(ctx, first)
	}))
	assert.EqualValues(t, 1, first.Version())

	err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Bookings().Update(ctx, second)
	})
	assert.True(t, errs.Is(err, errs.ErrConcurrencyConflict))
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	store := memstore.New()
	err := store.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Spots().Create(ctx, builder.NewSpotBuilder().BuildDomain())
	})
	assert.Error(t, err)
}

func TestAfterCommitCountsOnlyCommits(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	var seen []int
	store.AfterCommit(func(n int) { seen = append(seen, n) })

	ok := func(context.Context, shared.Tx) error { return nil }
	fail := func(context.Context, shared.Tx) error { return errs.New("nope") }

	require.NoError(t, store.Within(ctx, ok))
	require.Error(t, store.Within(ctx, fail))
	require.NoError(t, store.Within(ctx, ok))
	assert.Equal(t, []int{1, 2}, seen)
}

func TestCouponIncrementUsageGuarded(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c := builder.NewCouponBuilder().WithUsage(1, 0).BuildDomain()

	require.NoError(t, store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().Create(ctx, c)
	}))
	require.NoError(t, store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().IncrementUsage(ctx, c.ID(), builder.At(9, 0))
	}))
	err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().IncrementUsage(ctx, c.ID(), builder.At(9, 1))
	})
	assert.True(t, errs.Is(err, errs.ErrCouponExhausted))

	require.NoError(t, store.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		got, err := tx.Coupons().FindByCode(ctx, c.Code())
		require.NoError(t, err)
		assert.Equal(t, 1, got.UsedCount())
		return nil
	}))
}
