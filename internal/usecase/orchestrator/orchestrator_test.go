//go:build unit

package orchestrator_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"parq-core/internal/domain/auth"
	"parq-core/internal/domain/cancellation"
	"parq-core/internal/domain/money"
	dompricing "parq-core/internal/domain/pricing"
	"parq-core/internal/domain/spot"
	"parq-core/internal/infra/memstore"
	"parq-core/internal/pkg/clock"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/pkg/ptr"
	"parq-core/internal/pkg/retry"
	"parq-core/internal/usecase/allocator"
	"parq-core/internal/usecase/ledger"
	"parq-core/internal/usecase/orchestrator"
	"parq-core/internal/usecase/pricing"
	"parq-core/internal/usecase/shared"
	"parq-core/tests/common/builder"
	"parq-core/tests/common/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeGate lets a test make every write unit of the orchestrator fail.
type writeGate struct {
	*memstore.Store
	err error
}

func (g *writeGate) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if g.err != nil {
		return g.err
	}
	return g.Store.Within(ctx, fn)
}

type fixture struct {
	store     *memstore.Store
	gate      *writeGate
	clock     *clock.MockClock
	orch      *orchestrator.Orchestrator
	reader    *orchestrator.Reader
	admin     auth.Actor
	host      auth.Actor
	requester auth.Actor
	platform  uuid.UUID
}

func newFixture(t *testing.T, opts ...func(*orchestrator.Settings)) *fixture {
	t.Helper()
	store := memstore.New()
	clk := clock.NewMockClock(builder.At(8, 0))
	logger := testutil.DiscardLogger()
	policy := retry.OnConflict(3, time.Millisecond, 5*time.Millisecond)
	platform := uuid.New()

	settings := orchestrator.Settings{
		Cancellation:    cancellation.MustParsePolicy("0s=100"),
		PlatformAccount: &platform,
		PendingTimeout:  15 * time.Minute,
		IdempotencyTTL:  24 * time.Hour,
		Retry:           policy,
	}
	for _, opt := range opts {
		opt(&settings)
	}

	authz := orchestrator.NewRoleAuthorizer()
	ledgerSvc := ledger.NewService(store, clk, policy, logger)
	gate := &writeGate{Store: store}
	orch := orchestrator.New(
		gate,
		allocator.New(store, allocator.NoopCache{}, logger),
		ledgerSvc,
		pricing.NewEngine(store, dompricing.NewCalculator(0)),
		authz,
		clk,
		settings,
		logger,
	)

	return &fixture{
		store:     store,
		gate:      gate,
		clock:     clk,
		orch:      orch,
		reader:    orchestrator.NewReader(store, ledgerSvc, authz, clk),
		admin:     auth.NewActor(uuid.New(), auth.RoleAdmin),
		host:      auth.NewActor(uuid.New(), auth.RoleHost),
		requester: auth.NewActor(uuid.New(), auth.RoleRequester),
		platform:  platform,
	}
}

func (f *fixture) seedSpot(t *testing.T, sb *builder.SpotBuilder) *spot.Spot {
	t.Helper()
	sp := sb.WithHost(f.host.ID).BuildDomain()
	require.NoError(t, f.store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Spots().Create(ctx, sp)
	}))
	return sp
}

func (f *fixture) fund(t *testing.T, account uuid.UUID, amount money.Amount) {
	t.Helper()
	_, err := f.orch.TopUpWallet(context.Background(), f.admin, account, amount, "")
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, account uuid.UUID) money.Amount {
	t.Helper()
	w, err := f.reader.GetWalletBalance(context.Background(), f.admin, account)
	require.NoError(t, err)
	return w.Balance
}

func (f *fixture) available(t *testing.T, spotID uuid.UUID) int {
	t.Helper()
	a, err := f.orch.QueryAvailability(context.Background(), spotID, builder.At(10, 0), builder.At(12, 0))
	require.NoError(t, err)
	return a.Available
}

func (f *fixture) assertConsistent(t *testing.T, accounts ...uuid.UUID) {
	t.Helper()
	for _, id := range accounts {
		r, err := f.reader.ReconcileAccount(context.Background(), f.admin, id)
		require.NoError(t, err)
		assert.True(t, r.Consistent, "account %s drifted by %s", id, r.Delta)
	}
}

func bookingInput(spotID uuid.UUID) orchestrator.CreateBookingInput {
	return orchestrator.CreateBookingInput{
		SpotID:  spotID,
		Start:   builder.At(10, 0),
		End:     builder.At(12, 0),
		Vehicle: "ka01 ab 1234",
	}
}

func TestCreateBookingConfirms(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sp := f.seedSpot(t, builder.NewSpotBuilder())
	f.fund(t, f.requester.ID, money.FromRupees(500))

	res, err := f.orch.CreateBooking(ctx, f.requester, bookingInput(sp.ID()))
	require.NoError(t, err)

	assert.False(t, res.Replayed)
	assert.Equal(t, "confirmed", res.Booking.Status)
	assert.Equal(t, "held", res.Booking.PaymentStatus)
	assert.Equal(t, "KA01 AB 1234", res.Booking.Vehicle)
	assert.Equal(t, money.FromRupees(100), res.Booking.Total)
	assert.Equal(t, money.FromRupees(400), f.balance(t, f.requester.ID))
	assert.Equal(t, 0, f.available(t, sp.ID()))
	f.assertConsistent(t, f.requester.ID)

	require.NoError(t, f.store.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		events, err := tx.Outbox().ListPending(ctx, 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, shared.TopicBookingConfirmed, events[0].Topic)
		assert.Equal(t, res.Booking.ID, events[0].AggregateID)
		return nil
	}))

	// Active is reported while the slot is running, never stored.
	f.clock.Set(builder.At(11, 0))
	got, err := f.reader.GetBooking(ctx, f.requester, res.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", got.Status)
}

func TestCreateBookingCapacityRace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sp := f.seedSpot(t, builder.NewSpotBuilder().WithCapacity(1))

	racers := []auth.Actor{
		auth.NewActor(uuid.New(), auth.RoleRequester),
		auth.NewActor(uuid.New(), auth.RoleRequester),
	}
	for _, r := range racers {
		f.fund(t, r.ID, money.FromRupees(500))
	}

	errsByRacer := make([]error, len(racers))
	var wg sync.WaitGroup
	for i, r := range racers {
		wg.Add(1)
		go func(i int, r auth.Actor) {
			defer wg.Done()
			_, errsByRacer[i] = f.orch.CreateBooking(ctx, r, bookingInput(sp.ID()))
		}(i, r)
	}
	wg.Wait()

	var won, lost int
	for i, err := range errsByRacer {
		if err == nil {
			won++
			assert.Equal(t, money.FromRupees(400), f.balance(t, racers[i].ID))
			continue
		}
		lost++
		assert.True(t, errs.Is(err, errs.ErrCapacityExceeded), "got %v", err)
		assert.Equal(t, money.FromRupees(500), f.balance(t, racers[i].ID))

		page, err := f.reader.ListMyBookings(ctx, racers[i], "", 10)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "failed", page.Items[0].Status)
		assert.Equal(t, "CAPACITY_EXCEEDED", ptr.Deref(page.Items[0].FailureReason, ""))
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)
	assert.Equal(t, 0, f.available(t, sp.ID()))
	f.assertConsistent(t, racers[0].ID, racers[1].ID)
}

func TestCreateBookingInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sp := f.seedSpot(t, builder.NewSpotBuilder().WithHourly(1500))
	f.fund(t, f.requester.ID, money.FromRupees(2450))

	_, err := f.orch.CreateBooking(ctx, f.requester, bookingInput(sp.ID()))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrInsufficientFunds), "got %v", err)

	assert.Equal(t, money.FromRupees(2450), f.balance(t, f.requester.ID))
	assert.Equal(t, 1, f.available(t, sp.ID()))
	f.assertConsistent(t, f.requester.ID)

	page, err := f.reader.ListMyBookings(ctx, f.requester, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "failed", page.Items[0].Status)
	assert.Equal(t, "unpaid", page.Items[0].PaymentStatus)
}

func TestCreateBookingCouponBound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sp := f.seedSpot(t, builder.NewSpotBuilder().WithCapacity(2).With(func(b *builder.SpotBuilder) {
		b.PricePerHour = money.FromPaise(6250)
	}))
	cp := builder.NewCouponBuilder().WithFlat(20).WithUsage(1, 0).BuildDomain()
	require.NoError(t, f.store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().Create(ctx, cp)
	}))

	first := f.requester
	second := auth.NewActor(uuid.New(), auth.RoleRequester)
	f.fund(t, first.ID, money.FromRupees(500))
	f.fund(t, second.ID, money.FromRupees(500))

	in := bookingInput(sp.ID())
	in.CouponCode = ptr.String("PARQ20")
	res, err := f.orch.CreateBooking(ctx, first, in)
	require.NoError(t, err)
	assert.Equal(t, money.FromRupees(125), res.Booking.Subtotal)
	assert.Equal(t, money.FromRupees(20), res.Booking.Discount)
	assert.Equal(t, money.FromRupees(105), res.Booking.Total)
	assert.Equal(t, money.FromRupees(395), f.balance(t, first.ID))

	view, err := f.reader.GetCoupon(ctx, "parq20")
	require.NoError(t, err)
	assert.Equal(t, 1, view.UsedCount)

	_, err = f.orch.CreateBooking(ctx, second, in)
	assert.True(t, errs.Is(err, errs.ErrCouponExhausted), "got %v", err)
	assert.Equal(t, money.FromRupees(500), f.balance(t, second.ID))
	assert.Equal(t, 1, f.available(t, sp.ID()))
}

func TestCreateBookingCouponExhaustedAtConfirmCompensates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sp := f.seedSpot(t, builder.NewSpotBuilder().With(func(b *builder.SpotBuilder) {
		b.PricePerHour = money.FromPaise(6250)
	}))
	cp := builder.NewCouponBuilder().WithFlat(20).WithUsage(1, 0).BuildDomain()
	require.NoError(t, f.store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().Create(ctx, cp)
	}))
	f.fund(t, f.requester.ID, money.FromRupees(500))

	// Someone else redeems the last use right after the hold commits.
	seen := 0
	f.store.AfterCommit(func(int) {
		seen++
		if seen != 3 {
			return
		}
		require.NoError(t, f.store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Coupons().IncrementUsage(ctx, cp.ID(), f.clock.Now())
		}))
	})

	in := bookingInput(sp.ID())
	in.CouponCode = ptr.String("PARQ20")
	_, err := f.orch.CreateBooking(ctx, f.requester, in)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCouponExhausted), "got %v", err)

	assert.Equal(t, money.FromRupees(500), f.balance(t, f.requester.ID))
	assert.Equal(t, 1, f.available(t, sp.ID()))
	f.assertConsistent(t, f.requester.ID)

	page, err := f.reader.ListMyBookings(ctx, f.requester, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "failed", page.Items[0].Status)
	assert.Equal(t, "COUPON_EXHAUSTED", ptr.Deref(page.Items[0].FailureReason, ""))

	txns, err := f.reader.ListTransactions(ctx, f.requester, f.requester.ID, "", 10)
	require.NoError(t, err)
	var types []string
	for _, txn := range txns.Items {
		types = append(types, txn.Type)
	}
	assert.ElementsMatch(t, []string{"credit", "hold", "release"}, types)

	view, err := f.reader.GetCoupon(ctx, "PARQ20")
	require.NoError(t, err)
	assert.Equal(t, 1, view.UsedCount)
}

func TestCancelBookingFullRefund(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sp := f.seedSpot(t, builder.NewSpotBuilder().WithHourly(60))
	f.fund(t, f.requester.ID, money.FromRupees(500))

	res, err := f.orch.CreateBooking(ctx, f.requester, bookingInput(sp.ID()))
	require.NoError(t, err)
	require.Equal(t, money.FromRupees(120), res.Booking.Total)
	require.Equal(t, 0, f.available(t, sp.ID()))

	got, err := f.orch.CancelBooking(ctx, f.requester, res.Booking.ID, "plans changed")
	require.NoError(t, err)

	assert.Equal(t, "cancelled", got.Status)
	assert.Equal(t, "refunded", got.PaymentStatus)
	assert.Equal(t, money.FromRupees(120), got.RefundedAmount)
	assert.Equal(t, "plans changed", ptr.Deref(got.CancellationReason, ""))
	assert.Equal(t, money.FromRupees(500), f.balance(t, f.requester.ID))
	assert.Equal(t, 1, f.available(t, sp.ID()))
	f.assertConsistent(t, f.requester.ID)
}

func TestCancelBookingPartialRefund(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, func(s *orchestrator.Settings) {
		s.Cancellation = cancellation.MustParsePolicy("24h=100,1h=50")
		s.CommissionBPS = 1000
	})
	sp := f.seedSpot(t, builder.NewSpotBuilder().WithHourly(60))
	f.fund(t, f.requester.ID, money.FromRupees(500))

	res, err := f.orch.CreateBooking(ctx, f.requester, bookingInput(sp.ID()))
	require.NoError(t, err)

	got, err := f.orch.CancelBooking(ctx, f.host, res.Booking.ID, "spot closed for repairs")
	require.NoError(t, err)

	assert.Equal(t, money.FromRupees(60), got.RefundedAmount)
	assert.Equal(t, money.FromRupees(440), f.balance(t, f.requester.ID))
	assert.Equal(t, money.FromRupees(54), f.balance(t, f.host.ID))
	assert.Equal(t, money.FromRupees(6), f.balance(t, f.platform))
	f.assertConsistent(t, f.requester.ID, f.host.ID, f.platform)
}

func TestCancelBookingRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sp := f.seedSpot(t, builder.NewSpotBuilder())
	f.fund(t, f.requester.ID, money.FromRupees(500))
	res, err := f.orch.CreateBooking(ctx, f.requester, bookingInput(sp.ID()))
	require.NoError(t, err)

	stranger := auth.NewActor(uuid.New(), auth.RoleRequester)
	_, err = f.orch.CancelBooking(ctx, stranger, res.Booking.ID, "not mine")
	assert.True(t, errs.Is(err, errs.ErrNotAuthorized), "got %v", err)

	_, err = f.orch.CancelBooking(ctx, f.requester, res.Booking.ID, "   ")
	assert.True(t, errs.Is(err, errs.ErrValidation), "got %v", err)

	_, err = f.orch.CancelBooking(ctx, f.requester, uuid.New(), "gone")
	assert.True(t, errs.Is(err, errs.ErrNotFound), "got %v", err)

	// nothing moved
	assert.Equal(t, money.FromRupees(400), f.balance(t, f.requester.ID))
	assert.Equal(t, 0, f.available(t, sp.ID()))
}

func TestCompleteBookingPaysHost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, func(s *orchestrator.Settings) { s.CommissionBPS = 1000 })
	sp := f.seedSpot(t, builder.NewSpotBuilder())
	f.fund(t, f.requester.ID, money.FromRupees(500))
	res, err := f.orch.CreateBooking(ctx, f.requester, bookingInput(sp.ID()))
	require.NoError(t, err)

	_, err = f.orch.CompleteBooking(ctx, f.requester, res.Booking.ID)
	assert.True(t, errs.Is(err, errs.ErrNotAuthorized), "got %v", err)

	f.clock.Set(builder.At(12, 5))
	got, err := f.orch.CompleteBooking(ctx, f.host, res.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, "captured", got.PaymentStatus)

	assert.Equal(t, money.FromRupees(400), f.balance(t, f.requester.ID))
	assert.Equal(t, money.FromRupees(90), f.balance(t, f.host.ID))
	assert.Equal(t, money.FromRupees(10), f.balance(t, f.platform))
	f.assertConsistent(t, f.requester.ID, f.host.ID, f.platform)
}

func TestTerminalBookingsAreImmutable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sp := f.seedSpot(t, builder.NewSpotBuilder())
	f.fund(t, f.requester.ID, money.FromRupees(500))
	res, err := f.orch.CreateBooking(ctx, f.requester, bookingInput(sp.ID()))
	require.NoError(t, err)

	_, err = f.orch.CancelBooking(ctx, f.requester, res.Booking.ID, "changed my mind")
	require.NoError(t, err)

	_, err = f.orch.CancelBooking(ctx, f.requester, res.Booking.ID, "again")
	assert.True(t, errs.Is(err, errs.ErrAlreadyTerminal), "got %v", err)
	_, err = f.orch.CompleteBooking(ctx, f.host, res.Booking.ID)
	assert.True(t, errs.Is(err, errs.ErrAlreadyTerminal), "got %v", err)

	got, err := f.reader.GetBooking(ctx, f.requester, res.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
	assert.Equal(t, money.FromRupees(500), f.balance(t, f.requester.ID))
	assert.Zero(t, f.balance(t, f.host.ID))
}

func TestCreateBookingIdempotencyKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sp := f.seedSpot(t, builder.NewSpotBuilder().WithCapacity(3))
	f.fund(t, f.requester.ID, money.FromRupees(500))

	in := bookingInput(sp.ID())
	in.IdempotencyKey = "req-1"
	first, err := f.orch.CreateBooking(ctx, f.requester, in)
	require.NoError(t, err)
	again, err := f.orch.CreateBooking(ctx, f.requester, in)
	require.NoError(t, err)

	assert.True(t, again.Replayed)
	assert.Equal(t, first.Booking.ID, again.Booking.ID)
	assert.Equal(t, money.FromRupees(400), f.balance(t, f.requester.ID))

	in.Vehicle = "MH12 XY 0001"
	_, err = f.orch.CreateBooking(ctx, f.requester, in)
	assert.True(t, errs.Is(err, errs.ErrIdempotencyKeyReused), "got %v", err)

	// keys are scoped to the actor
	other := auth.NewActor(uuid.New(), auth.RoleRequester)
	f.fund(t, other.ID, money.FromRupees(500))
	res, err := f.orch.CreateBooking(ctx, other, bookingInput(sp.ID()))
	require.NoError(t, err)
	assert.NotEqual(t, first.Booking.ID, res.Booking.ID)
}

func TestCreateBookingInputHash(t *testing.T) {
	base := bookingInput(uuid.New())
	variant := func(mutate func(*orchestrator.CreateBookingInput)) orchestrator.CreateBookingInput {
		in := base
		mutate(&in)
		return in
	}

	tests := []struct {
		name string
		in   orchestrator.CreateBookingInput
		same bool
	}{
		{"default rate mode spelled out", variant(func(in *orchestrator.CreateBookingInput) { in.RateMode = "hourly" }), true},
		{"rate mode case and spaces", variant(func(in *orchestrator.CreateBookingInput) { in.RateMode = " Hourly " }), true},
		{"vehicle case", variant(func(in *orchestrator.CreateBookingInput) { in.Vehicle = "KA01 AB 1234" }), true},
		{"empty coupon", variant(func(in *orchestrator.CreateBookingInput) { in.CouponCode = ptr.String(" ") }), true},
		{"daily rate", variant(func(in *orchestrator.CreateBookingInput) { in.RateMode = "daily" }), false},
		{"other vehicle", variant(func(in *orchestrator.CreateBookingInput) { in.Vehicle = "MH12 XY 0001" }), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.same, base.Hash() == tt.in.Hash())
		})
	}
}

func TestCreateBookingReplaysWithExplicitRateMode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sp := f.seedSpot(t, builder.NewSpotBuilder())
	f.fund(t, f.requester.ID, money.FromRupees(500))

	in := bookingInput(sp.ID())
	in.IdempotencyKey = "req-mode"
	first, err := f.orch.CreateBooking(ctx, f.requester, in)
	require.NoError(t, err)

	in.RateMode = "hourly"
	again, err := f.orch.CreateBooking(ctx, f.requester, in)
	require.NoError(t, err)
	assert.True(t, again.Replayed)
	assert.Equal(t, first.Booking.ID, again.Booking.ID)
}

func TestCreateBookingRejectsInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sp := f.seedSpot(t, builder.NewSpotBuilder())

	past := bookingInput(sp.ID())
	past.Start, past.End = builder.At(6, 0), builder.At(7, 0)
	_, err := f.orch.CreateBooking(ctx, f.requester, past)
	assert.True(t, errs.Is(err, errs.ErrValidation), "got %v", err)

	backwards := bookingInput(sp.ID())
	backwards.Start, backwards.End = builder.At(12, 0), builder.At(10, 0)
	_, err = f.orch.CreateBooking(ctx, f.requester, backwards)
	assert.True(t, errs.Is(err, errs.ErrValidation), "got %v", err)

	daily := bookingInput(sp.ID())
	daily.RateMode = "daily"
	_, err = f.orch.CreateBooking(ctx, f.requester, daily)
	assert.True(t, errs.Is(err, errs.ErrDayRateUnavailable), "got %v", err)

	_, err = f.orch.CreateBooking(ctx, f.host, bookingInput(sp.ID()))
	assert.True(t, errs.Is(err, errs.ErrNotAuthorized), "got %v", err)

	// rejected input leaves no rows behind
	page, err := f.reader.ListMyBookings(ctx, f.requester, "", 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestSpotManagement(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sp := f.seedSpot(t, builder.NewSpotBuilder().WithCapacity(1))
	f.fund(t, f.requester.ID, money.FromRupees(500))
	_, err := f.orch.CreateBooking(ctx, f.requester, bookingInput(sp.ID()))
	require.NoError(t, err)

	_, err = f.orch.UpdateSpotCapacity(ctx, f.host, sp.ID(), 0)
	assert.True(t, errs.Is(err, errs.ErrCapacityExceeded), "got %v", err)

	otherHost := auth.NewActor(uuid.New(), auth.RoleHost)
	_, err = f.orch.UpdateSpotCapacity(ctx, otherHost, sp.ID(), 5)
	assert.True(t, errs.Is(err, errs.ErrNotAuthorized), "got %v", err)

	view, err := f.orch.UpdateSpotCapacity(ctx, f.host, sp.ID(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, view.TotalCapacity)
	assert.Equal(t, 2, f.available(t, sp.ID()))

	_, err = f.orch.SetSpotActive(ctx, f.admin, sp.ID(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, f.available(t, sp.ID()))

	_, err = f.orch.CreateBooking(ctx, f.requester, bookingInput(sp.ID()))
	assert.True(t, errs.Is(err, errs.ErrSpotInactive), "got %v", err)
	assert.Equal(t, money.FromRupees(400), f.balance(t, f.requester.ID))
}

func TestCreateSpotAndCoupon(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sp, err := f.orch.CreateSpot(ctx, f.host, orchestrator.CreateSpotInput{
		HostID:       ptr.Of(uuid.New()),
		Name:         "Basement B2",
		Capacity:     4,
		PricePerHour: money.FromRupees(40),
	})
	require.NoError(t, err)
	assert.Equal(t, f.host.ID, sp.HostID, "hosts cannot create spots for others")

	_, err = f.orch.CreateSpot(ctx, f.requester, orchestrator.CreateSpotInput{Name: "x", Capacity: 1, PricePerHour: money.FromRupees(1)})
	assert.True(t, errs.Is(err, errs.ErrNotAuthorized), "got %v", err)

	in := orchestrator.CreateCouponInput{
		Code:         "monsoon10",
		DiscountType: "percentage",
		Value:        money.FromRupees(10).Decimal(),
		UsageLimit:   50,
		ValidFrom:    builder.At(0, 0),
		ValidTo:      builder.At(23, 0),
	}
	_, err = f.orch.CreateCoupon(ctx, f.host, in)
	assert.True(t, errs.Is(err, errs.ErrNotAuthorized), "got %v", err)

	cp, err := f.orch.CreateCoupon(ctx, f.admin, in)
	require.NoError(t, err)
	assert.Equal(t, "MONSOON10", cp.Code)

	_, err = f.orch.CreateCoupon(ctx, f.admin, in)
	assert.True(t, errs.Is(err, errs.ErrDuplicate), "got %v", err)
}

func TestSweepExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sp := f.seedSpot(t, builder.NewSpotBuilder().WithCapacity(2))
	f.fund(t, f.requester.ID, money.FromRupees(500))

	done, err := f.orch.CreateBooking(ctx, f.requester, bookingInput(sp.ID()))
	require.NoError(t, err)

	stuck := builder.NewBookingBuilder().
		WithSpot(sp.ID()).
		WithRequester(f.requester.ID).
		WithSlot(builder.At(14, 0), builder.At(16, 0)).
		BuildDomain()
	require.NoError(t, f.store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Bookings().Create(ctx, stuck)
	}))

	f.clock.Set(builder.At(12, 30))
	result, err := f.orch.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, orchestrator.SweepResult{Completed: 1, Failed: 1}, result)

	got, err := f.reader.GetBooking(ctx, f.admin, done.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, money.FromRupees(100), f.balance(t, f.host.ID))

	got, err = f.reader.GetBooking(ctx, f.admin, stuck.ID())
	require.NoError(t, err)
	assert.Equal(t, "failed", got.Status)
	assert.Equal(t, "PENDING_TIMEOUT", ptr.Deref(got.FailureReason, ""))

	// a second sweep finds nothing
	result, err = f.orch.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, result)
}

func TestSweepCountsOnlyBookingsItFailed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sp := f.seedSpot(t, builder.NewSpotBuilder())
	stuck := builder.NewBookingBuilder().WithSpot(sp.ID()).WithRequester(f.requester.ID).BuildDomain()
	require.NoError(t, f.store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Bookings().Create(ctx, stuck)
	}))

	// The compensating unit cannot commit, so nothing was failed.
	f.gate.err = errs.ErrStoreUnavailable
	result, err := f.orch.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Failed)

	got, err := f.reader.GetBooking(ctx, f.admin, stuck.ID())
	require.NoError(t, err)
	assert.Equal(t, "pending", got.Status)

	f.gate.err = nil
	result, err = f.orch.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)

	// nothing left to fail
	result, err = f.orch.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Failed)
}

func TestListMyBookingsPages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sp := f.seedSpot(t, builder.NewSpotBuilder().WithCapacity(5))
	f.fund(t, f.requester.ID, money.FromRupees(1000))

	for i := 0; i < 3; i++ {
		_, err := f.orch.CreateBooking(ctx, f.requester, bookingInput(sp.ID()))
		require.NoError(t, err)
		f.clock.Add(time.Minute)
	}

	first, err := f.reader.ListMyBookings(ctx, f.requester, "", 2)
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotNil(t, first.NextCursor)

	rest, err := f.reader.ListMyBookings(ctx, f.requester, first.NextCursor.After, 2)
	require.NoError(t, err)
	require.Len(t, rest.Items, 1)
	assert.Nil(t, rest.NextCursor)
	assert.True(t, rest.Items[0].CreatedAt.Before(first.Items[1].CreatedAt))

	hostView, err := f.reader.ListMyBookings(ctx, f.host, "", 10)
	require.NoError(t, err)
	assert.Len(t, hostView.Items, 3)

	_, err = f.reader.ListMyBookings(ctx, f.requester, "garbage", 2)
	assert.True(t, errs.Is(err, errs.ErrValidation), "got %v", err)
}

func TestWalletReadsAreScoped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fund(t, f.requester.ID, money.FromRupees(50))

	_, err := f.reader.GetWalletBalance(ctx, f.host, f.requester.ID)
	assert.True(t, errs.Is(err, errs.ErrNotAuthorized), "got %v", err)

	w, err := f.reader.GetWalletBalance(ctx, f.requester, f.requester.ID)
	require.NoError(t, err)
	assert.Equal(t, money.FromRupees(50), w.Balance)

	_, err = f.orch.TopUpWallet(ctx, f.requester, f.requester.ID, money.FromRupees(10), "")
	assert.True(t, errs.Is(err, errs.ErrNotAuthorized), "got %v", err)

	_, err = f.reader.ReconcileAccount(ctx, f.requester, f.requester.ID)
	assert.True(t, errs.Is(err, errs.ErrNotAuthorized), "got %v", err)

	_, err = f.orch.TopUpWallet(ctx, f.admin, f.requester.ID, money.Zero, "")
	assert.True(t, errs.Is(err, errs.ErrValidation), "got %v", err)
}
