package errs

// Error kinds shared by every layer. Callers classify with Is; lower layers
// attach context with Wrap or attach a kind to a foreign error with Mark.
var (
	// Allocation
	ErrCapacityExceeded = New("capacity exceeded")
	ErrSpotInactive     = New("spot is not accepting bookings")

	// Ledger
	ErrInsufficientFunds = New("insufficient funds")

	// Coupons
	ErrCouponInvalid   = New("coupon invalid")
	ErrCouponExpired   = New("coupon expired")
	ErrCouponExhausted = New("coupon usage limit reached")
	ErrMinOrderNotMet  = New("minimum order amount not met")

	// Booking lifecycle
	ErrInvalidTransition = New("invalid booking transition")
	ErrAlreadyTerminal   = New("booking already terminal")
	ErrPendingTimeout    = New("booking stayed pending past its deadline")

	// Access
	ErrNotAuthorized   = New("actor not authorized")
	ErrUnauthenticated = New("caller not authenticated")
	ErrRateLimited     = New("rate limit exceeded")

	// Concurrency and storage
	ErrConcurrencyConflict = New("concurrent modification")
	ErrStoreUnavailable    = New("store unavailable")

	// Lookups
	ErrNotFound        = New("not found")
	ErrSpotNotFound    = Mark(New("spot not found"), ErrNotFound)
	ErrBookingNotFound = Mark(New("booking not found"), ErrNotFound)
	ErrCouponNotFound  = Mark(New("coupon not found"), ErrNotFound)

	// Input
	ErrValidation         = New("validation failed")
	ErrDuplicate          = New("already exists")
	ErrDayRateUnavailable = Mark(New("spot has no day rate"), ErrValidation)

	// Idempotency
	ErrIdempotencyInProgress = New("request with this idempotency key is in progress")
	ErrIdempotencyKeyReused  = Mark(New("idempotency key reused with a different request"), ErrValidation)
)

// Validation builds an input error carrying the ErrValidation kind.
func Validation(msg string) error {
	return Mark(New(msg), ErrValidation)
}

var codes = []struct {
	kind error
	code string
}{
	{ErrCapacityExceeded, "CAPACITY_EXCEEDED"},
	{ErrSpotInactive, "SPOT_INACTIVE"},
	{ErrInsufficientFunds, "INSUFFICIENT_FUNDS"},
	{ErrCouponInvalid, "COUPON_INVALID"},
	{ErrCouponExpired, "COUPON_EXPIRED"},
	{ErrCouponExhausted, "COUPON_EXHAUSTED"},
	{ErrMinOrderNotMet, "MIN_ORDER_NOT_MET"},
	{ErrInvalidTransition, "INVALID_TRANSITION"},
	{ErrAlreadyTerminal, "ALREADY_TERMINAL"},
	{ErrPendingTimeout, "PENDING_TIMEOUT"},
	{ErrNotAuthorized, "NOT_AUTHORIZED"},
	{ErrUnauthenticated, "UNAUTHENTICATED"},
	{ErrRateLimited, "RATE_LIMITED"},
	{ErrConcurrencyConflict, "CONCURRENCY_CONFLICT"},
	{ErrStoreUnavailable, "STORE_UNAVAILABLE"},
	{ErrIdempotencyInProgress, "IDEMPOTENCY_IN_PROGRESS"},
	{ErrIdempotencyKeyReused, "IDEMPOTENCY_KEY_REUSED"},
	{ErrDayRateUnavailable, "DAY_RATE_UNAVAILABLE"},
	{ErrNotFound, "NOT_FOUND"},
	{ErrDuplicate, "DUPLICATE"},
	{ErrValidation, "VALIDATION_FAILED"},
}

// Code returns the stable machine-readable code for the first kind err carries.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if Is(err, c.kind) {
			return c.code
		}
	}
	return "INTERNAL"
}
