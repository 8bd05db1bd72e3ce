package money

import (
	"encoding/json"
	"math"
	"math/bits"
	"strconv"

	"parq-core/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Amount is a rupee amount held as integer paise.
type Amount int64

const Zero Amount = 0

var (
	hundred = decimal.NewFromInt(100)
	// maxRupees keeps every parsed amount representable as int64 paise.
	maxRupees = decimal.NewFromInt(math.MaxInt64 / 100)
)

var (
	ErrNegativeAmount = errs.Validation("amount cannot be negative")
	ErrTooPrecise     = errs.Validation("amount has more than two decimal places")
	ErrInvalidAmount  = errs.Validation("invalid amount")
	ErrOutOfRange     = errs.Mark(errs.Validation("amount out of range"), ErrInvalidAmount)
)

func FromPaise(p int64) Amount {
	return Amount(p)
}

func FromRupees(r int64) Amount {
	return Amount(r * 100)
}

// Parse reads a decimal rupee string such as "125" or "125.50".
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errs.Wrap(ErrInvalidAmount, s)
	}
	return FromDecimal(d)
}

func FromDecimal(d decimal.Decimal) (Amount, error) {
	if d.IsNegative() {
		return 0, ErrNegativeAmount
	}
	if d.GreaterThan(maxRupees) {
		return 0, errs.Wrapf(ErrOutOfRange, "%s exceeds %s", d, maxRupees)
	}
	paise := d.Mul(hundred)
	if !paise.Equal(paise.Truncate(0)) {
		return 0, ErrTooPrecise
	}
	return Amount(paise.IntPart()), nil
}

func (a Amount) Paise() int64 { return int64(a) }

func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

func (a Amount) IsZero() bool     { return a == 0 }
func (a Amount) IsPositive() bool { return a > 0 }
func (a Amount) IsNegative() bool { return a < 0 }

func (a Amount) Add(b Amount) Amount { return a + b }
func (a Amount) Sub(b Amount) Amount { return a - b }

// Mul is unchecked and meant for signs and other small factors. Prices
// multiplied by a quantity go through Times.
func (a Amount) Mul(n int64) Amount { return Amount(int64(a) * n) }

// Times multiplies a non-negative amount by a non-negative count and fails
// instead of wrapping past int64 paise.
func (a Amount) Times(n int64) (Amount, error) {
	if a < 0 || n < 0 {
		return 0, errs.Wrapf(ErrOutOfRange, "%s x %d", a, n)
	}
	hi, lo := bits.Mul64(uint64(a), uint64(n))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, errs.Wrapf(ErrOutOfRange, "%s x %d", a, n)
	}
	return Amount(lo), nil
}

// Plus adds two non-negative amounts and fails on overflow.
func (a Amount) Plus(b Amount) (Amount, error) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, errs.Wrapf(ErrOutOfRange, "%s + %s", a, b)
	}
	return a + b, nil
}

// Percent returns pct percent of a, rounded half up to the nearest paisa.
func (a Amount) Percent(pct decimal.Decimal) Amount {
	v := decimal.NewFromInt(int64(a)).Mul(pct).Div(hundred).Round(0)
	return Amount(v.IntPart())
}

// BasisPoints returns bps/10000 of a, rounded half up.
func (a Amount) BasisPoints(bps int64) Amount {
	return a.Percent(decimal.New(bps, -2))
}

func Min(a, b Amount) Amount {
	if a < b {
		return a
	}
	return b
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both "125.50" and 125.50.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(b)
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
