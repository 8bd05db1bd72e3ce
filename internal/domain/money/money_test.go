//go:build unit

package money_test

import (
	"encoding/json"
	"math"
	"testing"

	"parq-core/internal/domain/money"
	"parq-core/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    money.Amount
		wantErr error
	}{
		{in: "125", want: 12500},
		{in: "125.5", want: 12550},
		{in: "0.01", want: 1},
		{in: "2450.00", want: 245000},
		{in: "1.005", wantErr: money.ErrTooPrecise},
		{in: "-3", wantErr: money.ErrNegativeAmount},
		{in: "abc", wantErr: money.ErrInvalidAmount},
		{in: "92233720368547758", want: money.Amount(math.MaxInt64 / 100 * 100)},
		{in: "92233720368547759", wantErr: money.ErrOutOfRange},
		{in: "1e30", wantErr: money.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := money.Parse(tt.in)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tt.wantErr))
				assert.True(t, errs.Is(err, errs.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimes(t *testing.T) {
	tests := []struct {
		name    string
		a       money.Amount
		n       int64
		want    money.Amount
		wantErr bool
	}{
		{name: "three hours", a: money.FromRupees(50), n: 3, want: money.FromRupees(150)},
		{name: "zero units", a: money.FromRupees(50), n: 0, want: money.Zero},
		{name: "wraps int64", a: money.FromRupees(500_000_000_000_000), n: 1000, wantErr: true},
		{name: "just past max", a: money.Amount(math.MaxInt64/2 + 1), n: 2, wantErr: true},
		{name: "negative count", a: money.FromRupees(1), n: -1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Times(tt.n)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.Is(err, money.ErrOutOfRange))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlus(t *testing.T) {
	got, err := money.FromRupees(100).Plus(money.FromRupees(10))
	require.NoError(t, err)
	assert.Equal(t, money.FromRupees(110), got)

	_, err = money.Amount(math.MaxInt64).Plus(money.FromPaise(1))
	assert.True(t, errs.Is(err, money.ErrOutOfRange))
}

func TestPercent(t *testing.T) {
	// 12.5% of ₹1.00 is 12.5 paise, which rounds half up to 13.
	assert.Equal(t, money.Amount(13), money.FromPaise(100).Percent(decimal.RequireFromString("12.5")))
	assert.Equal(t, money.FromRupees(25), money.FromRupees(125).Percent(decimal.NewFromInt(20)))
	assert.Equal(t, money.FromRupees(12), money.FromRupees(120).BasisPoints(1000))
	assert.Equal(t, money.Amount(0), money.FromRupees(120).BasisPoints(0))
}

func TestJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Total money.Amount `json:"total"`
	}{Total: money.FromPaise(10500)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":"105.00"}`, string(b))

	var in struct {
		A money.Amount `json:"a"`
		B money.Amount `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"20.50","b":30}`), &in))
	assert.Equal(t, money.Amount(2050), in.A)
	assert.Equal(t, money.FromRupees(30), in.B)
}
