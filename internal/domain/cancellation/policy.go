package cancellation

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"parq-core/internal/domain/money"
	"parq-core/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrInvalidPolicy = errs.Validation("invalid cancellation policy")

// Tier grants Percent of the total back when the booking is cancelled more
// than Before ahead of its start.
type Tier struct {
	Before  time.Duration
	Percent decimal.Decimal
}

// Policy is evaluated against time-to-start at cancel time. Tiers are kept
// sorted by Before descending so the first match is the most generous.
type Policy struct {
	tiers []Tier
}

func NewPolicy(tiers ...Tier) (Policy, error) {
	seen := make(map[time.Duration]struct{}, len(tiers))
	for _, t := range tiers {
		if t.Before < 0 || t.Percent.IsNegative() || t.Percent.GreaterThan(decimal.NewFromInt(100)) {
			return Policy{}, errs.Wrapf(ErrInvalidPolicy, "tier %s=%s", t.Before, t.Percent)
		}
		if _, dup := seen[t.Before]; dup {
			return Policy{}, errs.Wrapf(ErrInvalidPolicy, "duplicate threshold %s", t.Before)
		}
		seen[t.Before] = struct{}{}
	}
	sorted := append([]Tier(nil), tiers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before > sorted[j].Before })
	return Policy{tiers: sorted}, nil
}

// ParsePolicy reads "24h=100,2h=50". An empty string refunds nothing.
func ParsePolicy(s string) (Policy, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NewPolicy()
	}
	var tiers []Tier
	for _, part := range strings.Split(s, ",") {
		threshold, pct, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return Policy{}, errs.Wrapf(ErrInvalidPolicy, "tier %q", part)
		}
		d, err := time.ParseDuration(strings.TrimSpace(threshold))
		if err != nil {
			return Policy{}, errs.Wrapf(ErrInvalidPolicy, "threshold %q", threshold)
		}
		p, err := decimal.NewFromString(strings.TrimSpace(pct))
		if err != nil {
			return Policy{}, errs.Wrapf(ErrInvalidPolicy, "percent %q", pct)
		}
		tiers = append(tiers, Tier{Before: d, Percent: p})
	}
	return NewPolicy(tiers...)
}

// RefundPercent is the share of the total returned when the booking starts
// in untilStart. A tier applies when untilStart is strictly greater than its
// threshold, so cancelling exactly at a boundary falls to the next tier.
func (p Policy) RefundPercent(untilStart time.Duration) decimal.Decimal {
	for _, t := range p.tiers {
		if untilStart > t.Before {
			return t.Percent
		}
	}
	return decimal.Zero
}

func (p Policy) Refund(total money.Amount, now, start time.Time) money.Amount {
	return money.Min(total.Percent(p.RefundPercent(start.Sub(now))), total)
}

func (p Policy) Tiers() []Tier {
	return append([]Tier(nil), p.tiers...)
}

func (p Policy) String() string {
	parts := make([]string, 0, len(p.tiers))
	for _, t := range p.tiers {
		parts = append(parts, t.Before.String()+"="+t.Percent.String())
	}
	return strings.Join(parts, ",")
}

// Split divides a held total into the refunded part and the retained part.
func (p Policy) Split(total money.Amount, now, start time.Time) (refund, retained money.Amount) {
	refund = p.Refund(total, now, start)
	return refund, total.Sub(refund)
}

// MustParsePolicy is for tests and constants.
func MustParsePolicy(s string) Policy {
	p, err := ParsePolicy(s)
	if err != nil {
		panic("cancellation: " + strconv.Quote(s) + ": " + err.Error())
	}
	return p
}
