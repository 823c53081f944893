package promo

import (
	"hash/fnv"
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/tripverse/bargain-engine/internal/errors"
	"github.com/tripverse/bargain-engine/internal/types"
)

// PromoDiscount is a code-gated, bounded price reduction applied once to a
// pricing context before negotiation begins.
type PromoDiscount struct {
	ID   string          `json:"id"`
	Code string          `json:"code"`
	Name string          `json:"name"`
	Kind types.PromoKind `json:"kind"`

	// RangeLower/RangeUpper bound the discount the engine may apply.
	// Percentage kind: percent of base price. Flat kind: amount in minor units.
	RangeLower decimal.Decimal `json:"range_lower"`
	RangeUpper decimal.Decimal `json:"range_upper"`

	// Applicability is a subset-match predicate against the pricing
	// context's filters; zero-valued fields are unconstrained.
	Applicability types.TravelFilters `json:"applicability"`

	ValidFrom *time.Time `json:"valid_from,omitempty"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`

	types.BaseModel
}

// AppliedDiscount is the resolved outcome of applying a promo to a base
// price. The amount is drawn once and is stable for the life of the context.
type AppliedDiscount struct {
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Kind       types.PromoKind `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

func (p *PromoDiscount) Validate() error {
	if p.Code == "" {
		return ierr.NewError("promo code is required").
			WithHint("Promo code cannot be empty").
			Mark(ierr.ErrValidation)
	}
	if !p.Kind.Validate() {
		return ierr.NewError("invalid promo kind").
			WithHint("Promo kind must be percentage or flat").
			WithReportableDetails(map[string]any{"kind": p.Kind}).
			Mark(ierr.ErrValidation)
	}
	if p.RangeLower.IsNegative() || p.RangeUpper.LessThan(p.RangeLower) {
		return ierr.NewError("invalid discount range").
			WithHint("Discount range lower bound must be non-negative and not exceed the upper bound").
			WithReportableDetails(map[string]any{
				"range_lower": p.RangeLower,
				"range_upper": p.RangeUpper,
			}).
			Mark(ierr.ErrValidation)
	}
	if p.Kind == types.PromoKindPercentage && p.RangeUpper.GreaterThan(decimal.NewFromInt(100)) {
		return ierr.NewError("percentage discount cannot exceed 100").
			WithHint("Percentage discount upper bound cannot exceed 100").
			Mark(ierr.ErrValidation)
	}
	if p.ValidFrom != nil && p.ValidTo != nil && p.ValidTo.Before(*p.ValidFrom) {
		return ierr.NewError("invalid validity window").
			WithHint("Promo valid_to cannot precede valid_from").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsActiveAt reports whether the validity window contains the given instant
func (p *PromoDiscount) IsActiveAt(now time.Time) bool {
	if p.ValidFrom != nil && now.Before(*p.ValidFrom) {
		return false
	}
	if p.ValidTo != nil && now.After(*p.ValidTo) {
		return false
	}
	return true
}

// Resolve draws a discount within [RangeLower, RangeUpper] and applies it to
// the base price. The draw is seeded from the promo code, the base price and
// the filter key, so an identical context always resolves to the identical
// amount (idempotent redisplay).
func (p *PromoDiscount) Resolve(basePrice decimal.Decimal, filters types.TravelFilters) AppliedDiscount {
	span := p.RangeUpper.Sub(p.RangeLower)
	drawn := p.RangeLower
	if span.IsPositive() {
		frac := stableFraction(p.Code + "|" + string(p.Kind) + "|" + basePrice.String() + "|" + filters.Key())
		drawn = p.RangeLower.Add(span.Mul(decimal.NewFromFloat(frac)))
	}

	var amount decimal.Decimal
	switch p.Kind {
	case types.PromoKindPercentage:
		amount = basePrice.Mul(drawn).Div(decimal.NewFromInt(100)).Round(0)
	default:
		amount = drawn.Round(0)
	}

	// A discount can never exceed the base price
	if amount.GreaterThan(basePrice) {
		amount = basePrice
	}

	return AppliedDiscount{
		Code:       p.Code,
		Name:       p.Name,
		Kind:       p.Kind,
		Amount:     amount,
		FinalPrice: basePrice.Sub(amount),
	}
}

// stableFraction maps a key to a uniform value in [0, 1)
func stableFraction(key string) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return float64(h.Sum64()%10000) / 10000.0
}
