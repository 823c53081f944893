package concession

import (
	"github.com/shopspring/decimal"

	"github.com/tripverse/bargain-engine/internal/types"
)

// Params is the full input of a single policy evaluation. Draw carries the
// randomness for the shallow-ask accept branch as an explicit value in
// [0, 1), so the policy itself stays deterministic and testable.
type Params struct {
	ProposedPrice       decimal.Decimal
	CurrentFloor        decimal.Decimal
	BasePriceAfterPromo decimal.Decimal
	Draw                float64
}

// Result is a tagged decision. CounterPrice is set only for counters.
type Result struct {
	Decision     types.DecisionKind
	CounterPrice decimal.Decimal
}

// Config carries the tier thresholds and multipliers. The defaults mirror
// the storefront policy; they are deployment configuration, not invariants.
type Config struct {
	// AcceptProbability is the chance a shallow ask is accepted outright
	AcceptProbability float64
	// ShallowBand is the discount depth up to which an ask is shallow
	ShallowBand decimal.Decimal
	// ModerateBand is the discount depth up to which an ask is moderate
	ModerateBand decimal.Decimal
	// CounterMarkup is applied to a shallow ask that is not accepted
	CounterMarkup decimal.Decimal
	// ModerateFloorFactor of the post-promo base anchors moderate counters
	ModerateFloorFactor decimal.Decimal
	// PolicyFloorFactor of the post-promo base is the hard counter floor
	PolicyFloorFactor decimal.Decimal
}

// DefaultConfig returns the observed storefront policy
func DefaultConfig() Config {
	return Config{
		AcceptProbability:   0.80,
		ShallowBand:         decimal.NewFromFloat(0.30),
		ModerateBand:        decimal.NewFromFloat(0.50),
		CounterMarkup:       decimal.NewFromFloat(1.05),
		ModerateFloorFactor: decimal.NewFromFloat(0.75),
		PolicyFloorFactor:   decimal.NewFromFloat(0.65),
	}
}
