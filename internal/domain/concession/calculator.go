package concession

import (
	"context"

	"github.com/shopspring/decimal"

	ierr "github.com/tripverse/bargain-engine/internal/errors"
	"github.com/tripverse/bargain-engine/internal/types"
)

// Calculator decides whether a proposed price is accepted, countered or
// rejected. Implementations must be pure: identical params produce the
// identical result.
type Calculator interface {
	Decide(ctx context.Context, params Params) (*Result, error)
}

// NewCalculator creates a tiered-depth concession calculator
func NewCalculator(cfg Config) Calculator {
	return &tieredCalculator{cfg: cfg}
}

// tieredCalculator implements the discount-depth tier policy: shallow asks
// are mostly accepted, moderate asks are countered off the base price, and
// aggressive asks are countered at the policy floor.
type tieredCalculator struct {
	cfg Config
}

func (c *tieredCalculator) Decide(ctx context.Context, params Params) (*Result, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	proposed := params.ProposedPrice
	floor := params.CurrentFloor
	base := params.BasePriceAfterPromo

	// Not a discount request at all: proposing at or above the price the
	// engine has already offered is rejected without consuming anything.
	if !proposed.IsPositive() || proposed.GreaterThanOrEqual(floor) {
		return &Result{Decision: types.DecisionReject}, nil
	}

	// Requested discount depth relative to the current floor
	depth := floor.Sub(proposed).Div(floor)

	var counter decimal.Decimal
	switch {
	case depth.LessThanOrEqual(c.cfg.ShallowBand):
		if params.Draw < c.cfg.AcceptProbability {
			return &Result{Decision: types.DecisionAccept}, nil
		}
		counter = proposed.Mul(c.cfg.CounterMarkup).Round(0)

	case depth.LessThanOrEqual(c.cfg.ModerateBand):
		counter = decimal.Max(proposed, base.Mul(c.cfg.ModerateFloorFactor).Round(0))

	default:
		counter = base.Mul(c.cfg.PolicyFloorFactor).Round(0)
	}

	// The engine never counters below the policy floor, and never above the
	// price it has already conceded to in this session.
	policyFloor := base.Mul(c.cfg.PolicyFloorFactor).Round(0)
	if counter.LessThan(policyFloor) {
		counter = policyFloor
	}
	if counter.GreaterThan(floor) {
		counter = floor
	}

	// Exact-match shortcut: an empty counter is an accept
	if counter.Equal(proposed) {
		return &Result{Decision: types.DecisionAccept}, nil
	}

	return &Result{
		Decision:     types.DecisionCounter,
		CounterPrice: counter,
	}, nil
}

func validateParams(params Params) error {
	if !params.CurrentFloor.IsPositive() || !params.BasePriceAfterPromo.IsPositive() {
		return ierr.NewError("invalid concession params").
			WithHint("Current floor and base price must be positive").
			WithReportableDetails(map[string]any{
				"current_floor": params.CurrentFloor,
				"base_price":    params.BasePriceAfterPromo,
			}).
			Mark(ierr.ErrValidation)
	}
	if params.Draw < 0 || params.Draw >= 1 {
		return ierr.NewError("draw out of range").
			WithHint("Random draw must be in [0, 1)").
			WithReportableDetails(map[string]any{"draw": params.Draw}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
