package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/tripverse/bargain-engine/internal/domain/promo"
	ierr "github.com/tripverse/bargain-engine/internal/errors"
	"github.com/tripverse/bargain-engine/internal/types"
)

// Context is the immutable input to a negotiation: product, base price,
// selection filters and the optionally resolved promo discount. Changing any
// of these requires building a new context (and a new session).
type Context struct {
	ProductType         types.ProductType     `json:"product_type"`
	BasePrice           decimal.Decimal       `json:"base_price"`
	Filters             types.TravelFilters   `json:"filters"`
	AppliedPromo        *promo.AppliedDiscount `json:"applied_promo,omitempty"`
	BasePriceAfterPromo decimal.Decimal       `json:"base_price_after_promo"`
}

// Build validates the inputs and assembles a pricing context. The promo, if
// given, must already be resolved against the same base price and filters.
func Build(productType types.ProductType, basePrice decimal.Decimal, filters types.TravelFilters, applied *promo.AppliedDiscount) (Context, error) {
	if !productType.Validate() {
		return Context{}, ierr.NewError("invalid product type").
			WithHint("Product type must be one of flight, hotel, package, transfer, sightseeing").
			WithReportableDetails(map[string]any{"product_type": productType}).
			Mark(ierr.ErrValidation)
	}
	if !basePrice.IsPositive() {
		return Context{}, ierr.NewError("base price must be positive").
			WithHint("Base price must be greater than zero").
			WithReportableDetails(map[string]any{"base_price": basePrice}).
			Mark(ierr.ErrValidation)
	}
	if err := filters.Validate(productType); err != nil {
		return Context{}, ierr.WithError(err).
			WithHint("Selection filters do not match the product type").
			Mark(ierr.ErrValidation)
	}

	after := basePrice
	if applied != nil {
		if !applied.FinalPrice.IsPositive() {
			return Context{}, ierr.NewError("promo discount consumes the entire base price").
				WithHint("The resolved promo discount leaves no negotiable price").
				WithReportableDetails(map[string]any{
					"base_price": basePrice,
					"discount":   applied.Amount,
				}).
				Mark(ierr.ErrValidation)
		}
		after = applied.FinalPrice
	}

	return Context{
		ProductType:         productType,
		BasePrice:           basePrice,
		Filters:             filters,
		AppliedPromo:        applied,
		BasePriceAfterPromo: after,
	}, nil
}
