package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tripverse/bargain-engine/internal/domain/promo"
	ierr "github.com/tripverse/bargain-engine/internal/errors"
	"github.com/tripverse/bargain-engine/internal/types"
	"github.com/tripverse/bargain-engine/internal/validator"
)

// PricingContextRequest is the buyer-side description of what is being
// priced. It appears standalone in quote calls and embedded when opening a
// bargain session.
type PricingContextRequest struct {
	ProductType types.ProductType   `json:"product_type" binding:"required"`
	BasePrice   decimal.Decimal     `json:"base_price" binding:"required"`
	Filters     types.TravelFilters `json:"filters"`
	PromoCode   string              `json:"promo_code,omitempty"`
}

func (r *PricingContextRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if !r.ProductType.Validate() {
		return ierr.NewError("invalid product type").
			WithHint("Product type must be one of flight, hotel, package, transfer, sightseeing").
			WithReportableDetails(map[string]any{"product_type": r.ProductType}).
			Mark(ierr.ErrValidation)
	}
	if !r.BasePrice.IsPositive() {
		return ierr.NewError("base price must be positive").
			WithHint("Base price must be greater than zero").
			WithReportableDetails(map[string]any{"base_price": r.BasePrice}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// QuoteRequest asks for the post-promo price and the suggested bargain range
type QuoteRequest struct {
	PricingContextRequest
}

// SuggestedRange is non-binding guidance for UI placeholder text
type SuggestedRange struct {
	Low  decimal.Decimal `json:"low"`
	High decimal.Decimal `json:"high"`
}

// PromoAppliedResponse reports the resolved promo discount on a quote
type PromoAppliedResponse struct {
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Kind       types.PromoKind `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

// PromoErrorDetail reports why a promo code was not applied. Promo failures
// are recoverable: the quote still succeeds without the promo.
type PromoErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// QuoteResponse is the engine's pricing answer; it never mutates session state
type QuoteResponse struct {
	ProductType         types.ProductType     `json:"product_type"`
	BasePrice           decimal.Decimal       `json:"base_price"`
	BasePriceAfterPromo decimal.Decimal       `json:"base_price_after_promo"`
	SuggestedRange      SuggestedRange        `json:"suggested_range"`
	PromoApplied        *PromoAppliedResponse `json:"promo_applied,omitempty"`
	PromoError          *PromoErrorDetail     `json:"promo_error,omitempty"`
}

func NewPromoAppliedResponse(applied *promo.AppliedDiscount) *PromoAppliedResponse {
	if applied == nil {
		return nil
	}
	return &PromoAppliedResponse{
		Code:       applied.Code,
		Name:       applied.Name,
		Kind:       applied.Kind,
		Amount:     applied.Amount,
		FinalPrice: applied.FinalPrice,
	}
}
