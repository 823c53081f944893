package service

import (
	"context"
	"time"

	"github.com/tripverse/bargain-engine/internal/api/dto"
	"github.com/tripverse/bargain-engine/internal/domain/pricing"
	"github.com/tripverse/bargain-engine/internal/domain/promo"
	ierr "github.com/tripverse/bargain-engine/internal/errors"
	"github.com/tripverse/bargain-engine/internal/types"

	"github.com/shopspring/decimal"
)

// PricingService validates promo codes and assembles the immutable pricing
// context a negotiation starts from
type PricingService interface {
	// Quote returns the post-promo price and the non-binding suggested
	// bargain range; it never mutates session state
	Quote(ctx context.Context, req dto.QuoteRequest) (*dto.QuoteResponse, error)

	// BuildContext assembles a pricing context from a request. Promo
	// failures are recoverable: the context is built without the promo and
	// the typed reason is returned alongside.
	BuildContext(ctx context.Context, req dto.PricingContextRequest) (pricing.Context, *dto.PromoErrorDetail, error)

	// ValidatePromo checks a code against the filters and validity window
	ValidatePromo(ctx context.Context, code string, filters types.TravelFilters, productType types.ProductType) (*promo.PromoDiscount, error)
}

type pricingService struct {
	ServiceParams
}

// NewPricingService creates a new pricing service
func NewPricingService(params ServiceParams) PricingService {
	return &pricingService{
		ServiceParams: params,
	}
}

func (s *pricingService) Quote(ctx context.Context, req dto.QuoteRequest) (*dto.QuoteResponse, error) {
	pctx, promoErr, err := s.BuildContext(ctx, req.PricingContextRequest)
	if err != nil {
		return nil, err
	}

	low := pctx.BasePriceAfterPromo.Mul(decimal.NewFromFloat(s.Config.Bargain.SuggestedRangeLow)).Round(0)
	high := pctx.BasePriceAfterPromo.Mul(decimal.NewFromFloat(s.Config.Bargain.SuggestedRangeHigh)).Round(0)

	response := &dto.QuoteResponse{
		ProductType:         pctx.ProductType,
		BasePrice:           pctx.BasePrice,
		BasePriceAfterPromo: pctx.BasePriceAfterPromo,
		SuggestedRange:      dto.SuggestedRange{Low: low, High: high},
		PromoApplied:        dto.NewPromoAppliedResponse(pctx.AppliedPromo),
		PromoError:          promoErr,
	}

	s.Logger.Debugw("priced quote",
		"product_type", pctx.ProductType,
		"base_price", pctx.BasePrice,
		"base_price_after_promo", pctx.BasePriceAfterPromo,
		"promo_applied", pctx.AppliedPromo != nil)

	return response, nil
}

func (s *pricingService) BuildContext(ctx context.Context, req dto.PricingContextRequest) (pricing.Context, *dto.PromoErrorDetail, error) {
	if err := req.Validate(); err != nil {
		return pricing.Context{}, nil, err
	}

	var applied *promo.AppliedDiscount
	var promoErr *dto.PromoErrorDetail

	if req.PromoCode != "" {
		p, err := s.ValidatePromo(ctx, req.PromoCode, req.Filters, req.ProductType)
		switch {
		case err == nil:
			resolved := p.Resolve(req.BasePrice, req.Filters)
			applied = &resolved
		case ierr.IsPromoError(err):
			// Recoverable: the quote proceeds without the promo
			promoErr = &dto.PromoErrorDetail{
				Code:    ierr.ErrCodeFromErr(err),
				Message: err.Error(),
			}
			s.Logger.Infow("promo not applied",
				"promo_code", req.PromoCode,
				"reason", promoErr.Code)
		default:
			return pricing.Context{}, nil, err
		}
	}

	pctx, err := pricing.Build(req.ProductType, req.BasePrice, req.Filters, applied)
	if err != nil {
		return pricing.Context{}, nil, err
	}

	return pctx, promoErr, nil
}

func (s *pricingService) ValidatePromo(ctx context.Context, code string, filters types.TravelFilters, productType types.ProductType) (*promo.PromoDiscount, error) {
	if code == "" {
		return nil, ierr.NewError("promo code is required").
			WithHint("Promo code cannot be empty").
			Mark(ierr.ErrValidation)
	}
	if err := filters.Validate(productType); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Selection filters do not match the product type").
			Mark(ierr.ErrValidation)
	}

	p, err := s.PromoRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if p.Status != types.StatusPublished {
		return nil, ierr.NewError("promo code is disabled").
			WithHint("The promo code is no longer available").
			WithReportableDetails(map[string]any{"code": code}).
			Mark(ierr.ErrNotFound)
	}

	now := time.Now().UTC()
	if p.ValidTo != nil && now.After(*p.ValidTo) {
		return nil, ierr.NewError("promo code expired").
			WithHint("The promo code has expired").
			WithReportableDetails(map[string]any{
				"code":     code,
				"valid_to": p.ValidTo,
			}).
			Mark(ierr.ErrPromoExpired)
	}
	if !p.IsActiveAt(now) {
		return nil, ierr.NewError("promo code not yet active").
			WithHint("The promo code is not active yet").
			WithReportableDetails(map[string]any{
				"code":       code,
				"valid_from": p.ValidFrom,
			}).
			Mark(ierr.ErrPromoNotApplicable)
	}

	if !p.Applicability.SatisfiedBy(filters) {
		return nil, ierr.NewError("promo code not applicable").
			WithHint("The promo code does not apply to this selection").
			WithReportableDetails(map[string]any{
				"code":         code,
				"product_type": productType,
			}).
			Mark(ierr.ErrPromoNotApplicable)
	}

	return p, nil
}
