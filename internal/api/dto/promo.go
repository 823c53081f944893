package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tripverse/bargain-engine/internal/domain/promo"
	ierr "github.com/tripverse/bargain-engine/internal/errors"
	"github.com/tripverse/bargain-engine/internal/types"
	"github.com/tripverse/bargain-engine/internal/validator"
)

// CreatePromoRequest registers a new promo code. When Code is empty a short
// code is generated.
type CreatePromoRequest struct {
	Code          string              `json:"code,omitempty"`
	Name          string              `json:"name" binding:"required"`
	Kind          types.PromoKind     `json:"kind" binding:"required"`
	RangeLower    decimal.Decimal     `json:"range_lower"`
	RangeUpper    decimal.Decimal     `json:"range_upper"`
	Applicability types.TravelFilters `json:"applicability"`
	ValidFrom     *time.Time          `json:"valid_from,omitempty"`
	ValidTo       *time.Time          `json:"valid_to,omitempty"`
}

func (r *CreatePromoRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if !r.Kind.Validate() {
		return ierr.NewError("invalid promo kind").
			WithHint("Promo kind must be percentage or flat").
			WithReportableDetails(map[string]any{"kind": r.Kind}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToPromo converts the request to a domain promo
func (r *CreatePromoRequest) ToPromo(ctx context.Context) *promo.PromoDiscount {
	code := r.Code
	if code == "" {
		code = types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_PROMO_CODE)
	}
	return &promo.PromoDiscount{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROMO),
		Code:          code,
		Name:          r.Name,
		Kind:          r.Kind,
		RangeLower:    r.RangeLower,
		RangeUpper:    r.RangeUpper,
		Applicability: r.Applicability,
		ValidFrom:     r.ValidFrom,
		ValidTo:       r.ValidTo,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

// PromoResponse is the read model of a promo
type PromoResponse struct {
	ID            string              `json:"id"`
	Code          string              `json:"code"`
	Name          string              `json:"name"`
	Kind          types.PromoKind     `json:"kind"`
	RangeLower    decimal.Decimal     `json:"range_lower"`
	RangeUpper    decimal.Decimal     `json:"range_upper"`
	Applicability types.TravelFilters `json:"applicability"`
	ValidFrom     *time.Time          `json:"valid_from,omitempty"`
	ValidTo       *time.Time          `json:"valid_to,omitempty"`
	Status        types.Status        `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ListPromosResponse wraps the promo collection
type ListPromosResponse struct {
	Items []*PromoResponse `json:"items"`
	Total int              `json:"total"`
}

func NewPromoResponse(p *promo.PromoDiscount) *PromoResponse {
	if p == nil {
		return nil
	}
	return &PromoResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Kind:          p.Kind,
		RangeLower:    p.RangeLower,
		RangeUpper:    p.RangeUpper,
		Applicability: p.Applicability,
		ValidFrom:     p.ValidFrom,
		ValidTo:       p.ValidTo,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
