package service

import (
	"context"

	"github.com/samber/lo"

	"github.com/tripverse/bargain-engine/internal/api/dto"
	"github.com/tripverse/bargain-engine/internal/domain/promo"
	ierr "github.com/tripverse/bargain-engine/internal/errors"
	"github.com/tripverse/bargain-engine/internal/types"
)

// PromoService manages the promo code catalog
type PromoService interface {
	CreatePromo(ctx context.Context, req dto.CreatePromoRequest) (*dto.PromoResponse, error)
	GetPromo(ctx context.Context, id string) (*dto.PromoResponse, error)
	ListPromos(ctx context.Context) (*dto.ListPromosResponse, error)
	DisablePromo(ctx context.Context, id string) (*dto.PromoResponse, error)
}

type promoService struct {
	ServiceParams
}

// NewPromoService creates a new promo service
func NewPromoService(params ServiceParams) PromoService {
	return &promoService{
		ServiceParams: params,
	}
}

func (s *promoService) CreatePromo(ctx context.Context, req dto.CreatePromoRequest) (*dto.PromoResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToPromo(ctx)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.PromoRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("created promo",
		"promo_id", p.ID,
		"code", p.Code,
		"kind", p.Kind)

	return dto.NewPromoResponse(p), nil
}

func (s *promoService) GetPromo(ctx context.Context, id string) (*dto.PromoResponse, error) {
	p, err := s.PromoRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPromoResponse(p), nil
}

func (s *promoService) ListPromos(ctx context.Context) (*dto.ListPromosResponse, error) {
	promos, err := s.PromoRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := lo.Map(promos, func(p *promo.PromoDiscount, _ int) *dto.PromoResponse {
		return dto.NewPromoResponse(p)
	})

	return &dto.ListPromosResponse{
		Items: items,
		Total: len(items),
	}, nil
}

func (s *promoService) DisablePromo(ctx context.Context, id string) (*dto.PromoResponse, error) {
	p, err := s.PromoRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Status == types.StatusArchived {
		return nil, ierr.NewError("promo already disabled").
			WithHint("The promo code is already disabled").
			WithReportableDetails(map[string]any{"promo_id": id}).
			Mark(ierr.ErrInvalidOperation)
	}

	p.Status = types.StatusArchived
	if err := s.PromoRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("disabled promo",
		"promo_id", p.ID,
		"code", p.Code)

	return dto.NewPromoResponse(p), nil
}
