package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/tripverse/bargain-engine/internal/domain/promo"
	ierr "github.com/tripverse/bargain-engine/internal/errors"
	"github.com/tripverse/bargain-engine/internal/logger"
)

// inMemoryPromoStore implements promo.Repository. The promo catalog is
// small and engine-local; codes are unique case-insensitively.
type inMemoryPromoStore struct {
	mu     sync.RWMutex
	byID   map[string]*promo.PromoDiscount
	byCode map[string]string
	logger *logger.Logger
}

func newInMemoryPromoStore(logger *logger.Logger) *inMemoryPromoStore {
	return &inMemoryPromoStore{
		byID:   make(map[string]*promo.PromoDiscount),
		byCode: make(map[string]string),
		logger: logger,
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func copyPromo(p *promo.PromoDiscount) *promo.PromoDiscount {
	if p == nil {
		return nil
	}
	copied := *p
	return &copied
}

func (s *inMemoryPromoStore) Create(ctx context.Context, p *promo.PromoDiscount) error {
	if p == nil {
		return ierr.NewError("promo cannot be nil").
			WithHint("Promo cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	code := normalizeCode(p.Code)
	if _, exists := s.byCode[code]; exists {
		return ierr.NewError("promo code already exists").
			WithHint("A promo with this code already exists").
			WithReportableDetails(map[string]any{"code": p.Code}).
			Mark(ierr.ErrAlreadyExists)
	}

	s.byID[p.ID] = copyPromo(p)
	s.byCode[code] = p.ID

	s.logger.Debugw("created promo", "promo_id", p.ID, "code", p.Code)
	return nil
}

func (s *inMemoryPromoStore) Get(ctx context.Context, id string) (*promo.PromoDiscount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, ierr.NewError("promo not found").
			WithHint("Promo not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyPromo(p), nil
}

func (s *inMemoryPromoStore) GetByCode(ctx context.Context, code string) (*promo.PromoDiscount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byCode[normalizeCode(code)]
	if !ok {
		return nil, ierr.NewError("promo code not found").
			WithHint("The promo code does not exist").
			WithReportableDetails(map[string]any{"code": code}).
			Mark(ierr.ErrNotFound)
	}
	return copyPromo(s.byID[id]), nil
}

func (s *inMemoryPromoStore) List(ctx context.Context) ([]*promo.PromoDiscount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	promos := lo.MapToSlice(s.byID, func(_ string, p *promo.PromoDiscount) *promo.PromoDiscount {
		return copyPromo(p)
	})
	return promos, nil
}

func (s *inMemoryPromoStore) Update(ctx context.Context, p *promo.PromoDiscount) error {
	if p == nil {
		return ierr.NewError("promo cannot be nil").
			WithHint("Promo cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[p.ID]; !ok {
		return ierr.NewError("promo not found").
			WithHint("Promo not found").
			WithReportableDetails(map[string]any{"id": p.ID}).
			Mark(ierr.ErrNotFound)
	}

	s.byID[p.ID] = copyPromo(p)
	return nil
}
