package promo

import (
	"context"
)

// Repository defines the interface for promo data access
type Repository interface {
	Create(ctx context.Context, promo *PromoDiscount) error
	Get(ctx context.Context, id string) (*PromoDiscount, error)
	GetByCode(ctx context.Context, code string) (*PromoDiscount, error)
	List(ctx context.Context) ([]*PromoDiscount, error)
	Update(ctx context.Context, promo *PromoDiscount) error
}
