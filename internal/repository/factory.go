package repository

import (
	"github.com/tripverse/bargain-engine/internal/cache"
	"github.com/tripverse/bargain-engine/internal/config"
	"github.com/tripverse/bargain-engine/internal/domain/promo"
	"github.com/tripverse/bargain-engine/internal/domain/session"
	"github.com/tripverse/bargain-engine/internal/logger"
)

func NewSessionRepository(cfg *config.Configuration, c cache.Cache, logger *logger.Logger) session.Repository {
	return newCachedSessionStore(cfg, c, logger)
}

func NewPromoRepository(logger *logger.Logger) promo.Repository {
	return newInMemoryPromoStore(logger)
}
