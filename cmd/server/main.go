package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/tripverse/bargain-engine/internal/api"
	v1 "github.com/tripverse/bargain-engine/internal/api/v1"
	"github.com/tripverse/bargain-engine/internal/cache"
	"github.com/tripverse/bargain-engine/internal/config"
	"github.com/tripverse/bargain-engine/internal/logger"
	"github.com/tripverse/bargain-engine/internal/repository"
	"github.com/tripverse/bargain-engine/internal/service"
	"github.com/tripverse/bargain-engine/internal/validator"
)

// @title Bargain Engine API
// @version 1.0
// @description Negotiation and dynamic pricing service for travel products
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Repositories
			repository.NewSessionRepository,
			repository.NewPromoRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewPricingService,
			service.NewBargainService,
			service.NewPromoService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			registerValidator,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func registerValidator() {
	validator.NewValidator()
}

func provideHandlers(
	logger *logger.Logger,
	pricingService service.PricingService,
	bargainService service.BargainService,
	promoService service.PromoService,
) api.Handlers {
	return api.Handlers{
		Health:  v1.NewHealthHandler(),
		Pricing: v1.NewPricingHandler(pricingService, logger),
		Bargain: v1.NewBargainHandler(bargainService, logger),
		Promo:   v1.NewPromoHandler(promoService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
