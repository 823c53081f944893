package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	v1 "github.com/tripverse/bargain-engine/internal/api/v1"
	"github.com/tripverse/bargain-engine/internal/config"
	"github.com/tripverse/bargain-engine/internal/logger"
	"github.com/tripverse/bargain-engine/internal/rest/middleware"
	"github.com/tripverse/bargain-engine/internal/types"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Pricing *v1.PricingHandler
	Bargain *v1.BargainHandler
	Promo   *v1.PromoHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode == types.ModeProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// ErrorHandler renders errors raised anywhere downstream, including
	// rate limiter aborts, so it sits ahead of them in the chain
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(),
		middleware.RateLimiter(cfg.RateLimit),
	)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	router.GET("/health", handlers.Health.Health)

	// Pricing routes
	pricing := router.Group("/pricing")
	{
		pricing.POST("/quote", handlers.Pricing.Quote)
	}

	// Bargain routes
	bargain := router.Group("/bargain")
	{
		bargain.POST("/sessions", handlers.Bargain.OpenSession)
		bargain.GET("/sessions/:id", handlers.Bargain.GetSession)
		bargain.POST("/sessions/:id/offers", handlers.Bargain.SubmitOffer)
		bargain.POST("/sessions/:id/accept", handlers.Bargain.AcceptCounter)
	}

	// Promo routes
	promos := router.Group("/promos")
	{
		promos.POST("", handlers.Promo.CreatePromo)
		promos.GET("", handlers.Promo.ListPromos)
		promos.GET("/:id", handlers.Promo.GetPromo)
		promos.POST("/:id/disable", handlers.Promo.DisablePromo)
	}
}
