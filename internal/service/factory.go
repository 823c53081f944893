package service

import (
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tripverse/bargain-engine/internal/config"
	"github.com/tripverse/bargain-engine/internal/domain/concession"
	"github.com/tripverse/bargain-engine/internal/domain/promo"
	"github.com/tripverse/bargain-engine/internal/domain/session"
	"github.com/tripverse/bargain-engine/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	PromoRepo   promo.Repository
	SessionRepo session.Repository

	Calculator concession.Calculator

	// DrawFn produces the per-call random draw for the concession policy.
	// Tests replace it with a fixed draw.
	DrawFn func() float64
}

// NewServiceParams creates a new ServiceParams with all dependencies
func NewServiceParams(
	logger *logger.Logger,
	cfg *config.Configuration,
	promoRepo promo.Repository,
	sessionRepo session.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:      logger,
		Config:      cfg,
		PromoRepo:   promoRepo,
		SessionRepo: sessionRepo,
		Calculator:  concession.NewCalculator(NewConcessionConfig(cfg)),
		DrawFn:      newDrawSource().draw,
	}
}

// NewConcessionConfig maps the bargain configuration onto the policy config
func NewConcessionConfig(cfg *config.Configuration) concession.Config {
	return concession.Config{
		AcceptProbability:   cfg.Bargain.AcceptProbability,
		ShallowBand:         decimal.NewFromFloat(cfg.Bargain.ShallowBand),
		ModerateBand:        decimal.NewFromFloat(cfg.Bargain.ModerateBand),
		CounterMarkup:       decimal.NewFromFloat(cfg.Bargain.CounterMarkup),
		ModerateFloorFactor: decimal.NewFromFloat(cfg.Bargain.ModerateFloorFactor),
		PolicyFloorFactor:   decimal.NewFromFloat(cfg.Bargain.PolicyFloorFactor),
	}
}

// drawSource owns the engine's random source. Draws are taken under a
// mutex so concurrent sessions cannot influence one another's outcomes
// through a shared unguarded generator.
type drawSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newDrawSource() *drawSource {
	return &drawSource{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (d *drawSource) draw() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Float64()
}
