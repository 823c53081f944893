package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/tripverse/bargain-engine/internal/types"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Bargain    BargainConfig    `validate:"required"`
	RateLimit  RateLimitConfig
	Cache      CacheConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

// BargainConfig carries the concession policy knobs and session limits.
// The band thresholds and multipliers default to the observed storefront
// policy but are deployment configuration, not domain invariants.
type BargainConfig struct {
	MaxRounds  int           `validate:"required,gte=1,lte=10"`
	SessionTTL time.Duration `validate:"required"`

	// AcceptProbability is the chance a shallow ask is accepted outright
	AcceptProbability float64 `validate:"gte=0,lte=1"`
	// ShallowBand and ModerateBand are the discount-depth tier boundaries
	ShallowBand  float64 `validate:"gt=0,lt=1"`
	ModerateBand float64 `validate:"gt=0,lt=1"`
	// CounterMarkup is applied to a shallow ask that is not accepted
	CounterMarkup float64 `validate:"gt=1"`
	// ModerateFloorFactor and PolicyFloorFactor are fractions of the
	// post-promo base price; PolicyFloorFactor is the hard counter floor
	ModerateFloorFactor float64 `validate:"gt=0,lt=1"`
	PolicyFloorFactor   float64 `validate:"gt=0,lt=1"`

	// SuggestedRangeLow/High bound the non-binding quote guidance
	SuggestedRangeLow  float64 `validate:"gt=0,lt=1"`
	SuggestedRangeHigh float64 `validate:"gt=0,lte=1"`
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

type CacheConfig struct {
	Enabled bool
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/bargain-engine")

	v.SetEnvPrefix("BARGAIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))

	v.SetDefault("bargain.maxrounds", 3)
	v.SetDefault("bargain.sessionttl", "15m")
	v.SetDefault("bargain.acceptprobability", 0.80)
	v.SetDefault("bargain.shallowband", 0.30)
	v.SetDefault("bargain.moderateband", 0.50)
	v.SetDefault("bargain.countermarkup", 1.05)
	v.SetDefault("bargain.moderatefloorfactor", 0.75)
	v.SetDefault("bargain.policyfloorfactor", 0.65)
	v.SetDefault("bargain.suggestedrangelow", 0.70)
	v.SetDefault("bargain.suggestedrangehigh", 0.95)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requestspersecond", 5)
	v.SetDefault("ratelimit.burst", 10)

	v.SetDefault("cache.enabled", true)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Bargain.ShallowBand >= c.Bargain.ModerateBand {
		return fmt.Errorf("bargain.shallowband must be below bargain.moderateband")
	}
	if c.Bargain.SuggestedRangeLow >= c.Bargain.SuggestedRangeHigh {
		return fmt.Errorf("bargain.suggestedrangelow must be below bargain.suggestedrangehigh")
	}
	return nil
}

// GetDefaultConfig returns a default configuration for local development
// and tests. The policy numbers match the production defaults above.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
		Bargain: BargainConfig{
			MaxRounds:           3,
			SessionTTL:          15 * time.Minute,
			AcceptProbability:   0.80,
			ShallowBand:         0.30,
			ModerateBand:        0.50,
			CounterMarkup:       1.05,
			ModerateFloorFactor: 0.75,
			PolicyFloorFactor:   0.65,
			SuggestedRangeLow:   0.70,
			SuggestedRangeHigh:  0.95,
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerSecond: 5,
			Burst:             10,
		},
		Cache: CacheConfig{Enabled: true},
	}
}
