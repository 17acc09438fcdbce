package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/healthportal/portal/internal/domain/analytics"
)

type Config struct {
	Port           string        `mapstructure:"PORT"`
	Env            string        `mapstructure:"ENV"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	LogFile        string        `mapstructure:"LOG_FILE"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`

	// AnalyticsSeed pins the synthesizer. 0 means a fresh seed per request.
	AnalyticsSeed         int64  `mapstructure:"ANALYTICS_SEED"`
	AnalyticsDefaultRange string `mapstructure:"ANALYTICS_DEFAULT_RANGE"`
	UsageBufferSize       int    `mapstructure:"USAGE_BUFFER_SIZE"`
}

var keys = []string{
	"PORT",
	"ENV",
	"LOG_LEVEL",
	"LOG_FILE",
	"CORS_ORIGINS",
	"RATE_LIMIT_RPS",
	"RATE_LIMIT_BURST",
	"REQUEST_TIMEOUT",
	"ANALYTICS_SEED",
	"ANALYTICS_DEFAULT_RANGE",
	"USAGE_BUFFER_SIZE",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("ANALYTICS_SEED", 0)
	v.SetDefault("ANALYTICS_DEFAULT_RANGE", string(analytics.Range7d))
	v.SetDefault("USAGE_BUFFER_SIZE", 10000)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// .env is optional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if origins := v.GetString("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	return cfg, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Validate checks that the configuration is usable before the server starts.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level: %w", c.LogLevel, err)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", c.RateLimitRPS)
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive, got %d", c.RateLimitBurst)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if _, ok := analytics.ParseRange(c.AnalyticsDefaultRange); !ok {
		return fmt.Errorf("ANALYTICS_DEFAULT_RANGE must be one of 7d, 30d, 90d, got %q", c.AnalyticsDefaultRange)
	}
	if c.UsageBufferSize <= 0 {
		return fmt.Errorf("USAGE_BUFFER_SIZE must be positive, got %d", c.UsageBufferSize)
	}
	return nil
}
