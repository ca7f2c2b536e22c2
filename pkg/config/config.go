package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	ChequeImageDir string
	PosthogAPIKey  string

	RateLimitRequests int64
	RateLimitPeriod   time.Duration

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("CHEQUE_IMAGE_DIR", "cheque_images")
	v.SetDefault("RATE_LIMIT_REQUESTS", int64(100))
	v.SetDefault("RATE_LIMIT_PERIOD", time.Minute)

	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		ChequeImageDir:     v.GetString("CHEQUE_IMAGE_DIR"),
		PosthogAPIKey:      v.GetString("POSTHOG_API_KEY"),
		RateLimitRequests:  v.GetInt64("RATE_LIMIT_REQUESTS"),
		RateLimitPeriod:    v.GetDuration("RATE_LIMIT_PERIOD"),
		CORSAllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("PGSQL_URL environment variable not set")
	}

	return cfg, nil
}
