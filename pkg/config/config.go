// Package config loads application configuration from the environment.
package config

import (
	"log"
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

	// RateLimit is the per-IP request budget, e.g. "100-M" for 100 per
	// minute. Empty disables rate limiting.
	RateLimit string

	// LockWaitTimeout bounds how long a ledger operation waits for a
	// contended account lock before failing.
	LockWaitTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and a .env file
// if present. Environment variables take precedence over .env values.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("LOCK_WAIT_TIMEOUT", "5s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Falling back to the in-memory store; data will not survive a restart.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	lockWaitStr := viper.GetString("LOCK_WAIT_TIMEOUT")
	lockWait, err := time.ParseDuration(lockWaitStr)
	if err != nil {
		lockWait = 5 * time.Second
		if lockWaitStr != "" {
			log.Printf("Warning: Invalid value for LOCK_WAIT_TIMEOUT ('%s'). Defaulting to %s.\n", lockWaitStr, lockWait)
		}
	}
	cfg.LockWaitTimeout = lockWait

	return cfg, nil
}
