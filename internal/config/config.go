// Package config loads process settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port      string
	DBURL     string
	StaticDir string

	MigrateOnStart bool

	JWTSecret  string
	AccessTTL  time.Duration
	SessionTTL time.Duration

	NATSURL      string
	NATSCred     string
	NATSUser     string
	NATSPassword string

	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Load reads .env (if present) and then the process environment. DB_URL and
// JWT_SECRET are required.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "error", err)
	}

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("STATIC_DIR", "static")
	v.SetDefault("MIGRATE_ON_START", true)
	v.SetDefault("ACCESS_TTL", "5m")
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("RATE_LIMIT_REQUESTS", 10)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{"DB_URL", "JWT_SECRET", "NATS_URL", "NATS_CRED", "NATS_USER", "NATS_PASSWORD"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("internal/config: bind %s: %w", key, err)
		}
	}

	cfg := Config{
		Port:              v.GetString("PORT"),
		DBURL:             v.GetString("DB_URL"),
		StaticDir:         v.GetString("STATIC_DIR"),
		MigrateOnStart:    v.GetBool("MIGRATE_ON_START"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		AccessTTL:         v.GetDuration("ACCESS_TTL"),
		SessionTTL:        v.GetDuration("SESSION_TTL"),
		NATSURL:           v.GetString("NATS_URL"),
		NATSCred:          v.GetString("NATS_CRED"),
		NATSUser:          v.GetString("NATS_USER"),
		NATSPassword:      v.GetString("NATS_PASSWORD"),
		RateLimitRequests: v.GetInt("RATE_LIMIT_REQUESTS"),
		RateLimitWindow:   v.GetDuration("RATE_LIMIT_WINDOW"),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var errs []error
	if c.DBURL == "" {
		errs = append(errs, errors.New("DB_URL environment variable is not set"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable is not set"))
	}
	if c.AccessTTL <= 0 || c.SessionTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TTL and SESSION_TTL must be positive durations"))
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("internal/config: %w", err)
	}
	return nil
}
