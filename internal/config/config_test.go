package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DB_URL", "postgres://localhost/warbler")
		t.Setenv("JWT_SECRET", "secret")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 5*time.Minute, cfg.AccessTTL)
		assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
		assert.Equal(t, 10, cfg.RateLimitRequests)
		assert.True(t, cfg.MigrateOnStart)
		assert.Empty(t, cfg.NATSURL)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DB_URL", "postgres://localhost/warbler")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("PORT", "9090")
		t.Setenv("ACCESS_TTL", "30s")
		t.Setenv("NATS_URL", "nats://localhost:4222")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, 30*time.Second, cfg.AccessTTL)
		assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
	})

	t.Run("missing_required", func(t *testing.T) {
		t.Setenv("DB_URL", "")
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_URL")
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})
}
