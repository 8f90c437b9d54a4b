package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/NazarChaban/RestAPI-app/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/contacts")
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "development", cfg.Environment)
		assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
		assert.Equal(t, 168*time.Hour, cfg.RefreshTokenTTL)
		assert.Equal(t, "confirmation_emails", cfg.AMQP.Queue)
		assert.Equal(t, 465, cfg.SMTP.Port)
		assert.Equal(t, "json", cfg.LogFormat)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("ACCESS_TOKEN_TTL", "30m")
		t.Setenv("S3_BUCKET", "profile-pictures")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
		assert.Equal(t, "profile-pictures", cfg.S3.Bucket)
	})
}

func TestLoad_RequiredValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/contacts")
	// t.Setenv registers the restore, Unsetenv makes the variable truly absent.
	t.Setenv("JWT_SECRET", "placeholder")
	os.Unsetenv("JWT_SECRET")

	_, err := config.Load()
	assert.Error(t, err)
}
