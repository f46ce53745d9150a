package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("APP_ENV wins over GIN_MODE", func(t *testing.T) {
		t.Setenv("APP_ENV", "Staging")
		t.Setenv("GIN_MODE", "release")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "staging", cfg.Environment())
		assert.False(t, cfg.IsProduction())
	})

	t.Run("release mode without APP_ENV is production", func(t *testing.T) {
		t.Setenv("APP_ENV", "")
		t.Setenv("GIN_MODE", "release")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, EnvProduction, cfg.Environment())
		assert.True(t, cfg.EnableErrorReporting)
	})

	t.Run("reads typed values and keeps raw keys", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		t.Setenv("SMTP_HOST", "smtp.example.com")
		t.Setenv("RELAY_TIMEOUT_SECONDS", "12")
		t.Setenv("MAINTENANCE_MODE", "true")
		t.Setenv("CONTACT_RATE_LIMIT_THRESHOLD", "not-a-number")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "smtp.example.com", cfg.SMTPHost)
		assert.Equal(t, 12.0, cfg.RelayTimeout.Seconds())
		assert.True(t, cfg.MaintenanceMode)
		assert.Equal(t, 5, cfg.ContactRateLimitThreshold)

		v, ok := cfg.Get("SMTP_HOST")
		assert.True(t, ok)
		assert.Equal(t, "smtp.example.com", v)
	})
}

func TestConfigGet(t *testing.T) {
	cfg := New(EnvDevelopment, map[string]string{
		"SMTP_HOST":     "smtp.example.com",
		"SMTP_PASSWORD": "   ",
	})

	_, ok := cfg.Get("SMTP_PASSWORD")
	assert.False(t, ok, "blank values count as absent")

	_, ok = cfg.Get("CONTACT_EMAIL_TO")
	assert.False(t, ok)

	v, ok := cfg.Get("SMTP_HOST")
	assert.True(t, ok)
	assert.Equal(t, "smtp.example.com", v)
}
