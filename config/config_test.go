package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
	assert.Equal(t, 15, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 200, cfg.RateLimit.APIMax)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.APIWindow)
	assert.Equal(t, 15*time.Second, cfg.RateLimit.MessageCooldown)
	assert.True(t, cfg.Seed.DemoAccounts)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("FRONTEND_URL", "https://a.example.com, https://b.example.com")
	t.Setenv("RATE_LIMIT_MESSAGE_WINDOW", "10s")
	t.Setenv("SEED_DEMO_ACCOUNTS", "false")
	t.Setenv("RESEND_API_KEY", "re_123")
	t.Setenv("APP_URL", "https://healthy.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.MessageWindow)
	assert.False(t, cfg.Seed.DemoAccounts)
	assert.True(t, cfg.Email.Enabled())
	assert.Equal(t, "https://healthy.example.com", cfg.Email.AppURL)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := map[string]string{
		"SERVER_PORT":            "abc",
		"RATE_LIMIT_API_WINDOW":  "fifteen",
		"RATE_LIMIT_MESSAGE_MAX": "0",
		"SEED_DEMO_ACCOUNTS":     "maybe",
	}

	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "s")
			t.Setenv(key, val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
