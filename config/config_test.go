package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("REFRESH_TOKEN_TTL", "3600")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://crm.example.com/, http://localhost:3000")
	t.Setenv("AI_PROVIDER", "Gemini")
	t.Setenv("FAILED_LOGIN_MAX_ATTEMPTS", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, []string{"https://crm.example.com", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "gemini", cfg.AIProvider)
	assert.Equal(t, 5, cfg.FailedLoginMaxAttempts)
	assert.Equal(t, "crm.events", cfg.EventsExchange)
}

func TestGetEnvDurationFallback(t *testing.T) {
	t.Setenv("SOME_TTL", "soon")
	assert.Equal(t, time.Second, getEnvDuration("SOME_TTL", time.Second))
}
