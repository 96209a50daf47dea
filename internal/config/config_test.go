package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "3001", cfg.Port)
	assert.NotEmpty(t, cfg.DatabaseURL)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, 1000, cfg.WSMaxConns)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("WS_MAX_CONNS", "250")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 250, cfg.WSMaxConns)
	assert.True(t, cfg.IsProduction())
}

func TestLoadIgnoresMalformedInt(t *testing.T) {
	t.Setenv("WS_MAX_CONNS", "plenty")

	cfg := Load()
	assert.Equal(t, 1000, cfg.WSMaxConns)
}
