package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/health")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 10, cfg.DBMaxConns)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/health")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("DB_MAX_CONNS", "25")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 25, cfg.DBMaxConns)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestGetenvInt_Malformed(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "lots")
	assert.Equal(t, 10, getenvInt("DB_MAX_CONNS", 10))
}
