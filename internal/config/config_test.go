package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMapboxToken = "pk.test-token"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, SourceParquet, cfg.DataSource)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 1000, cfg.SessionMax)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, "carto-positron", cfg.MapStyle)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DATA_SOURCE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/parking")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("SESSION_MAX", "10")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAP_STYLE", "dark")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, SourcePostgres, cfg.DataSource)
	assert.Equal(t, "postgres://localhost/parking", cfg.DatabaseURL)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.SessionMax)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, "dark", cfg.MapStyle)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidSessionTTL(t *testing.T) {
	t.Setenv("SESSION_TTL", "-1m")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_TTL")
}

func TestLoad_InvalidSessionMax(t *testing.T) {
	t.Setenv("SESSION_MAX", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_MAX")
}

func TestLoad_InvalidDataSource(t *testing.T) {
	t.Setenv("DATA_SOURCE", "pickle")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATA_SOURCE")
}

func TestLoad_SQLiteDefaultsDatabaseURL(t *testing.T) {
	t.Setenv("DATA_SOURCE", "sqlite")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "data/violations.db", cfg.DatabaseURL)
}

func TestLoad_MySQLRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATA_SOURCE", "mysql")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_MapboxTokenSwitchesStyle(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.MapStyle)
}
