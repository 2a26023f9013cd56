package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Supported values for DATA_SOURCE.
const (
	SourceParquet  = "parquet"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
	SourceMySQL    = "mysql"
)

// DefaultSQLitePath is the database file used when DATA_SOURCE is sqlite and
// DATABASE_URL is unset.
const DefaultSQLitePath = "data/violations.db"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dataset storage.
	DataSource  string
	DataDir     string
	DatabaseURL string

	// Session-scoped view cache.
	SessionTTL time.Duration
	SessionMax int

	// Map presentation.
	MapboxToken string
	MapStyle    string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	sessionTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("SESSION_TTL", "30m"))
	if err != nil || sessionTTL <= 0 {
		return nil, errors.New("invalid SESSION_TTL")
	}

	sessionMax, err := parseSessionMax()
	if err != nil {
		return nil, err
	}

	dataSource := sharedcfg.EnvOrDefault("DATA_SOURCE", SourceParquet)

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" && dataSource == SourceSQLite {
		databaseURL = DefaultSQLitePath
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapStyle := os.Getenv("MAP_STYLE")
	if mapStyle == "" {
		mapStyle = "carto-positron"
		if mapboxToken != "" {
			mapStyle = "light"
		}
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataSource:  dataSource,
		DataDir:     sharedcfg.EnvOrDefault("DATA_DIR", "data"),
		DatabaseURL: databaseURL,

		SessionTTL: sessionTTL,
		SessionMax: sessionMax,

		MapboxToken: mapboxToken,
		MapStyle:    mapStyle,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the data source settings are complete.
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceParquet:
		if c.DataDir == "" {
			return errors.New("DATA_DIR is required for the parquet source")
		}
	case SourceSQLite, SourcePostgres, SourceMySQL:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for DATA_SOURCE " + c.DataSource)
		}
	default:
		return errors.New("invalid DATA_SOURCE: must be parquet, sqlite, postgres or mysql")
	}
	return nil
}

func parseSessionMax() (int, error) {
	s := os.Getenv("SESSION_MAX")
	if s == "" {
		return 1000, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid SESSION_MAX: must be a positive integer")
	}
	return n, nil
}
