// Package datasource opens the table store selected by DATA_SOURCE.
package datasource

import (
	"context"
	"fmt"
	"io"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/adapter/parquetstore"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/adapter/sqlstore"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/config"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/pipeline"
)

// Source is a table store that holds resources until closed.
type Source interface {
	pipeline.Source
	io.Closer
}

var (
	_ Source = (*parquetstore.Store)(nil)
	_ Source = (*sqlstore.Store)(nil)
)

// Open returns the store for cfg.DataSource.
func Open(ctx context.Context, cfg *config.Config) (Source, error) {
	switch cfg.DataSource {
	case config.SourceParquet:
		return parquetstore.New(cfg.DataDir), nil
	case config.SourceSQLite, config.SourcePostgres, config.SourceMySQL:
		s, err := sqlstore.Open(ctx, sqlstore.Backend(cfg.DataSource), cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported data source: %s", cfg.DataSource)
	}
}

// Describe returns a log-safe location for cfg's source. DSNs are omitted
// since they may carry credentials.
func Describe(cfg *config.Config) string {
	if cfg.DataSource == config.SourceParquet {
		return cfg.DataDir
	}
	if cfg.DataSource == config.SourceSQLite {
		return cfg.DatabaseURL
	}
	return cfg.DataSource + " database"
}
