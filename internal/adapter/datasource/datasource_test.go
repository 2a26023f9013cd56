package datasource_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/adapter/datasource"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/adapter/parquetstore"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/adapter/sqlstore"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/config"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Parquet(t *testing.T) {
	cfg := &config.Config{DataSource: config.SourceParquet, DataDir: t.TempDir()}

	src, err := datasource.Open(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	assert.IsType(t, &parquetstore.Store{}, src)
	assert.ErrorIs(t, src.CheckReadiness(context.Background()), domain.ErrMissingDataFile)
}

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{DataSource: config.SourceSQLite, DatabaseURL: filepath.Join(t.TempDir(), "v.db")}

	src, err := datasource.Open(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	assert.IsType(t, &sqlstore.Store{}, src)
}

func TestOpen_Unsupported(t *testing.T) {
	_, err := datasource.Open(context.Background(), &config.Config{DataSource: "csv"})
	require.Error(t, err)
}

func TestDescribe_HidesDSN(t *testing.T) {
	cfg := &config.Config{DataSource: config.SourcePostgres, DatabaseURL: "postgres://user:secret@db/violations"}
	assert.Equal(t, "postgres database", datasource.Describe(cfg))
	assert.NotContains(t, datasource.Describe(cfg), "secret")
}
