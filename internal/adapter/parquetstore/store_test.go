package parquetstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/domain"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testGeo = []domain.RawGeoRow{
		{Street: "Main St", Lat: 40.71, Long: -74.00, Violations: 5},
		{Street: "Atlantic Ave", Lat: 40.6862, Long: -73.9776, Violations: 412},
	}
	testMonthly = []domain.RawMonthlyRow{
		{MonthYear: "2024-01", Violations: 100},
		{MonthYear: "2024-03", Violations: 50},
	}
	testHourly = []domain.RawHourlyRow{
		{Hour: 8, Violations: 900},
		{Hour: 9, Violations: 1200},
	}
)

func writeFixture(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, s.WriteTables(testGeo, testMonthly, testHourly))
	return s
}

func TestRawRowStructTags(t *testing.T) {
	tests := []struct {
		name    string
		schema  *parquet.Schema
		columns []string
	}{
		{"geo", parquet.SchemaOf(new(domain.RawGeoRow)), []string{"street", "lat", "long", "violations"}},
		{"monthly", parquet.SchemaOf(new(domain.RawMonthlyRow)), []string{"Month-Year", "Violations"}},
		{"hourly", parquet.SchemaOf(new(domain.RawHourlyRow)), []string{"hour", "Violations"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, col := range tt.columns {
				_, ok := tt.schema.Lookup(col)
				assert.True(t, ok, "column %s should exist in schema", col)
			}
		})
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := writeFixture(t)
	ctx := context.Background()

	geo, err := s.GeoRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, testGeo, geo)

	monthly, err := s.MonthlyRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, testMonthly, monthly)

	hourly, err := s.HourlyRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, testHourly, hourly)
}

func TestStore_MissingFile(t *testing.T) {
	s := New(t.TempDir())

	_, err := s.GeoRows(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingDataFile)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_NotParquet(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MonthlyFile), []byte("Month-Year,Violations\n2024-01,5\n"), 0o644))

	_, err := New(dir).MonthlyRows(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingDataFile)
}

func TestStore_MissingColumn(t *testing.T) {
	type renamed struct {
		Hour  int64 `parquet:"hour_of_day"`
		Count int64 `parquet:"Violations"`
	}
	dir := t.TempDir()
	require.NoError(t, WriteTable(filepath.Join(dir, HourlyFile), []renamed{{Hour: 1, Count: 2}}))

	_, err := New(dir).HourlyRows(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
	assert.Contains(t, err.Error(), `missing column "hour"`)
}

func TestStore_EmptyTable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteTable(filepath.Join(dir, GeoFile), []domain.RawGeoRow{}))

	rows, err := New(dir).GeoRows(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStore_CancelledContext(t *testing.T) {
	s := writeFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GeoRows(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_CheckReadiness(t *testing.T) {
	s := writeFixture(t)
	require.NoError(t, s.CheckReadiness(context.Background()))

	require.NoError(t, os.Remove(s.path(HourlyFile)))
	err := s.CheckReadiness(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingDataFile)
}
