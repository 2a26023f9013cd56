// Package parquetstore reads and writes the dashboard tables as Parquet files
// using github.com/parquet-go/parquet-go.
package parquetstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/domain"
	"github.com/parquet-go/parquet-go"
)

// File names of the three tables inside the data directory.
const (
	GeoFile     = "heatmap.parquet"
	MonthlyFile = "by_month.parquet"
	HourlyFile  = "by_hour.parquet"
)

// Store reads tables from a directory of Parquet files.
type Store struct {
	dir string
}

// New creates a Store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// GeoRows reads the heatmap table.
func (s *Store) GeoRows(ctx context.Context) ([]domain.RawGeoRow, error) {
	return readTable[domain.RawGeoRow](ctx, s.path(GeoFile), domain.DatasetGeo)
}

// MonthlyRows reads the by_month table.
func (s *Store) MonthlyRows(ctx context.Context) ([]domain.RawMonthlyRow, error) {
	return readTable[domain.RawMonthlyRow](ctx, s.path(MonthlyFile), domain.DatasetMonthly)
}

// HourlyRows reads the by_hour table.
func (s *Store) HourlyRows(ctx context.Context) ([]domain.RawHourlyRow, error) {
	return readTable[domain.RawHourlyRow](ctx, s.path(HourlyFile), domain.DatasetHourly)
}

// CheckReadiness reports whether all three files are present.
func (s *Store) CheckReadiness(_ context.Context) error {
	for _, name := range []string{GeoFile, MonthlyFile, HourlyFile} {
		if _, err := os.Stat(s.path(name)); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrMissingDataFile, err)
		}
	}
	return nil
}

// WriteTables writes all three tables into the directory, creating it if needed.
func (s *Store) WriteTables(geo []domain.RawGeoRow, monthly []domain.RawMonthlyRow, hourly []domain.RawHourlyRow) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := WriteTable(s.path(GeoFile), geo); err != nil {
		return err
	}
	if err := WriteTable(s.path(MonthlyFile), monthly); err != nil {
		return err
	}
	return WriteTable(s.path(HourlyFile), hourly)
}

// Close is a no-op; files are opened per read.
func (s *Store) Close() error { return nil }

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// WriteTable writes rows to a Parquet file whose schema is inferred from T's struct tags.
func WriteTable[T any](outputPath string, rows []T) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// readTable reads every row of a Parquet file into T. A file that is absent
// or not valid Parquet is a missing data file; a file lacking one of T's
// columns is malformed.
func readTable[T any](ctx context.Context, path, dataset string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMissingDataFile, dataset, err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMissingDataFile, dataset, err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMissingDataFile, dataset, err)
	}

	if err := checkColumns[T](pf.Schema(), dataset); err != nil {
		return nil, err
	}

	reader := parquet.NewGenericReader[T](pf)
	defer func() { _ = reader.Close() }()

	rows := make([]T, pf.NumRows())
	total := 0
	for total < len(rows) {
		n, err := reader.Read(rows[total:])
		total += n
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %s: read rows: %w", domain.ErrMalformedRecord, dataset, err)
		}
		if n == 0 {
			break
		}
	}
	return rows[:total], nil
}

// checkColumns verifies the file carries every column T expects, so a
// renamed column fails loudly instead of decoding as zero values.
func checkColumns[T any](fileSchema *parquet.Schema, dataset string) error {
	want := parquet.SchemaOf(new(T))
	for _, field := range want.Fields() {
		if _, ok := fileSchema.Lookup(field.Name()); !ok {
			return fmt.Errorf("%w: %s: missing column %q", domain.ErrMalformedRecord, dataset, field.Name())
		}
	}
	return nil
}
