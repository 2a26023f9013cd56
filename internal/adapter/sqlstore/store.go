// Package sqlstore reads and writes the dashboard tables in a SQL database.
// SQLite, PostgreSQL and MySQL are supported through database/sql drivers.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/domain"
	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Backend names a supported database engine.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendMySQL    Backend = "mysql"
)

// Table names.
const (
	GeoTable     = "heatmap"
	MonthlyTable = "by_month"
	HourlyTable  = "by_hour"
)

// Store reads the dashboard tables from a database.
type Store struct {
	db      *sql.DB
	backend Backend
}

// driverName maps a backend to its registered database/sql driver.
func driverName(backend Backend) (string, error) {
	switch backend {
	case BackendSQLite:
		return "sqlite", nil
	case BackendPostgres:
		return "pgx", nil
	case BackendMySQL:
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported database backend: %s. Must be sqlite, postgres, or mysql", backend)
	}
}

func openDB(ctx context.Context, backend Backend, dsn string) (*sql.DB, error) {
	driver, err := driverName(backend)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == BackendSQLite {
		// One connection avoids "database is locked" under concurrent readers.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	return db, nil
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, backend Backend, dsn string) (*Store, error) {
	db, err := openDB(ctx, backend, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, backend: backend}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// GeoRows reads the heatmap table.
func (s *Store) GeoRows(ctx context.Context) ([]domain.RawGeoRow, error) {
	query := "SELECT street, lat, lon, violations FROM " + GeoTable
	return queryRows(ctx, s.db, query, domain.DatasetGeo, func(rows *sql.Rows) (domain.RawGeoRow, error) {
		var r domain.RawGeoRow
		err := rows.Scan(&r.Street, &r.Lat, &r.Long, &r.Violations)
		return r, err
	})
}

// MonthlyRows reads the by_month table.
func (s *Store) MonthlyRows(ctx context.Context) ([]domain.RawMonthlyRow, error) {
	query := "SELECT month_year, violations FROM " + MonthlyTable
	return queryRows(ctx, s.db, query, domain.DatasetMonthly, func(rows *sql.Rows) (domain.RawMonthlyRow, error) {
		var r domain.RawMonthlyRow
		err := rows.Scan(&r.MonthYear, &r.Violations)
		return r, err
	})
}

// HourlyRows reads the by_hour table.
func (s *Store) HourlyRows(ctx context.Context) ([]domain.RawHourlyRow, error) {
	query := "SELECT hour, violations FROM " + HourlyTable
	return queryRows(ctx, s.db, query, domain.DatasetHourly, func(rows *sql.Rows) (domain.RawHourlyRow, error) {
		var r domain.RawHourlyRow
		err := rows.Scan(&r.Hour, &r.Violations)
		return r, err
	})
}

// CheckReadiness pings the database and probes each table.
func (s *Store) CheckReadiness(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping %s: %w", domain.ErrMissingDataFile, s.backend, err)
	}
	for _, table := range []string{GeoTable, MonthlyTable, HourlyTable} {
		rows, err := s.db.QueryContext(ctx, "SELECT 1 FROM "+table+" LIMIT 1")
		if err != nil {
			return fmt.Errorf("%w: table %s: %w", domain.ErrMissingDataFile, table, err)
		}
		_ = rows.Close()
	}
	return nil
}

// WriteTables replaces the contents of all three tables in one transaction.
// The tables must already exist; see Migrate.
func (s *Store) WriteTables(ctx context.Context, geo []domain.RawGeoRow, monthly []domain.RawMonthlyRow, hourly []domain.RawHourlyRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceTable(ctx, tx, s.backend, GeoTable, []string{"street", "lat", "lon", "violations"}, geo,
		func(r domain.RawGeoRow) []any { return []any{r.Street, r.Lat, r.Long, r.Violations} }); err != nil {
		return err
	}
	if err := replaceTable(ctx, tx, s.backend, MonthlyTable, []string{"month_year", "violations"}, monthly,
		func(r domain.RawMonthlyRow) []any { return []any{r.MonthYear, r.Violations} }); err != nil {
		return err
	}
	if err := replaceTable(ctx, tx, s.backend, HourlyTable, []string{"hour", "violations"}, hourly,
		func(r domain.RawHourlyRow) []any { return []any{r.Hour, r.Violations} }); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func queryRows[T any](ctx context.Context, db *sql.DB, query, dataset string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMissingDataFile, dataset, err)
	}
	defer func() { _ = rows.Close() }()

	var out []T
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %w", domain.ErrMalformedRecord, dataset, len(out), err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMissingDataFile, dataset, err)
	}
	return out, nil
}

func replaceTable[T any](ctx context.Context, tx *sql.Tx, backend Backend, table string, columns []string, rows []T, values func(T) []any) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertQuery(backend, table, columns))
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", table, err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, values(r)...); err != nil {
			return fmt.Errorf("insert %s row %d: %w", table, i, err)
		}
	}
	return nil
}

// insertQuery builds an INSERT with the backend's placeholder style.
func insertQuery(backend Backend, table string, columns []string) string {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = placeholder(backend, i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
}

func placeholder(backend Backend, n int) string {
	if backend == BackendPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
