package sqlstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the schema to targetVersion and reports the resulting version.
//   - If targetVersion < 0, it migrates to the latest version.
//   - If targetVersion == 0, it rolls back every migration.
//   - If targetVersion > 0, it migrates to that version.
func Migrate(ctx context.Context, backend Backend, dsn string, targetVersion int) (uint, error) {
	db, err := openDB(ctx, backend, dsn)
	if err != nil {
		return 0, err
	}

	var driver database.Driver
	switch backend {
	case BackendSQLite:
		driver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	case BackendPostgres:
		driver, err = migratepgx.WithInstance(db, &migratepgx.Config{})
	case BackendMySQL:
		driver, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	}
	if err != nil {
		_ = db.Close()
		return 0, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		_ = db.Close()
		return 0, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		_ = db.Close()
		return 0, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, string(backend), driver)
	if err != nil {
		_ = db.Close()
		return 0, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// Closing the migrate instance also closes db.
	defer func() { _, _ = m.Close() }()

	if _, dirty, err := m.Version(); err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("failed to get current migration version: %w", err)
	} else if dirty {
		return 0, errors.New("database is in a dirty migration state; fix manually or force a version")
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
	}

	version, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	return version, err
}
