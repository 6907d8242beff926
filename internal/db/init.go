// Package db opens the user database and applies the schema migrations.
//
// A DSN that looks like a PostgreSQL connection string is opened with lib/pq;
// anything else is treated as the path of a SQLite file.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/atinyakov/restofinder/internal/db/migrations"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Driver names registered by the imported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// IsPostgres reports whether dsn addresses a PostgreSQL server.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// Open connects to the database named by dsn, verifies the connection and
// migrates the schema to the latest version.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	driver, dialect := DriverSQLite, goose.DialectSQLite3
	if IsPostgres(dsn) {
		driver, dialect = DriverPostgres, goose.DialectPostgres
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// a single writer avoids SQLITE_BUSY under concurrent signups
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if err := Migrate(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate applies all pending migrations.
func Migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect) error {
	provider, err := goose.NewProvider(dialect, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
