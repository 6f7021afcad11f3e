// Package storage opens the client's local SQLite database and keeps its
// schema current.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/smartcalc/internal/client/migrations"
	"github.com/dmitrijs2005/smartcalc/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// RunMigrations applies the embedded goose migrations. Running it against an
// up-to-date database is a no-op.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// InitDatabase opens (creating if needed) the SQLite file at dsn and migrates
// it. The parent directory of a file DSN is created with 0700 permissions
// since the database holds the access token.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn != ":memory:" {
		if _, err := filex.EnsureParentDir(dsn, 0o700); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// modernc sqlite serialises writers; one connection avoids SQLITE_BUSY
	// between the REPL and the online watcher.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
