package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sharebox/sharebox"

	_ "modernc.org/sqlite" // SQLite driver
)

// DB provides SQLite database operations.
type DB struct {
	db     *sql.DB
	tables sharebox.Tables
}

// Connect opens a SQLite database. Tables should be validated before calling Connect.
func Connect(ctx context.Context, dsn string, tables sharebox.Tables) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	// A second connection to ":memory:" would be a different database.
	db.SetMaxOpenConns(1)

	return &DB{db: db, tables: tables}, nil
}

// Ping verifies the database connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DB) Migrate(ctx context.Context) error {
	return Migrate(ctx, d.db, d.tables)
}

func (d *DB) Validate(ctx context.Context) error {
	return ValidateSchema(ctx, d.db, d.tables)
}

// GetRepo returns the tag repository backed by this database.
func (d *DB) GetRepo() sharebox.TagRepo {
	return &Repo{db: d.db, tableName: quoteIdentifier(d.tables.Tags)}
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}
