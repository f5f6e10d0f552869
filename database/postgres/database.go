package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sharebox/sharebox"
)

// DB wraps a pgx pool.
type DB struct {
	pool   *pgxpool.Pool
	tables sharebox.Tables
}

// Connect creates a PostgreSQL pool. Tables should be validated before calling Connect.
func Connect(ctx context.Context, dsn string, tables sharebox.Tables) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &DB{pool: pool, tables: tables}, nil
}

// Ping verifies the database connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

func (d *DB) Migrate(ctx context.Context) error {
	return Migrate(ctx, d.pool, d.tables)
}

func (d *DB) Validate(ctx context.Context) error {
	return ValidateSchema(ctx, d.pool, d.tables)
}

func (d *DB) GetRepo() sharebox.TagRepo {
	return &Repo{pool: d.pool, tableName: pgx.Identifier{d.tables.Tags}.Sanitize()}
}

// Close closes the pool.
func (d *DB) Close() error {
	d.pool.Close()
	return nil
}
