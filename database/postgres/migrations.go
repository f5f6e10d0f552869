package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sharebox/sharebox"
)

// Migrate creates the tag table and its lookup index when missing.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables sharebox.Tables) error {
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := createTagTable(ctx, pool, tables.Tags); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// DropTables removes every table Migrate creates.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables sharebox.Tables) error {
	_, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", pgx.Identifier{tables.Tags}.Sanitize()))
	if err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return nil
}

func createTagTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	indexObject := pgx.Identifier{fmt.Sprintf("idx_%s_object", tableName)}.Sanitize()

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			bucket TEXT NOT NULL,
			object_key TEXT NOT NULL,
			name TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (bucket, object_key, name)
		);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (bucket, object_key);
	`,
		quotedTable,
		indexObject, quotedTable,
	)

	_, err := pool.Exec(ctx, sql)
	if err != nil {
		return fmt.Errorf("create tag table: %w", err)
	}
	return nil
}
