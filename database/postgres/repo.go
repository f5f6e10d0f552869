// Package postgres stores object tags in PostgreSQL through pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sharebox/sharebox"
)

// Tables is an alias for sharebox.Tables for package compatibility.
type Tables = sharebox.Tables

type Repo struct {
	pool      *pgxpool.Pool
	tableName string
}

var _ sharebox.TagRepo = (*Repo)(nil)

func NewRepo(pool *pgxpool.Pool, tables Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{pool: pool, tableName: pgx.Identifier{tables.Tags}.Sanitize()}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repo) SetTag(ctx context.Context, bucket, key, name, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (bucket, object_key, name, value, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (bucket, object_key, name)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, r.tableName)

	if _, err := r.pool.Exec(ctx, query, bucket, key, name, value); err != nil {
		return fmt.Errorf("set tag: %w", err)
	}
	return nil
}

func (r *Repo) GetTags(ctx context.Context, bucket, key string) (map[string]string, error) {
	query := fmt.Sprintf(`
		SELECT name, value
		FROM %s
		WHERE bucket = $1 AND object_key = $2
	`, r.tableName)

	rows, err := r.pool.Query(ctx, query, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("get tags: scan: %w", err)
		}
		out[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get tags: rows: %w", err)
	}

	return out, nil
}
