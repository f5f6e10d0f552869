// Package sqlite stores object tags in SQLite through modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sharebox/sharebox"
)

// Tables is an alias for sharebox.Tables for package compatibility.
type Tables = sharebox.Tables

type Repo struct {
	db        *sql.DB
	tableName string
}

var _ sharebox.TagRepo = (*Repo)(nil)

func NewRepo(db *sql.DB, tables Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{db: db, tableName: quoteIdentifier(tables.Tags)}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repo) SetTag(ctx context.Context, bucket, key, name, value string) error {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (bucket, object_key, name, value, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (bucket, object_key, name)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, r.tableName)

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := r.db.ExecContext(ctx, query, bucket, key, name, value, now); err != nil {
		return fmt.Errorf("set tag: %w", err)
	}
	return nil
}

func (r *Repo) GetTags(ctx context.Context, bucket, key string) (map[string]string, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT name, value FROM %s WHERE bucket = ? AND object_key = ?`, r.tableName)

	rows, err := r.db.QueryContext(ctx, query, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

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
