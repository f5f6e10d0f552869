package database

import (
	"context"
	"fmt"

	"github.com/sharebox/sharebox"
	"github.com/sharebox/sharebox/database/postgres"
	"github.com/sharebox/sharebox/database/sqlite"
)

// Config holds the configuration for connecting to a tag backend.
type Config struct {
	// Type specifies the database type: "sqlite" or "postgres"
	Type string
	// DSN is the data source name (connection string)
	DSN string
	// Tables holds the table names used by the repository
	Tables sharebox.Tables
}

// Database is a connected tag backend.
type Database interface {
	Ping(ctx context.Context) error
	// Migrate creates missing tables. It is idempotent.
	Migrate(ctx context.Context) error
	// Validate checks the live schema against the expected columns.
	Validate(ctx context.Context) error
	GetRepo() sharebox.TagRepo
	Close() error
}

// Connect opens the configured backend. It does not migrate; call Migrate
// and Validate on the result before handing out the repo.
func Connect(ctx context.Context, cfg Config) (Database, error) {
	if err := cfg.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	var (
		db  Database
		err error
	)
	switch cfg.Type {
	case "sqlite":
		db, err = sqlite.Connect(ctx, cfg.DSN, cfg.Tables)
	case "postgres":
		db, err = postgres.Connect(ctx, cfg.DSN, cfg.Tables)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Open connects, migrates and validates in one step, returning a ready
// repository and a cleanup function that closes the connection.
func Open(ctx context.Context, cfg Config) (sharebox.TagRepo, func(), error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", cfg.Type, err)
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate %s: %w", cfg.Type, err)
	}

	if err := db.Validate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("validate %s schema: %w", cfg.Type, err)
	}

	return db.GetRepo(), func() { _ = db.Close() }, nil
}
