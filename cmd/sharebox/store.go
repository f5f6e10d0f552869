package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sharebox/sharebox"
	"github.com/sharebox/sharebox/config"
	"github.com/sharebox/sharebox/database"
	"github.com/sharebox/sharebox/filesystem"
	"github.com/sharebox/sharebox/s3"
)

// openStore builds the configured backend. The returned func releases
// whatever the backend holds open.
func openStore(ctx context.Context, cfg *config.Config) (sharebox.ObjectStore, func(), error) {
	switch cfg.Storage.Backend {
	case "s3":
		store, err := s3.New(cfg.S3.Store())
		if err != nil {
			return nil, nil, fmt.Errorf("create s3 client: %w", err)
		}
		slog.Info("using s3 backend", "endpoint", cfg.S3.Store().Addr(), "secure", cfg.S3.Secure)
		return store, func() {}, nil

	case "filesystem":
		tags, closeDB, err := database.Open(ctx, cfg.Database.Connection())
		if err != nil {
			return nil, nil, fmt.Errorf("open tag database: %w", err)
		}
		slog.Info("connected to tag database", "type", cfg.Database.Type)

		if err := os.MkdirAll(cfg.Filesystem.Path, 0o750); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("create storage directory: %w", err)
		}

		root, err := os.OpenRoot(cfg.Filesystem.Path)
		if err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("open storage root: %w", err)
		}

		slog.Info("using filesystem backend", "path", cfg.Filesystem.Path)
		return filesystem.NewFileStorage(root, tags), func() {
			_ = root.Close()
			closeDB()
		}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
}

// newService wires the share service over store.
func newService(store sharebox.ObjectStore, cfg *config.Config, observer sharebox.Observer) (*sharebox.ShareService, error) {
	verifier, err := sharebox.NewTokenVerifier(cfg.Auth.SecretToken)
	if err != nil {
		return nil, err
	}

	return sharebox.NewShareService(store, sharebox.ServiceConfig{
		Bucket:         cfg.Storage.Bucket,
		BackendTimeout: cfg.Storage.BackendTimeout,
		KeyAttempts:    cfg.Storage.KeyAttempts,
		Verifier:       verifier,
		Observer:       observer,
	})
}
