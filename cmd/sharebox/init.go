package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sharebox/sharebox/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the bucket and the tag table",
	Long: `Prepare the configured backend ahead of the first upload:
  - creates the bucket when it does not exist yet
  - creates or migrates the tag table (filesystem backend only)

The server also does both lazily, so running init is optional.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	service, err := newService(store, cfg, nil)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	if err := service.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap bucket: %w", err)
	}

	slog.Info("initialization complete", "backend", cfg.Storage.Backend, "bucket", service.Bucket())
	return nil
}
