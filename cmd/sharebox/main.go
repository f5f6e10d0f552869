package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sharebox/sharebox/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "sharebox",
	Short:   "File-sharing gateway in front of S3-compatible storage",
	Long: `Sharebox accepts file uploads authenticated by a shared token and
hands back short public URLs. Objects live in MinIO / S3 or on local disk.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFiles, _ := cmd.Flags().GetStringSlice("config")

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg.Env, cfg.Log.Level)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file path(s), merged left to right (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("backend", "", "storage backend: s3, filesystem (default: s3, env: SHAREBOX_STORAGE_BACKEND)")
	rootCmd.PersistentFlags().String("bucket", "", "bucket name (default: share-files)")
	rootCmd.PersistentFlags().String("storage-path", "", "filesystem backend root (default: ./data)")
	rootCmd.PersistentFlags().String("s3-endpoint", "", "MinIO / S3 host (env: MINIO_ENDPOINT)")
	rootCmd.PersistentFlags().Int("s3-port", 0, "MinIO / S3 port (env: MINIO_ENDPOINT_PORT)")
	rootCmd.PersistentFlags().String("db-type", "", "tag database type: sqlite, postgres (default: sqlite)")
	rootCmd.PersistentFlags().String("db-dsn", "", "tag database connection string (default: sharebox.db)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
