package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sharebox/sharebox"
	"github.com/sharebox/sharebox/database"
	shareboxhttp "github.com/sharebox/sharebox/http"
	"github.com/sharebox/sharebox/s3"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for sharebox.
type Config struct {
	Env        string                  `mapstructure:"env" validate:"required,oneof=dev prod"`
	Server     ServerConfig            `mapstructure:"server"`
	Auth       AuthConfig              `mapstructure:"auth"`
	Storage    StorageConfig           `mapstructure:"storage"`
	S3         S3Config                `mapstructure:"s3"`
	Filesystem FilesystemConfig        `mapstructure:"filesystem"`
	Database   DatabaseConfig          `mapstructure:"database"`
	CORS       shareboxhttp.CORSConfig `mapstructure:"cors"`
	Metrics    MetricsConfig           `mapstructure:"metrics"`
	Log        LogConfig               `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
	// MaxPayload is the upload cap in MiB.
	MaxPayload int64  `mapstructure:"max_payload" validate:"min=1"`
	PublicURL  string `mapstructure:"public_url" validate:"omitempty,url"`
	// Favicon is an optional path to an icon served instead of the built-in one.
	Favicon string `mapstructure:"favicon"`
}

// MaxPayloadBytes returns the upload cap in bytes.
func (s ServerConfig) MaxPayloadBytes() int64 {
	return s.MaxPayload << 20
}

// AuthConfig holds the shared upload secret.
type AuthConfig struct {
	SecretToken  string `mapstructure:"secret_token" validate:"required"`
	RejectStatus int    `mapstructure:"reject_status" validate:"oneof=200 401"`
}

// StorageConfig selects and tunes the object store.
type StorageConfig struct {
	Backend        string        `mapstructure:"backend" validate:"required,oneof=s3 filesystem"`
	Bucket         string        `mapstructure:"bucket" validate:"required"`
	BackendTimeout time.Duration `mapstructure:"backend_timeout" validate:"gt=0"`
	KeyAttempts    int           `mapstructure:"key_attempts" validate:"min=1,max=100"`
}

// S3Config holds the MinIO / S3 connection settings.
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint" validate:"required"`
	Port      int    `mapstructure:"port" validate:"min=0,max=65535"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Secure    bool   `mapstructure:"secure"`
	Region    string `mapstructure:"region"`
}

// Store returns the s3 package view of this configuration.
func (c S3Config) Store() s3.Config {
	return s3.Config{
		Endpoint:  c.Endpoint,
		Port:      c.Port,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		Secure:    c.Secure,
		Region:    c.Region,
	}
}

// FilesystemConfig holds the local object store settings.
type FilesystemConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// DatabaseConfig holds the tag repository settings used by the filesystem backend.
type DatabaseConfig struct {
	Type  string `mapstructure:"type" validate:"required,oneof=sqlite postgres"`
	DSN   string `mapstructure:"dsn" validate:"required"`
	Table string `mapstructure:"table" validate:"required"`
}

// Connection returns the database package view of this configuration.
func (c DatabaseConfig) Connection() database.Config {
	return database.Config{
		Type:   c.Type,
		DSN:    c.DSN,
		Tables: sharebox.Tables{Tags: c.Table},
	}
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required,startswith=/"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"port":            "server.port",
	"max-payload":     "server.max_payload",
	"public-url":      "server.public_url",
	"backend":         "storage.backend",
	"bucket":          "storage.bucket",
	"storage-path":    "filesystem.path",
	"s3-endpoint":     "s3.endpoint",
	"s3-port":         "s3.port",
	"db-type":         "database.type",
	"db-dsn":          "database.dsn",
	"metrics":         "metrics.enabled",
	"log-level":       "log.level",
	"backend-timeout": "storage.backend_timeout",
}

// legacyEnv lists the unprefixed variable names existing deployments set.
// The SHAREBOX_ name always wins when both are present.
var legacyEnv = map[string]string{
	"auth.secret_token":  "SECRET_TOKEN",
	"s3.access_key":      "MINIO_ROOT_USER",
	"s3.secret_key":      "MINIO_ROOT_PASSWORD",
	"s3.endpoint":        "MINIO_ENDPOINT",
	"s3.port":            "MINIO_ENDPOINT_PORT",
	"server.port":        "PORT",
	"server.max_payload": "max_payload",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

func bindLegacyEnv(v *viper.Viper) {
	for key, legacy := range legacyEnv {
		prefixed := "SHAREBOX_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, prefixed, legacy)
	}
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("server.port", 9500)
	v.SetDefault("server.max_payload", 100) // MiB
	v.SetDefault("server.public_url", "")
	v.SetDefault("server.favicon", "")

	v.SetDefault("auth.reject_status", 200)

	v.SetDefault("storage.backend", "s3")
	v.SetDefault("storage.bucket", sharebox.DefaultBucket)
	v.SetDefault("storage.backend_timeout", "30s")
	v.SetDefault("storage.key_attempts", 5)

	v.SetDefault("s3.endpoint", "localhost")
	v.SetDefault("s3.port", 9000)
	v.SetDefault("s3.access_key", "miniousername")
	v.SetDefault("s3.secret_key", "miniopassword")
	v.SetDefault("s3.secure", false)
	v.SetDefault("s3.region", "")

	v.SetDefault("filesystem.path", "./data")

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "sharebox.db")
	v.SetDefault("database.table", "sharebox_tags")

	v.SetDefault("cors.enabled", false)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("log.level", "info")
}

// loadDotEnv exports variables from a .env file in the working directory.
// Variables already set in the environment are left alone.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("error reading .env file", "err", err)
	}
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > .env file > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	loadDotEnv()
	v.SetEnvPrefix("SHAREBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if !sharebox.IsValidTableName(cfg.Database.Table) {
		return nil, fmt.Errorf("validate config: invalid database.table %q", cfg.Database.Table)
	}

	return &cfg, nil
}
