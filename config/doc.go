// Package config provides configuration loading and validation for sharebox.
//
// The package handles YAML configuration files, a .env file, environment
// variables, and CLI flags with automatic merging and validation using
// go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (SHAREBOX_ prefix), including any exported from .env
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx = config.WithContext(ctx, cfg)
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with the SHAREBOX_ prefix:
//   - server.port → SHAREBOX_SERVER_PORT
//   - auth.secret_token → SHAREBOX_AUTH_SECRET_TOKEN
//   - storage.backend → SHAREBOX_STORAGE_BACKEND
//
// A few keys also accept the unprefixed names used by older deployments:
//   - auth.secret_token → SECRET_TOKEN
//   - s3.access_key → MINIO_ROOT_USER
//   - s3.secret_key → MINIO_ROOT_PASSWORD
//   - s3.endpoint → MINIO_ENDPOINT
//   - s3.port → MINIO_ENDPOINT_PORT
//   - server.port → PORT
//   - server.max_payload → max_payload (MiB)
//
// # Validation
//
// auth.secret_token is required. storage.backend must be s3 or filesystem,
// auth.reject_status must be 200 or 401, and database.table must be a plain
// SQL identifier.
package config
