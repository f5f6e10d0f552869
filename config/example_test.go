package config_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sharebox/sharebox/config"
)

func ExampleLoad() {
	// The shared upload secret has no default
	_ = os.Setenv("SECRET_TOKEN", "example")
	defer os.Unsetenv("SECRET_TOKEN")

	cfg, err := config.Load(nil, nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Port: %d, Bucket: %s\n", cfg.Server.Port, cfg.Storage.Bucket)
	// Output: Port: 9500, Bucket: share-files
}

func ExampleWithContext() {
	_ = os.Setenv("SECRET_TOKEN", "example")
	defer os.Unsetenv("SECRET_TOKEN")

	cfg, _ := config.Load(nil, nil)

	// Store config in context
	ctx := config.WithContext(context.Background(), cfg)

	// Retrieve later (e.g., in a subcommand)
	retrieved, err := config.FromContext(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Retrieved port: %d\n", retrieved.Server.Port)
	// Output: Retrieved port: 9500
}
