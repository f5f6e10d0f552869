package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sharebox/sharebox"
	"github.com/sharebox/sharebox/config"
	shareboxhttp "github.com/sharebox/sharebox/http"
	"github.com/sharebox/sharebox/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the sharebox HTTP server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 9500, "HTTP server port (env: PORT)")
	serveCmd.Flags().Int64("max-payload", 100, "upload size cap in MiB (env: max_payload)")
	serveCmd.Flags().String("public-url", "", "base URL used in returned links")
	serveCmd.Flags().Bool("metrics", false, "expose Prometheus metrics")
	serveCmd.Flags().Duration("backend-timeout", 30*time.Second, "timeout for each storage call")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var (
		observer       sharebox.Observer
		recorder       shareboxhttp.Recorder
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.MustNewMetrics(reg)
		observer, recorder = m, m
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	service, err := newService(store, cfg, observer)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	// Upload bootstraps lazily, so a backend that is down at startup is not fatal.
	if err := service.Bootstrap(ctx); err != nil {
		slog.Warn("bucket bootstrap failed, retrying on first upload", "bucket", service.Bucket(), "err", err)
	}

	favicon, err := readFavicon(cfg.Server.Favicon)
	if err != nil {
		return err
	}

	handler := shareboxhttp.NewHandler(&shareboxhttp.HandlerConfig{
		MaxPayload:     cfg.Server.MaxPayloadBytes(),
		PublicURL:      cfg.Server.PublicURL,
		RejectStatus:   cfg.Auth.RejectStatus,
		Favicon:        favicon,
		CORS:           cfg.CORS,
		Recorder:       recorder,
		MetricsHandler: metricsHandler,
		MetricsPath:    cfg.Metrics.Path,
	}, service)

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", addr, "backend", cfg.Storage.Backend, "bucket", service.Bucket())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// readFavicon loads the icon override. An empty path keeps the built-in icon.
func readFavicon(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path) //#nosec G304 -- path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read favicon: %w", err)
	}
	return data, nil
}
