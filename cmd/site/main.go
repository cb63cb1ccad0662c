package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/wolfman30/blake-psychology-site/internal/app/bootstrap"
	appconfig "github.com/wolfman30/blake-psychology-site/internal/config"
	"github.com/wolfman30/blake-psychology-site/pkg/logging"
)

func main() {
	// Load .env file when present
	envErr := godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	if envErr != nil {
		logger.Debug("no .env file found, using environment variables")
	}
	logger.Info("starting blake-psychology-site server",
		"env", cfg.Env,
		"port", cfg.Port,
		"submit_delay", cfg.SubmitDelay,
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	rt, err := bootstrap.BuildSite(ctx, cfg, logger, setupMetricsRegistry(cfg))
	if err != nil {
		logger.Error("failed to build site", "error", err)
		os.Exit(1)
	}
	defer rt.Close()

	go rt.Registry.Run(ctx, cfg.SessionSweepPeriod)

	// Create HTTP server; no WriteTimeout so event sockets stay open
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           rt.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetricsRegistry returns the registry served on /metrics, or nil when
// metrics are disabled.
func setupMetricsRegistry(cfg *appconfig.Config) *prometheus.Registry {
	if !cfg.MetricsEnabled {
		return nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
