package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/inflation-calculator/internal/logging"
	"github.com/iwvelando/inflation-calculator/internal/server"
	"github.com/iwvelando/inflation-calculator/internal/store"
	"github.com/iwvelando/inflation-calculator/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set via ldflags at build time.
var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if *address != "" {
		cfg.Address = *address
	}

	logger, err := logging.New(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.String("op", "main"), zap.Error(err))
	}
}

func run(ctx context.Context, cfg *server.Config, logger *zap.Logger) error {
	conf := cfg.Calculation()
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}

	seriesStore, closeStore, err := store.Open(ctx, conf, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close series store", zap.String("op", "main.run"), zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           server.NewHandler(logger, seriesStore, cfg, version),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server",
			zap.String("op", "main.run"),
			zap.String("address", cfg.Address),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Info("shutdown signal received, stopping HTTP server", zap.String("op", "main.run"))
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	logger.Info("HTTP server stopped", zap.String("op", "main.run"))
	return nil
}
