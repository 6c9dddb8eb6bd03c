// Command inflation-seed copies the embedded reference series into Postgres.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/inflation-calculator/internal/config"
	"github.com/iwvelando/inflation-calculator/internal/logging"
	"github.com/iwvelando/inflation-calculator/internal/store"
	"github.com/iwvelando/inflation-calculator/pkg/constants"
	"github.com/iwvelando/inflation-calculator/pkg/series"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	databaseURL := flag.String("database-url", "", "postgres connection string (defaults to DATABASE_URL)")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	_ = godotenv.Load()

	logger, err := logging.New(config.LoggingConfig{Format: "console"}, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	url := *databaseURL
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		logger.Fatal("no database configured; pass -database-url or set DATABASE_URL", zap.String("op", "main"))
	}

	if err := seed(context.Background(), url, logger); err != nil {
		logger.Fatal("failed to seed series", zap.String("op", "main"), zap.Error(err))
	}
}

func seed(ctx context.Context, url string, logger *zap.Logger) error {
	static, err := store.NewStaticStore(constants.AccumulationTolerance, logger)
	if err != nil {
		return err
	}

	pg, err := store.OpenPostgres(ctx, config.DataConfig{DatabaseURL: url}, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		return err
	}
	for _, cur := range series.Currencies {
		is, err := static.InflationSeries(ctx, cur)
		if err != nil {
			return err
		}
		if err := pg.SaveInflationSeries(ctx, is); err != nil {
			return err
		}
		logger.Info("seeded inflation series", zap.String("op", "main.seed"), zap.String("series", is.Name()), zap.Int("points", is.Len()))
	}

	ex, err := static.ExchangeSeries(ctx)
	if err != nil {
		return err
	}
	if err := pg.SaveExchangeSeries(ctx, ex); err != nil {
		return err
	}
	logger.Info("seeded exchange rates", zap.String("op", "main.seed"), zap.Int("points", ex.Len()))
	return nil
}
