package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/inflation-calculator/internal/calculator"
	"github.com/iwvelando/inflation-calculator/internal/config"
	"github.com/iwvelando/inflation-calculator/internal/logging"
	"github.com/iwvelando/inflation-calculator/internal/store"
	"github.com/iwvelando/inflation-calculator/pkg/constants"
	"github.com/iwvelando/inflation-calculator/pkg/output"
	"github.com/iwvelando/inflation-calculator/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if err := run(context.Background(), conf, outputFormat, os.Stdout, logger); err != nil {
		logger.Error("failed to run calculations",
			zap.String("op", "main"),
			zap.Error(err),
		)
		_ = logger.Sync()
		os.Exit(1)
	}
}

// run validates the configuration, runs every active calculation and writes
// the results to w. The store is closed before it returns.
func run(ctx context.Context, conf *config.Configuration, outputFormat string, w io.Writer, logger *zap.Logger) error {
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.run"),
		)
	}

	seriesStore, closeStore, err := store.Open(ctx, conf, logger)
	if err != nil {
		return fmt.Errorf("failed to open series store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close series store", zap.String("op", "main.run"), zap.Error(err))
		}
	}()

	results, err := calculator.Run(ctx, logger, *conf, seriesStore)
	if err != nil {
		return err
	}
	for _, result := range results {
		for _, note := range result.Notes {
			logger.Warn(note, zap.String("op", "main.run"), zap.String("calculation", result.Name))
		}
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(w, results)
	case constants.OutputFormatCSV:
		output.CsvFormat(w, results)
	}
	return nil
}
