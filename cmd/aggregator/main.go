package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"matagg/internal/config"
	"matagg/internal/errors"
	"matagg/internal/exporter"
	"matagg/internal/infrastructure"
	"matagg/internal/loader"
	"matagg/internal/pipeline"
	"matagg/internal/validation"
	"matagg/pkg/contracts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the aggregator and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("aggregator", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "path to a YAML config file (defaults to $MATAGG_CONFIG or config.yaml)")
	inDir := fs.String("in", "", "input directory holding the source files")
	outDir := fs.String("out", "", "output directory for the aggregated report")
	format := fs.String("format", "", "output format: xlsx or csv")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *showVersion {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	if *configFile == "" {
		*configFile = os.Getenv(config.ConfigFileEnv)
	}
	cfg, err := config.LoadFile(*configFile)
	if err != nil {
		fmt.Fprintln(stderr, errors.NewConfigError("Failed to load configuration", err))
		return 1
	}
	if err := applyFlags(cfg, *inDir, *outDir, *format); err != nil {
		fmt.Fprintln(stderr, errors.NewConfigError("Invalid command line options", err))
		return 1
	}

	paths, err := cfg.ResolvePaths(time.Now())
	if err != nil {
		fmt.Fprintln(stderr, errors.NewConfigError("Failed to resolve paths", err))
		return 1
	}
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Fprintln(stderr, errors.NewConfigError("Failed to create required directories", err))
		return 1
	}

	logger, err := infrastructure.NewLogger(cfg.Logging, paths.LogFile)
	if err != nil {
		fmt.Fprintln(stderr, errors.NewConfigError("Failed to initialize logger", err))
		return 1
	}
	defer logger.Close()

	ctx = infrastructure.EnsureTraceID(ctx)
	logger.InfoContext(ctx, "Starting material aggregation",
		slog.String("version", contracts.Version),
		slog.String("input_dir", paths.InputDir),
		slog.String("output_file", paths.OutputFile),
		slog.String("log_file", paths.LogFile))
	paths.LogPathResolution(logger.Logger)

	fv := validation.NewFileValidator(logger.Logger)
	if err := fv.ValidateInputDirectory(paths.InputDir); err != nil {
		logger.ErrorContext(ctx, "Input directory is not usable", slog.Any("error", errors.NewLoadError("input directory", err)))
		return 1
	}
	if err := fv.ValidateOutputDirectory(paths.OutputDir); err != nil {
		logger.ErrorContext(ctx, "Output directory is not usable", slog.Any("error", errors.NewWriteError("output directory", err)))
		return 1
	}

	tel, err := infrastructure.NewTelemetry(ctx, cfg.Telemetry, logger.Logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize telemetry", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()
	metrics, err := infrastructure.NewRunMetrics(tel.Meter)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create metrics", slog.String("error", err.Error()))
		return 1
	}

	writer, err := exporter.NewWriter(cfg.Output, paths.OutputFile, logger.Logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create writer", slog.String("error", err.Error()))
		return 1
	}

	p := pipeline.New(
		loader.New(paths.SourcePaths(cfg), cfg.Sources.LoadConcurrency, logger.Logger),
		writer,
		pipeline.WithLogger(logger.Logger),
		pipeline.WithTracer(tel.Tracer),
		pipeline.WithMetrics(metrics),
		pipeline.WithStrictLoad(cfg.Sources.Strict),
	)
	summary, runErr := p.Run(ctx)

	if err := tel.WriteMetrics(resolveMetricsFile(paths, cfg.Telemetry.MetricsFile)); err != nil {
		logger.WarnContext(ctx, "Failed to write metrics", slog.String("error", err.Error()))
	}

	if runErr != nil {
		fmt.Fprintln(stderr, runErr)
		return 1
	}
	fmt.Fprintf(stdout, "Aggregated %d rows into %s\n", summary.Rows, summary.OutputFile)
	return 0
}

// applyFlags overrides configuration values with command line flags and
// validates the result again.
func applyFlags(cfg *config.Config, inDir, outDir, format string) error {
	if inDir != "" {
		cfg.Paths.InputDir = inDir
	}
	if outDir != "" {
		cfg.Paths.OutputDir = outDir
	}
	if format != "" {
		cfg.Output.Format = strings.ToLower(format)
		ext := "." + cfg.Output.Format
		if !strings.EqualFold(filepath.Ext(cfg.Output.Filename), ext) {
			cfg.Output.Filename = strings.TrimSuffix(cfg.Output.Filename, filepath.Ext(cfg.Output.Filename)) + ext
		}
	}
	return cfg.Validate()
}

func resolveMetricsFile(paths *config.Paths, file string) string {
	if file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(paths.OutputDir, file)
}
