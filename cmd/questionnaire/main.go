package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lizi12/hw5-2019/internal/config"
	apperrors "github.com/lizi12/hw5-2019/internal/errors"
	"github.com/lizi12/hw5-2019/internal/exporter"
	"github.com/lizi12/hw5-2019/internal/infrastructure"
	"github.com/lizi12/hw5-2019/internal/services"
	"github.com/lizi12/hw5-2019/pkg/contracts"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	input       string
	outputDir   string
	configFile  string
	formats     string
	inputFormat string
	metricsFile string
	quiet       bool
	version     bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("questionnaire", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.input, "in", "", "questionnaire JSON file (required)")
	fs.StringVar(&opts.outputDir, "out", "", "output directory for reports (defaults to paths.output_dir)")
	fs.StringVar(&opts.configFile, "config", "", "YAML configuration file")
	fs.StringVar(&opts.formats, "formats", "", "comma separated export formats: csv,xlsx,json")
	fs.StringVar(&opts.inputFormat, "input-format", "", "input layout: auto, records, columns or lines")
	fs.StringVar(&opts.metricsFile, "metrics", "", "write Prometheus text metrics to this file")
	fs.BoolVar(&opts.quiet, "quiet", false, "only log errors and skip the histogram")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: questionnaire -in data.json [flags]\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.version {
		return opts, nil
	}
	if opts.input == "" {
		fs.Usage()
		return nil, fmt.Errorf("-in is required")
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, nil
}

// applyFlags overlays the command line onto cfg
func applyFlags(cfg *config.Config, opts *options) {
	if opts.outputDir != "" {
		cfg.Paths.OutputDir = opts.outputDir
	}
	if opts.formats != "" {
		var formats []string
		for _, f := range strings.Split(opts.formats, ",") {
			if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
				formats = append(formats, f)
			}
		}
		cfg.Export.Formats = formats
	}
	if opts.inputFormat != "" {
		cfg.Analysis.InputFormat = opts.inputFormat
	}
	if opts.metricsFile != "" {
		cfg.Telemetry.MetricsFile = opts.metricsFile
	}
	if opts.quiet {
		cfg.Logging.Level = "error"
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return exitOK
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: invalid flags: %v\n", err)
		return exitUsage
	}

	paths, err := config.ResolvePaths(cfg.Paths, "")
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	if err := paths.EnsureDirectories(cfg.Logging); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	cfg.Logging.FilePath = paths.GetLogPath(cfg.Logging.FilePath)

	logger, err := infrastructure.InitializeLoggerTo(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureRunID(context.Background())
	logger.InfoContext(ctx, "Starting analysis",
		slog.String("version", contracts.GetVersionString()),
		slog.String("input", opts.input),
		slog.String("output_dir", paths.OutputDir))
	if err := analyze(ctx, cfg, paths, opts, logger, stdout, stderr); err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Analysis failed",
			slog.String("error_type", string(apperrors.TypeOf(err))))
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	return exitOK
}

func analyze(ctx context.Context, cfg *config.Config, paths *config.Paths, opts *options, logger *slog.Logger, stdout, stderr io.Writer) error {
	traceWriter := stderr
	if cfg.Telemetry.TraceFile != "" {
		f, err := os.Create(cfg.Telemetry.TraceFile)
		if err != nil {
			return fmt.Errorf("failed to create trace file: %w", err)
		}
		defer f.Close()
		traceWriter = f
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFromTelemetry(cfg.Telemetry, traceWriter), logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.CreateAnalysisMetrics(providers.Meter)
	if err != nil {
		return err
	}

	svcOpts := []services.ServiceOption{services.WithTelemetry(providers, metrics)}
	if !opts.quiet {
		svcOpts = append(svcOpts, services.WithRenderer(
			exporter.NewTextHistogramRenderer(stdout, cfg.Export.HistogramWidth)))
	}

	svc, err := services.NewAnalysisService(cfg, paths, logger, svcOpts...)
	if err != nil {
		return err
	}

	report, analyzeErr := svc.Analyze(ctx, opts.input)

	// metrics are written for failed runs too
	if cfg.Telemetry.MetricsFile != "" {
		if err := providers.WriteMetrics(cfg.Telemetry.MetricsFile); err != nil {
			logger.Warn("Failed to write metrics", slog.String("error", err.Error()))
		}
	}
	if analyzeErr != nil {
		return analyzeErr
	}

	if !opts.quiet {
		fmt.Fprintf(stdout, "rows: loaded=%d missing_email=%d invalid_email=%d cleaned=%d imputed_cells=%d\n",
			report.Rows.Loaded, report.Rows.MissingEmail, report.Rows.InvalidEmail,
			report.Rows.Cleaned, report.Imputation.CellsFilled)
		for _, out := range report.Outputs {
			fmt.Fprintf(stdout, "wrote %s\n", out.Path)
		}
	}
	return nil
}
