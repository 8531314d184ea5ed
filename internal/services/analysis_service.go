package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/lizi12/hw5-2019/internal/config"
	"github.com/lizi12/hw5-2019/internal/dataprocessing"
	apperrors "github.com/lizi12/hw5-2019/internal/errors"
	"github.com/lizi12/hw5-2019/internal/exporter"
	"github.com/lizi12/hw5-2019/internal/infrastructure"
	"github.com/lizi12/hw5-2019/pkg/contracts/domain"
)

// Pipeline step names used in spans and metrics
const (
	StepAnalyze = "analyze"
	StepRender  = "render"
	StepExport  = "export"
)

// AnalysisService runs a questionnaire file through the cleaning pipeline
// and exports the results
type AnalysisService struct {
	cfg       *config.Config
	paths     *config.Paths
	exporter  *exporter.Exporter
	renderer  exporter.HistogramRenderer
	validator *reportValidator
	tracer    trace.Tracer
	metrics   *infrastructure.AnalysisMetrics
	emails    dataprocessing.EmailPredicate
	logger    *slog.Logger
}

// ServiceOption configures an AnalysisService
type ServiceOption func(*AnalysisService)

// WithRenderer prints the age histogram of every run through r
func WithRenderer(r exporter.HistogramRenderer) ServiceOption {
	return func(s *AnalysisService) {
		s.renderer = r
	}
}

// WithTelemetry takes tracer and metrics from initialised providers
func WithTelemetry(providers *infrastructure.OTelProviders, metrics *infrastructure.AnalysisMetrics) ServiceOption {
	return func(s *AnalysisService) {
		if providers != nil && providers.Tracer != nil {
			s.tracer = providers.Tracer
		}
		s.metrics = metrics
	}
}

// WithEmailValidator replaces the default email predicate
func WithEmailValidator(p dataprocessing.EmailPredicate) ServiceOption {
	return func(s *AnalysisService) {
		s.emails = p
	}
}

// NewAnalysisService creates the service. cfg is validated first.
func NewAnalysisService(cfg *config.Config, paths *config.Paths, logger *slog.Logger, opts ...ServiceOption) (*AnalysisService, error) {
	if cfg == nil || paths == nil {
		return nil, apperrors.NewInvalidArgumentError("config and paths are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger = infrastructure.WithComponent(logger, "analysis_service")

	s := &AnalysisService{
		cfg:       cfg,
		paths:     paths,
		exporter:  exporter.NewExporter(paths, exporter.OptionsFromConfig(cfg.Export), logger),
		validator: newReportValidator(),
		tracer:    otel.Tracer("questionnaire/services"),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	logger.Debug("Analysis service initialized",
		slog.String("output_dir", paths.OutputDir),
		slog.Any("formats", cfg.Export.Formats))
	return s, nil
}

// Analyze loads the file at path, runs every cleaning step, exports the
// enabled reports and returns the run report. Any error aborts the run and
// no report is returned.
func (s *AnalysisService) Analyze(ctx context.Context, path string) (report *domain.AnalysisReport, err error) {
	start := time.Now()

	runID := infrastructure.GetRunID(ctx)
	if _, perr := uuid.Parse(runID); perr != nil {
		runID = infrastructure.GenerateRunID()
		ctx = infrastructure.WithRunID(ctx, runID)
	}

	ctx, span := s.tracer.Start(ctx, "analysis.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("input.path", path),
		))
	defer func() {
		if err != nil {
			infrastructure.RecordError(ctx, err)
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		s.countRun(ctx, err)
	}()

	s.logger.InfoContext(ctx, "Analysis started", slog.String("input", path))

	opts, err := dataprocessing.OptionsFromConfig(s.cfg.Analysis)
	if err != nil {
		return nil, err
	}

	var res *dataprocessing.Result
	err = s.step(ctx, StepAnalyze, func(ctx context.Context) error {
		analysisOpts := []dataprocessing.Option{
			dataprocessing.WithLogger(s.logger),
			dataprocessing.WithOptions(opts),
			dataprocessing.WithTracer(s.tracer),
		}
		if s.emails != nil {
			analysisOpts = append(analysisOpts, dataprocessing.WithEmailPredicate(s.emails))
		}

		analysis, err := dataprocessing.NewQuestionnaireAnalysis(path, analysisOpts...)
		if err != nil {
			return err
		}
		res, err = analysis.Run(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	stats := res.Statistics()
	s.countRows(ctx, stats)
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"rows.loaded":        stats.RowsLoaded,
		"rows.missing_email": stats.RowsMissingEmail,
		"rows.invalid_email": stats.RowsInvalidEmail,
		"cells.imputed":      stats.CellsImputed,
	})

	if s.renderer != nil {
		err = s.step(ctx, StepRender, func(context.Context) error {
			title := fmt.Sprintf("Age distribution (%s)", opts.AgeColumn)
			return s.renderer.Render(title, res.Ages)
		})
		if err != nil {
			return nil, apperrors.NewStorageError("failed to render histogram", err)
		}
	}

	built := exporter.BuildReport(runID, res, opts)
	built.Status = domain.ReportStatusCompleted
	built.GeneratedAt = time.Now().UTC()
	built.DurationMS = time.Since(start).Milliseconds()
	built.TraceID = infrastructure.TraceIDFromContext(ctx)
	built.Outputs = s.exporter.Plan()
	if err := s.validator.Validate(built); err != nil {
		return nil, err
	}

	err = s.step(ctx, StepExport, func(ctx context.Context) error {
		return s.exporter.ExportAll(ctx, res, &built)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Analysis completed",
		slog.Int("rows_loaded", stats.RowsLoaded),
		slog.Int("rows_cleaned", built.Rows.Cleaned),
		slog.Int("cells_imputed", stats.CellsImputed),
		slog.Int("outputs", len(built.Outputs)),
		slog.Duration("duration", time.Since(start)))

	return &built, nil
}

// step times fn and records the outcome
func (s *AnalysisService) step(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	infrastructure.RecordStep(ctx, s.metrics, name, time.Since(start), err)

	if err != nil {
		s.logger.ErrorContext(ctx, "Analysis step failed",
			slog.String("step", name),
			slog.String("error_type", string(apperrors.TypeOf(err))),
			slog.String("error", err.Error()))
	}
	return err
}

func (s *AnalysisService) countRows(ctx context.Context, stats dataprocessing.Statistics) {
	if s.metrics == nil {
		return
	}
	s.metrics.RowsLoaded.Add(ctx, int64(stats.RowsLoaded))
	s.metrics.RowsMissingEmail.Add(ctx, int64(stats.RowsMissingEmail))
	s.metrics.RowsInvalidEmail.Add(ctx, int64(stats.RowsInvalidEmail))
	s.metrics.CellsImputed.Add(ctx, int64(stats.CellsImputed))
}

func (s *AnalysisService) countRun(ctx context.Context, err error) {
	if s.metrics == nil {
		return
	}
	status := string(domain.ReportStatusCompleted)
	if err != nil {
		status = string(domain.ReportStatusFailed)
	}
	s.metrics.RunsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
