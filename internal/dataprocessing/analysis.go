package dataprocessing

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/lizi12/hw5-2019/internal/errors"
	"github.com/lizi12/hw5-2019/internal/validation"
)

const tracerName = "questionnaire/dataprocessing"

// QuestionnaireAnalysis owns one questionnaire table. It is created bound to
// a file, populated once by Load and then read by the analysis steps.
type QuestionnaireAnalysis struct {
	path string
	fsys fs.FS

	options AnalysisOptions
	emails  EmailPredicate
	logger  *slog.Logger
	tracer  trace.Tracer

	data *Table
}

// Option configures a QuestionnaireAnalysis
type Option func(*QuestionnaireAnalysis)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(a *QuestionnaireAnalysis) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithOptions replaces the analysis options
func WithOptions(opts AnalysisOptions) Option {
	return func(a *QuestionnaireAnalysis) {
		a.options = opts
	}
}

// WithEmailPredicate replaces the email validity check
func WithEmailPredicate(p EmailPredicate) Option {
	return func(a *QuestionnaireAnalysis) {
		if p != nil {
			a.emails = p
		}
	}
}

// WithTracer sets the tracer used for step spans
func WithTracer(tracer trace.Tracer) Option {
	return func(a *QuestionnaireAnalysis) {
		if tracer != nil {
			a.tracer = tracer
		}
	}
}

func newAnalysis(opts []Option) *QuestionnaireAnalysis {
	a := &QuestionnaireAnalysis{
		options: DefaultAnalysisOptions(),
		emails:  validation.NewEmailValidator(),
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "questionnaire_analysis")
	return a
}

// NewQuestionnaireAnalysis binds an analysis to the file at path.
// It fails with INVALID_ARGUMENT for an empty path or a directory and with
// NOT_FOUND when no file exists. The file is not read.
func NewQuestionnaireAnalysis(path string, opts ...Option) (*QuestionnaireAnalysis, error) {
	a := newAnalysis(opts)
	if err := validation.NewFileValidator(a.logger).ValidateFile(path); err != nil {
		return nil, err
	}
	a.path = path
	return a, nil
}

// NewQuestionnaireAnalysisFS binds an analysis to the file name inside fsys.
func NewQuestionnaireAnalysisFS(fsys fs.FS, name string, opts ...Option) (*QuestionnaireAnalysis, error) {
	a := newAnalysis(opts)
	if err := validation.NewFileValidator(a.logger).ValidateFSFile(fsys, name); err != nil {
		return nil, err
	}
	a.fsys = fsys
	a.path = name
	return a, nil
}

// Path returns the bound file location
func (a *QuestionnaireAnalysis) Path() string {
	return a.path
}

// Options returns the analysis options in effect
func (a *QuestionnaireAnalysis) Options() AnalysisOptions {
	return a.options
}

// Loaded reports whether Load has completed
func (a *QuestionnaireAnalysis) Loaded() bool {
	return a.data != nil
}

// Load reads the bound file into the owned table. A second call fails with
// INVALID_STATE.
func (a *QuestionnaireAnalysis) Load(ctx context.Context) (err error) {
	ctx, span := a.tracer.Start(ctx, "questionnaire.load",
		trace.WithAttributes(attribute.String("file", a.path)))
	defer func() { endSpan(span, err) }()

	if a.data != nil {
		return apperrors.NewInvalidStateError("table is already loaded")
	}

	start := time.Now()
	rc, err := a.open()
	if err != nil {
		return err
	}
	defer rc.Close()

	table, err := LoadTable(rc, FormatForPath(a.path, a.options.Format))
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to load questionnaire",
			slog.String("file", a.path),
			slog.String("error", err.Error()))
		return err
	}
	a.data = table

	span.SetAttributes(attribute.Int("rows", table.Len()))
	a.logger.InfoContext(ctx, "Questionnaire loaded",
		slog.String("file", a.path),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.columns)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (a *QuestionnaireAnalysis) open() (io.ReadCloser, error) {
	var (
		f   io.ReadCloser
		err error
	)
	if a.fsys != nil {
		f, err = a.fsys.Open(a.path)
	} else {
		f, err = os.Open(a.path)
	}
	if err == nil {
		return f, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.NewNotFoundError("file "+a.path).WithContext("path", a.path)
	}
	return nil, apperrors.NewStorageError("failed to open "+a.path, err)
}

// Data returns the loaded table, or INVALID_STATE before Load
func (a *QuestionnaireAnalysis) Data() (*Table, error) {
	if a.data == nil {
		return nil, apperrors.NewInvalidStateError("table is not loaded")
	}
	return a.data, nil
}

// ComputeAgeDistribution bins the ages of the loaded table
func (a *QuestionnaireAnalysis) ComputeAgeDistribution(ctx context.Context) (h Histogram, err error) {
	_, span := a.tracer.Start(ctx, "questionnaire.age_distribution")
	defer func() { endSpan(span, err) }()

	table, err := a.Data()
	if err != nil {
		return Histogram{}, err
	}

	h, err = table.AgeDistribution(a.options.AgeColumn, a.options.AgeEdges)
	if err != nil {
		return Histogram{}, err
	}

	span.SetAttributes(
		attribute.Int("counted", h.Total()),
		attribute.Int("out_of_range", h.OutOfRange))
	a.logger.DebugContext(ctx, "Age distribution computed",
		slog.Int("counted", h.Total()),
		slog.Int("missing", h.Missing),
		slog.Int("out_of_range", h.OutOfRange))
	return h, nil
}

// RemoveRowsWithoutValidEmail splits the loaded table by email validity
func (a *QuestionnaireAnalysis) RemoveRowsWithoutValidEmail(ctx context.Context) (p EmailPartition, err error) {
	_, span := a.tracer.Start(ctx, "questionnaire.email_filter")
	defer func() { endSpan(span, err) }()

	table, err := a.Data()
	if err != nil {
		return EmailPartition{}, err
	}

	p, err = table.RemoveRowsWithoutValidEmail(a.options.EmailColumn, a.emails)
	if err != nil {
		return EmailPartition{}, err
	}

	span.SetAttributes(
		attribute.Int("valid", p.Valid.Len()),
		attribute.Int("invalid", p.Invalid.Len()),
		attribute.Int("missing", p.DroppedMissing))
	a.logger.InfoContext(ctx, "Email filter applied",
		slog.Int("valid", p.Valid.Len()),
		slog.Int("invalid", p.Invalid.Len()),
		slog.Int("missing", p.DroppedMissing))
	return p, nil
}

// ImputeMissingWithRowMean fills missing grades of table. A nil table means
// the loaded one.
func (a *QuestionnaireAnalysis) ImputeMissingWithRowMean(ctx context.Context, table *Table) (imp Imputation, err error) {
	_, span := a.tracer.Start(ctx, "questionnaire.impute",
		trace.WithAttributes(attribute.String("strategy", string(a.options.Impute.Strategy))))
	defer func() { endSpan(span, err) }()

	if table == nil {
		if table, err = a.Data(); err != nil {
			return Imputation{}, err
		}
	}

	imp, err = table.ImputeMissing(a.options.Impute)
	if err != nil {
		return Imputation{}, err
	}

	span.SetAttributes(
		attribute.Int("rows", len(imp.Rows)),
		attribute.Int("cells", imp.Filled))
	a.logger.InfoContext(ctx, "Missing grades imputed",
		slog.Int("rows", len(imp.Rows)),
		slog.Int("cells", imp.Filled))
	return imp, nil
}

// Run loads the table when needed, then computes the age distribution,
// filters emails and imputes the rows with a valid email.
func (a *QuestionnaireAnalysis) Run(ctx context.Context) (res *Result, err error) {
	ctx, span := a.tracer.Start(ctx, "questionnaire.run")
	defer func() { endSpan(span, err) }()

	if !a.Loaded() {
		if err := a.Load(ctx); err != nil {
			return nil, err
		}
	}

	res = &Result{Source: a.path, Loaded: a.data}

	if res.Ages, err = a.ComputeAgeDistribution(ctx); err != nil {
		return nil, err
	}
	if res.Emails, err = a.RemoveRowsWithoutValidEmail(ctx); err != nil {
		return nil, err
	}
	if res.Imputation, err = a.ImputeMissingWithRowMean(ctx, res.Emails.Valid); err != nil {
		return nil, err
	}

	return res, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
