package exporter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lizi12/hw5-2019/internal/config"
	"github.com/lizi12/hw5-2019/internal/dataprocessing"
	apperrors "github.com/lizi12/hw5-2019/internal/errors"
	"github.com/lizi12/hw5-2019/internal/validation"
	"github.com/lizi12/hw5-2019/pkg/contracts/domain"
)

// Options selects the files written by an Exporter
type Options struct {
	Formats []string
	CSVBOM  bool
}

// OptionsFromConfig maps the export section of the application config
func OptionsFromConfig(cfg config.ExportConfig) Options {
	return Options{
		Formats: append([]string(nil), cfg.Formats...),
		CSVBOM:  cfg.CSVBOM,
	}
}

// Exporter writes every enabled report of an analysis result
type Exporter struct {
	paths    *config.Paths
	opts     Options
	csv      *CSVWriter
	workbook *WorkbookWriter
	dirs     *validation.FileValidator
	logger   *slog.Logger
}

// NewExporter creates an exporter writing into the output directory of paths
func NewExporter(paths *config.Paths, opts Options, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "exporter")
	return &Exporter{
		paths:    paths,
		opts:     opts,
		csv:      NewCSVWriter(paths, logger),
		workbook: NewWorkbookWriter(logger),
		dirs:     validation.NewFileValidator(logger),
		logger:   logger,
	}
}

func (e *Exporter) enabled(format string) bool {
	for _, f := range e.opts.Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

// Plan lists the files ExportAll will write, in a stable order
func (e *Exporter) Plan() []domain.ReportOutput {
	var outputs []domain.ReportOutput
	if e.enabled(config.ExportFormatCSV) {
		outputs = append(outputs,
			domain.ReportOutput{Format: domain.ReportFormatCSV, Name: config.CleanedCSVFile, Path: e.paths.CleanedCSV},
			domain.ReportOutput{Format: domain.ReportFormatCSV, Name: config.InvalidEmailsCSVFile, Path: e.paths.InvalidEmailsCSV},
			domain.ReportOutput{Format: domain.ReportFormatCSV, Name: config.ImputedCSVFile, Path: e.paths.ImputedCSV},
		)
	}
	if e.enabled(config.ExportFormatXLSX) {
		outputs = append(outputs,
			domain.ReportOutput{Format: domain.ReportFormatExcel, Name: config.ReportXLSXFile, Path: e.paths.ReportXLSX})
	}
	if e.enabled(config.ExportFormatJSON) {
		outputs = append(outputs,
			domain.ReportOutput{Format: domain.ReportFormatJSON, Name: config.ReportJSONFile, Path: e.paths.ReportJSON})
	}
	return outputs
}

// ExportAll records the planned outputs on report and writes every file
// concurrently. The output directory is created and checked first. The
// first writer failure cancels the remaining writers.
func (e *Exporter) ExportAll(ctx context.Context, res *dataprocessing.Result, report *domain.AnalysisReport) error {
	if res == nil || report == nil {
		return apperrors.NewInvalidArgumentError("result and report are required")
	}

	start := time.Now()
	outputs := e.Plan()
	report.Outputs = outputs
	if len(outputs) == 0 {
		return nil
	}
	if err := e.dirs.ValidateOutputDirectory(e.paths.OutputDir); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, out := range outputs {
		out := out
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := e.write(out, res, report); err != nil {
				e.logger.ErrorContext(ctx, "Export failed",
					slog.String("file", out.Name),
					slog.String("error", err.Error()))
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	e.logger.InfoContext(ctx, "Reports exported",
		slog.Int("files", len(outputs)),
		slog.String("output_dir", e.paths.OutputDir),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (e *Exporter) write(out domain.ReportOutput, res *dataprocessing.Result, report *domain.AnalysisReport) error {
	tableOpts := TableOptions{BOMPrefix: e.opts.CSVBOM, IndexColumn: "row"}

	switch out.Name {
	case config.CleanedCSVFile:
		return e.csv.WriteTable(out.Path, res.Cleaned(), tableOpts)
	case config.InvalidEmailsCSVFile:
		return e.csv.WriteTable(out.Path, res.Emails.Invalid, tableOpts)
	case config.ImputedCSVFile:
		return e.csv.WriteTable(out.Path, res.ImputedRows(), tableOpts)
	case config.ReportXLSXFile:
		return e.workbook.Write(out.Path, res)
	case config.ReportJSONFile:
		return WriteReportJSON(out.Path, *report)
	}
	return apperrors.NewInvalidArgumentError("unknown output " + out.Name)
}
