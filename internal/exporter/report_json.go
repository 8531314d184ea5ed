package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	gojson "github.com/goccy/go-json"

	"github.com/lizi12/hw5-2019/internal/dataprocessing"
	apperrors "github.com/lizi12/hw5-2019/internal/errors"
	"github.com/lizi12/hw5-2019/pkg/contracts"
	"github.com/lizi12/hw5-2019/pkg/contracts/domain"
)

// BuildReport converts a pipeline result into the report contract. Timing,
// status and outputs are left for the caller.
func BuildReport(id string, res *dataprocessing.Result, opts dataprocessing.AnalysisOptions) domain.AnalysisReport {
	report := domain.AnalysisReport{
		ID:      id,
		Version: contracts.ReportFormatVersion,
		Source:  res.Source,
		Parameters: domain.ReportParams{
			AgeColumn:       opts.AgeColumn,
			EmailColumn:     opts.EmailColumn,
			QuestionColumns: append([]string(nil), opts.Impute.Questions...),
			ImputeStrategy:  string(opts.Impute.Strategy),
			EmptyMeanPolicy: string(opts.Impute.EmptyMean),
			InputFormat:     string(opts.Format),
		},
		Ages: AgeDistributionOf(opts.AgeColumn, res.Ages),
	}

	stats := res.Statistics()
	report.Rows = domain.RowCounts{
		Loaded:       stats.RowsLoaded,
		MissingEmail: stats.RowsMissingEmail,
		InvalidEmail: stats.RowsInvalidEmail,
		Cleaned:      res.Cleaned().Len(),
	}

	report.Emails = domain.EmailSummary{
		Column:       opts.EmailColumn,
		MissingCount: res.Emails.DroppedMissing,
		Invalid:      make([]domain.InvalidEmail, 0, res.Emails.Invalid.Len()),
	}
	for _, r := range res.Emails.Invalid.Rows() {
		report.Emails.Invalid = append(report.Emails.Invalid, domain.InvalidEmail{
			Row:   r.Origin,
			Value: formatCell(r.Value(opts.EmailColumn)),
		})
	}

	cleaned := res.Cleaned()
	sourceRows := make([]int, 0, len(res.Imputation.Rows))
	for _, i := range res.Imputation.Rows {
		sourceRows = append(sourceRows, cleaned.Row(i).Origin)
	}
	rows := res.Imputation.Rows
	if rows == nil {
		rows = []int{}
	}
	report.Imputation = domain.ImputationInfo{
		Strategy:    string(opts.Impute.Strategy),
		Rows:        rows,
		SourceRows:  sourceRows,
		CellsFilled: res.Imputation.Filled,
		ColumnMeans: res.Imputation.Means,
		RowMeans:    res.Imputation.RowMeans,
	}

	return report
}

// AgeDistributionOf converts a histogram into its report form
func AgeDistributionOf(column string, h dataprocessing.Histogram) domain.AgeDistribution {
	d := domain.AgeDistribution{
		Column:     column,
		Edges:      append([]float64(nil), h.Edges...),
		Counts:     append([]int(nil), h.Counts...),
		Bins:       make([]domain.AgeBin, len(h.Counts)),
		Total:      h.Total(),
		Missing:    h.Missing,
		OutOfRange: h.OutOfRange,
	}
	for i, c := range h.Counts {
		d.Bins[i] = domain.AgeBin{
			Label: h.BinLabel(i),
			Lower: h.Edges[i],
			Upper: h.Edges[i+1],
			Count: c,
		}
	}
	return d
}

// WriteReportJSON writes report as indented JSON
func WriteReportJSON(path string, report domain.AnalysisReport) error {
	data, err := gojson.MarshalIndent(report, "", "  ")
	if err != nil {
		return apperrors.NewStorageError("failed to encode report", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s", path), err).WithContext("path", path)
	}
	return nil
}

// ReadReportJSON loads a report written by WriteReportJSON
func ReadReportJSON(path string) (domain.AnalysisReport, error) {
	var report domain.AnalysisReport

	data, err := os.ReadFile(path)
	if err != nil {
		return report, apperrors.NewStorageError(fmt.Sprintf("failed to read %s", path), err)
	}
	if err := gojson.Unmarshal(data, &report); err != nil {
		return report, apperrors.NewParsingError("invalid report JSON", err)
	}
	return report, nil
}
