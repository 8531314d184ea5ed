package exporter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lizi12/hw5-2019/internal/dataprocessing"
	apperrors "github.com/lizi12/hw5-2019/internal/errors"
	"github.com/lizi12/hw5-2019/pkg/contracts"
	"github.com/lizi12/hw5-2019/pkg/contracts/domain"
)

func TestBuildReport(t *testing.T) {
	res := runSample(t)
	opts := dataprocessing.DefaultAnalysisOptions()

	report := BuildReport("run-1", res, opts)

	assert.Equal(t, "run-1", report.ID)
	assert.Equal(t, contracts.ReportFormatVersion, report.Version)
	assert.Equal(t, res.Source, report.Source)
	assert.Equal(t, domain.RowCounts{Loaded: 5, MissingEmail: 1, InvalidEmail: 1, Cleaned: 3}, report.Rows)

	assert.Equal(t, opts.AgeColumn, report.Ages.Column)
	assert.Equal(t, res.Ages.Counts, report.Ages.Counts)
	assert.Equal(t, 4, report.Ages.Total)
	assert.Equal(t, 1, report.Ages.Missing)
	require.Len(t, report.Ages.Bins, len(res.Ages.Counts))
	assert.Equal(t, "[0, 10)", report.Ages.Bins[0].Label)

	assert.Equal(t, []domain.InvalidEmail{{Row: 3, Value: "dee-at-example.com"}}, report.Emails.Invalid)
	assert.Equal(t, 1, report.Emails.MissingCount)

	assert.Equal(t, []int{1, 2}, report.Imputation.Rows)
	assert.Equal(t, []int{1, 4}, report.Imputation.SourceRows)
	assert.Equal(t, 3, report.Imputation.CellsFilled)
	assert.Equal(t, 4.0, report.Imputation.ColumnMeans["q2"])
	assert.Equal(t, string(dataprocessing.ImputeByColumn), report.Parameters.ImputeStrategy)
	assert.Equal(t, opts.Impute.Questions, report.Parameters.QuestionColumns)
}

func TestAgeDistributionOf_Empty(t *testing.T) {
	d := AgeDistributionOf("age", dataprocessing.Histogram{Edges: []float64{0, 10}, Counts: []int{0}})

	assert.Equal(t, 0, d.Total)
	require.Len(t, d.Bins, 1)
	assert.Equal(t, "[0, 10]", d.Bins[0].Label)
}

func TestReportJSON_RoundTrip(t *testing.T) {
	res := runSample(t)
	report := BuildReport("run-1", res, dataprocessing.DefaultAnalysisOptions())
	report.Status = domain.ReportStatusCompleted
	report.GeneratedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	report.Outputs = []domain.ReportOutput{{Format: domain.ReportFormatJSON, Name: "report.json", Path: "/tmp/report.json"}}

	path := filepath.Join(t.TempDir(), "out", "report.json")
	require.NoError(t, WriteReportJSON(path, report))

	got, err := ReadReportJSON(path)
	require.NoError(t, err)

	assert.Equal(t, report.ID, got.ID)
	assert.True(t, report.GeneratedAt.Equal(got.GeneratedAt))
	assert.Equal(t, report.Rows, got.Rows)
	assert.Equal(t, report.Ages, got.Ages)
	assert.Equal(t, report.Emails, got.Emails)
	assert.Equal(t, report.Imputation.SourceRows, got.Imputation.SourceRows)
	assert.Equal(t, report.Outputs, got.Outputs)
	assert.True(t, got.IsCompleted())
}

func TestReadReportJSON_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadReportJSON(filepath.Join(dir, "missing.json"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{not json"), 0644))
	_, err = ReadReportJSON(broken)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}
