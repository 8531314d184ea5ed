package domain

import (
	"time"
)

// AnalysisReport summarises one questionnaire analysis run
type AnalysisReport struct {
	ID          string          `json:"id" validate:"required,uuid"`
	Version     string          `json:"version" validate:"required"`
	Source      string          `json:"source" validate:"required"`
	Status      ReportStatus    `json:"status" validate:"required,oneof=completed failed"`
	GeneratedAt time.Time       `json:"generated_at" validate:"required"`
	DurationMS  int64           `json:"duration_ms" validate:"gte=0"`
	TraceID     string          `json:"trace_id,omitempty" validate:"omitempty,len=32,hexadecimal"`
	Parameters  ReportParams    `json:"parameters"`
	Rows        RowCounts       `json:"rows"`
	Ages        AgeDistribution `json:"age_distribution"`
	Emails      EmailSummary    `json:"emails"`
	Imputation  ImputationInfo  `json:"imputation"`
	Outputs     []ReportOutput  `json:"outputs,omitempty" validate:"omitempty,dive"`
	Error       string          `json:"error,omitempty"`
}

// ReportStatus represents the outcome of a run
type ReportStatus string

const (
	ReportStatusCompleted ReportStatus = "completed"
	ReportStatusFailed    ReportStatus = "failed"
)

// ReportFormat defines the format of an exported file
type ReportFormat string

const (
	ReportFormatCSV   ReportFormat = "csv"
	ReportFormatExcel ReportFormat = "xlsx"
	ReportFormatJSON  ReportFormat = "json"
)

// ReportParams records the settings a run used
type ReportParams struct {
	AgeColumn       string   `json:"age_column"`
	EmailColumn     string   `json:"email_column"`
	QuestionColumns []string `json:"question_columns"`
	ImputeStrategy  string   `json:"impute_strategy"`
	EmptyMeanPolicy string   `json:"empty_mean_policy"`
	InputFormat     string   `json:"input_format"`
}

// RowCounts holds row totals per stage
type RowCounts struct {
	Loaded       int `json:"loaded" validate:"gte=0"`
	MissingEmail int `json:"missing_email" validate:"gte=0"`
	InvalidEmail int `json:"invalid_email" validate:"gte=0"`
	Cleaned      int `json:"cleaned" validate:"gte=0"`
}

// AgeDistribution is the serialisable form of the age histogram
type AgeDistribution struct {
	Column     string    `json:"column"`
	Edges      []float64 `json:"edges"`
	Counts     []int     `json:"counts"`
	Bins       []AgeBin  `json:"bins"`
	Total      int       `json:"total"`
	Missing    int       `json:"missing"`
	OutOfRange int       `json:"out_of_range"`
}

// AgeBin is one histogram bar
type AgeBin struct {
	Label string  `json:"label"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// EmailSummary lists the rows removed by the email filter
type EmailSummary struct {
	Column       string         `json:"column"`
	MissingCount int            `json:"missing_count"`
	Invalid      []InvalidEmail `json:"invalid"`
}

// InvalidEmail identifies a row whose email failed validation
type InvalidEmail struct {
	// Row is the position of the row in the loaded file
	Row   int    `json:"row"`
	Value string `json:"value"`
}

// ImputationInfo describes the filled grades
type ImputationInfo struct {
	Strategy    string             `json:"strategy"`
	Rows        []int              `json:"rows"`
	SourceRows  []int              `json:"source_rows"`
	CellsFilled int                `json:"cells_filled"`
	ColumnMeans map[string]float64 `json:"column_means,omitempty"`
	RowMeans    map[int]float64    `json:"row_means,omitempty"`
}

// ReportOutput is one file written by the exporter
type ReportOutput struct {
	Format ReportFormat `json:"format" validate:"required,oneof=csv xlsx json"`
	Name   string       `json:"name" validate:"required"`
	Path   string       `json:"path" validate:"required"`
}

// IsCompleted returns true if the run finished without error
func (r *AnalysisReport) IsCompleted() bool {
	return r.Status == ReportStatusCompleted
}

// OutputPaths returns the written file paths keyed by name
func (r *AnalysisReport) OutputPaths() map[string]string {
	paths := make(map[string]string, len(r.Outputs))
	for _, o := range r.Outputs {
		paths[o.Name] = o.Path
	}
	return paths
}
