package config

// Application constants
const (
	// Application Info
	AppName    = "Questionnaire Analysis"
	AppVersion = "1.0.0"

	// Environment variables are read as QNR_<SECTION>_<FIELD>
	EnvPrefix = "QNR"

	// Column defaults matching the questionnaire export
	DefaultAgeColumn   = "age"
	DefaultEmailColumn = "email"

	// Imputation strategies
	ImputeStrategyColumn = "column"
	ImputeStrategyRow    = "row"

	// Policies for a column whose values are all missing
	EmptyMeanLeave = "leave"
	EmptyMeanFail  = "fail"
	EmptyMeanZero  = "zero"

	// Input layouts
	InputFormatAuto    = "auto"
	InputFormatRecords = "records"
	InputFormatColumns = "columns"
	InputFormatLines   = "lines"

	// Export formats
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
	ExportFormatJSON = "json"

	// Well-known output file names
	CleanedCSVFile       = "cleaned.csv"
	InvalidEmailsCSVFile = "invalid_emails.csv"
	ImputedCSVFile       = "imputed.csv"
	ReportXLSXFile       = "report.xlsx"
	ReportJSONFile       = "report.json"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "questionnaire.log"

	// Text histogram bar width in characters
	DefaultHistogramWidth = 40
)

// DefaultQuestionColumns returns the grade columns of the questionnaire.
func DefaultQuestionColumns() []string {
	return []string{"q1", "q2", "q3", "q4", "q5"}
}

// DefaultAgeBins returns the fixed age histogram edges. The last bin is
// closed on the right so that 99 is counted.
func DefaultAgeBins() []float64 {
	return []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 99}
}
