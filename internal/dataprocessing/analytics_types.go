package dataprocessing

// Result holds every artefact of one pipeline run
type Result struct {
	// Source names the file the table was loaded from
	Source string

	// Loaded is the table as read from the file
	Loaded *Table

	// Ages is the age distribution of the loaded table
	Ages Histogram

	// Emails splits the loaded table by email validity
	Emails EmailPartition

	// Imputation is computed on the rows with a valid email
	Imputation Imputation
}

// Cleaned returns the final table: valid emails with missing grades filled
func (r *Result) Cleaned() *Table {
	return r.Imputation.Table
}

// ImputedRows returns the cleaned rows that had a missing grade
func (r *Result) ImputedRows() *Table {
	return r.Imputation.Table.Select(r.Imputation.Rows)
}

// Statistics summarises a run
type Statistics struct {
	RowsLoaded       int
	RowsMissingEmail int
	RowsInvalidEmail int
	RowsValidEmail   int
	RowsImputed      int
	CellsImputed     int
	AgesOutOfRange   int
	AgesMissing      int
}

// Statistics returns the row counts of the run
func (r *Result) Statistics() Statistics {
	return Statistics{
		RowsLoaded:       r.Loaded.Len(),
		RowsMissingEmail: r.Emails.DroppedMissing,
		RowsInvalidEmail: r.Emails.Invalid.Len(),
		RowsValidEmail:   r.Emails.Valid.Len(),
		RowsImputed:      len(r.Imputation.Rows),
		CellsImputed:     r.Imputation.Filled,
		AgesOutOfRange:   r.Ages.OutOfRange,
		AgesMissing:      r.Ages.Missing,
	}
}
