package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lizi12/hw5-2019/internal/config"
	"github.com/lizi12/hw5-2019/internal/dataprocessing"
	apperrors "github.com/lizi12/hw5-2019/internal/errors"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance. Relative file paths are
// resolved against the output directory of paths when it is not nil.
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// TableOptions configures WriteTable
type TableOptions struct {
	BOMPrefix bool

	// IndexColumn, when set, is prepended with each row's Origin
	IndexColumn string
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err)
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return apperrors.NewStorageError("failed to open file", err).WithContext("path", fullPath)
	}
	defer file.Close()

	// Write BOM if requested (helps Excel recognize UTF-8)
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return apperrors.NewStorageError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return apperrors.NewStorageError("failed to write headers", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write record %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("failed to flush CSV", err)
	}
	return nil
}

// WriteTable writes table with its columns as the header row
func (w *CSVWriter) WriteTable(filePath string, table *dataprocessing.Table, opts TableOptions) error {
	if table == nil {
		return apperrors.NewInvalidArgumentError("table must not be nil")
	}

	headers, records := tableRecords(table, opts.IndexColumn)
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: opts.BOMPrefix,
	})
}

// tableRecords renders the header and rows of table as strings
func tableRecords(table *dataprocessing.Table, indexColumn string) ([]string, [][]string) {
	columns := table.Columns()

	headers := make([]string, 0, len(columns)+1)
	if indexColumn != "" {
		headers = append(headers, indexColumn)
	}
	headers = append(headers, columns...)

	records := make([][]string, 0, table.Len())
	for _, row := range table.Rows() {
		record := make([]string, 0, len(headers))
		if indexColumn != "" {
			record = append(record, formatInt(int64(row.Origin)))
		}
		for _, c := range columns {
			record = append(record, formatCell(row.Value(c)))
		}
		records = append(records, record)
	}
	return headers, records
}

// resolvePath resolves a relative path against the output directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	return w.paths.GetReportPath(filePath)
}
