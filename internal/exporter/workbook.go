package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/lizi12/hw5-2019/internal/dataprocessing"
	apperrors "github.com/lizi12/hw5-2019/internal/errors"
)

// Sheet names of the analysis workbook
const (
	SheetCleaned         = "Cleaned"
	SheetInvalidEmails   = "Invalid Emails"
	SheetImputedRows     = "Imputed Rows"
	SheetAgeDistribution = "Age Distribution"
)

// WorkbookWriter writes an analysis result to a single XLSX workbook
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger}
}

// Write saves the cleaned rows, the invalid emails, the imputed rows and the
// age histogram with a column chart to path.
func (w *WorkbookWriter) Write(path string, res *dataprocessing.Result) error {
	if res == nil || res.Cleaned() == nil {
		return apperrors.NewInvalidArgumentError("analysis result is incomplete")
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return apperrors.NewStorageError("failed to create header style", err)
	}

	if err := f.SetSheetName(f.GetSheetName(0), SheetCleaned); err != nil {
		return apperrors.NewStorageError("failed to rename sheet", err)
	}
	if err := w.writeTableSheet(f, SheetCleaned, res.Cleaned(), header); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetInvalidEmails); err != nil {
		return apperrors.NewStorageError("failed to add sheet", err)
	}
	if err := w.writeTableSheet(f, SheetInvalidEmails, res.Emails.Invalid, header); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetImputedRows); err != nil {
		return apperrors.NewStorageError("failed to add sheet", err)
	}
	if err := w.writeTableSheet(f, SheetImputedRows, res.ImputedRows(), header); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetAgeDistribution); err != nil {
		return apperrors.NewStorageError("failed to add sheet", err)
	}
	if err := w.writeHistogramSheet(f, res.Ages, header); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err)
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError("failed to save workbook", err).WithContext("path", path)
	}

	w.logger.Info("Workbook written",
		slog.String("path", path),
		slog.Int("cleaned_rows", res.Cleaned().Len()))
	return nil
}

func (w *WorkbookWriter) writeTableSheet(f *excelize.File, sheet string, table *dataprocessing.Table, headerStyle int) error {
	if table == nil {
		return nil
	}
	headers, _ := tableRecords(table, "")

	row := make([]interface{}, len(headers)+1)
	row[0] = "row"
	for i, h := range headers {
		row[i+1] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write header of %s", sheet), err)
	}
	last, _ := excelize.CoordinatesToCellName(len(row), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return apperrors.NewStorageError("failed to style header", err)
	}

	for i, r := range table.Rows() {
		values := make([]interface{}, len(headers)+1)
		values[0] = r.Origin
		for j, c := range headers {
			v := r.Value(c)
			if dataprocessing.IsMissing(v) {
				v = nil
			}
			values[j+1] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write row %d of %s", i, sheet), err)
		}
	}
	return nil
}

func (w *WorkbookWriter) writeHistogramSheet(f *excelize.File, h dataprocessing.Histogram, headerStyle int) error {
	sheet := SheetAgeDistribution

	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Bin", "Lower", "Upper", "Count"}); err != nil {
		return apperrors.NewStorageError("failed to write histogram header", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "D1", headerStyle); err != nil {
		return apperrors.NewStorageError("failed to style header", err)
	}

	for i, c := range h.Counts {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{h.BinLabel(i), h.Edges[i], h.Edges[i+1], c}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return apperrors.NewStorageError("failed to write histogram row", err)
		}
	}
	if len(h.Counts) == 0 {
		return nil
	}

	lastRow := len(h.Counts) + 1
	ref := func(col string) string {
		return fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, col, col, lastRow)
	}
	err := f.AddChart(sheet, "F2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("'%s'!$D$1", sheet),
				Categories: ref("A"),
				Values:     ref("D"),
			},
		},
		Title:  []excelize.RichTextRun{{Text: "Participant age distribution"}},
		Legend: excelize.ChartLegend{Position: "none"},
	})
	if err != nil {
		return apperrors.NewStorageError("failed to add histogram chart", err)
	}
	return nil
}
