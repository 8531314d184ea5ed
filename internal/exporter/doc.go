// Package exporter writes the artefacts of a questionnaire analysis.
//
// CSVWriter turns tables into CSV files, optionally prefixed with a UTF-8 BOM
// and an index column holding each row's position in the loaded file.
// WorkbookWriter bundles every table and the age histogram, with a chart, in
// one XLSX workbook. BuildReport and WriteReportJSON produce the JSON run
// report, and TextHistogramRenderer prints the age distribution to a
// terminal.
//
// Exporter ties these together:
//
//	e := exporter.NewExporter(paths, exporter.Options{Formats: []string{"csv", "json"}}, logger)
//	report := exporter.BuildReport(runID, res, opts)
//	err := e.ExportAll(ctx, res, &report)
package exporter
