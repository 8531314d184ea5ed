// Package services implements the application layer of the questionnaire
// toolkit. It sits between the command line and the dataprocessing core.
//
// # AnalysisService
//
// AnalysisService runs one input file through the full pipeline:
//
//	Load → ComputeAgeDistribution → RemoveRowsWithoutValidEmail →
//	ImputeMissingWithRowMean → render → export
//
// Every run gets a UUID run ID, which is carried in the context for log
// correlation and reused as the report ID. The run and each step are traced
// and timed through the providers in internal/infrastructure.
//
//	svc, err := services.NewAnalysisService(cfg, paths, logger,
//	    services.WithTelemetry(providers, metrics),
//	    services.WithRenderer(exporter.NewTextHistogramRenderer(os.Stdout, 40)))
//	report, err := svc.Analyze(ctx, "responses.json")
//
// # Error Handling
//
// Errors are internal/errors AppErrors and are returned unchanged, so callers
// can branch on the error type. A failed run returns no report and leaves
// no report.json behind.
package services
