// Package shared holds helpers used by more than one package of the
// questionnaire toolkit that belong to no single layer.
//
// The testutil subpackage provides:
//
//   - questionnaire JSON fixtures and WriteFixture for t.TempDir files
//   - BufferedSlogHandler, a slog.Handler that captures records for
//     assertions, with AssertLogContains, AssertLogAttr and AssertNoErrors
//
// Example:
//
//	logger, handler := testutil.NewTestLogger(t)
//	path := testutil.WriteFixture(t, "responses.json", testutil.SampleRecordsJSON)
//	...
//	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Questionnaire loaded")
package shared
