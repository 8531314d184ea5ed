package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Questionnaire fixtures in the records layout. Row 2 of SampleRecordsJSON
// has no email and row 3 has an invalid one; rows 1 and 4 miss a grade.
const (
	SampleRecordsJSON = `[
  {"id": 1, "first_name": "Ada", "age": 34, "email": "ada@example.com", "q1": 4, "q2": 5, "q3": 3, "q4": 4, "q5": 5},
  {"id": 2, "first_name": "Ben", "age": 27, "email": "ben@example.com", "q1": 2, "q2": null, "q3": 4, "q4": 3, "q5": 1},
  {"id": 3, "first_name": "Cai", "age": null, "email": null, "q1": 5, "q2": 5, "q3": 5, "q4": 5, "q5": 5},
  {"id": 4, "first_name": "Dee", "age": 61, "email": "dee-at-example.com", "q1": 1, "q2": 2, "q3": 3, "q4": 4, "q5": 5},
  {"id": 5, "first_name": "Eve", "age": 99, "email": "eve@example.org", "q1": 3, "q2": 3, "q3": null, "q4": null, "q5": 2}
]`

	// AgesJSON has ages 5, 15, missing and 99.
	AgesJSON = `[{"age": 5}, {"age": 15}, {"age": null}, {"age": 99}]`

	// EmailsJSON has one valid, one invalid and one missing email.
	EmailsJSON = `[{"email": "a@b.com"}, {"email": "not-an-email"}, {"email": null}]`

	// GradesJSON misses q3 in row 2.
	GradesJSON = `[
  {"q1": 1, "q2": 2, "q3": 3, "q4": 4, "q5": 5},
  {"q1": 2, "q2": 3, "q3": 5, "q4": 5, "q5": 1},
  {"q1": 3, "q2": 4, "q3": null, "q4": 1, "q5": 2},
  {"q1": 4, "q2": 5, "q3": 7, "q4": 2, "q5": 3}
]`
)

// WriteFixture writes content to name inside a fresh temporary directory and
// returns the file path.
func WriteFixture(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}
