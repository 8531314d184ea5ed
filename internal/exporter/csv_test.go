package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lizi12/hw5-2019/internal/config"
	"github.com/lizi12/hw5-2019/internal/dataprocessing"
	apperrors "github.com/lizi12/hw5-2019/internal/errors"
)

// Setup test environment
func setupTestEnv(t *testing.T) (*CSVWriter, string) {
	t.Helper()

	tempDir := t.TempDir()
	paths, err := config.ResolvePaths(config.PathsConfig{OutputDir: "out"}, tempDir)
	require.NoError(t, err)

	return NewCSVWriter(paths, nil), tempDir
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		wantBOM  bool
	}{
		{
			name:     "headers and records",
			filePath: "basic.csv",
			options: WriteOptions{
				Headers: []string{"age", "email"},
				Records: [][]string{{"5", "a@b.com"}, {"15", ""}},
			},
		},
		{
			name:     "with BOM",
			filePath: "bom.csv",
			options: WriteOptions{
				Headers:   []string{"age"},
				Records:   [][]string{{"5"}},
				BOMPrefix: true,
			},
			wantBOM: true,
		},
		{
			name:     "nested directory",
			filePath: filepath.Join("nested", "dir", "file.csv"),
			options: WriteOptions{
				Headers: []string{"q1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, writer.WriteCSV(tt.filePath, tt.options))

			fullPath := filepath.Join(tempDir, "out", tt.filePath)
			content, err := os.ReadFile(fullPath)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBOM, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))

			records := readCSV(t, fullPath)
			require.Len(t, records, len(tt.options.Records)+1)
			assert.Equal(t, tt.options.Headers, records[0])
			for i, r := range tt.options.Records {
				assert.Equal(t, r, records[i+1])
			}
		})
	}
}

func TestCSVWriter_WriteTable(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	table, err := dataprocessing.DecodeTable([]byte(`[
		{"age": 5, "email": "a@b.com", "q1": 3.5},
		{"age": null, "email": "b@c.org", "q1": 2}
	]`), dataprocessing.FormatRecords)
	require.NoError(t, err)

	require.NoError(t, writer.WriteTable("table.csv", table, TableOptions{}))
	records := readCSV(t, filepath.Join(tempDir, "out", "table.csv"))
	assert.Equal(t, [][]string{
		{"age", "email", "q1"},
		{"5", "a@b.com", "3.5"},
		{"", "b@c.org", "2"},
	}, records)

	require.NoError(t, writer.WriteTable("indexed.csv", table, TableOptions{IndexColumn: "row", BOMPrefix: true}))
	records = readCSV(t, filepath.Join(tempDir, "out", "indexed.csv"))
	assert.Equal(t, []string{"row", "age", "email", "q1"}, records[0])
	assert.Equal(t, "0", records[1][0])
	assert.Equal(t, "1", records[2][0])
}

func TestCSVWriter_WriteTableKeepsOrigin(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	table, err := dataprocessing.DecodeTable([]byte(`[{"email": "a@b.com"}, {"email": "bad"}, {"email": "worse"}]`), dataprocessing.FormatRecords)
	require.NoError(t, err)
	p, err := table.RemoveRowsWithoutValidEmail("email", dataprocessing.EmailPredicateFunc(func(e string) bool {
		return strings.Contains(e, "@")
	}))
	require.NoError(t, err)

	require.NoError(t, writer.WriteTable("invalid.csv", p.Invalid, TableOptions{IndexColumn: "row"}))
	records := readCSV(t, filepath.Join(tempDir, "out", "invalid.csv"))
	assert.Equal(t, [][]string{{"row", "email"}, {"1", "bad"}, {"2", "worse"}}, records)
}

func TestCSVWriter_WriteTableNil(t *testing.T) {
	writer, _ := setupTestEnv(t)

	err := writer.WriteTable("nil.csv", nil, TableOptions{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvalidArgument))
}

func TestCSVWriter_ResolvePath(t *testing.T) {
	writer, tempDir := setupTestEnv(t)
	abs := filepath.Join(tempDir, "elsewhere.csv")

	assert.Equal(t, abs, writer.resolvePath(abs))
	assert.Equal(t, filepath.Join(tempDir, "out", "cleaned.csv"), writer.resolvePath("cleaned.csv"))

	bare := NewCSVWriter(nil, nil)
	assert.Equal(t, "cleaned.csv", bare.resolvePath("cleaned.csv"))
}

func TestCSVWriter_SpecialCharacters(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	headers := []string{"Name", "Description", "Notes"}
	records := [][]string{
		{"Company, Inc", "Description with \"quotes\"", "Notes with\nnewlines"},
		{"Åsa", "Emojis: 😀🚀", "Special chars: ñáéíóú"},
	}

	err := writer.WriteCSV("special_chars.csv", WriteOptions{Headers: headers, Records: records, BOMPrefix: true})
	require.NoError(t, err)

	all := readCSV(t, filepath.Join(tempDir, "out", "special_chars.csv"))
	require.Len(t, all, 3)
	assert.Equal(t, headers, all[0])
	assert.Equal(t, records[0], all[1])
	assert.Equal(t, records[1], all[2])
}

func TestCSVWriter_ConcurrentWrites(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	const numGoroutines = 10
	const recordsPerGoroutine = 100

	var wg sync.WaitGroup
	errs := make([]error, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			var records [][]string
			for j := 0; j < recordsPerGoroutine; j++ {
				records = append(records, []string{"Record" + string(rune('A'+id)), string(rune('0' + j%10))})
			}
			errs[id] = writer.WriteCSV(filepath.Join("concurrent", "file_"+string(rune('A'+id))+".csv"),
				WriteOptions{Headers: []string{"Name", "Number"}, Records: records})
		}(i)
	}
	wg.Wait()

	for i := 0; i < numGoroutines; i++ {
		require.NoError(t, errs[i])
		records := readCSV(t, filepath.Join(tempDir, "out", "concurrent", "file_"+string(rune('A'+i))+".csv"))
		assert.Len(t, records, recordsPerGoroutine+1)
	}
}

func TestCSVWriter_ErrorScenarios(t *testing.T) {
	tempDir := t.TempDir()
	blocker := filepath.Join(tempDir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	writer := NewCSVWriter(nil, nil)
	err := writer.WriteCSV(filepath.Join(blocker, "test.csv"), WriteOptions{Headers: []string{"Test"}})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

// BenchmarkCSVWriter_WriteTable tests CSV writing performance
func BenchmarkCSVWriter_WriteTable(b *testing.B) {
	paths, err := config.ResolvePaths(config.PathsConfig{OutputDir: "out"}, b.TempDir())
	require.NoError(b, err)
	writer := NewCSVWriter(paths, nil)

	records := make([]map[string]any, 1000)
	for i := range records {
		records[i] = map[string]any{"age": float64(i % 90), "email": "user@example.com", "q1": float64(i % 5)}
	}
	table := dataprocessing.NewTable([]string{"age", "email", "q1"}, records)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		require.NoError(b, writer.WriteTable("benchmark.csv", table, TableOptions{BOMPrefix: true}))
	}
}
