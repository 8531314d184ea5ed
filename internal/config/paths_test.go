package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()

	paths, err := ResolvePaths(PathsConfig{OutputDir: "out", LogsDir: "var/log"}, base)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "out"), paths.OutputDir)
	assert.Equal(t, filepath.Join(base, "var", "log"), paths.LogsDir)
	assert.Equal(t, filepath.Join(base, "out", CleanedCSVFile), paths.CleanedCSV)
	assert.Equal(t, filepath.Join(base, "out", InvalidEmailsCSVFile), paths.InvalidEmailsCSV)
	assert.Equal(t, filepath.Join(base, "out", ReportXLSXFile), paths.ReportXLSX)
	assert.Equal(t, filepath.Join(base, "out", "extra.csv"), paths.GetReportPath("extra.csv"))
	assert.Equal(t, filepath.Join(base, "var", "log", "run.log"), paths.GetLogPath("run.log"))
	assert.Equal(t, "/tmp/q.log", paths.GetLogPath("/tmp/q.log"))
}

func TestResolvePaths_AbsoluteOutput(t *testing.T) {
	abs := t.TempDir()

	paths, err := ResolvePaths(PathsConfig{OutputDir: abs}, "/somewhere/else")
	require.NoError(t, err)

	assert.Equal(t, abs, paths.OutputDir)
	assert.Equal(t, filepath.Join("/somewhere/else", "logs"), paths.LogsDir)
}

func TestEnsureDirectories(t *testing.T) {
	tests := []struct {
		name    string
		logging LoggingConfig
		wantDir string
	}{
		{name: "console", logging: LoggingConfig{Output: "console", FilePath: DefaultLogFile}},
		{name: "file", logging: LoggingConfig{Output: "file", FilePath: DefaultLogFile}, wantDir: "c"},
		{name: "both", logging: LoggingConfig{Output: "Both", FilePath: "nested/run.log"}, wantDir: filepath.Join("c", "nested")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			paths, err := ResolvePaths(PathsConfig{OutputDir: "a/b", LogsDir: "c"}, base)
			require.NoError(t, err)

			require.NoError(t, paths.EnsureDirectories(tt.logging))

			assert.NoDirExists(t, paths.OutputDir)
			if tt.wantDir == "" {
				assert.NoDirExists(t, paths.LogsDir)
				return
			}
			assert.DirExists(t, filepath.Join(base, tt.wantDir))
		})
	}
}

func TestEnsureDirectories_AbsoluteLogFile(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "elsewhere")
	paths, err := ResolvePaths(PathsConfig{OutputDir: "out", LogsDir: "logs"}, t.TempDir())
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories(LoggingConfig{Output: "file", FilePath: filepath.Join(logDir, "q.log")}))

	assert.DirExists(t, logDir)
	assert.NoDirExists(t, paths.LogsDir)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x.json")
	require.NoError(t, os.WriteFile(file, []byte("[]"), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "missing.json")))
}
