package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains the resolved output locations of one analysis run
type Paths struct {
	BaseDir   string
	OutputDir string
	LogsDir   string

	// Well-known report files
	CleanedCSV       string
	InvalidEmailsCSV string
	ImputedCSV       string
	ReportXLSX       string
	ReportJSON       string
}

// ResolvePaths resolves relative directories against baseDir. An empty
// baseDir means the current working directory.
func ResolvePaths(cfg PathsConfig, baseDir string) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	outputDir := resolve(baseDir, cfg.OutputDir)
	logsDir := resolve(baseDir, cfg.LogsDir)
	if cfg.LogsDir == "" {
		logsDir = filepath.Join(baseDir, "logs")
	}

	return &Paths{
		BaseDir:          baseDir,
		OutputDir:        outputDir,
		LogsDir:          logsDir,
		CleanedCSV:       filepath.Join(outputDir, CleanedCSVFile),
		InvalidEmailsCSV: filepath.Join(outputDir, InvalidEmailsCSVFile),
		ImputedCSV:       filepath.Join(outputDir, ImputedCSVFile),
		ReportXLSX:       filepath.Join(outputDir, ReportXLSXFile),
		ReportJSON:       filepath.Join(outputDir, ReportJSONFile),
	}, nil
}

func resolve(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

// EnsureDirectories creates the directory of the log file when logging
// writes to a file. Console logging creates nothing. The output directory
// is prepared by the exporter.
func (p *Paths) EnsureDirectories(logging LoggingConfig) error {
	if !logsToFile(logging.Output) {
		return nil
	}
	dir := filepath.Dir(p.GetLogPath(logging.FilePath))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	slog.Debug("Ensured directory exists", slog.String("directory", dir))
	return nil
}

func logsToFile(output string) bool {
	switch strings.ToLower(output) {
	case "file", "both":
		return true
	}
	return false
}

// GetReportPath returns the path of filename inside the output directory
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// GetLogPath returns the path of filename inside the logs directory.
// Absolute names are returned unchanged.
func (p *Paths) GetLogPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
