package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "github.com/lizi12/hw5-2019/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// AnalysisConfig controls the column names and numeric policies of the analysis
type AnalysisConfig struct {
	AgeColumn       string    `yaml:"age_column" envconfig:"AGE_COLUMN" validate:"required"`
	EmailColumn     string    `yaml:"email_column" envconfig:"EMAIL_COLUMN" validate:"required"`
	QuestionColumns []string  `yaml:"question_columns" envconfig:"QUESTION_COLUMNS" validate:"min=1,dive,required"`
	AgeBins         []float64 `yaml:"age_bins" envconfig:"AGE_BINS" validate:"min=2"`
	ImputeStrategy  string    `yaml:"impute_strategy" envconfig:"IMPUTE_STRATEGY" validate:"oneof=column row"`
	EmptyMeanPolicy string    `yaml:"empty_mean_policy" envconfig:"EMPTY_MEAN_POLICY" validate:"oneof=leave fail zero"`
	InputFormat     string    `yaml:"input_format" envconfig:"INPUT_FORMAT" validate:"oneof=auto records columns lines"`
}

// ExportConfig selects which reports are written after an analysis
type ExportConfig struct {
	Formats        []string `yaml:"formats" envconfig:"FORMATS" validate:"dive,oneof=csv xlsx json"`
	CSVBOM         bool     `yaml:"csv_bom" envconfig:"CSV_BOM"`
	HistogramWidth int      `yaml:"histogram_width" envconfig:"HISTOGRAM_WIDTH" validate:"min=1"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	TraceFile     string  `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile   string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"min=0,max=1"`
}

// Load builds the configuration from defaults, the YAML file and the environment.
// An empty configFile triggers discovery in the usual locations; a missing
// discovered file is not an error, a missing explicit one is.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("file", configFile)
		}
	}

	// Environment overrides only the variables that are set
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and the histogram edges
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
		}
		return apperrors.NewConfigError("config validation failed", err).
			WithContext("fields", strings.Join(fields, ", "))
	}

	for i := 1; i < len(c.Analysis.AgeBins); i++ {
		if c.Analysis.AgeBins[i] <= c.Analysis.AgeBins[i-1] {
			return apperrors.NewConfigError(
				fmt.Sprintf("age bins must be strictly increasing, got %v", c.Analysis.AgeBins), nil)
		}
	}

	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}

	return nil
}

// HasExportFormat reports whether format is enabled
func (c *Config) HasExportFormat(format string) bool {
	for _, f := range c.Export.Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"questionnaire.yaml",
		"configs/questionnaire.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Paths: PathsConfig{
			OutputDir: "reports",
			LogsDir:   "logs",
		},
		Analysis: AnalysisConfig{
			AgeColumn:       DefaultAgeColumn,
			EmailColumn:     DefaultEmailColumn,
			QuestionColumns: DefaultQuestionColumns(),
			AgeBins:         DefaultAgeBins(),
			ImputeStrategy:  ImputeStrategyColumn,
			EmptyMeanPolicy: EmptyMeanLeave,
			InputFormat:     InputFormatAuto,
		},
		Export: ExportConfig{
			Formats:        []string{ExportFormatCSV, ExportFormatJSON},
			CSVBOM:         true,
			HistogramWidth: DefaultHistogramWidth,
		},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
			SampleRatio:   1.0,
		},
	}
}
