package dataprocessing

import (
	"github.com/lizi12/hw5-2019/internal/config"
)

// AnalysisOptions configures a QuestionnaireAnalysis
type AnalysisOptions struct {
	// AgeColumn holds the participant age
	AgeColumn string

	// EmailColumn holds the participant email address
	EmailColumn string

	// AgeEdges are the histogram bin edges
	AgeEdges []float64

	// Impute configures missing-grade imputation
	Impute ImputeOptions

	// Format overrides input format detection
	Format InputFormat
}

// DefaultAnalysisOptions returns the questionnaire defaults
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		AgeColumn:   config.DefaultAgeColumn,
		EmailColumn: config.DefaultEmailColumn,
		AgeEdges:    DefaultAgeEdges(),
		Impute:      DefaultImputeOptions(),
		Format:      FormatAuto,
	}
}

// OptionsFromConfig maps the analysis section of the application config
func OptionsFromConfig(cfg config.AnalysisConfig) (AnalysisOptions, error) {
	opts := DefaultAnalysisOptions()

	if cfg.AgeColumn != "" {
		opts.AgeColumn = cfg.AgeColumn
	}
	if cfg.EmailColumn != "" {
		opts.EmailColumn = cfg.EmailColumn
	}
	if len(cfg.AgeBins) > 0 {
		if err := ValidateEdges(cfg.AgeBins); err != nil {
			return AnalysisOptions{}, err
		}
		opts.AgeEdges = append([]float64(nil), cfg.AgeBins...)
	}
	if len(cfg.QuestionColumns) > 0 {
		opts.Impute.Questions = append([]string(nil), cfg.QuestionColumns...)
	}
	if cfg.ImputeStrategy != "" {
		opts.Impute.Strategy = ImputeStrategy(cfg.ImputeStrategy)
	}
	if cfg.EmptyMeanPolicy != "" {
		opts.Impute.EmptyMean = EmptyMeanPolicy(cfg.EmptyMeanPolicy)
	}

	format, err := ParseInputFormat(cfg.InputFormat)
	if err != nil {
		return AnalysisOptions{}, err
	}
	opts.Format = format

	return opts, nil
}
