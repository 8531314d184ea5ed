// Package config provides centralized configuration management for the
// questionnaire tooling. It loads configuration from multiple sources,
// validates it, and exposes resolved output paths.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML configuration file
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern QNR_<SECTION>_<FIELD>:
//
//	QNR_LOGGING_LEVEL=debug
//	QNR_ANALYSIS_AGE_BINS=0,18,30,50,99
//	QNR_ANALYSIS_EMPTY_MEAN_POLICY=zero
//	QNR_EXPORT_FORMATS=csv,json
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths := config.ResolvePaths(cfg.Paths, "")
//
// # Testing
//
// Use config.Default() for a configuration that needs no environment or files.
package config
