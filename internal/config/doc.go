// Package config provides centralized configuration management for the
// logistics analyzer.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML configuration file
//  3. Default values (lowest priority)
//
// The YAML file is taken from LOGI_CONFIG_FILE, or else from config.yaml or
// configs/config.yaml when one of them exists.
//
// # Environment Variables
//
// All environment variables use the LOGI_ prefix followed by the section:
//
//	LOGI_SERVER_PORT=8080
//	LOGI_GENERATION_RECORDS=1500
//	LOGI_GENERATION_SEED=7
//	LOGI_ANALYSIS_DATASET=data/logistics_data.csv
//	LOGI_LOGGING_LEVEL=debug
//	LOGI_PATHS_REFERENCE_FILE=configs/reference.yaml
package config
