// Package config loads the aggregator configuration.
//
// # Configuration Sources
//
// Values are read in this order, later sources overriding earlier ones:
//
//	1. Defaults from struct tags
//	2. Environment variables (MATAGG_*)
//	3. A YAML file (MATAGG_CONFIG, ./config.yaml or ./configs/config.yaml)
//
// Command line flags in cmd/aggregator override the result.
//
// # Environment Variables
//
//	MATAGG_PATHS_INPUT_DIR=data
//	MATAGG_PATHS_OUTPUT_DIR=output
//	MATAGG_SOURCES_FILES=storage:storage.xlsx,materials:materials.csv
//	MATAGG_OUTPUT_FORMAT=xlsx
//	MATAGG_LOGGING_LEVEL=debug
//	MATAGG_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Validation
//
// The loaded Config is checked with go-playground/validator. Source names
// must be known and the storage source must always be configured.
package config
