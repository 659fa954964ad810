package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"matagg/pkg/contracts/domain"
)

// EnvPrefix namespaces every environment variable, e.g. MATAGG_LOGGING_LEVEL.
const EnvPrefix = "MATAGG"

// ConfigFileEnv names the variable that points at a YAML config file.
const ConfigFileEnv = EnvPrefix + "_CONFIG"

// Config represents the complete application configuration
type Config struct {
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Sources   SourcesConfig   `yaml:"sources" envconfig:"SOURCES"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// PathsConfig contains the working folders of a run. Relative paths are
// resolved against BaseDir, or the working directory when it is empty.
type PathsConfig struct {
	BaseDir   string `yaml:"base_dir" envconfig:"BASE_DIR"`
	InputDir  string `yaml:"input_dir" envconfig:"INPUT_DIR" default:"data" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"output" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs" validate:"required"`
}

// SourcesConfig maps each source to the file it is read from. With Strict
// set, any source that fails to load aborts the run, not only storage.
type SourcesConfig struct {
	Files           map[string]string `yaml:"files" envconfig:"FILES" default:"materials:materials.xlsx,plants:plants.xlsx,storage:storage.xlsx,suppliers:suppliers.xlsx,supplier_names:supplier-names.xlsx,manufacturer_names:manufacturer-names.xlsx" validate:"required,dive,keys,source_name,endkeys,required,source_file"`
	LoadConcurrency int               `yaml:"load_concurrency" envconfig:"LOAD_CONCURRENCY" default:"4" validate:"min=1,max=32"`
	Strict          bool              `yaml:"strict" envconfig:"STRICT" default:"false"`
}

// OutputConfig controls the report file.
type OutputConfig struct {
	Filename  string `yaml:"filename" envconfig:"FILENAME" default:"result.xlsx" validate:"required"`
	Format    string `yaml:"format" envconfig:"FORMAT" default:"xlsx" validate:"oneof=xlsx csv"`
	SheetName string `yaml:"sheet_name" envconfig:"SHEET_NAME" default:"Aggregated Data" validate:"required,max=31"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"both" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// TelemetryConfig controls tracing and the metrics textfile.
type TelemetryConfig struct {
	ServiceName   string  `yaml:"service_name" envconfig:"SERVICE_NAME" default:"material-aggregator"`
	Environment   string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none" validate:"oneof=stdout file none"`
	TraceFile     string  `yaml:"trace_file" envconfig:"TRACE_FILE" validate:"required_if=TraceExporter file"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1" validate:"gte=0,lte=1"`
	MetricsFile   string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load reads configuration from environment variables and, when present,
// a YAML file. The file path comes from MATAGG_CONFIG or the first
// config.yaml found in the usual locations.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(ConfigFileEnv))
}

// LoadFile is Load with an explicit config file path. An empty path falls
// back to the usual locations.
func LoadFile(configFile string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs lays the non-zero values of the file config over the env
// config, which already carries the defaults.
func mergeConfigs(fileConfig, envConfig Config) Config {
	out := envConfig

	setString(&out.Paths.BaseDir, fileConfig.Paths.BaseDir)
	setString(&out.Paths.InputDir, fileConfig.Paths.InputDir)
	setString(&out.Paths.OutputDir, fileConfig.Paths.OutputDir)
	setString(&out.Paths.LogsDir, fileConfig.Paths.LogsDir)

	if len(fileConfig.Sources.Files) > 0 {
		out.Sources.Files = fileConfig.Sources.Files
	}
	if fileConfig.Sources.Strict {
		out.Sources.Strict = true
	}
	if fileConfig.Sources.LoadConcurrency != 0 {
		out.Sources.LoadConcurrency = fileConfig.Sources.LoadConcurrency
	}

	setString(&out.Output.Filename, fileConfig.Output.Filename)
	setString(&out.Output.Format, fileConfig.Output.Format)
	setString(&out.Output.SheetName, fileConfig.Output.SheetName)

	setString(&out.Logging.Level, fileConfig.Logging.Level)
	setString(&out.Logging.Format, fileConfig.Logging.Format)
	setString(&out.Logging.Output, fileConfig.Logging.Output)
	setString(&out.Logging.FilePath, fileConfig.Logging.FilePath)
	out.Logging.Development = out.Logging.Development || fileConfig.Logging.Development

	setString(&out.Telemetry.ServiceName, fileConfig.Telemetry.ServiceName)
	setString(&out.Telemetry.Environment, fileConfig.Telemetry.Environment)
	setString(&out.Telemetry.TraceExporter, fileConfig.Telemetry.TraceExporter)
	setString(&out.Telemetry.TraceFile, fileConfig.Telemetry.TraceFile)
	setString(&out.Telemetry.MetricsFile, fileConfig.Telemetry.MetricsFile)
	if fileConfig.Telemetry.SampleRatio != 0 {
		out.Telemetry.SampleRatio = fileConfig.Telemetry.SampleRatio
	}

	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks the configuration against its struct rules.
func (c *Config) Validate() error {
	v := newValidator()
	if err := v.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, formatFieldError(fe))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	if _, ok := c.Sources.Files[string(domain.SourceStorage)]; !ok {
		return fmt.Errorf("sources.files must include %s", domain.SourceStorage)
	}
	return nil
}

// SourceFiles returns the configured files keyed by source, in load order.
func (c *Config) SourceFiles() []SourceFile {
	var out []SourceFile
	for _, name := range domain.AllSources {
		if file, ok := c.Sources.Files[string(name)]; ok {
			out = append(out, SourceFile{Source: name, File: file})
		}
	}
	return out
}

// SourceFile pairs a source with its file name.
type SourceFile struct {
	Source domain.SourceName
	File   string
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("source_name", func(fl validator.FieldLevel) bool {
		return domain.SourceName(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("source_file", func(fl validator.FieldLevel) bool {
		name := strings.ToLower(fl.Field().String())
		return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".csv")
	})
	return v
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fmt.Sprint(fe.Value()))
	case "source_name":
		return fmt.Sprintf("%s: unknown source %q (known: %s)", field, fmt.Sprint(fe.Value()), knownSources())
	case "source_file":
		return fmt.Sprintf("%s: %q must be an .xlsx or .csv file", field, fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("%s failed %s=%s (value %v)", field, fe.Tag(), fe.Param(), fe.Value())
	}
}

func knownSources() string {
	names := make([]string, len(domain.AllSources))
	for i, n := range domain.AllSources {
		names[i] = string(n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}
