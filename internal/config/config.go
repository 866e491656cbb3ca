package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. LOGI_GENERATION_RECORDS
const EnvPrefix = "LOGI"

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" envconfig:"SERVER"`
	Security   SecurityConfig   `yaml:"security" envconfig:"SECURITY"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Generation GenerationConfig `yaml:"generation" envconfig:"GENERATION"`
	Analysis   AnalysisConfig   `yaml:"analysis" envconfig:"ANALYSIS"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ReportsDir    string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
	ReferenceFile string `yaml:"reference_file" envconfig:"REFERENCE_FILE"`
}

// GenerationConfig controls synthetic dataset generation
type GenerationConfig struct {
	Records    int    `yaml:"records" envconfig:"RECORDS"`
	Seed       int64  `yaml:"seed" envconfig:"SEED"`
	SampleSize int    `yaml:"sample_size" envconfig:"SAMPLE_SIZE"`
	SampleSeed int64  `yaml:"sample_seed" envconfig:"SAMPLE_SEED"`
	Workers    int    `yaml:"workers" envconfig:"WORKERS"`
	FullFile   string `yaml:"full_file" envconfig:"FULL_FILE"`
	SampleFile string `yaml:"sample_file" envconfig:"SAMPLE_FILE"`
	StatsFile  string `yaml:"stats_file" envconfig:"STATS_FILE"`
}

// AnalysisConfig controls the aggregation engine and report sizes
type AnalysisConfig struct {
	Dataset            string `yaml:"dataset" envconfig:"DATASET"`
	Workers            int    `yaml:"workers" envconfig:"WORKERS"`
	TopProfitable      int    `yaml:"top_profitable" envconfig:"TOP_PROFITABLE"`
	TopPopular         int    `yaml:"top_popular" envconfig:"TOP_POPULAR"`
	TopExpensive       int    `yaml:"top_expensive" envconfig:"TOP_EXPENSIVE"`
	TopEfficient       int    `yaml:"top_efficient" envconfig:"TOP_EFFICIENT"`
	DeriveMonth        bool   `yaml:"derive_month" envconfig:"DERIVE_MONTH"`
	KPIReportFile      string `yaml:"kpi_report_file" envconfig:"KPI_REPORT_FILE"`
	ExtendedReportFile string `yaml:"extended_report_file" envconfig:"EXTENDED_REPORT_FILE"`
}

// TelemetryConfig selects OpenTelemetry exporters
type TelemetryConfig struct {
	Environment    string `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER"`
}

// Load builds the configuration from defaults, the optional YAML file and
// LOGI_* environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg. Keys absent from the file
// keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration and normalizes logging options
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Generation.Records < 0 {
		return fmt.Errorf("generation records must not be negative: %d", c.Generation.Records)
	}
	if c.Generation.SampleSize < 0 {
		return fmt.Errorf("sample size must not be negative: %d", c.Generation.SampleSize)
	}
	if c.Generation.Workers < 1 {
		c.Generation.Workers = 1
	}
	if c.Analysis.Workers < 1 {
		c.Analysis.Workers = 1
	}
	if c.Security.RateLimit.Enabled && c.Security.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate limit rps must be positive when enabled")
	}

	c.Logging.Format = "json"
	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// getConfigFilePath returns LOGI_CONFIG_FILE or the first config file found
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	for _, location := range []string{"config.yaml", "configs/config.yaml"} {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8501"},
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   25,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			ReportsDir: "reports",
			LogsDir:    "logs",
		},
		Generation: GenerationConfig{
			Records:    1500,
			Seed:       0,
			SampleSize: 100,
			SampleSeed: 42,
			Workers:    4,
			FullFile:   "logistics_data.csv",
			SampleFile: "logistics_sample.csv",
			StatsFile:  "dataset_statistics.txt",
		},
		Analysis: AnalysisConfig{
			Dataset:            "data/logistics_data.csv",
			Workers:            4,
			TopProfitable:      3,
			TopPopular:         10,
			TopExpensive:       5,
			TopEfficient:       5,
			KPIReportFile:      "kpi_report.txt",
			ExtendedReportFile: "extended_report.txt",
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
		},
	}
}
