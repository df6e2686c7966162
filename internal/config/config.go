package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RAINFALL_INPUT_PATH.
const EnvPrefix = "RAINFALL"

// Config holds all run settings, populated from an optional config file,
// a .env file and environment variables.
type Config struct {
	Input    InputConfig    `mapstructure:"input"`
	Output   OutputConfig   `mapstructure:"output"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

// InputConfig locates the observations inside the input workbook.
type InputConfig struct {
	Path        string `mapstructure:"path"`
	Sheet       string `mapstructure:"sheet"`
	DateColumn  string `mapstructure:"date_column"`
	TotalColumn string `mapstructure:"total_column"`
}

// OutputConfig controls the report workbook, chart images and summary file.
type OutputConfig struct {
	Path          string `mapstructure:"path"`
	ChartPrefix   string `mapstructure:"chart_prefix"`
	ChartsEnabled bool   `mapstructure:"charts_enabled"`
	SummaryPath   string `mapstructure:"summary_path"`
	SummaryFormat string `mapstructure:"summary_format"`
}

// AnalysisConfig selects the years and return periods to analyse.
type AnalysisConfig struct {
	Years         string    `mapstructure:"years"`
	ReturnPeriods []float64 `mapstructure:"return_periods"`
}

// KafkaConfig configures the optional result topic.
type KafkaConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Brokers []string      `mapstructure:"-"`
	Topic   string        `mapstructure:"topic"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// MetricsConfig points at a node-exporter textfile; empty disables it.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration. A .env file in the working directory is loaded
// first when present. path may be empty, in which case only defaults and
// environment variables apply.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Kafka.Brokers = sharedcfg.ParseBrokers(v.GetString("kafka.brokers"))
	cfg.Output.Path = NormalizeOutputPath(cfg.Output.Path)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.path", "DadosChuva.xlsx")
	v.SetDefault("input.sheet", "Dados")
	v.SetDefault("input.date_column", "Data")
	v.SetDefault("input.total_column", "Total")

	v.SetDefault("output.path", "AnaliseCompleta.xlsx")
	v.SetDefault("output.chart_prefix", "recorrencia_")
	v.SetDefault("output.charts_enabled", true)
	v.SetDefault("output.summary_path", "")
	v.SetDefault("output.summary_format", "json")

	v.SetDefault("analysis.years", "all")
	v.SetDefault("analysis.return_periods", []float64{2, 5, 10, 25, 50, 100, 1000, 10000})

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topic", "rainfall-recurrence-results")
	v.SetDefault("kafka.timeout", "10s")

	v.SetDefault("metrics.textfile", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// NormalizeOutputPath forces the .xlsx extension on the report path,
// replacing any other extension.
func NormalizeOutputPath(path string) string {
	if path == "" || strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".xlsx"
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return errors.New("input.path is required")
	}
	if c.Input.Sheet == "" {
		return errors.New("input.sheet is required")
	}
	if c.Input.DateColumn == "" || c.Input.TotalColumn == "" {
		return errors.New("input.date_column and input.total_column are required")
	}
	if c.Output.Path == "" {
		return errors.New("output.path is required")
	}

	switch c.Output.SummaryFormat {
	case "json", "yaml":
	default:
		return fmt.Errorf("output.summary_format must be one of: json, yaml (got %q)", c.Output.SummaryFormat)
	}

	if len(c.Analysis.ReturnPeriods) == 0 {
		return errors.New("analysis.return_periods must contain at least one period")
	}
	for _, t := range c.Analysis.ReturnPeriods {
		if !(t > 1) {
			return fmt.Errorf("analysis.return_periods must all be greater than 1 (got %v)", t)
		}
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return errors.New("kafka.brokers is required when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return errors.New("kafka.topic is required when kafka is enabled")
		}
		if c.Kafka.Timeout <= 0 {
			return errors.New("kafka.timeout must be positive")
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		return errors.New("log.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Log.Format] {
		return errors.New("log.format must be one of: json, text")
	}

	return nil
}
