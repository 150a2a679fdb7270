// Package config loads nereval CLI configuration from defaults, an optional
// YAML file and NEREVAL_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	nereval "github.com/jamesainslie/go-nereval"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config validation failed")

// Config holds all CLI configuration.
type Config struct {
	// Tags are the entity labels to evaluate.
	Tags []string `envconfig:"NEREVAL_TAGS" yaml:"tags"`
	// Loader is one of default, list, conll, dict.
	Loader string `envconfig:"NEREVAL_LOADER" yaml:"loader"`
	// MinOverlapPercent is the share of a true entity a prediction must cover.
	MinOverlapPercent float64 `envconfig:"NEREVAL_MIN_OVERLAP_PERCENT" yaml:"min_overlap_percent"`
	// Workers bounds concurrent document scoring. 0 means one per CPU.
	Workers int `envconfig:"NEREVAL_WORKERS" yaml:"workers"`

	Report ReportConfig `yaml:"report"`
	Sweep  SweepConfig  `yaml:"sweep"`
	Log    LogConfig    `yaml:"log"`
}

// ReportConfig selects what eval prints.
type ReportConfig struct {
	Mode     string `envconfig:"NEREVAL_REPORT_MODE" yaml:"mode"`
	Scenario string `envconfig:"NEREVAL_REPORT_SCENARIO" yaml:"scenario"`
	Digits   int    `envconfig:"NEREVAL_REPORT_DIGITS" yaml:"digits"`
	Format   string `envconfig:"NEREVAL_REPORT_FORMAT" yaml:"format"`
	Pretty   bool   `envconfig:"NEREVAL_REPORT_PRETTY" yaml:"pretty"`
	Indices  bool   `envconfig:"NEREVAL_REPORT_INDICES" yaml:"indices"`
}

// SweepConfig drives the minimum-overlap sweep.
type SweepConfig struct {
	Strategy        string  `envconfig:"NEREVAL_SWEEP_STRATEGY" yaml:"strategy"`
	Min             float64 `envconfig:"NEREVAL_SWEEP_MIN" yaml:"min"`
	Max             float64 `envconfig:"NEREVAL_SWEEP_MAX" yaml:"max"`
	Step            float64 `envconfig:"NEREVAL_SWEEP_STEP" yaml:"step"`
	PrecisionWeight float64 `envconfig:"NEREVAL_SWEEP_PRECISION_WEIGHT" yaml:"precision_weight"`
	RecallWeight    float64 `envconfig:"NEREVAL_SWEEP_RECALL_WEIGHT" yaml:"recall_weight"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `envconfig:"NEREVAL_LOG_LEVEL" yaml:"level"`
	Format string `envconfig:"NEREVAL_LOG_FORMAT" yaml:"format"`
}

// Report output formats.
const (
	FormatText  = "text"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatProto = "proto"
)

// Load builds a Config from defaults, the YAML file at configPath (if not
// empty) and the environment, then validates it.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Loader:            nereval.LoaderDefault.String(),
		MinOverlapPercent: nereval.DefaultMinOverlapPercent,
		Report: ReportConfig{
			Mode:     string(nereval.ModeOverall),
			Scenario: string(nereval.Strict),
			Digits:   2,
			Format:   FormatText,
		},
		Sweep: SweepConfig{
			Strategy:        string(nereval.EntType),
			Min:             1,
			Max:             100,
			Step:            10,
			PrecisionWeight: 1,
			RecallWeight:    1,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []string

	if _, err := nereval.ParseLoaderKind(c.Loader); err != nil {
		errs = append(errs, err.Error())
	}
	if c.MinOverlapPercent < 1 || c.MinOverlapPercent > 100 {
		errs = append(errs, fmt.Sprintf("min_overlap_percent must be between 1 and 100, got %v", c.MinOverlapPercent))
	}
	if c.Workers < 0 {
		errs = append(errs, "workers must not be negative")
	}

	if _, err := nereval.ParseMode(c.Report.Mode); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := nereval.ParseStrategy(c.Report.Scenario); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Report.Digits < 0 {
		errs = append(errs, "report.digits must not be negative")
	}
	validFormats := map[string]bool{FormatText: true, FormatCSV: true, FormatJSON: true, FormatProto: true}
	if !validFormats[c.Report.Format] {
		errs = append(errs, fmt.Sprintf("invalid report format: %s (must be text, csv, json, or proto)", c.Report.Format))
	}

	if _, err := nereval.ParseStrategy(c.Sweep.Strategy); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Sweep.Min < 1 || c.Sweep.Max > 100 || c.Sweep.Min > c.Sweep.Max {
		errs = append(errs, "sweep range must satisfy 1 <= min <= max <= 100")
	}
	if c.Sweep.Step <= 0 {
		errs = append(errs, "sweep.step must be positive")
	}
	if c.Sweep.PrecisionWeight < 0 || c.Sweep.RecallWeight < 0 {
		errs = append(errs, "sweep weights must not be negative")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level))
	}
	validLogFormats := map[string]bool{"text": true, "json": true}
	if !validLogFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be text or json)", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalid, strings.Join(errs, "\n  - "))
	}
	return nil
}

// Options converts c to evaluator options.
func (c *Config) Options(logger *slog.Logger) ([]nereval.Option, error) {
	kind, err := nereval.ParseLoaderKind(c.Loader)
	if err != nil {
		return nil, err
	}
	return []nereval.Option{
		nereval.WithLoader(kind),
		nereval.WithMinOverlapPercent(c.MinOverlapPercent),
		nereval.WithWorkers(c.Workers),
		nereval.WithLogger(logger),
	}, nil
}

// Logger builds the slog logger described by c.Log, writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
