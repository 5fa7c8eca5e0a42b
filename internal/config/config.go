/*
PURPOSE:
  Defines the configuration structure and loading logic for Predict Runner.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Base URL comes from a flag, falling back to BASE_URL, falling back to a fixed host.
  - Calls per case default to 100.
  - Probe timeout 10s, perf timeout 15s.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Needs to support Environment variable overrides (BASE_URL, PREDICT_...).
  - Needs explicit validation before any network call is made.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine, internal/report
  - Dependencies: gopkg.in/yaml.v3, github.com/caarlos0/env/v11,
    github.com/go-playground/validator/v10

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing default config files fall back to defaults silently.
  - Validate() reports every failing field in one error.

IMPLEMENTATION RULES:
  - Precedence: defaults < YAML file < environment < CLI flags (flags applied in internal/cli).
  - Config struct tags must support yaml, env and validate.

USAGE:
  cfg, err := config.Load("predict_runner.yaml")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and update DefaultConfig().

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the deployed service used when neither flag nor BASE_URL is set.
const DefaultBaseURL = "http://444-env.eba-vkypmpy2.us-east-1.elasticbeanstalk.com"

// DefaultFiles are searched in order when no --config path is given.
var DefaultFiles = []string{"predict_runner.yaml", "runner.yaml"}

// Config represents the full configuration for Predict Runner.
type Config struct {
	BaseURL      string        `yaml:"base_url" env:"BASE_URL" validate:"required,url"`
	Count        int           `yaml:"count" env:"PREDICT_COUNT" validate:"min=1"`
	ResultsDir   string        `yaml:"results_dir" env:"PREDICT_RESULTS_DIR" validate:"required"`
	SummaryFile  string        `yaml:"summary_file" validate:"required"`
	PlotFile     string        `yaml:"plot_file" validate:"required"`
	ProbeTimeout time.Duration `yaml:"probe_timeout" env:"PREDICT_PROBE_TIMEOUT" validate:"gt=0"`
	PerfTimeout  time.Duration `yaml:"perf_timeout" env:"PREDICT_PERF_TIMEOUT" validate:"gt=0"`
	LogLevel     string        `yaml:"log_level" env:"PREDICT_LOG_LEVEL" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      DefaultBaseURL,
		Count:        100,
		ResultsDir:   filepath.Join("tests", "results"),
		SummaryFile:  "averages.csv",
		PlotFile:     "performance_boxplot.png",
		ProbeTimeout: 10 * time.Second,
		PerfTimeout:  15 * time.Second,
		LogLevel:     "info",
	}
}

// Load reads configuration from a file and overlays the environment.
// If path is specified, it attempts to load that file.
// If path is empty, it searches DefaultFiles in order.
// If no file found, defaults are used.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, path, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	if data != nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	return cfg, nil
}

func readConfigFile(path string) ([]byte, string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, path, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return data, path, nil
	}

	for _, name := range DefaultFiles {
		data, err := os.ReadFile(name)
		if err == nil {
			return data, name, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, name, fmt.Errorf("failed to read config file %s: %w", name, err)
		}
	}
	return nil, "", nil
}

// Validate checks field constraints and normalizes the base URL.
func (c *Config) Validate() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")

	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value: %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// SummaryPath is where the aggregator writes averages.
func (c *Config) SummaryPath() string {
	return filepath.Join(c.ResultsDir, c.SummaryFile)
}

// PlotPath is the default box plot location.
func (c *Config) PlotPath() string {
	return filepath.Join(c.ResultsDir, c.PlotFile)
}
