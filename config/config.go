// Package config loads the pumpcurve command line configuration from yaml
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aouyang1/go-pumpcurve/models"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDegree      = 3
	DefaultSamples     = 500
	DefaultChartWidth  = "900px"
	DefaultChartHeight = "500px"
	DefaultLogLevel    = "info"
)

var (
	ErrNegativeDegree     = errors.New("negative degree")
	ErrNonPositiveSamples = errors.New("samples must be positive")
	ErrInvalidLogLevel    = errors.New("invalid log level")
)

// Config is the yaml configuration of the pumpcurve command. Every field is optional and
// falls back to its default.
type Config struct {
	Degree    int         `yaml:"degree"`
	Samples   int         `yaml:"samples"`
	Solver    string      `yaml:"solver"`
	Precision int         `yaml:"precision"`
	Chart     ChartConfig `yaml:"chart"`
	LogLevel  string      `yaml:"log_level"`
}

// ChartConfig sizes and titles the html performance chart
type ChartConfig struct {
	// Title overrides the generated "Performance Curves for <pump>" title
	Title  string `yaml:"title"`
	Width  string `yaml:"width"`
	Height string `yaml:"height"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Degree:    DefaultDegree,
		Samples:   DefaultSamples,
		Solver:    string(models.SolverSVD),
		Precision: models.DefaultPrecision,
		Chart: ChartConfig{
			Width:  DefaultChartWidth,
			Height: DefaultChartHeight,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads the yaml file at path over the defaults and validates the result. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config, %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config %s, %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s, %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the fit or the chart cannot use
func (c *Config) Validate() error {
	if c.Degree < 0 {
		return fmt.Errorf("got %d, %w", c.Degree, ErrNegativeDegree)
	}
	if c.Samples < 1 {
		return fmt.Errorf("got %d, %w", c.Samples, ErrNonPositiveSamples)
	}
	if _, err := c.PolynomialOptions().Validate(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// PolynomialOptions converts the fit settings into options for each polynomial fit
func (c *Config) PolynomialOptions() *models.PolynomialOptions {
	return &models.PolynomialOptions{
		Solver:    models.Solver(c.Solver),
		Precision: c.Precision,
	}
}

// Level parses the configured log level. An empty level is info.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, fmt.Errorf("got %q, %w", c.LogLevel, ErrInvalidLogLevel)
	}
	return lvl, nil
}
