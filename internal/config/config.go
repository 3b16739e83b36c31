// Package config loads and validates remint configuration: the application
// settings (output, time window, metrics) and the per-category declarations
// that drive differencing and report generation.
package config

import "errors"

// Config is the top-level configuration struct for remint.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	Window  WindowConfig  `mapstructure:"window"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// OutputConfig holds output destination settings.
type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
}

// WindowConfig holds the inclusive timestamp window bounds as raw strings.
// Empty bounds leave the window at its effectively-unbounded default.
type WindowConfig struct {
	Begin string `mapstructure:"begin"`
	End   string `mapstructure:"end"`
}

// MetricsConfig holds the optional Prometheus scrape endpoint settings.
type MetricsConfig struct {
	Listen string `mapstructure:"listen"`
}

// Output format identifiers.
const (
	FormatCSV   = "csv"
	FormatExcel = "xlsx"
	FormatHTML  = "html"
)

// Defaults applied by the loader.
const (
	DefaultOutputDir    = "remint-out"
	DefaultOutputFormat = FormatCSV
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidFormat indicates an unknown output format identifier.
	ErrInvalidFormat = errors.New("output.format must be one of csv, xlsx, html")
	// ErrEmptyOutputDir indicates the output directory is empty.
	ErrEmptyOutputDir = errors.New("output.dir must not be empty")
)

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Output.Dir == "" {
		return ErrEmptyOutputDir
	}

	switch c.Output.Format {
	case FormatCSV, FormatExcel, FormatHTML:
	default:
		return ErrInvalidFormat
	}

	return nil
}
