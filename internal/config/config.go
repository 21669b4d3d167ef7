package config

import (
	"fmt"
	"time"

	"github.com/qgda/qgda/internal/compression"
	"github.com/qgda/qgda/internal/decimate"
	"github.com/qgda/qgda/internal/series"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Stats     StatsConfig     `mapstructure:"stats"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Subsample SubsampleConfig `mapstructure:"subsample"`
	Render    RenderConfig    `mapstructure:"render"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig represents the statsd HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`      // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort     int           `mapstructure:"http_port"` // HTTP server port
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	BodyLimit    int           `mapstructure:"body_limit"` // Max request body in bytes
}

// AuthConfig represents API key authentication for the /v1 routes
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	APIKeys []string `mapstructure:"api_keys"`
}

// StatsConfig controls printing of uncertain quantities and ACF lags
type StatsConfig struct {
	SigFig           int `mapstructure:"sig_fig"`            // Significant figures of the confidence
	ZeroConfDecimals int `mapstructure:"zero_conf_decimals"` // Decimals used when conf is 0
	MaxLags          int `mapstructure:"max_lags"`           // Upper bound on requested ACF lags
}

// DatasetConfig locates experiment files. Paths may contain {run}.
type DatasetConfig struct {
	DataDir       string `mapstructure:"data_dir"`
	Input         string `mapstructure:"input"`  // e.g. HRES_{run}.npz
	Output        string `mapstructure:"output"` // e.g. SUBS_{run}.npy
	Member        string `mapstructure:"member"` // .npz member holding the samples
	WriteManifest bool   `mapstructure:"write_manifest"`
}

// SubsampleConfig controls the high-res to low-res decimation
type SubsampleConfig struct {
	Grid       int    `mapstructure:"grid"`   // Side of the input grid
	Factor     int    `mapstructure:"factor"` // Decimation factor per axis
	FilterType string `mapstructure:"ftype"`  // Anti-alias filter: fir
	Workers    int    `mapstructure:"workers"` // Concurrent samples, 0 = all CPUs
}

// RenderConfig controls field animation frames
type RenderConfig struct {
	OutDir  string    `mapstructure:"out_dir"`
	F       float64   `mapstructure:"f_param"` // Deformation coupling used to derive q
	ClimPsi []float64 `mapstructure:"clim_psi"`
	ClimQ   []float64 `mapstructure:"clim_q"`
	Every   int       `mapstructure:"every"`  // Render every n-th sample
	Width   float64   `mapstructure:"width"`  // Inches
	Height  float64   `mapstructure:"height"` // Inches
	Colors  int       `mapstructure:"colors"` // Palette size
}

// ArchiveConfig controls .qgt statistics archives
type ArchiveConfig struct {
	Compression string `mapstructure:"compression"` // none, snappy
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Stats.Validate(); err != nil {
		return fmt.Errorf("stats config: %w", err)
	}
	if err := c.Subsample.Validate(); err != nil {
		return fmt.Errorf("subsample config: %w", err)
	}
	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	if err := c.Archive.Validate(); err != nil {
		return fmt.Errorf("archive config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}
	if c.BodyLimit < 0 {
		return fmt.Errorf("body_limit cannot be negative")
	}
	return nil
}

// Validate validates stats configuration
func (c *StatsConfig) Validate() error {
	if c.SigFig < 1 || c.SigFig > 17 {
		return fmt.Errorf("stats.sig_fig must be between 1 and 17")
	}
	if c.ZeroConfDecimals < 0 {
		return fmt.Errorf("stats.zero_conf_decimals cannot be negative")
	}
	if c.ZeroConfDecimals > series.MaxDisplayDecimals {
		return fmt.Errorf("stats.zero_conf_decimals must be at most %d", series.MaxDisplayDecimals)
	}
	if c.MaxLags < 1 {
		return fmt.Errorf("stats.max_lags must be at least 1")
	}
	return nil
}

// Validate validates subsample configuration
func (c *SubsampleConfig) Validate() error {
	if c.Grid < 1 {
		return fmt.Errorf("subsample.grid must be positive")
	}
	if c.Factor < 1 {
		return fmt.Errorf("subsample.factor must be at least 1")
	}
	if c.Workers < 0 {
		return fmt.Errorf("subsample.workers cannot be negative")
	}
	if !decimate.IsValid(c.FilterType) {
		return fmt.Errorf("subsample.ftype must be one of: %v", decimate.ValidFilterTypes())
	}
	return nil
}

// Validate validates render configuration
func (c *RenderConfig) Validate() error {
	if c.Every < 1 {
		return fmt.Errorf("render.every must be at least 1")
	}
	if len(c.ClimPsi) != 2 || c.ClimPsi[0] >= c.ClimPsi[1] {
		return fmt.Errorf("render.clim_psi must be [min, max] with min < max")
	}
	if len(c.ClimQ) != 2 || c.ClimQ[0] >= c.ClimQ[1] {
		return fmt.Errorf("render.clim_q must be [min, max] with min < max")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("render.width and render.height must be positive")
	}
	if c.Colors < 2 {
		return fmt.Errorf("render.colors must be at least 2")
	}
	return nil
}

// Validate validates archive configuration
func (c *ArchiveConfig) Validate() error {
	if _, err := compression.ParseAlgorithm(c.Compression); err != nil {
		return fmt.Errorf("archive.compression: %w", err)
	}
	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
