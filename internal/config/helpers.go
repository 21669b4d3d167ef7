package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// RunPlaceholder is replaced by the run number in dataset paths.
const RunPlaceholder = "{run}"

var envKeyReplacer = strings.NewReplacer(".", "_")

// ExpandRun substitutes the run number into a path template.
func ExpandRun(template string, run int) string {
	return strings.ReplaceAll(template, RunPlaceholder, strconv.Itoa(run))
}

// InputPath returns the input dataset path for a run.
func (c *DatasetConfig) InputPath(run int) string {
	return c.resolve(ExpandRun(c.Input, run))
}

// OutputPath returns the output dataset path for a run.
func (c *DatasetConfig) OutputPath(run int) string {
	return c.resolve(ExpandRun(c.Output, run))
}

func (c *DatasetConfig) resolve(name string) string {
	if filepath.IsAbs(name) || c.DataDir == "" {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// EnsureDirectories ensures all required directories exist
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Dataset.DataDir, c.Render.OutDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Logging.Level == "debug" && c.Logging.Format == "console"
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.HTTPPort))
}

// String summarises the paths of a dataset config.
func (c *DatasetConfig) String() string {
	return fmt.Sprintf("data_dir=%s input=%s output=%s member=%s", c.DataDir, c.Input, c.Output, c.Member)
}
