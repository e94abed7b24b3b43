// Package config loads the shared tool configuration: a JSON file,
// overridden by CLI flags, with environment fallbacks for the paths that
// differ between workstations.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// Config holds all configurable paths and run settings.
type Config struct {
	// Paths
	ScenePath  string `json:"scene_path"`
	BaseExport string `json:"base_export"`

	// Extraction
	Collections []string `json:"collections"`
	Workers     int      `json:"workers"`

	// Rendering
	PixelsPerMetre float64 `json:"pixels_per_metre"`
	Underlay       string  `json:"underlay"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	ScenePath  string
	BaseExport string
	Workers    int
}

// Resolve applies flag overrides, environment fallbacks and defaults, in
// that order.
func (c *Config) Resolve(flags Flags) {
	if flags.ScenePath != "" {
		c.ScenePath = flags.ScenePath
	}
	if flags.BaseExport != "" {
		c.BaseExport = flags.BaseExport
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.ScenePath == "" {
		c.ScenePath = os.Getenv("BIMTOOLS_SCENE")
	}
	if c.BaseExport == "" {
		c.BaseExport = os.Getenv("BIMTOOLS_BASE_EXPORT")
	}
	if c.BaseExport == "" {
		cwd, _ := os.Getwd()
		c.BaseExport = cwd
	}

	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.PixelsPerMetre <= 0 {
		c.PixelsPerMetre = 20
	}
}
