// Package config loads weierstrass settings from TOML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig is the on-disk configuration. Every field is a pointer so that
// absent keys leave the built-in defaults untouched.
type FileConfig struct {
	Analysis AnalysisConfig `toml:"analysis"`
	Report   ReportConfig   `toml:"report"`
	Plot     PlotConfig     `toml:"plot"`
	Store    StoreConfig    `toml:"store"`
	Log      LogConfig      `toml:"log"`
}

// AnalysisConfig holds engine tuning knobs.
type AnalysisConfig struct {
	ContinuitySamples   *int     `toml:"continuity-samples"`
	ScanSamples         *int     `toml:"scan-samples"`
	BisectionIterations *int     `toml:"bisection-iterations"`
	Tolerance           *float64 `toml:"tolerance"`
	Parallelism         *int     `toml:"parallelism"`
}

// ReportConfig controls the text report.
type ReportConfig struct {
	Precision *int  `toml:"precision"`
	Color     *bool `toml:"color"`
	LaTeX     *bool `toml:"latex"`
}

// PlotConfig controls terminal and PNG plots.
type PlotConfig struct {
	Enabled *bool    `toml:"enabled"`
	Width   *int     `toml:"width"`
	Height  *int     `toml:"height"`
	Padding *float64 `toml:"padding"`
	PNGDir  *string  `toml:"png-dir"`
}

// StoreConfig controls the analysis history database.
type StoreConfig struct {
	Path    *string `toml:"path"`
	Enabled *bool   `toml:"enabled"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads path. A missing file is not an error and yields an empty
// configuration.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}

	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Template is written by `weierstrass config` when no file exists yet.
func Template() string {
	return `# weierstrass configuration.
# Command-line flags take precedence over values set here.

[analysis]
# continuity-samples = 10000
# scan-samples = 1000
# bisection-iterations = 20
# tolerance = 1e-10
# parallelism = 0   # 0 uses every CPU

[report]
# precision = 6
# color = true
# latex = false

[plot]
# enabled = true
# width = 0         # 0 follows the terminal width
# height = 16
# padding = 0.5
# png-dir = ""

[store]
# enabled = true
# path = ""         # defaults to $XDG_DATA_HOME/weierstrass/history.db

[log]
# level = "warn"    # debug, info, warn, error
`
}
