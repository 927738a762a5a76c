// Package config loads job configuration from a drift.toml file.
package config

import (
	"errors"
	"os"

	"github.com/BurntSushi/toml"
)

// Analysis configures the decompilation pipeline.
type Analysis struct {
	// Jobs bounds the per-function worker pool; 0 means one per CPU.
	Jobs int `toml:"jobs"`

	// PreferConstants enables liveness constant pruning.
	PreferConstants bool `toml:"prefer_constants"`

	// CheckTree enables the diagnostic tree consistency pass.
	CheckTree bool `toml:"check_tree"`

	// MaxDiagnostics bounds the number of collected diagnostics.
	MaxDiagnostics int `toml:"max_diagnostics"`
}

// Output configures CLI presentation.
type Output struct {
	// Color is one of auto, on, off.
	Color string `toml:"color"`

	// Timings prints per-pass durations after a run.
	Timings bool `toml:"timings"`
}

// Config is the root of drift.toml.
type Config struct {
	Analysis Analysis `toml:"analysis"`
	Output   Output   `toml:"output"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Analysis: Analysis{MaxDiagnostics: 100},
		Output:   Output{Color: "auto"},
	}
}

// Load reads path, falling back to defaults when the file does not exist.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	// Unknown keys are tolerated; they usually mean a newer drift wrote the
	// file. Decoding errors above are not.
	_ = meta
	if cfg.Analysis.MaxDiagnostics <= 0 {
		cfg.Analysis.MaxDiagnostics = 100
	}
	if cfg.Output.Color == "" {
		cfg.Output.Color = "auto"
	}
	return cfg, nil
}
