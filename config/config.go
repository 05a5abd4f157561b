// Package config loads compiler-wide tunables from an optional TOML file.
// It plays the role the teacher's gql.Opts struct played (a documented,
// defaulted options bag), but is file-backed rather than flag-backed since
// the CLI surface that would otherwise populate it is out of scope for this
// specification (spec.md §1, §6).
package config

import (
	"github.com/BurntSushi/toml"
)

// Config holds the tunables of the Basil compile-time meta-evaluator.
type Config struct {
	Perf PerfConfig `toml:"perf"`
}

// PerfConfig configures the perf governor (spec.md §4.9).
type PerfConfig struct {
	// MaxDepth is the maximum perf-frame stack depth before a call is
	// considered to have exceeded its budget. Default 50.
	MaxDepth int `toml:"max_depth"`
	// MaxCount is the maximum accumulated per-call-tree operation count before
	// a call is considered to have exceeded its budget. Default 50.
	MaxCount int `toml:"max_count"`
}

// Default returns the configuration used when no file is loaded.
func Default() Config {
	return Config{
		Perf: PerfConfig{
			MaxDepth: 50,
			MaxCount: 50,
		},
	}
}

// Load reads a TOML configuration file, filling in defaults for any field the
// file doesn't set; a max_depth or max_count of zero or less is also replaced
// by its default. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.Perf.MaxDepth <= 0 {
		cfg.Perf.MaxDepth = 50
	}
	if cfg.Perf.MaxCount <= 0 {
		cfg.Perf.MaxCount = 50
	}
	return cfg, nil
}
