// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Scheduler SchedulerConfig `toml:"scheduler"`
	Session   SessionConfig   `toml:"session"`
}

// SchedulerConfig maps scheduler tunables.
type SchedulerConfig struct {
	Exploration       *float64           `toml:"exploration"`
	MasteredThreshold *float64           `toml:"mastered-threshold"`
	Coefficients      CoefficientsConfig `toml:"coefficients"`
}

// CoefficientsConfig maps the mastery blend table. Each pair is the
// retained share of the old mastery and the tier target it blends toward.
type CoefficientsConfig struct {
	PerfectRetain *float64 `toml:"perfect-retain"`
	PerfectTarget *float64 `toml:"perfect-target"`
	GoodRetain    *float64 `toml:"good-retain"`
	GoodTarget    *float64 `toml:"good-target"`
	FairRetain    *float64 `toml:"fair-retain"`
	FairTarget    *float64 `toml:"fair-target"`
	PoorRetain    *float64 `toml:"poor-retain"`
	PoorTarget    *float64 `toml:"poor-target"`
}

// SessionConfig maps session-related settings.
type SessionConfig struct {
	Limit            *int     `toml:"limit"`
	CorrectThreshold *float64 `toml:"correct-threshold"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
