// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Tablet TabletConfig `toml:"tablet"`
	Keys   KeysConfig   `toml:"keys"`
}

// TabletConfig maps tablet-helper settings.
type TabletConfig struct {
	PresetsDir *string `toml:"presets-dir"`
	OTDBin     *string `toml:"otd-bin"`
	Notify     *bool   `toml:"notify"`
}

// KeysConfig maps keystroke-helper settings.
type KeysConfig struct {
	Timeout  *float64 `toml:"timeout"`
	MaxUnits *int     `toml:"max-units"`
	MinUnits *int     `toml:"min-units"`
	Mode     *string  `toml:"mode"`
	WPM      *float64 `toml:"wpm"`
	Gauge    *bool    `toml:"gauge"`
	RTL      *bool    `toml:"rtl"`
	SMTKBin  *string  `toml:"smtk-bin"`
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
