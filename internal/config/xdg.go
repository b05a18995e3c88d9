// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "barkeep", "config.toml")
}

// DefaultPresetsDir returns the OpenTabletDriver presets directory.
func DefaultPresetsDir() string {
	return filepath.Join(XDGConfigHome(), "OpenTabletDriver", "Presets")
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), "barkeep", "barkeep.db")
}

// DefaultSocketPath returns the control socket path for the keys helper.
// XDG_RUNTIME_DIR is preferred; the data home serves as a fallback.
func DefaultSocketPath() string {
	if v := os.Getenv("XDG_RUNTIME_DIR"); v != "" {
		return filepath.Join(v, "barkeep", "keys.sock")
	}
	return filepath.Join(XDGDataHome(), "barkeep", "keys.sock")
}
