// Package xdg resolves XDG Base Directory paths for warehouse-charts.
// It falls back to the traditional ~/.config location when XDG_CONFIG_HOME is
// not set and keeps the configuration directory private.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "warehouse-charts"

// ConfigDir returns the XDG config directory for warehouse-charts.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/warehouse-charts when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	dir, err := ConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}

// ConfigPath returns the config directory without creating it.
func ConfigPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName), nil
}
