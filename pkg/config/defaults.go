package config

import (
	"os"
	"path/filepath"
	"strings"
)

// defaultDataDir returns the default data directory.
//
// Returns: ~/.local/share/focustime.
func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(homeDir, ".local", "share", "focustime")
}

// DefaultConfigPath returns the default configuration file path.
//
// Returns: ~/.config/focustime/config.yaml.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./focustime.yaml"
	}

	return filepath.Join(homeDir, ".config", "focustime", "config.yaml")
}

// SearchPaths returns the config file locations checked by Load, in order.
func SearchPaths() []string {
	return []string{
		"./focustime.yaml",
		DefaultConfigPath(),
	}
}

// expandHome expands a leading "~" or "~/" to the user's home directory.
// Other paths, including "~user", are returned unchanged.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
