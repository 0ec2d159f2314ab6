// Package config provides configuration management for focustime.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Command-line flags (highest priority, applied by the CLI)
// 2. Environment variables (including a .env file in the working directory)
// 3. Configuration file
// 4. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.TasksPath())
package config

import (
	"path/filepath"
	"time"
)

// DefaultMaxTasks is the task capacity used when none is configured.
const DefaultMaxTasks = 10

// Config represents the complete application configuration.
//
// Invariants:
// - Storage.DataDir and the three file names are non-empty
// - the three file names are distinct
// - Limits.MaxTasks is nil or >= 0 (0 means unlimited)
// - Display.RefreshRate and Watch.DebounceInterval are > 0.
type Config struct {
	// Storage settings
	Storage StorageConfig `yaml:"storage"`

	// Limits on the task collection
	Limits LimitsConfig `yaml:"limits"`

	// Display settings
	Display DisplayConfig `yaml:"display"`

	// Watch settings
	Watch WatchConfig `yaml:"watch"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig contains storage-related settings.
type StorageConfig struct {
	// Directory holding the task, session and state files
	DataDir string `yaml:"data_dir"`

	// Task file name, relative to DataDir unless absolute
	TasksFile string `yaml:"tasks_file"`

	// Session file name, relative to DataDir unless absolute
	SessionsFile string `yaml:"sessions_file"`

	// BoltDB file for running timers, relative to DataDir unless absolute
	StateFile string `yaml:"state_file"`
}

// LimitsConfig contains collection limits.
type LimitsConfig struct {
	// Maximum number of tasks; 0 means unlimited
	MaxTasks *int `yaml:"max_tasks"`
}

// DisplayConfig contains display-related settings.
type DisplayConfig struct {
	// Default output format (table, json, simple)
	DefaultFormat string `yaml:"default_format"`

	// Colored output (auto, always, never)
	Color string `yaml:"color"`

	// Live view refresh rate
	RefreshRate time.Duration `yaml:"refresh_rate"`
}

// WatchConfig contains file watching settings.
type WatchConfig struct {
	// Time to wait for further writes before reloading
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level"`

	// Log output destination (stdout, stderr, discard, file path)
	Output string `yaml:"output"`

	// Log format (text, json)
	Format string `yaml:"format"`
}

// TasksPath returns the resolved task file path.
func (c *Config) TasksPath() string {
	return c.resolve(c.Storage.TasksFile)
}

// SessionsPath returns the resolved session file path.
func (c *Config) SessionsPath() string {
	return c.resolve(c.Storage.SessionsFile)
}

// StatePath returns the resolved state database path.
func (c *Config) StatePath() string {
	return c.resolve(c.Storage.StateFile)
}

// TaskLimit returns the configured capacity, 0 meaning unlimited.
func (c *Config) TaskLimit() int {
	if c.Limits.MaxTasks == nil {
		return DefaultMaxTasks
	}
	return *c.Limits.MaxTasks
}

func (c *Config) resolve(name string) string {
	name = expandHome(name)
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(expandHome(c.Storage.DataDir), name)
}

// Validate checks if the configuration satisfies all invariants.
//
// Thread-safety: This method is read-only and thread-safe.
func (c *Config) Validate() error {
	if c.Storage.DataDir == "" {
		return ErrEmptyDataDir
	}
	files := []string{c.Storage.TasksFile, c.Storage.SessionsFile, c.Storage.StateFile}
	for _, f := range files {
		if f == "" {
			return ErrEmptyFileName
		}
	}
	if c.TasksPath() == c.SessionsPath() || c.TasksPath() == c.StatePath() || c.SessionsPath() == c.StatePath() {
		return ErrDuplicateFileName
	}

	if c.Limits.MaxTasks != nil && *c.Limits.MaxTasks < 0 {
		return ErrInvalidMaxTasks
	}

	validFormats := map[string]bool{
		"table":  true,
		"json":   true,
		"simple": true,
	}
	if !validFormats[c.Display.DefaultFormat] {
		return ErrInvalidDisplayFormat
	}

	validColors := map[string]bool{
		"auto":   true,
		"always": true,
		"never":  true,
	}
	if !validColors[c.Display.Color] {
		return ErrInvalidColorMode
	}

	if c.Display.RefreshRate <= 0 {
		return ErrInvalidRefreshRate
	}
	if c.Watch.DebounceInterval <= 0 {
		return ErrInvalidDebounceInterval
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	maxTasks := DefaultMaxTasks
	return &Config{
		Storage: StorageConfig{
			DataDir:      defaultDataDir(),
			TasksFile:    "tasks.csv",
			SessionsFile: "sessions.csv",
			StateFile:    "state.db",
		},
		Limits: LimitsConfig{
			MaxTasks: &maxTasks,
		},
		Display: DisplayConfig{
			DefaultFormat: "table",
			Color:         "auto",
			RefreshRate:   time.Second,
		},
		Watch: WatchConfig{
			DebounceInterval: 100 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Output: "stderr",
			Format: "text",
		},
	}
}
