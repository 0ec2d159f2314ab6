package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables recognized by Load.
const (
	EnvConfig   = "FOCUSTIME_CONFIG"
	EnvDataDir  = "FOCUSTIME_DATA_DIR"
	EnvMaxTasks = "FOCUSTIME_MAX_TASKS"
	EnvLogLevel = "FOCUSTIME_LOG_LEVEL"
	EnvFormat   = "FOCUSTIME_FORMAT"
)

// Loader provides methods for loading configuration from various sources.
type Loader interface {
	// Load loads configuration with the following precedence:
	// 1. Environment variables
	// 2. Configuration file
	// 3. Default values
	//
	// Returns the merged configuration or an error if validation fails.
	Load() (*Config, error)

	// LoadFromFile reads a single configuration file without merging.
	LoadFromFile(path string) (*Config, error)

	// Source returns the config file used by the last Load, or "" for defaults.
	Source() string
}

// loader implements the Loader interface.
type loader struct {
	configPath string
	envFile    string
	source     string
}

// NewLoader creates a new configuration loader.
//
// If configPath is empty, FOCUSTIME_CONFIG is consulted, then the
// locations returned by SearchPaths. Variables from ./.env are added to the
// environment (without overriding ones already set) before overrides apply.
func NewLoader(configPath string) Loader {
	return &loader{
		configPath: configPath,
		envFile:    ".env",
	}
}

// NewLoaderWithEnvFile is NewLoader with an explicit dotenv file; an empty
// envFile disables dotenv loading.
func NewLoaderWithEnvFile(configPath, envFile string) Loader {
	return &loader{
		configPath: configPath,
		envFile:    envFile,
	}
}

// Load implements Loader.Load.
func (l *loader) Load() (*Config, error) {
	if err := l.loadEnvFile(); err != nil {
		return nil, err
	}

	cfg := Default()

	explicit := l.configPath
	if explicit == "" {
		explicit = os.Getenv(EnvConfig)
	}

	configPath := explicit
	if configPath == "" {
		configPath = l.findConfigFile()
	}

	if configPath != "" {
		fileCfg, err := l.LoadFromFile(configPath)
		if err != nil {
			// A file the user named must load; a discovered one may be skipped.
			if explicit != "" {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
		} else {
			cfg = l.mergeConfigs(cfg, fileCfg)
			l.source = configPath
		}
	}

	cfg, err := l.applyEnvVars(cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromFile implements Loader.LoadFromFile.
func (l *loader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(expandHome(path)) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return &cfg, nil
}

// Source implements Loader.Source.
func (l *loader) Source() string {
	return l.source
}

// loadEnvFile adds variables from the dotenv file to the environment.
// A missing file is not an error.
func (l *loader) loadEnvFile() error {
	if l.envFile == "" {
		return nil
	}
	if err := godotenv.Load(l.envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", l.envFile, err)
	}
	return nil
}

// findConfigFile returns the first existing path from SearchPaths, or "".
func (l *loader) findConfigFile() string {
	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// mergeConfigs merges file configuration into default configuration.
//
// File values override defaults, but only if they are set.
func (l *loader) mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Storage.DataDir != "" {
		result.Storage.DataDir = override.Storage.DataDir
	}
	if override.Storage.TasksFile != "" {
		result.Storage.TasksFile = override.Storage.TasksFile
	}
	if override.Storage.SessionsFile != "" {
		result.Storage.SessionsFile = override.Storage.SessionsFile
	}
	if override.Storage.StateFile != "" {
		result.Storage.StateFile = override.Storage.StateFile
	}

	if override.Limits.MaxTasks != nil {
		n := *override.Limits.MaxTasks
		result.Limits.MaxTasks = &n
	}

	if override.Display.DefaultFormat != "" {
		result.Display.DefaultFormat = override.Display.DefaultFormat
	}
	if override.Display.Color != "" {
		result.Display.Color = override.Display.Color
	}
	if override.Display.RefreshRate > 0 {
		result.Display.RefreshRate = override.Display.RefreshRate
	}

	if override.Watch.DebounceInterval > 0 {
		result.Watch.DebounceInterval = override.Watch.DebounceInterval
	}

	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if override.Logging.Output != "" {
		result.Logging.Output = override.Logging.Output
	}
	if override.Logging.Format != "" {
		result.Logging.Format = override.Logging.Format
	}

	return &result
}

// applyEnvVars applies environment variable overrides to the configuration.
//
// Supported environment variables:
//   - FOCUSTIME_DATA_DIR: Data directory
//   - FOCUSTIME_MAX_TASKS: Task capacity (0 for unlimited)
//   - FOCUSTIME_LOG_LEVEL: Log level
//   - FOCUSTIME_FORMAT: Default display format
func (l *loader) applyEnvVars(cfg *Config) (*Config, error) {
	result := *cfg

	if dir := os.Getenv(EnvDataDir); dir != "" {
		result.Storage.DataDir = dir
	}

	if raw := os.Getenv(EnvMaxTasks); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidEnvValue, EnvMaxTasks, raw)
		}
		result.Limits.MaxTasks = &n
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		result.Logging.Level = strings.ToLower(level)
	}

	if format := os.Getenv(EnvFormat); format != "" {
		result.Display.DefaultFormat = strings.ToLower(format)
	}

	return &result, nil
}

// Load is a convenience function that creates a loader and loads configuration.
func Load() (*Config, error) {
	return NewLoader("").Load()
}

// LoadFromFile is a convenience function that loads configuration with path
// as the explicit config file.
func LoadFromFile(path string) (*Config, error) {
	return NewLoader(path).Load()
}

// Save writes the configuration to a YAML file.
//
// Creates parent directories if they don't exist.
// File is created with 0600 permissions (read/write for owner only).
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
