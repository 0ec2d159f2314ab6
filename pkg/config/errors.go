package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrEmptyDataDir is returned when no data directory is configured.
	ErrEmptyDataDir = errors.New("data directory cannot be empty")

	// ErrEmptyFileName is returned when a storage file name is empty.
	ErrEmptyFileName = errors.New("storage file names cannot be empty")

	// ErrDuplicateFileName is returned when two storage files resolve to the same path.
	ErrDuplicateFileName = errors.New("task, session and state files must be distinct")

	// ErrInvalidMaxTasks is returned when the task limit is negative.
	ErrInvalidMaxTasks = errors.New("invalid max tasks: must be >= 0")

	// ErrInvalidDisplayFormat is returned when the display format is not recognized.
	ErrInvalidDisplayFormat = errors.New("invalid display format: must be table, json, or simple")

	// ErrInvalidColorMode is returned when the color mode is not recognized.
	ErrInvalidColorMode = errors.New("invalid color mode: must be auto, always, or never")

	// ErrInvalidRefreshRate is returned when refresh rate is <= 0.
	ErrInvalidRefreshRate = errors.New("invalid refresh rate: must be > 0")

	// ErrInvalidDebounceInterval is returned when debounce interval is <= 0.
	ErrInvalidDebounceInterval = errors.New("invalid debounce interval: must be > 0")

	// ErrInvalidLogLevel is returned when log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")

	// ErrInvalidEnvValue is returned when an environment override cannot be parsed.
	ErrInvalidEnvValue = errors.New("invalid environment variable value")
)
