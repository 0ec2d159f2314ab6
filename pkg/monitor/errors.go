package monitor

import "errors"

var (
	// ErrMonitorClosed is returned by Start and Stop after Close.
	ErrMonitorClosed = errors.New("monitor is closed")

	// ErrMonitorRunning is returned when Start is called twice.
	ErrMonitorRunning = errors.New("monitor is already running")

	// ErrMonitorNotRunning is returned by Stop before Start.
	ErrMonitorNotRunning = errors.New("monitor is not running")

	// ErrInvalidConfig is returned by New for a missing watcher, loader or
	// directory, or a negative refresh interval.
	ErrInvalidConfig = errors.New("invalid monitor configuration")
)
