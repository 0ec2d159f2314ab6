package watcher

import "errors"

var (
	// ErrWatcherClosed is returned by Start and Stop after Close.
	ErrWatcherClosed = errors.New("watcher is closed")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("watcher already started")

	// ErrNotStarted is returned by Stop before Start.
	ErrNotStarted = errors.New("watcher not started")

	// ErrTooManyErrors is sent on Errors when fsnotify keeps failing; the
	// watcher stops delivering events after it.
	ErrTooManyErrors = errors.New("too many consecutive watch errors")

	// ErrInvalidPath is returned when a watch directory is missing or is
	// not a directory.
	ErrInvalidPath = errors.New("invalid watch directory")
)
