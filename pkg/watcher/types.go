// Package watcher reports changes to focustime's data files.
//
// It uses fsnotify on the data directory. Raw events for one file are
// collected for a debounce interval and delivered as a single Event whose Op
// holds every operation seen, so an atomic rewrite (temp file, then rename)
// surfaces once for the target file and the temp file never shows up.
//
// Example usage:
//
//	w, err := watcher.New(watcher.Config{
//	    DebounceInterval: 100 * time.Millisecond,
//	    Files:            []string{"tasks.csv", "sessions.csv", "state.db"},
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	if err := w.Start(ctx, []string{dataDir}); err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range w.Events() {
//	    fmt.Printf("%s changed (%s)\n", event.Name, event.Op)
//	}
package watcher

import (
	"context"
	"strings"
	"time"
)

// Op is a set of file operations.
type Op uint32

// File operations.
const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
)

var opNames = []struct {
	op   Op
	name string
}{
	{OpCreate, "CREATE"},
	{OpWrite, "WRITE"},
	{OpRemove, "REMOVE"},
	{OpRename, "RENAME"},
}

// Has reports whether o includes every operation in other.
func (o Op) Has(other Op) bool {
	return other != 0 && o&other == other
}

// String lists the operations in o, e.g. "CREATE|WRITE".
func (o Op) String() string {
	var parts []string
	for _, n := range opNames {
		if o.Has(n.op) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// Event is the debounced change of one data file.
type Event struct {
	// Path is the full path of the changed file.
	Path string

	// Name is the base name of the file, as listed in Config.Files.
	Name string

	// Op holds every operation seen during the debounce interval.
	Op Op

	// Count is the number of raw events folded into this one.
	Count int

	// Timestamp is when the last raw event arrived.
	Timestamp time.Time
}

// Watcher reports changes to files in a set of directories.
type Watcher interface {
	// Start watches dirs until ctx is cancelled or Stop is called.
	//
	// Every directory must exist. Events are processed on a background
	// goroutine.
	Start(ctx context.Context, dirs []string) error

	// Stop ends event processing. Pending debounced events are dropped.
	Stop() error

	// Events returns the debounced events. The channel is closed by Close.
	Events() <-chan Event

	// Errors returns watch errors. The channel is closed by Close.
	Errors() <-chan error

	// Close stops the watcher and releases the fsnotify handle.
	Close() error
}

// Config contains watcher configuration.
type Config struct {
	// DebounceInterval is how long a file must stay quiet before its event
	// is delivered.
	// Default: 100ms.
	DebounceInterval time.Duration

	// Files restricts events to these base names.
	// Default: every file in the watched directories.
	Files []string

	// MaxConsecutiveErrors is the number of fsnotify errors in a row,
	// without an event in between, after which the watcher gives up.
	// Default: 5.
	MaxConsecutiveErrors int
}
