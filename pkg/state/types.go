// Package state persists which tasks have an open timer interval.
//
// The task and session files only describe closed intervals. A timer
// started by one focustime invocation and stopped by a later one needs the
// start instant to survive in between; this package keeps that marker in a
// BoltDB file keyed by task name.
//
// Example usage:
//
//	st, err := state.New(state.Config{
//	    DBPath: "~/.local/share/focustime/state.db",
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer st.Close()
//
//	running, err := st.Running()
package state

import "time"

// Store records the start instant of every running task.
type Store interface {
	// Running returns the start instant of each running task, by name.
	//
	// Returns an empty map when nothing is running.
	Running() (map[string]time.Time, error)

	// Replace overwrites the stored set with running in one transaction.
	//
	// Names absent from running are removed.
	Replace(running map[string]time.Time) error

	// Close releases the underlying database.
	Close() error
}

// Config contains state store configuration.
type Config struct {
	// DBPath is the BoltDB file path.
	DBPath string

	// Timeout is how long to wait for the file lock (default: 1 second).
	Timeout time.Duration

	// ReadOnly opens the database without a write lock and never modifies
	// the file. A missing file reads as nothing running.
	ReadOnly bool
}
