// Package store reads and writes the two delimited text files that hold
// focustime's state.
//
// The task file has one record per task:
//
//	<name>,<totalDurationSeconds>
//
// The session file has one record per logged session, in task order:
//
//	<name>,<startEpochSeconds>,<endEpochSeconds>,<durationSeconds>
//
// Records are comma-separated. A name containing a comma or quote is written
// quoted, so it round-trips instead of splitting the record. Reading is
// lenient: a malformed record is skipped and reported, and the rest of the
// file still loads.
package store

import "time"

// TaskRecord is one line of the task file.
type TaskRecord struct {
	// Name is the task's display name and lookup key.
	Name string

	// Total is the accumulated duration of the task's closed intervals.
	Total time.Duration
}

// SessionRecord is one line of the session file.
type SessionRecord struct {
	// Name is the owning task's name.
	Name string

	// Start is when the session opened.
	Start time.Time

	// End is when the session closed.
	End time.Time

	// Duration is the persisted session length.
	Duration time.Duration
}

// Result holds the outcome of reading one file.
type Result[T any] struct {
	// Records are the well-formed records in file order.
	Records []T

	// Skipped describes every record that could not be used.
	Skipped []*RecordError
}
