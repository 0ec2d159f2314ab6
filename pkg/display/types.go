// Package display renders tasks, session history and summaries.
//
// It supports multiple output formats (table, JSON, simple text). Durations
// are shown as HH:MM:SS in text formats and as whole seconds in JSON.
package display

import (
	"io"
	"time"

	"github.com/0xmhha/focustime/pkg/manager"
	"github.com/0xmhha/focustime/pkg/summary"
	"github.com/0xmhha/focustime/pkg/task"
)

// Format represents an output format.
type Format string

const (
	// FormatTable displays data in an aligned table.
	FormatTable Format = "table"

	// FormatJSON displays data as JSON.
	FormatJSON Format = "json"

	// FormatSimple displays data one line per item.
	FormatSimple Format = "simple"
)

// Formatter renders focustime data.
type Formatter interface {
	// FormatTasks renders the task list with live totals.
	FormatTasks(w io.Writer, tasks []TaskView) error

	// FormatSessions renders one task's session log.
	FormatSessions(w io.Writer, name string, sessions []task.Session) error

	// FormatSummary renders a daily report.
	FormatSummary(w io.Writer, report summary.Report) error

	// FormatGroups renders a grouped report.
	FormatGroups(w io.Writer, buckets []summary.Bucket) error

	// FormatDrift renders tasks whose stored total disagrees with their
	// session log.
	FormatDrift(w io.Writer, drift []manager.Drift) error
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format.
	// Default: FormatTable.
	Format Format

	// Color enables styled table headers and status markers.
	// Default: false.
	Color bool

	// Compact enables compact output (less whitespace).
	// Default: false.
	Compact bool
}

// TaskView is a snapshot of one task for rendering.
type TaskView struct {
	Index    int
	Name     string
	Total    time.Duration
	Running  bool
	Since    time.Time
	Sessions int
}
