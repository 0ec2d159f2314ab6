// Package monitor keeps a live view of the task list and today's summary.
//
// The monitor reloads tasks whenever the watcher reports a change to the
// data files, written by this or another focustime process, and refreshes
// on a ticker so running timers keep counting.
//
// Example usage:
//
//	mon, err := monitor.New(monitor.Config{
//	    Dirs:            []string{cfg.Storage.DataDir},
//	    RefreshInterval: time.Second,
//	}, w, loadTasks, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mon.Close()
//
//	if err := mon.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	err = monitor.Render(ctx, os.Stdout, mon.Updates(), formatter, true)
package monitor

import (
	"context"
	"time"

	"github.com/0xmhha/focustime/pkg/display"
	"github.com/0xmhha/focustime/pkg/summary"
	"github.com/0xmhha/focustime/pkg/task"
)

// LoadFunc reads the current task collection from storage.
type LoadFunc func() ([]*task.Task, error)

// Config holds the configuration for the live monitor.
type Config struct {
	// Dirs are the directories handed to the watcher.
	Dirs []string

	// RefreshInterval is the interval between display updates.
	// Default: 1s.
	RefreshInterval time.Duration

	// Now returns the current time. Default: time.Now.
	Now func() time.Time
}

// LiveMonitor provides a continuously refreshed view of focustime data.
type LiveMonitor interface {
	// Start loads the tasks, starts the watcher and begins emitting
	// updates. It returns once the background loops are running.
	Start(ctx context.Context) error

	// Stop stops the monitor gracefully.
	Stop() error

	// Updates returns the channel of rendered snapshots.
	// The channel is closed by Close.
	Updates() <-chan Update

	// Close stops the monitor if needed and releases resources.
	Close() error
}

// Reason says what triggered an update.
type Reason string

const (
	// ReasonInitial is the first update after Start.
	ReasonInitial Reason = "initial"

	// ReasonFileChange follows a change to a data file.
	ReasonFileChange Reason = "file"

	// ReasonTick is a periodic refresh.
	ReasonTick Reason = "tick"
)

// Update is one snapshot of the monitored data.
type Update struct {
	// Timestamp of the update.
	Timestamp time.Time

	// Reason is what triggered the update.
	Reason Reason

	// Path is the changed file for ReasonFileChange updates.
	Path string

	// Tasks are the task views at Timestamp.
	Tasks []display.TaskView

	// Report is the summary for Timestamp's calendar day.
	Report summary.Report

	// Running counts tasks with an open interval.
	Running int
}
