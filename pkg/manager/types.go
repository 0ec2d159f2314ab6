// Package manager owns the ordered collection of tasks and keeps it in step
// with the task file, the session file and the running timer store.
//
// Tasks keep insertion order. Names are not required to be unique; a lookup
// by name resolves to the earliest task carrying that name.
//
// Example usage:
//
//	mgr := manager.New(manager.Config{
//	    MaxTasks:     cfg.TaskLimit(),
//	    TasksPath:    cfg.TasksPath(),
//	    SessionsPath: cfg.SessionsPath(),
//	    State:        stateStore,
//	}, logger.Default())
//
//	if _, err := mgr.Load(); err != nil {
//	    log.Fatal(err)
//	}
//
//	t, err := mgr.AddTask("Writing")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	t.Start()
//
//	if err := mgr.Flush(); err != nil {
//	    log.Fatal(err)
//	}
package manager

import (
	"time"

	"github.com/0xmhha/focustime/pkg/state"
	"github.com/0xmhha/focustime/pkg/store"
	"github.com/0xmhha/focustime/pkg/task"
)

// Config configures a Manager.
type Config struct {
	// MaxTasks caps the number of tasks. Zero means unlimited.
	MaxTasks int

	// TasksPath is the task file used by Load and Flush.
	TasksPath string

	// SessionsPath is the session file used by Load and Flush.
	SessionsPath string

	// Clock is shared by every task. Nil means the system clock.
	Clock task.Clock

	// State persists running timers between processes.
	// Nil disables timer persistence.
	State state.Store
}

// LoadReport summarizes what a load read and what it had to discard.
type LoadReport struct {
	// Tasks is the number of tasks loaded.
	Tasks int

	// Sessions is the number of sessions attached to a task.
	Sessions int

	// SkippedTasks are malformed task file records.
	SkippedTasks []*store.RecordError

	// SkippedSessions are malformed session file records.
	SkippedSessions []*store.RecordError

	// OverCapacity counts task records dropped because the limit was reached.
	OverCapacity int

	// OrphanSessions counts session records naming no loaded task.
	OrphanSessions int

	// ResumedTimers counts running timers restored from the state store.
	ResumedTimers int

	// DroppedTimers counts running timers naming no loaded task.
	DroppedTimers int
}

// Clean reports whether the load discarded nothing.
func (r LoadReport) Clean() bool {
	return len(r.SkippedTasks) == 0 &&
		len(r.SkippedSessions) == 0 &&
		r.OverCapacity == 0 &&
		r.OrphanSessions == 0 &&
		r.DroppedTimers == 0
}

// Drift describes a task whose stored total disagrees with its session log.
type Drift struct {
	// Index is the task's position in the collection.
	Index int

	// Name is the task's name.
	Name string

	// Stored is the total read from the task file.
	Stored time.Duration

	// SessionSum is the sum of the task's logged sessions.
	SessionSum time.Duration
}

// Difference returns Stored minus SessionSum.
func (d Drift) Difference() time.Duration {
	return d.Stored - d.SessionSum
}
