package task

import "time"

// Task is a named, timeable unit of work with accumulated duration and a
// chronological session log.
//
// Invariant: a task has at most one open interval. runningSince is zero
// whenever the task is idle.
type Task struct {
	name         string
	total        time.Duration
	runningSince time.Time
	sessions     []Session
	clock        Clock
}

// New creates an idle task with no accumulated time.
//
// A nil clock falls back to SystemClock.
func New(name string, clock Clock) *Task {
	return Restore(name, 0, clock)
}

// Restore creates an idle task whose accumulated total was read from storage.
func Restore(name string, total time.Duration, clock Clock) *Task {
	if clock == nil {
		clock = SystemClock()
	}
	if total < 0 {
		total = 0
	}
	return &Task{
		name:  name,
		total: total,
		clock: clock,
	}
}

// Start opens a new interval at the current instant.
//
// Calling Start on a running task does nothing and keeps the original start
// instant. Reports whether a new interval was opened.
func (t *Task) Start() bool {
	if t.IsRunning() {
		return false
	}
	t.runningSince = t.now()
	return true
}

// Stop closes the open interval, logs it and adds it to the total.
//
// If the task is idle nothing changes and ok is false; callers surface that as
// a "not running" notice, not as a failure.
func (t *Task) Stop() (s Session, ok bool) {
	if !t.IsRunning() {
		return Session{}, false
	}
	return t.closeInterval(), true
}

// Pause has the same effect as Stop. It exists for callers that treat an idle
// task as a silent no-op rather than a notice.
func (t *Task) Pause() (s Session, ok bool) {
	if !t.IsRunning() {
		return Session{}, false
	}
	return t.closeInterval(), true
}

// Reset returns the task to idle with a zero total and an empty session log.
func (t *Task) Reset() {
	t.total = 0
	t.runningSince = time.Time{}
	t.sessions = nil
}

// AddSession appends a session to the log without touching the total or the
// running state. It is used when rebuilding history from the session file.
func (t *Task) AddSession(start, end time.Time, d time.Duration) {
	t.sessions = append(t.sessions, Session{Start: start, End: end, Duration: d})
}

// Resume reopens an interval that was in progress when state was last
// persisted. It is a no-op on a running task or for a zero instant.
func (t *Task) Resume(since time.Time) bool {
	if t.IsRunning() || since.IsZero() {
		return false
	}
	t.runningSince = since.Truncate(time.Second)
	return true
}

// TotalDuration returns the accumulated total, including the open interval
// when the task is running. It never mutates the task.
func (t *Task) TotalDuration() time.Duration {
	if !t.IsRunning() {
		return t.total
	}
	return t.total + t.elapsed()
}

// StoredTotal returns the accumulated total of closed intervals only.
func (t *Task) StoredTotal() time.Duration {
	return t.total
}

// SessionSum returns the sum of the durations in the session log.
func (t *Task) SessionSum() time.Duration {
	var sum time.Duration
	for _, s := range t.sessions {
		sum += s.Duration
	}
	return sum
}

// IsRunning reports whether an interval is open.
func (t *Task) IsRunning() bool {
	return !t.runningSince.IsZero()
}

// RunningSince returns the start of the open interval, if any.
func (t *Task) RunningSince() (time.Time, bool) {
	return t.runningSince, t.IsRunning()
}

// Sessions returns a copy of the session log in chronological order.
func (t *Task) Sessions() []Session {
	out := make([]Session, len(t.sessions))
	copy(out, t.sessions)
	return out
}

// Name returns the task's display name.
func (t *Task) Name() string {
	return t.name
}

// Rename replaces the task's display name.
func (t *Task) Rename(name string) {
	t.name = name
}

func (t *Task) closeInterval() Session {
	end := t.now()
	if end.Before(t.runningSince) {
		// Wall clock went backwards; record an empty interval.
		end = t.runningSince
	}
	s := Session{
		Start:    t.runningSince,
		End:      end,
		Duration: end.Sub(t.runningSince),
	}
	t.total += s.Duration
	t.sessions = append(t.sessions, s)
	t.runningSince = time.Time{}
	return s
}

func (t *Task) elapsed() time.Duration {
	d := t.now().Sub(t.runningSince)
	if d < 0 {
		return 0
	}
	return d
}

func (t *Task) now() time.Time {
	return t.clock.Now().Truncate(time.Second)
}
