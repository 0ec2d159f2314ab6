// Package task provides the timer state machine for a single named activity.
//
// A Task is either idle or running. While running it holds the instant the
// current interval opened; stopping or pausing closes the interval, appends a
// Session to the task's log and adds the interval to the accumulated total.
//
// Example usage:
//
//	t := task.New("Writing", task.SystemClock())
//	t.Start()
//	// ... work ...
//	if s, ok := t.Stop(); ok {
//	    fmt.Printf("logged %s\n", s.Duration)
//	}
package task

import "time"

// Session is one contiguous interval during which a task was running.
//
// Start and End have second resolution. For sessions produced by Stop or
// Pause, Duration equals End minus Start; sessions restored from storage
// carry whatever duration was persisted.
type Session struct {
	// Start is when the interval opened.
	Start time.Time `json:"start"`

	// End is when the interval closed.
	End time.Time `json:"end"`

	// Duration is the length of the interval, a whole number of seconds.
	Duration time.Duration `json:"duration"`
}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns a Clock backed by time.Now, truncated to whole seconds.
func SystemClock() Clock {
	return ClockFunc(func() time.Time {
		return time.Now().Truncate(time.Second)
	})
}

// ManualClock is a Clock that only moves when told to.
// Useful for testing and for replaying recorded activity.
type ManualClock struct {
	now time.Time
}

// NewManualClock creates a ManualClock positioned at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start.Truncate(time.Second)}
}

// Now implements Clock.
func (c *ManualClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Set moves the clock to t.
func (c *ManualClock) Set(t time.Time) { c.now = t.Truncate(time.Second) }
