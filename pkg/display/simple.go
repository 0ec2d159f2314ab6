package display

import (
	"fmt"
	"io"

	"github.com/0xmhha/focustime/pkg/manager"
	"github.com/0xmhha/focustime/pkg/summary"
	"github.com/0xmhha/focustime/pkg/task"
)

// simpleFormatter formats output as simple text.
type simpleFormatter struct {
	config Config
}

// FormatTasks implements Formatter.FormatTasks.
func (f *simpleFormatter) FormatTasks(w io.Writer, tasks []TaskView) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks")
		return err
	}

	for _, t := range tasks {
		status := ""
		if t.Running {
			status = " (running)"
		}
		if _, err := fmt.Fprintf(w, "#%d %s: %s%s\n", t.Index, t.Name, FormatDuration(t.Total), status); err != nil {
			return err
		}
	}
	return nil
}

// FormatSessions implements Formatter.FormatSessions.
func (f *simpleFormatter) FormatSessions(w io.Writer, name string, sessions []task.Session) error {
	for _, s := range sessions {
		if _, err := fmt.Fprintf(w, "%s: %s -> %s (%s)\n",
			name,
			formatTime(s.Start),
			formatTime(s.End),
			FormatDuration(s.Duration)); err != nil {
			return err
		}
	}
	return nil
}

// FormatSummary implements Formatter.FormatSummary.
func (f *simpleFormatter) FormatSummary(w io.Writer, report summary.Report) error {
	for _, r := range report.Rows {
		if _, err := fmt.Fprintf(w, "%s: %s today (%s) | %s total\n",
			r.Name,
			FormatDuration(r.Daily),
			formatPercent(r.Percent),
			FormatDuration(r.Cumulative)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Total %s: %s\n", report.Date.Format("2006-01-02"), FormatDuration(report.DailyTotal))
	return err
}

// FormatGroups implements Formatter.FormatGroups.
func (f *simpleFormatter) FormatGroups(w io.Writer, buckets []summary.Bucket) error {
	for _, b := range buckets {
		if _, err := fmt.Fprintf(w, "%s (%s): %s in %d sessions\n",
			b.Key, b.Title, FormatDuration(b.Total), b.Sessions); err != nil {
			return err
		}
	}
	return nil
}

// FormatDrift implements Formatter.FormatDrift.
func (f *simpleFormatter) FormatDrift(w io.Writer, drift []manager.Drift) error {
	for _, d := range drift {
		if _, err := fmt.Fprintf(w, "#%d %s: stored %s, sessions %s\n",
			d.Index, d.Name, FormatDuration(d.Stored), FormatDuration(d.SessionSum)); err != nil {
			return err
		}
	}
	return nil
}
