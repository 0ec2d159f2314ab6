package display

import (
	"encoding/json"
	"io"
	"time"

	"github.com/0xmhha/focustime/pkg/manager"
	"github.com/0xmhha/focustime/pkg/summary"
	"github.com/0xmhha/focustime/pkg/task"
)

// jsonFormatter formats output as JSON. Durations are whole seconds.
type jsonFormatter struct {
	config Config
}

type jsonTask struct {
	Index        int        `json:"index"`
	Name         string     `json:"name"`
	TotalSeconds int64      `json:"total_seconds"`
	Running      bool       `json:"running"`
	RunningSince *time.Time `json:"running_since,omitempty"`
	Sessions     int        `json:"sessions"`
}

type jsonSession struct {
	Start           int64 `json:"start"`
	End             int64 `json:"end"`
	DurationSeconds int64 `json:"duration_seconds"`
}

type jsonRow struct {
	Name              string  `json:"name"`
	DailySeconds      int64   `json:"daily_seconds"`
	Percent           float64 `json:"percent"`
	CumulativeSeconds int64   `json:"cumulative_seconds"`
	Running           bool    `json:"running"`
}

type jsonReport struct {
	Date                   string    `json:"date"`
	Rows                   []jsonRow `json:"rows"`
	DailyTotalSeconds      int64     `json:"daily_total_seconds"`
	CumulativeTotalSeconds int64     `json:"cumulative_total_seconds"`
}

type jsonTaskTotal struct {
	Name            string `json:"name"`
	DurationSeconds int64  `json:"duration_seconds"`
}

type jsonBucket struct {
	Key          string          `json:"key"`
	Title        string          `json:"title"`
	TotalSeconds int64           `json:"total_seconds"`
	Sessions     int             `json:"sessions"`
	Tasks        []jsonTaskTotal `json:"tasks"`
}

type jsonDrift struct {
	Index             int    `json:"index"`
	Name              string `json:"name"`
	StoredSeconds     int64  `json:"stored_seconds"`
	SessionSumSeconds int64  `json:"session_sum_seconds"`
}

// FormatTasks implements Formatter.FormatTasks.
func (f *jsonFormatter) FormatTasks(w io.Writer, tasks []TaskView) error {
	out := make([]jsonTask, len(tasks))
	for i, t := range tasks {
		out[i] = jsonTask{
			Index:        t.Index,
			Name:         t.Name,
			TotalSeconds: seconds(t.Total),
			Running:      t.Running,
			Sessions:     t.Sessions,
		}
		if t.Running {
			since := t.Since
			out[i].RunningSince = &since
		}
	}
	return f.encode(w, out)
}

// FormatSessions implements Formatter.FormatSessions.
func (f *jsonFormatter) FormatSessions(w io.Writer, name string, sessions []task.Session) error {
	out := struct {
		Name     string        `json:"name"`
		Sessions []jsonSession `json:"sessions"`
	}{Name: name, Sessions: make([]jsonSession, len(sessions))}

	for i, s := range sessions {
		out.Sessions[i] = jsonSession{
			Start:           s.Start.Unix(),
			End:             s.End.Unix(),
			DurationSeconds: seconds(s.Duration),
		}
	}
	return f.encode(w, out)
}

// FormatSummary implements Formatter.FormatSummary.
func (f *jsonFormatter) FormatSummary(w io.Writer, report summary.Report) error {
	out := jsonReport{
		Date:                   report.Date.Format("2006-01-02"),
		Rows:                   make([]jsonRow, len(report.Rows)),
		DailyTotalSeconds:      seconds(report.DailyTotal),
		CumulativeTotalSeconds: seconds(report.CumulativeTotal),
	}
	for i, r := range report.Rows {
		out.Rows[i] = jsonRow{
			Name:              r.Name,
			DailySeconds:      seconds(r.Daily),
			Percent:           r.Percent,
			CumulativeSeconds: seconds(r.Cumulative),
			Running:           r.Running,
		}
	}
	return f.encode(w, out)
}

// FormatGroups implements Formatter.FormatGroups.
func (f *jsonFormatter) FormatGroups(w io.Writer, buckets []summary.Bucket) error {
	out := make([]jsonBucket, len(buckets))
	for i, b := range buckets {
		out[i] = jsonBucket{
			Key:          b.Key,
			Title:        b.Title,
			TotalSeconds: seconds(b.Total),
			Sessions:     b.Sessions,
			Tasks:        make([]jsonTaskTotal, len(b.Tasks)),
		}
		for j, t := range b.Tasks {
			out[i].Tasks[j] = jsonTaskTotal{Name: t.Name, DurationSeconds: seconds(t.Duration)}
		}
	}
	return f.encode(w, out)
}

// FormatDrift implements Formatter.FormatDrift.
func (f *jsonFormatter) FormatDrift(w io.Writer, drift []manager.Drift) error {
	out := make([]jsonDrift, len(drift))
	for i, d := range drift {
		out[i] = jsonDrift{
			Index:             d.Index,
			Name:              d.Name,
			StoredSeconds:     seconds(d.Stored),
			SessionSumSeconds: seconds(d.SessionSum),
		}
	}
	return f.encode(w, out)
}

func (f *jsonFormatter) encode(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	if !f.config.Compact {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(v)
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
