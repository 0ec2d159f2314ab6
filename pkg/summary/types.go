// Package summary turns task session logs into daily and grouped reports.
//
// A session belongs to the local calendar day on which it started.
//
// Example usage:
//
//	now := time.Now()
//	report := summary.ForDate(mgr.Tasks(), now, now)
//	for _, row := range report.Rows {
//	    fmt.Printf("%s %s %.1f%%\n", row.Name, row.Daily, row.Percent)
//	}
//
//	buckets, err := summary.Grouped(mgr.Tasks(), from, to, summary.GroupByWeek, now)
package summary

import (
	"time"
)

// GroupBy selects the bucket size of a grouped report.
type GroupBy string

const (
	// GroupByDay buckets by calendar day (2006-01-02).
	GroupByDay GroupBy = "day"

	// GroupByWeek buckets by ISO week (2006-W01).
	GroupByWeek GroupBy = "week"

	// GroupByWeekOfMonth buckets by Monday-based week within the month (2006-01-W1).
	GroupByWeekOfMonth GroupBy = "week-of-month"
)

// Row is one task's line in a daily report.
type Row struct {
	// Name is the task name.
	Name string `json:"name"`

	// Daily is the time logged on the report date.
	Daily time.Duration `json:"daily"`

	// Percent is Daily as a share of the report's DailyTotal (0-100).
	Percent float64 `json:"percent"`

	// Cumulative is the task's live total across all days.
	Cumulative time.Duration `json:"cumulative"`

	// Running indicates the task has an open interval.
	Running bool `json:"running"`
}

// Report is the per-task breakdown of one calendar day.
type Report struct {
	// Date is local midnight of the reported day.
	Date time.Time `json:"date"`

	// Rows has one entry per task, in collection order.
	Rows []Row `json:"rows"`

	// DailyTotal is the sum of every row's Daily.
	DailyTotal time.Duration `json:"daily_total"`

	// CumulativeTotal is the sum of every row's Cumulative.
	CumulativeTotal time.Duration `json:"cumulative_total"`
}

// TaskTotal is the time one task logged inside a bucket.
type TaskTotal struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
}

// Bucket is one period of a grouped report.
type Bucket struct {
	// Key identifies the period, e.g. 2024-03-18, 2024-W12 or 2024-03-W4.
	Key string `json:"key"`

	// Title is a human readable label for the period.
	Title string `json:"title"`

	// Start is the earliest session start that fell in the bucket.
	Start time.Time `json:"start"`

	// Total is the time logged in the bucket across all tasks.
	Total time.Duration `json:"total"`

	// Tasks lists per-task totals in collection order, omitting tasks
	// with nothing logged.
	Tasks []TaskTotal `json:"tasks"`

	// Sessions counts the sessions in the bucket.
	Sessions int `json:"sessions"`
}
