package summary

import (
	"fmt"
	"sort"
	"time"

	"github.com/0xmhha/focustime/pkg/task"
)

// ForDate reports how much time each task logged on the calendar day of
// day, in day's location.
//
// A running task's open interval counts as a session ending at now.
func ForDate(tasks []*task.Task, day, now time.Time) Report {
	date := StartOfDay(day)
	report := Report{
		Date: date,
		Rows: make([]Row, 0, len(tasks)),
	}

	for _, t := range tasks {
		var daily time.Duration
		for _, s := range sessionsOf(t, now) {
			if SameDay(s.Start.In(date.Location()), date) {
				daily += s.Duration
			}
		}

		report.Rows = append(report.Rows, Row{
			Name:       t.Name(),
			Daily:      daily,
			Cumulative: t.TotalDuration(),
			Running:    t.IsRunning(),
		})
		report.DailyTotal += daily
		report.CumulativeTotal += t.TotalDuration()
	}

	for i := range report.Rows {
		report.Rows[i].Percent = Percent(report.Rows[i].Daily, report.DailyTotal)
	}

	return report
}

// RecentDays returns local midnight of the last n days, today first.
func RecentDays(now time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	today := StartOfDay(now)
	days := make([]time.Time, n)
	for i := range days {
		days[i] = today.AddDate(0, 0, -i)
	}
	return days
}

// Grouped totals the sessions that started between the calendar days of
// from and to, inclusive, into buckets ordered oldest first.
func Grouped(tasks []*task.Task, from, to time.Time, by GroupBy, now time.Time) ([]Bucket, error) {
	if err := by.Validate(); err != nil {
		return nil, err
	}
	start := StartOfDay(from)
	end := StartOfDay(to).AddDate(0, 0, 1)
	if end.Before(start) || end.Equal(start) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}

	buckets := make(map[string]*Bucket)
	perTask := make(map[string][]time.Duration)

	for ti, t := range tasks {
		for _, s := range sessionsOf(t, now) {
			local := s.Start.In(start.Location())
			if local.Before(start) || !local.Before(end) {
				continue
			}

			key := GroupKey(local, by)
			b, exists := buckets[key]
			if !exists {
				b = &Bucket{
					Key:   key,
					Title: GroupTitle(local, by),
					Start: local,
				}
				buckets[key] = b
				perTask[key] = make([]time.Duration, len(tasks))
			}
			if local.Before(b.Start) {
				b.Start = local
			}
			b.Total += s.Duration
			b.Sessions++
			perTask[key][ti] += s.Duration
		}
	}

	result := make([]Bucket, 0, len(buckets))
	for key, b := range buckets {
		for ti, d := range perTask[key] {
			if d > 0 {
				b.Tasks = append(b.Tasks, TaskTotal{Name: tasks[ti].Name(), Duration: d})
			}
		}
		result = append(result, *b)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})

	return result, nil
}

// Validate checks that g is a known grouping.
func (g GroupBy) Validate() error {
	switch g {
	case GroupByDay, GroupByWeek, GroupByWeekOfMonth:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidGroupBy, string(g))
	}
}

// Percent returns part as a percentage of whole, or 0 when whole is zero.
func Percent(part, whole time.Duration) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) * 100 / float64(whole)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// WeekOfMonth returns the 1-based Monday-anchored week of t within its month.
func WeekOfMonth(t time.Time) int {
	year, month, _ := t.Date()
	firstMonday := monday(time.Date(year, month, 1, 0, 0, 0, 0, t.Location()))
	return (dayNumber(monday(StartOfDay(t)))-dayNumber(firstMonday))/7 + 1
}

// WeekRange returns the Monday and Sunday of t's week.
func WeekRange(t time.Time) (time.Time, time.Time) {
	start := monday(StartOfDay(t))
	return start, start.AddDate(0, 0, 6)
}

// GroupKey returns the bucket key of t.
func GroupKey(t time.Time, by GroupBy) string {
	switch by {
	case GroupByDay:
		return t.Format(time.DateOnly)
	case GroupByWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case GroupByWeekOfMonth:
		year, month, _ := t.Date()
		return fmt.Sprintf("%d-%02d-W%d", year, month, WeekOfMonth(t))
	}
	return ""
}

// GroupTitle returns the bucket label of t.
func GroupTitle(t time.Time, by GroupBy) string {
	switch by {
	case GroupByDay:
		return t.Format("Monday, 02 Jan 2006")
	case GroupByWeek:
		start, end := WeekRange(t)
		return fmt.Sprintf("%s - %s", start.Format("Jan 02"), end.Format("Jan 02, 2006"))
	case GroupByWeekOfMonth:
		start, end := WeekRange(t)

		// Clamp to t's month.
		year, month, _ := t.Date()
		first := time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
		last := first.AddDate(0, 1, -1)
		if start.Before(first) {
			start = first
		}
		if end.After(last) {
			end = last
		}
		return fmt.Sprintf("%s - %s", start.Format("Jan 02"), end.Format("Jan 02, 2006"))
	}
	return ""
}

func monday(t time.Time) time.Time {
	offset := int(t.Weekday())
	if offset == 0 {
		offset = 7
	}
	return t.AddDate(0, 0, -offset+1)
}

// dayNumber counts calendar days since the Unix epoch, ignoring DST shifts.
func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// sessionsOf returns t's logged sessions plus its open interval, if any.
func sessionsOf(t *task.Task, now time.Time) []task.Session {
	sessions := t.Sessions()
	if since, running := t.RunningSince(); running && now.After(since) {
		sessions = append(sessions, task.Session{
			Start:    since,
			End:      now,
			Duration: now.Sub(since),
		})
	}
	return sessions
}
