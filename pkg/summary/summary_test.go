package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/focustime/pkg/task"
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func withSessions(name string, clock task.Clock, spans ...[2]time.Time) *task.Task {
	var total time.Duration
	for _, s := range spans {
		total += s[1].Sub(s[0])
	}
	t := task.Restore(name, total, clock)
	for _, s := range spans {
		t.AddSession(s[0], s[1], s[1].Sub(s[0]))
	}
	return t
}

func fixtureTasks(clock task.Clock) []*task.Task {
	return []*task.Task{
		withSessions("Reading", clock,
			[2]time.Time{at(2024, 3, 17, 23, 0), at(2024, 3, 17, 23, 30)},
			[2]time.Time{at(2024, 3, 18, 9, 0), at(2024, 3, 18, 10, 0)},
		),
		withSessions("Writing", clock,
			[2]time.Time{at(2024, 3, 18, 14, 0), at(2024, 3, 18, 17, 0)},
			[2]time.Time{at(2024, 3, 25, 8, 0), at(2024, 3, 25, 8, 45)},
		),
		withSessions("Idle", clock),
	}
}

func TestForDate(t *testing.T) {
	now := at(2024, 3, 26, 12, 0)
	clock := task.NewManualClock(now)

	report := ForDate(fixtureTasks(clock), at(2024, 3, 18, 20, 0), now)

	assert.Equal(t, at(2024, 3, 18, 0, 0), report.Date)
	require.Len(t, report.Rows, 3)
	assert.Equal(t, 4*time.Hour, report.DailyTotal)

	reading := report.Rows[0]
	assert.Equal(t, "Reading", reading.Name)
	assert.Equal(t, time.Hour, reading.Daily)
	assert.InDelta(t, 25.0, reading.Percent, 0.001)
	assert.Equal(t, 90*time.Minute, reading.Cumulative)

	writing := report.Rows[1]
	assert.Equal(t, 3*time.Hour, writing.Daily)
	assert.InDelta(t, 75.0, writing.Percent, 0.001)
	assert.Equal(t, 3*time.Hour+45*time.Minute, writing.Cumulative)

	idle := report.Rows[2]
	assert.Zero(t, idle.Daily)
	assert.Zero(t, idle.Percent)

	assert.Equal(t, 90*time.Minute+3*time.Hour+45*time.Minute, report.CumulativeTotal)
}

func TestForDateEmptyDay(t *testing.T) {
	now := at(2024, 3, 26, 12, 0)
	report := ForDate(fixtureTasks(task.NewManualClock(now)), at(2024, 1, 1, 0, 0), now)

	assert.Zero(t, report.DailyTotal)
	for _, r := range report.Rows {
		assert.Zero(t, r.Percent, r.Name)
	}
}

func TestForDateIncludesRunningInterval(t *testing.T) {
	clock := task.NewManualClock(at(2024, 3, 18, 9, 0))
	tk := task.New("live", clock)
	tk.Start()
	clock.Advance(25 * time.Minute)

	report := ForDate([]*task.Task{tk}, clock.Now(), clock.Now())

	require.Len(t, report.Rows, 1)
	assert.True(t, report.Rows[0].Running)
	assert.Equal(t, 25*time.Minute, report.Rows[0].Daily)
	assert.Equal(t, 25*time.Minute, report.Rows[0].Cumulative)
	assert.InDelta(t, 100.0, report.Rows[0].Percent, 0.001)
}

func TestRecentDays(t *testing.T) {
	now := at(2024, 3, 2, 15, 30)

	days := RecentDays(now, 7)

	require.Len(t, days, 7)
	assert.Equal(t, at(2024, 3, 2, 0, 0), days[0])
	assert.Equal(t, at(2024, 2, 29, 0, 0), days[2])
	assert.Equal(t, at(2024, 2, 25, 0, 0), days[6])
	assert.Nil(t, RecentDays(now, 0))
}

func TestGrouped(t *testing.T) {
	now := at(2024, 3, 26, 12, 0)
	tasks := fixtureTasks(task.NewManualClock(now))

	tests := []struct {
		name    string
		by      GroupBy
		from    time.Time
		to      time.Time
		keys    []string
		totals  []time.Duration
		perTask [][]string
	}{
		{
			name:   "by day",
			by:     GroupByDay,
			from:   at(2024, 3, 17, 0, 0),
			to:     at(2024, 3, 31, 0, 0),
			keys:   []string{"2024-03-17", "2024-03-18", "2024-03-25"},
			totals: []time.Duration{30 * time.Minute, 4 * time.Hour, 45 * time.Minute},
			perTask: [][]string{
				{"Reading"},
				{"Reading", "Writing"},
				{"Writing"},
			},
		},
		{
			name:   "by iso week",
			by:     GroupByWeek,
			from:   at(2024, 3, 1, 0, 0),
			to:     at(2024, 3, 31, 0, 0),
			keys:   []string{"2024-W11", "2024-W12", "2024-W13"},
			totals: []time.Duration{30 * time.Minute, 4 * time.Hour, 45 * time.Minute},
			perTask: [][]string{
				{"Reading"},
				{"Reading", "Writing"},
				{"Writing"},
			},
		},
		{
			name:   "by week of month",
			by:     GroupByWeekOfMonth,
			from:   at(2024, 3, 18, 0, 0),
			to:     at(2024, 3, 18, 0, 0),
			keys:   []string{"2024-03-W4"},
			totals: []time.Duration{4 * time.Hour},
			perTask: [][]string{
				{"Reading", "Writing"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buckets, err := Grouped(tasks, tt.from, tt.to, tt.by, now)
			require.NoError(t, err)
			require.Len(t, buckets, len(tt.keys))

			for i, b := range buckets {
				assert.Equal(t, tt.keys[i], b.Key)
				assert.Equal(t, tt.totals[i], b.Total)
				var names []string
				for _, tot := range b.Tasks {
					names = append(names, tot.Name)
				}
				assert.Equal(t, tt.perTask[i], names)
			}
		})
	}
}

func TestGroupedErrors(t *testing.T) {
	now := at(2024, 3, 26, 12, 0)

	_, err := Grouped(nil, now, now, "month", now)
	assert.ErrorIs(t, err, ErrInvalidGroupBy)

	_, err = Grouped(nil, now, now.AddDate(0, 0, -2), GroupByDay, now)
	assert.ErrorIs(t, err, ErrInvalidRange)

	buckets, err := Grouped(nil, now, now, GroupByDay, now)
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestWeekOfMonth(t *testing.T) {
	tests := []struct {
		day  time.Time
		want int
	}{
		{at(2024, 3, 1, 0, 0), 1},  // Friday
		{at(2024, 3, 3, 23, 0), 1}, // Sunday
		{at(2024, 3, 4, 0, 0), 2},  // Monday
		{at(2024, 3, 18, 12, 0), 4},
		{at(2024, 3, 31, 0, 0), 5},
		{at(2024, 4, 1, 0, 0), 1}, // month starting on Monday
	}

	for _, tt := range tests {
		t.Run(tt.day.Format(time.DateOnly), func(t *testing.T) {
			assert.Equal(t, tt.want, WeekOfMonth(tt.day))
		})
	}
}

func TestWeekOfMonthAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("timezone data unavailable")
	}

	// DST starts 2024-03-10; the week of 03-11 is 167 hours after 03-04.
	assert.Equal(t, 3, WeekOfMonth(time.Date(2024, 3, 11, 0, 0, 0, 0, loc)))
}

func TestGroupTitle(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		by   GroupBy
		want string
	}{
		{"day", at(2024, 3, 18, 9, 0), GroupByDay, "Monday, 18 Mar 2024"},
		{"week", at(2024, 3, 20, 9, 0), GroupByWeek, "Mar 18 - Mar 24, 2024"},
		{"week of month clamped", at(2024, 3, 1, 9, 0), GroupByWeekOfMonth, "Mar 01 - Mar 03, 2024"},
		{"unknown", at(2024, 3, 1, 9, 0), "month", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GroupTitle(tt.t, tt.by))
		})
	}
}

func TestGroupKey(t *testing.T) {
	day := at(2024, 12, 30, 10, 0)

	assert.Equal(t, "2024-12-30", GroupKey(day, GroupByDay))
	assert.Equal(t, "2025-W01", GroupKey(day, GroupByWeek))
	assert.Equal(t, "2024-12-W6", GroupKey(day, GroupByWeekOfMonth))
}

func TestPercent(t *testing.T) {
	assert.Zero(t, Percent(time.Hour, 0))
	assert.InDelta(t, 50.0, Percent(time.Hour, 2*time.Hour), 0.001)
}
