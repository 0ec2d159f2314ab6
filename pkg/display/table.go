package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/0xmhha/focustime/pkg/manager"
	"github.com/0xmhha/focustime/pkg/summary"
	"github.com/0xmhha/focustime/pkg/task"
)

// tableFormatter formats output as tables.
type tableFormatter struct {
	config Config
}

// FormatTasks implements Formatter.FormatTasks.
func (f *tableFormatter) FormatTasks(w io.Writer, tasks []TaskView) error {
	if err := writeHeader(w, "Tasks", f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		status := "idle"
		if t.Running {
			status = f.running("running since " + t.Since.Format("15:04:05"))
		}
		rows[i] = []string{
			fmt.Sprintf("#%d", t.Index),
			t.Name,
			FormatDuration(t.Total),
			fmt.Sprintf("%d", t.Sessions),
			status,
		}
	}

	return f.writeTable(w, []string{"#", "Task", "Total", "Sessions", "Status"}, rows)
}

// FormatSessions implements Formatter.FormatSessions.
func (f *tableFormatter) FormatSessions(w io.Writer, name string, sessions []task.Session) error {
	if err := writeHeader(w, "Sessions: "+name, f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, len(sessions))
	for i, s := range sessions {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			formatTime(s.Start),
			formatTime(s.End),
			FormatDuration(s.Duration),
		}
	}

	return f.writeTable(w, []string{"#", "Start", "End", "Duration"}, rows)
}

// FormatSummary implements Formatter.FormatSummary.
func (f *tableFormatter) FormatSummary(w io.Writer, report summary.Report) error {
	if err := writeHeader(w, "Summary for "+report.Date.Format("2006-01-02"), f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, 0, len(report.Rows)+1)
	for _, r := range report.Rows {
		name := r.Name
		if r.Running {
			name = f.running(name + " *")
		}
		rows = append(rows, []string{
			name,
			FormatDuration(r.Daily),
			formatPercent(r.Percent),
			FormatDuration(r.Cumulative),
		})
	}
	if len(rows) > 0 {
		total := "0.0%"
		if report.DailyTotal > 0 {
			total = "100.0%"
		}
		rows = append(rows, []string{
			f.dim("Total"),
			FormatDuration(report.DailyTotal),
			total,
			FormatDuration(report.CumulativeTotal),
		})
	}

	return f.writeTable(w, []string{"Task", "Daily Time", "Daily %", "Cumulative Time"}, rows)
}

// FormatGroups implements Formatter.FormatGroups.
func (f *tableFormatter) FormatGroups(w io.Writer, buckets []summary.Bucket) error {
	if err := writeHeader(w, "Report", f.config.Compact); err != nil {
		return err
	}

	var rows [][]string
	for _, b := range buckets {
		rows = append(rows, []string{b.Key, b.Title, f.dim(fmt.Sprintf("%d sessions", b.Sessions)), FormatDuration(b.Total), ""})
		for _, t := range b.Tasks {
			rows = append(rows, []string{
				"",
				"",
				t.Name,
				FormatDuration(t.Duration),
				formatPercent(summary.Percent(t.Duration, b.Total)),
			})
		}
	}

	return f.writeTable(w, []string{"Period", "Range", "Task", "Time", "Share"}, rows)
}

// FormatDrift implements Formatter.FormatDrift.
func (f *tableFormatter) FormatDrift(w io.Writer, drift []manager.Drift) error {
	if err := writeHeader(w, "Total/Session Drift", f.config.Compact); err != nil {
		return err
	}

	if len(drift) == 0 {
		_, err := fmt.Fprintln(w, "All task totals match their session logs.")
		return err
	}

	rows := make([][]string, len(drift))
	for i, d := range drift {
		rows[i] = []string{
			fmt.Sprintf("#%d", d.Index),
			d.Name,
			FormatDuration(d.Stored),
			FormatDuration(d.SessionSum),
			f.warn(FormatDuration(d.Difference())),
		}
	}

	return f.writeTable(w, []string{"#", "Task", "Stored", "Sessions", "Difference"}, rows)
}

// writeTable writes a formatted table. Widths are measured on visible
// characters so styled cells stay aligned.
func (f *tableFormatter) writeTable(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	styled := make([]string, len(header))
	for i, h := range header {
		styled[i] = f.header(h)
	}
	if err := f.writeRow(w, styled, widths); err != nil {
		return err
	}

	if !f.config.Compact {
		separator := make([]string, len(header))
		for i, width := range widths {
			separator[i] = f.dim(strings.Repeat("-", width))
		}
		if err := f.writeRow(w, separator, widths); err != nil {
			return err
		}
	}

	for _, row := range rows {
		if err := f.writeRow(w, row, widths); err != nil {
			return err
		}
	}

	if !f.config.Compact {
		_, err := fmt.Fprintln(w)
		return err
	}

	return nil
}

// writeRow writes a single table row.
func (f *tableFormatter) writeRow(w io.Writer, cells []string, widths []int) error {
	gap := "  "
	if f.config.Compact {
		gap = " "
	}

	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(gap)
		}
		b.WriteString(cell)
		if i < len(cells)-1 {
			if pad := widths[i] - lipgloss.Width(cell); pad > 0 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *tableFormatter) header(s string) string {
	if !f.config.Color {
		return s
	}
	return styleHeader.Render(s)
}

func (f *tableFormatter) dim(s string) string {
	if !f.config.Color {
		return s
	}
	return styleDim.Render(s)
}

func (f *tableFormatter) running(s string) string {
	if !f.config.Color {
		return s
	}
	return styleRunning.Render(s)
}

func (f *tableFormatter) warn(s string) string {
	if !f.config.Color {
		return s
	}
	return styleWarn.Render(s)
}
