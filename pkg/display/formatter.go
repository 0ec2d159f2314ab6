package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/0xmhha/focustime/pkg/task"
)

// Styles used when color is enabled.
var (
	styleHeader  = lipgloss.NewStyle().Foreground(lipgloss.Color("#fe8019")).Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
	styleRunning = lipgloss.NewStyle().Foreground(lipgloss.Color("#8ec07c")).Bold(true)
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("#fabd2f"))
)

// New creates a new formatter based on configuration.
func New(cfg Config) Formatter {
	if cfg.Format == "" {
		cfg.Format = FormatTable
	}

	switch cfg.Format {
	case FormatJSON:
		return &jsonFormatter{config: cfg}
	case FormatSimple:
		return &simpleFormatter{config: cfg}
	case FormatTable:
		fallthrough
	default:
		return &tableFormatter{config: cfg}
	}
}

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatSimple:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format %q: must be table, json or simple", s)
	}
}

// Views snapshots tasks in collection order.
func Views(tasks []*task.Task) []TaskView {
	views := make([]TaskView, len(tasks))
	for i, t := range tasks {
		since, running := t.RunningSince()
		views[i] = TaskView{
			Index:    i,
			Name:     t.Name(),
			Total:    t.TotalDuration(),
			Running:  running,
			Since:    since,
			Sessions: len(t.Sessions()),
		}
	}
	return views
}

// FormatDuration renders d as HH:MM:SS. Hours are not wrapped at 24.
func FormatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, secs/3600, (secs/60)%60, secs%60)
}

// formatPercent formats a percentage with one decimal.
func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// formatTime formats a wall clock instant.
func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// writeHeader writes a section header.
func writeHeader(w io.Writer, title string, compact bool) error {
	if compact {
		_, err := fmt.Fprintf(w, "%s\n", title)
		return err
	}

	_, err := fmt.Fprintf(w, "\n%s\n%s\n\n", title, strings.Repeat("=", len(title)))
	return err
}
