package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/0xmhha/focustime/pkg/monitor"
	"github.com/0xmhha/focustime/pkg/summary"
	"github.com/0xmhha/focustime/pkg/task"
	"github.com/0xmhha/focustime/pkg/watcher"
)

// dateLayout is the format of --date, --from and --to.
const dateLayout = time.DateOnly

func newSummaryCmd(a *app) *cobra.Command {
	var date string
	var days int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show time per task for a day",
		Long: `Show the time logged per task on one calendar day, its share of the
day, and each task's cumulative total.

--days N prints the last N days, today first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.clock.Now()

			var dates []time.Time
			switch {
			case days > 0:
				dates = summary.RecentDays(now, days)
			case date != "":
				d, err := parseDate(date)
				if err != nil {
					return err
				}
				dates = []time.Time{d}
			default:
				dates = []time.Time{now}
			}

			mgr, closeFn, err := a.openManager(true)
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			f := a.formatter(out)
			for _, d := range dates {
				if err := f.FormatSummary(out, summary.ForDate(mgr.Tasks(), d, now)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to summarize (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&days, "days", 0, "summarize the last N days")

	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var from, to, groupBy string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show time per task grouped by day or week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.clock.Now()

			end := now
			if to != "" {
				d, err := parseDate(to)
				if err != nil {
					return err
				}
				end = d
			}
			start := summary.StartOfDay(end).AddDate(0, 0, -6)
			if from != "" {
				d, err := parseDate(from)
				if err != nil {
					return err
				}
				start = d
			}

			mgr, closeFn, err := a.openManager(true)
			if err != nil {
				return err
			}
			defer closeFn()

			buckets, err := summary.Grouped(mgr.Tasks(), start, end, summary.GroupBy(groupBy), now)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			return a.formatter(out).FormatGroups(out, buckets)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD, default six days before --to)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&groupBy, "group-by", string(summary.GroupByDay), "bucket size (day, week, week-of-month)")

	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compare stored totals with the session history",
		Long: `Compare each task's stored total with the sum of its logged sessions.

A mismatch usually means the task file was edited by hand or a session file
was lost. Stored totals are always what focustime reports.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, closeFn, err := a.openManager(true)
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			return a.formatter(out).FormatDrift(out, mgr.Drift())
		},
	}
}

// watchCommand shows a live view of the task list.
type watchCommand struct {
	app         *app
	refresh     time.Duration
	clearScreen bool
}

func newWatchCmd(a *app) *cobra.Command {
	var refresh time.Duration
	var history bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view of tasks and today's summary",
		Long: `Live view of tasks and today's summary.

The view refreshes when another focustime command changes the data files and
on every refresh interval while timers run. Press Ctrl+C to exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if refresh <= 0 {
				refresh = a.cfg.Display.RefreshRate
			}
			c := &watchCommand{
				app:         a,
				refresh:     refresh,
				clearScreen: !history && monitor.IsTerminal(cmd.OutOrStdout()),
			}
			return c.Execute(cmd)
		},
	}

	cmd.Flags().DurationVar(&refresh, "refresh", 0, "refresh interval (e.g. 500ms, 2s; default from config)")
	cmd.Flags().BoolVar(&history, "history", false, "append frames instead of redrawing the screen")

	return cmd
}

// Execute runs the watch command until interrupted.
func (c *watchCommand) Execute(cmd *cobra.Command) error {
	cfg := c.app.cfg
	log := c.app.log

	dataDir := filepath.Dir(cfg.TasksPath())
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	w, err := watcher.New(watcher.Config{
		DebounceInterval: cfg.Watch.DebounceInterval,
		Files: []string{
			filepath.Base(cfg.TasksPath()),
			filepath.Base(cfg.SessionsPath()),
			filepath.Base(cfg.StatePath()),
		},
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	mon, err := monitor.New(monitor.Config{
		Dirs:            []string{dataDir},
		RefreshInterval: c.refresh,
		Now:             c.app.clock.Now,
	}, w, c.loadTasks, log)
	if err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to create monitor: %w", err)
	}
	defer func() {
		if err := mon.Close(); err != nil {
			log.Error("failed to close monitor", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mon.Start(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	return monitor.Render(ctx, out, mon.Updates(), c.app.formatter(out), c.clearScreen)
}

// loadTasks reads a fresh copy of the collection. The state database is
// opened read-only and released right away so other commands can write it.
func (c *watchCommand) loadTasks() ([]*task.Task, error) {
	mgr, closeFn, err := c.app.openManager(true)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return mgr.Tasks(), nil
}

// parseDate reads a YYYY-MM-DD date as local midnight.
func parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return d, nil
}
