package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0xmhha/focustime/pkg/display"
	"github.com/0xmhha/focustime/pkg/manager"
)

// Notices printed for timer commands.
const (
	msgTimerStarted    = "Timer started."
	msgTimerRunning    = "Timer already running."
	msgTimerStopped    = "Timer stopped."
	msgTimerNotStarted = "Timer not started."
)

// mutate loads the collection, applies fn and writes everything back.
func (a *app) mutate(fn func(mgr *manager.Manager) error) error {
	mgr, closeFn, err := a.openManager(false)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := fn(mgr); err != nil {
		return err
	}
	if err := mgr.Flush(); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return a.mutate(func(mgr *manager.Manager) error {
				t, err := mgr.AddTask(name)
				if errors.Is(err, manager.ErrCapacityReached) {
					return fmt.Errorf("task limit reached: %w", err)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added task #%d: %s\n", mgr.Count()-1, t.Name())
				return nil
			})
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks with their total time",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, closeFn, err := a.openManager(true)
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			return a.formatter(out).FormatTasks(out, display.Views(mgr.Tasks()))
		},
	}
}

func newStartCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "start <name|#index>",
		Short: "Start the timer of a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.Join(args, " ")
			return a.mutate(func(mgr *manager.Manager) error {
				i, err := resolveTarget(mgr, target)
				if err != nil {
					return err
				}
				t, _ := mgr.TaskAt(i)
				if t.Start() {
					a.log.Info("timer started", "task", t.Name())
					fmt.Fprintln(cmd.OutOrStdout(), msgTimerStarted)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), msgTimerRunning)
				}
				return nil
			})
		},
	}
}

func newStopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop [name|#index]",
		Short: "Stop a running timer and log the session",
		Long: `Stop a running timer and log the session.

Without an argument the only running timer is stopped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return a.mutate(func(mgr *manager.Manager) error {
				i, ok, err := pickTarget(mgr, args)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, msgTimerNotStarted)
					return nil
				}

				t, _ := mgr.TaskAt(i)
				s, stopped := t.Stop()
				if !stopped {
					fmt.Fprintln(out, msgTimerNotStarted)
					return nil
				}
				a.log.Info("timer stopped", "task", t.Name(), "duration", s.Duration)
				fmt.Fprintln(out, msgTimerStopped)
				fmt.Fprintf(out, "%s: +%s (total %s)\n",
					t.Name(), display.FormatDuration(s.Duration), display.FormatDuration(t.TotalDuration()))
				return nil
			})
		},
	}
}

func newPauseCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "pause [name|#index]",
		Short: "Pause a running timer",
		Long: `Pause a running timer. The elapsed time is logged as a session.

Pausing an idle task does nothing. With --all every running timer is paused.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return a.mutate(func(mgr *manager.Manager) error {
				if all {
					n := mgr.PauseAll()
					fmt.Fprintf(out, "Paused %d timer(s).\n", n)
					return nil
				}

				i, ok, err := pickTarget(mgr, args)
				if err != nil || !ok {
					return err
				}
				t, _ := mgr.TaskAt(i)
				if s, paused := t.Pause(); paused {
					a.log.Info("timer paused", "task", t.Name(), "duration", s.Duration)
					fmt.Fprintf(out, "Paused %s at %s.\n", t.Name(), display.FormatDuration(t.TotalDuration()))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "pause every running timer")

	return cmd
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <name|#index>",
		Short: "Clear a task's time and session history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.Join(args, " ")
			return a.mutate(func(mgr *manager.Manager) error {
				i, err := resolveTarget(mgr, target)
				if err != nil {
					return err
				}
				t, _ := mgr.TaskAt(i)
				t.Reset()
				a.log.Info("task reset", "task", t.Name())
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %s.\n", t.Name())
				return nil
			})
		},
	}
}

func newRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <index> <name>",
		Short: "Rename a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args[1:], " ")
			return a.mutate(func(mgr *manager.Manager) error {
				i, err := parseIndex(mgr, args[0])
				if err != nil {
					return err
				}
				old, _ := mgr.TaskAt(i)
				oldName := old.Name()

				ok, err := mgr.RenameTask(i, name)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%w: #%d", errTaskNotFound, i)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s.\n", oldName, strings.TrimSpace(name))
				return nil
			})
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <index>",
		Aliases: []string{"rm"},
		Short:   "Delete a task and its session history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(func(mgr *manager.Manager) error {
				i, err := parseIndex(mgr, args[0])
				if err != nil {
					return err
				}
				t, _ := mgr.TaskAt(i)
				name := t.Name()

				if err := mgr.DeleteTask(i); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", name)
				return nil
			})
		},
	}
}

func newSessionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions <name|#index>",
		Short: "Show the session history of a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, closeFn, err := a.openManager(true)
			if err != nil {
				return err
			}
			defer closeFn()

			i, err := resolveTarget(mgr, strings.Join(args, " "))
			if err != nil {
				return err
			}
			t, _ := mgr.TaskAt(i)

			out := cmd.OutOrStdout()
			return a.formatter(out).FormatSessions(out, t.Name(), t.Sessions())
		},
	}
}

// pickTarget resolves the optional target argument. With no argument it
// falls back to the only running task.
func pickTarget(mgr *manager.Manager, args []string) (int, bool, error) {
	if len(args) == 0 {
		return runningIndex(mgr)
	}
	i, err := resolveTarget(mgr, strings.Join(args, " "))
	if err != nil {
		return 0, false, err
	}
	return i, true, nil
}
