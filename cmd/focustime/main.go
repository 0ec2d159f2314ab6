// Package main provides the focustime CLI application.
//
// focustime is a personal task timer. Each task accumulates time across
// start/stop sessions; totals live in a task file, the session history in a
// session file, and running timers in a small state database so a timer
// started by one invocation can be stopped by the next.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/0xmhha/focustime/pkg/task"
)

// version is set during build time.
var version = "dev"

func main() {
	if err := newRootCmd(newApp(task.SystemClock())).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd assembles the command tree around a.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "focustime",
		Short: "Track time spent on tasks",
		Long: `focustime tracks time spent on named tasks.

Start a timer on a task, stop it when you are done, and review how the day
was spent. Tasks can be addressed by name or by index (#0, #1, ...).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to configuration file")
	flags.StringVar(&a.dataDir, "data-dir", "", "directory holding the task, session and state files")
	flags.StringVar(&a.format, "format", "", "output format (table, json, simple)")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newStartCmd(a),
		newStopCmd(a),
		newPauseCmd(a),
		newResetCmd(a),
		newRenameCmd(a),
		newDeleteCmd(a),
		newSessionsCmd(a),
		newSummaryCmd(a),
		newReportCmd(a),
		newCheckCmd(a),
		newWatchCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)

	return root
}
