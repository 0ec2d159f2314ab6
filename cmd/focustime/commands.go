package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0xmhha/focustime/pkg/config"
	"github.com/0xmhha/focustime/pkg/display"
	"github.com/0xmhha/focustime/pkg/logger"
	"github.com/0xmhha/focustime/pkg/manager"
	"github.com/0xmhha/focustime/pkg/monitor"
	"github.com/0xmhha/focustime/pkg/state"
	"github.com/0xmhha/focustime/pkg/task"
)

var (
	// errTaskNotFound is returned when a name or index matches no task.
	errTaskNotFound = errors.New("task not found")

	// errAmbiguousTarget is returned when a command needs a target but
	// several timers could be meant.
	errAmbiguousTarget = errors.New("several timers are running; name the task")
)

// app carries the state shared by every command of one invocation.
type app struct {
	// Flags.
	configPath string
	dataDir    string
	format     string

	clock  task.Clock
	cfg    *config.Config
	source string
	log    logger.Logger
}

// newApp creates an app reading time from clock.
func newApp(clock task.Clock) *app {
	return &app{
		clock: clock,
		log:   logger.Noop(),
	}
}

// loadConfig resolves the configuration and applies command line overrides.
func (a *app) loadConfig(cmd *cobra.Command) error {
	loader := config.NewLoader(a.configPath)
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	if a.dataDir != "" {
		cfg.Storage.DataDir = a.dataDir
	}
	if a.format != "" {
		f, err := display.ParseFormat(a.format)
		if err != nil {
			return err
		}
		cfg.Display.DefaultFormat = string(f)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.cfg = cfg
	a.source = loader.Source()
	a.log = a.newLogger(cmd)
	a.log.Debug("configuration loaded", "source", a.source, "data_dir", cfg.Storage.DataDir)
	return nil
}

// newLogger builds the logger from configuration. Messages meant for stderr
// go to the command's error stream.
func (a *app) newLogger(cmd *cobra.Command) logger.Logger {
	lc := logger.Config{
		Level:  a.cfg.Logging.Level,
		Output: a.cfg.Logging.Output,
		Format: a.cfg.Logging.Format,
	}
	if lc.Output == "" || strings.EqualFold(lc.Output, "stderr") {
		return logger.NewWithWriter(lc, cmd.ErrOrStderr())
	}
	return logger.New(lc)
}

// openManager loads the task collection. readOnly commands open the timer
// state without taking the write lock. The returned func releases the state
// store.
func (a *app) openManager(readOnly bool) (*manager.Manager, func(), error) {
	st, err := state.New(state.Config{
		DBPath:   a.cfg.StatePath(),
		ReadOnly: readOnly,
	}, a.log)
	if err != nil {
		return nil, nil, err
	}

	mgr := manager.New(manager.Config{
		MaxTasks:     a.cfg.TaskLimit(),
		TasksPath:    a.cfg.TasksPath(),
		SessionsPath: a.cfg.SessionsPath(),
		Clock:        a.clock,
		State:        st,
	}, a.log)

	closeFn := func() {
		if err := st.Close(); err != nil {
			a.log.Error("failed to close state store", "error", err)
		}
	}

	if _, err := mgr.Load(); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	return mgr, closeFn, nil
}

// formatter returns the configured formatter for output w.
func (a *app) formatter(w io.Writer) display.Formatter {
	return display.New(display.Config{
		Format: display.Format(a.cfg.Display.DefaultFormat),
		Color:  a.colorEnabled(w),
	})
}

func (a *app) colorEnabled(w io.Writer) bool {
	switch a.cfg.Display.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return monitor.IsTerminal(w)
	}
}

// resolveTarget maps a task name or "#index" to an index. A task whose name
// starts with "#" wins over the index form.
func resolveTarget(mgr *manager.Manager, target string) (int, error) {
	if i, ok := mgr.Lookup(strings.TrimSpace(target)); ok {
		return i, nil
	}
	if strings.HasPrefix(target, "#") {
		return parseIndex(mgr, target)
	}
	return 0, fmt.Errorf("%w: %s", errTaskNotFound, target)
}

// parseIndex accepts "3" or "#3".
func parseIndex(mgr *manager.Manager, s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	if _, ok := mgr.TaskAt(i); !ok {
		return 0, fmt.Errorf("%w: #%d", errTaskNotFound, i)
	}
	return i, nil
}

// runningIndex returns the only running task. ok is false when none runs.
func runningIndex(mgr *manager.Manager) (int, bool, error) {
	found := -1
	for i, t := range mgr.Tasks() {
		if !t.IsRunning() {
			continue
		}
		if found >= 0 {
			return 0, false, errAmbiguousTarget
		}
		found = i
	}
	return found, found >= 0, nil
}
