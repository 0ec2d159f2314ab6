package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/0xmhha/focustime/pkg/logger"
)

// pending is an event waiting for its file to go quiet.
type pending struct {
	event Event
	timer *time.Timer
}

type watcher struct {
	fsw    *fsnotify.Watcher
	logger logger.Logger
	config Config
	files  map[string]bool

	events chan Event
	errors chan error

	// mu guards everything below. Sends on events and errors happen with mu
	// held so Close cannot close a channel under a sender.
	mu       sync.Mutex
	running  bool
	closed   bool
	stopChan chan struct{}
	pending  map[string]*pending
	failures int
}

// New creates a watcher. Call Start to begin watching.
func New(cfg Config, log logger.Logger) (Watcher, error) {
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = 100 * time.Millisecond
	}
	if cfg.MaxConsecutiveErrors <= 0 {
		cfg.MaxConsecutiveErrors = 5
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	var files map[string]bool
	if len(cfg.Files) > 0 {
		files = make(map[string]bool, len(cfg.Files))
		for _, f := range cfg.Files {
			files[filepath.Base(f)] = true
		}
	}

	log = logger.Component(log, "watcher")
	log.Debug("watcher created", "debounce", cfg.DebounceInterval, "files", cfg.Files)

	return &watcher{
		fsw:     fsw,
		logger:  log,
		config:  cfg,
		files:   files,
		events:  make(chan Event, 32),
		errors:  make(chan error, 8),
		pending: make(map[string]*pending),
	}, nil
}

// Start implements Watcher.Start.
func (w *watcher) Start(ctx context.Context, dirs []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.running {
		return ErrAlreadyStarted
	}
	if len(dirs) == 0 {
		return fmt.Errorf("%w: none given", ErrInvalidPath)
	}

	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPath, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: %s is not a directory", ErrInvalidPath, dir)
		}
	}

	added := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if err := w.fsw.Add(dir); err != nil {
			for _, d := range added {
				_ = w.fsw.Remove(d)
			}
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		added = append(added, dir)
	}

	w.running = true
	w.failures = 0
	w.stopChan = make(chan struct{})
	go w.loop(ctx, w.stopChan)

	w.logger.Info("watching data files", "dirs", dirs)
	return nil
}

// Stop implements Watcher.Stop.
func (w *watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if !w.running {
		return ErrNotStarted
	}

	w.halt()
	w.logger.Info("watcher stopped")
	return nil
}

// Events implements Watcher.Events.
func (w *watcher) Events() <-chan Event {
	return w.events
}

// Errors implements Watcher.Errors.
func (w *watcher) Errors() <-chan error {
	return w.errors
}

// Close implements Watcher.Close.
func (w *watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.running {
		w.halt()
	}
	close(w.events)
	close(w.errors)

	if err := w.fsw.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	w.logger.Debug("watcher closed")
	return nil
}

// halt ends the loop and drops pending events. Callers hold mu.
func (w *watcher) halt() {
	close(w.stopChan)
	w.running = false
	for name, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, name)
	}
}

func (w *watcher) loop(ctx context.Context, stop <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.record(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if !w.fail(err) {
				return
			}
		}
	}
}

// record folds a raw fsnotify event into the pending event for its file and
// restarts that file's quiet period.
func (w *watcher) record(ev fsnotify.Event) {
	op := convertOp(ev.Op)
	if op == 0 || !w.tracked(ev.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.failures = 0

	p, ok := w.pending[ev.Name]
	if !ok {
		p = &pending{event: Event{Path: ev.Name, Name: filepath.Base(ev.Name)}}
		w.pending[ev.Name] = p
		p.timer = time.AfterFunc(w.config.DebounceInterval, func() { w.flush(ev.Name, p) })
	} else {
		p.timer.Reset(w.config.DebounceInterval)
	}

	p.event.Op |= op
	p.event.Count++
	p.event.Timestamp = time.Now()
}

// flush delivers p if it is still the pending event for path.
func (w *watcher) flush(path string, p *pending) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending[path] != p || w.closed {
		return
	}
	delete(w.pending, path)

	select {
	case w.events <- p.event:
		w.logger.Debug("data file changed", "file", p.event.Name, "op", p.event.Op, "raw", p.event.Count)
	default:
		w.logger.Warn("event channel full, dropping event", "file", p.event.Name)
	}
}

// fail reports err and returns false once the error budget is spent.
func (w *watcher) fail(err error) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return false
	}

	w.failures++
	w.logger.Error("watch error", "error", err, "consecutive", w.failures)

	keepGoing := w.failures < w.config.MaxConsecutiveErrors
	if !keepGoing {
		err = fmt.Errorf("%w: %v", ErrTooManyErrors, err)
	}

	select {
	case w.errors <- err:
	default:
		w.logger.Warn("error channel full, dropping error")
	}
	return keepGoing
}

// tracked reports whether path names a configured data file. Dot files,
// such as the temp files of an atomic rewrite, never match.
func (w *watcher) tracked(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return w.files == nil || w.files[base]
}

// convertOp maps fsnotify operations to Op. Permission changes are dropped.
func convertOp(op fsnotify.Op) Op {
	var out Op
	if op.Has(fsnotify.Create) {
		out |= OpCreate
	}
	if op.Has(fsnotify.Write) {
		out |= OpWrite
	}
	if op.Has(fsnotify.Remove) {
		out |= OpRemove
	}
	if op.Has(fsnotify.Rename) {
		out |= OpRename
	}
	return out
}
