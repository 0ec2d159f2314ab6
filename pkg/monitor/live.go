package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/0xmhha/focustime/pkg/display"
	"github.com/0xmhha/focustime/pkg/logger"
	"github.com/0xmhha/focustime/pkg/summary"
	"github.com/0xmhha/focustime/pkg/task"
	"github.com/0xmhha/focustime/pkg/watcher"
)

// liveMonitor implements the LiveMonitor interface.
type liveMonitor struct {
	config  Config
	logger  logger.Logger
	watcher watcher.Watcher
	load    LoadFunc

	mu       sync.RWMutex
	running  bool
	closed   bool
	stopChan chan struct{}

	tasks      []*task.Task
	lastUpdate time.Time
	polling    bool
	updates    chan Update
}

// New creates a new live monitor.
func New(cfg Config, w watcher.Watcher, load LoadFunc, log logger.Logger) (LiveMonitor, error) {
	if w == nil || load == nil {
		return nil, fmt.Errorf("%w: watcher and loader are required", ErrInvalidConfig)
	}
	if len(cfg.Dirs) == 0 {
		return nil, fmt.Errorf("%w: no directories to watch", ErrInvalidConfig)
	}
	if cfg.RefreshInterval < 0 {
		return nil, fmt.Errorf("%w: negative refresh interval", ErrInvalidConfig)
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	log = logger.Component(log, "monitor")
	m := &liveMonitor{
		config:   cfg,
		logger:   log,
		watcher:  w,
		load:     load,
		stopChan: make(chan struct{}),
		updates:  make(chan Update, 10),
	}

	log.Debug("live monitor created", "refresh_interval", cfg.RefreshInterval, "dirs", cfg.Dirs)

	return m, nil
}

// Start implements LiveMonitor.Start.
func (m *liveMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrMonitorClosed
	}
	if m.running {
		m.mu.Unlock()
		return ErrMonitorRunning
	}
	m.mu.Unlock()

	tasks, err := m.load()
	if err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}

	if err := m.watcher.Start(ctx, m.config.Dirs); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	m.mu.Lock()
	m.tasks = tasks
	m.running = true
	m.mu.Unlock()

	m.sendUpdate(ReasonInitial, "")

	go m.processEvents(ctx)
	go m.periodicUpdates(ctx)

	m.logger.Info("live monitor started", "tasks", len(tasks))
	return nil
}

// Stop implements LiveMonitor.Stop.
func (m *liveMonitor) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMonitorClosed
	}
	if !m.running {
		return ErrMonitorNotRunning
	}

	close(m.stopChan)
	m.running = false

	if err := m.watcher.Stop(); err != nil {
		m.logger.Warn("failed to stop watcher", "error", err)
	}

	m.logger.Info("live monitor stopped")
	return nil
}

// Updates implements LiveMonitor.Updates.
func (m *liveMonitor) Updates() <-chan Update {
	return m.updates
}

// Close implements LiveMonitor.Close.
func (m *liveMonitor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true

	if m.running {
		close(m.stopChan)
		m.running = false
	}

	close(m.updates)

	if err := m.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	m.logger.Debug("live monitor closed")
	return nil
}

// processEvents reloads tasks after each data file change.
func (m *liveMonitor) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case <-m.stopChan:
			return

		case event, ok := <-m.watcher.Events():
			if !ok {
				m.logger.Debug("watcher events channel closed")
				return
			}

			m.handleFileChange(event)

		case err, ok := <-m.watcher.Errors():
			if !ok {
				m.logger.Debug("watcher errors channel closed")
				return
			}

			if errors.Is(err, watcher.ErrTooManyErrors) {
				m.logger.Warn("file watching failed, reloading on every refresh", "error", err)
				m.mu.Lock()
				m.polling = true
				m.mu.Unlock()
				continue
			}
			m.logger.Error("watcher error", "error", err)
		}
	}
}

// handleFileChange reloads the collection and emits an update. A failed
// reload keeps the previous snapshot.
func (m *liveMonitor) handleFileChange(event watcher.Event) {
	m.logger.Debug("file change detected", "path", event.Path, "op", event.Op)

	tasks, err := m.load()
	if err != nil {
		m.logger.Warn("failed to reload after change", "path", event.Path, "error", err)
		return
	}

	m.mu.Lock()
	m.tasks = tasks
	m.mu.Unlock()

	m.sendUpdate(ReasonFileChange, event.Path)
}

// periodicUpdates re-renders on every tick so running timers advance.
func (m *liveMonitor) periodicUpdates(ctx context.Context) {
	ticker := time.NewTicker(m.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-m.stopChan:
			return

		case <-ticker.C:
			m.tick()
		}
	}
}

// tick refreshes the view. Without a running timer nothing changes between
// file events, so the tick is skipped unless the calendar day rolled over or
// file watching has failed.
func (m *liveMonitor) tick() {
	m.mu.RLock()
	polling := m.polling
	idle := !anyRunning(m.tasks)
	sameDay := summary.SameDay(m.lastUpdate, m.config.Now())
	m.mu.RUnlock()

	if polling {
		tasks, err := m.load()
		if err != nil {
			m.logger.Warn("failed to reload", "error", err)
		} else {
			m.mu.Lock()
			m.tasks = tasks
			m.mu.Unlock()
		}
	} else if idle && sameDay {
		return
	}

	m.sendUpdate(ReasonTick, "")
}

func anyRunning(tasks []*task.Task) bool {
	for _, t := range tasks {
		if t.IsRunning() {
			return true
		}
	}
	return false
}

// sendUpdate snapshots the current tasks onto the updates channel.
func (m *liveMonitor) sendUpdate(reason Reason, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	now := m.config.Now()
	update := Update{
		Timestamp: now,
		Reason:    reason,
		Path:      path,
		Tasks:     display.Views(m.tasks),
		Report:    summary.ForDate(m.tasks, now, now),
	}
	for _, v := range update.Tasks {
		if v.Running {
			update.Running++
		}
	}

	m.lastUpdate = now

	select {
	case m.updates <- update:
	default:
		m.logger.Warn("updates channel full, dropping update", "reason", reason)
	}
}
