package manager

import (
	"fmt"
	"strings"

	"github.com/0xmhha/focustime/pkg/logger"
	"github.com/0xmhha/focustime/pkg/task"
)

// Manager is an ordered collection of tasks.
//
// Thread-safety: Manager is not safe for concurrent use. Each process owns
// one Manager and drives it from a single goroutine.
type Manager struct {
	tasks  []*task.Task
	index  map[string]int
	config Config
	clock  task.Clock
	logger logger.Logger
}

// New creates an empty manager.
func New(cfg Config, log logger.Logger) *Manager {
	if cfg.MaxTasks < 0 {
		cfg.MaxTasks = 0
	}
	clock := cfg.Clock
	if clock == nil {
		clock = task.SystemClock()
	}
	return &Manager{
		index:  make(map[string]int),
		config: cfg,
		clock:  clock,
		logger: logger.Component(log, "manager"),
	}
}

// AddTask appends a new idle task.
//
// Returns ErrCapacityReached without changing the collection when the limit
// has been hit.
func (m *Manager) AddTask(name string) (*task.Task, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if m.Full() {
		m.logger.Warn("task rejected, capacity reached", "name", name, "max", m.config.MaxTasks)
		return nil, fmt.Errorf("%w: max %d", ErrCapacityReached, m.config.MaxTasks)
	}

	t := task.New(name, m.clock)
	m.append(t)
	m.logger.Debug("task added", "name", name, "index", len(m.tasks)-1)
	return t, nil
}

// DeleteTask removes the task at index i, keeping the order of the rest, and
// rewrites both files.
//
// An out-of-range index is a no-op.
func (m *Manager) DeleteTask(i int) error {
	if i < 0 || i >= len(m.tasks) {
		return nil
	}

	name := m.tasks[i].Name()
	m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
	m.reindex()
	m.logger.Debug("task deleted", "name", name, "index", i)

	return m.Flush()
}

// RenameTask relabels the task at index i and rewrites both files, since
// session records are keyed by name.
//
// Returns false if i is out of range.
func (m *Manager) RenameTask(i int, name string) (bool, error) {
	if i < 0 || i >= len(m.tasks) {
		return false, nil
	}
	name, err := validateName(name)
	if err != nil {
		return false, err
	}

	old := m.tasks[i].Name()
	m.tasks[i].Rename(name)
	m.reindex()
	m.logger.Debug("task renamed", "from", old, "to", name, "index", i)

	return true, m.Flush()
}

// Lookup returns the index of the earliest task named name.
func (m *Manager) Lookup(name string) (int, bool) {
	i, ok := m.index[name]
	return i, ok
}

// TaskAt returns the task at index i.
func (m *Manager) TaskAt(i int) (*task.Task, bool) {
	if i < 0 || i >= len(m.tasks) {
		return nil, false
	}
	return m.tasks[i], true
}

// Tasks returns the tasks in collection order. The slice is a copy; the
// tasks are shared.
func (m *Manager) Tasks() []*task.Task {
	out := make([]*task.Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// Count returns the number of tasks.
func (m *Manager) Count() int {
	return len(m.tasks)
}

// Full reports whether the task limit has been reached.
func (m *Manager) Full() bool {
	return m.config.MaxTasks > 0 && len(m.tasks) >= m.config.MaxTasks
}

// PauseAll pauses every running task and returns how many were paused.
func (m *Manager) PauseAll() int {
	paused := 0
	for _, t := range m.tasks {
		if s, ok := t.Pause(); ok {
			paused++
			m.logger.Debug("task paused", "name", t.Name(), "duration", s.Duration)
		}
	}
	return paused
}

// Drift returns every task whose stored total differs from the sum of its
// session log. The open interval of a running task is not counted on either
// side.
func (m *Manager) Drift() []Drift {
	var out []Drift
	for i, t := range m.tasks {
		stored, sum := t.StoredTotal(), t.SessionSum()
		if stored != sum {
			out = append(out, Drift{
				Index:      i,
				Name:       t.Name(),
				Stored:     stored,
				SessionSum: sum,
			})
		}
	}
	return out
}

func (m *Manager) append(t *task.Task) {
	m.tasks = append(m.tasks, t)
	if _, exists := m.index[t.Name()]; !exists {
		m.index[t.Name()] = len(m.tasks) - 1
	}
}

func (m *Manager) reset() {
	m.tasks = nil
	m.index = make(map[string]int)
}

// reindex rebuilds the name index so every name maps to its earliest task.
func (m *Manager) reindex() {
	m.index = make(map[string]int, len(m.tasks))
	for i, t := range m.tasks {
		if _, exists := m.index[t.Name()]; !exists {
			m.index[t.Name()] = i
		}
	}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if strings.ContainsAny(name, "\r\n") {
		return "", ErrInvalidName
	}
	return name, nil
}
