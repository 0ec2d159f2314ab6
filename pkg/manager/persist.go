package manager

import (
	"fmt"
	"time"

	"github.com/0xmhha/focustime/pkg/store"
	"github.com/0xmhha/focustime/pkg/task"
)

// SaveTasks writes one record per task, in collection order, to path.
// Open intervals are not included in the written totals.
func (m *Manager) SaveTasks(path string) error {
	records := make([]store.TaskRecord, 0, len(m.tasks))
	for _, t := range m.tasks {
		records = append(records, store.TaskRecord{
			Name:  t.Name(),
			Total: t.StoredTotal(),
		})
	}

	if err := store.SaveTasks(path, records); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	m.logger.Debug("tasks saved", "path", path, "count", len(records))
	return nil
}

// LoadTasks replaces the collection with the tasks in path, in file order.
//
// Malformed records and records beyond the task limit are skipped and
// counted in the report. A missing file yields an empty collection.
func (m *Manager) LoadTasks(path string) (LoadReport, error) {
	var report LoadReport

	res, err := store.LoadTasks(path)
	if err != nil {
		return report, fmt.Errorf("failed to load tasks: %w", err)
	}

	m.reset()
	report.SkippedTasks = res.Skipped
	for _, rec := range res.Records {
		if m.Full() {
			report.OverCapacity++
			continue
		}
		m.append(task.Restore(rec.Name, rec.Total, m.clock))
	}
	report.Tasks = len(m.tasks)

	m.logger.Debug("tasks loaded", "path", path, "count", report.Tasks, "skipped", len(res.Skipped))
	return report, nil
}

// SaveSessions writes every task's session log, task by task, to path.
func (m *Manager) SaveSessions(path string) error {
	var records []store.SessionRecord
	for _, t := range m.tasks {
		for _, s := range t.Sessions() {
			records = append(records, store.SessionRecord{
				Name:     t.Name(),
				Start:    s.Start,
				End:      s.End,
				Duration: s.Duration,
			})
		}
	}

	if err := store.SaveSessions(path, records); err != nil {
		return fmt.Errorf("failed to save sessions: %w", err)
	}
	m.logger.Debug("sessions saved", "path", path, "count", len(records))
	return nil
}

// LoadSessions appends the sessions in path to the matching tasks.
//
// Each record goes to the earliest task with the same name. Records naming
// no task are dropped. Stored totals are left untouched.
func (m *Manager) LoadSessions(path string) (LoadReport, error) {
	var report LoadReport

	res, err := store.LoadSessions(path)
	if err != nil {
		return report, fmt.Errorf("failed to load sessions: %w", err)
	}

	report.SkippedSessions = res.Skipped
	for _, rec := range res.Records {
		i, ok := m.Lookup(rec.Name)
		if !ok {
			report.OrphanSessions++
			continue
		}
		m.tasks[i].AddSession(rec.Start, rec.End, rec.Duration)
		report.Sessions++
	}

	m.logger.Debug("sessions loaded", "path", path, "count", report.Sessions,
		"orphans", report.OrphanSessions, "skipped", len(res.Skipped))
	return report, nil
}

// Load reads both configured files and restores running timers from the
// state store.
func (m *Manager) Load() (LoadReport, error) {
	if m.config.TasksPath == "" || m.config.SessionsPath == "" {
		return LoadReport{}, ErrNoPath
	}

	report, err := m.LoadTasks(m.config.TasksPath)
	if err != nil {
		return report, err
	}

	sessions, err := m.LoadSessions(m.config.SessionsPath)
	if err != nil {
		return report, err
	}
	report.Sessions = sessions.Sessions
	report.SkippedSessions = sessions.SkippedSessions
	report.OrphanSessions = sessions.OrphanSessions

	if err := m.restoreTimers(&report); err != nil {
		return report, err
	}

	m.logReport(report)
	return report, nil
}

// Flush writes both configured files and the running timer state.
func (m *Manager) Flush() error {
	if m.config.TasksPath == "" || m.config.SessionsPath == "" {
		return ErrNoPath
	}

	if err := m.SaveTasks(m.config.TasksPath); err != nil {
		return err
	}
	if err := m.SaveSessions(m.config.SessionsPath); err != nil {
		return err
	}

	if m.config.State == nil {
		return nil
	}
	if err := m.config.State.Replace(m.running()); err != nil {
		return fmt.Errorf("failed to save timer state: %w", err)
	}
	return nil
}

func (m *Manager) restoreTimers(report *LoadReport) error {
	if m.config.State == nil {
		return nil
	}

	running, err := m.config.State.Running()
	if err != nil {
		return fmt.Errorf("failed to load timer state: %w", err)
	}

	for name, since := range running {
		i, ok := m.Lookup(name)
		if !ok {
			report.DroppedTimers++
			m.logger.Warn("dropping timer for unknown task", "name", name)
			continue
		}
		if m.tasks[i].Resume(since) {
			report.ResumedTimers++
		}
	}
	return nil
}

// running returns the start instant of every running task, keyed by name.
// With duplicate names only the earliest running task is recorded; the
// others are logged as dropped.
func (m *Manager) running() map[string]time.Time {
	out := make(map[string]time.Time)
	for i, t := range m.tasks {
		since, ok := t.RunningSince()
		if !ok {
			continue
		}
		if _, exists := out[t.Name()]; exists {
			m.logger.Warn("running timer not saved, another task with the same name is running",
				"task", t.Name(), "index", i, "since", since)
			continue
		}
		out[t.Name()] = since
	}
	return out
}

func (m *Manager) logReport(r LoadReport) {
	for _, e := range r.SkippedTasks {
		m.logger.Warn("skipped task record", "path", m.config.TasksPath, "line", e.Line, "error", e.Err)
	}
	for _, e := range r.SkippedSessions {
		m.logger.Warn("skipped session record", "path", m.config.SessionsPath, "line", e.Line, "error", e.Err)
	}
	if r.OverCapacity > 0 {
		m.logger.Warn("task records beyond capacity ignored", "count", r.OverCapacity, "max", m.config.MaxTasks)
	}
	if r.OrphanSessions > 0 {
		m.logger.Warn("sessions for unknown tasks dropped", "count", r.OrphanSessions)
	}
	m.logger.Info("state loaded", "tasks", r.Tasks, "sessions", r.Sessions, "running", r.ResumedTimers)
}
