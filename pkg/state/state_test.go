package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/0xmhha/focustime/pkg/logger"
)

func TestNew(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "state.db")

	st, err := New(Config{DBPath: dbPath}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if closeErr := st.Close(); closeErr != nil {
		t.Errorf("Close() error = %v", closeErr)
	}

	if _, statErr := os.Stat(dbPath); statErr != nil {
		t.Errorf("database file not created: %v", statErr)
	}
}

func TestNewEmptyPath(t *testing.T) {
	if _, err := New(Config{}, logger.Noop()); err != ErrEmptyPath {
		t.Errorf("New() error = %v, want ErrEmptyPath", err)
	}
}

func TestReplaceAndRunning(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"bolt":   setupBoltStore,
		"memory": func(*testing.T) Store { return NewMemoryStore() },
	}

	for name, setup := range stores {
		t.Run(name, func(t *testing.T) {
			st := setup(t)

			running, err := st.Running()
			if err != nil {
				t.Fatalf("Running() error = %v", err)
			}
			if len(running) != 0 {
				t.Errorf("Running() = %v, want empty", running)
			}

			since := time.Unix(1_700_000_000, 0)
			if err := st.Replace(map[string]time.Time{"Writing": since, "Reading": since.Add(time.Minute)}); err != nil {
				t.Fatalf("Replace() error = %v", err)
			}

			if err := st.Replace(map[string]time.Time{"Writing": since}); err != nil {
				t.Fatalf("Replace() error = %v", err)
			}

			running, err = st.Running()
			if err != nil {
				t.Fatalf("Running() error = %v", err)
			}
			if len(running) != 1 {
				t.Fatalf("Running() = %v, want only Writing", running)
			}
			if !running["Writing"].Equal(since) {
				t.Errorf("Running()[Writing] = %v, want %v", running["Writing"], since)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		path string
		want string
	}{
		{path: "~", want: home},
		{path: "~/data/state.db", want: filepath.Join(home, "data", "state.db")},
		{path: "~x/state.db", want: "~x/state.db"},
		{path: "~user", want: "~user"},
		{path: "/abs/~/state.db", want: "/abs/~/state.db"},
		{path: "rel/state.db", want: "rel/state.db"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := expandHome(tt.path); got != tt.want {
				t.Errorf("expandHome(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")
	since := time.Unix(1_700_000_123, 0)

	st1, err := New(Config{DBPath: dbPath}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := st1.Replace(map[string]time.Time{"Coding": since}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if err := st1.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	st2, err := New(Config{DBPath: dbPath}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		if closeErr := st2.Close(); closeErr != nil {
			t.Errorf("Close() error = %v", closeErr)
		}
	}()

	running, err := st2.Running()
	if err != nil {
		t.Fatalf("Running() error = %v", err)
	}
	if !running["Coding"].Equal(since) {
		t.Errorf("Running()[Coding] = %v, want %v", running["Coding"], since)
	}
}

func TestClosedStore(t *testing.T) {
	st, err := New(Config{DBPath: filepath.Join(t.TempDir(), "state.db")}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := st.Running(); err != ErrStoreClosed {
		t.Errorf("Running() error = %v, want ErrStoreClosed", err)
	}
	if err := st.Replace(nil); err != ErrStoreClosed {
		t.Errorf("Replace() error = %v, want ErrStoreClosed", err)
	}
	if err := st.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	st := NewMemoryStore()
	in := map[string]time.Time{"A": time.Unix(1, 0)}

	if err := st.Replace(in); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	in["B"] = time.Unix(2, 0)

	out, _ := st.Running()
	out["C"] = time.Unix(3, 0)

	again, _ := st.Running()
	if len(again) != 1 {
		t.Errorf("Running() = %v, want only A", again)
	}
}

// setupBoltStore creates a test store with a temp database.
func setupBoltStore(t *testing.T) Store {
	t.Helper()

	st, err := New(Config{DBPath: filepath.Join(t.TempDir(), "state.db")}, logger.Noop())
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}

	t.Cleanup(func() {
		if closeErr := st.Close(); closeErr != nil {
			t.Errorf("Cleanup Close() error = %v", closeErr)
		}
	})

	return st
}

func TestReadOnlyMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")

	st, err := New(Config{DBPath: path, ReadOnly: true}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer st.Close() //nolint:errcheck // test cleanup

	running, err := st.Running()
	if err != nil {
		t.Fatalf("Running() error = %v", err)
	}
	if len(running) != 0 {
		t.Errorf("Running() = %v, want empty", running)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("read-only open created %s", path)
	}
}

func TestReadOnlyDoesNotModify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	since := time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC)

	rw, err := New(Config{DBPath: path}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := rw.Replace(map[string]time.Time{"Writing": since}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if err := rw.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}

	ro, err := New(Config{DBPath: path, ReadOnly: true}, logger.Noop())
	if err != nil {
		t.Fatalf("New(ReadOnly) error = %v", err)
	}
	running, err := ro.Running()
	if err != nil {
		t.Fatalf("Running() error = %v", err)
	}
	if !running["Writing"].Equal(since) {
		t.Errorf("Running()[Writing] = %v, want %v", running["Writing"], since)
	}
	if err := ro.Replace(nil); err == nil {
		t.Error("Replace() on read-only store error = nil, want error")
	}
	if err := ro.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Error("read-only open modified the database file")
	}
}
