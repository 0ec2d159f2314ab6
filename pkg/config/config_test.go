package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func intPtr(n int) *int { return &n }

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
	if got := cfg.TaskLimit(); got != DefaultMaxTasks {
		t.Errorf("TaskLimit() = %d, want %d", got, DefaultMaxTasks)
	}
	if filepath.Base(cfg.TasksPath()) != "tasks.csv" {
		t.Errorf("TasksPath() = %s, want tasks.csv", cfg.TasksPath())
	}
	if filepath.Base(cfg.SessionsPath()) != "sessions.csv" {
		t.Errorf("SessionsPath() = %s, want sessions.csv", cfg.SessionsPath())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid default", mutate: func(*Config) {}},
		{name: "unlimited tasks", mutate: func(c *Config) { c.Limits.MaxTasks = intPtr(0) }},
		{name: "empty data dir", mutate: func(c *Config) { c.Storage.DataDir = "" }, wantErr: ErrEmptyDataDir},
		{name: "empty tasks file", mutate: func(c *Config) { c.Storage.TasksFile = "" }, wantErr: ErrEmptyFileName},
		{name: "same file twice", mutate: func(c *Config) { c.Storage.SessionsFile = "tasks.csv" }, wantErr: ErrDuplicateFileName},
		{name: "negative max tasks", mutate: func(c *Config) { c.Limits.MaxTasks = intPtr(-1) }, wantErr: ErrInvalidMaxTasks},
		{name: "bad format", mutate: func(c *Config) { c.Display.DefaultFormat = "xml" }, wantErr: ErrInvalidDisplayFormat},
		{name: "bad color", mutate: func(c *Config) { c.Display.Color = "rainbow" }, wantErr: ErrInvalidColorMode},
		{name: "zero refresh", mutate: func(c *Config) { c.Display.RefreshRate = 0 }, wantErr: ErrInvalidRefreshRate},
		{name: "zero debounce", mutate: func(c *Config) { c.Watch.DebounceInterval = 0 }, wantErr: ErrInvalidDebounceInterval},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantErr: ErrInvalidLogLevel},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPathsResolveAgainstDataDir(t *testing.T) {
	cfg := Default()
	cfg.Storage.DataDir = "/var/lib/focustime"
	cfg.Storage.StateFile = "/tmp/state.db"

	if got, want := cfg.TasksPath(), "/var/lib/focustime/tasks.csv"; got != want {
		t.Errorf("TasksPath() = %s, want %s", got, want)
	}
	if got, want := cfg.StatePath(), "/tmp/state.db"; got != want {
		t.Errorf("StatePath() = %s, want %s", got, want)
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

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `storage:
  data_dir: ` + tmpDir + `
  tasks_file: my-tasks.csv
limits:
  max_tasks: 0
display:
  default_format: json
  refresh_rate: 2s
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := NewLoaderWithEnvFile(configPath, "").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.DataDir != tmpDir {
		t.Errorf("DataDir = %s, want %s", cfg.Storage.DataDir, tmpDir)
	}
	if cfg.TasksPath() != filepath.Join(tmpDir, "my-tasks.csv") {
		t.Errorf("TasksPath() = %s", cfg.TasksPath())
	}
	if cfg.Storage.SessionsFile != "sessions.csv" {
		t.Errorf("SessionsFile = %s, want default", cfg.Storage.SessionsFile)
	}
	if cfg.TaskLimit() != 0 {
		t.Errorf("TaskLimit() = %d, want 0 (unlimited)", cfg.TaskLimit())
	}
	if cfg.Display.DefaultFormat != "json" {
		t.Errorf("DefaultFormat = %s, want json", cfg.Display.DefaultFormat)
	}
	if cfg.Display.RefreshRate != 2*time.Second {
		t.Errorf("RefreshRate = %v, want 2s", cfg.Display.RefreshRate)
	}
	if cfg.Display.Color != "auto" {
		t.Errorf("Color = %s, want default auto", cfg.Display.Color)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %s, want debug", cfg.Logging.Level)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := NewLoaderWithEnvFile(filepath.Join(t.TempDir(), "nope.yaml"), "").Load()
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Load() error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("storage: [unclosed"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := NewLoaderWithEnvFile(path, "").Load()
	if !errors.Is(err, ErrInvalidYAML) {
		t.Errorf("Load() error = %v, want ErrInvalidYAML", err)
	}
}

func TestEnvVarOverrides(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvDataDir, dataDir)
	t.Setenv(EnvMaxTasks, "25")
	t.Setenv(EnvLogLevel, "ERROR")
	t.Setenv(EnvFormat, "simple")

	cfg, err := NewLoaderWithEnvFile("", "").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.DataDir != dataDir {
		t.Errorf("DataDir = %s, want %s", cfg.Storage.DataDir, dataDir)
	}
	if cfg.TaskLimit() != 25 {
		t.Errorf("TaskLimit() = %d, want 25", cfg.TaskLimit())
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Level = %s, want error", cfg.Logging.Level)
	}
	if cfg.Display.DefaultFormat != "simple" {
		t.Errorf("DefaultFormat = %s, want simple", cfg.Display.DefaultFormat)
	}
}

func TestEnvVarInvalidMaxTasks(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvMaxTasks, "lots")

	_, err := NewLoaderWithEnvFile("", "").Load()
	if !errors.Is(err, ErrInvalidEnvValue) {
		t.Errorf("Load() error = %v, want ErrInvalidEnvValue", err)
	}
}

func TestDotEnvFile(t *testing.T) {
	dataDir := t.TempDir()
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte(EnvDataDir+"="+dataDir+"\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	t.Setenv(EnvConfig, "")
	// Registering with t.Setenv restores the variable after the test even
	// though godotenv sets it through os.Setenv.
	t.Setenv(EnvDataDir, "")
	if err := os.Unsetenv(EnvDataDir); err != nil {
		t.Fatalf("Unsetenv() error = %v", err)
	}

	cfg, err := NewLoaderWithEnvFile("", envFile).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.DataDir != dataDir {
		t.Errorf("DataDir = %s, want %s from .env", cfg.Storage.DataDir, dataDir)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := Default()
	cfg.Limits.MaxTasks = intPtr(3)
	cfg.Display.DefaultFormat = "simple"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := NewLoaderWithEnvFile(path, "").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.TaskLimit() != 3 {
		t.Errorf("TaskLimit() = %d, want 3", loaded.TaskLimit())
	}
	if loaded.Display.DefaultFormat != "simple" {
		t.Errorf("DefaultFormat = %s, want simple", loaded.Display.DefaultFormat)
	}
}

func TestSaveInvalid(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "nope"

	if err := Save(cfg, filepath.Join(t.TempDir(), "c.yaml")); err == nil {
		t.Error("Save() error = nil, want validation error")
	}
}

func TestLoaderSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(Default(), path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	l := NewLoaderWithEnvFile(path, "")
	if _, err := l.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if l.Source() != path {
		t.Errorf("Source() = %s, want %s", l.Source(), path)
	}
}
