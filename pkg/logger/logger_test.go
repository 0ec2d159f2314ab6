package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWithWriterLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{name: "debug", level: "debug", wantDebug: true, wantInfo: true, wantWarn: true},
		{name: "info", level: "info", wantInfo: true, wantWarn: true},
		{name: "warn", level: "warn", wantWarn: true},
		{name: "error", level: "error"},
		{name: "unknown defaults to info", level: "loud", wantInfo: true, wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(Config{Level: tt.level}, &buf)

			log.Debug("debug message")
			log.Info("info message")
			log.Warn("warn message")

			out := buf.String()
			if got := strings.Contains(out, "debug message"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "info message"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
			if got := strings.Contains(out, "warn message"); got != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "info", Format: "json"}, &buf)

	log.Info("task stopped", "task", "Writing", "seconds", 120)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "task stopped" {
		t.Errorf("msg = %v, want task stopped", entry["msg"])
	}
	if entry["task"] != "Writing" {
		t.Errorf("task = %v, want Writing", entry["task"])
	}
	if entry["seconds"] != float64(120) {
		t.Errorf("seconds = %v, want 120", entry["seconds"])
	}
}

func TestWithAndComponent(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(Config{Level: "info"}, &buf)

	Component(base, "manager").With("task", "Reading").Info("loaded")

	out := buf.String()
	for _, want := range []string{"component=manager", "task=Reading", "msg=loaded"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestComponentNilLogger(t *testing.T) {
	log := Component(nil, "watcher")
	if log == nil {
		t.Fatal("Component(nil) returned nil")
	}
	log.Info("discarded")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		" warn ":  slog.LevelWarn,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestOpenOutput(t *testing.T) {
	tests := []struct {
		output string
		want   interface{}
	}{
		{output: "stdout", want: os.Stdout},
		{output: "stderr", want: os.Stderr},
		{output: "STDERR", want: os.Stderr},
		{output: "", want: os.Stderr},
		{output: "discard", want: io.Discard},
	}

	for _, tt := range tests {
		got, err := openOutput(tt.output)
		if err != nil {
			t.Errorf("openOutput(%q) error = %v", tt.output, err)
			continue
		}
		if got != tt.want {
			t.Errorf("openOutput(%q) returned unexpected writer", tt.output)
		}
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "focustime.log")

	log := New(Config{Level: "info", Output: path})
	log.Info("written to file", "task", "Writing")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file = %q, want message", data)
	}
}

func TestUnwritableOutputFallsBack(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	bad := filepath.Join(blocker, "x.log")

	if _, err := openOutput(bad); err == nil {
		t.Error("openOutput() under a regular file returned nil error")
	}
	if log := New(Config{Output: bad}); log == nil {
		t.Fatal("New() returned nil")
	}
}

func TestNoopAndDefault(t *testing.T) {
	if Noop() == nil {
		t.Error("Noop() returned nil")
	}
	if Default() == nil {
		t.Error("Default() returned nil")
	}
	Noop().Error("dropped", "key", "value")
}
