package store

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MaxFileSize is the largest task or session file that will be read (64MB).
const MaxFileSize = 64 * 1024 * 1024

// LoadTasks reads the task file at path.
//
// A missing file yields an empty result.
func LoadTasks(path string) (Result[TaskRecord], error) {
	f, err := openForRead(path)
	if err != nil || f == nil {
		return Result[TaskRecord]{}, err
	}
	defer f.Close() //nolint:errcheck // read-only

	return ReadTasks(f)
}

// LoadSessions reads the session file at path.
//
// A missing file yields an empty result.
func LoadSessions(path string) (Result[SessionRecord], error) {
	f, err := openForRead(path)
	if err != nil || f == nil {
		return Result[SessionRecord]{}, err
	}
	defer f.Close() //nolint:errcheck // read-only

	return ReadSessions(f)
}

// SaveTasks replaces the task file at path with records.
func SaveTasks(path string, records []TaskRecord) error {
	var buf bytes.Buffer
	if err := WriteTasks(&buf, records); err != nil {
		return err
	}
	return writeAtomic(path, &buf)
}

// SaveSessions replaces the session file at path with records.
func SaveSessions(path string, records []SessionRecord) error {
	var buf bytes.Buffer
	if err := WriteSessions(&buf, records); err != nil {
		return err
	}
	return writeAtomic(path, &buf)
}

// openForRead opens path, returning a nil file and nil error when it does not
// exist.
func openForRead(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %s size=%d, max=%d", ErrFileTooLarge, path, info.Size(), MaxFileSize)
	}

	// #nosec G304: path comes from trusted config
	f, err := os.Open(path) // nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

// writeAtomic writes r to a temporary file next to path and renames it into
// place, so readers never observe a partially written file.
func writeAtomic(path string, r io.Reader) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpName) //nolint:errcheck // best effort cleanup
	}

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close() //nolint:errcheck // already failing
		cleanup()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // already failing
		cleanup()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		cleanup()
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
