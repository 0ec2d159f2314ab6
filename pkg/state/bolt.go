package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/0xmhha/focustime/pkg/logger"
	bolt "go.etcd.io/bbolt"
)

var bucketRunning = []byte("running") // task name -> start instant

// boltStore implements Store using BoltDB.
type boltStore struct {
	db     *bolt.DB
	logger logger.Logger

	mu     sync.Mutex
	closed bool
}

// New opens (creating if needed) the state database.
//
// Parameters:
//   - cfg: Store configuration
//   - log: Logger instance
//
// Returns:
//   - Configured Store
//   - Error if the database cannot be opened
func New(cfg Config, log logger.Logger) (Store, error) {
	if cfg.DBPath == "" {
		return nil, ErrEmptyPath
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}

	dbPath := expandHome(cfg.DBPath)

	if cfg.ReadOnly {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			log.Debug("state database missing, nothing running", "db_path", dbPath)
			return NewMemoryStore(), nil
		}
		db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: cfg.Timeout, ReadOnly: true})
		if err != nil {
			return nil, fmt.Errorf("failed to open state database: %w", err)
		}
		return &boltStore{db: db, logger: log}, nil
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(bucketRunning)
		return createErr
	}); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close state database after initialization error",
				"error", closeErr)
		}
		return nil, fmt.Errorf("failed to create running bucket: %w", err)
	}

	log.Debug("state store opened", "db_path", dbPath)

	return &boltStore{db: db, logger: log}, nil
}

// Running implements Store.Running.
func (s *boltStore) Running() (map[string]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	running := make(map[string]time.Time)

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRunning)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var since time.Time
			if err := json.Unmarshal(v, &since); err != nil {
				s.logger.Warn("skipping unreadable timer marker",
					"task", string(k),
					"error", err)
				return nil
			}
			running[string(k)] = since
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read running timers: %w", err)
	}

	return running, nil
}

// Replace implements Store.Replace.
func (s *boltStore) Replace(running map[string]time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketRunning); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return fmt.Errorf("failed to clear running bucket: %w", err)
		}
		b, err := tx.CreateBucket(bucketRunning)
		if err != nil {
			return fmt.Errorf("failed to recreate running bucket: %w", err)
		}

		for name, since := range running {
			data, err := json.Marshal(since.UTC())
			if err != nil {
				return fmt.Errorf("failed to marshal start of %q: %w", name, err)
			}
			if err := b.Put([]byte(name), data); err != nil {
				return fmt.Errorf("failed to store start of %q: %w", name, err)
			}
		}

		return nil
	})
}

// Close implements Store.Close.
func (s *boltStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close state database: %w", err)
	}

	s.logger.Debug("state store closed")
	return nil
}

// memoryStore implements Store using an in-memory map.
type memoryStore struct {
	mu      sync.Mutex
	running map[string]time.Time
}

// NewMemoryStore creates an in-memory Store.
//
// Useful for testing or when timers need not survive the process.
func NewMemoryStore() Store {
	return &memoryStore{running: make(map[string]time.Time)}
}

// Running implements Store.Running.
func (s *memoryStore) Running() (map[string]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]time.Time, len(s.running))
	for k, v := range s.running {
		out[k] = v
	}
	return out, nil
}

// Replace implements Store.Replace.
func (s *memoryStore) Replace(running map[string]time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = make(map[string]time.Time, len(running))
	for k, v := range running {
		s.running[k] = v
	}
	return nil
}

// Close implements Store.Close.
func (s *memoryStore) Close() error {
	return nil
}

// expandHome expands a leading "~" or "~/" to the user's home directory.
// Other paths, including "~user", are returned unchanged.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
