// Package feedback persists a bounded log of question/answer interactions.
package feedback

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxEntries bounds the log; the oldest entries by insertion order are evicted
// when the bound is exceeded.
const MaxEntries = 50

// Status values for an interaction.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Entry is one recorded question/answer cycle.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Question  string    `json:"question"`
	Domain    string    `json:"domain"`
	TopDocs   []string  `json:"top_k_docs"`
	Refs      []string  `json:"refs"`
	Answer    string    `json:"answer"`
	Status    string    `json:"status"`
}

// Store appends interaction entries to a JSON file, newest last. A missing or
// corrupt file is treated as an empty log; the interaction record is not worth
// failing a question over. Single-writer only: the file is rewritten via a
// temp file and rename, with no cross-process locking.
type Store struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewStore creates a store persisting to path.
func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Append assigns the entry an ID if unset, appends it, truncates the log to
// the most recent MaxEntries, and rewrites the file.
func (s *Store) Append(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	entries := s.read()
	entries = append(entries, entry)
	if len(entries) > MaxEntries {
		entries = entries[len(entries)-MaxEntries:]
	}
	return s.write(entries)
}

// Entries returns the current log contents, oldest first. A missing or corrupt
// file yields an empty slice.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Path returns the log file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) read() []Entry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("feedback log unreadable, resetting", zap.String("path", s.path), zap.Error(err))
		}
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("feedback log corrupt, resetting", zap.String("path", s.path), zap.Error(err))
		return nil
	}
	return entries
}

func (s *Store) write(entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal feedback log: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create feedback dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write feedback log: %w", err)
	}
	return os.Rename(tmp, s.path)
}
