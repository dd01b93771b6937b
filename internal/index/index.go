// Package index builds and caches the lexical TF-IDF index over corpus chunks.
package index

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pattarin/rdrag/internal/corpus"
	"github.com/pattarin/rdrag/internal/tfidf"
	"go.uber.org/zap"
)

// Index is the derived retrieval artifact: a fitted vectorizer plus one matrix
// row per chunk, in chunk order. Row count must always equal the chunk count of
// the corpus it was built from.
type Index struct {
	Vectorizer *tfidf.Vectorizer
	Rows       []tfidf.Vector
}

// Len returns the number of matrix rows.
func (ix *Index) Len() int {
	return len(ix.Rows)
}

// Build fits a fresh index over the search text of all chunks.
func Build(chunks []corpus.Chunk) *Index {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.SearchText
	}
	v := tfidf.NewVectorizer(2, 4)
	return &Index{Vectorizer: v, Rows: v.Fit(texts)}
}

// Store loads and persists indices at a fixed path. The most recent index is
// kept in memory so repeated questions in one process do not re-read the file.
type Store struct {
	path   string
	logger *zap.Logger
	mem    *Index
}

// NewStore creates a store persisting to path.
func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// GetOrBuild returns a cached index when the persisted row count matches the
// chunk count, otherwise rebuilds from scratch and persists the result. The
// row-count check is the only validity test: a corpus edit that preserves the
// document count will silently serve a stale index (known gap, accepted).
// Persist failures are logged and swallowed; the fresh index is still returned.
func (s *Store) GetOrBuild(chunks []corpus.Chunk) (*Index, error) {
	if s.mem != nil && s.mem.Len() == len(chunks) {
		return s.mem, nil
	}

	if cached, err := load(s.path); err == nil {
		if cached.Len() == len(chunks) {
			s.mem = cached
			return cached, nil
		}
		s.logger.Info("persisted index is stale, rebuilding",
			zap.Int("cached_rows", cached.Len()),
			zap.Int("chunks", len(chunks)),
		)
	} else if !os.IsNotExist(err) {
		s.logger.Warn("persisted index unreadable, rebuilding", zap.Error(err))
	}

	ix := Build(chunks)
	s.mem = ix
	if err := save(s.path, ix); err != nil {
		s.logger.Warn("index persist failed", zap.String("path", s.path), zap.Error(err))
	} else {
		s.logger.Info("index built and persisted",
			zap.String("path", s.path),
			zap.Int("rows", ix.Len()),
			zap.Int("vocabulary", len(ix.Vectorizer.Vocab)),
		)
	}
	return ix, nil
}

// CachedRows returns the row count of the persisted index, or 0 when no usable
// index is on disk.
func (s *Store) CachedRows() int {
	ix, err := load(s.path)
	if err != nil {
		return 0
	}
	return ix.Len()
}

// Path returns the location of the persisted index file.
func (s *Store) Path() string {
	return s.path
}

func load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ix Index
	if err := gob.NewDecoder(f).Decode(&ix); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	if ix.Vectorizer == nil {
		return nil, fmt.Errorf("decode index: missing vectorizer state")
	}
	return &ix, nil
}

func save(path string, ix *Index) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create index dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(ix); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode index: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
