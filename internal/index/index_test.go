package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pattarin/rdrag/internal/corpus"
	"go.uber.org/zap"
)

func testChunks(texts ...string) []corpus.Chunk {
	chunks := make([]corpus.Chunk, len(texts))
	for i, s := range texts {
		chunks[i] = corpus.Chunk{SearchText: s, Title: s}
	}
	return chunks
}

func TestBuild_rowCountMatchesChunks(t *testing.T) {
	chunks := testChunks("ภาษีมูลค่าเพิ่ม", "เงินได้บุคคลธรรมดา", "นิติบุคคล")
	ix := Build(chunks)
	if ix.Len() != len(chunks) {
		t.Fatalf("expected %d rows, got %d", len(chunks), ix.Len())
	}
}

func TestGetOrBuild_persistsAndReuses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "index.gob")
	store := NewStore(path, zap.NewNop())
	chunks := testChunks("หนึ่ง", "สอง")

	built, err := store.GetOrBuild(chunks)
	if err != nil {
		t.Fatal(err)
	}
	if built.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", built.Len())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("index file should exist (with directories created): %v", err)
	}

	// Same chunk count: a fresh store reuses the persisted index verbatim.
	reused, err := NewStore(path, zap.NewNop()).GetOrBuild(chunks)
	if err != nil {
		t.Fatal(err)
	}
	if reused.Len() != built.Len() {
		t.Fatalf("reused index row count %d != %d", reused.Len(), built.Len())
	}
	q := reused.Vectorizer.Transform("หนึ่ง")
	if q.Dot(reused.Rows[0]) <= q.Dot(reused.Rows[1]) {
		t.Error("reused index should still rank the matching chunk first")
	}
}

func TestGetOrBuild_rowCountMismatchRebuilds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.gob")
	store := NewStore(path, zap.NewNop())

	if _, err := store.GetOrBuild(testChunks("หนึ่ง", "สอง")); err != nil {
		t.Fatal(err)
	}
	grown, err := store.GetOrBuild(testChunks("หนึ่ง", "สอง", "สาม"))
	if err != nil {
		t.Fatal(err)
	}
	if grown.Len() != 3 {
		t.Fatalf("expected rebuild to 3 rows, got %d", grown.Len())
	}
	if store.CachedRows() != 3 {
		t.Fatalf("rebuilt index should be re-persisted, cached rows = %d", store.CachedRows())
	}
}

func TestGetOrBuild_corruptCacheRebuilds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.gob")
	if err := os.WriteFile(path, []byte("not a gob stream"), 0600); err != nil {
		t.Fatal(err)
	}
	store := NewStore(path, zap.NewNop())
	ix, err := store.GetOrBuild(testChunks("หนึ่ง"))
	if err != nil {
		t.Fatal(err)
	}
	if ix.Len() != 1 {
		t.Fatalf("expected rebuild over corrupt cache, got %d rows", ix.Len())
	}
}

func TestCachedRows_missingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.gob"), zap.NewNop())
	if got := store.CachedRows(); got != 0 {
		t.Errorf("expected 0 for missing cache, got %d", got)
	}
}
