package retrieval

import (
	"sort"

	"github.com/pattarin/rdrag/internal/corpus"
	"github.com/pattarin/rdrag/internal/index"
	"go.uber.org/zap"
)

// Hit is one scored retrieval result.
type Hit struct {
	Score float64
	Chunk corpus.Chunk
}

// Retriever scores a question against the lexical index and returns the top
// hits above the relevance floor.
type Retriever struct {
	store    *index.Store
	topK     int
	minScore float64
	logger   *zap.Logger
}

// NewRetriever creates a retriever. minScore is a hard relevance floor: hits
// below it are discarded entirely rather than padded in.
func NewRetriever(store *index.Store, topK int, minScore float64, logger *zap.Logger) *Retriever {
	return &Retriever{store: store, topK: topK, minScore: minScore, logger: logger}
}

// Retrieve returns up to topK hits for the question over chunks, ordered by
// descending score with ties kept in original chunk order. When domain is set,
// candidates are narrowed to chunks tagged with that domain; an empty narrowed
// set silently falls back to the full corpus so that a misclassified question
// still gets answered. The index is always built over the full chunk sequence
// so its row count stays tied to the corpus, not to the narrowed subset.
func (r *Retriever) Retrieve(question string, chunks []corpus.Chunk, domain corpus.DomainTag) ([]Hit, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	ix, err := r.store.GetOrBuild(chunks)
	if err != nil {
		return nil, err
	}

	candidates := candidateIndices(chunks, domain)
	if len(candidates) < len(chunks) {
		r.logger.Debug("domain narrowing applied",
			zap.String("domain", domain.Label()),
			zap.Int("candidates", len(candidates)),
			zap.Int("corpus", len(chunks)),
		)
	}

	q := ix.Vectorizer.Transform(question)
	hits := make([]Hit, 0, len(candidates))
	for _, i := range candidates {
		score := q.Dot(ix.Rows[i])
		if score < r.minScore {
			continue
		}
		hits = append(hits, Hit{Score: score, Chunk: chunks[i]})
	}

	// Candidates are visited in chunk order, so a stable sort preserves that
	// order among equal scores.
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })
	if len(hits) > r.topK {
		hits = hits[:r.topK]
	}
	return hits, nil
}

// candidateIndices returns the indices of chunks tagged with domain, or all
// indices when domain is unset or no chunk carries the tag.
func candidateIndices(chunks []corpus.Chunk, domain corpus.DomainTag) []int {
	all := make([]int, len(chunks))
	for i := range chunks {
		all[i] = i
	}
	if domain == corpus.DomainNone {
		return all
	}
	narrowed := make([]int, 0, len(chunks))
	for i, c := range chunks {
		if c.Domain == domain {
			narrowed = append(narrowed, i)
		}
	}
	if len(narrowed) == 0 {
		return all
	}
	return narrowed
}
