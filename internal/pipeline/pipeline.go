// Package pipeline orchestrates one question/answer cycle: corpus load,
// retrieval, prompt construction, backend call, answer cleanup, and
// interaction logging.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pattarin/rdrag/internal/answer"
	"github.com/pattarin/rdrag/internal/corpus"
	"github.com/pattarin/rdrag/internal/feedback"
	"github.com/pattarin/rdrag/internal/prompt"
	"github.com/pattarin/rdrag/internal/retrieval"
	"go.uber.org/zap"
)

// Fixed user-facing answers for the recoverable failure modes. These are
// returned as ordinary answer strings with empty references, never as errors.
const (
	MsgNoData        = "ยังไม่มีข้อมูลเอกสารในระบบ กรุณารันกระบวนการรวบรวมเอกสารก่อน"
	MsgNoMatch       = "ไม่พบเอกสารที่เกี่ยวข้องกับคำถามนี้"
	MsgBackendFailed = "ขออภัย ระบบไม่สามารถประมวลผลคำตอบได้ในขณะนี้"
)

// Generator produces raw text from a prompt. *backend.Client implements it;
// tests substitute stubs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Pipeline answers questions over the ruling corpus. One question is processed
// start to finish before the next begins; a mutex serializes callers.
type Pipeline struct {
	corpusPath string
	retriever  *retrieval.Retriever
	prompts    *prompt.Builder
	generator  Generator
	feedback   *feedback.Store
	logger     *zap.Logger

	mu     sync.Mutex
	chunks []corpus.Chunk
	loaded bool
}

// New creates a pipeline. corpusPath is the JSON corpus produced by the
// document collection stages.
func New(
	corpusPath string,
	retriever *retrieval.Retriever,
	prompts *prompt.Builder,
	generator Generator,
	store *feedback.Store,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		corpusPath: corpusPath,
		retriever:  retriever,
		prompts:    prompts,
		generator:  generator,
		feedback:   store,
		logger:     logger,
	}
}

// Answer runs the full cycle for one question and returns the answer text and
// the unique references it was grounded on. Missing corpus, no matching
// documents, and backend failures are returned as fixed answer strings with
// empty references; only corpus-structure errors propagate.
func (p *Pipeline) Answer(ctx context.Context, question string) (string, []string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()

	chunks, err := p.loadChunks()
	if err != nil {
		if errors.Is(err, corpus.ErrCorpusNotFound) {
			p.logger.Warn("corpus not found", zap.String("path", p.corpusPath))
			return MsgNoData, nil, nil
		}
		return "", nil, err
	}

	domain := retrieval.Classify(question)
	hits, err := p.retriever.Retrieve(question, chunks, domain)
	if err != nil {
		return "", nil, err
	}
	if len(hits) == 0 {
		p.logger.Info("no relevant documents",
			zap.String("question", question),
			zap.String("domain", domain.Label()),
		)
		p.record(start, question, domain, nil, nil, MsgNoMatch, feedback.StatusSuccess)
		return MsgNoMatch, nil, nil
	}

	refs := uniqueRefs(hits)
	text := p.prompts.Build(hits, question)

	status := feedback.StatusSuccess
	final := ""
	raw, err := p.generator.Generate(ctx, text)
	if err != nil {
		p.logger.Error("backend call failed", zap.Error(err))
		final = MsgBackendFailed
		status = feedback.StatusError
	} else if final = answer.Clean(raw); final == "" {
		p.logger.Warn("backend returned empty answer")
		final = MsgBackendFailed
		status = feedback.StatusError
	}

	p.logger.Info("question answered",
		zap.String("domain", domain.Label()),
		zap.Int("hits", len(hits)),
		zap.Float64("top_score", hits[0].Score),
		zap.String("status", status),
		zap.Duration("elapsed", time.Since(start)),
	)
	p.record(start, question, domain, hits, refs, final, status)
	return final, refs, nil
}

// Invalidate drops the cached chunk sequence so the next question reloads the
// corpus from disk. Called by the corpus watcher on file change.
func (p *Pipeline) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chunks = nil
	p.loaded = false
}

// Stats describes the current corpus and index state.
type Stats struct {
	Documents int
	IndexRows int
}

// Stats loads the corpus (if present) and reports document and persisted index
// row counts. A missing corpus reports zero documents without error.
func (p *Pipeline) Stats(cachedRows int) (Stats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	chunks, err := p.loadChunks()
	if err != nil {
		if errors.Is(err, corpus.ErrCorpusNotFound) {
			return Stats{IndexRows: cachedRows}, nil
		}
		return Stats{}, err
	}
	return Stats{Documents: len(chunks), IndexRows: cachedRows}, nil
}

func (p *Pipeline) loadChunks() ([]corpus.Chunk, error) {
	if p.loaded {
		return p.chunks, nil
	}
	chunks, err := corpus.Load(p.corpusPath)
	if err != nil {
		return nil, err
	}
	p.chunks = chunks
	p.loaded = true
	p.logger.Info("corpus loaded", zap.String("path", p.corpusPath), zap.Int("documents", len(chunks)))
	return chunks, nil
}

// record appends the interaction to the feedback store. Append failures are
// logged, never surfaced: the user already has an answer.
func (p *Pipeline) record(start time.Time, question string, domain corpus.DomainTag, hits []retrieval.Hit, refs []string, answerText, status string) {
	topDocs := make([]string, len(hits))
	for i, h := range hits {
		topDocs[i] = fmt.Sprintf("[Score: %.2f] %s", h.Score, h.Chunk.Ref())
	}
	if refs == nil {
		refs = []string{}
	}
	entry := feedback.Entry{
		Timestamp: start,
		Question:  question,
		Domain:    domain.Label(),
		TopDocs:   topDocs,
		Refs:      refs,
		Answer:    answerText,
		Status:    status,
	}
	if err := p.feedback.Append(entry); err != nil {
		p.logger.Warn("feedback append failed", zap.Error(err))
	}
}

// uniqueRefs returns each hit's reference once, in first-seen rank order.
func uniqueRefs(hits []retrieval.Hit) []string {
	seen := make(map[string]bool, len(hits))
	refs := make([]string, 0, len(hits))
	for _, h := range hits {
		ref := h.Chunk.Ref()
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}
