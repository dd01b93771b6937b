package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrCorpusNotFound is returned by Load when the corpus file does not exist.
// Callers turn this into a user-facing "no data yet" answer rather than a crash.
var ErrCorpusNotFound = errors.New("corpus file not found")

// monthGroup is one element of the nested corpus shape: documents grouped by month.
type monthGroup struct {
	Documents []DocumentRecord `json:"documents"`
}

// Load reads the corpus file at path and returns one chunk per document record,
// in file order, without deduplication. Two JSON shapes are supported and
// detected structurally: a list of month groups ({month, documents}) and a flat
// list of records. Malformed JSON is a real error and propagates.
func Load(path string) ([]Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCorpusNotFound, path)
		}
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}
	if len(elements) == 0 {
		return nil, nil
	}

	if hasMonthKey(elements[0]) {
		return loadNested(elements)
	}
	return loadFlat(data)
}

// hasMonthKey reports whether the first corpus element carries a month-grouping key.
func hasMonthKey(first json.RawMessage) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(first, &probe); err != nil {
		return false
	}
	_, ok := probe["month"]
	return ok
}

func loadNested(elements []json.RawMessage) ([]Chunk, error) {
	var chunks []Chunk
	for i, raw := range elements {
		var group monthGroup
		if err := json.Unmarshal(raw, &group); err != nil {
			return nil, fmt.Errorf("parse corpus month group %d: %w", i, err)
		}
		for _, doc := range group.Documents {
			chunks = append(chunks, newChunk(doc))
		}
	}
	return chunks, nil
}

func loadFlat(data []byte) ([]Chunk, error) {
	var docs []DocumentRecord
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}
	chunks := make([]Chunk, 0, len(docs))
	for _, doc := range docs {
		chunks = append(chunks, newChunk(doc))
	}
	return chunks, nil
}

// newChunk derives the searchable text and citation body for one record.
// Structured ruling records concatenate subject, inquiry and ruling for search;
// generic records fall back to title plus content.
func newChunk(doc DocumentRecord) Chunk {
	title := doc.DisplayTitle()
	chunk := Chunk{
		Title:  title,
		Domain: tagDomain(doc),
		Source: doc,
	}
	if doc.Inquiry != "" || doc.Ruling != "" {
		chunk.SearchText = title + " " + doc.Inquiry + " " + doc.Ruling
		chunk.Content = "ข้อหารือ: " + doc.Inquiry + "\nแนววินิจฉัย: " + doc.Ruling
	} else {
		chunk.SearchText = title + " " + doc.Content
		chunk.Content = doc.Content
	}
	return chunk
}
