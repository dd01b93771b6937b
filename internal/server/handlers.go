package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pattarin/rdrag/internal/feedback"
	"github.com/pattarin/rdrag/pkg/utils"
	"go.uber.org/zap"
)

// askRequest is the body of POST /api/v1/ask.
type askRequest struct {
	Question string `json:"question"`
}

// askResponse is the reply: the answer text and the unique references it was
// grounded on. Refs is empty (not null) when nothing was cited.
type askResponse struct {
	Answer string   `json:"answer"`
	Refs   []string `json:"refs"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		s.respondError(w, http.StatusBadRequest, "question is required")
		return
	}
	s.logger.Debug("ask request", zap.String("question", utils.Truncate(question, 120)))

	answer, refs, err := s.pipeline.Answer(r.Context(), question)
	if err != nil {
		s.logger.Error("answer failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if refs == nil {
		refs = []string{}
	}
	s.respondJSON(w, http.StatusOK, askResponse{Answer: answer, Refs: refs})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	entries := s.feedback.Entries()
	if entries == nil {
		entries = []feedback.Entry{}
	}
	s.respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.pipeline.Stats(s.indexes.CachedRows())
	if err != nil {
		s.logger.Error("status: corpus load failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"documents":  stats.Documents,
		"index_rows": stats.IndexRows,
		"config": map[string]interface{}{
			"corpus_path":   s.config.Storage.CorpusPath,
			"index_path":    s.config.Storage.IndexPath,
			"feedback_path": s.config.Storage.FeedbackPath,
			"model":         s.config.Backend.Model,
			"top_k":         s.config.Retrieval.TopK,
			"min_score":     s.config.Retrieval.MinScoreOrDefault(),
		},
	}
	if diskBytes, err := utils.FileSizeBytes(
		s.config.Storage.CorpusPath,
		s.config.Storage.IndexPath,
		s.config.Storage.FeedbackPath,
	); err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
