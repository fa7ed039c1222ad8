package http

import (
	"encoding/json"
	"net/http"

	"github.com/jinford/legal-rag/internal/core/history"
	"github.com/jinford/legal-rag/internal/core/qa"
)

// queryRequest は質問リクエストのJSON形式
type queryRequest struct {
	Query               string            `json:"query"`
	Filters             map[string]string `json:"filters,omitempty"`
	ChunkCount          int               `json:"chunkCount,omitempty"`
	SimilarityThreshold float64           `json:"similarityThreshold,omitempty"`
	AuthorityOrder      bool              `json:"authorityOrder,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	result, err := s.qa.Query(r.Context(), qa.QueryParams{
		Query:               req.Query,
		Filters:             req.Filters,
		ChunkCount:          req.ChunkCount,
		SimilarityThreshold: req.SimilarityThreshold,
		AuthorityOrder:      req.AuthorityOrder,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	items, err := s.history.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list history", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	if items == nil {
		items = []history.Item{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"history": items})
}
