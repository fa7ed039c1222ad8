package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/samber/mo"

	"github.com/jinford/legal-rag/internal/platform/config"
)

// configResponse は実行時設定のJSON形式
type configResponse struct {
	Version             uint64  `json:"version"`
	EmbeddingModel      string  `json:"embeddingModel"`
	ChunkSize           int     `json:"chunkSize"`
	ChunkOverlap        int     `json:"chunkOverlap"`
	SimilarityThreshold float64 `json:"similarityThreshold"`
}

// updateConfigRequest は実行時設定の部分更新リクエスト。
// nilのフィールドは現在値を維持する。
type updateConfigRequest struct {
	EmbeddingModel      *string  `json:"embeddingModel"`
	ChunkSize           *int     `json:"chunkSize"`
	ChunkOverlap        *int     `json:"chunkOverlap"`
	SimilarityThreshold *float64 `json:"similarityThreshold"`
}

func toConfigResponse(snap config.Snapshot) configResponse {
	return configResponse{
		Version:             snap.Version,
		EmbeddingModel:      snap.EmbeddingModel,
		ChunkSize:           snap.ChunkSize,
		ChunkOverlap:        snap.ChunkOverlap,
		SimilarityThreshold: snap.SimilarityThreshold,
	}
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toConfigResponse(s.runtime.Snapshot()))
}

// handleUpdateConfig は実行時設定を検証付きで更新する。
// Embeddingモデルが変わった場合はEmbedderを差し替える。以降の操作は
// 新しいEmbedderを使い、進行中の操作は古いものを使い切る。
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req updateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	before := s.runtime.Snapshot()

	patch := config.Patch{
		EmbeddingModel:      optionFromPtr(req.EmbeddingModel),
		ChunkSize:           optionFromPtr(req.ChunkSize),
		ChunkOverlap:        optionFromPtr(req.ChunkOverlap),
		SimilarityThreshold: optionFromPtr(req.SimilarityThreshold),
	}

	snap, err := s.runtime.Update(patch)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if snap.EmbeddingModel != before.EmbeddingModel && s.newEmbedder != nil {
		s.embedder.Swap(s.newEmbedder(snap.EmbeddingModel))
		s.logger.Info("embedder swapped", "model", snap.EmbeddingModel)
	}

	writeJSON(w, http.StatusOK, toConfigResponse(snap))
}

// handleReindex は再インデックスをバックグラウンドで開始する
func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()
		if err := s.ingestion.ReindexAll(ctx); err != nil {
			s.logger.Error("reindex failed", "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "reindexing"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ingestion.Stats(r.Context())
	if err != nil {
		s.logger.Error("failed to collect stats", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to collect stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func optionFromPtr[T any](p *T) mo.Option[T] {
	if p == nil {
		return mo.None[T]()
	}
	return mo.Some(*p)
}
