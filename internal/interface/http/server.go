// Package http は質問応答サービスのREST APIを提供する
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jinford/legal-rag/internal/core/embedding"
	"github.com/jinford/legal-rag/internal/core/history"
	"github.com/jinford/legal-rag/internal/core/ingestion"
	"github.com/jinford/legal-rag/internal/core/qa"
	"github.com/jinford/legal-rag/internal/platform/config"
)

const shutdownTimeout = 10 * time.Second

// EmbedderFactory はモデル名からEmbedderを生成する。
// 実行時設定でEmbeddingモデルが変更された際のホットスワップに使う。
type EmbedderFactory func(model string) embedding.Embedder

// Server はREST APIサーバー
type Server struct {
	qa          *qa.Service
	history     *history.Service
	ingestion   *ingestion.Service
	runtime     *config.Runtime
	embedder    *embedding.Handle
	newEmbedder EmbedderFactory
	uploadDir   string
	logger      *slog.Logger
	srv         *http.Server
}

// ServerOption は Server のオプション設定
type ServerOption func(*Server)

// WithLogger は Server にロガーを設定する
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer は新しい Server を作成する
func NewServer(
	addr string,
	qaService *qa.Service,
	historyService *history.Service,
	ingestionService *ingestion.Service,
	runtime *config.Runtime,
	embedder *embedding.Handle,
	newEmbedder EmbedderFactory,
	uploadDir string,
	opts ...ServerOption,
) *Server {
	s := &Server{
		qa:          qaService,
		history:     historyService,
		ingestion:   ingestionService,
		runtime:     runtime,
		embedder:    embedder,
		newEmbedder: newEmbedder,
		uploadDir:   uploadDir,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	handler := recoverMiddleware(s.logger, loggingMiddleware(s.logger, s.routes()))
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/query", s.handleQuery)
	mux.HandleFunc("GET /api/history", s.handleHistory)

	mux.HandleFunc("POST /api/documents/upload", s.handleUpload)
	mux.HandleFunc("GET /api/documents", s.handleListDocuments)
	mux.HandleFunc("GET /api/documents/{id}", s.handleGetDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", s.handleDeleteDocument)

	mux.HandleFunc("GET /api/admin/config", s.handleGetConfig)
	mux.HandleFunc("POST /api/admin/config", s.handleUpdateConfig)
	mux.HandleFunc("POST /api/admin/reindex", s.handleReindex)
	mux.HandleFunc("GET /api/admin/stats", s.handleStats)

	return mux
}

// Run はサーバーを起動し、ctxのキャンセルでGraceful Shutdownする
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down server")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
