// Package qa は検索・コンテキスト組み立て・回答生成を束ねる
// 質問応答のオーケストレーションを提供する。
package qa

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinford/legal-rag/internal/core/answer"
	"github.com/jinford/legal-rag/internal/core/contextbuild"
	"github.com/jinford/legal-rag/internal/core/history"
	"github.com/jinford/legal-rag/internal/core/retrieval"
	"github.com/jinford/legal-rag/internal/platform/config"
)

// citationPreviewChars は出典テキストのプレビュー文字数
const citationPreviewChars = 200

// Service は質問応答パイプラインを実行する
type Service struct {
	retriever *retrieval.Service
	answerer  *answer.Service
	history   *history.Service
	runtime   *config.Runtime
	logger    *slog.Logger
}

// ServiceOption は Service のオプション設定
type ServiceOption func(*Service)

// WithLogger は Service にロガーを設定する
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService は新しい Service を作成する
func NewService(
	retriever *retrieval.Service,
	answerer *answer.Service,
	historyService *history.Service,
	runtime *config.Runtime,
	opts ...ServiceOption,
) *Service {
	svc := &Service{
		retriever: retriever,
		answerer:  answerer,
		history:   historyService,
		runtime:   runtime,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Query は質問に対してRAGベースで引用付き回答を生成する。
//
// 検索・生成の失敗はそれぞれの層で吸収され、このメソッドがエラーを
// 返すのはリクエスト自体が不正な場合のみ。履歴の永続化エラーは
// ログに残して握りつぶす。
func (s *Service) Query(ctx context.Context, params QueryParams) (*QueryResult, error) {
	if params.Query == "" {
		return nil, fmt.Errorf("query is required")
	}

	chunkCount := params.ChunkCount
	if chunkCount <= 0 {
		chunkCount = DefaultChunkCount
	}

	// 実効閾値は常にサーバ側の実行時設定から取る。1回のクエリは
	// 単一のスナップショットだけを参照する。
	snap := s.runtime.Snapshot()
	threshold := snap.SimilarityThreshold
	if params.SimilarityThreshold != 0 && params.SimilarityThreshold != threshold {
		s.logger.Info("request threshold overridden by runtime config",
			"requested", params.SimilarityThreshold,
			"effective", threshold,
		)
	}

	chunks := s.retriever.Retrieve(ctx, params.Query, params.Filters, chunkCount, threshold)

	if len(chunks) == 0 {
		result := &QueryResult{
			Query:           params.Query,
			Response:        NoRelevantInformationResponse,
			Citations:       []Citation{},
			ConfidenceScore: 0,
		}
		s.appendHistory(ctx, params.Query, result.Response)
		return result, nil
	}

	if params.AuthorityOrder {
		chunks = contextbuild.PrioritizeByAuthority(chunks)
	}

	assembled := contextbuild.Assemble(chunks)

	ans := s.answerer.Generate(ctx, params.Query, assembled)

	citations := make([]Citation, 0, len(chunks))
	for _, chunk := range chunks {
		citations = append(citations, Citation{
			DocumentID:     chunk.DocumentID,
			DocumentTitle:  chunk.DocumentTitle,
			ChunkID:        chunk.ChunkID,
			Text:           previewText(chunk.Text),
			RelevanceScore: chunk.Score,
		})
	}

	s.appendHistory(ctx, params.Query, ans.Text)

	s.logger.Info("query completed",
		"chunks", len(chunks),
		"citations", len(ans.Citations),
		"confidence", ans.Confidence,
	)

	return &QueryResult{
		Query:           params.Query,
		Response:        ans.Text,
		Citations:       citations,
		ConfidenceScore: ans.Confidence,
	}, nil
}

// appendHistory は履歴を追記する。失敗してもリクエストは失敗させない。
func (s *Service) appendHistory(ctx context.Context, query, response string) {
	if s.history == nil {
		return
	}
	if err := s.history.Append(ctx, query, response); err != nil {
		s.logger.Warn("failed to persist history entry", "error", err)
	}
}

// previewText は出典表示用にテキストを切り詰める
func previewText(text string) string {
	runes := []rune(text)
	if len(runes) <= citationPreviewChars {
		return text
	}
	return string(runes[:citationPreviewChars]) + "..."
}
