package retrieval

import (
	"context"
	"log/slog"
	"sort"
)

// DefaultTopK は件数未指定時のデフォルト値
const DefaultTopK = 5

// overfetchFactor はフィルタ・閾値による足切り分を見込んだ過剰取得係数
const overfetchFactor = 2

// Index はベクトルインデックスへの検索ポートです
type Index interface {
	// Query は近似最近傍検索を実行する。filtersはメタデータの等値条件。
	Query(ctx context.Context, vector []float32, topK int, filters map[string]string) ([]Candidate, error)
}

// Embedder はクエリテキストをベクトルに変換するポートです
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Service は関連チャンクの検索を実行する
type Service struct {
	index    Index
	embedder Embedder
	logger   *slog.Logger
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
func NewService(index Index, embedder Embedder, opts ...ServiceOption) *Service {
	svc := &Service{
		index:    index,
		embedder: embedder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Retrieve はクエリに関連するチャンクをスコア降順で最大topK件返す。
//
// 候補の生距離 d は score = 1/(1+d) で (0, 1] に正規化され、threshold 未満は
// 捨てられる。EmbedderまたはIndexの失敗は呼び出し元に伝播させず、空の結果を
// 返す（ユーザ向けQAエンドポイントとして可用性を優先する）。
// 空のクエリ文字列は許容され、そのままEmbedderに渡される。
func (s *Service) Retrieve(ctx context.Context, query string, filters map[string]string, topK int, threshold float64) []ScoredChunk {
	if topK <= 0 {
		topK = DefaultTopK
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Warn("failed to embed query, returning empty result", "error", err)
		return nil
	}

	candidates, err := s.index.Query(ctx, vector, topK*overfetchFactor, filters)
	if err != nil {
		s.logger.Warn("vector index query failed, returning empty result", "error", err)
		return nil
	}

	scored := make([]ScoredChunk, 0, len(candidates))
	for _, c := range candidates {
		score := 1.0 / (1.0 + c.Distance)
		if score < threshold {
			continue
		}
		scored = append(scored, ScoredChunk{Chunk: c.Chunk, Score: score})
	}

	// 同点はインデックスの返却順を維持する
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	return scored
}
