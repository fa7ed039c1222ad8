package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/samber/mo"
)

var (
	// ErrInvalidChunkSize はチャンクサイズが不正な場合のエラー
	ErrInvalidChunkSize = errors.New("chunk size must be a positive integer")

	// ErrInvalidChunkOverlap はオーバーラップがチャンクサイズ以上の場合のエラー
	ErrInvalidChunkOverlap = errors.New("chunk overlap must be non-negative and smaller than chunk size")

	// ErrInvalidThreshold は類似度閾値が範囲外の場合のエラー
	ErrInvalidThreshold = errors.New("similarity threshold must be in [0, 1]")

	// ErrEmptyEmbeddingModel はモデル名が空の場合のエラー
	ErrEmptyEmbeddingModel = errors.New("embedding model must not be empty")
)

// Snapshot は実行時設定の一貫したスナップショットを表す。
// 1回のクエリ処理は必ず単一のスナップショットだけを参照する。
type Snapshot struct {
	Version             uint64
	EmbeddingModel      string
	ChunkSize           int
	ChunkOverlap        int
	SimilarityThreshold float64
}

// Patch は実行時設定の部分更新を表す
type Patch struct {
	EmbeddingModel      mo.Option[string]
	ChunkSize           mo.Option[int]
	ChunkOverlap        mo.Option[int]
	SimilarityThreshold mo.Option[float64]
}

// Runtime は実行時に変更可能な設定をRWMutexの背後に保持する。
// 読み取りはスナップショット単位、書き込みは排他で直列化される。
type Runtime struct {
	mu      sync.RWMutex
	current Snapshot
}

// NewRuntime は初期値から Runtime を作成する
func NewRuntime(initial PipelineConfig) (*Runtime, error) {
	snap := Snapshot{
		Version:             1,
		EmbeddingModel:      initial.EmbeddingModel,
		ChunkSize:           initial.ChunkSize,
		ChunkOverlap:        initial.ChunkOverlap,
		SimilarityThreshold: initial.SimilarityThreshold,
	}
	if err := validate(snap); err != nil {
		return nil, fmt.Errorf("invalid initial pipeline config: %w", err)
	}
	return &Runtime{current: snap}, nil
}

// Snapshot は現在の設定の一貫したコピーを返す
func (r *Runtime) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Update はパッチを検証した上で適用し、適用後のスナップショットを返す。
// 検証に失敗した場合は現在の設定を変更しない。
func (r *Runtime) Update(patch Patch) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.current
	next.Version++

	if model, ok := patch.EmbeddingModel.Get(); ok {
		next.EmbeddingModel = model
	}
	if size, ok := patch.ChunkSize.Get(); ok {
		next.ChunkSize = size
	}
	if overlap, ok := patch.ChunkOverlap.Get(); ok {
		next.ChunkOverlap = overlap
	}
	if threshold, ok := patch.SimilarityThreshold.Get(); ok {
		next.SimilarityThreshold = threshold
	}

	if err := validate(next); err != nil {
		return r.current, err
	}

	r.current = next
	return next, nil
}

// validate はスナップショット全体の整合性を検証する
func validate(s Snapshot) error {
	if s.EmbeddingModel == "" {
		return ErrEmptyEmbeddingModel
	}
	if s.ChunkSize <= 0 {
		return ErrInvalidChunkSize
	}
	if s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		return ErrInvalidChunkOverlap
	}
	if s.SimilarityThreshold < 0 || s.SimilarityThreshold > 1 {
		return ErrInvalidThreshold
	}
	return nil
}
