package embedding

import (
	"context"
	"sync"
)

// Embedder はテキストをベクトル表現に変換するポートです
type Embedder interface {
	// Embed は単一テキストのEmbeddingを生成する
	Embed(ctx context.Context, text string) ([]float32, error)

	// BatchEmbed はバッチでEmbeddingを生成する
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName はモデル名を返す
	ModelName() string
}

// Handle は差し替え可能なEmbedderをRWMutexの背後に保持する。
// モデルのホットスワップはSwap経由でのみ行い、他コンポーネントが
// Embedderの内部状態を直接書き換えることはない。
type Handle struct {
	mu       sync.RWMutex
	embedder Embedder
}

// NewHandle は新しい Handle を作成する
func NewHandle(embedder Embedder) *Handle {
	return &Handle{embedder: embedder}
}

// Get は現在のEmbedderを返す
func (h *Handle) Get() Embedder {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.embedder
}

// Swap はEmbedderを入れ替える。進行中のEmbed呼び出しとは
// ロックで直列化されるため、新旧モデルが混在して観測されることはない。
func (h *Handle) Swap(embedder Embedder) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.embedder = embedder
}

// Embed は現在のEmbedderに委譲する
func (h *Handle) Embed(ctx context.Context, text string) ([]float32, error) {
	return h.Get().Embed(ctx, text)
}

// BatchEmbed は現在のEmbedderに委譲する
func (h *Handle) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	return h.Get().BatchEmbed(ctx, texts)
}

// ModelName は現在のEmbedderのモデル名を返す
func (h *Handle) ModelName() string {
	return h.Get().ModelName()
}

// インターフェース実装の確認
var _ Embedder = (*Handle)(nil)
