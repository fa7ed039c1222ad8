package memory

import (
	"context"
	"sync"

	"github.com/jinford/legal-rag/internal/core/history"
)

// HistoryRepository はインメモリの履歴リポジトリ。新しい順で保持する。
type HistoryRepository struct {
	mu    sync.Mutex
	items []history.Item
}

// NewHistoryRepository は新しい HistoryRepository を作成する
func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

// コンパイル時の型チェック
var _ history.Repository = (*HistoryRepository)(nil)

// Append は履歴を先頭へ追加し、上限を超えた古い項目を同時に捨てる
func (r *HistoryRepository) Append(ctx context.Context, item history.Item, max int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append([]history.Item{item}, r.items...)
	if len(r.items) > max {
		r.items = r.items[:max]
	}
	return nil
}

// List は履歴を新しい順に最大max件返す
func (r *HistoryRepository) List(ctx context.Context, max int) ([]history.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.items)
	if n > max {
		n = max
	}

	out := make([]history.Item, n)
	copy(out, r.items[:n])
	return out, nil
}
