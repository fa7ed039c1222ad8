// Package memory はインメモリのインデックスと履歴リポジトリを提供する。
// 外部依存なしで動作確認したい場合やテスト用のバックエンド。
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/jinford/legal-rag/internal/core/ingestion"
	"github.com/jinford/legal-rag/internal/core/retrieval"
)

// Index は総当たりのコサイン距離で検索するインメモリインデックス
type Index struct {
	mu     sync.RWMutex
	chunks map[string]ingestion.Chunk
}

// NewIndex は新しい Index を作成する
func NewIndex() *Index {
	return &Index{chunks: make(map[string]ingestion.Chunk)}
}

// コンパイル時の型チェック
var (
	_ retrieval.Index = (*Index)(nil)
	_ ingestion.Index = (*Index)(nil)
)

// Query はコサイン距離の近い順にtopK件を返す
func (x *Index) Query(ctx context.Context, vector []float32, topK int, filters map[string]string) ([]retrieval.Candidate, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var candidates []retrieval.Candidate
	for _, chunk := range x.chunks {
		if !matchesFilters(chunk.Metadata, filters) {
			continue
		}
		candidates = append(candidates, retrieval.Candidate{
			Chunk: retrieval.Chunk{
				ChunkID:       chunk.ChunkID,
				DocumentID:    chunk.DocumentID,
				DocumentTitle: chunk.DocumentTitle,
				Text:          chunk.Text,
				Metadata:      chunk.Metadata,
			},
			Distance: cosineDistance(vector, chunk.Embedding),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Distance < candidates[j].Distance
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	return candidates, nil
}

// Insert はチャンク列を投入する（同一IDは上書き）
func (x *Index) Insert(ctx context.Context, chunks []ingestion.Chunk) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, chunk := range chunks {
		x.chunks[chunk.ChunkID] = chunk
	}
	return nil
}

// DeleteByDocument は指定ドキュメントの全チャンクを削除する
func (x *Index) DeleteByDocument(ctx context.Context, documentID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for id, chunk := range x.chunks {
		if chunk.DocumentID == documentID {
			delete(x.chunks, id)
		}
	}
	return nil
}

// Reset はインデックスを空にする
func (x *Index) Reset(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.chunks = make(map[string]ingestion.Chunk)
	return nil
}

// Count はチャンク総数を返す
func (x *Index) Count(ctx context.Context) (int, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return len(x.chunks), nil
}

func matchesFilters(metadata, filters map[string]string) bool {
	for key, want := range filters {
		if metadata[key] != want {
			return false
		}
	}
	return true
}

// cosineDistance は 1 - cosine類似度 を返す。ゼロベクトルは最遠扱い。
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
