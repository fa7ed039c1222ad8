package contextbuild

import (
	"sort"
	"strings"

	"github.com/jinford/legal-rag/internal/core/retrieval"
)

// PrioritizeByAuthority は法的権威の序列を加味してチャンクを並べ替える。
//
// 各チャンクは score*10 + authorityBonus(title) で再スコアリングされる。
// 純粋な関連度順とは異なる順序を生むため、デフォルトの組み立て経路には
// 組み込まず、呼び出し側が明示的に選択する。
func PrioritizeByAuthority(chunks []retrieval.ScoredChunk) []retrieval.ScoredChunk {
	reordered := make([]retrieval.ScoredChunk, len(chunks))
	copy(reordered, chunks)

	sort.SliceStable(reordered, func(i, j int) bool {
		return priorityScore(reordered[i]) > priorityScore(reordered[j])
	})

	return reordered
}

func priorityScore(chunk retrieval.ScoredChunk) float64 {
	return chunk.Score*10 + authorityBonus(chunk.DocumentTitle)
}

// authorityBonus はタイトルの部分一致（大文字小文字無視）で固定ボーナスを返す。
// 判定は序列の高い順に行われ、最初に一致したものが採用される。
func authorityBonus(title string) float64 {
	lowered := strings.ToLower(title)
	switch {
	case strings.Contains(lowered, "supreme court"):
		return 5
	case strings.Contains(lowered, "statute"):
		return 4
	case strings.Contains(lowered, "regulation"):
		return 3
	case strings.Contains(lowered, "court"):
		return 2
	default:
		return 0
	}
}
