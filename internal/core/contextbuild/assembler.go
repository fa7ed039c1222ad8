// Package contextbuild は検索済みチャンクをLLM向けの単一コンテキストへ
// 組み立てる。出典情報を保持したまま結合し、固定長で打ち切る。
package contextbuild

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jinford/legal-rag/internal/core/retrieval"
)

// MaxContextChars はコンテキストテキストの最大文字数
const MaxContextChars = 10000

// truncationMarker は打ち切り時に末尾へ付加するマーカー
const truncationMarker = "..."

// Source は回答の出典情報を表す
type Source struct {
	ChunkID        string  `json:"chunkID"`
	DocumentID     string  `json:"documentID"`
	DocumentTitle  string  `json:"documentTitle"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// AssembledContext は組み立て済みのコンテキストを表す。
// Text 中の [Source N] マーカーは Sources の N 番目（1始まり）に対応する。
type AssembledContext struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// Assemble はチャンク列をスコア降順に整列し、出典マーカー付きの
// 単一テキストと重複排除済みの出典リストへ組み立てる。
//
// 整列は安定ソートで、既に整列済みの入力に対しては冪等。出典は
// 全フィールドの等値で重複排除され、初出順を保つ。組み立ては失敗せず、
// 欠落フィールドは空文字列として描画される。
func Assemble(chunks []retrieval.ScoredChunk) AssembledContext {
	if len(chunks) == 0 {
		return AssembledContext{Text: "", Sources: []Source{}}
	}

	sorted := make([]retrieval.ScoredChunk, len(chunks))
	copy(sorted, chunks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	sources := make([]Source, 0, len(sorted))
	for _, chunk := range sorted {
		src := Source{
			ChunkID:        chunk.ChunkID,
			DocumentID:     chunk.DocumentID,
			DocumentTitle:  chunk.DocumentTitle,
			RelevanceScore: chunk.Score,
		}
		if sourceIndex(sources, src) < 0 {
			sources = append(sources, src)
		}
	}

	var parts []string
	for _, chunk := range sorted {
		src := Source{
			ChunkID:        chunk.ChunkID,
			DocumentID:     chunk.DocumentID,
			DocumentTitle:  chunk.DocumentTitle,
			RelevanceScore: chunk.Score,
		}
		ordinal := sourceIndex(sources, src) + 1
		parts = append(parts, fmt.Sprintf("[Source %d: %s]\n%s\n", ordinal, chunk.DocumentTitle, chunk.Text))
	}

	text := strings.Join(parts, "\n")

	// 文境界を考慮しない固定長カット。境界上のブロックは壊れ得る。
	if runes := []rune(text); len(runes) > MaxContextChars {
		text = string(runes[:MaxContextChars]) + truncationMarker
	}

	return AssembledContext{Text: text, Sources: sources}
}

// sourceIndex は全フィールド一致でsourcesを線形検索し、位置を返す（未発見は-1）
func sourceIndex(sources []Source, target Source) int {
	for i, s := range sources {
		if s == target {
			return i
		}
	}
	return -1
}
