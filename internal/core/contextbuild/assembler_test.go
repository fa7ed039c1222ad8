package contextbuild

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/legal-rag/internal/core/retrieval"
)

func scoredChunk(id, title, text string, score float64) retrieval.ScoredChunk {
	return retrieval.ScoredChunk{
		Chunk: retrieval.Chunk{
			ChunkID:       id,
			DocumentID:    "doc-" + id,
			DocumentTitle: title,
			Text:          text,
		},
		Score: score,
	}
}

func TestAssemble_EmptyInput(t *testing.T) {
	result := Assemble(nil)

	assert.Equal(t, "", result.Text)
	require.NotNil(t, result.Sources)
	assert.Empty(t, result.Sources)
}

func TestAssemble_SortsByScoreAndFormatsBlocks(t *testing.T) {
	chunks := []retrieval.ScoredChunk{
		scoredChunk("b", "会社法", "第二の本文", 0.5),
		scoredChunk("a", "民法", "第一の本文", 0.9),
	}

	result := Assemble(chunks)

	require.Len(t, result.Sources, 2)
	assert.Equal(t, "a", result.Sources[0].ChunkID)
	assert.Equal(t, "b", result.Sources[1].ChunkID)

	expected := "[Source 1: 民法]\n第一の本文\n\n[Source 2: 会社法]\n第二の本文\n"
	assert.Equal(t, expected, result.Text)

	// 整列済み入力に対しては冪等
	again := Assemble(chunks)
	assert.Equal(t, result, again)
}

func TestAssemble_DeduplicatesIdenticalSources(t *testing.T) {
	dup := scoredChunk("a", "民法", "本文A", 0.9)
	chunks := []retrieval.ScoredChunk{dup, dup, scoredChunk("b", "会社法", "本文B", 0.5)}

	result := Assemble(chunks)

	// 出典は全フィールド等値で重複排除される
	require.Len(t, result.Sources, 2)
	assert.Equal(t, "a", result.Sources[0].ChunkID)
	assert.Equal(t, "b", result.Sources[1].ChunkID)

	// 重複チャンクのブロックは同じ序数を共有する
	assert.Equal(t, 2, strings.Count(result.Text, "[Source 1: 民法]"))
	assert.Equal(t, 1, strings.Count(result.Text, "[Source 2: 会社法]"))
}

func TestAssemble_SameChunkDifferentScoreIsSeparateSource(t *testing.T) {
	chunks := []retrieval.ScoredChunk{
		scoredChunk("a", "民法", "本文A", 0.9),
		scoredChunk("a", "民法", "本文A", 0.8),
	}

	result := Assemble(chunks)

	// スコアも等値判定に含まれるため別出典になる
	assert.Len(t, result.Sources, 2)
}

func TestAssemble_TruncatesLongContext(t *testing.T) {
	long := strings.Repeat("あ", MaxContextChars)
	chunks := []retrieval.ScoredChunk{
		scoredChunk("a", "民法", long, 0.9),
		scoredChunk("b", "会社法", long, 0.5),
	}

	result := Assemble(chunks)

	runes := []rune(result.Text)
	assert.Len(t, runes, MaxContextChars+len([]rune("...")))
	assert.True(t, strings.HasSuffix(result.Text, "..."))

	// 出典リストは打ち切りの影響を受けない
	assert.Len(t, result.Sources, 2)
}

func TestAssemble_StableOrderForEqualScores(t *testing.T) {
	chunks := []retrieval.ScoredChunk{
		scoredChunk("first", "民法", "1", 0.5),
		scoredChunk("second", "会社法", "2", 0.5),
	}

	result := Assemble(chunks)

	require.Len(t, result.Sources, 2)
	assert.Equal(t, "first", result.Sources[0].ChunkID)
	assert.Equal(t, "second", result.Sources[1].ChunkID)
}

func TestPrioritizeByAuthority_Ordering(t *testing.T) {
	chunks := []retrieval.ScoredChunk{
		scoredChunk("blog", "Legal Blog Commentary", "...", 0.9),      // 9.0
		scoredChunk("sc", "Supreme Court Decision 2023", "...", 0.5),  // 10.0
		scoredChunk("statute", "Civil Statute Article 5", "...", 0.6), // 10.0
	}

	result := PrioritizeByAuthority(chunks)

	require.Len(t, result, 3)
	// 同点（10.0）は元の相対順を維持し、blogが最後に落ちる
	assert.Equal(t, "sc", result[0].ChunkID)
	assert.Equal(t, "statute", result[1].ChunkID)
	assert.Equal(t, "blog", result[2].ChunkID)

	// 入力スライスは破壊しない
	assert.Equal(t, "blog", chunks[0].ChunkID)
}

func TestPrioritizeByAuthority_HighestRankWins(t *testing.T) {
	// "Supreme Court" は "court" より先に判定される
	chunk := scoredChunk("a", "Supreme Court of Japan", "...", 0.1)
	plain := scoredChunk("b", "District Court Ruling", "...", 0.1)

	result := PrioritizeByAuthority([]retrieval.ScoredChunk{plain, chunk})
	assert.Equal(t, "a", result[0].ChunkID)
}

func TestAuthorityBonus_CaseInsensitive(t *testing.T) {
	tests := []struct {
		title string
		want  float64
	}{
		{"SUPREME COURT decision", 5},
		{"National STATUTE Book", 4},
		{"Trade Regulation 12", 3},
		{"High Court Appeal", 2},
		{"Newspaper Article", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, authorityBonus(tt.title))
		})
	}
}

func TestAssemble_ManyChunksOrdinalsMatchSources(t *testing.T) {
	var chunks []retrieval.ScoredChunk
	for i := 0; i < 5; i++ {
		chunks = append(chunks, scoredChunk(fmt.Sprintf("c%d", i), fmt.Sprintf("文書%d", i), "本文", float64(5-i)/10))
	}

	result := Assemble(chunks)

	for i, src := range result.Sources {
		marker := fmt.Sprintf("[Source %d: %s]", i+1, src.DocumentTitle)
		assert.Contains(t, result.Text, marker)
	}
}
