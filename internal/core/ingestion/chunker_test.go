package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChunker(t *testing.T) *Chunker {
	t.Helper()
	chunker, err := NewChunker()
	require.NoError(t, err)
	return chunker
}

func TestSplit_EmptyAndBlankText(t *testing.T) {
	chunker := newTestChunker(t)

	assert.Nil(t, chunker.Split("", 100, 10))
	assert.Nil(t, chunker.Split("   \n\n  ", 100, 10))
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	chunker := newTestChunker(t)

	chunks := chunker.Split("短いテキスト。", 100, 10)
	require.Len(t, chunks, 1)
	assert.Equal(t, "短いテキスト。", chunks[0])
}

func TestSplit_RespectsSizeLimit(t *testing.T) {
	chunker := newTestChunker(t)

	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("これは段落です。ある程度の長さを持っています。\n\n")
	}

	chunks := chunker.Split(sb.String(), 100, 20)
	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 100, "chunk %d exceeds size", i)
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestSplit_PrefersParagraphBoundaries(t *testing.T) {
	chunker := newTestChunker(t)

	text := "第一段落の本文。\n\n第二段落の本文。\n\n第三段落の本文。"
	chunks := chunker.Split(text, 12, 0)

	require.NotEmpty(t, chunks)
	// 段落が分断されず各チャンクに収まる
	assert.Contains(t, chunks[0], "第一段落")
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 12)
	}
}

func TestSplit_HardSplitWithoutSeparators(t *testing.T) {
	chunker := newTestChunker(t)

	// 区切り文字が一切ないテキストは文字数で強制分割される
	text := strings.Repeat("あ", 250)
	chunks := chunker.Split(text, 100, 0)

	require.Len(t, chunks, 3)
	assert.Len(t, []rune(chunks[0]), 100)
	assert.Len(t, []rune(chunks[1]), 100)
	assert.Len(t, []rune(chunks[2]), 50)
}

func TestSplit_OverlapCarriesTailForward(t *testing.T) {
	chunker := newTestChunker(t)

	text := strings.Repeat("あ", 100) + "\n\n" + strings.Repeat("い", 100)
	chunks := chunker.Split(text, 110, 10)

	require.Len(t, chunks, 2)
	// 2番目のチャンクは直前チャンク末尾の引き継ぎで始まる
	assert.True(t, strings.HasPrefix(chunks[1], "あ"))
}

func TestSplit_InvalidOverlapFallsBackToZero(t *testing.T) {
	chunker := newTestChunker(t)

	text := strings.Repeat("あ", 50) + "\n\n" + strings.Repeat("い", 50)

	// overlap >= size でも分割自体は成立する
	chunks := chunker.Split(text, 60, 60)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 60)
	}
}

func TestCountTokens(t *testing.T) {
	chunker := newTestChunker(t)

	assert.Equal(t, 0, chunker.CountTokens(""))
	assert.Greater(t, chunker.CountTokens("The quick brown fox jumps over the lazy dog."), 5)
}
