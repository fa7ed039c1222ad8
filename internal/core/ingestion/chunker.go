package ingestion

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// separators はチャンク分割の区切り文字列。前から順に試し、
// どれでも収まらない場合は文字単位で切る。
var separators = []string{"\n\n", "\n", ". ", " "}

// Chunker はテキストを上限文字数のチャンクへ再帰的に分割します
type Chunker struct {
	encoder *tiktoken.Tiktoken
}

// NewChunker は新しい Chunker を作成する
func NewChunker() (*Chunker, error) {
	// cl100k_baseエンコーダを使用（text-embedding-3-smallと互換）
	encoder, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoder: %w", err)
	}
	return &Chunker{encoder: encoder}, nil
}

// CountTokens はテキストのトークン数を返す
func (c *Chunker) CountTokens(text string) int {
	return len(c.encoder.Encode(text, nil, nil))
}

// Split はテキストを最大size文字のチャンク列へ分割する。
// 連続するチャンクの間には直前チャンク末尾のoverlap文字分が引き継がれる
// （引き継ぐとsizeを超える場合は引き継がない）。
func (c *Chunker) Split(text string, size, overlap int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	pieces := splitRecursive(text, separators, size)
	return mergePieces(pieces, size, overlap)
}

// splitRecursive はsize以下の断片になるまで区切り文字列を順に適用する
func splitRecursive(text string, seps []string, size int) []string {
	if runeLen(text) <= size {
		return []string{text}
	}
	if len(seps) == 0 {
		return hardSplit(text, size)
	}

	parts := strings.SplitAfter(text, seps[0])
	if len(parts) == 1 {
		return splitRecursive(text, seps[1:], size)
	}

	var out []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if runeLen(part) <= size {
			out = append(out, part)
		} else {
			out = append(out, splitRecursive(part, seps[1:], size)...)
		}
	}
	return out
}

// hardSplit は区切りに依存せず文字数で強制分割する
func hardSplit(text string, size int) []string {
	runes := []rune(text)
	out := make([]string, 0, len(runes)/size+1)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[i:end]))
	}
	return out
}

// mergePieces は断片を貪欲にsize以下のチャンクへ詰め直す
func mergePieces(pieces []string, size, overlap int) []string {
	var chunks []string
	var buf []rune

	flush := func() {
		chunk := strings.TrimSpace(string(buf))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, piece := range pieces {
		runes := []rune(piece)
		if len(buf) > 0 && len(buf)+len(runes) > size {
			flush()

			start := len(buf) - overlap
			if start < 0 {
				start = 0
			}
			carried := buf[start:]
			if len(carried)+len(runes) > size {
				carried = nil
			}
			buf = append([]rune(nil), carried...)
		}
		buf = append(buf, runes...)
	}
	flush()

	return chunks
}

func runeLen(s string) int {
	return len([]rune(s))
}
