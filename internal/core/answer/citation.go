package answer

import (
	"regexp"
	"strconv"
)

// citationPattern は [Source N] 形式の引用マーカーにマッチする
var citationPattern = regexp.MustCompile(`\[Source (\d+)\]`)

// ExtractCitations は回答本文から引用マーカーを抽出し、
// 0始まりの出典インデックスへ変換して初出順・重複なしで返す。
// マーカー形式に合致しない括弧書きは単に無視される。
func ExtractCitations(text string) []int {
	matches := citationPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[int]bool, len(matches))
	citations := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		index := n - 1
		if seen[index] {
			continue
		}
		seen[index] = true
		citations = append(citations, index)
	}

	return citations
}

// FormatCitations は引用マーカーの整形パスです。
// 現在の仕様では入力をそのまま返す恒等変換であり、呼び出し側は
// 見た目の変化に依存してはならない。脚注スタイルへの置換を導入する
// 場合はこの関数を差し替える。
func FormatCitations(text string) string {
	return text
}
