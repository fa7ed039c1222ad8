package answer

import (
	"strings"

	"github.com/jinford/legal-rag/internal/core/contextbuild"
)

// noCitationConfidence は引用ゼロ時に固定で返す信頼度。
// 引用は最も支配的な信頼シグナルであり、式の結果に関わらずこの値になる。
const noCitationConfidence = 0.3

// hedgingLexicon は回答中の不確実性を示す語彙
var hedgingLexicon = []string{
	"may", "might", "could", "possibly", "perhaps", "unclear", "uncertain",
}

// EstimateConfidence は引用数・引用元の関連度・ヘッジ表現から信頼度を算出する。
//
//	confidence = clamp(0, 1, 0.5 + 0.1*min(citations, 5) + 0.3*avgRelevance - 0.05*hedging)
//
// avgRelevance は引用インデックスをsourcesへ引いた関連度の平均（範囲外は無視）。
// hedging は語彙中の各語が回答（小文字化）に現れるかを語単位で数える。
func EstimateConfidence(answerText string, citations []int, sources []contextbuild.Source) float64 {
	if len(citations) == 0 {
		return noCitationConfidence
	}

	var avgRelevance float64
	if len(sources) > 0 {
		var sum float64
		var count int
		for _, index := range citations {
			if index < 0 || index >= len(sources) {
				continue
			}
			sum += sources[index].RelevanceScore
			count++
		}
		if count > 0 {
			avgRelevance = sum / float64(count)
		}
	}

	lowered := strings.ToLower(answerText)
	var hedging int
	for _, word := range hedgingLexicon {
		if strings.Contains(lowered, word) {
			hedging++
		}
	}

	citationCount := len(citations)
	if citationCount > 5 {
		citationCount = 5
	}

	confidence := 0.5 + 0.1*float64(citationCount) + 0.3*avgRelevance - 0.05*float64(hedging)

	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}
