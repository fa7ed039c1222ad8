package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jinford/legal-rag/internal/core/contextbuild"
)

func sourcesWithScores(scores ...float64) []contextbuild.Source {
	sources := make([]contextbuild.Source, 0, len(scores))
	for i, score := range scores {
		sources = append(sources, contextbuild.Source{
			ChunkID:        string(rune('a' + i)),
			DocumentID:     "doc",
			DocumentTitle:  "title",
			RelevanceScore: score,
		})
	}
	return sources
}

func TestEstimateConfidence_NoCitationsFloor(t *testing.T) {
	// 引用ゼロは式の結果に関わらず固定値0.3
	sources := sourcesWithScores(1.0, 1.0)
	assert.Equal(t, 0.3, EstimateConfidence("断定的な回答。", nil, sources))
	assert.Equal(t, 0.3, EstimateConfidence("", nil, nil))
}

func TestEstimateConfidence_Formula(t *testing.T) {
	sources := sourcesWithScores(0.8, 0.6)

	// 0.5 + 0.1*2 + 0.3*0.7 - 0 = 0.91
	got := EstimateConfidence("確定的な回答 [Source 1][Source 2]", []int{0, 1}, sources)
	assert.InDelta(t, 0.91, got, 1e-9)
}

func TestEstimateConfidence_HedgingPenalty(t *testing.T) {
	sources := sourcesWithScores(1.0)

	base := EstimateConfidence("This is settled law [Source 1]", []int{0}, sources)
	hedged := EstimateConfidence("This may be the case [Source 1]", []int{0}, sources)

	assert.InDelta(t, base-0.05, hedged, 1e-9)

	// 語の存在で数えるため、同じ語の繰り返しは1回分
	repeated := EstimateConfidence("may may may [Source 1]", []int{0}, sources)
	assert.InDelta(t, hedged, repeated, 1e-9)

	// 複数の異なるヘッジ語は加算される
	double := EstimateConfidence("It may be unclear [Source 1]", []int{0}, sources)
	assert.InDelta(t, base-0.10, double, 1e-9)
}

func TestEstimateConfidence_CitationCountCapped(t *testing.T) {
	sources := sourcesWithScores(0, 0, 0, 0, 0, 0, 0)

	five := EstimateConfidence("x", []int{0, 1, 2, 3, 4}, sources)
	seven := EstimateConfidence("x", []int{0, 1, 2, 3, 4, 5, 6}, sources)
	assert.Equal(t, five, seven)
	assert.InDelta(t, 1.0, five, 1e-9) // 0.5 + 0.5
}

func TestEstimateConfidence_OutOfRangeCitationsIgnored(t *testing.T) {
	sources := sourcesWithScores(0.9)

	// インデックス5はsources範囲外なので平均に入らない
	got := EstimateConfidence("x [Source 1][Source 6]", []int{0, 5}, sources)
	// 0.5 + 0.1*2 + 0.3*0.9 = 0.97
	assert.InDelta(t, 0.97, got, 1e-9)
}

func TestEstimateConfidence_ClampedToUnitInterval(t *testing.T) {
	high := EstimateConfidence("x", []int{0, 1, 2, 3, 4}, sourcesWithScores(1, 1, 1, 1, 1))
	assert.Equal(t, 1.0, high)

	// ヘッジ語を大量に含めても0未満にはならない
	text := "may might could possibly perhaps unclear uncertain"
	low := EstimateConfidence(text, []int{0}, sourcesWithScores(0))
	assert.GreaterOrEqual(t, low, 0.0)
	assert.LessOrEqual(t, low, 1.0)
}
