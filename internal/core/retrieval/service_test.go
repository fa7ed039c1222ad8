package retrieval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	err    error
	called bool
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.called = true
	if e.err != nil {
		return nil, e.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type stubIndex struct {
	candidates []Candidate
	err        error
	lastTopK   int
}

func (x *stubIndex) Query(ctx context.Context, vector []float32, topK int, filters map[string]string) ([]Candidate, error) {
	x.lastTopK = topK
	if x.err != nil {
		return nil, x.err
	}
	return x.candidates, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func candidate(id string, distance float64) Candidate {
	return Candidate{
		Chunk: Chunk{
			ChunkID:       id,
			DocumentID:    "doc-1",
			DocumentTitle: "民法",
			Text:          "本文 " + id,
		},
		Distance: distance,
	}
}

func TestRetrieve_ScoresAndSortsDescending(t *testing.T) {
	index := &stubIndex{candidates: []Candidate{
		candidate("c", 3.0),
		candidate("a", 0.0),
		candidate("b", 1.0),
	}}
	svc := NewService(index, &stubEmbedder{}, WithLogger(discardLogger()))

	results := svc.Retrieve(context.Background(), "質問", nil, 5, 0)

	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].ChunkID)
	assert.Equal(t, "b", results[1].ChunkID)
	assert.Equal(t, "c", results[2].ChunkID)

	// score = 1/(1+d)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.InDelta(t, 0.5, results[1].Score, 1e-9)
	assert.InDelta(t, 0.25, results[2].Score, 1e-9)

	// スコアは常に (0, 1] に収まる
	for _, r := range results {
		assert.Greater(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
}

func TestRetrieve_ThresholdFiltering(t *testing.T) {
	index := &stubIndex{candidates: []Candidate{
		candidate("a", 0.0), // score 1.0
		candidate("b", 1.0), // score 0.5
		candidate("c", 3.0), // score 0.25
	}}
	svc := NewService(index, &stubEmbedder{}, WithLogger(discardLogger()))

	ctx := context.Background()
	low := svc.Retrieve(ctx, "質問", nil, 5, 0.2)
	high := svc.Retrieve(ctx, "質問", nil, 5, 0.4)

	assert.Len(t, low, 3)
	assert.Len(t, high, 2)

	// 閾値を上げて生き残るものは、低い閾値でも必ず生き残る
	for _, h := range high {
		found := false
		for _, l := range low {
			if l.ChunkID == h.ChunkID {
				found = true
				break
			}
		}
		assert.True(t, found, "chunk %s must survive the lower threshold too", h.ChunkID)
	}

	// 閾値ちょうどのスコアは残る
	exact := svc.Retrieve(ctx, "質問", nil, 5, 0.25)
	assert.Len(t, exact, 3)
}

func TestRetrieve_TopKTruncation(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 10; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("c%d", i), float64(i)))
	}
	index := &stubIndex{candidates: candidates}
	svc := NewService(index, &stubEmbedder{}, WithLogger(discardLogger()))

	results := svc.Retrieve(context.Background(), "質問", nil, 3, 0)

	require.Len(t, results, 3)
	// 上位3件は距離の小さいもの
	assert.Equal(t, "c0", results[0].ChunkID)
	assert.Equal(t, "c1", results[1].ChunkID)
	assert.Equal(t, "c2", results[2].ChunkID)

	// インデックスには2倍の件数を要求する
	assert.Equal(t, 6, index.lastTopK)
}

func TestRetrieve_DefaultTopK(t *testing.T) {
	index := &stubIndex{}
	svc := NewService(index, &stubEmbedder{}, WithLogger(discardLogger()))

	svc.Retrieve(context.Background(), "質問", nil, 0, 0)
	assert.Equal(t, DefaultTopK*overfetchFactor, index.lastTopK)
}

func TestRetrieve_EmbedderFailureReturnsEmpty(t *testing.T) {
	index := &stubIndex{candidates: []Candidate{candidate("a", 0.0)}}
	embedder := &stubEmbedder{err: errors.New("embedding api down")}
	svc := NewService(index, embedder, WithLogger(discardLogger()))

	results := svc.Retrieve(context.Background(), "質問", nil, 5, 0)
	assert.Empty(t, results)
}

func TestRetrieve_IndexFailureReturnsEmpty(t *testing.T) {
	index := &stubIndex{err: errors.New("index unavailable")}
	svc := NewService(index, &stubEmbedder{}, WithLogger(discardLogger()))

	results := svc.Retrieve(context.Background(), "質問", nil, 5, 0)
	assert.Empty(t, results)
}

func TestRetrieve_EmptyQueryStillEmbedded(t *testing.T) {
	index := &stubIndex{}
	embedder := &stubEmbedder{}
	svc := NewService(index, embedder, WithLogger(discardLogger()))

	results := svc.Retrieve(context.Background(), "", nil, 5, 0)
	assert.Empty(t, results)
	assert.True(t, embedder.called)
}

func TestRetrieve_StableOrderForEqualScores(t *testing.T) {
	index := &stubIndex{candidates: []Candidate{
		candidate("first", 1.0),
		candidate("second", 1.0),
		candidate("third", 1.0),
	}}
	svc := NewService(index, &stubEmbedder{}, WithLogger(discardLogger()))

	results := svc.Retrieve(context.Background(), "質問", nil, 5, 0)

	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].ChunkID)
	assert.Equal(t, "second", results[1].ChunkID)
	assert.Equal(t, "third", results[2].ChunkID)
}
