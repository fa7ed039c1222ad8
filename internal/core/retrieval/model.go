package retrieval

// Chunk は検索対象となるドキュメントチャンクを表す
type Chunk struct {
	ChunkID       string            `json:"chunkID"`
	DocumentID    string            `json:"documentID"`
	DocumentTitle string            `json:"documentTitle"`
	Text          string            `json:"text"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// ScoredChunk は1回の検索クエリにおける正規化スコア付きチャンク。
// スコアは (0, 1] に正規化され、クエリのライフタイムを超えて永続化されない。
type ScoredChunk struct {
	Chunk
	Score float64 `json:"score"`
}

// Candidate はベクトルインデックスが返す候補チャンク。
// Distance は距離関数に依存しない生の距離値（小さいほど近い）。
type Candidate struct {
	Chunk
	Distance float64
}
