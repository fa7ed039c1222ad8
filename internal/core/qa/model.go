package qa

// DefaultChunkCount は取得チャンク数のデフォルト値
const DefaultChunkCount = 5

// NoRelevantInformationResponse は関連チャンクが見つからない場合の固定回答
const NoRelevantInformationResponse = "I couldn't find any relevant information in the documents to answer your question."

// QueryParams は質問応答のパラメータを表す
type QueryParams struct {
	// Query はユーザーの質問文
	Query string

	// Filters はチャンクメタデータへの等値フィルタ（任意）
	Filters map[string]string

	// ChunkCount は取得するチャンク数（デフォルト: 5）
	ChunkCount int

	// SimilarityThreshold はリクエスト側の希望閾値。実効値はサーバ側の
	// 実行時設定が優先される（管理者が設定する下限であり、リクエストで
	// 緩めることはできない）。
	SimilarityThreshold float64

	// AuthorityOrder は法的権威の序列による並べ替えを使うかどうか。
	// falseの場合は純粋な関連度順。
	AuthorityOrder bool
}

// Citation はレスポンスに含める出典情報を表す
type Citation struct {
	DocumentID     string  `json:"documentID"`
	DocumentTitle  string  `json:"documentTitle"`
	ChunkID        string  `json:"chunkID"`
	Text           string  `json:"text"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// QueryResult は質問応答の結果を表す
type QueryResult struct {
	Query           string     `json:"query"`
	Response        string     `json:"response"`
	Citations       []Citation `json:"citations"`
	ConfidenceScore float64    `json:"confidenceScore"`
}
