package answer

// Answer はLLMによる回答と品質指標を表す
type Answer struct {
	// Text は検証・整形済みの回答本文
	Text string

	// Citations は回答中の [Source N] マーカーに対応する
	// AssembledContext.Sources への0始まりインデックス（初出順、重複なし）
	Citations []int

	// Confidence は [0, 1] の信頼度スコア
	Confidence float64
}

// FallbackResponse はLLM呼び出し失敗時に回答として返す固定文
const FallbackResponse = "I encountered an error while processing your query. Please try again later."

// InsufficientContextResponse はコンテキスト不足時の拒否文。
// プロンプトでこの文言をそのまま返すようLLMに指示する。
const InsufficientContextResponse = "I don't have enough information to answer this question based on the provided documents."
