package answer

import "strings"

// ungroundedNote は根拠が確認できない回答へ付加する注記
const ungroundedNote = "\n\nNote: The information provided is based on the available documents, but you may want to verify with additional sources."

// Verifier は回答がコンテキストに根拠づけられているかを検証するポートです。
// 検証結果に応じて注記を付加した回答を返す。より強い含意判定モデルへの
// 差し替えを想定してインターフェースにしている。
type Verifier interface {
	Verify(answerText string, contextText string) string
}

// LexicalVerifier はピリオド区切りの各セグメントがコンテキストの部分文字列
// として現れるかだけを見る字句的な検証器。意味的な含意判定ではない点に注意。
type LexicalVerifier struct{}

// NewLexicalVerifier は新しい LexicalVerifier を作成する
func NewLexicalVerifier() *LexicalVerifier {
	return &LexicalVerifier{}
}

// Verify はいずれのセグメントもコンテキストに現れない場合に注記を付加する
func (v *LexicalVerifier) Verify(answerText string, contextText string) string {
	loweredContext := strings.ToLower(contextText)

	for _, segment := range strings.Split(answerText, ".") {
		if strings.Contains(loweredContext, strings.ToLower(segment)) {
			return answerText
		}
	}

	return answerText + ungroundedNote
}

// インターフェース実装の確認
var _ Verifier = (*LexicalVerifier)(nil)
