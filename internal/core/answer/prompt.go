package answer

import "strings"

// BuildPrompt はRAG質問応答用のプロンプトを構築する。
// クエリとコンテキストをそのまま埋め込む決定的なテンプレートであり、
// コンテキスト外の情報を使わないこと、不足時は固定の拒否文を返すこと、
// [Source N] 形式で引用することをLLMに指示する。
func BuildPrompt(query string, contextText string) string {
	var sb strings.Builder

	sb.WriteString("You are a legal assistant providing accurate information from legal documents.\n")
	sb.WriteString("Answer the following query based ONLY on the provided context.\n")
	sb.WriteString("If the information is not present in the context, respond with \"")
	sb.WriteString(InsufficientContextResponse)
	sb.WriteString("\"\n\n")

	sb.WriteString("Format your answer in a professional legal style with proper citations.\n")
	sb.WriteString("Use citation format [Source X] to refer to sources.\n")
	sb.WriteString("If directly quoting, use quotation marks and include the citation.\n")
	sb.WriteString("Be concise but thorough.\n\n")

	sb.WriteString("QUERY: ")
	sb.WriteString(query)
	sb.WriteString("\n\n")

	sb.WriteString("CONTEXT:\n")
	sb.WriteString(contextText)
	sb.WriteString("\n\n")

	sb.WriteString("ANSWER:\n")

	return sb.String()
}
