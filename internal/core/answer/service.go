package answer

import (
	"context"
	"log/slog"

	"github.com/jinford/legal-rag/internal/core/contextbuild"
)

// LLMClient はLLM通信インターフェース
type LLMClient interface {
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
}

// Service は組み立て済みコンテキストから引用付き回答を生成する
type Service struct {
	llm      LLMClient
	verifier Verifier
	logger   *slog.Logger
}

// ServiceOption は Service のオプション設定
type ServiceOption func(*Service)

// WithLogger は Service にロガーを設定する
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVerifier は根拠検証器を差し替える
func WithVerifier(verifier Verifier) ServiceOption {
	return func(s *Service) {
		if verifier != nil {
			s.verifier = verifier
		}
	}
}

// NewService は新しい Service を作成する
func NewService(llm LLMClient, opts ...ServiceOption) *Service {
	svc := &Service{
		llm:      llm,
		verifier: NewLexicalVerifier(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Generate はクエリとコンテキストから回答・引用・信頼度を生成する。
//
// LLM呼び出しの失敗は固定のフォールバック文へ吸収され、エラーとしては
// 伝播しない（引用が空になるため信頼度は下限に張り付く）。
func (s *Service) Generate(ctx context.Context, query string, assembled contextbuild.AssembledContext) Answer {
	prompt := BuildPrompt(query, assembled.Text)

	raw, err := s.llm.GenerateCompletion(ctx, prompt)
	if err != nil {
		s.logger.Warn("LLM call failed, substituting fallback response", "error", err)
		raw = FallbackResponse
	}

	citations := ExtractCitations(raw)

	verified := s.verifier.Verify(raw, assembled.Text)
	formatted := FormatCitations(verified)

	confidence := EstimateConfidence(formatted, citations, assembled.Sources)

	return Answer{
		Text:       formatted,
		Citations:  citations,
		Confidence: confidence,
	}
}
