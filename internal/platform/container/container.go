// Package container はサービス全体の依存関係を組み立てる
package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinford/legal-rag/internal/core/answer"
	"github.com/jinford/legal-rag/internal/core/embedding"
	"github.com/jinford/legal-rag/internal/core/history"
	"github.com/jinford/legal-rag/internal/core/ingestion"
	"github.com/jinford/legal-rag/internal/core/qa"
	"github.com/jinford/legal-rag/internal/core/retrieval"
	"github.com/jinford/legal-rag/internal/infra/extract"
	"github.com/jinford/legal-rag/internal/infra/openai"
	"github.com/jinford/legal-rag/internal/infra/postgres"
	"github.com/jinford/legal-rag/internal/platform/config"
	"github.com/jinford/legal-rag/internal/platform/database"
)

// ServiceContainer はアプリケーションの依存関係を保持する
type ServiceContainer struct {
	QAService        *qa.Service
	HistoryService   *history.Service
	IngestionService *ingestion.Service
	Runtime          *config.Runtime
	EmbedderHandle   *embedding.Handle

	// NewEmbedder は実行時設定でモデル変更された際の差し替えに使う
	NewEmbedder func(model string) embedding.Embedder

	logger   *slog.Logger
	database *database.Database
}

type containerOptions struct {
	logger      *slog.Logger
	embedder    embedding.Embedder
	llmClient   answer.LLMClient
	verifier    answer.Verifier
	extractor   ingestion.Extractor
	index       indexPort
	docRepo     ingestion.DocumentRepository
	historyRepo history.Repository
}

// indexPort は検索側と取り込み側の両ポートを満たすインデックス
type indexPort interface {
	retrieval.Index
	ingestion.Index
}

// ContainerOption は ServiceContainer 構築時のオプション
type ContainerOption func(*containerOptions)

// WithContainerLogger はロガーを差し替える
func WithContainerLogger(logger *slog.Logger) ContainerOption {
	return func(opts *containerOptions) {
		opts.logger = logger
	}
}

// WithContainerEmbedder はカスタム Embedder を注入する
func WithContainerEmbedder(embedder embedding.Embedder) ContainerOption {
	return func(opts *containerOptions) {
		opts.embedder = embedder
	}
}

// WithContainerLLMClient は LLM クライアントを差し替える
func WithContainerLLMClient(client answer.LLMClient) ContainerOption {
	return func(opts *containerOptions) {
		opts.llmClient = client
	}
}

// WithContainerVerifier は回答検証器を差し替える
func WithContainerVerifier(verifier answer.Verifier) ContainerOption {
	return func(opts *containerOptions) {
		opts.verifier = verifier
	}
}

// WithContainerExtractor はテキスト抽出器を差し替える
func WithContainerExtractor(extractor ingestion.Extractor) ContainerOption {
	return func(opts *containerOptions) {
		opts.extractor = extractor
	}
}

// WithContainerIndex はベクトルインデックスを差し替える
func WithContainerIndex(index interface {
	retrieval.Index
	ingestion.Index
}) ContainerOption {
	return func(opts *containerOptions) {
		opts.index = index
	}
}

// WithContainerDocumentRepository はドキュメントリポジトリを差し替える
func WithContainerDocumentRepository(repo ingestion.DocumentRepository) ContainerOption {
	return func(opts *containerOptions) {
		opts.docRepo = repo
	}
}

// WithContainerHistoryRepository は履歴リポジトリを差し替える
func WithContainerHistoryRepository(repo history.Repository) ContainerOption {
	return func(opts *containerOptions) {
		opts.historyRepo = repo
	}
}

// NewContainer は設定からコンテナを生成する。
func NewContainer(ctx context.Context, cfg *config.Config, opts ...ContainerOption) (*ServiceContainer, error) {
	db, err := database.New(ctx, database.ConnectionParams{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("データベース初期化に失敗しました: %w", err)
	}

	if err := postgres.Migrate(ctx, db.Pool); err != nil {
		db.Close()
		return nil, fmt.Errorf("スキーマ適用に失敗しました: %w", err)
	}

	return NewContainerWithDB(cfg, db, opts...)
}

// NewContainerWithDB は既存の Database を受け取りコンテナを生成する。
func NewContainerWithDB(cfg *config.Config, db *database.Database, opts ...ContainerOption) (*ServiceContainer, error) {
	options := containerOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	// 実行時設定ストア
	runtime, err := config.NewRuntime(cfg.Pipeline)
	if err != nil {
		return nil, err
	}

	// Embedder (OpenAI) をホットスワップ可能なハンドルで包む
	newEmbedder := func(model string) embedding.Embedder {
		return openai.NewEmbedder(
			cfg.OpenAI.APIKey,
			openai.WithEmbeddingModel(model),
			openai.WithEmbeddingDimension(cfg.OpenAI.EmbeddingDimension),
		)
	}
	base := options.embedder
	if base == nil {
		base = newEmbedder(cfg.Pipeline.EmbeddingModel)
	}
	embedderHandle := embedding.NewHandle(base)

	// LLMClient (OpenAI)
	llmClient := options.llmClient
	if llmClient == nil {
		openaiClient, err := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.LLMModel)
		if err != nil {
			return nil, fmt.Errorf("OpenAI LLMクライアント初期化に失敗しました: %w", err)
		}
		llmClient = openaiClient
	}

	// Repository / Index (PostgreSQL)
	var index indexPort = options.index
	if index == nil {
		index = postgres.NewVectorIndex(db.Pool)
	}
	docRepo := options.docRepo
	if docRepo == nil {
		docRepo = postgres.NewDocumentRepository(db.Pool)
	}
	historyRepo := options.historyRepo
	if historyRepo == nil {
		historyRepo = postgres.NewHistoryRepository(db.Pool)
	}

	// Extractor
	extractor := options.extractor
	if extractor == nil {
		extractor = extract.NewExtractor()
	}

	// Chunker
	chunker, err := ingestion.NewChunker()
	if err != nil {
		return nil, fmt.Errorf("Chunker 初期化に失敗しました: %w", err)
	}

	retrievalService := retrieval.NewService(index, embedderHandle,
		retrieval.WithLogger(options.logger))

	answerOpts := []answer.ServiceOption{answer.WithLogger(options.logger)}
	if options.verifier != nil {
		answerOpts = append(answerOpts, answer.WithVerifier(options.verifier))
	}
	answerService := answer.NewService(llmClient, answerOpts...)

	historyService := history.NewService(historyRepo, history.WithLogger(options.logger))

	qaService := qa.NewService(retrievalService, answerService, historyService, runtime,
		qa.WithLogger(options.logger))

	ingestionService := ingestion.NewService(docRepo, index, extractor, embedderHandle, chunker, runtime,
		ingestion.WithLogger(options.logger),
		ingestion.WithEmbeddingDimension(cfg.OpenAI.EmbeddingDimension))

	return &ServiceContainer{
		QAService:        qaService,
		HistoryService:   historyService,
		IngestionService: ingestionService,
		Runtime:          runtime,
		EmbedderHandle:   embedderHandle,
		NewEmbedder:      newEmbedder,
		logger:           options.logger,
		database:         db,
	}, nil
}

// Close は内部リソースを解放する。
func (c *ServiceContainer) Close() {
	if c != nil && c.database != nil {
		c.database.Close()
	}
}

// Logger はロガーを返す。
func (c *ServiceContainer) Logger() *slog.Logger {
	if c == nil || c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// Database はデータベースを返す。
func (c *ServiceContainer) Database() *database.Database {
	if c == nil {
		return nil
	}
	return c.database
}
