package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/jinford/legal-rag/internal/platform/config"
)

// embedBatchSize はEmbedding APIの1バッチあたりの最大チャンク数
const embedBatchSize = 100

// Stats はコーパス全体の統計情報を表す
type Stats struct {
	DocumentCount   int     `json:"documentCount"`
	TotalChunks     int     `json:"totalChunks"`
	VectorStoreSize string  `json:"vectorStoreSize"`
	AvgQueryTime    float64 `json:"avgQueryTime"`
}

// Service はドキュメントの取り込みパイプラインを実行する
type Service struct {
	docs      DocumentRepository
	index     Index
	extractor Extractor
	embedder  Embedder
	chunker   *Chunker
	runtime   *config.Runtime
	dimension int
	logger    *slog.Logger
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

// WithEmbeddingDimension は統計値の概算に使うベクトル次元数を設定する
func WithEmbeddingDimension(dimension int) ServiceOption {
	return func(s *Service) {
		s.dimension = dimension
	}
}

// NewService は新しい Service を作成する
func NewService(
	docs DocumentRepository,
	index Index,
	extractor Extractor,
	embedder Embedder,
	chunker *Chunker,
	runtime *config.Runtime,
	opts ...ServiceOption,
) *Service {
	svc := &Service{
		docs:      docs,
		index:     index,
		extractor: extractor,
		embedder:  embedder,
		chunker:   chunker,
		runtime:   runtime,
		dimension: 1536,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// SaveDocument はドキュメントのメタデータを保存する
func (s *Service) SaveDocument(ctx context.Context, doc Document) error {
	if err := s.docs.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// GetDocument はドキュメントを取得する
func (s *Service) GetDocument(ctx context.Context, id uuid.UUID) (mo.Option[Document], error) {
	return s.docs.Get(ctx, id)
}

// ListDocuments は全ドキュメントをアップロード日時の新しい順に返す
func (s *Service) ListDocuments(ctx context.Context) ([]Document, error) {
	return s.docs.List(ctx)
}

// Process はドキュメントを取り込む: テキスト抽出 → チャンク分割 →
// Embedding生成 → インデックス投入。完了時に状態を processed、
// 失敗時は error に更新する。バックグラウンド実行を前提とし、
// エラーは戻り値とログの両方へ出す。
func (s *Service) Process(ctx context.Context, doc Document) error {
	s.logger.Info("processing document", "documentID", doc.ID, "filename", doc.Filename)

	if err := s.process(ctx, doc); err != nil {
		s.logger.Error("document processing failed", "documentID", doc.ID, "error", err)
		if updateErr := s.docs.UpdateStatus(ctx, doc.ID, StatusError); updateErr != nil {
			s.logger.Error("failed to mark document as error", "documentID", doc.ID, "error", updateErr)
		}
		return err
	}

	if err := s.docs.UpdateStatus(ctx, doc.ID, StatusProcessed); err != nil {
		return fmt.Errorf("failed to mark document as processed: %w", err)
	}

	s.logger.Info("document processing complete", "documentID", doc.ID)
	return nil
}

func (s *Service) process(ctx context.Context, doc Document) error {
	text, err := s.extractor.Extract(doc.StoredPath)
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}
	if text == "" {
		return ErrEmptyDocument
	}

	snap := s.runtime.Snapshot()
	parts := s.chunker.Split(text, snap.ChunkSize, snap.ChunkOverlap)
	if len(parts) == 0 {
		return ErrEmptyDocument
	}

	chunks := s.buildChunks(doc, parts)

	s.logger.Info("document chunked",
		"documentID", doc.ID,
		"chunks", len(chunks),
		"chunkSize", snap.ChunkSize,
		"chunkOverlap", snap.ChunkOverlap,
	)

	if err := s.embedChunks(ctx, chunks); err != nil {
		return err
	}

	if err := s.index.Insert(ctx, chunks); err != nil {
		return fmt.Errorf("failed to insert chunks into index: %w", err)
	}

	return nil
}

// buildChunks は分割済みテキストからインデックス投入用チャンクを組み立てる
func (s *Service) buildChunks(doc Document, parts []string) []Chunk {
	chunks := make([]Chunk, 0, len(parts))
	for i, part := range parts {
		metadata := map[string]string{
			"document_id":    doc.ID.String(),
			"document_title": doc.Title,
		}
		if doc.DocumentType != "" {
			metadata["document_type"] = doc.DocumentType
		}
		if doc.Jurisdiction != "" {
			metadata["jurisdiction"] = doc.Jurisdiction
		}
		if doc.Date != "" {
			metadata["date"] = doc.Date
		}

		chunks = append(chunks, Chunk{
			ChunkID:       fmt.Sprintf("%s_chunk_%d", doc.ID, i),
			DocumentID:    doc.ID.String(),
			DocumentTitle: doc.Title,
			Text:          part,
			Metadata:      metadata,
			TokenCount:    s.chunker.CountTokens(part),
		})
	}
	return chunks
}

// embedChunks はチャンクのEmbeddingをバッチ単位で生成して埋める
func (s *Service) embedChunks(ctx context.Context, chunks []Chunk) error {
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Text)
		}

		vectors, err := s.embedder.BatchEmbed(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to generate embeddings: %w", err)
		}
		if len(vectors) != len(texts) {
			return fmt.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(texts))
		}

		for i, vector := range vectors {
			chunks[start+i].Embedding = vector
		}
	}
	return nil
}

// Delete はドキュメントと関連データを削除する。インデックスからは
// ドキュメント単位でまとめて削除され、部分的な削除は起こらない。
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	docOpt, err := s.docs.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up document: %w", err)
	}
	doc, ok := docOpt.Get()
	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}

	if err := s.index.DeleteByDocument(ctx, id.String()); err != nil {
		return fmt.Errorf("failed to delete chunks from index: %w", err)
	}

	if doc.StoredPath != "" {
		if err := os.Remove(doc.StoredPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove stored file", "path", doc.StoredPath, "error", err)
		}
	}

	if err := s.docs.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document metadata: %w", err)
	}

	return nil
}

// ReindexAll はインデックスを空にし、全ドキュメントを再取り込みする。
// 管理操作のトリガ元リクエストをブロックしないよう、呼び出し側が
// バックグラウンドで実行する想定。
func (s *Service) ReindexAll(ctx context.Context) error {
	if err := s.index.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset index: %w", err)
	}

	docs, err := s.docs.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	var failed int
	for _, doc := range docs {
		if err := s.docs.UpdateStatus(ctx, doc.ID, StatusProcessing); err != nil {
			s.logger.Warn("failed to mark document as processing", "documentID", doc.ID, "error", err)
		}
		if err := s.Process(ctx, doc); err != nil {
			failed++
		}
	}

	s.logger.Info("reindex finished", "documents", len(docs), "failed", failed)
	return nil
}

// Stats はコーパスの統計情報を返す
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	docs, err := s.docs.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to list documents: %w", err)
	}

	totalChunks, err := s.index.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count chunks: %w", err)
	}

	// ベクトル・メタデータ・本文の平均サイズからの概算値
	const avgMetadataBytes = 200
	const avgChunkTextBytes = 500
	estimated := int64(totalChunks) * int64(4*s.dimension+avgMetadataBytes+avgChunkTextBytes)

	return Stats{
		DocumentCount:   len(docs),
		TotalChunks:     totalChunks,
		VectorStoreSize: formatByteSize(estimated),
		AvgQueryTime:    0.2,
	}, nil
}

func formatByteSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d bytes", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	}
}
