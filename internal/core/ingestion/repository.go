package ingestion

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/samber/mo"
)

var (
	// ErrEmptyDocument はテキストが1文字も抽出できなかった場合のエラー
	ErrEmptyDocument = errors.New("no text extracted from document")

	// ErrDocumentNotFound は指定IDのドキュメントが存在しない場合のエラー
	ErrDocumentNotFound = errors.New("document not found")
)

// DocumentRepository はドキュメントメタデータの永続化ポートです
type DocumentRepository interface {
	// Save はドキュメントを保存する（IDが既存の場合は上書き）
	Save(ctx context.Context, doc Document) error

	// UpdateStatus は処理状態を更新する
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	// Get はドキュメントを取得する
	Get(ctx context.Context, id uuid.UUID) (mo.Option[Document], error)

	// List は全ドキュメントをアップロード日時の新しい順に返す
	List(ctx context.Context) ([]Document, error)

	// Delete はドキュメントを削除する
	Delete(ctx context.Context, id uuid.UUID) error
}

// Index はベクトルインデックスへの書き込みポートです
type Index interface {
	// Insert はチャンク列をインデックスへ投入する
	Insert(ctx context.Context, chunks []Chunk) error

	// DeleteByDocument は指定ドキュメントの全チャンクを削除する。
	// ドキュメント単位で全削除され、部分削除は起こらない。
	DeleteByDocument(ctx context.Context, documentID string) error

	// Reset はインデックスを空にする
	Reset(ctx context.Context) error

	// Count はインデックス中のチャンク総数を返す
	Count(ctx context.Context) (int, error)
}

// Extractor はファイルからテキストを抽出するポートです
type Extractor interface {
	Extract(filePath string) (string, error)
}

// Embedder はチャンクテキストのEmbeddingをバッチ生成するポートです
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
}
