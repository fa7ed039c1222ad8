package ingestion

import (
	"time"

	"github.com/google/uuid"
)

// Status はドキュメントの処理状態を表す
type Status string

const (
	// StatusProcessing は取り込み処理中
	StatusProcessing Status = "processing"
	// StatusProcessed は取り込み完了
	StatusProcessed Status = "processed"
	// StatusError は取り込み失敗
	StatusError Status = "error"
)

// Document は取り込まれた法律文書のメタデータを表す
type Document struct {
	ID           uuid.UUID `json:"id"`
	Filename     string    `json:"filename"`
	Title        string    `json:"title"`
	DocumentType string    `json:"documentType,omitempty"`
	Jurisdiction string    `json:"jurisdiction,omitempty"`
	Date         string    `json:"date,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
	Status       Status    `json:"status"`
	Size         int64     `json:"size"`
	StoredPath   string    `json:"-"`
}

// Chunk はインデックスへ投入するEmbedding付きチャンクを表す。
// ChunkID は "{documentID}_chunk_{連番}" 形式で、連番はドキュメント内で
// 0..N-1 の密な並びになる。作成後は所属ドキュメントの削除まで不変。
type Chunk struct {
	ChunkID       string
	DocumentID    string
	DocumentTitle string
	Text          string
	Metadata      map[string]string
	TokenCount    int
	Embedding     []float32
}
