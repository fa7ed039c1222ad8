package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/jinford/legal-rag/internal/core/ingestion"
	"github.com/jinford/legal-rag/internal/core/retrieval"
)

// VectorIndex は pgvector を使ったチャンクインデックスの実装。
// 検索側（retrieval.Index）と取り込み側（ingestion.Index）の両ポートを満たす。
type VectorIndex struct {
	pool *pgxpool.Pool
}

// NewVectorIndex は新しい VectorIndex を作成する
func NewVectorIndex(pool *pgxpool.Pool) *VectorIndex {
	return &VectorIndex{pool: pool}
}

// コンパイル時の型チェック
var (
	_ retrieval.Index = (*VectorIndex)(nil)
	_ ingestion.Index = (*VectorIndex)(nil)
)

// Query はクエリベクトルに対するコサイン距離の近い順にチャンクを返す。
// filtersが空でない場合はJSONBメタデータの包含条件で絞り込む。
func (x *VectorIndex) Query(ctx context.Context, vector []float32, topK int, filters map[string]string) ([]retrieval.Candidate, error) {
	query := `
		SELECT chunk_id, document_id, document_title, content, metadata,
		       embedding <=> $1 AS distance
		FROM chunks`
	args := []any{pgvector.NewVector(vector)}

	if len(filters) > 0 {
		filterJSON, err := json.Marshal(filters)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal filters: %w", err)
		}
		query += ` WHERE metadata @> $2`
		args = append(args, filterJSON)
	}

	query += fmt.Sprintf(` ORDER BY distance LIMIT $%d`, len(args)+1)
	args = append(args, topK)

	rows, err := x.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var candidates []retrieval.Candidate
	for rows.Next() {
		var (
			c            retrieval.Candidate
			metadataJSON []byte
		)
		if err := rows.Scan(&c.ChunkID, &c.DocumentID, &c.DocumentTitle, &c.Text, &metadataJSON, &c.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}
		if err := json.Unmarshal(metadataJSON, &c.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chunk metadata: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chunk rows: %w", err)
	}

	return candidates, nil
}

// Insert はチャンク列をバッチでインデックスへ投入する
func (x *VectorIndex) Insert(ctx context.Context, chunks []ingestion.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal chunk metadata: %w", err)
		}

		batch.Queue(`
			INSERT INTO chunks (chunk_id, document_id, document_title, content, metadata, token_count, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (chunk_id) DO UPDATE SET
				document_title = EXCLUDED.document_title,
				content = EXCLUDED.content,
				metadata = EXCLUDED.metadata,
				token_count = EXCLUDED.token_count,
				embedding = EXCLUDED.embedding`,
			chunk.ChunkID,
			chunk.DocumentID,
			chunk.DocumentTitle,
			chunk.Text,
			metadataJSON,
			chunk.TokenCount,
			pgvector.NewVector(chunk.Embedding),
		)
	}

	results := x.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range chunks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert chunk at index %d: %w", i, err)
		}
	}

	return nil
}

// DeleteByDocument は指定ドキュメントの全チャンクを削除する
func (x *VectorIndex) DeleteByDocument(ctx context.Context, documentID string) error {
	if _, err := x.pool.Exec(ctx, `DELETE FROM chunks WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("failed to delete chunks by document: %w", err)
	}
	return nil
}

// Reset はインデックスを空にする
func (x *VectorIndex) Reset(ctx context.Context) error {
	if _, err := x.pool.Exec(ctx, `TRUNCATE chunks`); err != nil {
		return fmt.Errorf("failed to reset index: %w", err)
	}
	return nil
}

// Count はインデックス中のチャンク総数を返す
func (x *VectorIndex) Count(ctx context.Context) (int, error) {
	var count int
	if err := x.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}
