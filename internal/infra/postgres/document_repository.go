package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/mo"

	"github.com/jinford/legal-rag/internal/core/ingestion"
)

// DocumentRepository は ingestion.DocumentRepository を実装する PostgreSQL リポジトリ
type DocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository は新しい DocumentRepository を作成する
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

// コンパイル時の型チェック
var _ ingestion.DocumentRepository = (*DocumentRepository)(nil)

func (r *DocumentRepository) Save(ctx context.Context, doc ingestion.Document) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO documents (id, filename, title, document_type, jurisdiction, date, uploaded_at, status, size, stored_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			filename = EXCLUDED.filename,
			title = EXCLUDED.title,
			document_type = EXCLUDED.document_type,
			jurisdiction = EXCLUDED.jurisdiction,
			date = EXCLUDED.date,
			status = EXCLUDED.status,
			size = EXCLUDED.size,
			stored_path = EXCLUDED.stored_path`,
		doc.ID, doc.Filename, doc.Title, doc.DocumentType, doc.Jurisdiction,
		doc.Date, doc.UploadedAt, doc.Status, doc.Size, doc.StoredPath,
	)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status ingestion.Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE documents SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document not found: %s", id)
	}
	return nil
}

func (r *DocumentRepository) Get(ctx context.Context, id uuid.UUID) (mo.Option[ingestion.Document], error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, filename, title, document_type, jurisdiction, date, uploaded_at, status, size, stored_path
		FROM documents
		WHERE id = $1`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[ingestion.Document](), nil
		}
		return mo.None[ingestion.Document](), fmt.Errorf("failed to get document: %w", err)
	}
	return mo.Some(doc), nil
}

func (r *DocumentRepository) List(ctx context.Context) ([]ingestion.Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, filename, title, document_type, jurisdiction, date, uploaded_at, status, size, stored_path
		FROM documents
		ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []ingestion.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate document rows: %w", err)
	}

	return docs, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document not found: %s", id)
	}
	return nil
}

func scanDocument(row pgx.Row) (ingestion.Document, error) {
	var doc ingestion.Document
	err := row.Scan(
		&doc.ID, &doc.Filename, &doc.Title, &doc.DocumentType, &doc.Jurisdiction,
		&doc.Date, &doc.UploadedAt, &doc.Status, &doc.Size, &doc.StoredPath,
	)
	return doc, err
}
