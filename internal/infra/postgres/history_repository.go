package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jinford/legal-rag/internal/core/history"
)

// HistoryRepository は history.Repository を実装する PostgreSQL リポジトリ
type HistoryRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository は新しい HistoryRepository を作成する
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// コンパイル時の型チェック
var _ history.Repository = (*HistoryRepository)(nil)

// Append は履歴を1件追加し、上限を超えた古い行を同一トランザクションで
// 削除する。追加とトリムの間に別の読み取りが上限超過を観測することはない。
func (r *HistoryRepository) Append(ctx context.Context, item history.Item, max int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO query_history (query, response, created_at)
		VALUES ($1, $2, $3)`,
		item.Query, item.Response, item.Timestamp,
	); err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM query_history
		WHERE id NOT IN (
			SELECT id FROM query_history ORDER BY id DESC LIMIT $1
		)`, max,
	); err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit history transaction: %w", err)
	}
	return nil
}

// List は履歴を新しい順に最大max件返す
func (r *HistoryRepository) List(ctx context.Context, max int) ([]history.Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT query, response, created_at
		FROM query_history
		ORDER BY id DESC
		LIMIT $1`, max)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var items []history.Item
	for rows.Next() {
		var item history.Item
		if err := rows.Scan(&item.Query, &item.Response, &item.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history rows: %w", err)
	}

	return items, nil
}
