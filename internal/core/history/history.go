// Package history はクエリと回答の履歴を新しい順・上限付きで保持する。
package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// MaxItems は保持する履歴件数の上限。超過時は最も古いものから破棄される。
const MaxItems = 20

// Item は1件の履歴エントリを表す
type Item struct {
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// Repository は履歴の永続化ポートです。
// Append は読み取り・上限切り詰め・書き込みを単一のクリティカル
// セクションとして実行しなければならない。
type Repository interface {
	// Append は履歴を追加し、上限を超えた古いエントリを破棄する
	Append(ctx context.Context, item Item, max int) error

	// List は新しい順に履歴を返す
	List(ctx context.Context, max int) ([]Item, error)
}

// Service は履歴ログへの操作を提供する
type Service struct {
	repo   Repository
	logger *slog.Logger
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

// NewService は新しい Service を作成する
func NewService(repo Repository, opts ...ServiceOption) *Service {
	svc := &Service{
		repo:   repo,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Append はクエリと回答を現在時刻付きで追記する
func (s *Service) Append(ctx context.Context, query, response string) error {
	item := Item{
		Query:     query,
		Response:  response,
		Timestamp: time.Now().UTC(),
	}
	if err := s.repo.Append(ctx, item, MaxItems); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// List は新しい順の履歴を返す（ページネーションなし）
func (s *Service) List(ctx context.Context) ([]Item, error) {
	items, err := s.repo.List(ctx, MaxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return items, nil
}
