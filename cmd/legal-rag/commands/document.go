package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/jinford/legal-rag/internal/core/ingestion"
	"github.com/jinford/legal-rag/internal/infra/extract"
)

// DocumentListAction はドキュメント一覧を表示するコマンドのアクション
func DocumentListAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	docs, err := appCtx.Container.IngestionService.ListDocuments(ctx)
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		fmt.Println("ドキュメントはありません")
		return nil
	}

	for _, doc := range docs {
		fmt.Printf("%s  %-10s  %s (%s)\n", doc.ID, doc.Status, doc.Title, doc.Filename)
	}
	return nil
}

// DocumentAddAction はローカルファイルを取り込むコマンドのアクション
func DocumentAddAction(ctx context.Context, cmd *cli.Command) error {
	filePath := cmd.String("file")
	title := cmd.String("title")
	docType := cmd.String("type")
	jurisdiction := cmd.String("jurisdiction")
	date := cmd.String("date")
	envFile := cmd.String("env")

	if !extract.IsSupported(filePath) {
		return fmt.Errorf("unsupported file type: %s", filepath.Ext(filePath))
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("ファイルを開けません: %w", err)
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	filename := filepath.Base(filePath)
	if title == "" {
		title = strings.TrimSuffix(filename, filepath.Ext(filename))
	}

	doc := ingestion.Document{
		ID:           uuid.New(),
		Filename:     filename,
		Title:        title,
		DocumentType: docType,
		Jurisdiction: jurisdiction,
		Date:         date,
		UploadedAt:   time.Now().UTC(),
		Status:       ingestion.StatusProcessing,
		Size:         info.Size(),
		StoredPath:   filePath,
	}

	svc := appCtx.Container.IngestionService
	if err := svc.SaveDocument(ctx, doc); err != nil {
		return err
	}

	slog.Info("取り込みを開始します", "documentID", doc.ID, "file", filePath)
	if err := svc.Process(ctx, doc); err != nil {
		return fmt.Errorf("取り込みに失敗しました: %w", err)
	}

	fmt.Printf("取り込み完了: %s (%s)\n", doc.Title, doc.ID)
	return nil
}

// DocumentDeleteAction はドキュメントを削除するコマンドのアクション
func DocumentDeleteAction(ctx context.Context, cmd *cli.Command) error {
	idStr := cmd.String("id")
	envFile := cmd.String("env")

	id, err := uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("不正なドキュメントID: %s", idStr)
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	if err := appCtx.Container.IngestionService.Delete(ctx, id); err != nil {
		return err
	}

	fmt.Printf("削除しました: %s\n", id)
	return nil
}

// ReindexAction は全ドキュメントを再インデックスするコマンドのアクション
func ReindexAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	slog.Info("再インデックスを開始します")
	if err := appCtx.Container.IngestionService.ReindexAll(ctx); err != nil {
		return err
	}

	fmt.Println("再インデックス完了")
	return nil
}
