package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/jinford/legal-rag/internal/core/qa"
)

// QueryAction は質問を実行して回答を表示するコマンドのアクション
func QueryAction(ctx context.Context, cmd *cli.Command) error {
	query := cmd.String("query")
	topK := cmd.Int("top-k")
	authority := cmd.Bool("authority")
	envFile := cmd.String("env")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	result, err := appCtx.Container.QAService.Query(ctx, qa.QueryParams{
		Query:          query,
		ChunkCount:     int(topK),
		AuthorityOrder: authority,
	})
	if err != nil {
		return err
	}

	fmt.Println(result.Response)
	fmt.Println()
	fmt.Printf("信頼度: %.2f\n", result.ConfidenceScore)
	if len(result.Citations) > 0 {
		fmt.Println("出典:")
		for i, c := range result.Citations {
			fmt.Printf("  [%d] %s (score=%.3f)\n", i+1, c.DocumentTitle, c.RelevanceScore)
		}
	}

	return nil
}

// HistoryListAction はクエリ履歴を表示するコマンドのアクション
func HistoryListAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	items, err := appCtx.Container.HistoryService.List(ctx)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("履歴はありません")
		return nil
	}

	for _, item := range items {
		fmt.Printf("[%s] Q: %s\n", item.Timestamp.Format("2006-01-02 15:04:05"), item.Query)
	}
	return nil
}
