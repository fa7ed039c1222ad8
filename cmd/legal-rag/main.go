package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jinford/legal-rag/cmd/legal-rag/commands"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 構造化ログの設定
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	envFlag := &cli.StringFlag{
		Name:  "env",
		Usage: "環境変数ファイルパス",
		Value: ".env",
	}

	app := &cli.Command{
		Name:  "legal-rag",
		Usage: "法律文書向け 質問応答（RAG）サービス",
		Commands: []*cli.Command{
			{
				Name:   "server",
				Usage:  "REST APIサーバーを起動",
				Flags:  []cli.Flag{envFlag},
				Action: commands.ServerAction,
			},
			{
				Name:  "document",
				Usage: "ドキュメント管理コマンド",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "ドキュメント一覧を表示",
						Flags:  []cli.Flag{envFlag},
						Action: commands.DocumentListAction,
					},
					{
						Name:  "add",
						Usage: "ローカルファイルを取り込む",
						Flags: []cli.Flag{
							envFlag,
							&cli.StringFlag{
								Name:     "file",
								Usage:    "取り込むファイルパス（PDF/DOCX/TXT/MD）",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "title",
								Usage: "ドキュメントのタイトル（省略時はファイル名）",
							},
							&cli.StringFlag{
								Name:  "type",
								Usage: "文書種別（statute, regulation, case など）",
							},
							&cli.StringFlag{
								Name:  "jurisdiction",
								Usage: "管轄",
							},
							&cli.StringFlag{
								Name:  "date",
								Usage: "文書の日付",
							},
						},
						Action: commands.DocumentAddAction,
					},
					{
						Name:  "delete",
						Usage: "ドキュメントを削除",
						Flags: []cli.Flag{
							envFlag,
							&cli.StringFlag{
								Name:     "id",
								Usage:    "ドキュメントID",
								Required: true,
							},
						},
						Action: commands.DocumentDeleteAction,
					},
					{
						Name:   "reindex",
						Usage:  "全ドキュメントを再インデックス",
						Flags:  []cli.Flag{envFlag},
						Action: commands.ReindexAction,
					},
				},
			},
			{
				Name:  "query",
				Usage: "質問を実行して回答を表示",
				Flags: []cli.Flag{
					envFlag,
					&cli.StringFlag{
						Name:     "query",
						Usage:    "質問文",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "検索するチャンク数",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "authority",
						Usage: "法的権威の高い文書を優先する",
					},
				},
				Action: commands.QueryAction,
			},
			{
				Name:  "history",
				Usage: "履歴管理コマンド",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "クエリ履歴を表示",
						Flags:  []cli.Flag{envFlag},
						Action: commands.HistoryListAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
