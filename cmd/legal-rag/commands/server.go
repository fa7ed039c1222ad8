package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	httpserver "github.com/jinford/legal-rag/internal/interface/http"
)

// ServerAction はREST APIサーバーを起動するコマンドのアクション
func ServerAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	cont := appCtx.Container
	addr := fmt.Sprintf("%s:%d", appCtx.Config.Server.Host, appCtx.Config.Server.Port)

	server := httpserver.NewServer(
		addr,
		cont.QAService,
		cont.HistoryService,
		cont.IngestionService,
		cont.Runtime,
		cont.EmbedderHandle,
		cont.NewEmbedder,
		appCtx.Config.UploadDir,
		httpserver.WithLogger(appCtx.Logger()),
	)

	slog.Info("サーバーを起動します", "addr", addr)
	if err := server.Run(ctx); err != nil {
		slog.Error("サーバーが異常終了しました", "error", err)
		return err
	}

	return nil
}
