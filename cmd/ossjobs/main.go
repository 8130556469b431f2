package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/jinford/ossjobs/cmd/ossjobs/commands"
	"github.com/jinford/ossjobs/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 構造化ログの設定
	logger.New(logger.FromEnv())

	envFlag := &cli.StringFlag{
		Name:  "env",
		Usage: "環境変数ファイルパス",
		Value: ".env",
	}

	app := &cli.Command{
		Name:  "ossjobs",
		Usage: "オープンソース求人ボードの検索・トラッキングバックエンド",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "HTTP APIサーバーを起動（トラッカー・レジストリ同期込み）",
				Flags:  []cli.Flag{envFlag},
				Action: commands.ServeAction,
			},
			{
				Name:  "migrate",
				Usage: "マイグレーション管理コマンド",
				Commands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "未適用のマイグレーションを適用",
						Flags:  []cli.Flag{envFlag},
						Action: commands.MigrateUpAction,
					},
				},
			},
			{
				Name:  "sync",
				Usage: "Foundationレジストリ同期コマンド",
				Commands: []*cli.Command{
					{
						Name:   "run",
						Usage:  "登録済みFoundationを1回同期",
						Flags:  []cli.Flag{envFlag},
						Action: commands.SyncRunAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
