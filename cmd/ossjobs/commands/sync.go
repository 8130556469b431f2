package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/jinford/ossjobs/internal/platform/container"
)

// SyncRunAction はランドスケープ同期を一度だけ実行します
func SyncRunAction(ctx context.Context, cmd *cli.Command) error {
	app, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer app.Close()

	services := container.New(app.Config, app.Database, app.Redis)

	if err := services.Syncer.Run(ctx); err != nil {
		return fmt.Errorf("failed to sync landscapes: %w", err)
	}
	return nil
}
