package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/jinford/ossjobs/migrations"
	"github.com/jinford/ossjobs/pkg/config"
)

// MigrateUpAction はデータベーススキーマを最新まで適用します
func MigrateUpAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("env"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := migrations.Up(cfg.Database.DSN()); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	slog.Info("migrations applied")
	return nil
}
