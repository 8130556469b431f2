package commands

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jinford/ossjobs/internal/platform/cache"
	"github.com/jinford/ossjobs/pkg/config"
	"github.com/jinford/ossjobs/pkg/db"
)

// AppContext はコマンド実行に必要な共通コンテキストを保持する
type AppContext struct {
	Config   *config.Config
	Database *db.DB
	Redis    *redis.Client // REDIS_URL未設定の場合はnil（キャッシュ無効）
}

// NewAppContext は設定ファイルを読み込み、DBに接続して AppContext を作成する
func NewAppContext(ctx context.Context, envFile string) (*AppContext, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		rdb, err = cache.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	}

	return &AppContext{
		Config:   cfg,
		Database: database,
		Redis:    rdb,
	}, nil
}

// Close はAppContextが保持するリソースをクリーンアップする
func (ac *AppContext) Close() {
	if ac.Redis != nil {
		_ = ac.Redis.Close()
	}
	if ac.Database != nil {
		ac.Database.Close()
	}
}
