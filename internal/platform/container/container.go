// Package container はアプリケーションの依存関係の組み立てを一箇所に
// 集約します。アダプターの差し替えはオプションで行います。
package container

import (
	"github.com/redis/go-redis/v9"

	boardcache "github.com/jinford/ossjobs/internal/module/board/adapter/cache"
	boardpg "github.com/jinford/ossjobs/internal/module/board/adapter/pg"
	boarddomain "github.com/jinford/ossjobs/internal/module/board/domain"
	"github.com/jinford/ossjobs/internal/module/registry/adapter/landscape"
	registryapp "github.com/jinford/ossjobs/internal/module/registry/application"
	registrydomain "github.com/jinford/ossjobs/internal/module/registry/domain"
	searchcache "github.com/jinford/ossjobs/internal/module/search/adapter/cache"
	searchpg "github.com/jinford/ossjobs/internal/module/search/adapter/pg"
	searchapp "github.com/jinford/ossjobs/internal/module/search/application"
	searchdomain "github.com/jinford/ossjobs/internal/module/search/domain"
	trackerapp "github.com/jinford/ossjobs/internal/module/tracker/application"
	"github.com/jinford/ossjobs/internal/platform/database"
	"github.com/jinford/ossjobs/pkg/config"
	"github.com/jinford/ossjobs/pkg/db"
)

// ServiceContainer はアプリケーションサービスとその依存を保持します
type ServiceContainer struct {
	Search    *searchapp.SearchService
	Tracker   *trackerapp.Tracker
	Syncer    *registryapp.Syncer
	Scheduler *registryapp.Scheduler
	Boards    boarddomain.Reader
}

type containerOptions struct {
	landscape   registrydomain.Landscape
	trackerOpts []trackerapp.Option
}

// Option は ServiceContainer 構築時のオプション
type Option func(*containerOptions)

// WithLandscape はlandscapeクライアントを差し替える
func WithLandscape(client registrydomain.Landscape) Option {
	return func(opts *containerOptions) {
		opts.landscape = client
	}
}

// WithTrackerOptions はトラッカーへ追加オプションを渡す
func WithTrackerOptions(trackerOpts ...trackerapp.Option) Option {
	return func(opts *containerOptions) {
		opts.trackerOpts = append(opts.trackerOpts, trackerOpts...)
	}
}

// New は設定と接続からコンテナを生成します
// rdbがnilの場合、キャッシュ層は挟まずデータベースへ直接問い合わせます。
func New(cfg *config.Config, conn *db.DB, rdb *redis.Client, opts ...Option) *ServiceContainer {
	options := containerOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	pool := conn.Pool
	provider := database.NewTransactionProvider(pool)

	// イベントトラッカー
	store := trackerapp.NewPgStore(provider)
	trackerOpts := append(
		[]trackerapp.Option{trackerapp.WithFlushInterval(cfg.Tracker.FlushInterval)},
		options.trackerOpts...,
	)
	tracker := trackerapp.NewTracker(store, trackerOpts...)

	// 検索サービス
	var projects searchdomain.ProjectReader = searchpg.NewProjectRepository(pool)
	var boards boarddomain.Reader = boardpg.NewBoardRepository(pool)
	if rdb != nil {
		projects = searchcache.NewCachedProjectReader(projects, rdb)
		boards = boardcache.NewCachedReader(boards, rdb)
	}
	search := searchapp.NewSearchService(
		searchpg.NewJobRepository(pool),
		searchpg.NewLocationRepository(pool),
		projects,
		tracker,
	)

	// レジストリ同期
	landscapeClient := options.landscape
	if landscapeClient == nil {
		landscapeClient = landscape.NewClient()
	}
	syncer := registryapp.NewSyncer(provider, landscapeClient)
	scheduler := registryapp.NewScheduler(syncer, cfg.Registry.SyncSchedule)

	return &ServiceContainer{
		Search:    search,
		Tracker:   tracker,
		Syncer:    syncer,
		Scheduler: scheduler,
		Boards:    boards,
	}
}
