package application

import (
	"context"

	"github.com/jinford/ossjobs/internal/platform/database"

	"github.com/jinford/ossjobs/internal/module/tracker/domain"
)

// カウンターストリームごとのロック名。同一ストリームへの並行バッチは
// このロックで直列化され、read-modify-writeの更新消失を防ぎます。
const (
	lockStreamJobViews          = "tracker:job_views"
	lockStreamSearchAppearances = "tracker:search_appearances"
)

// PgStore はdomain.Storeのトランザクション実装です
// 1バッチ = 1トランザクションで、アドバイザリロック取得とマージを
// 原子的に行います。
type PgStore struct {
	provider *database.TransactionProvider
}

// NewPgStore は新しいストアを作成します
func NewPgStore(provider *database.TransactionProvider) *PgStore {
	return &PgStore{provider: provider}
}

var _ domain.Store = (*PgStore)(nil)

// UpdateJobViews は求人閲覧カウンターへバッチをマージします
func (s *PgStore) UpdateJobViews(ctx context.Context, data []domain.CounterUpdate) error {
	_, err := database.Transact(ctx, s.provider, func(a *database.Adapter) (struct{}, error) {
		if err := a.Locks.AcquireNamed(ctx, lockStreamJobViews); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, a.Tracker.UpsertJobViews(ctx, data)
	})
	return err
}

// UpdateSearchAppearances は検索結果表示カウンターへバッチをマージします
func (s *PgStore) UpdateSearchAppearances(ctx context.Context, data []domain.CounterUpdate) error {
	_, err := database.Transact(ctx, s.provider, func(a *database.Adapter) (struct{}, error) {
		if err := a.Locks.AcquireNamed(ctx, lockStreamSearchAppearances); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, a.Tracker.UpsertSearchAppearances(ctx, data)
	})
	return err
}
