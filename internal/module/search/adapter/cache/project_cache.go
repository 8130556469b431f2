package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jinford/ossjobs/internal/platform/cache"

	"github.com/jinford/ossjobs/internal/module/search/domain"
)

// projectsKey はプロジェクト選択肢のキャッシュキーです
const projectsKey = "search:filter-options:projects"

// projectsTTL は選択肢キャッシュの有効期限です
// プロジェクト一覧はレジストリ同期でしか変化しないため長めに保持します
const projectsTTL = time.Hour

// CachedProjectReader はProjectReaderをRedisキャッシュでラップします
// Redisが利用できない場合は常に下位のリーダーへフォールバックします
type CachedProjectReader struct {
	next domain.ProjectReader
	rdb  *redis.Client
}

// NewCachedProjectReader はキャッシュ付きのプロジェクトリーダーを作成します
func NewCachedProjectReader(next domain.ProjectReader, rdb *redis.Client) *CachedProjectReader {
	return &CachedProjectReader{next: next, rdb: rdb}
}

var _ domain.ProjectReader = (*CachedProjectReader)(nil)

// ListProjects はキャッシュを確認してからプロジェクト一覧を取得します
func (r *CachedProjectReader) ListProjects(ctx context.Context) ([]domain.Project, error) {
	if projects, ok := cache.GetJSON[[]domain.Project](ctx, r.rdb, projectsKey); ok {
		return projects, nil
	}

	projects, err := r.next.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	cache.SetJSON(ctx, r.rdb, projectsKey, projects, projectsTTL)
	return projects, nil
}
