package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jinford/ossjobs/internal/platform/cache"

	"github.com/jinford/ossjobs/internal/module/board/domain"
)

// boardTTL はホスト→ボードID解決結果のキャッシュ期間です
const boardTTL = time.Hour

// CachedReader はboard.ReaderをRedisキャッシュでラップします
// ボードの対応はほぼ不変なため、リクエストごとのDB参照を避けます
type CachedReader struct {
	next domain.Reader
	rdb  *redis.Client
}

// NewCachedReader はキャッシュ付きのボードリーダーを作成します
func NewCachedReader(next domain.Reader, rdb *redis.Client) *CachedReader {
	return &CachedReader{next: next, rdb: rdb}
}

var _ domain.Reader = (*CachedReader)(nil)

// GetBoardID はキャッシュを確認してからボードIDを解決します
// ボードが存在しないという結果はキャッシュしません
func (r *CachedReader) GetBoardID(ctx context.Context, host string) (uuid.UUID, error) {
	key := "board:host:" + host
	if id, ok := cache.GetJSON[uuid.UUID](ctx, r.rdb, key); ok {
		return id, nil
	}

	id, err := r.next.GetBoardID(ctx, host)
	if err != nil {
		return uuid.Nil, err
	}

	cache.SetJSON(ctx, r.rdb, key, id, boardTTL)
	return id, nil
}
