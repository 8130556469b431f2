package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewClient はredisURLをパースして接続を確認します
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// GetJSON はキャッシュからJSONとして値を取得します
// キャッシュミスまたはRedis障害時は(zero, false)を返します。キャッシュは
// 常にフォールバック可能なため、障害はログに残すのみでエラーにしません。
func GetJSON[T any](ctx context.Context, rdb *redis.Client, key string) (T, bool) {
	var value T
	data, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("cache get failed", "key", key, "error", err)
		}
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		slog.Warn("cache entry is not valid json", "key", key, "error", err)
		return value, false
	}
	return value, true
}

// SetJSON は値をJSONとしてキャッシュに保存します
func SetJSON(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("cache value is not serializable", "key", key, "error", err)
		return
	}
	if err := rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		slog.Warn("cache set failed", "key", key, "error", err)
	}
}
