// Package cachetest は統合テスト用のRedisコンテナを提供します。
// Dockerが使えない環境ではテストをスキップします。
package cachetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	"github.com/jinford/ossjobs/internal/platform/cache"
)

// StartRedis はRedisコンテナを起動して接続済みのクライアントを返します
// コンテナはテスト終了時に破棄されます。
func StartRedis(t *testing.T) *redis.Client {
	t.Helper()

	dockerPool, err := dockertest.NewPool("")
	if err != nil {
		t.Skip("Dockerに接続できません。統合テストをスキップします:", err)
	}
	if err := dockerPool.Client.Ping(); err != nil {
		t.Skip("Dockerデーモンが応答しません。統合テストをスキップします:", err)
	}

	resource, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("コンテナの起動に失敗しました: %v", err)
	}
	t.Cleanup(func() {
		_ = dockerPool.Purge(resource)
	})
	_ = resource.Expire(600)

	redisURL := fmt.Sprintf("redis://localhost:%s/0", resource.GetPort("6379/tcp"))

	dockerPool.MaxWait = time.Minute
	var client *redis.Client
	err = dockerPool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		c, err := cache.NewClient(ctx, redisURL)
		if err != nil {
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		t.Fatalf("Redisに接続できませんでした: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}
