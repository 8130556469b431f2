package lock

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Manager はPostgreSQLアドバイザリロックの取得を仲介します
// トランザクションスコープのロック（pg_advisory_xact_lock）を使用するため、
// 明示的な解放は不要でトランザクション終了時に自動的に解放されます。
type Manager struct {
	tx pgx.Tx
}

// NewManager はトランザクションからロックマネージャーを生成します
func NewManager(tx pgx.Tx) *Manager {
	return &Manager{tx: tx}
}

// Key は名前付きカウンターストリームからロックIDを導出します
// 同じ名前は常に同じIDになるため、論理ストリーム単位の直列化に使えます
func Key(parts ...string) int64 {
	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(part))
	}
	hash := h.Sum(nil)

	// ハッシュの最初の8バイトをint64として使用
	var id int64
	for i := 0; i < 8; i++ {
		id = (id << 8) | int64(hash[i])
	}

	return id
}

// Acquire はアドバイザリロックを取得します
// 同じロックIDを保持する他のトランザクションが終了するまでブロックします
func (m *Manager) Acquire(ctx context.Context, lockID int64) error {
	if _, err := m.tx.Exec(ctx, "select pg_advisory_xact_lock($1)", lockID); err != nil {
		return fmt.Errorf("failed to acquire advisory lock: %w", err)
	}
	return nil
}

// AcquireNamed は名前からロックIDを導出して取得します
func (m *Manager) AcquireNamed(ctx context.Context, parts ...string) error {
	return m.Acquire(ctx, Key(parts...))
}
