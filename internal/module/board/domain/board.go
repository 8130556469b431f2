package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrBoardNotFound は対応するボードが存在しない場合に返されます
var ErrBoardNotFound = errors.New("board not found")

// Reader はボード（テナント）解決の読み取りポートです
type Reader interface {
	// GetBoardID はリクエストのホスト名からボードIDを解決します
	GetBoardID(ctx context.Context, host string) (uuid.UUID, error)
}
