package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jinford/ossjobs/internal/module/board/domain"
)

// BoardRepository はボード解決の永続化アダプターです
type BoardRepository struct {
	pool *pgxpool.Pool
}

// NewBoardRepository は新しいボードリポジトリを作成します
func NewBoardRepository(pool *pgxpool.Pool) *BoardRepository {
	return &BoardRepository{pool: pool}
}

var _ domain.Reader = (*BoardRepository)(nil)

// GetBoardID はホスト名からボードIDを解決します
func (r *BoardRepository) GetBoardID(ctx context.Context, host string) (uuid.UUID, error) {
	var boardID uuid.UUID
	err := r.pool.QueryRow(ctx,
		"select board_id from board where host = $1", host,
	).Scan(&boardID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, domain.ErrBoardNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to get board id: %w", err)
	}
	return boardID, nil
}
