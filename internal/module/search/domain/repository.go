package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrJobNotFound はpublishedな求人が見つからない場合に返されます
var ErrJobNotFound = errors.New("job not found")

// JobReader は求人検索の読み取りポートです
type JobReader interface {
	// SearchJobs はフィルターに合致するpublished求人の1ページと総件数を返します
	// ページと総件数は同一スナップショットから計算されます
	SearchJobs(ctx context.Context, boardID uuid.UUID, filters Filters) (*SearchOutput, error)

	// GetJob はpublishedな求人の詳細を取得します
	GetJob(ctx context.Context, boardID, jobID uuid.UUID) (*Job, error)
}

// LocationReader は勤務地オートコンプリートの読み取りポートです
type LocationReader interface {
	// SearchLocations は検索ドキュメントに対するプレフィックスマッチで
	// 勤務地候補を返します
	SearchLocations(ctx context.Context, tsQuery string) ([]Location, error)
}

// ProjectReader はフィルター選択肢の読み取りポートです
type ProjectReader interface {
	// ListProjects はフィルターとして選択可能なプロジェクト一覧を返します
	ListProjects(ctx context.Context) ([]Project, error)
}
