package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jinford/ossjobs/internal/module/search/domain"
)

// locationSearchLimit はオートコンプリート候補の最大件数です
const locationSearchLimit = 20

// LocationRepository は勤務地オートコンプリートの永続化アダプターです
type LocationRepository struct {
	pool *pgxpool.Pool
}

// NewLocationRepository は新しい勤務地リポジトリを作成します
func NewLocationRepository(pool *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{pool: pool}
}

var _ domain.LocationReader = (*LocationRepository)(nil)

// SearchLocations は勤務地の検索ドキュメントに対してプレフィックスマッチを
// 実行します。都市名は国名・州名より高い重みで索引されています。
func (r *LocationRepository) SearchLocations(ctx context.Context, tsQuery string) ([]domain.Location, error) {
	expr := ExpandTSQuery(tsQuery)
	if expr == "" {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
        select location_id, city, country, state
        from location
        where tsdoc @@ to_tsquery('simple', $1)
        order by ts_rank(tsdoc, to_tsquery('simple', $1)) desc, city asc
        limit $2`,
		expr, locationSearchLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search locations: %w", err)
	}
	defer rows.Close()

	var locations []domain.Location
	for rows.Next() {
		var loc domain.Location
		if err := rows.Scan(&loc.LocationID, &loc.City, &loc.Country, &loc.State); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read location rows: %w", err)
	}

	return locations, nil
}
