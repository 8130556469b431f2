package pg

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jinford/ossjobs/internal/module/tracker/domain"
)

// Queries はトランザクションスコープのカウンター書き込みクエリです
// 直列化はトランザクション側（アドバイザリロック）で行われる前提です
type Queries struct {
	tx pgx.Tx
}

// New はトランザクションからクエリを生成します
func New(tx pgx.Tx) *Queries {
	return &Queries{tx: tx}
}

// upsertJobViewsSQL は求人閲覧カウンターへのマージです
// publishedな求人のみjoinで残し、それ以外の加算は黙って落とします。
// バッチ内で(job_id, day)が重複していても合算して1行にまとめます
// （on conflictは同一行への2回目の更新をエラーにするため）。
const upsertJobViewsSQL = `
insert into job_views (job_id, day, total)
select v.job_id, v.day, sum(v.total)
from unnest($1::uuid[], $2::text[]::date[], $3::int[]) as v(job_id, day, total)
join job j on j.job_id = v.job_id
where j.status = 'published'
group by v.job_id, v.day
on conflict (job_id, day) do update
set total = job_views.total + excluded.total`

// upsertSearchAppearancesSQL は検索結果表示カウンターへのマージです
const upsertSearchAppearancesSQL = `
insert into search_appearances (job_id, day, total)
select v.job_id, v.day, sum(v.total)
from unnest($1::uuid[], $2::text[]::date[], $3::int[]) as v(job_id, day, total)
join job j on j.job_id = v.job_id
where j.status = 'published'
group by v.job_id, v.day
on conflict (job_id, day) do update
set total = search_appearances.total + excluded.total`

// UpsertJobViews は求人閲覧カウンターへバッチを加算マージします
func (q *Queries) UpsertJobViews(ctx context.Context, data []domain.CounterUpdate) error {
	jobIDs, days, totals := unzipBatch(data)
	if _, err := q.tx.Exec(ctx, upsertJobViewsSQL, jobIDs, days, totals); err != nil {
		return fmt.Errorf("failed to upsert job views: %w", err)
	}
	return nil
}

// UpsertSearchAppearances は検索結果表示カウンターへバッチを加算マージします
func (q *Queries) UpsertSearchAppearances(ctx context.Context, data []domain.CounterUpdate) error {
	jobIDs, days, totals := unzipBatch(data)
	if _, err := q.tx.Exec(ctx, upsertSearchAppearancesSQL, jobIDs, days, totals); err != nil {
		return fmt.Errorf("failed to upsert search appearances: %w", err)
	}
	return nil
}

// unzipBatch はバッチをunnest用の並行配列に分解します
func unzipBatch(data []domain.CounterUpdate) ([]uuid.UUID, []string, []int32) {
	jobIDs := make([]uuid.UUID, len(data))
	days := make([]string, len(data))
	totals := make([]int32, len(data))
	for i, update := range data {
		jobIDs[i] = update.JobID
		days[i] = update.Day
		totals[i] = int32(update.Total)
	}
	return jobIDs, days, totals
}
