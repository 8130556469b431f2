package application

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/ossjobs/internal/module/tracker/domain"
	"github.com/jinford/ossjobs/internal/platform/database"
	"github.com/jinford/ossjobs/internal/platform/database/databasetest"
)

// seedJob はカウンター書き込み先の求人を1件投入します
func seedJob(t *testing.T, pool *pgxpool.Pool, status string) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	boardID := uuid.New()
	employerID := uuid.New()
	jobID := uuid.New()

	_, err := pool.Exec(ctx, `insert into board (board_id, host, name) values ($1, $2, 'Test Board')`,
		boardID, jobID.String()+".example.org")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `insert into employer (employer_id, board_id, company) values ($1, $2, 'Test Corp')`,
		employerID, boardID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `insert into job (job_id, employer_id, status, kind, workplace, title, description)
		values ($1, $2, $3, 'full-time', 'remote', 'Test Job', 'A job for testing')`,
		jobID, employerID, status)
	require.NoError(t, err)

	return jobID
}

func countFor(t *testing.T, pool *pgxpool.Pool, table string, jobID uuid.UUID, day string) int {
	t.Helper()

	var total int
	err := pool.QueryRow(context.Background(),
		"select coalesce(sum(total), 0) from "+table+" where job_id = $1 and day = $2::date",
		jobID, day).Scan(&total)
	require.NoError(t, err)
	return total
}

func TestPgStore_Integration(t *testing.T) {
	pool := databasetest.StartPostgres(t)
	store := NewPgStore(database.NewTransactionProvider(pool))
	ctx := context.Background()

	const day = "2026-08-29"

	t.Run("バッチは加算マージされる", func(t *testing.T) {
		jobID := seedJob(t, pool, "published")

		require.NoError(t, store.UpdateJobViews(ctx, []domain.CounterUpdate{
			{JobID: jobID, Day: day, Total: 3},
		}))
		require.NoError(t, store.UpdateJobViews(ctx, []domain.CounterUpdate{
			{JobID: jobID, Day: day, Total: 2},
		}))

		assert.Equal(t, 5, countFor(t, pool, "job_views", jobID, day))
	})

	t.Run("publishedでない求人への加算は黙って破棄される", func(t *testing.T) {
		published := seedJob(t, pool, "published")
		drafted := seedJob(t, pool, "draft")

		require.NoError(t, store.UpdateSearchAppearances(ctx, []domain.CounterUpdate{
			{JobID: published, Day: day, Total: 1},
			{JobID: drafted, Day: day, Total: 1},
		}))

		assert.Equal(t, 1, countFor(t, pool, "search_appearances", published, day))
		assert.Equal(t, 0, countFor(t, pool, "search_appearances", drafted, day))
	})

	t.Run("同一キーが重複するバッチも合算して書き込める", func(t *testing.T) {
		// 集約器はキーを一意にするが、Storeは任意の呼び出し元の契約として
		// 重複キーを受け付ける
		jobID := seedJob(t, pool, "published")

		require.NoError(t, store.UpdateJobViews(ctx, []domain.CounterUpdate{
			{JobID: jobID, Day: day, Total: 1},
			{JobID: jobID, Day: day, Total: 2},
		}))

		assert.Equal(t, 3, countFor(t, pool, "job_views", jobID, day))
	})

	t.Run("日が違えば別のカウンターになる", func(t *testing.T) {
		jobID := seedJob(t, pool, "published")

		require.NoError(t, store.UpdateJobViews(ctx, []domain.CounterUpdate{
			{JobID: jobID, Day: "2026-08-28", Total: 1},
			{JobID: jobID, Day: "2026-08-29", Total: 2},
		}))

		assert.Equal(t, 1, countFor(t, pool, "job_views", jobID, "2026-08-28"))
		assert.Equal(t, 2, countFor(t, pool, "job_views", jobID, "2026-08-29"))
	})

	t.Run("並行バッチの加算は失われない", func(t *testing.T) {
		jobID := seedJob(t, pool, "published")

		require.NoError(t, store.UpdateJobViews(ctx, []domain.CounterUpdate{
			{JobID: jobID, Day: day, Total: 1},
		}))

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = store.UpdateJobViews(ctx, []domain.CounterUpdate{
					{JobID: jobID, Day: day, Total: 1},
				})
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			require.NoError(t, err)
		}
		assert.Equal(t, 3, countFor(t, pool, "job_views", jobID, day))
	})
}
