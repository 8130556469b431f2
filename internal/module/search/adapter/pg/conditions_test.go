package pg

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/ossjobs/internal/module/search/domain"
)

func TestCompileConditions_BaseOnly(t *testing.T) {
	// フィルターが空でもベース述語（published + ボード所属）は常に付く
	boardID := uuid.New()
	b := compileConditions(boardID, domain.Filters{})

	require.Len(t, b.conds, 2)
	assert.Equal(t, "j.status = 'published'", b.conds[0])
	assert.Equal(t, "e.board_id = $1", b.conds[1])
	assert.Equal(t, []any{boardID}, b.args)
}

func TestCompileConditions_AllDimensions(t *testing.T) {
	boardID := uuid.New()
	locationID := uuid.New()
	maxDistance := int64(30000)
	salaryMin := int64(80000)
	seniority := domain.SenioritySenior
	openSource := 50
	upstream := 10
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	b := compileConditions(boardID, domain.Filters{
		TSQuery:            "backend",
		Kind:               []domain.JobKind{domain.JobKindFullTime},
		Workplace:          []domain.Workplace{domain.WorkplaceRemote},
		Benefits:           []string{"pto"},
		Skills:             []string{"go", "postgres"},
		Projects:           []string{"kubernetes"},
		LocationID:         &locationID,
		MaxDistance:        &maxDistance,
		SalaryMin:          &salaryMin,
		Seniority:          &seniority,
		OpenSource:         &openSource,
		UpstreamCommitment: &upstream,
		DateFrom:           &from,
		DateTo:             &to,
	})

	clause := b.whereClause()
	assert.Contains(t, clause, "j.tsdoc @@ to_tsquery('simple', $2)")
	assert.Contains(t, clause, "j.kind = any($3)")
	assert.Contains(t, clause, "j.workplace = any($4)")
	assert.Contains(t, clause, "j.benefits @> $5")
	assert.Contains(t, clause, "j.skills @> $6")
	assert.Contains(t, clause, "p.name = any($7)")
	assert.Contains(t, clause, "st_dwithin(l.coordinates, (select coordinates from location where location_id = $8), $9)")
	assert.Contains(t, clause, "coalesce(j.salary, j.salary_min) >= $10")
	assert.Contains(t, clause, "j.seniority = $11")
	assert.Contains(t, clause, "j.open_source >= $12")
	assert.Contains(t, clause, "j.upstream_commitment >= $13")
	assert.Contains(t, clause, "j.published_at >= $14")
	assert.Contains(t, clause, "j.published_at < ($15::date + 1)")

	// プレースホルダと引数の数が一致している
	assert.Len(t, b.args, 15)
	assert.Equal(t, "(backend:* | backend)", b.args[1])
}

func TestCompileConditions_UnparsableTSQueryIsNoop(t *testing.T) {
	// 展開不能なテキストクエリは述語を追加しない
	b := compileConditions(uuid.New(), domain.Filters{TSQuery: "!!!"})

	assert.Len(t, b.conds, 2)
	assert.NotContains(t, b.whereClause(), "tsdoc")
}

func TestCompileConditions_LocationRequiresBothParams(t *testing.T) {
	// 基準地点と最大距離の片方だけでは距離述語を追加しない
	locationID := uuid.New()
	b := compileConditions(uuid.New(), domain.Filters{LocationID: &locationID})
	assert.NotContains(t, b.whereClause(), "st_dwithin")

	maxDistance := int64(1000)
	b = compileConditions(uuid.New(), domain.Filters{MaxDistance: &maxDistance})
	assert.NotContains(t, b.whereClause(), "st_dwithin")
}

func TestCompileConditions_NormalizedFiltersRoundTrip(t *testing.T) {
	// ノーマライザの出力をそのまま受け取れる
	f := domain.NormalizeFilters(url.Values{
		"ts_query": {"rust"},
		"kind":     {"full-time"},
	})
	b := compileConditions(uuid.New(), f)

	clause := b.whereClause()
	assert.Contains(t, clause, "j.status = 'published'")
	assert.Contains(t, clause, "to_tsquery('simple', $2)")
	assert.Contains(t, clause, "j.kind = any($3)")
}
