package pg

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jinford/ossjobs/internal/module/search/domain"
)

// condBuilder はフィルター次元ごとに独立したSQL述語を組み立てます
//
// 各applyXxxは対象の次元が未指定なら何も追加しません（常に真の述語）。
// 追加された述語はANDで結合されます。
type condBuilder struct {
	conds []string
	args  []any
}

// bind は引数を登録してプレースホルダを返します
func (b *condBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// where は述語を追加します
func (b *condBuilder) where(cond string) {
	b.conds = append(b.conds, cond)
}

// whereClause は述語をANDで結合したWHERE句の中身を返します
func (b *condBuilder) whereClause() string {
	return strings.Join(b.conds, "\nand ")
}

// compileConditions はフィルターから述語の集合を組み立てます
//
// ベース述語（published状態かつ対象ボード所属）は常に適用されます。
func compileConditions(boardID uuid.UUID, f domain.Filters) *condBuilder {
	b := &condBuilder{}

	b.where("j.status = 'published'")
	b.where("e.board_id = " + b.bind(boardID))

	b.applyTSQuery(f.TSQuery)
	b.applyKind(f.Kind)
	b.applyWorkplace(f.Workplace)
	b.applyBenefits(f.Benefits)
	b.applySkills(f.Skills)
	b.applyProjects(f.Projects)
	b.applyLocation(f.LocationID, f.MaxDistance)
	b.applySalaryMin(f.SalaryMin)
	b.applySeniority(f.Seniority)
	b.applyOpenSource(f.OpenSource)
	b.applyUpstreamCommitment(f.UpstreamCommitment)
	b.applyDateRange(f.DateFrom, f.DateTo)

	return b
}

// applyTSQuery は自由テキストクエリを検索ドキュメントへのマッチに変換します
func (b *condBuilder) applyTSQuery(input string) {
	expr := ExpandTSQuery(input)
	if expr == "" {
		return
	}
	b.where("j.tsdoc @@ to_tsquery('simple', " + b.bind(expr) + ")")
}

// applyKind は雇用形態のメンバーシップ述語を追加します
func (b *condBuilder) applyKind(kinds []domain.JobKind) {
	if len(kinds) == 0 {
		return
	}
	values := make([]string, len(kinds))
	for i, k := range kinds {
		values[i] = string(k)
	}
	b.where("j.kind = any(" + b.bind(values) + ")")
}

// applyWorkplace は勤務形態のメンバーシップ述語を追加します
func (b *condBuilder) applyWorkplace(workplaces []domain.Workplace) {
	if len(workplaces) == 0 {
		return
	}
	values := make([]string, len(workplaces))
	for i, w := range workplaces {
		values[i] = string(w)
	}
	b.where("j.workplace = any(" + b.bind(values) + ")")
}

// applyBenefits は福利厚生の包含述語を追加します（求人側が上位集合）
func (b *condBuilder) applyBenefits(benefits []string) {
	if len(benefits) == 0 {
		return
	}
	b.where("j.benefits @> " + b.bind(benefits))
}

// applySkills はスキルの包含述語を追加します（求人側が上位集合）
func (b *condBuilder) applySkills(skills []string) {
	if len(skills) == 0 {
		return
	}
	b.where("j.skills @> " + b.bind(skills))
}

// applyProjects は紐づくプロジェクト名のメンバーシップ述語を追加します
// 未知のプロジェクト名は単に何にもマッチしません
func (b *condBuilder) applyProjects(names []string) {
	if len(names) == 0 {
		return
	}
	b.where(`exists (
    select 1 from job_project jp
    join project p on p.project_id = jp.project_id
    where jp.job_id = j.job_id and p.name = any(` + b.bind(names) + `)
)`)
}

// applyLocation は基準地点からの距離述語を追加します
// 基準地点と最大距離の両方が指定された場合のみ適用されます
func (b *condBuilder) applyLocation(locationID *uuid.UUID, maxDistance *int64) {
	if locationID == nil || maxDistance == nil {
		return
	}
	b.where("st_dwithin(l.coordinates, (select coordinates from location where location_id = " +
		b.bind(*locationID) + "), " + b.bind(*maxDistance) + ")")
}

// applySalaryMin は最低給与述語を追加します
// 単一給与があればそれと、なければレンジ下限と比較します。
// どちらも未設定の求人はこのフィルターが有効な間は除外されます。
func (b *condBuilder) applySalaryMin(min *int64) {
	if min == nil {
		return
	}
	b.where("coalesce(j.salary, j.salary_min) >= " + b.bind(*min))
}

// applySeniority は経験レベルの完全一致述語を追加します
func (b *condBuilder) applySeniority(seniority *domain.Seniority) {
	if seniority == nil {
		return
	}
	b.where("j.seniority = " + b.bind(string(*seniority)))
}

// applyOpenSource はオープンソース比率の下限述語を追加します
func (b *condBuilder) applyOpenSource(min *int) {
	if min == nil {
		return
	}
	b.where("j.open_source >= " + b.bind(*min))
}

// applyUpstreamCommitment はアップストリーム貢献比率の下限述語を追加します
func (b *condBuilder) applyUpstreamCommitment(min *int) {
	if min == nil {
		return
	}
	b.where("j.upstream_commitment >= " + b.bind(*min))
}

// applyDateRange は公開日の範囲述語を追加します（指定された側のみ、両端含む）
func (b *condBuilder) applyDateRange(from, to *time.Time) {
	if from != nil {
		b.where("j.published_at >= " + b.bind(*from))
	}
	if to != nil {
		// toの日付当日いっぱいまでを含める
		b.where("j.published_at < (" + b.bind(*to) + "::date + 1)")
	}
}
