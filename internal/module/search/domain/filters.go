package domain

import (
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultLimit はlimit未指定・不正時に使われる1ページの件数です
const DefaultLimit = 10

// MaxLimit は1ページの上限件数です。超過した指定は不正値として扱い、
// コーパス全体を1ページで走査させません
const MaxLimit = 100

// dateLayout はdate_from/date_toパラメータの形式です
const dateLayout = "2006-01-02"

// Filters は型付けされた検索フィルターです
// 各次元は明示的にオプショナルで、未指定（nil・空スライス）の次元は
// 絞り込みに一切寄与しません。
type Filters struct {
	// 自由テキストクエリ（検索ドキュメントに対するマッチ）
	TSQuery string

	// 雇用形態（いずれかに一致）
	Kind []JobKind

	// 勤務形態（いずれかに一致）
	Workplace []Workplace

	// 福利厚生（求人側がすべて含む）
	Benefits []string

	// スキル（求人側がすべて含む）
	Skills []string

	// プロジェクト名（いずれかに紐づく）
	Projects []string

	// 基準地点と最大距離（メートル）。両方指定された場合のみ適用
	LocationID  *uuid.UUID
	MaxDistance *int64

	// 最低給与。求人のsalary、なければsalary_minと比較
	SalaryMin *int64

	// 経験レベル（完全一致）
	Seniority *Seniority

	// オープンソース比率・アップストリーム貢献比率の下限（0-100）
	OpenSource         *int
	UpstreamCommitment *int

	// 公開日の範囲（両端含む）
	DateFrom *time.Time
	DateTo   *time.Time

	// ページネーション
	Limit  int
	Offset int
}

// NormalizeFilters は緩く構造化されたパラメータバッグを型付きフィルターに変換します
//
// 不正な数値・日付・UUIDは「その次元を適用しない」扱いに落とします。
// ユーザー入力由来の検索パラメータでハードエラーにするより、広めの結果を
// 返す方針です。
func NormalizeFilters(values url.Values) Filters {
	f := Filters{
		TSQuery: values.Get("ts_query"),
		Limit:   DefaultLimit,
	}

	for _, v := range values["kind"] {
		if ValidJobKind(v) {
			f.Kind = append(f.Kind, JobKind(v))
		}
	}
	for _, v := range values["workplace"] {
		if ValidWorkplace(v) {
			f.Workplace = append(f.Workplace, Workplace(v))
		}
	}
	f.Benefits = nonEmpty(values["benefits"])
	f.Skills = nonEmpty(values["skills"])
	f.Projects = nonEmpty(values["projects"])

	if id, err := uuid.Parse(values.Get("location_id")); err == nil {
		f.LocationID = &id
	}
	f.MaxDistance = parseInt64(values.Get("max_distance"))
	f.SalaryMin = parseInt64(values.Get("salary_min"))

	if v := values.Get("seniority"); ValidSeniority(v) {
		s := Seniority(v)
		f.Seniority = &s
	}

	f.OpenSource = parsePercentage(values.Get("open_source"))
	f.UpstreamCommitment = parsePercentage(values.Get("upstream_commitment"))

	if t, err := time.Parse(dateLayout, values.Get("date_from")); err == nil {
		f.DateFrom = &t
	}
	if t, err := time.Parse(dateLayout, values.Get("date_to")); err == nil {
		f.DateTo = &t
	}

	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 && limit <= MaxLimit {
		f.Limit = limit
	}
	if offset, err := strconv.Atoi(values.Get("offset")); err == nil && offset > 0 {
		f.Offset = offset
	}

	return f
}

// nonEmpty は空文字列を除いたスライスを返します
func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseInt64 は非負整数としてパースし、不正値はnilを返します
func parseInt64(s string) *int64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// parsePercentage は0-100の整数としてパースし、範囲外・不正値はnilを返します
func parsePercentage(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || v > 100 {
		return nil
	}
	return &v
}
