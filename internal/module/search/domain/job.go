package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobKind は雇用形態を表します
type JobKind string

const (
	JobKindFullTime   JobKind = "full-time"
	JobKindPartTime   JobKind = "part-time"
	JobKindContractor JobKind = "contractor"
	JobKindInternship JobKind = "internship"
)

// Workplace は勤務形態を表します
type Workplace string

const (
	WorkplaceOnSite Workplace = "on-site"
	WorkplaceRemote Workplace = "remote"
	WorkplaceHybrid Workplace = "hybrid"
)

// Seniority は求められる経験レベルを表します
type Seniority string

const (
	SeniorityEntry  Seniority = "entry"
	SeniorityJunior Seniority = "junior"
	SeniorityMid    Seniority = "mid"
	SenioritySenior Seniority = "senior"
	SeniorityLead   Seniority = "lead"
)

// JobStatus は求人のライフサイクル状態を表します
// 検索やカウンター加算の対象となるのはpublishedの求人のみです
type JobStatus string

const (
	JobStatusDraft           JobStatus = "draft"
	JobStatusPublished       JobStatus = "published"
	JobStatusArchived        JobStatus = "archived"
	JobStatusPendingApproval JobStatus = "pending-approval"
	JobStatusRejected        JobStatus = "rejected"
)

// ValidJobKind は既知の雇用形態かどうかを返します
func ValidJobKind(v string) bool {
	switch JobKind(v) {
	case JobKindFullTime, JobKindPartTime, JobKindContractor, JobKindInternship:
		return true
	}
	return false
}

// ValidWorkplace は既知の勤務形態かどうかを返します
func ValidWorkplace(v string) bool {
	switch Workplace(v) {
	case WorkplaceOnSite, WorkplaceRemote, WorkplaceHybrid:
		return true
	}
	return false
}

// ValidSeniority は既知の経験レベルかどうかを返します
func ValidSeniority(v string) bool {
	switch Seniority(v) {
	case SeniorityEntry, SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityLead:
		return true
	}
	return false
}

// Member はFoundationメンバーシップ情報を表します
type Member struct {
	Name       string  `json:"name"`
	Foundation string  `json:"foundation"`
	Level      string  `json:"level"`
	LogoURL    *string `json:"logo_url,omitempty"`
}

// Employer は求人に紐づく企業のサマリーです
type Employer struct {
	EmployerID uuid.UUID  `json:"employer_id"`
	Company    string     `json:"company"`
	LogoID     *uuid.UUID `json:"logo_id,omitempty"`
	WebsiteURL *string    `json:"website_url,omitempty"`
	Member     *Member    `json:"member,omitempty"`
}

// Location は勤務地のサマリーです
type Location struct {
	LocationID uuid.UUID `json:"location_id"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	State      *string   `json:"state,omitempty"`
}

// Project はFoundationが管理するオープンソースプロジェクトです
// 求人とは多対多で紐づきます
type Project struct {
	Name       string  `json:"name"`
	Foundation string  `json:"foundation"`
	Maturity   string  `json:"maturity"`
	LogoURL    *string `json:"logo_url,omitempty"`
}

// JobSummary は検索結果1件分の非正規化レコードです
type JobSummary struct {
	JobID              uuid.UUID  `json:"job_id"`
	Title              string     `json:"title"`
	Kind               JobKind    `json:"kind"`
	Workplace          Workplace  `json:"workplace"`
	PublishedAt        time.Time  `json:"published_at"`
	Employer           Employer   `json:"employer"`
	Location           *Location  `json:"location,omitempty"`
	Projects           []Project  `json:"projects,omitempty"`
	Seniority          *Seniority `json:"seniority,omitempty"`
	Salary             *int64     `json:"salary,omitempty"`
	SalaryCurrency     *string    `json:"salary_currency,omitempty"`
	SalaryMin          *int64     `json:"salary_min,omitempty"`
	SalaryMax          *int64     `json:"salary_max,omitempty"`
	SalaryPeriod       *string    `json:"salary_period,omitempty"`
	OpenSource         *int       `json:"open_source,omitempty"`
	UpstreamCommitment *int       `json:"upstream_commitment,omitempty"`
	Skills             []string   `json:"skills,omitempty"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

// Job は求人詳細ページ用のフルレコードです
type Job struct {
	JobSummary

	Description       string   `json:"description"`
	Benefits          []string `json:"benefits,omitempty"`
	ApplyInstructions *string  `json:"apply_instructions,omitempty"`
	ApplyURL          *string  `json:"apply_url,omitempty"`
	Qualifications    *string  `json:"qualifications,omitempty"`
	Responsibilities  *string  `json:"responsibilities,omitempty"`
}

// SearchOutput は検索結果のページと総件数の組です
// JobsとTotalは同一スナップショットから取得されるため常に整合しています
type SearchOutput struct {
	Jobs  []JobSummary `json:"jobs"`
	Total int          `json:"total"`
}
