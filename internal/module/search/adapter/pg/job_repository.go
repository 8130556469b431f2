package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jinford/ossjobs/internal/module/search/domain"
)

// JobRepository は求人検索の永続化アダプターです
type JobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository は新しい求人リポジトリを作成します
func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

var _ domain.JobReader = (*JobRepository)(nil)

// summaryColumns は検索結果1件分のselect句です
// employer/location/projectsはネストしたサマリーとしてjsonbで取り出します
const summaryColumns = `
    j.job_id,
    j.title,
    j.kind,
    j.workplace,
    j.published_at,
    j.updated_at,
    j.salary,
    j.salary_currency,
    j.salary_min,
    j.salary_max,
    j.salary_period,
    j.seniority,
    j.skills,
    j.open_source,
    j.upstream_commitment,
    jsonb_strip_nulls(jsonb_build_object(
        'employer_id', e.employer_id,
        'company', e.company,
        'logo_id', e.logo_id,
        'website_url', e.website_url,
        'member', case when m.member_id is null then null else jsonb_strip_nulls(jsonb_build_object(
            'name', m.name,
            'foundation', m.foundation,
            'level', m.level,
            'logo_url', m.logo_url
        )) end
    )) as employer,
    case when l.location_id is null then null else jsonb_strip_nulls(jsonb_build_object(
        'location_id', l.location_id,
        'city', l.city,
        'country', l.country,
        'state', l.state
    )) end as location,
    (
        select json_agg(jsonb_strip_nulls(jsonb_build_object(
            'name', p.name,
            'foundation', p.foundation,
            'maturity', p.maturity,
            'logo_url', p.logo_url
        )) order by p.name)
        from project p
        join job_project jp on jp.project_id = p.project_id
        where jp.job_id = j.job_id
    ) as projects`

// searchFrom は検索対象のfrom句です
const searchFrom = `
from job j
join employer e on e.employer_id = j.employer_id
left join location l on l.location_id = j.location_id
left join member m on m.member_id = e.member_id`

// SearchJobs はフィルターに合致するpublished求人の1ページと総件数を返します
//
// 総件数とページは同一のrepeatable readスナップショット内で同じ述語から
// 計算されるため、並行書き込みがあっても互いに矛盾しません。
// 同一published_atの順序はjob_idで安定化しています。
func (r *JobRepository) SearchJobs(ctx context.Context, boardID uuid.UUID, filters domain.Filters) (*domain.SearchOutput, error) {
	b := compileConditions(boardID, filters)

	countQuery := "select count(*)" + searchFrom + "\nwhere " + b.whereClause()
	countArgs := make([]any, len(b.args))
	copy(countArgs, b.args)

	pageQuery := "select" + summaryColumns + searchFrom +
		"\nwhere " + b.whereClause() +
		"\norder by j.published_at desc, j.job_id desc" +
		"\nlimit " + b.bind(filters.Limit) +
		" offset " + b.bind(filters.Offset)

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin search transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var total int
	if err := tx.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	rows, err := tx.Query(ctx, pageQuery, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]domain.JobSummary, 0, filters.Limit)
	for rows.Next() {
		summary, err := scanJobSummary(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read job rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit search transaction: %w", err)
	}

	return &domain.SearchOutput{Jobs: jobs, Total: total}, nil
}

// GetJob はpublishedな求人の詳細を取得します
func (r *JobRepository) GetJob(ctx context.Context, boardID, jobID uuid.UUID) (*domain.Job, error) {
	b := &condBuilder{}
	b.where("j.status = 'published'")
	b.where("e.board_id = " + b.bind(boardID))
	b.where("j.job_id = " + b.bind(jobID))

	query := "select" + summaryColumns + `,
    j.description,
    j.benefits,
    j.apply_instructions,
    j.apply_url,
    j.qualifications,
    j.responsibilities` + searchFrom + "\nwhere " + b.whereClause()

	row := r.pool.QueryRow(ctx, query, b.args...)

	var (
		job          domain.Job
		kind         string
		workplace    string
		seniority    *string
		employerJSON []byte
		locationJSON []byte
		projectsJSON []byte
	)
	err := row.Scan(
		&job.JobID,
		&job.Title,
		&kind,
		&workplace,
		&job.PublishedAt,
		&job.UpdatedAt,
		&job.Salary,
		&job.SalaryCurrency,
		&job.SalaryMin,
		&job.SalaryMax,
		&job.SalaryPeriod,
		&seniority,
		&job.Skills,
		&job.OpenSource,
		&job.UpstreamCommitment,
		&employerJSON,
		&locationJSON,
		&projectsJSON,
		&job.Description,
		&job.Benefits,
		&job.ApplyInstructions,
		&job.ApplyURL,
		&job.Qualifications,
		&job.Responsibilities,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if err := fillDenormalized(&job.JobSummary, kind, workplace, seniority, employerJSON, locationJSON, projectsJSON); err != nil {
		return nil, err
	}

	return &job, nil
}

// rowScanner はpgx.RowとScan可能な行の共通部分です
type rowScanner interface {
	Scan(dest ...any) error
}

// scanJobSummary は検索結果1行をJobSummaryに変換します
func scanJobSummary(row rowScanner) (*domain.JobSummary, error) {
	var (
		summary      domain.JobSummary
		kind         string
		workplace    string
		seniority    *string
		employerJSON []byte
		locationJSON []byte
		projectsJSON []byte
	)
	err := row.Scan(
		&summary.JobID,
		&summary.Title,
		&kind,
		&workplace,
		&summary.PublishedAt,
		&summary.UpdatedAt,
		&summary.Salary,
		&summary.SalaryCurrency,
		&summary.SalaryMin,
		&summary.SalaryMax,
		&summary.SalaryPeriod,
		&seniority,
		&summary.Skills,
		&summary.OpenSource,
		&summary.UpstreamCommitment,
		&employerJSON,
		&locationJSON,
		&projectsJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan job row: %w", err)
	}

	if err := fillDenormalized(&summary, kind, workplace, seniority, employerJSON, locationJSON, projectsJSON); err != nil {
		return nil, err
	}

	return &summary, nil
}

// fillDenormalized はスキャン済みの生カラムをドメイン型に詰め替えます
func fillDenormalized(summary *domain.JobSummary, kind, workplace string, seniority *string, employerJSON, locationJSON, projectsJSON []byte) error {
	summary.Kind = domain.JobKind(kind)
	summary.Workplace = domain.Workplace(workplace)
	if seniority != nil {
		s := domain.Seniority(*seniority)
		summary.Seniority = &s
	}

	if err := json.Unmarshal(employerJSON, &summary.Employer); err != nil {
		return fmt.Errorf("failed to decode employer: %w", err)
	}
	if locationJSON != nil {
		summary.Location = &domain.Location{}
		if err := json.Unmarshal(locationJSON, summary.Location); err != nil {
			return fmt.Errorf("failed to decode location: %w", err)
		}
	}
	if projectsJSON != nil {
		if err := json.Unmarshal(projectsJSON, &summary.Projects); err != nil {
			return fmt.Errorf("failed to decode projects: %w", err)
		}
	}

	return nil
}
