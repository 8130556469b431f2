package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jinford/ossjobs/internal/module/search/domain"
)

// ProjectRepository はフィルター選択肢の永続化アダプターです
type ProjectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository は新しいプロジェクトリポジトリを作成します
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

var _ domain.ProjectReader = (*ProjectRepository)(nil)

// ListProjects はフィルターとして選択可能なプロジェクト一覧を返します
func (r *ProjectRepository) ListProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.pool.Query(ctx, `
        select name, foundation, maturity, logo_url
        from project
        order by foundation, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.Name, &p.Foundation, &p.Maturity, &p.LogoURL); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read project rows: %w", err)
	}

	return projects, nil
}
