package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jinford/ossjobs/internal/module/registry/domain"
)

// Queries はトランザクションスコープのレジストリ操作です
// 1 Foundation分のメンバー・プロジェクトの入れ替えを1トランザクションで
// 行えるよう、すべての操作はツリー外のトランザクションに乗ります。
type Queries struct {
	tx pgx.Tx
}

// New はトランザクションからクエリを生成します
func New(tx pgx.Tx) *Queries {
	return &Queries{tx: tx}
}

// ListFoundations は同期対象のFoundation一覧を返します
func (q *Queries) ListFoundations(ctx context.Context) ([]domain.Foundation, error) {
	rows, err := q.tx.Query(ctx, `
        select name, landscape_url
        from foundation
        where landscape_url is not null
        order by name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list foundations: %w", err)
	}
	defer rows.Close()

	var foundations []domain.Foundation
	for rows.Next() {
		var f domain.Foundation
		if err := rows.Scan(&f.Name, &f.LandscapeURL); err != nil {
			return nil, fmt.Errorf("failed to scan foundation row: %w", err)
		}
		foundations = append(foundations, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read foundation rows: %w", err)
	}

	return foundations, nil
}

// ReplaceMembers はFoundationのメンバーをlandscape側の内容に揃えます
// 消えたメンバーの削除と既存メンバーの更新・追加をまとめて行います
func (q *Queries) ReplaceMembers(ctx context.Context, foundation string, members []domain.Member) error {
	names := make([]string, len(members))
	levels := make([]string, len(members))
	logoURLs := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
		levels[i] = m.Level
		logoURLs[i] = m.LogoURL
	}

	if _, err := q.tx.Exec(ctx, `
        delete from member
        where foundation = $1 and name != all($2::text[])`,
		foundation, names,
	); err != nil {
		return fmt.Errorf("failed to delete stale members: %w", err)
	}

	if _, err := q.tx.Exec(ctx, `
        insert into member (foundation, name, level, logo_url)
        select $1, m.name, m.level, nullif(m.logo_url, '')
        from unnest($2::text[], $3::text[], $4::text[]) as m(name, level, logo_url)
        on conflict (foundation, name) do update
        set level = excluded.level, logo_url = excluded.logo_url`,
		foundation, names, levels, logoURLs,
	); err != nil {
		return fmt.Errorf("failed to upsert members: %w", err)
	}

	return nil
}

// ReplaceProjects はFoundationのプロジェクトをlandscape側の内容に揃えます
func (q *Queries) ReplaceProjects(ctx context.Context, foundation string, projects []domain.Project) error {
	names := make([]string, len(projects))
	maturities := make([]string, len(projects))
	logoURLs := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name
		maturities[i] = p.Maturity
		logoURLs[i] = p.LogoURL
	}

	if _, err := q.tx.Exec(ctx, `
        delete from project
        where foundation = $1 and name != all($2::text[])`,
		foundation, names,
	); err != nil {
		return fmt.Errorf("failed to delete stale projects: %w", err)
	}

	if _, err := q.tx.Exec(ctx, `
        insert into project (foundation, name, maturity, logo_url)
        select $1, p.name, p.maturity, nullif(p.logo_url, '')
        from unnest($2::text[], $3::text[], $4::text[]) as p(name, maturity, logo_url)
        on conflict (foundation, name) do update
        set maturity = excluded.maturity, logo_url = excluded.logo_url`,
		foundation, names, maturities, logoURLs,
	); err != nil {
		return fmt.Errorf("failed to upsert projects: %w", err)
	}

	return nil
}
