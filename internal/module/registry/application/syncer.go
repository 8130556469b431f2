package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/jinford/ossjobs/internal/platform/database"

	"github.com/jinford/ossjobs/internal/module/registry/domain"
)

// foundationTimeout は1 Foundationの同期に許容する最大時間です
const foundationTimeout = 5 * time.Minute

// memberKindSuffix はメンバー名に付くランク表記（例: " (Platinum)"）です
var memberKindSuffix = regexp.MustCompile(` \(.*\)`)

// Syncer は登録済みFoundationのメンバー・プロジェクトをlandscape APIと
// 同期します
type Syncer struct {
	provider  *database.TransactionProvider
	landscape domain.Landscape
}

// NewSyncer は新しいSyncerを作成します
func NewSyncer(provider *database.TransactionProvider, landscape domain.Landscape) *Syncer {
	return &Syncer{provider: provider, landscape: landscape}
}

// Run は登録済みFoundationをすべて同期します
// 個別Foundationの失敗は他のFoundationの同期を妨げず、まとめて返します
func (s *Syncer) Run(ctx context.Context) error {
	foundations, err := database.Transact(ctx, s.provider, func(a *database.Adapter) ([]domain.Foundation, error) {
		return a.Registry.ListFoundations(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to list foundations: %w", err)
	}

	var errs []error
	for _, foundation := range foundations {
		if err := s.syncFoundation(ctx, foundation); err != nil {
			errs = append(errs, fmt.Errorf("error synchronizing foundation %s: %w", foundation.Name, err))
		}
	}
	return errors.Join(errs...)
}

// syncFoundation は1 Foundationのメンバーとプロジェクトを同期します
// 取得とデータベース反映は1トランザクションで原子的に行います
func (s *Syncer) syncFoundation(ctx context.Context, foundation domain.Foundation) error {
	ctx, cancel := context.WithTimeout(ctx, foundationTimeout)
	defer cancel()

	slog.Info("syncing foundation", "foundation", foundation.Name)

	members, err := s.landscape.Members(ctx, foundation.LandscapeURL)
	if err != nil {
		return err
	}
	members = normalizeMembers(members)

	projects, err := s.landscape.Projects(ctx, foundation.LandscapeURL)
	if err != nil {
		return err
	}
	projects = filterProjects(projects)

	_, err = database.Transact(ctx, s.provider, func(a *database.Adapter) (struct{}, error) {
		if err := a.Registry.ReplaceMembers(ctx, foundation.Name, members); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, a.Registry.ReplaceProjects(ctx, foundation.Name, projects)
	})
	if err != nil {
		return err
	}

	slog.Info("foundation synced", "foundation", foundation.Name,
		"members", len(members), "projects", len(projects))
	return nil
}

// normalizeMembers はメンバー名からランク表記を除き、非公開メンバーを
// 除外します
func normalizeMembers(members []domain.Member) []domain.Member {
	out := make([]domain.Member, 0, len(members))
	for _, m := range members {
		m.Name = memberKindSuffix.ReplaceAllString(m.Name, "")
		if strings.Contains(strings.ToLower(m.Name), "non-public") {
			continue
		}
		out = append(out, m)
	}
	return out
}

// filterProjects はアーカイブ済みプロジェクトを除外します
func filterProjects(projects []domain.Project) []domain.Project {
	out := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if p.Maturity == "archived" {
			continue
		}
		out = append(out, p)
	}
	return out
}
