package domain

import "context"

// Foundation はレジストリに登録されたFoundationです
// LandscapeURLが設定されているFoundationのみ同期対象になります
type Foundation struct {
	Name         string
	LandscapeURL string
}

// Member はFoundationのメンバー企業です
type Member struct {
	Name    string
	Level   string
	LogoURL string
}

// Project はFoundationが管理するオープンソースプロジェクトです
type Project struct {
	Name     string
	Maturity string
	LogoURL  string
}

// Landscape はlandscape APIからFoundationのデータを取得するポートです
type Landscape interface {
	// Members はFoundationのメンバー一覧を取得します
	Members(ctx context.Context, landscapeURL string) ([]Member, error)

	// Projects はFoundationのプロジェクト一覧を取得します
	Projects(ctx context.Context, landscapeURL string) ([]Project, error)
}
