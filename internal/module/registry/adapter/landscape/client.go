package landscape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jinford/ossjobs/internal/module/registry/domain"
)

// Client はlandscape APIのHTTPクライアントです
type Client struct {
	httpClient *http.Client
}

// NewClient は新しいlandscapeクライアントを作成します
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

var _ domain.Landscape = (*Client)(nil)

// landscapeMember はmembers/all.jsonの1要素です
type landscapeMember struct {
	Name        string `json:"name"`
	Subcategory string `json:"subcategory"`
	LogoURL     string `json:"logo_url"`
}

// landscapeProject はprojects/all.jsonの1要素です
type landscapeProject struct {
	Name     string `json:"name"`
	Maturity string `json:"maturity"`
	LogoURL  string `json:"logo_url"`
}

// Members はFoundationのメンバー一覧を取得します
func (c *Client) Members(ctx context.Context, landscapeURL string) ([]domain.Member, error) {
	var raw []landscapeMember
	if err := c.getJSON(ctx, landscapeURL, "/api/members/all.json", &raw); err != nil {
		return nil, fmt.Errorf("error fetching landscape members: %w", err)
	}

	members := make([]domain.Member, 0, len(raw))
	for _, m := range raw {
		members = append(members, domain.Member{
			Name:    m.Name,
			Level:   m.Subcategory,
			LogoURL: m.LogoURL,
		})
	}
	return members, nil
}

// Projects はFoundationのプロジェクト一覧を取得します
func (c *Client) Projects(ctx context.Context, landscapeURL string) ([]domain.Project, error) {
	var raw []landscapeProject
	if err := c.getJSON(ctx, landscapeURL, "/api/projects/all.json", &raw); err != nil {
		return nil, fmt.Errorf("error fetching landscape projects: %w", err)
	}

	projects := make([]domain.Project, 0, len(raw))
	for _, p := range raw {
		projects = append(projects, domain.Project{
			Name:     p.Name,
			Maturity: p.Maturity,
			LogoURL:  p.LogoURL,
		})
	}
	return projects, nil
}

// getJSON はlandscape APIのエンドポイントを取得してデコードします
func (c *Client) getJSON(ctx context.Context, landscapeURL, path string, out any) error {
	url := strings.TrimSuffix(landscapeURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
