package application

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/ossjobs/internal/module/registry/adapter/landscape"
	"github.com/jinford/ossjobs/internal/platform/database"
	"github.com/jinford/ossjobs/internal/platform/database/databasetest"
)

// fakeLandscapeServer は差し替え可能なレスポンスを返すlandscape APIです
type fakeLandscapeServer struct {
	members  string
	projects string
}

func (f *fakeLandscapeServer) start(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/members/all.json":
			_, _ = w.Write([]byte(f.members))
		case "/api/projects/all.json":
			_, _ = w.Write([]byte(f.projects))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func memberNames(t *testing.T, pool *pgxpool.Pool, foundation string) []string {
	t.Helper()

	rows, err := pool.Query(context.Background(),
		"select name from member where foundation = $1 order by name", foundation)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func projectNames(t *testing.T, pool *pgxpool.Pool, foundation string) []string {
	t.Helper()

	rows, err := pool.Query(context.Background(),
		"select name from project where foundation = $1 order by name", foundation)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestSyncer_Integration(t *testing.T) {
	pool := databasetest.StartPostgres(t)
	ctx := context.Background()

	server := &fakeLandscapeServer{
		members: `[
			{"name": "Acme Corp (Platinum)", "subcategory": "Platinum", "logo_url": "https://example.org/acme.svg"},
			{"name": "Non-Public Member 7", "subcategory": "Silver", "logo_url": ""}
		]`,
		projects: `[
			{"name": "kubernetes", "maturity": "graduated", "logo_url": ""},
			{"name": "dusty", "maturity": "archived", "logo_url": ""}
		]`,
	}
	url := server.start(t).URL

	_, err := pool.Exec(ctx, "insert into foundation (name, landscape_url) values ('cncf', $1)", url)
	require.NoError(t, err)
	// landscape_urlのないFoundationは同期対象にならない
	_, err = pool.Exec(ctx, "insert into foundation (name) values ('manual')")
	require.NoError(t, err)

	syncer := NewSyncer(database.NewTransactionProvider(pool), landscape.NewClient())
	require.NoError(t, syncer.Run(ctx))

	// ランク表記が除かれ、非公開メンバーとアーカイブ済みプロジェクトは落ちる
	assert.Equal(t, []string{"Acme Corp"}, memberNames(t, pool, "cncf"))
	assert.Equal(t, []string{"kubernetes"}, projectNames(t, pool, "cncf"))

	// landscape側から消えたエントリは再同期で削除される
	server.members = `[{"name": "Globex (Gold)", "subcategory": "Gold", "logo_url": ""}]`
	server.projects = `[{"name": "kubernetes", "maturity": "graduated", "logo_url": ""}]`
	require.NoError(t, syncer.Run(ctx))

	assert.Equal(t, []string{"Globex"}, memberNames(t, pool, "cncf"))
	assert.Equal(t, []string{"kubernetes"}, projectNames(t, pool, "cncf"))
}
