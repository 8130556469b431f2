package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	boarddomain "github.com/jinford/ossjobs/internal/module/board/domain"
	"github.com/jinford/ossjobs/internal/module/search/application"
	searchdomain "github.com/jinford/ossjobs/internal/module/search/domain"
)

// fakeBoardReader はホスト名→ボードIDの固定マッピングです
type fakeBoardReader struct {
	boards map[string]uuid.UUID
}

func (f *fakeBoardReader) GetBoardID(_ context.Context, host string) (uuid.UUID, error) {
	if id, ok := f.boards[host]; ok {
		return id, nil
	}
	return uuid.Nil, boarddomain.ErrBoardNotFound
}

// fakeJobReader は固定の検索結果を返すJobReaderです
type fakeJobReader struct {
	output      *searchdomain.SearchOutput
	job         *searchdomain.Job
	lastFilters searchdomain.Filters
	lastBoardID uuid.UUID
}

func (f *fakeJobReader) SearchJobs(_ context.Context, boardID uuid.UUID, filters searchdomain.Filters) (*searchdomain.SearchOutput, error) {
	f.lastBoardID = boardID
	f.lastFilters = filters
	return f.output, nil
}

func (f *fakeJobReader) GetJob(_ context.Context, boardID, jobID uuid.UUID) (*searchdomain.Job, error) {
	if f.job == nil || f.job.JobID != jobID {
		return nil, searchdomain.ErrJobNotFound
	}
	return f.job, nil
}

type fakeLocationReader struct {
	locations []searchdomain.Location
}

func (f *fakeLocationReader) SearchLocations(_ context.Context, _ string) ([]searchdomain.Location, error) {
	return f.locations, nil
}

type fakeProjectReader struct {
	projects []searchdomain.Project
}

func (f *fakeProjectReader) ListProjects(_ context.Context) ([]searchdomain.Project, error) {
	return f.projects, nil
}

// nopTracker はイベント発火を記録するだけのトラッカーです
type nopTracker struct {
	viewed   []uuid.UUID
	appeared [][]uuid.UUID
}

func (n *nopTracker) TrackSearchAppearances(_ context.Context, jobIDs []uuid.UUID) {
	n.appeared = append(n.appeared, jobIDs)
}

func (n *nopTracker) TrackJobView(_ context.Context, jobID uuid.UUID) {
	n.viewed = append(n.viewed, jobID)
}

type testEnv struct {
	router  *gin.Engine
	boardID uuid.UUID
	jobs    *fakeJobReader
	tracker *nopTracker
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	boardID := uuid.New()
	jobs := &fakeJobReader{output: &searchdomain.SearchOutput{}}
	tracker := &nopTracker{}

	service := application.NewSearchService(
		jobs,
		&fakeLocationReader{},
		&fakeProjectReader{},
		tracker,
	)
	boards := &fakeBoardReader{boards: map[string]uuid.UUID{"jobs.example.org": boardID}}

	return &testEnv{
		router:  NewRouter(boards, service),
		boardID: boardID,
		jobs:    jobs,
		tracker: tracker,
	}
}

func doRequest(env *testEnv, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Host = "jobs.example.org:8000"
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	env := setupRouter(t)

	w := doRequest(env, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResolveBoard_UnknownHost(t *testing.T) {
	// 未知のホスト名は404で拒否される
	env := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	req.Host = "unknown.example.org"
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchJobs_PassesBoardAndFilters(t *testing.T) {
	env := setupRouter(t)
	jobID := uuid.New()
	env.jobs.output = &searchdomain.SearchOutput{
		Jobs:  []searchdomain.JobSummary{{JobID: jobID, Title: "Backend Engineer"}},
		Total: 1,
	}

	w := doRequest(env, http.MethodGet, "/api/jobs?ts_query=backend&kind=full-time")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, env.boardID, env.jobs.lastBoardID)
	assert.Equal(t, "backend", env.jobs.lastFilters.TSQuery)
	assert.Equal(t, []searchdomain.JobKind{searchdomain.JobKindFullTime}, env.jobs.lastFilters.Kind)

	var body searchdomain.SearchOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	require.Len(t, body.Jobs, 1)
	assert.Equal(t, jobID, body.Jobs[0].JobID)

	// 表示された求人に検索表示イベントが発火される
	require.Len(t, env.tracker.appeared, 1)
	assert.Equal(t, []uuid.UUID{jobID}, env.tracker.appeared[0])
}

func TestSearchJobs_MalformedParamsNever4xx(t *testing.T) {
	// 不正なフィルター値でも4xxにはならず、広めの結果を返す
	env := setupRouter(t)

	params := url.Values{
		"kind":       {"freelance"},
		"salary_min": {"lots"},
		"date_from":  {"not-a-date"},
	}
	w := doRequest(env, http.MethodGet, "/api/jobs?"+params.Encode())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, env.jobs.lastFilters.Kind)
	assert.Nil(t, env.jobs.lastFilters.SalaryMin)
	assert.Nil(t, env.jobs.lastFilters.DateFrom)
}

func TestGetJob(t *testing.T) {
	env := setupRouter(t)
	jobID := uuid.New()
	env.jobs.job = &searchdomain.Job{
		JobSummary: searchdomain.JobSummary{JobID: jobID, Title: "Backend Engineer"},
	}

	w := doRequest(env, http.MethodGet, "/api/jobs/"+jobID.String())

	require.Equal(t, http.StatusOK, w.Code)

	// 閲覧イベントが発火される
	assert.Equal(t, []uuid.UUID{jobID}, env.tracker.viewed)
}

func TestGetJob_InvalidID(t *testing.T) {
	env := setupRouter(t)

	w := doRequest(env, http.MethodGet, "/api/jobs/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetJob_NotFound(t *testing.T) {
	// 存在しない（またはpublishedでない）求人は404
	env := setupRouter(t)

	w := doRequest(env, http.MethodGet, "/api/jobs/"+uuid.NewString())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, env.tracker.viewed)
}

func TestSearchLocations_EmptyResultIsEmptyArray(t *testing.T) {
	// 結果なしでもnullではなく空配列を返す
	env := setupRouter(t)

	w := doRequest(env, http.MethodGet, "/api/locations?ts_query=zzz")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"locations": []}`, w.Body.String())
}

func TestFilterOptions(t *testing.T) {
	env := setupRouter(t)

	w := doRequest(env, http.MethodGet, "/api/filters/options")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"projects": []}`, w.Body.String())
}

func TestTrackJobView(t *testing.T) {
	env := setupRouter(t)
	jobID := uuid.New()

	w := doRequest(env, http.MethodPost, "/api/events/job-view/"+jobID.String())

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []uuid.UUID{jobID}, env.tracker.viewed)
}
