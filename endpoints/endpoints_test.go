package endpoints

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EasterCompany/dex-sprint-service/config"
	"github.com/EasterCompany/dex-sprint-service/internal/agent"
	"github.com/EasterCompany/dex-sprint-service/internal/portfolio"
	"github.com/EasterCompany/dex-sprint-service/internal/roadmap"
	"github.com/EasterCompany/dex-sprint-service/internal/store"
	"github.com/EasterCompany/dex-sprint-service/types"
	"github.com/EasterCompany/dex-sprint-service/utils"
)

var testNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

const testRoadmapJSON = `{
  "title": "Go sprint",
  "phases": [{"title": "Foundations", "weeks": [
    {"theme": "Syntax", "tasks": [{"id": "t1", "title": "Tour", "kind": "practice"}, {"id": "t2", "title": "Tests", "kind": "practice"}]},
    {"theme": "HTTP", "tasks": [{"id": "t3", "title": "Server", "kind": "project"}]}
  ]}]
}`

type fakeSyncer struct {
	items []types.PortfolioItem
	err   error
	got   portfolio.SyncRequest
}

func (f *fakeSyncer) Sync(ctx context.Context, req portfolio.SyncRequest) ([]types.PortfolioItem, error) {
	f.got = req
	return f.items, f.err
}

type harness struct {
	handler http.Handler
	deps    *Deps
	syncer  *fakeSyncer
	dir     string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	roadmapPath := filepath.Join(dir, "roadmap.json")
	require.NoError(t, os.WriteFile(roadmapPath, []byte(testRoadmapJSON), 0o600))

	syncer := &fakeSyncer{}
	deps := &Deps{
		Store:     store.NewStore(store.NewFileBackend(filepath.Join(dir, "state.json")), nil),
		Roadmap:   roadmap.NewLoader(roadmapPath, nil),
		Portfolio: syncer,
		Planner:   agent.NewPlanner(nil, "", 0, nil),
		Config:    config.Default(),
		Now:       func() time.Time { return testNow },
	}
	deps.Config.PublicDir = ""
	return &harness{handler: NewRouter(deps), deps: deps, syncer: syncer, dir: dir}
}

func (h *harness) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRoadmapEndpoint(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/api/roadmap", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", rec.Header().Get("X-Skill-Coach"))
	rm := decode[types.Roadmap](t, rec)
	assert.Equal(t, 2, rm.TotalWeeks())
	assert.Equal(t, 2, rm.Phases[0].Weeks[1].Number)
}

func TestRoadmapEndpoint_LoadFailure(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "roadmap.json"), []byte("{"), 0o600))
	h.deps.Roadmap = roadmap.NewLoader(filepath.Join(h.dir, "roadmap.json"), nil)

	rec := h.do(t, http.MethodGet, "/api/roadmap", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to load roadmap", decode[utils.ErrorResponse](t, rec).Message)
}

func TestStateEndpoints(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[types.State](t, rec).Progress)

	rec = h.do(t, http.MethodPost, "/api/state", `{"startDate":"2025-03-03","progress":{"t1":"done","t2":"bogus"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decode[types.State](t, rec)
	assert.Equal(t, "2025-03-03", state.StartDate)
	assert.Equal(t, map[string]types.TaskStatus{"t1": types.TaskStatusDone}, state.Progress)
	require.Len(t, state.ProgressHistory, 1)
	assert.True(t, state.ProgressHistory[0].Timestamp.Equal(testNow))

	rec = h.do(t, http.MethodGet, "/api/state", "")
	assert.Equal(t, "2025-03-03", decode[types.State](t, rec).StartDate)
}

func TestStateEndpoint_Validation(t *testing.T) {
	h := newHarness(t)

	for _, body := range []string{`[]`, `{}`, `{"progress":"done"}`, `{"startDate":"whenever"}`} {
		rec := h.do(t, http.MethodPost, "/api/state", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.NotEmpty(t, decode[utils.ErrorResponse](t, rec).Message)
	}
}

func TestInsightsEndpoint(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodPost, "/api/state", `{"startDate":"2025-03-03","progress":{"t1":"done","t2":"done"}}`)

	rec := h.do(t, http.MethodGet, "/api/insights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ins := decode[types.Insights](t, rec)
	assert.Equal(t, 3, ins.Summary.TotalTasks)
	assert.Equal(t, 2, ins.Summary.Done)
	assert.Equal(t, 67, ins.Summary.CompletionRate)
	require.Len(t, ins.Charts.Progress, 1)
	assert.Equal(t, "2025-03-12", ins.Charts.Progress[0].Date)
	assert.Equal(t, 2, ins.Feasibility.TotalWeeks)
}

func TestGoalsEndpoints(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/goals", `{"action":"add","goal":{"title":"Ship CLI","targetDate":"2025-03-20","milestones":["a","b"]}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[GoalsResponse](t, rec)
	require.Len(t, resp.Goals, 1)
	assert.Equal(t, 1, resp.Summary.Total)
	require.Len(t, resp.Summary.Upcoming, 1)
	assert.Equal(t, 8, resp.Summary.Upcoming[0].DaysLeft)

	goal := resp.Goals[0]
	rec = h.do(t, http.MethodPost, "/api/goals", `{"action":"toggle_milestone","id":"`+goal.ID+`","milestoneId":"`+goal.Milestones[0].ID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[GoalsResponse](t, rec)
	assert.Equal(t, 50, resp.Goals[0].Progress)
	assert.Equal(t, types.GoalStatusInProgress, resp.Goals[0].Status)

	rec = h.do(t, http.MethodGet, "/api/goals", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[GoalsResponse](t, rec).Goals, 1)
}

func TestGoalsEndpoint_Errors(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		body string
		want int
	}{
		{body: `not json`, want: http.StatusBadRequest},
		{body: `{"action":"add","goal":{}}`, want: http.StatusBadRequest},
		{body: `{"action":"explode"}`, want: http.StatusBadRequest},
		{body: `{"action":"remove","id":"missing"}`, want: http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := h.do(t, http.MethodPost, "/api/goals", tt.body)
		assert.Equal(t, tt.want, rec.Code, tt.body)
	}
}

func TestPortfolioEndpoints(t *testing.T) {
	h := newHarness(t)
	h.syncer.items = []types.PortfolioItem{
		{ID: "github:octo/app", Type: "repository", Title: "app", Stars: 5, Language: "Go"},
	}

	rec := h.do(t, http.MethodGet, "/api/portfolio", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[PortfolioResponse](t, rec).Items)

	rec = h.do(t, http.MethodPost, "/api/portfolio/sync", `{"provider":"github","username":"octo","limit":5,"repos":["app"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[PortfolioResponse](t, rec)
	assert.Equal(t, "octo", resp.Username)
	assert.Equal(t, "github", resp.Provider)
	require.NotNil(t, resp.LastSync)
	assert.True(t, resp.LastSync.Equal(testNow))
	assert.Equal(t, 5, resp.Summary.TotalStars)
	assert.Equal(t, portfolio.SyncRequest{Username: "octo", Limit: 5, Repos: []string{"app"}}, h.syncer.got)

	rec = h.do(t, http.MethodGet, "/api/portfolio", "")
	assert.Len(t, decode[PortfolioResponse](t, rec).Items, 1)
}

func TestPortfolioSync_Errors(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/portfolio/sync", `{"provider":"gitlab","username":"octo"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	h.syncer.err = portfolio.ErrUsernameRequired
	rec = h.do(t, http.MethodPost, "/api/portfolio/sync", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	h.syncer.err = portfolio.ErrUserNotFound
	rec = h.do(t, http.MethodPost, "/api/portfolio/sync", `{"username":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, h.deps.Config.Portfolio.Limit, h.syncer.got.Limit)

	h.syncer.err = &portfolio.APIError{Status: http.StatusForbidden, Message: "rate limited"}
	rec = h.do(t, http.MethodPost, "/api/portfolio/sync", `{"username":"octo"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, decode[utils.ErrorResponse](t, rec).Message, "rate limited")
}

func TestAgentEndpoint(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodPost, "/api/state", `{"startDate":"2025-03-03"}`)

	rec := h.do(t, http.MethodPost, "/api/agent", `{"goal":"Ship a demo","duration":4}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[agent.Response](t, rec)
	assert.True(t, resp.UsedFallback)
	assert.Equal(t, agent.ProviderOffline, resp.Provider)
	assert.Contains(t, resp.Context.Tags, "week-2")
	assert.NotEmpty(t, resp.Plan.Steps)

	rec = h.do(t, http.MethodPost, "/api/agent", `{"goal":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAgentEndpoint_NoPlanner(t *testing.T) {
	h := newHarness(t)
	h.deps.Planner = nil

	rec := h.do(t, http.MethodPost, "/api/agent", `{"goal":"Ship a demo"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "planning assistant is not configured", decode[utils.ErrorResponse](t, rec).Message)
}

func TestServiceEndpoint(t *testing.T) {
	h := newHarness(t)
	h.deps.Config.Portfolio.Token = "secret"

	utils.SetHealthStatus(utils.HealthOK, "ready")
	rec := h.do(t, http.MethodGet, "/service", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
	report := decode[ServiceReport](t, rec)
	assert.Equal(t, true, report.Config["token_set"])
	assert.Equal(t, utils.GetVersion().Tag, report.Version.Tag)
	assert.Positive(t, report.Metrics.Goroutines)

	utils.SetHealthStatus(utils.HealthDegraded, "store unreachable")
	rec = h.do(t, http.MethodGet, "/service", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownAPIRoute(t *testing.T) {
	h := newHarness(t)

	for _, target := range []string{"/api/nope", "/api/state/extra"} {
		rec := h.do(t, http.MethodGet, target, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Equal(t, "endpoint not found", decode[utils.ErrorResponse](t, rec).Message)
	}
	rec := h.do(t, http.MethodDelete, "/api/roadmap", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticFallback(t *testing.T) {
	h := newHarness(t)
	public := filepath.Join(h.dir, "public")
	require.NoError(t, os.MkdirAll(public, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(public, "index.html"), []byte("<h1>coach</h1>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(public, "about.html"), []byte("about"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(public, "app.js"), []byte("console.log(1)"), 0o600))
	h.deps.Config.PublicDir = public
	h.handler = NewRouter(h.deps)

	assert.Contains(t, h.do(t, http.MethodGet, "/", "").Body.String(), "coach")
	assert.Contains(t, h.do(t, http.MethodGet, "/app.js", "").Body.String(), "console.log")
	assert.Equal(t, "about", h.do(t, http.MethodGet, "/about", "").Body.String())
	assert.Contains(t, h.do(t, http.MethodGet, "/week/3", "").Body.String(), "coach")

	rec := h.do(t, http.MethodGet, "/api/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCorsPreflight(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodOptions, "/api/state", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
