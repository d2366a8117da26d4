package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LJTian/IndexNewsHub/internal/collector"
	"github.com/LJTian/IndexNewsHub/internal/scraper"
	"github.com/LJTian/IndexNewsHub/internal/storage"
)

type fakeRunner struct {
	report *collector.Report
	err    error

	calls    int
	date     scraper.Date
	maxPages int
	maxNews  int
}

func (f *fakeRunner) Run(_ context.Context, _ string, date scraper.Date, maxPages, maxNews int) (*collector.Report, error) {
	f.calls++
	f.date, f.maxPages, f.maxNews = date, maxPages, maxNews
	return f.report, f.err
}

type fakeRuns struct {
	runs  []storage.ScrapeRun
	err   error
	limit int
}

func (f *fakeRuns) ListRuns(limit int) ([]storage.ScrapeRun, error) {
	f.limit = limit
	return f.runs, f.err
}

type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestEngine(s *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	s.RegisterRoutes(r)
	return r
}

func do(t *testing.T, r *gin.Engine, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestListNewsReturnsTitles(t *testing.T) {
	runner := &fakeRunner{report: &collector.Report{Titles: []string{"HargaEmas Naik", "IHSGMelemah"}}}
	r := newTestEngine(NewServer(runner, nil, 1, 5))

	w, env := do(t, r, "/api/v1/news?date=01/03/2025&maxPages=2&maxNews=3")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", env.Code)

	var titles []string
	require.NoError(t, json.Unmarshal(env.Data, &titles))
	assert.Equal(t, []string{"HargaEmas Naik", "IHSGMelemah"}, titles)
	assert.Equal(t, scraper.Date{Year: 2025, Month: 3, Day: 1}, runner.date)
	assert.Equal(t, 2, runner.maxPages)
	assert.Equal(t, 3, runner.maxNews)
}

func TestListNewsUsesDefaultsAndSentinel(t *testing.T) {
	runner := &fakeRunner{report: &collector.Report{}}
	r := newTestEngine(NewServer(runner, nil, 1, 5))

	w, env := do(t, r, "/api/v1/news")
	require.Equal(t, http.StatusOK, w.Code)

	var titles []string
	require.NoError(t, json.Unmarshal(env.Data, &titles))
	assert.Equal(t, []string{collector.NoNewsSentinel}, titles)
	assert.Equal(t, scraper.Today(), runner.date)
	assert.Equal(t, 1, runner.maxPages)
	assert.Equal(t, 5, runner.maxNews)
}

func TestListNewsRejectsBadDate(t *testing.T) {
	runner := &fakeRunner{}
	r := newTestEngine(NewServer(runner, nil, 1, 5))

	w, env := do(t, r, "/api/v1/news?date=2025-03-01")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date", env.Code)
	assert.Zero(t, runner.calls)
}

func TestListNewsRejectsBadLimits(t *testing.T) {
	runner := &fakeRunner{}
	r := newTestEngine(NewServer(runner, nil, 1, 5))

	for _, q := range []string{"maxPages=0", "maxPages=abc", "maxPages=21", "maxNews=-1", "maxNews=x"} {
		w, env := do(t, r, "/api/v1/news?"+q)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.Equal(t, "invalid_limit", env.Code, q)
	}
	assert.Zero(t, runner.calls)
}

func TestListNewsBusy(t *testing.T) {
	r := newTestEngine(NewServer(&fakeRunner{err: storage.ErrScrapeBusy}, nil, 1, 5))

	w, env := do(t, r, "/api/v1/news")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "busy", env.Code)
}

func TestListNewsInternalError(t *testing.T) {
	r := newTestEngine(NewServer(&fakeRunner{err: errors.New("boom")}, nil, 1, 5))

	w, env := do(t, r, "/api/v1/news")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal_error", env.Code)
}

func TestListRuns(t *testing.T) {
	runs := &fakeRuns{runs: []storage.ScrapeRun{{ID: "a", Trigger: "cron", Sentinel: true}}}
	r := newTestEngine(NewServer(&fakeRunner{}, runs, 1, 5))

	w, env := do(t, r, "/api/v1/runs?limit=5")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, runs.limit)

	var got []storage.ScrapeRun
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
	assert.True(t, got[0].Sentinel)
}

func TestListRunsError(t *testing.T) {
	r := newTestEngine(NewServer(&fakeRunner{}, &fakeRuns{err: errors.New("db down")}, 1, 5))

	w, _ := do(t, r, "/api/v1/runs")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestEngine(NewServer(&fakeRunner{}, nil, 1, 5))

	w, _ := do(t, r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
