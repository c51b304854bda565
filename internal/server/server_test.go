package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"junglecoach/internal/dashboard"
	"junglecoach/internal/gamesync"
	"junglecoach/internal/notion"
)

type fakeDashboard struct {
	games    dashboard.GamesResult
	advanced dashboard.AdvancedResult
	profile  dashboard.ProfileView
	gotLimit int
}

func (f *fakeDashboard) RecentGames(ctx context.Context, limit int) dashboard.GamesResult {
	f.gotLimit = limit
	return f.games
}

func (f *fakeDashboard) Advanced(ctx context.Context) dashboard.AdvancedResult {
	return f.advanced
}

func (f *fakeDashboard) Profile(ctx context.Context) (dashboard.ProfileView, error) {
	return f.profile, nil
}

type fakeSessions struct {
	session notion.Session
	err     error
}

func (f *fakeSessions) CurrentSession(ctx context.Context) (notion.Session, error) {
	return f.session, f.err
}

type fakeSync struct {
	report      gamesync.Report
	backfill    gamesync.BackfillReport
	created     bool
	err         error
	syncedMatch string
	recentRuns  int
}

func (f *fakeSync) SyncRecent(ctx context.Context, count int) (gamesync.Report, error) {
	f.recentRuns++
	return f.report, f.err
}

func (f *fakeSync) SyncMatch(ctx context.Context, matchID string) (bool, error) {
	f.syncedMatch = matchID
	return f.created, f.err
}

func (f *fakeSync) BackfillDates(ctx context.Context) (gamesync.BackfillReport, error) {
	return f.backfill, f.err
}

type fakeRiot struct{ err error }

func (f *fakeRiot) Health(ctx context.Context) error { return f.err }

type fakeStore struct{ err error }

func (f *fakeStore) ListGames(ctx context.Context, limit int) ([]notion.GameRecord, error) {
	return nil, f.err
}

type testServer struct {
	server    *Server
	dashboard *fakeDashboard
	sync      *fakeSync
	riot      *fakeRiot
	store     *fakeStore
}

func newTestServer() *testServer {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	dash := &fakeDashboard{games: dashboard.GamesResult{Source: dashboard.SourceRiot, Games: []dashboard.GameView{}}}
	sync := &fakeSync{report: gamesync.Report{Found: 5, Created: 2, Skipped: 3}}
	riot := &fakeRiot{}
	store := &fakeStore{}

	return &testServer{
		server:    New(dash, &fakeSessions{session: notion.Session{Name: "Death Binary Protocol"}}, sync, riot, store, "topsecret", log),
		dashboard: dash,
		sync:      sync,
		riot:      riot,
		store:     store,
	}
}

func (ts *testServer) request(t *testing.T, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.server.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestGamesEndpoint(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodGet, "/api/games?limit=5", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ts.dashboard.gotLimit != 5 {
		t.Errorf("limit passed = %d, want 5", ts.dashboard.gotLimit)
	}

	var body dashboard.GamesResult
	decode(t, rec, &body)
	if body.Source != dashboard.SourceRiot {
		t.Errorf("source = %s", body.Source)
	}
}

func TestGamesEndpoint_BadLimit(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodGet, "/api/games?limit=bogus", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestProfileEndpoint(t *testing.T) {
	ts := newTestServer()
	ts.dashboard.profile = dashboard.ProfileView{RiotID: "Feraxin#EUNE", SummonerLevel: 287}

	rec := ts.request(t, http.MethodGet, "/api/profile", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var view dashboard.ProfileView
	decode(t, rec, &view)
	if view.RiotID != "Feraxin#EUNE" || view.SummonerLevel != 287 {
		t.Errorf("view = %+v", view)
	}
}

func TestSessionEndpoint(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodGet, "/api/session", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var session notion.Session
	decode(t, rec, &session)
	if session.Name != "Death Binary Protocol" {
		t.Errorf("session name = %q", session.Name)
	}
}

func TestRefreshEndpoint(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodPost, "/api/refresh", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var report gamesync.Report
	decode(t, rec, &report)
	if report.Created != 2 || report.Skipped != 3 {
		t.Errorf("report = %+v", report)
	}
}

func TestRefreshEndpoint_SyncFailure(t *testing.T) {
	ts := newTestServer()
	ts.sync.err = errors.New("riot down")

	rec := ts.request(t, http.MethodPost, "/api/refresh", "", nil)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestRiotWebhook_RejectsBadSecret(t *testing.T) {
	ts := newTestServer()

	tests := []struct {
		name   string
		secret string
	}{
		{"missing secret", ""},
		{"wrong secret", "guess"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.secret != "" {
				headers["X-Webhook-Secret"] = tt.secret
			}
			rec := ts.request(t, http.MethodPost, "/webhook/riot", `{"action":"refresh_recent"}`, headers)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
	if ts.sync.recentRuns != 0 {
		t.Error("rejected webhook must not trigger a sync")
	}
}

func TestRiotWebhook_ClosedWithoutConfiguredSecret(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	sync := &fakeSync{}
	srv := New(&fakeDashboard{}, &fakeSessions{}, sync, &fakeRiot{}, &fakeStore{}, "", log)

	for _, headers := range []map[string]string{
		nil,
		{"X-Webhook-Secret": ""},
		{"X-Webhook-Secret": "anything"},
	} {
		req := httptest.NewRequest(http.MethodPost, "/webhook/riot", strings.NewReader(`{"action":"refresh_recent"}`))
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("headers %v: status = %d, want 401", headers, rec.Code)
		}
	}
	if sync.recentRuns != 0 {
		t.Error("webhook without a configured secret must not trigger a sync")
	}
}

func TestRiotWebhook_MatchCompleted(t *testing.T) {
	ts := newTestServer()
	ts.sync.created = true

	rec := ts.request(t, http.MethodPost, "/webhook/riot",
		`{"action":"match_completed","matchId":"EUN1_77"}`,
		map[string]string{"X-Webhook-Secret": "topsecret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ts.sync.syncedMatch != "EUN1_77" {
		t.Errorf("synced match = %q", ts.sync.syncedMatch)
	}

	var body struct {
		Success bool `json:"success"`
		Created bool `json:"created"`
	}
	decode(t, rec, &body)
	if !body.Success || !body.Created {
		t.Errorf("body = %+v", body)
	}
}

func TestRiotWebhook_MatchCompletedRequiresMatchID(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodPost, "/webhook/riot",
		`{"action":"match_completed"}`,
		map[string]string{"X-Webhook-Secret": "topsecret"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRiotWebhook_UnknownAction(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodPost, "/webhook/riot",
		`{"action":"create_universe"}`,
		map[string]string{"X-Webhook-Secret": "topsecret"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRiotWebhook_ManualRefresh(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodGet, "/webhook/riot?action=refresh", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ts.sync.recentRuns != 1 {
		t.Errorf("sync runs = %d, want 1", ts.sync.recentRuns)
	}

	// Without the action parameter the endpoint only describes itself.
	ts.request(t, http.MethodGet, "/webhook/riot", "", nil)
	if ts.sync.recentRuns != 1 {
		t.Errorf("describe call must not trigger a sync, runs = %d", ts.sync.recentRuns)
	}
}

func TestCoachingAlertsEndpoint(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodPost, "/webhook/coaching-alerts",
		`{"champion":"Karthus","deaths":17,"kda":"9/17/2","result":"LOSS"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		AlertCount int `json:"alertCount"`
		Alerts     []struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"alerts"`
	}
	decode(t, rec, &body)
	if body.AlertCount != 2 {
		t.Fatalf("alertCount = %d, want 2 (critical + experimental)", body.AlertCount)
	}
	if body.Alerts[0].Type != "critical" {
		t.Errorf("first alert type = %s", body.Alerts[0].Type)
	}
}

func TestCoachingAlertsEndpoint_NoAlerts(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodPost, "/webhook/coaching-alerts",
		`{"champion":"Kindred","deaths":5,"kda":"4/5/6","result":"LOSS"}`, nil)

	var body struct {
		AlertCount int             `json:"alertCount"`
		Alerts     json.RawMessage `json:"alerts"`
	}
	decode(t, rec, &body)
	if body.AlertCount != 0 {
		t.Errorf("alertCount = %d, want 0", body.AlertCount)
	}
	if strings.TrimSpace(string(body.Alerts)) != "[]" {
		t.Errorf("alerts = %s, want empty array", body.Alerts)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	ts.riot.err = errors.New("riot unreachable")
	rec = ts.request(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}

	var body map[string]string
	decode(t, rec, &body)
	if body["riot"] == "ok" || body["store"] != "ok" {
		t.Errorf("body = %v", body)
	}
}
