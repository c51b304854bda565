package riot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"junglecoach/internal/cache"
)

// newTestClient builds a client pointed at a fake server, with pacing
// disabled so tests run instantly.
func newTestClient(serverURL string) *Client {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return &Client{
		apiKey:       "RGAPI-test",
		platformHost: serverURL,
		regionalHost: serverURL,
		httpClient:   &http.Client{Timeout: time.Second},
		store:        cache.NewMemory(),
		pacer: &pacer{
			limiter: rate.NewLimiter(rate.Inf, 1),
			now:     time.Now,
			sleep:   func(time.Duration) {},
		},
		log: log,
	}
}

func TestAccountByRiotID(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Header.Get("X-Riot-Token") != "RGAPI-test" {
			t.Errorf("missing API key header")
		}
		fmt.Fprint(w, `{"puuid":"puuid-1","gameName":"Feraxin","tagLine":"EUNE"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx := context.Background()

	account, err := client.AccountByRiotID(ctx, "Feraxin", "EUNE")
	if err != nil {
		t.Fatalf("AccountByRiotID: %v", err)
	}
	if account.PUUID != "puuid-1" {
		t.Errorf("PUUID = %q, want puuid-1", account.PUUID)
	}

	// Second lookup must come from cache, not the network.
	if _, err := client.AccountByRiotID(ctx, "Feraxin", "EUNE"); err != nil {
		t.Fatalf("cached AccountByRiotID: %v", err)
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("server saw %d requests, want 1 (second should be a cache hit)", n)
	}
}

func TestClient_NotFoundIsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	account, err := client.AccountByRiotID(context.Background(), "Nobody", "EUNE")
	if err != nil {
		t.Fatalf("404 should not be an error, got %v", err)
	}
	if account != nil {
		t.Errorf("404 should yield nil account, got %+v", account)
	}

	match, err := client.Match(context.Background(), "EUN1_0")
	if err != nil || match != nil {
		t.Errorf("Match 404 = (%v, %v), want (nil, nil)", match, err)
	}
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusInternalServerError, ErrServerError},
		{"bad gateway", http.StatusBadGateway, ErrServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			_, err := client.Match(context.Background(), "EUN1_1")
			if !errors.Is(err, tt.want) {
				t.Errorf("status %d yielded %v, want %v", tt.status, err, tt.want)
			}
		})
	}
}

func TestMatchIDs_QueryBuilding(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `["EUN1_3","EUN1_2","EUN1_1"]`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ids, err := client.MatchIDs(context.Background(), "puuid-1", MatchIDsOptions{
		Queue: QueueRankedSolo,
		Count: 40,
	})
	if err != nil {
		t.Fatalf("MatchIDs: %v", err)
	}
	if len(ids) != 3 || ids[0] != "EUN1_3" {
		t.Errorf("ids = %v, want [EUN1_3 EUN1_2 EUN1_1]", ids)
	}
	if gotQuery != "count=40&queue=420" {
		t.Errorf("query = %q, want count=40&queue=420", gotQuery)
	}
}

func TestMatches_BatchingAndSkips(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// One match is missing upstream; the rest resolve.
		if r.URL.Path == "/lol/match/v5/matches/EUN1_404" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		matchID := r.URL.Path[len("/lol/match/v5/matches/"):]
		fmt.Fprintf(w, `{"metadata":{"matchId":"%s"},"info":{"gameCreation":1,"gameDuration":1,"participants":[]}}`, matchID)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	var pauses []time.Duration
	client.pacer.sleep = func(d time.Duration) { pauses = append(pauses, d) }

	ids := []string{"EUN1_1", "EUN1_2", "EUN1_3", "EUN1_404", "EUN1_5", "EUN1_6", "EUN1_7"}
	matches, err := client.Matches(context.Background(), ids)
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}

	// 7 IDs, one 404: six results, input order preserved.
	if len(matches) != 6 {
		t.Fatalf("got %d matches, want 6", len(matches))
	}
	if matches[0].Metadata.MatchID != "EUN1_1" || matches[3].Metadata.MatchID != "EUN1_5" {
		t.Errorf("result order broken: %s, %s", matches[0].Metadata.MatchID, matches[3].Metadata.MatchID)
	}

	// 7 IDs in groups of 5: one inter-group pause.
	if len(pauses) != 1 || pauses[0] != matchBatchPause {
		t.Errorf("pauses = %v, want one %v pause", pauses, matchBatchPause)
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	if _, err := NewClient("", "eun1", cache.NewMemory(), log); err == nil {
		t.Error("NewClient with empty key should fail")
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lol/status/v4/platform-data" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"id":"EUN1","name":"EU Nordic & East"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if err := client.Health(context.Background()); err != nil {
		t.Errorf("Health: %v", err)
	}
}
