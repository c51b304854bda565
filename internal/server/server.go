// Package server exposes the dashboard and webhook HTTP API. Handlers stay
// thin: they parse, delegate and encode, with all domain logic behind the
// injected services.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"junglecoach/internal/dashboard"
	"junglecoach/internal/gamesync"
	"junglecoach/internal/notion"
)

// refreshCount is how many recent games a refresh or webhook trigger syncs.
const refreshCount = 10

// DashboardService answers games, analytics and profile queries.
type DashboardService interface {
	RecentGames(ctx context.Context, limit int) dashboard.GamesResult
	Advanced(ctx context.Context) dashboard.AdvancedResult
	Profile(ctx context.Context) (dashboard.ProfileView, error)
}

// SessionSource provides the current coaching session.
type SessionSource interface {
	CurrentSession(ctx context.Context) (notion.Session, error)
}

// SyncService runs the ingest pipeline.
type SyncService interface {
	SyncRecent(ctx context.Context, count int) (gamesync.Report, error)
	SyncMatch(ctx context.Context, matchID string) (bool, error)
	BackfillDates(ctx context.Context) (gamesync.BackfillReport, error)
}

// HealthChecker probes the Riot API edge.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// StoreChecker probes games database reachability.
type StoreChecker interface {
	ListGames(ctx context.Context, limit int) ([]notion.GameRecord, error)
}

// Server wires the services into an HTTP handler.
type Server struct {
	dashboard     DashboardService
	sessions      SessionSource
	sync          SyncService
	riot          HealthChecker
	store         StoreChecker
	webhookSecret string
	log           *logrus.Logger
}

func New(dash DashboardService, sessions SessionSource, sync SyncService, riot HealthChecker, store StoreChecker, webhookSecret string, log *logrus.Logger) *Server {
	return &Server{
		dashboard:     dash,
		sessions:      sessions,
		sync:          sync,
		riot:          riot,
		store:         store,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/games", s.handleGames)
		r.Get("/analytics", s.handleAnalytics)
		r.Get("/profile", s.handleProfile)
		r.Get("/session", s.handleSession)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/sync-dates", s.handleSyncDates)
	})

	r.Route("/webhook", func(r chi.Router) {
		r.Post("/riot", s.handleRiotWebhook)
		r.Get("/riot", s.handleRiotWebhookManual)
		r.Post("/coaching-alerts", s.handleCoachingAlerts)
	})

	r.Get("/healthz", s.handleHealthz)

	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("response encoding failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
