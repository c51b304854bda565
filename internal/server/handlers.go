package server

import (
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"junglecoach/internal/discord"
	"junglecoach/internal/model"
)

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	s.writeJSON(w, http.StatusOK, s.dashboard.RecentGames(r.Context(), limit))
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.dashboard.Advanced(r.Context()))
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.dashboard.Profile(r.Context())
	if err != nil {
		s.log.WithError(err).Error("profile lookup failed")
		s.writeError(w, http.StatusBadGateway, "profile unavailable: "+err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.CurrentSession(r.Context())
	if err != nil {
		// CurrentSession degrades to its built-in default; log and serve it.
		s.log.WithError(err).Warn("session lookup degraded")
	}
	s.writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	report, err := s.sync.SyncRecent(r.Context(), refreshCount)
	if err != nil {
		s.log.WithError(err).Error("refresh failed")
		s.writeError(w, http.StatusBadGateway, "sync failed: "+err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSyncDates(w http.ResponseWriter, r *http.Request) {
	report, err := s.sync.BackfillDates(r.Context())
	if err != nil {
		s.log.WithError(err).Error("date backfill failed")
		s.writeError(w, http.StatusBadGateway, "backfill failed: "+err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

type riotWebhookRequest struct {
	Action  string `json:"action"`
	MatchID string `json:"matchId"`
}

func (s *Server) handleRiotWebhook(w http.ResponseWriter, r *http.Request) {
	// With no secret configured the endpoint stays closed. An empty
	// header must never match an empty secret.
	if s.webhookSecret == "" || r.Header.Get("X-Webhook-Secret") != s.webhookSecret {
		s.log.Warn("webhook rejected, bad secret")
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req riotWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	switch req.Action {
	case "match_completed":
		if req.MatchID == "" {
			s.writeError(w, http.StatusBadRequest, "match_completed requires matchId")
			return
		}
		created, err := s.sync.SyncMatch(r.Context(), req.MatchID)
		if err != nil {
			s.log.WithError(err).WithField("matchId", req.MatchID).Error("match webhook failed")
			s.writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"created":   created,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	case "refresh_recent":
		report, err := s.sync.SyncRecent(r.Context(), refreshCount)
		if err != nil {
			s.log.WithError(err).Error("refresh webhook failed")
			s.writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"report":    report,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	default:
		s.log.WithField("action", req.Action).Warn("unknown webhook action")
		s.writeError(w, http.StatusBadRequest, "unknown action")
	}
}

// handleRiotWebhookManual serves GET /webhook/riot. With ?action=refresh it
// runs a sync; otherwise it describes the endpoint.
func (s *Server) handleRiotWebhookManual(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("action") != "refresh" {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"message":          "Riot webhook endpoint",
			"availableActions": []string{"match_completed", "refresh_recent"},
		})
		return
	}

	report, err := s.sync.SyncRecent(r.Context(), refreshCount)
	if err != nil {
		s.log.WithError(err).Error("manual refresh failed")
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"report":    report,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type coachingAlertRequest struct {
	Champion string `json:"champion"`
	Deaths   int    `json:"deaths"`
	KDA      string `json:"kda"`
	Result   string `json:"result"`
}

// handleCoachingAlerts evaluates the coaching rules against a posted game
// without persisting anything.
func (s *Server) handleCoachingAlerts(w http.ResponseWriter, r *http.Request) {
	var req coachingAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	game := model.Game{
		Champion: req.Champion,
		Deaths:   req.Deaths,
		KDA:      req.KDA,
		Result:   model.Result(req.Result),
	}
	alerts := discord.EvaluateGame(game)
	if alerts == nil {
		alerts = []discord.Alert{}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"alerts":     alerts,
		"alertCount": len(alerts),
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	riotStatus, storeStatus := "ok", "ok"

	if err := s.riot.Health(r.Context()); err != nil {
		riotStatus = err.Error()
		status = http.StatusServiceUnavailable
	}
	if _, err := s.store.ListGames(r.Context(), 1); err != nil {
		storeStatus = err.Error()
		status = http.StatusServiceUnavailable
	}

	s.writeJSON(w, status, map[string]string{
		"riot":  riotStatus,
		"store": storeStatus,
	})
}
