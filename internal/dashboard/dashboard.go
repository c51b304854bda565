// Package dashboard selects between live Riot data and the Notion store and
// shapes the results for the HTTP layer. Live data wins; the store is the
// fallback; both failing is reported as an unavailable source rather than as
// zero games.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"junglecoach/internal/analytics"
	"junglecoach/internal/model"
	"junglecoach/internal/notion"
	"junglecoach/internal/riot"
)

// Source identifies where a response's data came from.
type Source string

const (
	SourceRiot        Source = "riot_api"
	SourceNotion      Source = "notion"
	SourceUnavailable Source = "unavailable"
)

const defaultGameWindow = 20

// GameView is the wire shape of one game in dashboard responses.
type GameView struct {
	MatchID  string       `json:"matchId"`
	Champion string       `json:"champion"`
	Result   model.Result `json:"result"`
	KDA      string       `json:"kda"`
	Deaths   int          `json:"deaths"`
	GameDate string       `json:"gameDate"`
}

// GamesResult is the games listing plus its provenance.
type GamesResult struct {
	Source Source     `json:"source"`
	Games  []GameView `json:"games"`
}

// AdvancedResult bundles the full analytics output. Analytics fields are nil
// when Source is unavailable.
type AdvancedResult struct {
	Source        Source                    `json:"source"`
	LastUpdated   time.Time                 `json:"lastUpdated"`
	GameCount     int                       `json:"gameCount"`
	KPIs          *analytics.KPISet         `json:"kpis,omitempty"`
	Insights      []analytics.Insight       `json:"insights,omitempty"`
	ChampionStats []analytics.ChampionStats `json:"championStats,omitempty"`
	Trends        []analytics.TrendBucket   `json:"trends,omitempty"`
	Overview      *analytics.Overview       `json:"overview,omitempty"`
}

// GameScraper produces normalized jungle games from recent match history.
type GameScraper interface {
	ScrapeRecentMatches(ctx context.Context, count int) ([]model.Game, error)
}

// GameLister reads stored games, newest first.
type GameLister interface {
	ListGames(ctx context.Context, limit int) ([]notion.GameRecord, error)
}

// ProfileSource reads the tracked player's summoner and ranked data.
type ProfileSource interface {
	SummonerByPUUID(ctx context.Context, puuid string) (*riot.Summoner, error)
	LeagueEntries(ctx context.Context, puuid string) ([]riot.LeagueEntry, error)
}

// Player identifies the tracked player for profile lookups.
type Player struct {
	PUUID  string
	RiotID string
}

// Service answers dashboard queries.
type Service struct {
	scraper GameScraper
	store   GameLister
	profile ProfileSource
	player  Player
	now     func() time.Time
	log     *logrus.Logger
}

func NewService(scraper GameScraper, store GameLister, profile ProfileSource, player Player, log *logrus.Logger) *Service {
	return &Service{
		scraper: scraper,
		store:   store,
		profile: profile,
		player:  player,
		now:     time.Now,
		log:     log,
	}
}

// RecentGames returns up to limit recent jungle games. Live Riot data is
// preferred; the Notion store serves as fallback. Zero games from a healthy
// source is a valid result and keeps that source's label.
func (s *Service) RecentGames(ctx context.Context, limit int) GamesResult {
	if limit <= 0 {
		limit = defaultGameWindow
	}

	games, err := s.scraper.ScrapeRecentMatches(ctx, limit)
	if err == nil {
		views := make([]GameView, 0, len(games))
		for _, game := range games {
			views = append(views, liveGameView(game))
		}
		return GamesResult{Source: SourceRiot, Games: views}
	}
	s.log.WithError(err).Warn("live data unavailable, falling back to stored games")

	records, err := s.store.ListGames(ctx, limit)
	if err != nil {
		s.log.WithError(err).Error("stored games unavailable")
		return GamesResult{Source: SourceUnavailable, Games: []GameView{}}
	}

	views := make([]GameView, 0, len(records))
	for _, record := range records {
		views = append(views, storedGameView(record))
	}
	return GamesResult{Source: SourceNotion, Games: views}
}

// Advanced computes the full analytics bundle from live data. The store
// holds only a summary projection of each game, so there is no degraded
// fallback here; failure is reported as an unavailable source.
func (s *Service) Advanced(ctx context.Context) AdvancedResult {
	games, err := s.scraper.ScrapeRecentMatches(ctx, defaultGameWindow)
	if err != nil {
		s.log.WithError(err).Error("advanced analytics unavailable")
		return AdvancedResult{Source: SourceUnavailable, LastUpdated: s.now().UTC()}
	}

	kpis := analytics.CalculateKPIs(games)
	overview := analytics.ComputeOverview(games)

	return AdvancedResult{
		Source:        SourceRiot,
		LastUpdated:   s.now().UTC(),
		GameCount:     len(games),
		KPIs:          &kpis,
		Insights:      analytics.GenerateInsights(games),
		ChampionStats: analytics.AnalyzeChampionPerformance(games),
		Trends:        analytics.PerformanceTrends(games),
		Overview:      &overview,
	}
}

// RankView is the tracked player's ranked solo standing.
type RankView struct {
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// ProfileView is the tracked player's identity plus ranked standing. Rank is
// nil for unranked players.
type ProfileView struct {
	RiotID        string    `json:"riotId"`
	SummonerLevel int       `json:"summonerLevel"`
	Rank          *RankView `json:"rank,omitempty"`
}

// Profile returns the tracked player's summoner level and ranked solo entry.
func (s *Service) Profile(ctx context.Context) (ProfileView, error) {
	view := ProfileView{RiotID: s.player.RiotID}

	summoner, err := s.profile.SummonerByPUUID(ctx, s.player.PUUID)
	if err != nil {
		return view, fmt.Errorf("summoner lookup: %w", err)
	}
	if summoner != nil {
		view.SummonerLevel = summoner.SummonerLevel
	}

	entries, err := s.profile.LeagueEntries(ctx, s.player.PUUID)
	if err != nil {
		return view, fmt.Errorf("league entries lookup: %w", err)
	}
	for _, entry := range entries {
		if entry.QueueType != "RANKED_SOLO_5x5" {
			continue
		}
		view.Rank = &RankView{
			Tier:         entry.Tier,
			Rank:         entry.Rank,
			LeaguePoints: entry.LeaguePoints,
			Wins:         entry.Wins,
			Losses:       entry.Losses,
		}
		break
	}
	return view, nil
}

func liveGameView(game model.Game) GameView {
	return GameView{
		MatchID:  game.MatchID,
		Champion: game.Champion,
		Result:   game.Result,
		KDA:      game.KDA,
		Deaths:   game.Deaths,
		GameDate: game.GameDate.UTC().Format(time.RFC3339),
	}
}

func storedGameView(record notion.GameRecord) GameView {
	return GameView{
		MatchID:  record.MatchID,
		Champion: record.Champion,
		Result:   record.Result,
		KDA:      record.KDA,
		Deaths:   record.Deaths,
		GameDate: record.GameDate,
	}
}
