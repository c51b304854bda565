package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"junglecoach/internal/model"
	"junglecoach/internal/notion"
	"junglecoach/internal/riot"
)

type fakeScraper struct {
	games []model.Game
	err   error
}

func (f *fakeScraper) ScrapeRecentMatches(ctx context.Context, count int) ([]model.Game, error) {
	return f.games, f.err
}

type fakeLister struct {
	records []notion.GameRecord
	err     error
}

func (f *fakeLister) ListGames(ctx context.Context, limit int) ([]notion.GameRecord, error) {
	return f.records, f.err
}

type fakeProfile struct {
	summoner *riot.Summoner
	entries  []riot.LeagueEntry
	err      error
}

func (f *fakeProfile) SummonerByPUUID(ctx context.Context, puuid string) (*riot.Summoner, error) {
	return f.summoner, f.err
}

func (f *fakeProfile) LeagueEntries(ctx context.Context, puuid string) ([]riot.LeagueEntry, error) {
	return f.entries, f.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newService(scraper GameScraper, store GameLister, profile ProfileSource) *Service {
	if profile == nil {
		profile = &fakeProfile{}
	}
	player := Player{PUUID: "puuid-1", RiotID: "Feraxin#EUNE"}
	return NewService(scraper, store, profile, player, quietLogger())
}

func liveGame() model.Game {
	return model.Game{
		MatchID:  "EUN1_1",
		Champion: "Kindred",
		Result:   model.ResultWin,
		KDA:      "9/5/10",
		Deaths:   5,
		GameDate: time.Date(2026, 1, 10, 22, 30, 0, 0, time.UTC),
	}
}

func TestRecentGames_PrefersLiveData(t *testing.T) {
	service := newService(
		&fakeScraper{games: []model.Game{liveGame()}},
		&fakeLister{err: errors.New("store should not be touched")},
		nil,
	)

	result := service.RecentGames(context.Background(), 10)
	if result.Source != SourceRiot {
		t.Errorf("Source = %s, want %s", result.Source, SourceRiot)
	}
	if len(result.Games) != 1 {
		t.Fatalf("got %d games, want 1", len(result.Games))
	}
	if result.Games[0].GameDate != "2026-01-10T22:30:00Z" {
		t.Errorf("GameDate = %q", result.Games[0].GameDate)
	}
}

func TestRecentGames_FallsBackToStore(t *testing.T) {
	service := newService(
		&fakeScraper{err: errors.New("riot down")},
		&fakeLister{records: []notion.GameRecord{
			{MatchID: "EUN1_1", Champion: "Briar", Result: model.ResultLoss, KDA: "2/8/4", Deaths: 8, GameDate: "2026-01-09"},
		}},
		nil,
	)

	result := service.RecentGames(context.Background(), 10)
	if result.Source != SourceNotion {
		t.Errorf("Source = %s, want %s", result.Source, SourceNotion)
	}
	if len(result.Games) != 1 || result.Games[0].Deaths != 8 {
		t.Errorf("games = %+v", result.Games)
	}
}

func TestRecentGames_BothSourcesDown(t *testing.T) {
	service := newService(
		&fakeScraper{err: errors.New("riot down")},
		&fakeLister{err: errors.New("store down")},
		nil,
	)

	result := service.RecentGames(context.Background(), 10)
	if result.Source != SourceUnavailable {
		t.Errorf("Source = %s, want %s", result.Source, SourceUnavailable)
	}
	if result.Games == nil || len(result.Games) != 0 {
		t.Errorf("games = %v, want empty non-nil slice", result.Games)
	}
}

func TestRecentGames_ZeroGamesKeepsSource(t *testing.T) {
	service := newService(&fakeScraper{games: []model.Game{}}, &fakeLister{}, nil)

	result := service.RecentGames(context.Background(), 10)
	if result.Source != SourceRiot {
		t.Errorf("an empty result from a healthy source should stay %s, got %s", SourceRiot, result.Source)
	}
}

func TestAdvanced(t *testing.T) {
	service := newService(&fakeScraper{games: []model.Game{
		func() model.Game {
			g := liveGame()
			g.GameDuration = 30 * time.Minute
			g.JungleCS = 150
			g.VisionScore = 40
			return g
		}(),
	}}, &fakeLister{}, nil)
	service.now = func() time.Time { return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC) }

	result := service.Advanced(context.Background())
	if result.Source != SourceRiot {
		t.Fatalf("Source = %s, want %s", result.Source, SourceRiot)
	}
	if result.GameCount != 1 {
		t.Errorf("GameCount = %d, want 1", result.GameCount)
	}
	if result.KPIs == nil || result.KPIs.Winrate != 100 {
		t.Errorf("KPIs = %+v", result.KPIs)
	}
	if result.Overview == nil || result.Overview.TotalGames != 1 {
		t.Errorf("Overview = %+v", result.Overview)
	}
	if !result.LastUpdated.Equal(time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("LastUpdated = %v", result.LastUpdated)
	}
}

func TestAdvanced_Unavailable(t *testing.T) {
	service := newService(&fakeScraper{err: errors.New("riot down")}, &fakeLister{}, nil)

	result := service.Advanced(context.Background())
	if result.Source != SourceUnavailable {
		t.Errorf("Source = %s, want %s", result.Source, SourceUnavailable)
	}
	if result.KPIs != nil {
		t.Error("KPIs should be nil when unavailable")
	}
}

func TestProfile(t *testing.T) {
	profile := &fakeProfile{
		summoner: &riot.Summoner{PUUID: "puuid-1", SummonerLevel: 287},
		entries: []riot.LeagueEntry{
			{QueueType: "RANKED_FLEX_SR", Tier: "SILVER", Rank: "I"},
			{QueueType: "RANKED_SOLO_5x5", Tier: "GOLD", Rank: "III", LeaguePoints: 42, Wins: 30, Losses: 25},
		},
	}
	service := newService(&fakeScraper{}, &fakeLister{}, profile)

	view, err := service.Profile(context.Background())
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if view.RiotID != "Feraxin#EUNE" || view.SummonerLevel != 287 {
		t.Errorf("view = %+v", view)
	}
	if view.Rank == nil || view.Rank.Tier != "GOLD" || view.Rank.LeaguePoints != 42 {
		t.Errorf("rank = %+v, want the solo queue entry", view.Rank)
	}
}

func TestProfile_Unranked(t *testing.T) {
	profile := &fakeProfile{summoner: &riot.Summoner{SummonerLevel: 30}}
	service := newService(&fakeScraper{}, &fakeLister{}, profile)

	view, err := service.Profile(context.Background())
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if view.Rank != nil {
		t.Errorf("rank = %+v, want nil for unranked", view.Rank)
	}
}
