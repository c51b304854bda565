// Package gamesync reconciles scraped jungle games into the games database.
// Sync is idempotent: a game is created only when no record with its match
// ID already exists.
package gamesync

import (
	"context"
	"fmt"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/sirupsen/logrus"

	"junglecoach/internal/discord"
	"junglecoach/internal/model"
	"junglecoach/internal/notion"
	"junglecoach/internal/riot"
)

const (
	// Expected number of distinct match IDs the seen filter will hold.
	seenFilterCapacity = 10000
	seenFilterFPRate   = 0.01

	// Pause between Riot match fetches during date backfill.
	backfillPause = 100 * time.Millisecond
)

// GameStore is the subset of the games database the syncer needs.
type GameStore interface {
	FindByMatchID(ctx context.Context, matchID string) (*notion.GameRecord, error)
	Create(ctx context.Context, game model.Game) error
	ListMissingDates(ctx context.Context) ([]notion.GameRecord, error)
	SetGameDate(ctx context.Context, pageID, day string) error
}

// GameScraper produces normalized jungle games from match history.
type GameScraper interface {
	ScrapeRecentMatches(ctx context.Context, count int) ([]model.Game, error)
	ScrapeMatch(ctx context.Context, matchID string) (*model.Game, error)
}

// MatchFetcher re-fetches a single match, used for date backfill.
type MatchFetcher interface {
	Match(ctx context.Context, matchID string) (*riot.Match, error)
}

// AlertSink receives newly created games for coaching alert evaluation.
type AlertSink interface {
	NotifyGame(ctx context.Context, game model.Game) []discord.Alert
}

// Report summarizes one sync run. Errors counts games that failed to sync;
// a nonzero value does not fail the run.
type Report struct {
	Found   int `json:"found"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// BackfillReport summarizes one date backfill run.
type BackfillReport struct {
	Missing int `json:"missing"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}

// Syncer drives the scrape-then-upsert pipeline.
type Syncer struct {
	scraper GameScraper
	store   GameStore
	matches MatchFetcher
	alerts  AlertSink
	seen    *bloom.BloomFilter
	sleep   func(time.Duration)
	log     *logrus.Logger
}

func New(scraper GameScraper, store GameStore, matches MatchFetcher, alerts AlertSink, log *logrus.Logger) *Syncer {
	return &Syncer{
		scraper: scraper,
		store:   store,
		matches: matches,
		alerts:  alerts,
		seen:    bloom.NewWithEstimates(seenFilterCapacity, seenFilterFPRate),
		sleep:   time.Sleep,
		log:     log,
	}
}

// SyncRecent scrapes up to count recent jungle games and creates a record
// for each one not already stored. Individual failures are logged and
// counted; the run continues.
func (s *Syncer) SyncRecent(ctx context.Context, count int) (Report, error) {
	var report Report

	games, err := s.scraper.ScrapeRecentMatches(ctx, count)
	if err != nil {
		return report, fmt.Errorf("scrape recent matches: %w", err)
	}
	report.Found = len(games)

	for _, game := range games {
		// A filter hit can be a false positive for a match that was
		// never stored, so it is a hint only. The store lookup stays
		// authoritative for dedup.
		seenHint := s.seen.TestString(game.MatchID)

		existing, err := s.store.FindByMatchID(ctx, game.MatchID)
		if err != nil {
			s.log.WithError(err).WithField("matchId", game.MatchID).Warn("dedup lookup failed")
			report.Errors++
			continue
		}
		if existing != nil {
			s.seen.AddString(game.MatchID)
			report.Skipped++
			continue
		}
		if seenHint {
			s.log.WithField("matchId", game.MatchID).Debug("seen filter false positive")
		}

		if err := s.store.Create(ctx, game); err != nil {
			s.log.WithError(err).WithField("matchId", game.MatchID).Warn("create game failed")
			report.Errors++
			continue
		}
		s.seen.AddString(game.MatchID)
		report.Created++

		s.log.WithFields(logrus.Fields{
			"matchId":  game.MatchID,
			"champion": game.Champion,
			"kda":      game.KDA,
		}).Info("game synced")

		if s.alerts != nil {
			s.alerts.NotifyGame(ctx, game)
		}
	}

	return report, nil
}

// SyncMatch ingests one completed match. Non-jungle and unavailable matches
// are ignored; created reports whether a new record was written.
func (s *Syncer) SyncMatch(ctx context.Context, matchID string) (created bool, err error) {
	game, err := s.scraper.ScrapeMatch(ctx, matchID)
	if err != nil {
		return false, fmt.Errorf("scrape match %s: %w", matchID, err)
	}
	if game == nil {
		s.log.WithField("matchId", matchID).Info("match skipped, not a jungle game")
		return false, nil
	}

	existing, err := s.store.FindByMatchID(ctx, game.MatchID)
	if err != nil {
		return false, fmt.Errorf("dedup lookup %s: %w", game.MatchID, err)
	}
	if existing != nil {
		s.seen.AddString(game.MatchID)
		return false, nil
	}

	if err := s.store.Create(ctx, *game); err != nil {
		return false, fmt.Errorf("create game %s: %w", game.MatchID, err)
	}
	s.seen.AddString(game.MatchID)

	if s.alerts != nil {
		s.alerts.NotifyGame(ctx, *game)
	}
	return true, nil
}

// BackfillDates finds records missing a game date, re-fetches each match and
// patches only the game_date field. A short pause between Riot calls keeps
// the backfill from competing with interactive traffic.
func (s *Syncer) BackfillDates(ctx context.Context) (BackfillReport, error) {
	var report BackfillReport

	records, err := s.store.ListMissingDates(ctx)
	if err != nil {
		return report, fmt.Errorf("list records missing dates: %w", err)
	}
	report.Missing = len(records)

	for i, record := range records {
		if i > 0 {
			s.sleep(backfillPause)
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		match, err := s.matches.Match(ctx, record.MatchID)
		if err != nil {
			s.log.WithError(err).WithField("matchId", record.MatchID).Warn("match fetch failed during backfill")
			report.Errors++
			continue
		}
		if match == nil {
			s.log.WithField("matchId", record.MatchID).Warn("match no longer available, date left empty")
			report.Errors++
			continue
		}

		day := time.UnixMilli(match.Info.GameCreation).UTC().Format("2006-01-02")
		if err := s.store.SetGameDate(ctx, record.PageID, day); err != nil {
			s.log.WithError(err).WithField("matchId", record.MatchID).Warn("date patch failed")
			report.Errors++
			continue
		}
		report.Updated++
	}

	return report, nil
}
