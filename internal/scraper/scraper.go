package scraper

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"junglecoach/internal/model"
	"junglecoach/internal/riot"
)

// MatchSource is the slice of the Riot client the scraper depends on,
// narrowed so tests can substitute a fake.
type MatchSource interface {
	AccountByRiotID(ctx context.Context, gameName, tagLine string) (*riot.Account, error)
	MatchIDs(ctx context.Context, puuid string, opts riot.MatchIDsOptions) ([]string, error)
	Match(ctx context.Context, matchID string) (*riot.Match, error)
	Matches(ctx context.Context, matchIDs []string) ([]*riot.Match, error)
}

// Scraper fetches a player's recent matches and projects the jungle games
// into normalized records. The tracked player's identity is resolved once at
// construction and held for the scraper's lifetime.
type Scraper struct {
	source      MatchSource
	puuid       string
	classifiers []RoleClassifier
	log         *logrus.Logger
}

// New resolves gameName#tagLine to a PUUID and builds a scraper for that
// player. Fails when the account does not exist.
func New(ctx context.Context, source MatchSource, gameName, tagLine string, log *logrus.Logger) (*Scraper, error) {
	account, err := source.AccountByRiotID(ctx, gameName, tagLine)
	if err != nil {
		return nil, fmt.Errorf("resolve account %s#%s: %w", gameName, tagLine, err)
	}
	if account == nil {
		return nil, fmt.Errorf("account %s#%s not found", gameName, tagLine)
	}

	log.WithField("puuid", account.PUUID).Infof("tracking %s#%s", account.GameName, account.TagLine)
	return NewForPUUID(source, account.PUUID, log), nil
}

// NewForPUUID builds a scraper for an already-resolved PUUID.
func NewForPUUID(source MatchSource, puuid string, log *logrus.Logger) *Scraper {
	return &Scraper{
		source:      source,
		puuid:       puuid,
		classifiers: defaultClassifiers(),
		log:         log,
	}
}

// PUUID returns the tracked player's resolved PUUID.
func (s *Scraper) PUUID() string {
	return s.puuid
}

// ScrapeRecentMatches returns up to count recent ranked-solo jungle games,
// newest first. It over-fetches 2x the requested count because the role
// filter discards a fraction of results. A failed match-ID lookup is a total
// failure and surfaces as an error so callers can tell "source unavailable"
// apart from "no jungle games".
func (s *Scraper) ScrapeRecentMatches(ctx context.Context, count int) ([]model.Game, error) {
	ids, err := s.source.MatchIDs(ctx, s.puuid, riot.MatchIDsOptions{
		Queue: riot.QueueRankedSolo,
		Count: count * 2,
	})
	if err != nil {
		return nil, fmt.Errorf("match history lookup: %w", err)
	}
	if len(ids) == 0 {
		s.log.Info("no match history found")
		return []model.Game{}, nil
	}

	matches, err := s.source.Matches(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("match detail fetch: %w", err)
	}

	games := make([]model.Game, 0, len(matches))
	for _, match := range matches {
		game, ok := s.parseJungleGame(match)
		if !ok {
			continue
		}
		games = append(games, game)
	}

	s.log.WithFields(logrus.Fields{
		"matches": len(matches),
		"jungle":  len(games),
	}).Info("scrape complete")

	sort.Slice(games, func(i, j int) bool {
		return games[i].GameDate.After(games[j].GameDate)
	})
	if len(games) > count {
		games = games[:count]
	}
	return games, nil
}

// ScrapeMatch fetches and normalizes a single match. Returns nil when the
// match does not exist or the tracked player did not jungle in it.
func (s *Scraper) ScrapeMatch(ctx context.Context, matchID string) (*model.Game, error) {
	match, err := s.source.Match(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, nil
	}
	game, ok := s.parseJungleGame(match)
	if !ok {
		return nil, nil
	}
	return &game, nil
}

// parseJungleGame projects the tracked player's participant entry into a
// normalized Game. Any shape problem with a single match means skipping that
// match, never failing the batch.
func (s *Scraper) parseJungleGame(match *riot.Match) (model.Game, bool) {
	if match == nil || match.Metadata.MatchID == "" {
		return model.Game{}, false
	}

	var participant *riot.Participant
	for i := range match.Info.Participants {
		if match.Info.Participants[i].PUUID == s.puuid {
			participant = &match.Info.Participants[i]
			break
		}
	}
	if participant == nil {
		s.log.WithField("matchID", match.Metadata.MatchID).Warn("tracked player not in match, skipping")
		return model.Game{}, false
	}

	strategy, isJungle := classifyRole(s.classifiers, *participant)
	if !isJungle {
		return model.Game{}, false
	}
	if strategy == "smite" {
		s.log.WithField("matchID", match.Metadata.MatchID).Debug("jungle role inferred from smite heuristic")
	}

	result := model.ResultLoss
	if participant.Win {
		result = model.ResultWin
	}

	champion := participant.ChampionName
	if champion == "" {
		champion = "Unknown"
	}

	return model.Game{
		MatchID:          match.Metadata.MatchID,
		Champion:         champion,
		Result:           result,
		Kills:            nonNeg(participant.Kills),
		Deaths:           nonNeg(participant.Deaths),
		Assists:          nonNeg(participant.Assists),
		KDA:              model.FormatKDA(nonNeg(participant.Kills), nonNeg(participant.Deaths), nonNeg(participant.Assists)),
		TotalCS:          nonNeg(participant.TotalMinionsKilled + participant.NeutralMinionsKilled),
		JungleCS:         nonNeg(participant.NeutralMinionsKilled),
		VisionScore:      nonNeg(participant.VisionScore),
		ObjectivesDamage: nonNeg(participant.DamageDealtToObjectives),
		WardsPlaced:      nonNeg(participant.WardsPlaced),
		WardsKilled:      nonNeg(participant.WardsKilled),
		GoldEarned:       nonNeg(participant.GoldEarned),
		GameDate:         time.UnixMilli(match.Info.GameCreation).UTC(),
		GameDuration:     time.Duration(match.Info.GameDuration) * time.Millisecond,
		Role:             RoleJungle,
	}, true
}

func nonNeg(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
