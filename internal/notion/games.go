package notion

import (
	"context"
	"math"

	"junglecoach/internal/model"
)

// Property names in the games database.
const (
	propMatchID          = "match_id"
	propChampion         = "champion"
	propKDA              = "kda"
	propResult           = "result"
	propRole             = "role"
	propGameDate         = "game_date"
	propDeaths           = "deaths"
	propJungleCS         = "jungle_cs"
	propVisionScore      = "vision_score"
	propObjectivesDamage = "objectives_damage"
	propGoldEarned       = "gold_earned"
	propDuration         = "duration_minutes"

	selectWin    = "Win"
	selectLoss   = "Loss"
	selectJungle = "JUNGLE"

	// dateLayout is the stored calendar-day format.
	dateLayout = "2006-01-02"
)

// GameRecord is the persisted form of a game, keyed by page ID with MatchID
// as the deduplication key.
type GameRecord struct {
	PageID          string       `json:"id"`
	MatchID         string       `json:"matchId"`
	Champion        string       `json:"champion"`
	Result          model.Result `json:"result"`
	KDA             string       `json:"kda"`
	Deaths          int          `json:"deaths"`
	GameDate        string       `json:"gameDate"` // YYYY-MM-DD, empty when missing
	DurationMinutes int          `json:"durationMinutes"`
}

// GamesStore reads and writes game records in the games database.
type GamesStore struct {
	client     *Client
	databaseID string
}

// NewGamesStore wraps a client for one games database.
func NewGamesStore(client *Client, databaseID string) *GamesStore {
	return &GamesStore{client: client, databaseID: databaseID}
}

// ListGames returns up to limit stored jungle games, newest first.
func (s *GamesStore) ListGames(ctx context.Context, limit int) ([]GameRecord, error) {
	pages, err := s.client.QueryDatabase(ctx, s.databaseID, QueryRequest{
		Filter: &Filter{
			Property: propRole,
			Select:   &EqualsCondition{Equals: selectJungle},
		},
		Sorts:    []Sort{{Property: propGameDate, Direction: "descending"}},
		PageSize: limit,
	})
	if err != nil {
		return nil, err
	}

	records := make([]GameRecord, 0, len(pages))
	for _, page := range pages {
		records = append(records, recordFromPage(page))
	}
	return records, nil
}

// FindByMatchID looks a record up by its deduplication key. Returns nil
// without error when no record matches.
func (s *GamesStore) FindByMatchID(ctx context.Context, matchID string) (*GameRecord, error) {
	pages, err := s.client.QueryDatabase(ctx, s.databaseID, QueryRequest{
		Filter: &Filter{
			Property: propMatchID,
			Title:    &EqualsCondition{Equals: matchID},
		},
		PageSize: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, nil
	}
	record := recordFromPage(pages[0])
	return &record, nil
}

// ListMissingDates returns records whose game_date field is empty.
func (s *GamesStore) ListMissingDates(ctx context.Context) ([]GameRecord, error) {
	pages, err := s.client.QueryDatabase(ctx, s.databaseID, QueryRequest{
		Filter: &Filter{
			Property: propGameDate,
			Date:     &DateCondition{IsEmpty: true},
		},
	})
	if err != nil {
		return nil, err
	}

	records := make([]GameRecord, 0, len(pages))
	for _, page := range pages {
		records = append(records, recordFromPage(page))
	}
	return records, nil
}

// Create persists one normalized game as a new document.
func (s *GamesStore) Create(ctx context.Context, game model.Game) error {
	result := selectLoss
	if game.Win() {
		result = selectWin
	}

	properties := map[string]Property{
		propMatchID:          NewTitle(game.MatchID),
		propChampion:         NewRichText(game.Champion),
		propKDA:              NewRichText(game.KDA),
		propResult:           NewSelect(result),
		propRole:             NewSelect(selectJungle),
		propGameDate:         NewDate(game.GameDate.UTC().Format(dateLayout)),
		propDeaths:           NewNumber(float64(game.Deaths)),
		propJungleCS:         NewNumber(float64(game.JungleCS)),
		propVisionScore:      NewNumber(float64(game.VisionScore)),
		propObjectivesDamage: NewNumber(float64(game.ObjectivesDamage)),
		propGoldEarned:       NewNumber(float64(game.GoldEarned)),
		propDuration:         NewNumber(math.Floor(game.GameDuration.Minutes())),
	}
	return s.client.CreatePage(ctx, s.databaseID, properties)
}

// SetGameDate backfills only the game_date field of an existing record.
func (s *GamesStore) SetGameDate(ctx context.Context, pageID, day string) error {
	return s.client.UpdatePage(ctx, pageID, map[string]Property{
		propGameDate: NewDate(day),
	})
}

// recordFromPage projects a document into a GameRecord with explicit
// defaults for every optional field. Deaths come from the KDA text the same
// way the dashboard reads them.
func recordFromPage(page Page) GameRecord {
	kda := page.RichTextValue(propKDA)

	result := model.ResultLoss
	if page.SelectName(propResult) == selectWin {
		result = model.ResultWin
	}

	champion := page.RichTextValue(propChampion)
	if champion == "" {
		champion = "Unknown"
	}

	return GameRecord{
		PageID:          page.ID,
		MatchID:         page.TitleText(propMatchID),
		Champion:        champion,
		Result:          result,
		KDA:             kda,
		Deaths:          model.DeathsFromKDA(kda),
		GameDate:        page.DateStart(propGameDate),
		DurationMinutes: int(page.NumberValue(propDuration)),
	}
}
