package notion

import "context"

// Property names in the sessions database.
const (
	propSessionName = "session_name"
	propFocusArea   = "focus_area"
	propTargetGames = "target_games"
	propStartDate   = "start_date"
	propStatus      = "status"

	selectActive = "Active"
)

// Session is the coaching session the dashboard header shows.
type Session struct {
	Name        string `json:"name"`
	FocusArea   string `json:"focus_area"`
	TargetGames int    `json:"target_games"`
	StartDate   string `json:"start_date"`
}

// defaultSession is rendered when no active session exists in the database.
var defaultSession = Session{
	Name:        "Death Binary Protocol",
	FocusArea:   "Champion Mechanics",
	TargetGames: 10,
	StartDate:   "2025-09-22",
}

// SessionsStore reads the coaching sessions database.
type SessionsStore struct {
	client     *Client
	databaseID string
}

// NewSessionsStore wraps a client for one sessions database.
func NewSessionsStore(client *Client, databaseID string) *SessionsStore {
	return &SessionsStore{client: client, databaseID: databaseID}
}

// CurrentSession returns the active session, falling back to the default
// when none is marked active or a field is missing.
func (s *SessionsStore) CurrentSession(ctx context.Context) (Session, error) {
	pages, err := s.client.QueryDatabase(ctx, s.databaseID, QueryRequest{
		Filter: &Filter{
			Property: propStatus,
			Select:   &EqualsCondition{Equals: selectActive},
		},
		Sorts:    []Sort{{Property: propStartDate, Direction: "descending"}},
		PageSize: 1,
	})
	if err != nil {
		return defaultSession, err
	}
	if len(pages) == 0 {
		return defaultSession, nil
	}

	page := pages[0]
	session := Session{
		Name:        page.TitleText(propSessionName),
		FocusArea:   page.SelectName(propFocusArea),
		TargetGames: int(page.NumberValue(propTargetGames)),
		StartDate:   page.DateStart(propStartDate),
	}
	if session.Name == "" {
		session.Name = defaultSession.Name
	}
	if session.FocusArea == "" {
		session.FocusArea = defaultSession.FocusArea
	}
	if session.TargetGames == 0 {
		session.TargetGames = defaultSession.TargetGames
	}
	if session.StartDate == "" {
		session.StartDate = defaultSession.StartDate
	}
	return session, nil
}
