package riot

// Account represents the response from /riot/account/v1/accounts/by-riot-id
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// Summoner represents the response from /lol/summoner/v4/summoners/by-puuid
type Summoner struct {
	ID            string `json:"id"`
	AccountID     string `json:"accountId"`
	PUUID         string `json:"puuid"`
	ProfileIconID int    `json:"profileIconId"`
	RevisionDate  int64  `json:"revisionDate"`
	SummonerLevel int    `json:"summonerLevel"`
}

// Match represents the response from /lol/match/v5/matches/{matchId}
type Match struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"` // PUUIDs
}

type MatchInfo struct {
	GameCreation int64         `json:"gameCreation"` // epoch ms
	GameDuration int64         `json:"gameDuration"` // ms
	GameVersion  string        `json:"gameVersion"`
	QueueID      int           `json:"queueId"`
	Participants []Participant `json:"participants"`
}

// Participant carries the per-player fields the pipeline consumes. Role
// labelling has drifted across API versions: TeamPosition is the current
// structured field, Lane the legacy one, and the summoner spell slots plus
// neutral CS remain as a last-resort signal.
type Participant struct {
	PUUID          string `json:"puuid"`
	RiotIDGameName string `json:"riotIdGameName"`
	RiotIDTagline  string `json:"riotIdTagline"`
	ChampionName   string `json:"championName"`
	TeamPosition   string `json:"teamPosition"` // TOP, JUNGLE, MIDDLE, BOTTOM, UTILITY
	Lane           string `json:"lane"`
	Win            bool   `json:"win"`

	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	NeutralMinionsKilled    int `json:"neutralMinionsKilled"` // jungle CS
	TotalMinionsKilled      int `json:"totalMinionsKilled"`
	VisionScore             int `json:"visionScore"`
	DamageDealtToObjectives int `json:"damageDealtToObjectives"`
	WardsPlaced             int `json:"wardsPlaced"`
	WardsKilled             int `json:"wardsKilled"`
	GoldEarned              int `json:"goldEarned"`

	Summoner1ID int `json:"summoner1Id"`
	Summoner2ID int `json:"summoner2Id"`
}

// LeagueEntry represents a ranked entry from /lol/league/v4/entries/by-puuid
type LeagueEntry struct {
	LeagueID     string `json:"leagueId"`
	QueueType    string `json:"queueType"` // RANKED_SOLO_5x5, RANKED_FLEX_SR
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// QueueRankedSolo is the match-v5 queue ID for ranked solo/duo.
const QueueRankedSolo = 420
