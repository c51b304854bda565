package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of a single game.
type Result string

const (
	ResultWin  Result = "WIN"
	ResultLoss Result = "LOSS"
)

// Game is the normalized per-match record the rest of the pipeline operates
// on. One Game is derived from the tracked player's participant entry in a
// single Riot match payload.
type Game struct {
	MatchID          string        `json:"matchId"`
	Champion         string        `json:"champion"`
	Result           Result        `json:"result"`
	Kills            int           `json:"kills"`
	Deaths           int           `json:"deaths"`
	Assists          int           `json:"assists"`
	KDA              string        `json:"kda"`
	TotalCS          int           `json:"cs"`
	JungleCS         int           `json:"jungleCS"`
	VisionScore      int           `json:"visionScore"`
	ObjectivesDamage int           `json:"objectivesDamage"`
	WardsPlaced      int           `json:"wardsPlaced"`
	WardsKilled      int           `json:"wardsKilled"`
	GoldEarned       int           `json:"goldEarned"`
	GameDate         time.Time     `json:"gameDate"`
	GameDuration     time.Duration `json:"gameDuration"`
	Role             string        `json:"role"`
}

// Win reports whether the game was won.
func (g Game) Win() bool {
	return g.Result == ResultWin
}

// Minutes returns the game length in minutes.
func (g Game) Minutes() float64 {
	return g.GameDuration.Minutes()
}

// FormatKDA renders kills/deaths/assists as the display string "k/d/a".
func FormatKDA(kills, deaths, assists int) string {
	return fmt.Sprintf("%d/%d/%d", kills, deaths, assists)
}

// DeathsFromKDA extracts the deaths component from a "k/d/a" display string.
// Missing or malformed input yields 0 rather than an error, since stored KDA
// text comes from a free-form rich-text field.
func DeathsFromKDA(kda string) int {
	parts := strings.Split(kda, "/")
	if len(parts) < 2 {
		return 0
	}
	deaths, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || deaths < 0 {
		return 0
	}
	return deaths
}
