package discord

import (
	"fmt"

	"junglecoach/internal/model"
)

// AlertType classifies a coaching alert by severity.
type AlertType string

const (
	AlertCritical AlertType = "critical"
	AlertWarning  AlertType = "warning"
	AlertSuccess  AlertType = "success"
)

const criticalDeathThreshold = 10

// comfortPool lists the champions considered consistent picks. Anything
// else counts as experimental.
var comfortPool = map[string]bool{
	"Kindred": true,
	"Briar":   true,
}

// Alert is one triggered coaching rule with a suggested follow-up action.
type Alert struct {
	Type    AlertType `json:"type"`
	Message string    `json:"message"`
	Action  string    `json:"action,omitempty"`
}

// EvaluateGame runs the coaching rules against one game. Multiple rules can
// fire for the same game.
func EvaluateGame(game model.Game) []Alert {
	var alerts []Alert

	if game.Deaths > criticalDeathThreshold {
		alerts = append(alerts, Alert{
			Type:    AlertCritical,
			Message: fmt.Sprintf("🚨 CRITICAL: %d deaths on %s! Protocol violation detected.", game.Deaths, game.Champion),
			Action:  "Focus on positioning and map awareness",
		})
	}

	if game.Champion != "" && !comfortPool[game.Champion] {
		alerts = append(alerts, Alert{
			Type:    AlertWarning,
			Message: fmt.Sprintf("⚠️ WARNING: Experimental pick %s detected. Return to Kindred/Briar.", game.Champion),
			Action:  "Return to Kindred/Briar for consistency",
		})
	}

	if game.Deaths <= 3 && game.Win() {
		alerts = append(alerts, Alert{
			Type:    AlertSuccess,
			Message: fmt.Sprintf("✅ EXCELLENT: %s %s WIN with perfect death control!", game.Champion, game.KDA),
		})
	}

	return alerts
}
