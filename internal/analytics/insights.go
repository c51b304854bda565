package analytics

import (
	"fmt"
	"sort"

	"junglecoach/internal/model"
)

// InsightType classifies the tone of a coaching insight.
type InsightType string

const (
	InsightSuccess InsightType = "success"
	InsightWarning InsightType = "warning"
	InsightError   InsightType = "error"
	InsightInfo    InsightType = "info"
)

// Priority orders insights for display.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// Insight is one coaching recommendation. Insights are recomputed on every
// analytics pass and never persisted.
type Insight struct {
	Type     InsightType `json:"type"`
	Category string      `json:"category"`
	Title    string      `json:"title"`
	Message  string      `json:"message"`
	Action   string      `json:"action"`
	Priority Priority    `json:"priority"`
}

// Insight rule thresholds.
const (
	complianceCritical   = 50.0
	complianceWarn       = 70.0
	efficiencyWarn       = 70.0
	visionWarn           = 60.0
	objectiveWarn        = 60.0
	strongChampWinrate   = 70.0
	weakChampWinrate     = 40.0
	champSampleMinimum   = 3
	recentFormWindow     = 5
	recentFormWinMinimum = 1
)

// GenerateInsights evaluates the fixed rule table against the KPI set and
// champion stats. Rules are independent and may all fire; the result is
// sorted by priority, high first. Games are expected newest first.
func GenerateInsights(games []model.Game) []Insight {
	insights := []Insight{}
	if len(games) == 0 {
		return insights
	}

	kpis := CalculateKPIs(games)
	champions := AnalyzeChampionPerformance(games)

	// Death control: the critical and needs-improvement bands are mutually
	// exclusive variants of the same rule.
	if kpis.ProtocolCompliance < complianceCritical {
		insights = append(insights, Insight{
			Type:     InsightError,
			Category: "positioning",
			Title:    "Critical Death Control Issue",
			Message:  fmt.Sprintf("Only %.1f%% protocol compliance (≤%d deaths)", kpis.ProtocolCompliance, DeathProtocolThreshold),
			Action:   "Focus on safer pathing, ward river brushes before ganks, avoid risky invades",
			Priority: PriorityHigh,
		})
	} else if kpis.ProtocolCompliance < complianceWarn {
		insights = append(insights, Insight{
			Type:     InsightWarning,
			Category: "positioning",
			Title:    "Death Control Needs Improvement",
			Message:  fmt.Sprintf("%.1f%% protocol compliance - room for improvement", kpis.ProtocolCompliance),
			Action:   "Review VODs of high-death games, identify risky patterns",
			Priority: PriorityMedium,
		})
	}

	if kpis.JungleEfficiency < efficiencyWarn {
		insights = append(insights, Insight{
			Type:     InsightWarning,
			Category: "jungle_efficiency",
			Title:    "Jungle Clear Efficiency Low",
			Message:  fmt.Sprintf("%.1f%% efficiency - optimize your clear paths", kpis.JungleEfficiency),
			Action:   "Practice full clears, avoid wasted time between camps, use AOE abilities effectively",
			Priority: PriorityMedium,
		})
	}

	if kpis.VisionDominance < visionWarn {
		insights = append(insights, Insight{
			Type:     InsightWarning,
			Category: "vision",
			Title:    "Vision Score Below Expectations",
			Message:  fmt.Sprintf("%.1f%% vision effectiveness", kpis.VisionDominance),
			Action:   "Place more wards in river, clear enemy wards when ganking, buy control wards",
			Priority: PriorityMedium,
		})
	}

	if len(champions) > 0 {
		best := champions[0]
		if best.Winrate > strongChampWinrate && best.Games >= champSampleMinimum {
			insights = append(insights, Insight{
				Type:     InsightSuccess,
				Category: "champion_mastery",
				Title:    "Champion Strength Identified",
				Message:  fmt.Sprintf("%s: %.1f%% WR in %d games", best.Champion, best.Winrate, best.Games),
				Action:   fmt.Sprintf("Continue playing %s for consistent LP gains", best.Champion),
				Priority: PriorityHigh,
			})
		}

		for _, champ := range champions {
			if champ.Winrate < weakChampWinrate && champ.Games >= champSampleMinimum {
				insights = append(insights, Insight{
					Type:     InsightWarning,
					Category: "champion_mastery",
					Title:    "Champion Performance Issue",
					Message:  fmt.Sprintf("%s: %.1f%% WR in %d games", champ.Champion, champ.Winrate, champ.Games),
					Action:   fmt.Sprintf("Consider dropping %s or practice in normals first", champ.Champion),
					Priority: PriorityMedium,
				})
			}
		}
	}

	if len(games) >= recentFormWindow {
		recentWins := 0
		for _, g := range games[:recentFormWindow] {
			if g.Win() {
				recentWins++
			}
		}
		if recentWins <= recentFormWinMinimum {
			insights = append(insights, Insight{
				Type:     InsightError,
				Category: "positioning",
				Title:    "Poor Recent Form",
				Message:  fmt.Sprintf("Only %d/%d wins in recent games", recentWins, recentFormWindow),
				Action:   "Take a break, review fundamentals, consider switching champions",
				Priority: PriorityHigh,
			})
		}
	}

	if kpis.ObjectiveControl < objectiveWarn {
		insights = append(insights, Insight{
			Type:     InsightWarning,
			Category: "objectives",
			Title:    "Low Objective Participation",
			Message:  fmt.Sprintf("%.1f%% objective control", kpis.ObjectiveControl),
			Action:   "Focus on dragon/baron timing, coordinate with team, prioritize smite control",
			Priority: PriorityMedium,
		})
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return priorityRank[insights[i].Priority] > priorityRank[insights[j].Priority]
	})
	return insights
}
