// Package analytics computes jungle performance KPIs, champion statistics,
// trend buckets and rule-based coaching insights over normalized games. It
// is pure computation: no I/O, and empty input always yields zero values
// rather than errors.
package analytics

import (
	"fmt"

	"junglecoach/internal/model"
)

const (
	// DeathProtocolThreshold is the coaching death cap; games at or under
	// it count as protocol compliant.
	DeathProtocolThreshold = 5

	// Normalization targets. Hitting the target scores 100%.
	targetJungleCSPerMin  = 4.0
	targetObjectiveDamage = 5000.0
	targetVisionPerMin    = 1.5
	targetGoldEarned      = 12000.0

	// kdaCap bounds the KDA ratio used in the early-game estimate.
	kdaCap = 5.0
)

// KPISet aggregates performance indicators over a set of games. All
// percentage fields are on a 0-100 scale, clamped.
type KPISet struct {
	Winrate            float64 `json:"winrate"`
	AvgDeaths          float64 `json:"avgDeaths"`
	ProtocolCompliance float64 `json:"protocolCompliance"`
	JungleEfficiency   float64 `json:"jungleEfficiency"`
	ObjectiveControl   float64 `json:"objectiveControl"`
	VisionDominance    float64 `json:"visionDominance"`

	// EarlyGameImpact and LateGameCarry are heuristic estimates derived
	// from whole-game KDA and gold. There is no phase-level timeline data
	// behind them, so they must not be read as time-windowed metrics.
	EarlyGameImpact float64 `json:"earlyGameImpact"`
	LateGameCarry   float64 `json:"lateGameCarry"`
}

// CalculateKPIs computes the KPI set for a list of games. Empty input yields
// an all-zero set.
func CalculateKPIs(games []model.Game) KPISet {
	if len(games) == 0 {
		return KPISet{}
	}

	var (
		wins          int
		compliant     int
		totalDeaths   int
		totalObjDmg   float64
		totalGold     float64
		sumEfficiency float64
		sumVision     float64
		sumEarly      float64
	)

	for _, g := range games {
		if g.Win() {
			wins++
		}
		if g.Deaths <= DeathProtocolThreshold {
			compliant++
		}
		totalDeaths += g.Deaths
		totalObjDmg += float64(g.ObjectivesDamage)
		totalGold += float64(g.GoldEarned)

		minutes := g.Minutes()
		if minutes > 0 {
			sumEfficiency += minFloat(float64(g.JungleCS)/minutes/targetJungleCSPerMin, 1)
			sumVision += minFloat(float64(g.VisionScore)/minutes/targetVisionPerMin, 1)
		}

		kda := float64(g.Kills+g.Assists) / maxFloat(float64(g.Deaths), 1)
		deathBonus := maxFloat(0, float64(DeathProtocolThreshold-g.Deaths)) / DeathProtocolThreshold
		sumEarly += minFloat(kda*deathBonus, kdaCap) / kdaCap
	}

	n := float64(len(games))
	return KPISet{
		Winrate:            clampPct(float64(wins) / n * 100),
		AvgDeaths:          float64(totalDeaths) / n,
		ProtocolCompliance: clampPct(float64(compliant) / n * 100),
		JungleEfficiency:   clampPct(sumEfficiency / n * 100),
		ObjectiveControl:   clampPct(totalObjDmg / n / targetObjectiveDamage * 100),
		VisionDominance:    clampPct(sumVision / n * 100),
		EarlyGameImpact:    clampPct(sumEarly / n * 100),
		LateGameCarry:      clampPct(totalGold / n / targetGoldEarned * 100),
	}
}

// TrendBucket is one contiguous chunk of games with its KPI set, labeled by
// game-index range.
type TrendBucket struct {
	Period string `json:"period"`
	KPISet
}

// PerformanceTrends partitions games into roughly four equal contiguous
// chunks in input order and computes a KPI set per chunk, exposing drift
// across a session without timestamped windowing.
func PerformanceTrends(games []model.Game) []TrendBucket {
	if len(games) == 0 {
		return []TrendBucket{}
	}

	chunkSize := len(games) / 4
	if chunkSize < 5 {
		chunkSize = 5
	}

	buckets := make([]TrendBucket, 0, 4)
	for start := 0; start < len(games); start += chunkSize {
		end := start + chunkSize
		if end > len(games) {
			end = len(games)
		}
		buckets = append(buckets, TrendBucket{
			Period: fmt.Sprintf("Games %d-%d", start+1, end),
			KPISet: CalculateKPIs(games[start:end]),
		})
	}
	return buckets
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
