package analytics

import (
	"sort"

	"junglecoach/internal/model"
)

// ChampionStats aggregates performance on a single champion.
type ChampionStats struct {
	Champion       string  `json:"champion"`
	Games          int     `json:"games"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	Winrate        float64 `json:"winrate"`
	AvgDeaths      float64 `json:"avgDeaths"`
	AvgKDA         float64 `json:"avgKDA"`
	AvgCS          float64 `json:"avgCS"`
	AvgVisionScore float64 `json:"avgVisionScore"`
}

// AnalyzeChampionPerformance groups games by champion and computes
// per-champion averages, sorted by games played descending with ties broken
// by winrate descending.
func AnalyzeChampionPerformance(games []model.Game) []ChampionStats {
	type acc struct {
		games  int
		wins   int
		deaths int
		kda    float64
		cs     int
		vision int
	}

	byChampion := make(map[string]*acc)
	order := make([]string, 0) // first-seen order keeps the sort stable
	for _, g := range games {
		a, ok := byChampion[g.Champion]
		if !ok {
			a = &acc{}
			byChampion[g.Champion] = a
			order = append(order, g.Champion)
		}
		a.games++
		a.deaths += g.Deaths
		a.cs += g.TotalCS
		a.vision += g.VisionScore
		a.kda += float64(g.Kills+g.Assists) / maxFloat(float64(g.Deaths), 1)
		if g.Win() {
			a.wins++
		}
	}

	stats := make([]ChampionStats, 0, len(byChampion))
	for _, champion := range order {
		a := byChampion[champion]
		n := float64(a.games)
		stats = append(stats, ChampionStats{
			Champion:       champion,
			Games:          a.games,
			Wins:           a.wins,
			Losses:         a.games - a.wins,
			Winrate:        float64(a.wins) / n * 100,
			AvgDeaths:      float64(a.deaths) / n,
			AvgKDA:         a.kda / n,
			AvgCS:          float64(a.cs) / n,
			AvgVisionScore: float64(a.vision) / n,
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Games != stats[j].Games {
			return stats[i].Games > stats[j].Games
		}
		return stats[i].Winrate > stats[j].Winrate
	})
	return stats
}

// FavoriteChampion is a champion summary for the dashboard overview.
type FavoriteChampion struct {
	Champion  string  `json:"champion"`
	Games     int     `json:"games"`
	Winrate   float64 `json:"winrate"`
	AvgDeaths float64 `json:"avgDeaths"`
}

// Overview is the at-a-glance summary block of the dashboard.
type Overview struct {
	TotalGames          int                `json:"totalGames"`
	Wins                int                `json:"wins"`
	Losses              int                `json:"losses"`
	Winrate             float64            `json:"winrate"`
	AvgDeaths           float64            `json:"avgDeaths"`
	AvgVisionScore      float64            `json:"avgVisionScore"`
	AvgObjectivesDamage float64            `json:"avgObjectivesDamage"`
	ProtocolCompliance  float64            `json:"protocolCompliance"`
	RecentForm          string             `json:"recentForm"`
	FavoriteChampions   []FavoriteChampion `json:"favoriteChampions"`
}

// ComputeOverview summarizes games for the dashboard header. Games are
// expected newest first; recent form covers the five most recent.
func ComputeOverview(games []model.Game) Overview {
	if len(games) == 0 {
		return Overview{FavoriteChampions: []FavoriteChampion{}}
	}

	var wins, deaths, vision, objDmg, compliant int
	for _, g := range games {
		if g.Win() {
			wins++
		}
		if g.Deaths <= DeathProtocolThreshold {
			compliant++
		}
		deaths += g.Deaths
		vision += g.VisionScore
		objDmg += g.ObjectivesDamage
	}

	form := make([]byte, 0, 5)
	for _, g := range games {
		if len(form) == 5 {
			break
		}
		if g.Win() {
			form = append(form, 'W')
		} else {
			form = append(form, 'L')
		}
	}

	n := float64(len(games))
	return Overview{
		TotalGames:          len(games),
		Wins:                wins,
		Losses:              len(games) - wins,
		Winrate:             clampPct(float64(wins) / n * 100),
		AvgDeaths:           float64(deaths) / n,
		AvgVisionScore:      float64(vision) / n,
		AvgObjectivesDamage: float64(objDmg) / n,
		ProtocolCompliance:  clampPct(float64(compliant) / n * 100),
		RecentForm:          string(form),
		FavoriteChampions:   favoriteChampions(games),
	}
}

// favoriteChampions returns champions with at least two games, best winrate
// first, capped at five.
func favoriteChampions(games []model.Game) []FavoriteChampion {
	favorites := make([]FavoriteChampion, 0, 5)
	for _, s := range AnalyzeChampionPerformance(games) {
		if s.Games < 2 {
			continue
		}
		favorites = append(favorites, FavoriteChampion{
			Champion:  s.Champion,
			Games:     s.Games,
			Winrate:   s.Winrate,
			AvgDeaths: s.AvgDeaths,
		})
	}
	sort.SliceStable(favorites, func(i, j int) bool {
		return favorites[i].Winrate > favorites[j].Winrate
	})
	if len(favorites) > 5 {
		favorites = favorites[:5]
	}
	return favorites
}
