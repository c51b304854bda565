package scraper

import "junglecoach/internal/riot"

const (
	// RoleJungle is the tracked role label used by the structured fields.
	RoleJungle = "JUNGLE"

	// smiteSpellID is the summoner spell slot value for Smite, the
	// jungle-start ability.
	smiteSpellID = 11

	// smiteJungleCSThreshold is the neutral-monster kill count above which
	// a smite carrier is assumed to have actually jungled.
	smiteJungleCSThreshold = 50
)

// RoleClassifier is one strategy for deciding whether a participant played
// jungle. Strategies are applied in order and the first positive verdict
// wins, so a new upstream field name slots in as a new strategy without
// touching the existing ones.
type RoleClassifier interface {
	Name() string
	Classify(p riot.Participant) bool
}

// defaultClassifiers is the ordered fallback chain: the current structured
// field, the legacy lane field, then the smite heuristic for payloads where
// both structured fields have drifted away.
func defaultClassifiers() []RoleClassifier {
	return []RoleClassifier{
		teamPositionClassifier{},
		laneClassifier{},
		smiteClassifier{},
	}
}

// teamPositionClassifier checks the primary structured role field.
type teamPositionClassifier struct{}

func (teamPositionClassifier) Name() string { return "teamPosition" }

func (teamPositionClassifier) Classify(p riot.Participant) bool {
	return p.TeamPosition == RoleJungle
}

// laneClassifier checks the legacy lane field kept for older API versions.
type laneClassifier struct{}

func (laneClassifier) Name() string { return "lane" }

func (laneClassifier) Classify(p riot.Participant) bool {
	return p.Lane == RoleJungle
}

// smiteClassifier is the last-resort heuristic: smite equipped plus a real
// jungle clear. It only applies when both structured fields are absent, so
// a laner who happens to carry smite is not misread as a jungler.
type smiteClassifier struct{}

func (smiteClassifier) Name() string { return "smite" }

func (smiteClassifier) Classify(p riot.Participant) bool {
	if structuredRolePresent(p.TeamPosition) || structuredRolePresent(p.Lane) {
		return false
	}
	hasSmite := p.Summoner1ID == smiteSpellID || p.Summoner2ID == smiteSpellID
	return hasSmite && p.NeutralMinionsKilled > smiteJungleCSThreshold
}

// structuredRolePresent reports whether a role/lane field carries a usable
// value. The API emits "NONE" for some modes and older payloads omit the
// field entirely.
func structuredRolePresent(v string) bool {
	return v != "" && v != "NONE"
}

// classifyRole runs the chain and returns the winning strategy's name.
func classifyRole(chain []RoleClassifier, p riot.Participant) (string, bool) {
	for _, c := range chain {
		if c.Classify(p) {
			return c.Name(), true
		}
	}
	return "", false
}
