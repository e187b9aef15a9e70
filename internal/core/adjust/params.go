// Package adjust holds the per-game modifiers layered on top of the raw
// scoring rates: injuries, rest, goaltending and special teams.
package adjust

import (
	"fmt"
	"strings"
)

// FatiguePolicy picks how the stacked back-to-back penalties compare day
// gaps against the third and fourth most recent games.
type FatiguePolicy string

const (
	// FatigueCumulative penalizes when the older game is within the window
	// (3rd-last <= 4 days, 4th-last <= 6 days).
	FatigueCumulative FatiguePolicy = "cumulative"
	// FatigueExact penalizes only on exact gaps (3rd-last == 3 days,
	// 4th-last == 4 days).
	FatigueExact FatiguePolicy = "exact"
)

func ParseFatiguePolicy(s string) (FatiguePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FatigueCumulative), "le", "<=":
		return FatigueCumulative, nil
	case string(FatigueExact), "eq", "==":
		return FatigueExact, nil
	default:
		return "", fmt.Errorf("unknown fatigue policy %q", s)
	}
}

type Params struct {
	LeagueAvgSavePct float64
	ShotsPerGame     float64
	BackupChance     float64

	InjuryChance   float64
	InjuryMinGames int
	InjuryMaxGames int

	BackToBackPenalty float64
	ThirdGamePenalty  float64
	FourthGamePenalty float64
	RestBonus         float64
	RestBonusDays     int
	Fatigue           FatiguePolicy
}

func DefaultParams() Params {
	return Params{
		LeagueAvgSavePct:  0.905,
		ShotsPerGame:      30,
		BackupChance:      0.30,
		InjuryChance:      0.02,
		InjuryMinGames:    3,
		InjuryMaxGames:    10,
		BackToBackPenalty: 0.20,
		ThirdGamePenalty:  0.10,
		FourthGamePenalty: 0.10,
		RestBonus:         0.10,
		RestBonusDays:     4,
		Fatigue:           FatigueCumulative,
	}
}

// Random is the slice of a random source the adjustment layer draws from.
type Random interface {
	Float64() float64
	IntN(n int) int
}

// Breakdown records how much each factor moved a team's projection.
// Goalie is the delta this team's goaltender adds to the opponent.
type Breakdown struct {
	Injury       float64 `json:"injury"`
	Rest         float64 `json:"rest"`
	Goalie       float64 `json:"goalie"`
	SpecialTeams float64 `json:"special_teams"`
	Home         float64 `json:"home,omitempty"`
}

// Fatigued reports whether the rest adjustment was a penalty.
func (b Breakdown) Fatigued() bool { return b.Rest < 0 }
