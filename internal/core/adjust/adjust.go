package adjust

import (
	"time"

	"github.com/charleschow/hockey-sim/internal/core/league"
)

// History is the per-team list of game dates for one season run.
// Dates are appended in play order.
type History map[string][]time.Time

func (h History) Record(team string, date time.Time) {
	h[team] = append(h[team], date)
}

func (h History) Games(team string) []time.Time { return h[team] }

// DaysBetween counts calendar days from one date to another.
func DaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// Rest returns the rest/fatigue goal delta for a team about to play on
// date given its prior game dates. No history means no adjustment.
func Rest(p Params, played []time.Time, date time.Time) float64 {
	n := len(played)
	if n == 0 {
		return 0
	}
	since := DaysBetween(played[n-1], date)
	switch {
	case since == 1:
		adj := -p.BackToBackPenalty
		if n >= 3 && p.stacked(DaysBetween(played[n-3], date), 4, 3) {
			adj -= p.ThirdGamePenalty
		}
		if n >= 4 && p.stacked(DaysBetween(played[n-4], date), 6, 4) {
			adj -= p.FourthGamePenalty
		}
		return adj
	case since >= p.RestBonusDays:
		return p.RestBonus
	}
	return 0
}

func (p Params) stacked(gap, window, exact int) bool {
	if p.Fatigue == FatigueExact {
		return gap == exact
	}
	return gap <= window
}

// Goalie is the goal delta a goaltender concedes relative to a league
// average one over a game's worth of shots. Positive means worse.
func Goalie(p Params, savePct float64) float64 {
	return (p.LeagueAvgSavePct - savePct) * p.ShotsPerGame
}

// SpecialTeams is the power-play/penalty-kill differential in goals.
func SpecialTeams(team, opp *league.TeamProfile) float64 {
	return (team.PowerPlayPct - opp.PenaltyKillPct + team.PenaltyKillPct - opp.PowerPlayPct) / 200
}

// PowerPlayBoost scales power-play shot quality.
func PowerPlayBoost(team, opp *league.TeamProfile) float64 {
	return (team.PowerPlayPct - opp.PenaltyKillPct) / 200
}

// ChooseGoalie starts the backup on the second night of a back-to-back
// and otherwise rolls BackupChance. A team's first game goes to the
// starter.
func ChooseGoalie(p Params, r Random, played []time.Time, date time.Time) league.GoalieSlot {
	n := len(played)
	if n == 0 {
		return league.Starter
	}
	if DaysBetween(played[n-1], date) == 1 {
		return league.Backup
	}
	if r.Float64() < p.BackupChance {
		return league.Backup
	}
	return league.Starter
}
