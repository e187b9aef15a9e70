package season

import (
	"math"
	"sort"

	"github.com/charleschow/hockey-sim/internal/core/league"
)

// TeamReport is the per-team betting-oriented summary of a run. Every
// rate is zero for a team that never played.
type TeamReport struct {
	Team         string  `json:"team"`
	Games        int     `json:"games"`
	SFPerGame    float64 `json:"sf_pg"`
	SAPerGame    float64 `json:"sa_pg"`
	ShPct        float64 `json:"sh_pct"`
	SvPct        float64 `json:"sv_pct"`
	OTPct        float64 `json:"ot_pct"`
	DiffPerGame  float64 `json:"diff_pg"`
	PacePerGame  float64 `json:"pace_pg"`
	STPct        float64 `json:"st_pct"`
	MOV          float64 `json:"mov"`
	InjAdj       float64 `json:"inj_adj"`
	CloseGPct    float64 `json:"closeg_pct"`
	FatigueGPct  float64 `json:"fatigueg_pct"`
	OneGoalPct   float64 `json:"onegoal_pct"`
	H2HDeltaTop8 float64 `json:"h2h_delta_top8"`
}

// Report derives the team summary. MOV is the average margin in games
// the team won outright on the scoreboard.
func (ts *TeamSeason) Report(profile *league.TeamProfile) TeamReport {
	r := TeamReport{Team: ts.Team}
	games := ts.Record.Games()
	if games == 0 {
		return r
	}
	g := float64(games)
	t := ts.Totals
	r.Games = games
	r.SFPerGame = float64(t.SF) / g
	r.SAPerGame = float64(t.SA) / g
	r.ShPct = ratio(t.GF, t.SF) * 100
	if t.SA > 0 {
		r.SvPct = 1 - float64(t.GA)/float64(t.SA)
	}
	r.OTPct = float64(ts.Record.OT) / g * 100
	r.DiffPerGame = float64(t.GF-t.GA) / g
	r.PacePerGame = r.SFPerGame + r.SAPerGame
	if profile != nil {
		r.STPct = profile.SpecialTeamsStrength()
	}
	if ts.marginWins > 0 {
		r.MOV = float64(ts.winMargin) / float64(ts.marginWins)
	}
	r.InjAdj = ts.InjuryImpact / g
	r.CloseGPct = float64(ts.closeGames) / g * 100
	r.FatigueGPct = float64(ts.fatigued) / g * 100
	r.OneGoalPct = float64(ts.oneGoal) / g * 100
	if ts.topGames > 0 {
		r.H2HDeltaTop8 = float64(ts.topDiff) / float64(ts.topGames)
	}
	return r
}

// Reports builds one report per team, sorted by name.
func (res *Result) Reports(lg *league.League) []TeamReport {
	names := make([]string, 0, len(res.Teams))
	for name := range res.Teams {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]TeamReport, 0, len(names))
	for _, name := range names {
		out = append(out, res.Teams[name].Report(lg.Team(name)))
	}
	return out
}

// LeagueOTPct is the share of team-games that ended in an overtime loss.
func (res *Result) LeagueOTPct() float64 {
	var ot, games int
	for _, ts := range res.Teams {
		ot += ts.Record.OT
		games += ts.Record.Games()
	}
	if games == 0 {
		return 0
	}
	return float64(ot) / float64(games) * 100
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Round rounds to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
