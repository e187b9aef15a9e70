package adjust

import (
	"sort"

	"github.com/charleschow/hockey-sim/internal/core/league"
)

// Injuries tracks who is sidelined during one season run. It is owned by
// a single run and must not be shared between concurrent runs.
type Injuries struct {
	lg     *league.League
	p      Params
	out    map[string]map[string]int
	impact map[string]float64
}

func NewInjuries(lg *league.League, p Params) *Injuries {
	in := &Injuries{lg: lg, p: p}
	in.Reset()
	return in
}

// Reset clears all injuries and the season impact totals.
func (in *Injuries) Reset() {
	in.out = make(map[string]map[string]int)
	in.impact = make(map[string]float64)
}

// Progress advances a team's injury clock by one game: every positive
// counter is decremented, then a new injury may start among healthy
// susceptible players. It returns the newly injured player, if any.
func (in *Injuries) Progress(r Random, team *league.TeamProfile) (player string, games int) {
	cur := in.out[team.Name]
	if cur == nil {
		cur = make(map[string]int)
		in.out[team.Name] = cur
	}
	for name, left := range cur {
		if left > 0 {
			cur[name] = left - 1
		}
	}
	if r.Float64() >= in.p.InjuryChance {
		return "", 0
	}
	var healthy []string
	for _, name := range team.Susceptible {
		if cur[name] <= 0 {
			healthy = append(healthy, name)
		}
	}
	if len(healthy) == 0 {
		return "", 0
	}
	player = healthy[r.IntN(len(healthy))]
	games = in.p.InjuryMinGames + r.IntN(in.p.InjuryMaxGames-in.p.InjuryMinGames+1)
	cur[player] = games
	return player, games
}

// Sideline marks a player out for a number of games.
func (in *Injuries) Sideline(team, player string, games int) {
	cur := in.out[team]
	if cur == nil {
		cur = make(map[string]int)
		in.out[team] = cur
	}
	cur[player] = games
}

// Apply returns the injury-adjusted goals-for and goals-against rates and
// adds the applied impact to the team's season total.
func (in *Injuries) Apply(team string, gf, ga float64) (float64, float64, float64) {
	var total float64
	for _, player := range in.Sidelined(team) {
		prof, ok := in.lg.InjuryProfile(player)
		if !ok {
			continue
		}
		switch prof.Role {
		case league.RoleForward:
			gf -= prof.Impact
		case league.RoleDefense:
			ga += prof.Impact
		}
		total += prof.Impact
	}
	if total != 0 {
		in.impact[team] += total
	}
	return gf, ga, total
}

// Sidelined lists the team's currently injured players, sorted.
func (in *Injuries) Sidelined(team string) []string {
	var out []string
	for name, left := range in.out[team] {
		if left > 0 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (in *Injuries) Remaining(team, player string) int {
	return in.out[team][player]
}

// SeasonImpact is the summed injury impact applied to a team so far.
func (in *Injuries) SeasonImpact(team string) float64 {
	return in.impact[team]
}

// Impacts copies the season totals for every team that lost anyone.
func (in *Injuries) Impacts() map[string]float64 {
	out := make(map[string]float64, len(in.impact))
	for k, v := range in.impact {
		out[k] = v
	}
	return out
}
