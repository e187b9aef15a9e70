// Package season replays a schedule game by game and folds each result
// into standings, streaks and shot totals.
package season

import (
	"context"
	"sort"

	"github.com/charleschow/hockey-sim/internal/core/adjust"
	"github.com/charleschow/hockey-sim/internal/core/league"
	"github.com/charleschow/hockey-sim/internal/core/schedule"
	"github.com/charleschow/hockey-sim/internal/core/sim"
)

// TeamSeason is one team's accumulated state for a run.
type TeamSeason struct {
	Team    string  `json:"team"`
	Record  Record  `json:"record"`
	Totals  Totals  `json:"totals"`
	Streaks Streaks `json:"streaks"`

	InjuryImpact float64 `json:"injury_impact"`

	oneGoal    int
	closeGames int
	fatigued   int
	topDiff    int
	topGames   int
	winMargin  int
	marginWins int
}

// Result is the full output of one season run.
type Result struct {
	Teams map[string]*TeamSeason

	// Populated only with Options.KeepGames.
	Games []sim.Outcome
	Notes map[GameKey]string
}

type Options struct {
	KeepGames   bool
	RecordShots bool
}

// Driver is safe for concurrent use; every Run owns its state.
type Driver struct {
	sim *sim.Simulator
	lg  *league.League
}

func NewDriver(s *sim.Simulator) *Driver {
	return &Driver{sim: s, lg: s.League()}
}

func (d *Driver) Simulator() *sim.Simulator { return d.sim }

// RunRows validates raw rows before simulating anything, so a malformed
// row never yields partial results.
func (d *Driver) RunRows(ctx context.Context, rows []schedule.Row, r sim.Source, opts Options) (*Result, error) {
	sched, err := schedule.Build(rows)
	if err != nil {
		return nil, err
	}
	return d.Run(ctx, sched, r, opts)
}

// Run replays the schedule in date order from a clean state. Team names
// are resolved against the league; unknown teams play with synthesized
// league-average profiles.
func (d *Driver) Run(ctx context.Context, sched *schedule.Schedule, r sim.Source, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ap := d.sim.AdjustParams()
	history := adjust.History{}
	injuries := adjust.NewInjuries(d.lg, ap)

	res := &Result{Teams: make(map[string]*TeamSeason, d.lg.Len())}
	for _, name := range d.lg.Names() {
		res.Teams[name] = &TeamSeason{Team: name}
	}
	if opts.KeepGames {
		res.Notes = make(map[GameKey]string, sched.Len())
		res.Games = make([]sim.Outcome, 0, sched.Len())
	}

	var lastDate int64
	for i, g := range sched.Games() {
		if day := g.Date.Unix(); i == 0 || day != lastDate {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			lastDate = day
		}
		homeP := d.lg.Team(g.Home)
		awayP := d.lg.Team(g.Away)
		home := res.team(homeP.Name)
		away := res.team(awayP.Name)

		injuries.Progress(r, homeP)
		injuries.Progress(r, awayP)
		hSlot := adjust.ChooseGoalie(ap, r, history.Games(home.Team), g.Date)
		aSlot := adjust.ChooseGoalie(ap, r, history.Games(away.Team), g.Date)

		out := d.sim.Play(r, sim.Matchup{
			Home:        home.Team,
			Away:        away.Team,
			HomeGoalie:  hSlot,
			AwayGoalie:  aSlot,
			Date:        g.Date,
			History:     history,
			Injuries:    injuries,
			RecordShots: opts.RecordShots,
		})

		history.Record(home.Team, g.Date)
		history.Record(away.Team, g.Date)

		hType, aType := results(out.Code)
		home.fold(hType, out.Home, out.Away, d.lg.IsTopTier(away.Team))
		away.fold(aType, out.Away, out.Home, d.lg.IsTopTier(home.Team))

		if opts.KeepGames {
			res.Games = append(res.Games, out)
			res.Notes[GameKey{Date: g.Date, Home: home.Team, Away: away.Team}] = out.Note
		}
	}

	for name, ts := range res.Teams {
		ts.Streaks.Close()
		ts.InjuryImpact = injuries.SeasonImpact(name)
	}
	return res, nil
}

func (res *Result) team(name string) *TeamSeason {
	ts, ok := res.Teams[name]
	if !ok {
		ts = &TeamSeason{Team: name}
		res.Teams[name] = ts
	}
	return ts
}

func results(c sim.Code) (home, away StreakType) {
	switch c {
	case sim.HomeWin:
		return Win, Loss
	case sim.AwayWin:
		return Loss, Win
	case sim.HomeOTWin:
		return Win, OTLoss
	default:
		return OTLoss, Win
	}
}

func (ts *TeamSeason) fold(t StreakType, us, them sim.Side, topTierOpp bool) {
	ts.Record.add(t)
	ts.Streaks.Record(t)
	ts.Totals.GF += us.Goals
	ts.Totals.GA += them.Goals
	ts.Totals.SF += us.Shots
	ts.Totals.SA += them.Shots

	margin := us.Goals - them.Goals
	switch {
	case margin == 1 || margin == -1:
		ts.oneGoal++
		ts.closeGames++
	case margin == 0:
		ts.closeGames++
	}
	if margin > 0 {
		ts.winMargin += margin
		ts.marginWins++
	}
	if us.Adjust.Fatigued() {
		ts.fatigued++
	}
	if topTierOpp {
		ts.topDiff += margin
		ts.topGames++
	}
}

// Standing is one row of the ranked table.
type Standing struct {
	Rank     int    `json:"rank"`
	Team     string `json:"team"`
	Record   Record `json:"record"`
	GoalDiff int    `json:"goal_diff"`
}

// Standings ranks teams by points, then wins, goal differential and
// name.
func (res *Result) Standings() []Standing {
	out := make([]Standing, 0, len(res.Teams))
	for _, ts := range res.Teams {
		out = append(out, Standing{Team: ts.Team, Record: ts.Record, GoalDiff: ts.Totals.GF - ts.Totals.GA})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Record.PTS != b.Record.PTS {
			return a.Record.PTS > b.Record.PTS
		}
		if a.Record.W != b.Record.W {
			return a.Record.W > b.Record.W
		}
		if a.GoalDiff != b.GoalDiff {
			return a.GoalDiff > b.GoalDiff
		}
		return a.Team < b.Team
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// GamesPlayed counts the games replayed in the run.
func (res *Result) GamesPlayed() int {
	n := 0
	for _, ts := range res.Teams {
		n += ts.Record.Games()
	}
	return n / 2
}
