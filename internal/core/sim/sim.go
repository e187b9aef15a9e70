// Package sim plays a single game shot by shot.
package sim

import (
	"math"
	"time"

	"github.com/charleschow/hockey-sim/internal/core/adjust"
	"github.com/charleschow/hockey-sim/internal/core/league"
	"github.com/charleschow/hockey-sim/internal/core/narrative"
	"github.com/charleschow/hockey-sim/internal/core/xg"
)

// Code is the result of a game from the home side's point of view.
type Code string

const (
	HomeWin    Code = "H"
	AwayWin    Code = "A"
	HomeOTWin  Code = "OTW"
	HomeOTLoss Code = "OTL"
)

func (c Code) Overtime() bool { return c == HomeOTWin || c == HomeOTLoss }

func (c Code) HomeWon() bool { return c == HomeWin || c == HomeOTWin }

// Matchup is one game to simulate. History and Injuries are the season
// run's state; both may be nil for an isolated game.
type Matchup struct {
	Home       string
	Away       string
	HomeGoalie league.GoalieSlot
	AwayGoalie league.GoalieSlot
	Date       time.Time
	History    adjust.History
	Injuries   *adjust.Injuries

	// NeutralIce drops the home advantage.
	NeutralIce bool
	// RecordShots keeps the per-shot log on the outcome.
	RecordShots bool
}

type ShotEvent struct {
	Team     string      `json:"team"`
	Shooter  string      `json:"shooter"`
	Goalie   string      `json:"goalie"`
	Features xg.Features `json:"features"`
	XG       float64     `json:"xg"`
	ProbGoal float64     `json:"prob_goal"`
	Goal     bool        `json:"goal"`
}

type Side struct {
	Team     string            `json:"team"`
	Slot     league.GoalieSlot `json:"goalie_slot"`
	Goalie   league.Goalie     `json:"goalie"`
	Goals    int               `json:"goals"`
	Shots    int               `json:"shots"`
	Expected float64           `json:"expected"`
	Adjust   adjust.Breakdown  `json:"adjust"`
}

// Outcome is immutable once returned.
type Outcome struct {
	Date      time.Time           `json:"date"`
	Code      Code                `json:"code"`
	Home      Side                `json:"home"`
	Away      Side                `json:"away"`
	Shots     []ShotEvent         `json:"shots,omitempty"`
	Note      string              `json:"note"`
	Diagnosis narrative.Diagnosis `json:"diagnosis"`
}

// Margin is home goals minus away goals.
func (o Outcome) Margin() int { return o.Home.Goals - o.Away.Goals }

type Simulator struct {
	lg     *league.League
	model  xg.Model
	params Params
	adj    adjust.Params
}

type Option func(*Simulator)

func WithModel(m xg.Model) Option { return func(s *Simulator) { s.model = m } }

func WithParams(p Params) Option { return func(s *Simulator) { s.params = p } }

func WithAdjustParams(p adjust.Params) Option { return func(s *Simulator) { s.adj = p } }

// New builds a simulator over shared reference tables. The league's
// average save percentage overrides the adjust default unless
// WithAdjustParams set one explicitly.
func New(lg *league.League, opts ...Option) *Simulator {
	s := &Simulator{
		lg:     lg,
		model:  xg.DefaultHeuristic(),
		params: DefaultParams(),
		adj:    adjust.DefaultParams(),
	}
	s.adj.LeagueAvgSavePct = lg.LeagueAvgSavePct()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) League() *league.League { return s.lg }

func (s *Simulator) Params() Params { return s.params }

func (s *Simulator) AdjustParams() adjust.Params { return s.adj }

// Play simulates one game. The only state it touches is the matchup's
// injury tracker, whose season impact totals grow.
func (s *Simulator) Play(r Source, m Matchup) Outcome {
	home := s.lg.Team(m.Home)
	away := s.lg.Team(m.Away)
	p := s.params

	h := Side{Team: home.Name, Slot: slotOr(m.HomeGoalie)}
	a := Side{Team: away.Name, Slot: slotOr(m.AwayGoalie)}
	h.Goalie = home.Goalie(h.Slot)
	a.Goalie = away.Goalie(a.Slot)

	hGF, hGA := home.GoalsFor, home.GoalsAgainst
	aGF, aGA := away.GoalsFor, away.GoalsAgainst
	if m.Injuries != nil {
		var hi, ai float64
		hGF, hGA, hi = m.Injuries.Apply(home.Name, hGF, hGA)
		aGF, aGA, ai = m.Injuries.Apply(away.Name, aGF, aGA)
		h.Adjust.Injury = -hi
		a.Adjust.Injury = -ai
	}

	hExp := (hGF + aGA) / 2
	aExp := (aGF + hGA) / 2

	if !m.NeutralIce {
		h.Adjust.Home = p.HomeAdvantage
	}
	h.Adjust.SpecialTeams = adjust.SpecialTeams(home, away)
	a.Adjust.SpecialTeams = adjust.SpecialTeams(away, home)
	h.Adjust.Goalie = adjust.Goalie(s.adj, h.Goalie.SavePct)
	a.Adjust.Goalie = adjust.Goalie(s.adj, a.Goalie.SavePct)
	if m.History != nil && !m.Date.IsZero() {
		h.Adjust.Rest = adjust.Rest(s.adj, m.History.Games(home.Name), m.Date)
		a.Adjust.Rest = adjust.Rest(s.adj, m.History.Games(away.Name), m.Date)
	}

	// a goalie's adjustment lands on the team shooting at him
	hExp += h.Adjust.Home + h.Adjust.SpecialTeams + a.Adjust.Goalie + h.Adjust.Rest
	aExp += a.Adjust.SpecialTeams + h.Adjust.Goalie + a.Adjust.Rest
	h.Expected = math.Max(hExp, p.MinExpected)
	a.Expected = math.Max(aExp, p.MinExpected)

	h.Shots = s.shotCount(r, h.Expected)
	a.Shots = s.shotCount(r, a.Expected)

	g := game{sim: s, r: r, record: m.RecordShots}
	hBoost := adjust.PowerPlayBoost(home, away)
	aBoost := adjust.PowerPlayBoost(away, home)
	hEV := int(float64(h.Shots) * p.EvenStrengthShare)
	aEV := int(float64(a.Shots) * p.EvenStrengthShare)

	h.Goals += g.shots(home, a.Goalie, hEV, xg.EvenStrength, 0)
	h.Goals += g.shots(home, a.Goalie, h.Shots-hEV, xg.PowerPlay, hBoost)
	a.Goals += g.shots(away, h.Goalie, aEV, xg.EvenStrength, 0)
	a.Goals += g.shots(away, h.Goalie, a.Shots-aEV, xg.PowerPlay, aBoost)

	if diff := h.Goals - a.Goals; diff != 0 && abs(diff) <= p.EmptyNetMargin {
		homeShoots := diff > 0
		if p.TrailerShootsEmptyNet {
			homeShoots = !homeShoots
		}
		if homeShoots {
			h.Goals += g.emptyNet(home)
		} else {
			a.Goals += g.emptyNet(away)
		}
	}

	out := Outcome{Date: m.Date, Home: h, Away: a, Shots: g.log}
	switch {
	case h.Goals > a.Goals:
		out.Code = HomeWin
	case a.Goals > h.Goals:
		out.Code = AwayWin
	case r.Float64() < 0.5:
		out.Code = HomeOTWin
	default:
		out.Code = HomeOTLoss
	}

	ng := narrative.Game{
		Date:        m.Date,
		Home:        narrative.Side{Team: h.Team, Goalie: h.Goalie.Name, Adjust: h.Adjust, Projected: h.Expected},
		Away:        narrative.Side{Team: a.Team, Goalie: a.Goalie.Name, Adjust: a.Adjust, Projected: a.Expected},
		OvertimePct: 100 * p.OvertimeLikelihood,
	}
	out.Note = narrative.DoctorsNote(ng)
	out.Diagnosis = narrative.Diagnose(ng)
	return out
}

func (s *Simulator) shotCount(r Source, expected float64) int {
	p := s.params
	n := int(r.Normal(p.ShotsPerGame, p.ShotsStdDev) * (expected / p.ReferenceGoals))
	if n < p.MinShots {
		return p.MinShots
	}
	return n
}

// game holds the per-game scratch state for the shot loop.
type game struct {
	sim    *Simulator
	r      Source
	record bool
	log    []ShotEvent
}

func (g *game) shooter(team *league.TeamProfile) league.Skater {
	if len(team.Roster) == 0 {
		return league.Skater{Name: "Generic Player"}
	}
	return team.Roster[g.r.IntN(len(team.Roster))]
}

func (g *game) shots(team *league.TeamProfile, facing league.Goalie, n int, strength xg.Strength, boost float64) int {
	p := g.sim.params
	goals := 0
	for i := 0; i < n; i++ {
		shooter := g.shooter(team)
		f := xg.Features{
			DistanceFt: g.r.Uniform(p.MinDistanceFt, p.MaxDistanceFt),
			AngleDeg:   g.r.Uniform(0, p.MaxAngleDeg),
			Type:       xg.ShotTypes[g.r.IntN(len(xg.ShotTypes))],
			Rebound:    g.r.Float64() < p.ReboundChance,
			Rush:       g.r.Float64() < p.RushChance,
			Strength:   strength,
		}
		value := g.sim.model.ExpectedGoal(f) * shooter.ShotFactor()
		if strength == xg.PowerPlay {
			value *= 1 + boost
		}
		prob := math.Min(value*(1-facing.SavePct), p.MaxGoalProb)
		goal := g.r.Float64() < prob
		if goal {
			goals++
		}
		g.add(ShotEvent{Team: team.Name, Shooter: shooter.Name, Goalie: facing.Name, Features: f, XG: value, ProbGoal: prob, Goal: goal})
	}
	return goals
}

func (g *game) emptyNet(team *league.TeamProfile) int {
	p := g.sim.params
	shooter := g.shooter(team)
	f := xg.Features{
		DistanceFt: g.r.Uniform(p.EmptyNetMinDistanceFt, p.EmptyNetMaxDistanceFt),
		Type:       xg.EmptyNet,
		Strength:   xg.EmptyNetAtt,
	}
	value := g.sim.model.ExpectedGoal(f) * shooter.ShotFactor()
	prob := math.Min(p.MaxGoalProb, value+p.EmptyNetBoost)
	goal := g.r.Float64() < prob
	g.add(ShotEvent{Team: team.Name, Shooter: shooter.Name, Goalie: "Empty Net", Features: f, XG: value, ProbGoal: prob, Goal: goal})
	if goal {
		return 1
	}
	return 0
}

func (g *game) add(ev ShotEvent) {
	if g.record {
		g.log = append(g.log, ev)
	}
}

func slotOr(s league.GoalieSlot) league.GoalieSlot {
	if s == "" {
		return league.Starter
	}
	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
