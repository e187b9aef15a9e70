package montecarlo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/charleschow/hockey-sim/internal/core/adjust"
	"github.com/charleschow/hockey-sim/internal/core/odds"
	"github.com/charleschow/hockey-sim/internal/core/season"
	"github.com/charleschow/hockey-sim/internal/core/sim"
)

// MatchupConfig drives an isolated head-to-head series. Team1 is home
// unless NeutralIce is set.
type MatchupConfig struct {
	Runs          int
	TopScorelines int
	Date          time.Time
	NeutralIce    bool
	Seed          uint64
	Seeded        bool
}

func DefaultMatchupConfig() MatchupConfig {
	return MatchupConfig{Runs: 500, TopScorelines: 5}
}

type Scoreline struct {
	Score string  `json:"score"`
	Pct   float64 `json:"pct"`
}

type CloseGames struct {
	OneGoalPct float64 `json:"one_goal_pct"`
	OTPct      float64 `json:"ot_pct"`
}

// MatchupReport percentages are 0–100. Team1OT is the share of games
// team1 lost in overtime.
type MatchupReport struct {
	Team1      string      `json:"team1"`
	Team2      string      `json:"team2"`
	Runs       int         `json:"runs"`
	Team1Wins  float64     `json:"team1_wins"`
	Team2Wins  float64     `json:"team2_wins"`
	Team1OT    float64     `json:"team1_ot"`
	Team2OT    float64     `json:"team2_ot"`
	AvgMargin  float64     `json:"avg_margin"`
	ScoreDist  []Scoreline `json:"score_dist"`
	CloseGames CloseGames  `json:"close_games"`
	Team1Odds  odds.Fair   `json:"team1_odds"`
	Team2Odds  odds.Fair   `json:"team2_odds"`
}

// HeadToHead plays team1 against team2 cfg.Runs times with no season
// context: no injuries, no rest history, and both clubs start their
// number one goalie.
func (r *Runner) HeadToHead(ctx context.Context, team1, team2 string, cfg MatchupConfig) (*MatchupReport, error) {
	if cfg.Runs <= 0 {
		return nil, ErrNoRuns
	}
	if cfg.TopScorelines <= 0 {
		cfg.TopScorelines = DefaultMatchupConfig().TopScorelines
	}
	s := r.driver.Simulator()
	lg := s.League()
	home, away := lg.Team(team1).Name, lg.Team(team2).Name
	if home == away {
		return nil, fmt.Errorf("head to head: %s cannot play itself", home)
	}
	seed := cfg.Seed
	if !cfg.Seeded {
		seed = rand.Uint64()
	}
	rng := sim.NewRNG(seed)
	ap := s.AdjustParams()

	var t1Wins, t2Wins, t1OT, t2OT, oneGoal, margin int
	scores := make(map[string]int)
	for i := 0; i < cfg.Runs; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out := s.Play(rng, sim.Matchup{
			Home:       home,
			Away:       away,
			HomeGoalie: adjust.ChooseGoalie(ap, rng, nil, cfg.Date),
			AwayGoalie: adjust.ChooseGoalie(ap, rng, nil, cfg.Date),
			Date:       cfg.Date,
			NeutralIce: cfg.NeutralIce,
		})
		scores[fmt.Sprintf("%d-%d", out.Home.Goals, out.Away.Goals)]++
		m := out.Margin()
		margin += m
		if m == 1 || m == -1 {
			oneGoal++
		}
		switch out.Code {
		case sim.HomeWin:
			t1Wins++
		case sim.AwayWin:
			t2Wins++
		case sim.HomeOTWin:
			t1Wins++
			t2OT++
		case sim.HomeOTLoss:
			t2Wins++
			t1OT++
		}
	}

	n := float64(cfg.Runs)
	pct := func(c int) float64 { return season.Round(float64(c)/n*100, 1) }
	rep := &MatchupReport{
		Team1:     home,
		Team2:     away,
		Runs:      cfg.Runs,
		Team1Wins: pct(t1Wins),
		Team2Wins: pct(t2Wins),
		Team1OT:   pct(t1OT),
		Team2OT:   pct(t2OT),
		AvgMargin: season.Round(float64(margin)/n, 2),
		ScoreDist: topScorelines(scores, cfg.TopScorelines, n),
		CloseGames: CloseGames{
			OneGoalPct: pct(oneGoal),
			OTPct:      pct(t1OT + t2OT),
		},
		Team1Odds: odds.FromProbability(float64(t1Wins) / n),
		Team2Odds: odds.FromProbability(float64(t2Wins) / n),
	}
	return rep, nil
}

// topScorelines keeps the n most common results; equal counts sort by
// scoreline so the cut is deterministic.
func topScorelines(counts map[string]int, n int, runs float64) []Scoreline {
	type kv struct {
		score string
		count int
	}
	all := make([]kv, 0, len(counts))
	for s, c := range counts {
		all = append(all, kv{s, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].score < all[j].score
	})
	if len(all) > n {
		all = all[:n]
	}
	out := make([]Scoreline, len(all))
	for i, e := range all {
		out[i] = Scoreline{Score: e.score, Pct: season.Round(float64(e.count)/runs*100, 1)}
	}
	return out
}
