package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charleschow/hockey-sim/internal/core/league"
	"github.com/charleschow/hockey-sim/internal/core/montecarlo"
	"github.com/charleschow/hockey-sim/internal/core/odds"
	"github.com/charleschow/hockey-sim/internal/core/season"
	"github.com/charleschow/hockey-sim/internal/core/sim"
)

func TestShortName(t *testing.T) {
	tests := map[string]string{
		"Toronto Maple Leafs": "Leafs",
		"Utah":                "Utah",
		"":                    "",
	}
	for in, want := range tests {
		if got := shortName(in); got != want {
			t.Errorf("shortName(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestPrintGame(t *testing.T) {
	out := sim.Outcome{
		Date: time.Date(2025, 10, 7, 0, 0, 0, 0, time.UTC),
		Code: sim.HomeOTWin,
		Home: sim.Side{Team: "Boston Bruins", Goals: 3, Shots: 31, Slot: league.Starter, Goalie: league.Goalie{Name: "Swayman"}},
		Away: sim.Side{Team: "Ottawa Senators", Goals: 2, Shots: 28, Slot: league.Backup, Goalie: league.Goalie{Name: "Forsberg"}},
		Note: "Doctor's Note: Boston Bruins vs Ottawa Senators (2025-10-07)",
	}
	var buf bytes.Buffer
	PrintGame(&buf, out, false)
	if got := buf.String(); !strings.Contains(got, "Ottawa Senators") || !strings.HasSuffix(got, " 3 (OT)\n") {
		t.Errorf("PrintGame = %q", got)
	}

	buf.Reset()
	PrintGame(&buf, out, true)
	for _, want := range []string{"shots Senators 28, Bruins 31", "Forsberg (backup)", "Doctor's Note"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("verbose output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestPrintStandings(t *testing.T) {
	var buf bytes.Buffer
	PrintStandings(&buf, []season.Standing{
		{Rank: 1, Team: "Boston Bruins", Record: season.Record{W: 3, L: 1, PTS: 6}, GoalDiff: 5},
		{Rank: 2, Team: "Ottawa Senators", Record: season.Record{W: 1, L: 2, OT: 1, PTS: 3}, GoalDiff: -5},
	})
	got := buf.String()
	if !strings.Contains(got, "1st") || !strings.Contains(got, "2nd") {
		t.Errorf("ranks missing ordinals:\n%s", got)
	}
	if !strings.Contains(got, "   +5") || !strings.Contains(got, "   -5") {
		t.Errorf("goal differential not signed:\n%s", got)
	}
}

func TestPrintForecast(t *testing.T) {
	rep := &montecarlo.Report{
		Runs:   1500,
		Seed:   7,
		Seeded: true,
		Teams: map[string]montecarlo.TeamSummary{
			"Boston Bruins":   {Avg: 101.2, PlayoffPct: 88.5, StreakProbs: map[string]float64{"win_3+": 97.1}},
			"Ottawa Senators": {Avg: 84.0, PlayoffPct: 20, StreakProbs: map[string]float64{"win_3+": 60}},
		},
	}
	var buf bytes.Buffer
	PrintForecast(&buf, rep, []string{"win_3+"})
	got := buf.String()
	if !strings.Contains(got, "1,500 runs, seed 7") {
		t.Errorf("header missing run count:\n%s", got)
	}
	if strings.Index(got, "Boston Bruins") > strings.Index(got, "Ottawa Senators") {
		t.Errorf("teams not in forecast order:\n%s", got)
	}
	if !strings.Contains(got, "97.1%") {
		t.Errorf("streak column missing:\n%s", got)
	}
}

func TestStreakKeys(t *testing.T) {
	got := strings.Join(StreakKeys(montecarlo.DefaultConfig()), ",")
	if want := "win_3+,win_5+,win_7+,loss_3+,loss_5+,ot_2+,ot_3+,ot_4+"; got != want {
		t.Errorf("StreakKeys = %s; want %s", got, want)
	}
}

func TestPrintMatchup(t *testing.T) {
	rep := &montecarlo.MatchupReport{
		Team1: "Boston Bruins", Team2: "Toronto Maple Leafs", Runs: 500,
		Team1Wins: 55, Team2Wins: 45,
		Team1Odds: odds.FromProbability(0.55), Team2Odds: odds.FromProbability(0.45),
		ScoreDist: []montecarlo.Scoreline{{Score: "3-2", Pct: 9.4}, {Score: "2-1", Pct: 8}},
	}
	var buf bytes.Buffer
	PrintMatchup(&buf, rep)
	got := buf.String()
	for _, want := range []string{"Bruins 55.0%", "Leafs 45.0%", "1.82 (-122)", "2.22 (+122)", "3-2 9.4%, 2-1 8.0%"} {
		if !strings.Contains(got, want) {
			t.Errorf("matchup output missing %q:\n%s", want, got)
		}
	}
}
