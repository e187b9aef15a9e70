package adjust

import (
	"math"
	"testing"
	"time"

	"github.com/charleschow/hockey-sim/internal/core/league"
)

// scripted replays fixed draws so injury and goalie paths can be pinned.
type scripted struct {
	floats []float64
	ints   []int
}

func (s *scripted) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scripted) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dates(ds ...string) []time.Time {
	out := make([]time.Time, len(ds))
	for i, d := range ds {
		out[i] = day(d)
	}
	return out
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRest(t *testing.T) {
	cum := DefaultParams()
	exact := DefaultParams()
	exact.Fatigue = FatigueExact

	tests := []struct {
		name   string
		p      Params
		played []time.Time
		date   string
		want   float64
	}{
		{"no history", cum, nil, "2025-10-10", 0},
		{"one day rest", cum, dates("2025-10-08"), "2025-10-10", 0},
		{"back to back", cum, dates("2025-10-09"), "2025-10-10", -0.20},
		{"three in four", cum, dates("2025-10-06", "2025-10-07", "2025-10-09"), "2025-10-10", -0.30},
		{"four in six", cum, dates("2025-10-04", "2025-10-06", "2025-10-08", "2025-10-09"), "2025-10-10", -0.40},
		{"outside window", cum, dates("2025-10-05", "2025-10-08", "2025-10-09"), "2025-10-10", -0.20},
		{"exact ignores gap of four", exact, dates("2025-10-06", "2025-10-07", "2025-10-09"), "2025-10-10", -0.20},
		{"exact third game", exact, dates("2025-10-07", "2025-10-08", "2025-10-09"), "2025-10-10", -0.30},
		{"exact both", exact, dates("2025-10-06", "2025-10-07", "2025-10-08", "2025-10-09"), "2025-10-10", -0.40},
		{"long rest", cum, dates("2025-10-01"), "2025-10-10", 0.10},
		{"four days", cum, dates("2025-10-06"), "2025-10-10", 0.10},
	}
	for _, tt := range tests {
		if got := Rest(tt.p, tt.played, day(tt.date)); !near(got, tt.want) {
			t.Errorf("%s: Rest = %v; want %v", tt.name, got, tt.want)
		}
	}
}

func TestGoalie(t *testing.T) {
	p := DefaultParams()
	if got := Goalie(p, 0.905); !near(got, 0) {
		t.Errorf("Goalie(avg) = %v; want 0", got)
	}
	if got := Goalie(p, 0.915); !near(got, -0.3) {
		t.Errorf("Goalie(.915) = %v; want -0.3", got)
	}
	if got := Goalie(p, 0.895); !near(got, 0.3) {
		t.Errorf("Goalie(.895) = %v; want 0.3", got)
	}
}

func TestSpecialTeams(t *testing.T) {
	a := &league.TeamProfile{PowerPlayPct: 25, PenaltyKillPct: 82}
	b := &league.TeamProfile{PowerPlayPct: 18, PenaltyKillPct: 78}
	// (25-78+82-18)/200
	if got := SpecialTeams(a, b); !near(got, 0.055) {
		t.Errorf("SpecialTeams(a,b) = %v; want 0.055", got)
	}
	if got := SpecialTeams(b, a); !near(got, -0.055) {
		t.Errorf("SpecialTeams(b,a) = %v; want -0.055", got)
	}
}

func TestChooseGoalie(t *testing.T) {
	p := DefaultParams()
	date := day("2025-10-10")

	if got := ChooseGoalie(p, &scripted{floats: []float64{0}}, nil, date); got != league.Starter {
		t.Errorf("first game: got %s; want starter", got)
	}
	// the back-to-back rule is deterministic and must not consume a draw
	r := &scripted{floats: []float64{0.99}}
	if got := ChooseGoalie(p, r, dates("2025-10-09"), date); got != league.Backup {
		t.Errorf("back to back: got %s; want backup", got)
	}
	if len(r.floats) != 1 {
		t.Error("back to back consumed a random draw")
	}
	if got := ChooseGoalie(p, &scripted{floats: []float64{0.1}}, dates("2025-10-07"), date); got != league.Backup {
		t.Errorf("draw 0.1: got %s; want backup", got)
	}
	if got := ChooseGoalie(p, &scripted{floats: []float64{0.5}}, dates("2025-10-07"), date); got != league.Starter {
		t.Errorf("draw 0.5: got %s; want starter", got)
	}
}

func TestInjuries_FiveGameWindow(t *testing.T) {
	lg := league.MustDefault()
	team := lg.Team("Edmonton Oilers")
	if len(team.Susceptible) == 0 {
		t.Fatal("Oilers have no injury-susceptible players")
	}
	player := team.Susceptible[0]
	prof, _ := lg.InjuryProfile(player)

	in := NewInjuries(lg, DefaultParams())
	// first draw triggers, IntN picks the first healthy player and 3+2 games
	r := &scripted{floats: []float64{0}, ints: []int{0, 2}}

	affected := 0
	for game := 0; game < 10; game++ {
		got, games := in.Progress(r, team)
		if game == 0 && (got != player || games != 5) {
			t.Fatalf("Progress = (%q, %d); want (%q, 5)", got, games, player)
		}
		gf, ga, total := in.Apply(team.Name, team.GoalsFor, team.GoalsAgainst)
		if total > 0 {
			affected++
			if prof.Role == league.RoleForward && !near(gf, team.GoalsFor-prof.Impact) {
				t.Errorf("game %d: gf = %v; want %v", game, gf, team.GoalsFor-prof.Impact)
			}
			if prof.Role == league.RoleDefense && !near(ga, team.GoalsAgainst+prof.Impact) {
				t.Errorf("game %d: ga = %v; want %v", game, ga, team.GoalsAgainst+prof.Impact)
			}
		} else if game < 5 {
			t.Errorf("game %d: injury not applied", game)
		}
	}
	if affected != 5 {
		t.Errorf("injury applied to %d games; want 5", affected)
	}
	if got := in.SeasonImpact(team.Name); !near(got, 5*prof.Impact) {
		t.Errorf("SeasonImpact = %v; want %v", got, 5*prof.Impact)
	}
}

func TestInjuries_SkipsSidelined(t *testing.T) {
	lg := league.MustDefault()
	team := lg.Team("Edmonton Oilers")
	if len(team.Susceptible) < 2 {
		t.Skip("need two susceptible players")
	}
	in := NewInjuries(lg, DefaultParams())
	in.Sideline(team.Name, team.Susceptible[0], 8)

	got, _ := in.Progress(&scripted{floats: []float64{0}, ints: []int{0, 0}}, team)
	if got != team.Susceptible[1] {
		t.Errorf("new injury = %q; want %q", got, team.Susceptible[1])
	}
	if left := in.Remaining(team.Name, team.Susceptible[0]); left != 7 {
		t.Errorf("Remaining = %d; want 7", left)
	}
}

func TestInjuries_Reset(t *testing.T) {
	lg := league.MustDefault()
	in := NewInjuries(lg, DefaultParams())
	in.Sideline("Boston Bruins", "David Pastrnak", 4)
	in.Apply("Boston Bruins", 3, 3)
	in.Reset()
	if len(in.Sidelined("Boston Bruins")) != 0 || in.SeasonImpact("Boston Bruins") != 0 {
		t.Error("Reset left state behind")
	}
}

func TestParseFatiguePolicy(t *testing.T) {
	for in, want := range map[string]FatiguePolicy{"": FatigueCumulative, "EXACT": FatigueExact, "cumulative": FatigueCumulative} {
		got, err := ParseFatiguePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseFatiguePolicy(%q) = (%v, %v); want %v", in, got, err, want)
		}
	}
	if _, err := ParseFatiguePolicy("sometimes"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
