package league

import (
	"strings"
	"testing"
)

func TestDefault_Loads(t *testing.T) {
	lg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if lg.Len() < 30 {
		t.Errorf("Len() = %d; want at least 30 teams", lg.Len())
	}
	if got := lg.LeagueAvgSavePct(); got != 0.905 {
		t.Errorf("LeagueAvgSavePct() = %v; want 0.905", got)
	}
	if len(lg.TopTier()) != 8 {
		t.Errorf("TopTier() has %d teams; want 8", len(lg.TopTier()))
	}
}

func TestResolve(t *testing.T) {
	lg := MustDefault()
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Boston Bruins", "Boston Bruins", true},
		{"  boston   bruins ", "Boston Bruins", true},
		{"Montréal Canadiens", "Montreal Canadiens", true},
		{"St Louis Blues", "St. Louis Blues", true},
		{"Utah Hockey Club", "Utah Mammoth", true},
		{"Quebec  Nordiques", "Quebec Nordiques", false},
	}
	for _, tt := range tests {
		got, ok := lg.Resolve(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Resolve(%q) = (%q, %v); want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTeam_SynthesizesUnknown(t *testing.T) {
	lg := MustDefault()
	before := lg.Len()
	p := lg.Team("Hartford Whalers")
	if !p.Synthesized {
		t.Fatal("expected synthesized profile")
	}
	if p.GoalsFor != DefaultGoalsPerGame || p.GoalsAgainst != DefaultGoalsPerGame {
		t.Errorf("gf/ga = %v/%v; want %v", p.GoalsFor, p.GoalsAgainst, DefaultGoalsPerGame)
	}
	if p.Starter.SavePct != DefaultStarterSavePct || p.Backup.SavePct != DefaultBackupSavePct {
		t.Errorf("goalies = %v/%v", p.Starter.SavePct, p.Backup.SavePct)
	}
	if lg.Len() != before {
		t.Errorf("Team() mutated the league: Len() = %d; want %d", lg.Len(), before)
	}
}

func TestRoster_MixedEntries(t *testing.T) {
	doc := `
injury_profiles:
  Star Skater: {role: forward, impact: 0.3}
  Big D: {role: defense, impact: 0.2}
teams:
  Test Club:
    gf: 3.1
    ga: 2.9
    pp: 21
    pk: 79
    starter: {name: A, sv: 0.91}
    backup: {name: B, sv: 0.9}
    roster:
      - Plain Skater
      - {name: Star Skater, factor: 1.3}
      - Big D
`
	lg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	team := lg.Team("test club")
	if len(team.Roster) != 3 {
		t.Fatalf("roster len = %d; want 3", len(team.Roster))
	}
	if f := team.Roster[0].ShotFactor(); f != 1.0 {
		t.Errorf("plain ShotFactor() = %v; want 1.0", f)
	}
	if f := team.Roster[1].ShotFactor(); f != 1.3 {
		t.Errorf("star ShotFactor() = %v; want 1.3", f)
	}
	if strings.Join(team.Susceptible, ",") != "Star Skater,Big D" {
		t.Errorf("Susceptible = %v; want [Star Skater Big D]", team.Susceptible)
	}
	if lg.LeagueAvgSavePct() != DefaultLeagueSavePct {
		t.Errorf("missing league_avg_sv should default, got %v", lg.LeagueAvgSavePct())
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"no teams":  "league_avg_sv: 0.9\n",
		"bad role":  "injury_profiles:\n  X: {role: goalie, impact: 1}\nteams:\n  T: {gf: 1, ga: 1, starter: {sv: 0.9}, backup: {sv: 0.9}}\n",
		"bad sv":    "teams:\n  T: {gf: 1, ga: 1, starter: {sv: 1.5}, backup: {sv: 0.9}}\n",
		"bad alias": "aliases:\n  x: Nowhere\nteams:\n  T: {gf: 1, ga: 1, starter: {sv: 0.9}, backup: {sv: 0.9}}\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"Montréal  Canadiens", "montreal canadiens"},
		{"St. Louis Blues", "st louis blues"},
		{"  Tampa-Bay Lightning ", "tampa bay lightning"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in, nil); got != tt.want {
			t.Errorf("Normalize(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
