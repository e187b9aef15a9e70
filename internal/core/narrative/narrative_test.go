package narrative

import (
	"strings"
	"testing"
	"time"

	"github.com/charleschow/hockey-sim/internal/core/adjust"
)

func sample() Game {
	return Game{
		Date: time.Date(2025, 10, 11, 0, 0, 0, 0, time.UTC),
		Home: Side{
			Team:      "Boston Bruins",
			Goalie:    "Jeremy Swayman",
			Adjust:    adjust.Breakdown{Goalie: -0.39, SpecialTeams: 0.03},
			Projected: 3.41,
		},
		Away: Side{
			Team:      "Toronto Maple Leafs",
			Goalie:    "Joseph Woll",
			Adjust:    adjust.Breakdown{Rest: -0.2, Injury: -0.25},
			Projected: 2.97,
		},
		OvertimePct: 12,
	}
}

func TestDoctorsNote(t *testing.T) {
	note := DoctorsNote(sample())
	for _, want := range []string{
		"Doctor's Note: Boston Bruins vs Toronto Maple Leafs (2025-10-11)",
		"  - Goalie adj (Jeremy Swayman): -0.39 GA",
		"  - Special teams adj: +0.03 GF",
		"  - Fatigue adj: -0.20 GF",
		"  - Injuries adj: -0.25 GF",
		"Summary Diagnosis: Boston Bruins proj 3.4 GF, Toronto Maple Leafs proj 3.0 GF",
		"Overtime likelihood: 12.0%",
	} {
		if !strings.Contains(note, want) {
			t.Errorf("note missing %q:\n%s", want, note)
		}
	}
	if strings.Contains(note, "Rest adj") {
		t.Errorf("zero adjustments should be omitted:\n%s", note)
	}
}

func TestDoctorsNote_NoDate(t *testing.T) {
	g := sample()
	g.Date = time.Time{}
	if note := DoctorsNote(g); !strings.Contains(note, "(N/A)") {
		t.Errorf("undated note = %q", note)
	}
}

func TestDiagnose(t *testing.T) {
	d := Diagnose(sample())
	if d.Edge != "Boston Bruins" {
		t.Errorf("Edge = %q; want Boston Bruins", d.Edge)
	}
	want := []string{"goalie adjustment noted", "fatigue flagged", "special teams impact", "injuries in lineup"}
	if strings.Join(d.Factors, "|") != strings.Join(want, "|") {
		t.Errorf("Factors = %v; want %v", d.Factors, want)
	}

	even := sample()
	even.Away.Projected = 3.3
	if d := Diagnose(even); d.Edge != "" || d.Summary != "No clear edge" {
		t.Errorf("close projections: got %+v", d)
	}
}

func TestWithStreakOdds(t *testing.T) {
	d := Diagnose(sample())
	got := WithStreakOdds(d, map[string]float64{"win_3+": 96.4, "win_7+": 21})
	last := got.Factors[len(got.Factors)-1]
	if last != "Boston Bruins have a 96.4% chance of ≥3 wins, but only 21.0% for ≥7." {
		t.Errorf("streak factor = %q", last)
	}
	if len(d.Factors) == len(got.Factors) {
		t.Error("WithStreakOdds mutated or skipped the factor list")
	}
	if same := WithStreakOdds(d, map[string]float64{"win_3+": 50}); len(same.Factors) != len(d.Factors) {
		t.Error("partial probabilities should leave the diagnosis unchanged")
	}
}
