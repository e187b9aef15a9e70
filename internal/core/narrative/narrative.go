// Package narrative renders the doctor's note explaining which
// adjustments moved a game's projection.
package narrative

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charleschow/hockey-sim/internal/core/adjust"
)

// EdgeThreshold is the projection gap, in goals, needed to name a
// favourite.
const EdgeThreshold = 0.25

type Side struct {
	Team      string           `json:"team"`
	Goalie    string           `json:"goalie"`
	Adjust    adjust.Breakdown `json:"adjust"`
	Projected float64          `json:"projected"`
}

type Game struct {
	Date        time.Time `json:"date"`
	Home        Side      `json:"home"`
	Away        Side      `json:"away"`
	OvertimePct float64   `json:"overtime_pct"`
}

// DoctorsNote is the plain-text note attached to every simulated game.
func DoctorsNote(g Game) string {
	var b strings.Builder
	date := "N/A"
	if !g.Date.IsZero() {
		date = g.Date.Format("2006-01-02")
	}
	fmt.Fprintf(&b, "Doctor's Note: %s vs %s (%s)\n", g.Home.Team, g.Away.Team, date)
	for _, s := range []Side{g.Home, g.Away} {
		fmt.Fprintf(&b, "%s:\n", s.Team)
		a := s.Adjust
		if a.Injury != 0 {
			fmt.Fprintf(&b, "  - Injuries adj: %+.2f GF\n", a.Injury)
		}
		if a.Rest != 0 {
			label := "Rest"
			if a.Fatigued() {
				label = "Fatigue"
			}
			fmt.Fprintf(&b, "  - %s adj: %+.2f GF\n", label, a.Rest)
		}
		if a.Goalie != 0 {
			fmt.Fprintf(&b, "  - Goalie adj (%s): %+.2f GA\n", s.Goalie, a.Goalie)
		}
		if a.SpecialTeams != 0 {
			fmt.Fprintf(&b, "  - Special teams adj: %+.2f GF\n", a.SpecialTeams)
		}
	}
	fmt.Fprintf(&b, "Summary Diagnosis: %s proj %.1f GF, %s proj %.1f GF\n",
		g.Home.Team, g.Home.Projected, g.Away.Team, g.Away.Projected)
	fmt.Fprintf(&b, "Overtime likelihood: %.1f%%", g.OvertimePct)
	return b.String()
}

// Diagnosis is the structured form of a doctor's note.
type Diagnosis struct {
	Summary string   `json:"summary"`
	Edge    string   `json:"edge,omitempty"`
	Factors []string `json:"factors"`
}

// Diagnose names the favourite, if any, and lists the factors in play.
func Diagnose(g Game) Diagnosis {
	d := Diagnosis{Factors: []string{}}
	gap := g.Home.Projected - g.Away.Projected
	switch {
	case gap >= EdgeThreshold:
		d.Edge = g.Home.Team
	case -gap >= EdgeThreshold:
		d.Edge = g.Away.Team
	}
	if d.Edge != "" {
		d.Summary = fmt.Sprintf("%s projected edge (%.2f goals)", d.Edge, math.Abs(gap))
	} else {
		d.Summary = "No clear edge"
	}

	h, a := g.Home.Adjust, g.Away.Adjust
	if h.Goalie != 0 || a.Goalie != 0 {
		d.Factors = append(d.Factors, "goalie adjustment noted")
	}
	if h.Fatigued() || a.Fatigued() {
		d.Factors = append(d.Factors, "fatigue flagged")
	}
	if h.SpecialTeams != 0 || a.SpecialTeams != 0 {
		d.Factors = append(d.Factors, "special teams impact")
	}
	if h.Injury != 0 || a.Injury != 0 {
		d.Factors = append(d.Factors, "injuries in lineup")
	}
	return d
}

// WithStreakOdds appends Monte Carlo streak language for the favourite.
// probs uses the win_N+ keys of a season forecast; missing keys leave
// the diagnosis unchanged.
func WithStreakOdds(d Diagnosis, probs map[string]float64) Diagnosis {
	if d.Edge == "" || probs == nil {
		return d
	}
	w3, ok3 := probs["win_3+"]
	w7, ok7 := probs["win_7+"]
	if !ok3 || !ok7 {
		return d
	}
	d.Factors = append(append([]string(nil), d.Factors...),
		fmt.Sprintf("%s have a %.1f%% chance of ≥3 wins, but only %.1f%% for ≥7.", d.Edge, w3, w7))
	return d
}
