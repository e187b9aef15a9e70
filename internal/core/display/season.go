package display

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/charleschow/hockey-sim/internal/core/season"
	"github.com/charleschow/hockey-sim/internal/core/sim"
)

var codeLabel = map[sim.Code]string{
	sim.HomeWin:    "",
	sim.AwayWin:    "",
	sim.HomeOTWin:  " (OT)",
	sim.HomeOTLoss: " (OT)",
}

// PrintGame writes a one-line result. Verbose adds goalies, shots and the
// doctor's note.
func PrintGame(w io.Writer, out sim.Outcome, verbose bool) {
	fmt.Fprintf(w, "%s  %-24s %2d  @  %-24s %2d%s\n",
		out.Date.Format("2006-01-02"), out.Away.Team, out.Away.Goals, out.Home.Team, out.Home.Goals, codeLabel[out.Code])
	if !verbose {
		return
	}
	fmt.Fprintf(w, "    shots %s %d, %s %d  |  goalies %s (%s), %s (%s)\n",
		shortName(out.Away.Team), out.Away.Shots, shortName(out.Home.Team), out.Home.Shots,
		out.Away.Goalie.Name, out.Away.Slot, out.Home.Goalie.Name, out.Home.Slot)
	fmt.Fprintf(w, "%s\n%s\n%s\n", dividerLight, out.Note, dividerLight)
}

// PrintShotSample writes up to n shot events from a recorded game.
func PrintShotSample(w io.Writer, shots []sim.ShotEvent, n int) {
	if n > len(shots) {
		n = len(shots)
	}
	for _, s := range shots[:n] {
		mark := ""
		if s.Goal {
			mark = "  GOAL"
		}
		fmt.Fprintf(w, "    %-8s %-22s vs %-20s %-9s %3s %5.1fft %4.1fdeg xg %.3f p %.3f%s\n",
			shortName(s.Team), fit(s.Shooter, 22), fit(s.Goalie, 20), s.Features.Type, s.Features.Strength,
			s.Features.DistanceFt, s.Features.AngleDeg, s.XG, s.ProbGoal, mark)
	}
}

func PrintStandings(w io.Writer, table []season.Standing) {
	header(w, "Standings")
	fmt.Fprintf(w, "%-5s %-26s %3s %3s %3s %3s %4s %5s\n", "", "Team", "GP", "W", "L", "OT", "PTS", "GD")
	for _, s := range table {
		fmt.Fprintf(w, "%-5s %-26s %3d %3d %3d %3d %4d %+5d\n",
			humanize.Ordinal(s.Rank), fit(s.Team, 26), s.Record.Games(), s.Record.W, s.Record.L, s.Record.OT, s.Record.PTS, s.GoalDiff)
	}
}

// PrintReports writes the per-team betting profile table.
func PrintReports(w io.Writer, reports []season.TeamReport, leagueOT float64) {
	header(w, fmt.Sprintf("Team profiles  (league OT%% %.1f)", leagueOT))
	fmt.Fprintf(w, "%-22s %5s %5s %5s %6s %5s %6s %5s %6s %5s %5s %6s %6s %5s %6s\n",
		"Team", "SF/G", "SA/G", "Sh%", "Sv%", "OT%", "Diff/G", "Pace", "ST%", "MOV", "Inj", "Close%", "Fatig%", "1G%", "Top8")
	for _, r := range reports {
		fmt.Fprintf(w, "%-22s %5.1f %5.1f %5.1f %6.3f %5.1f %+6.2f %5.1f %6.1f %5.2f %5.2f %6.1f %6.1f %5.1f %+6.2f\n",
			fit(r.Team, 22), r.SFPerGame, r.SAPerGame, r.ShPct, r.SvPct, r.OTPct, r.DiffPerGame, r.PacePerGame,
			r.STPct, r.MOV, r.InjAdj, r.CloseGPct, r.FatigueGPct, r.OneGoalPct, r.H2HDeltaTop8)
	}
}

// PrintStreaks lists each team's longest streaks in standings order.
func PrintStreaks(w io.Writer, res *season.Result) {
	header(w, "Longest streaks")
	fmt.Fprintf(w, "%-26s %5s %5s %5s\n", "Team", "W", "L", "OT")
	for _, s := range res.Standings() {
		st := res.Teams[s.Team].Streaks
		fmt.Fprintf(w, "%-26s %5d %5d %5d\n", fit(s.Team, 26), st.MaxW, st.MaxL, st.MaxOT)
	}
}
