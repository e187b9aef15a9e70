package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/charleschow/hockey-sim/internal/core/montecarlo"
)

// PrintForecast writes the Monte Carlo summary in forecast order.
func PrintForecast(w io.Writer, rep *montecarlo.Report, streakKeys []string) {
	seed := "random"
	if rep.Seeded {
		seed = fmt.Sprintf("%d", rep.Seed)
	}
	header(w, fmt.Sprintf("Season forecast: %s runs, seed %s, %s",
		humanize.Comma(int64(rep.Runs)), seed, rep.Elapsed.Round(time.Millisecond)))

	fmt.Fprintf(w, "%-4s %-24s %6s %6s %6s %6s %6s %7s", "", "Team", "Avg", "Med", "P25", "P75", "Std", "Playoff")
	for _, k := range streakKeys {
		fmt.Fprintf(w, " %7s", k)
	}
	fmt.Fprintln(w)
	for i, r := range rep.Ranked() {
		fmt.Fprintf(w, "%-4d %-24s %6.1f %6.1f %6.1f %6.1f %6.2f %6.1f%%",
			i+1, fit(r.Team, 24), r.Avg, r.Median, r.P25, r.P75, r.Std, r.PlayoffPct)
		for _, k := range streakKeys {
			fmt.Fprintf(w, " %6.1f%%", r.StreakProbs[k])
		}
		fmt.Fprintln(w)
	}
}

// StreakKeys lists the report columns for a runner configuration.
func StreakKeys(cfg montecarlo.Config) []string {
	var keys []string
	for _, t := range cfg.WinThresholds {
		keys = append(keys, montecarlo.StreakKey("win", t))
	}
	for _, t := range cfg.LossThresholds {
		keys = append(keys, montecarlo.StreakKey("loss", t))
	}
	for _, t := range cfg.OTThresholds {
		keys = append(keys, montecarlo.StreakKey("ot", t))
	}
	return keys
}

func PrintMatchup(w io.Writer, rep *montecarlo.MatchupReport) {
	header(w, fmt.Sprintf("%s vs %s  (%s games)", rep.Team1, rep.Team2, humanize.Comma(int64(rep.Runs))))
	fmt.Fprintf(w, "    %-30s%s %.1f%%  |  %s %.1f%%\n", "Win share:",
		shortName(rep.Team1), rep.Team1Wins, shortName(rep.Team2), rep.Team2Wins)
	fmt.Fprintf(w, "    %-30s%s %.1f%%  |  %s %.1f%%\n", "Overtime losses:",
		shortName(rep.Team1), rep.Team1OT, shortName(rep.Team2), rep.Team2OT)
	fmt.Fprintf(w, "    %-30s%+.2f\n", "Average margin:", rep.AvgMargin)
	fmt.Fprintf(w, "    %-30s1-goal %.1f%%  |  OT %.1f%%\n", "Close games:",
		rep.CloseGames.OneGoalPct, rep.CloseGames.OTPct)
	fmt.Fprintf(w, "    %-30s%s %.2f (%s)  |  %s %.2f (%s)\n", "Fair odds:",
		shortName(rep.Team1), rep.Team1Odds.Decimal, american(rep.Team1Odds.American),
		shortName(rep.Team2), rep.Team2Odds.Decimal, american(rep.Team2Odds.American))

	scores := make([]string, len(rep.ScoreDist))
	for i, s := range rep.ScoreDist {
		scores[i] = fmt.Sprintf("%s %.1f%%", s.Score, s.Pct)
	}
	fmt.Fprintf(w, "    %-30s%s\n", "Top scorelines:", strings.Join(scores, ", "))
	fmt.Fprintln(w, dividerHeavy)
}

func american(v int) string {
	if v == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%+d", v)
}
