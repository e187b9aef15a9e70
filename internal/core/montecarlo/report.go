package montecarlo

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/charleschow/hockey-sim/internal/core/season"
)

// TeamSummary is the per-team forecast. Field names are the stable
// interchange keys.
type TeamSummary struct {
	Avg          float64            `json:"avg"`
	Median       float64            `json:"median"`
	P25          float64            `json:"p25"`
	P75          float64            `json:"p75"`
	Std          float64            `json:"std"`
	PlayoffPct   float64            `json:"playoff_pct"`
	PlayoffCount int                `json:"playoff_count"`
	StreakProbs  map[string]float64 `json:"streak_probs"`
}

type Report struct {
	Runs    int                    `json:"runs"`
	Seed    uint64                 `json:"seed"`
	Seeded  bool                   `json:"seeded"`
	Elapsed time.Duration          `json:"elapsed_ns"`
	Teams   map[string]TeamSummary `json:"teams"`
}

// Ranked is a report row in forecast order.
type Ranked struct {
	Team string
	TeamSummary
}

// Ranked orders teams by average points, then playoff odds, then name.
func (r *Report) Ranked() []Ranked {
	out := make([]Ranked, 0, len(r.Teams))
	for name, s := range r.Teams {
		out = append(out, Ranked{Team: name, TeamSummary: s})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Avg != b.Avg {
			return a.Avg > b.Avg
		}
		if a.PlayoffPct != b.PlayoffPct {
			return a.PlayoffPct > b.PlayoffPct
		}
		return a.Team < b.Team
	})
	return out
}

// StreakKey formats a threshold key such as win_3+.
func StreakKey(prefix string, threshold int) string {
	return fmt.Sprintf("%s_%d+", prefix, threshold)
}

func aggregate(runs []runOutcome, teams []string, cfg Config) *Report {
	rep := &Report{Runs: len(runs), Teams: make(map[string]TeamSummary, len(teams))}
	n := float64(len(runs))
	pts := make([]float64, len(runs))
	for i, team := range teams {
		count := 0
		maxW := make([]int, len(runs))
		maxL := make([]int, len(runs))
		maxOT := make([]int, len(runs))
		for k, ro := range runs {
			pts[k] = float64(ro.points[i])
			maxW[k] = ro.maxW[i]
			maxL[k] = ro.maxL[i]
			maxOT[k] = ro.maxOT[i]
			if ro.playoff[i] {
				count++
			}
		}

		s := summarize(pts)
		s.PlayoffCount = count
		s.PlayoffPct = season.Round(float64(count)/n*100, 1)
		s.StreakProbs = make(map[string]float64, len(cfg.WinThresholds)+len(cfg.LossThresholds)+len(cfg.OTThresholds))
		thresholdProbs(s.StreakProbs, "win", maxW, cfg.WinThresholds)
		thresholdProbs(s.StreakProbs, "loss", maxL, cfg.LossThresholds)
		thresholdProbs(s.StreakProbs, "ot", maxOT, cfg.OTThresholds)
		rep.Teams[team] = s
	}
	return rep
}

// summarize computes the point distribution. Quantiles use gonum's
// linear interpolation on a sorted copy, so p25 <= median <= p75 holds
// for any sample size.
func summarize(pts []float64) TeamSummary {
	if len(pts) == 0 {
		return TeamSummary{}
	}
	sorted := append([]float64(nil), pts...)
	sort.Float64s(sorted)
	mean, std := stat.PopMeanStdDev(sorted, nil)
	return TeamSummary{
		Avg:    season.Round(mean, 1),
		Median: season.Round(stat.Quantile(0.5, stat.LinInterp, sorted, nil), 1),
		P25:    season.Round(stat.Quantile(0.25, stat.LinInterp, sorted, nil), 1),
		P75:    season.Round(stat.Quantile(0.75, stat.LinInterp, sorted, nil), 1),
		Std:    season.Round(std, 2),
	}
}

func thresholdProbs(dst map[string]float64, prefix string, maxima []int, thresholds []int) {
	for _, t := range thresholds {
		key := StreakKey(prefix, t)
		if len(maxima) == 0 {
			dst[key] = 0
			continue
		}
		hit := 0
		for _, m := range maxima {
			if m >= t {
				hit++
			}
		}
		dst[key] = season.Round(float64(hit)/float64(len(maxima))*100, 1)
	}
}
