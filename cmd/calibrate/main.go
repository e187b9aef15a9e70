// Command calibrate replays completed games as head-to-head series and
// scores the simulator's home win probabilities against what happened,
// and against closing prices when the results file carries them.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/charleschow/hockey-sim/internal/adapters/inbound/schedule_csv"
	"github.com/charleschow/hockey-sim/internal/config"
	"github.com/charleschow/hockey-sim/internal/core/adjust"
	"github.com/charleschow/hockey-sim/internal/core/calibration"
	"github.com/charleschow/hockey-sim/internal/core/montecarlo"
	"github.com/charleschow/hockey-sim/internal/core/season"
	"github.com/charleschow/hockey-sim/internal/core/sim"
	"github.com/charleschow/hockey-sim/internal/process"
	"github.com/charleschow/hockey-sim/internal/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	path := flag.String("results", "game_results.csv", "completed games CSV (date, visitor, home, visitor_goals, home_goals[, home_odds, away_odds])")
	runs := flag.Int("runs", 200, "simulated games per real game")
	workers := flag.Int("workers", cfg.Workers, "games calibrated in parallel")
	flag.Parse()

	games, err := schedule_csv.ReadResultsFile(*path)
	if err != nil {
		telemetry.Errorf("%v", err)
		os.Exit(1)
	}
	if len(games) == 0 {
		fmt.Println("(no games)")
		return
	}

	lg, err := config.LoadLeague(cfg.LeagueDataPath)
	if err != nil {
		telemetry.Errorf("%v", err)
		os.Exit(1)
	}
	policy, err := adjust.ParseFatiguePolicy(cfg.FatiguePolicy)
	if err != nil {
		telemetry.Errorf("%v", err)
		os.Exit(1)
	}
	ap := adjust.DefaultParams()
	ap.LeagueAvgSavePct = lg.LeagueAvgSavePct()
	ap.Fatigue = policy
	orch := process.New(nil, season.NewDriver(sim.New(lg, sim.WithAdjustParams(ap))), montecarlo.DefaultConfig())

	base := cfg.Seed
	if !cfg.Seeded {
		base = rand.Uint64()
	}

	preds := make([]calibration.Prediction, len(games))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(*workers, 1))
	for i, game := range games {
		g.Go(func() error {
			rep, err := orch.HeadToHead(ctx, game.Home, game.Away, montecarlo.MatchupConfig{
				Runs:          *runs,
				TopScorelines: 1,
				Date:          game.Date,
				Seed:          sim.DeriveSeed(base, i),
				Seeded:        true,
			})
			if err != nil {
				return fmt.Errorf("%s vs %s: %w", game.Home, game.Away, err)
			}
			preds[i] = calibration.Prediction{Game: game, ModelHome: rep.Team1Wins / 100}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		telemetry.Errorf("%v", err)
		os.Exit(1)
	}

	printResult(*path, calibration.Evaluate(preds))
}

func printResult(source string, r calibration.Result) {
	fmt.Printf("── %s (%d games, %d with prices) ──\n", source, r.Games, r.MarketGames)
	fmt.Printf("  Model Brier score:               %.4f\n", r.ModelBrier)
	fmt.Printf("  Home win bias (model - actual):  %+.4f\n", r.HomeBias)
	if r.MarketGames > 0 {
		fmt.Printf("  Market Brier score (vig-free):   %.4f\n", r.MarketBrier)
		fmt.Printf("  Model Brier on priced games:     %.4f\n", r.ModelBrierM)
		improvement := (r.MarketBrier - r.ModelBrierM) / r.MarketBrier * 100
		fmt.Printf("  Model vs market:                 %+.1f%%\n", improvement)
		fmt.Printf("  Edge bets: %d  net %+.2f units\n", r.Bets, r.BetUnits)
	}
	fmt.Println()

	if len(r.Buckets) > 0 {
		fmt.Println("  Calibration buckets (predicted vs actual):")
		fmt.Printf("  %-10s %6s %8s %8s %8s\n", "Bucket", "Count", "MeanPred", "ActFreq", "Error")
		for _, b := range r.Buckets {
			fmt.Printf("  %-10s %6d %8.3f %8.3f %+8.3f\n",
				b.Label, b.Count, b.MeanPred, b.ActualFreq, b.MeanPred-b.ActualFreq)
		}
	}
	if math.Abs(r.HomeBias) > 0.02 {
		fmt.Println()
		fmt.Println("  WARNING: home bias exceeds 2%. Check HOME_ADVANTAGE or the team goal rates.")
	}
}
