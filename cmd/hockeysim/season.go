package main

import (
	"context"
	"flag"
	"math/rand/v2"
	"os"

	"github.com/charleschow/hockey-sim/internal/core/display"
	"github.com/charleschow/hockey-sim/internal/core/season"
	"github.com/charleschow/hockey-sim/internal/core/sim"
	"github.com/charleschow/hockey-sim/internal/telemetry"
)

// seasonExport is the JSON form of a single season run.
type seasonExport struct {
	Seed        uint64              `json:"seed"`
	Seeded      bool                `json:"seeded"`
	Standings   []season.Standing   `json:"standings"`
	Reports     []season.TeamReport `json:"reports"`
	LeagueOTPct float64             `json:"league_ot_pct"`
	Games       []sim.Outcome       `json:"games,omitempty"`
}

func (a *app) season(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("season", flag.ExitOnError)
	seedFlag := fs.String("seed", "", "random seed (default SIM_SEED, else random)")
	games := fs.Int("games", 0, "print the first N game results")
	verbose := fs.Bool("v", false, "print goalies, shots and doctor's notes with each game")
	shots := fs.Int("shots", 0, "print a sample of N shots from the opening game")
	asJSON := fs.Bool("json", false, "write JSON to stdout instead of tables")
	out := fs.String("out", "", "also write the full season, with every game, as JSON to this file")
	fs.Parse(args)

	sched, err := a.loadSchedule()
	if err != nil {
		return err
	}
	seed, seeded, err := a.seed(*seedFlag)
	if err != nil {
		return err
	}
	if !seeded {
		seed = rand.Uint64()
	}
	rng := sim.NewRNG(seed)

	opts := season.Options{
		KeepGames:   *games > 0 || *out != "" || *shots > 0,
		RecordShots: *shots > 0 || *out != "",
	}
	res, err := a.driver.Run(ctx, sched, rng, opts)
	if err != nil {
		return err
	}
	telemetry.Metrics.SeasonsSimulated.Inc()

	exp := seasonExport{
		Seed:        seed,
		Seeded:      seeded,
		Standings:   res.Standings(),
		Reports:     res.Reports(a.lg),
		LeagueOTPct: res.LeagueOTPct(),
	}
	if *out != "" {
		full := exp
		full.Games = res.Games
		if err := writeJSONFile(*out, full); err != nil {
			return err
		}
		telemetry.Infof("season written to %s", *out)
	}
	if *asJSON {
		return writeJSON(os.Stdout, exp)
	}

	w := os.Stdout
	for i := 0; i < *games && i < len(res.Games); i++ {
		display.PrintGame(w, res.Games[i], *verbose)
	}
	if *shots > 0 && len(res.Games) > 0 {
		display.PrintShotSample(w, res.Games[0].Shots, *shots)
	}
	display.PrintStandings(w, exp.Standings)
	display.PrintStreaks(w, res)
	display.PrintReports(w, exp.Reports, exp.LeagueOTPct)
	telemetry.Infof("season seed %d (%d games)", seed, res.GamesPlayed())
	return nil
}
