package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/charleschow/hockey-sim/internal/adapters/outbound/discord"
	"github.com/charleschow/hockey-sim/internal/core/display"
	"github.com/charleschow/hockey-sim/internal/core/montecarlo"
	"github.com/charleschow/hockey-sim/internal/core/schedule"
	"github.com/charleschow/hockey-sim/internal/process"
)

func (a *app) headToHead(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("h2h", flag.ExitOnError)
	team1 := fs.String("team1", "", "first team (plays at home unless -neutral)")
	team2 := fs.String("team2", "", "second team")
	runs := fs.Int("runs", a.cfg.H2HRuns, "number of games")
	top := fs.Int("top", a.cfg.H2HTopScorelines, "scorelines to report")
	neutral := fs.Bool("neutral", false, "no home-ice advantage")
	date := fs.String("date", "", "game date (m/d/yyyy or yyyy-mm-dd)")
	seedFlag := fs.String("seed", "", "random seed (default SIM_SEED, else random)")
	notify := fs.Bool("notify", false, "post the result to the Discord webhook")
	asJSON := fs.Bool("json", false, "write JSON to stdout instead of tables")
	fs.Parse(args)

	if *team1 == "" || *team2 == "" {
		return errors.New("both -team1 and -team2 are required")
	}
	seed, seeded, err := a.seed(*seedFlag)
	if err != nil {
		return err
	}
	cfg := montecarlo.MatchupConfig{
		Runs:          *runs,
		TopScorelines: *top,
		NeutralIce:    *neutral,
		Seed:          seed,
		Seeded:        seeded,
	}
	if *date != "" {
		if cfg.Date, err = schedule.ParseDate(*date); err != nil {
			return err
		}
	}

	mcfg := montecarlo.DefaultConfig()
	mcfg.Workers = a.cfg.Workers
	rep, err := process.New(nil, a.driver, mcfg).HeadToHead(ctx, *team1, *team2, cfg)
	if err != nil {
		return err
	}

	if *notify {
		n := discord.NewNotifier(a.cfg.DiscordWebhookURL)
		nctx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		if err := n.MatchupAlert(nctx, rep); err != nil {
			return err
		}
	}

	if *asJSON {
		return writeJSON(os.Stdout, rep)
	}
	display.PrintMatchup(os.Stdout, rep)
	return nil
}
