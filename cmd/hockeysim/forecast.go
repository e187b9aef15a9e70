package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/charleschow/hockey-sim/internal/adapters/outbound/discord"
	"github.com/charleschow/hockey-sim/internal/adapters/outbound/redis_report"
	"github.com/charleschow/hockey-sim/internal/adapters/outbound/sqlite_results"
	"github.com/charleschow/hockey-sim/internal/core/display"
	"github.com/charleschow/hockey-sim/internal/core/montecarlo"
	"github.com/charleschow/hockey-sim/internal/core/narrative"
	"github.com/charleschow/hockey-sim/internal/core/season"
	"github.com/charleschow/hockey-sim/internal/core/sim"
	"github.com/charleschow/hockey-sim/internal/events"
	"github.com/charleschow/hockey-sim/internal/fanout"
	"github.com/charleschow/hockey-sim/internal/process"
	"github.com/charleschow/hockey-sim/internal/telemetry"
)

type forecastExport struct {
	BatchID string                `json:"batch_id"`
	Report  *montecarlo.Report    `json:"report"`
	Notes   []narrative.Diagnosis `json:"notes,omitempty"`
}

func (a *app) forecast(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("forecast", flag.ExitOnError)
	runs := fs.Int("runs", a.cfg.Runs, "number of simulated seasons")
	seedFlag := fs.String("seed", "", "base seed (default SIM_SEED, else random)")
	workers := fs.Int("workers", a.cfg.Workers, "parallel season workers")
	notes := fs.Int("notes", 0, "print structured notes for the first N games of one sample season")
	export := fs.Bool("export", false, "store the batch in the results database")
	asJSON := fs.Bool("json", false, "write JSON to stdout instead of tables")
	fs.Parse(args)

	sched, err := a.loadSchedule()
	if err != nil {
		return err
	}
	seed, seeded, err := a.seed(*seedFlag)
	if err != nil {
		return err
	}

	cfg := montecarlo.DefaultConfig()
	cfg.Runs = *runs
	cfg.Seed = seed
	cfg.Seeded = seeded
	cfg.Workers = *workers

	bus := events.NewBus()
	process.NewProgressLogger(bus, a.cfg.ProgressPerSec)
	if a.cfg.FanoutPort > 0 {
		srv := fanout.NewServer(bus)
		go func() {
			if err := srv.ListenAndServe(a.cfg.FanoutPort); err != nil {
				telemetry.Warnf("fanout: %v", err)
			}
		}()
	}

	exporters, closeAll, err := a.exporters(*export)
	if err != nil {
		return err
	}
	defer closeAll()

	batch, err := process.New(bus, a.driver, cfg, exporters...).RunBatch(ctx, sched)
	if err != nil {
		return err
	}

	var diags []narrative.Diagnosis
	if *notes > 0 {
		diags, err = a.sampleNotes(ctx, batch.Report, *notes)
		if err != nil {
			return err
		}
	}

	if *asJSON {
		return writeJSON(os.Stdout, forecastExport{BatchID: batch.ID, Report: batch.Report, Notes: diags})
	}
	display.PrintForecast(os.Stdout, batch.Report, display.StreakKeys(cfg))
	for _, d := range diags {
		fmt.Fprintf(os.Stdout, "  %s\n", d.Summary)
		for _, f := range d.Factors {
			fmt.Fprintf(os.Stdout, "    - %s\n", f)
		}
	}
	p50, p99 := telemetry.Metrics.SeasonLatency.P50(), telemetry.Metrics.SeasonLatency.P99()
	telemetry.Infof("batch %s  seasons=%d  p50=%s  p99=%s", batch.ID,
		telemetry.Metrics.SeasonsSimulated.Value(), p50.Round(time.Microsecond), p99.Round(time.Microsecond))
	return nil
}

// sampleNotes plays one extra season and attaches the forecast's streak
// odds to each favourite.
func (a *app) sampleNotes(ctx context.Context, rep *montecarlo.Report, n int) ([]narrative.Diagnosis, error) {
	sched, err := a.loadSchedule()
	if err != nil {
		return nil, err
	}
	res, err := a.driver.Run(ctx, sched, sim.NewRNG(sim.DeriveSeed(rep.Seed, rep.Runs)), season.Options{KeepGames: true})
	if err != nil {
		return nil, err
	}
	out := make([]narrative.Diagnosis, 0, n)
	for i := 0; i < n && i < len(res.Games); i++ {
		d := res.Games[i].Diagnosis
		out = append(out, narrative.WithStreakOdds(d, rep.Teams[d.Edge].StreakProbs))
	}
	return out, nil
}

// exporters builds every configured sink. Redis and Discord are enabled by
// their env settings; the results database needs -export.
func (a *app) exporters(toDB bool) ([]process.Exporter, func(), error) {
	var (
		out     []process.Exporter
		closers []func()
	)
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	if toDB {
		store, err := sqlite_results.Open(a.cfg.ResultsDBPath)
		if err != nil {
			return nil, closeAll, err
		}
		out = append(out, store)
		closers = append(closers, func() { store.Close() })
	}
	if a.cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: a.cfg.RedisAddr})
		out = append(out, redis_report.NewPublisher(rdb, a.cfg.ReportTTL))
		closers = append(closers, func() { rdb.Close() })
	}
	if a.cfg.DiscordWebhookURL != "" {
		out = append(out, discord.NewNotifier(a.cfg.DiscordWebhookURL))
	}
	return out, closeAll, nil
}
