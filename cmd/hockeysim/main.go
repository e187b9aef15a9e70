// Command hockeysim plays a schedule once, forecasts it with Monte Carlo
// batches, or prices a single matchup.
//
//	hockeysim season   [-seed N] [-games N] [-v] [-shots N] [-json] [-out file]
//	hockeysim forecast [-runs N] [-seed N] [-workers N] [-notes N] [-export] [-json]
//	hockeysim h2h -team1 NAME -team2 NAME [-runs N] [-top N] [-neutral] [-notify] [-json]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charleschow/hockey-sim/internal/adapters/inbound/schedule_csv"
	"github.com/charleschow/hockey-sim/internal/config"
	"github.com/charleschow/hockey-sim/internal/core/adjust"
	"github.com/charleschow/hockey-sim/internal/core/league"
	"github.com/charleschow/hockey-sim/internal/core/schedule"
	"github.com/charleschow/hockey-sim/internal/core/season"
	"github.com/charleschow/hockey-sim/internal/core/sim"
	"github.com/charleschow/hockey-sim/internal/telemetry"
)

const usage = `usage: hockeysim <season|forecast|h2h> [flags]
run "hockeysim <command> -h" for command flags`

type app struct {
	cfg    *config.Config
	lg     *league.League
	driver *season.Driver
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	a, err := setup(cfg)
	if err != nil {
		telemetry.Errorf("%v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	args := os.Args[2:]
	switch os.Args[1] {
	case "season":
		err = a.season(ctx, args)
	case "forecast":
		err = a.forecast(ctx, args)
	case "h2h":
		err = a.headToHead(ctx, args)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		telemetry.Errorf("%s: %v", os.Args[1], err)
		os.Exit(1)
	}
}

func setup(cfg *config.Config) (*app, error) {
	lg, err := config.LoadLeague(cfg.LeagueDataPath)
	if err != nil {
		return nil, err
	}
	policy, err := adjust.ParseFatiguePolicy(cfg.FatiguePolicy)
	if err != nil {
		return nil, err
	}
	ap := adjust.DefaultParams()
	ap.LeagueAvgSavePct = lg.LeagueAvgSavePct()
	ap.Fatigue = policy

	s := sim.New(lg, sim.WithAdjustParams(ap))
	telemetry.Debugf("league: %d teams, fatigue policy %s", lg.Len(), policy)
	return &app{cfg: cfg, lg: lg, driver: season.NewDriver(s)}, nil
}

// loadSchedule reads and validates the whole file before anything runs.
func (a *app) loadSchedule() (*schedule.Schedule, error) {
	rows, err := schedule_csv.ReadFile(a.cfg.SchedulePath)
	if err != nil {
		return nil, err
	}
	sched, err := schedule.Build(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.cfg.SchedulePath, err)
	}
	first, last := sched.Span()
	telemetry.Infof("schedule: %d games from %s to %s", sched.Len(), first.Format("2006-01-02"), last.Format("2006-01-02"))
	return sched, nil
}

// seed resolves a -seed flag against the configured default.
func (a *app) seed(flagVal string) (uint64, bool, error) {
	if flagVal == "" {
		return a.cfg.Seed, a.cfg.Seeded, nil
	}
	n, err := strconv.ParseUint(flagVal, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("bad -seed %q: %w", flagVal, err)
	}
	return n, true, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeJSON(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
