// Package montecarlo replays a season many times and reduces the runs to
// point distributions, streak odds and playoff frequencies.
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/charleschow/hockey-sim/internal/core/schedule"
	"github.com/charleschow/hockey-sim/internal/core/season"
	"github.com/charleschow/hockey-sim/internal/core/sim"
)

var ErrNoRuns = errors.New("monte carlo: run count must be positive")

type Config struct {
	Runs    int
	Seed    uint64
	Seeded  bool
	Workers int

	WinThresholds  []int
	LossThresholds []int
	OTThresholds   []int
	PlayoffSpots   int

	// Progress is called once per finished run, never concurrently.
	Progress func(Progress)
}

func DefaultConfig() Config {
	return Config{
		Runs:           500,
		WinThresholds:  []int{3, 5, 7},
		LossThresholds: []int{3, 5},
		OTThresholds:   []int{2, 3, 4},
		PlayoffSpots:   8,
	}
}

type Progress struct {
	Run     int
	Done    int
	Total   int
	Elapsed time.Duration
}

// Runner is safe for concurrent use.
type Runner struct {
	driver *season.Driver
	cfg    Config
}

func NewRunner(d *season.Driver, cfg Config) *Runner {
	def := DefaultConfig()
	if cfg.WinThresholds == nil {
		cfg.WinThresholds = def.WinThresholds
	}
	if cfg.LossThresholds == nil {
		cfg.LossThresholds = def.LossThresholds
	}
	if cfg.OTThresholds == nil {
		cfg.OTThresholds = def.OTThresholds
	}
	if cfg.PlayoffSpots <= 0 {
		cfg.PlayoffSpots = def.PlayoffSpots
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{driver: d, cfg: cfg}
}

func (r *Runner) Config() Config { return r.cfg }

// runOutcome is what one season contributes to the aggregate. Slices are
// indexed like Runner.teams.
type runOutcome struct {
	points  []int
	maxW    []int
	maxL    []int
	maxOT   []int
	playoff []bool
}

// Run executes cfg.Runs independent seasons. Results are stored by run
// index, so a seeded batch is identical for any worker count.
func (r *Runner) Run(ctx context.Context, sched *schedule.Schedule) (*Report, error) {
	cfg := r.cfg
	if cfg.Runs <= 0 {
		return nil, ErrNoRuns
	}
	base := cfg.Seed
	if !cfg.Seeded {
		base = rand.Uint64()
	}
	teams := r.teams(sched)
	index := make(map[string]int, len(teams))
	for i, t := range teams {
		index[t] = i
	}

	start := time.Now()
	runs := make([]runOutcome, cfg.Runs)
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := 0; i < cfg.Runs; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := r.driver.Run(gctx, sched, sim.NewRNG(sim.DeriveSeed(base, i)), season.Options{})
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			runs[i] = collect(res, teams, index, cfg.PlayoffSpots)
			if cfg.Progress != nil {
				mu.Lock()
				done++
				cfg.Progress(Progress{Run: i, Done: done, Total: cfg.Runs, Elapsed: time.Since(start)})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := aggregate(runs, teams, cfg)
	rep.Seed = base
	rep.Seeded = cfg.Seeded
	rep.Elapsed = time.Since(start)
	return rep, nil
}

// teams is every league team plus any unknown schedule team, sorted.
func (r *Runner) teams(sched *schedule.Schedule) []string {
	lg := r.driver.Simulator().League()
	seen := make(map[string]struct{}, lg.Len())
	for _, name := range lg.Names() {
		seen[name] = struct{}{}
	}
	for _, name := range sched.Teams() {
		seen[lg.Team(name).Name] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collect(res *season.Result, teams []string, index map[string]int, spots int) runOutcome {
	n := len(teams)
	ro := runOutcome{
		points:  make([]int, n),
		maxW:    make([]int, n),
		maxL:    make([]int, n),
		maxOT:   make([]int, n),
		playoff: make([]bool, n),
	}
	for name, ts := range res.Teams {
		i, ok := index[name]
		if !ok {
			continue
		}
		ro.points[i] = ts.Record.PTS
		ro.maxW[i] = ts.Streaks.MaxW
		ro.maxL[i] = ts.Streaks.MaxL
		ro.maxOT[i] = ts.Streaks.MaxOT
	}
	table := res.Standings()
	for k := 0; k < len(table) && k < spots; k++ {
		if i, ok := index[table[k].Team]; ok {
			ro.playoff[i] = true
		}
	}
	return ro
}
