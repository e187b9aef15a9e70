package process

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/charleschow/hockey-sim/internal/core/league"
	"github.com/charleschow/hockey-sim/internal/core/montecarlo"
	"github.com/charleschow/hockey-sim/internal/core/schedule"
	"github.com/charleschow/hockey-sim/internal/core/season"
	"github.com/charleschow/hockey-sim/internal/core/sim"
	"github.com/charleschow/hockey-sim/internal/events"
	"github.com/charleschow/hockey-sim/internal/telemetry"
)

type recordingExporter struct {
	name string
	err  error
	ids  []string
}

func (r *recordingExporter) Name() string { return r.name }

func (r *recordingExporter) Export(_ context.Context, id string, _ *montecarlo.Report) error {
	r.ids = append(r.ids, id)
	return r.err
}

func smallSchedule(lg *league.League) *schedule.Schedule {
	names := lg.Names()[:4]
	date := time.Date(2025, 10, 7, 0, 0, 0, 0, time.UTC)
	var games []schedule.Game
	for i := range names {
		for j := range names {
			if i != j {
				games = append(games, schedule.Game{Date: date, Home: names[i], Away: names[j]})
				date = date.AddDate(0, 0, 1)
			}
		}
	}
	return schedule.New(games)
}

func orchestrator(bus *events.Bus, runs int, exporters ...Exporter) (*Orchestrator, *schedule.Schedule) {
	lg := league.MustDefault()
	cfg := montecarlo.DefaultConfig()
	cfg.Runs = runs
	cfg.Seed = 77
	cfg.Seeded = true
	cfg.Workers = 2
	return New(bus, season.NewDriver(sim.New(lg)), cfg, exporters...), smallSchedule(lg)
}

func TestRunBatch_EventsAndExports(t *testing.T) {
	bus := events.NewBus()
	var seen []events.Event
	bus.SubscribeAll(func(e events.Event) error { seen = append(seen, e); return nil })

	good := &recordingExporter{name: "good"}
	bad := &recordingExporter{name: "bad", err: errors.New("sink down")}
	o, sched := orchestrator(bus, 6, bad, good)

	before := telemetry.Metrics.ExportErrors.Value()
	b, err := o.RunBatch(context.Background(), sched)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if b.Report.Runs != 6 {
		t.Errorf("Runs = %d; want 6", b.Report.Runs)
	}
	if len(good.ids) != 1 || good.ids[0] != b.ID || len(bad.ids) != 1 {
		t.Errorf("exports good=%v bad=%v; want one call each for %s", good.ids, bad.ids, b.ID)
	}
	if got := telemetry.Metrics.ExportErrors.Value() - before; got != 1 {
		t.Errorf("export errors counted = %d; want 1", got)
	}

	if len(seen) != 8 {
		t.Fatalf("published %d events; want start + 6 seasons + complete", len(seen))
	}
	if seen[0].Type != events.EventBatchStarted || seen[len(seen)-1].Type != events.EventBatchComplete {
		t.Errorf("first/last events = %s/%s", seen[0].Type, seen[len(seen)-1].Type)
	}
	for _, e := range seen {
		if e.BatchID != b.ID {
			t.Errorf("event %s carries batch %q; want %q", e.Type, e.BatchID, b.ID)
		}
	}
	done := seen[len(seen)-1].Payload.(events.BatchCompleteEvent)
	if len(done.Leaders) != leaderCount {
		t.Errorf("leaders = %d; want %d", len(done.Leaders), leaderCount)
	}
}

func TestRunBatch_Canceled(t *testing.T) {
	bus := events.NewBus()
	var failed int
	bus.Subscribe(events.EventBatchFailed, func(events.Event) error { failed++; return nil })
	exp := &recordingExporter{name: "sink"}
	o, sched := orchestrator(bus, 20, exp)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := o.RunBatch(ctx, sched); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v; want context.Canceled", err)
	}
	if failed != 1 {
		t.Errorf("batch_failed published %d times; want 1", failed)
	}
	if len(exp.ids) != 0 {
		t.Error("exporter called for a failed batch")
	}
}

func TestProgressLogger_Throttles(t *testing.T) {
	var buf bytes.Buffer
	telemetry.InitWriter(&buf, slog.LevelInfo)
	defer telemetry.Init(slog.LevelInfo)

	bus := events.NewBus()
	NewProgressLogger(bus, 0.001)
	for i := 1; i <= 10; i++ {
		bus.Publish(events.Event{
			Type:    events.EventSeasonComplete,
			BatchID: "0123456789",
			Payload: events.SeasonCompleteEvent{Done: i, Total: 10},
		})
	}
	lines := strings.Count(buf.String(), "seasons (")
	if lines != 2 {
		t.Errorf("logged %d progress lines; want first and last only:\n%s", lines, buf.String())
	}
	if !strings.Contains(buf.String(), "batch 01234567: 10/10 seasons (100%)") {
		t.Errorf("missing final line:\n%s", buf.String())
	}
}

func TestHeadToHead_CountsSeries(t *testing.T) {
	o, _ := orchestrator(nil, 1)
	cfg := montecarlo.MatchupConfig{Runs: 50, Seed: 3, Seeded: true}

	before := telemetry.Metrics.H2HSeries.Value()
	a, err := o.HeadToHead(context.Background(), "Boston Bruins", "Ottawa Senators", cfg)
	if err != nil {
		t.Fatalf("HeadToHead: %v", err)
	}
	b, err := o.HeadToHead(context.Background(), "Boston Bruins", "Ottawa Senators", cfg)
	if err != nil {
		t.Fatalf("HeadToHead: %v", err)
	}
	if a.Team1Wins != b.Team1Wins || a.AvgMargin != b.AvgMargin {
		t.Errorf("seeded series differ: %+v vs %+v", a, b)
	}
	if got := telemetry.Metrics.H2HSeries.Value() - before; got != 2 {
		t.Errorf("series counted = %d; want 2", got)
	}
}

func TestMatchupKey(t *testing.T) {
	base := montecarlo.MatchupConfig{Runs: 10, Seed: 1, Seeded: true}
	other := base
	other.Seed = 2
	if matchupKey("A", "B", base) == matchupKey("A", "B", other) {
		t.Error("different seeds share a key")
	}
	if matchupKey("A", "B", base) == matchupKey("B", "A", base) {
		t.Error("home and away swapped share a key")
	}
}
