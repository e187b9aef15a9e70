// Package process runs Monte Carlo batches on behalf of the command-line
// tools: it assigns batch ids, publishes progress on the event bus and
// hands finished reports to the configured exporters.
package process

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/charleschow/hockey-sim/internal/core/montecarlo"
	"github.com/charleschow/hockey-sim/internal/core/schedule"
	"github.com/charleschow/hockey-sim/internal/core/season"
	"github.com/charleschow/hockey-sim/internal/events"
	"github.com/charleschow/hockey-sim/internal/telemetry"
)

const leaderCount = 5

// Exporter receives every finished batch. Export failures are logged and
// counted but never fail the batch.
type Exporter interface {
	Name() string
	Export(ctx context.Context, batchID string, rep *montecarlo.Report) error
}

type Batch struct {
	ID        string
	CreatedAt time.Time
	Report    *montecarlo.Report
}

type Orchestrator struct {
	bus       *events.Bus
	driver    *season.Driver
	cfg       montecarlo.Config
	exporters []Exporter
	now       func() time.Time
	h2h       singleflight.Group
}

func New(bus *events.Bus, d *season.Driver, cfg montecarlo.Config, exporters ...Exporter) *Orchestrator {
	return &Orchestrator{bus: bus, driver: d, cfg: cfg, exporters: exporters, now: time.Now}
}

// RunBatch simulates the schedule cfg.Runs times and exports the report.
func (o *Orchestrator) RunBatch(ctx context.Context, sched *schedule.Schedule) (*Batch, error) {
	id := uuid.NewString()
	cfg := o.cfg

	var (
		mu   sync.Mutex
		last time.Duration
	)
	cfg.Progress = func(p montecarlo.Progress) {
		mu.Lock()
		telemetry.Metrics.SeasonLatency.Record(p.Elapsed - last)
		last = p.Elapsed
		mu.Unlock()
		telemetry.Metrics.SeasonsSimulated.Inc()
		o.publish(id, events.EventSeasonComplete, events.SeasonCompleteEvent{
			Run:       p.Run,
			Done:      p.Done,
			Total:     p.Total,
			ElapsedMS: p.Elapsed.Milliseconds(),
		})
	}
	runner := montecarlo.NewRunner(o.driver, cfg)

	o.publish(id, events.EventBatchStarted, events.BatchStartedEvent{
		Runs:    cfg.Runs,
		Seed:    cfg.Seed,
		Seeded:  cfg.Seeded,
		Workers: runner.Config().Workers,
		Games:   sched.Len(),
	})

	telemetry.Metrics.ActiveBatches.Inc()
	rep, err := runner.Run(ctx, sched)
	telemetry.Metrics.ActiveBatches.Dec()
	if err != nil {
		telemetry.Metrics.BatchErrors.Inc()
		o.publish(id, events.EventBatchFailed, events.BatchFailedEvent{Error: err.Error()})
		return nil, fmt.Errorf("batch %s: %w", id, err)
	}
	telemetry.Metrics.BatchesCompleted.Inc()

	b := &Batch{ID: id, CreatedAt: o.now().UTC(), Report: rep}
	o.publish(id, events.EventBatchComplete, completeEvent(rep))

	for _, e := range o.exporters {
		if err := e.Export(ctx, id, rep); err != nil {
			telemetry.Metrics.ExportErrors.Inc()
			telemetry.L().Warn("export failed", "batch", id, "sink", e.Name(), "err", err)
			continue
		}
		telemetry.Debugf("batch %s exported to %s", id, e.Name())
	}
	return b, nil
}

// HeadToHead runs an isolated matchup series with the orchestrator's driver.
// Identical requests in flight at the same time share one series, so the
// returned report must be treated as read-only.
func (o *Orchestrator) HeadToHead(ctx context.Context, team1, team2 string, cfg montecarlo.MatchupConfig) (*montecarlo.MatchupReport, error) {
	v, err, shared := o.h2h.Do(matchupKey(team1, team2, cfg), func() (any, error) {
		rep, err := montecarlo.NewRunner(o.driver, o.cfg).HeadToHead(ctx, team1, team2, cfg)
		if err != nil {
			return nil, err
		}
		telemetry.Metrics.H2HSeries.Inc()
		return rep, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		telemetry.Debugf("h2h %s vs %s: joined an identical series", team1, team2)
	}
	return v.(*montecarlo.MatchupReport), nil
}

func matchupKey(team1, team2 string, cfg montecarlo.MatchupConfig) string {
	return fmt.Sprintf("%s|%s|%d|%d|%s|%t|%d|%t", team1, team2, cfg.Runs, cfg.TopScorelines,
		cfg.Date.Format(time.DateOnly), cfg.NeutralIce, cfg.Seed, cfg.Seeded)
}

func (o *Orchestrator) publish(batchID string, typ events.EventType, payload any) {
	if o.bus == nil {
		return
	}
	o.bus.Publish(events.Event{
		ID:        uuid.NewString(),
		Type:      typ,
		BatchID:   batchID,
		Timestamp: o.now().UTC(),
		Payload:   payload,
	})
}

func completeEvent(rep *montecarlo.Report) events.BatchCompleteEvent {
	ranked := rep.Ranked()
	n := min(leaderCount, len(ranked))
	leaders := make([]events.PlayoffOdds, n)
	for i := 0; i < n; i++ {
		leaders[i] = events.PlayoffOdds{
			Team:       ranked[i].Team,
			AvgPoints:  ranked[i].Avg,
			PlayoffPct: ranked[i].PlayoffPct,
		}
	}
	return events.BatchCompleteEvent{
		Runs:      rep.Runs,
		Teams:     len(rep.Teams),
		ElapsedMS: rep.Elapsed.Milliseconds(),
		Leaders:   leaders,
	}
}
