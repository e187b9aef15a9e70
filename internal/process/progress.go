package process

import (
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"

	"github.com/charleschow/hockey-sim/internal/events"
	"github.com/charleschow/hockey-sim/internal/telemetry"
)

// ProgressLogger writes batch progress to the log at most perSec times a
// second. Batch start, completion and failure are always logged.
type ProgressLogger struct {
	limiter *rate.Limiter
}

func NewProgressLogger(bus *events.Bus, perSec float64) *ProgressLogger {
	if perSec <= 0 {
		perSec = 1
	}
	pl := &ProgressLogger{limiter: rate.NewLimiter(rate.Limit(perSec), 1)}
	bus.SubscribeAll(pl.handle)
	return pl
}

func (pl *ProgressLogger) handle(e events.Event) error {
	switch p := e.Payload.(type) {
	case events.BatchStartedEvent:
		telemetry.Infof("batch %s: %s seasons x %s games on %d workers",
			short(e.BatchID), humanize.Comma(int64(p.Runs)), humanize.Comma(int64(p.Games)), p.Workers)
	case events.SeasonCompleteEvent:
		if p.Done < p.Total && !pl.limiter.Allow() {
			return nil
		}
		telemetry.Infof("batch %s: %s/%s seasons (%.0f%%) in %s",
			short(e.BatchID), humanize.Comma(int64(p.Done)), humanize.Comma(int64(p.Total)),
			float64(p.Done)/float64(p.Total)*100, time.Duration(p.ElapsedMS)*time.Millisecond)
	case events.BatchCompleteEvent:
		if len(p.Leaders) > 0 {
			top := p.Leaders[0]
			telemetry.Infof("batch %s: done, %d teams, leader %s %.1f pts (%.1f%% playoffs)",
				short(e.BatchID), p.Teams, top.Team, top.AvgPoints, top.PlayoffPct)
		}
	case events.BatchFailedEvent:
		telemetry.Errorf("batch %s: failed: %s", short(e.BatchID), p.Error)
	}
	return nil
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
