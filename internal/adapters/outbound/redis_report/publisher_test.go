package redis_report

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/charleschow/hockey-sim/internal/core/montecarlo"
)

func newPublisher(t *testing.T, ttl time.Duration) (*Publisher, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewPublisher(rdb, ttl), mr
}

func report(avg float64) *montecarlo.Report {
	return &montecarlo.Report{
		Runs: 100,
		Teams: map[string]montecarlo.TeamSummary{
			"Boston Bruins": {Avg: avg, PlayoffPct: 55.5, StreakProbs: map[string]float64{"win_3+": 80}},
		},
	}
}

func TestExport_LatestAndBatch(t *testing.T) {
	p, mr := newPublisher(t, time.Hour)
	ctx := context.Background()

	if got, err := p.Latest(ctx); err != nil || got != nil {
		t.Fatalf("Latest on empty cache = %v, %v; want nil, nil", got, err)
	}

	if err := p.Export(ctx, "b1", report(90)); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if err := p.Export(ctx, "b2", report(95)); err != nil {
		t.Fatalf("Export: %v", err)
	}

	latest, err := p.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.BatchID != "b2" || latest.Report.Teams["Boston Bruins"].Avg != 95 {
		t.Errorf("Latest = %+v", latest)
	}

	first, err := p.Batch(ctx, "b1")
	if err != nil || first == nil || first.Report.Teams["Boston Bruins"].Avg != 90 {
		t.Errorf("Batch(b1) = %+v, %v", first, err)
	}

	if ttl := mr.TTL(BatchKey("b1")); ttl != time.Hour {
		t.Errorf("TTL = %v; want 1h", ttl)
	}

	recent, err := p.Recent(ctx)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0] != "b2" {
		t.Errorf("Recent = %v; want [b2 b1]", recent)
	}
}

func TestExport_Expires(t *testing.T) {
	p, mr := newPublisher(t, time.Minute)
	ctx := context.Background()
	if err := p.Export(ctx, "b1", report(90)); err != nil {
		t.Fatalf("Export: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if got, err := p.Batch(ctx, "b1"); err != nil || got != nil {
		t.Errorf("Batch after expiry = %v, %v; want nil, nil", got, err)
	}
}

func TestExport_ServerDown(t *testing.T) {
	p, mr := newPublisher(t, 0)
	mr.Close()
	if err := p.Export(context.Background(), "b1", report(1)); err == nil {
		t.Error("expected error with redis down")
	}
}
