package sqlite_results

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/charleschow/hockey-sim/internal/core/montecarlo"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "results.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleReport(seed uint64) *montecarlo.Report {
	return &montecarlo.Report{
		Runs:    250,
		Seed:    seed,
		Seeded:  true,
		Elapsed: 1500 * time.Millisecond,
		Teams: map[string]montecarlo.TeamSummary{
			"Boston Bruins": {
				Avg: 98.4, Median: 98, P25: 92.5, P75: 104, Std: 8.21,
				PlayoffPct: 71.2, PlayoffCount: 178,
				StreakProbs: map[string]float64{"win_3+": 94.4, "loss_5+": 12},
			},
			"Quebec Nordiques": {
				Avg: 70.1, Median: 70, P25: 65, P75: 75, Std: 6.5,
				StreakProbs: map[string]float64{"win_3+": 40},
			},
		},
	}
}

func TestExportAndRead(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	// seeds above MaxInt64 must survive storage
	in := sampleReport(1<<63 + 5)
	if err := s.Export(ctx, "batch-a", in); err != nil {
		t.Fatalf("Export: %v", err)
	}

	got, info, err := s.ReadBatch(ctx, "batch-a")
	if err != nil {
		t.Fatalf("ReadBatch: %v", err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Errorf("ReadBatch = %+v; want %+v", got, in)
	}
	if info.Teams != 2 || info.Runs != 250 || !info.Seeded {
		t.Errorf("info = %+v", info)
	}
}

func TestReadBatch_NotFound(t *testing.T) {
	s := openTemp(t)
	if _, _, err := s.ReadBatch(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v; want ErrNotFound", err)
	}
}

func TestListBatches_NewestFirstAndEviction(t *testing.T) {
	s := openTemp(t)
	s.maxBatches = 2
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	for i, id := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Minute)
		s.now = func() time.Time { return at }
		if err := s.Export(ctx, id, sampleReport(uint64(i))); err != nil {
			t.Fatalf("Export %s: %v", id, err)
		}
	}

	list, err := s.ListBatches(ctx, 10)
	if err != nil {
		t.Fatalf("ListBatches: %v", err)
	}
	if len(list) != 2 || list[0].ID != "third" || list[1].ID != "second" {
		t.Fatalf("ListBatches = %+v; want third, second", list)
	}
	if _, _, err := s.ReadBatch(ctx, "first"); !errors.Is(err, ErrNotFound) {
		t.Errorf("evicted batch still readable: %v", err)
	}

	var orphans int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM team_summaries WHERE batch_id = 'first'`).Scan(&orphans); err != nil {
		t.Fatalf("count: %v", err)
	}
	if orphans != 0 {
		t.Errorf("%d team rows left for evicted batch", orphans)
	}
}

func TestExport_DuplicateID(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	if err := s.Export(ctx, "dup", sampleReport(1)); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if err := s.Export(ctx, "dup", sampleReport(2)); err == nil {
		t.Error("expected error re-using a batch id")
	}
}
