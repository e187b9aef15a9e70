// Package sqlite_results persists Monte Carlo batches so they can be
// compared and inspected after the process exits.
package sqlite_results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/charleschow/hockey-sim/internal/core/montecarlo"
	"github.com/charleschow/hockey-sim/internal/telemetry"

	_ "modernc.org/sqlite"
)

// DefaultMaxBatches caps retained batches; the oldest are evicted first.
const DefaultMaxBatches = 200

// timeLayout has fixed-width fractions so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var ErrNotFound = errors.New("batch not found")

// BatchInfo is the header row of a stored batch.
type BatchInfo struct {
	ID        string
	CreatedAt time.Time
	Runs      int
	Seed      uint64
	Seeded    bool
	Elapsed   time.Duration
	Teams     int
}

type Store struct {
	db         *sql.DB
	mu         sync.Mutex
	maxBatches int
	now        func() time.Time
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS batches (
			id          TEXT    PRIMARY KEY,
			created_at  TEXT    NOT NULL,
			runs        INTEGER NOT NULL,
			seed        TEXT    NOT NULL,
			seeded      INTEGER NOT NULL DEFAULT 0,
			elapsed_ms  INTEGER NOT NULL DEFAULT 0,
			teams       INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS team_summaries (
			batch_id      TEXT    NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
			team          TEXT    NOT NULL,
			avg           REAL,
			median        REAL,
			p25           REAL,
			p75           REAL,
			std           REAL,
			playoff_pct   REAL,
			playoff_count INTEGER,
			streak_probs  TEXT,
			PRIMARY KEY (batch_id, team)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_batches_created ON batches(created_at)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema (%s): %w", stmt, err)
		}
	}

	var count int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM batches`).Scan(&count); err != nil {
		db.Close()
		return nil, fmt.Errorf("read batch count: %w", err)
	}
	telemetry.Debugf("results store: opened %s  batches=%d", path, count)

	return &Store{db: db, maxBatches: DefaultMaxBatches, now: time.Now}, nil
}

func (s *Store) Name() string { return "sqlite" }

// Export writes the batch header and one row per team in a single
// transaction, then evicts batches beyond the retention cap.
func (s *Store) Export(ctx context.Context, batchID string, rep *montecarlo.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO batches (id, created_at, runs, seed, seeded, elapsed_ms, teams) VALUES (?,?,?,?,?,?,?)`,
		batchID,
		s.now().UTC().Format(timeLayout),
		rep.Runs,
		strconv.FormatUint(rep.Seed, 10),
		boolToInt(rep.Seeded),
		rep.Elapsed.Milliseconds(),
		len(rep.Teams),
	)
	if err != nil {
		return fmt.Errorf("insert batch %s: %w", batchID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO team_summaries (
			batch_id, team, avg, median, p25, p75, std, playoff_pct, playoff_count, streak_probs
		) VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare team insert: %w", err)
	}
	defer stmt.Close()

	for team, t := range rep.Teams {
		probs, err := json.Marshal(t.StreakProbs)
		if err != nil {
			return fmt.Errorf("marshal streak probs for %s: %w", team, err)
		}
		if _, err := stmt.ExecContext(ctx, batchID, team, t.Avg, t.Median, t.P25, t.P75, t.Std,
			t.PlayoffPct, t.PlayoffCount, string(probs)); err != nil {
			return fmt.Errorf("insert %s: %w", team, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch %s: %w", batchID, err)
	}
	s.evict(ctx)
	return nil
}

// ListBatches returns the newest batches first.
func (s *Store) ListBatches(ctx context.Context, limit int) ([]BatchInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, runs, seed, seeded, elapsed_ms, teams
		FROM batches ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var out []BatchInfo
	for rows.Next() {
		info, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// ReadBatch loads a stored batch back into a report.
func (s *Store) ReadBatch(ctx context.Context, batchID string) (*montecarlo.Report, BatchInfo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, runs, seed, seeded, elapsed_ms, teams FROM batches WHERE id = ?`, batchID)
	info, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, BatchInfo{}, fmt.Errorf("%w: %s", ErrNotFound, batchID)
	}
	if err != nil {
		return nil, BatchInfo{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT team, avg, median, p25, p75, std, playoff_pct, playoff_count, streak_probs
		FROM team_summaries WHERE batch_id = ?`, batchID)
	if err != nil {
		return nil, info, fmt.Errorf("read teams: %w", err)
	}
	defer rows.Close()

	rep := &montecarlo.Report{
		Runs:    info.Runs,
		Seed:    info.Seed,
		Seeded:  info.Seeded,
		Elapsed: info.Elapsed,
		Teams:   make(map[string]montecarlo.TeamSummary, info.Teams),
	}
	for rows.Next() {
		var (
			team  string
			probs string
			t     montecarlo.TeamSummary
		)
		if err := rows.Scan(&team, &t.Avg, &t.Median, &t.P25, &t.P75, &t.Std, &t.PlayoffPct, &t.PlayoffCount, &probs); err != nil {
			return nil, info, fmt.Errorf("scan team: %w", err)
		}
		if err := json.Unmarshal([]byte(probs), &t.StreakProbs); err != nil {
			return nil, info, fmt.Errorf("decode streak probs for %s: %w", team, err)
		}
		rep.Teams[team] = t
	}
	return rep, info, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBatch(sc scanner) (BatchInfo, error) {
	var (
		info      BatchInfo
		created   string
		seed      string
		seeded    int
		elapsedMS int64
	)
	if err := sc.Scan(&info.ID, &created, &info.Runs, &seed, &seeded, &elapsedMS, &info.Teams); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return info, err
		}
		return info, fmt.Errorf("scan batch: %w", err)
	}
	var err error
	if info.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return info, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	if info.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return info, fmt.Errorf("parse seed %q: %w", seed, err)
	}
	info.Seeded = seeded != 0
	info.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	return info, nil
}

func (s *Store) evict(ctx context.Context) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM batches WHERE id NOT IN (
			SELECT id FROM batches ORDER BY created_at DESC, id DESC LIMIT ?
		)`, s.maxBatches,
	)
	if err != nil {
		telemetry.Warnf("results store evict: %v", err)
		return
	}
	if deleted, _ := res.RowsAffected(); deleted > 0 {
		telemetry.Infof("results store: evicted %d old batches", deleted)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
