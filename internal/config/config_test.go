package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SIM_RUNS", "")
	t.Setenv("SIM_SEED", "")
	cfg := Load()
	if cfg.Runs != 500 {
		t.Errorf("Runs = %d; want 500", cfg.Runs)
	}
	if cfg.Seeded {
		t.Error("Seeded = true with SIM_SEED unset")
	}
	if cfg.SchedulePath != "master_schedule.csv" {
		t.Errorf("SchedulePath = %q", cfg.SchedulePath)
	}
	if cfg.ReportTTL != 24*time.Hour {
		t.Errorf("ReportTTL = %v; want 24h", cfg.ReportTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SIM_RUNS", "25")
	t.Setenv("SIM_SEED", "42")
	t.Setenv("SIM_WORKERS", "notanumber")
	t.Setenv("PROGRESS_PER_SEC", "0.5")
	cfg := Load()
	if cfg.Runs != 25 {
		t.Errorf("Runs = %d; want 25", cfg.Runs)
	}
	if !cfg.Seeded || cfg.Seed != 42 {
		t.Errorf("Seed = %d (seeded %v); want 42", cfg.Seed, cfg.Seeded)
	}
	if cfg.Workers <= 0 {
		t.Errorf("Workers = %d; bad values should fall back", cfg.Workers)
	}
	if cfg.ProgressPerSec != 0.5 {
		t.Errorf("ProgressPerSec = %v; want 0.5", cfg.ProgressPerSec)
	}
}

func TestLoadLeague(t *testing.T) {
	lg, err := LoadLeague("")
	if err != nil || lg.Len() == 0 {
		t.Fatalf("LoadLeague(\"\") = %v, %v", lg, err)
	}

	path := filepath.Join(t.TempDir(), "league.yaml")
	doc := "teams:\n  Solo: {gf: 3, ga: 3, pp: 20, pk: 80, starter: {name: A, sv: 0.91}, backup: {name: B, sv: 0.9}}\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	lg, err = LoadLeague(path)
	if err != nil {
		t.Fatalf("LoadLeague: %v", err)
	}
	if lg.Len() != 1 {
		t.Errorf("Len() = %d; want 1", lg.Len())
	}

	if _, err := LoadLeague(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
