package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charleschow/hockey-sim/internal/core/montecarlo"
)

func testReport() *montecarlo.Report {
	teams := map[string]montecarlo.TeamSummary{}
	for i, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"} {
		teams[name] = montecarlo.TeamSummary{Avg: float64(80 + i), PlayoffPct: float64(i * 8)}
	}
	return &montecarlo.Report{Runs: 2000, Seed: 3, Seeded: true, Teams: teams}
}

func TestForecastEmbed(t *testing.T) {
	e := ForecastEmbed("batch-1", testReport())
	if len(e.Fields) != forecastLeaders {
		t.Fatalf("fields = %d; want %d", len(e.Fields), forecastLeaders)
	}
	if e.Fields[0].Name != "1. L" {
		t.Errorf("first field = %q; want the top forecast", e.Fields[0].Name)
	}
	if !strings.Contains(e.Description, "2,000 simulated seasons, seed 3") {
		t.Errorf("description = %q", e.Description)
	}
}

func TestExport_PostsEmbed(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := NewNotifier(srv.URL).Export(context.Background(), "b1", testReport()); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(got.Embeds) != 1 || got.Embeds[0].Title != "Season Forecast" || got.Embeds[0].Timestamp == "" {
		t.Errorf("payload = %+v", got)
	}
}

func TestSend_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	if err := NewNotifier(srv.URL).SendText(context.Background(), "hi"); err == nil {
		t.Error("expected error on 429")
	}
	if err := NewNotifier("").SendText(context.Background(), "hi"); err != nil {
		t.Errorf("disabled notifier returned %v", err)
	}
}
