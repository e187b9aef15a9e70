// Command inspect_results lists stored forecast batches and prints one in
// full, from the results database or the Redis cache.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/redis/go-redis/v9"

	"github.com/charleschow/hockey-sim/internal/adapters/outbound/redis_report"
	"github.com/charleschow/hockey-sim/internal/adapters/outbound/sqlite_results"
	"github.com/charleschow/hockey-sim/internal/config"
	"github.com/charleschow/hockey-sim/internal/core/display"
	"github.com/charleschow/hockey-sim/internal/core/montecarlo"
)

func main() {
	cfg := config.Load()
	dbPath := flag.String("db", cfg.ResultsDBPath, "path to the results database")
	n := flag.Int("n", 10, "number of recent batches to list")
	batch := flag.String("batch", "", "print this batch in full")
	team := flag.String("team", "", "only show teams containing this text (case-insensitive)")
	fromRedis := flag.Bool("redis", false, "read the latest batch from REDIS_ADDR instead of the database")
	asJSON := flag.Bool("json", false, "print the batch as JSON")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *fromRedis {
		if cfg.RedisAddr == "" {
			fail("REDIS_ADDR is not set")
		}
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		snap, err := redis_report.NewPublisher(rdb, 0).Latest(ctx)
		if err != nil {
			fail("redis: %v", err)
		}
		if snap == nil {
			fmt.Println("(no cached report)")
			return
		}
		fmt.Printf("=== Batch %s (cached %s) ===\n", snap.BatchID, humanize.Time(snap.PublishedAt))
		printReport(snap.Report, *team, *asJSON)
		return
	}

	store, err := sqlite_results.Open(*dbPath)
	if err != nil {
		fail("open %s: %v", *dbPath, err)
	}
	defer store.Close()

	if *batch != "" {
		rep, info, err := store.ReadBatch(ctx, *batch)
		if err != nil {
			fail("%v", err)
		}
		fmt.Printf("=== Batch %s (%s) ===\n", info.ID, humanize.Time(info.CreatedAt))
		printReport(rep, *team, *asJSON)
		return
	}

	list, err := store.ListBatches(ctx, *n)
	if err != nil {
		fail("%v", err)
	}
	if len(list) == 0 {
		fmt.Println("(no data)")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\tcreated\truns\tseed\tteams\telapsed")
	fmt.Fprintln(w, strings.Repeat("----\t", 6))
	for _, b := range list {
		seed := "random"
		if b.Seeded {
			seed = fmt.Sprintf("%d", b.Seed)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			b.ID, humanize.Time(b.CreatedAt), humanize.Comma(int64(b.Runs)), seed, b.Teams, b.Elapsed)
	}
	w.Flush()
}

func printReport(rep *montecarlo.Report, team string, asJSON bool) {
	if team != "" {
		filtered := make(map[string]montecarlo.TeamSummary)
		for name, s := range rep.Teams {
			if strings.Contains(strings.ToLower(name), strings.ToLower(team)) {
				filtered[name] = s
			}
		}
		rep.Teams = filtered
	}
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			fail("encode: %v", err)
		}
		return
	}
	display.PrintForecast(os.Stdout, rep, display.StreakKeys(montecarlo.DefaultConfig()))
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
