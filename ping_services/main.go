// Ping the configured forecast outputs to measure round-trip latency.
//
// Checks the results database, the Redis report cache, the fanout
// WebSocket server and the Discord webhook, skipping any that are not
// configured.
//
// Usage:
//
//	go run ./ping_services                       # default: 20 requests
//	go run ./ping_services -n 50                 # 50 requests per endpoint
//	go run ./ping_services -fanout localhost:8090
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"gonum.org/v1/gonum/stat"

	"github.com/charleschow/hockey-sim/internal/adapters/outbound/sqlite_results"
	"github.com/charleschow/hockey-sim/internal/config"
)

const (
	httpTimeout = 10 * time.Second
	opTimeout   = 5 * time.Second
)

func main() {
	cfg := config.Load()

	n := flag.Int("n", 20, "Number of requests per endpoint")
	fanoutAddr := flag.String("fanout", defaultFanout(cfg), "fanout server host:port (empty skips)")
	flag.Parse()

	fmt.Printf("\nPinging forecast outputs (%d requests each)\n", *n)

	pingSQLite(cfg.ResultsDBPath, *n)
	if cfg.RedisAddr != "" {
		pingRedis(cfg.RedisAddr, *n)
	}
	if *fanoutAddr != "" {
		pingFanout(*fanoutAddr, *n)
	}
	if cfg.DiscordWebhookURL != "" {
		pingDiscord(cfg.DiscordWebhookURL, *n)
	}
	fmt.Println()
}

func defaultFanout(cfg *config.Config) string {
	if cfg.FanoutPort <= 0 {
		return ""
	}
	return fmt.Sprintf("localhost:%d", cfg.FanoutPort)
}

func section(title string) {
	fmt.Printf("\n%s\n", strings.Repeat("=", 55))
	fmt.Printf("  %s\n", title)
	fmt.Printf("%s\n", strings.Repeat("=", 55))
}

// sample runs op n times and prints one line per attempt.
func sample(n int, unit string, op func() error) []float64 {
	latencies := make([]float64, 0, n)
	pad := len(fmt.Sprintf("%d", n))
	for i := 1; i <= n; i++ {
		start := time.Now()
		if err := op(); err != nil {
			fmt.Printf("  [%*d/%d]  FAILED: %v\n", pad, i, n, err)
			continue
		}
		ms := float64(time.Since(start).Microseconds()) / 1000
		latencies = append(latencies, ms)
		fmt.Printf("  [%*d/%d]  %7.2f ms  (%s)\n", pad, i, n, ms, unit)
	}
	return latencies
}

func pingSQLite(path string, n int) {
	section("RESULTS DB: " + path)
	store, err := sqlite_results.Open(path)
	if err != nil {
		fmt.Printf("  [!] open failed: %v\n", err)
		return
	}
	defer store.Close()

	latencies := sample(n, "list batches", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		_, err := store.ListBatches(ctx, 1)
		return err
	})
	printStats(latencies, "SQLite")
}

func pingRedis(addr string, n int) {
	section("REDIS: " + addr)
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	latencies := sample(n, "PING", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return client.Ping(ctx).Err()
	})
	printStats(latencies, "Redis")
}

func pingFanout(addr string, n int) {
	section("FANOUT: " + addr)
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		fmt.Printf("  [!] WebSocket dial failed: %v\n", err)
		return
	}
	defer conn.Close()

	pongCh := make(chan struct{}, 1)
	conn.SetPongHandler(func(string) error {
		select {
		case pongCh <- struct{}{}:
		default:
		}
		return nil
	})
	// Control frames are only processed while a read is pending.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	latencies := sample(n, "WS ping/pong", func() error {
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(opTimeout)); err != nil {
			return err
		}
		select {
		case <-pongCh:
			return nil
		case <-time.After(opTimeout):
			return fmt.Errorf("pong timeout")
		}
	})
	printStats(latencies, "Fanout WebSocket")
}

// pingDiscord issues GETs against the webhook, which return its metadata
// without posting a message.
func pingDiscord(webhookURL string, n int) {
	section("DISCORD WEBHOOK")
	client := &http.Client{Timeout: httpTimeout}
	latencies := sample(n, "HTTP GET", func() error {
		resp, err := client.Get(webhookURL)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("HTTP %d", resp.StatusCode)
		}
		return nil
	})
	printStats(latencies, "Discord HTTP")
}

func printStats(latencies []float64, label string) {
	if len(latencies) < 2 {
		fmt.Printf("\n  Not enough %s samples for statistics.\n", label)
		return
	}
	sorted := append([]float64(nil), latencies...)
	sort.Float64s(sorted)
	mean, stdev := stat.MeanStdDev(sorted, nil)

	fmt.Printf("\n  --- %s Stats (%d requests) ---\n", label, len(sorted))
	fmt.Printf("  Min:    %7.2f ms\n", sorted[0])
	fmt.Printf("  Max:    %7.2f ms\n", sorted[len(sorted)-1])
	fmt.Printf("  Mean:   %7.2f ms\n", mean)
	fmt.Printf("  Median: %7.2f ms\n", stat.Quantile(0.5, stat.Empirical, sorted, nil))
	fmt.Printf("  Stdev:  %7.2f ms\n", stdev)
	fmt.Printf("  p95:    %7.2f ms\n", stat.Quantile(0.95, stat.Empirical, sorted, nil))
	fmt.Printf("  p99:    %7.2f ms\n", stat.Quantile(0.99, stat.Empirical, sorted, nil))
}
