// Command simwatch tails forecast progress from a running hockeysim
// fanout server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/charleschow/hockey-sim/internal/config"
	"github.com/charleschow/hockey-sim/internal/events"
	"github.com/charleschow/hockey-sim/internal/fanout"
	"github.com/charleschow/hockey-sim/internal/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	defaultAddr := ""
	if cfg.FanoutPort > 0 {
		defaultAddr = fmt.Sprintf("localhost:%d", cfg.FanoutPort)
	}
	addr := flag.String("addr", defaultAddr, "fanout host:port")
	batch := flag.String("batch", "", "follow one batch id (default: all)")
	once := flag.Bool("once", false, "exit after the first finished batch")
	flag.Parse()

	if *addr == "" {
		fmt.Fprintln(os.Stderr, "usage: simwatch -addr host:port [-batch id] [-once]  (or set FANOUT_PORT)")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus()
	bus.SubscribeAll(func(e events.Event) error {
		fmt.Println(describe(e))
		if *once && (e.Type == events.EventBatchComplete || e.Type == events.EventBatchFailed) {
			stop()
		}
		return nil
	})

	fanout.NewClient(*addr, *batch, bus).ConnectWithRetry(ctx)
}

func describe(e events.Event) string {
	ts := e.Timestamp.Local().Format("3:04:05 PM")
	switch p := e.Payload.(type) {
	case events.BatchStartedEvent:
		return fmt.Sprintf("[%s] %s started: %s seasons, %s games, %d workers",
			ts, e.BatchID, humanize.Comma(int64(p.Runs)), humanize.Comma(int64(p.Games)), p.Workers)
	case events.SeasonCompleteEvent:
		return fmt.Sprintf("[%s] %s %d/%d (%s)", ts, e.BatchID, p.Done, p.Total,
			time.Duration(p.ElapsedMS)*time.Millisecond)
	case events.BatchCompleteEvent:
		s := fmt.Sprintf("[%s] %s complete: %d teams in %s", ts, e.BatchID, p.Teams,
			time.Duration(p.ElapsedMS)*time.Millisecond)
		for i, l := range p.Leaders {
			s += fmt.Sprintf("\n    %d. %-24s %6.1f pts  %5.1f%% playoffs", i+1, l.Team, l.AvgPoints, l.PlayoffPct)
		}
		return s
	case events.BatchFailedEvent:
		return fmt.Sprintf("[%s] %s failed: %s", ts, e.BatchID, p.Error)
	}
	return fmt.Sprintf("[%s] %s %s", ts, e.BatchID, e.Type)
}
