package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/charleschow/hockey-sim/internal/core/montecarlo"
	"github.com/charleschow/hockey-sim/internal/telemetry"
)

type Notifier struct {
	webhookURL string
	httpClient *http.Client
}

func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *Notifier) Enabled() bool { return n.webhookURL != "" }

type Embed struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
}

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type webhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

func (n *Notifier) SendText(ctx context.Context, msg string) error {
	return n.send(ctx, webhookPayload{Content: msg})
}

func (n *Notifier) SendEmbed(ctx context.Context, embed Embed) error {
	if embed.Timestamp == "" {
		embed.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	return n.send(ctx, webhookPayload{Embeds: []Embed{embed}})
}

func (n *Notifier) send(ctx context.Context, payload webhookPayload) error {
	if !n.Enabled() {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		telemetry.Warnf("discord: rate limited")
		return fmt.Errorf("discord rate limited")
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook: status=%d", resp.StatusCode)
	}

	return nil
}

// --- Forecast summaries ---

const (
	ColorGreen  = 0x2ECC71
	ColorRed    = 0xE74C3C
	ColorYellow = 0xF1C40F
	ColorBlue   = 0x3498DB
)

const forecastLeaders = 10

func (n *Notifier) Name() string { return "discord" }

// Export posts the playoff-odds leaders of a finished batch.
func (n *Notifier) Export(ctx context.Context, batchID string, rep *montecarlo.Report) error {
	return n.SendEmbed(ctx, ForecastEmbed(batchID, rep))
}

func ForecastEmbed(batchID string, rep *montecarlo.Report) Embed {
	ranked := rep.Ranked()
	if len(ranked) > forecastLeaders {
		ranked = ranked[:forecastLeaders]
	}
	fields := make([]Field, 0, len(ranked))
	for i, r := range ranked {
		fields = append(fields, Field{
			Name:   fmt.Sprintf("%d. %s", i+1, r.Team),
			Value:  fmt.Sprintf("%.1f pts (p25 %.0f, p75 %.0f)  |  playoffs %.1f%%", r.Avg, r.P25, r.P75, r.PlayoffPct),
			Inline: false,
		})
	}
	seed := "random seed"
	if rep.Seeded {
		seed = fmt.Sprintf("seed %d", rep.Seed)
	}
	return Embed{
		Title:       "Season Forecast",
		Description: fmt.Sprintf("%s simulated seasons, %s, batch %s", humanize.Comma(int64(rep.Runs)), seed, batchID),
		Color:       ColorBlue,
		Fields:      fields,
	}
}

// MatchupAlert posts a head-to-head summary.
func (n *Notifier) MatchupAlert(ctx context.Context, rep *montecarlo.MatchupReport) error {
	color := ColorYellow
	if rep.Team1Wins >= 60 || rep.Team2Wins >= 60 {
		color = ColorGreen
	}
	return n.SendEmbed(ctx, Embed{
		Title:       fmt.Sprintf("%s vs %s", rep.Team1, rep.Team2),
		Description: fmt.Sprintf("%s games", humanize.Comma(int64(rep.Runs))),
		Color:       color,
		Fields: []Field{
			{Name: rep.Team1, Value: fmt.Sprintf("%.1f%% (%.2f)", rep.Team1Wins, rep.Team1Odds.Decimal), Inline: true},
			{Name: rep.Team2, Value: fmt.Sprintf("%.1f%% (%.2f)", rep.Team2Wins, rep.Team2Odds.Decimal), Inline: true},
			{Name: "OT", Value: fmt.Sprintf("%.1f%%", rep.CloseGames.OTPct), Inline: true},
		},
	})
}
