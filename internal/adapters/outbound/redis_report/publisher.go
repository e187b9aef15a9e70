// Package redis_report caches finished forecasts in Redis so dashboards
// and other processes can read the latest batch without the results DB.
package redis_report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/charleschow/hockey-sim/internal/core/montecarlo"
)

const (
	LatestKey    = "hockeysim:report:latest"
	BatchPrefix  = "hockeysim:report:"
	RecentKey    = "hockeysim:reports:recent"
	recentLength = 50
)

// Snapshot is the cached value.
type Snapshot struct {
	BatchID     string             `json:"batch_id"`
	PublishedAt time.Time          `json:"published_at"`
	Report      *montecarlo.Report `json:"report"`
}

type Publisher struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewPublisher keeps entries for ttl; zero means no expiry.
func NewPublisher(client *redis.Client, ttl time.Duration) *Publisher {
	return &Publisher{client: client, ttl: ttl, now: time.Now}
}

func BatchKey(batchID string) string { return BatchPrefix + batchID }

func (p *Publisher) Name() string { return "redis" }

// Export writes the snapshot under the batch key and the latest key, and
// records the id in the recent list, in one transaction.
func (p *Publisher) Export(ctx context.Context, batchID string, rep *montecarlo.Report) error {
	data, err := json.Marshal(Snapshot{BatchID: batchID, PublishedAt: p.now().UTC(), Report: rep})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, BatchKey(batchID), data, p.ttl)
		pipe.Set(ctx, LatestKey, data, p.ttl)
		pipe.LPush(ctx, RecentKey, batchID)
		pipe.LTrim(ctx, RecentKey, 0, recentLength-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish batch %s: %w", batchID, err)
	}
	return nil
}

// Latest returns the most recent snapshot or nil if none is cached.
func (p *Publisher) Latest(ctx context.Context) (*Snapshot, error) {
	return p.read(ctx, LatestKey)
}

// Batch returns a cached snapshot by id or nil if it expired.
func (p *Publisher) Batch(ctx context.Context, batchID string) (*Snapshot, error) {
	return p.read(ctx, BatchKey(batchID))
}

// Recent lists cached batch ids, newest first. Ids may outlive their
// snapshots when a TTL is set.
func (p *Publisher) Recent(ctx context.Context) ([]string, error) {
	return p.client.LRange(ctx, RecentKey, 0, -1).Result()
}

func (p *Publisher) read(ctx context.Context, key string) (*Snapshot, error) {
	b, err := p.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return &s, nil
}
