package events

import "time"

// Event is the envelope that flows through the event bus.
// Every simulation event (batch start, finished season, batch summary) is wrapped in one.
type Event struct {
	ID        string
	Type      EventType
	BatchID   string
	Timestamp time.Time
	Payload   any
}

type EventType string

const (
	EventBatchStarted   EventType = "batch_started"
	EventSeasonComplete EventType = "season_complete"
	EventBatchComplete  EventType = "batch_complete"
	EventBatchFailed    EventType = "batch_failed"
)
