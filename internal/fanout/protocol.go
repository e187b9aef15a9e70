package fanout

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charleschow/hockey-sim/internal/events"
)

// Envelope is the wire format for events sent over the fanout WebSocket.
type Envelope struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	BatchID   string          `json:"batch_id,omitempty"`
	Timestamp time.Time       `json:"ts"`
	Payload   json.RawMessage `json:"payload"`
}

// MarshalEvent serializes an Event into a JSON-encoded Envelope.
func MarshalEvent(evt events.Event) ([]byte, error) {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	env := Envelope{
		Type:      string(evt.Type),
		ID:        evt.ID,
		BatchID:   evt.BatchID,
		Timestamp: evt.Timestamp,
		Payload:   payload,
	}
	return json.Marshal(env)
}

// UnmarshalEvent deserializes a JSON Envelope back into a typed Event.
func UnmarshalEvent(data []byte) (events.Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return events.Event{}, fmt.Errorf("unmarshal envelope: %w", err)
	}

	evt := events.Event{
		ID:        env.ID,
		Type:      events.EventType(env.Type),
		BatchID:   env.BatchID,
		Timestamp: env.Timestamp,
	}

	switch evt.Type {
	case events.EventBatchStarted:
		var bs events.BatchStartedEvent
		if err := json.Unmarshal(env.Payload, &bs); err != nil {
			return evt, fmt.Errorf("unmarshal batch_started: %w", err)
		}
		evt.Payload = bs
	case events.EventSeasonComplete:
		var sc events.SeasonCompleteEvent
		if err := json.Unmarshal(env.Payload, &sc); err != nil {
			return evt, fmt.Errorf("unmarshal season_complete: %w", err)
		}
		evt.Payload = sc
	case events.EventBatchComplete:
		var bc events.BatchCompleteEvent
		if err := json.Unmarshal(env.Payload, &bc); err != nil {
			return evt, fmt.Errorf("unmarshal batch_complete: %w", err)
		}
		evt.Payload = bc
	case events.EventBatchFailed:
		var bf events.BatchFailedEvent
		if err := json.Unmarshal(env.Payload, &bf); err != nil {
			return evt, fmt.Errorf("unmarshal batch_failed: %w", err)
		}
		evt.Payload = bf
	default:
		return evt, fmt.Errorf("unknown event type: %s", env.Type)
	}

	return evt, nil
}
