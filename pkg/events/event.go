package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	FeatureSubmitted     = "FEATURE_SUBMITTED"
	FeatureStatusChanged = "FEATURE_STATUS_CHANGED"
	VoteCast             = "VOTE_CAST"
	VoteRemoved          = "VOTE_REMOVED"
	CommentPosted        = "COMMENT_POSTED"
)

// Event defines the contract for all board events.
type Event interface {
	EventID() string
	// EventType returns the unique code for this event (e.g., "VOTE_CAST").
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

// Publisher sends events to the bus. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Id         string
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Id:         uuid.NewString(),
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() string                 { return e.Id }
func (e BaseEvent) EventType() string               { return e.Type }
func (e BaseEvent) Payload() map[string]interface{} { return e.Data }
func (e BaseEvent) Timestamp() time.Time            { return e.OccurredAt }

type envelope struct {
	Id         string                 `json:"id"`
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Encode renders the wire form carried on the bus.
func Encode(e Event) ([]byte, error) {
	return json.Marshal(envelope{
		Id:         e.EventID(),
		Type:       e.EventType(),
		Data:       e.Payload(),
		OccurredAt: e.Timestamp(),
	})
}

func Decode(raw []byte) (BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return BaseEvent{}, fmt.Errorf("decode event: %w", err)
	}
	if env.Type == "" {
		return BaseEvent{}, fmt.Errorf("decode event: missing type")
	}
	return BaseEvent{Id: env.Id, Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
}

// Int64 reads a numeric payload field. JSON decoding yields float64, local
// events carry int64.
func Int64(data map[string]interface{}, key string) (int64, bool) {
	switch v := data[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}
