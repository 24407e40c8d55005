package events

import (
	"context"
	"sync"
)

// Recorder keeps published events in memory so tests can assert on them.
// The running service never uses it: without NATS the board feed service is
// the publisher.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (r *Recorder) Publish(ctx context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types lists recorded event types in publish order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType())
	}
	return out
}
