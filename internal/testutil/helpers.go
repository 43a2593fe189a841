package testutil

import (
	"math/rand"
	"sync"

	"github.com/mitchelldurbincs/HexTactics/internal/events"
	"github.com/rs/zerolog"
)

// NewTestRNG creates a deterministic random number generator for tests
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// EventRecorder collects every event published on a bus
type EventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

// RecordEvents subscribes a new recorder to all events on bus
func RecordEvents(bus *events.EventBus) *EventRecorder {
	r := &EventRecorder{}
	bus.SubscribeFunc(events.AllEvents, func(e events.Event) {
		r.mu.Lock()
		r.events = append(r.events, e)
		r.mu.Unlock()
	})
	return r
}

// Types lists the recorded event types in publish order
func (r *EventRecorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type()
	}
	return types
}

// OfType returns the recorded events of eventType
func (r *EventRecorder) OfType(eventType string) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}
