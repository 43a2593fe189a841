package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is anything published on the bus. MapID names the grid it came from.
type Event interface {
	ID() string
	Type() string
	Timestamp() time.Time
	MapID() string
}

// BaseEvent carries the fields shared by every map event
type BaseEvent struct {
	EventID   string    `json:"id"`
	EventType string    `json:"type"`
	Time      time.Time `json:"timestamp"`
	Map       string    `json:"map_id"`
}

func (e BaseEvent) ID() string { return e.EventID }
func (e BaseEvent) Type() string { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }
func (e BaseEvent) MapID() string { return e.Map }

func newBase(eventType, mapID string) BaseEvent {
	return BaseEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Time:      time.Now(),
		Map:       mapID,
	}
}

// EventHandler is a function that processes events
type EventHandler func(Event)

// Subscriber receives the events it is interested in
type Subscriber interface {
	ID() string
	HandleEvent(Event)
	InterestedIn(eventType string) bool
}

// Publisher is the publishing half of the bus, for components that only emit
type Publisher interface {
	Publish(Event)
}
