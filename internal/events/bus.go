package events

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AllEvents subscribes a function handler to every event type
const AllEvents = "*"

type funcHandler struct {
	id        string
	eventType string
	handle    EventHandler
}

// EventBus delivers map events synchronously, in subscription order. Handlers
// run outside the bus lock, so they may publish or change subscriptions.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
	handlers    []funcHandler
	nextID      int
	logger      zerolog.Logger
}

// NewEventBus creates a new event bus instance
func NewEventBus() *EventBus {
	return &EventBus{
		logger: log.With().Str("component", "EventBus").Logger(),
	}
}

// Subscribe adds subscriber, replacing any subscriber with the same ID
func (eb *EventBus) Subscribe(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for i, s := range eb.subscribers {
		if s.ID() == subscriber.ID() {
			eb.subscribers[i] = subscriber
			return
		}
	}
	eb.subscribers = append(eb.subscribers, subscriber)
	eb.logger.Debug().
		Str("subscriber_id", subscriber.ID()).
		Msg("Subscriber added")
}

// SubscribeFunc registers handler for eventType, or for every event with
// AllEvents. The returned ID can be passed to Unsubscribe.
func (eb *EventBus) SubscribeFunc(eventType string, handler EventHandler) string {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextID++
	id := fmt.Sprintf("%s#%d", eventType, eb.nextID)
	eb.handlers = append(eb.handlers, funcHandler{id: id, eventType: eventType, handle: handler})
	eb.logger.Debug().
		Str("event_type", eventType).
		Str("handler_id", id).
		Msg("Function handler added")
	return id
}

// Unsubscribe removes the subscriber or function handler with id
func (eb *EventBus) Unsubscribe(id string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for i, s := range eb.subscribers {
		if s.ID() == id {
			eb.subscribers = append(eb.subscribers[:i:i], eb.subscribers[i+1:]...)
			eb.logger.Debug().Str("subscriber_id", id).Msg("Subscriber removed")
			return
		}
	}
	for i, h := range eb.handlers {
		if h.id == id {
			eb.handlers = append(eb.handlers[:i:i], eb.handlers[i+1:]...)
			eb.logger.Debug().Str("handler_id", id).Msg("Function handler removed")
			return
		}
	}
}

// Publish sends event to every interested subscriber and matching handler
func (eb *EventBus) Publish(event Event) {
	eventType := event.Type()

	eb.mu.RLock()
	subscribers := eb.subscribers
	handlers := eb.handlers
	eb.mu.RUnlock()

	eb.logger.Debug().
		Str("event_type", eventType).
		Str("map_id", event.MapID()).
		Msg("Publishing event")

	for _, subscriber := range subscribers {
		if subscriber.InterestedIn(eventType) {
			eb.deliver(subscriber.ID(), event, subscriber.HandleEvent)
		}
	}
	for _, h := range handlers {
		if h.eventType == eventType || h.eventType == AllEvents {
			eb.deliver(h.id, event, h.handle)
		}
	}
}

// deliver isolates a panicking handler so the rest still see the event
func (eb *EventBus) deliver(id string, event Event, handle EventHandler) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error().
				Str("handler_id", id).
				Str("event_type", event.Type()).
				Interface("panic", r).
				Msg("Handler panicked while handling event")
		}
	}()
	handle(event)
}

// SubscriberCount returns the number of subscribers
func (eb *EventBus) SubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// HandlerCount returns the number of function handlers registered for eventType
func (eb *EventBus) HandlerCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	n := 0
	for _, h := range eb.handlers {
		if h.eventType == eventType {
			n++
		}
	}
	return n
}
