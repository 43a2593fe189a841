package subscribers

import (
	"encoding/json"

	"github.com/mitchelldurbincs/HexTactics/internal/events"
	"github.com/rs/zerolog"
)

// LoggerSubscriber writes map, path and unit events to a zerolog logger
type LoggerSubscriber struct {
	id        string
	logger    zerolog.Logger
	logLevel  zerolog.Level
	overrides map[string]zerolog.Level
	types     map[string]bool // nil logs every type
	mapID     string          // empty logs every map
	devMode   bool            // attach the full event as JSON
}

// NewLoggerSubscriber creates a subscriber logging at logLevel
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("component", "EventLogger").Logger(),
		logLevel: logLevel,
		overrides: map[string]zerolog.Level{
			events.TypePathNotFound: zerolog.InfoLevel,
		},
	}
}

func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter restricts logging to eventTypes; an empty list logs everything
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.types = nil
		return
	}

	ls.types = make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		ls.types[eventType] = true
	}
}

// SetMapFilter restricts logging to one map; empty logs every map
func (ls *LoggerSubscriber) SetMapFilter(mapID string) {
	ls.mapID = mapID
}

// SetLevel logs eventType at level instead of the default
func (ls *LoggerSubscriber) SetLevel(eventType string, level zerolog.Level) {
	ls.overrides[eventType] = level
}

func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	return ls.types == nil || ls.types[eventType]
}

func (ls *LoggerSubscriber) levelFor(eventType string) zerolog.Level {
	if level, ok := ls.overrides[eventType]; ok {
		return level
	}
	return ls.logLevel
}

// HandleEvent logs event with the fields of its concrete type
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	if ls.mapID != "" && event.MapID() != ls.mapID {
		return
	}

	logEvent := ls.logger.WithLevel(ls.levelFor(event.Type())).
		Str("event_type", event.Type()).
		Str("map_id", event.MapID()).
		Time("event_time", event.Timestamp())

	msg := "Map event"
	switch e := event.(type) {
	case *events.MapCreatedEvent:
		logEvent.Int("width", e.Width).Int("height", e.Height)
	case *events.MapLoadedEvent:
		logEvent.Str("name", e.Name).Int("version", e.Version).Int("units", e.Units)
	case *events.MapSavedEvent:
		logEvent.Str("name", e.Name).Str("path", e.Path).Int64("bytes", e.Bytes)
	case *events.PathEvent:
		msg = "Path event"
		logEvent.Str("from", e.From).Str("to", e.To).Int("speed", e.Speed)
		if e.Type() == events.TypePathFound {
			logEvent.Int("cost", e.Cost).Int("turns", e.Turns)
		}
	case *events.PathClearedEvent:
		msg = "Path event"
	case *events.UnitEvent:
		msg = "Unit event"
		logEvent.Str("unit_id", e.UnitID).Str("kind", e.Kind).Str("location", e.Location)
	}

	if ls.devMode {
		if data, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", data)
		}
	}

	logEvent.Msg(msg)
}
