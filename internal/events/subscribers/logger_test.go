package subscribers

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mitchelldurbincs/HexTactics/internal/events"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLoggerSubscriber_LogsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	sub := NewLoggerSubscriber("log", logger, zerolog.InfoLevel)

	sub.HandleEvent(events.NewMapCreatedEvent("map-1", 20, 15))
	sub.HandleEvent(events.NewPathFoundEvent("map-1", "a", "b", 24, 30, 2))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, events.TypeMapCreated, lines[0]["event_type"])
	assert.Equal(t, "map-1", lines[0]["map_id"])
	assert.Equal(t, float64(20), lines[0]["width"])
	assert.Equal(t, float64(15), lines[0]["height"])

	assert.Equal(t, float64(30), lines[1]["cost"])
	assert.Equal(t, float64(2), lines[1]["turns"])
	assert.Equal(t, "Path event", lines[1]["message"])
	assert.Equal(t, "Map event", lines[0]["message"])
	assert.Equal(t, "EventLogger", lines[0]["component"])
}

func TestLoggerSubscriber_Filter(t *testing.T) {
	sub := NewLoggerSubscriber("log", zerolog.Nop(), zerolog.DebugLevel)
	assert.True(t, sub.InterestedIn(events.TypeUnitAdded))

	sub.SetEventFilter([]string{events.TypeMapSaved})
	assert.True(t, sub.InterestedIn(events.TypeMapSaved))
	assert.False(t, sub.InterestedIn(events.TypeUnitAdded))

	sub.SetEventFilter(nil)
	assert.True(t, sub.InterestedIn(events.TypeUnitAdded))
	assert.Equal(t, "log", sub.ID())
}

func TestLoggerSubscriber_DevMode(t *testing.T) {
	var buf bytes.Buffer
	sub := NewLoggerSubscriber("log", zerolog.New(&buf), zerolog.WarnLevel)
	sub.SetDevMode(true)

	sub.HandleEvent(events.NewUnitEvent(events.TypeUnitAdded, "m", "u-1", "enemy", "(1, -1, 0)"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "warn", lines[0]["level"])
	data, ok := lines[0]["event_data"].(map[string]interface{})
	require.True(t, ok, "dev mode embeds the event as JSON")
	assert.Equal(t, "u-1", data["UnitID"])
}

func TestLoggerSubscriber_MapFilter(t *testing.T) {
	var buf bytes.Buffer
	sub := NewLoggerSubscriber("log", zerolog.New(&buf), zerolog.InfoLevel)
	sub.SetMapFilter("keep")

	sub.HandleEvent(events.NewPathClearedEvent("drop"))
	sub.HandleEvent(events.NewPathClearedEvent("keep"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "keep", lines[0]["map_id"])
	assert.Equal(t, "Path event", lines[0]["message"])
}

func TestLoggerSubscriber_LevelOverrides(t *testing.T) {
	var buf bytes.Buffer
	sub := NewLoggerSubscriber("log", zerolog.New(&buf), zerolog.DebugLevel)
	sub.SetLevel(events.TypeUnitRemoved, zerolog.WarnLevel)

	sub.HandleEvent(events.NewPathNotFoundEvent("m", "a", "b", 24))
	sub.HandleEvent(events.NewUnitEvent(events.TypeUnitRemoved, "m", "u-1", "player", "(0, 0, 0)"))
	sub.HandleEvent(events.NewUnitEvent(events.TypeUnitAdded, "m", "u-2", "player", "(0, 0, 0)"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "info", lines[0]["level"])
	assert.NotContains(t, lines[0], "cost", "unreachable paths carry no cost")
	assert.Equal(t, "warn", lines[1]["level"])
	assert.Equal(t, "debug", lines[2]["level"])
	assert.Equal(t, "Unit event", lines[2]["message"])
}
