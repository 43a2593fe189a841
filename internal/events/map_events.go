package events

// Event type constants
const (
	TypeMapCreated   = "map.created"
	TypeMapLoaded    = "map.loaded"
	TypeMapSaved     = "map.saved"
	TypePathFound    = "path.found"
	TypePathNotFound = "path.not_found"
	TypePathCleared  = "path.cleared"
	TypeUnitAdded    = "unit.added"
	TypeUnitRemoved  = "unit.removed"
	TypeUnitTraveled = "unit.traveled"
)

// MapCreatedEvent is published when a grid is rebuilt at a new size
type MapCreatedEvent struct {
	BaseEvent
	Width  int
	Height int
}

func NewMapCreatedEvent(mapID string, width, height int) *MapCreatedEvent {
	return &MapCreatedEvent{
		BaseEvent: newBase(TypeMapCreated, mapID),
		Width:     width,
		Height:    height,
	}
}

// MapLoadedEvent is published after a map file was applied to a grid
type MapLoadedEvent struct {
	BaseEvent
	Name    string
	Version int
	Units   int
}

func NewMapLoadedEvent(mapID, name string, version, units int) *MapLoadedEvent {
	return &MapLoadedEvent{
		BaseEvent: newBase(TypeMapLoaded, mapID),
		Name:      name,
		Version:   version,
		Units:     units,
	}
}

// MapSavedEvent is published after a grid was written to a map file
type MapSavedEvent struct {
	BaseEvent
	Name  string
	Path  string
	Bytes int64
}

func NewMapSavedEvent(mapID, name, path string, bytes int64) *MapSavedEvent {
	return &MapSavedEvent{
		BaseEvent: newBase(TypeMapSaved, mapID),
		Name:      name,
		Path:      path,
		Bytes:     bytes,
	}
}

// PathEvent reports the outcome of a path search. Cost and Turns are zero when
// no path exists.
type PathEvent struct {
	BaseEvent
	From  string
	To    string
	Speed int
	Cost  int
	Turns int
}

func NewPathFoundEvent(mapID, from, to string, speed, cost, turns int) *PathEvent {
	return &PathEvent{
		BaseEvent: newBase(TypePathFound, mapID),
		From:      from,
		To:        to,
		Speed:     speed,
		Cost:      cost,
		Turns:     turns,
	}
}

func NewPathNotFoundEvent(mapID, from, to string, speed int) *PathEvent {
	return &PathEvent{
		BaseEvent: newBase(TypePathNotFound, mapID),
		From:      from,
		To:        to,
		Speed:     speed,
	}
}

// PathClearedEvent is published when an existing path is discarded
type PathClearedEvent struct {
	BaseEvent
}

func NewPathClearedEvent(mapID string) *PathClearedEvent {
	return &PathClearedEvent{BaseEvent: newBase(TypePathCleared, mapID)}
}

// UnitEvent is published when a unit is placed, removed or finishes travelling
type UnitEvent struct {
	BaseEvent
	UnitID   string
	Kind     string
	Location string
}

func NewUnitEvent(eventType, mapID, unitID, kind, location string) *UnitEvent {
	return &UnitEvent{
		BaseEvent: newBase(eventType, mapID),
		UnitID:    unitID,
		Kind:      kind,
		Location:  location,
	}
}
