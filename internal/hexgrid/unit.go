package hexgrid

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/HexTactics/internal/events"
	"github.com/mitchelldurbincs/HexTactics/internal/hex"
)

// UnitKind selects the stats a unit is instantiated with
type UnitKind byte

const (
	UnitPlayer UnitKind = iota
	UnitEnemy
)

func (k UnitKind) String() string {
	switch k {
	case UnitPlayer:
		return "player"
	case UnitEnemy:
		return "enemy"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}

// ParseUnitKind maps a config or CLI name back to a kind
func ParseUnitKind(name string) (UnitKind, error) {
	switch name {
	case "player":
		return UnitPlayer, nil
	case "enemy":
		return UnitEnemy, nil
	}
	return 0, fmt.Errorf("unknown unit kind %q", name)
}

// UnitStats are the per-kind movement and vision parameters
type UnitStats struct {
	Speed       int
	VisionRange int
	// TravelSpeed is how many cells per second a travelling unit covers
	TravelSpeed float64
}

const (
	DefaultUnitSpeed       = 24
	DefaultUnitVisionRange = 3
	DefaultUnitTravelSpeed = 4.0
)

func defaultUnitStats() map[UnitKind]UnitStats {
	stats := UnitStats{
		Speed:       DefaultUnitSpeed,
		VisionRange: DefaultUnitVisionRange,
		TravelSpeed: DefaultUnitTravelSpeed,
	}
	return map[UnitKind]UnitStats{
		UnitPlayer: stats,
		UnitEnemy:  stats,
	}
}

// Unit occupies one cell and grants vision around it
type Unit struct {
	ID   uuid.UUID
	Kind UnitKind
	UnitStats

	grid        *Grid
	location    *hex.Cell
	visionCell  *hex.Cell
	orientation float64
	position    hex.Vec3
	travel      *travelState
}

// NewUnit creates a unit of kind with the grid's configured stats. The unit is
// not on the map until AddUnit places it.
func (g *Grid) NewUnit(kind UnitKind) *Unit {
	stats, ok := g.unitStats[kind]
	if !ok {
		stats = defaultUnitStats()[UnitPlayer]
	}
	return &Unit{
		ID:        uuid.New(),
		Kind:      kind,
		UnitStats: stats,
	}
}

func (u *Unit) Location() *hex.Cell { return u.location }
func (u *Unit) Orientation() float64 { return u.orientation }

// Position is the unit's world position, between cells while travelling
func (u *Unit) Position() hex.Vec3 { return u.position }

// SetOrientation sets the yaw in degrees
func (u *Unit) SetOrientation(degrees float64) { u.orientation = degrees }

// SetLocation moves the unit instantly, transferring its vision and occupancy.
// A nil cell is ignored; use Die or RemoveUnit to take a unit off the map.
func (u *Unit) SetLocation(cell *hex.Cell) {
	if cell == nil {
		return
	}
	u.stopTravel()
	if u.location != nil {
		u.location.Unit = nil
	}
	u.location = cell
	cell.Unit = u
	u.moveVision(cell)
	u.position = cell.Position()
}

// moveVision hands the unit's vision over to cell
func (u *Unit) moveVision(cell *hex.Cell) {
	if u.visionCell == cell || u.grid == nil {
		return
	}
	// recount before visionCell changes so the recount sees the old viewer
	u.grid.flushVisibility()
	if u.visionCell != nil {
		u.grid.DecreaseVisibility(u.visionCell, u.VisionRange)
	}
	u.visionCell = cell
	if cell != nil {
		u.grid.IncreaseVisibility(cell, u.VisionRange)
	}
}

// ValidateLocation snaps the unit back onto its cell after the cell moved
func (u *Unit) ValidateLocation() {
	if u.location != nil && u.travel == nil {
		u.position = u.location.Position()
	}
}

// IsValidDestination reports whether the unit may end a move on cell
func (u *Unit) IsValidDestination(cell *hex.Cell) bool {
	return cell != nil && cell.IsExplored() && !cell.IsUnderwater() && cell.Unit == nil
}

// Die takes the unit off its grid, dropping its vision and freeing its cell
func (u *Unit) Die() {
	if u.grid != nil {
		// cannot fail: every unit with a grid is in its units list
		_ = u.grid.RemoveUnit(u)
		return
	}
	u.die()
}

func (u *Unit) die() {
	u.travel = nil
	u.moveVision(nil)
	if u.location != nil {
		u.location.Unit = nil
		u.location = nil
	}
}

// Save writes the unit record: coordinates, orientation and kind
func (u *Unit) Save(w *hex.Writer) {
	u.location.Coordinates.Save(w)
	w.WriteFloat32(float32(u.orientation))
	w.WriteByte(byte(u.Kind))
}

// AddUnit places unit on cell with the given orientation. A unit can only be
// on one grid once; move it with SetLocation instead.
func (g *Grid) AddUnit(unit *Unit, cell *hex.Cell, orientation float64) error {
	added, err := g.addUnit(unit, cell, orientation)
	if err != nil {
		return err
	}
	g.publish(added)
	return nil
}

// addUnit places unit and returns the unit.added event without publishing it
func (g *Grid) addUnit(unit *Unit, cell *hex.Cell, orientation float64) (events.Event, error) {
	if unit.grid != nil {
		return nil, fmt.Errorf("add unit %s: %w", unit.ID, ErrUnitPlaced)
	}
	if cell == nil {
		return nil, ErrNilCell
	}
	if !g.owns(cell) {
		return nil, ErrForeignCell
	}
	if cell.Unit != nil {
		return nil, fmt.Errorf("add unit at %s: %w", cell.Coordinates, ErrCellOccupied)
	}

	g.units = append(g.units, unit)
	unit.grid = g
	unit.SetLocation(cell)
	unit.orientation = orientation

	g.logger.Debug().Str("unit_id", unit.ID.String()).Str("kind", unit.Kind.String()).
		Str("location", cell.Coordinates.String()).Msg("Unit added")
	return events.NewUnitEvent(events.TypeUnitAdded, g.id, unit.ID.String(), unit.Kind.String(), cell.Coordinates.String()), nil
}

// RemoveUnit takes unit off the map
func (g *Grid) RemoveUnit(unit *Unit) error {
	idx := -1
	for i, u := range g.units {
		if u == unit {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownUnit
	}

	location := ""
	if unit.location != nil {
		location = unit.location.Coordinates.String()
	}
	g.units = append(g.units[:idx], g.units[idx+1:]...)
	unit.die()
	unit.grid = nil

	g.publish(events.NewUnitEvent(events.TypeUnitRemoved, g.id, unit.ID.String(), unit.Kind.String(), location))
	return nil
}

// Units returns the units currently on the map
func (g *Grid) Units() []*Unit {
	return append([]*Unit(nil), g.units...)
}

// ClearUnits removes every unit
func (g *Grid) ClearUnits() { g.clearUnits() }

func (g *Grid) clearUnits() {
	for _, unit := range g.units {
		unit.die()
		unit.grid = nil
	}
	g.units = nil
}
