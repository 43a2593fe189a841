package hexgrid

import (
	"fmt"
	"io"

	"github.com/mitchelldurbincs/HexTactics/internal/events"
	"github.com/mitchelldurbincs/HexTactics/internal/hex"
)

// MapFormatVersion is the layout Save writes. Older layouts load as follows:
// version 0 has no size header and is 20x15, version 1 adds the size, version 2
// adds units, version 3 adds the explored flag per cell, and version 4 adds a
// kind byte per unit.
const MapFormatVersion = 4

// Save writes the map body in the current format. The caller writes the
// version header.
func (g *Grid) Save(w io.Writer) error {
	g.mapMu.Lock()
	defer g.mapMu.Unlock()

	writer := hex.NewWriter(w)
	writer.WriteInt32(int32(g.cellCountX))
	writer.WriteInt32(int32(g.cellCountZ))

	for _, cell := range g.cells {
		cell.Save(writer)
	}

	placed := make([]*Unit, 0, len(g.units))
	for _, unit := range g.units {
		if unit.location != nil {
			placed = append(placed, unit)
		}
	}
	writer.WriteInt32(int32(len(placed)))
	for _, unit := range placed {
		unit.Save(writer)
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("save map: %w", err)
	}
	return nil
}

// Load replaces the map with data written in the given format version. The
// current path and all units are cleared first; if the stored size cannot be
// built the grid is left empty of units and paths and an error is returned.
// Events raised while loading are published once the map lock is released.
func (g *Grid) Load(r io.Reader, version int) error {
	g.mapMu.Lock()
	pending, err := g.load(r, version)
	g.mapMu.Unlock()

	g.publishAll(pending)
	return err
}

func (g *Grid) load(r io.Reader, version int) ([]events.Event, error) {
	var pending []events.Event

	g.searchMu.Lock()
	g.clearPath()
	g.searchMu.Unlock()
	g.clearUnits()

	reader := hex.NewReader(r)

	x, z := DefaultCellCountX, DefaultCellCountZ
	if version >= 1 {
		x = int(reader.ReadInt32())
		z = int(reader.ReadInt32())
		if err := reader.Err(); err != nil {
			return pending, fmt.Errorf("load map header: %w", err)
		}
	}
	if x != g.cellCountX || z != g.cellCountZ {
		created, err := g.createMap(x, z)
		if err != nil {
			return pending, fmt.Errorf("load map: %w", err)
		}
		pending = append(pending, created)
	}

	for _, cell := range g.cells {
		if err := cell.Load(reader, version); err != nil {
			return pending, fmt.Errorf("load map: %w", err)
		}
	}
	for _, chunk := range g.chunks {
		chunk.Refresh()
	}

	if version >= 2 {
		added, err := g.loadUnits(reader, version)
		pending = append(pending, added...)
		if err != nil {
			return pending, err
		}
	}
	g.ResetVisibility()

	g.logger.Debug().Int("version", version).Int("x", x).Int("z", z).Int("units", len(g.units)).Msg("Map loaded")
	return pending, nil
}

func (g *Grid) loadUnits(reader *hex.Reader, version int) ([]events.Event, error) {
	count := int(reader.ReadInt32())
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("load unit count: %w", err)
	}
	if count < 0 || count > len(g.cells) {
		return nil, fmt.Errorf("%w: unit count %d", ErrMalformedMap, count)
	}

	var added []events.Event
	for i := 0; i < count; i++ {
		coordinates := hex.LoadCoordinates(reader)
		orientation := reader.ReadFloat32()
		kind := UnitPlayer
		if version >= 4 {
			b, _ := reader.ReadByte()
			kind = UnitKind(b)
		}
		if err := reader.Err(); err != nil {
			return added, fmt.Errorf("load unit %d: %w", i, err)
		}

		cell := g.GetCell(coordinates)
		if cell == nil {
			return added, fmt.Errorf("%w: unit %d at %s outside map", ErrMalformedMap, i, coordinates)
		}
		event, err := g.addUnit(g.NewUnit(kind), cell, float64(orientation))
		if err != nil {
			return added, fmt.Errorf("load unit %d: %w", i, err)
		}
		added = append(added, event)
	}
	return added, nil
}
