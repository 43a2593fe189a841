package mapgen

import (
	"errors"
	"fmt"

	"github.com/mitchelldurbincs/HexTactics/internal/hex"
	"github.com/mitchelldurbincs/HexTactics/internal/hexgrid"
)

// ErrNoUnitLocation is returned when no cell satisfies the placement rules
var ErrNoUnitLocation = errors.New("no valid unit location")

// PlaceUnits adds count units of kind on dry, unoccupied, non-special cells at
// least minSpacing cells away from every unit already on the grid.
func (g *Generator) PlaceUnits(grid *hexgrid.Grid, kind hexgrid.UnitKind, count, minSpacing int) ([]*hexgrid.Unit, error) {
	placed := make([]*hexgrid.Unit, 0, count)
	for i := 0; i < count; i++ {
		cell := g.findUnitLocation(grid, minSpacing)
		if cell == nil {
			return placed, fmt.Errorf("place %s %d: %w", kind, i, ErrNoUnitLocation)
		}

		unit := grid.NewUnit(kind)
		orientation := float64(g.rng.Intn(360))
		if err := grid.AddUnit(unit, cell, orientation); err != nil {
			return placed, fmt.Errorf("place %s %d: %w", kind, i, err)
		}
		placed = append(placed, unit)
	}

	g.logger.Debug().Str("kind", kind.String()).Int("count", len(placed)).Msg("Units placed")
	return placed, nil
}

func (g *Generator) findUnitLocation(grid *hexgrid.Grid, minSpacing int) *hex.Cell {
	units := grid.Units()
	maxAttempts := len(grid.Cells()) // Fallback to prevent infinite loops

	for attempts := 0; attempts < maxAttempts; attempts++ {
		cell := g.landCell(grid)
		if cell == nil || cell.Unit != nil {
			continue
		}

		validLocation := true
		for _, other := range units {
			if other.Location().Coordinates.DistanceTo(cell.Coordinates) < minSpacing {
				validLocation = false
				break
			}
		}
		if validLocation {
			return cell
		}
	}
	return nil
}
