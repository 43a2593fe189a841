package testutil

import (
	"testing"

	"github.com/mitchelldurbincs/HexTactics/internal/hex"
	"github.com/mitchelldurbincs/HexTactics/internal/hexgrid"
	"github.com/stretchr/testify/require"
)

// NewTestGrid creates a flat, dry, unperturbed grid of x by z cells
func NewTestGrid(t testing.TB, x, z int) *hexgrid.Grid {
	t.Helper()
	g, err := hexgrid.NewGrid(hexgrid.Config{
		CellCountX: x,
		CellCountZ: z,
		Logger:     NopLogger(),
	})
	require.NoError(t, err)
	return g
}

// CellAt returns the cell at offset coordinates, failing the test when it is missing
func CellAt(t testing.TB, g *hexgrid.Grid, col, row int) *hex.Cell {
	t.Helper()
	cell := g.GetCellByOffset(col, row)
	require.NotNil(t, cell, "no cell at offset (%d, %d)", col, row)
	return cell
}

// ExploreAll marks every cell explored by briefly making it visible
func ExploreAll(g *hexgrid.Grid) {
	for _, cell := range g.Cells() {
		cell.IncreaseVisibility()
		cell.DecreaseVisibility()
	}
}

// PlaceUnit adds a new unit of kind at offset coordinates
func PlaceUnit(t testing.TB, g *hexgrid.Grid, kind hexgrid.UnitKind, col, row int) *hexgrid.Unit {
	t.Helper()
	unit := g.NewUnit(kind)
	require.NoError(t, g.AddUnit(unit, CellAt(t, g, col, row), 0))
	return unit
}
