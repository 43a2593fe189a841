package mapgen

import (
	"testing"

	"github.com/mitchelldurbincs/HexTactics/internal/hexgrid"
	"github.com/mitchelldurbincs/HexTactics/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceUnits(t *testing.T) {
	config := DefaultMapConfig(20, 15)
	config.WaterLevel = 0
	grid := testutil.NewTestGrid(t, 5, 5)
	gen := NewGenerator(config, testutil.NewTestRNG(11), testutil.NopLogger())
	_, err := gen.Generate(grid)
	require.NoError(t, err)

	players, err := gen.PlaceUnits(grid, hexgrid.UnitPlayer, 1, 0)
	require.NoError(t, err)
	enemies, err := gen.PlaceUnits(grid, hexgrid.UnitEnemy, 3, 4)
	require.NoError(t, err)

	require.Len(t, players, 1)
	require.Len(t, enemies, 3)
	assert.Len(t, grid.Units(), 4)

	all := append(players, enemies...)
	for i, unit := range all {
		cell := unit.Location()
		require.NotNil(t, cell)
		assert.Same(t, unit, cell.Unit)
		assert.False(t, cell.IsUnderwater())
		assert.False(t, cell.IsSpecial())
		assert.True(t, cell.IsVisible(), "units see their own cell")

		if i == 0 {
			continue
		}
		// enemies keep their distance from everything placed before them
		for _, other := range all[:i] {
			assert.GreaterOrEqual(t, other.Location().Coordinates.DistanceTo(cell.Coordinates), 4)
		}
	}
	assert.Equal(t, hexgrid.UnitEnemy, enemies[0].Kind)
}

func TestPlaceUnits_NoLand(t *testing.T) {
	config := DefaultMapConfig(5, 5)
	config.MaxElevation = 0
	config.WaterLevel = 3
	grid, _ := generate(t, config, 1)
	gen := NewGenerator(config, testutil.NewTestRNG(1), testutil.NopLogger())

	placed, err := gen.PlaceUnits(grid, hexgrid.UnitPlayer, 1, 0)
	assert.ErrorIs(t, err, ErrNoUnitLocation)
	assert.Empty(t, placed)
	assert.Empty(t, grid.Units())
}
