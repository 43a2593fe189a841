package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mitchelldurbincs/HexTactics/internal/hex"
	"github.com/mitchelldurbincs/HexTactics/internal/hexgrid"
	"github.com/mitchelldurbincs/HexTactics/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCell(t *testing.T) {
	grid := testutil.NewTestGrid(t, 10, 10)

	cell, err := parseCell(grid, "3, 4")
	require.NoError(t, err)
	assert.Equal(t, "3,4", offsetString(cell))

	for _, bad := range []string{"", "3", "a,4", "3,b", "1,2,3", "10,0", "-1,0"} {
		_, err := parseCell(grid, bad)
		assert.Error(t, err, bad)
	}
}

func TestRender(t *testing.T) {
	grid := testutil.NewTestGrid(t, 5, 5)
	testutil.CellAt(t, grid, 1, 0).SetElevation(3)
	testutil.CellAt(t, grid, 2, 0).SetWaterLevel(1)

	var out bytes.Buffer
	render(&out, grid, renderOptions{})
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "? ? ? ? ? ", lines[4], "unexplored cells stay hidden")
	assert.Equal(t, " ? ? ? ? ? ", lines[3], "odd rows are shifted")

	out.Reset()
	render(&out, grid, renderOptions{reveal: true})
	lines = strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, "0 3 ~ 0 0 ", lines[4])
}

func TestRender_UnitsAndPath(t *testing.T) {
	grid := testutil.NewTestGrid(t, 5, 5)
	testutil.ExploreAll(grid)
	testutil.PlaceUnit(t, grid, hexgrid.UnitPlayer, 0, 2)

	found, err := grid.FindPath(testutil.CellAt(t, grid, 0, 0), testutil.CellAt(t, grid, 3, 0), 5)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, byte('P'), glyph(testutil.CellAt(t, grid, 0, 2), renderOptions{}))
	assert.Equal(t, byte('A'), glyph(testutil.CellAt(t, grid, 0, 0), renderOptions{}))
	assert.Equal(t, byte('B'), glyph(testutil.CellAt(t, grid, 3, 0), renderOptions{}))
	assert.Equal(t, byte('*'), glyph(testutil.CellAt(t, grid, 1, 0), renderOptions{}))
	assert.Equal(t, byte('0'), glyph(testutil.CellAt(t, grid, 1, 0), renderOptions{labels: true}))
	assert.Equal(t, byte('1'), glyph(testutil.CellAt(t, grid, 2, 0), renderOptions{labels: true}))
}

func TestRender_HiddenEnemy(t *testing.T) {
	grid := testutil.NewTestGrid(t, 5, 5)
	testutil.ExploreAll(grid)
	enemy := testutil.PlaceUnit(t, grid, hexgrid.UnitEnemy, 2, 2)
	cell := enemy.Location()

	assert.Equal(t, byte('E'), glyph(cell, renderOptions{}))

	cell.ResetVisibility()
	assert.Equal(t, byte('0'), glyph(cell, renderOptions{}))
	assert.Equal(t, byte('E'), glyph(cell, renderOptions{reveal: true}))
	assert.Equal(t, hex.HighlightNone, cell.Highlight())
}

func TestChunkTally(t *testing.T) {
	grid := testutil.NewTestGrid(t, 10, 5)
	assert.Equal(t, 2, grid.RefreshChunks(newChunkTally(testutil.NopLogger())))
	assert.Equal(t, 0, grid.RefreshChunks(newChunkTally(testutil.NopLogger())))
}
