package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mitchelldurbincs/HexTactics/internal/hex"
	"github.com/mitchelldurbincs/HexTactics/internal/hexgrid"
	"github.com/rs/zerolog"
)

type renderOptions struct {
	labels bool // print path turn labels instead of terrain
	reveal bool // ignore fog of war
}

// render prints the grid top row first, shifting odd rows half a cell right
func render(w io.Writer, grid *hexgrid.Grid, opts renderOptions) {
	var b strings.Builder
	for row := grid.CellCountZ() - 1; row >= 0; row-- {
		if row&1 == 1 {
			b.WriteByte(' ')
		}
		for col := 0; col < grid.CellCountX(); col++ {
			b.WriteByte(glyph(grid.GetCellByOffset(col, row), opts))
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	fmt.Fprint(w, b.String())
}

func glyph(cell *hex.Cell, opts renderOptions) byte {
	switch cell.Highlight() {
	case hex.HighlightOrigin:
		return 'A'
	case hex.HighlightDestination:
		return 'B'
	case hex.HighlightPath:
		if opts.labels && cell.Label() != "" {
			return cell.Label()[len(cell.Label())-1]
		}
		return '*'
	}

	if !opts.reveal && !cell.IsExplored() {
		return '?'
	}
	if unit, ok := cell.Unit.(*hexgrid.Unit); ok {
		if unit.Kind == hexgrid.UnitPlayer {
			return 'P'
		}
		if opts.reveal || cell.IsVisible() {
			return 'E'
		}
	}

	switch {
	case cell.IsUnderwater():
		return '~'
	case cell.IsSpecial():
		return '!'
	case cell.Walled():
		return '#'
	case cell.UrbanLevel() > 0:
		return 'u'
	case cell.HasRoads():
		return '='
	}
	return byte('0' + min(cell.Elevation(), 9))
}

// chunkTally is a Triangulator that only reports which chunks were rebuilt
type chunkTally struct {
	logger zerolog.Logger
}

func newChunkTally(logger zerolog.Logger) *chunkTally {
	return &chunkTally{logger: logger.With().Str("component", "ChunkTally").Logger()}
}

func (t *chunkTally) Triangulate(chunk *hexgrid.Chunk) {
	t.logger.Debug().Int("chunk", chunk.Index()).Int("cells", len(chunk.Cells())).Msg("Chunk rebuilt")
}
