package hexgrid

import "github.com/mitchelldurbincs/HexTactics/internal/hex"

// Chunk is a fixed-size block of cells that a renderer triangulates as one mesh.
// Cells mark their chunk dirty through Refresh; Grid.RefreshChunks hands dirty
// chunks to a Triangulator.
type Chunk struct {
	index int
	cells []*hex.Cell
	dirty bool
}

func newChunk(index int) *Chunk {
	return &Chunk{
		index: index,
		cells: make([]*hex.Cell, hex.ChunkSizeX*hex.ChunkSizeZ),
		dirty: true,
	}
}

// AddCell places cell at its chunk-local index and binds the cell to this chunk
func (c *Chunk) AddCell(localIndex int, cell *hex.Cell) {
	c.cells[localIndex] = cell
	cell.SetChunk(c)
}

func (c *Chunk) Index() int { return c.index }
func (c *Chunk) Cells() []*hex.Cell { return c.cells }
func (c *Chunk) IsDirty() bool { return c.dirty }

// Refresh implements hex.ChunkRefresher
func (c *Chunk) Refresh() { c.dirty = true }

// Triangulator turns the cells of a chunk into renderable geometry. It must only
// read cell state.
type Triangulator interface {
	Triangulate(chunk *Chunk)
}

// RefreshChunks triangulates every dirty chunk once and clears its flag. It
// returns how many chunks were rebuilt. Visibility left stale by terrain
// edits is recounted first.
func (g *Grid) RefreshChunks(t Triangulator) int {
	g.mapMu.Lock()
	defer g.mapMu.Unlock()

	g.flushVisibility()

	rebuilt := 0
	for _, chunk := range g.chunks {
		if !chunk.dirty {
			continue
		}
		if t != nil {
			t.Triangulate(chunk)
		}
		chunk.dirty = false
		rebuilt++
	}
	return rebuilt
}
