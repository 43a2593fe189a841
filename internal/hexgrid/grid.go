package hexgrid

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/HexTactics/internal/events"
	"github.com/mitchelldurbincs/HexTactics/internal/hex"
	"github.com/rs/zerolog"
)

const (
	// DefaultCellCountX and DefaultCellCountZ are the map size assumed by map
	// data that predates the size header.
	DefaultCellCountX = 20
	DefaultCellCountZ = 15
)

// Config holds everything needed to build a grid
type Config struct {
	CellCountX int
	CellCountZ int
	// NoiseSeed seeds cell perturbation. Perturbation is disabled when Noise is false.
	NoiseSeed int64
	Noise     bool
	Units     map[UnitKind]UnitStats
	Logger    zerolog.Logger
}

// Grid owns the cells, chunks and units of one map together with the shared
// search state used by pathfinding and visibility.
type Grid struct {
	id string

	cellCountX, cellCountZ   int
	chunkCountX, chunkCountZ int

	cells  []*hex.Cell
	chunks []*Chunk
	units  []*Unit

	unitStats map[UnitKind]UnitStats

	// mapMu serialises structural changes (create, load, save). searchMu guards
	// the frontier, the search phase and the current path. Lock order is mapMu
	// before searchMu.
	mapMu    sync.Mutex
	searchMu sync.Mutex

	searchFrontier      *hex.CellPriorityQueue
	searchFrontierPhase int64
	currentPath         path

	// visibilityStale is set when a cell's view elevation changes; the next
	// visibility update recounts every unit's vision first.
	visibilityStale atomic.Bool

	noise    hex.NoiseSource
	observer hex.CellObserver
	bus      events.Publisher
	logger   zerolog.Logger
}

// NewGrid creates a grid and builds its initial map
func NewGrid(cfg Config) (*Grid, error) {
	if cfg.CellCountX == 0 && cfg.CellCountZ == 0 {
		cfg.CellCountX = DefaultCellCountX
		cfg.CellCountZ = DefaultCellCountZ
	}

	g := &Grid{
		id:        uuid.New().String(),
		unitStats: defaultUnitStats(),
		logger:    cfg.Logger.With().Str("component", "HexGrid").Logger(),
	}
	for kind, stats := range cfg.Units {
		g.unitStats[kind] = stats
	}
	if cfg.Noise {
		g.noise = hex.NewSimplexNoise(cfg.NoiseSeed)
	}

	if err := g.CreateMap(cfg.CellCountX, cfg.CellCountZ); err != nil {
		return nil, err
	}
	return g, nil
}

// ID identifies the grid in published events
func (g *Grid) ID() string { return g.id }

// SetEventBus attaches a publisher for grid events. Nil disables publishing.
func (g *Grid) SetEventBus(bus events.Publisher) { g.bus = bus }

func (g *Grid) publish(e events.Event) {
	if g.bus != nil {
		g.bus.Publish(e)
	}
}

// publishAll sends events queued while mapMu was held. Callers must have
// released mapMu so subscribers can call back into the grid.
func (g *Grid) publishAll(pending []events.Event) {
	for _, e := range pending {
		g.publish(e)
	}
}

// SetObserver attaches a terrain and visibility observer to every current and
// future cell.
func (g *Grid) SetObserver(observer hex.CellObserver) {
	g.mapMu.Lock()
	defer g.mapMu.Unlock()

	g.observer = observer
	for _, cell := range g.cells {
		cell.SetObserver(observer)
	}
}

func (g *Grid) CellCountX() int { return g.cellCountX }
func (g *Grid) CellCountZ() int { return g.cellCountZ }

// Cells returns the flat cell slice in row-major order. Callers must not
// reorder it.
func (g *Grid) Cells() []*hex.Cell { return g.cells }
func (g *Grid) Chunks() []*Chunk { return g.chunks }

// CreateMap discards the current map and builds a flat, dry map of x by z cells.
// Both sizes must be positive multiples of the chunk size.
func (g *Grid) CreateMap(x, z int) error {
	g.mapMu.Lock()
	created, err := g.createMap(x, z)
	g.mapMu.Unlock()

	if err != nil {
		return err
	}
	g.publish(created)
	return nil
}

// createMap rebuilds the map and returns the map.created event for the caller
// to publish once mapMu is released. Caller must hold mapMu.
func (g *Grid) createMap(x, z int) (events.Event, error) {
	if x <= 0 || x%hex.ChunkSizeX != 0 || z <= 0 || z%hex.ChunkSizeZ != 0 {
		g.logger.Error().Int("x", x).Int("z", z).Msg("Unsupported map size")
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidMapSize, x, z)
	}

	g.searchMu.Lock()
	g.clearPath()
	g.searchMu.Unlock()
	g.clearUnits()

	g.cellCountX, g.cellCountZ = x, z
	g.chunkCountX = x / hex.ChunkSizeX
	g.chunkCountZ = z / hex.ChunkSizeZ

	g.createChunks()
	g.createCells()

	g.searchMu.Lock()
	g.searchFrontier = hex.NewCellPriorityQueue(g.cells)
	g.searchFrontierPhase = 0
	g.searchMu.Unlock()

	g.logger.Debug().Int("x", x).Int("z", z).Int("chunks", len(g.chunks)).Msg("Map created")
	return events.NewMapCreatedEvent(g.id, x, z), nil
}

func (g *Grid) createChunks() {
	g.chunks = make([]*Chunk, g.chunkCountX*g.chunkCountZ)
	for i := range g.chunks {
		g.chunks[i] = newChunk(i)
	}
}

func (g *Grid) createCells() {
	g.cells = make([]*hex.Cell, g.cellCountX*g.cellCountZ)
	i := 0
	for z := 0; z < g.cellCountZ; z++ {
		for x := 0; x < g.cellCountX; x++ {
			g.createCell(x, z, i)
			i++
		}
	}
}

func (g *Grid) createCell(x, z, i int) {
	position := hex.Vec3{
		X: (float64(x) + float64(z)*0.5 - float64(z/2)) * hex.InnerRadius * 2,
		Z: float64(z) * hex.OuterRadius * 1.5,
	}

	cell := hex.NewCell(i, hex.FromOffsetCoordinates(x, z), position)
	cell.SetNoise(g.noise)
	cell.SetObserver(g.observer)
	cell.SetVisionListener(g)
	g.cells[i] = cell

	if x > 0 {
		cell.SetNeighbor(hex.W, g.cells[i-1])
	}
	if z > 0 {
		if z&1 == 0 {
			cell.SetNeighbor(hex.SE, g.cells[i-g.cellCountX])
			if x > 0 {
				cell.SetNeighbor(hex.SW, g.cells[i-g.cellCountX-1])
			}
		} else {
			cell.SetNeighbor(hex.SW, g.cells[i-g.cellCountX])
			if x < g.cellCountX-1 {
				cell.SetNeighbor(hex.SE, g.cells[i-g.cellCountX+1])
			}
		}
	}

	cell.SetElevation(0)
	g.addCellToChunk(x, z, cell)
}

func (g *Grid) addCellToChunk(x, z int, cell *hex.Cell) {
	chunkX := x / hex.ChunkSizeX
	chunkZ := z / hex.ChunkSizeZ
	chunk := g.chunks[chunkX+chunkZ*g.chunkCountX]

	localX := x - chunkX*hex.ChunkSizeX
	localZ := z - chunkZ*hex.ChunkSizeZ
	chunk.AddCell(localX+localZ*hex.ChunkSizeX, cell)
}

// GetCell returns the cell at cube coordinates, or nil when they fall outside the map
func (g *Grid) GetCell(coordinates hex.Coordinates) *hex.Cell {
	z := coordinates.Z()
	if z < 0 || z >= g.cellCountZ {
		return nil
	}
	x := coordinates.X() + z/2
	if x < 0 || x >= g.cellCountX {
		return nil
	}
	return g.cells[x+z*g.cellCountX]
}

// GetCellAt returns the cell containing a world position
func (g *Grid) GetCellAt(position hex.Vec3) *hex.Cell {
	return g.GetCell(hex.FromPosition(position))
}

// GetCellByOffset returns the cell at offset column and row
func (g *Grid) GetCellByOffset(xOffset, zOffset int) *hex.Cell {
	if xOffset < 0 || xOffset >= g.cellCountX || zOffset < 0 || zOffset >= g.cellCountZ {
		return nil
	}
	return g.cells[xOffset+zOffset*g.cellCountX]
}

// GetCellByIndex returns the cell at a flat index
func (g *Grid) GetCellByIndex(index int) *hex.Cell {
	if index < 0 || index >= len(g.cells) {
		return nil
	}
	return g.cells[index]
}

func (g *Grid) owns(cell *hex.Cell) bool {
	return cell != nil && cell.Index >= 0 && cell.Index < len(g.cells) && g.cells[cell.Index] == cell
}
