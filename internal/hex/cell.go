package hex

import (
	"fmt"
	"math"
)

// ChunkRefresher is the render batch a cell belongs to. Refresh marks it for
// re-triangulation.
type ChunkRefresher interface {
	Refresh()
}

// CellObserver receives terrain and visibility changes, e.g. a shader data texture
type CellObserver interface {
	RefreshTerrain(cell *Cell)
	RefreshVisibility(cell *Cell)
}

// VisionListener is told when a cell's ViewElevation changes, since every
// visibility count that covers the cell was computed with the old height.
type VisionListener interface {
	ViewElevationChanged(cell *Cell)
}

// Occupant is whatever stands on a cell. ValidateLocation is called whenever the
// cell changes in a way that could move the occupant's world position.
type Occupant interface {
	ValidateLocation()
}

// Highlight marks a cell for path rendering
type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightPath
	HighlightOrigin
	HighlightDestination
)

// unsetElevation guarantees the first elevation assignment always runs the refresh logic
const unsetElevation = math.MinInt

// Cell is a single lattice position. Cells are created and owned by a grid; the
// neighbour and path links are weak references into the same grid.
type Cell struct {
	Coordinates Coordinates
	Index       int

	position Vec3

	elevation        int
	waterLevel       int
	urbanLevel       int
	farmLevel        int
	plantLevel       int
	terrainTypeIndex int
	specialIndex     int
	walled           bool

	roads     [6]bool
	neighbors [6]*Cell

	// Search scratch state. Only meaningful while SearchPhase matches the
	// grid's current search phase.
	Distance             int
	SearchHeuristic      int
	SearchPhase          int64
	PathFrom             *Cell
	NextWithSamePriority int

	visibility int
	explored   bool

	highlight Highlight
	label     string

	Unit Occupant

	chunk    ChunkRefresher
	observer CellObserver
	vision   VisionListener
	noise    NoiseSource
}

// NewCell creates a cell at its unperturbed lattice position
func NewCell(index int, coordinates Coordinates, position Vec3) *Cell {
	return &Cell{
		Coordinates:          coordinates,
		Index:                index,
		position:             position,
		elevation:            unsetElevation,
		NextWithSamePriority: -1,
	}
}

func (c *Cell) SetChunk(chunk ChunkRefresher) { c.chunk = chunk }
func (c *Cell) Chunk() ChunkRefresher { return c.chunk }
func (c *Cell) SetObserver(observer CellObserver) { c.observer = observer }
func (c *Cell) SetNoise(noise NoiseSource) { c.noise = noise }
func (c *Cell) SetVisionListener(l VisionListener) { c.vision = l }

// Position is the world position of the cell centre, including elevation perturbation
func (c *Cell) Position() Vec3 { return c.position }

func (c *Cell) GetNeighbor(d Direction) *Cell { return c.neighbors[d] }

// SetNeighbor links both cells across the shared edge
func (c *Cell) SetNeighbor(d Direction, cell *Cell) {
	c.neighbors[d] = cell
	if cell != nil {
		cell.neighbors[d.Opposite()] = c
	}
}

// GetEdgeType classifies the edge towards the neighbour in d. A missing
// neighbour is reported as a cliff.
func (c *Cell) GetEdgeType(d Direction) EdgeType {
	n := c.neighbors[d]
	if n == nil {
		return EdgeCliff
	}
	return GetEdgeType(c.Elevation(), n.Elevation())
}

// GetEdgeTypeTo classifies the edge between c and any other cell
func (c *Cell) GetEdgeTypeTo(other *Cell) EdgeType {
	return GetEdgeType(c.Elevation(), other.Elevation())
}

func (c *Cell) Elevation() int {
	if c.elevation == unsetElevation {
		return 0
	}
	return c.elevation
}

// SetElevation changes the height of the cell, dropping roads that become too
// steep and refreshing every chunk that renders this cell.
func (c *Cell) SetElevation(elevation int) {
	if c.elevation == elevation {
		return
	}
	oldView := c.ViewElevation()
	c.elevation = elevation
	c.refreshPosition()
	c.viewElevationChanged(oldView)

	for d := range c.roads {
		if c.roads[d] && c.GetElevationDifference(Direction(d)) > 1 {
			c.setRoad(Direction(d), false)
		}
	}

	c.refresh()
}

func (c *Cell) refreshPosition() {
	c.position.Y = float64(c.Elevation()) * ElevationStep
	if c.noise != nil {
		c.position.Y += (c.noise.Sample(c.position).Y*2 - 1) * ElevationPerturbStrength
	}
}

// GetElevationDifference is the absolute elevation delta towards the neighbour in d
func (c *Cell) GetElevationDifference(d Direction) int {
	n := c.neighbors[d]
	if n == nil {
		return 0
	}
	return abs(c.Elevation() - n.Elevation())
}

func (c *Cell) WaterLevel() int { return c.waterLevel }

func (c *Cell) SetWaterLevel(level int) {
	if c.waterLevel == level {
		return
	}
	oldView := c.ViewElevation()
	c.waterLevel = level
	c.viewElevationChanged(oldView)
	c.refresh()
}

func (c *Cell) viewElevationChanged(old int) {
	if c.vision != nil && c.ViewElevation() != old {
		c.vision.ViewElevationChanged(c)
	}
}

func (c *Cell) IsUnderwater() bool { return c.waterLevel > c.Elevation() }

// WaterSurfaceY is the world height of the water plane over this cell
func (c *Cell) WaterSurfaceY() float64 {
	return (float64(c.waterLevel) + WaterElevationOffset) * ElevationStep
}

// ViewElevation is the height used for line of sight
func (c *Cell) ViewElevation() int {
	return max(c.Elevation(), c.waterLevel)
}

func (c *Cell) TerrainTypeIndex() int { return c.terrainTypeIndex }

func (c *Cell) SetTerrainTypeIndex(index int) {
	if c.terrainTypeIndex == index {
		return
	}
	c.terrainTypeIndex = index
	if c.observer != nil {
		c.observer.RefreshTerrain(c)
	}
}

func (c *Cell) UrbanLevel() int { return c.urbanLevel }
func (c *Cell) FarmLevel() int { return c.farmLevel }
func (c *Cell) PlantLevel() int { return c.plantLevel }

func (c *Cell) SetUrbanLevel(level int) {
	if c.urbanLevel != level {
		c.urbanLevel = level
		c.refreshSelfOnly()
	}
}

func (c *Cell) SetFarmLevel(level int) {
	if c.farmLevel != level {
		c.farmLevel = level
		c.refreshSelfOnly()
	}
}

func (c *Cell) SetPlantLevel(level int) {
	if c.plantLevel != level {
		c.plantLevel = level
		c.refreshSelfOnly()
	}
}

func (c *Cell) SpecialIndex() int { return c.specialIndex }
func (c *Cell) IsSpecial() bool { return c.specialIndex > 0 }

// SetSpecialIndex places or clears a landmark. Landmarks never carry roads.
func (c *Cell) SetSpecialIndex(index int) {
	if c.specialIndex == index {
		return
	}
	c.specialIndex = index
	c.RemoveRoads()
	c.refreshSelfOnly()
}

func (c *Cell) Walled() bool { return c.walled }

func (c *Cell) SetWalled(walled bool) {
	if c.walled != walled {
		c.walled = walled
		c.refresh()
	}
}

func (c *Cell) HasRoadThroughEdge(d Direction) bool { return c.roads[d] }

func (c *Cell) HasRoads() bool {
	for _, r := range c.roads {
		if r {
			return true
		}
	}
	return false
}

// AddRoad connects c and its neighbour in d unless either is special, the
// neighbour is missing, or the elevation step is too steep.
func (c *Cell) AddRoad(d Direction) {
	n := c.neighbors[d]
	if c.roads[d] || n == nil || c.IsSpecial() || n.IsSpecial() || c.GetElevationDifference(d) > 1 {
		return
	}
	c.setRoad(d, true)
}

// RemoveRoads clears every road on this cell and the matching neighbour edges
func (c *Cell) RemoveRoads() {
	for d := range c.roads {
		if c.roads[d] {
			c.setRoad(Direction(d), false)
		}
	}
}

func (c *Cell) setRoad(d Direction, state bool) {
	c.roads[d] = state
	if n := c.neighbors[d]; n != nil {
		n.roads[d.Opposite()] = state
		n.refreshSelfOnly()
	}
	c.refreshSelfOnly()
}

// RoadFlags packs the six road edges into a bit set, bit i for direction i
func (c *Cell) RoadFlags() byte {
	var flags byte
	for i, r := range c.roads {
		if r {
			flags |= 1 << i
		}
	}
	return flags
}

// SearchPriority orders cells in the search frontier
func (c *Cell) SearchPriority() int {
	return c.Distance + c.SearchHeuristic
}

func (c *Cell) IsExplored() bool { return c.explored }
func (c *Cell) IsVisible() bool { return c.visibility > 0 }
func (c *Cell) Visibility() int { return c.visibility }

// IncreaseVisibility adds a viewer. The first viewer explores the cell.
func (c *Cell) IncreaseVisibility() {
	c.visibility++
	if c.visibility == 1 {
		c.explored = true
		c.refreshVisibility()
	}
}

// DecreaseVisibility removes a viewer
func (c *Cell) DecreaseVisibility() {
	if c.visibility == 0 {
		return
	}
	c.visibility--
	if c.visibility == 0 {
		c.refreshVisibility()
	}
}

// ResetVisibility drops every viewer without touching the explored flag
func (c *Cell) ResetVisibility() {
	if c.visibility > 0 {
		c.visibility = 0
		c.refreshVisibility()
	}
}

func (c *Cell) refreshVisibility() {
	if c.observer != nil {
		c.observer.RefreshVisibility(c)
	}
}

func (c *Cell) Highlight() Highlight { return c.highlight }
func (c *Cell) Label() string { return c.label }

func (c *Cell) EnableHighlight(h Highlight) { c.highlight = h }
func (c *Cell) DisableHighlight() { c.highlight = HighlightNone }
func (c *Cell) SetLabel(label string) { c.label = label }

// DisableUI clears both the label and the highlight
func (c *Cell) DisableUI() {
	c.label = ""
	c.highlight = HighlightNone
}

// Refresh marks this cell's chunk dirty without touching neighbours
func (c *Cell) Refresh() { c.refreshSelfOnly() }

func (c *Cell) refresh() {
	if c.chunk != nil {
		c.chunk.Refresh()
		for _, n := range c.neighbors {
			if n != nil && n.chunk != nil && n.chunk != c.chunk {
				n.chunk.Refresh()
			}
		}
	}
	if c.Unit != nil {
		c.Unit.ValidateLocation()
	}
}

func (c *Cell) refreshSelfOnly() {
	if c.chunk != nil {
		c.chunk.Refresh()
	}
	if c.Unit != nil {
		c.Unit.ValidateLocation()
	}
}

// Save writes the cell record of the map format
func (c *Cell) Save(w *Writer) {
	w.WriteByte(byte(c.terrainTypeIndex))
	w.WriteByte(byte(c.Elevation()))
	w.WriteByte(byte(c.waterLevel))
	w.WriteByte(byte(c.urbanLevel))
	w.WriteByte(byte(c.farmLevel))
	w.WriteByte(byte(c.plantLevel))
	w.WriteByte(byte(c.specialIndex))
	w.WriteBool(c.walled)
	w.WriteByte(c.RoadFlags())
	w.WriteBool(c.explored)
}

// Load reads a cell record, assigning fields directly so no road validation or
// chunk refresh happens per cell. The explored flag only exists from version 3.
func (c *Cell) Load(r *Reader, version int) error {
	readInt := func() int {
		b, _ := r.ReadByte()
		return int(b)
	}

	c.terrainTypeIndex = readInt()
	c.elevation = readInt()
	c.refreshPosition()
	c.waterLevel = readInt()
	c.urbanLevel = readInt()
	c.farmLevel = readInt()
	c.plantLevel = readInt()
	c.specialIndex = readInt()
	c.walled = r.ReadBool()

	roadFlags, _ := r.ReadByte()
	for i := range c.roads {
		c.roads[i] = roadFlags&(1<<i) != 0
	}

	c.explored = version >= 3 && r.ReadBool()

	if err := r.Err(); err != nil {
		return fmt.Errorf("load cell %d: %w", c.Index, err)
	}

	if c.observer != nil {
		c.observer.RefreshTerrain(c)
		c.observer.RefreshVisibility(c)
	}
	return nil
}

func (c *Cell) String() string {
	return fmt.Sprintf("cell %d %s", c.Index, c.Coordinates)
}
