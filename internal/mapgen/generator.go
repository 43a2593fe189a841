package mapgen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mitchelldurbincs/HexTactics/internal/hex"
	"github.com/mitchelldurbincs/HexTactics/internal/hexgrid"
	"github.com/rs/zerolog"
)

// Terrain type indices understood by renderers
const (
	TerrainSand = iota
	TerrainGrass
	TerrainMud
	TerrainStone
	TerrainSnow
)

// MapConfig holds configuration for map generation
type MapConfig struct {
	Width        int
	Height       int
	Seed         int64
	MaxElevation int
	WaterLevel   int

	ElevationOctaves     int
	ElevationFrequency   float64
	ElevationPersistence float64
	MoistureFrequency    float64

	SpecialRatio  int // 1 special cell per N land cells, 0 disables
	RoadCount     int
	MinRoadLength int
	MaxRoadLength int
	UrbanChance   float64
}

// DefaultMapConfig returns a sensible default configuration
func DefaultMapConfig(w, h int) MapConfig {
	return MapConfig{
		Width:                w,
		Height:               h,
		MaxElevation:         6,
		WaterLevel:           1,
		ElevationOctaves:     4,
		ElevationFrequency:   0.08,
		ElevationPersistence: 0.5,
		MoistureFrequency:    0.06,
		SpecialRatio:         40,
		RoadCount:            (w * h) / 25,
		MinRoadLength:        3,
		MaxRoadLength:        max(3, w/4),
		UrbanChance:          0.05,
	}
}

// Validate checks the configuration before any cell is touched
func (c MapConfig) Validate() error {
	if c.MaxElevation < 0 || c.MaxElevation > 255 {
		return fmt.Errorf("max elevation %d outside [0, 255]", c.MaxElevation)
	}
	if c.WaterLevel < 0 || c.WaterLevel > 255 {
		return fmt.Errorf("water level %d outside [0, 255]", c.WaterLevel)
	}
	if c.ElevationOctaves <= 0 {
		return fmt.Errorf("elevation octaves must be positive, got %d", c.ElevationOctaves)
	}
	if c.MinRoadLength > c.MaxRoadLength {
		return fmt.Errorf("min road length %d exceeds max %d", c.MinRoadLength, c.MaxRoadLength)
	}
	return nil
}

// Summary describes a generated map
type Summary struct {
	Land       int
	Underwater int
	Specials   int
	RoadEdges  int
	Walled     int
}

// Generator fills a grid with terrain using seeded noise and a deterministic RNG
type Generator struct {
	config    MapConfig
	rng       *rand.Rand
	elevation *hex.SimplexNoise
	moisture  *hex.SimplexNoise
	logger    zerolog.Logger
}

// NewGenerator creates a new map generator
func NewGenerator(config MapConfig, rng *rand.Rand, logger zerolog.Logger) *Generator {
	return &Generator{
		config:    config,
		rng:       rng,
		elevation: hex.NewSimplexNoise(config.Seed),
		moisture:  hex.NewSimplexNoise(config.Seed + 4),
		logger:    logger.With().Str("component", "MapGenerator").Logger(),
	}
}

// Generate rebuilds grid at the configured size and fills it. Existing units
// and paths are discarded with the old map.
func (g *Generator) Generate(grid *hexgrid.Grid) (Summary, error) {
	if err := g.config.Validate(); err != nil {
		return Summary{}, fmt.Errorf("invalid map config: %w", err)
	}
	if err := grid.CreateMap(g.config.Width, g.config.Height); err != nil {
		return Summary{}, fmt.Errorf("map generation failed: %w", err)
	}

	moisture := make([]float64, len(grid.Cells()))
	for i, cell := range grid.Cells() {
		moisture[i] = g.shapeCell(cell)
	}
	for i, cell := range grid.Cells() {
		g.placeFeatures(cell, moisture[i])
	}
	g.placeSpecials(grid)
	g.placeRoads(grid)
	g.placeWalls(grid)

	summary := summarize(grid)
	g.logger.Info().
		Int("width", g.config.Width).
		Int("height", g.config.Height).
		Int64("seed", g.config.Seed).
		Int("land", summary.Land).
		Int("underwater", summary.Underwater).
		Int("specials", summary.Specials).
		Int("road_edges", summary.RoadEdges).
		Msg("Map generated")
	return summary, nil
}

// noiseCoordinates maps offset coordinates to a continuous plane with unit
// spacing between neighbours.
func noiseCoordinates(cell *hex.Cell) (float64, float64) {
	col, row := cell.Coordinates.ToOffsetCoordinates()
	x := float64(col) + float64(row&1)*0.5
	y := float64(row) * math.Sqrt(3.0) / 2.0
	return x, y
}

// shapeCell sets elevation, water and terrain type and returns the moisture sample
func (g *Generator) shapeCell(cell *hex.Cell) float64 {
	x, y := noiseCoordinates(cell)
	e := g.elevation.Octave(x, y, g.config.ElevationOctaves, g.config.ElevationFrequency, g.config.ElevationPersistence)
	m := g.moisture.Octave(x, y, 3, g.config.MoistureFrequency, 0.5)

	elevation := int(e * float64(g.config.MaxElevation+1))
	elevation = min(max(elevation, 0), g.config.MaxElevation)

	cell.SetElevation(elevation)
	cell.SetWaterLevel(g.config.WaterLevel)
	cell.SetTerrainTypeIndex(g.terrainFor(elevation, m))
	return m
}

func (g *Generator) terrainFor(elevation int, moisture float64) int {
	switch {
	case elevation < g.config.WaterLevel:
		return TerrainSand
	case g.config.MaxElevation > 2 && elevation >= g.config.MaxElevation-1:
		return TerrainSnow
	case g.config.MaxElevation > 2 && elevation >= g.config.MaxElevation-2:
		return TerrainStone
	case moisture > 0.65:
		return TerrainMud
	default:
		return TerrainGrass
	}
}

func (g *Generator) placeFeatures(cell *hex.Cell, moisture float64) {
	if cell.IsUnderwater() {
		return
	}
	cell.SetPlantLevel(min(int(moisture*4), 3))
	if cell.TerrainTypeIndex() == TerrainGrass && g.rng.Float64() < 0.3 {
		cell.SetFarmLevel(1 + g.rng.Intn(3))
	}
	if g.rng.Float64() < g.config.UrbanChance {
		cell.SetUrbanLevel(1 + g.rng.Intn(3))
	}
}

func (g *Generator) landCell(grid *hexgrid.Grid) *hex.Cell {
	cells := grid.Cells()
	cell := cells[g.rng.Intn(len(cells))]
	if cell.IsUnderwater() || cell.IsSpecial() {
		return nil
	}
	return cell
}

func (g *Generator) placeSpecials(grid *hexgrid.Grid) {
	if g.config.SpecialRatio <= 0 {
		return
	}
	want := len(grid.Cells()) / g.config.SpecialRatio
	placed := 0

	// Use a maximum attempt counter to avoid infinite loops on watery maps
	maxAttempts := want * 10
	for attempts := 0; placed < want && attempts < maxAttempts; attempts++ {
		cell := g.landCell(grid)
		if cell == nil || cell.UrbanLevel() > 0 {
			continue
		}
		cell.SetSpecialIndex(1 + g.rng.Intn(3))
		placed++
	}
}

// placeRoads lays random walks of roads. Steep or special edges are skipped by
// the road rules; a walk ends at the first underwater cell or map border.
func (g *Generator) placeRoads(grid *hexgrid.Grid) {
	for r := 0; r < g.config.RoadCount; r++ {
		cell := g.landCell(grid)
		if cell == nil {
			continue
		}
		length := g.config.MinRoadLength + g.rng.Intn(g.config.MaxRoadLength-g.config.MinRoadLength+1)
		d := hex.Direction(g.rng.Intn(6))
		for step := 0; step < length; step++ {
			// mostly straight roads with gentle turns
			switch g.rng.Intn(4) {
			case 0:
				d = d.Previous()
			case 1:
				d = d.Next()
			}
			next := cell.GetNeighbor(d)
			if next == nil || next.IsUnderwater() {
				break
			}
			cell.AddRoad(d)
			cell = next
		}
	}
}

// placeWalls encloses dense urban cells
func (g *Generator) placeWalls(grid *hexgrid.Grid) {
	for _, cell := range grid.Cells() {
		if cell.UrbanLevel() >= 2 {
			cell.SetWalled(true)
		}
	}
}

func summarize(grid *hexgrid.Grid) Summary {
	var s Summary
	for _, cell := range grid.Cells() {
		if cell.IsUnderwater() {
			s.Underwater++
		} else {
			s.Land++
		}
		if cell.IsSpecial() {
			s.Specials++
		}
		if cell.Walled() {
			s.Walled++
		}
		for _, d := range hex.Directions {
			if cell.HasRoadThroughEdge(d) {
				s.RoadEdges++
			}
		}
	}
	// each road edge was counted from both sides
	s.RoadEdges /= 2
	return s
}
