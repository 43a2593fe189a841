package hex

import "image/color"

// Lattice geometry shared by the grid, the pathfinder and renderers.
const (
	OuterToInner = 0.866025404
	InnerToOuter = 1 / OuterToInner

	OuterRadius = 10.0
	InnerRadius = OuterRadius * OuterToInner

	SolidFactor = 0.8
	BlendFactor = 1 - SolidFactor
	WaterFactor = 0.6
	WaterBlend  = 1 - WaterFactor

	ElevationStep = 3.0

	TerracesPerSlope = 2
	TerraceSteps     = TerracesPerSlope*2 + 1

	HorizontalTerraceStepSize = 1.0 / TerraceSteps
	VerticalTerraceStepSize   = 1.0 / (TerracesPerSlope + 1)

	CellPerturbStrength      = 4.0
	ElevationPerturbStrength = 1.5
	NoiseScale               = 0.003

	WaterElevationOffset = -0.5

	ChunkSizeX = 5
	ChunkSizeZ = 5
)

// EdgeType classifies the elevation relationship between two adjacent cells
type EdgeType int

const (
	EdgeFlat EdgeType = iota
	EdgeSlope
	EdgeCliff
)

func (e EdgeType) String() string {
	switch e {
	case EdgeFlat:
		return "flat"
	case EdgeSlope:
		return "slope"
	case EdgeCliff:
		return "cliff"
	default:
		return "unknown"
	}
}

// GetEdgeType returns Flat for equal elevations, Slope for a single step and Cliff otherwise
func GetEdgeType(elevation1, elevation2 int) EdgeType {
	if elevation1 == elevation2 {
		return EdgeFlat
	}
	if abs(elevation2-elevation1) == 1 {
		return EdgeSlope
	}
	return EdgeCliff
}

var corners = [7]Vec3{
	{0, 0, OuterRadius},
	{InnerRadius, 0, 0.5 * OuterRadius},
	{InnerRadius, 0, -0.5 * OuterRadius},
	{0, 0, -OuterRadius},
	{-InnerRadius, 0, -0.5 * OuterRadius},
	{-InnerRadius, 0, 0.5 * OuterRadius},
	{0, 0, OuterRadius},
}

func FirstCorner(d Direction) Vec3  { return corners[d] }
func SecondCorner(d Direction) Vec3 { return corners[d+1] }

func FirstSolidCorner(d Direction) Vec3  { return corners[d].Scale(SolidFactor) }
func SecondSolidCorner(d Direction) Vec3 { return corners[d+1].Scale(SolidFactor) }

func FirstWaterCorner(d Direction) Vec3  { return corners[d].Scale(WaterFactor) }
func SecondWaterCorner(d Direction) Vec3 { return corners[d+1].Scale(WaterFactor) }

// SolidEdgeMiddle is the midpoint of the solid edge facing d
func SolidEdgeMiddle(d Direction) Vec3 {
	return corners[d].Add(corners[d+1]).Scale(0.5 * SolidFactor)
}

// Bridge is the offset spanning the blend region towards the neighbour in d
func Bridge(d Direction) Vec3 {
	return corners[d].Add(corners[d+1]).Scale(BlendFactor)
}

func WaterBridge(d Direction) Vec3 {
	return corners[d].Add(corners[d+1]).Scale(WaterBlend)
}

// TerraceLerp returns the position of terrace step `step` between a and b.
// Horizontal progress is linear per step; vertical progress only advances on odd steps.
func TerraceLerp(a, b Vec3, step int) Vec3 {
	h := float64(step) * HorizontalTerraceStepSize
	a.X += (b.X - a.X) * h
	a.Z += (b.Z - a.Z) * h
	v := float64((step+1)/2) * VerticalTerraceStepSize
	a.Y += (b.Y - a.Y) * v
	return a
}

// TerraceColorLerp blends colours with the same horizontal step as TerraceLerp
func TerraceColorLerp(a, b color.RGBA, step int) color.RGBA {
	h := float64(step) * HorizontalTerraceStepSize
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*h + 0.5)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), mix(a.A, b.A)}
}

// Perturb jitters a position horizontally using the noise sample at that position.
// A nil noise source leaves the position unchanged.
func Perturb(position Vec3, noise NoiseSource) Vec3 {
	if noise == nil {
		return position
	}
	sample := noise.Sample(position)
	position.X += (sample.X*2 - 1) * CellPerturbStrength
	position.Z += (sample.Z*2 - 1) * CellPerturbStrength
	return position
}
