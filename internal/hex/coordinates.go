package hex

import (
	"fmt"
	"math"
)

// Coordinates is a cube coordinate on the hex lattice. Y is derived from X and Z
// so that X + Y + Z == 0 always holds.
type Coordinates struct {
	x, z int
}

// NewCoordinates creates cube coordinates from their X and Z components
func NewCoordinates(x, z int) Coordinates {
	return Coordinates{x: x, z: z}
}

// FromOffsetCoordinates converts an odd-r offset position (column, row) to cube coordinates
func FromOffsetCoordinates(col, row int) Coordinates {
	return Coordinates{x: col - row/2, z: row}
}

// FromPosition recovers the coordinates of the cell containing a world position
func FromPosition(position Vec3) Coordinates {
	x := position.X / (InnerRadius * 2)
	y := -x

	offset := position.Z / (OuterRadius * 3)
	x -= offset
	y -= offset

	iX := int(math.RoundToEven(x))
	iY := int(math.RoundToEven(y))
	iZ := int(math.RoundToEven(-x - y))

	if iX+iY+iZ != 0 {
		dX := math.Abs(x - float64(iX))
		dY := math.Abs(y - float64(iY))
		dZ := math.Abs(-x - y - float64(iZ))

		if dX > dY && dX > dZ {
			iX = -iY - iZ
		} else if dZ > dY {
			iZ = -iX - iY
		}
	}

	return Coordinates{x: iX, z: iZ}
}

func (c Coordinates) X() int { return c.x }
func (c Coordinates) Y() int { return -c.x - c.z }
func (c Coordinates) Z() int { return c.z }

// ToOffsetCoordinates converts back to the odd-r offset (column, row) position
func (c Coordinates) ToOffsetCoordinates() (col, row int) {
	return c.x + c.z/2, c.z
}

// DistanceTo returns the number of steps between two cells
func (c Coordinates) DistanceTo(other Coordinates) int {
	dx := abs(c.x - other.x)
	dy := abs(c.Y() - other.Y())
	dz := abs(c.z - other.z)
	return max(dx, dy, dz)
}

// Step returns the coordinates of the adjacent cell in the given direction
func (c Coordinates) Step(d Direction) Coordinates {
	offset := directionOffsets[d]
	return Coordinates{x: c.x + offset.x, z: c.z + offset.z}
}

// Save writes X and Z; Y is derived and never persisted.
func (c Coordinates) Save(w *Writer) {
	w.WriteInt32(int32(c.x))
	w.WriteInt32(int32(c.z))
}

// LoadCoordinates reads coordinates written by Save
func LoadCoordinates(r *Reader) Coordinates {
	x := r.ReadInt32()
	z := r.ReadInt32()
	return Coordinates{x: int(x), z: int(z)}
}

// String returns the cube form, e.g. "(1, -3, 2)"
func (c Coordinates) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.x, c.Y(), c.z)
}

// StringOnSeparateLines is the compact label form used by cell overlays
func (c Coordinates) StringOnSeparateLines() string {
	return fmt.Sprintf("%d\n%d\n%d", c.x, c.Y(), c.z)
}

// cube offsets for each direction, indexed by Direction
var directionOffsets = [6]Coordinates{
	NE: {x: 0, z: 1},
	E:  {x: 1, z: 0},
	SE: {x: 1, z: -1},
	SW: {x: 0, z: -1},
	W:  {x: -1, z: 0},
	NW: {x: -1, z: 1},
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
