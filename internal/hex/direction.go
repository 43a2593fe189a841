package hex

// Direction names one of the six edges of a cell
type Direction int

const (
	NE Direction = iota
	E
	SE
	SW
	W
	NW
)

// Directions lists every direction in index order
var Directions = [6]Direction{NE, E, SE, SW, W, NW}

var directionNames = [6]string{"NE", "E", "SE", "SW", "W", "NW"}

// Opposite returns the direction pointing back across the same edge
func (d Direction) Opposite() Direction {
	if d < 3 {
		return d + 3
	}
	return d - 3
}

// Previous returns the direction counter-clockwise from d
func (d Direction) Previous() Direction {
	if d == NE {
		return NW
	}
	return d - 1
}

// Next returns the direction clockwise from d
func (d Direction) Next() Direction {
	if d == NW {
		return NE
	}
	return d + 1
}

// Previous2 skips one direction counter-clockwise
func (d Direction) Previous2() Direction {
	d -= 2
	if d >= NE {
		return d
	}
	return d + 6
}

// Next2 skips one direction clockwise
func (d Direction) Next2() Direction {
	d += 2
	if d <= NW {
		return d
	}
	return d - 6
}

// IsValid reports whether d is one of the six edge directions
func (d Direction) IsValid() bool {
	return d >= NE && d <= NW
}

func (d Direction) String() string {
	if !d.IsValid() {
		return "invalid"
	}
	return directionNames[d]
}
