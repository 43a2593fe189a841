package hexgrid

import "errors"

var (
	ErrInvalidMapSize = errors.New("unsupported map size")
	ErrInvalidSpeed   = errors.New("unit speed must be positive")
	ErrNilCell        = errors.New("cell is nil")
	ErrForeignCell    = errors.New("cell does not belong to this grid")
	ErrCellOccupied   = errors.New("cell already holds a unit")
	ErrInvalidPath    = errors.New("travel path must start at the unit and hold at least two cells")
	ErrMalformedMap   = errors.New("malformed map data")
	ErrUnknownUnit    = errors.New("unit is not placed on this grid")
	ErrUnitPlaced     = errors.New("unit is already placed on a grid")
)
