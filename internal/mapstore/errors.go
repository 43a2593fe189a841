package mapstore

import "errors"

var (
	ErrMapNotFound      = errors.New("map not found")
	ErrUnknownMapFormat = errors.New("unknown map format version")
	ErrInvalidMapName   = errors.New("invalid map name")
)
