package hexgrid

import (
	"github.com/mitchelldurbincs/HexTactics/internal/events"
	"github.com/mitchelldurbincs/HexTactics/internal/hex"
)

// travelState walks a unit along a path one quadratic Bezier segment at a time.
// Segment i (1 <= i < len(path)) curves from the middle of the previous edge
// through path[i-1] to the middle of the edge into path[i]; the final segment
// ends on the destination centre.
type travelState struct {
	path    []*hex.Cell
	segment int
	t       float64
	a, b, c hex.Vec3
}

// Travel starts moving the unit along path, which must begin at the unit's
// location. Occupancy moves to the destination immediately; position, heading
// and vision follow as Tick advances.
func (u *Unit) Travel(path []*hex.Cell) error {
	if len(path) < 2 {
		return ErrInvalidPath
	}
	if u.grid == nil || u.location == nil {
		return ErrUnknownUnit
	}
	if path[0] != u.location {
		return ErrInvalidPath
	}
	destination := path[len(path)-1]
	if destination.Unit != nil && destination.Unit != u {
		return ErrCellOccupied
	}

	u.location.Unit = nil
	u.location = destination
	destination.Unit = u

	u.travel = &travelState{
		path:    append([]*hex.Cell(nil), path...),
		segment: 1,
		c:       path[0].Position(),
	}
	u.orientation = hex.YawDegrees(path[1].Position().Sub(path[0].Position()))
	u.beginSegment()
	return nil
}

// IsTravelling reports whether a Travel is in progress
func (u *Unit) IsTravelling() bool { return u.travel != nil }

func (u *Unit) beginSegment() {
	ts := u.travel
	ts.a = ts.c
	if ts.segment < len(ts.path) {
		next := ts.path[ts.segment]
		ts.b = ts.path[ts.segment-1].Position()
		ts.c = ts.b.Add(next.Position()).Scale(0.5)
		u.moveVision(next)
	} else {
		ts.b = u.location.Position()
		ts.c = ts.b
		u.moveVision(u.location)
	}
}

// Tick advances travel by dt seconds and reports whether the unit is still
// moving afterwards.
func (u *Unit) Tick(dt float64) bool {
	ts := u.travel
	if ts == nil {
		return false
	}

	ts.t += dt * u.TravelSpeed
	for ts.t >= 1 {
		ts.t--
		ts.segment++
		if ts.segment > len(ts.path) {
			u.finishTravel()
			return false
		}
		u.beginSegment()
	}

	u.position = hex.BezierPoint(ts.a, ts.b, ts.c, ts.t)
	d := hex.BezierDerivative(ts.a, ts.b, ts.c, ts.t)
	d.Y = 0
	if d.Length() > 0 {
		u.orientation = hex.YawDegrees(d)
	}
	return true
}

func (u *Unit) finishTravel() {
	u.travel = nil
	u.position = u.location.Position()
	if u.grid != nil {
		g := u.grid
		g.publish(events.NewUnitEvent(events.TypeUnitTraveled, g.id, u.ID.String(), u.Kind.String(), u.location.Coordinates.String()))
	}
}

// CancelTravel jumps the unit to its destination, settling vision there
func (u *Unit) CancelTravel() {
	if u.travel == nil {
		return
	}
	u.stopTravel()
	u.moveVision(u.location)
	u.position = u.location.Position()
}

func (u *Unit) stopTravel() {
	u.travel = nil
}
