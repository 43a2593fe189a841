package hex

import (
	"fmt"
	"math"
)

// Vec3 is a world-space position. Y is up; the lattice lies in the XZ plane.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) String() string { return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z) }
func (v Vec3) ApproxEqual(o Vec3) bool { return v.Sub(o).Length() < 1e-6 }

// Lerp interpolates between a and b without clamping t
func Lerp(a, b Vec3, t float64) Vec3 {
	return Vec3{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

// BezierPoint evaluates a quadratic Bezier curve at t
func BezierPoint(a, b, c Vec3, t float64) Vec3 {
	r := 1 - t
	return a.Scale(r * r).Add(b.Scale(2 * r * t)).Add(c.Scale(t * t))
}

// BezierDerivative returns the tangent of a quadratic Bezier curve at t
func BezierDerivative(a, b, c Vec3, t float64) Vec3 {
	return b.Sub(a).Scale(2 * (1 - t)).Add(c.Sub(b).Scale(2 * t))
}

// YawDegrees returns the heading of a direction in the XZ plane, 0 facing +Z
// and increasing clockwise.
func YawDegrees(direction Vec3) float64 {
	deg := math.Atan2(direction.X, direction.Z) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}
