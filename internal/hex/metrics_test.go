package hex

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEdgeType(t *testing.T) {
	tests := []struct {
		name     string
		a, b     int
		expected EdgeType
	}{
		{"Equal", 2, 2, EdgeFlat},
		{"StepUp", 1, 2, EdgeSlope},
		{"StepDown", 3, 2, EdgeSlope},
		{"TwoUp", 0, 2, EdgeCliff},
		{"FarDown", 6, 1, EdgeCliff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetEdgeType(tt.a, tt.b))
			assert.Equal(t, tt.expected, GetEdgeType(tt.b, tt.a))
		})
	}
}

func TestInnerRadius(t *testing.T) {
	assert.InDelta(t, 8.66025404, InnerRadius, 1e-6)
	assert.Equal(t, 5, TerraceSteps)
}

func TestTerraceLerp(t *testing.T) {
	a := Vec3{X: 0, Y: 0, Z: 0}
	b := Vec3{X: 10, Y: 6, Z: 5}

	t.Run("Endpoints", func(t *testing.T) {
		assert.True(t, a.ApproxEqual(TerraceLerp(a, b, 0)))
		assert.True(t, b.ApproxEqual(TerraceLerp(a, b, TerraceSteps)))
	})

	t.Run("VerticalOnlyOnOddSteps", func(t *testing.T) {
		step1 := TerraceLerp(a, b, 1)
		step2 := TerraceLerp(a, b, 2)
		assert.InDelta(t, 2.0, step1.X, 1e-9)
		assert.InDelta(t, 4.0, step2.X, 1e-9)
		assert.InDelta(t, 2.0, step1.Y, 1e-9)
		assert.InDelta(t, step1.Y, step2.Y, 1e-9, "even steps are flat terraces")
	})
}

func TestTerraceColorLerp(t *testing.T) {
	black := color.RGBA{0, 0, 0, 255}
	white := color.RGBA{255, 255, 255, 255}
	assert.Equal(t, black, TerraceColorLerp(black, white, 0))
	assert.Equal(t, white, TerraceColorLerp(black, white, TerraceSteps))
	assert.Equal(t, uint8(102), TerraceColorLerp(black, white, 2).R)
}

func TestCorners(t *testing.T) {
	for _, d := range Directions {
		assert.InDelta(t, OuterRadius, FirstCorner(d).Length(), 1e-6)
		assert.True(t, FirstCorner(d.Next()).ApproxEqual(SecondCorner(d)), "corners wrap for %s", d)
		assert.InDelta(t, OuterRadius*SolidFactor, FirstSolidCorner(d).Length(), 1e-6)
		assert.InDelta(t, InnerRadius*SolidFactor, SolidEdgeMiddle(d).Length(), 1e-6)
	}
}

func TestPerturb(t *testing.T) {
	p := Vec3{X: 12, Y: 3, Z: -40}

	t.Run("NilNoise", func(t *testing.T) {
		assert.Equal(t, p, Perturb(p, nil))
	})

	t.Run("BoundedJitter", func(t *testing.T) {
		noise := NewSimplexNoise(42)
		for i := 0; i < 50; i++ {
			pos := Vec3{X: float64(i) * 17.3, Y: 2, Z: float64(i) * -9.1}
			got := Perturb(pos, noise)
			assert.Equal(t, pos.Y, got.Y, "perturbation is horizontal only")
			assert.LessOrEqual(t, got.Sub(pos).Length(), CellPerturbStrength*1.5)
			assert.Equal(t, got, Perturb(pos, noise), "noise is deterministic")
		}
	})
}

func TestSimplexNoise_Range(t *testing.T) {
	noise := NewSimplexNoise(7)
	for i := 0; i < 100; i++ {
		s := noise.Sample(Vec3{X: float64(i) * 31, Z: float64(i) * 13})
		for _, v := range []float64{s.X, s.Y, s.Z, s.W} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
		o := noise.Octave(float64(i), float64(-i), 4, 0.08, 0.5)
		assert.GreaterOrEqual(t, o, 0.0)
		assert.LessOrEqual(t, o, 1.0)
	}
}

func TestBezier(t *testing.T) {
	a := Vec3{X: 0}
	b := Vec3{X: 5, Z: 5}
	c := Vec3{X: 10}

	assert.True(t, a.ApproxEqual(BezierPoint(a, b, c, 0)))
	assert.True(t, c.ApproxEqual(BezierPoint(a, b, c, 1)))
	assert.True(t, Vec3{X: 5, Z: 2.5}.ApproxEqual(BezierPoint(a, b, c, 0.5)))
	assert.True(t, Vec3{X: 10}.ApproxEqual(BezierDerivative(a, b, c, 0.5)))
	assert.InDelta(t, 90.0, YawDegrees(Vec3{X: 1}), 1e-9)
	assert.InDelta(t, 270.0, YawDegrees(Vec3{X: -1}), 1e-9)
}

func TestDirection(t *testing.T) {
	tests := []struct {
		d                        Direction
		opposite, previous, next Direction
		previous2, next2         Direction
	}{
		{NE, SW, NW, E, W, SE},
		{E, W, NE, SE, NW, SW},
		{SE, NW, E, SW, NE, W},
		{SW, NE, SE, W, E, NW},
		{W, E, SW, NW, SE, NE},
		{NW, SE, W, NE, SW, E},
	}

	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			assert.Equal(t, tt.opposite, tt.d.Opposite())
			assert.Equal(t, tt.previous, tt.d.Previous())
			assert.Equal(t, tt.next, tt.d.Next())
			assert.Equal(t, tt.previous2, tt.d.Previous2())
			assert.Equal(t, tt.next2, tt.d.Next2())
		})
	}
	assert.Equal(t, "invalid", Direction(9).String())
}

func TestWaterGeometry(t *testing.T) {
	assert.InDelta(t, OuterRadius, InnerRadius*InnerToOuter, 1e-9)

	for _, d := range Directions {
		first := FirstWaterCorner(d)
		second := SecondWaterCorner(d)
		assert.InDelta(t, WaterFactor*OuterRadius, first.Length(), 1e-9, "direction %s", d)
		assert.True(t, second.ApproxEqual(FirstWaterCorner(d.Next())), "corners shared with the next direction")

		// a water bridge spans from the shrunken edge to the neighbour's
		bridge := WaterBridge(d)
		assert.InDelta(t, 2*InnerRadius*WaterBlend, bridge.Length(), 1e-9)
		mid := first.Add(second).Scale(0.5)
		assert.InDelta(t, 2*InnerRadius, mid.Scale(2).Add(bridge).Length(), 1e-9)
	}
}
