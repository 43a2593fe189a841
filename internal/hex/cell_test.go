package hex

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingChunk struct{ refreshes int }

func (c *countingChunk) Refresh() { c.refreshes++ }

type recordingObserver struct {
	terrain    []int
	visibility []int
}

func (o *recordingObserver) RefreshTerrain(cell *Cell) { o.terrain = append(o.terrain, cell.Index) }
func (o *recordingObserver) RefreshVisibility(cell *Cell) { o.visibility = append(o.visibility, cell.Index) }

type countingVision struct{ changes []int }

func (v *countingVision) ViewElevationChanged(cell *Cell) { v.changes = append(v.changes, cell.ViewElevation()) }

type stubOccupant struct{ validations int }

func (s *stubOccupant) ValidateLocation() { s.validations++ }

// ring builds a centre cell with all six neighbours linked
func ring() (*Cell, [6]*Cell) {
	centre := NewCell(0, NewCoordinates(0, 0), Vec3{})
	centre.SetElevation(0)
	var around [6]*Cell
	for i, d := range Directions {
		n := NewCell(i+1, centre.Coordinates.Step(d), Vec3{})
		n.SetElevation(0)
		centre.SetNeighbor(d, n)
		around[i] = n
	}
	return centre, around
}

func TestCell_NeighborSymmetry(t *testing.T) {
	centre, around := ring()
	for i, d := range Directions {
		assert.Same(t, around[i], centre.GetNeighbor(d))
		assert.Same(t, centre, around[i].GetNeighbor(d.Opposite()))
	}
}

func TestCell_Derived(t *testing.T) {
	c := NewCell(0, NewCoordinates(0, 0), Vec3{})
	assert.Equal(t, 0, c.Elevation(), "unset elevation reads as zero")

	c.SetElevation(2)
	c.SetWaterLevel(3)
	assert.True(t, c.IsUnderwater())
	assert.Equal(t, 3, c.ViewElevation())
	assert.InDelta(t, 7.5, c.WaterSurfaceY(), 1e-9)
	assert.InDelta(t, 6.0, c.Position().Y, 1e-9)

	c.SetWaterLevel(1)
	assert.False(t, c.IsUnderwater())
	assert.Equal(t, 2, c.ViewElevation())

	c.Distance = 7
	c.SearchHeuristic = 4
	assert.Equal(t, 11, c.SearchPriority())
}

func TestCell_RoadSymmetry(t *testing.T) {
	centre, around := ring()

	centre.AddRoad(E)
	centre.AddRoad(SW)
	around[W].AddRoad(E) // road into centre from the west

	for i, d := range Directions {
		assert.Equal(t, centre.HasRoadThroughEdge(d), around[i].HasRoadThroughEdge(d.Opposite()), "edge %s", d)
	}
	assert.True(t, centre.HasRoadThroughEdge(W))
	assert.True(t, centre.HasRoads())
	assert.Equal(t, byte(1<<E|1<<SW|1<<W), centre.RoadFlags())

	centre.RemoveRoads()
	assert.False(t, centre.HasRoads())
	for i, d := range Directions {
		assert.False(t, around[i].HasRoadThroughEdge(d.Opposite()), "edge %s", d)
	}
}

func TestCell_AddRoadRules(t *testing.T) {
	tests := []struct {
		name  string
		setup func(centre *Cell, target *Cell)
		added bool
	}{
		{"Flat", func(c, n *Cell) {}, true},
		{"Slope", func(c, n *Cell) { n.SetElevation(1) }, true},
		{"Cliff", func(c, n *Cell) { n.SetElevation(2) }, false},
		{"SpecialSelf", func(c, n *Cell) { c.SetSpecialIndex(1) }, false},
		{"SpecialNeighbor", func(c, n *Cell) { n.SetSpecialIndex(2) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			centre, around := ring()
			tt.setup(centre, around[NE])
			centre.AddRoad(NE)
			assert.Equal(t, tt.added, centre.HasRoadThroughEdge(NE))
			assert.Equal(t, tt.added, around[NE].HasRoadThroughEdge(SW))
		})
	}

	t.Run("MissingNeighbor", func(t *testing.T) {
		lonely := NewCell(0, NewCoordinates(0, 0), Vec3{})
		lonely.AddRoad(E)
		assert.False(t, lonely.HasRoads())
	})
}

func TestCell_SpecialRemovesRoads(t *testing.T) {
	centre, around := ring()
	centre.AddRoad(NE)
	centre.AddRoad(W)
	require.True(t, centre.HasRoads())

	centre.SetSpecialIndex(3)
	assert.True(t, centre.IsSpecial())
	assert.False(t, centre.HasRoads())
	assert.False(t, around[NE].HasRoadThroughEdge(SW))
	assert.False(t, around[W].HasRoadThroughEdge(E))
}

func TestCell_ElevationInvalidatesSteepRoads(t *testing.T) {
	centre, around := ring()
	centre.AddRoad(E)
	centre.AddRoad(W)
	around[W].SetElevation(1)

	centre.SetElevation(2)

	assert.False(t, centre.HasRoadThroughEdge(E), "delta 2 road dropped")
	assert.False(t, around[E].HasRoadThroughEdge(W))
	assert.True(t, centre.HasRoadThroughEdge(W), "delta 1 road kept")
	assert.True(t, around[W].HasRoadThroughEdge(E))
	assert.Equal(t, EdgeCliff, centre.GetEdgeType(E))
	assert.Equal(t, EdgeSlope, centre.GetEdgeType(W))
}

func TestCell_RefreshPropagation(t *testing.T) {
	centre, around := ring()
	own := &countingChunk{}
	other := &countingChunk{}
	centre.SetChunk(own)
	for i, n := range around {
		if i%2 == 0 {
			n.SetChunk(own)
		} else {
			n.SetChunk(other)
		}
	}
	occupant := &stubOccupant{}
	centre.Unit = occupant

	centre.SetElevation(1)
	assert.Equal(t, 1, own.refreshes)
	assert.Equal(t, 3, other.refreshes, "foreign chunk refreshed once per neighbour it holds")
	assert.Equal(t, 1, occupant.validations)

	centre.SetElevation(1)
	assert.Equal(t, 1, own.refreshes, "unchanged elevation is a no-op")

	centre.SetUrbanLevel(2)
	assert.Equal(t, 2, own.refreshes)
	assert.Equal(t, 3, other.refreshes, "self-only refresh leaves neighbours alone")
}

func TestCell_Visibility(t *testing.T) {
	c := NewCell(4, NewCoordinates(0, 0), Vec3{})
	observer := &recordingObserver{}
	c.SetObserver(observer)

	assert.False(t, c.IsExplored())
	c.IncreaseVisibility()
	c.IncreaseVisibility()
	assert.True(t, c.IsVisible())
	assert.True(t, c.IsExplored())
	assert.Equal(t, 2, c.Visibility())
	assert.Equal(t, []int{4}, observer.visibility, "only the first viewer refreshes")

	c.DecreaseVisibility()
	assert.True(t, c.IsVisible())
	c.DecreaseVisibility()
	assert.False(t, c.IsVisible())
	assert.True(t, c.IsExplored(), "explored is sticky")
	assert.Equal(t, []int{4, 4}, observer.visibility)

	c.DecreaseVisibility()
	assert.Equal(t, 0, c.Visibility(), "never negative")

	c.IncreaseVisibility()
	c.ResetVisibility()
	assert.Equal(t, 0, c.Visibility())
}

func TestCell_HighlightAndLabel(t *testing.T) {
	c := NewCell(0, NewCoordinates(0, 0), Vec3{})
	c.EnableHighlight(HighlightOrigin)
	c.SetLabel("2")
	assert.Equal(t, HighlightOrigin, c.Highlight())
	assert.Equal(t, "2", c.Label())

	c.DisableUI()
	assert.Equal(t, HighlightNone, c.Highlight())
	assert.Empty(t, c.Label())
}

func TestCell_SaveLoad(t *testing.T) {
	centre, around := ring()
	centre.SetTerrainTypeIndex(3)
	centre.SetElevation(4)
	around[E].SetElevation(4)
	centre.SetWaterLevel(5)
	centre.SetUrbanLevel(1)
	centre.SetFarmLevel(2)
	centre.SetPlantLevel(3)
	centre.SetWalled(true)
	centre.AddRoad(E)
	centre.IncreaseVisibility()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	centre.Save(w)
	require.NoError(t, w.Flush())
	require.Equal(t, 10, buf.Len())
	data := buf.Bytes()

	t.Run("CurrentVersion", func(t *testing.T) {
		loaded := NewCell(0, centre.Coordinates, Vec3{})
		require.NoError(t, loaded.Load(NewReader(bytes.NewReader(data)), 3))
		assert.Equal(t, 3, loaded.TerrainTypeIndex())
		assert.Equal(t, 4, loaded.Elevation())
		assert.Equal(t, 5, loaded.WaterLevel())
		assert.Equal(t, 1, loaded.UrbanLevel())
		assert.Equal(t, 2, loaded.FarmLevel())
		assert.Equal(t, 3, loaded.PlantLevel())
		assert.Equal(t, 0, loaded.SpecialIndex())
		assert.True(t, loaded.Walled())
		assert.True(t, loaded.HasRoadThroughEdge(E))
		assert.True(t, loaded.IsExplored())
		assert.InDelta(t, 12.0, loaded.Position().Y, 1e-9)
	})

	t.Run("BeforeExploredFlag", func(t *testing.T) {
		loaded := NewCell(0, centre.Coordinates, Vec3{})
		r := NewReader(bytes.NewReader(data[:9]))
		require.NoError(t, loaded.Load(r, 2))
		assert.False(t, loaded.IsExplored())
	})

	t.Run("Truncated", func(t *testing.T) {
		loaded := NewCell(0, centre.Coordinates, Vec3{})
		err := loaded.Load(NewReader(bytes.NewReader(data[:5])), 3)
		assert.Error(t, err)
	})
}

func TestCell_ViewElevationListener(t *testing.T) {
	cell := NewCell(0, NewCoordinates(0, 0), Vec3{})
	vision := &countingVision{}
	cell.SetVisionListener(vision)

	cell.SetElevation(0)
	assert.Empty(t, vision.changes, "first assignment keeps view elevation 0")

	cell.SetElevation(2)
	// water below the land and land below the water change nothing
	cell.SetWaterLevel(1)
	cell.SetWaterLevel(4)
	cell.SetElevation(3)
	cell.SetElevation(5)

	assert.Equal(t, []int{2, 4, 5}, vision.changes)
}
