package hexgrid

import "github.com/mitchelldurbincs/HexTactics/internal/hex"

// GetVisibleCells returns every cell a viewer on from can see within
// visionRange steps. Elevation extends the range of the viewer and shortens
// the range to taller cells; the search never bends around obstacles, so a cell
// is only visible along a shortest lattice route.
func (g *Grid) GetVisibleCells(from *hex.Cell, visionRange int) []*hex.Cell {
	if from == nil {
		return nil
	}
	g.searchMu.Lock()
	defer g.searchMu.Unlock()
	return g.visibleCells(from, visionRange)
}

// visibleCells shares the frontier with search. Caller must hold searchMu.
func (g *Grid) visibleCells(from *hex.Cell, visionRange int) []*hex.Cell {
	var visible []*hex.Cell

	g.searchFrontierPhase += 2
	phase := g.searchFrontierPhase
	g.searchFrontier.Clear()

	visionRange += from.ViewElevation()
	from.SearchPhase = phase
	from.Distance = 0
	from.SearchHeuristic = 0
	g.searchFrontier.Enqueue(from)

	fromCoordinates := from.Coordinates
	for g.searchFrontier.Count() > 0 {
		current := g.searchFrontier.Dequeue()
		current.SearchPhase++
		visible = append(visible, current)

		for _, d := range hex.Directions {
			neighbor := current.GetNeighbor(d)
			if neighbor == nil || neighbor.SearchPhase > phase {
				continue
			}

			distance := current.Distance + 1
			if distance+neighbor.ViewElevation() > visionRange ||
				distance > fromCoordinates.DistanceTo(neighbor.Coordinates) {
				continue
			}

			if neighbor.SearchPhase < phase {
				neighbor.SearchPhase = phase
				neighbor.Distance = distance
				neighbor.SearchHeuristic = 0
				g.searchFrontier.Enqueue(neighbor)
			} else if distance < neighbor.Distance {
				oldPriority := neighbor.SearchPriority()
				neighbor.Distance = distance
				g.searchFrontier.Change(neighbor, oldPriority)
			}
		}
	}
	return visible
}

// IncreaseVisibility adds one viewer to every cell visible from from
func (g *Grid) IncreaseVisibility(from *hex.Cell, visionRange int) {
	g.flushVisibility()
	for _, cell := range g.GetVisibleCells(from, visionRange) {
		cell.IncreaseVisibility()
	}
}

// DecreaseVisibility removes one viewer from every cell visible from from.
// Counts are recomputed first if a view elevation changed since the matching
// IncreaseVisibility.
func (g *Grid) DecreaseVisibility(from *hex.Cell, visionRange int) {
	g.flushVisibility()
	for _, cell := range g.GetVisibleCells(from, visionRange) {
		cell.DecreaseVisibility()
	}
}

// ResetVisibility recomputes every visibility count from the units on the map.
// Explored flags are kept.
func (g *Grid) ResetVisibility() {
	g.visibilityStale.Store(false)
	for _, cell := range g.cells {
		cell.ResetVisibility()
	}
	for _, unit := range g.units {
		if unit.visionCell != nil {
			g.IncreaseVisibility(unit.visionCell, unit.VisionRange)
		}
	}
}

// ViewElevationChanged marks every visibility count stale. The recount is
// deferred to the next visibility update or RefreshChunks so terrain edits in
// bulk pay for it once.
func (g *Grid) ViewElevationChanged(*hex.Cell) {
	g.visibilityStale.Store(true)
}

func (g *Grid) flushVisibility() {
	if g.visibilityStale.Load() {
		g.ResetVisibility()
	}
}
