package hexgrid

import (
	"strconv"

	"github.com/mitchelldurbincs/HexTactics/internal/events"
	"github.com/mitchelldurbincs/HexTactics/internal/hex"
)

// Movement costs per edge
const (
	RoadMoveCost  = 1
	FlatMoveCost  = 5
	SlopeMoveCost = 10
)

// PathStep is one cell of a found path together with the turn in which a unit
// reaches it. The origin is turn 0.
type PathStep struct {
	Cell *hex.Cell
	Turn int
}

// path is the result of the last FindPath, snapshotted so later searches that
// reuse the cell scratch fields cannot corrupt it.
type path struct {
	from, to *hex.Cell
	speed    int
	cost     int
	exists   bool
	steps    []PathStep
}

// FindPath searches the cheapest turn-budgeted route between two cells for a
// unit with the given speed and makes it the current path. A previous path is
// cleared first. It reports whether the destination is reachable.
func (g *Grid) FindPath(from, to *hex.Cell, speed int) (bool, error) {
	if speed <= 0 {
		return false, ErrInvalidSpeed
	}
	if from == nil || to == nil {
		return false, ErrNilCell
	}
	if !g.owns(from) || !g.owns(to) {
		return false, ErrForeignCell
	}

	g.searchMu.Lock()
	g.clearPath()
	found := g.search(from, to, speed)
	g.currentPath = path{from: from, to: to, speed: speed, exists: found}
	if found {
		g.currentPath.cost = to.Distance
		g.currentPath.steps = collectSteps(from, to, speed)
	}
	g.showPath()
	p := g.currentPath
	g.searchMu.Unlock()

	log := g.logger.Debug().
		Str("from", from.Coordinates.String()).
		Str("to", to.Coordinates.String()).
		Int("speed", speed)
	if found {
		log.Int("cost", p.cost).Int("turns", p.turns()).Msg("Path found")
		g.publish(events.NewPathFoundEvent(g.id, from.Coordinates.String(), to.Coordinates.String(), speed, p.cost, p.turns()))
	} else {
		log.Msg("No path")
		g.publish(events.NewPathNotFoundEvent(g.id, from.Coordinates.String(), to.Coordinates.String(), speed))
	}
	return found, nil
}

// FindPathFor searches a path for unit from its current location
func (g *Grid) FindPathFor(unit *Unit, to *hex.Cell) (bool, error) {
	if unit == nil || unit.Location() == nil {
		return false, ErrUnknownUnit
	}
	return g.FindPath(unit.Location(), to, unit.Speed)
}

// search is a bucketed A* over turn-budgeted costs. A move that would cross
// into the next turn costs the remainder of the current turn on top of the edge
// cost. Caller must hold searchMu.
func (g *Grid) search(from, to *hex.Cell, speed int) bool {
	g.searchFrontierPhase += 2
	phase := g.searchFrontierPhase
	g.searchFrontier.Clear()

	from.SearchPhase = phase
	from.Distance = 0
	from.SearchHeuristic = 0
	from.PathFrom = nil
	g.searchFrontier.Enqueue(from)

	for g.searchFrontier.Count() > 0 {
		current := g.searchFrontier.Dequeue()
		current.SearchPhase++

		if current == to {
			return true
		}

		currentTurn := (current.Distance - 1) / speed

		for _, d := range hex.Directions {
			neighbor := current.GetNeighbor(d)
			if neighbor == nil || neighbor.SearchPhase > phase {
				continue
			}
			if neighbor.IsUnderwater() || neighbor.Unit != nil {
				continue
			}
			edgeType := current.GetEdgeType(d)
			if edgeType == hex.EdgeCliff {
				continue
			}
			if current.Walled() != neighbor.Walled() {
				continue
			}

			var moveCost int
			if current.HasRoadThroughEdge(d) {
				moveCost = RoadMoveCost
			} else {
				if edgeType == hex.EdgeFlat {
					moveCost = FlatMoveCost
				} else {
					moveCost = SlopeMoveCost
				}
				moveCost += neighbor.UrbanLevel() + neighbor.FarmLevel() + neighbor.PlantLevel()
			}

			distance := current.Distance + moveCost
			turn := (distance - 1) / speed
			if turn > currentTurn {
				distance = turn*speed + moveCost
			}

			if neighbor.SearchPhase < phase {
				neighbor.SearchPhase = phase
				neighbor.Distance = distance
				neighbor.PathFrom = current
				neighbor.SearchHeuristic = neighbor.Coordinates.DistanceTo(to.Coordinates)
				g.searchFrontier.Enqueue(neighbor)
			} else if distance < neighbor.Distance {
				oldPriority := neighbor.SearchPriority()
				neighbor.Distance = distance
				neighbor.PathFrom = current
				g.searchFrontier.Change(neighbor, oldPriority)
			}
		}
	}
	return false
}

func collectSteps(from, to *hex.Cell, speed int) []PathStep {
	var steps []PathStep
	for c := to; c != from; c = c.PathFrom {
		steps = append(steps, PathStep{Cell: c, Turn: (c.Distance - 1) / speed})
	}
	steps = append(steps, PathStep{Cell: from, Turn: 0})
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}

func (p path) turns() int {
	if p.cost == 0 {
		return 0
	}
	return (p.cost-1)/p.speed + 1
}

// showPath labels every path cell with its turn and highlights both ends
func (g *Grid) showPath() {
	p := g.currentPath
	for _, step := range p.steps[min(1, len(p.steps)):] {
		step.Cell.SetLabel(strconv.Itoa(step.Turn))
		step.Cell.EnableHighlight(hex.HighlightPath)
	}
	if p.from != nil {
		p.from.EnableHighlight(hex.HighlightOrigin)
		p.to.EnableHighlight(hex.HighlightDestination)
	}
}

// ClearPath removes the current path and its labels and highlights
func (g *Grid) ClearPath() {
	g.searchMu.Lock()
	had := g.currentPath.from != nil
	g.clearPath()
	g.searchMu.Unlock()

	if had {
		g.publish(events.NewPathClearedEvent(g.id))
	}
}

func (g *Grid) clearPath() {
	p := g.currentPath
	for _, step := range p.steps {
		step.Cell.DisableUI()
	}
	if p.from != nil {
		p.from.DisableHighlight()
		p.to.DisableHighlight()
	}
	g.currentPath = path{}
}

// HasPath reports whether the last FindPath reached its destination
func (g *Grid) HasPath() bool {
	g.searchMu.Lock()
	defer g.searchMu.Unlock()
	return g.currentPath.exists
}

// GetPath returns the current path from origin to destination, or nil
func (g *Grid) GetPath() []*hex.Cell {
	g.searchMu.Lock()
	defer g.searchMu.Unlock()

	if !g.currentPath.exists {
		return nil
	}
	cells := make([]*hex.Cell, len(g.currentPath.steps))
	for i, step := range g.currentPath.steps {
		cells[i] = step.Cell
	}
	return cells
}

// PathSteps returns the current path annotated with turn numbers, or nil
func (g *Grid) PathSteps() []PathStep {
	g.searchMu.Lock()
	defer g.searchMu.Unlock()

	if !g.currentPath.exists {
		return nil
	}
	return append([]PathStep(nil), g.currentPath.steps...)
}

// PathCost is the turn-budgeted cost of the current path, 0 without one
func (g *Grid) PathCost() int {
	g.searchMu.Lock()
	defer g.searchMu.Unlock()
	return g.currentPath.cost
}
