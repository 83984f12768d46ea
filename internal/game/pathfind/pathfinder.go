// Package pathfind implements least-cost search over a hex grid: shortest
// paths, movement reachability, uniform range floods, straight-line scans
// and the waypoint-by-waypoint travel of a unit along a found path.
package pathfind

import (
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/hex"
)

// Predicate filters cells during range and line queries.
type Predicate func(c *grid.Cell) bool

// Pathfinder runs searches over one grid.
//
// Cells carry a SearchPhase compared against the pathfinder's phase: below
// phase means unvisited in this search, equal means on the frontier, and
// phase+1 means settled. Each search advances phase by two, so scratch
// fields never need sweeping between searches for the same unit. Switching
// to a different searcher clears every cell.
//
// A Pathfinder is not safe for concurrent use; neither is its grid.
type Pathfinder struct {
	grid     *grid.Grid
	queue    *Queue
	phase    int
	searcher string
	searched bool

	pathFrom grid.CellID
	pathTo   grid.CellID
}

// New returns a pathfinder over g.
//
// Precondition: g must not be nil.
func New(g *grid.Grid) *Pathfinder {
	if g == nil {
		panic("pathfind.New: grid must not be nil")
	}
	return &Pathfinder{
		grid:     g,
		queue:    NewQueue(g),
		pathFrom: grid.NoCell,
		pathTo:   grid.NoCell,
	}
}

// Grid returns the grid searched by p.
func (p *Pathfinder) Grid() *grid.Grid { return p.grid }

// begin starts a new search on behalf of searcherID ("" for searches that
// ignore movement rules).
func (p *Pathfinder) begin(searcherID string) {
	if !p.searched || searcherID != p.searcher {
		p.grid.ClearSearchHeuristics()
		p.phase = 0
	}
	p.searched = true
	p.searcher = searcherID
	p.queue.Clear()
	p.phase += 2
}

// entryCost is the cost for u to step from a cell into c travelling in d.
//
// Postcondition: result >= 1.
func entryCost(u grid.Unit, d hex.Direction, c *grid.Cell) int {
	cost := u.Base().TerrainCost(c) + c.EnterModifier + u.EnterModifier(d, c)
	return max(cost, 1)
}

// enterable reports whether u may path through c.
func enterable(u grid.Unit, c *grid.Cell) bool {
	return c.Traversable && u.CanEnter(c)
}

// FindPath searches for the cheapest route for u from from to to and
// remembers it as the current path.
//
// Entering a cell that would carry the accumulated cost across a turn
// boundary of u's per-turn movement inflates the cost to
// turn*movementPerTurn + entryCost, so a move never straddles two turns.
//
// Postcondition: returns false (and no current path) when to is unreachable
// or either cell is nil.
func (p *Pathfinder) FindPath(from, to *grid.Cell, u grid.Unit) bool {
	p.dropPath()
	if from == nil || to == nil {
		return false
	}
	b := u.Base()
	p.begin(b.ID())

	from.SearchPhase = p.phase
	from.Cost = 0
	from.Heuristic = 0
	from.PathFrom = grid.NoCell
	p.queue.Enqueue(from)

	perTurn := b.DefaultMovement
	target := to.Coordinate()
	for p.queue.Count() > 0 {
		current := p.queue.Dequeue()
		current.SearchPhase++
		if current == to {
			p.pathFrom = from.ID()
			p.pathTo = to.ID()
			return true
		}

		currentTurn := 0
		if perTurn > 0 {
			currentTurn = (current.Cost - 1) / perTurn
		}
		for _, d := range hex.Directions {
			n := p.grid.Neighbor(current, d)
			if n == nil || n.SearchPhase > p.phase {
				continue
			}
			if !enterable(u, n) {
				continue
			}
			enter := entryCost(u, d, n)
			cost := current.Cost + enter
			if perTurn > 0 {
				if turn := (cost - 1) / perTurn; turn > currentTurn {
					cost = turn*perTurn + enter
				}
			}
			p.relax(current, n, cost, target.DistanceTo(n.Coordinate()))
		}
	}
	return false
}

// relax records cost as n's best known cost via current when it improves
// on what n already has, enqueueing or re-prioritising n as needed.
func (p *Pathfinder) relax(current, n *grid.Cell, cost, heuristic int) {
	if n.SearchPhase < p.phase {
		n.SearchPhase = p.phase
		n.Cost = cost
		n.Heuristic = heuristic
		n.PathFrom = current.ID()
		p.queue.Enqueue(n)
		return
	}
	if cost < n.Cost {
		old := n.SearchPriority()
		n.Cost = cost
		n.PathFrom = current.ID()
		p.queue.Change(n, old)
	}
}

// HasPath reports whether a current path is remembered.
func (p *Pathfinder) HasPath() bool {
	return p.pathTo != grid.NoCell
}

// WholePath returns the current path from origin to destination, origin
// included, or nil when there is no current path.
func (p *Pathfinder) WholePath() []*grid.Cell {
	if !p.HasPath() {
		return nil
	}
	var path []*grid.Cell
	for c := p.grid.Cell(p.pathTo); c != nil; c = p.grid.Cell(c.PathFrom) {
		path = append(path, c)
		if c.ID() == p.pathFrom {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// ReachablePath returns the prefix of the current path whose accumulated
// cost fits within remaining, and the cost of its last cell.
func (p *Pathfinder) ReachablePath(remaining int) ([]*grid.Cell, int) {
	whole := p.WholePath()
	var out []*grid.Cell
	cost := 0
	for _, c := range whole {
		if c.Cost > remaining {
			break
		}
		out = append(out, c)
		cost = c.Cost
	}
	return out, cost
}

// PathCost returns the accumulated cost of the current path's destination,
// or -1 without a current path.
func (p *Pathfinder) PathCost() int {
	if !p.HasPath() {
		return -1
	}
	return p.grid.Cell(p.pathTo).Cost
}

// ShowPath decorates the part of the current path reachable with remaining
// movement, marking the final reachable cell as the path end.
func (p *Pathfinder) ShowPath(remaining int) {
	path, _ := p.ReachablePath(remaining)
	for i, c := range path {
		if i == len(path)-1 {
			p.grid.Highlight(c, grid.HighlightPathfindingEnd)
			continue
		}
		p.grid.Highlight(c, grid.HighlightPathStep)
	}
}

// ClearPath forgets the current path and erases path decorations. Movement
// already committed along it is not rolled back.
func (p *Pathfinder) ClearPath() {
	if p.HasPath() {
		p.grid.ClearHighlights()
	}
	p.dropPath()
}

func (p *Pathfinder) dropPath() {
	p.pathFrom = grid.NoCell
	p.pathTo = grid.NoCell
}

// ReachableCells returns every cell u can reach from from within its
// remaining movement points, from itself excluded. Costs follow FindPath
// without turn-boundary inflation, since everything returned is reached
// within the current turn.
//
// Postcondition: the result is exactly the set of cells whose least entry
// cost is <= remaining movement, in settle order.
func (p *Pathfinder) ReachableCells(from *grid.Cell, u grid.Unit) []*grid.Cell {
	p.dropPath()
	if from == nil {
		return nil
	}
	b := u.Base()
	p.begin(b.ID())
	remaining := b.RemainingMovement

	from.SearchPhase = p.phase
	from.Cost = 0
	from.Heuristic = 0
	from.PathFrom = grid.NoCell
	p.queue.Enqueue(from)

	var out []*grid.Cell
	for p.queue.Count() > 0 {
		current := p.queue.Dequeue()
		current.SearchPhase++
		if current != from {
			out = append(out, current)
		}
		for _, d := range hex.Directions {
			n := p.grid.Neighbor(current, d)
			if n == nil || n.SearchPhase > p.phase || !enterable(u, n) {
				continue
			}
			cost := current.Cost + entryCost(u, d, n)
			if cost > remaining {
				continue
			}
			p.relax(current, n, cost, 0)
		}
	}
	return out
}

// CellsWithinRange floods outward from from at cost 1 per step and returns
// every cell within rng steps that passes all predicates, from itself
// excluded. A cell failing a predicate is not expanded either.
func (p *Pathfinder) CellsWithinRange(from *grid.Cell, rng int, preds ...Predicate) []*grid.Cell {
	p.dropPath()
	if from == nil || rng <= 0 {
		return nil
	}
	p.begin("")

	from.SearchPhase = p.phase
	from.Cost = 0
	from.Heuristic = 0
	from.PathFrom = grid.NoCell
	p.queue.Enqueue(from)

	var out []*grid.Cell
	for p.queue.Count() > 0 {
		current := p.queue.Dequeue()
		current.SearchPhase++
		if current != from {
			out = append(out, current)
		}
		if current.Cost >= rng {
			continue
		}
		for _, d := range hex.Directions {
			n := p.grid.Neighbor(current, d)
			if n == nil || n.SearchPhase > p.phase || !passes(n, preds) {
				continue
			}
			p.relax(current, n, current.Cost+1, 0)
		}
	}
	return out
}

func passes(c *grid.Cell, preds []Predicate) bool {
	for _, pred := range preds {
		if !pred(c) {
			return false
		}
	}
	return true
}
