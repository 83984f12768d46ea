package pathfind

import (
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/hex"
)

// Travel walks a unit along a path one waypoint at a time. Each Step
// commits the unit's position at the next waypoint, so the caller may
// animate between steps or stop early without the logical position ever
// lagging behind a completed step.
type Travel struct {
	grid    *grid.Grid
	unit    grid.Unit
	path    []grid.CellID
	costs   []int
	budget  int
	next    int
	blocked bool
}

// Travel prepares u to follow the part of the current path it can afford
// this turn. It returns nil without a current path or when u is not
// standing on the path's origin.
//
// Postcondition: the current path is cleared; the returned Travel no longer
// depends on pathfinder scratch state.
func (p *Pathfinder) Travel(u grid.Unit) *Travel {
	if !p.HasPath() || u.Base().Location() != p.pathFrom {
		return nil
	}
	b := u.Base()
	reachable, _ := p.ReachablePath(b.RemainingMovement)
	t := &Travel{grid: p.grid, unit: u, budget: b.RemainingMovement, next: 1}
	for _, c := range reachable {
		t.path = append(t.path, c.ID())
		t.costs = append(t.costs, c.Cost)
	}
	p.ClearPath()
	return t
}

// Done reports whether no further Step will move the unit.
func (t *Travel) Done() bool {
	return t.blocked || t.next >= len(t.path)
}

// Blocked reports whether travel stopped because a waypoint could no longer
// be entered.
func (t *Travel) Blocked() bool { return t.blocked }

// Waypoints returns the cells the unit has yet to enter.
func (t *Travel) Waypoints() []*grid.Cell {
	var out []*grid.Cell
	for i := t.next; i < len(t.path); i++ {
		out = append(out, t.grid.Cell(t.path[i]))
	}
	return out
}

// Step moves the unit onto the next waypoint, turning it to face the
// direction of travel and charging the movement spent so far.
//
// Postcondition: returns the entered cell, or nil when travel is done or
// the waypoint became unenterable (Blocked then reports true).
func (t *Travel) Step() *grid.Cell {
	if t.Done() {
		return nil
	}
	b := t.unit.Base()
	from := t.grid.LocationOf(t.unit)
	to := t.grid.Cell(t.path[t.next])
	if from == nil || to == nil || !enterable(t.unit, to) {
		t.blocked = true
		return nil
	}
	if d, ok := directionBetween(t.grid, from, to); ok {
		b.Orientation = d
	}
	if err := t.grid.MoveUnit(t.unit, to); err != nil {
		t.blocked = true
		return nil
	}
	b.RemainingMovement = max(t.budget-t.costs[t.next], 0)
	t.next++
	return to
}

// Run steps until travel is done and returns the number of cells entered.
func (t *Travel) Run() int {
	n := 0
	for t.Step() != nil {
		n++
	}
	return n
}

func directionBetween(g *grid.Grid, from, to *grid.Cell) (hex.Direction, bool) {
	for _, d := range hex.Directions {
		if g.Neighbor(from, d) == to {
			return d, true
		}
	}
	return 0, false
}
