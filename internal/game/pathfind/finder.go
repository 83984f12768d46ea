package pathfind

import (
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/hex"
)

// Traversable passes cells units may stand on.
func Traversable(c *grid.Cell) bool { return c.Traversable }

// Occupied passes cells holding a unit.
func Occupied(c *grid.Cell) bool { return c.Occupied() }

// Free passes cells holding neither a unit nor an object.
func Free(c *grid.Cell) bool { return c.Free() }

// Ocean passes water cells.
func Ocean(c *grid.Cell) bool { return c.Ocean() }

// Not inverts a predicate.
func Not(pred Predicate) Predicate {
	return func(c *grid.Cell) bool { return !pred(c) }
}

// Adjacent returns the neighbours of from passing every predicate, in
// direction order.
func (p *Pathfinder) Adjacent(from *grid.Cell, preds ...Predicate) []*grid.Cell {
	if from == nil {
		return nil
	}
	var out []*grid.Cell
	for _, d := range hex.Directions {
		if n := p.grid.Neighbor(from, d); n != nil && passes(n, preds) {
			out = append(out, n)
		}
	}
	return out
}

// InLine scans the six straight lines leaving from. Along each line it walks
// up to rng cells; cells failing the predicates still use up a step. The
// first passing cell is a hit; after it the scan continues for up to
// afterFirstHit more steps, collecting further passing cells, and then stops.
func (p *Pathfinder) InLine(from *grid.Cell, rng, afterFirstHit int, preds ...Predicate) []*grid.Cell {
	if from == nil {
		return nil
	}
	var out []*grid.Cell
	for _, d := range hex.Directions {
		out = append(out, p.line(from, d, rng, afterFirstHit, preds)...)
	}
	return out
}

// Line is InLine restricted to direction d.
func (p *Pathfinder) Line(from *grid.Cell, d hex.Direction, rng, afterFirstHit int, preds ...Predicate) []*grid.Cell {
	if from == nil {
		return nil
	}
	return p.line(from, d, rng, afterFirstHit, preds)
}

func (p *Pathfinder) line(from *grid.Cell, d hex.Direction, rng, afterFirstHit int, preds []Predicate) []*grid.Cell {
	var out []*grid.Cell
	hit := false
	steps, after := 0, 0
	for c := p.grid.Neighbor(from, d); c != nil; c = p.grid.Neighbor(c, d) {
		if hit {
			if after >= afterFirstHit {
				break
			}
			after++
		} else {
			if steps >= rng {
				break
			}
			steps++
		}
		if !passes(c, preds) {
			continue
		}
		out = append(out, c)
		hit = true
	}
	return out
}
