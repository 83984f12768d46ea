// Package targeting decides which cells an ability may be aimed at and
// which cells it then hits.
package targeting

import (
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/hex"
	"github.com/cory-johannsen/corsair/internal/game/pathfind"
)

// Rule is the targeting behaviour owned by an ability.
//
// AffectedCells is deterministic in its inputs and is only defined for a
// target drawn from ValidTargets(p, origin); use Contains to check first.
type Rule interface {
	ValidTargets(p *pathfind.Pathfinder, origin *grid.Cell) []*grid.Cell
	AffectedCells(p *pathfind.Pathfinder, origin, target *grid.Cell) []*grid.Cell
}

// SingleAdjacent targets one neighbouring cell. With Empty set it targets
// free cells instead of occupied ones, for abilities that place objects.
type SingleAdjacent struct {
	Empty bool
}

func (r SingleAdjacent) ValidTargets(p *pathfind.Pathfinder, origin *grid.Cell) []*grid.Cell {
	if r.Empty {
		return p.Adjacent(origin, pathfind.Traversable, pathfind.Free)
	}
	return p.Adjacent(origin, pathfind.Traversable, pathfind.Occupied)
}

func (r SingleAdjacent) AffectedCells(_ *pathfind.Pathfinder, _, target *grid.Cell) []*grid.Cell {
	return []*grid.Cell{target}
}

// SwipeAdjacent targets an occupied neighbour and also hits the two cells
// flanking it, as seen from the origin.
type SwipeAdjacent struct{}

func (SwipeAdjacent) ValidTargets(p *pathfind.Pathfinder, origin *grid.Cell) []*grid.Cell {
	return p.Adjacent(origin, pathfind.Traversable, pathfind.Occupied)
}

func (SwipeAdjacent) AffectedCells(p *pathfind.Pathfinder, origin, target *grid.Cell) []*grid.Cell {
	out := []*grid.Cell{target}
	d, ok := origin.Coordinate().DirectionTo(target.Coordinate())
	if !ok {
		return out
	}
	g := p.Grid()
	for _, flank := range [...]hex.Direction{d.Previous(), d.Next()} {
		if c := g.Neighbor(origin, flank); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// AnySingle targets any occupied cell on the grid other than the origin.
type AnySingle struct{}

func (AnySingle) ValidTargets(p *pathfind.Pathfinder, origin *grid.Cell) []*grid.Cell {
	var out []*grid.Cell
	for _, c := range p.Grid().Cells() {
		if c != origin && c.Traversable && c.Occupied() {
			out = append(out, c)
		}
	}
	return out
}

func (AnySingle) AffectedCells(_ *pathfind.Pathfinder, _, target *grid.Cell) []*grid.Cell {
	return []*grid.Cell{target}
}

// RangedSingle targets one occupied cell within Range steps over
// traversable cells. Empty cells in between do not block the shot.
type RangedSingle struct {
	Range int
}

func (r RangedSingle) ValidTargets(p *pathfind.Pathfinder, origin *grid.Cell) []*grid.Cell {
	reach := p.CellsWithinRange(origin, r.Range, pathfind.Traversable)
	return slices.DeleteFunc(reach, func(c *grid.Cell) bool { return !c.Occupied() })
}

func (RangedSingle) AffectedCells(_ *pathfind.Pathfinder, _, target *grid.Cell) []*grid.Cell {
	return []*grid.Cell{target}
}

// Line targets the first occupied cell in each direction within Range.
// The shot continues for up to AfterFirstHit further occupied cells.
type Line struct {
	Range         int
	AfterFirstHit int
}

func (r Line) ValidTargets(p *pathfind.Pathfinder, origin *grid.Cell) []*grid.Cell {
	return p.InLine(origin, r.Range, 0, pathfind.Traversable, pathfind.Occupied)
}

func (r Line) AffectedCells(p *pathfind.Pathfinder, origin, target *grid.Cell) []*grid.Cell {
	d, ok := origin.Coordinate().DirectionTo(target.Coordinate())
	if !ok {
		return []*grid.Cell{target}
	}
	return p.Line(origin, d, r.Range, r.AfterFirstHit, pathfind.Traversable, pathfind.Occupied)
}

// SelfArea is centred on the user: the only valid target is the origin and
// every cell within Radius is hit.
type SelfArea struct {
	Radius      int
	IncludeSelf bool
}

func (SelfArea) ValidTargets(_ *pathfind.Pathfinder, origin *grid.Cell) []*grid.Cell {
	return []*grid.Cell{origin}
}

func (r SelfArea) AffectedCells(p *pathfind.Pathfinder, origin, _ *grid.Cell) []*grid.Cell {
	out := p.CellsWithinRange(origin, r.Radius, pathfind.Traversable)
	if r.IncludeSelf {
		out = append([]*grid.Cell{origin}, out...)
	}
	return out
}

// Set is a cell-id set built from a target list.
type Set struct {
	ids mapset.Set[grid.CellID]
}

// NewSet indexes cells.
func NewSet(cells []*grid.Cell) Set {
	s := Set{ids: mapset.New[grid.CellID]()}
	for _, c := range cells {
		s.ids.Put(c.ID())
	}
	return s
}

// Contains reports whether c is in the set.
func (s Set) Contains(c *grid.Cell) bool {
	return c != nil && s.ids.Has(c.ID())
}

// Len returns the number of cells in the set.
func (s Set) Len() int {
	return s.ids.Size()
}

// Contains reports whether target is one of rule's valid targets from origin.
func Contains(p *pathfind.Pathfinder, rule Rule, origin, target *grid.Cell) bool {
	return NewSet(rule.ValidTargets(p, origin)).Contains(target)
}

// Partition projects cells through their occupants into hostile and
// friendly units relative to actor. The actor itself counts as friendly.
// Cells without a unit are skipped.
func Partition(g *grid.Grid, cells []*grid.Cell, actor grid.Unit) (hostile, friendly []grid.Unit) {
	seen := mapset.New[string]()
	for _, c := range cells {
		u := g.UnitAt(c)
		if u == nil || seen.Has(u.Base().ID()) {
			continue
		}
		seen.Put(u.Base().ID())
		if u.Base().FriendlyTo(actor.Base()) {
			friendly = append(friendly, u)
		} else {
			hostile = append(hostile, u)
		}
	}
	return hostile, friendly
}
