// Package grid owns the hex cell arena, its connectivity and the registry of
// units and stationary objects standing on it.
package grid

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/corsair/internal/game/event"
	"github.com/cory-johannsen/corsair/internal/game/hex"
)

// ErrInvalidDimensions is returned by CreateMap for non-positive sizes.
var ErrInvalidDimensions = errors.New("grid: width and height must be positive")

// Grid is a width×height arena of cells stored in row-major offset order.
//
// Invariant: cells are never relocated between CreateMap calls, so *Cell
// pointers obtained from the grid stay valid until the next CreateMap.
// Invariant: for every registered unit u placed on cell c, c.UnitID() == u.ID().
type Grid struct {
	width  int
	height int
	cells  []Cell

	units     map[string]Unit
	unitOrder []string
	objects   map[string]*Object

	events     *event.Bus
	highlights HighlightSink
}

// New returns an empty grid. Call CreateMap before use.
//
// events may be nil, in which case grid notifications are dropped.
func New(events *event.Bus) *Grid {
	return &Grid{
		units:      make(map[string]Unit),
		objects:    make(map[string]*Object),
		events:     events,
		highlights: NopHighlighter{},
	}
}

// NewMap is New followed by CreateMap(width, height, true, traversable).
func NewMap(events *event.Bus, width, height int, traversable bool) (*Grid, error) {
	g := New(events)
	if err := g.CreateMap(width, height, true, traversable); err != nil {
		return nil, err
	}
	return g, nil
}

// CreateMap discards every cell, unit and object and allocates a fresh
// width×height cell arena.
//
// When resetConnectivity is true each new cell is wired to its already
// created west, south-west and south-east neighbours: west is i-1 when x>0;
// for y>0 an even row links south-east to i-width and south-west to
// i-width-1 (x>0), an odd row links south-west to i-width and south-east to
// i-width+1 (x<width-1). When false, cells start unconnected so a loader can
// restore saved connectivity.
//
// Postcondition: Len() == width*height and every cell is land.
func (g *Grid) CreateMap(width, height int, resetConnectivity, traversable bool) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("grid.Grid.CreateMap: %dx%d: %w", width, height, ErrInvalidDimensions)
	}
	for _, id := range g.unitOrder {
		g.units[id].Base().location = NoCell
	}
	g.units = make(map[string]Unit)
	g.unitOrder = nil
	g.objects = make(map[string]*Object)
	g.highlights.ClearHighlights()

	g.width = width
	g.height = height
	g.cells = make([]Cell, width*height)

	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.cells[i] = newCell(CellID(i), hex.FromOffset(x, y), traversable)
			if resetConnectivity {
				g.wire(i, x, y)
			}
			i++
		}
	}
	g.RecalculateBitmasks()
	return nil
}

func (g *Grid) wire(i, x, y int) {
	c := &g.cells[i]
	if x > 0 {
		g.SetNeighbor(c, hex.W, &g.cells[i-1])
	}
	if y == 0 {
		return
	}
	if y&1 == 0 {
		g.SetNeighbor(c, hex.SE, &g.cells[i-g.width])
		if x > 0 {
			g.SetNeighbor(c, hex.SW, &g.cells[i-g.width-1])
		}
		return
	}
	g.SetNeighbor(c, hex.SW, &g.cells[i-g.width])
	if x < g.width-1 {
		g.SetNeighbor(c, hex.SE, &g.cells[i-g.width+1])
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// Cell returns the cell with the given id, or nil when id is out of range.
func (g *Grid) Cell(id CellID) *Cell {
	if id < 0 || int(id) >= len(g.cells) {
		return nil
	}
	return &g.cells[id]
}

// CellAtOffset returns the cell stored at column x, row y, or nil.
func (g *Grid) CellAtOffset(x, y int) *Cell {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return nil
	}
	return &g.cells[x+y*g.width]
}

// CellAt returns the cell at coordinate c, or nil when c lies outside the map.
func (g *Grid) CellAt(c hex.Coordinate) *Cell {
	if c.Y < 0 || c.Y >= g.height {
		return nil
	}
	x, y := c.ToOffset()
	return g.CellAtOffset(x, y)
}

// CellAtPosition converts a world-plane point to the cell under it, or nil.
func (g *Grid) CellAtPosition(p hex.Point) *Cell {
	return g.CellAt(hex.FromPosition(p))
}

// Cells returns every cell in row-major order.
func (g *Grid) Cells() []*Cell {
	out := make([]*Cell, len(g.cells))
	for i := range g.cells {
		out[i] = &g.cells[i]
	}
	return out
}

// Neighbor returns c's neighbour in direction d, or nil.
func (g *Grid) Neighbor(c *Cell, d hex.Direction) *Cell {
	return g.Cell(c.neighbors[d])
}

// SetNeighbor links c to n in direction d and n back to c in the opposite
// direction. Any cell previously linked in either slot loses its back-link.
// A nil n disconnects c in direction d.
//
// Postcondition: the neighbour relation remains symmetric.
func (g *Grid) SetNeighbor(c *Cell, d hex.Direction, n *Cell) {
	opp := d.Opposite()
	if old := g.Cell(c.neighbors[d]); old != nil && old.neighbors[opp] == c.id {
		old.neighbors[opp] = NoCell
	}
	if n == nil {
		c.neighbors[d] = NoCell
		return
	}
	if prev := g.Cell(n.neighbors[opp]); prev != nil && prev.neighbors[d] == n.id {
		prev.neighbors[d] = NoCell
	}
	c.neighbors[d] = n.id
	n.neighbors[opp] = c.id
}

// OverrideConnection connects c to the geometrically adjacent cell in
// direction d, or disconnects both sides. Connecting towards the map edge
// is a no-op.
func (g *Grid) OverrideConnection(c *Cell, d hex.Direction, connected bool) {
	if !connected {
		g.SetNeighbor(c, d, nil)
		return
	}
	if n := g.CellAt(c.coord.Step(d)); n != nil {
		g.SetNeighbor(c, d, n)
	}
}

// ClearSearchHeuristics resets the search scratch state of every cell.
func (g *Grid) ClearSearchHeuristics() {
	for i := range g.cells {
		g.cells[i].ClearSearch()
	}
}

// SetHighlighter installs the sink visual decorations are sent to.
// A nil sink discards highlights.
func (g *Grid) SetHighlighter(s HighlightSink) {
	if s == nil {
		s = NopHighlighter{}
	}
	g.highlights = s
}

// Highlight marks c with kind on the installed sink.
func (g *Grid) Highlight(c *Cell, kind HighlightKind) {
	if c != nil {
		g.highlights.ShowHighlight(c.coord, kind)
	}
}

// ClearHighlights removes every decoration from the sink.
func (g *Grid) ClearHighlights() {
	g.highlights.ClearHighlights()
}

// Events returns the bus grid notifications are published on; may be nil.
func (g *Grid) Events() *event.Bus { return g.events }
