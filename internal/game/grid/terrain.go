package grid

import "github.com/cory-johannsen/corsair/internal/game/hex"

// SetTraversable changes whether units may stand on c.
func (g *Grid) SetTraversable(c *Cell, traversable bool) {
	c.Traversable = traversable
}

// SetLand changes c's terrain and refreshes the bitmasks it influences.
func (g *Grid) SetLand(c *Cell, land bool) {
	c.Land = land
	g.updateBitmask(c)
	for _, d := range hex.Directions {
		if n := g.Neighbor(c, d); n != nil {
			g.updateBitmask(n)
		}
	}
}

// SetSpawn tags c with a spawn type.
func (g *Grid) SetSpawn(c *Cell, s SpawnType) {
	c.Spawn = s
}

// RecalculateBitmasks recomputes the land-neighbour bitmask of every cell.
func (g *Grid) RecalculateBitmasks() {
	for i := range g.cells {
		g.updateBitmask(&g.cells[i])
	}
}

// updateBitmask sets Bitmask to OceanBitmask for ocean cells and otherwise
// to the sum of 1<<d over every direction d with a land neighbour.
func (g *Grid) updateBitmask(c *Cell) {
	if !c.Land {
		c.Bitmask = OceanBitmask
		return
	}
	mask := 0
	for _, d := range hex.Directions {
		if n := g.Neighbor(c, d); n != nil && n.Land {
			mask |= 1 << d
		}
	}
	c.Bitmask = mask
}

// SpawnCells returns every free traversable cell whose spawn tag satisfies
// match, in cell order.
func (g *Grid) SpawnCells(match func(SpawnType) bool) []*Cell {
	var out []*Cell
	for i := range g.cells {
		c := &g.cells[i]
		if c.Traversable && c.Free() && match(c.Spawn) {
			out = append(out, c)
		}
	}
	return out
}

// Harbors returns every cell flagged as a harbor.
func (g *Grid) Harbors() []*Cell {
	var out []*Cell
	for i := range g.cells {
		if g.cells[i].Harbor {
			out = append(out, &g.cells[i])
		}
	}
	return out
}
