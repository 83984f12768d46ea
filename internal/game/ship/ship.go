// Package ship implements the vessels players steer across the campaign
// map, the ocean currents that speed or slow them, and the crew job
// simulation run between map turns.
package ship

import (
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/hex"
	"github.com/cory-johannsen/corsair/internal/game/stats"
)

// DefaultHull is the hull capacity of a newly built ship.
const DefaultHull = 100

// Current is the flow of water through one cell.
type Current struct {
	Direction hex.Direction
	Strength  int
}

// Currents maps ocean cells to their current. Cells without an entry are
// still water.
type Currents map[grid.CellID]Current

// Modifier returns the extra cost of entering c while heading d: sailing
// with the current is cheaper, against it dearer, across it unchanged.
func (cs Currents) Modifier(d hex.Direction, c *grid.Cell) int {
	cur, ok := cs[c.ID()]
	if !ok {
		return 0
	}
	switch d {
	case cur.Direction:
		return -cur.Strength
	case cur.Direction.Opposite():
		return cur.Strength
	default:
		return 0
	}
}

// Ship is a map unit owned by a player.
type Ship struct {
	grid.UnitBase

	Name     string
	Hull     stats.Pool
	Crew     *Crew
	Currents Currents
}

// New returns an unplaced ship with a full hull and an empty crew.
//
// Precondition: name must be non-empty.
func New(name string, playerControlled bool) *Ship {
	if name == "" {
		panic("ship.New: name must not be empty")
	}
	return &Ship{
		UnitBase: grid.NewUnitBase(playerControlled),
		Name:     name,
		Hull:     stats.NewPool(DefaultHull),
		Crew:     NewCrew(),
	}
}

// CanEnter implements grid.Unit: ships sail free ocean cells and may dock
// in harbours.
func (s *Ship) CanEnter(c *grid.Cell) bool {
	return c.Traversable && (c.Ocean() || c.Harbor) && c.Free()
}

// EnterModifier implements grid.Unit using the ship's view of the currents.
func (s *Ship) EnterModifier(d hex.Direction, c *grid.Cell) int {
	if s.Currents == nil {
		return 0
	}
	return s.Currents.Modifier(d, c)
}

// Sunk reports whether the hull is destroyed.
func (s *Ship) Sunk() bool { return s.Hull.Empty() }
