package grid

import "github.com/cory-johannsen/corsair/internal/game/hex"

// CellID is a stable index into a Grid's cell arena.
type CellID int

// NoCell is the CellID meaning "no cell".
const NoCell CellID = -1

// SpawnType tags cells where units may be placed when a battle map loads.
type SpawnType int

const (
	SpawnForbidden SpawnType = iota
	SpawnPlayer
	SpawnAnyEnemy
	SpawnMeleeEnemy
	SpawnSupportEnemy
	SpawnRangedEnemy
)

var spawnNames = map[SpawnType]string{
	SpawnForbidden:    "forbidden",
	SpawnPlayer:       "player",
	SpawnAnyEnemy:     "any_enemy",
	SpawnMeleeEnemy:   "melee_enemy",
	SpawnSupportEnemy: "support_enemy",
	SpawnRangedEnemy:  "ranged_enemy",
}

func (s SpawnType) String() string {
	if n, ok := spawnNames[s]; ok {
		return n
	}
	return "unknown"
}

// Enemy reports whether s is one of the enemy spawn tags.
func (s SpawnType) Enemy() bool {
	return s >= SpawnAnyEnemy && s <= SpawnRangedEnemy
}

// OceanBitmask is the Bitmask value of every ocean cell.
const OceanBitmask = -1

// fullLandMask is the Bitmask of a land cell whose six neighbours are all land.
const fullLandMask = 1<<hex.DirectionCount - 1

// Cell is one hexagon of a Grid.
//
// Invariant: a cell holds at most one unit and at most one object.
// Invariant: neighbour links are symmetric (see Grid.SetNeighbor).
type Cell struct {
	id        CellID
	coord     hex.Coordinate
	neighbors [hex.DirectionCount]CellID
	unit      string
	object    string

	Traversable   bool
	Land          bool
	Spawn         SpawnType
	Harbor        bool
	EnterModifier int
	Bitmask       int

	// Search scratch state. Owned by whichever pathfinder is currently
	// searching this grid; meaningless outside a search.
	SearchPhase          int
	Cost                 int
	Heuristic            int
	PathFrom             CellID
	NextWithSamePriority CellID
}

func newCell(id CellID, coord hex.Coordinate, traversable bool) Cell {
	c := Cell{
		id:                   id,
		coord:                coord,
		Traversable:          traversable,
		Land:                 true,
		PathFrom:             NoCell,
		NextWithSamePriority: NoCell,
	}
	for i := range c.neighbors {
		c.neighbors[i] = NoCell
	}
	return c
}

// ID returns the cell's arena index.
func (c *Cell) ID() CellID { return c.id }

// Coordinate returns the cell's hex coordinate.
func (c *Cell) Coordinate() hex.Coordinate { return c.coord }

// Ocean reports whether the cell is water.
func (c *Cell) Ocean() bool { return !c.Land }

// Shore reports whether the cell is land with at least one ocean neighbour
// or an open map edge.
func (c *Cell) Shore() bool {
	return c.Land && c.Bitmask >= 0 && c.Bitmask < fullLandMask
}

// Neighbor returns the id of the neighbour in direction d, or NoCell.
func (c *Cell) Neighbor(d hex.Direction) CellID { return c.neighbors[d] }

// Connected reports whether the cell has a neighbour in direction d.
func (c *Cell) Connected(d hex.Direction) bool { return c.neighbors[d] != NoCell }

// UnitID returns the id of the occupying unit, or "".
func (c *Cell) UnitID() string { return c.unit }

// ObjectID returns the id of the stationary object on the cell, or "".
func (c *Cell) ObjectID() string { return c.object }

// Occupied reports whether a unit stands on the cell.
func (c *Cell) Occupied() bool { return c.unit != "" }

// Free reports whether the cell holds neither a unit nor an object.
func (c *Cell) Free() bool { return c.unit == "" && c.object == "" }

// SearchPriority is the key the pathfinding queue orders cells by.
func (c *Cell) SearchPriority() int { return c.Cost + c.Heuristic }

// ClearSearch zeroes the pathfinding scratch fields.
func (c *Cell) ClearSearch() {
	c.SearchPhase = 0
	c.Cost = 0
	c.Heuristic = 0
	c.PathFrom = NoCell
	c.NextWithSamePriority = NoCell
}
