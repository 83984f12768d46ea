package grid

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/corsair/internal/game/hex"
)

// Default movement profile shared by every unit kind.
const (
	DefaultMovementPoints = 5
	DefaultTerrainCost    = 1
)

// Team groups units that fight on the same side.
type Team int

const (
	TeamPlayer Team = iota
	TeamEnemy
)

func (t Team) String() string {
	if t == TeamPlayer {
		return "player"
	}
	return "enemy"
}

// TeamFor returns the side a unit starts on: the player's side when a human
// controls it.
func TeamFor(playerControlled bool) Team {
	if playerControlled {
		return TeamPlayer
	}
	return TeamEnemy
}

// Unit is anything that stands on a cell and moves through the grid.
//
// Implementations embed UnitBase and supply the entry rules for their kind.
type Unit interface {
	// Base exposes the shared position and movement state.
	Base() *UnitBase
	// CanEnter reports whether the unit may stand on c.
	CanEnter(c *Cell) bool
	// EnterModifier returns the extra cost of entering c travelling in
	// direction d. Zero for units without directional terrain effects.
	EnterModifier(d hex.Direction, c *Cell) int
}

// UnitBase is the state common to every unit kind.
//
// Invariant: location is only changed by the owning Grid, which keeps the
// occupied cell's unit reference in agreement with it.
type UnitBase struct {
	id       string
	location CellID

	Orientation        hex.Direction
	RemainingMovement  int
	DefaultMovement    int
	LandCost           int
	OceanCost          int
	PlayerControlled   bool
	Team               Team
	VisionRange        int
	DefaultVisionRange int
}

// NewUnitBase returns a base with a fresh id and the default movement profile.
func NewUnitBase(playerControlled bool) UnitBase {
	return NewUnitBaseWithID(uuid.NewString(), playerControlled)
}

// NewUnitBaseWithID is NewUnitBase with a caller-supplied id, used when
// restoring saved units.
//
// Precondition: id must be non-empty.
func NewUnitBaseWithID(id string, playerControlled bool) UnitBase {
	if id == "" {
		panic("grid.NewUnitBaseWithID: id must not be empty")
	}
	return UnitBase{
		id:                 id,
		location:           NoCell,
		RemainingMovement:  DefaultMovementPoints,
		DefaultMovement:    DefaultMovementPoints,
		LandCost:           DefaultTerrainCost,
		OceanCost:          DefaultTerrainCost,
		PlayerControlled:   playerControlled,
		Team:               TeamFor(playerControlled),
		VisionRange:        1,
		DefaultVisionRange: 1,
	}
}

// Base implements Unit for embedders.
func (b *UnitBase) Base() *UnitBase { return b }

// ID returns the unit's stable identifier.
func (b *UnitBase) ID() string { return b.id }

// Location returns the cell the unit stands on, or NoCell when unplaced.
func (b *UnitBase) Location() CellID { return b.location }

// Placed reports whether the unit currently stands on a cell.
func (b *UnitBase) Placed() bool { return b.location != NoCell }

// TerrainCost returns the base cost of entering c for this unit.
func (b *UnitBase) TerrainCost(c *Cell) int {
	if c.Land {
		return b.LandCost
	}
	return b.OceanCost
}

// ResetMovement restores the full per-turn movement budget.
func (b *UnitBase) ResetMovement() {
	b.RemainingMovement = b.DefaultMovement
}

// FriendlyTo reports whether two units fight on the same side.
func (b *UnitBase) FriendlyTo(other *UnitBase) bool {
	return b.Team == other.Team
}
