// Package character defines crew members: units with resource pools,
// attributes, lasting effects and an ability list, who can be downed and
// die in combat.
package character

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/cory-johannsen/corsair/internal/game/ability"
	"github.com/cory-johannsen/corsair/internal/game/effect"
	"github.com/cory-johannsen/corsair/internal/game/event"
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/hex"
	"github.com/cory-johannsen/corsair/internal/game/stats"
	"github.com/cory-johannsen/corsair/internal/game/turn"
)

const (
	// DefaultEnergyRegen is the energy a character regains at the start of
	// each combat turn it can act in.
	DefaultEnergyRegen = 10
	// DefaultDownTurns is how many of its own turns a downed character
	// survives before dying.
	DefaultDownTurns = 3
)

// ErrAbilityNotOwned is returned when a character is asked to use an
// ability it does not have. Callers should treat it as a programming error.
var ErrAbilityNotOwned = errors.New("ability not owned by character")

// Condition is a status derived from active effects.
type Condition int

const (
	Stunned Condition = iota
	Bleeding
	Poisoned
)

func (c Condition) kind() effect.Kind {
	switch c {
	case Stunned:
		return effect.Stun
	case Bleeding:
		return effect.Bleed
	default:
		return effect.Poison
	}
}

// Character is a crew member.
//
// Invariant: outside a tick, effects never contains an effect in removed.
type Character struct {
	grid.UnitBase

	name        string
	pools       [len(stats.Resources)]stats.Pool
	attributes  map[stats.Attribute]int
	abilities   []int
	effects     []effect.Effect
	removed     []effect.Effect
	ticking     bool
	downed      bool
	dead        bool
	downCounter int
	saved       *hex.Coordinate
	events      *event.Bus

	EnergyRegen int
	DownTurns   int

	// Role and Domain come from the crew template. Domain names the
	// behaviour the character follows when the AI plays it.
	Role   string
	Domain string
}

// New returns a character with full pools of the given sizes. Pools not
// listed in pools start at zero capacity.
//
// Precondition: name must be non-empty.
func New(name string, playerControlled bool, pools map[stats.Resource]int, attributes map[stats.Attribute]int, abilities []int) *Character {
	if name == "" {
		panic("character.New: name must not be empty")
	}
	c := &Character{
		UnitBase:    grid.NewUnitBase(playerControlled),
		name:        name,
		attributes:  make(map[stats.Attribute]int, len(attributes)),
		abilities:   slices.Clone(abilities),
		EnergyRegen: DefaultEnergyRegen,
		DownTurns:   DefaultDownTurns,
		downCounter: DefaultDownTurns,
	}
	for r, size := range pools {
		c.pools[r] = stats.NewPool(size)
	}
	for a, v := range attributes {
		c.attributes[a] = v
	}
	return c
}

// NewWithID is New with a caller-supplied unit id, used when restoring
// saved crews.
func NewWithID(id, name string, playerControlled bool, pools map[stats.Resource]int, attributes map[stats.Attribute]int, abilities []int) *Character {
	c := New(name, playerControlled, pools, attributes, abilities)
	c.UnitBase = grid.NewUnitBaseWithID(id, playerControlled)
	return c
}

// SetEvents routes downed and death notifications to bus.
func (c *Character) SetEvents(bus *event.Bus) { c.events = bus }

func (c *Character) Name() string { return c.name }

// Human implements turn.Actor.
func (c *Character) Human() bool { return c.PlayerControlled }

// Pool returns the named resource pool.
func (c *Character) Pool(r stats.Resource) *stats.Pool { return &c.pools[r] }

// Attribute returns the base value of a plus every active modifier.
func (c *Character) Attribute(a stats.Attribute) int {
	v := c.attributes[a]
	for _, e := range c.Effects() {
		if m, ok := e.(*effect.StatModifier); ok && m.Attribute() == a {
			v += m.Amount()
		}
	}
	return v
}

// BaseAttribute returns a without modifiers.
func (c *Character) BaseAttribute(a stats.Attribute) int { return c.attributes[a] }

// Abilities returns the owned ability ids in slot order.
func (c *Character) Abilities() []int { return slices.Clone(c.abilities) }

// Owns reports whether the character has ability id.
func (c *Character) Owns(id int) bool { return slices.Contains(c.abilities, id) }

// SelectAbility resolves an owned ability from reg.
//
// Postcondition: err wraps ErrAbilityNotOwned when the character lacks id,
// or ability.ErrUnknownAbility when reg does not define it.
func (c *Character) SelectAbility(reg *ability.Registry, id int) (*ability.Ability, error) {
	if !c.Owns(id) {
		return nil, fmt.Errorf("character.Character.SelectAbility: %s: ability %d: %w", c.name, id, ErrAbilityNotOwned)
	}
	a, ok := reg.Get(id)
	if !ok {
		return nil, fmt.Errorf("character.Character.SelectAbility: %s: ability %d: %w", c.name, id, ability.ErrUnknownAbility)
	}
	return a, nil
}

// CanEnter implements grid.Unit.
func (c *Character) CanEnter(cell *grid.Cell) bool { return cell.Free() && cell.Traversable }

// EnterModifier implements grid.Unit; characters ignore currents.
func (c *Character) EnterModifier(hex.Direction, *grid.Cell) int { return 0 }

// Downed reports whether the character is out of vitality but alive.
func (c *Character) Downed() bool { return c.downed }

// Dead reports whether the character has died.
func (c *Character) Dead() bool { return c.dead }

// DownCounter returns the remaining turns before a downed character dies.
func (c *Character) DownCounter() int { return c.downCounter }

// Stunned reports whether a stun is active.
func (c *Character) Stunned() bool { return c.Has(Stunned) }

// Has reports whether cond is active.
func (c *Character) Has(cond Condition) bool { return effect.Has(c, cond.kind()) }

// ConditionCount returns how many effects cause cond.
func (c *Character) ConditionCount(cond Condition) int { return effect.Count(c, cond.kind()) }

// CanMove reports whether the character may move or act this turn.
func (c *Character) CanMove() bool { return !c.downed && !c.dead && !c.Stunned() }

// Activate implements turn.Actor.
func (c *Character) Activate(mode turn.Mode) {
	switch mode {
	case turn.Combat:
		if c.CanMove() {
			c.ResetMovement()
			c.pools[stats.Energy].Add(c.EnergyRegen)
		} else {
			c.RemainingMovement = 0
		}
	case turn.Management:
		c.RemainingMovement = math.MaxInt
	case turn.Map:
	}
}

// EndTurn implements turn.Actor: lasting effects tick, then a downed
// character's counter runs down.
func (c *Character) EndTurn() {
	c.tickEffects()
	c.CheckDowned()
	if c.downed && !c.dead {
		c.downCounter--
		if c.downCounter <= 0 {
			c.dead = true
			c.events.Publish(event.CharacterDied, event.CharacterPayload{CharacterID: c.ID(), Name: c.name})
		}
	}
}

// CheckDowned updates the downed flag from vitality and reports it. A
// character healed above zero gets back up.
func (c *Character) CheckDowned() bool {
	if c.dead {
		return true
	}
	down := c.pools[stats.Vitality].Current() <= 0
	if down && !c.downed {
		c.events.Publish(event.CharacterDowned, event.CharacterPayload{CharacterID: c.ID(), Name: c.name})
	}
	c.downed = down
	return down
}

// Revive clears downed and dead state and refills the down counter, used
// when a crew returns to its ship.
func (c *Character) Revive(vitality int) {
	c.dead = false
	c.downed = false
	c.downCounter = c.DownTurns
	c.pools[stats.Vitality].Set(vitality)
}

// SaveLocation records where the character stands aboard its ship.
func (c *Character) SaveLocation(at hex.Coordinate) { c.saved = &at }

// SavedLocation returns the recorded ship location.
func (c *Character) SavedLocation() (hex.Coordinate, bool) {
	if c.saved == nil {
		return hex.Coordinate{}, false
	}
	return *c.saved, true
}
