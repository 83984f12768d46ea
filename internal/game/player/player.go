// Package player ties a ship to the crew that sails it and to whoever
// decides its moves on the world map.
package player

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/cory-johannsen/corsair/internal/game/character"
	"github.com/cory-johannsen/corsair/internal/game/event"
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/ship"
	"github.com/cory-johannsen/corsair/internal/game/turn"
)

// Deck dimensions. The crew walks the deck between job posts while the
// player manages the ship.
const (
	DeckWidth  = 5
	DeckHeight = 3
)

// Player owns a ship and its crew and takes one turn per round on the world
// map.
//
// Invariant: every living crew member stands on the deck or in a battle,
// never both.
type Player struct {
	id    string
	name  string
	human bool

	Ship   *ship.Ship
	Deck   *grid.Grid
	Bounty int

	dead     []string
	managing bool
}

// New returns a player sailing s with an empty deck.
//
// Precondition: s must be non-nil and name non-empty.
func New(name string, human bool, s *ship.Ship, events *event.Bus) (*Player, error) {
	if s == nil {
		panic("player.New: ship must not be nil")
	}
	if name == "" {
		return nil, fmt.Errorf("player.New: name must not be empty")
	}
	deck, err := grid.NewMap(events, DeckWidth, DeckHeight, true)
	if err != nil {
		return nil, fmt.Errorf("player.New: %w", err)
	}
	return &Player{id: uuid.NewString(), name: name, human: human, Ship: s, Deck: deck}, nil
}

func (p *Player) ID() string   { return p.id }
func (p *Player) Name() string { return p.name }
func (p *Player) Human() bool  { return p.human }

// Crew returns the ship's crew roster.
func (p *Player) Crew() []*character.Character { return p.Ship.Crew.Members() }

// Dead returns the names of crew members lost so far, in order of death.
func (p *Player) Dead() []string { return slices.Clone(p.dead) }

// Managing reports whether the player is in its management phase.
func (p *Player) Managing() bool { return p.managing }

// Recruit signs c onto the crew and places it on the first free deck cell.
func (p *Player) Recruit(c *character.Character) error {
	at := p.freeDeckCell()
	if at == nil {
		return fmt.Errorf("player.Player.Recruit: %s: deck is full", c.Name())
	}
	if err := p.Deck.AddUnit(c, at, 0); err != nil {
		return fmt.Errorf("player.Player.Recruit: %w", err)
	}
	p.Ship.Crew.Add(c)
	return nil
}

// Bury removes a dead crew member from the roster and the deck.
func (p *Player) Bury(c *character.Character) {
	if !p.Ship.Crew.Remove(c.ID()) {
		return
	}
	p.Deck.RemoveUnit(c, true)
	p.dead = append(p.dead, c.Name())
}

// Activate implements turn.Actor. On the world map a human player starts
// its turn managing the ship: the crew simulation runs and crew members
// may walk the deck freely. An AI player's ship is readied to sail.
func (p *Player) Activate(mode turn.Mode) {
	if mode != turn.Map {
		return
	}
	if !p.human {
		p.Ship.ResetMovement()
		return
	}
	p.managing = true
	p.Ship.Crew.Simulate(p.Ship)
	for _, c := range p.Ship.Crew.Alive() {
		c.Activate(turn.Management)
	}
}

// EndManagement leaves the management phase so the ship can sail.
func (p *Player) EndManagement() { p.managing = false }

// EndTurn implements turn.Actor.
func (p *Player) EndTurn() { p.managing = false }

// StowCrew records where every crew member stands on deck and takes them
// off it, ready to be placed on a battle map.
func (p *Player) StowCrew() {
	for _, c := range p.Crew() {
		if at := p.Deck.LocationOf(c); at != nil {
			c.SaveLocation(at.Coordinate())
			p.Deck.RemoveUnit(c, false)
		}
	}
}

// ReturnCrew puts every surviving crew member back on deck, at its saved
// location when that cell is still free. The dead are buried and the
// downed get back up with one vitality.
func (p *Player) ReturnCrew() error {
	for _, c := range p.Crew() {
		c.Team = grid.TeamFor(c.PlayerControlled)
		if c.Dead() {
			p.Bury(c)
			continue
		}
		if c.Downed() {
			c.Revive(1)
		}
		if c.Placed() {
			continue
		}
		at := p.freeDeckCell()
		if saved, ok := c.SavedLocation(); ok {
			if cell := p.Deck.CellAt(saved); cell != nil && cell.Free() {
				at = cell
			}
		}
		if at == nil {
			return fmt.Errorf("player.Player.ReturnCrew: %s: deck is full", c.Name())
		}
		if err := p.Deck.AddUnit(c, at, 0); err != nil {
			return fmt.Errorf("player.Player.ReturnCrew: %w", err)
		}
	}
	return nil
}

func (p *Player) freeDeckCell() *grid.Cell {
	for _, c := range p.Deck.Cells() {
		if c.Free() && c.Traversable {
			return c
		}
	}
	return nil
}
