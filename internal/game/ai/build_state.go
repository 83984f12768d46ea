package ai

import (
	"github.com/cory-johannsen/corsair/internal/game/character"
	"github.com/cory-johannsen/corsair/internal/game/combat"
	"github.com/cory-johannsen/corsair/internal/game/stats"
)

// BuildWorldState snapshots a running battle from c's point of view.
//
// Precondition: s and c must not be nil; c must be in s.
// Postcondition: ws.Actor.ID == c.ID(); every character of s is represented.
func BuildWorldState(s *combat.Session, c *character.Character) *WorldState {
	g := s.Grid()
	origin := g.LocationOf(c)
	ws := &WorldState{}
	for _, other := range s.Characters() {
		u := unitState(other)
		u.Cell = g.LocationOf(other)
		if origin != nil && u.Cell != nil {
			u.Distance = origin.Coordinate().DistanceTo(u.Cell.Coordinate())
		}
		if other == c {
			ws.Actor = u
		}
		ws.Units = append(ws.Units, u)
	}
	if ws.Actor == nil {
		ws.Actor = unitState(c)
		ws.Actor.Cell = origin
		ws.Units = append(ws.Units, ws.Actor)
	}
	return ws
}

func unitState(c *character.Character) *UnitState {
	vit, energy := c.Pool(stats.Vitality), c.Pool(stats.Energy)
	return &UnitState{
		ID:          c.ID(),
		Name:        c.Name(),
		Role:        c.Role,
		Team:        c.Team,
		Vitality:    vit.Current(),
		MaxVitality: vit.Max(),
		Energy:      energy.Current(),
		MaxEnergy:   energy.Max(),
		Downed:      c.Downed(),
		Dead:        c.Dead(),
	}
}
