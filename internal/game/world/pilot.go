package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/pathfind"
	"github.com/cory-johannsen/corsair/internal/game/player"
	"github.com/cory-johannsen/corsair/internal/game/turn"
)

// Course is an AI ship's plan for one map turn: sail toward Destination,
// then board Board if its ship is alongside.
type Course struct {
	Destination *grid.Cell
	Board       *player.Player
}

// Pilot plots AI ships' courses. It must not mutate the world.
type Pilot interface {
	Plot(w *World, p *player.Player) (Course, error)
}

// PilotFunc adapts a function to Pilot.
type PilotFunc func(w *World, p *player.Player) (Course, error)

func (f PilotFunc) Plot(w *World, p *player.Player) (Course, error) { return f(w, p) }

// Patrol chases the nearest hostile ship it can see and otherwise sails for
// a harbor whose voyage is between MinHarbor and MaxHarbor cells long.
type Patrol struct {
	MinHarbor int
	MaxHarbor int
}

func (pt Patrol) Plot(w *World, p *player.Player) (Course, error) {
	if target := w.VisibleHostile(p); target != nil {
		return Course{Destination: w.berthBeside(p, target), Board: target}, nil
	}
	return Course{Destination: w.NearestHarbor(p, pt.MinHarbor, pt.MaxHarbor)}, nil
}

// VisibleHostile returns the closest ship on another team that p can see.
// A ship is visible within p's own vision range or, for a human target,
// within the range its bounty grants.
func (w *World) VisibleHostile(p *player.Player) *player.Player {
	from := w.grid.LocationOf(p.Ship)
	if from == nil {
		return nil
	}
	var best *player.Player
	bestDist := 0
	for _, o := range w.players {
		if o == p || o.Ship.FriendlyTo(&p.Ship.UnitBase) {
			continue
		}
		at := w.grid.LocationOf(o.Ship)
		if at == nil {
			continue
		}
		vision := p.Ship.VisionRange
		if o.Human() {
			vision = max(vision, VisionForBounty(o.Bounty))
		}
		dist := from.Coordinate().DistanceTo(at.Coordinate())
		if dist > vision {
			continue
		}
		if best == nil || dist < bestDist {
			best, bestDist = o, dist
		}
	}
	return best
}

// Alongside reports whether a's and b's ships lie on neighbouring cells.
func (w *World) Alongside(a, b *player.Player) bool {
	from, to := w.grid.LocationOf(a.Ship), w.grid.LocationOf(b.Ship)
	return from != nil && to != nil && from.Coordinate().DistanceTo(to.Coordinate()) == 1
}

// berthBeside picks the free water cell next to target's ship closest to
// p's ship, or p's own cell when it is already alongside.
func (w *World) berthBeside(p, target *player.Player) *grid.Cell {
	from := w.grid.LocationOf(p.Ship)
	if w.Alongside(p, target) {
		return from
	}
	var best *grid.Cell
	bestDist := 0
	for _, c := range w.paths.Adjacent(w.grid.LocationOf(target.Ship), pathfind.Free, pathfind.Traversable) {
		if !p.Ship.CanEnter(c) {
			continue
		}
		if d := from.Coordinate().DistanceTo(c.Coordinate()); best == nil || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// autoTurn sails an AI player's ship along its pilot's course and boards
// when the course ends alongside the target.
func (w *World) autoTurn(a turn.Actor) error {
	p, ok := w.Player(a.ID())
	if !ok || w.pilot == nil {
		w.turns.EndTurn()
		return nil
	}
	course, err := w.pilot.Plot(w, p)
	if err != nil {
		return fmt.Errorf("world.World.autoTurn: %s: %w", p.Name(), err)
	}
	if dest := course.Destination; dest != nil && dest != w.grid.LocationOf(p.Ship) {
		if w.paths.FindPath(w.grid.LocationOf(p.Ship), dest, p.Ship) {
			if t := w.paths.Travel(p.Ship); t != nil {
				t.Run()
			}
		}
	}
	if course.Board != nil && w.Alongside(p, course.Board) {
		if _, err := w.StartCombat(p, course.Board); err != nil {
			w.logger.Warn("boarding failed", zap.String("player", p.Name()), zap.Error(err))
		} else {
			// The map turn ends when the battle does.
			return nil
		}
	}
	if w.turns.IsActive(p.ID()) {
		w.turns.EndTurn()
	}
	return nil
}
