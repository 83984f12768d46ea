package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/corsair/internal/game/character"
	"github.com/cory-johannsen/corsair/internal/game/combat"
	"github.com/cory-johannsen/corsair/internal/game/player"
	"github.com/cory-johannsen/corsair/internal/game/turn"
)

// StartCombat boards defender's ship with attacker's crew. Both crews leave
// their decks for a fresh battle map, the world switches to combat mode, and
// the battle's first turn begins. When the battle ends the survivors return
// to their decks, a crew with nobody left standing loses its ship, and the
// world returns to map mode.
//
// The attacking crew fights as grid.TeamPlayer for the length of the battle.
func (w *World) StartCombat(attacker, defender *player.Player) (*combat.Session, error) {
	if w.battle != nil {
		return nil, fmt.Errorf("world.World.StartCombat: %w", ErrCombatRunning)
	}
	atk, def := fighters(attacker), fighters(defender)
	if len(atk) == 0 {
		return nil, fmt.Errorf("world.World.StartCombat: %s: %w", attacker.Name(), ErrNoCrew)
	}
	if len(def) == 0 {
		return nil, fmt.Errorf("world.World.StartCombat: %s: %w", defender.Name(), ErrNoCrew)
	}
	bg, err := w.battleMap(w.events)
	if err != nil {
		return nil, fmt.Errorf("world.World.StartCombat: %w", err)
	}
	s := combat.NewSession(combat.Deps{
		Grid:      bg,
		Abilities: w.abilities,
		Oracle:    w.oracle,
		Decider:   w.decider,
		Logger:    w.logger,
		LogLimit:  w.battleCfg.LogLimit,
		MaxRounds: w.battleCfg.MaxRounds,
		Autopilot: w.battleCfg.Autopilot,
	})
	attacker.StowCrew()
	defender.StowCrew()
	if err := s.PlaceTeams(atk, def, w.roller); err != nil {
		s.Teardown()
		w.returnCrew(attacker, defender)
		return nil, fmt.Errorf("world.World.StartCombat: %w", err)
	}
	if err := w.engine.Register(s); err != nil {
		return nil, fmt.Errorf("world.World.StartCombat: %w", err)
	}
	w.battle = s
	w.setMode(turn.Combat)
	w.logger.Info("boarding",
		zap.String("attacker", attacker.Name()),
		zap.String("defender", defender.Name()),
		zap.String("combat_id", s.ID().String()),
	)
	s.OnEnd(func(result string) { w.endCombat(s, attacker, defender, result) })
	if err := s.Start(); err != nil {
		return nil, fmt.Errorf("world.World.StartCombat: %w", err)
	}
	return s, nil
}

func (w *World) endCombat(s *combat.Session, attacker, defender *player.Player, result string) {
	w.engine.End(s.ID())
	w.battle = nil
	w.returnCrew(attacker, defender)

	var winner, loser *player.Player
	switch result {
	case combat.Victory:
		winner, loser = attacker, defender
	case combat.Defeat:
		winner, loser = defender, attacker
	}
	if winner != nil && winner.Human() {
		winner.Bounty += BountyPerVictory
	}
	w.logger.Info("battle over", zap.String("result", result), zap.String("attacker", attacker.Name()), zap.String("defender", defender.Name()))
	w.setMode(turn.Map)
	if loser != nil {
		w.RemovePlayer(loser, true)
	}

	if a := w.turns.Active(); a != nil && (a.ID() == attacker.ID() || a.ID() == defender.ID()) {
		w.turns.EndTurn()
	}
}

func (w *World) returnCrew(players ...*player.Player) {
	for _, p := range players {
		if err := p.ReturnCrew(); err != nil {
			w.logger.Warn("crew not returned to deck", zap.String("player", p.Name()), zap.Error(err))
		}
	}
}

// fighters returns the crew members able to board.
func fighters(p *player.Player) []*character.Character {
	var out []*character.Character
	for _, c := range p.Crew() {
		if !c.Dead() && !c.Downed() {
			out = append(out, c)
		}
	}
	return out
}

// Board starts a battle between the active human player and target, whose
// ship must lie alongside. The boarding ends the player's management phase.
func (w *World) Board(target *player.Player) (*combat.Session, error) {
	p := w.Active()
	if p == nil || !p.Human() {
		return nil, fmt.Errorf("world.World.Board: no human player is active")
	}
	if !w.Alongside(p, target) {
		return nil, fmt.Errorf("world.World.Board: %s is not alongside %s", target.Name(), p.Name())
	}
	p.EndManagement()
	return w.StartCombat(p, target)
}
