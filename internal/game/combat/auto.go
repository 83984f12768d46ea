package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/corsair/internal/game/character"
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/turn"
)

// NoAbility in a Decision means the character only moves.
const NoAbility = -1

// Decision is what an AI-controlled character does with its turn: walk to
// Destination (nil or its own cell to stay), then use AbilityID on Target.
type Decision struct {
	Destination *grid.Cell
	AbilityID   int
	Target      *grid.Cell
}

// Pass is the decision to do nothing.
var Pass = Decision{AbilityID: NoAbility}

// Decider chooses AI turns. It must not mutate the session.
type Decider interface {
	Decide(s *Session, c *character.Character) (Decision, error)
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(s *Session, c *character.Character) (Decision, error)

func (f DeciderFunc) Decide(s *Session, c *character.Character) (Decision, error) { return f(s, c) }

// autoTurn plays an AI character's turn. A stunned, downed or dead
// character passes. Once an ability has been used the turn ends through
// its bookkeeping, possibly after a skillcheck completes.
func (s *Session) autoTurn(a turn.Actor) error {
	c, ok := s.characters[a.ID()]
	if !ok || !c.CanMove() || s.decider == nil {
		s.turns.EndTurn()
		return nil
	}
	d, err := s.decider.Decide(s, c)
	if err != nil {
		return fmt.Errorf("combat.Session.autoTurn: %s: %w", c.Name(), err)
	}
	if d.Destination != nil && d.Destination != s.grid.LocationOf(c) {
		if t := s.MoveActive(d.Destination); t != nil {
			t.Run()
		}
	}
	if d.AbilityID != NoAbility && d.Target != nil {
		selected, err := s.SelectAbility(d.AbilityID)
		if err != nil {
			return fmt.Errorf("combat.Session.autoTurn: %s: %w", c.Name(), err)
		}
		if selected && s.UseAbility(d.Target) {
			return nil
		}
		s.logger.Debug("ai ability declined", zap.String("actor", c.Name()), zap.Int("ability", d.AbilityID))
	}
	if s.turns.IsActive(c.ID()) {
		s.turns.EndTurn()
	}
	return nil
}
