package combat

import (
	"github.com/cory-johannsen/corsair/internal/game/character"
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/pathfind"
)

// ReachableCells returns the cells the active character can still walk to
// this turn and highlights them.
func (s *Session) ReachableCells() []*grid.Cell {
	c := s.Active()
	if c == nil || s.pending != nil || !c.CanMove() {
		return nil
	}
	cells := s.Reachable(c)
	for _, cell := range cells {
		s.grid.Highlight(cell, grid.HighlightValidMove)
	}
	return cells
}

// Reachable returns the cells c can walk to with its remaining movement,
// without touching highlights.
func (s *Session) Reachable(c *character.Character) []*grid.Cell {
	return s.paths.ReachableCells(s.grid.LocationOf(c), c)
}

// MoveActive plans a walk for the active character toward dest and returns
// the travel to step through, cut short where movement runs out. Moving
// clears the ability selection. It returns nil, publishing a rejection,
// when no path exists or the character may not act.
func (s *Session) MoveActive(dest *grid.Cell) *pathfind.Travel {
	c, ok := s.actor("move")
	if !ok {
		return nil
	}
	if !s.paths.FindPath(s.grid.LocationOf(c), dest, c) {
		s.reject(c, "move", ReasonInvalidTarget)
		return nil
	}
	t := s.paths.Travel(c)
	if t == nil {
		s.reject(c, "move", ReasonInvalidTarget)
	}
	return t
}

// EndActiveTurn ends the active character's turn. It is rejected while a
// skillcheck is pending.
func (s *Session) EndActiveTurn() bool {
	if s.pending != nil {
		s.reject(s.Active(), "end_turn", ReasonAwaitingCheck)
		return false
	}
	s.resetSelection()
	return s.turns.EndTurn()
}
