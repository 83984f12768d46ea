package combat

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/corsair/internal/game/character"
	"github.com/cory-johannsen/corsair/internal/game/dice"
	"github.com/cory-johannsen/corsair/internal/game/grid"
)

// ErrNoSpawnCell is returned when a side has more characters than free
// spawn cells.
var ErrNoSpawnCell = errors.New("not enough spawn cells")

// PlaceTeams assigns players to grid.TeamPlayer and enemies to
// grid.TeamEnemy, seats them on player and enemy spawn cells respectively,
// each side's cells shuffled, and adds everyone to the turn order by
// initiative.
func (s *Session) PlaceTeams(players, enemies []*character.Character, roller *dice.Roller) error {
	playerCells := s.shuffledSpawns(func(t grid.SpawnType) bool { return t == grid.SpawnPlayer }, roller)
	enemyCells := s.shuffledSpawns(grid.SpawnType.Enemy, roller)
	if len(players) > len(playerCells) {
		return fmt.Errorf("combat.Session.PlaceTeams: %d players: %w", len(players), ErrNoSpawnCell)
	}
	if len(enemies) > len(enemyCells) {
		return fmt.Errorf("combat.Session.PlaceTeams: %d enemies: %w", len(enemies), ErrNoSpawnCell)
	}
	for _, c := range players {
		c.Team = grid.TeamPlayer
	}
	for _, c := range enemies {
		c.Team = grid.TeamEnemy
	}
	all := make([]*character.Character, 0, len(players)+len(enemies))
	all = append(append(all, players...), enemies...)
	for _, init := range RollInitiative(all, roller) {
		c := init.Character
		var at *grid.Cell
		if c.Team == grid.TeamPlayer {
			at, playerCells = playerCells[0], playerCells[1:]
		} else {
			at, enemyCells = enemyCells[0], enemyCells[1:]
		}
		if err := s.AddCharacter(c, at); err != nil {
			return fmt.Errorf("combat.Session.PlaceTeams: %w", err)
		}
	}
	return nil
}

func (s *Session) shuffledSpawns(match func(grid.SpawnType) bool, roller *dice.Roller) []*grid.Cell {
	var cells []*grid.Cell
	for _, c := range s.grid.SpawnCells(match) {
		if c.Free() && c.Traversable {
			cells = append(cells, c)
		}
	}
	for i := len(cells) - 1; i > 0; i-- {
		j := roller.Intn(i + 1)
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}
