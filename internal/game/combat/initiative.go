package combat

import (
	"slices"

	"github.com/cory-johannsen/corsair/internal/game/character"
	"github.com/cory-johannsen/corsair/internal/game/dice"
	"github.com/cory-johannsen/corsair/internal/game/stats"
)

// Initiative pairs a character with its initiative roll.
type Initiative struct {
	Character *character.Character
	Roll      int
}

// RollInitiative rolls d20 + Agility for every character and returns them
// highest first. Ties keep the input order.
//
// Precondition: roller must be non-nil.
func RollInitiative(cs []*character.Character, roller *dice.Roller) []Initiative {
	out := make([]Initiative, len(cs))
	for i, c := range cs {
		out[i] = Initiative{Character: c, Roll: roller.D20("initiative", c.Attribute(stats.Agility))}
	}
	slices.SortStableFunc(out, func(a, b Initiative) int { return b.Roll - a.Roll })
	return out
}
