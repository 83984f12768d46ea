package character

import (
	"slices"

	"github.com/cory-johannsen/corsair/internal/game/effect"
)

// Effects returns the active effects. Effects removed during the current
// tick are excluded.
func (c *Character) Effects() []effect.Effect {
	out := make([]effect.Effect, 0, len(c.effects))
	for _, e := range c.effects {
		if !slices.Contains(c.removed, e) {
			out = append(out, e)
		}
	}
	return out
}

// RemovedEffects returns the effects removed during the most recent tick.
func (c *Character) RemovedEffects() []effect.Effect { return slices.Clone(c.removed) }

// AddEffect registers a lasting effect.
func (c *Character) AddEffect(e effect.Effect) {
	c.effects = append(c.effects, e)
}

// RemoveEffect unregisters e. During a tick removal is deferred until the
// pass over the active list completes.
func (c *Character) RemoveEffect(e effect.Effect) {
	if c.ticking {
		if !slices.Contains(c.removed, e) && slices.Contains(c.effects, e) {
			c.removed = append(c.removed, e)
		}
		return
	}
	c.effects = slices.DeleteFunc(c.effects, func(x effect.Effect) bool { return x == e })
}

// ClearEffects drops every effect, used when a battle ends.
func (c *Character) ClearEffects() {
	c.effects = nil
	c.removed = nil
}

// tickEffects runs one tick for each effect active when the tick began.
// Effects added during the pass first tick next turn.
func (c *Character) tickEffects() {
	c.removed = c.removed[:0]
	c.ticking = true
	n := len(c.effects)
	for i := 0; i < n; i++ {
		e := c.effects[i]
		if slices.Contains(c.removed, e) {
			continue
		}
		e.Tick(c)
	}
	c.ticking = false
	c.effects = slices.DeleteFunc(c.effects, func(x effect.Effect) bool {
		return slices.Contains(c.removed, x)
	})
}
