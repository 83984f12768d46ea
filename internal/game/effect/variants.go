package effect

import (
	"fmt"

	"github.com/cory-johannsen/corsair/internal/game/stats"
)

type damage struct{ amount int }

func (e *damage) Kind() Kind          { return Damage }
func (e *damage) Lasting() bool       { return false }
func (e *damage) Tick(Target)         {}
func (e *damage) Description() string { return fmt.Sprintf("Deals %d damage", e.amount) }
func (e *damage) Apply(t Target)      { t.Pool(stats.Vitality).Add(-e.amount) }

// heal restores vitality and stops bleeding.
type heal struct{ amount int }

func (e *heal) Kind() Kind          { return Heal }
func (e *heal) Lasting() bool       { return false }
func (e *heal) Tick(Target)         {}
func (e *heal) Description() string { return fmt.Sprintf("Heals %d vitality", e.amount) }

func (e *heal) Apply(t Target) {
	t.Pool(stats.Vitality).Add(e.amount)
	for _, active := range t.Effects() {
		if active.Kind() == Bleed {
			t.RemoveEffect(active)
		}
	}
}

type loyaltyDecrease struct{ amount int }

func (e *loyaltyDecrease) Kind() Kind    { return LoyaltyDecrease }
func (e *loyaltyDecrease) Lasting() bool { return false }
func (e *loyaltyDecrease) Tick(Target)   {}
func (e *loyaltyDecrease) Description() string {
	return fmt.Sprintf("Reduces loyalty by %d", e.amount)
}
func (e *loyaltyDecrease) Apply(t Target) { t.Pool(stats.Loyalty).Add(-e.amount) }

// timed is the shared state of lasting effects. remaining == 0 with
// indefinite set means the effect never expires on its own.
type timed struct {
	amount     int
	remaining  int
	indefinite bool
}

func (s *timed) Lasting() bool { return true }

// Remaining returns the number of ticks left, or 0 for indefinite effects.
func (s *timed) Remaining() int { return s.remaining }

// Amount returns the per-tick magnitude.
func (s *timed) Amount() int { return s.amount }

func (s *timed) duration() string {
	if s.indefinite {
		return ""
	}
	if s.remaining == 1 {
		return " for 1 turn"
	}
	return fmt.Sprintf(" for %d turns", s.remaining)
}

// countdown consumes one tick and removes self from t once expired.
func (s *timed) countdown(t Target, self Effect) {
	if s.indefinite {
		return
	}
	s.remaining--
	if s.remaining <= 0 {
		t.RemoveEffect(self)
	}
}

type poison struct{ timed }

func (e *poison) Kind() Kind     { return Poison }
func (e *poison) Apply(t Target) { t.AddEffect(e) }
func (e *poison) Description() string {
	return fmt.Sprintf("Poisons for %d damage per turn%s", e.amount, e.duration())
}
func (e *poison) Tick(t Target) {
	t.Pool(stats.Vitality).Add(-e.amount)
	e.countdown(t, e)
}

// bleed lasts until healed when created without a duration.
type bleed struct{ timed }

func (e *bleed) Kind() Kind     { return Bleed }
func (e *bleed) Apply(t Target) { t.AddEffect(e) }
func (e *bleed) Description() string {
	if e.indefinite {
		return fmt.Sprintf("Bleeds for %d damage per turn until healed", e.amount)
	}
	return fmt.Sprintf("Bleeds for %d damage per turn%s", e.amount, e.duration())
}
func (e *bleed) Tick(t Target) {
	t.Pool(stats.Vitality).Add(-e.amount)
	e.countdown(t, e)
}

type stun struct{ timed }

func (e *stun) Kind() Kind          { return Stun }
func (e *stun) Apply(t Target)      { t.AddEffect(e) }
func (e *stun) Description() string { return "Stuns" + e.duration() }
func (e *stun) Tick(t Target)       { e.countdown(t, e) }

type fear struct{ timed }

func (e *fear) Kind() Kind     { return Fear }
func (e *fear) Apply(t Target) { t.AddEffect(e) }
func (e *fear) Description() string {
	return fmt.Sprintf("Frightens, draining %d loyalty per turn%s", e.amount, e.duration())
}
func (e *fear) Tick(t Target) {
	t.Pool(stats.Loyalty).Add(-e.amount)
	e.countdown(t, e)
}

// StatModifier adjusts one attribute while registered.
type StatModifier struct {
	timed
	attribute stats.Attribute
}

func (e *StatModifier) Kind() Kind     { return Modifier }
func (e *StatModifier) Apply(t Target) { t.AddEffect(e) }
func (e *StatModifier) Tick(t Target)  { e.countdown(t, e) }

// Attribute returns the modified attribute.
func (e *StatModifier) Attribute() stats.Attribute { return e.attribute }

func (e *StatModifier) Description() string {
	return fmt.Sprintf("%+d %s%s", e.amount, e.attribute, e.duration())
}
