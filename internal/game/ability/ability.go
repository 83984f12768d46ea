// Package ability defines the immutable ability catalogue characters draw
// their actions from, and applies abilities to resolved targets.
package ability

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/corsair/internal/game/effect"
	"github.com/cory-johannsen/corsair/internal/game/skillcheck"
	"github.com/cory-johannsen/corsair/internal/game/stats"
	"github.com/cory-johannsen/corsair/internal/game/targeting"
)

// ObjectSpec describes a stationary object an ability places on its target
// cell. Each user keeps at most one such object; a new one replaces the old.
type ObjectSpec struct {
	Kind        string
	HealPerTurn int
}

// Ability is a shared, read-only definition looked up by ID.
type Ability struct {
	ID          int
	Name        string
	Description string
	Icon        string
	Cost        int

	// UserCheck is the attacker's skill. None means the ability always hits.
	UserCheck     stats.Attribute
	HostileCheck  stats.Attribute
	FriendlyCheck stats.Attribute

	Effects   []effect.Spec
	Targeting targeting.Rule
	Spawn     *ObjectSpec
}

// RequiresSkillcheck reports whether using the ability needs an oracle.
func (a *Ability) RequiresSkillcheck() bool {
	return a.UserCheck != stats.None
}

// Harmful reports whether the ability hurts or hinders hostile targets.
func (a *Ability) Harmful() bool {
	for _, e := range a.Effects {
		if e.Hostile && e.Kind != effect.Heal {
			return true
		}
	}
	return false
}

// Heals reports whether the ability restores vitality to friendly targets.
func (a *Ability) Heals() bool {
	for _, e := range a.Effects {
		if e.Friendly && e.Kind == effect.Heal {
			return true
		}
	}
	return false
}

// Use applies every effect, in declaration order, to each target whose
// outcome is not a miss. Outcomes pair with targets by index; a missing
// outcome counts as a miss. It returns the number of effect applications.
func (a *Ability) Use(hostile []effect.Target, hostileOutcomes []skillcheck.Outcome, friendly []effect.Target, friendlyOutcomes []skillcheck.Outcome) int {
	return a.apply(hostile, hostileOutcomes, true) + a.apply(friendly, friendlyOutcomes, false)
}

// UseAutoHit is Use with every outcome a NormalHit.
func (a *Ability) UseAutoHit(hostile, friendly []effect.Target) int {
	return a.Use(hostile, skillcheck.AllHit(len(hostile)), friendly, skillcheck.AllHit(len(friendly)))
}

func (a *Ability) apply(targets []effect.Target, outcomes []skillcheck.Outcome, hostile bool) int {
	n := 0
	for i, t := range targets {
		if i >= len(outcomes) || !outcomes[i].Hit() {
			continue
		}
		crit := outcomes[i] == skillcheck.CriticalHit
		for _, spec := range a.Effects {
			if !spec.AppliesTo(hostile) {
				continue
			}
			spec.New(crit).Apply(t)
			n++
		}
	}
	return n
}

// EffectDescription joins the descriptions of the ability's effects.
func (a *Ability) EffectDescription() string {
	parts := make([]string, 0, len(a.Effects))
	for _, s := range a.Effects {
		parts = append(parts, s.Description())
	}
	return strings.Join(parts, ". ")
}

// LogMessage renders the combat log line for a use that hit the named
// targets: "Used X on A, B and C." or, with no targets, the miss line.
func (a *Ability) LogMessage(targets []string) string {
	switch len(targets) {
	case 0:
		return fmt.Sprintf("Used %s but completely failed at aiming.", a.Name)
	case 1:
		return fmt.Sprintf("Used %s on %s.", a.Name, targets[0])
	default:
		head := strings.Join(targets[:len(targets)-1], ", ")
		return fmt.Sprintf("Used %s on %s and %s.", a.Name, head, targets[len(targets)-1])
	}
}
