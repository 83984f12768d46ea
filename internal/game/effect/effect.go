// Package effect implements the state changes abilities inflict on
// characters: instantaneous damage and healing, and lasting statuses that
// tick once at the end of each of their owner's turns.
package effect

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/corsair/internal/game/stats"
)

// Kind identifies an effect variant.
type Kind int

const (
	Damage Kind = iota
	Heal
	Poison
	Stun
	Bleed
	Fear
	LoyaltyDecrease
	Modifier
)

var kindNames = [...]string{"damage", "heal", "poison", "stun", "bleed", "fear", "loyalty_decrease", "modifier"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind resolves a case-insensitive effect kind name.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("effect.ParseKind: unknown effect kind %q", s)
}

// Target is what effects mutate.
//
// Implementations must tolerate RemoveEffect being called from inside Tick.
type Target interface {
	Name() string
	Pool(r stats.Resource) *stats.Pool
	Effects() []Effect
	AddEffect(e Effect)
	RemoveEffect(e Effect)
}

// Effect is one applied instance of an effect definition.
type Effect interface {
	Kind() Kind
	Description() string
	// Apply performs the immediate mutation and, for lasting effects,
	// registers the effect on t.
	Apply(t Target)
	// Tick runs once at the end of each of the owner's turns while the
	// effect is registered.
	Tick(t Target)
	// Lasting reports whether Apply registers the effect on its target.
	Lasting() bool
}

// Has reports whether t carries a registered effect of kind k.
func Has(t Target, k Kind) bool {
	for _, e := range t.Effects() {
		if e.Kind() == k {
			return true
		}
	}
	return false
}

// Count returns the number of registered effects of kind k on t.
func Count(t Target, k Kind) int {
	n := 0
	for _, e := range t.Effects() {
		if e.Kind() == k {
			n++
		}
	}
	return n
}
