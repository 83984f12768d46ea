package effect

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/corsair/internal/game/stats"
)

// Spec is the immutable definition of an effect as declared by an ability.
// Each application instantiates a fresh Effect from it with New.
type Spec struct {
	Kind      Kind
	Amount    int
	Duration  int
	Attribute stats.Attribute
	Hostile   bool
	Friendly  bool
}

// Validate reports definition errors.
func (s Spec) Validate() error {
	var errs []error
	if s.Kind < Damage || s.Kind > Modifier {
		errs = append(errs, fmt.Errorf("unknown kind %d", int(s.Kind)))
	}
	if s.Amount < 0 && s.Kind != Modifier {
		errs = append(errs, fmt.Errorf("%s: amount must be >= 0", s.Kind))
	}
	if s.Duration < 0 {
		errs = append(errs, fmt.Errorf("%s: duration must be >= 0", s.Kind))
	}
	if (s.Kind == Poison || s.Kind == Stun) && s.Duration == 0 {
		errs = append(errs, fmt.Errorf("%s: duration must be > 0", s.Kind))
	}
	if s.Kind == Modifier && s.Attribute == stats.None {
		errs = append(errs, errors.New("modifier: attribute is required"))
	}
	if !s.Hostile && !s.Friendly {
		errs = append(errs, fmt.Errorf("%s: affects neither hostile nor friendly targets", s.Kind))
	}
	return errors.Join(errs...)
}

// AppliesTo reports whether the effect is applied to a target on the given
// side of the acting character.
func (s Spec) AppliesTo(hostile bool) bool {
	if hostile {
		return s.Hostile
	}
	return s.Friendly
}

// Description renders the definition the way a fresh instance would.
func (s Spec) Description() string {
	return s.New(false).Description()
}

// New instantiates the effect. A critical hit doubles damage and healing.
//
// Precondition: s.Validate() == nil.
func (s Spec) New(critical bool) Effect {
	amount := s.Amount
	if critical && (s.Kind == Damage || s.Kind == Heal) {
		amount *= 2
	}
	t := timed{amount: amount, remaining: s.Duration, indefinite: s.Duration == 0}
	switch s.Kind {
	case Damage:
		return &damage{amount: amount}
	case Heal:
		return &heal{amount: amount}
	case LoyaltyDecrease:
		return &loyaltyDecrease{amount: amount}
	case Poison:
		return &poison{t}
	case Bleed:
		return &bleed{t}
	case Stun:
		return &stun{t}
	case Fear:
		return &fear{t}
	case Modifier:
		return &StatModifier{timed: t, attribute: s.Attribute}
	default:
		panic(fmt.Sprintf("effect.Spec.New: unknown kind %d", int(s.Kind)))
	}
}
