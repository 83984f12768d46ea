// Package skillcheck decides hit, miss and critical outcomes for contested
// actions. The combat session talks to an Oracle and never rolls dice
// itself.
package skillcheck

import (
	"github.com/cory-johannsen/corsair/internal/game/dice"
	"github.com/cory-johannsen/corsair/internal/game/stats"
)

// Outcome is the result of one contested check against one target.
type Outcome int

const (
	Miss Outcome = iota
	NormalHit
	CriticalHit
)

func (o Outcome) String() string {
	switch o {
	case Miss:
		return "miss"
	case NormalHit:
		return "hit"
	case CriticalHit:
		return "critical"
	default:
		return "unknown"
	}
}

// Hit reports whether the outcome lands.
func (o Outcome) Hit() bool { return o != Miss }

// Participant is a character taking part in a check.
type Participant interface {
	ID() string
	Name() string
	Attribute(a stats.Attribute) int
}

// Request describes one contested check: the attacker's skill against each
// hostile and friendly target's defence.
type Request struct {
	Attacker        Participant
	Hostile         []Participant
	Friendly        []Participant
	AttackerSkill   stats.Attribute
	HostileDefense  stats.Attribute
	FriendlyDefense stats.Attribute
}

// Callback receives the outcomes in the same order as the request's targets.
type Callback func(hostile, friendly []Outcome)

// Oracle resolves contested checks. It may invoke cb before StartContested
// returns or at any later time, and must invoke it at most once.
type Oracle interface {
	StartContested(req Request, cb Callback)
}

// AllHit returns n NormalHit outcomes, used for abilities without a check.
func AllHit(n int) []Outcome {
	out := make([]Outcome, n)
	for i := range out {
		out[i] = NormalHit
	}
	return out
}

// Unopposed is the difficulty a check faces when the target has no
// defence attribute.
const Unopposed = 10

// CriticalMargin is how far an attack must beat the defence to crit.
const CriticalMargin = 10

// DiceOracle resolves checks immediately with opposed d20 rolls.
type DiceOracle struct {
	roller *dice.Roller
}

// NewDiceOracle returns an oracle rolling through r.
//
// Precondition: r must be non-nil.
func NewDiceOracle(r *dice.Roller) *DiceOracle {
	if r == nil {
		panic("skillcheck.NewDiceOracle: roller must not be nil")
	}
	return &DiceOracle{roller: r}
}

// StartContested rolls every check and calls cb synchronously.
func (o *DiceOracle) StartContested(req Request, cb Callback) {
	hostile := o.contest(req.Attacker, req.AttackerSkill, req.Hostile, req.HostileDefense)
	friendly := o.contest(req.Attacker, req.AttackerSkill, req.Friendly, req.FriendlyDefense)
	cb(hostile, friendly)
}

func (o *DiceOracle) contest(attacker Participant, skill stats.Attribute, targets []Participant, defense stats.Attribute) []Outcome {
	out := make([]Outcome, len(targets))
	for i, target := range targets {
		bonus := 0
		if attacker != nil && skill != stats.None {
			bonus = attacker.Attribute(skill)
		}
		attack := o.roller.D20("attack "+target.Name(), bonus)
		dc := Unopposed
		if defense != stats.None {
			dc = o.roller.D20("defend "+target.Name(), target.Attribute(defense))
		}
		out[i] = Resolve(attack, dc)
	}
	return out
}

// Resolve classifies an attack total against a defence total.
func Resolve(attack, defense int) Outcome {
	switch margin := attack - defense; {
	case margin >= CriticalMargin:
		return CriticalHit
	case margin >= 0:
		return NormalHit
	default:
		return Miss
	}
}
