// Package turn sequences actors through their turns and owns the state
// machine that gates who may act.
package turn

import "fmt"

// Mode is the game mode a turn is taken in.
type Mode int

const (
	// Map is the campaign map, where players steer their ships.
	Map Mode = iota
	// Combat is a battle between two crews.
	Combat
	// Management is the crew screen between map moves.
	Management
)

func (m Mode) String() string {
	switch m {
	case Map:
		return "map"
	case Combat:
		return "combat"
	case Management:
		return "management"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Actor is anything that takes turns.
type Actor interface {
	ID() string
	Name() string
	// Human reports whether a human decides this actor's turns.
	Human() bool
	// Activate applies start-of-turn refreshes for mode.
	Activate(mode Mode)
	// EndTurn applies end-of-turn bookkeeping such as effect ticks.
	EndTurn()
}

// Order is the cyclic sequence of actors.
//
// Invariant: -1 <= pos < len(actors); pos is the index of the actor most
// recently returned by Next.
type Order struct {
	actors []Actor
	pos    int
	round  int
}

// NewOrder returns an order over actors in the given sequence.
func NewOrder(actors ...Actor) *Order {
	o := &Order{pos: -1}
	for _, a := range actors {
		o.Add(a)
	}
	return o
}

// Add appends a; actors already present are ignored.
func (o *Order) Add(a Actor) {
	if o.index(a.ID()) >= 0 {
		return
	}
	o.actors = append(o.actors, a)
}

// Remove drops the actor with id. The actor after it keeps its place in
// the cycle, so removing the current actor does not skip anyone.
func (o *Order) Remove(id string) bool {
	i := o.index(id)
	if i < 0 {
		return false
	}
	o.actors = append(o.actors[:i:i], o.actors[i+1:]...)
	if i <= o.pos {
		o.pos--
	}
	return true
}

// Next advances the cycle and returns the new current actor, or nil when
// the order is empty.
func (o *Order) Next() Actor {
	if len(o.actors) == 0 {
		return nil
	}
	o.pos++
	if o.pos >= len(o.actors) || o.round == 0 {
		if o.pos >= len(o.actors) {
			o.pos = 0
		}
		o.round++
	}
	return o.actors[o.pos]
}

// Current returns the actor most recently returned by Next, or nil.
func (o *Order) Current() Actor {
	if o.pos < 0 || o.pos >= len(o.actors) {
		return nil
	}
	return o.actors[o.pos]
}

// Round returns the 1-based round of the current actor; 0 before the
// first Next.
func (o *Order) Round() int { return o.round }

// Len returns the number of actors.
func (o *Order) Len() int { return len(o.actors) }

// Actors returns the actors in cycle order.
func (o *Order) Actors() []Actor {
	out := make([]Actor, len(o.actors))
	copy(out, o.actors)
	return out
}

// Contains reports whether id is in the order.
func (o *Order) Contains(id string) bool { return o.index(id) >= 0 }

func (o *Order) index(id string) int {
	for i, a := range o.actors {
		if a.ID() == id {
			return i
		}
	}
	return -1
}
