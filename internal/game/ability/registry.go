package ability

import (
	"errors"
	"slices"
)

// ErrUnknownAbility is returned when an ID is not in the registry.
var ErrUnknownAbility = errors.New("unknown ability")

// Registry holds all known abilities keyed by stable ID.
type Registry struct {
	defs map[int]*Ability
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[int]*Ability)}
}

// Register adds a, overwriting any existing entry with the same ID.
// Precondition: a must not be nil.
func (r *Registry) Register(a *Ability) {
	r.defs[a.ID] = a
}

// Get returns the ability for id, or (nil, false) if not found.
func (r *Registry) Get(id int) (*Ability, bool) {
	a, ok := r.defs[id]
	return a, ok
}

// All returns every ability ordered by ID.
func (r *Registry) All() []*Ability {
	out := make([]*Ability, 0, len(r.defs))
	for _, a := range r.defs {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b *Ability) int { return a.ID - b.ID })
	return out
}

// Len returns the number of registered abilities.
func (r *Registry) Len() int { return len(r.defs) }
