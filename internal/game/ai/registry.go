package ai

import (
	"fmt"
	"slices"
)

// Registry maps crew domains to their planners. Characters name their
// domain in their crew template; a character whose domain is missing here
// falls back to the built-in plan.
//
// Invariant: each domain ID is registered at most once.
type Registry struct {
	planners map[string]*Planner
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{planners: make(map[string]*Planner)}
}

// Register validates domain and adds a Planner that evaluates its
// preconditions in caller's scope.
//
// Precondition: domain and caller must not be nil.
// Postcondition: an invalid domain or a repeated domain ID leaves the
// registry unchanged and returns an error.
func (r *Registry) Register(domain *Domain, caller ScriptCaller, scope string) error {
	if err := domain.Validate(); err != nil {
		return fmt.Errorf("ai.Registry.Register: %w", err)
	}
	if _, exists := r.planners[domain.ID]; exists {
		return fmt.Errorf("ai.Registry.Register: domain %q already registered", domain.ID)
	}
	r.planners[domain.ID] = NewPlanner(domain, caller, scope)
	return nil
}

// PlannerFor returns the Planner for domainID, or false if not registered.
func (r *Registry) PlannerFor(domainID string) (*Planner, bool) {
	p, ok := r.planners[domainID]
	return p, ok
}

// IDs returns the registered domain IDs in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.planners))
	for id := range r.planners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of registered domains.
func (r *Registry) Len() int { return len(r.planners) }
