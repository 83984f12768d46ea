package ai

import (
	"errors"

	lua "github.com/yuin/gopher-lua"
)

// RootTask is the task every plan starts from.
const RootTask = "behave"

// maxSteps bounds how many tasks and operators one plan may visit, so a
// self-recursive domain still yields a finite plan.
const maxSteps = 32

// ScriptCaller evaluates Lua preconditions. An undefined hook returns
// (LNil, nil).
type ScriptCaller interface {
	CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error)
}

// PlannedAction is one primitive action produced by the planner.
type PlannedAction struct {
	Operator string
	// Method is the method whose decomposition produced the operator.
	Method   string
	Action   string
	// Target is the resolved unit id; empty for pass or when nobody matches.
	Target   string
}

// Planner turns one domain into ordered candidate actions for a crew
// member's turn. Earlier actions are preferred; later ones are fallbacks.
type Planner struct {
	domain *Domain
	caller ScriptCaller
	scope  string
}

// NewPlanner constructs a Planner whose preconditions run in scope.
//
// Precondition: domain and caller must not be nil.
func NewPlanner(domain *Domain, caller ScriptCaller, scope string) *Planner {
	if domain == nil {
		panic("ai.NewPlanner: domain must not be nil")
	}
	if caller == nil {
		panic("ai.NewPlanner: caller must not be nil")
	}
	return &Planner{domain: domain, caller: caller, scope: scope}
}

// Domain returns the planner's domain.
func (p *Planner) Domain() *Domain { return p.domain }

// Plan decomposes RootTask depth-first against state. Each compound task
// takes the first method whose precondition holds for the actor; a task
// with no applicable method contributes nothing.
//
// Precondition: state and state.Actor must not be nil.
// Postcondition: the plan is non-nil and visits at most maxSteps nodes.
// Failing preconditions count as false and are never returned as errors.
func (p *Planner) Plan(state *WorldState) ([]PlannedAction, error) {
	if state == nil || state.Actor == nil {
		return nil, errors.New("ai.Planner.Plan: state and state.Actor must not be nil")
	}
	w := decomposition{
		planner: p,
		state:   state,
		actor:   lua.LString(state.Actor.ID),
		budget:  maxSteps,
		plan:    []PlannedAction{},
	}
	w.expand(RootTask, "")
	return w.plan, nil
}

// decomposition is the state of one Plan call.
type decomposition struct {
	planner *Planner
	state   *WorldState
	actor   lua.LValue
	budget  int
	plan    []PlannedAction
}

func (w *decomposition) expand(id, via string) {
	if w.budget == 0 {
		return
	}
	w.budget--

	if op, ok := w.planner.domain.OperatorByID(id); ok {
		w.plan = append(w.plan, PlannedAction{
			Operator: op.ID,
			Method:   via,
			Action:   op.Action,
			Target:   w.state.ResolveTarget(op.Target),
		})
		return
	}
	m := w.planner.applicable(id, w.actor)
	if m == nil {
		return
	}
	for _, sub := range m.Subtasks {
		w.expand(sub, m.ID)
	}
}

// applicable returns the first method of taskID, in declaration order,
// whose precondition is empty or evaluates truthy in Lua.
func (p *Planner) applicable(taskID string, actor lua.LValue) *Method {
	for _, m := range p.domain.MethodsForTask(taskID) {
		if m.Precondition == "" {
			return m
		}
		if v, err := p.caller.CallHook(p.scope, m.Precondition, actor); err == nil && lua.LVAsBool(v) {
			return m
		}
	}
	return nil
}
