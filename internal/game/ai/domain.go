// Package ai implements the Hierarchical Task Network (HTN) planner that
// plays AI-controlled crew in battle.
//
// A domain decomposes the root task through ordered methods whose
// preconditions are Lua hooks. The leaves are operators: one crew action
// aimed at a target selector such as the nearest enemy.
package ai

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Task is an abstract goal that can be decomposed by methods.
type Task struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
}

// Method decomposes a task into an ordered list of subtasks or operator IDs.
// An empty Precondition always applies; otherwise it names a Lua function
// called with the acting character's id.
type Method struct {
	TaskID       string   `yaml:"task"`
	ID           string   `yaml:"id"`
	Precondition string   `yaml:"precondition"`
	Subtasks     []string `yaml:"subtasks"`
}

// Operator actions.
const (
	ActionAttack  = "attack"  // use a harmful ability on the target
	ActionHeal    = "heal"    // use a healing ability on the target
	ActionSpawn   = "spawn"   // place an object next to the target
	ActionAdvance = "advance" // walk toward the target
	ActionRetreat = "retreat" // walk away from the target
	ActionPass    = "pass"
)

// Target selectors resolved against the planning snapshot. Any other
// operator target is taken as a literal unit id.
const (
	TargetNearestEnemy = "nearest_enemy"
	TargetWeakestEnemy = "weakest_enemy"
	TargetWeakestAlly  = "weakest_ally"
	TargetSelf         = "self"
)

var knownActions = map[string]bool{
	ActionAttack:  true,
	ActionHeal:    true,
	ActionSpawn:   true,
	ActionAdvance: true,
	ActionRetreat: true,
	ActionPass:    true,
}

// Operator is a primitive action that maps directly to a combat action.
type Operator struct {
	ID     string `yaml:"id"`
	Action string `yaml:"action"`
	Target string `yaml:"target"`
}

// Domain holds the full HTN domain loaded from a YAML file.
//
// Invariant: after a successful Validate all Task, Method and Operator IDs
// are unique and every reference resolves.
type Domain struct {
	ID          string      `yaml:"id"`
	Description string      `yaml:"description"`
	Tasks       []*Task     `yaml:"tasks"`
	Methods     []*Method   `yaml:"methods"`
	Operators   []*Operator `yaml:"operators"`

	operators map[string]*Operator
	methods   map[string][]*Method
}

// index builds the operator and method lookups.
func (d *Domain) index() {
	d.operators = make(map[string]*Operator, len(d.Operators))
	for _, op := range d.Operators {
		if _, dup := d.operators[op.ID]; !dup {
			d.operators[op.ID] = op
		}
	}
	d.methods = make(map[string][]*Method)
	for _, m := range d.Methods {
		d.methods[m.TaskID] = append(d.methods[m.TaskID], m)
	}
}

// Validate reports every structural problem in d at once.
//
// Postcondition: nil means d has an ID and a "behave" root task. Every task
// has at least one method and every method has subtasks naming known tasks
// or operators. Every operator has a known action, and every action other
// than pass has a target. Heals are never aimed at enemies, and no ID repeats.
func (d *Domain) Validate() error {
	if d.ID == "" {
		return errors.New("ai.Domain: id must not be empty")
	}
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("ai.Domain %q: "+format, append([]any{d.ID}, args...)...))
	}

	tasks := make(map[string]bool, len(d.Tasks))
	for _, t := range d.Tasks {
		switch {
		case t.ID == "":
			fail("task has empty id")
		case tasks[t.ID]:
			fail("duplicate task %q", t.ID)
		}
		tasks[t.ID] = true
	}
	if !tasks[RootTask] {
		fail("missing root task %q", RootTask)
	}

	ops := make(map[string]bool, len(d.Operators))
	for _, op := range d.Operators {
		switch {
		case op.ID == "":
			fail("operator has empty id")
		case ops[op.ID]:
			fail("duplicate operator %q", op.ID)
		case tasks[op.ID]:
			fail("operator %q shadows a task", op.ID)
		}
		ops[op.ID] = true
		switch {
		case !knownActions[op.Action]:
			fail("operator %q: unknown action %q", op.ID, op.Action)
		case op.Action == ActionPass && op.Target != "":
			fail("operator %q: pass takes no target", op.ID)
		case op.Action != ActionPass && op.Target == "":
			fail("operator %q: %s needs a target", op.ID, op.Action)
		case op.Action == ActionHeal && strings.HasSuffix(op.Target, "_enemy"):
			fail("operator %q: heal aimed at %s", op.ID, op.Target)
		}
	}

	methods := make(map[string]bool, len(d.Methods))
	decomposed := make(map[string]bool, len(d.Tasks))
	for _, m := range d.Methods {
		switch {
		case m.ID == "":
			fail("method for task %q has empty id", m.TaskID)
		case methods[m.ID]:
			fail("duplicate method %q", m.ID)
		}
		methods[m.ID] = true
		if !tasks[m.TaskID] {
			fail("method %q decomposes unknown task %q", m.ID, m.TaskID)
		}
		decomposed[m.TaskID] = true
		if len(m.Subtasks) == 0 {
			fail("method %q has no subtasks", m.ID)
		}
		for _, sub := range m.Subtasks {
			if !tasks[sub] && !ops[sub] {
				fail("method %q: subtask %q is neither a task nor an operator", m.ID, sub)
			}
		}
	}
	for _, t := range d.Tasks {
		if t.ID != "" && !decomposed[t.ID] {
			fail("task %q has no methods", t.ID)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	d.index()
	return nil
}

// OperatorByID returns the operator with the given ID, or false if not found.
func (d *Domain) OperatorByID(id string) (*Operator, bool) {
	if d.operators == nil {
		d.index()
	}
	op, ok := d.operators[id]
	return op, ok
}

// MethodsForTask returns all methods that decompose taskID, in declaration order.
func (d *Domain) MethodsForTask(taskID string) []*Method {
	if d.methods == nil {
		d.index()
	}
	return d.methods[taskID]
}

type domainFile struct {
	Domain *Domain `yaml:"domain"`
}

// ParseDomain decodes and validates one domain document. Unknown keys are
// rejected.
func ParseDomain(data []byte) (*Domain, error) {
	var f domainFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	if f.Domain == nil {
		return nil, errors.New("missing top-level 'domain' key")
	}
	if err := f.Domain.Validate(); err != nil {
		return nil, err
	}
	return f.Domain, nil
}

// LoadDomains parses every *.yaml file in dir, in file name order.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns an error naming the first file that fails to parse
// or validate, or when two files declare the same domain ID. An empty
// directory yields no domains and no error.
func LoadDomains(dir string) ([]*Domain, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ai.LoadDomains: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var domains []*Domain
	seen := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: %w", err)
		}
		d, err := ParseDomain(data)
		if err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: %s: %w", e.Name(), err)
		}
		if prev, dup := seen[d.ID]; dup {
			return nil, fmt.Errorf("ai.LoadDomains: %s: domain %q already declared in %s", e.Name(), d.ID, prev)
		}
		seen[d.ID] = e.Name()
		domains = append(domains, d)
	}
	return domains, nil
}
