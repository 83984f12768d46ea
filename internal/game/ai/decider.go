package ai

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/corsair/internal/game/ability"
	"github.com/cory-johannsen/corsair/internal/game/character"
	"github.com/cory-johannsen/corsair/internal/game/combat"
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/stats"
	"github.com/cory-johannsen/corsair/internal/scripting"
)

// ScriptScope is the scripting scope crew preconditions are loaded into.
const ScriptScope = "ai"

// fallbackPlan is followed by characters whose domain is not registered.
var fallbackPlan = []*Operator{
	{ID: "attack_nearest", Action: ActionAttack, Target: TargetNearestEnemy},
	{ID: "advance_nearest", Action: ActionAdvance, Target: TargetNearestEnemy},
}

// Decider plays AI-controlled characters by planning with the HTN domain
// named by each character's Domain and carrying out the first planned
// action that is possible this turn.
//
// Decide calls are serialized; the snapshot being planned is exposed to Lua
// through the scripting manager's unit callbacks for the duration of a call.
type Decider struct {
	mu       sync.Mutex
	planners *Registry
	logger   *zap.Logger
	current  *WorldState
}

// NewDecider returns a Decider over planners. When scripts is non-nil its
// unit callbacks are pointed at the snapshot being planned.
//
// Precondition: planners must not be nil.
func NewDecider(planners *Registry, scripts *scripting.Manager, logger *zap.Logger) *Decider {
	if planners == nil {
		panic("ai.NewDecider: planners must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Decider{planners: planners, logger: logger}
	if scripts != nil {
		scripts.GetUnit = d.unitInfo
		scripts.GetEnemies = d.enemyInfo
		scripts.GetAllies = d.allyInfo
	}
	return d
}

// Load reads every domain in domainDir and the Lua preconditions in
// scriptDir, and returns a Decider backed by them.
func Load(domainDir, scriptDir string, scripts *scripting.Manager, instLimit int, logger *zap.Logger) (*Decider, error) {
	domains, err := LoadDomains(domainDir)
	if err != nil {
		return nil, err
	}
	if err := scripts.LoadScope(ScriptScope, scriptDir, instLimit); err != nil {
		return nil, fmt.Errorf("ai.Load: %w", err)
	}
	reg := NewRegistry()
	for _, dom := range domains {
		if err := reg.Register(dom, scripts, ScriptScope); err != nil {
			return nil, fmt.Errorf("ai.Load: %w", err)
		}
	}
	d := NewDecider(reg, scripts, logger)
	d.logger.Info("ai domains loaded", zap.Strings("domains", reg.IDs()))
	return d, nil
}

// Decide implements combat.Decider.
//
// Postcondition: never mutates s; returns combat.Pass when no planned
// action can be carried out.
func (d *Decider) Decide(s *combat.Session, c *character.Character) (combat.Decision, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ws := BuildWorldState(s, c)
	d.current = ws
	defer func() { d.current = nil }()

	var plan []PlannedAction
	if p, ok := d.planners.PlannerFor(c.Domain); ok {
		var err error
		if plan, err = p.Plan(ws); err != nil {
			return combat.Pass, fmt.Errorf("ai.Decider.Decide: %w", err)
		}
	} else {
		for _, op := range fallbackPlan {
			plan = append(plan, PlannedAction{Operator: op.ID, Method: "fallback", Action: op.Action, Target: ws.ResolveTarget(op.Target)})
		}
	}

	for _, a := range plan {
		if dec, ok := d.realize(s, c, ws, a); ok {
			d.logger.Debug("ai decision",
				zap.String("actor", c.Name()),
				zap.String("domain", c.Domain),
				zap.String("method", a.Method),
				zap.String("operator", a.Operator),
				zap.String("target", a.Target),
				zap.Int("ability", dec.AbilityID),
			)
			return dec, nil
		}
	}
	return combat.Pass, nil
}

func (d *Decider) realize(s *combat.Session, c *character.Character, ws *WorldState, a PlannedAction) (combat.Decision, bool) {
	if a.Action == ActionPass {
		return combat.Pass, true
	}
	target := ws.Unit(a.Target)
	if target == nil || target.Cell == nil {
		return combat.Decision{}, false
	}
	switch a.Action {
	case ActionAttack:
		if !target.Standing() || target.Team == ws.Actor.Team {
			return combat.Decision{}, false
		}
		return useOn(s, c, (*ability.Ability).Harmful, target.Cell)
	case ActionHeal:
		if target.Team != ws.Actor.Team {
			return combat.Decision{}, false
		}
		return useOn(s, c, (*ability.Ability).Heals, target.Cell)
	case ActionSpawn:
		return spawnBeside(s, c, target.Cell)
	case ActionAdvance:
		return walk(s, c, target.Cell, func(now, best int) bool { return now < best })
	case ActionRetreat:
		return walk(s, c, target.Cell, func(now, best int) bool { return now > best })
	}
	return combat.Decision{}, false
}

// usable returns c's affordable abilities passing keep, most expensive first.
func usable(s *combat.Session, c *character.Character, keep func(*ability.Ability) bool) []*ability.Ability {
	energy := c.Pool(stats.Energy).Current()
	var out []*ability.Ability
	for _, id := range c.Abilities() {
		a, ok := s.Abilities().Get(id)
		if ok && energy >= a.Cost && keep(a) {
			out = append(out, a)
		}
	}
	slices.SortStableFunc(out, func(x, y *ability.Ability) int { return y.Cost - x.Cost })
	return out
}

// origins returns where c may act from this turn: where it stands first,
// then every cell it can still walk to.
func origins(s *combat.Session, c *character.Character) []*grid.Cell {
	here := s.Grid().LocationOf(c)
	out := []*grid.Cell{here}
	if c.CanMove() {
		for _, cell := range s.Reachable(c) {
			if cell != here {
				out = append(out, cell)
			}
		}
	}
	return out
}

// useOn finds an origin and an aim point from which one of c's abilities
// passing keep affects victim.
func useOn(s *combat.Session, c *character.Character, keep func(*ability.Ability) bool, victim *grid.Cell) (combat.Decision, bool) {
	abilities := usable(s, c, keep)
	if len(abilities) == 0 {
		return combat.Decision{}, false
	}
	paths := s.Paths()
	here := s.Grid().LocationOf(c)
	for _, from := range origins(s, c) {
		if victim == here && from != here {
			// c would walk out from under its own aim.
			continue
		}
		for _, a := range abilities {
			valid := a.Targeting.ValidTargets(paths, from)
			if slices.Contains(valid, victim) {
				return combat.Decision{Destination: from, AbilityID: a.ID, Target: victim}, true
			}
			for _, aim := range valid {
				if slices.Contains(a.Targeting.AffectedCells(paths, from, aim), victim) {
					return combat.Decision{Destination: from, AbilityID: a.ID, Target: aim}, true
				}
			}
		}
	}
	return combat.Decision{}, false
}

// spawnBeside places an object from where c stands, on the free cell
// closest to near.
func spawnBeside(s *combat.Session, c *character.Character, near *grid.Cell) (combat.Decision, bool) {
	from := s.Grid().LocationOf(c)
	for _, a := range usable(s, c, func(a *ability.Ability) bool { return a.Spawn != nil }) {
		var best *grid.Cell
		for _, cell := range a.Targeting.ValidTargets(s.Paths(), from) {
			if best == nil || distance(cell, near) < distance(best, near) {
				best = cell
			}
		}
		if best != nil {
			return combat.Decision{Destination: from, AbilityID: a.ID, Target: best}, true
		}
	}
	return combat.Decision{}, false
}

// walk picks the reachable cell whose distance to toward is preferred by
// better over every other, including staying put. It fails when staying put
// is already best.
func walk(s *combat.Session, c *character.Character, toward *grid.Cell, better func(now, best int) bool) (combat.Decision, bool) {
	if !c.CanMove() {
		return combat.Decision{}, false
	}
	here := s.Grid().LocationOf(c)
	best, bestDist := here, distance(here, toward)
	for _, cell := range s.Reachable(c) {
		if d := distance(cell, toward); better(d, bestDist) {
			best, bestDist = cell, d
		}
	}
	if best == here {
		return combat.Decision{}, false
	}
	return combat.Decision{Destination: best, AbilityID: combat.NoAbility}, true
}

func distance(a, b *grid.Cell) int {
	return a.Coordinate().DistanceTo(b.Coordinate())
}

func (d *Decider) unitInfo(id string) *scripting.UnitInfo {
	if d.current == nil {
		return nil
	}
	if u := d.current.Unit(id); u != nil {
		return toInfo(u)
	}
	return nil
}

func (d *Decider) enemyInfo(id string) []*scripting.UnitInfo {
	if d.current == nil || d.current.Actor.ID != id {
		return nil
	}
	return toInfos(d.current.Enemies())
}

func (d *Decider) allyInfo(id string) []*scripting.UnitInfo {
	if d.current == nil || d.current.Actor.ID != id {
		return nil
	}
	return toInfos(d.current.Allies())
}

func toInfos(us []*UnitState) []*scripting.UnitInfo {
	out := make([]*scripting.UnitInfo, 0, len(us))
	for _, u := range us {
		out = append(out, toInfo(u))
	}
	return out
}

func toInfo(u *UnitState) *scripting.UnitInfo {
	return &scripting.UnitInfo{
		ID:          u.ID,
		Name:        u.Name,
		Role:        u.Role,
		Team:        u.Team.String(),
		Vitality:    u.Vitality,
		MaxVitality: u.MaxVitality,
		Energy:      u.Energy,
		MaxEnergy:   u.MaxEnergy,
		Downed:      u.Downed,
		Distance:    u.Distance,
	}
}

var _ combat.Decider = (*Decider)(nil)
