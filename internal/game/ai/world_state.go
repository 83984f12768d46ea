package ai

import "github.com/cory-johannsen/corsair/internal/game/grid"

// UnitState captures a crew member's combat-relevant state at planning time.
type UnitState struct {
	ID          string
	Name        string
	Role        string
	Team        grid.Team
	Vitality    int
	MaxVitality int
	Energy      int
	MaxEnergy   int
	Downed      bool
	Dead        bool
	Cell        *grid.Cell
	Distance    int // hex distance from the planning actor
}

// VitalityPercent returns current vitality as a percentage of the maximum;
// 0 if the maximum is 0.
func (u *UnitState) VitalityPercent() float64 {
	if u.MaxVitality <= 0 {
		return 0
	}
	return float64(u.Vitality) / float64(u.MaxVitality) * 100
}

// Standing reports whether the unit can still act.
func (u *UnitState) Standing() bool { return !u.Dead && !u.Downed }

// WorldState is the snapshot passed to the HTN planner for one actor.
//
// Invariant: Actor must not be nil and is also listed in Units.
type WorldState struct {
	Actor *UnitState
	Units []*UnitState
}

// Unit returns the unit with the given id, or nil.
func (ws *WorldState) Unit(id string) *UnitState {
	for _, u := range ws.Units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// Enemies returns every standing unit on another team than the actor.
//
// Postcondition: returned slice contains no downed or dead units.
func (ws *WorldState) Enemies() []*UnitState {
	var out []*UnitState
	for _, u := range ws.Units {
		if u.Standing() && u.Team != ws.Actor.Team {
			out = append(out, u)
		}
	}
	return out
}

// Allies returns every living teammate of the actor, excluding the actor.
// Downed allies are included; they are the ones most in need of help.
func (ws *WorldState) Allies() []*UnitState {
	var out []*UnitState
	for _, u := range ws.Units {
		if !u.Dead && u.ID != ws.Actor.ID && u.Team == ws.Actor.Team {
			out = append(out, u)
		}
	}
	return out
}

// NearestEnemy returns the closest standing enemy, or nil. Ties go to the
// earlier unit in Units.
func (ws *WorldState) NearestEnemy() *UnitState {
	return pick(ws.Enemies(), func(a, b *UnitState) bool { return a.Distance < b.Distance })
}

// WeakestEnemy returns the standing enemy with the lowest vitality
// percentage, or nil. Ties go to the earlier unit in Units.
func (ws *WorldState) WeakestEnemy() *UnitState {
	return pick(ws.Enemies(), func(a, b *UnitState) bool { return a.VitalityPercent() < b.VitalityPercent() })
}

// WeakestAlly returns the wounded living teammate with the lowest vitality
// percentage, the actor included, or nil when nobody is hurt.
func (ws *WorldState) WeakestAlly() *UnitState {
	var hurt []*UnitState
	for _, u := range append([]*UnitState{ws.Actor}, ws.Allies()...) {
		if u.Vitality < u.MaxVitality {
			hurt = append(hurt, u)
		}
	}
	return pick(hurt, func(a, b *UnitState) bool { return a.VitalityPercent() < b.VitalityPercent() })
}

func pick(us []*UnitState, better func(a, b *UnitState) bool) *UnitState {
	if len(us) == 0 {
		return nil
	}
	best := us[0]
	for _, u := range us[1:] {
		if better(u, best) {
			best = u
		}
	}
	return best
}

// ResolveTarget maps a target token to a unit id.
//
// Postcondition: tokens "nearest_enemy", "weakest_enemy", "weakest_ally" and
// "self" resolve to ids; "" stays ""; any other token is returned as-is.
// An empty result means the token has no current referent.
func (ws *WorldState) ResolveTarget(token string) string {
	var u *UnitState
	switch token {
	case TargetNearestEnemy:
		u = ws.NearestEnemy()
	case TargetWeakestEnemy:
		u = ws.WeakestEnemy()
	case TargetWeakestAlly:
		u = ws.WeakestAlly()
	case TargetSelf:
		u = ws.Actor
	default:
		return token
	}
	if u == nil {
		return ""
	}
	return u.ID
}
