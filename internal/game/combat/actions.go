package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/corsair/internal/game/ability"
	"github.com/cory-johannsen/corsair/internal/game/character"
	"github.com/cory-johannsen/corsair/internal/game/effect"
	"github.com/cory-johannsen/corsair/internal/game/event"
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/hex"
	"github.com/cory-johannsen/corsair/internal/game/skillcheck"
	"github.com/cory-johannsen/corsair/internal/game/stats"
	"github.com/cory-johannsen/corsair/internal/game/targeting"
)

// Rejection reasons published with ActionRejected.
const (
	ReasonNotRunning      = "Combat is not running"
	ReasonAwaitingCheck   = "Awaiting skillcheck"
	ReasonCannotAct       = "Cannot act"
	ReasonNoSelection     = "No ability selected"
	ReasonNotEnoughEnergy = "Not enough energy"
	ReasonInvalidTarget   = "Invalid target"
)

// pendingUse is an ability use whose skillcheck has not come back yet.
type pendingUse struct {
	token    uint64
	actor    *character.Character
	ability  *ability.Ability
	target   *grid.Cell
	affected []*grid.Cell
	hostile  []*character.Character
	friendly []*character.Character
}

// Selected returns the ability chosen for the active character, or nil.
func (s *Session) Selected() *ability.Ability { return s.selected }

// ValidTargets returns the cells the selected ability may target.
func (s *Session) ValidTargets() []*grid.Cell {
	c := s.Active()
	if s.selected == nil || c == nil {
		return nil
	}
	return s.selected.Targeting.ValidTargets(s.paths, s.grid.LocationOf(c))
}

// SelectAbility chooses an ability for the active character and highlights
// its valid targets. It reports false when the selection is rejected, and
// returns an error when the character does not own the ability or the
// ability is unknown.
func (s *Session) SelectAbility(id int) (bool, error) {
	c, ok := s.actor("select")
	if !ok {
		return false, nil
	}
	a, err := c.SelectAbility(s.abilities, id)
	if err != nil {
		s.resetSelection()
		return false, fmt.Errorf("combat.Session.SelectAbility: %w", err)
	}
	origin := s.grid.LocationOf(c)
	valid := a.Targeting.ValidTargets(s.paths, origin)
	set := targeting.NewSet(valid)
	s.selected = a
	s.valid = &set
	s.grid.ClearHighlights()
	s.grid.Highlight(origin, grid.HighlightActiveCell)
	for _, cell := range valid {
		s.grid.Highlight(cell, grid.HighlightValidCombat)
	}
	s.events.Publish(event.AbilitySelected, event.AbilityPayload{ActorID: c.ID(), AbilityID: a.ID})
	return true, nil
}

// Preview returns the cells the selected ability would affect when aimed at
// target, highlighting them, or nil when target is not valid.
func (s *Session) Preview(target *grid.Cell) []*grid.Cell {
	c := s.Active()
	if c == nil || s.selected == nil || !s.valid.Contains(target) {
		return nil
	}
	affected := s.selected.Targeting.AffectedCells(s.paths, s.grid.LocationOf(c), target)
	s.grid.Highlight(target, grid.HighlightTarget)
	for _, cell := range affected {
		s.grid.Highlight(cell, grid.HighlightAbilityAffected)
	}
	return affected
}

// UseAbility uses the selected ability on target. It reports false when the
// use is rejected: nothing selected, target not valid, not enough energy,
// the actor cannot act, or a skillcheck still pending. A rejected use
// changes nothing but the selection, which is reset.
//
// When the ability needs a skillcheck the bookkeeping (energy cost, log
// line, end of turn) waits for the oracle's callback.
func (s *Session) UseAbility(target *grid.Cell) bool {
	c, ok := s.actor("use")
	if !ok {
		return false
	}
	a := s.selected
	if a == nil {
		s.reject(c, "use", ReasonNoSelection)
		return false
	}
	if !s.valid.Contains(target) {
		s.reject(c, "use", ReasonInvalidTarget)
		return false
	}
	if c.Pool(stats.Energy).Current() < a.Cost {
		s.reject(c, "use", ReasonNotEnoughEnergy)
		return false
	}

	origin := s.grid.LocationOf(c)
	affected := a.Targeting.AffectedCells(s.paths, origin, target)
	hostileUnits, friendlyUnits := targeting.Partition(s.grid, affected, c)
	s.nextTok++
	p := &pendingUse{
		token:    s.nextTok,
		actor:    c,
		ability:  a,
		target:   target,
		affected: affected,
		hostile:  s.asCharacters(hostileUnits),
		friendly: s.asCharacters(friendlyUnits),
	}
	s.pending = p
	s.resetSelection()

	if !a.RequiresSkillcheck() {
		s.resolve(p.token, skillcheck.AllHit(len(p.hostile)), skillcheck.AllHit(len(p.friendly)))
		return true
	}
	req := skillcheck.Request{
		Attacker:        c,
		Hostile:         participants(p.hostile),
		Friendly:        participants(p.friendly),
		AttackerSkill:   a.UserCheck,
		HostileDefense:  a.HostileCheck,
		FriendlyDefense: a.FriendlyCheck,
	}
	s.events.Publish(event.SkillcheckRequested, event.SkillcheckPayload{
		ActorID:   c.ID(),
		AbilityID: a.ID,
		Hostile:   names(p.hostile),
		Friendly:  names(p.friendly),
	})
	token := p.token
	s.oracle.StartContested(req, func(h, f []skillcheck.Outcome) { s.resolve(token, h, f) })
	return true
}

// resolve applies a pending use's outcomes. Callbacks for an unknown or
// already resolved token are ignored.
func (s *Session) resolve(token uint64, hostile, friendly []skillcheck.Outcome) {
	p := s.pending
	if p == nil || p.token != token {
		s.logger.Debug("ignoring stale skillcheck result", zap.Uint64("token", token))
		return
	}
	s.pending = nil
	if s.ended {
		return
	}
	if p.ability.RequiresSkillcheck() {
		s.events.Publish(event.SkillcheckResolved, event.SkillcheckPayload{
			ActorID:   p.actor.ID(),
			AbilityID: p.ability.ID,
			Hostile:   names(p.hostile),
			Friendly:  names(p.friendly),
		})
	}
	applied := p.ability.Use(targets(p.hostile), hostile, targets(p.friendly), friendly)
	s.post(p, hit(p.hostile, hostile, p.friendly, friendly))
	s.logger.Debug("ability resolved",
		zap.String("actor", p.actor.Name()),
		zap.String("ability", p.ability.Name),
		zap.Int("applications", applied),
	)
}

// post runs the bookkeeping after an ability lands or misses.
func (s *Session) post(p *pendingUse, hitNames []string) {
	p.actor.Pool(stats.Energy).Add(-p.ability.Cost)
	line := p.ability.LogMessage(hitNames)
	s.log.Add(line)
	s.events.Publish(event.LogMessage, event.LogPayload{Message: line})
	if p.ability.Spawn != nil {
		s.spawn(p.actor, p.ability.Spawn, p.target)
	}
	for _, c := range append(append([]*character.Character(nil), p.hostile...), p.friendly...) {
		c.CheckDowned()
	}
	at := p.target.Coordinate()
	affected := make([]hex.Coordinate, 0, len(p.affected))
	for _, c := range p.affected {
		affected = append(affected, c.Coordinate())
	}
	s.events.Publish(event.AbilityUsed, event.AbilityPayload{
		ActorID:   p.actor.ID(),
		AbilityID: p.ability.ID,
		Target:    &at,
		Affected:  affected,
	})
	if s.turns.IsActive(p.actor.ID()) {
		s.turns.EndTurn()
	}
}

// spawn places the owner's object on at, replacing any object it placed
// earlier.
func (s *Session) spawn(owner *character.Character, spec *ability.ObjectSpec, at *grid.Cell) {
	if old, ok := s.objects[owner.ID()]; ok {
		s.grid.RemoveObject(old)
		delete(s.objects, owner.ID())
	}
	s.nextTok++
	o := &grid.Object{
		ID:          fmt.Sprintf("%s-%s-%d", spec.Kind, owner.ID(), s.nextTok),
		Kind:        spec.Kind,
		OwnerID:     owner.ID(),
		HealPerTurn: spec.HealPerTurn,
	}
	if err := s.grid.AddObject(o, at); err != nil {
		s.logger.Warn("object not placed", zap.String("kind", spec.Kind), zap.Error(err))
		return
	}
	s.objects[owner.ID()] = o.ID
	s.events.Publish(event.ObjectSpawned, event.ObjectPayload{ObjectID: o.ID, Kind: o.Kind, OwnerID: owner.ID(), At: at.Coordinate()})
}

// tendFromObjects heals c for every adjacent object placed by a friendly
// character.
func (s *Session) tendFromObjects(c *character.Character) {
	if c.Dead() {
		return
	}
	for _, cell := range s.paths.Adjacent(s.grid.LocationOf(c)) {
		o := s.grid.ObjectAt(cell)
		if o == nil || o.HealPerTurn <= 0 {
			continue
		}
		owner, ok := s.characters[o.OwnerID]
		if !ok || owner.Team != c.Team {
			continue
		}
		c.Pool(stats.Vitality).Add(o.HealPerTurn)
		c.CheckDowned()
	}
}

// actor returns the active character if it may act now, publishing a
// rejection otherwise.
func (s *Session) actor(action string) (*character.Character, bool) {
	c := s.Active()
	switch {
	case !s.started || s.ended || c == nil:
		s.reject(c, action, ReasonNotRunning)
		return nil, false
	case s.pending != nil:
		s.reject(c, action, ReasonAwaitingCheck)
		return nil, false
	case !c.CanMove():
		s.reject(c, action, ReasonCannotAct)
		return nil, false
	}
	return c, true
}

func (s *Session) reject(c *character.Character, action, reason string) {
	s.resetSelection()
	id := ""
	if c != nil {
		id = c.ID()
	}
	s.logger.Debug("action rejected", zap.String("actor", id), zap.String("action", action), zap.String("reason", reason))
	s.events.Publish(event.ActionRejected, event.RejectedPayload{ActorID: id, Action: action, Reason: reason})
}

func (s *Session) resetSelection() {
	had := s.selected != nil
	s.selected = nil
	s.valid = nil
	if had {
		s.events.Publish(event.SelectionReset, nil)
	}
}

func (s *Session) asCharacters(units []grid.Unit) []*character.Character {
	out := make([]*character.Character, 0, len(units))
	for _, u := range units {
		if c, ok := s.characters[u.Base().ID()]; ok {
			out = append(out, c)
		}
	}
	return out
}

func participants(cs []*character.Character) []skillcheck.Participant {
	out := make([]skillcheck.Participant, len(cs))
	for i, c := range cs {
		out[i] = c
	}
	return out
}

func targets(cs []*character.Character) []effect.Target {
	out := make([]effect.Target, len(cs))
	for i, c := range cs {
		out[i] = c
	}
	return out
}

func names(cs []*character.Character) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name()
	}
	return out
}

// hit lists the names of targets whose outcome landed, hostile first.
func hit(hostile []*character.Character, ho []skillcheck.Outcome, friendly []*character.Character, fo []skillcheck.Outcome) []string {
	var out []string
	for i, c := range hostile {
		if i < len(ho) && ho[i].Hit() {
			out = append(out, c.Name())
		}
	}
	for i, c := range friendly {
		if i < len(fo) && fo[i].Hit() {
			out = append(out, c.Name())
		}
	}
	return out
}
