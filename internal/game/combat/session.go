// Package combat runs battles between two crews on a hex grid: the active
// character selects an ability, picks a target among the ability's valid
// cells, and the session resolves hits through a skillcheck oracle before
// ending the turn.
package combat

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/corsair/internal/game/ability"
	"github.com/cory-johannsen/corsair/internal/game/character"
	"github.com/cory-johannsen/corsair/internal/game/event"
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/pathfind"
	"github.com/cory-johannsen/corsair/internal/game/skillcheck"
	"github.com/cory-johannsen/corsair/internal/game/targeting"
	"github.com/cory-johannsen/corsair/internal/game/turn"
)

// Battle results reported by Result.
const (
	Victory   = "victory"
	Defeat    = "defeat"
	Stalemate = "stalemate"
)

// Deps are the collaborators a Session needs.
type Deps struct {
	Grid      *grid.Grid
	Abilities *ability.Registry
	Oracle    skillcheck.Oracle
	Decider   Decider
	Logger    *zap.Logger
	LogLimit  int
	MaxRounds int
	// Autopilot lets the Decider play player-controlled characters too.
	Autopilot bool
}

// Session is one battle. It replaces any notion of a global combat system:
// everything a battle touches hangs off its Session.
//
// Invariant: at most one ability use is pending; while it is, no other
// action is accepted.
type Session struct {
	id        uuid.UUID
	grid      *grid.Grid
	paths     *pathfind.Pathfinder
	abilities *ability.Registry
	oracle    skillcheck.Oracle
	decider   Decider
	events    *event.Bus
	logger    *zap.Logger
	log       *Log
	order     *turn.Order
	turns     *turn.Controller

	characters map[string]*character.Character
	roster     []*character.Character
	objects    map[string]string

	selected *ability.Ability
	valid    *targeting.Set
	pending  *pendingUse
	nextTok  uint64
	subs     []event.Subscription
	onEnd    []func(result string)
	started  bool
	ended    bool
}

// NewSession prepares a battle on deps.Grid. Characters are added with
// AddCharacter before Start.
//
// Precondition: deps.Grid must be non-nil and carry an event bus;
// deps.Abilities and deps.Oracle must be non-nil.
func NewSession(deps Deps) *Session {
	if deps.Grid == nil {
		panic("combat.NewSession: grid must not be nil")
	}
	if deps.Grid.Events() == nil {
		panic("combat.NewSession: grid must carry an event bus")
	}
	if deps.Abilities == nil {
		panic("combat.NewSession: abilities must not be nil")
	}
	if deps.Oracle == nil {
		panic("combat.NewSession: oracle must not be nil")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New()
	logger = logger.With(zap.String("combat_id", id.String()))
	s := &Session{
		id:         id,
		grid:       deps.Grid,
		paths:      pathfind.New(deps.Grid),
		abilities:  deps.Abilities,
		oracle:     deps.Oracle,
		decider:    deps.Decider,
		events:     deps.Grid.Events(),
		logger:     logger,
		log:        NewLog(deps.LogLimit),
		order:      turn.NewOrder(),
		characters: make(map[string]*character.Character),
		objects:    make(map[string]string),
	}
	s.turns = turn.NewController(turn.Combat, s.order, s.events, logger)
	s.turns.SetAuto(s.autoTurn)
	s.turns.SetTerminal(s.terminal)
	s.turns.SetMaxRounds(deps.MaxRounds)
	s.turns.SetAutopilot(deps.Autopilot)
	s.turns.OnFinish(s.finish)
	return s
}

func (s *Session) ID() uuid.UUID                      { return s.id }
func (s *Session) Grid() *grid.Grid                   { return s.grid }
func (s *Session) Paths() *pathfind.Pathfinder        { return s.paths }
func (s *Session) Abilities() *ability.Registry       { return s.abilities }
func (s *Session) Log() *Log                          { return s.log }
func (s *Session) Turns() *turn.Controller            { return s.turns }
func (s *Session) Characters() []*character.Character { return append([]*character.Character(nil), s.roster...) }

// AddCharacter places c on at and appends it to the turn order.
//
// Precondition: Start has not been called.
func (s *Session) AddCharacter(c *character.Character, at *grid.Cell) error {
	if s.started {
		return fmt.Errorf("combat.Session.AddCharacter: %s: battle already started", c.Name())
	}
	if err := s.grid.AddUnit(c, at, 0); err != nil {
		return fmt.Errorf("combat.Session.AddCharacter: %w", err)
	}
	c.SetEvents(s.events)
	s.characters[c.ID()] = c
	s.roster = append(s.roster, c)
	s.order.Add(c)
	return nil
}

// Character returns a participant by id.
func (s *Session) Character(id string) (*character.Character, bool) {
	c, ok := s.characters[id]
	return c, ok
}

// Start begins the first turn.
func (s *Session) Start() error {
	if s.started {
		return fmt.Errorf("combat.Session.Start: already started")
	}
	s.started = true
	s.subs = append(s.subs,
		s.events.Subscribe(event.UnitMoved, s.onUnitMoved),
		s.events.Subscribe(event.TurnBegan, s.onTurnBegan),
		s.events.Subscribe(event.CharacterDied, s.onCharacterDied),
	)
	s.events.Publish(event.CombatStarted, event.CombatPayload{SessionID: s.id.String()})
	s.logger.Info("combat started", zap.Int("characters", len(s.roster)))
	return s.turns.Start()
}

// Active returns the character whose turn it is, or nil.
func (s *Session) Active() *character.Character {
	a := s.turns.Active()
	if a == nil {
		return nil
	}
	return s.characters[a.ID()]
}

// Over reports whether the battle has finished.
func (s *Session) Over() bool { return s.ended }

// Result returns Victory or Defeat from grid.TeamPlayer's point of view, Stalemate when the round limit ran out, or "" while running.
func (s *Session) Result() string { return s.turns.Result() }

// Pending reports whether an ability use awaits its skillcheck.
func (s *Session) Pending() bool { return s.pending != nil }

// Side returns the characters fighting for team.
func (s *Session) Side(team grid.Team) []*character.Character {
	var out []*character.Character
	for _, c := range s.roster {
		if c.Team == team {
			out = append(out, c)
		}
	}
	return out
}

// Remove takes c out of the battle, as when it dies.
func (s *Session) Remove(c *character.Character, died bool) {
	if _, ok := s.characters[c.ID()]; !ok {
		return
	}
	s.turns.Remove(c.ID())
	s.grid.RemoveUnit(c, died)
	if id, ok := s.objects[c.ID()]; ok {
		s.grid.RemoveObject(id)
		delete(s.objects, c.ID())
	}
}

func (s *Session) terminal() (bool, string) {
	if !standing(s.Side(grid.TeamPlayer)) {
		return true, Defeat
	}
	if !standing(s.Side(grid.TeamEnemy)) {
		return true, Victory
	}
	return false, ""
}

func standing(side []*character.Character) bool {
	for _, c := range side {
		if !c.Dead() && !c.Downed() {
			return true
		}
	}
	return false
}

func (s *Session) finish(result string) {
	s.ended = true
	s.pending = nil
	s.resetSelection()
	s.grid.ClearHighlights()
	for _, sub := range s.subs {
		s.events.Unsubscribe(sub)
	}
	s.subs = nil
	s.logger.Info("combat ended", zap.String("result", result), zap.Int("rounds", s.turns.Round()))
	s.events.Publish(event.CombatEnded, event.CombatPayload{SessionID: s.id.String(), Result: result})
	for _, f := range s.onEnd {
		f(result)
	}
}

// OnEnd registers f to run once the battle is decided.
func (s *Session) OnEnd(f func(result string)) { s.onEnd = append(s.onEnd, f) }

// Teardown removes every surviving participant and spawned object from
// the battle grid and clears lasting effects, so the characters can be
// placed on another grid.
func (s *Session) Teardown() {
	for _, c := range s.roster {
		if c.Placed() {
			s.grid.RemoveUnit(c, false)
		}
		c.ClearEffects()
	}
	for owner, id := range s.objects {
		s.grid.RemoveObject(id)
		delete(s.objects, owner)
	}
}

func (s *Session) onUnitMoved(e event.Event) {
	p, ok := e.Payload.(event.UnitMovedPayload)
	if !ok {
		return
	}
	if a := s.Active(); a != nil && a.ID() == p.UnitID {
		s.resetSelection()
	}
}

func (s *Session) onTurnBegan(e event.Event) {
	if p, ok := e.Payload.(event.TurnPayload); !ok || p.Mode != turn.Combat.String() {
		return
	}
	s.resetSelection()
	c := s.Active()
	if c == nil {
		return
	}
	s.grid.ClearHighlights()
	if at := s.grid.LocationOf(c); at != nil {
		s.grid.Highlight(at, grid.HighlightActiveCell)
	}
	s.tendFromObjects(c)
}

func (s *Session) onCharacterDied(e event.Event) {
	p, ok := e.Payload.(event.CharacterPayload)
	if !ok {
		return
	}
	if c, ok := s.characters[p.CharacterID]; ok {
		s.logger.Info("character died", zap.String("character", c.Name()))
		s.Remove(c, true)
	}
}
