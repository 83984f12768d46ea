// Package world runs the campaign map: players take turns sailing their
// ships, AI ships patrol and give chase, and boarding another ship starts a
// battle between the two crews.
package world

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/cory-johannsen/corsair/internal/game/ability"
	"github.com/cory-johannsen/corsair/internal/game/combat"
	"github.com/cory-johannsen/corsair/internal/game/dice"
	"github.com/cory-johannsen/corsair/internal/game/event"
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/hex"
	"github.com/cory-johannsen/corsair/internal/game/pathfind"
	"github.com/cory-johannsen/corsair/internal/game/player"
	"github.com/cory-johannsen/corsair/internal/game/skillcheck"
	"github.com/cory-johannsen/corsair/internal/game/turn"
)

// BountyPerVictory is added to a human player's bounty for each battle won.
const BountyPerVictory = 20

var (
	// ErrCombatRunning is returned when a battle is started while another
	// is still being fought.
	ErrCombatRunning = errors.New("a battle is already running")
	// ErrNoCrew is returned when a side has nobody able to fight.
	ErrNoCrew = errors.New("no crew able to fight")
)

// BattleMapFunc builds the map a battle is fought on.
type BattleMapFunc func(events *event.Bus) (*grid.Grid, error)

// BattleConfig tunes the battles a world starts.
type BattleConfig struct {
	MaxRounds int
	LogLimit  int
	Autopilot bool
}

// Deps are the collaborators a World needs.
type Deps struct {
	Grid      *grid.Grid
	Abilities *ability.Registry
	Oracle    skillcheck.Oracle
	Decider   combat.Decider
	Pilot     Pilot
	Roller    *dice.Roller
	BattleMap BattleMapFunc
	Battle    BattleConfig
	Logger    *zap.Logger
}

// World is the campaign map and the turn cycle over its players.
type World struct {
	grid      *grid.Grid
	paths     *pathfind.Pathfinder
	events    *event.Bus
	abilities *ability.Registry
	oracle    skillcheck.Oracle
	decider   combat.Decider
	pilot     Pilot
	roller    *dice.Roller
	battleMap BattleMapFunc
	battleCfg BattleConfig
	logger    *zap.Logger

	order   *turn.Order
	turns   *turn.Controller
	players []*player.Player
	humans  bool
	mode    turn.Mode
	engine  *combat.Engine
	battle  *combat.Session
}

// New returns a world over deps.Grid in map mode.
//
// Precondition: deps.Grid must carry an event bus; deps.Abilities,
// deps.Oracle, deps.Roller and deps.BattleMap must be non-nil.
func New(deps Deps) *World {
	if deps.Grid == nil || deps.Grid.Events() == nil {
		panic("world.New: grid with an event bus is required")
	}
	if deps.Abilities == nil || deps.Oracle == nil {
		panic("world.New: abilities and oracle must not be nil")
	}
	if deps.Roller == nil {
		panic("world.New: roller must not be nil")
	}
	if deps.BattleMap == nil {
		panic("world.New: battle map builder must not be nil")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &World{
		grid:      deps.Grid,
		paths:     pathfind.New(deps.Grid),
		events:    deps.Grid.Events(),
		abilities: deps.Abilities,
		oracle:    deps.Oracle,
		decider:   deps.Decider,
		pilot:     deps.Pilot,
		roller:    deps.Roller,
		battleMap: deps.BattleMap,
		battleCfg: deps.Battle,
		logger:    logger,
		order:     turn.NewOrder(),
		mode:      turn.Map,
		engine:    combat.NewEngine(),
	}
	w.turns = turn.NewController(turn.Map, w.order, w.events, logger)
	w.turns.SetAuto(w.autoTurn)
	w.turns.SetTerminal(w.terminal)
	w.events.Subscribe(event.TurnBegan, w.onTurnBegan)
	return w
}

func (w *World) Grid() *grid.Grid            { return w.grid }
func (w *World) Paths() *pathfind.Pathfinder { return w.paths }
func (w *World) Turns() *turn.Controller     { return w.turns }
func (w *World) Mode() turn.Mode             { return w.mode }
func (w *World) Battle() *combat.Session     { return w.battle }
func (w *World) Engine() *combat.Engine      { return w.engine }
func (w *World) Players() []*player.Player   { return slices.Clone(w.players) }

// Player returns the player with the given id.
func (w *World) Player(id string) (*player.Player, bool) {
	for _, p := range w.players {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// Active returns the player whose map turn it is, or nil.
func (w *World) Active() *player.Player {
	a := w.turns.Active()
	if a == nil {
		return nil
	}
	p, _ := w.Player(a.ID())
	return p
}

// AddPlayer places p's ship on at facing orientation and appends p to the
// turn order.
func (w *World) AddPlayer(p *player.Player, at *grid.Cell, orientation hex.Direction) error {
	if err := w.grid.AddUnit(p.Ship, at, orientation); err != nil {
		return fmt.Errorf("world.World.AddPlayer: %s: %w", p.Name(), err)
	}
	w.players = append(w.players, p)
	w.humans = w.humans || p.Human()
	w.order.Add(p)
	w.logger.Info("player joined", zap.String("player", p.Name()), zap.Bool("human", p.Human()))
	return nil
}

// RemovePlayer takes p's ship off the map and p out of the turn order.
func (w *World) RemovePlayer(p *player.Player, sunk bool) {
	w.players = slices.DeleteFunc(w.players, func(o *player.Player) bool { return o == p })
	w.turns.Remove(p.ID())
	w.grid.RemoveUnit(p.Ship, sunk)
}

// Start begins the first map turn.
func (w *World) Start() error {
	if err := w.turns.Start(); err != nil {
		return fmt.Errorf("world.World.Start: %w", err)
	}
	return nil
}

// EndTurn ends the active human player's map turn.
func (w *World) EndTurn() bool {
	if w.battle != nil {
		return false
	}
	return w.turns.EndTurn()
}

// SetSail leaves the active human player's management phase and plans a
// voyage to dest, cut short where the ship's movement runs out.
func (w *World) SetSail(dest *grid.Cell) *pathfind.Travel {
	p := w.Active()
	if p == nil || w.battle != nil {
		return nil
	}
	if p.Managing() {
		p.EndManagement()
		w.setMode(turn.Map)
	}
	if !w.paths.FindPath(w.grid.LocationOf(p.Ship), dest, p.Ship) {
		return nil
	}
	return w.paths.Travel(p.Ship)
}

// NearestHarbor returns the harbor with the cheapest voyage from ship's
// position whose path, both ends included, is between minLength and
// maxLength cells long. It returns nil when no harbor qualifies.
func (w *World) NearestHarbor(p *player.Player, minLength, maxLength int) *grid.Cell {
	from := w.grid.LocationOf(p.Ship)
	if from == nil {
		return nil
	}
	var best *grid.Cell
	bestCost := 0
	for _, h := range w.grid.Harbors() {
		if h == from || !h.Traversable || !w.paths.FindPath(from, h, p.Ship) {
			continue
		}
		n := len(w.paths.WholePath())
		cost := w.paths.PathCost()
		w.paths.ClearPath()
		if n < minLength || n > maxLength {
			continue
		}
		if best == nil || cost < bestCost {
			best, bestCost = h, cost
		}
	}
	return best
}

func (w *World) setMode(m turn.Mode) {
	if w.mode == m {
		return
	}
	from := w.mode
	w.mode = m
	w.events.Publish(event.ModeChanged, event.ModePayload{From: from.String(), To: m.String()})
}

func (w *World) onTurnBegan(e event.Event) {
	p, ok := e.Payload.(event.TurnPayload)
	if !ok || p.Mode != turn.Map.String() {
		return
	}
	if pl, ok := w.Player(p.ActorID); ok && pl.Managing() {
		w.setMode(turn.Management)
		return
	}
	w.setMode(turn.Map)
}

// terminal ends the campaign once no human player remains, or, in a world
// without humans, once a single ship is left.
func (w *World) terminal() (bool, string) {
	humans := 0
	for _, p := range w.players {
		if p.Human() {
			humans++
		}
	}
	switch {
	case len(w.players) == 0:
		return true, "empty"
	case w.humans && humans == 0:
		return true, "defeat"
	case !w.humans && len(w.players) == 1:
		return true, "last ship afloat"
	}
	return false, ""
}
