package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/corsair/internal/config"
	"github.com/cory-johannsen/corsair/internal/game/ability"
	"github.com/cory-johannsen/corsair/internal/game/ai"
	"github.com/cory-johannsen/corsair/internal/game/character"
	"github.com/cory-johannsen/corsair/internal/game/dice"
	"github.com/cory-johannsen/corsair/internal/game/event"
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/mapgen"
	"github.com/cory-johannsen/corsair/internal/game/player"
	"github.com/cory-johannsen/corsair/internal/game/ship"
	"github.com/cory-johannsen/corsair/internal/game/skillcheck"
	"github.com/cory-johannsen/corsair/internal/game/world"
	"github.com/cory-johannsen/corsair/internal/observability"
	"github.com/cory-johannsen/corsair/internal/scripting"
	"github.com/cory-johannsen/corsair/internal/storage"
)

// outcome summarises one skirmish.
type outcome struct {
	Result    string
	Rounds    int
	Afloat    []string
	Survivors map[string]int
	Log       []string
	Save      *storage.SaveMeta
}

type skirmishRun struct {
	cfg    config.Config
	bus    *event.Bus
	store  storage.Store
	slot   string
	logger *zap.Logger
}

// run generates a campaign map, lets two AI crews fight one boarding battle
// and, when a store is configured, saves the resulting map under the slot.
func (r skirmishRun) run(ctx context.Context) (outcome, error) {
	roller := dice.NewLoggedRoller(dice.NewSeededSource(uint64(r.cfg.Map.Seed)), r.logger)

	abilities, err := ability.LoadDirectory(r.cfg.Content.AbilitiesDir)
	if err != nil {
		return outcome{}, fmt.Errorf("loading abilities: %w", err)
	}
	templates, err := character.LoadTemplates(r.cfg.Content.CrewDir)
	if err != nil {
		return outcome{}, fmt.Errorf("loading crew: %w", err)
	}
	if len(templates) == 0 {
		return outcome{}, fmt.Errorf("no crew templates in %s", r.cfg.Content.CrewDir)
	}
	scripts := scripting.NewManager(roller, r.logger)
	defer scripts.Close()
	decider, err := ai.Load(r.cfg.Content.AIDir, r.cfg.Content.ScriptsDir, scripts, r.cfg.Content.InstructionLimit, r.logger)
	if err != nil {
		return outcome{}, fmt.Errorf("loading ai: %w", err)
	}

	m := r.cfg.Map
	g, err := mapgen.World(r.bus, mapgen.Config{
		Width:         m.Width,
		Height:        m.Height,
		Seed:          m.Seed,
		LandThreshold: m.LandThreshold,
		Octaves:       m.Octaves,
		Frequency:     m.Frequency,
		HarborChance:  m.HarborChance,
	})
	if err != nil {
		return outcome{}, err
	}
	r.logger.Info("map generated",
		zap.Int("width", g.Width()),
		zap.Int("height", g.Height()),
		zap.Int("harbors", len(g.Harbors())),
	)

	cc := r.cfg.Combat
	w := world.New(world.Deps{
		Grid:      g,
		Abilities: abilities,
		Oracle:    skillcheck.NewDiceOracle(roller),
		Decider:   decider,
		Pilot:     world.Patrol{MinHarbor: 1, MaxHarbor: m.Width + m.Height},
		Roller:    roller,
		BattleMap: func(events *event.Bus) (*grid.Grid, error) {
			return mapgen.Battle(events, cc.BattleWidth, cc.BattleHeight, m.Seed)
		},
		Battle: world.BattleConfig{
			MaxRounds: cc.MaxRounds,
			LogLimit:  cc.LogLimit,
			Autopilot: true,
		},
		Logger: r.logger,
	})

	privateer, err := r.commission(w, "Privateer", templates, grid.TeamPlayer)
	if err != nil {
		return outcome{}, err
	}
	merchant, err := r.commission(w, "Merchantman", templates, grid.TeamEnemy)
	if err != nil {
		return outcome{}, err
	}

	if err := ctx.Err(); err != nil {
		return outcome{}, err
	}
	s, err := w.StartCombat(privateer, merchant)
	if err != nil {
		return outcome{}, err
	}
	sessionLog := observability.ForSession(r.logger, s.ID())
	out := outcome{
		Result:    s.Result(),
		Rounds:    s.Turns().Round(),
		Survivors: make(map[string]int),
		Log:       s.Log().Lines(),
	}
	for _, p := range w.Players() {
		out.Afloat = append(out.Afloat, p.Name())
		out.Survivors[p.Name()] = len(p.Ship.Crew.Alive())
	}
	sessionLog.Info("skirmish finished",
		zap.String("result", out.Result),
		zap.Int("rounds", out.Rounds),
		zap.Strings("afloat", out.Afloat),
	)

	if r.store != nil {
		meta, err := storage.SaveGrid(ctx, r.store, r.slot, g)
		if err != nil {
			return out, err
		}
		out.Save = &meta
		sessionLog.Info("map saved", zap.String("slot", meta.Name), zap.Stringer("id", meta.ID), zap.Int64("bytes", meta.Size))
	}
	return out, nil
}

// commission builds a ship crewed with one hand per template and berths it
// on a free spawn cell for its team.
func (r skirmishRun) commission(w *world.World, name string, templates []*character.Template, team grid.Team) (*player.Player, error) {
	sh := ship.New(name, false)
	sh.Team = team
	p, err := player.New(name, false, sh, r.bus)
	if err != nil {
		return nil, err
	}
	for _, t := range templates {
		c, err := character.Build(t, false)
		if err != nil {
			return nil, err
		}
		c.EnergyRegen = r.cfg.Combat.EnergyRegen
		c.DownTurns = r.cfg.Combat.DownTurns
		if err := p.Recruit(c); err != nil {
			return nil, err
		}
		if t.Job == "" {
			continue
		}
		job, err := ship.ParseJob(t.Job)
		if err != nil {
			return nil, fmt.Errorf("crew %s: %w", t.ID, err)
		}
		if err := sh.Crew.AssignJob(c, job); err != nil {
			return nil, err
		}
	}
	at := berth(w.Grid(), sh, team)
	if at == nil {
		return nil, fmt.Errorf("no free water to berth %s", name)
	}
	if err := w.AddPlayer(p, at, 0); err != nil {
		return nil, err
	}
	return p, nil
}

// berth prefers the spawn cells tagged for team and falls back to any
// water the ship may enter.
func berth(g *grid.Grid, sh *ship.Ship, team grid.Team) *grid.Cell {
	match := func(s grid.SpawnType) bool { return s == grid.SpawnPlayer }
	if team == grid.TeamEnemy {
		match = grid.SpawnType.Enemy
	}
	for _, c := range g.SpawnCells(match) {
		if sh.CanEnter(c) {
			return c
		}
	}
	for _, c := range g.Cells() {
		if sh.CanEnter(c) {
			return c
		}
	}
	return nil
}
