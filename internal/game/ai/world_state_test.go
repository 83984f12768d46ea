package ai_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/corsair/internal/game/ai"
	"github.com/cory-johannsen/corsair/internal/game/grid"
)

func TestWorldState_Targets(t *testing.T) {
	ws := skirmish()
	assert.Equal(t, "near", ws.ResolveTarget("nearest_enemy"))
	assert.Equal(t, "far", ws.ResolveTarget("weakest_enemy"))
	assert.Equal(t, "me", ws.ResolveTarget("self"))
	assert.Equal(t, "", ws.ResolveTarget("weakest_ally"))
	assert.Equal(t, "someone", ws.ResolveTarget("someone"))
}

func TestWorldState_DownedEnemiesAreIgnored(t *testing.T) {
	ws := skirmish()
	ws.Unit("near").Downed = true
	assert.Equal(t, "far", ws.ResolveTarget("nearest_enemy"))
	ws.Unit("far").Dead = true
	assert.Equal(t, "", ws.ResolveTarget("nearest_enemy"))
}

func TestWorldState_WeakestAllyIncludesDownedAndSelf(t *testing.T) {
	ws := skirmish()
	ws.Units = append(ws.Units, &ai.UnitState{ID: "mate", Team: grid.TeamEnemy, Vitality: 0, MaxVitality: 10, Downed: true})
	assert.Equal(t, "mate", ws.ResolveTarget("weakest_ally"))
	ws.Actor.Vitality = 0
	ws.Unit("mate").Vitality = 1
	assert.Equal(t, "me", ws.ResolveTarget("weakest_ally"))
}

func TestProperty_WeakestEnemyHasLowestVitalityPercent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		me := &ai.UnitState{ID: "me", Team: grid.TeamPlayer, Vitality: 1, MaxVitality: 1}
		ws := &ai.WorldState{Actor: me, Units: []*ai.UnitState{me}}
		n := rapid.IntRange(1, 8).Draw(rt, "n")
		for i := range n {
			maxV := rapid.IntRange(1, 50).Draw(rt, "max")
			ws.Units = append(ws.Units, &ai.UnitState{
				ID:          fmt.Sprintf("e%d", i),
				Team:        grid.TeamEnemy,
				MaxVitality: maxV,
				Vitality:    rapid.IntRange(1, maxV).Draw(rt, "vit"),
			})
		}
		weakest := ws.WeakestEnemy()
		if weakest == nil {
			rt.Fatal("expected a weakest enemy")
		}
		for _, e := range ws.Enemies() {
			if e.VitalityPercent() < weakest.VitalityPercent() {
				rt.Fatalf("%s is weaker than %s", e.ID, weakest.ID)
			}
		}
	})
}
