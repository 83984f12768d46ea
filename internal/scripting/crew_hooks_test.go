package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/corsair/internal/scripting"
)

// repoRoot walks up from the test's working directory to find the module root.
func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	root := wd
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Fatalf("could not find repo root from %s", wd)
		}
		root = parent
	}
}

type crewBattle struct {
	me      *scripting.UnitInfo
	enemies []*scripting.UnitInfo
	allies  []*scripting.UnitInfo
}

func crewHooks(t *testing.T, b *crewBattle) *scripting.Manager {
	t.Helper()
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadScope("ai", filepath.Join(repoRoot(t), "content", "scripts", "ai"), 0))
	mgr.GetUnit = func(id string) *scripting.UnitInfo {
		if id == b.me.ID {
			return b.me
		}
		return nil
	}
	mgr.GetEnemies = func(string) []*scripting.UnitInfo { return b.enemies }
	mgr.GetAllies = func(string) []*scripting.UnitInfo { return b.allies }
	return mgr
}

func hook(t *testing.T, mgr *scripting.Manager, name string) lua.LValue {
	t.Helper()
	ret, err := mgr.CallHook("ai", name, lua.LString("me"))
	require.NoError(t, err)
	return ret
}

func fresh(id string) *scripting.UnitInfo {
	return &scripting.UnitInfo{ID: id, Vitality: 20, MaxVitality: 20, Energy: 40, MaxEnergy: 60, Distance: 3}
}

func TestCrewHooks_HasEnemy(t *testing.T) {
	b := &crewBattle{me: fresh("me")}
	mgr := crewHooks(t, b)
	assert.Equal(t, lua.LFalse, hook(t, mgr, "has_enemy"))
	b.enemies = []*scripting.UnitInfo{fresh("e1")}
	assert.Equal(t, lua.LTrue, hook(t, mgr, "has_enemy"))
}

func TestCrewHooks_EnemyIsWeak(t *testing.T) {
	foe := fresh("e1")
	b := &crewBattle{me: fresh("me"), enemies: []*scripting.UnitInfo{foe}}
	mgr := crewHooks(t, b)
	assert.Equal(t, lua.LFalse, hook(t, mgr, "enemy_is_weak"))
	foe.Vitality = 8
	assert.Equal(t, lua.LTrue, hook(t, mgr, "enemy_is_weak"))
}

func TestCrewHooks_EnemyAdjacent(t *testing.T) {
	foe := fresh("e1")
	b := &crewBattle{me: fresh("me"), enemies: []*scripting.UnitInfo{foe}}
	mgr := crewHooks(t, b)
	assert.Equal(t, lua.LFalse, hook(t, mgr, "enemy_adjacent"))
	foe.Distance = 1
	assert.Equal(t, lua.LTrue, hook(t, mgr, "enemy_adjacent"))
}

func TestCrewHooks_AllyWounded(t *testing.T) {
	mate := fresh("a1")
	b := &crewBattle{me: fresh("me"), allies: []*scripting.UnitInfo{mate}}
	mgr := crewHooks(t, b)
	assert.Equal(t, lua.LFalse, hook(t, mgr, "ally_wounded"))
	mate.Downed = true
	assert.Equal(t, lua.LTrue, hook(t, mgr, "ally_wounded"))
	mate.Downed = false
	b.me.Vitality = 5
	assert.Equal(t, lua.LTrue, hook(t, mgr, "ally_wounded"))
}

func TestCrewHooks_CanBrew(t *testing.T) {
	b := &crewBattle{me: fresh("me")}
	mgr := crewHooks(t, b)
	b.me.Energy = 100
	assert.Equal(t, lua.LFalse, hook(t, mgr, "can_brew"), "nobody to tend")
	b.allies = []*scripting.UnitInfo{fresh("a1")}
	assert.Equal(t, lua.LTrue, hook(t, mgr, "can_brew"))
	b.me.Energy = 99
	assert.Equal(t, lua.LFalse, hook(t, mgr, "can_brew"))
}

func TestProperty_EnemyIsWeakMatchesThreshold(t *testing.T) {
	foe := fresh("e1")
	b := &crewBattle{me: fresh("me"), enemies: []*scripting.UnitInfo{foe}}
	mgr := crewHooks(t, b)
	rapid.Check(t, func(rt *rapid.T) {
		foe.MaxVitality = rapid.IntRange(1, 60).Draw(rt, "max")
		foe.Vitality = rapid.IntRange(0, foe.MaxVitality).Draw(rt, "vit")
		want := foe.Vitality*100 <= 40*foe.MaxVitality
		ret, err := mgr.CallHook("ai", "enemy_is_weak", lua.LString("me"))
		if err != nil {
			rt.Fatal(err)
		}
		if ret != lua.LBool(want) {
			rt.Fatalf("vitality %d/%d: got %v", foe.Vitality, foe.MaxVitality, ret)
		}
	})
}
