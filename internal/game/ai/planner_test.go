package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/corsair/internal/game/ai"
	"github.com/cory-johannsen/corsair/internal/game/grid"
)

// hookTable answers preconditions by name; missing hooks are undefined.
type hookTable map[string]bool

func (h hookTable) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	v, ok := h[hook]
	if !ok {
		return lua.LNil, nil
	}
	return lua.LBool(v), nil
}

func brawlerDomain() *ai.Domain {
	return &ai.Domain{
		ID: "brawler",
		Tasks: []*ai.Task{
			{ID: "behave"},
			{ID: "fight"},
		},
		Methods: []*ai.Method{
			{TaskID: "behave", ID: "engage", Precondition: "has_enemy", Subtasks: []string{"fight"}},
			{TaskID: "behave", ID: "idle", Subtasks: []string{"do_pass"}},
			{TaskID: "fight", ID: "brawl", Subtasks: []string{"attack_nearest", "advance_nearest"}},
		},
		Operators: []*ai.Operator{
			{ID: "attack_nearest", Action: ai.ActionAttack, Target: "nearest_enemy"},
			{ID: "advance_nearest", Action: ai.ActionAdvance, Target: "nearest_enemy"},
			{ID: "do_pass", Action: ai.ActionPass},
		},
	}
}

func skirmish() *ai.WorldState {
	me := &ai.UnitState{ID: "me", Team: grid.TeamEnemy, Vitality: 10, MaxVitality: 10}
	return &ai.WorldState{
		Actor: me,
		Units: []*ai.UnitState{
			me,
			{ID: "far", Team: grid.TeamPlayer, Vitality: 2, MaxVitality: 10, Distance: 6},
			{ID: "near", Team: grid.TeamPlayer, Vitality: 9, MaxVitality: 10, Distance: 1},
		},
	}
}

func TestPlanner_PlanFollowsFirstApplicableMethod(t *testing.T) {
	p := ai.NewPlanner(brawlerDomain(), hookTable{"has_enemy": true}, "ai")
	plan, err := p.Plan(skirmish())
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, ai.ActionAttack, plan[0].Action)
	assert.Equal(t, "near", plan[0].Target)
	assert.Equal(t, ai.ActionAdvance, plan[1].Action)
	assert.Equal(t, "attack_nearest", plan[0].Operator)
}

func TestPlanner_RecordsProducingMethod(t *testing.T) {
	p := ai.NewPlanner(brawlerDomain(), hookTable{"has_enemy": true}, "ai")
	plan, err := p.Plan(skirmish())
	require.NoError(t, err)
	for _, a := range plan {
		assert.Equal(t, "brawl", a.Method, a.Operator)
	}

	p = ai.NewPlanner(brawlerDomain(), hookTable{}, "ai")
	plan, err = p.Plan(skirmish())
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "idle", plan[0].Method)
}

// luaValues answers every hook with the same value or error.
type luaValues struct {
	v   lua.LValue
	err error
}

func (l luaValues) CallHook(string, string, ...lua.LValue) (lua.LValue, error) { return l.v, l.err }

func TestPlanner_PreconditionTruthiness(t *testing.T) {
	cases := []struct {
		name   string
		caller luaValues
		engage bool
	}{
		{"true", luaValues{v: lua.LTrue}, true},
		{"number", luaValues{v: lua.LNumber(0)}, true},
		{"string", luaValues{v: lua.LString("aye")}, true},
		{"false", luaValues{v: lua.LFalse}, false},
		{"nil", luaValues{v: lua.LNil}, false},
		{"error", luaValues{v: lua.LTrue, err: assert.AnError}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := ai.NewPlanner(brawlerDomain(), tc.caller, "ai").Plan(skirmish())
			require.NoError(t, err)
			require.NotEmpty(t, plan)
			assert.Equal(t, tc.engage, plan[0].Action == ai.ActionAttack)
		})
	}
}

func TestPlanner_FalsePreconditionFallsThrough(t *testing.T) {
	p := ai.NewPlanner(brawlerDomain(), hookTable{"has_enemy": false}, "ai")
	plan, err := p.Plan(skirmish())
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, ai.ActionPass, plan[0].Action)
}

func TestPlanner_UndefinedHookCountsAsFalse(t *testing.T) {
	p := ai.NewPlanner(brawlerDomain(), hookTable{}, "ai")
	plan, err := p.Plan(skirmish())
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, ai.ActionPass, plan[0].Action)
}

func TestPlanner_SelfRecursiveDomainTerminates(t *testing.T) {
	d := &ai.Domain{
		ID:    "loop",
		Tasks: []*ai.Task{{ID: "behave"}},
		Methods: []*ai.Method{
			{TaskID: "behave", ID: "again", Subtasks: []string{"do_pass", "behave"}},
		},
		Operators: []*ai.Operator{{ID: "do_pass", Action: ai.ActionPass}},
	}
	plan, err := ai.NewPlanner(d, hookTable{}, "ai").Plan(skirmish())
	require.NoError(t, err)
	assert.NotEmpty(t, plan)
	assert.Less(t, len(plan), 32)
}

func TestPlanner_NilStateIsAnError(t *testing.T) {
	_, err := ai.NewPlanner(brawlerDomain(), hookTable{}, "ai").Plan(nil)
	assert.Error(t, err)
}

func TestNewPlanner_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { ai.NewPlanner(nil, hookTable{}, "ai") })
	assert.Panics(t, func() { ai.NewPlanner(brawlerDomain(), nil, "ai") })
}

func TestRegistry_RejectsDuplicateDomain(t *testing.T) {
	reg := ai.NewRegistry()
	require.NoError(t, reg.Register(brawlerDomain(), hookTable{}, "ai"))
	assert.Error(t, reg.Register(brawlerDomain(), hookTable{}, "ai"))
	p, ok := reg.PlannerFor("brawler")
	require.True(t, ok)
	assert.Equal(t, "brawler", p.Domain().ID)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_RejectsInvalidDomain(t *testing.T) {
	reg := ai.NewRegistry()
	d := brawlerDomain()
	d.Operators[0].Action = "parley"
	assert.Error(t, reg.Register(d, hookTable{}, "ai"))
	assert.Zero(t, reg.Len())
}

func TestRegistry_IDsSorted(t *testing.T) {
	reg := ai.NewRegistry()
	for _, id := range []string{"support", "brawler", "gunner"} {
		d := brawlerDomain()
		d.ID = id
		require.NoError(t, reg.Register(d, hookTable{}, "ai"))
	}
	assert.Equal(t, []string{"brawler", "gunner", "support"}, reg.IDs())
}
