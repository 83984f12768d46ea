package skillcheck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/corsair/internal/game/dice"
	"github.com/cory-johannsen/corsair/internal/game/skillcheck"
	"github.com/cory-johannsen/corsair/internal/game/stats"
)

type fixedSource struct{ vals []int }

func (f *fixedSource) Intn(n int) int {
	v := f.vals[0] % n
	f.vals = f.vals[1:]
	return v
}

type fighter struct {
	name  string
	attrs map[stats.Attribute]int
}

func (f fighter) ID() string                      { return f.name }
func (f fighter) Name() string                    { return f.name }
func (f fighter) Attribute(a stats.Attribute) int { return f.attrs[a] }

func TestResolve(t *testing.T) {
	assert.Equal(t, skillcheck.Miss, skillcheck.Resolve(9, 10))
	assert.Equal(t, skillcheck.NormalHit, skillcheck.Resolve(10, 10))
	assert.Equal(t, skillcheck.NormalHit, skillcheck.Resolve(19, 10))
	assert.Equal(t, skillcheck.CriticalHit, skillcheck.Resolve(20, 10))
}

func TestDiceOracle_OpposedRolls(t *testing.T) {
	// attack 1: d20=15 +3, defence d20=5 +1 -> 18 vs 6 crit
	// attack 2 (friendly, unopposed): d20=2 +3 -> 5 vs 10 miss
	src := &fixedSource{vals: []int{14, 4, 1}}
	oracle := skillcheck.NewDiceOracle(dice.NewLoggedRoller(src, nil))
	attacker := fighter{name: "a", attrs: map[stats.Attribute]int{stats.Strength: 3}}
	foe := fighter{name: "b", attrs: map[stats.Attribute]int{stats.Agility: 1}}
	ally := fighter{name: "c"}

	var hostile, friendly []skillcheck.Outcome
	calls := 0
	oracle.StartContested(skillcheck.Request{
		Attacker:       attacker,
		Hostile:        []skillcheck.Participant{foe},
		Friendly:       []skillcheck.Participant{ally},
		AttackerSkill:  stats.Strength,
		HostileDefense: stats.Agility,
	}, func(h, f []skillcheck.Outcome) {
		calls++
		hostile, friendly = h, f
	})
	require.Equal(t, 1, calls)
	assert.Equal(t, []skillcheck.Outcome{skillcheck.CriticalHit}, hostile)
	assert.Equal(t, []skillcheck.Outcome{skillcheck.Miss}, friendly)
}

func TestDeferred(t *testing.T) {
	d := skillcheck.NewDeferred()
	var got []skillcheck.Outcome
	d.StartContested(skillcheck.Request{AttackerSkill: stats.Accuracy}, func(h, _ []skillcheck.Outcome) { got = h })
	assert.Equal(t, 1, d.Pending())
	req, ok := d.Request()
	require.True(t, ok)
	assert.Equal(t, stats.Accuracy, req.AttackerSkill)

	assert.True(t, d.Resolve(skillcheck.AllHit(2), nil))
	assert.Equal(t, []skillcheck.Outcome{skillcheck.NormalHit, skillcheck.NormalHit}, got)
	assert.False(t, d.Resolve(nil, nil))
	assert.Zero(t, d.Pending())
}

func TestProperty_OutcomeCountMatchesTargets(t *testing.T) {
	oracle := skillcheck.NewDiceOracle(dice.NewLoggedRoller(dice.NewSeededSource(7), nil))
	rapid.Check(t, func(rt *rapid.T) {
		nh := rapid.IntRange(0, 6).Draw(rt, "hostile")
		nf := rapid.IntRange(0, 6).Draw(rt, "friendly")
		req := skillcheck.Request{Attacker: fighter{name: "a"}, AttackerSkill: stats.Accuracy}
		for i := 0; i < nh; i++ {
			req.Hostile = append(req.Hostile, fighter{name: "h"})
		}
		for i := 0; i < nf; i++ {
			req.Friendly = append(req.Friendly, fighter{name: "f"})
		}
		oracle.StartContested(req, func(h, f []skillcheck.Outcome) {
			if len(h) != nh || len(f) != nf {
				rt.Fatalf("got %d/%d outcomes, want %d/%d", len(h), len(f), nh, nf)
			}
		})
	})
}
