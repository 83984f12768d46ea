package character_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/corsair/internal/game/ability"
	"github.com/cory-johannsen/corsair/internal/game/character"
	"github.com/cory-johannsen/corsair/internal/game/effect"
	"github.com/cory-johannsen/corsair/internal/game/event"
	"github.com/cory-johannsen/corsair/internal/game/stats"
	"github.com/cory-johannsen/corsair/internal/game/turn"
)

func newSailor(t *testing.T) *character.Character {
	t.Helper()
	return character.New("Anne", true, map[stats.Resource]int{
		stats.Vitality: 10,
		stats.Energy:   50,
		stats.Loyalty:  100,
	}, map[stats.Attribute]int{stats.Strength: 3}, []int{2, 200})
}

func TestPoison_TwoTicksThenGone(t *testing.T) {
	c := newSailor(t)
	effect.Spec{Kind: effect.Poison, Amount: 1, Duration: 2, Hostile: true}.New(false).Apply(c)
	require.True(t, c.Has(character.Poisoned))

	c.EndTurn()
	assert.Equal(t, 9, c.Pool(stats.Vitality).Current())
	assert.True(t, c.Has(character.Poisoned))

	c.EndTurn()
	assert.Equal(t, 8, c.Pool(stats.Vitality).Current())
	assert.False(t, c.Has(character.Poisoned))
	assert.Len(t, c.RemovedEffects(), 1)

	c.EndTurn()
	assert.Equal(t, 8, c.Pool(stats.Vitality).Current())
	assert.Empty(t, c.RemovedEffects())
}

func TestTick_SeveralEffectsExpireInOnePass(t *testing.T) {
	c := newSailor(t)
	for i := 0; i < 3; i++ {
		effect.Spec{Kind: effect.Poison, Amount: 1, Duration: 1, Hostile: true}.New(false).Apply(c)
	}
	effect.Spec{Kind: effect.Stun, Duration: 2, Hostile: true}.New(false).Apply(c)
	assert.Equal(t, 3, c.ConditionCount(character.Poisoned))

	c.EndTurn()
	assert.Equal(t, 7, c.Pool(stats.Vitality).Current())
	assert.Zero(t, c.ConditionCount(character.Poisoned))
	assert.True(t, c.Stunned())
	assert.Len(t, c.Effects(), 1)
}

func TestActivate_ByMode(t *testing.T) {
	c := newSailor(t)
	c.RemainingMovement = 0
	c.Pool(stats.Energy).Set(0)

	c.Activate(turn.Combat)
	assert.Equal(t, c.DefaultMovement, c.RemainingMovement)
	assert.Equal(t, character.DefaultEnergyRegen, c.Pool(stats.Energy).Current())

	c.Activate(turn.Management)
	assert.Equal(t, math.MaxInt, c.RemainingMovement)

	c.RemainingMovement = 2
	c.Activate(turn.Map)
	assert.Equal(t, 2, c.RemainingMovement)

	effect.Spec{Kind: effect.Stun, Duration: 1, Hostile: true}.New(false).Apply(c)
	c.Activate(turn.Combat)
	assert.Zero(t, c.RemainingMovement)
	assert.Equal(t, character.DefaultEnergyRegen, c.Pool(stats.Energy).Current())
	assert.False(t, c.CanMove())
}

func TestDownedThenDead(t *testing.T) {
	bus := event.NewBus()
	var kinds []event.Kind
	bus.SubscribeAll(func(e event.Event) { kinds = append(kinds, e.Kind) })

	c := newSailor(t)
	c.SetEvents(bus)
	c.Pool(stats.Vitality).Set(0)
	assert.True(t, c.CheckDowned())
	assert.False(t, c.CanMove())

	for i := 0; i < character.DefaultDownTurns-1; i++ {
		c.EndTurn()
		assert.False(t, c.Dead())
	}
	c.EndTurn()
	assert.True(t, c.Dead())
	assert.Equal(t, []event.Kind{event.CharacterDowned, event.CharacterDied}, kinds)
}

func TestHealedCharacterGetsUp(t *testing.T) {
	c := newSailor(t)
	c.Pool(stats.Vitality).Set(0)
	c.CheckDowned()
	c.EndTurn()
	assert.Equal(t, character.DefaultDownTurns-1, c.DownCounter())

	effect.Spec{Kind: effect.Heal, Amount: 3, Friendly: true}.New(false).Apply(c)
	assert.False(t, c.CheckDowned())
	assert.True(t, c.CanMove())
}

func TestSelectAbility(t *testing.T) {
	reg := ability.NewRegistry()
	reg.Register(&ability.Ability{ID: 2, Name: "Punch"})
	c := newSailor(t)

	a, err := c.SelectAbility(reg, 2)
	require.NoError(t, err)
	assert.Equal(t, "Punch", a.Name)

	_, err = c.SelectAbility(reg, 21)
	assert.ErrorIs(t, err, character.ErrAbilityNotOwned)

	_, err = c.SelectAbility(reg, 200)
	assert.ErrorIs(t, err, ability.ErrUnknownAbility)
}

func TestAttribute_IncludesModifiers(t *testing.T) {
	c := newSailor(t)
	effect.Spec{Kind: effect.Modifier, Amount: 2, Duration: 1, Attribute: stats.Strength, Friendly: true}.New(false).Apply(c)
	assert.Equal(t, 5, c.Attribute(stats.Strength))
	assert.Equal(t, 3, c.BaseAttribute(stats.Strength))
	c.EndTurn()
	assert.Equal(t, 3, c.Attribute(stats.Strength))
}

func TestProperty_TickRemovesExactlyExpired(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := character.New("Bart", false, map[stats.Resource]int{stats.Vitality: 1000}, nil, nil)
		durations := rapid.SliceOfN(rapid.IntRange(1, 4), 1, 10).Draw(rt, "durations")
		for _, d := range durations {
			effect.Spec{Kind: effect.Poison, Amount: 1, Duration: d, Hostile: true}.New(false).Apply(c)
		}
		for turnNo := 1; turnNo <= 4; turnNo++ {
			c.EndTurn()
			want := 0
			for _, d := range durations {
				if d > turnNo {
					want++
				}
			}
			if got := len(c.Effects()); got != want {
				rt.Fatalf("after turn %d: %d effects, want %d", turnNo, got, want)
			}
		}
	})
}

func TestLoadTemplates_Content(t *testing.T) {
	tpls, err := character.LoadTemplates(filepath.Join("..", "..", "..", "content", "crew"))
	require.NoError(t, err)
	require.NotEmpty(t, tpls)
	for _, tpl := range tpls {
		c, err := character.Build(tpl, true)
		require.NoError(t, err, tpl.ID)
		assert.Equal(t, tpl.Vitality, c.Pool(stats.Vitality).Max())
		assert.Equal(t, 100, c.Pool(stats.Loyalty).Current())
		assert.NotEmpty(t, c.Abilities())
	}
}

func TestBuild_Invalid(t *testing.T) {
	_, err := character.Build(&character.Template{ID: "x", Name: "X", Vitality: 0}, true)
	assert.Error(t, err)
	_, err = character.Build(&character.Template{ID: "x", Name: "X", Vitality: 5, Attributes: map[string]int{"luck": 1}}, true)
	assert.Error(t, err)
	_, err = character.Build(nil, true)
	assert.Error(t, err)
}
