package effect_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/corsair/internal/game/effect"
	"github.com/cory-johannsen/corsair/internal/game/stats"
)

type dummy struct {
	pools   map[stats.Resource]*stats.Pool
	effects []effect.Effect
}

func newDummy() *dummy {
	d := &dummy{pools: map[stats.Resource]*stats.Pool{}}
	for _, r := range stats.Resources {
		p := stats.NewPool(20)
		d.pools[r] = &p
	}
	return d
}

func (d *dummy) Name() string                      { return "dummy" }
func (d *dummy) Pool(r stats.Resource) *stats.Pool { return d.pools[r] }
func (d *dummy) Effects() []effect.Effect          { return slices.Clone(d.effects) }
func (d *dummy) AddEffect(e effect.Effect)         { d.effects = append(d.effects, e) }
func (d *dummy) RemoveEffect(e effect.Effect) {
	d.effects = slices.DeleteFunc(d.effects, func(x effect.Effect) bool { return x == e })
}

func (d *dummy) tick() {
	for _, e := range d.Effects() {
		e.Tick(d)
	}
}

func TestDamageAndCritical(t *testing.T) {
	d := newDummy()
	spec := effect.Spec{Kind: effect.Damage, Amount: 5, Hostile: true}
	spec.New(false).Apply(d)
	assert.Equal(t, 15, d.Pool(stats.Vitality).Current())
	spec.New(true).Apply(d)
	assert.Equal(t, 5, d.Pool(stats.Vitality).Current())
	assert.Empty(t, d.effects)
}

func TestPoison_ExpiresAfterDuration(t *testing.T) {
	d := newDummy()
	effect.Spec{Kind: effect.Poison, Amount: 1, Duration: 2, Hostile: true}.New(false).Apply(d)
	require.True(t, effect.Has(d, effect.Poison))

	d.tick()
	assert.Equal(t, 19, d.Pool(stats.Vitality).Current())
	assert.True(t, effect.Has(d, effect.Poison))

	d.tick()
	assert.Equal(t, 18, d.Pool(stats.Vitality).Current())
	assert.False(t, effect.Has(d, effect.Poison))

	d.tick()
	assert.Equal(t, 18, d.Pool(stats.Vitality).Current())
}

func TestBleed_UntilHealed(t *testing.T) {
	d := newDummy()
	effect.Spec{Kind: effect.Bleed, Amount: 2, Hostile: true}.New(false).Apply(d)
	for i := 0; i < 5; i++ {
		d.tick()
	}
	assert.Equal(t, 10, d.Pool(stats.Vitality).Current())
	assert.True(t, effect.Has(d, effect.Bleed))

	effect.Spec{Kind: effect.Heal, Amount: 3, Friendly: true}.New(false).Apply(d)
	assert.Equal(t, 13, d.Pool(stats.Vitality).Current())
	assert.False(t, effect.Has(d, effect.Bleed))
}

func TestFearAndLoyalty(t *testing.T) {
	d := newDummy()
	effect.Spec{Kind: effect.LoyaltyDecrease, Amount: 4, Hostile: true}.New(false).Apply(d)
	assert.Equal(t, 16, d.Pool(stats.Loyalty).Current())

	effect.Spec{Kind: effect.Fear, Amount: 1, Duration: 3, Hostile: true}.New(false).Apply(d)
	for i := 0; i < 4; i++ {
		d.tick()
	}
	assert.Equal(t, 13, d.Pool(stats.Loyalty).Current())
	assert.False(t, effect.Has(d, effect.Fear))
}

func TestStun_CountsDown(t *testing.T) {
	d := newDummy()
	effect.Spec{Kind: effect.Stun, Duration: 1, Hostile: true}.New(false).Apply(d)
	assert.Equal(t, 1, effect.Count(d, effect.Stun))
	d.tick()
	assert.Zero(t, effect.Count(d, effect.Stun))
}

func TestModifier(t *testing.T) {
	d := newDummy()
	effect.Spec{Kind: effect.Modifier, Amount: -2, Duration: 1, Attribute: stats.Agility, Friendly: true}.New(false).Apply(d)
	require.Len(t, d.effects, 1)
	m, ok := d.effects[0].(*effect.StatModifier)
	require.True(t, ok)
	assert.Equal(t, stats.Agility, m.Attribute())
	assert.Equal(t, -2, m.Amount())
	assert.Equal(t, "-2 agility for 1 turn", m.Description())
}

func TestSpec_Validate(t *testing.T) {
	assert.NoError(t, effect.Spec{Kind: effect.Damage, Amount: 5, Hostile: true}.Validate())
	assert.Error(t, effect.Spec{Kind: effect.Damage, Amount: 5}.Validate())
	assert.Error(t, effect.Spec{Kind: effect.Poison, Amount: 1, Hostile: true}.Validate())
	assert.Error(t, effect.Spec{Kind: effect.Modifier, Amount: 1, Duration: 1, Friendly: true}.Validate())
	assert.Error(t, effect.Spec{Kind: effect.Heal, Amount: -1, Friendly: true}.Validate())
}

func TestParseKind(t *testing.T) {
	k, err := effect.ParseKind("Loyalty_Decrease")
	require.NoError(t, err)
	assert.Equal(t, effect.LoyaltyDecrease, k)
	_, err = effect.ParseKind("teleport")
	assert.Error(t, err)
}
