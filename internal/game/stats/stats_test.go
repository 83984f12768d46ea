package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/corsair/internal/game/stats"
)

func TestPool_Clamps(t *testing.T) {
	p := stats.NewPool(10)
	assert.Equal(t, -10, p.Add(-25))
	assert.True(t, p.Empty())
	assert.Equal(t, 10, p.Add(99))
	assert.Equal(t, 10, p.Current())

	p.SetMax(4)
	assert.Equal(t, 4, p.Current())
	assert.InDelta(t, 1.0, p.Fraction(), 1e-9)
}

func TestParseAttribute(t *testing.T) {
	a, err := stats.ParseAttribute("Accuracy")
	require.NoError(t, err)
	assert.Equal(t, stats.Accuracy, a)

	a, err = stats.ParseAttribute("")
	require.NoError(t, err)
	assert.Equal(t, stats.None, a)

	_, err = stats.ParseAttribute("luck")
	assert.Error(t, err)
}

func TestProperty_PoolStaysInBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := stats.NewPool(rapid.IntRange(0, 200).Draw(rt, "max"))
		for _, d := range rapid.SliceOf(rapid.IntRange(-300, 300)).Draw(rt, "deltas") {
			p.Add(d)
			if p.Current() < 0 || p.Current() > p.Max() {
				rt.Fatalf("current %d outside [0,%d]", p.Current(), p.Max())
			}
		}
	})
}
