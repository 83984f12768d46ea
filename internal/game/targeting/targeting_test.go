package targeting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/hex"
	"github.com/cory-johannsen/corsair/internal/game/pathfind"
	"github.com/cory-johannsen/corsair/internal/game/targeting"
)

type token struct{ grid.UnitBase }

func newToken(player bool) *token { return &token{UnitBase: grid.NewUnitBase(player)} }

func (t *token) CanEnter(c *grid.Cell) bool                  { return c.Traversable && c.Free() }
func (t *token) EnterModifier(hex.Direction, *grid.Cell) int { return 0 }

func setup(t require.TestingT, w, h int) (*grid.Grid, *pathfind.Pathfinder) {
	g, err := grid.NewMap(nil, w, h, true)
	require.NoError(t, err)
	return g, pathfind.New(g)
}

func place(t require.TestingT, g *grid.Grid, player bool, x, y int) *token {
	u := newToken(player)
	require.NoError(t, g.AddUnit(u, g.CellAtOffset(x, y), hex.NE))
	return u
}

func coords(cells []*grid.Cell) []hex.Coordinate {
	out := make([]hex.Coordinate, 0, len(cells))
	for _, c := range cells {
		out = append(out, c.Coordinate())
	}
	return out
}

func TestSingleAdjacent(t *testing.T) {
	g, p := setup(t, 5, 5)
	origin := g.CellAtOffset(2, 2)
	place(t, g, true, 2, 2)
	foe := place(t, g, false, 3, 2)

	occupied := targeting.SingleAdjacent{}.ValidTargets(p, origin)
	require.Len(t, occupied, 1)
	assert.Equal(t, g.LocationOf(foe), occupied[0])

	empty := targeting.SingleAdjacent{Empty: true}.ValidTargets(p, origin)
	assert.Len(t, empty, 5)
	assert.False(t, targeting.NewSet(empty).Contains(g.LocationOf(foe)))
}

func TestSwipeAdjacent_HitsTargetAndFlanks(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		g, p := setup(rt, 7, 7)
		origin := g.CellAtOffset(3, 3)
		d := hex.Direction(rapid.IntRange(0, hex.DirectionCount-1).Draw(rt, "direction"))
		target := g.Neighbor(origin, d)
		require.NotNil(rt, target)

		got := targeting.SwipeAdjacent{}.AffectedCells(p, origin, target)
		want := []*grid.Cell{target, g.Neighbor(origin, d.Previous()), g.Neighbor(origin, d.Next())}
		assert.ElementsMatch(rt, coords(want), coords(got))
	})
}

func TestSwipeAdjacent_EdgeDropsMissingFlank(t *testing.T) {
	g, p := setup(t, 3, 1)
	origin := g.CellAtOffset(0, 0)
	target := g.CellAtOffset(1, 0)
	got := targeting.SwipeAdjacent{}.AffectedCells(p, origin, target)
	assert.Equal(t, []hex.Coordinate{target.Coordinate()}, coords(got))
}

func TestRangedSingle(t *testing.T) {
	g, p := setup(t, 7, 1)
	place(t, g, true, 0, 0)
	near := place(t, g, false, 2, 0)
	place(t, g, false, 5, 0)

	got := targeting.RangedSingle{Range: 3}.ValidTargets(p, g.CellAtOffset(0, 0))
	assert.Equal(t, []hex.Coordinate{g.LocationOf(near).Coordinate()}, coords(got))
}

func TestRangedSingle_ReachesAcrossOpenWater(t *testing.T) {
	g, p := setup(t, 7, 1)
	origin := g.CellAtOffset(0, 0)
	place(t, g, true, 0, 0)
	foe := place(t, g, false, 3, 0)
	rule := targeting.RangedSingle{Range: 3}

	got := rule.ValidTargets(p, origin)
	require.Equal(t, []hex.Coordinate{g.LocationOf(foe).Coordinate()}, coords(got))
	assert.Equal(t, []hex.Coordinate{g.LocationOf(foe).Coordinate()}, coords(rule.AffectedCells(p, origin, got[0])))

	assert.Empty(t, targeting.RangedSingle{Range: 2}.ValidTargets(p, origin), "out of range")

	g.SetTraversable(g.CellAtOffset(1, 0), false)
	assert.Empty(t, rule.ValidTargets(p, origin), "land in the way")
}

func TestProperty_RangedSingleFindsEveryFoeInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		g, p := setup(rt, 9, 1)
		place(rt, g, true, 0, 0)
		x := rapid.IntRange(1, 8).Draw(rt, "x")
		rng := rapid.IntRange(1, 8).Draw(rt, "range")
		place(rt, g, false, x, 0)

		got := targeting.RangedSingle{Range: rng}.ValidTargets(p, g.CellAtOffset(0, 0))
		if x <= rng {
			assert.Equal(rt, []hex.Coordinate{g.CellAtOffset(x, 0).Coordinate()}, coords(got))
		} else {
			assert.Empty(rt, got)
		}
	})
}

func TestAnySingle(t *testing.T) {
	g, p := setup(t, 7, 7)
	place(t, g, true, 0, 0)
	place(t, g, false, 6, 6)
	place(t, g, false, 3, 1)
	got := targeting.AnySingle{}.ValidTargets(p, g.CellAtOffset(0, 0))
	assert.Len(t, got, 2)
}

func TestLine_ContinuesAfterFirstHit(t *testing.T) {
	g, p := setup(t, 7, 1)
	origin := g.CellAtOffset(0, 0)
	place(t, g, true, 0, 0)
	first := place(t, g, false, 2, 0)
	second := place(t, g, false, 4, 0)
	place(t, g, false, 5, 0)

	rule := targeting.Line{Range: 3, AfterFirstHit: 2}
	valid := rule.ValidTargets(p, origin)
	require.Equal(t, []hex.Coordinate{g.LocationOf(first).Coordinate()}, coords(valid))

	got := rule.AffectedCells(p, origin, valid[0])
	assert.Equal(t, []hex.Coordinate{
		g.LocationOf(first).Coordinate(),
		g.LocationOf(second).Coordinate(),
	}, coords(got))
}

func TestSelfArea(t *testing.T) {
	g, p := setup(t, 7, 7)
	origin := g.CellAtOffset(3, 3)
	rule := targeting.SelfArea{Radius: 1, IncludeSelf: true}
	valid := rule.ValidTargets(p, origin)
	require.Equal(t, []*grid.Cell{origin}, valid)
	assert.Len(t, rule.AffectedCells(p, origin, origin), 7)
	assert.True(t, targeting.Contains(p, rule, origin, origin))
	assert.False(t, targeting.Contains(p, rule, origin, g.CellAtOffset(0, 0)))
}

func TestPartition(t *testing.T) {
	g, _ := setup(t, 5, 1)
	actor := place(t, g, true, 0, 0)
	ally := place(t, g, true, 1, 0)
	foe := place(t, g, false, 2, 0)

	cells := []*grid.Cell{g.CellAtOffset(1, 0), g.CellAtOffset(2, 0), g.CellAtOffset(3, 0), g.CellAtOffset(2, 0)}
	hostile, friendly := targeting.Partition(g, cells, actor)
	assert.Equal(t, []grid.Unit{foe}, hostile)
	assert.Equal(t, []grid.Unit{ally}, friendly)
}
