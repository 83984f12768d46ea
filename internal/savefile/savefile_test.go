package savefile_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/corsair/internal/game/character"
	"github.com/cory-johannsen/corsair/internal/game/event"
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/hex"
	"github.com/cory-johannsen/corsair/internal/game/ship"
	"github.com/cory-johannsen/corsair/internal/game/stats"
	"github.com/cory-johannsen/corsair/internal/savefile"
)

func sailor(name string) *character.Character {
	c := character.New(name, true, map[stats.Resource]int{
		stats.Vitality: 20,
		stats.Energy:   40,
		stats.Loyalty:  100,
	}, map[stats.Attribute]int{stats.Strength: 3, stats.Charisma: 1}, []int{2, 100})
	c.Role = "melee"
	c.Domain = "melee_crew"
	return c
}

func seaMap(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.NewMap(event.NewBus(), 6, 4, true)
	require.NoError(t, err)
	for _, c := range g.Cells() {
		if c.Coordinate().X%2 == 0 {
			c.Land = false
		}
	}
	g.RecalculateBitmasks()
	g.CellAtOffset(0, 0).Spawn = grid.SpawnPlayer
	g.CellAtOffset(5, 3).Spawn = grid.SpawnRangedEnemy
	g.CellAtOffset(2, 1).Harbor = true
	g.CellAtOffset(3, 2).EnterModifier = 2
	g.CellAtOffset(4, 0).Traversable = false
	g.OverrideConnection(g.CellAtOffset(1, 1), hex.E, false)
	return g
}

func TestRoundTrip_CellsAndConnectivity(t *testing.T) {
	g := seaMap(t)
	data, err := savefile.Marshal(g)
	require.NoError(t, err)

	got, err := savefile.Unmarshal(data, event.NewBus())
	require.NoError(t, err)
	require.Equal(t, g.Width(), got.Width())
	require.Equal(t, g.Height(), got.Height())
	for i, want := range g.Cells() {
		c := got.Cells()[i]
		assert.Equal(t, want.Coordinate(), c.Coordinate())
		assert.Equal(t, want.Traversable, c.Traversable, "cell %d", i)
		assert.Equal(t, want.Spawn, c.Spawn, "cell %d", i)
		assert.Equal(t, want.Land, c.Land, "cell %d", i)
		assert.Equal(t, want.Harbor, c.Harbor, "cell %d", i)
		assert.Equal(t, want.EnterModifier, c.EnterModifier, "cell %d", i)
		assert.Equal(t, want.Bitmask, c.Bitmask, "cell %d", i)
		for _, d := range hex.Directions {
			assert.Equal(t, want.Neighbor(d), c.Neighbor(d), "cell %d direction %v", i, d)
		}
	}
	assert.False(t, got.CellAtOffset(1, 1).Connected(hex.E))
}

func TestRoundTrip_Units(t *testing.T) {
	g := seaMap(t)
	anne := sailor("Anne")
	anne.Pool(stats.Vitality).Set(7)
	anne.RemainingMovement = 2
	anne.Team = grid.TeamEnemy
	require.NoError(t, g.AddUnit(anne, g.CellAtOffset(1, 0), hex.SE))

	sloop := ship.New("Sloop", false)
	sloop.Hull.Set(60)
	bosun := sailor("Bosun")
	sloop.Crew.Add(bosun)
	require.NoError(t, sloop.Crew.AssignJob(bosun, ship.Helm))
	sloop.Crew.Add(sailor("Cook"))
	require.NoError(t, g.AddUnit(sloop, g.CellAtOffset(2, 2), hex.W))

	var buf bytes.Buffer
	require.NoError(t, savefile.Write(&buf, g))
	got, err := savefile.Read(&buf, event.NewBus())
	require.NoError(t, err)
	require.Len(t, got.Units(), 2)

	u, ok := got.Unit(anne.ID())
	require.True(t, ok)
	c, ok := u.(*character.Character)
	require.True(t, ok)
	assert.Equal(t, "Anne", c.Name())
	assert.Equal(t, 7, c.Pool(stats.Vitality).Current())
	assert.Equal(t, 20, c.Pool(stats.Vitality).Max())
	assert.Equal(t, 40, c.Pool(stats.Energy).Current())
	assert.Equal(t, 3, c.BaseAttribute(stats.Strength))
	assert.Equal(t, []int{2, 100}, c.Abilities())
	assert.Equal(t, "melee_crew", c.Domain)
	assert.Equal(t, grid.TeamEnemy, c.Team)
	assert.Equal(t, 2, c.RemainingMovement)
	assert.Equal(t, hex.SE, c.Orientation)
	assert.Equal(t, got.CellAtOffset(1, 0), got.LocationOf(c))

	u, ok = got.Unit(sloop.ID())
	require.True(t, ok)
	s, ok := u.(*ship.Ship)
	require.True(t, ok)
	assert.Equal(t, "Sloop", s.Name)
	assert.Equal(t, 60, s.Hull.Current())
	require.Equal(t, 2, s.Crew.Len())
	helm := s.Crew.Holder(ship.Helm)
	require.NotNil(t, helm)
	assert.Equal(t, bosun.ID(), helm.ID())
	assert.Equal(t, got.CellAtOffset(2, 2), got.LocationOf(s))
}

type buoy struct{ grid.UnitBase }

func (*buoy) CanEnter(c *grid.Cell) bool                 { return c.Free() }
func (*buoy) EnterModifier(hex.Direction, *grid.Cell) int { return 0 }

func TestWrite_UnsupportedUnit(t *testing.T) {
	g := seaMap(t)
	require.NoError(t, g.AddUnit(&buoy{UnitBase: grid.NewUnitBase(false)}, g.CellAtOffset(0, 0), hex.NE))
	_, err := savefile.Marshal(g)
	assert.ErrorIs(t, err, savefile.ErrUnsupportedUnit)
}

func TestRead_UnknownVersion(t *testing.T) {
	data, err := msgpack.Marshal(99)
	require.NoError(t, err)
	_, err = savefile.Unmarshal(data, event.NewBus())
	assert.ErrorIs(t, err, savefile.ErrVersion)
}

func TestRead_Truncated(t *testing.T) {
	data, err := savefile.Marshal(seaMap(t))
	require.NoError(t, err)
	_, err = savefile.Unmarshal(data[:len(data)/2], event.NewBus())
	assert.Error(t, err)
}

func TestProperty_RoundTripPreservesTerrain(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w := rapid.IntRange(1, 8).Draw(rt, "w")
		h := rapid.IntRange(1, 8).Draw(rt, "h")
		g, err := grid.NewMap(nil, w, h, true)
		if err != nil {
			rt.Fatal(err)
		}
		for _, c := range g.Cells() {
			c.Land = rapid.Bool().Draw(rt, "land")
			c.Traversable = rapid.Bool().Draw(rt, "traversable")
		}
		data, err := savefile.Marshal(g)
		if err != nil {
			rt.Fatal(err)
		}
		got, err := savefile.Unmarshal(data, nil)
		if err != nil {
			rt.Fatal(err)
		}
		for i, c := range g.Cells() {
			o := got.Cells()[i]
			if o.Land != c.Land || o.Traversable != c.Traversable {
				rt.Fatalf("cell %d differs", i)
			}
			for _, d := range hex.Directions {
				if o.Neighbor(d) != c.Neighbor(d) {
					rt.Fatalf("cell %d direction %v connectivity differs", i, d)
				}
			}
		}
	})
}
