package player_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/corsair/internal/game/character"
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/player"
	"github.com/cory-johannsen/corsair/internal/game/ship"
	"github.com/cory-johannsen/corsair/internal/game/stats"
	"github.com/cory-johannsen/corsair/internal/game/turn"
)

func hand(name string) *character.Character {
	return character.New(name, true, map[stats.Resource]int{
		stats.Vitality: 10,
		stats.Energy:   50,
		stats.Hunger:   100,
		stats.Hygiene:  100,
		stats.Loyalty:  100,
	}, nil, nil)
}

func newPlayer(t *testing.T, human bool) *player.Player {
	t.Helper()
	p, err := player.New("Anne", human, ship.New("Revenge", human), nil)
	require.NoError(t, err)
	return p
}

func TestNew_RejectsEmptyName(t *testing.T) {
	_, err := player.New("", true, ship.New("Revenge", true), nil)
	assert.Error(t, err)
}

func TestRecruit_PlacesOnDeck(t *testing.T) {
	p := newPlayer(t, true)
	a, b := hand("Mary"), hand("Jack")
	require.NoError(t, p.Recruit(a))
	require.NoError(t, p.Recruit(b))
	assert.Len(t, p.Crew(), 2)
	assert.True(t, a.Placed())
	assert.NotEqual(t, p.Deck.LocationOf(a), p.Deck.LocationOf(b))
}

func TestRecruit_FullDeck(t *testing.T) {
	p := newPlayer(t, true)
	for i := 0; i < player.DeckWidth*player.DeckHeight; i++ {
		require.NoError(t, p.Recruit(hand("Crew")))
	}
	assert.Error(t, p.Recruit(hand("Stowaway")))
}

func TestActivate_HumanManagesAndRunsCrewSimulation(t *testing.T) {
	p := newPlayer(t, true)
	helm := hand("Mary")
	require.NoError(t, p.Recruit(helm))
	require.NoError(t, p.Ship.Crew.AssignJob(helm, ship.Helm))

	p.Activate(turn.Map)
	assert.True(t, p.Managing())
	assert.Equal(t, p.Ship.DefaultMovement, p.Ship.RemainingMovement)
	assert.Equal(t, math.MaxInt, helm.RemainingMovement)
	assert.Equal(t, 100-ship.DefaultParams.HungerDecay, helm.Pool(stats.Hunger).Current())

	p.EndTurn()
	assert.False(t, p.Managing())
}

func TestActivate_HumanWithoutHelmCannotSail(t *testing.T) {
	p := newPlayer(t, true)
	p.Activate(turn.Map)
	assert.Zero(t, p.Ship.RemainingMovement)
}

func TestActivate_AIReadiesShip(t *testing.T) {
	p := newPlayer(t, false)
	p.Ship.RemainingMovement = 0
	p.Activate(turn.Map)
	assert.False(t, p.Managing())
	assert.Equal(t, p.Ship.DefaultMovement, p.Ship.RemainingMovement)
}

func TestStowAndReturnCrew(t *testing.T) {
	p := newPlayer(t, true)
	mary, jack, ned := hand("Mary"), hand("Jack"), hand("Ned")
	for _, c := range []*character.Character{mary, jack, ned} {
		require.NoError(t, p.Recruit(c))
	}
	maryAt := p.Deck.LocationOf(mary).Coordinate()

	p.StowCrew()
	for _, c := range p.Crew() {
		assert.False(t, c.Placed())
	}

	jack.Pool(stats.Vitality).Set(0)
	jack.CheckDowned()
	ned.Pool(stats.Vitality).Set(0)
	for i := 0; i < ned.DownTurns; i++ {
		ned.EndTurn()
	}
	require.True(t, ned.Dead())
	mary.Team = grid.TeamEnemy

	require.NoError(t, p.ReturnCrew())
	assert.Equal(t, maryAt, p.Deck.LocationOf(mary).Coordinate())
	assert.Equal(t, grid.TeamPlayer, mary.Team)
	assert.False(t, jack.Downed())
	assert.Equal(t, 1, jack.Pool(stats.Vitality).Current())
	assert.Len(t, p.Crew(), 2)
	assert.Equal(t, []string{"Ned"}, p.Dead())
	assert.False(t, ned.Placed())
}
