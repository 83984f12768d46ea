package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/corsair/internal/config"
	"github.com/cory-johannsen/corsair/internal/game/combat"
	"github.com/cory-johannsen/corsair/internal/game/event"
	"github.com/cory-johannsen/corsair/internal/storage"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	root := filepath.Join("..", "..", "content")
	v.Set("content.abilities_dir", filepath.Join(root, "abilities"))
	v.Set("content.crew_dir", filepath.Join(root, "crew"))
	v.Set("content.ai_dir", filepath.Join(root, "ai"))
	v.Set("content.scripts_dir", filepath.Join(root, "scripts", "ai"))
	v.Set("saves.sqlite_path", filepath.Join(t.TempDir(), "saves.db"))
	v.Set("map.width", 20)
	v.Set("map.height", 14)
	v.Set("map.seed", 5)
	v.Set("combat.max_rounds", 40)
	cfg, err := config.LoadFromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestSkirmish_FightsAndSaves(t *testing.T) {
	cfg := testConfig(t)
	logger := zaptest.NewLogger(t)
	ctx := context.Background()
	store, err := openStore(ctx, cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	bus := event.NewBus()
	var ended []string
	bus.Subscribe(event.CombatEnded, func(e event.Event) {
		ended = append(ended, e.Payload.(event.CombatPayload).Result)
	})

	out, err := skirmishRun{cfg: cfg, bus: bus, store: store, slot: "test", logger: logger}.run(ctx)
	require.NoError(t, err)

	assert.Contains(t, []string{combat.Victory, combat.Defeat, combat.Stalemate}, out.Result)
	assert.Equal(t, []string{out.Result}, ended)
	assert.Positive(t, out.Rounds)
	assert.NotEmpty(t, out.Afloat)
	require.NotNil(t, out.Save)
	assert.Equal(t, "test", out.Save.Name)

	g, err := storage.LoadGrid(ctx, store, out.Save.ID, event.NewBus())
	require.NoError(t, err)
	assert.Equal(t, 20, g.Width())
	assert.Equal(t, 14, g.Height())
	assert.Len(t, g.Units(), len(out.Afloat))
}

func TestSkirmish_CancelledBeforeBattle(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := skirmishRun{cfg: cfg, bus: event.NewBus(), slot: "x", logger: zaptest.NewLogger(t)}.run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenStore_None(t *testing.T) {
	cfg := testConfig(t)
	cfg.Saves.Backend = "none"
	store, err := openStore(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, store)
}
