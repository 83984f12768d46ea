package scripting_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/corsair/internal/scripting"
)

func TestNewSandboxedState_Globals(t *testing.T) {
	L := scripting.NewSandboxedState()
	defer L.Close()

	for _, name := range []string{"os", "io", "debug", "dofile", "loadfile", "load", "loadstring", "collectgarbage", "require"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), name)
	}
	for _, name := range []string{"math", "string", "table", "pairs", "tostring"} {
		assert.NotEqual(t, lua.LNil, L.GetGlobal(name), name)
	}
	require.NoError(t, L.DoString(`
		assert(math.floor(7 / 2) == 3)
		assert(string.format("%d/%d", 3, 10) == "3/10")
		local crew = {"anne", "mary"}
		table.insert(crew, "jack")
		assert(#crew == 3)
	`))
}

func TestNewSandboxedState_DeepRecursionFails(t *testing.T) {
	L := scripting.NewSandboxedState()
	defer L.Close()
	err := L.DoString(`
		local function dive(n) return 1 + dive(n + 1) end
		dive(1)
	`)
	assert.Error(t, err)
}

func TestRunLimited(t *testing.T) {
	L := scripting.NewSandboxedState()
	defer L.Close()

	assert.NoError(t, scripting.RunLimited(L, `local x = 1 + 1`, 0), "default budget")

	err := scripting.RunLimited(L, `while true do end`, 10)
	assert.ErrorIs(t, err, scripting.ErrBudgetExhausted)

	err = scripting.RunLimited(L, `error("keelhauled")`, 1_000)
	require.Error(t, err)
	assert.False(t, errors.Is(err, scripting.ErrBudgetExhausted))

	for range 20 {
		require.NoError(t, scripting.RunLimited(L, `local s = 0 for i = 1, 50 do s = s + i end`, 1_000))
	}
}

func TestLimited_DisarmsAfterwards(t *testing.T) {
	L := scripting.NewSandboxedState()
	defer L.Close()

	require.ErrorIs(t, scripting.Limited(L, 5, func() error { return L.DoString(`while true do end`) }), scripting.ErrBudgetExhausted)
	assert.NoError(t, L.DoString(`local s = 0 for i = 1, 1000 do s = s + i end`))
}

func TestProperty_RunawayScriptAlwaysExhaustsBudget(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(1, 200).Draw(t, "limit")
		L := scripting.NewSandboxedState()
		defer L.Close()
		if err := scripting.RunLimited(L, `while true do end`, limit); !errors.Is(err, scripting.ErrBudgetExhausted) {
			t.Fatalf("limit=%d: got %v", limit, err)
		}
	})
}
