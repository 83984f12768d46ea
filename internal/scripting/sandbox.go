// Package scripting runs the sandboxed GopherLua scripts that steer
// AI-controlled crew. It knows nothing about the simulation types; the
// caller injects lookups through Manager callback fields.
package scripting

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode budget granted to each script call
// and to loading a scope's files when no override is configured.
const DefaultInstructionLimit = 100_000

// Crew scripts are small predicates; these bound what a runaway one can
// allocate on the Lua stacks.
const (
	callStackSize = 128
	registrySize  = 4096
)

// ErrBudgetExhausted is returned when a script runs past its opcode budget.
var ErrBudgetExhausted = errors.New("instruction budget exhausted")

// unsafeGlobals are removed from every sandbox.
var unsafeGlobals = []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage", "require"}

// opBudget cancels itself once Done has been polled limit times. GopherLua
// polls Done once per opcode while a context is set on the state.
type opBudget struct {
	context.Context
	cancel    context.CancelFunc
	remaining atomic.Int64
}

func (b *opBudget) Done() <-chan struct{} {
	if b.remaining.Add(-1) == 0 {
		b.cancel()
	}
	return b.Context.Done()
}

// Limited runs fn with L allowed at most limit opcodes; limit <= 0 selects
// DefaultInstructionLimit. An error raised because the budget ran out wraps
// ErrBudgetExhausted.
func Limited(L *lua.LState, limit int, fn func() error) error {
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := &opBudget{Context: ctx, cancel: cancel}
	b.remaining.Store(int64(limit))
	L.SetContext(b)
	defer func() {
		L.RemoveContext()
		cancel()
	}()

	err := fn()
	if err != nil && b.remaining.Load() <= 0 {
		return fmt.Errorf("%w (%d opcodes): %v", ErrBudgetExhausted, limit, err)
	}
	return err
}

// NewSandboxedState creates a GopherLua LState with only the base, table,
// string and math libraries, without the globals that reach the filesystem
// or load code, and with bounded call stack and registry sizes.
//
// Postcondition: Returns a non-nil LState with no instruction budget armed.
// The caller owns the LState and must call L.Close() when done.
func NewSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:        true,
		CallStackSize:       callStackSize,
		RegistrySize:        registrySize,
		RegistryMaxSize:     registrySize * 16,
		RegistryGrowStep:    registrySize,
		IncludeGoStackTrace: false,
	})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// RunLimited executes src in L with at most instLimit opcodes; 0 uses
// DefaultInstructionLimit.
func RunLimited(L *lua.LState, src string, instLimit int) error {
	return Limited(L, instLimit, func() error { return L.DoString(src) })
}
