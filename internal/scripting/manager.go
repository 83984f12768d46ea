package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/corsair/internal/game/dice"
)

// GlobalScope is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when the requested scope has none.
const GlobalScope = "__global__"

// UnitInfo is a snapshot of a crew member passed to Lua callbacks.
type UnitInfo struct {
	ID          string
	Name        string
	Role        string
	Team        string
	Vitality    int
	MaxVitality int
	Energy      int
	MaxEnergy   int
	Downed      bool
	Distance    int // hex distance from the unit being planned for
}

type scope struct {
	mu    sync.Mutex
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed LState per scope and exposes hook dispatch.
//
// Manager is safe for concurrent CallHook after all loads complete. Calls
// into the same scope are serialized; different scopes run concurrently.
type Manager struct {
	mu     sync.RWMutex
	scopes map[string]*scope
	roller *dice.Roller
	logger *zap.Logger

	// Injected after construction. nil = empty results in engine.* modules.
	GetUnit    func(id string) *UnitInfo
	GetEnemies func(id string) []*UnitInfo
	GetAllies  func(id string) []*UnitInfo
}

// NewManager creates a Manager.
//
// Precondition: roller must be non-nil; a nil logger discards output.
// Postcondition: Returns a non-nil Manager with no scopes loaded.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		scopes: make(map[string]*scope),
		roller: roller,
		logger: logger,
	}
}

// LoadScope creates a sandboxed VM for name, registers all engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order. Each
// file and each later hook call gets its own budget of instLimit opcodes.
//
// Precondition: name must be non-empty; scriptDir must be a readable directory.
// Postcondition: the scope's VM replaces any previous one; returns error on
// Lua load failure.
func (m *Manager) LoadScope(name, scriptDir string, instLimit int) error {
	if name == "" {
		return fmt.Errorf("scripting: scope name must not be empty")
	}
	return m.loadInto(name, scriptDir, instLimit)
}

// LoadGlobal loads the shared VM that CallHook falls back to from any scope.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(GlobalScope, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L := NewSandboxedState()
	m.RegisterModules(L)
	for _, path := range luaFiles {
		if err := Limited(L, instLimit, func() error { return L.DoFile(path) }); err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	old := m.scopes[key]
	m.scopes[key] = &scope{L: L, limit: instLimit}
	m.mu.Unlock()
	if old != nil {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.logger.Debug("scripting: scope loaded",
		zap.String("scope", key),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// Scopes returns the loaded scope names in sorted order.
func (m *Manager) Scopes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.scopes))
	for k := range m.scopes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CallHook calls the named Lua global function in scopeName's VM. If the
// scope has no VM, the global VM is tried as a fallback. Returns (LNil, nil)
// if the hook is not defined or no VM exists. Lua runtime errors, including
// an exhausted instruction budget, are logged at Warn level and never
// propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(scopeName, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	s, ok := m.scopes[scopeName]
	if !ok {
		s = m.scopes[GlobalScope]
	}
	m.mu.RUnlock()

	if s == nil {
		m.logger.Info("scripting: no VM for scope",
			zap.String("scope", scopeName),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fn := s.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	err := Limited(s.L, s.limit, func() error {
		return s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	})
	if err != nil {
		m.logger.Warn("scripting: hook failed",
			zap.String("scope", scopeName),
			zap.String("hook", hook),
			zap.Bool("budget_exhausted", errors.Is(err, ErrBudgetExhausted)),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := s.L.Get(-1)
	s.L.Pop(1)
	return ret, nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, s := range m.scopes {
		s.mu.Lock()
		s.L.Close()
		s.mu.Unlock()
		delete(m.scopes, k)
	}
}
