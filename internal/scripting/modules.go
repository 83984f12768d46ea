package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers all engine.* Lua tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine.log, engine.dice and engine.unit are defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetGlobal("engine", engine)
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetField(engine, "unit", m.unitModule(L))
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	level := func(log func(string, ...zap.Field)) lua.LGFunction {
		return func(L *lua.LState) int {
			log("lua", zap.String("msg", L.CheckString(1)))
			return 0
		}
	}
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"debug": level(m.logger.Debug),
		"info":  level(m.logger.Info),
		"warn":  level(m.logger.Warn),
		"error": level(m.logger.Error),
	})
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		// roll(expr) -> {total, dice, modifier}; raises on a bad expression.
		"roll": func(L *lua.LState) int {
			res, err := m.roller.RollExpr("lua", L.CheckString(1))
			if err != nil {
				L.RaiseError("engine.dice.roll: %s", err.Error())
				return 0
			}
			t := L.NewTable()
			t.RawSetString("total", lua.LNumber(res.Total()))
			t.RawSetString("dice", lua.LNumber(res.Sum()))
			t.RawSetString("modifier", lua.LNumber(res.Modifier))
			L.Push(t)
			return 1
		},
	})
}

func (m *Manager) unitModule(L *lua.LState) *lua.LTable {
	list := func(get func() func(string) []*UnitInfo) lua.LGFunction {
		return func(L *lua.LState) int {
			id := L.CheckString(1)
			t := L.NewTable()
			if f := get(); f != nil {
				for _, u := range f(id) {
					t.Append(unitToTable(L, u))
				}
			}
			L.Push(t)
			return 1
		}
	}
	count := func(get func() func(string) []*UnitInfo) lua.LGFunction {
		return func(L *lua.LState) int {
			n := 0
			if f := get(); f != nil {
				n = len(f(L.CheckString(1)))
			}
			L.Push(lua.LNumber(n))
			return 1
		}
	}
	enemies := func() func(string) []*UnitInfo { return m.GetEnemies }
	allies := func() func(string) []*UnitInfo { return m.GetAllies }
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"get": func(L *lua.LState) int {
			id := L.CheckString(1)
			if m.GetUnit == nil {
				L.Push(lua.LNil)
				return 1
			}
			u := m.GetUnit(id)
			if u == nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(unitToTable(L, u))
			return 1
		},
		"enemies":     list(enemies),
		"allies":      list(allies),
		"enemy_count": count(enemies),
		"ally_count":  count(allies),
	})
}

func unitToTable(L *lua.LState, u *UnitInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LString(u.ID))
	t.RawSetString("name", lua.LString(u.Name))
	t.RawSetString("role", lua.LString(u.Role))
	t.RawSetString("team", lua.LString(u.Team))
	t.RawSetString("vitality", lua.LNumber(u.Vitality))
	t.RawSetString("max_vitality", lua.LNumber(u.MaxVitality))
	t.RawSetString("energy", lua.LNumber(u.Energy))
	t.RawSetString("max_energy", lua.LNumber(u.MaxEnergy))
	t.RawSetString("downed", lua.LBool(u.Downed))
	t.RawSetString("distance", lua.LNumber(u.Distance))
	return t
}
