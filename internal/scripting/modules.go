package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// registerModules installs the engine.* table into L.
//
// engine.log(msg) writes to the structured log.
// engine.notify(pawn_id, msg) forwards to the injected Notify callback.
func (m *Manager) registerModules(L *lua.LState) {
	engine := L.NewTable()

	L.SetField(engine, "log", L.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		m.logger.Info("script", zap.String("msg", msg))
		return 0
	}))

	L.SetField(engine, "notify", L.NewFunction(func(L *lua.LState) int {
		pawnID := L.CheckString(1)
		msg := L.CheckString(2)
		if m.Notify != nil {
			m.Notify(pawnID, msg)
		}
		return 0
	}))

	L.SetGlobal("engine", engine)
}
