package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/calder-games/psiforge/internal/game/ability"
)

// Manager owns one sandboxed LState for all ability hook scripts and
// dispatches the on-apply and on-remove hooks named by ability definitions.
//
// A hook name that resolves to no global Lua function is a silent no-op:
// ability content may declare hooks before scripts ship them.
type Manager struct {
	mu     sync.Mutex
	state  *lua.LState
	logger *zap.Logger

	// Notify is injected after construction; nil makes engine.notify a no-op.
	Notify func(pawnID, msg string)
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: logger must be non-nil.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// LoadDirectory creates the sandboxed VM, registers the engine.* module, then
// executes every *.lua file in dir in lexicographic order.
//
// Precondition: dir must be a readable directory.
// Postcondition: The VM is ready for hook dispatch; returns an error on any
// Lua load failure.
func (m *Manager) LoadDirectory(dir string, instLimit int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	L := NewSandboxedState(instLimit)
	m.registerModules(L)

	entries, err := os.ReadDir(dir)
	if err != nil {
		L.Close()
		return fmt.Errorf("reading script dir %q: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := L.DoFile(path); err != nil {
			L.Close()
			return fmt.Errorf("loading script %q: %w", path, err)
		}
	}

	if m.state != nil {
		m.state.Close()
	}
	m.state = L
	m.logger.Info("ability scripts loaded",
		zap.String("dir", dir),
		zap.Int("count", len(names)),
	)
	return nil
}

// Close releases the VM. Subsequent hook dispatches are no-ops.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		m.state.Close()
		m.state = nil
	}
}

// OnApply implements the effect manager's hook contract: it invokes the
// definition's on-apply Lua function, if any, with the pawn ID, ability ID,
// and sampled sensitivity. Script failures are logged, never propagated.
func (m *Manager) OnApply(pawnID uuid.UUID, def *ability.Def, sensitivity float64) {
	if def.LuaOnApply == "" {
		return
	}
	m.call(def.LuaOnApply,
		lua.LString(pawnID.String()),
		lua.LString(def.ID),
		lua.LNumber(sensitivity),
	)
}

// OnRemove invokes the definition's on-remove Lua function, if any.
func (m *Manager) OnRemove(pawnID uuid.UUID, def *ability.Def) {
	if def.LuaOnRemove == "" {
		return
	}
	m.call(def.LuaOnRemove,
		lua.LString(pawnID.String()),
		lua.LString(def.ID),
	)
}

func (m *Manager) call(fn string, args ...lua.LValue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return
	}
	val := m.state.GetGlobal(fn)
	if val.Type() != lua.LTFunction {
		return
	}
	if err := m.state.CallByParam(lua.P{Fn: val, NRet: 0, Protect: true}, args...); err != nil {
		m.logger.Warn("ability hook failed",
			zap.String("hook", fn),
			zap.Error(err),
		)
	}
}
