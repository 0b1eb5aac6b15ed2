package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// GlobalScope is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no scope VM is found.
const GlobalScope = "__global__"

// vm is a loaded scope. limit is the opcode budget granted to each hook call.
type vm struct {
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed LState per scope and exposes hook dispatch.
//
// Each LState is single-threaded, so CallHook serializes calls with a
// per-manager mutex. Loading replaces a scope's VM atomically.
type Manager struct {
	mu      sync.Mutex
	vms     map[string]*vm
	actions []string
	logger  *zap.Logger
}

// NewManager creates a Manager. actions are exposed to scripts as the
// engine.actions array.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no loaded scopes.
func NewManager(actions []string, logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:     make(map[string]*vm),
		actions: append([]string(nil), actions...),
		logger:  logger,
	}
}

// LoadScope creates a sandboxed VM for scope, registers the engine module,
// then executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: scope must be non-empty; scriptDir must be a readable directory.
// Postcondition: Scope VM is registered; returns error on Lua load failure.
func (m *Manager) LoadScope(scope, scriptDir string, instLimit int) error {
	if scope == "" {
		return fmt.Errorf("scripting: scope must not be empty")
	}
	return m.loadInto(scope, scriptDir, instLimit)
}

// LoadGlobal creates the GlobalScope VM used as a CallHook fallback.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(GlobalScope, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	// The load budget is spent; each hook call gets a fresh one.
	cancel()
	L.RemoveContext()

	m.mu.Lock()
	if old, ok := m.vms[key]; ok {
		old.L.Close()
	}
	m.vms[key] = &vm{L: L, limit: instLimit}
	m.mu.Unlock()

	m.logger.Info("scripts loaded",
		zap.String("scope", key),
		zap.String("dir", scriptDir),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// RegisterModules registers the engine table into L.
//
// Postcondition: engine.actions lists the action names in catalog order (1-based).
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	actions := L.NewTable()
	for _, a := range m.actions {
		actions.Append(lua.LString(a))
	}
	L.SetField(engine, "actions", actions)
	L.SetGlobal("engine", engine)
}

// CallHook calls the named Lua global function in scope's VM. If the scope has
// no VM, the GlobalScope VM is tried as a fallback. Returns (LNil, nil) if the
// hook is not defined or no VM exists. Each call runs under the instruction
// limit the scope was loaded with.
//
// Postcondition: Returns the first return value of the hook, or LNil with a
// non-nil error when the hook raised a Lua error or exhausted its budget. The
// VM stays usable after an error.
func (m *Manager) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.vms[scope]
	if !ok {
		v = m.vms[GlobalScope]
	}
	if v == nil {
		m.logger.Debug("scripting: no VM for scope",
			zap.String("scope", scope),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	L := v.L
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	ctx, cancel := newCountingContext(budget(v.limit))
	L.SetContext(ctx)
	defer func() {
		cancel()
		L.RemoveContext()
	}()

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		return lua.LNil, fmt.Errorf("scripting: hook %q in %q: %w", hook, scope, err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.vms {
		v.L.Close()
	}
	m.vms = make(map[string]*vm)
}
