package policy_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/skirmish/internal/game/policy"
	"github.com/cory-johannsen/skirmish/internal/game/rl"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

type stubCaller struct {
	ret  lua.LValue
	err  error
	args []lua.LValue
	hook string
}

func (s *stubCaller) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	s.hook = hook
	s.args = args
	if s.ret == nil {
		return lua.LNil, s.err
	}
	return s.ret, s.err
}

// fixedSelector always returns the action of the given kind.
type fixedSelector struct{ kind rl.ActionKind }

func (f fixedSelector) Name() string { return "fixed" }

func (f fixedSelector) Select(_ rl.State, actions []rl.Action) rl.Action {
	for _, a := range actions {
		if a.Kind == f.kind {
			return a
		}
	}
	return actions[0]
}

func closeState() rl.State {
	return rl.NewState(true,
		rl.NewDistance(rl.DistanceNear),
		rl.NewUnits(rl.UnitsMany),
		rl.NewUnits(rl.UnitsFew),
		rl.NewHp(rl.HpHigh),
		rl.NewHp(rl.HpLow),
	)
}

func newScripted(t *testing.T, caller policy.ScriptCaller) (*policy.Scripted, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	return policy.NewScripted(caller, "policy", fixedSelector{kind: rl.ActionAttack}, zap.New(core)), logs
}

func TestScripted_PassesStateToHook(t *testing.T) {
	caller := &stubCaller{ret: lua.LString("retreat")}
	sel, _ := newScripted(t, caller)
	assert.Equal(t, "scripted", sel.Name())

	got := sel.Select(closeState(), catalog(t))
	assert.Equal(t, rl.ActionRetreat, got.Kind)
	assert.Equal(t, policy.ChooseActionHook, caller.hook)
	assert.Equal(t, []lua.LValue{
		lua.LTrue,
		lua.LString("near"),
		lua.LString("many"),
		lua.LString("few"),
		lua.LString("high"),
		lua.LString("low"),
	}, caller.args)
}

func TestScripted_FallbackWhenHookMissing(t *testing.T) {
	sel, _ := newScripted(t, &stubCaller{})
	assert.Equal(t, rl.ActionAttack, sel.Select(closeState(), catalog(t)).Kind)
}

func TestScripted_FallbackOnError(t *testing.T) {
	sel, logs := newScripted(t, &stubCaller{err: errors.New("boom")})
	assert.Equal(t, rl.ActionAttack, sel.Select(closeState(), catalog(t)).Kind)
	assert.Equal(t, 1, logs.FilterMessage("scripted policy hook failed").Len())
}

func TestScripted_FallbackOnUnknownAction(t *testing.T) {
	sel, logs := newScripted(t, &stubCaller{ret: lua.LString("dance")})
	assert.Equal(t, rl.ActionAttack, sel.Select(closeState(), catalog(t)).Kind)
	assert.Equal(t, 1, logs.FilterMessage("scripted policy returned unknown action").Len())
}

func TestScripted_FallbackWhenActionNotOffered(t *testing.T) {
	sel, _ := newScripted(t, &stubCaller{ret: lua.LString("retreat")})
	offered := []rl.Action{{Kind: rl.ActionAttack}, {Kind: rl.ActionMoveTowards}}
	assert.Equal(t, rl.ActionAttack, sel.Select(closeState(), offered).Kind)
}

func TestScripted_NonStringResultFallsBack(t *testing.T) {
	sel, _ := newScripted(t, &stubCaller{ret: lua.LNumber(2)})
	assert.Equal(t, rl.ActionAttack, sel.Select(closeState(), catalog(t)).Kind)
}

func TestScripted_ConstructorPreconditions(t *testing.T) {
	fb := fixedSelector{kind: rl.ActionAttack}
	assert.Panics(t, func() { policy.NewScripted(nil, "p", fb, zap.NewNop()) })
	assert.Panics(t, func() { policy.NewScripted(&stubCaller{}, "p", nil, zap.NewNop()) })
	assert.Panics(t, func() { policy.NewScripted(&stubCaller{}, "p", fb, nil) })
}

func TestScripted_WithLuaManager(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "policy.lua"), []byte(`
		function choose_action(on_cooldown, distance, enemy_units, friendly_units, enemy_hp, friendly_hp)
			if on_cooldown and distance == "near" then
				return engine.actions[2]
			end
			return "attack"
		end
	`), 0644))
	mgr := scripting.NewManager([]string{"attack", "retreat", "move_towards"}, zap.NewNop())
	t.Cleanup(mgr.Close)
	require.NoError(t, mgr.LoadScope("policy", dir, 0))

	sel := policy.NewScripted(mgr, "policy", fixedSelector{kind: rl.ActionMoveTowards}, zap.NewNop())
	assert.Equal(t, rl.ActionRetreat, sel.Select(closeState(), catalog(t)).Kind)

	ready := rl.NewState(false,
		rl.NewDistance(rl.DistanceFar),
		rl.NewUnits(rl.UnitsFew),
		rl.NewUnits(rl.UnitsFew),
		rl.NewHp(rl.HpLow),
		rl.NewHp(rl.HpHigh),
	)
	assert.Equal(t, rl.ActionAttack, sel.Select(ready, catalog(t)).Kind)
}

func TestScripted_FallbackOnLuaRuntimeError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "policy.lua"), []byte(`
		function choose_action() error("no decision") end
	`), 0644))
	mgr := scripting.NewManager([]string{"attack", "retreat", "move_towards"}, zap.NewNop())
	t.Cleanup(mgr.Close)
	require.NoError(t, mgr.LoadScope("policy", dir, 0))

	core, logs := observer.New(zap.DebugLevel)
	sel := policy.NewScripted(mgr, "policy", fixedSelector{kind: rl.ActionMoveTowards}, zap.New(core))
	assert.Equal(t, rl.ActionMoveTowards, sel.Select(closeState(), catalog(t)).Kind)

	entries := logs.FilterMessage("scripted policy hook failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Contains(t, entries[0].ContextMap()["error"], "no decision")
}

func TestScripted_FallbackOnExhaustedBudget(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "policy.lua"), []byte(`
		function choose_action() while true do end end
	`), 0644))
	mgr := scripting.NewManager([]string{"attack", "retreat", "move_towards"}, zap.NewNop())
	t.Cleanup(mgr.Close)
	require.NoError(t, mgr.LoadScope("policy", dir, 500))

	core, logs := observer.New(zap.DebugLevel)
	sel := policy.NewScripted(mgr, "policy", fixedSelector{kind: rl.ActionRetreat}, zap.New(core))
	for i := 0; i < 3; i++ {
		assert.Equal(t, rl.ActionRetreat, sel.Select(closeState(), catalog(t)).Kind)
	}
	assert.Equal(t, 3, logs.FilterMessage("scripted policy hook failed").Len())
}
