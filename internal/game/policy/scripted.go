package policy

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/rl"
)

// ChooseActionHook is the Lua global a scripted policy defines. It receives
// (on_cooldown, distance, enemy_units, friendly_units, enemy_hp, friendly_hp)
// as a boolean and five range names, and returns an action name.
const ChooseActionHook = "choose_action"

// ScriptCaller is the interface required by Scripted to evaluate Lua hooks.
type ScriptCaller interface {
	// CallHook calls a named Lua function in the given scope's VM.
	// Returns (LNil, nil) if the function is not defined, and a non-nil
	// error if the function raised or ran out of budget.
	CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error)
}

// Scripted delegates selection to a Lua hook. When the hook is missing,
// fails, or names an action not offered, the fallback selector decides.
type Scripted struct {
	caller   ScriptCaller
	scope    string
	fallback Selector
	logger   *zap.Logger
}

// NewScripted constructs a Scripted selector.
//
// Precondition: caller, fallback and logger must not be nil.
func NewScripted(caller ScriptCaller, scope string, fallback Selector, logger *zap.Logger) *Scripted {
	if caller == nil {
		panic("policy.NewScripted: caller must not be nil")
	}
	if fallback == nil {
		panic("policy.NewScripted: fallback must not be nil")
	}
	if logger == nil {
		panic("policy.NewScripted: logger must not be nil")
	}
	return &Scripted{caller: caller, scope: scope, fallback: fallback, logger: logger}
}

// Name implements Selector.
func (p *Scripted) Name() string { return "scripted" }

// Select implements Selector.
func (p *Scripted) Select(s rl.State, actions []rl.Action) rl.Action {
	ret, err := p.caller.CallHook(p.scope, ChooseActionHook,
		lua.LBool(s.OnCooldown()),
		lua.LString(s.EnemyDistance().String()),
		lua.LString(s.EnemyUnits().String()),
		lua.LString(s.FriendlyUnits().String()),
		lua.LString(s.EnemyHp().String()),
		lua.LString(s.FriendlyHp().String()),
	)
	if err != nil {
		p.logger.Warn("scripted policy hook failed", zap.String("state", s.String()), zap.Error(err))
		return p.fallback.Select(s, actions)
	}

	name, ok := ret.(lua.LString)
	if !ok {
		return p.fallback.Select(s, actions)
	}
	kind, err := rl.ParseActionKind(string(name))
	if err != nil {
		p.logger.Warn("scripted policy returned unknown action",
			zap.String("action", string(name)),
			zap.String("state", s.String()),
		)
		return p.fallback.Select(s, actions)
	}
	for _, a := range actions {
		if a.Kind == kind {
			return a
		}
	}
	p.logger.Debug("scripted policy chose an action not offered",
		zap.String("action", kind.String()),
	)
	return p.fallback.Select(s, actions)
}
