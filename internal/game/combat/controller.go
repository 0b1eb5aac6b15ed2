// Package combat runs the per-frame decision loop for a controlled unit:
// measure, discretize, select an action, execute it.
package combat

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/policy"
	"github.com/cory-johannsen/skirmish/internal/game/rl"
)

// Decision records one pass through the loop.
type Decision struct {
	// ID correlates the decision with its log entry.
	ID       string
	Snapshot rl.Snapshot
	State    rl.State
	Action   rl.Action
}

// Controller chooses and executes actions for a unit from raw snapshots.
//
// Invariant: space, selector and logger are non-nil; actions is the space's
// catalog captured at construction.
// Safe for concurrent use when the selector is.
type Controller struct {
	space    *rl.Manager
	disc     rl.Discretizer
	selector policy.Selector
	actions  []rl.Action
	logger   *zap.Logger
}

// NewController constructs a Controller.
//
// Precondition: space, selector and logger must not be nil.
func NewController(space *rl.Manager, disc rl.Discretizer, selector policy.Selector, logger *zap.Logger) *Controller {
	if space == nil {
		panic("combat.NewController: space must not be nil")
	}
	if selector == nil {
		panic("combat.NewController: selector must not be nil")
	}
	if logger == nil {
		panic("combat.NewController: logger must not be nil")
	}
	return &Controller{
		space:    space,
		disc:     disc,
		selector: selector,
		actions:  space.ActionList(),
		logger:   logger,
	}
}

// Decide discretizes snap and selects an action without executing it.
//
// Postcondition: the returned State is a member of the state space and the
// Action is one of the catalog actions.
func (c *Controller) Decide(snap rl.Snapshot) Decision {
	state := c.space.Lookup(c.disc, snap)
	action := c.selector.Select(state, c.actions)
	d := Decision{
		ID:       uuid.NewString(),
		Snapshot: snap,
		State:    state,
		Action:   action,
	}
	c.logger.Debug("combat decision",
		zap.String("decision_id", d.ID),
		zap.String("selector", c.selector.Name()),
		zap.String("state", state.String()),
		zap.Int("state_index", state.Index()),
		zap.String("action", action.String()),
	)
	return d
}

// Act decides for snap and executes the chosen action for unit against ctx.
//
// Precondition: ctx and unit must not be nil.
func (c *Controller) Act(ctx rl.GameContext, unit rl.Unit, snap rl.Snapshot) Decision {
	d := c.Decide(snap)
	d.Action.Execute(ctx, unit)
	return d
}
