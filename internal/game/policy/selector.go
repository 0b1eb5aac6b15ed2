package policy

import (
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/rl"
)

// Selector chooses one action for a discretized state.
type Selector interface {
	// Name identifies the selector in configuration and logs.
	Name() string
	// Select returns one element of actions.
	//
	// Precondition: len(actions) > 0.
	Select(s rl.State, actions []rl.Action) rl.Action
}

// Greedy always picks the highest-valued action.
type Greedy struct {
	table *ValueTable
}

// NewGreedy constructs a Greedy selector.
//
// Precondition: table must not be nil.
func NewGreedy(table *ValueTable) *Greedy {
	if table == nil {
		panic("policy.NewGreedy: table must not be nil")
	}
	return &Greedy{table: table}
}

// Name implements Selector.
func (g *Greedy) Name() string { return "greedy" }

// Select implements Selector.
func (g *Greedy) Select(s rl.State, actions []rl.Action) rl.Action {
	a, _ := g.table.Best(s, actions)
	return a
}

// EpsilonGreedy picks a uniformly random action with probability epsilon
// percent, otherwise the highest-valued action.
type EpsilonGreedy struct {
	table   *ValueTable
	epsilon int
	src     dice.Source
}

// NewEpsilonGreedy constructs an EpsilonGreedy selector.
//
// Precondition: table and src must not be nil; epsilon in [0, 100].
func NewEpsilonGreedy(table *ValueTable, epsilon int, src dice.Source) *EpsilonGreedy {
	if table == nil {
		panic("policy.NewEpsilonGreedy: table must not be nil")
	}
	if src == nil {
		panic("policy.NewEpsilonGreedy: src must not be nil")
	}
	if epsilon < 0 || epsilon > 100 {
		panic("policy.NewEpsilonGreedy: epsilon must be in [0, 100]")
	}
	return &EpsilonGreedy{table: table, epsilon: epsilon, src: src}
}

// Name implements Selector.
func (e *EpsilonGreedy) Name() string { return "epsilon_greedy" }

// Select implements Selector.
func (e *EpsilonGreedy) Select(s rl.State, actions []rl.Action) rl.Action {
	if dice.Percent(e.src, e.epsilon) {
		return dice.Pick(e.src, actions)
	}
	a, _ := e.table.Best(s, actions)
	return a
}
