// Package policy maps discretized combat states to actions. It owns the
// value table keyed by (State, ActionKind) and the selectors that read it.
// No learning rule lives here; callers write values through Set.
package policy

import (
	"fmt"
	"sync"

	"github.com/cory-johannsen/skirmish/internal/game/rl"
)

// ValueTable is a dense table of action values indexed by State.Index and
// ActionKind.Ordinal.
//
// Invariant: len(values) == rl.StateCount * rl.ActionCount.
// Safe for concurrent use.
type ValueTable struct {
	mu     sync.RWMutex
	values []float64
}

// NewValueTable returns a table with every value zero.
func NewValueTable() *ValueTable {
	return &ValueTable{values: make([]float64, rl.StateCount*rl.ActionCount)}
}

func slot(s rl.State, kind rl.ActionKind) int {
	ord := kind.Ordinal()
	if ord < 0 {
		panic(fmt.Sprintf("policy.ValueTable: unknown action kind %d", int(kind)))
	}
	return s.Index()*rl.ActionCount + ord
}

// Get returns the value of taking kind in s.
//
// Precondition: kind must be a catalog action kind; panics otherwise.
func (t *ValueTable) Get(s rl.State, kind rl.ActionKind) float64 {
	i := slot(s, kind)
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.values[i]
}

// Set stores the value of taking kind in s.
//
// Precondition: kind must be a catalog action kind; panics otherwise.
func (t *ValueTable) Set(s rl.State, kind rl.ActionKind, v float64) {
	i := slot(s, kind)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values[i] = v
}

// Best returns the action in actions with the highest value in s. Ties go to
// the earliest action in the slice.
//
// Precondition: len(actions) > 0; panics otherwise.
func (t *ValueTable) Best(s rl.State, actions []rl.Action) (rl.Action, float64) {
	if len(actions) == 0 {
		panic("policy.ValueTable.Best: actions must not be empty")
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	best := actions[0]
	bestVal := t.values[slot(s, best.Kind)]
	for _, a := range actions[1:] {
		if v := t.values[slot(s, a.Kind)]; v > bestVal {
			best, bestVal = a, v
		}
	}
	return best, bestVal
}
