// Package rl defines the discretized combat state space used by the bot's
// tabular reinforcement-learning controller.
//
// Raw battle measurements are bucketed into small ordinal ranges, combined
// with a weapon cooldown flag into comparable State values, and enumerated
// once into a StateSet. The fixed action catalog is Attack, Retreat, and
// MoveTowards.
package rl

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// StateSet is a read-only set of States with O(1) membership.
type StateSet struct {
	m map[State]struct{}
}

// Len returns the number of states in the set.
func (s StateSet) Len() int { return len(s.m) }

// Contains reports whether st is in the set.
func (s StateSet) Contains(st State) bool {
	_, ok := s.m[st]
	return ok
}

// Equal reports whether s and o hold the same states, regardless of the
// order in which they were inserted.
func (s StateSet) Equal(o StateSet) bool {
	if len(s.m) != len(o.m) {
		return false
	}
	for st := range s.m {
		if _, ok := o.m[st]; !ok {
			return false
		}
	}
	return true
}

// Sorted returns the states ordered by Index.
func (s StateSet) Sorted() []State {
	out := make([]State, 0, len(s.m))
	for st := range s.m {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index() < out[j].Index() })
	return out
}

// Manager owns the complete state space and the action catalog.
//
// Invariant: the state set is the exact Cartesian product of the cooldown
// flag and the five range dimensions. Both collections are built once by
// NewManager and never modified, so a Manager is safe for any number of
// concurrent readers.
type Manager struct {
	actions []Action
	states  StateSet
	logger  *zap.Logger
}

// NewManager builds the action catalog and enumerates every state.
//
// Precondition: logger must not be nil.
// Postcondition: returns an error if any range enumeration is empty.
func NewManager(logger *zap.Logger, step float64) (*Manager, error) {
	if logger == nil {
		panic("rl.NewManager: logger must not be nil")
	}
	m := &Manager{logger: logger}
	m.actions = validActions(step)
	states, err := m.CreateStates()
	if err != nil {
		return nil, err
	}
	m.states = states
	logger.Info("state space created",
		zap.Int("states", states.Len()),
		zap.Int("distance_ranges", len(distanceRanges)),
		zap.Int("units_ranges", len(unitsRanges)),
		zap.Int("hp_ranges", len(hpRanges)),
		zap.Int("actions", len(m.actions)),
	)
	return m, nil
}

// ValidActions returns a fresh copy of the action catalog in the stable order
// Attack, Retreat, MoveTowards.
func (m *Manager) ValidActions() []Action {
	step := DefaultStep
	if len(m.actions) > 0 {
		step = m.actions[0].Step
	}
	return validActions(step)
}

func validActions(step float64) []Action {
	if step <= 0 {
		step = DefaultStep
	}
	out := make([]Action, len(actionKinds))
	for i, k := range actionKinds {
		out[i] = Action{Kind: k, Step: step}
	}
	return out
}

// CreateStates enumerates the full state space.
//
// Postcondition: the result has exactly StateCount members, one per
// combination of cooldown flag and range categories.
func (m *Manager) CreateStates() (StateSet, error) {
	return enumerate(distanceRanges, unitsRanges, hpRanges)
}

// enumerate builds the Cartesian product of {false, true} × distances ×
// units² × hps². Deduplication relies on State equality alone.
func enumerate(distances []DistanceRange, units []UnitsRange, hps []HpRange) (StateSet, error) {
	if len(distances) == 0 || len(units) == 0 || len(hps) == 0 {
		return StateSet{}, errors.New("rl: every range enumeration must have at least one category")
	}
	size := 2 * len(distances) * len(units) * len(units) * len(hps) * len(hps)
	states := make(map[State]struct{}, size)
	for _, cd := range []bool{false, true} {
		for _, d := range distances {
			for _, eu := range units {
				for _, fu := range units {
					for _, ehp := range hps {
						for _, fhp := range hps {
							st := NewState(cd, NewDistance(d), NewUnits(eu), NewUnits(fu), NewHp(ehp), NewHp(fhp))
							states[st] = struct{}{}
						}
					}
				}
			}
		}
	}
	return StateSet{m: states}, nil
}

// ActionList returns the catalog built at construction.
func (m *Manager) ActionList() []Action {
	return append([]Action(nil), m.actions...)
}

// Action returns the catalog entry for kind.
//
// Postcondition: returns false for ActionUnknown.
func (m *Manager) Action(kind ActionKind) (Action, bool) {
	i := kind.Ordinal()
	if i < 0 || i >= len(m.actions) {
		return Action{}, false
	}
	return m.actions[i], true
}

// StateSet returns the state set built at construction.
func (m *Manager) StateSet() StateSet { return m.states }

// Size returns the number of states.
func (m *Manager) Size() int { return m.states.Len() }

// Contains reports whether s is part of the state space.
func (m *Manager) Contains(s State) bool { return m.states.Contains(s) }

// Lookup discretizes snap with d and returns the matching state.
//
// A miss means the discretizer produced a category outside the enumerated
// ranges, which is a programming error; Lookup panics in that case.
func (m *Manager) Lookup(d Discretizer, snap Snapshot) State {
	s := d.State(snap)
	if !m.states.Contains(s) {
		panic(fmt.Sprintf("rl.Manager.Lookup: state %s not in state space", s))
	}
	return s
}
