package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/policy"
	"github.com/cory-johannsen/skirmish/internal/game/rl"
)

// scriptedSource returns queued values in order, repeating the last one.
type scriptedSource struct {
	vals []int
	i    int
}

func (s *scriptedSource) Intn(n int) int {
	v := s.vals[s.i]
	if s.i < len(s.vals)-1 {
		s.i++
	}
	return v % n
}

func TestGreedy_PicksBest(t *testing.T) {
	tbl := policy.NewValueTable()
	s := rl.StateAt(42)
	tbl.Set(s, rl.ActionRetreat, 9)
	g := policy.NewGreedy(tbl)
	assert.Equal(t, "greedy", g.Name())
	assert.Equal(t, rl.ActionRetreat, g.Select(s, catalog(t)).Kind)
}

func TestGreedy_NilTablePanics(t *testing.T) {
	assert.Panics(t, func() { policy.NewGreedy(nil) })
}

func TestEpsilonGreedy_Exploits(t *testing.T) {
	tbl := policy.NewValueTable()
	s := rl.StateAt(3)
	tbl.Set(s, rl.ActionMoveTowards, 1)
	// Roll of 100 never succeeds against epsilon 50.
	e := policy.NewEpsilonGreedy(tbl, 50, &scriptedSource{vals: []int{99}})
	assert.Equal(t, "epsilon_greedy", e.Name())
	assert.Equal(t, rl.ActionMoveTowards, e.Select(s, catalog(t)).Kind)
}

func TestEpsilonGreedy_Explores(t *testing.T) {
	tbl := policy.NewValueTable()
	s := rl.StateAt(3)
	tbl.Set(s, rl.ActionMoveTowards, 1)
	// Roll of 1 explores; the pick index 1 selects Retreat.
	e := policy.NewEpsilonGreedy(tbl, 50, &scriptedSource{vals: []int{0, 1}})
	assert.Equal(t, rl.ActionRetreat, e.Select(s, catalog(t)).Kind)
}

func TestEpsilonGreedy_ZeroNeverExplores(t *testing.T) {
	tbl := policy.NewValueTable()
	s := rl.StateAt(0)
	tbl.Set(s, rl.ActionRetreat, 1)
	e := policy.NewEpsilonGreedy(tbl, 0, dice.NewSeededSource(1))
	for i := 0; i < 200; i++ {
		assert.Equal(t, rl.ActionRetreat, e.Select(s, catalog(t)).Kind)
	}
}

func TestEpsilonGreedy_ConstructorPreconditions(t *testing.T) {
	tbl := policy.NewValueTable()
	src := dice.NewSeededSource(1)
	assert.Panics(t, func() { policy.NewEpsilonGreedy(nil, 10, src) })
	assert.Panics(t, func() { policy.NewEpsilonGreedy(tbl, 10, nil) })
	assert.Panics(t, func() { policy.NewEpsilonGreedy(tbl, -1, src) })
	assert.Panics(t, func() { policy.NewEpsilonGreedy(tbl, 101, src) })
}

func TestProperty_EpsilonGreedy_ReturnsOfferedAction(t *testing.T) {
	actions := catalog(t)
	rapid.Check(t, func(rt *rapid.T) {
		eps := rapid.IntRange(0, 100).Draw(rt, "epsilon")
		seed := rapid.Uint64().Draw(rt, "seed")
		n := rapid.IntRange(1, len(actions)).Draw(rt, "n")
		offered := actions[:n]
		s := rl.StateAt(rapid.IntRange(0, rl.StateCount-1).Draw(rt, "state"))
		got := policy.NewEpsilonGreedy(policy.NewValueTable(), eps, dice.NewSeededSource(seed)).Select(s, offered)
		assert.Contains(rt, offered, got)
	})
}
