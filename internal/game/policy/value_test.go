package policy_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/policy"
	"github.com/cory-johannsen/skirmish/internal/game/rl"
)

func catalog(t testing.TB) []rl.Action {
	t.Helper()
	m, err := rl.NewManager(zap.NewNop(), rl.DefaultStep)
	require.NoError(t, err)
	return m.ValidActions()
}

func TestValueTable_ZeroInitialised(t *testing.T) {
	tbl := policy.NewValueTable()
	actions := catalog(t)
	for i := 0; i < rl.StateCount; i++ {
		s := rl.StateAt(i)
		for _, a := range actions {
			require.Zero(t, tbl.Get(s, a.Kind))
		}
	}
}

func TestValueTable_SetGet_Isolated(t *testing.T) {
	tbl := policy.NewValueTable()
	s := rl.StateAt(17)
	tbl.Set(s, rl.ActionRetreat, 2.5)
	assert.Equal(t, 2.5, tbl.Get(s, rl.ActionRetreat))
	assert.Zero(t, tbl.Get(s, rl.ActionAttack))
	assert.Zero(t, tbl.Get(rl.StateAt(18), rl.ActionRetreat))
}

func TestValueTable_UnknownKindPanics(t *testing.T) {
	tbl := policy.NewValueTable()
	assert.Panics(t, func() { tbl.Get(rl.StateAt(0), rl.ActionUnknown) })
	assert.Panics(t, func() { tbl.Set(rl.StateAt(0), rl.ActionKind(42), 1) })
}

func TestValueTable_Best(t *testing.T) {
	tbl := policy.NewValueTable()
	actions := catalog(t)
	s := rl.StateAt(100)

	a, v := tbl.Best(s, actions)
	assert.Equal(t, rl.ActionAttack, a.Kind, "ties go to the first action")
	assert.Zero(t, v)

	tbl.Set(s, rl.ActionMoveTowards, 3)
	tbl.Set(s, rl.ActionRetreat, 1)
	a, v = tbl.Best(s, actions)
	assert.Equal(t, rl.ActionMoveTowards, a.Kind)
	assert.Equal(t, 3.0, v)
}

func TestValueTable_BestNegativeValues(t *testing.T) {
	tbl := policy.NewValueTable()
	s := rl.StateAt(5)
	tbl.Set(s, rl.ActionAttack, -3)
	tbl.Set(s, rl.ActionRetreat, -1)
	tbl.Set(s, rl.ActionMoveTowards, -2)
	a, _ := tbl.Best(s, catalog(t))
	assert.Equal(t, rl.ActionRetreat, a.Kind)
}

func TestValueTable_BestEmptyPanics(t *testing.T) {
	assert.Panics(t, func() { policy.NewValueTable().Best(rl.StateAt(0), nil) })
}

func TestValueTable_ConcurrentAccess(t *testing.T) {
	tbl := policy.NewValueTable()
	actions := catalog(t)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rl.StateCount; i++ {
				s := rl.StateAt(i)
				tbl.Set(s, actions[w%len(actions)].Kind, float64(w))
				tbl.Best(s, actions)
			}
		}(w)
	}
	wg.Wait()
}

func TestProperty_ValueTable_BestIsMaximal(t *testing.T) {
	actions := catalog(t)
	rapid.Check(t, func(rt *rapid.T) {
		tbl := policy.NewValueTable()
		s := rl.StateAt(rapid.IntRange(0, rl.StateCount-1).Draw(rt, "state"))
		for _, a := range actions {
			tbl.Set(s, a.Kind, rapid.Float64Range(-100, 100).Draw(rt, a.String()))
		}
		best, v := tbl.Best(s, actions)
		assert.Equal(rt, tbl.Get(s, best.Kind), v)
		for _, a := range actions {
			assert.LessOrEqual(rt, tbl.Get(s, a.Kind), v)
		}
	})
}

func TestValueTable_SlotsAreDisjointAcrossStates(t *testing.T) {
	tbl := policy.NewValueTable()
	for i := 0; i < rl.StateCount; i++ {
		tbl.Set(rl.StateAt(i), rl.ActionAttack, float64(i))
	}
	for i := 0; i < rl.StateCount; i++ {
		require.Equal(t, float64(i), tbl.Get(rl.StateAt(i), rl.ActionAttack), "state %d", i)
	}
	// A category outside its range is rejected before it can alias a slot.
	assert.Panics(t, func() {
		tbl.Set(rl.NewState(false,
			rl.NewDistance(rl.DistanceRange(3)),
			rl.NewUnits(rl.UnitsFew),
			rl.NewUnits(rl.UnitsFew),
			rl.NewHp(rl.HpLow),
			rl.NewHp(rl.HpLow),
		), rl.ActionAttack, 42)
	})
	assert.Equal(t, float64(243), tbl.Get(rl.StateAt(243), rl.ActionAttack))
}
