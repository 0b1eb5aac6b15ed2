package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/policy"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	tbl := policy.NewValueTable()
	reg := policy.NewRegistry()
	require.NoError(t, reg.Register(policy.NewGreedy(tbl)))
	require.NoError(t, reg.Register(policy.NewEpsilonGreedy(tbl, 10, dice.NewSeededSource(1))))

	sel, ok := reg.Selector("greedy")
	require.True(t, ok)
	assert.Equal(t, "greedy", sel.Name())

	_, ok = reg.Selector("scripted")
	assert.False(t, ok)
	assert.Equal(t, []string{"epsilon_greedy", "greedy"}, reg.Names())
}

func TestRegistry_DuplicateName(t *testing.T) {
	tbl := policy.NewValueTable()
	reg := policy.NewRegistry()
	require.NoError(t, reg.Register(policy.NewGreedy(tbl)))
	err := reg.Register(policy.NewGreedy(tbl))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"greedy" already registered`)
}

func TestRegistry_NilPanics(t *testing.T) {
	assert.Panics(t, func() { _ = policy.NewRegistry().Register(nil) })
}
