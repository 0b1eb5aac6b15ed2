package rl

import "fmt"

// State is one discretized combat situation.
//
// State is a comparable value: two States with the same six fields are equal
// under == and hash identically as map keys. Fields are unexported so a State
// cannot change after construction.
type State struct {
	onCooldown    bool
	enemyDistance Distance
	enemyUnits    Units
	friendlyUnits Units
	enemyHp       Hp
	friendlyHp    Hp
}

// NewState builds a State from a cooldown flag and five range wrappers.
func NewState(onCooldown bool, enemyDistance Distance, enemyUnits, friendlyUnits Units, enemyHp, friendlyHp Hp) State {
	return State{
		onCooldown:    onCooldown,
		enemyDistance: enemyDistance,
		enemyUnits:    enemyUnits,
		friendlyUnits: friendlyUnits,
		enemyHp:       enemyHp,
		friendlyHp:    friendlyHp,
	}
}

// OnCooldown reports whether the controlled unit's weapon is unusable.
func (s State) OnCooldown() bool { return s.onCooldown }

// EnemyDistance returns the distance bucket to the nearest enemy.
func (s State) EnemyDistance() Distance { return s.enemyDistance }

// EnemyUnits returns the enemy count bucket.
func (s State) EnemyUnits() Units { return s.enemyUnits }

// FriendlyUnits returns the friendly count bucket.
func (s State) FriendlyUnits() Units { return s.friendlyUnits }

// EnemyHp returns the enemy health bucket.
func (s State) EnemyHp() Hp { return s.enemyHp }

// FriendlyHp returns the friendly health bucket.
func (s State) FriendlyHp() Hp { return s.friendlyHp }

// Index returns the dense ordinal of s in [0, StateCount).
//
// The ordinal is a mixed-radix number with the cooldown flag as the most
// significant digit and friendly health as the least, matching the order in
// which CreateStates enumerates. Distinct states have distinct indices.
func (s State) Index() int {
	cd := 0
	if s.onCooldown {
		cd = 1
	}
	nd, nu, nh := len(distanceRanges), len(unitsRanges), len(hpRanges)
	idx := cd
	idx = idx*nd + int(s.enemyDistance.r)
	idx = idx*nu + int(s.enemyUnits.r)
	idx = idx*nu + int(s.friendlyUnits.r)
	idx = idx*nh + int(s.enemyHp.r)
	idx = idx*nh + int(s.friendlyHp.r)
	return idx
}

// StateAt is the inverse of State.Index.
//
// Precondition: 0 <= idx < StateCount; panics otherwise.
func StateAt(idx int) State {
	if idx < 0 || idx >= StateCount {
		panic(fmt.Sprintf("rl.StateAt: index %d out of range [0, %d)", idx, StateCount))
	}
	nd, nu, nh := len(distanceRanges), len(unitsRanges), len(hpRanges)
	fhp := idx % nh
	idx /= nh
	ehp := idx % nh
	idx /= nh
	fu := idx % nu
	idx /= nu
	eu := idx % nu
	idx /= nu
	d := idx % nd
	idx /= nd
	return NewState(
		idx == 1,
		NewDistance(DistanceRange(d)),
		NewUnits(UnitsRange(eu)),
		NewUnits(UnitsRange(fu)),
		NewHp(HpRange(ehp)),
		NewHp(HpRange(fhp)),
	)
}

// String renders s for logs, e.g. "cd=false dist=near eu=few fu=many ehp=low fhp=high".
func (s State) String() string {
	return fmt.Sprintf("cd=%t dist=%s eu=%s fu=%s ehp=%s fhp=%s",
		s.onCooldown, s.enemyDistance, s.enemyUnits, s.friendlyUnits, s.enemyHp, s.friendlyHp)
}
