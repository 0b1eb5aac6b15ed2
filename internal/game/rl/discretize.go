package rl

import (
	"fmt"
	"math"
)

// Snapshot is the raw battle measurement taken for one unit at one decision point.
//
// No field is trusted: negative, NaN, and infinite values are clamped during
// discretization.
type Snapshot struct {
	OnCooldown        bool
	EnemyDistance     float64 // map units to the nearest enemy; +Inf when none is visible
	EnemyUnits        int
	FriendlyUnits     int
	EnemyHpPercent    float64
	FriendlyHpPercent float64
}

// Boundaries hold the upper bound of every bucket except the last. A raw
// value v falls into bucket i when v <= bound[i] and v > bound[i-1].
//
// Invariant: each array is strictly increasing and non-negative.
type Boundaries struct {
	Distance [2]float64
	Units    [2]int
	Hp       [2]float64
}

// DefaultBoundaries returns the bounds used when no configuration overrides them.
func DefaultBoundaries() Boundaries {
	return Boundaries{
		Distance: [2]float64{6, 12},
		Units:    [2]int{2, 6},
		Hp:       [2]float64{33, 66},
	}
}

// Validate reports whether b satisfies its invariant.
func (b Boundaries) Validate() error {
	if !(b.Distance[0] >= 0 && b.Distance[0] < b.Distance[1]) {
		return fmt.Errorf("rl.Boundaries: distance bounds must be non-negative and increasing, got %v", b.Distance)
	}
	if !(b.Units[0] >= 0 && b.Units[0] < b.Units[1]) {
		return fmt.Errorf("rl.Boundaries: units bounds must be non-negative and increasing, got %v", b.Units)
	}
	if !(b.Hp[0] >= 0 && b.Hp[0] < b.Hp[1]) {
		return fmt.Errorf("rl.Boundaries: hp bounds must be non-negative and increasing, got %v", b.Hp)
	}
	return nil
}

// Discretizer maps raw measurements onto range categories.
//
// Every mapping is total and monotonic: a larger raw value never yields a
// lower category. A Discretizer is immutable and safe for concurrent use.
type Discretizer struct {
	b Boundaries
}

// NewDiscretizer returns a Discretizer using b.
//
// Postcondition: returns an error if b is invalid.
func NewDiscretizer(b Boundaries) (Discretizer, error) {
	if err := b.Validate(); err != nil {
		return Discretizer{}, err
	}
	return Discretizer{b: b}, nil
}

// Boundaries returns the bounds the Discretizer was built with.
func (d Discretizer) Boundaries() Boundaries { return d.b }

// Distance buckets a raw distance. NaN and negative values map to DistanceNear.
func (d Discretizer) Distance(raw float64) Distance {
	switch {
	case math.IsNaN(raw) || raw <= d.b.Distance[0]:
		return NewDistance(DistanceNear)
	case raw <= d.b.Distance[1]:
		return NewDistance(DistanceMedium)
	default:
		return NewDistance(DistanceFar)
	}
}

// Units buckets a raw unit count. Negative counts map to UnitsFew.
func (d Discretizer) Units(raw int) Units {
	switch {
	case raw <= d.b.Units[0]:
		return NewUnits(UnitsFew)
	case raw <= d.b.Units[1]:
		return NewUnits(UnitsSeveral)
	default:
		return NewUnits(UnitsMany)
	}
}

// Hp buckets a raw health percentage. NaN and negative values map to HpLow;
// anything above 100 maps to HpHigh.
func (d Discretizer) Hp(rawPercent float64) Hp {
	switch {
	case math.IsNaN(rawPercent) || rawPercent <= d.b.Hp[0]:
		return NewHp(HpLow)
	case rawPercent <= d.b.Hp[1]:
		return NewHp(HpMedium)
	default:
		return NewHp(HpHigh)
	}
}

// State discretizes every field of s.
//
// Postcondition: the result is a member of the full state space.
func (d Discretizer) State(s Snapshot) State {
	return NewState(
		s.OnCooldown,
		d.Distance(s.EnemyDistance),
		d.Units(s.EnemyUnits),
		d.Units(s.FriendlyUnits),
		d.Hp(s.EnemyHpPercent),
		d.Hp(s.FriendlyHpPercent),
	)
}
