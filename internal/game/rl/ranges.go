package rl

import "fmt"

// DistanceRange buckets the distance between the controlled unit and the
// nearest enemy.
type DistanceRange uint8

const (
	DistanceNear DistanceRange = iota
	DistanceMedium
	DistanceFar
)

// distanceRanges lists every DistanceRange in ordinal order.
var distanceRanges = []DistanceRange{DistanceNear, DistanceMedium, DistanceFar}

// DistanceRanges returns all DistanceRange values in ordinal order.
func DistanceRanges() []DistanceRange {
	return append([]DistanceRange(nil), distanceRanges...)
}

// String returns the lowercase name of the range.
func (r DistanceRange) String() string {
	switch r {
	case DistanceNear:
		return "near"
	case DistanceMedium:
		return "medium"
	case DistanceFar:
		return "far"
	default:
		return "unknown"
	}
}

// UnitsRange buckets a count of units on one side of a fight.
type UnitsRange uint8

const (
	UnitsFew UnitsRange = iota
	UnitsSeveral
	UnitsMany
)

var unitsRanges = []UnitsRange{UnitsFew, UnitsSeveral, UnitsMany}

// UnitsRanges returns all UnitsRange values in ordinal order.
func UnitsRanges() []UnitsRange {
	return append([]UnitsRange(nil), unitsRanges...)
}

// String returns the lowercase name of the range.
func (r UnitsRange) String() string {
	switch r {
	case UnitsFew:
		return "few"
	case UnitsSeveral:
		return "several"
	case UnitsMany:
		return "many"
	default:
		return "unknown"
	}
}

// HpRange buckets a health percentage.
type HpRange uint8

const (
	HpLow HpRange = iota
	HpMedium
	HpHigh
)

var hpRanges = []HpRange{HpLow, HpMedium, HpHigh}

// HpRanges returns all HpRange values in ordinal order.
func HpRanges() []HpRange {
	return append([]HpRange(nil), hpRanges...)
}

// String returns the lowercase name of the range.
func (r HpRange) String() string {
	switch r {
	case HpLow:
		return "low"
	case HpMedium:
		return "medium"
	case HpHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Distance wraps a DistanceRange. Two values are equal iff their ranges are.
type Distance struct{ r DistanceRange }

// NewDistance wraps r.
//
// Precondition: r is one of DistanceRanges(); panics otherwise.
func NewDistance(r DistanceRange) Distance {
	if int(r) >= len(distanceRanges) {
		panic(fmt.Sprintf("rl.NewDistance: category %d out of range", r))
	}
	return Distance{r: r}
}

// Range returns the wrapped category.
func (d Distance) Range() DistanceRange { return d.r }

func (d Distance) String() string { return d.r.String() }

// Units wraps a UnitsRange.
type Units struct{ r UnitsRange }

// NewUnits wraps r.
//
// Precondition: r is one of UnitsRanges(); panics otherwise.
func NewUnits(r UnitsRange) Units {
	if int(r) >= len(unitsRanges) {
		panic(fmt.Sprintf("rl.NewUnits: category %d out of range", r))
	}
	return Units{r: r}
}

// Range returns the wrapped category.
func (u Units) Range() UnitsRange { return u.r }

func (u Units) String() string { return u.r.String() }

// Hp wraps an HpRange.
type Hp struct{ r HpRange }

// NewHp wraps r.
//
// Precondition: r is one of HpRanges(); panics otherwise.
func NewHp(r HpRange) Hp {
	if int(r) >= len(hpRanges) {
		panic(fmt.Sprintf("rl.NewHp: category %d out of range", r))
	}
	return Hp{r: r}
}

// Range returns the wrapped category.
func (h Hp) Range() HpRange { return h.r }

func (h Hp) String() string { return h.r.String() }

// StateCount is the number of distinct states:
// 2 cooldown values × |DistanceRange| × |UnitsRange|² × |HpRange|².
var StateCount = 2 * len(distanceRanges) * len(unitsRanges) * len(unitsRanges) * len(hpRanges) * len(hpRanges)
