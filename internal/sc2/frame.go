package sc2

import (
	"math"

	"github.com/cory-johannsen/skirmish/internal/game/rl"
)

// AbilityID identifies a raw unit command, numbered as in the game data.
type AbilityID uint32

const (
	AbilityMove   AbilityID = 16
	AbilityAttack AbilityID = 23
)

// Command is one raw unit command. A command targets either a unit, when
// TargetTag is non-zero, or the world position TargetPos.
type Command struct {
	Ability   AbilityID
	UnitTags  []uint64
	TargetTag uint64
	TargetPos rl.Point
}

// TargetsUnit reports whether c targets a unit rather than a position.
func (c Command) TargetsUnit() bool { return c.TargetTag != 0 }

// Bounds is the playable rectangle of the map. Destinations outside it have
// no path.
type Bounds struct {
	Min, Max rl.Point
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p rl.Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Frame is the rl.GameContext for one game step. It reads the step's
// observation and collects the commands issued during it.
//
// Not safe for concurrent use.
type Frame struct {
	units    []RawUnit
	bounds   Bounds
	commands []Command
}

// NewFrame builds a Frame from the observed raw units.
func NewFrame(units []RawUnit, bounds Bounds) *Frame {
	return &Frame{units: units, bounds: bounds}
}

// NearestEnemy implements rl.GameContext.
func (f *Frame) NearestEnemy(u rl.Unit) (rl.Target, bool) {
	from := u.Position()
	best := math.Inf(1)
	var target rl.Target
	found := false
	for _, o := range f.units {
		if o.Alliance != AllianceEnemy {
			continue
		}
		if d := from.Dist(o.Pos); d < best {
			best = d
			target = rl.Target{Tag: o.Tag, Position: o.Pos}
			found = true
		}
	}
	return target, found
}

// HasPath implements rl.GameContext. Only the playable bounds are checked.
func (f *Frame) HasPath(_ rl.Unit, p rl.Point) bool {
	return f.bounds.Contains(p)
}

// Move implements rl.GameContext by queueing a move command to p.
func (f *Frame) Move(u rl.Unit, p rl.Point) {
	f.commands = append(f.commands, Command{
		Ability:   AbilityMove,
		UnitTags:  []uint64{u.Tag()},
		TargetPos: p,
	})
}

// Attack implements rl.GameContext by queueing an attack on t.
func (f *Frame) Attack(u rl.Unit, t rl.Target) {
	f.commands = append(f.commands, Command{
		Ability:   AbilityAttack,
		UnitTags:  []uint64{u.Tag()},
		TargetTag: t.Tag,
	})
}

// Commands returns the commands queued so far, in issue order.
func (f *Frame) Commands() []Command {
	return f.commands
}
