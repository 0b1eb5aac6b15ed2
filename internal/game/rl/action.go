package rl

import (
	"fmt"
	"math"
)

// Point is a position in map units.
type Point struct {
	X, Y float64
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Unit is the controlled unit as seen by the action layer.
type Unit interface {
	Tag() uint64
	Position() Point
}

// Target is an enemy unit an action may be aimed at.
type Target struct {
	Tag      uint64
	Position Point
}

// GameContext is the live game as seen by the action layer. Implementations
// issue commands to the game and absorb command failures; none of the
// methods report errors.
type GameContext interface {
	// NearestEnemy returns the closest visible enemy to u, or false if none.
	NearestEnemy(u Unit) (Target, bool)
	// HasPath reports whether u can walk to p.
	HasPath(u Unit, p Point) bool
	// Move orders u to walk to p.
	Move(u Unit, p Point)
	// Attack orders u to attack t.
	Attack(u Unit, t Target)
}

// ActionKind identifies one of the fixed combat decisions.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionKind int

const (
	ActionUnknown ActionKind = iota // zero value; intentionally invalid
	ActionAttack
	ActionRetreat
	ActionMoveTowards
)

// actionKinds is the catalog order.
var actionKinds = []ActionKind{ActionAttack, ActionRetreat, ActionMoveTowards}

// ActionCount is the number of valid action kinds.
var ActionCount = len(actionKinds)

// String returns the snake_case name of the ActionKind.
// Postcondition: returns "attack", "retreat", "move_towards", or "unknown".
func (k ActionKind) String() string {
	switch k {
	case ActionAttack:
		return "attack"
	case ActionRetreat:
		return "retreat"
	case ActionMoveTowards:
		return "move_towards"
	default:
		return "unknown"
	}
}

// Ordinal returns the position of k in the catalog, or -1 for ActionUnknown.
func (k ActionKind) Ordinal() int {
	switch k {
	case ActionAttack:
		return 0
	case ActionRetreat:
		return 1
	case ActionMoveTowards:
		return 2
	default:
		return -1
	}
}

// ParseActionKind is the inverse of ActionKind.String.
func ParseActionKind(s string) (ActionKind, error) {
	for _, k := range actionKinds {
		if k.String() == s {
			return k, nil
		}
	}
	return ActionUnknown, fmt.Errorf("rl: unknown action %q", s)
}

// DefaultStep is the movement distance used when an Action has no Step set.
const DefaultStep = 4.0

// Action is one executable combat decision.
type Action struct {
	Kind ActionKind
	// Step is the distance covered by Retreat and MoveTowards. Ignored by Attack.
	Step float64
}

// Execute issues the command for a against unit. Nothing is returned: when
// there is no enemy or no path, the action does nothing.
//
// Precondition: ctx and unit must not be nil.
func (a Action) Execute(ctx GameContext, unit Unit) {
	if a.Kind.Ordinal() < 0 {
		panic(fmt.Sprintf("rl.Action.Execute: invalid action kind %d", a.Kind))
	}
	enemy, ok := ctx.NearestEnemy(unit)
	if !ok {
		return
	}
	switch a.Kind {
	case ActionAttack:
		ctx.Attack(unit, enemy)
	case ActionRetreat:
		dest := stepFrom(unit.Position(), enemy.Position, -a.step())
		if ctx.HasPath(unit, dest) {
			ctx.Move(unit, dest)
		}
	case ActionMoveTowards:
		dest := stepFrom(unit.Position(), enemy.Position, a.step())
		if ctx.HasPath(unit, dest) {
			ctx.Move(unit, dest)
		}
	}
}

func (a Action) String() string { return a.Kind.String() }

func (a Action) step() float64 {
	if a.Step <= 0 {
		return DefaultStep
	}
	return a.Step
}

// stepFrom returns the point dist map units from "from" along the direction
// to "to". A negative dist steps away. When the points coincide the step is
// taken along the positive X axis.
func stepFrom(from, to Point, dist float64) Point {
	dx, dy := to.X-from.X, to.Y-from.Y
	n := math.Hypot(dx, dy)
	if n == 0 {
		return Point{X: from.X + dist, Y: from.Y}
	}
	return Point{X: from.X + dx/n*dist, Y: from.Y + dy/n*dist}
}
