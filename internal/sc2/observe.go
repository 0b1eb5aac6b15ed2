// Package sc2 connects the combat controller to a StarCraft II game through
// the raw API: it measures snapshots from observed units and turns executed
// actions into raw unit commands.
//
// The types here mirror the raw API messages field for field, so a client
// can fill them from a ResponseObservation and send Commands back in a
// RequestAction without the adapter owning the transport.
package sc2

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/rl"
)

// Alliance is the relation of an observed unit to the player, numbered as in
// the raw API.
type Alliance int32

const (
	AllianceSelf    Alliance = 1
	AllianceAlly    Alliance = 2
	AllianceNeutral Alliance = 3
	AllianceEnemy   Alliance = 4
)

var allianceNames = map[Alliance]string{
	AllianceSelf:    "self",
	AllianceAlly:    "ally",
	AllianceNeutral: "neutral",
	AllianceEnemy:   "enemy",
}

func (a Alliance) String() string {
	if n, ok := allianceNames[a]; ok {
		return n
	}
	return fmt.Sprintf("alliance(%d)", int32(a))
}

// ParseAlliance maps a case-insensitive alliance name to its Alliance.
func ParseAlliance(name string) (Alliance, error) {
	for a, n := range allianceNames {
		if strings.EqualFold(n, name) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("sc2: unknown alliance %q", name)
}

// RawUnit is the subset of an observed raw unit the adapter reads.
type RawUnit struct {
	Tag            uint64
	Alliance       Alliance
	Pos            rl.Point
	Health         float64
	HealthMax      float64
	WeaponCooldown float64
}

// Unit adapts a RawUnit to rl.Unit.
type Unit struct {
	raw RawUnit
}

// NewUnit wraps u.
//
// Precondition: u.Tag must be non-zero; the raw API never issues tag 0.
func NewUnit(u RawUnit) Unit {
	if u.Tag == 0 {
		panic("sc2.NewUnit: tag must not be zero")
	}
	return Unit{raw: u}
}

// Tag implements rl.Unit.
func (u Unit) Tag() uint64 { return u.raw.Tag }

// Position implements rl.Unit.
func (u Unit) Position() rl.Point { return u.raw.Pos }
