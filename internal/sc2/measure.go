package sc2

import (
	"math"

	"github.com/cory-johannsen/skirmish/internal/game/rl"
)

// Measurer builds raw snapshots for one controlled unit.
//
// Unit counts and hit points are pooled over units within Radius of the
// controlled unit; the controlled unit counts as friendly. Enemy distance is
// measured to the nearest enemy anywhere on the map.
type Measurer struct {
	radius float64
}

// NewMeasurer constructs a Measurer.
//
// Precondition: radius > 0.
func NewMeasurer(radius float64) Measurer {
	if !(radius > 0) {
		panic("sc2.NewMeasurer: radius must be > 0")
	}
	return Measurer{radius: radius}
}

// Radius returns the counting radius.
func (m Measurer) Radius() float64 { return m.radius }

// Measure returns the snapshot of self among units. units may include self,
// matched by tag.
//
// Postcondition: EnemyDistance is +Inf and EnemyHpPercent is 0 when no enemy
// is observed.
func (m Measurer) Measure(self RawUnit, units []RawUnit) rl.Snapshot {
	snap := rl.Snapshot{
		OnCooldown:    self.WeaponCooldown > 0,
		EnemyDistance: math.Inf(1),
		FriendlyUnits: 1,
	}
	friendHp, friendMax := self.Health, self.HealthMax
	var enemyHp, enemyMax float64

	for _, u := range units {
		if u.Tag == self.Tag {
			continue
		}
		d := self.Pos.Dist(u.Pos)
		switch u.Alliance {
		case AllianceEnemy:
			if d < snap.EnemyDistance {
				snap.EnemyDistance = d
			}
			if d <= m.radius {
				snap.EnemyUnits++
				enemyHp += u.Health
				enemyMax += u.HealthMax
			}
		case AllianceSelf, AllianceAlly:
			if d <= m.radius {
				snap.FriendlyUnits++
				friendHp += u.Health
				friendMax += u.HealthMax
			}
		}
	}

	snap.FriendlyHpPercent = percent(friendHp, friendMax)
	snap.EnemyHpPercent = percent(enemyHp, enemyMax)
	return snap
}

func percent(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return v / max * 100
}
