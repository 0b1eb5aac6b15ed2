// Package scenario loads policy fixtures from YAML: combat measurements
// paired with the action a policy is expected to choose for them.
package scenario

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/rl"
)

// Placement is one unit of a recorded layout, positioned in map units.
type Placement struct {
	// Side is self, ally, neutral or enemy.
	Side      string  `yaml:"side"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Health    float64 `yaml:"health"`
	HealthMax float64 `yaml:"health_max"`
	Cooldown  float64 `yaml:"cooldown"`
}

var sides = map[string]bool{"self": true, "ally": true, "neutral": true, "enemy": true}

// Frame is one recorded decision point. A frame either lists measurements
// directly or carries a Layout of units to be measured around its first
// placement, the controlled unit.
//
// Precondition: unit counts must be non-negative.
type Frame struct {
	OnCooldown bool `yaml:"on_cooldown"`
	// EnemyDistance is nil when no enemy is visible.
	EnemyDistance     *float64 `yaml:"enemy_distance"`
	EnemyUnits        int      `yaml:"enemy_units"`
	FriendlyUnits     int      `yaml:"friendly_units"`
	EnemyHpPercent    float64  `yaml:"enemy_hp"`
	FriendlyHpPercent float64  `yaml:"friendly_hp"`
	// Layout, when set, replaces the measurement fields above.
	Layout []Placement `yaml:"layout"`
	// Expect optionally names the action a policy should choose.
	Expect string `yaml:"expect"`
}

// HasLayout reports whether the frame must be measured from its Layout.
func (f Frame) HasLayout() bool { return len(f.Layout) > 0 }

// Snapshot converts the frame's measurement fields into raw measurements.
// Frames with a Layout are measured by the caller instead.
func (f Frame) Snapshot() rl.Snapshot {
	dist := math.Inf(1)
	if f.EnemyDistance != nil {
		dist = *f.EnemyDistance
	}
	return rl.Snapshot{
		OnCooldown:        f.OnCooldown,
		EnemyDistance:     dist,
		EnemyUnits:        f.EnemyUnits,
		FriendlyUnits:     f.FriendlyUnits,
		EnemyHpPercent:    f.EnemyHpPercent,
		FriendlyHpPercent: f.FriendlyHpPercent,
	}
}

// Expected returns the expected action kind, or false if the frame has none.
func (f Frame) Expected() (rl.ActionKind, bool) {
	if f.Expect == "" {
		return rl.ActionUnknown, false
	}
	k, err := rl.ParseActionKind(f.Expect)
	if err != nil {
		return rl.ActionUnknown, false
	}
	return k, true
}

// Scenario is a named sequence of frames.
//
// Invariant: ID is non-empty and Frames is non-empty after Validate.
type Scenario struct {
	ID          string   `yaml:"id"`
	Description string   `yaml:"description"`
	Frames      []*Frame `yaml:"frames"`
}

// Validate checks required fields and per-frame constraints.
func (s *Scenario) Validate() error {
	if s.ID == "" {
		return errors.New("scenario: ID must not be empty")
	}
	if len(s.Frames) == 0 {
		return fmt.Errorf("scenario %q: must have at least one frame", s.ID)
	}
	for i, f := range s.Frames {
		if f == nil {
			return fmt.Errorf("scenario %q frame %d: empty frame", s.ID, i)
		}
		if f.EnemyUnits < 0 || f.FriendlyUnits < 0 {
			return fmt.Errorf("scenario %q frame %d: unit counts must be non-negative", s.ID, i)
		}
		if err := validateLayout(f.Layout); err != nil {
			return fmt.Errorf("scenario %q frame %d: %w", s.ID, i, err)
		}
		if f.Expect != "" {
			if _, err := rl.ParseActionKind(f.Expect); err != nil {
				return fmt.Errorf("scenario %q frame %d: %w", s.ID, i, err)
			}
		}
	}
	return nil
}

func validateLayout(layout []Placement) error {
	for j, p := range layout {
		if !sides[p.Side] {
			return fmt.Errorf("layout unit %d: unknown side %q", j, p.Side)
		}
		if j == 0 && p.Side != "self" {
			return errors.New("layout: the first unit must be on side self")
		}
		if p.HealthMax < 0 || p.Health < 0 || p.Health > p.HealthMax {
			return fmt.Errorf("layout unit %d: health %v outside [0, %v]", j, p.Health, p.HealthMax)
		}
	}
	return nil
}

// yamlScenarioFile wraps the YAML top-level key.
type yamlScenarioFile struct {
	Scenario *Scenario `yaml:"scenario"`
}

// Load reads all *.yaml files from dir and returns parsed Scenarios in file
// name order.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns error if any file fails to parse or validate, or if
// two files share a scenario ID.
func Load(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scenario.Load: reading %q: %w", dir, err)
	}
	var scenarios []*Scenario
	seen := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("scenario.Load: reading %s: %w", e.Name(), err)
		}
		var f yamlScenarioFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("scenario.Load: parsing %s: %w", e.Name(), err)
		}
		if f.Scenario == nil {
			return nil, fmt.Errorf("scenario.Load: %s missing top-level 'scenario' key", e.Name())
		}
		if err := f.Scenario.Validate(); err != nil {
			return nil, err
		}
		if prev, dup := seen[f.Scenario.ID]; dup {
			return nil, fmt.Errorf("scenario.Load: %s and %s both define %q", prev, e.Name(), f.Scenario.ID)
		}
		seen[f.Scenario.ID] = e.Name()
		scenarios = append(scenarios, f.Scenario)
	}
	return scenarios, nil
}
