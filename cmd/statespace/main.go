// Package main provides the statespace tool: it builds the combat state space
// from configuration, prints its dimensions, and checks the configured policy
// against the scenario fixtures it must satisfy.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/logrusorgru/aurora"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/policy"
	"github.com/cory-johannsen/skirmish/internal/game/rl"
	"github.com/cory-johannsen/skirmish/internal/game/scenario"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/sc2"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// policyScope is the scripting scope holding policy hooks.
const policyScope = "policy"

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	envFile := flag.String("env", ".env", "optional dotenv file with SKIRMISH_ overrides")
	scenariosDir := flag.String("scenarios", "content/scenarios", "path to scenario YAML directory; empty = skip the policy check")
	dump := flag.Bool("dump", false, "print every state with its index")
	color := flag.Bool("color", true, "colorize the summary")
	flag.Parse()

	if err := loadEnv(*envFile); err != nil {
		log.Fatalf("loading env file: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "statespace")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	space, err := rl.NewManager(logger, cfg.Actions.Step)
	if err != nil {
		logger.Fatal("building state space", zap.Error(err))
	}
	disc, err := rl.NewDiscretizer(boundaries(cfg.Discretization))
	if err != nil {
		logger.Fatal("building discretizer", zap.Error(err))
	}

	printSummary(os.Stdout, aurora.NewAurora(*color), space, *dump)

	if *scenariosDir == "" {
		return
	}

	scripts := scripting.NewManager(actionNames(space), logger)
	defer scripts.Close()

	selectors, err := buildSelectors(cfg.Policy, policy.NewValueTable(), scripts, logger)
	if err != nil {
		logger.Fatal("building selectors", zap.Error(err))
	}
	sel, ok := selectors.Selector(cfg.Policy.Name)
	if !ok {
		logger.Fatal("unknown policy",
			zap.String("policy", cfg.Policy.Name),
			zap.Strings("available", selectors.Names()),
		)
	}

	scenarios, err := scenario.Load(*scenariosDir)
	if err != nil {
		logger.Fatal("loading scenarios", zap.Error(err))
	}
	logger.Info("loaded scenarios", zap.Int("count", len(scenarios)))

	sensor := sc2.NewMeasurer(cfg.Sensor.Radius)
	logger.Debug("sensor ready", zap.Float64("radius", sensor.Radius()))

	ctrl := combat.NewController(space, disc, sel, logger)
	res := check(ctrl, sensor, scenarios, logger)
	logger.Info("policy check complete",
		zap.String("policy", sel.Name()),
		zap.Int("frames", res.Frames),
		zap.Int("checked", res.Checked),
		zap.Int("mismatches", res.Mismatches),
		zap.Duration("elapsed", time.Since(start)),
	)
	if res.Mismatches > 0 {
		os.Exit(1)
	}
}

// loadEnv loads path into the process environment. A missing file is not an
// error.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// boundaries converts validated discretization config into rl.Boundaries.
//
// Precondition: each slice holds exactly two bounds (config.Validate).
func boundaries(d config.DiscretizationConfig) rl.Boundaries {
	return rl.Boundaries{
		Distance: [2]float64{d.Distance[0], d.Distance[1]},
		Units:    [2]int{d.Units[0], d.Units[1]},
		Hp:       [2]float64{d.Hp[0], d.Hp[1]},
	}
}

func actionNames(space *rl.Manager) []string {
	actions := space.ActionList()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.String()
	}
	return names
}

// buildSelectors registers every selector the configuration can name. The
// scripted selector is only built when it is the configured policy, since it
// requires its script directory to load.
func buildSelectors(cfg config.PolicyConfig, table *policy.ValueTable, scripts *scripting.Manager, logger *zap.Logger) (*policy.Registry, error) {
	var src dice.Source
	if cfg.Seed != 0 {
		src = dice.NewSeededSource(cfg.Seed)
	} else {
		src = dice.NewCryptoSource()
	}

	greedy := policy.NewGreedy(table)
	reg := policy.NewRegistry()
	if err := reg.Register(greedy); err != nil {
		return nil, err
	}
	if err := reg.Register(policy.NewEpsilonGreedy(table, cfg.Epsilon, src)); err != nil {
		return nil, err
	}
	if cfg.Name == "scripted" {
		if err := scripts.LoadScope(policyScope, cfg.ScriptDir, cfg.InstructionLimit); err != nil {
			return nil, fmt.Errorf("loading policy scripts: %w", err)
		}
		if err := reg.Register(policy.NewScripted(scripts, policyScope, greedy, logger)); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// checkResult tallies a policy check.
type checkResult struct {
	Frames     int
	Checked    int
	Mismatches int
	// Chosen counts decisions per action name.
	Chosen map[string]int
}

// check runs every frame of every scenario through ctrl. Layout frames are
// measured with sensor. Frames with an expectation are compared with the
// chosen action.
func check(ctrl *combat.Controller, sensor sc2.Measurer, scenarios []*scenario.Scenario, logger *zap.Logger) checkResult {
	res := checkResult{Chosen: make(map[string]int)}
	for _, sc := range scenarios {
		for i, f := range sc.Frames {
			d := ctrl.Decide(measure(f, sensor))
			res.Frames++
			res.Chosen[d.Action.String()]++

			want, ok := f.Expected()
			if !ok {
				continue
			}
			res.Checked++
			if d.Action.Kind != want {
				res.Mismatches++
				logger.Warn("unexpected action",
					zap.String("scenario", sc.ID),
					zap.Int("frame", i),
					zap.String("decision_id", d.ID),
					zap.String("state", d.State.String()),
					zap.String("want", want.String()),
					zap.String("got", d.Action.String()),
				)
			}
		}
	}
	return res
}

// measure returns the raw measurements of f. A layout is measured around its
// first placement; tags follow layout order from 1.
func measure(f *scenario.Frame, sensor sc2.Measurer) rl.Snapshot {
	if !f.HasLayout() {
		return f.Snapshot()
	}
	units := make([]sc2.RawUnit, len(f.Layout))
	for i, p := range f.Layout {
		// scenario.Load rejects unknown sides.
		alliance, _ := sc2.ParseAlliance(p.Side)
		units[i] = sc2.RawUnit{
			Tag:            uint64(i + 1),
			Alliance:       alliance,
			Pos:            rl.Point{X: p.X, Y: p.Y},
			Health:         p.Health,
			HealthMax:      p.HealthMax,
			WeaponCooldown: p.Cooldown,
		}
	}
	return sensor.Measure(units[0], units)
}

func printSummary(w io.Writer, au aurora.Aurora, space *rl.Manager, all bool) {
	fmt.Fprintf(w, "%s   %d\n", au.Bold("states:"), space.Size())
	fmt.Fprintf(w, "%s %v\n", au.Bold("distance:"), rl.DistanceRanges())
	fmt.Fprintf(w, "%s    %v\n", au.Bold("units:"), rl.UnitsRanges())
	fmt.Fprintf(w, "%s       %v\n", au.Bold("hp:"), rl.HpRanges())
	fmt.Fprintf(w, "%s  %v\n", au.Bold("actions:"), actionNames(space))
	if !all {
		return
	}
	for _, s := range space.StateSet().Sorted() {
		idx := au.Blue(fmt.Sprintf("%4d", s.Index()))
		if s.OnCooldown() {
			idx = au.Yellow(fmt.Sprintf("%4d", s.Index()))
		}
		fmt.Fprintf(w, "%s %s\n", idx, s)
	}
}
