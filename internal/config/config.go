// Package config provides Viper-based configuration loading for the combat bot.
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// DiscretizationConfig holds the upper bounds of every range bucket except
// the last, which is open-ended.
type DiscretizationConfig struct {
	// Distance holds the near and medium upper bounds in map units.
	Distance []float64 `mapstructure:"distance"`
	// Units holds the few and several upper bounds as unit counts.
	Units []int `mapstructure:"units"`
	// Hp holds the low and medium upper bounds as health percentages.
	Hp []float64 `mapstructure:"hp"`
}

// ActionsConfig holds parameters of the movement actions.
type ActionsConfig struct {
	// Step is the distance in map units covered by one Retreat or MoveTowards order.
	Step float64 `mapstructure:"step"`
}

// PolicyConfig selects and tunes the action selector.
type PolicyConfig struct {
	// Name is one of "greedy", "epsilon_greedy", "scripted".
	Name string `mapstructure:"name"`
	// Epsilon is the exploration percentage in [0, 100] for epsilon_greedy.
	Epsilon int `mapstructure:"epsilon"`
	// Seed makes exploration deterministic when non-zero; 0 uses crypto/rand.
	Seed uint64 `mapstructure:"seed"`
	// ScriptDir holds the Lua files loaded for the scripted policy.
	ScriptDir string `mapstructure:"script_dir"`
	// InstructionLimit caps Lua opcodes per call; 0 uses the scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// SensorConfig controls how raw snapshots are measured from game observations.
type SensorConfig struct {
	// Radius is the distance around the controlled unit within which units are counted.
	Radius float64 `mapstructure:"radius"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging        LoggingConfig        `mapstructure:"logging"`
	Discretization DiscretizationConfig `mapstructure:"discretization"`
	Actions        ActionsConfig        `mapstructure:"actions"`
	Policy         PolicyConfig         `mapstructure:"policy"`
	Sensor         SensorConfig         `mapstructure:"sensor"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDiscretization(c.Discretization); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Actions.Step <= 0 || math.IsNaN(c.Actions.Step) {
		errs = append(errs, fmt.Sprintf("actions.step must be > 0, got %v", c.Actions.Step))
	}
	if err := validatePolicy(c.Policy); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Sensor.Radius <= 0 || math.IsNaN(c.Sensor.Radius) {
		errs = append(errs, fmt.Sprintf("sensor.radius must be > 0, got %v", c.Sensor.Radius))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateDiscretization(d DiscretizationConfig) error {
	var errs []string
	if len(d.Distance) != 2 {
		errs = append(errs, fmt.Sprintf("discretization.distance must have 2 bounds, got %d", len(d.Distance)))
	}
	if len(d.Units) != 2 {
		errs = append(errs, fmt.Sprintf("discretization.units must have 2 bounds, got %d", len(d.Units)))
	}
	if len(d.Hp) != 2 {
		errs = append(errs, fmt.Sprintf("discretization.hp must have 2 bounds, got %d", len(d.Hp)))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	// Ordering is checked by rl.Boundaries.Validate once the bounds are converted.
	return nil
}

func validatePolicy(p PolicyConfig) error {
	var errs []string
	validNames := map[string]bool{"greedy": true, "epsilon_greedy": true, "scripted": true}
	if !validNames[p.Name] {
		errs = append(errs, fmt.Sprintf("policy.name must be one of [greedy, epsilon_greedy, scripted], got %q", p.Name))
	}
	if p.Epsilon < 0 || p.Epsilon > 100 {
		errs = append(errs, fmt.Sprintf("policy.epsilon must be 0-100, got %d", p.Epsilon))
	}
	if p.Name == "scripted" && p.ScriptDir == "" {
		errs = append(errs, "policy.script_dir must not be empty for the scripted policy")
	}
	if p.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("policy.instruction_limit must be >= 0, got %d", p.InstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SKIRMISH_ prefix
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance populated only with default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("discretization.distance", []float64{6, 12})
	v.SetDefault("discretization.units", []int{2, 6})
	v.SetDefault("discretization.hp", []float64{33, 66})

	v.SetDefault("actions.step", 4.0)

	v.SetDefault("policy.name", "greedy")
	v.SetDefault("policy.epsilon", 10)
	v.SetDefault("policy.seed", 0)
	v.SetDefault("policy.script_dir", "content/scripts/policy")
	v.SetDefault("policy.instruction_limit", 0)

	v.SetDefault("sensor.radius", 15.0)
}
