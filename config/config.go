// Package config loads optional YAML settings for a battle run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brensch/tankwar/game"
)

// Config mirrors the YAML file:
//
//	rules:
//	  shoot_cooldown: 4
//	  backward_delay: 2
//	  no_ammo_rounds: 40
//	  max_steps: 2000   # optional, overrides the board file
//	  num_shells: 10    # optional, overrides the board file
type Config struct {
	Rules RulesConfig `yaml:"rules"`
}

type RulesConfig struct {
	ShootCooldown int  `yaml:"shoot_cooldown"`
	BackwardDelay int  `yaml:"backward_delay"`
	NoAmmoRounds  int  `yaml:"no_ammo_rounds"`
	MaxSteps      *int `yaml:"max_steps,omitempty"`
	NumShells     *int `yaml:"num_shells,omitempty"`
}

func Default() Config {
	r := game.DefaultRules()
	return Config{Rules: RulesConfig{
		ShootCooldown: r.ShootCooldown,
		BackwardDelay: r.BackwardDelay,
		NoAmmoRounds:  r.NoAmmoRounds,
	}}
}

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// Load reads path over the defaults, so omitted keys keep their default value.
// An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if err := loadYAML(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	r := c.Rules
	if r.ShootCooldown < 0 {
		return fmt.Errorf("shoot_cooldown must not be negative, got %d", r.ShootCooldown)
	}
	if r.BackwardDelay < 0 {
		return fmt.Errorf("backward_delay must not be negative, got %d", r.BackwardDelay)
	}
	if r.NoAmmoRounds < 1 {
		return fmt.Errorf("no_ammo_rounds must be at least 1, got %d", r.NoAmmoRounds)
	}
	if r.MaxSteps != nil && *r.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative, got %d", *r.MaxSteps)
	}
	if r.NumShells != nil && *r.NumShells < 0 {
		return fmt.Errorf("num_shells must not be negative, got %d", *r.NumShells)
	}
	return nil
}

// Apply overlays the configured rules on base, which usually carries the
// board file's max steps and shell count.
func (c Config) Apply(base game.Rules) game.Rules {
	base.ShootCooldown = c.Rules.ShootCooldown
	base.BackwardDelay = c.Rules.BackwardDelay
	base.NoAmmoRounds = c.Rules.NoAmmoRounds
	if c.Rules.MaxSteps != nil {
		base.MaxSteps = *c.Rules.MaxSteps
	}
	if c.Rules.NumShells != nil {
		base.NumShells = *c.Rules.NumShells
	}
	return base
}
