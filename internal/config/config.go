// Package config loads the service configuration: built-in defaults, then an
// optional YAML file, then TEAMSOLVER_* environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/teamsolver/policy"
	"github.com/katalvlaran/teamsolver/solver"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TEAMSOLVER_"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Config holds all teamsolver configuration.
type Config struct {
	Server   ServerConfig    `yaml:"server" envPrefix:"SERVER_"`
	Data     DataConfig      `yaml:"data" envPrefix:"DATA_"`
	Solver   SolverConfig    `yaml:"solver" envPrefix:"SOLVER_"`
	Defaults DefaultsConfig  `yaml:"defaults" envPrefix:"DEFAULTS_"`
	Logging  LoggingConfig   `yaml:"logging" envPrefix:"LOG_"`
	Variants []VariantConfig `yaml:"variants" validate:"dive"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"ADDR" validate:"required"`
	StaticDir       string        `yaml:"static_dir" env:"STATIC_DIR"`
	CORS            bool          `yaml:"cors" env:"CORS"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" validate:"gte=0"`
}

// DataConfig locates the roster files. An empty Dir means the embedded data.
type DataConfig struct {
	Dir   string `yaml:"dir" env:"DIR"`
	Watch bool   `yaml:"watch" env:"WATCH"`
}

// SolverConfig holds request defaults and limits.
type SolverConfig struct {
	MaxTeamSize       int                      `yaml:"max_team_size" env:"MAX_TEAM_SIZE" validate:"gte=0"`
	DefaultTimeBudget time.Duration            `yaml:"default_time_budget" env:"DEFAULT_TIME_BUDGET" validate:"gte=0"`
	MaxTimeBudget     time.Duration            `yaml:"max_time_budget" env:"MAX_TIME_BUDGET" validate:"gt=0"`
	TimeBudgets       map[string]time.Duration `yaml:"time_budgets"`
	TopK              int                      `yaml:"top_k" env:"TOP_K" validate:"gte=1"`
	Distinct          bool                     `yaml:"distinct" env:"DISTINCT"`
	MinTank           int                      `yaml:"min_tank" env:"MIN_TANK" validate:"gte=0"`
	MinCarry          int                      `yaml:"min_carry" env:"MIN_CARRY" validate:"gte=0"`
	HighCostTier      int                      `yaml:"high_cost_tier" env:"HIGH_COST_TIER" validate:"gte=0"`
}

// DefaultsConfig is what /config/defaults serves to the form.
type DefaultsConfig struct {
	Forced []string `yaml:"forced" env:"FORCED"`
	Banned []string `yaml:"banned" env:"BANNED"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"FORMAT" validate:"oneof=json console"`
}

// VariantConfig declares an extra scoring variant.
type VariantConfig struct {
	Name         string                `yaml:"name" validate:"required"`
	Aliases      []string              `yaml:"aliases"`
	OriginWeight float64               `yaml:"origin_weight" validate:"gt=0"`
	ClassWeight  float64               `yaml:"class_weight" validate:"gt=0"`
	Rules        map[string]RuleConfig `yaml:"rules" validate:"dive"`
}

// RuleConfig overrides one trait: kind is standard, ignored or fixed; need
// applies to fixed only.
type RuleConfig struct {
	Kind string `yaml:"kind" validate:"required"`
	Need int    `yaml:"need" validate:"gte=0"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			CORS:            true,
			ShutdownTimeout: 10 * time.Second,
		},
		Solver: SolverConfig{
			MaxTeamSize:       solver.DefaultMaxTeamSize,
			DefaultTimeBudget: 20 * time.Second,
			MaxTimeBudget:     time.Minute,
			TimeBudgets: map[string]time.Duration{
				policy.BalancedName: 20 * time.Second,
				policy.StrictName:   time.Second,
			},
			TopK:         solver.DefaultTopK,
			MinTank:      solver.DefaultMinTank,
			MinCarry:     solver.DefaultMinCarry,
			HighCostTier: solver.DefaultHighCostTier,
		},
		Defaults: DefaultsConfig{
			Forced: []string{"Ryze", "Ahri"},
			Banned: []string{"Aatrox", "Aphelios", "Zoe", "Leona", "Diana", "Aurelion Sol"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path or a missing file leaves the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := cfg.decode(data); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// decode applies YAML data over c, rejecting unknown keys.
func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// Validate checks field ranges, the budget ordering and every variant.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Solver.DefaultTimeBudget > c.Solver.MaxTimeBudget {
		return fmt.Errorf("%w: default_time_budget %s exceeds max_time_budget %s",
			ErrInvalidConfig, c.Solver.DefaultTimeBudget, c.Solver.MaxTimeBudget)
	}
	for name, d := range c.Solver.TimeBudgets {
		if d < 0 || d > c.Solver.MaxTimeBudget {
			return fmt.Errorf("%w: time budget of %s out of range: %s", ErrInvalidConfig, name, d)
		}
	}
	for _, vc := range c.Variants {
		if _, err := vc.Policy(); err != nil {
			return fmt.Errorf("%w: variant %s: %w", ErrInvalidConfig, vc.Name, err)
		}
	}

	return nil
}

// Constraints returns the role-coverage minimums.
func (s SolverConfig) Constraints() solver.Constraints {
	return solver.Constraints{
		MinTank:      s.MinTank,
		MinCarry:     s.MinCarry,
		HighCostTier: s.HighCostTier,
	}
}

// TimeBudget returns the default budget of variant, falling back to
// DefaultTimeBudget.
func (s SolverConfig) TimeBudget(variant string) time.Duration {
	if d, ok := s.TimeBudgets[variant]; ok {
		return d
	}

	return s.DefaultTimeBudget
}

// Policy converts the declaration into a validated policy.
func (vc VariantConfig) Policy() (*policy.Policy, error) {
	p := &policy.Policy{
		Name:         vc.Name,
		Rules:        make(map[string]policy.Rule, len(vc.Rules)),
		OriginWeight: vc.OriginWeight,
		ClassWeight:  vc.ClassWeight,
	}
	for trait, rc := range vc.Rules {
		kind, err := policy.ParseRuleKind(rc.Kind)
		if err != nil {
			return nil, fmt.Errorf("trait %s: %w", trait, err)
		}
		p.Rules[trait] = policy.Rule{Kind: kind, Need: rc.Need}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Registry returns the built-in policies plus every configured variant.
func (c *Config) Registry() (*policy.Registry, error) {
	reg := policy.NewRegistry()
	for _, vc := range c.Variants {
		p, err := vc.Policy()
		if err != nil {
			return nil, fmt.Errorf("config: variant %s: %w", vc.Name, err)
		}
		if err := reg.Register(p, vc.Aliases...); err != nil {
			return nil, fmt.Errorf("config: variant %s: %w", vc.Name, err)
		}
	}

	return reg, nil
}
