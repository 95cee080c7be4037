// Package config carries the simulation parameters. Environment variables
// override the built-in defaults; command-line flags override both.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"moser/sim"
	"moser/solver"
)

type Config struct {
	Trials   int64         `env:"MOSER_TRIALS"    envDefault:"1000000"`
	Workers  int           `env:"MOSER_WORKERS"   envDefault:"0"` // 0 = one per CPU, resolved by the caller
	Presses  int           `env:"MOSER_PRESSES"   envDefault:"10"`
	Ceiling  float64       `env:"MOSER_CEILING"   envDefault:"100000"`
	Seed     *uint64       `env:"MOSER_SEED"` // nil = draw a fresh seed per run
	Progress time.Duration `env:"MOSER_PROGRESS"  envDefault:"0"`
	LogLevel string        `env:"MOSER_LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}

// Validate rejects parameter combinations the solver or simulator would
// refuse, so bad input fails before any work is dispatched.
func (c Config) Validate() error {
	if c.Trials < 0 {
		return sim.ErrInvalidTrials
	}
	if c.Trials == 0 {
		return sim.ErrZeroTrials
	}
	if c.Workers < 0 {
		return sim.ErrInvalidWorkers
	}
	if c.Presses < 1 {
		return solver.ErrInvalidPresses
	}
	if c.Ceiling <= 0 {
		return solver.ErrInvalidCeiling
	}
	return nil
}
