// Package config loads player settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Strategy selects which player implementation drives a game.
type Strategy string

const (
	StrategyEntropy        Strategy = "entropy"
	StrategyOpeningEntropy Strategy = "opening-entropy"
	StrategyRandomSense    Strategy = "random-sense"
	StrategyRandom         Strategy = "random"
)

// Reduction selects how an oversized belief set is cut down before a move.
type Reduction string

const (
	// ReductionRandom keeps a uniform sample.
	ReductionRandom Reduction = "random"
	// ReductionRanked keeps the hypotheses that look best for the opponent.
	ReductionRanked Reduction = "ranked"
)

// Config holds every tunable the player reads at startup.
type Config struct {
	StockfishPath string
	StateLimit    int
	MoveBudget    time.Duration
	MaxFraction   float64
	Seed          uint64
	LogLevel      zerolog.Level
	EngineHashMB  int
	EngineThreads int
	Strategy      Strategy
	Reduction     Reduction
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		StateLimit:    10000,
		MoveBudget:    10 * time.Second,
		MaxFraction:   0.5,
		LogLevel:      zerolog.InfoLevel,
		EngineHashMB:  64,
		EngineThreads: 1,
		Strategy:      StrategyEntropy,
		Reduction:     ReductionRandom,
	}
}

// Load reads the .env file in the working directory if there is one, then overlays
// RECON_* environment variables on the defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an environment lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var err error
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	integer := func(name string, dst *int, min int) {
		v, ok := lookup(name)
		if !ok || err != nil {
			return
		}
		n, perr := strconv.Atoi(v)
		if perr != nil || n < min {
			err = fmt.Errorf("%s: want integer >= %d, got %q", name, min, v)
			return
		}
		*dst = n
	}

	str("RECON_STOCKFISH_PATH", &cfg.StockfishPath)
	integer("RECON_STATE_LIMIT", &cfg.StateLimit, 1)
	integer("RECON_ENGINE_HASH_MB", &cfg.EngineHashMB, 1)
	integer("RECON_ENGINE_THREADS", &cfg.EngineThreads, 1)

	if v, ok := lookup("RECON_MOVE_BUDGET"); ok && err == nil {
		d, perr := time.ParseDuration(v)
		if perr != nil || d <= 0 {
			err = fmt.Errorf("RECON_MOVE_BUDGET: want positive duration, got %q", v)
		}
		cfg.MoveBudget = d
	}
	if v, ok := lookup("RECON_MAX_BUDGET_FRACTION"); ok && err == nil {
		f, perr := strconv.ParseFloat(v, 64)
		if perr != nil || f <= 0 || f > 1 {
			err = fmt.Errorf("RECON_MAX_BUDGET_FRACTION: want value in (0, 1], got %q", v)
		}
		cfg.MaxFraction = f
	}
	if v, ok := lookup("RECON_SEED"); ok && err == nil {
		s, perr := strconv.ParseUint(v, 10, 64)
		if perr != nil {
			err = fmt.Errorf("RECON_SEED: want unsigned integer, got %q", v)
		}
		cfg.Seed = s
	}
	if v, ok := lookup("RECON_LOG_LEVEL"); ok && err == nil {
		lvl, perr := zerolog.ParseLevel(v)
		if perr != nil {
			err = fmt.Errorf("RECON_LOG_LEVEL: %w", perr)
		}
		cfg.LogLevel = lvl
	}
	if v, ok := lookup("RECON_STRATEGY"); ok && err == nil {
		switch s := Strategy(v); s {
		case StrategyEntropy, StrategyOpeningEntropy, StrategyRandomSense, StrategyRandom:
			cfg.Strategy = s
		default:
			err = fmt.Errorf("RECON_STRATEGY: unknown strategy %q", v)
		}
	}
	if v, ok := lookup("RECON_REDUCTION"); ok && err == nil {
		switch r := Reduction(v); r {
		case ReductionRandom, ReductionRanked:
			cfg.Reduction = r
		default:
			err = fmt.Errorf("RECON_REDUCTION: unknown reduction %q", v)
		}
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
