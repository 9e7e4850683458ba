package config_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orwellian225/ai-assignment/config"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := config.FromLookup(lookupFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, 10000, cfg.StateLimit)
	assert.Equal(t, 10*time.Second, cfg.MoveBudget)
	assert.Equal(t, config.StrategyEntropy, cfg.Strategy)
	assert.Equal(t, config.ReductionRandom, cfg.Reduction)
}

func TestOverrides(t *testing.T) {
	cfg, err := config.FromLookup(lookupFrom(map[string]string{
		"RECON_STOCKFISH_PATH":      "/usr/bin/stockfish",
		"RECON_STATE_LIMIT":         "500",
		"RECON_MOVE_BUDGET":         "2s",
		"RECON_MAX_BUDGET_FRACTION": "0.25",
		"RECON_SEED":                "99",
		"RECON_LOG_LEVEL":           "debug",
		"RECON_ENGINE_THREADS":      "4",
		"RECON_STRATEGY":            "opening-entropy",
		"RECON_REDUCTION":           "ranked",
	}))
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/stockfish", cfg.StockfishPath)
	assert.Equal(t, 500, cfg.StateLimit)
	assert.Equal(t, 2*time.Second, cfg.MoveBudget)
	assert.InDelta(t, 0.25, cfg.MaxFraction, 1e-9)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, 4, cfg.EngineThreads)
	assert.Equal(t, config.StrategyOpeningEntropy, cfg.Strategy)
	assert.Equal(t, config.ReductionRanked, cfg.Reduction)
}

func TestInvalidValuesNameTheVariable(t *testing.T) {
	cases := map[string]string{
		"RECON_STATE_LIMIT":         "0",
		"RECON_MOVE_BUDGET":         "soon",
		"RECON_MAX_BUDGET_FRACTION": "1.5",
		"RECON_SEED":                "-1",
		"RECON_STRATEGY":            "greedy",
		"RECON_REDUCTION":           "best",
		"RECON_ENGINE_HASH_MB":      "lots",
	}
	for name, value := range cases {
		_, err := config.FromLookup(lookupFrom(map[string]string{name: value}))
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), name)
	}
}
