package agent

import (
	"github.com/rs/zerolog"

	"github.com/orwellian225/ai-assignment/config"
	"github.com/orwellian225/ai-assignment/oracle"
	"github.com/orwellian225/ai-assignment/policy"
	"github.com/orwellian225/ai-assignment/reconmg"
	"github.com/orwellian225/ai-assignment/rng"
)

// FromConfig builds the player selected by cfg.Strategy around o.
func FromConfig(cfg config.Config, o oracle.Oracle, log zerolog.Logger) Player {
	src := rng.New(cfg.Seed)
	if cfg.Strategy == config.StrategyRandom {
		return NewRandomAgent(src, log)
	}
	var sense policy.SenseChooser = policy.Entropy{Src: src}
	if cfg.Strategy == config.StrategyRandomSense {
		sense = policy.RandomSense{Src: src}
	}
	var rank func(reconmg.Board) int32
	if cfg.Reduction == config.ReductionRanked {
		rank = oracle.StaticEval
	}
	return NewController(Options{
		Oracle:     o,
		Sense:      sense,
		Source:     src,
		StateLimit: cfg.StateLimit,
		Budget: policy.BudgetConfig{
			MoveBudget:  cfg.MoveBudget,
			MaxFraction: cfg.MaxFraction,
		},
		Opening: cfg.Strategy == config.StrategyOpeningEntropy,
		Rank:    rank,
		Logger:  log,
	})
}
