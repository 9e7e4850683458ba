package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/orwellian225/ai-assignment/agent"
	"github.com/orwellian225/ai-assignment/config"
	"github.com/orwellian225/ai-assignment/oracle"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(cfg.LogLevel).
		With().Timestamp().Logger()

	s := &session{
		newPlayer: func() (agent.Player, error) {
			o, err := newOracle(cfg, log)
			if err != nil {
				return nil, err
			}
			return agent.FromConfig(cfg, o, log), nil
		},
		out: os.Stdout,
	}
	if err := s.run(os.Stdin); err != nil {
		log.Error().Err(err).Msg("reading commands")
		os.Exit(1)
	}
}

// newOracle launches the configured engine, or the in-process searcher when no engine
// path is set.
func newOracle(cfg config.Config, log zerolog.Logger) (oracle.Oracle, error) {
	if cfg.Strategy == config.StrategyRandom {
		return nil, nil
	}
	if cfg.StockfishPath == "" {
		return oracle.NewSearch(oracle.SearchConfig{Logger: log}), nil
	}
	return oracle.NewUCI(oracle.UCIConfig{
		Path:    cfg.StockfishPath,
		HashMB:  cfg.EngineHashMB,
		Threads: cfg.EngineThreads,
		Logger:  log,
	})
}
