package agent

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/orwellian225/ai-assignment/reconmg"
	"github.com/orwellian225/ai-assignment/rng"
)

// RandomAgent senses and moves uniformly at random. It keeps no belief state and is
// used as a baseline opponent.
type RandomAgent struct {
	Src rng.Source
	Log zerolog.Logger
}

// NewRandomAgent returns a RandomAgent drawing from src, or from system entropy when
// src is nil.
func NewRandomAgent(src rng.Source, log zerolog.Logger) *RandomAgent {
	if src == nil {
		src = rng.New(0)
	}
	return &RandomAgent{Src: src, Log: log}
}

func (a *RandomAgent) HandleGameStart(side reconmg.Color, opponent string) {
	a.Log.Info().Stringer("side", side).Str("opponent", opponent).Msg("game start")
}

func (a *RandomAgent) HandleOpponentMoveResult(bool, reconmg.Square) {}

func (a *RandomAgent) ChooseSense(candidates []reconmg.Square, _ []reconmg.Move, _ time.Duration) reconmg.Square {
	if len(candidates) == 0 {
		return reconmg.NoSquare
	}
	return rng.Pick(a.Src, candidates)
}

func (a *RandomAgent) HandleSenseResult([]SenseResult) {}

// ChooseMove picks among legal and passing with equal weight.
func (a *RandomAgent) ChooseMove(legal []reconmg.Move, _ time.Duration) *reconmg.Move {
	i := a.Src.Intn(len(legal) + 1)
	if i == len(legal) {
		return nil
	}
	m := legal[i]
	return &m
}

func (a *RandomAgent) HandleMoveResult(_, _ *reconmg.Move, _ bool, _ reconmg.Square) {}

func (a *RandomAgent) HandleGameEnd(winner *reconmg.Color, reason string) {
	ev := a.Log.Info().Str("reason", reason)
	if winner != nil {
		ev = ev.Stringer("winner", *winner)
	}
	ev.Msg("game end")
}
