// Package agent drives one game of reconnaissance blind chess from the referee's
// callbacks.
package agent

import (
	"time"

	"github.com/orwellian225/ai-assignment/reconmg"
)

// SenseResult is one square revealed by a sense. Piece is NoPiece when the square is
// empty.
type SenseResult struct {
	Square reconmg.Square
	Piece  reconmg.Piece
}

// Player is the contract a referee drives. Callbacks arrive on one goroutine in the
// order game start, then per turn: opponent move result, sense choice, sense result,
// move choice, move result; and finally game end.
type Player interface {
	HandleGameStart(side reconmg.Color, opponent string)
	// HandleOpponentMoveResult reports whether the opponent captured one of my pieces,
	// and where. square is NoSquare when nothing was captured.
	HandleOpponentMoveResult(captured bool, square reconmg.Square)
	ChooseSense(candidates []reconmg.Square, legal []reconmg.Move, remaining time.Duration) reconmg.Square
	HandleSenseResult(results []SenseResult)
	// ChooseMove returns the move to request, or nil to pass.
	ChooseMove(legal []reconmg.Move, remaining time.Duration) *reconmg.Move
	// HandleMoveResult reports what the referee did with the request. taken is nil when
	// nothing was played.
	HandleMoveResult(requested, taken *reconmg.Move, captured bool, square reconmg.Square)
	HandleGameEnd(winner *reconmg.Color, reason string)
}

type phase uint8

const (
	awaitingGameStart phase = iota
	awaitingOpponentMoveResult
	awaitingSenseChoice
	awaitingSenseResult
	awaitingMoveChoice
	awaitingMoveResult
	gameEnded
)

var phaseNames = [...]string{
	"awaiting-game-start",
	"awaiting-opponent-move-result",
	"awaiting-sense-choice",
	"awaiting-sense-result",
	"awaiting-move-choice",
	"awaiting-move-result",
	"game-ended",
}

func (p phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}
