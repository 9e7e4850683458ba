package reconmg

import (
	"errors"
	"fmt"
)

// ErrIllegalMove is returned by Apply when the move is not among the board's actions.
var ErrIllegalMove = errors.New("illegal move")

// Apply plays m on a copy of the board and returns it. Only the identity of m
// (from, to, promotion) is consulted; the action must be one GenerateActions would
// produce for this board.
func (b Board) Apply(m Move) (Board, error) {
	cand, ok := b.Lookup(m)
	if !ok {
		return Board{}, fmt.Errorf("%w %s on %s", ErrIllegalMove, m, b.Key())
	}
	return b.play(cand), nil
}

// Play applies an action produced by GenerateActions for this board without
// re-validating it.
func (b Board) Play(m Move) Board { return b.play(m) }

func (b Board) play(m Move) Board {
	side := b.sideToMove
	b.enPassantSquare = NoSquare
	b.sideToMove = side.Other()
	if m.IsNull() {
		return b
	}

	from := m.From()
	to := m.To()
	flag := m.Flags()

	if flag == FlagEnPassant {
		b.removePiece(m.CaptureSquare())
	}
	b.removePiece(to)
	moved := b.removePiece(from)
	if promo := m.Promotion(); promo != PieceTypeNone {
		moved = PieceFromType(side, promo)
	}
	b.addPiece(to, moved)

	if flag == FlagCastle {
		for _, c := range castles[side] {
			if c.kingTo == to {
				b.addPiece(c.rookTo, b.removePiece(c.rookFrom))
			}
		}
	}

	if moved.Type() == PieceTypePawn && abs(int(to)-int(from)) == 16 {
		b.enPassantSquare = (from + to) / 2
	}
	b.castlingRights &= b.placementCastlingRights()
	return b
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
