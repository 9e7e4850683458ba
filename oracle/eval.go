package oracle

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"

	"github.com/orwellian225/ai-assignment/reconmg"
)

// Piece base values (midgame/endgame), indexed by dragontoothmg piece type.
var pieceValueMG = [7]int32{
	dragontoothmg.Pawn: 88, dragontoothmg.Knight: 316, dragontoothmg.Bishop: 331,
	dragontoothmg.Rook: 494, dragontoothmg.Queen: 993, dragontoothmg.King: 0,
}
var pieceValueEG = [7]int32{
	dragontoothmg.Pawn: 111, dragontoothmg.Knight: 305, dragontoothmg.Bishop: 333,
	dragontoothmg.Rook: 535, dragontoothmg.Queen: 963, dragontoothmg.King: 0,
}

// Game phase weights for interpolation
const (
	KnightPhase = 1
	BishopPhase = 1
	RookPhase   = 2
	QueenPhase  = 4
	TotalPhase  = KnightPhase*4 + BishopPhase*4 + RookPhase*4 + QueenPhase*2
)

// Piece-square tables from White's point of view, a1 = 0. Black reads them through flip.
var psqtMG, psqtEG [7][64]int32

func init() {
	for sq := 0; sq < 64; sq++ {
		file, rank := sq&7, sq>>3
		centre := int32(min(file, 7-file) + min(rank, 7-rank)) // 0 on the rim, 6 in the middle
		fileCentre := int32(min(file, 7-file))

		if rank > 0 && rank < 7 {
			psqtMG[dragontoothmg.Pawn][sq] = int32(rank-1)*6 + fileCentre*4
			psqtEG[dragontoothmg.Pawn][sq] = int32(rank-1) * 14
		}
		psqtMG[dragontoothmg.Knight][sq] = centre*8 - 20
		psqtEG[dragontoothmg.Knight][sq] = centre*6 - 15
		psqtMG[dragontoothmg.Bishop][sq] = centre * 4
		psqtEG[dragontoothmg.Bishop][sq] = centre * 3
		if rank == 6 {
			psqtMG[dragontoothmg.Rook][sq] = 15
			psqtEG[dragontoothmg.Rook][sq] = 10
		}
		psqtMG[dragontoothmg.Queen][sq] = centre * 2
		psqtEG[dragontoothmg.Queen][sq] = centre * 4
		psqtMG[dragontoothmg.King][sq] = -centre*12 - int32(rank)*10
		psqtEG[dragontoothmg.King][sq] = centre * 8
	}
}

func flip(sq int) int { return sq ^ 56 }

func sideBoards(bb *dragontoothmg.Bitboards) [7]uint64 {
	return [7]uint64{
		dragontoothmg.Pawn:   bb.Pawns,
		dragontoothmg.Knight: bb.Knights,
		dragontoothmg.Bishop: bb.Bishops,
		dragontoothmg.Rook:   bb.Rooks,
		dragontoothmg.Queen:  bb.Queens,
		dragontoothmg.King:   bb.Kings,
	}
}

// evaluate returns a tapered material and placement score from the side to move's view.
func evaluate(b *dragontoothmg.Board) int32 {
	var mg, eg int32
	phase := 0
	white, black := sideBoards(&b.White), sideBoards(&b.Black)
	for pt := dragontoothmg.Pawn; pt <= dragontoothmg.King; pt++ {
		for x := white[pt]; x != 0; x &= x - 1 {
			sq := bits.TrailingZeros64(x)
			mg += pieceValueMG[pt] + psqtMG[pt][sq]
			eg += pieceValueEG[pt] + psqtEG[pt][sq]
		}
		for x := black[pt]; x != 0; x &= x - 1 {
			sq := flip(bits.TrailingZeros64(x))
			mg -= pieceValueMG[pt] + psqtMG[pt][sq]
			eg -= pieceValueEG[pt] + psqtEG[pt][sq]
		}
	}
	phase += bits.OnesCount64(b.White.Knights|b.Black.Knights) * KnightPhase
	phase += bits.OnesCount64(b.White.Bishops|b.Black.Bishops) * BishopPhase
	phase += bits.OnesCount64(b.White.Rooks|b.Black.Rooks) * RookPhase
	phase += bits.OnesCount64(b.White.Queens|b.Black.Queens) * QueenPhase
	if phase > TotalPhase {
		phase = TotalPhase
	}
	score := (mg*int32(phase) + eg*int32(TotalPhase-phase)) / TotalPhase
	if !b.Wtomove {
		score = -score
	}
	return score
}

// StaticEval scores board from the side to move's view without searching. A board the
// move generator cannot load scores as lost.
func StaticEval(board reconmg.Board) (score int32) {
	defer func() {
		if recover() != nil {
			score = -Checkmate
		}
	}()
	b := dragontoothmg.ParseFen(board.ToFEN())
	return evaluate(&b)
}

// pieceTypeAt returns the piece type on a square of one side, or 0 when empty.
func pieceTypeAt(bb *dragontoothmg.Bitboards, sq uint8) dragontoothmg.Piece {
	mask := uint64(1) << sq
	switch {
	case bb.Pawns&mask != 0:
		return dragontoothmg.Pawn
	case bb.Knights&mask != 0:
		return dragontoothmg.Knight
	case bb.Bishops&mask != 0:
		return dragontoothmg.Bishop
	case bb.Rooks&mask != 0:
		return dragontoothmg.Rook
	case bb.Queens&mask != 0:
		return dragontoothmg.Queen
	case bb.Kings&mask != 0:
		return dragontoothmg.King
	}
	return 0
}
