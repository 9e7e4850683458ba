package reconmg

import "math/bits"

// Precomputed attack masks for knights and kings from each square.
var knightMoves [64]uint64
var kingMoves [64]uint64

// Pawn attack masks: pawnAttacks[color][sq] gives bitboard of squares that a pawn of 'color' attacks from 'sq'.
var pawnAttacks [2][64]uint64

// Precomputed rays for sliders. For each square and direction, the bitboard of
// squares in that ray (excluding the origin square).
// Rook directions: 0=N, 1=S, 2=E, 3=W
var rookRays [64][4]uint64

// Bishop directions: 0=NE, 1=NW, 2=SE, 3=SW
var bishopRays [64][4]uint64

var (
	rookSteps   = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopSteps = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

func init() {
	initAttackTables()
	initRays()
}

// jumpMask collects every on-board square one offset away from (file, rank).
func jumpMask(file, rank int, offsets [][2]int) uint64 {
	var mask uint64
	for _, off := range offsets {
		rf := rank + off[0]
		ff := file + off[1]
		if rf >= 0 && rf < 8 && ff >= 0 && ff < 8 {
			mask |= bb(NewSquare(ff, rf))
		}
	}
	return mask
}

// initAttackTables precomputes move attack bitboards for knights, kings, and pawn captures.
func initAttackTables() {
	knightOffsets := [][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets := [][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for sq := 0; sq < 64; sq++ {
		file := sq % 8
		rank := sq / 8
		knightMoves[sq] = jumpMask(file, rank, knightOffsets)
		kingMoves[sq] = jumpMask(file, rank, kingOffsets)
		pawnAttacks[White][sq] = jumpMask(file, rank, [][2]int{{1, -1}, {1, 1}})
		pawnAttacks[Black][sq] = jumpMask(file, rank, [][2]int{{-1, -1}, {-1, 1}})
	}
}

// initRays precomputes directional rays for rook and bishop moves.
func initRays() {
	walk := func(file, rank int, step [2]int) uint64 {
		var ray uint64
		for r, f := rank+step[0], file+step[1]; r >= 0 && r < 8 && f >= 0 && f < 8; r, f = r+step[0], f+step[1] {
			ray |= bb(NewSquare(f, r))
		}
		return ray
	}
	for sq := 0; sq < 64; sq++ {
		file := sq % 8
		rank := sq / 8
		for d := 0; d < 4; d++ {
			rookRays[sq][d] = walk(file, rank, rookSteps[d])
			bishopRays[sq][d] = walk(file, rank, bishopSteps[d])
		}
	}
}

// firstBlocker returns the nearest occupied square along a ray. Directions that walk
// towards higher indices take the lowest set bit, the others the highest.
func firstBlocker(blockers uint64, increasing bool) int {
	if increasing {
		return bits.TrailingZeros64(blockers)
	}
	return 63 - bits.LeadingZeros64(blockers)
}

// slide truncates every ray at its first blocker (blocker included).
func slide(rays *[64][4]uint64, increasing [4]bool, sq int, occ uint64) uint64 {
	var attacks uint64
	for d := 0; d < 4; d++ {
		ray := rays[sq][d]
		if blockers := ray & occ; blockers != 0 {
			ray &^= rays[firstBlocker(blockers, increasing[d])][d]
		}
		attacks |= ray
	}
	return attacks
}

// rookAttacks returns rook attack bitboard from sq given current occupancy.
func rookAttacks(sq int, occ uint64) uint64 {
	return slide(&rookRays, [4]bool{true, false, true, false}, sq, occ)
}

// bishopAttacks returns bishop attack bitboard from sq given current occupancy.
func bishopAttacks(sq int, occ uint64) uint64 {
	return slide(&bishopRays, [4]bool{true, true, false, false}, sq, occ)
}

// ==========================
// Attack queries
// ==========================

// IsSquareAttacked reports whether the given square is attacked by the given color.
func (b Board) IsSquareAttacked(sq Square, by Color) bool {
	s := int(sq)
	byIdx := int(by)
	occ := b.AllOccupancy()

	// Pawn attacks via reverse mask
	if pawnAttacks[by.Other()][s]&b.pawns[byIdx] != 0 {
		return true
	}
	if knightMoves[s]&b.knights[byIdx] != 0 {
		return true
	}
	if kingMoves[s]&b.kings[byIdx] != 0 {
		return true
	}
	if rookAttacks(s, occ)&(b.rooks[byIdx]|b.queens[byIdx]) != 0 {
		return true
	}
	return bishopAttacks(s, occ)&(b.bishops[byIdx]|b.queens[byIdx]) != 0
}

// InCheck reports whether the specified color's king is currently attacked.
func (b Board) InCheck(color Color) bool {
	ks := b.KingSquare(color)
	if ks == NoSquare {
		return false
	}
	return b.IsSquareAttacked(ks, color.Other())
}
