package reconmg

import "math/bits"

const backRanks = 0xFF000000000000FF

// WellFormed reports whether the board is a position an engine can analyse: one king
// per side, no pawns on the first or last rank, at most 16 pieces per side and the
// side that just moved not left in check.
func (b Board) WellFormed() bool {
	for c := White; c <= Black; c++ {
		if bits.OnesCount64(b.kings[c]) != 1 {
			return false
		}
		if b.pawns[c]&backRanks != 0 {
			return false
		}
		if b.PieceCount(c) > 16 {
			return false
		}
	}
	return !b.InCheck(b.sideToMove.Other())
}
