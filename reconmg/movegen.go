package reconmg

var promotionTypes = [4]PieceType{PieceTypeQueen, PieceTypeRook, PieceTypeBishop, PieceTypeKnight}

// castleSpec describes one castling option: king and rook squares plus the squares
// strictly between them.
type castleSpec struct {
	right    CastlingRights
	kingFrom Square
	kingTo   Square
	rookFrom Square
	rookTo   Square
	between  uint64
}

var castles = [2][2]castleSpec{
	White: {
		{CastlingWhiteK, 4, 6, 7, 5, bb(5) | bb(6)},
		{CastlingWhiteQ, 4, 2, 0, 3, bb(1) | bb(2) | bb(3)},
	},
	Black: {
		{CastlingBlackK, 60, 62, 63, 61, bb(61) | bb(62)},
		{CastlingBlackQ, 60, 58, 56, 59, bb(57) | bb(58) | bb(59)},
	},
}

// GenerateActions returns every action the side to move may attempt on the board:
// the null action, pseudo-legal moves without king safety, castling when the rights
// hold and the squares between king and rook are empty, and pawn diagonals onto any
// square not holding one of the mover's pieces. Each action appears once.
func (b Board) GenerateActions() []Move {
	return b.GenerateActionsInto(make([]Move, 0, 128))
}

// GenerateActionsInto appends the actions of GenerateActions into dst and returns it.
func (b Board) GenerateActionsInto(dst []Move) []Move {
	moves := append(dst[:0], NullMove)
	side := b.sideToMove
	us := int(side)
	them := 1 - us

	ownOcc := b.occupancy[us]
	oppOcc := b.occupancy[them]
	allOcc := ownOcc | oppOcc

	appendPawn := func(from, to Square, moved, captured Piece, flag uint8) {
		if to.Rank() == 0 || to.Rank() == 7 {
			for _, pt := range promotionTypes {
				moves = append(moves, NewMove(from, to, moved, captured, pt, flag))
			}
			return
		}
		moves = append(moves, NewMove(from, to, moved, captured, PieceTypeNone, flag))
	}

	forward, startRank := 8, 1
	if side == Black {
		forward, startRank = -8, 6
	}

	// Pawns
	pawns := b.pawns[us]
	for pawns != 0 {
		from := Square(popLSB(&pawns))
		moved := b.pieces[from]

		one := from + Square(forward)
		if one >= 0 && one < 64 && allOcc&bb(one) == 0 {
			appendPawn(from, one, moved, NoPiece, FlagNone)
			two := one + Square(forward)
			if from.Rank() == startRank && allOcc&bb(two) == 0 {
				moves = append(moves, NewMove(from, two, moved, NoPiece, PieceTypeNone, FlagNone))
			}
		}

		// Diagonals are attempted whether or not an enemy piece stands there.
		targets := pawnAttacks[side][from] &^ ownOcc
		for targets != 0 {
			to := Square(popLSB(&targets))
			switch {
			case oppOcc&bb(to) != 0:
				appendPawn(from, to, moved, b.pieces[to], FlagNone)
			case to == b.enPassantSquare:
				appendPawn(from, to, moved, PieceFromType(side.Other(), PieceTypePawn), FlagEnPassant)
			default:
				appendPawn(from, to, moved, NoPiece, FlagNone)
			}
		}
	}

	// Knights, bishops, rooks, queens and king share the same target loop.
	pieceTargets := func(set uint64, attacks func(from int) uint64) {
		for set != 0 {
			from := popLSB(&set)
			moved := b.pieces[from]
			targets := attacks(from) &^ ownOcc
			for targets != 0 {
				to := popLSB(&targets)
				moves = append(moves, NewMove(Square(from), Square(to), moved, b.pieces[to], PieceTypeNone, FlagNone))
			}
		}
	}
	pieceTargets(b.knights[us], func(from int) uint64 { return knightMoves[from] })
	pieceTargets(b.bishops[us], func(from int) uint64 { return bishopAttacks(from, allOcc) })
	pieceTargets(b.rooks[us], func(from int) uint64 { return rookAttacks(from, allOcc) })
	pieceTargets(b.queens[us], func(from int) uint64 {
		return rookAttacks(from, allOcc) | bishopAttacks(from, allOcc)
	})
	pieceTargets(b.kings[us], func(from int) uint64 { return kingMoves[from] })

	// Castling through or out of check is allowed; only the path must be clear.
	for _, c := range castles[us] {
		if b.castleOpen(side, c) {
			moves = append(moves, NewMove(c.kingFrom, c.kingTo, b.pieces[c.kingFrom], NoPiece, PieceTypeNone, FlagCastle))
		}
	}

	return moves
}

func (b Board) castleOpen(side Color, c castleSpec) bool {
	return b.castlingRights&c.right != 0 &&
		b.pieces[c.kingFrom] == PieceFromType(side, PieceTypeKing) &&
		b.pieces[c.rookFrom] == PieceFromType(side, PieceTypeRook) &&
		b.AllOccupancy()&c.between == 0
}

// Lookup returns the enumerated action sharing m's identity, if any.
func (b Board) Lookup(m Move) (Move, bool) {
	id := m.Ident()
	for _, cand := range b.GenerateActions() {
		if cand.Ident() == id {
			return cand, true
		}
	}
	return 0, false
}

// IsAccepted reports whether the referee would execute m unchanged on this board.
// Pawn diagonals onto empty squares are enumerated as attempts but the referee turns
// them into a pass, so they are not accepted.
func (b Board) IsAccepted(m Move) bool {
	cand, ok := b.Lookup(m)
	if !ok {
		return false
	}
	if cand.IsNull() {
		return true
	}
	return !b.isEmptyDiagonal(cand)
}

// isEmptyDiagonal reports whether an enumerated move is a pawn diagonal onto a vacant square
// without an en passant victim.
func (b Board) isEmptyDiagonal(m Move) bool {
	if m.MovedPiece().Type() != PieceTypePawn || m.From().File() == m.To().File() {
		return false
	}
	return m.Flags() != FlagEnPassant && b.pieces[m.To()] == NoPiece
}

// CaptureSquare returns the square on which m removes an enemy piece, or NoSquare.
func (m Move) CaptureSquare() Square {
	switch {
	case m.Flags() == FlagEnPassant:
		return NewSquare(m.To().File(), m.From().Rank())
	case m.CapturedPiece() != NoPiece:
		return m.To()
	default:
		return NoSquare
	}
}
