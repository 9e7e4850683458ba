package reconmg

import "math/bits"

// Piece constants and types for pieces and colors
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	// Black pieces are encoded as (white piece type | 8) so that
	// - piece & 7 gives the type in [1..6]
	// - piece & 8 != 0 indicates Black
	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// PieceType is a colorless representation of a chess piece.
type PieceType uint8

const (
	PieceTypeNone   PieceType = 0
	PieceTypePawn   PieceType = 1
	PieceTypeKnight PieceType = 2
	PieceTypeBishop PieceType = 3
	PieceTypeRook   PieceType = 4
	PieceTypeQueen  PieceType = 5
	PieceTypeKing   PieceType = 6
)

// Type returns the colorless type of the piece (ignores side).
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side that owns the piece. NoPiece defaults to White.
func (p Piece) Color() Color { return colorOf(p) }

// String returns the FEN letter of the piece, or "." for an empty square.
func (p Piece) String() string {
	if p == NoPiece {
		return "."
	}
	return string(charFromPiece(p))
}

// PieceFromType combines a colorless type with a side to produce a concrete Piece.
func PieceFromType(color Color, pt PieceType) Piece {
	if pt == PieceTypeNone || pt > PieceTypeKing {
		return NoPiece
	}
	if color == Black {
		return Piece(pt) | 8
	}
	return Piece(pt)
}

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return 1 - c }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Castling rights bit flags
type CastlingRights uint8

const (
	CastlingWhiteK CastlingRights = 1 << iota
	CastlingWhiteQ
	CastlingBlackK
	CastlingBlackQ
)

// Square represents a board position (0-63), a1 = 0, h8 = 63.
type Square int

const NoSquare Square = -1

// NewSquare builds a square from zero-based file and rank.
func NewSquare(file, rank int) Square { return Square(rank*8 + file) }

func (s Square) File() int { return int(s) % 8 }
func (s Square) Rank() int { return int(s) / 8 }

// String renders the square in algebraic form ("e4"), or "-" for NoSquare.
func (s Square) String() string {
	if s < 0 || s > 63 {
		return "-"
	}
	return string([]byte{'a' + byte(s.File()), '1' + byte(s.Rank())})
}

// ParseSquare converts an algebraic square name into a Square.
func ParseSquare(name string) (Square, error) {
	idx, err := algebraicToIndex(name)
	if err != nil {
		return NoSquare, err
	}
	return Square(idx), nil
}

// Board holds a piece placement plus the per-operation context the placement key leaves out:
// side to move, castling rights and the en passant target. Boards are values; every
// transformation returns a new Board.
type Board struct {
	// Piece bitboards for each piece type and color (index 0 = white, 1 = black)
	pawns   [2]uint64
	knights [2]uint64
	bishops [2]uint64
	rooks   [2]uint64
	queens  [2]uint64
	kings   [2]uint64

	occupancy [2]uint64

	// Piece placement array for each square
	pieces [64]Piece

	sideToMove      Color
	castlingRights  CastlingRights
	enPassantSquare Square
}

// EmptyBoard returns a board with no pieces, White to move.
func EmptyBoard() Board {
	return Board{enPassantSquare: NoSquare}
}

// SideToMove reports which side is to play.
func (b Board) SideToMove() Color { return b.sideToMove }

// CastlingRights returns the current castling rights mask.
func (b Board) CastlingRights() CastlingRights { return b.castlingRights }

// EnPassantSquare returns the current en-passant target square or NoSquare.
func (b Board) EnPassantSquare() Square { return b.enPassantSquare }

// WithTurn returns a copy of the board with the given side to move. Castling rights are
// re-derived from the placement and the en passant target is cleared.
func (b Board) WithTurn(c Color) Board {
	b.sideToMove = c
	b.castlingRights = b.placementCastlingRights()
	b.enPassantSquare = NoSquare
	return b
}

// WithEnPassant returns a copy of the board with the given en passant target.
func (b Board) WithEnPassant(sq Square) Board {
	b.enPassantSquare = sq
	return b
}

// placementCastlingRights grants every right whose king and rook still stand on their home squares.
// Move history is not tracked by the placement key, so this is the most permissive reading.
func (b *Board) placementCastlingRights() CastlingRights {
	var cr CastlingRights
	if b.pieces[4] == WhiteKing {
		if b.pieces[7] == WhiteRook {
			cr |= CastlingWhiteK
		}
		if b.pieces[0] == WhiteRook {
			cr |= CastlingWhiteQ
		}
	}
	if b.pieces[60] == BlackKing {
		if b.pieces[63] == BlackRook {
			cr |= CastlingBlackK
		}
		if b.pieces[56] == BlackRook {
			cr |= CastlingBlackQ
		}
	}
	return cr
}

// ==========================
// Bitboard helpers
// ==========================

// bb returns a bitboard with the given square bit set.
func bb(sq Square) uint64 { return 1 << uint64(sq) }

// popLSB removes and returns the least significant set bit from the mask.
func popLSB(mask *uint64) int {
	idx := bits.TrailingZeros64(*mask)
	*mask &= *mask - 1
	return idx
}

// AllOccupancy returns a bitboard of all occupied squares.
func (b Board) AllOccupancy() uint64 { return b.occupancy[0] | b.occupancy[1] }

// ColorOccupancy returns the occupancy bitboard for the given color.
func (b Board) ColorOccupancy(c Color) uint64 { return b.occupancy[int(c)] }

// PieceAt returns the piece on a square.
func (b Board) PieceAt(sq Square) Piece { return b.pieces[int(sq)] }

// KingSquare returns the square of the given side's king, or NoSquare when it has none.
func (b Board) KingSquare(c Color) Square {
	k := b.kings[int(c)]
	if k == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(k))
}

// PieceCount returns how many pieces the given side has on the board.
func (b Board) PieceCount(c Color) int { return bits.OnesCount64(b.occupancy[int(c)]) }

// colorOf returns the color of a piece. NoPiece is treated as White.
func colorOf(p Piece) Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

// typeOf returns the piece type in [1..6] with color stripped.
func typeOf(p Piece) Piece { return p & 7 }

// typeBoard returns the bitboard slot for a piece type of one colour.
func (b *Board) typeBoard(p Piece) *uint64 {
	ci := int(colorOf(p))
	switch typeOf(p) {
	case 1:
		return &b.pawns[ci]
	case 2:
		return &b.knights[ci]
	case 3:
		return &b.bishops[ci]
	case 4:
		return &b.rooks[ci]
	case 5:
		return &b.queens[ci]
	default:
		return &b.kings[ci]
	}
}

// addPiece places a piece on an empty square and updates bitboards and occupancy.
func (b *Board) addPiece(sq Square, p Piece) {
	if p == NoPiece {
		return
	}
	b.pieces[int(sq)] = p
	b.occupancy[int(colorOf(p))] |= bb(sq)
	*b.typeBoard(p) |= bb(sq)
}

// removePiece removes a piece from a square and updates bitboards and occupancy.
func (b *Board) removePiece(sq Square) Piece {
	p := b.pieces[int(sq)]
	if p == NoPiece {
		return NoPiece
	}
	mask := ^bb(sq)
	b.pieces[int(sq)] = NoPiece
	b.occupancy[int(colorOf(p))] &= mask
	*b.typeBoard(p) &= mask
	return p
}

// SetPiece returns a copy of the board with p on sq, replacing anything already there.
func (b Board) SetPiece(sq Square, p Piece) Board {
	b.removePiece(sq)
	b.addPiece(sq, p)
	return b
}

// ClearSquare returns a copy of the board with sq emptied.
func (b Board) ClearSquare(sq Square) Board {
	b.removePiece(sq)
	return b
}

// Only returns a copy of the board keeping just the given side's pieces. This is the
// placement a player knows exactly about itself.
func (b Board) Only(c Color) Board {
	out := EmptyBoard()
	out.sideToMove = b.sideToMove
	occ := b.occupancy[int(c)]
	for occ != 0 {
		sq := Square(popLSB(&occ))
		out.addPiece(sq, b.pieces[int(sq)])
	}
	out.castlingRights = out.placementCastlingRights()
	return out
}

// SamePieces reports whether both boards place exactly the same pieces of side c.
func (b Board) SamePieces(c Color, other Board) bool {
	ci := int(c)
	return b.pawns[ci] == other.pawns[ci] &&
		b.knights[ci] == other.knights[ci] &&
		b.bishops[ci] == other.bishops[ci] &&
		b.rooks[ci] == other.rooks[ci] &&
		b.queens[ci] == other.queens[ci] &&
		b.kings[ci] == other.kings[ci]
}

// Validate checks internal consistency between pieces[], per-piece bitboards, and occupancy.
func (b Board) Validate() bool {
	var want Board
	for sq := 0; sq < 64; sq++ {
		want.addPiece(Square(sq), b.pieces[sq])
	}
	return want.occupancy == b.occupancy &&
		want.pawns == b.pawns && want.knights == b.knights && want.bishops == b.bishops &&
		want.rooks == b.rooks && want.queens == b.queens && want.kings == b.kings
}
