package reconmg

import (
	"errors"
	"fmt"
	"strings"
)

// Move encodes a chess action in a 32-bit value. The null action is the zero Move.
type Move uint32

// Bitfield layout within Move (from LSB to MSB)
const (
	moveFromShift    = 0  // 6 bits
	moveToShift      = 6  // 6 bits
	movePieceShift   = 12 // 4 bits
	moveCaptureShift = 16 // 4 bits
	movePromoteShift = 20 // 3 bits, colorless
	moveFlagShift    = 24 // 2 bits

	identMask = 0xFFF | 0x7<<movePromoteShift
)

// Move flags
const (
	FlagNone      = 0
	FlagCastle    = 1
	FlagEnPassant = 2
)

// NullMove passes the turn without moving a piece.
const NullMove Move = 0

// ErrInvalidMove is returned by ParseMove for malformed UCI strings.
var ErrInvalidMove = errors.New("invalid move")

// NewMove constructs a Move value from components.
func NewMove(from, to Square, piece, captured Piece, promotion PieceType, flag uint8) Move {
	m := uint32(from&0x3F) |
		(uint32(to&0x3F) << moveToShift) |
		(uint32(piece&0xF) << movePieceShift) |
		(uint32(captured&0xF) << moveCaptureShift) |
		(uint32(promotion&0x7) << movePromoteShift) |
		(uint32(flag&0x3) << moveFlagShift)
	return Move(m)
}

// From returns the source square of the move.
func (m Move) From() Square { return Square((uint32(m) >> moveFromShift) & 0x3F) }

// To returns the destination square of the move.
func (m Move) To() Square { return Square((uint32(m) >> moveToShift) & 0x3F) }

// MovedPiece returns the piece code that is moved, when the move came from the enumerator.
func (m Move) MovedPiece() Piece { return Piece((uint32(m) >> movePieceShift) & 0xF) }

// CapturedPiece returns the piece code that was captured (or NoPiece if none).
func (m Move) CapturedPiece() Piece { return Piece((uint32(m) >> moveCaptureShift) & 0xF) }

// Promotion returns the promotion piece type (or PieceTypeNone).
func (m Move) Promotion() PieceType { return PieceType((uint32(m) >> movePromoteShift) & 0x7) }

// Flags returns the special move flags.
func (m Move) Flags() uint8 { return uint8((uint32(m) >> moveFlagShift) & 0x3) }

// IsNull reports whether the move is the null action.
func (m Move) IsNull() bool { return m.From() == m.To() }

// Ident strips everything but (from, to, promotion). Two moves are the same action exactly
// when their idents are equal.
func (m Move) Ident() Move {
	if m.IsNull() {
		return NullMove
	}
	return m & identMask
}

// String produces the UCI representation of the move (e.g. "e2e4", "e7e8q", "0000").
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	str := m.From().String() + m.To().String()
	if promo := m.Promotion(); promo != PieceTypeNone {
		str += strings.ToLower(string(charFromPiece(Piece(promo))))
	}
	return str
}

// ParseMove converts a UCI string (e2e4, e7e8q, 0000) into a Move carrying only its identity.
func ParseMove(movestr string) (Move, error) {
	movestr = strings.TrimSpace(strings.ToLower(movestr))
	if movestr == "0000" {
		return NullMove, nil
	}
	if len(movestr) < 4 || len(movestr) > 5 {
		return 0, fmt.Errorf("%w %q: bad length", ErrInvalidMove, movestr)
	}
	from, err := algebraicToIndex(movestr[0:2])
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidMove, movestr, err)
	}
	to, err := algebraicToIndex(movestr[2:4])
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidMove, movestr, err)
	}
	var promo PieceType
	if len(movestr) == 5 {
		switch movestr[4] {
		case 'q':
			promo = PieceTypeQueen
		case 'r':
			promo = PieceTypeRook
		case 'b':
			promo = PieceTypeBishop
		case 'n':
			promo = PieceTypeKnight
		default:
			return 0, fmt.Errorf("%w %q: invalid promotion piece", ErrInvalidMove, movestr)
		}
	}
	return NewMove(Square(from), Square(to), NoPiece, NoPiece, promo, 0), nil
}

// MustParseMove is ParseMove for literals; it panics on malformed input.
func MustParseMove(movestr string) Move {
	m, err := ParseMove(movestr)
	if err != nil {
		panic(err)
	}
	return m
}

func algebraicToIndex(alg string) (int, error) {
	if len(alg) != 2 {
		return 0, errors.New("invalid algebraic square length")
	}
	file := alg[0]
	rank := alg[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return 0, errors.New("invalid algebraic square")
	}
	return int(file-'a') + int(rank-'1')*8, nil
}
