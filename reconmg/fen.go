package reconmg

import (
	"errors"
	"fmt"
	"strings"
)

// StartKey is the placement key of the standard initial position.
const StartKey = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

// FENStartPos is the FEN string for the standard initial chess position.
const FENStartPos = StartKey + " w KQkq - 0 1"

// ErrInvalidKey is returned when a placement key or FEN cannot be parsed.
var ErrInvalidKey = errors.New("invalid placement key")

// pieceFromChar converts a FEN character to the corresponding Piece constant.
func pieceFromChar(ch rune) Piece {
	switch ch {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

// ParsePiece converts a FEN piece letter ("P", "k", ...) into a Piece.
func ParsePiece(ch byte) (Piece, error) {
	p := pieceFromChar(rune(ch))
	if p == NoPiece {
		return NoPiece, fmt.Errorf("unrecognized piece %q", ch)
	}
	return p, nil
}

// charFromPiece converts a Piece constant to its FEN character representation.
func charFromPiece(p Piece) rune {
	const letters = ".PNBRQK"
	t := typeOf(p)
	if t == 0 || t > 6 {
		return '?'
	}
	ch := rune(letters[t])
	if colorOf(p) == Black {
		ch += 'a' - 'A'
	}
	return ch
}

// ParseKey parses the piece-placement field of a FEN into a Board with White to move.
// Castling rights are derived from the placement; there is no en passant target.
func ParseKey(key string) (Board, error) {
	board := EmptyBoard()
	ranks := strings.Split(key, "/")
	if len(ranks) != 8 {
		return Board{}, fmt.Errorf("%w %q: expected 8 ranks, got %d", ErrInvalidKey, key, len(ranks))
	}
	for i, rankStr := range ranks {
		if len(rankStr) == 0 {
			return Board{}, fmt.Errorf("%w %q: empty rank", ErrInvalidKey, key)
		}
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				if file > 8 {
					return Board{}, fmt.Errorf("%w %q: rank %d overflows", ErrInvalidKey, key, rank+1)
				}
				continue
			}
			piece := pieceFromChar(ch)
			if piece == NoPiece {
				return Board{}, fmt.Errorf("%w %q: unrecognized piece %q", ErrInvalidKey, key, ch)
			}
			if file >= 8 {
				return Board{}, fmt.Errorf("%w %q: rank %d overflows", ErrInvalidKey, key, rank+1)
			}
			board.addPiece(NewSquare(file, rank), piece)
			file++
		}
		if file != 8 {
			return Board{}, fmt.Errorf("%w %q: rank %d does not have 8 columns", ErrInvalidKey, key, rank+1)
		}
	}
	board.castlingRights = board.placementCastlingRights()
	return board, nil
}

// Key returns the canonical placement key of the board. Two boards share a key exactly when
// they place the same pieces on the same squares.
func (b Board) Key() string {
	var sb strings.Builder
	sb.Grow(71)
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.pieces[rank*8+file]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteRune(charFromPiece(p))
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// ParseFEN parses a full FEN string. Clocks are accepted and ignored.
func ParseFEN(fen string) (Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return Board{}, fmt.Errorf("%w %q: not enough fields", ErrInvalidKey, fen)
	}
	board, err := ParseKey(fields[0])
	if err != nil {
		return Board{}, err
	}

	switch fields[1] {
	case "w":
		board.sideToMove = White
	case "b":
		board.sideToMove = Black
	default:
		return Board{}, fmt.Errorf("%w %q: side to move must be 'w' or 'b'", ErrInvalidKey, fen)
	}

	board.castlingRights = 0
	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				board.castlingRights |= CastlingWhiteK
			case 'Q':
				board.castlingRights |= CastlingWhiteQ
			case 'k':
				board.castlingRights |= CastlingBlackK
			case 'q':
				board.castlingRights |= CastlingBlackQ
			default:
				return Board{}, fmt.Errorf("%w %q: invalid castling rights character", ErrInvalidKey, fen)
			}
		}
	}

	board.enPassantSquare = NoSquare
	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return Board{}, fmt.Errorf("%w %q: %v", ErrInvalidKey, fen, err)
		}
		board.enPassantSquare = sq
	}
	return board, nil
}

// ToFEN produces a full FEN string. Clocks are always "0 1".
func (b Board) ToFEN() string {
	var sb strings.Builder
	sb.WriteString(b.Key())
	if b.sideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	if b.castlingRights == 0 {
		sb.WriteByte('-')
	} else {
		if b.castlingRights&CastlingWhiteK != 0 {
			sb.WriteByte('K')
		}
		if b.castlingRights&CastlingWhiteQ != 0 {
			sb.WriteByte('Q')
		}
		if b.castlingRights&CastlingBlackK != 0 {
			sb.WriteByte('k')
		}
		if b.castlingRights&CastlingBlackQ != 0 {
			sb.WriteByte('q')
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(b.enPassantSquare.String())
	sb.WriteString(" 0 1")
	return sb.String()
}
