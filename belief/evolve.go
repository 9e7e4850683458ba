package belief

import (
	"golang.org/x/exp/maps"

	"github.com/orwellian225/ai-assignment/reconmg"
)

// EvolveAll advances every hypothesis by one ply of the side turn. Each entry is
// replaced by the outcomes of all its actions. When captureSquare is known, only
// outcomes of actions that land on it, or take en passant on it, survive. The
// enPassant target (NoSquare if none) is the square the other side's last double pawn
// push passed over.
//
// The count is the number of entries that produced no surviving outcome, unparsable
// entries included.
func (s Set) EvolveAll(turn reconmg.Color, captureSquare *reconmg.Square, enPassant reconmg.Square) (Set, int) {
	next, vanished := mapShards(maps.Keys(s.keys), func(part []string, out map[string]struct{}) int {
		buf := make([]reconmg.Move, 0, 128)
		n := 0
		for _, k := range part {
			b, err := reconmg.ParseKey(k)
			if err != nil {
				n++
				continue
			}
			b = b.WithTurn(turn).WithEnPassant(enPassant)
			survived := false
			buf = b.GenerateActionsInto(buf)
			for _, m := range buf {
				if captureSquare != nil && !landsOn(m, *captureSquare) {
					continue
				}
				out[b.Play(m).Key()] = struct{}{}
				survived = true
			}
			if !survived {
				n++
			}
		}
		return n
	})
	return Set{keys: next}, vanished
}

func landsOn(m reconmg.Move, sq reconmg.Square) bool {
	if m.IsNull() {
		return false
	}
	return m.To() == sq || m.CaptureSquare() == sq
}

// ApplyKnownMove plays the player's confirmed move in every hypothesis and drops the
// entries where it is not an available action. A capture reported away from the
// destination of a diagonal pawn move marks an en passant capture, so the passed pawn
// is removed and entries with anything on the destination are dropped.
func (s Set) ApplyKnownMove(move reconmg.Move, turn reconmg.Color, captureSquare *reconmg.Square) (Set, int) {
	enPassant := reconmg.NoSquare
	if captureSquare != nil && !move.IsNull() &&
		*captureSquare != move.To() && move.From().File() != move.To().File() {
		enPassant = move.To()
	}
	next, dropped := mapShards(maps.Keys(s.keys), func(part []string, out map[string]struct{}) int {
		n := 0
		for _, k := range part {
			b, err := reconmg.ParseKey(k)
			if err != nil {
				n++
				continue
			}
			b = b.WithTurn(turn)
			if enPassant != reconmg.NoSquare {
				if b.PieceAt(enPassant) != reconmg.NoPiece {
					n++
					continue
				}
				if b.PieceAt(move.From()).Type() == reconmg.PieceTypePawn {
					b = b.WithEnPassant(enPassant)
				}
			}
			after, err := b.Apply(move)
			if err != nil {
				n++
				continue
			}
			out[after.Key()] = struct{}{}
		}
		return n
	})
	return Set{keys: next}, dropped
}
