package belief

import (
	"sort"

	"github.com/orwellian225/ai-assignment/reconmg"
	"github.com/orwellian225/ai-assignment/rng"
)

// Mine is the player's exact knowledge of its own pieces.
type Mine struct {
	Side  reconmg.Color
	Board reconmg.Board
}

// Observation is one square revealed by a sense. Piece is NoPiece for an empty square.
type Observation struct {
	Square reconmg.Square
	Piece  reconmg.Piece
}

// FilterByCaptureFeedback applies the opponent-move capture report. When one of my
// pieces was captured on square, entries without a piece of mine there are dropped;
// run this before evolving the opponent's move. Otherwise entries whose own-side
// pieces differ from mine are dropped; run this after evolving.
func (s Set) FilterByCaptureFeedback(captured bool, square reconmg.Square, mine Mine) (Set, int) {
	if !captured {
		return s.FilterByOwnPieces(mine)
	}
	return s.keepIf(mine.Side, func(b reconmg.Board) bool {
		p := b.PieceAt(square)
		return p != reconmg.NoPiece && p.Color() == mine.Side
	})
}

// FilterByOwnPieces drops entries that place my pieces anywhere other than where I know
// they are.
func (s Set) FilterByOwnPieces(mine Mine) (Set, int) {
	return s.keepIf(mine.Side, func(b reconmg.Board) bool {
		return b.SamePieces(mine.Side, mine.Board)
	})
}

// FilterByOwnCapture applies the capture report for my own taken move, before the move
// is played into the set. A capture keeps only entries with an enemy piece on the
// capture square; no capture drops entries with an enemy piece on the destination.
func (s Set) FilterByOwnCapture(taken reconmg.Move, captured bool, square reconmg.Square, side reconmg.Color) (Set, int) {
	if taken.IsNull() {
		return s, 0
	}
	enemy := side.Other()
	if captured {
		return s.keepIf(side, func(b reconmg.Board) bool {
			p := b.PieceAt(square)
			return p != reconmg.NoPiece && p.Color() == enemy
		})
	}
	return s.keepIf(side, func(b reconmg.Board) bool {
		p := b.PieceAt(taken.To())
		return p == reconmg.NoPiece || p.Color() != enemy
	})
}

// FilterBySense drops entries that disagree with any observed square.
func (s Set) FilterBySense(observations []Observation) (Set, int) {
	if len(observations) == 0 {
		return s, 0
	}
	return s.keepIf(reconmg.White, func(b reconmg.Board) bool {
		for _, o := range observations {
			if b.PieceAt(o.Square) != o.Piece {
				return false
			}
		}
		return true
	})
}

// FilterByRejectedMove drops entries on which the referee would have executed requested
// unchanged. Use it when the requested move was not taken, or was taken in a revised form.
func (s Set) FilterByRejectedMove(requested reconmg.Move, turn reconmg.Color) (Set, int) {
	if requested.IsNull() {
		return s, 0
	}
	return s.keepIf(turn, func(b reconmg.Board) bool {
		return !b.IsAccepted(requested)
	})
}

// BoundSize keeps a uniformly random subset of exactly limit entries when the set is
// larger than limit. Otherwise it returns s unchanged and 0.
func (s Set) BoundSize(limit int, src rng.Source) (Set, int) {
	if limit < 0 {
		limit = 0
	}
	n := s.Len()
	if n <= limit {
		return s, 0
	}
	keys := s.SortedKeys()
	kept := make(map[string]struct{}, limit)
	for _, i := range rng.Sample(src, n, limit) {
		kept[keys[i]] = struct{}{}
	}
	return Set{keys: kept}, n - limit
}

// KeepBest keeps the limit entries that score highest with turn to move, ties going to
// the smaller key, when the set is larger than limit. Unparsable entries are dropped
// first. Otherwise it returns s unchanged and 0.
func (s Set) KeepBest(limit int, turn reconmg.Color, score func(reconmg.Board) int32) (Set, int) {
	if limit < 0 {
		limit = 0
	}
	n := s.Len()
	if n <= limit {
		return s, 0
	}
	type ranked struct {
		key   string
		score int32
	}
	all := make([]ranked, 0, n)
	for _, k := range s.SortedKeys() {
		b, err := reconmg.ParseKey(k)
		if err != nil {
			continue
		}
		all = append(all, ranked{key: k, score: score(b.WithTurn(turn))})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })
	if len(all) > limit {
		all = all[:limit]
	}
	kept := make(map[string]struct{}, len(all))
	for _, r := range all {
		kept[r.key] = struct{}{}
	}
	return Set{keys: kept}, n - len(kept)
}
