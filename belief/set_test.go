package belief_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orwellian225/ai-assignment/belief"
	"github.com/orwellian225/ai-assignment/reconmg"
	"github.com/orwellian225/ai-assignment/rng"
)

func sq(t *testing.T, name string) reconmg.Square {
	t.Helper()
	s, err := reconmg.ParseSquare(name)
	require.NoError(t, err)
	return s
}

func board(t *testing.T, key string, turn reconmg.Color) reconmg.Board {
	t.Helper()
	b, err := reconmg.ParseKey(key)
	require.NoError(t, err)
	return b.WithTurn(turn)
}

func mine(t *testing.T, key string, side reconmg.Color) belief.Mine {
	return belief.Mine{Side: side, Board: board(t, key, side).Only(side)}
}

func TestFirstOpponentPlyFromStart(t *testing.T) {
	next, vanished := belief.Start().EvolveAll(reconmg.White, nil, reconmg.NoSquare)
	assert.Equal(t, 0, vanished)
	assert.Equal(t, 35, next.Len())
	assert.True(t, next.Contains(reconmg.StartKey))
	assert.True(t, next.Contains("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR"))
	assert.True(t, next.Contains("rnbqkbnr/pppppppp/8/8/8/5P2/PPPP1PPP/RNBQKBNR"), "pawn diagonal onto an empty square")

	filtered, dropped := next.FilterByOwnPieces(mine(t, reconmg.StartKey, reconmg.Black))
	assert.Equal(t, 0, dropped)
	assert.Equal(t, 35, filtered.Len())
}

func TestEvolveAll_SkipsUnparsableEntries(t *testing.T) {
	s := belief.New(reconmg.StartKey, "not/a/key")
	next, vanished := s.EvolveAll(reconmg.White, nil, reconmg.NoSquare)
	assert.Equal(t, 1, vanished)
	assert.Equal(t, 35, next.Len())
}

func TestCaptureAtE5(t *testing.T) {
	const (
		noAttacker = "rnbqkbnr/pppppppp/8/4P3/8/8/PPPP1PPP/RNBQKBNR"
		pawnOnD6   = "rnbqkbnr/ppp1pppp/3p4/4P3/8/8/PPPP1PPP/RNBQKBNR"
		knightOnC6 = "r1bqkbnr/pppppppp/2n5/4P3/8/8/PPPP1PPP/RNBQKBNR"
	)
	me := mine(t, noAttacker, reconmg.White)
	e5 := sq(t, "e5")
	s := belief.New(noAttacker, pawnOnD6, knightOnC6)

	s, dropped := s.FilterByCaptureFeedback(true, e5, me)
	require.Equal(t, 0, dropped)

	s, vanished := s.EvolveAll(reconmg.Black, &e5, reconmg.NoSquare)
	assert.Equal(t, 1, vanished)
	assert.ElementsMatch(t, []string{
		"rnbqkbnr/ppp1pppp/8/4p3/8/8/PPPP1PPP/RNBQKBNR",
		"r1bqkbnr/pppppppp/8/4n3/8/8/PPPP1PPP/RNBQKBNR",
	}, s.SortedKeys())

	me.Board = me.Board.ClearSquare(e5)
	s, dropped = s.FilterByOwnPieces(me)
	assert.Equal(t, 0, dropped)
	assert.Equal(t, 2, s.Len())
}

func TestCaptureFeedback_DropsEntriesWithoutMyPiece(t *testing.T) {
	me := mine(t, reconmg.StartKey, reconmg.White)
	s := belief.New(reconmg.StartKey, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBN1")
	s, dropped := s.FilterByCaptureFeedback(true, sq(t, "h1"), me)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, []string{reconmg.StartKey}, s.SortedKeys())
}

func TestOpponentEnPassantAfterMyDoublePush(t *testing.T) {
	const before = "rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR"
	e4 := sq(t, "e4")
	s, vanished := belief.New(before).EvolveAll(reconmg.Black, &e4, sq(t, "e3"))
	assert.Equal(t, 0, vanished)
	assert.Equal(t, []string{"rnbqkbnr/ppp1pppp/8/8/8/4p3/PPPP1PPP/RNBQKBNR"}, s.SortedKeys())
}

func TestApplyKnownMove(t *testing.T) {
	s := belief.New(reconmg.StartKey, "rnbqkbnr/pppppppp/4N3/8/8/8/PPPPPPPP/R1BQKBNR")
	next, dropped := s.ApplyKnownMove(reconmg.MustParseMove("e7e6"), reconmg.Black, nil)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, []string{"rnbqkbnr/pppp1ppp/4p3/8/8/8/PPPPPPPP/RNBQKBNR"}, next.SortedKeys())
}

func TestApplyKnownMove_OwnEnPassant(t *testing.T) {
	const before = "rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR"
	d5 := sq(t, "d5")
	taken := reconmg.MustParseMove("e5d6")

	s, dropped := belief.New(before).FilterByOwnCapture(taken, true, d5, reconmg.White)
	require.Equal(t, 0, dropped)
	s, dropped = s.ApplyKnownMove(taken, reconmg.White, &d5)
	assert.Equal(t, 0, dropped)
	assert.Equal(t, []string{"rnbqkbnr/ppp1pppp/3P4/8/8/8/PPPP1PPP/RNBQKBNR"}, s.SortedKeys())
}

func TestApplyKnownMove_EnPassantNeedsEmptyDestination(t *testing.T) {
	const (
		blocked = "rnbqkbnr/ppp1pppp/3n4/3pP3/8/8/PPPP1PPP/RNBQKBNR"
		open    = "rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR"
	)
	d5 := sq(t, "d5")
	s, dropped := belief.New(blocked, open).ApplyKnownMove(reconmg.MustParseMove("e5d6"), reconmg.White, &d5)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, []string{"rnbqkbnr/ppp1pppp/3P4/8/8/8/PPPP1PPP/RNBQKBNR"}, s.SortedKeys())
}

func TestFilterByOwnCapture(t *testing.T) {
	const (
		empty  = reconmg.StartKey
		victim = "rnbqkbnr/pppppppp/8/8/8/5n2/PPPPPPPP/RNBQKBNR"
	)
	taken := reconmg.MustParseMove("g1f3")
	f3 := sq(t, "f3")

	s, dropped := belief.New(empty, victim).FilterByOwnCapture(taken, true, f3, reconmg.White)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, []string{victim}, s.SortedKeys())

	s, dropped = belief.New(empty, victim).FilterByOwnCapture(taken, false, reconmg.NoSquare, reconmg.White)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, []string{empty}, s.SortedKeys())
}

func TestFilterBySense(t *testing.T) {
	s, _ := belief.Start().EvolveAll(reconmg.White, nil, reconmg.NoSquare)

	d3, dropped := s.FilterBySense([]belief.Observation{{Square: sq(t, "d3"), Piece: reconmg.NoPiece}})
	assert.Equal(t, 3, dropped, "d2d3, c2d3 and e2d3 put a pawn on d3")
	assert.Equal(t, 32, d3.Len())

	e4, dropped := s.FilterBySense([]belief.Observation{
		{Square: sq(t, "e4"), Piece: reconmg.WhitePawn},
		{Square: sq(t, "e2"), Piece: reconmg.NoPiece},
	})
	assert.Equal(t, 34, dropped)
	assert.Equal(t, []string{"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR"}, e4.SortedKeys())
}

func TestFilterByRejectedMove(t *testing.T) {
	const knightOnD6 = "rnbqkbnr/pppppppp/3N4/8/8/8/PPPPPPPP/R1BQKBNR"
	s := belief.New(reconmg.StartKey, knightOnD6)

	kept, dropped := s.FilterByRejectedMove(reconmg.MustParseMove("e7d6"), reconmg.Black)
	assert.Equal(t, 1, dropped, "the capture would have gone through on the knight hypothesis")
	assert.Equal(t, []string{reconmg.StartKey}, kept.SortedKeys())

	kept, dropped = s.FilterByRejectedMove(reconmg.NullMove, reconmg.Black)
	assert.Equal(t, 0, dropped)
	assert.Equal(t, 2, kept.Len())
}

func TestBoundSize_Idempotent(t *testing.T) {
	s, _ := belief.Start().EvolveAll(reconmg.White, nil, reconmg.NoSquare)
	for _, limit := range []int{35, 100} {
		same, dropped := s.BoundSize(limit, rng.New(1))
		assert.Equal(t, 0, dropped)
		assert.Equal(t, s.SortedKeys(), same.SortedKeys())
	}
}

// material scores a board by how many more pieces the side to move has.
func material(b reconmg.Board) int32 {
	us := b.SideToMove()
	return int32(b.PieceCount(us) - b.PieceCount(us.Other()))
}

func TestKeepBest(t *testing.T) {
	const (
		bare    = "4k3/8/8/8/8/8/8/4K3"
		knight  = "4k3/8/8/8/8/8/8/1N2K3"
		knights = "4k3/8/8/8/8/8/8/1N2K1N1"
		rook    = "4k3/8/8/8/8/8/8/R3K3"
	)
	s := belief.New(bare, knight, knights, rook, "not a key")

	kept, dropped := s.KeepBest(2, reconmg.White, material)
	assert.Equal(t, 3, dropped)
	assert.Equal(t, []string{knights, knight}, kept.SortedKeys(), "knight ties rook and has the smaller key")

	kept, dropped = s.KeepBest(2, reconmg.Black, material)
	assert.Equal(t, 3, dropped)
	assert.Equal(t, []string{knight, bare}, kept.SortedKeys())

	same, dropped := s.KeepBest(10, reconmg.White, material)
	assert.Zero(t, dropped)
	assert.Equal(t, s.SortedKeys(), same.SortedKeys())
}

func TestBoundSize_Cap(t *testing.T) {
	keys := make([]string, 0, 15000)
	for a := reconmg.Square(0); a < 64 && len(keys) < 15000; a++ {
		for b := reconmg.Square(0); b < 64 && len(keys) < 15000; b++ {
			for c := reconmg.Square(0); c < 64 && len(keys) < 15000; c++ {
				if a == b || b == c || a == c {
					continue
				}
				bd := reconmg.EmptyBoard().
					SetPiece(a, reconmg.WhiteKing).
					SetPiece(b, reconmg.BlackKing).
					SetPiece(c, reconmg.WhiteKnight)
				keys = append(keys, bd.Key())
			}
		}
	}
	s := belief.New(keys...)
	require.Equal(t, 15000, s.Len())

	capped, dropped := s.BoundSize(10000, rng.New(7))
	assert.Equal(t, 5000, dropped)
	require.Equal(t, 10000, capped.Len())
	for _, k := range capped.SortedKeys() {
		require.True(t, s.Contains(k))
	}

	again, _ := s.BoundSize(10000, rng.New(7))
	assert.Equal(t, capped.SortedKeys(), again.SortedKeys(), "same seed, same subset")
}

// senseAround reports the true contents of the 3x3 window centred on c.
func senseAround(truth reconmg.Board, c reconmg.Square) []belief.Observation {
	var obs []belief.Observation
	for dr := -1; dr <= 1; dr++ {
		for df := -1; df <= 1; df++ {
			f, r := c.File()+df, c.Rank()+dr
			if f < 0 || f > 7 || r < 0 || r > 7 {
				continue
			}
			s := reconmg.NewSquare(f, r)
			obs = append(obs, belief.Observation{Square: s, Piece: truth.PieceAt(s)})
		}
	}
	return obs
}

func TestSoundnessAlongGame(t *testing.T) {
	truth := board(t, reconmg.StartKey, reconmg.White)
	me := belief.Mine{Side: reconmg.White, Board: truth.Only(reconmg.White)}
	s := belief.Start()

	play := func(uci string) reconmg.Board {
		next, err := truth.Apply(reconmg.MustParseMove(uci))
		require.NoError(t, err, uci)
		return next
	}
	check := func(step string) {
		require.True(t, s.Contains(truth.Key()), "true board lost after %s", step)
	}

	// 1. e2e4, quiet.
	taken := reconmg.MustParseMove("e2e4")
	truth = play("e2e4")
	s, _ = s.FilterByOwnCapture(taken, false, reconmg.NoSquare, reconmg.White)
	s, _ = s.ApplyKnownMove(taken, reconmg.White, nil)
	me.Board = truth.Only(reconmg.White)
	check("e2e4")

	// ... d7d5, no capture.
	truth = play("d7d5")
	s, _ = s.EvolveAll(reconmg.Black, nil, sq(t, "e3"))
	s, _ = s.FilterByCaptureFeedback(false, reconmg.NoSquare, me)
	check("d7d5")
	before := s.Len()

	s, _ = s.FilterBySense(senseAround(truth, sq(t, "d6")))
	check("sense d6")
	assert.Less(t, s.Len(), before)

	// 2. e4xd5.
	d5 := sq(t, "d5")
	taken = reconmg.MustParseMove("e4d5")
	truth = play("e4d5")
	s, _ = s.FilterByOwnCapture(taken, true, d5, reconmg.White)
	s, _ = s.ApplyKnownMove(taken, reconmg.White, &d5)
	me.Board = truth.Only(reconmg.White)
	check("e4d5")

	// ... Qd8xd5.
	truth = play("d8d5")
	s, _ = s.FilterByCaptureFeedback(true, d5, me)
	s, _ = s.EvolveAll(reconmg.Black, &d5, reconmg.NoSquare)
	me.Board = me.Board.ClearSquare(d5)
	s, _ = s.FilterByOwnPieces(me)
	check("d8d5")

	// 3. d2c3 is attempted onto an empty square and turned into a pass.
	s, _ = s.FilterByRejectedMove(reconmg.MustParseMove("d2c3"), reconmg.White)
	truth = truth.WithTurn(reconmg.Black)
	check("rejected d2c3")

	// ... Qd5a5, quiet.
	truth = play("d5a5")
	s, _ = s.EvolveAll(reconmg.Black, nil, reconmg.NoSquare)
	s, _ = s.FilterByCaptureFeedback(false, reconmg.NoSquare, me)
	check("d5a5")

	s, _ = s.FilterBySense(senseAround(truth, sq(t, "b4")))
	check("sense b4")

	capped, _ := s.BoundSize(s.Len(), rng.New(3))
	assert.True(t, capped.Contains(truth.Key()))
}
