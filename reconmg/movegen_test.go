package reconmg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orwellian225/ai-assignment/reconmg"
)

func mustKey(t *testing.T, key string, turn reconmg.Color) reconmg.Board {
	t.Helper()
	b, err := reconmg.ParseKey(key)
	require.NoError(t, err, "ParseKey %s", key)
	return b.WithTurn(turn)
}

func actionStrings(b reconmg.Board) map[string]reconmg.Move {
	out := make(map[string]reconmg.Move)
	for _, m := range b.GenerateActions() {
		out[m.String()] = m
	}
	return out
}

func TestGenerateActions_StartPositionOutcomes(t *testing.T) {
	b := mustKey(t, reconmg.StartKey, reconmg.White)
	actions := b.GenerateActions()
	// 20 standard moves, the null action and 14 pawn diagonals onto empty squares.
	require.Len(t, actions, 35)

	seen := make(map[string]bool)
	for _, m := range actions {
		next, err := b.Apply(m)
		require.NoError(t, err, "apply %s", m)
		seen[next.Key()] = true
	}
	assert.Len(t, seen, 35)
	assert.True(t, seen[reconmg.StartKey], "null action keeps the placement")
}

func TestGenerateActions_NoDuplicates(t *testing.T) {
	keys := []string{
		reconmg.StartKey,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R",
		"8/P6k/8/8/8/8/8/K7",
	}
	for _, key := range keys {
		for _, side := range []reconmg.Color{reconmg.White, reconmg.Black} {
			b := mustKey(t, key, side)
			seen := make(map[reconmg.Move]bool)
			for _, m := range b.GenerateActions() {
				require.False(t, seen[m.Ident()], "%s listed twice for %s", m, key)
				seen[m.Ident()] = true
			}
		}
	}
}

func TestGenerateActions_PawnAttackOntoEmptySquare(t *testing.T) {
	b := mustKey(t, reconmg.StartKey, reconmg.White)
	actions := actionStrings(b)
	for _, uci := range []string{"e2d3", "e2f3", "a2b3", "h2g3"} {
		assert.Contains(t, actions, uci)
	}
	assert.NotContains(t, actions, "a2h3")

	next, err := b.Apply(reconmg.MustParseMove("e2d3"))
	require.NoError(t, err)
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/3P4/PPPP1PPP/RNBQKBNR", next.Key())
}

func TestIsAccepted(t *testing.T) {
	b := mustKey(t, reconmg.StartKey, reconmg.White)
	assert.True(t, b.IsAccepted(reconmg.MustParseMove("e2e4")))
	assert.True(t, b.IsAccepted(reconmg.MustParseMove("g1f3")))
	assert.False(t, b.IsAccepted(reconmg.MustParseMove("e2d3")), "diagonal onto empty square is not executed")
	assert.False(t, b.IsAccepted(reconmg.MustParseMove("e2e5")))

	withVictim := mustKey(t, "rnbqkbnr/pppppppp/8/8/8/3p4/PPPPPPPP/RNBQKBNR", reconmg.White)
	assert.True(t, withVictim.IsAccepted(reconmg.MustParseMove("e2d3")))
}

func TestCastling(t *testing.T) {
	b := mustKey(t, "r3k2r/8/8/8/8/8/8/R3K2R", reconmg.White)
	actions := actionStrings(b)
	assert.Contains(t, actions, "e1g1")
	assert.Contains(t, actions, "e1c1")

	next, err := b.Apply(reconmg.MustParseMove("e1g1"))
	require.NoError(t, err)
	assert.Equal(t, "r3k2r/8/8/8/8/8/8/R4RK1", next.Key())

	next, err = b.WithTurn(reconmg.Black).Apply(reconmg.MustParseMove("e8c8"))
	require.NoError(t, err)
	assert.Equal(t, "2kr3r/8/8/8/8/8/8/R3K2R", next.Key())
}

func TestCastling_BlockedOnHypothesis(t *testing.T) {
	b := mustKey(t, "r3k2r/8/8/8/8/8/8/Rn2K2R", reconmg.White)
	actions := actionStrings(b)
	assert.NotContains(t, actions, "e1c1")
	assert.Contains(t, actions, "e1g1")
	assert.False(t, b.IsAccepted(reconmg.MustParseMove("e1c1")))
}

func TestCastling_AllowedThroughCheck(t *testing.T) {
	b := mustKey(t, "4r3/8/8/8/8/8/8/R3K2R", reconmg.White)
	require.True(t, b.InCheck(reconmg.White))
	actions := actionStrings(b)
	assert.Contains(t, actions, "e1g1")
	assert.Contains(t, actions, "e1c1")
}

func TestCastling_RightsFollowPlacement(t *testing.T) {
	b := mustKey(t, "r3k2r/8/8/8/8/8/8/R3K1R1", reconmg.White)
	actions := actionStrings(b)
	assert.NotContains(t, actions, "e1g1")
	assert.Contains(t, actions, "e1c1")
}

func TestEnPassant(t *testing.T) {
	b, err := reconmg.ParseFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	require.NoError(t, err)
	m, ok := b.Lookup(reconmg.MustParseMove("e5d6"))
	require.True(t, ok)
	assert.Equal(t, uint8(reconmg.FlagEnPassant), m.Flags())
	assert.Equal(t, "d5", m.CaptureSquare().String())

	next, err := b.Apply(m)
	require.NoError(t, err)
	assert.Equal(t, "4k3/8/3P4/8/8/8/8/4K3", next.Key())
}

func TestDoublePushSetsEnPassantTarget(t *testing.T) {
	b := mustKey(t, reconmg.StartKey, reconmg.White)
	next, err := b.Apply(reconmg.MustParseMove("e2e4"))
	require.NoError(t, err)
	assert.Equal(t, "e3", next.EnPassantSquare().String())
	assert.Equal(t, reconmg.Black, next.SideToMove())

	after, err := next.Apply(reconmg.NullMove)
	require.NoError(t, err)
	assert.Equal(t, reconmg.NoSquare, after.EnPassantSquare())
}

func TestPromotion(t *testing.T) {
	b := mustKey(t, "8/P6k/8/8/8/8/8/K7", reconmg.White)
	actions := actionStrings(b)
	for _, uci := range []string{"a7a8q", "a7a8r", "a7a8b", "a7a8n", "a7b8q", "a7b8n"} {
		assert.Contains(t, actions, uci)
	}
	assert.NotContains(t, actions, "a7a8")

	next, err := b.Apply(reconmg.MustParseMove("a7a8n"))
	require.NoError(t, err)
	assert.Equal(t, "N7/7k/8/8/8/8/8/K7", next.Key())
}

func TestApply_RejectsUnlistedMove(t *testing.T) {
	b := mustKey(t, reconmg.StartKey, reconmg.White)
	_, err := b.Apply(reconmg.MustParseMove("e2e5"))
	assert.ErrorIs(t, err, reconmg.ErrIllegalMove)
	_, err = b.Apply(reconmg.MustParseMove("e7e5"))
	assert.ErrorIs(t, err, reconmg.ErrIllegalMove)
}

func TestApply_AgreesWithEnumerator(t *testing.T) {
	b := mustKey(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R", reconmg.White)
	listed := actionStrings(b)
	for from := reconmg.Square(0); from < 64; from++ {
		for to := reconmg.Square(0); to < 64; to++ {
			m := reconmg.NewMove(from, to, reconmg.NoPiece, reconmg.NoPiece, reconmg.PieceTypeNone, 0)
			_, err := b.Apply(m)
			_, ok := listed[m.String()]
			assert.Equal(t, ok, err == nil, "move %s", m)
		}
	}
}

func TestNullMoveTogglesSide(t *testing.T) {
	b := mustKey(t, reconmg.StartKey, reconmg.Black)
	next, err := b.Apply(reconmg.NullMove)
	require.NoError(t, err)
	assert.Equal(t, reconmg.StartKey, next.Key())
	assert.Equal(t, reconmg.White, next.SideToMove())
}
