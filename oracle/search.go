package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/dylhunn/dragontoothmg"
	"github.com/rs/zerolog"

	"github.com/orwellian225/ai-assignment/reconmg"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	MaxScore  int32 = 32500
	Checkmate int32 = 20000
	DrawScore int32 = 0

	maxPly = 64
)

// Most Valuable Victim - Least Valuable Aggressor; used to score & sort captures
var mvvLva = [7][7]int32{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 0}, // victim Pawn
	{0, 24, 23, 22, 21, 20, 0}, // victim Knight
	{0, 34, 33, 32, 31, 30, 0}, // victim Bishop
	{0, 44, 43, 42, 41, 40, 0}, // victim Rook
	{0, 54, 53, 52, 51, 50, 0}, // victim Queen
	{0, 0, 0, 0, 0, 0, 0},      // victim King
}

// SearchConfig configures the in-process searcher.
type SearchConfig struct {
	MaxDepth int
	HashMB   int
	Logger   zerolog.Logger
}

// Search is an iterative-deepening alpha-beta searcher used when no external engine
// is configured. It is not safe for concurrent use.
type Search struct {
	cfg SearchConfig
	log zerolog.Logger
	tt  *transTable

	ctx       context.Context
	deadline  time.Time
	nodes     uint64
	completed int
	stopped   bool
}

// NewSearch returns a searcher with an empty transposition table.
func NewSearch(cfg SearchConfig) *Search {
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = 6
	}
	if cfg.HashMB == 0 {
		cfg.HashMB = 16
	}
	return &Search{
		cfg: cfg,
		log: cfg.Logger.With().Str("oracle", "search").Logger(),
		tt:  newTransTable(cfg.HashMB),
	}
}

// Evaluate searches board until limit, the context deadline or the depth cap. The
// first iteration always completes so a move is returned whenever one exists.
func (s *Search) Evaluate(ctx context.Context, board reconmg.Board, limit time.Duration) (best reconmg.Move, err error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTerminated, err)
	}
	fen := board.ToFEN()
	defer func() {
		if r := recover(); r != nil {
			best, err = 0, fmt.Errorf("%w: %s: %v", ErrBadState, fen, r)
		}
	}()

	b := dragontoothmg.ParseFen(fen)
	moves := b.GenerateLegalMoves()
	if len(moves) == 0 {
		return 0, fmt.Errorf("%w: no legal moves in %s", ErrBadState, fen)
	}

	s.ctx = ctx
	s.deadline = time.Now().Add(limitFor(ctx, limit))
	s.nodes = 0
	s.completed = 0
	s.stopped = false

	bestMove := moves[0]
	var bestScore int32
	for depth := 1; depth <= s.cfg.MaxDepth; depth++ {
		score, m := s.rootsearch(&b, moves, int8(depth), bestMove)
		if s.stopped {
			break
		}
		bestMove, bestScore = m, score
		s.completed = depth
		if score > Checkmate-maxPly || score < -Checkmate+maxPly {
			break
		}
	}
	s.log.Debug().
		Str("fen", fen).
		Int("depth", s.completed).
		Uint64("nodes", s.nodes).
		Int32("score", bestScore).
		Str("move", bestMove.String()).
		Msg("search done")

	return reconmg.ParseMove(bestMove.String())
}

// Restart forgets everything learned in earlier searches.
func (s *Search) Restart() error {
	s.tt.clear()
	return nil
}

// Close is a no-op; the searcher holds no external resources.
func (s *Search) Close() error { return nil }

func (s *Search) timeUp() bool {
	if s.completed == 0 {
		return false
	}
	if s.nodes&1023 == 0 {
		if time.Now().After(s.deadline) || s.ctx.Err() != nil {
			s.stopped = true
		}
	}
	return s.stopped
}

func (s *Search) rootsearch(b *dragontoothmg.Board, moves []dragontoothmg.Move, depth int8, pvMove dragontoothmg.Move) (int32, dragontoothmg.Move) {
	alpha, beta := -MaxScore, MaxScore
	ordered := scoreMoves(b, moves, pvMove)
	best := ordered[0].move
	for i := range ordered {
		orderNext(i, ordered)
		m := ordered[i].move
		undo := b.Apply(m)
		score := -s.alphabeta(b, -beta, -alpha, depth-1, 1)
		undo()
		if s.stopped {
			break
		}
		if score > alpha {
			alpha = score
			best = m
		}
	}
	return alpha, best
}

func (s *Search) alphabeta(b *dragontoothmg.Board, alpha, beta int32, depth int8, ply int8) int32 {
	s.nodes++
	if s.timeUp() {
		return 0
	}
	if depth <= 0 || ply >= maxPly {
		return s.quiescence(b, alpha, beta, ply)
	}

	hash := b.Hash()
	entry := s.tt.lookup(hash)
	if score, ok := s.tt.usable(entry, depth, alpha, beta, ply); ok {
		return score
	}
	var ttMove dragontoothmg.Move
	if entry != nil {
		ttMove = entry.Move
	}

	moves := b.GenerateLegalMoves()
	if len(moves) == 0 {
		if b.OurKingInCheck() {
			return -Checkmate + int32(ply)
		}
		return DrawScore
	}

	flag := int8(AlphaFlag)
	bestScore := -MaxScore
	var bestMove dragontoothmg.Move
	ordered := scoreMoves(b, moves, ttMove)
	for i := range ordered {
		orderNext(i, ordered)
		m := ordered[i].move
		undo := b.Apply(m)
		score := -s.alphabeta(b, -beta, -alpha, depth-1, ply+1)
		undo()
		if s.stopped {
			return 0
		}
		if score > bestScore {
			bestScore, bestMove = score, m
		}
		if score > alpha {
			alpha = score
			flag = ExactFlag
		}
		if alpha >= beta {
			flag = BetaFlag
			break
		}
	}
	s.tt.store(hash, depth, bestMove, bestScore, flag, ply)
	return bestScore
}

func (s *Search) quiescence(b *dragontoothmg.Board, alpha, beta int32, ply int8) int32 {
	s.nodes++
	if s.timeUp() {
		return 0
	}
	standPat := evaluate(b)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}
	if ply >= maxPly {
		return alpha
	}

	moves := b.GenerateLegalMoves()
	if len(moves) == 0 && b.OurKingInCheck() {
		return -Checkmate + int32(ply)
	}
	noisy := moves[:0]
	for _, m := range moves {
		if dragontoothmg.IsCapture(m, b) || m.Promote() != 0 {
			noisy = append(noisy, m)
		}
	}
	ordered := scoreMoves(b, noisy, 0)
	for i := range ordered {
		orderNext(i, ordered)
		undo := b.Apply(ordered[i].move)
		score := -s.quiescence(b, -beta, -alpha, ply+1)
		undo()
		if s.stopped {
			return 0
		}
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

type scoredMove struct {
	move  dragontoothmg.Move
	score int32
}

// scoreMoves ranks the hash move first, then promotions and captures by MVV-LVA.
func scoreMoves(b *dragontoothmg.Board, moves []dragontoothmg.Move, pvMove dragontoothmg.Move) []scoredMove {
	own, opp := &b.White, &b.Black
	if !b.Wtomove {
		own, opp = opp, own
	}
	out := make([]scoredMove, len(moves))
	for i, m := range moves {
		var score int32
		switch {
		case m == pvMove && pvMove != 0:
			score = 1000
		case m.Promote() != 0:
			score = 500 + pieceValueEG[m.Promote()]/10
		case dragontoothmg.IsCapture(m, b):
			victim := pieceTypeAt(opp, m.To())
			if victim == 0 {
				victim = dragontoothmg.Pawn // en passant
			}
			score = 100 + mvvLva[victim][pieceTypeAt(own, m.From())]
		}
		out[i] = scoredMove{move: m, score: score}
	}
	return out
}

// orderNext swaps the best remaining move into position i.
func orderNext(i int, moves []scoredMove) {
	best := i
	for j := i + 1; j < len(moves); j++ {
		if moves[j].score > moves[best].score {
			best = j
		}
	}
	moves[i], moves[best] = moves[best], moves[i]
}
