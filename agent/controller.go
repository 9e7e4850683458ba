package agent

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/orwellian225/ai-assignment/belief"
	"github.com/orwellian225/ai-assignment/oracle"
	"github.com/orwellian225/ai-assignment/policy"
	"github.com/orwellian225/ai-assignment/reconmg"
	"github.com/orwellian225/ai-assignment/rng"
)

// DefaultStateLimit caps the belief set before each move decision.
const DefaultStateLimit = 10000

// Options configures a Controller. Zero fields take defaults: entropy sensing, an
// unseeded source and DefaultStateLimit.
//
// Opening plays the scripted king rush before handing over to the oracle. Rank, when
// set, scores a hypothesis for its side to move; oversized sets then keep the
// hypotheses that score best for the opponent instead of a random sample.
type Options struct {
	Oracle     oracle.Oracle
	Sense      policy.SenseChooser
	Source     rng.Source
	StateLimit int
	Budget     policy.BudgetConfig
	Opening    bool
	Rank       func(reconmg.Board) int32
	Logger     zerolog.Logger
}

// openingScript aims bishop and queen at the f-pawn next to the enemy king.
var openingScript = map[reconmg.Color][]reconmg.Move{
	reconmg.White: {
		reconmg.MustParseMove("e2e3"), reconmg.MustParseMove("f1c4"),
		reconmg.MustParseMove("d1h5"), reconmg.MustParseMove("c4f7"),
	},
	reconmg.Black: {
		reconmg.MustParseMove("e7e6"), reconmg.MustParseMove("f8c5"),
		reconmg.MustParseMove("d8h4"), reconmg.MustParseMove("c5f2"),
	},
}

// Controller is the belief-set player. It tracks every placement the board could be
// in, narrows it with each piece of referee feedback and polls the oracle over the
// survivors to pick moves.
type Controller struct {
	oracle  oracle.Oracle
	sense   policy.SenseChooser
	mover   *policy.Mover
	src     rng.Source
	limit   int
	budget  policy.BudgetConfig
	opening bool
	rank    func(reconmg.Board) int32
	base    zerolog.Logger
	log     zerolog.Logger

	gameID    string
	side      reconmg.Color
	set       belief.Set
	mine      belief.Mine
	enPassant reconmg.Square // target of my last double push, for the opponent's reply
	firstTurn bool
	script    []reconmg.Move // opening moves not yet tried
	phase     phase
}

// NewController returns a Controller awaiting game start.
func NewController(opts Options) *Controller {
	if opts.Source == nil {
		opts.Source = rng.New(0)
	}
	if opts.Sense == nil {
		opts.Sense = policy.Entropy{Src: opts.Source}
	}
	if opts.StateLimit <= 0 {
		opts.StateLimit = DefaultStateLimit
	}
	if opts.Budget.MoveBudget <= 0 {
		opts.Budget.MoveBudget = 10 * time.Second
	}
	c := &Controller{
		oracle:    opts.Oracle,
		sense:     opts.Sense,
		src:       opts.Source,
		limit:     opts.StateLimit,
		budget:    opts.Budget,
		opening:   opts.Opening,
		rank:      opts.Rank,
		base:      opts.Logger,
		log:       opts.Logger,
		set:       belief.Start(),
		enPassant: reconmg.NoSquare,
	}
	if opts.Oracle != nil {
		c.mover = policy.NewMover(opts.Oracle, opts.Logger)
	}
	return c
}

// Beliefs returns the current belief set.
func (c *Controller) Beliefs() belief.Set { return c.set }

// GameID returns the id assigned at game start.
func (c *Controller) GameID() string { return c.gameID }

func (c *Controller) expect(callback string, allowed ...phase) {
	for _, p := range allowed {
		if c.phase == p {
			return
		}
	}
	c.log.Warn().
		Str("callback", callback).
		Stringer("phase", c.phase).
		Msg("callback out of order")
}

func (c *Controller) anomaly(callback string) {
	if c.set.Len() == 0 {
		c.log.Warn().Str("callback", callback).Msg("belief set is empty")
	}
}

func (c *Controller) HandleGameStart(side reconmg.Color, opponent string) {
	c.expect("game_start", awaitingGameStart, gameEnded)
	c.gameID = uuid.NewString()
	c.side = side
	c.log = c.base.With().
		Str("game_id", c.gameID).
		Stringer("side", side).
		Str("opponent", opponent).
		Logger()
	if c.mover != nil {
		c.mover.Log = c.log
	}

	start, _ := reconmg.ParseKey(reconmg.StartKey)
	c.set = belief.Start()
	c.mine = belief.Mine{Side: side, Board: start.Only(side)}
	c.enPassant = reconmg.NoSquare
	c.firstTurn = true
	c.script = nil
	if c.opening {
		c.script = openingScript[side]
	}
	c.phase = awaitingOpponentMoveResult
	c.log.Info().Msg("game start")
}

func (c *Controller) HandleOpponentMoveResult(captured bool, square reconmg.Square) {
	c.expect("opponent_move_result", awaitingOpponentMoveResult)
	c.phase = awaitingSenseChoice
	if c.firstTurn && c.side == reconmg.White {
		return
	}

	before := c.set.Len()
	var dropped, vanished int
	var capture *reconmg.Square
	if captured {
		capture = &square
		c.set, dropped = c.set.FilterByCaptureFeedback(true, square, c.mine)
		c.mine.Board = c.mine.Board.ClearSquare(square)
	}
	c.set, vanished = c.set.EvolveAll(c.side.Other(), capture, c.enPassant)
	c.enPassant = reconmg.NoSquare
	set, mismatched := c.set.FilterByOwnPieces(c.mine)
	c.set = set

	c.log.Debug().
		Bool("captured", captured).
		Stringer("square", square).
		Int("before", before).
		Int("dropped", dropped).
		Int("vanished", vanished).
		Int("mismatched", mismatched).
		Int("after", c.set.Len()).
		Msg("opponent move")
	c.anomaly("opponent_move_result")
}

func (c *Controller) ChooseSense(candidates []reconmg.Square, _ []reconmg.Move, _ time.Duration) reconmg.Square {
	if c.firstTurn && c.side == reconmg.White {
		c.expect("choose_sense", awaitingSenseChoice, awaitingOpponentMoveResult)
	} else {
		c.expect("choose_sense", awaitingSenseChoice)
	}
	c.phase = awaitingSenseResult
	c.anomaly("choose_sense")

	sq := c.sense.Choose(c.set, candidates)
	c.log.Debug().Stringer("square", sq).Int("beliefs", c.set.Len()).Msg("sense")
	return sq
}

func (c *Controller) HandleSenseResult(results []SenseResult) {
	c.expect("sense_result", awaitingSenseResult)
	c.phase = awaitingMoveChoice

	obs := make([]belief.Observation, len(results))
	for i, r := range results {
		obs[i] = belief.Observation{Square: r.Square, Piece: r.Piece}
	}
	var dropped int
	c.set, dropped = c.set.FilterBySense(obs)
	c.log.Debug().Int("dropped", dropped).Int("after", c.set.Len()).Msg("sense result")
	c.anomaly("sense_result")
}

func (c *Controller) ChooseMove(legal []reconmg.Move, remaining time.Duration) *reconmg.Move {
	c.expect("choose_move", awaitingMoveChoice)
	c.phase = awaitingMoveResult

	if len(c.script) > 0 {
		return c.openingMove(legal)
	}

	var discarded int
	if c.rank != nil {
		c.set, discarded = c.set.KeepBest(c.limit, c.side.Other(), c.rank)
	} else {
		c.set, discarded = c.set.BoundSize(c.limit, c.src)
	}
	if discarded > 0 {
		c.log.Debug().Int("discarded", discarded).Int("limit", c.limit).Msg("belief set capped")
	}
	if c.set.Len() == 0 {
		c.anomaly("choose_move")
		return nil
	}
	if c.mover == nil {
		c.log.Warn().Msg("no oracle configured")
		return nil
	}

	budget := policy.Budget(remaining, c.budget)
	ctx, cancel := context.WithTimeout(context.Background(), budget)
	defer cancel()
	m, d := c.mover.Choose(ctx, c.set, c.side, legal, budget)
	if d.Failures > 0 {
		c.log.Warn().Int("failures", d.Failures).Int("restarts", d.Restarts).Msg("oracle failures")
	}
	c.log.Debug().Dur("budget", budget).Object("decision", d).Msg("move")
	return m
}

func (c *Controller) HandleMoveResult(requested, taken *reconmg.Move, captured bool, square reconmg.Square) {
	c.expect("move_result", awaitingMoveResult)
	c.phase = awaitingOpponentMoveResult
	c.firstTurn = false

	before := c.set.Len()
	var rejected, mismatched, dropped int
	if requested != nil && (taken == nil || taken.Ident() != requested.Ident()) {
		c.set, rejected = c.set.FilterByRejectedMove(*requested, c.side)
	}
	if taken != nil && !taken.IsNull() {
		var capture *reconmg.Square
		if captured {
			capture = &square
		}
		c.set, mismatched = c.set.FilterByOwnCapture(*taken, captured, square, c.side)
		c.set, dropped = c.set.ApplyKnownMove(*taken, c.side, capture)
		c.playMine(*taken)
	}

	c.log.Debug().
		Stringer("requested", moveOrPass(requested)).
		Stringer("taken", moveOrPass(taken)).
		Bool("captured", captured).
		Int("before", before).
		Int("rejected", rejected).
		Int("mismatched", mismatched).
		Int("dropped", dropped).
		Int("after", c.set.Len()).
		Msg("move result")
	c.anomaly("move_result")
}

// openingMove takes the next scripted move, playing it only if the referee lists it.
// A move that captures the king on some hypothesis still comes first.
func (c *Controller) openingMove(legal []reconmg.Move) *reconmg.Move {
	want := c.script[0]
	c.script = c.script[1:]

	if m, ok := policy.KingCapture(c.set, c.side, legal); ok {
		c.log.Debug().Stringer("move", *m).Msg("opening king capture")
		return m
	}
	for _, m := range legal {
		if m.Ident() == want.Ident() {
			c.log.Debug().Stringer("move", m).Int("left", len(c.script)).Msg("opening")
			return &m
		}
	}
	c.log.Debug().Stringer("scripted", want).Msg("opening move unavailable, passing")
	return nil
}

// playMine advances my own-piece board and remembers a double pawn push.
func (c *Controller) playMine(m reconmg.Move) {
	b := c.mine.Board.WithTurn(c.side)
	if b.PieceAt(m.From()).Type() == reconmg.PieceTypePawn {
		if d := int(m.To()) - int(m.From()); d == 16 || d == -16 {
			c.enPassant = (m.From() + m.To()) / 2
		}
	}
	after, err := b.Apply(m)
	if err != nil {
		c.log.Warn().Err(err).Msg("taken move does not fit my pieces")
		return
	}
	c.mine.Board = after
}

func (c *Controller) HandleGameEnd(winner *reconmg.Color, reason string) {
	c.phase = gameEnded
	ev := c.log.Info().Str("reason", reason).Int("beliefs", c.set.Len())
	if winner != nil {
		ev = ev.Stringer("winner", *winner).Bool("won", *winner == c.side)
	}
	ev.Msg("game end")

	if c.oracle != nil {
		if err := c.oracle.Close(); err != nil {
			c.log.Warn().Err(err).Msg("oracle close failed")
		}
	}
}

func moveOrPass(m *reconmg.Move) reconmg.Move {
	if m == nil {
		return reconmg.NullMove
	}
	return *m
}
