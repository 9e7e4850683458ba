package policy

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/orwellian225/ai-assignment/belief"
	"github.com/orwellian225/ai-assignment/oracle"
	"github.com/orwellian225/ai-assignment/reconmg"
)

// Decision summarises how a move was chosen.
type Decision struct {
	Hypotheses  int
	KingCapture bool
	Queried     int
	Failures    int
	Restarts    int
	Malformed   int
	Skipped     int
	Votes       int
	Discarded   int
	Winner      string
	WinnerVotes int
}

// MarshalZerologObject lets a Decision be logged with Object().
func (d Decision) MarshalZerologObject(e *zerolog.Event) {
	e.Int("hypotheses", d.Hypotheses).
		Bool("king_capture", d.KingCapture).
		Int("queried", d.Queried).
		Int("failures", d.Failures).
		Int("restarts", d.Restarts).
		Int("malformed", d.Malformed).
		Int("skipped", d.Skipped).
		Int("votes", d.Votes).
		Int("discarded", d.Discarded).
		Str("winner", d.Winner).
		Int("winner_votes", d.WinnerVotes)
}

// Mover picks a move by polling the oracle once per hypothesis.
type Mover struct {
	Oracle oracle.Oracle
	Log    zerolog.Logger

	needRestart bool
}

// NewMover returns a Mover over o.
func NewMover(o oracle.Oracle, log zerolog.Logger) *Mover {
	return &Mover{Oracle: o, Log: log}
}

// Choose returns the move to request, or nil to pass.
//
// A move that captures the opposing king on some hypothesis wins outright. Otherwise
// every hypothesis gets an equal share of budget and one oracle vote; malformed
// hypotheses and failed queries vote null, and hypotheses still waiting when ctx ends
// are skipped. Votes for moves outside legal are discarded and the plurality wins,
// ties going to the smallest UCI string.
func (p *Mover) Choose(ctx context.Context, set belief.Set, side reconmg.Color, legal []reconmg.Move, budget time.Duration) (*reconmg.Move, Decision) {
	boards := set.Boards(side)
	d := Decision{Hypotheses: len(boards)}
	if len(boards) == 0 || len(legal) == 0 {
		return nil, d
	}

	allowed := identities(legal)

	if m, ok := kingCapture(boards, side, allowed); ok {
		d.KingCapture = true
		d.Winner = m.String()
		return &m, d
	}

	per := budget / time.Duration(len(boards))
	tally := make(map[reconmg.Move]int)
	for i, b := range boards {
		if ctx.Err() != nil {
			d.Skipped = len(boards) - i
			break
		}
		if !b.WellFormed() {
			d.Malformed++
			tally[reconmg.NullMove]++
			continue
		}
		if p.needRestart {
			d.Restarts++
			if err := p.Oracle.Restart(); err != nil {
				p.Log.Warn().Err(err).Msg("oracle restart failed")
				d.Failures++
				tally[reconmg.NullMove]++
				continue
			}
			p.needRestart = false
		}
		d.Queried++
		m, err := p.query(ctx, b, per)
		if err != nil {
			d.Failures++
			ev := p.Log.Debug()
			if d.Failures == 1 {
				ev = p.Log.Warn()
			}
			ev.Err(err).Str("key", b.Key()).Msg("oracle query failed")
			p.needRestart = true
			tally[reconmg.NullMove]++
			continue
		}
		tally[m.Ident()]++
	}

	var best reconmg.Move
	bestVotes := 0
	for m, n := range tally {
		d.Votes += n
		if _, ok := allowed[m]; !ok {
			d.Discarded += n
			continue
		}
		if n > bestVotes || (n == bestVotes && m.String() < best.String()) {
			best, bestVotes = m, n
		}
	}
	if bestVotes == 0 || best.IsNull() {
		return nil, d
	}
	chosen := allowed[best]
	d.Winner = chosen.String()
	d.WinnerVotes = bestVotes
	return &chosen, d
}

// querySlack is how long past its search limit a query may run before it is abandoned.
// Engines answer a little after their movetime.
func querySlack(limit time.Duration) time.Duration {
	return limit/4 + 10*time.Millisecond
}

func (p *Mover) query(ctx context.Context, b reconmg.Board, limit time.Duration) (reconmg.Move, error) {
	qctx, cancel := context.WithTimeout(ctx, limit+querySlack(limit))
	defer cancel()
	return p.Oracle.Evaluate(qctx, b, limit)
}

func identities(legal []reconmg.Move) map[reconmg.Move]reconmg.Move {
	allowed := make(map[reconmg.Move]reconmg.Move, len(legal))
	for _, m := range legal {
		allowed[m.Ident()] = m
	}
	return allowed
}

// KingCapture returns the first listed action, in sorted hypothesis order, that lands
// on the opposing king in some hypothesis.
func KingCapture(set belief.Set, side reconmg.Color, legal []reconmg.Move) (*reconmg.Move, bool) {
	m, ok := kingCapture(set.Boards(side), side, identities(legal))
	if !ok {
		return nil, false
	}
	return &m, true
}

// kingCapture scans hypotheses in order for an action landing on the opposing king
// that the referee lists as legal.
func kingCapture(boards []reconmg.Board, side reconmg.Color, allowed map[reconmg.Move]reconmg.Move) (reconmg.Move, bool) {
	buf := make([]reconmg.Move, 0, 128)
	for _, b := range boards {
		king := b.KingSquare(side.Other())
		if king == reconmg.NoSquare {
			continue
		}
		buf = b.GenerateActionsInto(buf)
		for _, m := range buf {
			if m.IsNull() || m.To() != king {
				continue
			}
			if legal, ok := allowed[m.Ident()]; ok {
				return legal, true
			}
		}
	}
	return 0, false
}
