// Package oracle wraps the chess engines that suggest a move for a single, fully known
// board. The player asks one question per hypothesis and treats every failure as an
// abstention.
package oracle

import (
	"context"
	"errors"
	"time"

	"github.com/orwellian225/ai-assignment/reconmg"
)

var (
	// ErrTerminated means the engine is gone: the process died, or the query ran past
	// its deadline and the engine had to be stopped. Restart before the next query.
	ErrTerminated = errors.New("oracle terminated")
	// ErrBadState means the engine refused or could not analyse the position.
	ErrBadState = errors.New("oracle rejected position")
)

// Oracle suggests a move for a board with the side to move set.
type Oracle interface {
	Evaluate(ctx context.Context, board reconmg.Board, limit time.Duration) (reconmg.Move, error)
	Restart() error
	Close() error
}

// limitFor clamps limit to the context deadline, if that is sooner.
func limitFor(ctx context.Context, limit time.Duration) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < limit {
			limit = left
		}
	}
	if limit < time.Millisecond {
		limit = time.Millisecond
	}
	return limit
}
