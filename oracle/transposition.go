package oracle

import (
	"unsafe"

	"github.com/dylhunn/dragontoothmg"
)

const (
	// Flags
	AlphaFlag = iota
	BetaFlag
	ExactFlag
)

type ttEntry struct {
	Hash  uint64
	Depth int8
	Move  dragontoothmg.Move
	Score int32
	Flag  int8
}

// transTable is a single-slot, always-replace transposition table.
type transTable struct {
	entries []ttEntry
	mask    uint64
}

func newTransTable(sizeMB int) *transTable {
	if sizeMB <= 0 {
		sizeMB = 16
	}
	entrySize := uint64(unsafe.Sizeof(ttEntry{}))
	count := uint64(sizeMB) * 1024 * 1024 / entrySize
	// round down to a power of two so the hash can be masked
	n := uint64(1)
	for n*2 <= count {
		n *= 2
	}
	return &transTable{entries: make([]ttEntry, n), mask: n - 1}
}

func (tt *transTable) clear() {
	for i := range tt.entries {
		tt.entries[i] = ttEntry{}
	}
}

func (tt *transTable) lookup(hash uint64) *ttEntry {
	e := &tt.entries[hash&tt.mask]
	if e.Hash != hash {
		return nil
	}
	return e
}

// usable reports a score usable for the window at this depth, with mate scores
// re-based from the stored node to the current ply.
func (tt *transTable) usable(e *ttEntry, depth int8, alpha, beta int32, ply int8) (int32, bool) {
	if e == nil || e.Depth < depth {
		return 0, false
	}
	score := e.Score
	if score > Checkmate-maxPly {
		score -= int32(ply)
	} else if score < -Checkmate+maxPly {
		score += int32(ply)
	}
	switch e.Flag {
	case ExactFlag:
		return score, true
	case AlphaFlag:
		if score <= alpha {
			return alpha, true
		}
	case BetaFlag:
		if score >= beta {
			return beta, true
		}
	}
	return 0, false
}

func (tt *transTable) store(hash uint64, depth int8, move dragontoothmg.Move, score int32, flag int8, ply int8) {
	if score > Checkmate-maxPly {
		score += int32(ply)
	} else if score < -Checkmate+maxPly {
		score -= int32(ply)
	}
	tt.entries[hash&tt.mask] = ttEntry{Hash: hash, Depth: depth, Move: move, Score: score, Flag: flag}
}
