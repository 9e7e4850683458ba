// Package belief tracks the set of board placements consistent with everything a
// reconnaissance blind chess player has observed.
//
// A Set is a value: every update returns a new Set and the number of entries it
// discarded. Keys are never edited in place.
package belief

import (
	"runtime"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/orwellian225/ai-assignment/reconmg"
)

// Set is an unordered collection of unique placement keys.
type Set struct {
	keys map[string]struct{}
}

// New builds a Set from placement keys. Duplicates collapse.
func New(keys ...string) Set {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return Set{keys: m}
}

// Start returns the Set holding only the standard initial placement.
func Start() Set { return New(reconmg.StartKey) }

// Len returns the number of hypotheses.
func (s Set) Len() int { return len(s.keys) }

// Contains reports whether key is one of the hypotheses.
func (s Set) Contains(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// SortedKeys returns the keys in lexicographic order.
func (s Set) SortedKeys() []string {
	keys := maps.Keys(s.keys)
	slices.Sort(keys)
	return keys
}

// Boards parses every hypothesis in sorted key order with the given side to move.
// Unparsable keys are skipped.
func (s Set) Boards(turn reconmg.Color) []reconmg.Board {
	keys := s.SortedKeys()
	out := make([]reconmg.Board, 0, len(keys))
	for _, k := range keys {
		b, err := reconmg.ParseKey(k)
		if err != nil {
			continue
		}
		out = append(out, b.WithTurn(turn))
	}
	return out
}

// minShard is the smallest slice of keys worth handing to its own goroutine.
const minShard = 256

// mapShards splits keys into contiguous shards, runs work on each in its own goroutine
// and merges the shard-local outputs. The merged set and the summed counts do not depend
// on scheduling.
func mapShards(keys []string, work func(part []string, out map[string]struct{}) int) (map[string]struct{}, int) {
	shards := runtime.GOMAXPROCS(0)
	if n := len(keys)/minShard + 1; n < shards {
		shards = n
	}
	size := (len(keys) + shards - 1) / shards

	outs := make([]map[string]struct{}, shards)
	counts := make([]int, shards)
	var g errgroup.Group
	for i := 0; i < shards; i++ {
		i := i
		lo := i * size
		hi := lo + size
		if lo > len(keys) {
			lo = len(keys)
		}
		if hi > len(keys) {
			hi = len(keys)
		}
		g.Go(func() error {
			out := make(map[string]struct{}, hi-lo)
			counts[i] = work(keys[lo:hi], out)
			outs[i] = out
			return nil
		})
	}
	_ = g.Wait()

	merged := outs[0]
	total := counts[0]
	for i := 1; i < shards; i++ {
		for k := range outs[i] {
			merged[k] = struct{}{}
		}
		total += counts[i]
	}
	return merged, total
}

// keepIf returns the entries whose board, parsed with turn to move, satisfies keep.
// Unparsable entries are dropped and counted.
func (s Set) keepIf(turn reconmg.Color, keep func(reconmg.Board) bool) (Set, int) {
	kept, dropped := mapShards(maps.Keys(s.keys), func(part []string, out map[string]struct{}) int {
		n := 0
		for _, k := range part {
			b, err := reconmg.ParseKey(k)
			if err != nil || !keep(b.WithTurn(turn)) {
				n++
				continue
			}
			out[k] = struct{}{}
		}
		return n
	})
	return Set{keys: kept}, dropped
}
