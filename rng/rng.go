// Package rng provides the injectable random source used for tie-breaking and sampling.
package rng

import (
	"encoding/binary"

	"lukechampine.com/frand"
)

// Source is the subset of a random generator the player needs. Both *frand.RNG and
// *math/rand.Rand satisfy it.
type Source interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// New returns a fast ChaCha-based source. A zero seed draws from system entropy; any
// other seed yields a reproducible stream.
func New(seed uint64) Source {
	if seed == 0 {
		return frand.New()
	}
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	return frand.NewCustom(key[:], 1024, 12)
}

// Sample returns k distinct indices drawn uniformly from [0, n), in draw order.
// k is clamped to n.
func Sample(src Source, n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	// Partial Fisher-Yates over a sparse permutation.
	swapped := make(map[int]int, k)
	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}
	out := make([]int, k)
	for i := 0; i < k; i++ {
		j := i + src.Intn(n-i)
		vi, vj := at(i), at(j)
		swapped[i], swapped[j] = vj, vi
		out[i] = vj
	}
	return out
}

// Pick returns a uniformly chosen element of items. It panics on an empty slice.
func Pick[T any](src Source, items []T) T {
	return items[src.Intn(len(items))]
}
