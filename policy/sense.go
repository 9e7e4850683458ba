// Package policy turns a belief set into sense and move decisions.
package policy

import (
	"math"
	"runtime"

	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/orwellian225/ai-assignment/belief"
	"github.com/orwellian225/ai-assignment/reconmg"
	"github.com/orwellian225/ai-assignment/rng"
)

// SenseChooser picks the centre of the next 3x3 sense window.
type SenseChooser interface {
	Choose(set belief.Set, candidates []reconmg.Square) reconmg.Square
}

// Histogram counts, per square, how many hypotheses hold each piece code there.
// Index 0 counts empty squares.
type Histogram [64][16]int

// NewHistogram tallies the placements of every hypothesis in the set.
func NewHistogram(set belief.Set) Histogram {
	boards := set.Boards(reconmg.White)
	shards := runtime.GOMAXPROCS(0)
	if shards > len(boards) {
		shards = len(boards)
	}
	if shards == 0 {
		return Histogram{}
	}
	size := (len(boards) + shards - 1) / shards
	parts := make([]Histogram, shards)

	var g errgroup.Group
	for i := 0; i < shards; i++ {
		i := i
		lo, hi := i*size, (i+1)*size
		if hi > len(boards) {
			hi = len(boards)
		}
		g.Go(func() error {
			h := &parts[i]
			for _, b := range boards[lo:hi] {
				for sq := reconmg.Square(0); sq < 64; sq++ {
					h[sq][b.PieceAt(sq)]++
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	var total Histogram
	for i := range parts {
		for sq := range total {
			for p := range total[sq] {
				total[sq][p] += parts[i][sq][p]
			}
		}
	}
	return total
}

// Entropy returns the Shannon entropy in bits of each square's occupancy distribution.
func (h *Histogram) Entropy() [64]float64 {
	var out [64]float64
	for sq := range h {
		n := 0
		for _, c := range h[sq] {
			n += c
		}
		if n == 0 {
			continue
		}
		var e float64
		for _, c := range h[sq] {
			if c == 0 {
				continue
			}
			p := float64(c) / float64(n)
			e -= p * math.Log2(p)
		}
		out[sq] = e
	}
	return out
}

// Smooth sums each square's value with its existing king-adjacent neighbours, giving
// the information a 3x3 window centred there would reveal.
func Smooth(values [64]float64) [64]float64 {
	var out [64]float64
	for sq := reconmg.Square(0); sq < 64; sq++ {
		var s float64
		for dr := -1; dr <= 1; dr++ {
			for df := -1; df <= 1; df++ {
				f, r := sq.File()+df, sq.Rank()+dr
				if f < 0 || f > 7 || r < 0 || r > 7 {
					continue
				}
				s += values[reconmg.NewSquare(f, r)]
			}
		}
		out[sq] = s
	}
	return out
}

func interior(sq reconmg.Square) bool {
	f, r := sq.File(), sq.Rank()
	return f >= 1 && f <= 6 && r >= 1 && r <= 6
}

// sensePool restricts candidates to the interior 6x6, or keeps all of them when none
// is interior. The result is sorted.
func sensePool(candidates []reconmg.Square) []reconmg.Square {
	var pool []reconmg.Square
	for _, sq := range candidates {
		if interior(sq) {
			pool = append(pool, sq)
		}
	}
	if len(pool) == 0 {
		pool = append(pool, candidates...)
	}
	slices.Sort(pool)
	return slices.Compact(pool)
}

const scoreTolerance = 1e-9

// Entropy senses where the belief set disagrees most, measured over whole windows.
type Entropy struct {
	Src rng.Source
}

// Choose returns the interior candidate whose window has the highest summed entropy,
// breaking ties uniformly at random. An empty belief set gives a uniform random
// interior candidate. NoSquare is returned only when there are no candidates.
func (p Entropy) Choose(set belief.Set, candidates []reconmg.Square) reconmg.Square {
	pool := sensePool(candidates)
	if len(pool) == 0 {
		return reconmg.NoSquare
	}
	if set.Len() == 0 {
		return rng.Pick(p.Src, pool)
	}

	h := NewHistogram(set)
	scores := Smooth(h.Entropy())
	best := math.Inf(-1)
	var ties []reconmg.Square
	for _, sq := range pool {
		switch s := scores[sq]; {
		case s > best+scoreTolerance:
			best = s
			ties = append(ties[:0], sq)
		case s >= best-scoreTolerance:
			ties = append(ties, sq)
		}
	}
	return rng.Pick(p.Src, ties)
}

// RandomSense ignores the belief set and senses a uniform random interior candidate.
type RandomSense struct {
	Src rng.Source
}

func (p RandomSense) Choose(_ belief.Set, candidates []reconmg.Square) reconmg.Square {
	pool := sensePool(candidates)
	if len(pool) == 0 {
		return reconmg.NoSquare
	}
	return rng.Pick(p.Src, pool)
}

// AllSquares lists a1..h8, the candidate list when the referee offers every square.
func AllSquares() []reconmg.Square {
	out := make([]reconmg.Square, 64)
	for i := range out {
		out[i] = reconmg.Square(i)
	}
	return out
}
