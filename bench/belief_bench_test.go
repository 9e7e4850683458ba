package bench

import (
	"testing"

	"github.com/orwellian225/ai-assignment/belief"
	"github.com/orwellian225/ai-assignment/policy"
	"github.com/orwellian225/ai-assignment/reconmg"
	"github.com/orwellian225/ai-assignment/rng"
)

// grown returns the set after plies feedback-free plies from the start.
func grown(b *testing.B, plies int) belief.Set {
	set := belief.Start()
	turn := reconmg.White
	for i := 0; i < plies; i++ {
		set, _ = set.EvolveAll(turn, nil, reconmg.NoSquare)
		turn = turn.Other()
	}
	if set.Len() == 0 {
		b.Fatal("empty set")
	}
	return set
}

func BenchmarkEvolveAll_Ply2(b *testing.B) {
	set := grown(b, 1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = set.EvolveAll(reconmg.Black, nil, reconmg.NoSquare)
	}
}

func BenchmarkEvolveAll_Ply3(b *testing.B) {
	set := grown(b, 2)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = set.EvolveAll(reconmg.White, nil, reconmg.NoSquare)
	}
}

func BenchmarkBoundSize(b *testing.B) {
	set := grown(b, 3)
	src := rng.New(1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = set.BoundSize(10000, src)
	}
}

func BenchmarkEntropySense_Ply2(b *testing.B) {
	set := grown(b, 2)
	p := policy.Entropy{Src: rng.New(1)}
	squares := policy.AllSquares()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Choose(set, squares)
	}
}
