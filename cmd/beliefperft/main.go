// Command beliefperft measures how the belief set grows when every ply passes without
// feedback, the worst case for the player.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/orwellian225/ai-assignment/belief"
	"github.com/orwellian225/ai-assignment/reconmg"
	"github.com/orwellian225/ai-assignment/rng"
)

func main() {
	key := flag.String("key", reconmg.StartKey, "placement key to start from")
	black := flag.Bool("black", false, "black moves first")
	plies := flag.Int("plies", 0, "number of plies to evolve (required)")
	limit := flag.Int("limit", 0, "cap the set to this size after each ply (0 = no cap)")
	seed := flag.Uint64("seed", 1, "seed for the cap sampler")
	label := flag.String("label", "", "optional label prefix for each output line")
	cpuProf := flag.String("cpuprofile", "", "write CPU profile to file during run")
	flag.Parse()

	if *plies <= 0 {
		fmt.Fprintln(os.Stderr, "-plies must be > 0")
		os.Exit(2)
	}
	if _, err := reconmg.ParseKey(*key); err != nil {
		fmt.Fprintf(os.Stderr, "ParseKey error: %v\n", err)
		os.Exit(2)
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating cpuprofile: %v\n", err)
			os.Exit(2)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "start cpu profile: %v\n", err)
			os.Exit(2)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	src := rng.New(*seed)
	set := belief.New(*key)
	turn := reconmg.White
	if *black {
		turn = reconmg.Black
	}

	// Ply Size Vanished Capped Time
	for ply := 1; ply <= *plies; ply++ {
		start := time.Now()
		var vanished, capped int
		set, vanished = set.EvolveAll(turn, nil, reconmg.NoSquare)
		if *limit > 0 {
			set, capped = set.BoundSize(*limit, src)
		}
		fmt.Printf("%s \t%d \t%d \t%d \t%d \t%s\n", *label, ply, set.Len(), vanished, capped, time.Since(start))
		turn = turn.Other()
	}
}
