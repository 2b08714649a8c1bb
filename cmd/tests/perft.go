package main

import (
	"flag"
	"fmt"
	"sort"
	"time"

	"github.com/kestrel-chess/kestrel/pkg/common"
)

func perftHandler(args []string) error {
	var (
		fen    = common.InitialPositionFen
		depth  = 5
		divide = false
	)

	var flagset = flag.NewFlagSet("perft", flag.ExitOnError)
	flagset.StringVar(&fen, "fen", fen, "position")
	flagset.IntVar(&depth, "depth", depth, "perft depth")
	flagset.BoolVar(&divide, "divide", divide, "print node count per root move")
	flagset.Parse(args)

	var p, err = common.NewPositionFromFEN(fen)
	if err != nil {
		return err
	}

	var start = time.Now()
	if divide {
		var counts = common.PerftDivide(&p, depth)
		var moves []string
		var total = 0
		for move, count := range counts {
			moves = append(moves, move)
			total += count
		}
		sort.Strings(moves)
		for _, move := range moves {
			fmt.Printf("%v: %v\n", move, counts[move])
		}
		fmt.Println("Nodes", total)
	} else {
		fmt.Println("Nodes", common.Perft(&p, depth))
	}
	fmt.Println("Time", time.Since(start))
	return nil
}
