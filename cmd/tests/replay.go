package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/kestrel-chess/kestrel/internal/games"
	"github.com/kestrel-chess/kestrel/pkg/common"
)

func replayHandler(args []string) error {
	var filepath = mapPath("~/chess/games.pgn")

	var flagset = flag.NewFlagSet("replay", flag.ExitOnError)
	flagset.StringVar(&filepath, "pgn", filepath, "pgn file, plain or .pgn.zst")
	flagset.Parse(args)

	var outcomes = make(map[common.Outcome]int)
	var stats, err = games.ReplayFile(context.Background(), filepath, logger,
		func(tags map[string]string, positions []common.Position) error {
			outcomes[common.GameOutcome(positions)]++
			return nil
		})
	fmt.Printf("Games: %v, Skipped: %v, Positions: %v, Mismatches: %v\n",
		stats.Games, stats.Skipped, stats.Positions, stats.Mismatches)
	for outcome, count := range outcomes {
		fmt.Printf("%v: %v\n", outcome, count)
	}
	return err
}
