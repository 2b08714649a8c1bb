package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"
	"time"

	"github.com/kestrel-chess/kestrel/internal/tactic"
)

func tacticHandler(args []string) error {
	var (
		filepath = mapPath("~/chess/tests/tests.epd")
		evalName = ""
		moveTime = 3 * time.Second
		workers  = runtime.NumCPU()
		hash     = 64
	)

	var flagset = flag.NewFlagSet("tactic", flag.ExitOnError)
	flagset.StringVar(&filepath, "epd", filepath, "epd file, may be zstd compressed")
	flagset.StringVar(&evalName, "eval", evalName, "evaluation function")
	flagset.DurationVar(&moveTime, "movetime", moveTime, "time per position")
	flagset.IntVar(&workers, "workers", workers, "positions searched in parallel")
	flagset.IntVar(&hash, "hash", hash, "hash per engine in MB")
	flagset.Parse(args)

	logger.Info().
		Str("filepath", filepath).
		Str("eval", evalName).
		Dur("movetime", moveTime).
		Int("workers", workers).
		Msg("solveTactic started")
	defer logger.Info().Msg("solveTactic finished")

	var tests, err = tactic.LoadEpd(filepath, logger)
	if err != nil {
		return err
	}
	var engines []tactic.Engine
	for i := 0; i < workers; i++ {
		var eng, err = newEngine(evalName, hash)
		if err != nil {
			return err
		}
		eng.Options.ProgressMinNodes = 0
		eng.Prepare()
		engines = append(engines, eng)
	}

	var results, summary, solveErr = tactic.SolveTactic(context.Background(), tests, engines, moveTime, logger)
	for _, r := range results {
		if !r.Solved {
			fmt.Printf("%v %v got %v\n", r.Item.ID, r.Item.Content, r.Move)
		}
	}
	fmt.Printf("Solved: %v, Total: %v, Nodes: %v\n", summary.Solved, summary.Total, summary.Nodes)
	return solveErr
}
