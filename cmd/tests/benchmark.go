package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/kestrel-chess/kestrel/internal/tactic"
	"github.com/kestrel-chess/kestrel/pkg/common"
)

func benchmarkHandler(args []string) error {
	var (
		filepath = mapPath("~/chess/tests/tests.epd")
		evalName = ""
		depth    = 10
	)

	var flagset = flag.NewFlagSet("bench", flag.ExitOnError)
	flagset.StringVar(&filepath, "epd", filepath, "epd file with benchmark positions")
	flagset.StringVar(&evalName, "eval", evalName, "evaluation function")
	flagset.IntVar(&depth, "depth", depth, "search depth")
	flagset.Parse(args)

	logger.Info().
		Str("eval", evalName).
		Int("depth", depth).
		Msg("benchmark started")
	defer logger.Info().Msg("benchmark finished")

	var tests, err = tactic.LoadEpd(filepath, logger)
	if err != nil {
		return err
	}
	var eng, engErr = newEngine(evalName, 128)
	if engErr != nil {
		return engErr
	}
	eng.Prepare()

	var ctx = context.Background()
	var start = time.Now()
	var nodes int64
	for i := range tests {
		var test = &tests[i]
		eng.Clear()
		var searchInfo = eng.Search(ctx, common.SearchParams{
			Positions: []common.Position{test.Position},
			Limits:    common.LimitsType{Depth: depth},
		})
		nodes += searchInfo.Nodes
	}
	var elapsed = time.Since(start)
	fmt.Println("Time", elapsed)
	fmt.Println("Nodes", nodes)
	fmt.Println("kNPS", nodes/(elapsed.Milliseconds()+1))
	return nil
}
