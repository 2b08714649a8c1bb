package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"
	"time"

	"github.com/kestrel-chess/kestrel/internal/arena"
	"github.com/kestrel-chess/kestrel/internal/evalbuilder"
	"github.com/kestrel-chess/kestrel/pkg/engine"
)

// arenaHandler plays engine A against engine B. The engines differ by
// evaluation function and skill level.
func arenaHandler(args []string) error {
	var (
		evalA, evalB   = "", ""
		skillA, skillB = 20, 20
		nodes          = 0
		moveTime       = 100 * time.Millisecond
		concurrency    = runtime.NumCPU() / 2
	)

	var flagset = flag.NewFlagSet("arena", flag.ExitOnError)
	flagset.StringVar(&evalA, "evala", evalA, "evaluation function of engine A")
	flagset.StringVar(&evalB, "evalb", evalB, "evaluation function of engine B")
	flagset.IntVar(&skillA, "skilla", skillA, "skill level of engine A")
	flagset.IntVar(&skillB, "skillb", skillB, "skill level of engine B")
	flagset.IntVar(&nodes, "nodes", nodes, "fixed nodes per move, overrides movetime")
	flagset.DurationVar(&moveTime, "movetime", moveTime, "fixed time per move")
	flagset.IntVar(&concurrency, "concurrency", concurrency, "games played in parallel")
	flagset.Parse(args)

	var builder = func(evalName string, skill int) (func() arena.Engine, error) {
		var evalBuilder, err = evalbuilder.Get(evalName)
		if err != nil {
			return nil, err
		}
		return func() arena.Engine {
			var eng = engine.NewEngine(evalBuilder)
			eng.Options.Hash = 16
			eng.Options.SkillLevel = skill
			return eng
		}, nil
	}
	var newEngineA, err = builder(evalA, skillA)
	if err != nil {
		return err
	}
	newEngineB, err := builder(evalB, skillB)
	if err != nil {
		return err
	}

	var tc = arena.TimeControl{FixedNodes: nodes, FixedTime: moveTime}
	stat, err := arena.Run(context.Background(), arena.DefaultOpenings(),
		newEngineA, newEngineB, tc, max(1, concurrency), logger)
	fmt.Printf("Score: %v - %v - %v  [%.3f]\n", stat.Wins, stat.Losses, stat.Draws, stat.WinningFraction)
	fmt.Printf("Elo difference: %.1f, LOS: %.1f %%\n", stat.EloDifference, stat.Los*100)
	return err
}
