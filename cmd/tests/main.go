package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/kestrel-chess/kestrel/internal/evalbuilder"
	"github.com/kestrel-chess/kestrel/internal/logx"
	"github.com/kestrel-chess/kestrel/pkg/engine"
)

var logger = logx.NewLogger(os.Stderr, zerolog.InfoLevel)

func main() {
	var cmds = commands{
		"perft":     perftHandler,
		"tactic":    tacticHandler,
		"bench":     benchmarkHandler,
		"replay":    replayHandler,
		"reference": referenceHandler,
		"arena":     arenaHandler,
	}
	if err := cmds.execute(os.Args[1:]); err != nil {
		logger.Fatal().Err(err).Msg("tests failed")
	}
}

func newEngine(evalName string, hash int) (*engine.Engine, error) {
	var evalBuilder, err = evalbuilder.Get(evalName)
	if err != nil {
		return nil, err
	}
	var eng = engine.NewEngine(evalBuilder)
	eng.Options.Hash = hash
	eng.Options.Logger = logger
	return eng, nil
}
