package main

import (
	"flag"
	"os"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/kestrel-chess/kestrel/internal/evalbuilder"
	"github.com/kestrel-chess/kestrel/internal/logx"
	"github.com/kestrel-chess/kestrel/pkg/engine"
	"github.com/kestrel-chess/kestrel/pkg/uci"
)

const (
	name   = "Kestrel"
	author = "Kestrel developers"
)

var (
	versionName = "dev"
	buildDate   = "(null)"
	gitRevision = "(null)"
)

func main() {
	var (
		flgEval     = flag.String("eval", "", "evaluation function: tapered or material")
		flgHash     = flag.Int("hash", 16, "transposition table size in MB, 0 disables it")
		flgThreads  = flag.Int("threads", 1, "search threads")
		flgLogLevel = flag.String("log-level", "info", "log level written to stderr")
	)
	flag.Parse()

	var level, err = logx.ParseLevel(*flgLogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	var logger = logx.NewLogger(os.Stderr, level)
	if err != nil {
		logger.Warn().Err(err).Msg("fallback to debug level")
	}

	logger.Info().
		Str("version", versionName).
		Str("build_date", buildDate).
		Str("git_revision", gitRevision).
		Str("runtime", runtime.Version()).
		Str("goarch", runtime.GOARCH).
		Str("goos", runtime.GOOS).
		Int("num_cpu", runtime.NumCPU()).
		Msg(name)

	evalBuilder, err := evalbuilder.Get(*flgEval)
	if err != nil {
		logger.Fatal().Err(err).Strs("known", evalbuilder.Names).Msg("bad eval")
	}

	var eng = engine.NewEngine(evalBuilder)
	eng.Options.Hash = *flgHash
	eng.Options.Threads = *flgThreads
	eng.Options.Logger = logger

	var protocol = uci.New(name, author, versionName, eng,
		[]uci.Option{
			&uci.IntOption{Name: "Hash", Min: 0, Max: 1 << 16, Value: &eng.Options.Hash},
			&uci.IntOption{Name: "Threads", Min: 1, Max: runtime.NumCPU(), Value: &eng.Options.Threads},
			&uci.IntOption{Name: "Skill Level", Min: 0, Max: 20, Value: &eng.Options.SkillLevel},
			&uci.ButtonOption{Name: "Clear Hash", Action: eng.Clear},
		},
		logger,
	)
	if err := protocol.Run(os.Stdin, os.Stdout); err != nil {
		logger.Error().Err(err).Msg("read stdin")
		os.Exit(1)
	}
}
