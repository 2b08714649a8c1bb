package arena

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kestrel-chess/kestrel/pkg/common"
	"github.com/kestrel-chess/kestrel/pkg/engine"
	material "github.com/kestrel-chess/kestrel/pkg/eval/material"
)

func newTestEngine() Engine {
	var eng = engine.NewEngine(func() engine.Evaluator {
		return material.NewEvaluationService()
	})
	eng.Options.Hash = 1
	return eng
}

func openingFromFen(t *testing.T, fen string) []common.Position {
	t.Helper()
	var positions, err = common.SetPosition(fen, nil)
	if err != nil {
		t.Fatal(err)
	}
	return positions
}

func TestPlayGame(t *testing.T) {
	var tests = []struct {
		fen            string
		engineAIsWhite bool
		result         int
		outcome        common.Outcome
		scoreA         float64
	}{
		{"6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", true, ResultWhiteWins, common.OutcomeCheckmate, 1},
		{"6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", false, ResultWhiteWins, common.OutcomeCheckmate, 0},
		{"8/8/4k3/8/8/4K3/8/8 w - - 0 1", true, ResultDraw, common.OutcomeInsufficientMaterial, 0.5},
	}
	var tc = TimeControl{FixedNodes: 5000}
	for _, test := range tests {
		var info = GameInfo{
			Opening:        openingFromFen(t, test.fen),
			EngineAIsWhite: test.engineAIsWhite,
		}
		var res, err = PlayGame(context.Background(), newTestEngine(), newTestEngine(), tc, info)
		if err != nil {
			t.Fatal(err)
		}
		if res.Result != test.result || res.Outcome != test.outcome || res.EngineAScore() != test.scoreA {
			t.Error(test.fen, res.Result, res.Outcome, res.EngineAScore())
		}
	}
}

func TestRun(t *testing.T) {
	var openings = [][]common.Position{
		openingFromFen(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1"),
	}
	var stat, err = Run(context.Background(), openings, newTestEngine, newTestEngine,
		TimeControl{FixedNodes: 5000}, 2, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if stat.Wins != 1 || stat.Losses != 1 || stat.Draws != 0 {
		t.Error(stat)
	}
}

func TestDefaultOpenings(t *testing.T) {
	var openings = DefaultOpenings()
	if len(openings) != len(defaultOpenings) {
		t.Fatal(len(openings))
	}
	for _, opening := range openings {
		if common.GameOutcome(opening) != common.OutcomeNone {
			t.Error(opening[len(opening)-1].String())
		}
	}
	if _, err := ParseOpenings([]string{"e2e4 e2e4"}); err == nil {
		t.Error("illegal opening accepted")
	}
}

func TestComputeStat(t *testing.T) {
	var stat = computeStat(1, 1, 2)
	if stat.WinningFraction != 0.5 || math.Abs(stat.EloDifference) > 1e-9 || stat.Los != 0.5 {
		t.Error(stat)
	}
	stat = computeStat(3, 1, 0)
	if stat.WinningFraction != 0.75 || stat.EloDifference <= 0 || stat.Los <= 0.5 {
		t.Error(stat)
	}
}
