package engine

import (
	"context"
	"testing"
	"time"

	. "github.com/kestrel-chess/kestrel/pkg/common"
	material "github.com/kestrel-chess/kestrel/pkg/eval/material"
	tapered "github.com/kestrel-chess/kestrel/pkg/eval/tapered"
)

func newTestEngine(hash int) *Engine {
	var e = NewEngine(func() Evaluator {
		return tapered.NewEvaluationService()
	})
	e.Options.Hash = hash
	e.Options.ProgressMinNodes = 0
	return e
}

func searchFen(t *testing.T, e *Engine, fen string, limits LimitsType) SearchInfo {
	t.Helper()
	var p, err = NewPositionFromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	return e.Search(context.Background(), SearchParams{
		Positions: []Position{p},
		Limits:    limits,
	})
}

func checkLegal(t *testing.T, fen string, move Move) {
	t.Helper()
	var p, err = NewPositionFromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range p.GenerateLegalMoves() {
		if m == move {
			return
		}
	}
	t.Errorf("%v: illegal move %v", fen, move)
}

func TestMateInTwo(t *testing.T) {
	const fen = "r2qkb1r/pp2nppp/3p4/2pNN1B1/2BnP3/3P4/PPP2PPP/R2bK2R w KQkq - 1 1"
	var e = newTestEngine(16)
	var si = searchFen(t, e, fen, LimitsType{Depth: 5})
	if si.Score.Mate != 2 {
		t.Fatal(si.Score, si.MainLine)
	}
	if si.MainLine[0].String() != "d5f6" {
		t.Error(si.MainLine)
	}
	if len(si.MainLine) == 3 {
		var moves []string
		for _, m := range si.MainLine {
			moves = append(moves, m.String())
		}
		var positions, err = SetPosition(fen, moves)
		if err != nil {
			t.Fatal(err)
		}
		if GameOutcome(positions) != OutcomeCheckmate {
			t.Error(moves)
		}
	}
}

func TestSingleLegalMove(t *testing.T) {
	const fen = "7k/8/6K1/8/8/8/8/R7 b - - 0 1"
	var e = newTestEngine(16)
	var start = time.Now()
	var si = searchFen(t, e, fen, LimitsType{MoveTime: 10000})
	if time.Since(start) > time.Second {
		t.Error("single legal move took", time.Since(start))
	}
	if len(si.MainLine) != 1 || si.MainLine[0].String() != "h8g8" {
		t.Error(si.MainLine)
	}
}

func TestNoLegalMoves(t *testing.T) {
	var tests = []struct {
		fen     string
		outcome Outcome
	}{
		{"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", OutcomeStalemate},
		{"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", OutcomeCheckmate},
	}
	var e = newTestEngine(16)
	for _, test := range tests {
		var si = searchFen(t, e, test.fen, LimitsType{Depth: 3})
		if si.Outcome != test.outcome || len(si.MainLine) != 0 {
			t.Error(test.fen, si.Outcome, si.MainLine)
		}
	}
}

// Hash hits may only speed the search up, never change the chosen move on
// positions with a single clearly best move.
func TestTransTableDoesNotChangeBestMove(t *testing.T) {
	var tests = []struct {
		fen  string
		move string
	}{
		{"4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1", "d1d5"},
		{"r2qkb1r/pp2nppp/3p4/2pNN1B1/2BnP3/3P4/PPP2PPP/R2bK2R w KQkq - 1 1", "d5f6"},
		{"6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", "a1a8"},
	}
	for _, test := range tests {
		for _, hash := range []int{0, 16} {
			var e = NewEngine(func() Evaluator {
				return material.NewEvaluationService()
			})
			e.Options.Hash = hash
			var si = searchFen(t, e, test.fen, LimitsType{Depth: 4})
			if len(si.MainLine) == 0 || si.MainLine[0].String() != test.move {
				t.Error(test.fen, hash, si.MainLine)
			}
		}
	}
}

func TestNodeLimit(t *testing.T) {
	var e = newTestEngine(16)
	var si = searchFen(t, e, InitialPositionFen, LimitsType{Nodes: 5000})
	if !si.Aborted {
		t.Error("search should be aborted by node limit")
	}
	if si.Depth < 1 || len(si.MainLine) == 0 {
		t.Fatal(si)
	}
	if si.Nodes < 5000 {
		t.Error(si.Nodes)
	}
	checkLegal(t, InitialPositionFen, si.MainLine[0])
}

func TestDeterministicNodeBudget(t *testing.T) {
	const fen = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	var e = newTestEngine(16)
	var first = searchFen(t, e, fen, LimitsType{Nodes: 20000})
	e.Clear()
	var second = searchFen(t, e, fen, LimitsType{Nodes: 20000})
	if first.MainLine[0] != second.MainLine[0] ||
		first.Nodes != second.Nodes ||
		first.Depth != second.Depth {
		t.Error(first, second)
	}
}

func TestStop(t *testing.T) {
	var e = newTestEngine(16)
	var p, _ = NewPositionFromFEN(InitialPositionFen)
	var result = make(chan SearchInfo, 1)
	go func() {
		result <- e.Search(context.Background(), SearchParams{
			Positions: []Position{p},
			Limits:    LimitsType{Infinite: true},
		})
	}()
	time.Sleep(100 * time.Millisecond)
	e.Stop()
	select {
	case si := <-result:
		if !si.Aborted || len(si.MainLine) == 0 {
			t.Error(si)
		}
		checkLegal(t, InitialPositionFen, si.MainLine[0])
	case <-time.After(5 * time.Second):
		t.Fatal("search did not stop")
	}
}

func TestContextCancel(t *testing.T) {
	var e = newTestEngine(16)
	var p, _ = NewPositionFromFEN(InitialPositionFen)
	var ctx, cancel = context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	var si = e.Search(ctx, SearchParams{
		Positions: []Position{p},
		Limits:    LimitsType{Infinite: true},
	})
	if !si.Aborted || len(si.MainLine) == 0 {
		t.Error(si)
	}
}

func TestSearchMoves(t *testing.T) {
	var p, _ = NewPositionFromFEN(InitialPositionFen)
	var only = p.ParseMoveLAN("a2a3")
	var e = newTestEngine(16)
	var si = e.Search(context.Background(), SearchParams{
		Positions:   []Position{p},
		Limits:      LimitsType{Depth: 3},
		SearchMoves: []Move{only},
	})
	if len(si.MainLine) == 0 || si.MainLine[0] != only {
		t.Error(si.MainLine)
	}
}

func TestLazySmp(t *testing.T) {
	const fen = "4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1"
	var e = newTestEngine(16)
	e.Options.Threads = 4
	var si = searchFen(t, e, fen, LimitsType{Depth: 6})
	if len(si.MainLine) == 0 || si.MainLine[0].String() != "d1d5" {
		t.Error(si.MainLine)
	}
	if si.Depth < 6 {
		t.Error(si.Depth)
	}
}

func TestLazySmpProgress(t *testing.T) {
	var e = newTestEngine(1)
	e.Options.Threads = 4
	var p, _ = NewPositionFromFEN("r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3")
	var reports int
	var si = e.Search(context.Background(), SearchParams{
		Positions: []Position{p},
		Limits:    LimitsType{Depth: 7},
		Progress: func(si SearchInfo) {
			reports++
			if si.HashFull < 0 || si.HashFull > 1000 {
				t.Error(si.HashFull)
			}
		},
	})
	if reports == 0 || si.Depth < 7 {
		t.Error(reports, si.Depth)
	}
}

func TestSkillLevel(t *testing.T) {
	var e = newTestEngine(16)
	e.Options.SkillLevel = 0
	var si = searchFen(t, e, InitialPositionFen, LimitsType{Depth: 10})
	if si.Depth != 1 {
		t.Error(si.Depth)
	}
	checkLegal(t, InitialPositionFen, si.MainLine[0])
}

func TestRepetitionDraw(t *testing.T) {
	// after Nf3 Nf6 Ng1 Ng8 Nf3 Nf6 Ng1 the start position can be repeated a third time
	var positions, err = SetPosition(InitialPositionFen,
		[]string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1"})
	if err != nil {
		t.Fatal(err)
	}
	var e = NewEngine(func() Evaluator {
		return material.NewEvaluationService()
	})
	var si = e.Search(context.Background(), SearchParams{
		Positions: positions,
		Limits:    LimitsType{Depth: 4},
	})
	if si.Score.Mate != 0 || si.Score.Centipawns != 0 {
		t.Error(si.Score, si.MainLine)
	}
}

func TestProgress(t *testing.T) {
	var e = newTestEngine(16)
	var p, _ = NewPositionFromFEN(InitialPositionFen)
	var depths []int
	var si = e.Search(context.Background(), SearchParams{
		Positions: []Position{p},
		Limits:    LimitsType{Depth: 4},
		Progress: func(si SearchInfo) {
			depths = append(depths, si.Depth)
		},
	})
	if len(depths) != 4 || si.Depth != 4 {
		t.Error(depths, si.Depth)
	}
	for i := 1; i < len(depths); i++ {
		if depths[i] <= depths[i-1] {
			t.Error(depths)
		}
	}
}

func searchIterations(t *testing.T, fen string, depth int) []SearchInfo {
	t.Helper()
	var p, err = NewPositionFromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	var iterations []SearchInfo
	newTestEngine(16).Search(context.Background(), SearchParams{
		Positions: []Position{p},
		Limits:    LimitsType{Depth: depth},
		Progress: func(si SearchInfo) {
			iterations = append(iterations, si)
		},
	})
	if len(iterations) != depth {
		t.Fatal(fen, len(iterations))
	}
	return iterations
}

func TestMateScoreKeptByDeeperIterations(t *testing.T) {
	const fen = "r2qkb1r/pp2nppp/3p4/2pNN1B1/2BnP3/3P4/PPP2PPP/R2bK2R w KQkq - 1 1"
	var mate = 0
	for _, si := range searchIterations(t, fen, 6) {
		if mate != 0 && (si.Score.Mate <= 0 || si.Score.Mate > mate) {
			t.Fatal(si.Depth, si.Score, mate)
		}
		if si.Score.Mate > 0 {
			mate = si.Score.Mate
		}
	}
	if mate != 2 {
		t.Error(mate)
	}
}

func TestRootMoveStable(t *testing.T) {
	var tests = []struct {
		fen  string
		move string
	}{
		{"4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1", "d1d5"},
		{"8/P7/8/8/8/8/k7/4K3 w - - 0 1", "a7a8q"},
	}
	for _, test := range tests {
		var iterations = searchIterations(t, test.fen, 6)
		for _, si := range iterations[len(iterations)-3:] {
			if len(si.MainLine) == 0 || si.MainLine[0].String() != test.move {
				t.Error(test.fen, si.Depth, si.MainLine)
			}
		}
	}
}

func TestUciScore(t *testing.T) {
	var tests = []struct {
		value int
		want  UciScore
	}{
		{35, UciScore{Centipawns: 35}},
		{winIn(1), UciScore{Mate: 1}},
		{winIn(3), UciScore{Mate: 2}},
		{lossIn(2), UciScore{Mate: -1}},
		{lossIn(4), UciScore{Mate: -2}},
	}
	for _, test := range tests {
		if got := newUciScore(test.value); got != test.want {
			t.Error(test.value, got, test.want)
		}
	}
}

func TestCalcLimits(t *testing.T) {
	var soft, hard = calcLimits(60*time.Second, time.Second, 0)
	if !(0 < soft && soft < hard && hard < 60*time.Second) {
		t.Error(soft, hard)
	}
	soft, hard = calcLimits(100*time.Millisecond, 0, 0)
	if soft <= 0 || hard <= 0 || hard > 100*time.Millisecond {
		t.Error(soft, hard)
	}
}
