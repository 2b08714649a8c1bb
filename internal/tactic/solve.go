package tactic

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/kestrel-chess/kestrel/pkg/common"
)

type Engine interface {
	Search(ctx context.Context, searchParams common.SearchParams) common.SearchInfo
}

type Result struct {
	Item   *EpdItem
	Move   common.Move
	Solved bool
	Depth  int
	Nodes  int64
	Time   time.Duration
}

type Summary struct {
	Total  int
	Solved int
	Nodes  int64
}

// SolveTactic searches every position for moveTime. Each engine from the
// pool serves one position at a time, so len(engines) positions run in
// parallel.
func SolveTactic(ctx context.Context, tests []EpdItem, engines []Engine,
	moveTime time.Duration, logger zerolog.Logger) ([]Result, Summary, error) {

	var results = make([]Result, len(tests))
	var pool = make(chan Engine, len(engines))
	for _, eng := range engines {
		pool <- eng
	}

	var g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(len(engines))
	for i := range tests {
		var test = &tests[i]
		var result = &results[i]
		g.Go(func() error {
			var eng = <-pool
			defer func() { pool <- eng }()
			var si = eng.Search(gctx, common.SearchParams{
				Positions: []common.Position{test.Position},
				Limits:    common.LimitsType{MoveTime: int(moveTime.Milliseconds())},
			})
			*result = Result{
				Item:  test,
				Depth: si.Depth,
				Nodes: si.Nodes,
				Time:  si.Time,
			}
			if len(si.MainLine) != 0 {
				result.Move = si.MainLine[0]
				result.Solved = lo.Contains(test.BestMoves, result.Move)
			}
			logger.Debug().
				Str("id", test.ID).
				Stringer("move", result.Move).
				Bool("solved", result.Solved).
				Int("depth", result.Depth).
				Msg("epd searched")
			return gctx.Err()
		})
	}
	var err = g.Wait()

	var summary = Summary{
		Total:  len(results),
		Solved: lo.CountBy(results, func(r Result) bool { return r.Solved }),
		Nodes:  lo.SumBy(results, func(r Result) int64 { return r.Nodes }),
	}
	return results, summary, err
}
