package reference

import (
	"context"
	"fmt"

	"github.com/freeeve/uci"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/kestrel-chess/kestrel/pkg/common"
)

type Engine interface {
	Search(ctx context.Context, searchParams common.SearchParams) common.SearchInfo
}

// Comparison holds both engines' verdict on one position.
type Comparison struct {
	FEN       string
	Ours      common.UciScore
	Theirs    common.UciScore
	OurMove   string
	TheirMove string
}

func (c Comparison) SameMove() bool {
	return c.OurMove == c.TheirMove
}

// Comparer searches positions to a fixed depth with our engine and with an
// external UCI engine.
type Comparer struct {
	ref    *uci.Engine
	eng    Engine
	depth  int
	logger zerolog.Logger
}

func NewComparer(enginePath string, hashMB int, eng Engine, depth int, logger zerolog.Logger) (*Comparer, error) {
	ref, err := uci.NewEngine(enginePath)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	var opts = uci.Options{
		Hash:    hashMB,
		Threads: 1,
		MultiPV: 1,
		Ponder:  false,
		OwnBook: false,
	}
	if err := ref.SetOptions(opts); err != nil {
		ref.Close()
		return nil, fmt.Errorf("set options: %w", err)
	}
	return &Comparer{
		ref:    ref,
		eng:    eng,
		depth:  depth,
		logger: logger,
	}, nil
}

func (c *Comparer) Close() {
	c.ref.Close()
}

func (c *Comparer) Compare(ctx context.Context, fen string) (Comparison, error) {
	var p, err = common.NewPositionFromFEN(fen)
	if err != nil {
		return Comparison{}, err
	}
	var result = Comparison{FEN: fen}

	if err := c.ref.SetFEN(fen); err != nil {
		return Comparison{}, fmt.Errorf("set FEN: %w", err)
	}
	results, err := c.ref.GoDepth(c.depth, uci.HighestDepthOnly)
	if err != nil {
		return Comparison{}, fmt.Errorf("reference search: %w", err)
	}
	if len(results.Results) != 0 {
		var best = lo.MaxBy(results.Results, func(a, b uci.ScoreResult) bool {
			return a.Depth > b.Depth
		})
		result.Theirs = toUciScore(best)
	}
	result.TheirMove = results.BestMove

	var si = c.eng.Search(ctx, common.SearchParams{
		Positions: []common.Position{p},
		Limits:    common.LimitsType{Depth: c.depth},
	})
	result.Ours = si.Score
	if len(si.MainLine) != 0 {
		result.OurMove = si.MainLine[0].String()
	}

	c.logger.Debug().
		Str("fen", fen).
		Str("our_move", result.OurMove).
		Str("their_move", result.TheirMove).
		Interface("ours", result.Ours).
		Interface("theirs", result.Theirs).
		Msg("compared")
	return result, nil
}

// CompareAll stops at the first failing position.
func (c *Comparer) CompareAll(ctx context.Context, fens []string) ([]Comparison, error) {
	var result []Comparison
	for _, fen := range fens {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		var cmp, err = c.Compare(ctx, fen)
		if err != nil {
			return result, fmt.Errorf("%v: %w", fen, err)
		}
		result = append(result, cmp)
	}
	return result, nil
}

// Agreement is the share of positions where both engines chose the same move.
func Agreement(comparisons []Comparison) float64 {
	if len(comparisons) == 0 {
		return 0
	}
	var same = lo.CountBy(comparisons, Comparison.SameMove)
	return float64(same) / float64(len(comparisons))
}

func toUciScore(r uci.ScoreResult) common.UciScore {
	if r.Mate {
		return common.UciScore{Mate: r.Score}
	}
	return common.UciScore{Centipawns: r.Score}
}
