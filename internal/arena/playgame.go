package arena

import (
	"context"
	"fmt"

	"github.com/kestrel-chess/kestrel/pkg/common"
)

// PlayGame plays one game from the opening until the rules end it. The
// engine to move always receives the full game so that it can see
// repetitions.
func PlayGame(ctx context.Context, engineA, engineB Engine, tc TimeControl, info GameInfo) (GameResult, error) {
	engineA.Clear()
	engineB.Clear()

	var positions = append([]common.Position(nil), info.Opening...)
	var limits = tc.limits()

	for {
		var outcome = common.GameOutcome(positions)
		var curPosition = &positions[len(positions)-1]
		if outcome != common.OutcomeNone {
			var result = ResultDraw
			if outcome == common.OutcomeCheckmate {
				if curPosition.WhiteMove {
					result = ResultBlackWins
				} else {
					result = ResultWhiteWins
				}
			}
			return GameResult{GameInfo: info, Positions: positions, Outcome: outcome, Result: result}, nil
		}
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}

		var eng = engineB
		if curPosition.WhiteMove == info.EngineAIsWhite {
			eng = engineA
		}
		var searchResult = eng.Search(ctx, common.SearchParams{
			Positions: positions,
			Limits:    limits,
		})
		if len(searchResult.MainLine) == 0 {
			return GameResult{}, fmt.Errorf("game %v: no move in %v", info.GameNumber, curPosition)
		}
		var child common.Position
		if !curPosition.MakeMove(searchResult.MainLine[0], &child) {
			return GameResult{}, fmt.Errorf("game %v: bad move %v in %v: %w",
				info.GameNumber, searchResult.MainLine[0], curPosition, common.ErrIllegalMove)
		}
		positions = append(positions, child)
	}
}
