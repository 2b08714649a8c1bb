package arena

import (
	"context"
	"time"

	"github.com/kestrel-chess/kestrel/pkg/common"
)

type Engine interface {
	Clear()
	Search(ctx context.Context, searchParams common.SearchParams) common.SearchInfo
}

// TimeControl is either a fixed node budget or a fixed time per move.
type TimeControl struct {
	FixedNodes int
	FixedTime  time.Duration
}

func (tc TimeControl) limits() common.LimitsType {
	if tc.FixedNodes != 0 {
		return common.LimitsType{Nodes: tc.FixedNodes}
	}
	return common.LimitsType{MoveTime: int(tc.FixedTime.Milliseconds())}
}

type GameInfo struct {
	Opening        []common.Position
	EngineAIsWhite bool
	GameNumber     int
}

const (
	ResultDraw = iota
	ResultWhiteWins
	ResultBlackWins
)

type GameResult struct {
	GameInfo  GameInfo
	Positions []common.Position
	Outcome   common.Outcome
	Result    int
}

// EngineAScore is 1, 0.5 or 0 from the point of view of engine A.
func (r GameResult) EngineAScore() float64 {
	switch {
	case r.Result == ResultDraw:
		return 0.5
	case (r.Result == ResultWhiteWins) == r.GameInfo.EngineAIsWhite:
		return 1
	default:
		return 0
	}
}

func ResultString(v int) string {
	switch v {
	case ResultWhiteWins:
		return "1-0"
	case ResultBlackWins:
		return "0-1"
	case ResultDraw:
		return "1/2-1/2"
	}
	return ""
}
