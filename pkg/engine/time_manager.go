package engine

import (
	"context"
	"sync/atomic"
	"time"

	. "github.com/kestrel-chess/kestrel/pkg/common"
)

// timeManager decides when iterative deepening stops. The done flag is
// polled by the search threads; it is raised by the budget checks below or
// when the search context is cancelled.
type timeManager struct {
	start     time.Time
	limits    LimitsType
	softLimit time.Duration
	hardLimit time.Duration
	cancel    context.CancelFunc
	release   func() bool
	done      atomic.Bool
	finished  atomic.Bool
}

func newTimeManager(ctx context.Context, start time.Time,
	limits LimitsType, p *Position) *timeManager {

	var tm = &timeManager{
		start:  start,
		limits: limits,
	}

	if limits.MoveTime > 0 {
		tm.hardLimit = time.Duration(limits.MoveTime) * time.Millisecond
	} else if !limits.Infinite && (limits.WhiteTime > 0 || limits.BlackTime > 0) {
		var main, inc time.Duration
		if p.WhiteMove {
			main = time.Duration(limits.WhiteTime) * time.Millisecond
			inc = time.Duration(limits.WhiteIncrement) * time.Millisecond
		} else {
			main = time.Duration(limits.BlackTime) * time.Millisecond
			inc = time.Duration(limits.BlackIncrement) * time.Millisecond
		}
		tm.softLimit, tm.hardLimit = calcLimits(main, inc, limits.MovesToGo)
	}

	if tm.hardLimit != 0 {
		ctx, tm.cancel = context.WithDeadline(ctx, start.Add(tm.hardLimit))
	} else {
		ctx, tm.cancel = context.WithCancel(ctx)
	}
	tm.release = context.AfterFunc(ctx, func() {
		tm.done.Store(true)
	})
	return tm
}

func (tm *timeManager) IsDone() bool {
	return tm.done.Load()
}

// Aborted reports whether the search was cut by a budget or by an external
// stop rather than reaching a natural end.
func (tm *timeManager) Aborted() bool {
	return tm.done.Load() && !tm.finished.Load()
}

func (tm *timeManager) stop() {
	tm.done.Store(true)
	tm.cancel()
}

// complete stops the search because nothing more can be learned.
func (tm *timeManager) complete() {
	if !tm.done.Load() {
		tm.finished.Store(true)
	}
	tm.stop()
}

func (tm *timeManager) OnNodesChanged(nodes int64) {
	if tm.limits.Nodes > 0 && nodes >= int64(tm.limits.Nodes) {
		tm.stop()
	}
}

func (tm *timeManager) OnIterationComplete(line mainLine) {
	if tm.limits.Depth != 0 && line.depth >= tm.limits.Depth {
		tm.complete()
		return
	}
	if tm.limits.Infinite {
		return
	}
	if tm.limits.Mate > 0 && line.score >= valueWin &&
		newUciScore(line.score).Mate <= tm.limits.Mate {
		tm.complete()
		return
	}
	if line.score >= winIn(line.depth-5) ||
		line.score <= lossIn(line.depth-5) {
		tm.complete()
		return
	}
	if tm.softLimit != 0 &&
		time.Since(tm.start) >= tm.softLimit {
		tm.stop()
		return
	}
}

func (tm *timeManager) Close() {
	tm.release()
	tm.cancel()
}

func calcLimits(main, inc time.Duration, moves int) (soft, hard time.Duration) {
	const (
		DefaultMovesToGo = 40
		MoveOverhead     = 300 * time.Millisecond
		MinTimeLimit     = 1 * time.Millisecond
	)

	main -= MoveOverhead
	if main < MinTimeLimit {
		main = MinTimeLimit
	}

	if moves == 0 {
		var ideal = main/35 + inc/2
		soft = ideal * 7 / 10
		hard = ideal * 21 / 10
	} else {
		moves = Min(moves, DefaultMovesToGo)
		soft = (main/time.Duration(moves+1) + inc) * 7 / 10
		hard = (main/time.Duration(moves+1) + inc) * 21 / 10
	}

	hard = Max(MinTimeLimit, Min(hard, main))
	soft = Max(MinTimeLimit, Min(soft, main))

	return
}
