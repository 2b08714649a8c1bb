package engine

import (
	"errors"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/kestrel-chess/kestrel/pkg/common"
)

var errSearchTimeout = errors.New("search timeout")

type searchTask struct {
	depth         int
	startingMove  common.Move //for move ordering
	startingScore int         //for aspirationWindow
}

// lazySmp runs one search per thread over a shared hash table. The calling
// goroutine hands out iteration depths and collects completed iterations.
func lazySmp(e *Engine, ml []common.Move) error {
	var tasks = make(chan searchTask)
	var taskResults = make(chan mainLine)

	var g errgroup.Group
	for i := range e.threads {
		var t = &e.threads[i]
		var rootMoves = cloneMoves(ml)
		if i > 0 {
			// helpers start from different move orders to diverge from the main thread
			frand.Shuffle(len(rootMoves), func(a, b int) {
				rootMoves[a], rootMoves[b] = rootMoves[b], rootMoves[a]
			})
		}
		g.Go(func() error {
			return searchDepth(t, rootMoves, tasks, taskResults)
		})
	}

	var done = make(chan error, 1)
	go func() {
		done <- g.Wait()
		close(taskResults)
	}()

	iterativeDeepening(e, tasks, taskResults)
	return <-done
}

func iterativeDeepening(
	e *Engine,
	tasks chan<- searchTask,
	taskResults <-chan mainLine,
) {
	var searchCountByDepth [stackSize]int
	var threads = len(e.threads)
	for {
		var task = searchTask{
			depth:         e.mainLine.depth + 1, // next iteration
			startingMove:  e.mainLine.moves[0],
			startingScore: e.mainLine.score,
		}
		if task.depth < len(searchCountByDepth) &&
			searchCountByDepth[task.depth] >= (threads+1)/2 {
			// some threads search deeper
			task.depth = e.mainLine.depth + 2
		}

		if task.depth > maxHeight ||
			e.timeManager.IsDone() {
			// no new iterations
			if tasks != nil {
				close(tasks)
				tasks = nil
			}
		}

		select {
		case taskResult, ok := <-taskResults:
			if !ok {
				// all searches finished
				return
			}
			if taskResult.depth > e.mainLine.depth {
				e.mainLine = taskResult
				e.Options.Logger.Debug().
					Int("depth", taskResult.depth).
					Int("score", taskResult.score).
					Stringer("move", taskResult.moves[0]).
					Msg("iteration complete")
				e.timeManager.OnIterationComplete(e.mainLine)
				if e.progress != nil && e.nodes.Load() >= int64(e.Options.ProgressMinNodes) {
					e.progress(e.currentSearchResult())
				}
			}
		case tasks <- task:
			searchCountByDepth[task.depth]++
		}
	}
}

// searchDepth serves tasks until the channel is closed or the time is up.
// A panic other than the timeout is returned as an error and stops the
// other threads.
func searchDepth(
	t *thread,
	ml []common.Move,
	tasks <-chan searchTask,
	taskResults chan<- mainLine,
) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if r == errSearchTimeout {
				return
			}
			t.engine.timeManager.stop()
			err = fmt.Errorf("search panic: %v\n%s", r, debug.Stack())
		}
	}()

	for h := 0; h <= 2; h++ {
		t.stack[h].killer1 = common.MoveEmpty
		t.stack[h].killer2 = common.MoveEmpty
	}

	const height = 0
	for task := range tasks {
		if task.startingMove != common.MoveEmpty {
			var index = findMoveIndex(ml, task.startingMove)
			if index >= 0 {
				moveToBegin(ml, index)
			}
		}
		var score = aspirationWindow(t, ml, task.depth, task.startingScore)
		taskResults <- mainLine{
			depth:    task.depth,
			score:    score,
			selDepth: t.selDepth,
			moves:    t.stack[height].pv.toSlice(),
		}
	}
	return nil
}
