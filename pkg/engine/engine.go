package engine

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"lukechampine.com/frand"

	. "github.com/kestrel-chess/kestrel/pkg/common"
)

type Engine struct {
	Options     Options
	evalBuilder func() Evaluator
	timeManager *timeManager
	transTable  TransTable
	historyKeys map[uint64]int
	threads     []thread
	progress    func(SearchInfo)
	mainLine    mainLine
	start       time.Time
	nodes       atomic.Int64
	mu          sync.Mutex
	cancel      context.CancelFunc
}

type thread struct {
	engine    *Engine
	evaluator Evaluator
	position  Position
	nodes     int64
	selDepth  int
	rootDepth int
	history   history
	stack     [stackSize]struct {
		undo           Undo
		key            uint64
		lastMove       Move
		rule50         int
		moveList       [MaxMoves]OrderedMove
		quietsSearched [MaxMoves]Move
		pv             pv
		staticEval     int
		killer1        Move
		killer2        Move
	}
}

type pv struct {
	items [stackSize]Move
	size  int
}

type mainLine struct {
	moves    []Move
	score    int
	depth    int
	selDepth int
}

// Evaluator scores a position from the side to move's point of view.
type Evaluator interface {
	Evaluate(p *Position) int
}

func NewEngine(evalBuilder func() Evaluator) *Engine {
	return &Engine{
		Options:     NewOptions(),
		evalBuilder: evalBuilder,
	}
}

// Prepare allocates the hash table and the search threads for the current
// options. It is called by Search and may be called earlier to avoid the
// allocation delay on the first move.
func (e *Engine) Prepare() {
	var hash = Max(0, e.Options.Hash)
	if e.transTable == nil || e.transTable.Size() != hash {
		if e.transTable != nil {
			e.transTable = nil
			runtime.GC()
		}
		e.transTable = newTransTableOrNull(hash)
	}
	var threads = Max(1, e.Options.Threads)
	if len(e.threads) != threads {
		e.threads = make([]thread, threads)
		for i := range e.threads {
			var t = &e.threads[i]
			t.engine = e
		}
	}
}

// Search runs iterative deepening on the last position of the game until the
// limits are reached, ctx is cancelled or Stop is called. A bug inside a
// search thread is re-raised here as a panic.
func (e *Engine) Search(ctx context.Context, searchParams SearchParams) SearchInfo {
	e.start = time.Now()
	e.Prepare()
	var p = &searchParams.Positions[len(searchParams.Positions)-1]

	var limits = searchParams.Limits
	if maxDepth := e.Options.maxDepth(); maxDepth < maxHeight &&
		(limits.Depth == 0 || limits.Depth > maxDepth) {
		limits.Depth = maxDepth
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.cancel = nil
		e.mu.Unlock()
	}()

	e.timeManager = newTimeManager(ctx, e.start, limits, p)
	defer e.timeManager.Close()
	e.transTable.IncDate()
	e.historyKeys = getHistoryKeys(searchParams.Positions)
	e.nodes.Store(0)
	e.progress = searchParams.Progress
	e.mainLine = mainLine{}

	var noiseSeed = frand.Uint64n(1 << 63)
	for i := range e.threads {
		var t = &e.threads[i]
		t.evaluator = e.buildEvaluator(noiseSeed)
		t.nodes = 0
		t.selDepth = 0
		t.position = *p
		t.stack[0].key = p.Key
		t.stack[0].lastMove = p.LastMove
		t.stack[0].rule50 = p.Rule50
	}

	var logger = e.Options.Logger
	logger.Debug().
		Str("fen", p.String()).
		Interface("limits", limits).
		Int("threads", len(e.threads)).
		Int("hash", e.transTable.Size()).
		Int("skill", e.Options.SkillLevel).
		Msg("search started")

	var ml = e.genRootMoves()
	if len(ml) == 0 {
		var outcome = OutcomeStalemate
		if p.IsCheck() {
			outcome = OutcomeCheckmate
		}
		var result = e.currentSearchResult()
		result.Outcome = outcome
		logger.Debug().Stringer("outcome", outcome).Msg("no legal moves")
		return result
	}
	if len(searchParams.SearchMoves) != 0 {
		var allowed = lo.Filter(ml, func(m Move, _ int) bool {
			return lo.Contains(searchParams.SearchMoves, m)
		})
		if len(allowed) != 0 {
			ml = allowed
		}
	}

	e.mainLine = mainLine{
		moves: []Move{ml[0]},
	}
	if len(ml) == 1 && !limits.Infinite {
		logger.Debug().Stringer("move", ml[0]).Msg("single legal move")
		return e.currentSearchResult()
	}

	if err := lazySmp(e, ml); err != nil {
		logger.Error().Err(err).Msg("search failed")
		panic(err)
	}

	var nodes int64
	for i := range e.threads {
		nodes += e.threads[i].nodes
	}
	e.nodes.Store(nodes)
	var result = e.currentSearchResult()
	result.Aborted = e.timeManager.Aborted()
	logger.Debug().
		Int("depth", result.Depth).
		Int64("nodes", result.Nodes).
		Dur("time", result.Time).
		Bool("aborted", result.Aborted).
		Msg("search finished")
	return result
}

// Stop asks a running search to return its best result so far.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
}

func getHistoryKeys(positions []Position) map[uint64]int {
	var result = make(map[uint64]int)
	for i := len(positions) - 1; i >= 0; i-- {
		var p = &positions[i]
		result[p.Key]++
		if p.Rule50 == 0 {
			break
		}
	}
	return result
}

// Clear forgets everything learned in previous searches.
func (e *Engine) Clear() {
	if e.transTable != nil {
		e.transTable.Clear()
	}
	for i := range e.threads {
		e.threads[i].history.clear()
	}
}

func (e *Engine) currentSearchResult() SearchInfo {
	var elapsed = time.Since(e.start)
	return SearchInfo{
		Depth:    e.mainLine.depth,
		SelDepth: e.mainLine.selDepth,
		MainLine: e.mainLine.moves,
		Score:    newUciScore(e.mainLine.score),
		Nodes:    e.nodes.Load(),
		Time:     elapsed,
		HashFull: e.transTable.HashFull(),
	}
}

// buildEvaluator gives every thread its own evaluator. Threads of one search
// share the noise seed so that they agree on the score of a position.
func (e *Engine) buildEvaluator(noiseSeed uint64) Evaluator {
	var evaluator = e.evalBuilder()
	if noise := e.Options.evalNoise(); noise > 0 {
		return &noisyEvaluator{
			inner:     evaluator,
			seed:      noiseSeed,
			amplitude: noise,
		}
	}
	return evaluator
}

func (pv *pv) clear() {
	pv.size = 0
}

func (pv *pv) assign(m Move, child *pv) {
	pv.size = 1
	pv.items[0] = m
	if child.size > 0 {
		pv.size += child.size
		copy(pv.items[1:], child.items[:child.size])
	}
}

func (pv *pv) toSlice() []Move {
	var result = make([]Move, pv.size)
	copy(result, pv.items[:pv.size])
	return result
}
