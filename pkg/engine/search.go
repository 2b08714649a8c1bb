package engine

import (
	. "github.com/kestrel-chess/kestrel/pkg/common"
)

const pawnValue = 100

func aspirationWindow(t *thread, ml []Move, depth, prevScore int) int {
	t.rootDepth = depth
	t.selDepth = 0
	if t.engine.Options.AspirationWindows &&
		depth >= 5 && !(prevScore <= valueLoss || prevScore >= valueWin) {
		const Window = 25
		var alpha = Max(-valueInfinity, prevScore-Window)
		var beta = Min(valueInfinity, prevScore+Window)
		var score = t.searchRoot(ml, alpha, beta, depth)
		if score > alpha && score < beta {
			return score
		}
		if score >= beta {
			beta = valueInfinity
		}
		if score <= alpha {
			alpha = -valueInfinity
		}
		score = t.searchRoot(ml, alpha, beta, depth)
		if score > alpha && score < beta {
			return score
		}
	}
	return t.searchRoot(ml, -valueInfinity, valueInfinity, depth)
}

// searchRoot walks the root moves in the given order. The best move is moved
// to the front of ml so that the next iteration starts with it.
func (t *thread) searchRoot(ml []Move, alpha, beta, depth int) int {
	const height = 0
	t.clearPV(height)
	var best = -valueInfinity
	var bestIndex = -1
	var oldAlpha = alpha
	for i, move := range ml {
		if !t.makeMove(move, height) {
			continue
		}
		var newDepth = depth - 1
		if t.engine.Options.CheckExt && t.position.IsCheck() && depth >= 3 {
			newDepth++
		}
		var score int
		if i == 0 {
			score = -t.alphaBeta(-beta, -alpha, newDepth, height+1)
		} else {
			score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth, height+1)
			if score > alpha && score < beta {
				score = -t.alphaBeta(-beta, -alpha, newDepth, height+1)
			}
		}
		t.unmakeMove(move, height)
		if score > best {
			best = score
			bestIndex = i
		}
		if score > alpha {
			alpha = score
			t.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}
	if bestIndex > 0 {
		moveToBegin(ml, bestIndex)
	}
	if best > oldAlpha && bestIndex >= 0 {
		var bound = boundExact
		if best >= beta {
			bound = boundLower
		}
		t.engine.transTable.Update(t.position.Key, depth, valueToTT(best, height), bound, ml[0])
	}
	return best
}

// alphaBeta is a fail-soft principal variation search. It is never called at
// the root.
func (t *thread) alphaBeta(alpha, beta, depth, height int) int {
	if depth <= 0 {
		return t.quiescence(alpha, beta, height)
	}
	t.clearPV(height)
	t.selDepth = Max(t.selDepth, height)

	var pvNode = beta != alpha+1
	var position = &t.position
	var isCheck = position.IsCheck()

	if height >= maxHeight {
		return t.evaluate()
	}
	if t.isRepeat(height) {
		return valueDraw
	}
	if position.Rule50 >= 100 && !isCheck || position.IsInsufficientMaterial() {
		return valueDraw
	}
	// mate distance pruning
	if winIn(height+1) <= alpha {
		return alpha
	}
	if lossIn(height+2) >= beta && !isCheck {
		return beta
	}

	// transposition table
	var ttDepth, ttValue, ttBound, ttMove, ttHit = t.engine.transTable.Read(position.Key)
	if ttHit {
		ttValue = valueFromTT(ttValue, height)
		if ttDepth >= depth && !pvNode && position.LastMove != MoveEmpty {
			if ttValue >= beta && (ttBound&boundLower) != 0 {
				if ttMove != MoveEmpty && !isCaptureOrPromotion(ttMove) {
					t.updateKiller(ttMove, height)
				}
				return ttValue
			}
			if ttValue <= alpha && (ttBound&boundUpper) != 0 {
				return ttValue
			}
		}
	}

	var staticEval = t.evaluate()
	t.stack[height].staticEval = staticEval
	var improving = height < 2 || staticEval > t.stack[height-2].staticEval

	var options = &t.engine.Options
	if height+2 <= maxHeight {
		t.stack[height+2].killer1 = MoveEmpty
		t.stack[height+2].killer2 = MoveEmpty
	}

	// reverse futility pruning
	if options.ReverseFutility && !pvNode && depth <= 8 && !isCheck {
		var score = staticEval - pawnValue*depth
		if score >= beta {
			return staticEval
		}
	}

	// null-move pruning
	if options.NullMovePruning && !pvNode && depth >= 2 && !isCheck &&
		position.LastMove != MoveEmpty &&
		t.stack[height-1].lastMove != MoveEmpty &&
		beta < valueWin &&
		!(ttHit && ttValue < beta && (ttBound&boundUpper) != 0) &&
		!isLateEndgame(position, position.WhiteMove) &&
		staticEval >= beta {
		var reduction = 4 + depth/6 + Min(2, (staticEval-beta)/200)
		t.makeMove(MoveEmpty, height)
		var score = -t.alphaBeta(-beta, -(beta - 1), depth-reduction, height+1)
		t.unmakeMove(MoveEmpty, height)
		if score >= beta {
			if score >= valueWin {
				score = beta
			}
			return score
		}
	}

	var mi = t.initMoveIterator(height, ttMove)
	var historyContext = mi.history
	var killer1 = mi.killer1
	var killer2 = mi.killer2

	var movesSearched = 0
	var hasLegalMove = false
	var quietsSeen = 0

	var quietsSearched = t.stack[height].quietsSearched[:0]
	var bestMove Move

	var lmp = 5 + (depth-1)*depth
	if !improving {
		lmp /= 2
	}

	var best = -valueInfinity
	var oldAlpha = alpha

	for {
		var move = mi.Next()
		if move == MoveEmpty {
			break
		}
		var isNoisy = isCaptureOrPromotion(move)
		if !isNoisy {
			quietsSeen++
		}

		if depth <= 8 && best > valueLoss && hasLegalMove && !isCheck {
			var quiet = !(isNoisy || move == killer1 || move == killer2)

			// late-move pruning
			if options.Lmp && quiet && quietsSeen > lmp {
				continue
			}

			// futility pruning
			if options.Futility && quiet &&
				staticEval+100+pawnValue*depth <= alpha {
				continue
			}

			// SEE pruning
			if options.See {
				var seeMargin int
				if isNoisy {
					seeMargin = Max(depth, (staticEval+pawnValue-alpha)/pawnValue)
				} else {
					seeMargin = depth / 2
				}
				if !SeeGE(position, move, -seeMargin) {
					continue
				}
			}
		}

		if !t.makeMove(move, height) {
			continue
		}
		hasLegalMove = true
		movesSearched++

		var givesCheck = t.position.IsCheck()
		var extension, reduction int

		if options.CheckExt && givesCheck && depth >= 3 {
			extension = 1
		}

		if options.Lmr && depth >= 3 && movesSearched > 1 && !isNoisy {
			reduction = options.reduction(depth, movesSearched)
			if move == killer1 || move == killer2 {
				reduction--
			}
			if !isCheck {
				var history = historyContext.ReadTotal(move)
				reduction -= Max(-2, Min(2, history/5000))
				if !improving {
					reduction++
				}
			}
			if pvNode {
				reduction -= 2
			}
			if isCheck || givesCheck {
				reduction--
			}
			reduction = Max(0, Min(depth-2, reduction))
		}

		if !isNoisy {
			quietsSearched = append(quietsSearched, move)
		}

		var newDepth = depth - 1 + extension

		var score = alpha + 1
		// LMR
		if reduction > 0 {
			score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth-reduction, height+1)
		}
		// PVS
		if score > alpha && pvNode && movesSearched > 1 {
			score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth, height+1)
		}
		// full window
		if score > alpha {
			score = -t.alphaBeta(-beta, -alpha, newDepth, height+1)
		}

		t.unmakeMove(move, height)

		if score > best {
			best = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			t.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}

	if !hasLegalMove {
		if !isCheck {
			return valueDraw
		}
		return lossIn(height)
	}
	if position.Rule50 >= 100 {
		return valueDraw
	}

	if alpha > oldAlpha && bestMove != MoveEmpty && !isCaptureOrPromotion(bestMove) {
		historyContext.Update(quietsSearched, bestMove, depth)
		t.updateKiller(bestMove, height)
	}

	ttBound = 0
	if best > oldAlpha {
		ttBound |= boundLower
	}
	if best < beta {
		ttBound |= boundUpper
	}
	t.engine.transTable.Update(position.Key, depth, valueToTT(best, height), ttBound, bestMove)

	return best
}

func (t *thread) quiescence(alpha, beta, height int) int {
	t.clearPV(height)
	t.selDepth = Max(t.selDepth, height)
	var position = &t.position
	var isCheck = position.IsCheck()
	if position.Rule50 >= 100 && !isCheck || position.IsInsufficientMaterial() {
		return valueDraw
	}
	if height >= maxHeight {
		return t.evaluate()
	}
	if t.isRepeat(height) {
		return valueDraw
	}

	var _, ttValue, ttBound, _, ttHit = t.engine.transTable.Read(position.Key)
	if ttHit {
		ttValue = valueFromTT(ttValue, height)
		if ttBound == boundExact ||
			ttBound == boundLower && ttValue >= beta ||
			ttBound == boundUpper && ttValue <= alpha {
			return ttValue
		}
	}

	var best = -valueInfinity
	if !isCheck {
		var eval = t.evaluate()
		best = Max(best, eval)
		if eval > alpha {
			alpha = eval
			if alpha >= beta {
				return alpha
			}
		}
	}
	var mi = moveIteratorQS{
		position: position,
		buffer:   t.stack[height].moveList[:],
	}
	mi.Init()
	var hasLegalMove = false
	for {
		var move = mi.Next()
		if move == MoveEmpty {
			break
		}
		if !isCheck && !seeGEZero(position, move) {
			continue
		}
		if !t.makeMove(move, height) {
			continue
		}
		hasLegalMove = true
		var score = -t.quiescence(-beta, -alpha, height+1)
		t.unmakeMove(move, height)
		best = Max(best, score)
		if score > alpha {
			alpha = score
			t.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}
	if isCheck && !hasLegalMove {
		return lossIn(height)
	}
	return best
}

func (t *thread) evaluate() int {
	return clampEval(t.evaluator.Evaluate(&t.position))
}

func (t *thread) incNodes() {
	t.nodes++
	if t.nodes&255 == 0 {
		var e = t.engine
		e.timeManager.OnNodesChanged(e.nodes.Add(256))
		if e.timeManager.IsDone() {
			panic(errSearchTimeout)
		}
	}
}

// isRepeat treats a single repetition inside the search path, or two
// earlier occurrences in the game, as a draw.
func (t *thread) isRepeat(height int) bool {
	var key = t.position.Key
	if t.position.Rule50 == 0 || t.stack[height].lastMove == MoveEmpty {
		return false
	}
	for i := height - 1; i >= 0; i-- {
		var frame = &t.stack[i]
		if frame.key == key {
			return true
		}
		if frame.rule50 == 0 || frame.lastMove == MoveEmpty {
			return false
		}
	}
	return t.engine.historyKeys[key] >= 2
}

func findMoveIndex(ml []Move, move Move) int {
	for i := range ml {
		if ml[i] == move {
			return i
		}
	}
	return -1
}

func moveToBegin(ml []Move, index int) {
	if index == 0 {
		return
	}
	var item = ml[index]
	copy(ml[1:index+1], ml[:index])
	ml[0] = item
}

func cloneMoves(ml []Move) []Move {
	var result = make([]Move, len(ml))
	copy(result, ml)
	return result
}

// genRootMoves returns the legal root moves, hash move first.
func (e *Engine) genRootMoves() []Move {
	var t = &e.threads[0]
	const height = 0
	_, _, _, transMove, _ := e.transTable.Read(t.position.Key)

	var mi = t.initMoveIterator(height, transMove)

	var result []Move
	for {
		var move = mi.Next()
		if move == MoveEmpty {
			break
		}
		if t.position.DoMove(move, &t.stack[height].undo) {
			t.position.UndoMove(move, &t.stack[height].undo)
			result = append(result, move)
		}
	}
	return result
}

func (t *thread) updateKiller(move Move, height int) {
	if t.stack[height].killer1 != move {
		t.stack[height].killer2 = t.stack[height].killer1
		t.stack[height].killer1 = move
	}
}

// makeMove plays move in place. The null move is MoveEmpty.
func (t *thread) makeMove(move Move, height int) bool {
	var frame = &t.stack[height]
	if move == MoveEmpty {
		t.position.DoNullMove(&frame.undo)
	} else if !t.position.DoMove(move, &frame.undo) {
		return false
	}
	var child = &t.stack[height+1]
	child.key = t.position.Key
	child.lastMove = move
	child.rule50 = t.position.Rule50
	t.incNodes()
	return true
}

func (t *thread) unmakeMove(move Move, height int) {
	if move == MoveEmpty {
		t.position.UndoNullMove(&t.stack[height].undo)
	} else {
		t.position.UndoMove(move, &t.stack[height].undo)
	}
}

func (t *thread) clearPV(height int) {
	t.stack[height].pv.clear()
}

func (t *thread) assignPV(height int, move Move) {
	t.stack[height].pv.assign(move, &t.stack[height+1].pv)
}
