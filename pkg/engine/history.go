package engine

import . "github.com/kestrel-chess/kestrel/pkg/common"

const historyMax = 1 << 14

// history scores quiet moves by how often they produced a cutoff. main is
// indexed by side, from and to. continuation is indexed by the piece and
// destination of an earlier move, then those of the current move.
type history struct {
	main         [1 << 13]int16
	continuation [1 << 10][1 << 10]int16
}

func (h *history) clear() {
	*h = history{}
}

// historyContext is the view of the tables from one node: the side to move
// and the continuation rows of the last two moves (-1 when absent).
type historyContext struct {
	table *history
	side  bool
	rows  [2]int
}

func (t *thread) getHistoryContext(height int) historyContext {
	var side = t.position.WhiteMove
	var h = historyContext{
		table: &t.history,
		side:  side,
		rows:  [2]int{-1, -1},
	}
	if prev := t.stack[height].lastMove; prev != MoveEmpty {
		h.rows[0] = pieceToIndex(!side, prev)
	}
	if height > 0 {
		if prev := t.stack[height-1].lastMove; prev != MoveEmpty {
			h.rows[1] = pieceToIndex(side, prev)
		}
	}
	return h
}

// ReadTotal sums the main and continuation scores of a quiet move.
func (h *historyContext) ReadTotal(m Move) int {
	var score = int(h.table.main[fromToIndex(h.side, m)])
	var col = pieceToIndex(h.side, m)
	for _, row := range h.rows {
		if row >= 0 {
			score += int(h.table.continuation[row][col])
		}
	}
	return score
}

// Update rewards bestMove and penalizes the quiet moves tried before it.
func (h *historyContext) Update(quietsSearched []Move, bestMove Move, depth int) {
	var bonus = Min(depth*depth, 400)
	for _, m := range quietsSearched {
		var target = -historyMax
		if m == bestMove {
			target = historyMax
		}
		ageTowards(&h.table.main[fromToIndex(h.side, m)], target, bonus)
		var col = pieceToIndex(h.side, m)
		for _, row := range h.rows {
			if row >= 0 {
				ageTowards(&h.table.continuation[row][col], target, bonus)
			}
		}
		if m == bestMove {
			break
		}
	}
}

// ageTowards moves v bonus/512 of the way to target.
func ageTowards(v *int16, target, bonus int) {
	*v += int16((target - int(*v)) * bonus / 512)
}

func pieceToIndex(side bool, move Move) int {
	var index = move.MovingPiece()<<6 | move.To()
	if side {
		index |= 1 << 9
	}
	return index
}

func fromToIndex(side bool, move Move) int {
	var index = move.From()<<6 | move.To()
	if side {
		index |= 1 << 12
	}
	return index
}
