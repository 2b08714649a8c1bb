package engine

import . "github.com/kestrel-chess/kestrel/pkg/common"

const sortTableKeyImportant = 100000

// moveIteratorQS yields captures and queen promotions, or every evasion when
// the side to move is in check.
type moveIteratorQS struct {
	position *Position
	buffer   []OrderedMove
	count    int
	index    int
}

func (mi *moveIteratorQS) Init() {
	if mi.position.IsCheck() {
		mi.count = len(mi.position.GenerateMoves(mi.buffer))
	} else {
		mi.count = len(mi.position.GenerateCaptures(mi.buffer))
	}

	for i := 0; i < mi.count; i++ {
		var m = mi.buffer[i].Move
		var score int
		if isCaptureOrPromotion(m) {
			score = 29000 + mvvlva(m)
		}
		mi.buffer[i].Key = int32(score)
	}

	sortMoves(mi.buffer[:mi.count])
	mi.index = 0
}

func (mi *moveIteratorQS) Next() Move {
	if mi.index >= mi.count {
		return MoveEmpty
	}
	var m = mi.buffer[mi.index].Move
	mi.index++
	return m
}

// moveIterator orders the hash move first, then winning captures, killers,
// quiet moves by history and losing captures last.
type moveIterator struct {
	position  *Position
	buffer    []OrderedMove
	history   historyContext
	transMove Move
	killer1   Move
	killer2   Move
	count     int
	index     int
}

func (t *thread) initMoveIterator(height int, transMove Move) moveIterator {
	var mi = moveIterator{
		position:  &t.position,
		buffer:    t.stack[height].moveList[:],
		history:   t.getHistoryContext(height),
		transMove: transMove,
		killer1:   t.stack[height].killer1,
		killer2:   t.stack[height].killer2,
	}
	mi.Init()
	return mi
}

func (mi *moveIterator) Init() {
	mi.count = len(mi.position.GenerateMoves(mi.buffer))

	for i := 0; i < mi.count; i++ {
		var m = mi.buffer[i].Move
		var score int
		if m == mi.transMove {
			score = sortTableKeyImportant + 2000
		} else if isCaptureOrPromotion(m) {
			if seeGEZero(mi.position, m) {
				score = sortTableKeyImportant + 1000 + mvvlva(m)
			} else {
				score = -sortTableKeyImportant + mvvlva(m)
			}
		} else if m == mi.killer1 {
			score = sortTableKeyImportant + 1
		} else if m == mi.killer2 {
			score = sortTableKeyImportant
		} else {
			score = mi.history.ReadTotal(m)
		}
		mi.buffer[i].Key = int32(score)
	}
	mi.index = 0
}

func (mi *moveIterator) Next() Move {
	if mi.index >= mi.count {
		return MoveEmpty
	}
	const SortMovesIndex = 1
	if mi.index <= SortMovesIndex {
		if mi.index == SortMovesIndex {
			sortMoves(mi.buffer[mi.index:mi.count])
		} else {
			moveToTop(mi.buffer[mi.index:mi.count])
		}
	}
	var m = mi.buffer[mi.index].Move
	mi.index++
	return m
}

var sortPieceValues = [...]int{Empty: 0, Pawn: 1, Knight: 2, Bishop: 3, Rook: 4, Queen: 5, King: 6}

func mvvlva(move Move) int {
	return 8*(sortPieceValues[move.CapturedPiece()]+
		sortPieceValues[move.Promotion()]) -
		sortPieceValues[move.MovingPiece()]
}

// insertion sort, stable, descending by key
func sortMoves(moves []OrderedMove) {
	for i := 1; i < len(moves); i++ {
		j, t := i, moves[i]
		for ; j > 0 && moves[j-1].Key < t.Key; j-- {
			moves[j] = moves[j-1]
		}
		moves[j] = t
	}
}

func moveToTop(ml []OrderedMove) {
	var bestIndex = 0
	for i := 1; i < len(ml); i++ {
		if ml[i].Key > ml[bestIndex].Key {
			bestIndex = i
		}
	}
	if bestIndex != 0 {
		ml[0], ml[bestIndex] = ml[bestIndex], ml[0]
	}
}
