package engine

import . "github.com/kestrel-chess/kestrel/pkg/common"

// Scores are centipawns for the side to move. A mate n plies from the root
// scores winIn(n); everything at or beyond valueWin is a forced mate.
const (
	stackSize     = 128
	maxHeight     = stackSize - 1
	valueDraw     = 0
	valueMate     = 30000
	valueInfinity = valueMate + 1
	valueWin      = valueMate - 2*maxHeight
	valueLoss     = -valueWin
)

func winIn(height int) int  { return valueMate - height }
func lossIn(height int) int { return height - valueMate }

// valueToTT makes a mate score relative to the node at height, so that a
// hit at a different height reads the right mate distance.
func valueToTT(v, height int) int {
	switch {
	case v >= valueWin:
		return v + height
	case v <= valueLoss:
		return v - height
	}
	return v
}

func valueFromTT(v, height int) int {
	return valueToTT(v, -height)
}

// newUciScore converts a root score to centipawns or full moves to mate.
func newUciScore(v int) UciScore {
	switch {
	case v >= valueWin:
		return UciScore{Mate: (valueMate - v + 1) / 2}
	case v <= valueLoss:
		return UciScore{Mate: (-valueMate - v) / 2}
	}
	return UciScore{Centipawns: v}
}

// clampEval keeps static scores out of the mate range.
func clampEval(v int) int {
	return Max(valueLoss+1, Min(valueWin-1, v))
}

// isLateEndgame reports whether side is down to pawns and at most one minor
// piece, where zugzwang makes null move pruning unreliable.
func isLateEndgame(p *Position, side bool) bool {
	var own = p.PiecesByColor(side)
	return (p.Rooks|p.Queens)&own == 0 &&
		!MoreThanOne((p.Knights|p.Bishops)&own)
}

func isCaptureOrPromotion(move Move) bool {
	return move.CapturedPiece() != Empty || move.Promotion() != Empty
}
