package common

import "fmt"

// SetPosition rebuilds the game from a FEN and a sequence of moves in long
// algebraic notation. The result holds every position of the game, the
// current one last.
func SetPosition(fen string, moves []string) ([]Position, error) {
	var p, err = NewPositionFromFEN(fen)
	if err != nil {
		return nil, err
	}
	var positions = make([]Position, 1, len(moves)+1)
	positions[0] = p
	for i, lan := range moves {
		var next, ok = positions[len(positions)-1].MakeMoveLAN(lan)
		if !ok {
			return nil, fmt.Errorf("%w: %v at ply %v", ErrIllegalMove, lan, i+1)
		}
		positions = append(positions, next)
	}
	return positions, nil
}

// GameOutcome reports whether the last position of the game is terminal.
// Repetition is exact: the same position three times.
func GameOutcome(positions []Position) Outcome {
	if len(positions) == 0 {
		return OutcomeNone
	}
	var p = &positions[len(positions)-1]
	if len(p.GenerateLegalMoves()) == 0 {
		if p.IsCheck() {
			return OutcomeCheckmate
		}
		return OutcomeStalemate
	}
	if p.Rule50 >= 100 {
		return OutcomeFiftyMove
	}
	if p.IsInsufficientMaterial() {
		return OutcomeInsufficientMaterial
	}
	var repeats = 1
	for i := len(positions) - 2; i >= 0; i-- {
		var prev = &positions[i]
		if prev.IsRepetition(p) {
			repeats++
			if repeats >= 3 {
				return OutcomeRepetition
			}
		}
		if prev.Rule50 == 0 {
			break
		}
	}
	return OutcomeNone
}
