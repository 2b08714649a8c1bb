package eval

import (
	. "github.com/kestrel-chess/kestrel/pkg/common"
)

const (
	minorPhase = 1
	rookPhase  = 2
	queenPhase = 4
	totalPhase = 2 * (4*minorPhase + 2*rookPhase + queenPhase)
)

const (
	scaleDraw   = 0
	scaleHard   = 1
	scaleNormal = 2
)

// EvaluationService is a hand written tapered evaluation: piece-square
// tables, pawn structure, mobility and king shelter, blended between
// middlegame and endgame by the remaining material.
type EvaluationService struct {
	pieceCount [2][PIECE_NB]int
	force      [2]int
}

func NewEvaluationService() *EvaluationService {
	return &EvaluationService{}
}

func (e *EvaluationService) Evaluate(p *Position) int {
	var s Score

	for piece := Pawn; piece <= King; piece++ {
		e.pieceCount[SideWhite][piece] = 0
		e.pieceCount[SideBlack][piece] = 0
	}

	for x := p.White; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var piece = p.WhatPiece(sq)
		s += pst[SideWhite][piece][sq]
		e.pieceCount[SideWhite][piece]++
	}
	for x := p.Black; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var piece = p.WhatPiece(sq)
		s += pst[SideBlack][piece][sq]
		e.pieceCount[SideBlack][piece]++
	}

	for side := SideWhite; side <= SideBlack; side++ {
		e.force[side] = minorPhase*(e.pieceCount[side][Knight]+e.pieceCount[side][Bishop]) +
			rookPhase*e.pieceCount[side][Rook] + queenPhase*e.pieceCount[side][Queen]
	}

	s += e.evalSide(p, SideWhite) - e.evalSide(p, SideBlack)

	if p.WhiteMove {
		s += tempo
	} else {
		s -= tempo
	}

	var phase = Min(totalPhase, e.force[SideWhite]+e.force[SideBlack])
	var result = (s.Mg()*phase + s.Eg()*(totalPhase-phase)) / totalPhase

	var ocb = e.pieceCount[SideWhite][Bishop] == 1 &&
		e.pieceCount[SideBlack][Bishop] == 1 &&
		e.force[SideWhite] == minorPhase &&
		e.force[SideBlack] == minorPhase &&
		(p.Bishops&DarkSquares) != 0 &&
		(p.Bishops&LightSquares) != 0

	if result > 0 {
		result = result * e.computeFactor(SideWhite, ocb) / scaleNormal
	} else {
		result = result * e.computeFactor(SideBlack, ocb) / scaleNormal
	}

	if !p.WhiteMove {
		result = -result
	}
	return result
}

// evalSide returns the positional terms of one side, from that side's
// point of view.
func (e *EvaluationService) evalSide(p *Position, side int) Score {
	var white = side == SideWhite
	var own = p.Colours(side)
	var opp = p.Colours(side ^ 1)
	var ownPawns = p.Pawns & own
	var oppPawns = p.Pawns & opp
	var allPieces = p.AllPieces()

	var s Score

	if e.pieceCount[side][Bishop] >= 2 {
		s += bishopPair
	}

	// pawn structure
	for x := ownPawns; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var file = File(sq)
		if ownPawns&FileMask[file]&^SquareMask[sq] != 0 {
			s += doubledPawn
		}
		if ownPawns&AdjacentFiles[file] == 0 {
			s += isolatedPawn
		}
		if oppPawns&passedMask(sq, white) == 0 {
			s += passedPawnByRank[RelativeRank(sq, white)]
		}
	}

	// mobility, counting squares not defended by enemy pawns
	var oppPawnAttacks uint64
	if white {
		oppPawnAttacks = AllBlackPawnAttacks(oppPawns)
	} else {
		oppPawnAttacks = AllWhitePawnAttacks(oppPawns)
	}
	var area = ^own &^ oppPawnAttacks
	for x := p.Knights & own; x != 0; x &= x - 1 {
		s += mobility(Knight, KnightAttacks[FirstOne(x)]&area)
	}
	for x := p.Bishops & own; x != 0; x &= x - 1 {
		s += mobility(Bishop, BishopAttacks(FirstOne(x), allPieces)&area)
	}
	for x := p.Rooks & own; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		s += mobility(Rook, RookAttacks(sq, allPieces)&area)
		var file = FileMask[File(sq)]
		if file&p.Pawns == 0 {
			s += rookOpenFile
		} else if file&ownPawns == 0 {
			s += rookSemiOpenFile
		}
	}
	for x := p.Queens & own; x != 0; x &= x - 1 {
		s += mobility(Queen, QueenAttacks(FirstOne(x), allPieces)&area)
	}

	// king shelter
	var kingSq = FirstOne(p.Kings & own)
	if RelativeRank(kingSq, white) == Rank1 {
		var shield = ownPawns & (FileMask[File(kingSq)] | AdjacentFiles[File(kingSq)])
		for x := shield; x != 0; x &= x - 1 {
			if RelativeRank(FirstOne(x), white) <= pawnShieldMaxRank {
				s += kingShieldPawn
			}
		}
	}

	return s
}

func mobility(piece int, moves uint64) Score {
	return mobilityWeights[piece] * Score(PopCount(moves)-mobilityBaseline[piece])
}

// passedMask is the set of squares in front of a pawn, on its own and the
// adjacent files, that an enemy pawn would need to stop it.
func passedMask(sq int, white bool) uint64 {
	var files = FileMask[File(sq)] | AdjacentFiles[File(sq)]
	if white {
		return files & UpFill(Up(SquareMask[sq]))
	}
	return files & DownFill(Down(SquareMask[sq]))
}

func (e *EvaluationService) computeFactor(side int, ocb bool) int {
	if e.force[side] >= queenPhase+rookPhase {
		return scaleNormal
	}
	if e.pieceCount[side][Pawn] == 0 {
		if e.force[side] <= minorPhase {
			return scaleDraw
		}
		if e.force[side] == 2*minorPhase && e.pieceCount[side][Knight] == 2 && e.pieceCount[side^1][Pawn] == 0 {
			return scaleDraw
		}
		if e.force[side]-e.force[side^1] <= minorPhase {
			return scaleHard
		}
	} else if e.pieceCount[side][Pawn] == 1 {
		if e.force[side] <= minorPhase && e.pieceCount[side^1][Knight]+e.pieceCount[side^1][Bishop] != 0 {
			return scaleHard
		}
	} else if ocb && e.pieceCount[side][Pawn]-e.pieceCount[side^1][Pawn] <= 2 {
		return scaleHard
	}
	return scaleNormal
}
