package common

const (
	f1g1Mask = (uint64(1) << SquareF1) | (uint64(1) << SquareG1)
	b1d1Mask = (uint64(1) << SquareB1) | (uint64(1) << SquareC1) | (uint64(1) << SquareD1)
	f8g8Mask = (uint64(1) << SquareF8) | (uint64(1) << SquareG8)
	b8d8Mask = (uint64(1) << SquareB8) | (uint64(1) << SquareC8) | (uint64(1) << SquareD8)
)

var (
	whiteKingSideCastle  = makeSpecialMove(SquareE1, SquareG1, King, Empty, FlagCastleKing)
	whiteQueenSideCastle = makeSpecialMove(SquareE1, SquareC1, King, Empty, FlagCastleQueen)
	blackKingSideCastle  = makeSpecialMove(SquareE8, SquareG8, King, Empty, FlagCastleKing)
	blackQueenSideCastle = makeSpecialMove(SquareE8, SquareC8, King, Empty, FlagCastleQueen)
)

func addPromotions(ml []OrderedMove, count, from, to, captured int, underpromotions bool) int {
	var move = makeSpecialMove(from, to, Pawn, captured, FlagPromotion)
	ml[count].Move = move ^ Move(Queen<<18)
	count++
	if underpromotions {
		ml[count].Move = move ^ Move(Rook<<18)
		ml[count+1].Move = move ^ Move(Bishop<<18)
		ml[count+2].Move = move ^ Move(Knight<<18)
		count += 3
	}
	return count
}

// GenerateMoves returns pseudo-legal moves. When in check, non-king moves
// are limited to capturing the checker or blocking.
func (p *Position) GenerateMoves(ml []OrderedMove) []OrderedMove {
	var ownPieces = p.PiecesByColor(p.WhiteMove)
	var oppPieces = p.PiecesByColor(!p.WhiteMove)

	var target = ^ownPieces
	if p.Checkers != 0 {
		var kingSq = p.KingSquare(p.WhiteMove)
		target = p.Checkers | betweenMask[FirstOne(p.Checkers)][kingSq]
	}

	var count = p.genPawnMoves(ml, 0, ownPieces, oppPieces, false)
	count = p.genPieceMoves(ml, count, ownPieces, target)
	count = p.genKingMoves(ml, count, ^ownPieces)
	if p.Checkers == 0 {
		count = p.genCastling(ml, count)
	}
	return ml[:count]
}

// GenerateCaptures returns pseudo-legal captures and queen promotions.
func (p *Position) GenerateCaptures(ml []OrderedMove) []OrderedMove {
	var ownPieces = p.PiecesByColor(p.WhiteMove)
	var oppPieces = p.PiecesByColor(!p.WhiteMove)

	var count = p.genPawnMoves(ml, 0, ownPieces, oppPieces, true)
	count = p.genPieceMoves(ml, count, ownPieces, oppPieces)
	count = p.genKingMoves(ml, count, oppPieces)
	return ml[:count]
}

func (p *Position) GenerateLegalMoves() []Move {
	var buffer [MaxMoves]OrderedMove
	var temp = *p
	var undo Undo
	var result []Move
	for _, om := range p.GenerateMoves(buffer[:]) {
		if temp.DoMove(om.Move, &undo) {
			temp.UndoMove(om.Move, &undo)
			result = append(result, om.Move)
		}
	}
	return result
}

func (p *Position) genPawnMoves(ml []OrderedMove, count int, ownPieces, oppPieces uint64, noisyOnly bool) int {
	var pawns = p.Pawns & ownPieces
	var empty = ^(ownPieces | oppPieces)

	var push, pushDelta, leftDelta, rightDelta int
	var single, double, capLeft, capRight, promoRank uint64
	if p.WhiteMove {
		pushDelta, leftDelta, rightDelta = 8, 7, 9
		single = (pawns << 8) & empty
		double = ((single & Rank3Mask) << 8) & empty
		capLeft = ((pawns &^ FileAMask) << 7) & oppPieces
		capRight = ((pawns &^ FileHMask) << 9) & oppPieces
		promoRank = Rank8Mask
	} else {
		pushDelta, leftDelta, rightDelta = -8, -9, -7
		single = (pawns >> 8) & empty
		double = ((single & Rank6Mask) >> 8) & empty
		capLeft = ((pawns &^ FileAMask) >> 9) & oppPieces
		capRight = ((pawns &^ FileHMask) >> 7) & oppPieces
		promoRank = Rank1Mask
	}

	for x := single & promoRank; x != 0; x &= x - 1 {
		push = FirstOne(x)
		count = addPromotions(ml, count, push-pushDelta, push, Empty, !noisyOnly)
	}
	if !noisyOnly {
		for x := single &^ promoRank; x != 0; x &= x - 1 {
			push = FirstOne(x)
			ml[count].Move = makeMove(push-pushDelta, push, Pawn, Empty)
			count++
		}
		for x := double; x != 0; x &= x - 1 {
			push = FirstOne(x)
			ml[count].Move = makeSpecialMove(push-2*pushDelta, push, Pawn, Empty, FlagDoublePush)
			count++
		}
	}

	for _, c := range [2]struct {
		targets uint64
		delta   int
	}{{capLeft, leftDelta}, {capRight, rightDelta}} {
		for x := c.targets; x != 0; x &= x - 1 {
			var to = FirstOne(x)
			var from = to - c.delta
			var captured = p.WhatPiece(to)
			if SquareMask[to]&promoRank != 0 {
				count = addPromotions(ml, count, from, to, captured, !noisyOnly)
			} else {
				ml[count].Move = makeMove(from, to, Pawn, captured)
				count++
			}
		}
	}

	if p.EpSquare != SquareNone {
		for x := PawnAttacks(p.EpSquare, !p.WhiteMove) & pawns; x != 0; x &= x - 1 {
			ml[count].Move = makeSpecialMove(FirstOne(x), p.EpSquare, Pawn, Pawn, FlagEnPassant)
			count++
		}
	}
	return count
}

func (p *Position) genPieceMoves(ml []OrderedMove, count int, ownPieces, target uint64) int {
	var allPieces = p.White | p.Black
	for piece := Knight; piece <= Queen; piece++ {
		for fromBB := *p.pieceBoard(piece) & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
			var from = FirstOne(fromBB)
			var attacks uint64
			switch piece {
			case Knight:
				attacks = KnightAttacks[from]
			case Bishop:
				attacks = BishopAttacks(from, allPieces)
			case Rook:
				attacks = RookAttacks(from, allPieces)
			case Queen:
				attacks = QueenAttacks(from, allPieces)
			}
			for toBB := attacks & target; toBB != 0; toBB &= toBB - 1 {
				var to = FirstOne(toBB)
				ml[count].Move = makeMove(from, to, piece, p.WhatPiece(to))
				count++
			}
		}
	}
	return count
}

func (p *Position) genKingMoves(ml []OrderedMove, count int, target uint64) int {
	var from = p.KingSquare(p.WhiteMove)
	for toBB := KingAttacks[from] & target; toBB != 0; toBB &= toBB - 1 {
		var to = FirstOne(toBB)
		ml[count].Move = makeMove(from, to, King, p.WhatPiece(to))
		count++
	}
	return count
}

// genCastling checks emptiness and the transit square; the destination
// square is left to the legality test in DoMove.
func (p *Position) genCastling(ml []OrderedMove, count int) int {
	var allPieces = p.White | p.Black
	if p.WhiteMove {
		if (p.CastleRights&WhiteKingSide) != 0 &&
			(allPieces&f1g1Mask) == 0 &&
			!p.isAttackedBySide(SquareF1, false) {
			ml[count].Move = whiteKingSideCastle
			count++
		}
		if (p.CastleRights&WhiteQueenSide) != 0 &&
			(allPieces&b1d1Mask) == 0 &&
			!p.isAttackedBySide(SquareD1, false) {
			ml[count].Move = whiteQueenSideCastle
			count++
		}
	} else {
		if (p.CastleRights&BlackKingSide) != 0 &&
			(allPieces&f8g8Mask) == 0 &&
			!p.isAttackedBySide(SquareF8, true) {
			ml[count].Move = blackKingSideCastle
			count++
		}
		if (p.CastleRights&BlackQueenSide) != 0 &&
			(allPieces&b8d8Mask) == 0 &&
			!p.isAttackedBySide(SquareD8, true) {
			ml[count].Move = blackQueenSideCastle
			count++
		}
	}
	return count
}

// Perft counts leaf nodes of the legal move tree.
func Perft(p *Position, depth int) int {
	if depth <= 0 {
		return 1
	}
	var buffer [MaxMoves]OrderedMove
	var undo Undo
	var result = 0
	for _, om := range p.GenerateMoves(buffer[:]) {
		if !p.DoMove(om.Move, &undo) {
			continue
		}
		if depth == 1 {
			result++
		} else {
			result += Perft(p, depth-1)
		}
		p.UndoMove(om.Move, &undo)
	}
	return result
}

// PerftDivide returns the perft count below each legal root move.
func PerftDivide(p *Position, depth int) map[string]int {
	var result = make(map[string]int)
	var undo Undo
	for _, move := range p.GenerateLegalMoves() {
		p.DoMove(move, &undo)
		result[move.String()] = Perft(p, depth-1)
		p.UndoMove(move, &undo)
	}
	return result
}
