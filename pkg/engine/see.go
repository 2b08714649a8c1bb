package engine

import (
	. "github.com/kestrel-chess/kestrel/pkg/common"
)

var pieceValuesSEE = [PIECE_NB]int{Pawn: 1, Knight: 4, Bishop: 4, Rook: 6, Queen: 12, King: 120}

func seeGEZero(p *Position, move Move) bool {
	return SeeGE(p, move, 0)
}

// SeeGE reports whether the static exchange on the destination square of
// move wins at least threshold, in pawn units of pieceValuesSEE.
func SeeGE(pos *Position, move Move, threshold int) bool {
	var from = move.From()
	var to = move.To()
	var movingPiece = move.MovingPiece()
	var capturedPiece = move.CapturedPiece()
	var promotionPiece = move.Promotion()

	var nextVictim = movingPiece
	if promotionPiece != Empty {
		nextVictim = promotionPiece
	}

	var balance = pieceValuesSEE[capturedPiece]
	if promotionPiece != Empty {
		balance += pieceValuesSEE[promotionPiece] - pieceValuesSEE[Pawn]
	}
	balance -= threshold

	if balance < 0 {
		return false
	}

	balance -= pieceValuesSEE[nextVictim]
	if balance >= 0 {
		return true
	}

	var occupied = pos.AllPieces()&^SquareMask[from] | SquareMask[to]
	if move.IsEnPassant() {
		occupied &^= SquareMask[MakeSquare(File(to), Rank(from))]
	}

	var attackers = pos.AttackersTo(to, occupied) & occupied

	var bishops = pos.Bishops | pos.Queens
	var rooks = pos.Rooks | pos.Queens

	var us = sideToMove(pos)
	var side = us ^ 1

	for {
		var myAttackers = attackers & pos.Colours(side)
		if myAttackers == 0 {
			break
		}

		var attackerType, attackerFrom = getLeastValuableAttacker(pos, myAttackers)

		occupied &^= SquareMask[attackerFrom]

		if attackerType == Pawn || attackerType == Bishop || attackerType == Queen {
			attackers |= BishopAttacks(to, occupied) & bishops
		}
		if attackerType == Rook || attackerType == Queen {
			attackers |= RookAttacks(to, occupied) & rooks
		}

		attackers &= occupied

		side ^= 1

		balance = -balance - 1 - pieceValuesSEE[attackerType]
		if balance >= 0 {
			// a king may not capture into a defended square
			if attackerType == King &&
				(attackers&pos.Colours(side)) != 0 {
				side ^= 1
			}
			break
		}
	}

	return side != us
}

func sideToMove(p *Position) int {
	if p.WhiteMove {
		return SideWhite
	}
	return SideBlack
}

func getLeastValuableAttacker(p *Position, attackers uint64) (attacker, from int) {
	for piece := Pawn; piece <= King; piece++ {
		var bb = *pieceBoardOf(p, piece) & attackers
		if bb != 0 {
			return piece, FirstOne(bb)
		}
	}
	return Empty, SquareNone
}

func pieceBoardOf(p *Position, piece int) *uint64 {
	switch piece {
	case Pawn:
		return &p.Pawns
	case Knight:
		return &p.Knights
	case Bishop:
		return &p.Bishops
	case Rook:
		return &p.Rooks
	case Queen:
		return &p.Queens
	default:
		return &p.Kings
	}
}
