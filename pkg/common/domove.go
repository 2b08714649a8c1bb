package common

// Undo holds the irreversible part of a position so that UndoMove can
// restore it exactly.
type Undo struct {
	CastleRights int
	EpSquare     int
	Rule50       int
	FullMove     int
	Key          uint64
	Checkers     uint64
	LastMove     Move
}

func (u *Undo) save(p *Position) {
	u.CastleRights = p.CastleRights
	u.EpSquare = p.EpSquare
	u.Rule50 = p.Rule50
	u.FullMove = p.FullMove
	u.Key = p.Key
	u.Checkers = p.Checkers
	u.LastMove = p.LastMove
}

func (u *Undo) restore(p *Position) {
	p.CastleRights = u.CastleRights
	p.EpSquare = u.EpSquare
	p.Rule50 = u.Rule50
	p.FullMove = u.FullMove
	p.Key = u.Key
	p.Checkers = u.Checkers
	p.LastMove = u.LastMove
}

func epVictim(to int, white bool) int {
	if white {
		return to - 8
	}
	return to + 8
}

func castleRookSquares(kingTo int) (from, to int) {
	switch kingTo {
	case SquareG1:
		return SquareH1, SquareF1
	case SquareC1:
		return SquareA1, SquareD1
	case SquareG8:
		return SquareH8, SquareF8
	default:
		return SquareA8, SquareD8
	}
}

// DoMove applies a pseudo-legal move in place. If the move leaves the
// mover's king in check it is taken back and DoMove returns false, so
// UndoMove must only follow a successful DoMove.
func (p *Position) DoMove(move Move, u *Undo) bool {
	u.save(p)

	var from = move.From()
	var to = move.To()
	var side = p.WhiteMove
	var movingPiece = move.MovingPiece()
	var capturedPiece = move.CapturedPiece()

	p.Key ^= sideKey
	if p.EpSquare != SquareNone {
		p.Key ^= enpassantKey[File(p.EpSquare)]
		p.EpSquare = SquareNone
	}

	var cr = p.CastleRights & castleMask[from] & castleMask[to]
	p.Key ^= castlingKey[cr^p.CastleRights]
	p.CastleRights = cr

	if movingPiece == Pawn || capturedPiece != Empty {
		p.Rule50 = 0
	} else {
		p.Rule50++
	}

	switch move.Flag() {
	case FlagEnPassant:
		p.xorPiece(Pawn, !side, epVictim(to, side))
		p.movePiece(Pawn, side, from, to)
	case FlagCastleKing, FlagCastleQueen:
		p.movePiece(King, side, from, to)
		var rookFrom, rookTo = castleRookSquares(to)
		p.movePiece(Rook, side, rookFrom, rookTo)
	case FlagPromotion:
		if capturedPiece != Empty {
			p.xorPiece(capturedPiece, !side, to)
		}
		p.xorPiece(Pawn, side, from)
		p.xorPiece(move.Promotion(), side, to)
	default:
		if capturedPiece != Empty {
			p.xorPiece(capturedPiece, !side, to)
		}
		p.movePiece(movingPiece, side, from, to)
		if move.Flag() == FlagDoublePush {
			var ep = (from + to) / 2
			if PawnAttacks(ep, side)&p.Pawns&p.PiecesByColor(!side) != 0 {
				p.EpSquare = ep
				p.Key ^= enpassantKey[File(ep)]
			}
		}
	}

	if !side {
		p.FullMove++
	}
	p.WhiteMove = !side
	p.LastMove = move

	if !p.isLegal() {
		p.UndoMove(move, u)
		return false
	}
	p.Checkers = p.computeCheckers()
	return true
}

func (p *Position) UndoMove(move Move, u *Undo) {
	p.WhiteMove = !p.WhiteMove

	var from = move.From()
	var to = move.To()
	var side = p.WhiteMove
	var capturedPiece = move.CapturedPiece()

	switch move.Flag() {
	case FlagEnPassant:
		p.movePiece(Pawn, side, to, from)
		p.xorPiece(Pawn, !side, epVictim(to, side))
	case FlagCastleKing, FlagCastleQueen:
		p.movePiece(King, side, to, from)
		var rookFrom, rookTo = castleRookSquares(to)
		p.movePiece(Rook, side, rookTo, rookFrom)
	case FlagPromotion:
		p.xorPiece(move.Promotion(), side, to)
		p.xorPiece(Pawn, side, from)
		if capturedPiece != Empty {
			p.xorPiece(capturedPiece, !side, to)
		}
	default:
		p.movePiece(move.MovingPiece(), side, to, from)
		if capturedPiece != Empty {
			p.xorPiece(capturedPiece, !side, to)
		}
	}

	u.restore(p)
}

func (p *Position) DoNullMove(u *Undo) {
	u.save(p)
	p.Key ^= sideKey
	if p.EpSquare != SquareNone {
		p.Key ^= enpassantKey[File(p.EpSquare)]
		p.EpSquare = SquareNone
	}
	p.Rule50++
	if !p.WhiteMove {
		p.FullMove++
	}
	p.WhiteMove = !p.WhiteMove
	p.Checkers = 0
	p.LastMove = MoveEmpty
}

func (p *Position) UndoNullMove(u *Undo) {
	p.WhiteMove = !p.WhiteMove
	u.restore(p)
}
