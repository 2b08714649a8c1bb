package common

import "strings"

// ParseMoveLAN finds the legal move written in long algebraic notation.
func (p *Position) ParseMoveLAN(lan string) Move {
	for _, mv := range p.GenerateLegalMoves() {
		if strings.EqualFold(mv.String(), lan) {
			return mv
		}
	}
	return MoveEmpty
}

func (p *Position) MakeMoveLAN(lan string) (Position, bool) {
	var mv = p.ParseMoveLAN(lan)
	if mv == MoveEmpty {
		return Position{}, false
	}
	var newPosition Position
	if !p.MakeMove(mv, &newPosition) {
		return Position{}, false
	}
	return newPosition, true
}

// MoveToSAN formats a legal move in standard algebraic notation including
// the check or mate suffix.
func MoveToSAN(pos *Position, mv Move) string {
	var result = moveToSAN(pos.GenerateLegalMoves(), mv)
	var child Position
	if pos.MakeMove(mv, &child) && child.IsCheck() {
		if len(child.GenerateLegalMoves()) == 0 {
			result += "#"
		} else {
			result += "+"
		}
	}
	return result
}

func moveToSAN(ml []Move, mv Move) string {
	const PieceNames = "NBRQK"
	switch mv.Flag() {
	case FlagCastleKing:
		return "O-O"
	case FlagCastleQueen:
		return "O-O-O"
	}
	var strPiece, strCapture, strFrom, strPromotion string
	if mv.MovingPiece() != Pawn {
		strPiece = string(PieceNames[mv.MovingPiece()-Knight])
	}
	if mv.CapturedPiece() != Empty {
		strCapture = "x"
		if mv.MovingPiece() == Pawn {
			strFrom = SquareName(mv.From())[:1]
		}
	}
	if mv.Promotion() != Empty {
		strPromotion = "=" + string(PieceNames[mv.Promotion()-Knight])
	}
	if mv.MovingPiece() != Pawn {
		var ambiguity = false
		var uniqCol = true
		var uniqRow = true
		for _, other := range ml {
			if other.From() == mv.From() ||
				other.To() != mv.To() ||
				other.MovingPiece() != mv.MovingPiece() {
				continue
			}
			ambiguity = true
			if File(other.From()) == File(mv.From()) {
				uniqCol = false
			}
			if Rank(other.From()) == Rank(mv.From()) {
				uniqRow = false
			}
		}
		if ambiguity {
			if uniqCol {
				strFrom = SquareName(mv.From())[:1]
			} else if uniqRow {
				strFrom = SquareName(mv.From())[1:2]
			} else {
				strFrom = SquareName(mv.From())
			}
		}
	}
	return strPiece + strFrom + strCapture + SquareName(mv.To()) + strPromotion
}

func normalizeSAN(san string) string {
	if index := strings.IndexAny(san, "+#?!"); index >= 0 {
		san = san[:index]
	}
	san = strings.ReplaceAll(san, "0", "O")
	return strings.ReplaceAll(san, "=", "")
}

// ParseMoveSAN returns MoveEmpty when san matches no legal move.
func ParseMoveSAN(pos *Position, san string) Move {
	san = normalizeSAN(san)
	var ml = pos.GenerateLegalMoves()
	for _, mv := range ml {
		if san == normalizeSAN(moveToSAN(ml, mv)) {
			return mv
		}
	}
	return MoveEmpty
}
