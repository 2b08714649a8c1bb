package common

// Move packs a transition into 24 bits:
// from (0-5), to (6-11), moving piece (12-14), captured piece (15-17),
// promotion piece (18-20), special flag (21-23).
type Move int32

const MoveEmpty = Move(0)

const (
	FlagNone = iota
	FlagDoublePush
	FlagEnPassant
	FlagCastleKing
	FlagCastleQueen
	FlagPromotion
)

func makeMove(from, to, movingPiece, capturedPiece int) Move {
	return Move(from ^ (to << 6) ^ (movingPiece << 12) ^ (capturedPiece << 15))
}

func makeSpecialMove(from, to, movingPiece, capturedPiece, flag int) Move {
	return makeMove(from, to, movingPiece, capturedPiece) ^ Move(flag<<21)
}

func (m Move) From() int {
	return int(m & 63)
}

func (m Move) To() int {
	return int((m >> 6) & 63)
}

func (m Move) MovingPiece() int {
	return int((m >> 12) & 7)
}

func (m Move) CapturedPiece() int {
	return int((m >> 15) & 7)
}

func (m Move) Promotion() int {
	return int((m >> 18) & 7)
}

func (m Move) Flag() int {
	return int((m >> 21) & 7)
}

func (m Move) IsCastle() bool {
	var flag = m.Flag()
	return flag == FlagCastleKing || flag == FlagCastleQueen
}

func (m Move) IsEnPassant() bool {
	return m.Flag() == FlagEnPassant
}

func (m Move) IsCapture() bool {
	return m.CapturedPiece() != Empty
}

// String returns long algebraic notation as used by UCI.
func (m Move) String() string {
	if m == MoveEmpty {
		return "0000"
	}
	var result = SquareName(m.From()) + SquareName(m.To())
	if m.Promotion() != Empty {
		result += string("nbrq"[m.Promotion()-Knight])
	}
	return result
}
