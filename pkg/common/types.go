package common

import "time"

const (
	WhiteKingSide = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide
)

const (
	SideWhite = iota
	SideBlack
)

// Position is a single board state. The zero value is not a valid position,
// use NewPositionFromFEN.
type Position struct {
	Pawns, Knights, Bishops, Rooks, Queens, Kings, White, Black, Checkers uint64
	WhiteMove                                                             bool
	CastleRights, Rule50, EpSquare, FullMove                              int
	Key                                                                   uint64
	LastMove                                                              Move
}

const InitialPositionFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

const (
	Empty int = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

const PIECE_NB = King + 1

const (
	MaxMoves = 256
)

type OrderedMove struct {
	Move Move
	Key  int32
}

type LimitsType struct {
	Ponder         bool
	Infinite       bool
	WhiteTime      int
	BlackTime      int
	WhiteIncrement int
	BlackIncrement int
	MoveTime       int
	MovesToGo      int
	Depth          int
	Nodes          int
	Mate           int
}

type SearchParams struct {
	Positions   []Position
	Limits      LimitsType
	SearchMoves []Move
	Progress    func(si SearchInfo)
}

type SearchInfo struct {
	Score    UciScore
	Depth    int
	SelDepth int
	Nodes    int64
	Time     time.Duration
	HashFull int
	MainLine []Move
	Outcome  Outcome
	Aborted  bool
}

type UciScore struct {
	Centipawns int
	Mate       int
}

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeCheckmate
	OutcomeStalemate
	OutcomeFiftyMove
	OutcomeRepetition
	OutcomeInsufficientMaterial
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCheckmate:
		return "checkmate"
	case OutcomeStalemate:
		return "stalemate"
	case OutcomeFiftyMove:
		return "fifty move rule"
	case OutcomeRepetition:
		return "threefold repetition"
	case OutcomeInsufficientMaterial:
		return "insufficient material"
	}
	return "none"
}

func (o Outcome) IsDraw() bool {
	return o >= OutcomeStalemate
}
