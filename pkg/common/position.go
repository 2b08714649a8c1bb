package common

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

var castleMask [64]int

func createPosition(board [64]coloredPiece, wtm bool,
	castleRights, ep, fifty, fullMove int) (Position, error) {
	var p = Position{
		WhiteMove: wtm,
		Rule50:    fifty,
		FullMove:  fullMove,
		EpSquare:  SquareNone,
		LastMove:  MoveEmpty,
	}

	for sq, piece := range board {
		if piece.Type != Empty {
			p.xorPiece(piece.Type, piece.Side, sq)
		}
	}

	if PopCount(p.Kings&p.White) != 1 || PopCount(p.Kings&p.Black) != 1 {
		return Position{}, errors.New("each side must have exactly one king")
	}
	if p.Pawns&(Rank1Mask|Rank8Mask) != 0 {
		return Position{}, errors.New("pawn on first or last rank")
	}

	p.CastleRights = sanitizeCastleRights(&p, castleRights)
	if ep != SquareNone && p.isValidEpSquare(ep) {
		p.EpSquare = ep
	}

	p.Key = p.computeKey()
	if !p.isLegal() {
		return Position{}, errors.New("side not to move is in check")
	}
	p.Checkers = p.computeCheckers()
	return p, nil
}

// Rights whose king or rook is not on its home square are dropped.
func sanitizeCastleRights(p *Position, cr int) int {
	var whiteRooks = p.Rooks & p.White
	var blackRooks = p.Rooks & p.Black
	if p.Kings&p.White&SquareMask[SquareE1] == 0 {
		cr &^= WhiteKingSide | WhiteQueenSide
	}
	if p.Kings&p.Black&SquareMask[SquareE8] == 0 {
		cr &^= BlackKingSide | BlackQueenSide
	}
	if whiteRooks&SquareMask[SquareH1] == 0 {
		cr &^= WhiteKingSide
	}
	if whiteRooks&SquareMask[SquareA1] == 0 {
		cr &^= WhiteQueenSide
	}
	if blackRooks&SquareMask[SquareH8] == 0 {
		cr &^= BlackKingSide
	}
	if blackRooks&SquareMask[SquareA8] == 0 {
		cr &^= BlackQueenSide
	}
	return cr
}

// An en passant square is kept only when the opponent could have just
// double-pushed past it and a pawn of the side to move attacks it.
func (p *Position) isValidEpSquare(ep int) bool {
	var own = p.PiecesByColor(p.WhiteMove)
	var opp = p.PiecesByColor(!p.WhiteMove)
	var victim, origin int
	if p.WhiteMove {
		if Rank(ep) != Rank6 {
			return false
		}
		victim, origin = ep-8, ep+8
	} else {
		if Rank(ep) != Rank3 {
			return false
		}
		victim, origin = ep+8, ep-8
	}
	var all = p.White | p.Black
	return p.Pawns&opp&SquareMask[victim] != 0 &&
		all&(SquareMask[ep]|SquareMask[origin]) == 0 &&
		PawnAttacks(ep, !p.WhiteMove)&p.Pawns&own != 0
}

func NewPositionFromFEN(fen string) (Position, error) {
	var tokens = strings.Fields(fen)
	if len(tokens) < 4 {
		return Position{}, fmt.Errorf("%w: too few fields in fen %q", ErrInvalidPosition, fen)
	}

	var board, err = parseBoard(tokens[0])
	if err != nil {
		return Position{}, fmt.Errorf("%w: %v in fen %q", ErrInvalidPosition, err, fen)
	}

	var whiteMove bool
	switch tokens[1] {
	case "w":
		whiteMove = true
	case "b":
		whiteMove = false
	default:
		return Position{}, fmt.Errorf("%w: bad side to move in fen %q", ErrInvalidPosition, fen)
	}

	var cr = 0
	if tokens[2] != "-" {
		for _, ch := range tokens[2] {
			switch ch {
			case 'K':
				cr |= WhiteKingSide
			case 'Q':
				cr |= WhiteQueenSide
			case 'k':
				cr |= BlackKingSide
			case 'q':
				cr |= BlackQueenSide
			default:
				return Position{}, fmt.Errorf("%w: bad castling rights in fen %q", ErrInvalidPosition, fen)
			}
		}
	}

	var epSquare = SquareNone
	if tokens[3] != "-" {
		epSquare = ParseSquare(tokens[3])
		if epSquare == SquareNone {
			return Position{}, fmt.Errorf("%w: bad en passant square in fen %q", ErrInvalidPosition, fen)
		}
	}

	var rule50, fullMove = 0, 1
	if len(tokens) > 4 {
		rule50, err = strconv.Atoi(tokens[4])
		if err != nil || rule50 < 0 {
			return Position{}, fmt.Errorf("%w: bad halfmove clock in fen %q", ErrInvalidPosition, fen)
		}
	}
	if len(tokens) > 5 {
		fullMove, err = strconv.Atoi(tokens[5])
		if err != nil || fullMove < 1 {
			return Position{}, fmt.Errorf("%w: bad fullmove number in fen %q", ErrInvalidPosition, fen)
		}
	}

	pos, err := createPosition(board, whiteMove, cr, epSquare, rule50, fullMove)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %v in fen %q", ErrInvalidPosition, err, fen)
	}
	return pos, nil
}

func parseBoard(s string) (board [64]coloredPiece, err error) {
	var rows = strings.Split(s, "/")
	if len(rows) != 8 {
		return board, errors.New("board must have 8 ranks")
	}
	for i, row := range rows {
		var rank = Rank8 - i
		var file = FileA
		for _, ch := range row {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			var piece = parsePiece(ch)
			if piece.Type == Empty {
				return board, fmt.Errorf("bad piece %q", ch)
			}
			if file > FileH {
				return board, fmt.Errorf("rank %v is too long", rank+1)
			}
			board[MakeSquare(file, rank)] = piece
			file++
		}
		if file != FileH+1 {
			return board, fmt.Errorf("rank %v must have 8 squares", rank+1)
		}
	}
	return board, nil
}

func (p *Position) String() string {
	var sb strings.Builder

	for rank := Rank8; rank >= Rank1; rank-- {
		var emptyCount = 0
		for file := FileA; file <= FileH; file++ {
			var piece, side = p.GetPieceTypeAndSide(MakeSquare(file, rank))
			if piece == Empty {
				emptyCount++
				continue
			}
			if emptyCount != 0 {
				sb.WriteString(strconv.Itoa(emptyCount))
				emptyCount = 0
			}
			sb.WriteByte(pieceToChar(piece, side))
		}
		if emptyCount != 0 {
			sb.WriteString(strconv.Itoa(emptyCount))
		}
		if rank != Rank1 {
			sb.WriteByte('/')
		}
	}

	if p.WhiteMove {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if p.CastleRights == 0 {
		sb.WriteString("-")
	} else {
		for i, ch := range "KQkq" {
			if p.CastleRights&(1<<uint(i)) != 0 {
				sb.WriteRune(ch)
			}
		}
	}

	sb.WriteString(" ")
	if p.EpSquare == SquareNone {
		sb.WriteString("-")
	} else {
		sb.WriteString(SquareName(p.EpSquare))
	}

	fmt.Fprintf(&sb, " %v %v", p.Rule50, p.FullMove)
	return sb.String()
}

func (p *Position) GetPieceTypeAndSide(sq int) (pieceType int, side bool) {
	var bb = SquareMask[sq]
	if (p.White & bb) != 0 {
		side = true
	} else if (p.Black & bb) == 0 {
		return Empty, false
	}
	pieceType = p.WhatPiece(sq)
	return
}

func (p *Position) WhatPiece(sq int) int {
	var bb = SquareMask[sq]
	if ((p.White | p.Black) & bb) == 0 {
		return Empty
	}
	switch {
	case p.Pawns&bb != 0:
		return Pawn
	case p.Knights&bb != 0:
		return Knight
	case p.Bishops&bb != 0:
		return Bishop
	case p.Rooks&bb != 0:
		return Rook
	case p.Queens&bb != 0:
		return Queen
	case p.Kings&bb != 0:
		return King
	}
	panic(fmt.Errorf("wrong piece on %s", SquareName(sq)))
}

// MakeMove is copy-make: result receives the position after move.
// Returns false if the move leaves the mover's king in check.
func (src *Position) MakeMove(move Move, result *Position) bool {
	*result = *src
	var undo Undo
	return result.DoMove(move, &undo)
}

func (src *Position) MakeNullMove(result *Position) {
	*result = *src
	var undo Undo
	result.DoNullMove(&undo)
}

func (p *Position) PiecesByColor(side bool) uint64 {
	if side {
		return p.White
	}
	return p.Black
}

func (p *Position) Colours(side int) uint64 {
	if side == SideWhite {
		return p.White
	}
	return p.Black
}

func (p *Position) AllPieces() uint64 {
	return p.White | p.Black
}

func (p *Position) pieceBoard(piece int) *uint64 {
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
	case King:
		return &p.Kings
	}
	panic(fmt.Errorf("bad piece %v", piece))
}

func (p *Position) xorPiece(piece int, side bool, square int) {
	var b = SquareMask[square]
	if side {
		p.White ^= b
	} else {
		p.Black ^= b
	}
	*p.pieceBoard(piece) ^= b
	p.Key ^= PieceSquareKey(piece, side, square)
}

func (p *Position) movePiece(piece int, side bool, from, to int) {
	var b = SquareMask[from] ^ SquareMask[to]
	if side {
		p.White ^= b
	} else {
		p.Black ^= b
	}
	*p.pieceBoard(piece) ^= b
	p.Key ^= PieceSquareKey(piece, side, from) ^ PieceSquareKey(piece, side, to)
}

// isAttackedBySide probes every attack pattern outward from sq.
func (p *Position) isAttackedBySide(sq int, side bool) bool {
	var enemy = p.PiecesByColor(side)
	if (PawnAttacks(sq, !side) & p.Pawns & enemy) != 0 {
		return true
	}
	if (KnightAttacks[sq] & p.Knights & enemy) != 0 {
		return true
	}
	if (KingAttacks[sq] & p.Kings & enemy) != 0 {
		return true
	}
	var allPieces = p.White | p.Black
	if (BishopAttacks(sq, allPieces) & (p.Bishops | p.Queens) & enemy) != 0 {
		return true
	}
	return (RookAttacks(sq, allPieces) & (p.Rooks | p.Queens) & enemy) != 0
}

// IsAttacked reports whether the side not to move attacks sq.
func (p *Position) IsAttacked(sq int) bool {
	return p.isAttackedBySide(sq, !p.WhiteMove)
}

func (p *Position) AttackersTo(sq int, occ uint64) uint64 {
	return (blackPawnAttacks[sq] & p.Pawns & p.White) |
		(whitePawnAttacks[sq] & p.Pawns & p.Black) |
		(KnightAttacks[sq] & p.Knights) |
		(BishopAttacks(sq, occ) & (p.Bishops | p.Queens)) |
		(RookAttacks(sq, occ) & (p.Rooks | p.Queens)) |
		(KingAttacks[sq] & p.Kings)
}

func (p *Position) KingSquare(side bool) int {
	return FirstOne(p.Kings & p.PiecesByColor(side))
}

func (p *Position) computeCheckers() uint64 {
	var kingSq = p.KingSquare(p.WhiteMove)
	return p.AttackersTo(kingSq, p.White|p.Black) & p.PiecesByColor(!p.WhiteMove)
}

// isLegal reports whether the side that just moved left its king safe.
func (p *Position) isLegal() bool {
	return !p.isAttackedBySide(p.KingSquare(!p.WhiteMove), p.WhiteMove)
}

func (p *Position) IsCheck() bool {
	return p.Checkers != 0
}

func (p *Position) IsRepetition(other *Position) bool {
	return p.White == other.White &&
		p.Black == other.Black &&
		p.Pawns == other.Pawns &&
		p.Knights == other.Knights &&
		p.Bishops == other.Bishops &&
		p.Rooks == other.Rooks &&
		p.Queens == other.Queens &&
		p.Kings == other.Kings &&
		p.WhiteMove == other.WhiteMove &&
		p.CastleRights == other.CastleRights &&
		p.EpSquare == other.EpSquare
}

func (p *Position) IsInsufficientMaterial() bool {
	return (p.Pawns|p.Rooks|p.Queens) == 0 &&
		!MoreThanOne(p.Knights|p.Bishops)
}

var (
	sideKey        uint64
	enpassantKey   [8]uint64
	castlingKey    [16]uint64
	pieceSquareKey [2 * PIECE_NB * 64]uint64
)

func PieceSquareKey(piece int, side bool, square int) uint64 {
	var index = piece
	if !side {
		index += PIECE_NB
	}
	return pieceSquareKey[index*64+square]
}

func (p *Position) computeKey() uint64 {
	var result = uint64(0)
	if p.WhiteMove {
		result ^= sideKey
	}
	result ^= castlingKey[p.CastleRights]
	if p.EpSquare != SquareNone {
		result ^= enpassantKey[File(p.EpSquare)]
	}
	for x := p.White | p.Black; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var piece, side = p.GetPieceTypeAndSide(sq)
		result ^= PieceSquareKey(piece, side, sq)
	}
	return result
}

func initKeys() {
	var r = rand.New(rand.NewSource(0))
	sideKey = r.Uint64()
	for i := range enpassantKey {
		enpassantKey[i] = r.Uint64()
	}
	for i := range pieceSquareKey {
		pieceSquareKey[i] = r.Uint64()
	}

	var castle [4]uint64
	for i := range castle {
		castle[i] = r.Uint64()
	}
	// castlingKey[a] ^ castlingKey[b] == castlingKey[a^b]
	for i := range castlingKey {
		for j := range castle {
			if (i & (1 << uint(j))) != 0 {
				castlingKey[i] ^= castle[j]
			}
		}
	}
}

// MirrorPosition flips the board vertically and swaps colours.
func MirrorPosition(p *Position) Position {
	var board [64]coloredPiece
	for i := range board {
		var pt, side = p.GetPieceTypeAndSide(i)
		if pt != Empty {
			board[FlipSquare(i)] = coloredPiece{pt, !side}
		}
	}
	var cr = (p.CastleRights >> 2) | ((p.CastleRights & 3) << 2)
	var ep = SquareNone
	if p.EpSquare != SquareNone {
		ep = FlipSquare(p.EpSquare)
	}
	var pos, err = createPosition(board, !p.WhiteMove, cr, ep, p.Rule50, p.FullMove)
	if err != nil {
		panic(err)
	}
	return pos
}

func init() {
	initKeys()
	for i := range castleMask {
		castleMask[i] = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
	}
	castleMask[SquareA1] &^= WhiteQueenSide
	castleMask[SquareE1] &^= WhiteQueenSide | WhiteKingSide
	castleMask[SquareH1] &^= WhiteKingSide
	castleMask[SquareA8] &^= BlackQueenSide
	castleMask[SquareE8] &^= BlackQueenSide | BlackKingSide
	castleMask[SquareH8] &^= BlackKingSide
}
