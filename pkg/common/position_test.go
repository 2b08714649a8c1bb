package common

import (
	"errors"
	"testing"
)

var testFENs = []string{
	InitialPositionFen,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"8/p1P5/P7/3p4/5p1p/3p1P1P/K2p2pp/3R2nk w - - 0 1",
	"8/7p/p5pb/4k3/P1pPn3/8/P5PP/1rB2RK1 b - d3 0 28",
	"1K1k4/8/5n2/3p4/8/1BN2B2/6b1/7b w - - 0 1",
	"6k1/5ppp/3r4/8/3R2b1/8/5PPP/R3qB1K b - - 0 1",
	"2rqkb1r/p1pnpppp/3p3n/3B4/2BPP3/1QP5/PP3PPP/RN2K1NR w KQk - 0 1",
	"r2qk2r/pppb1ppp/2np4/1Bb5/4n3/5N2/PPP2PPP/RNBQR1K1 b kq - 1 1",
	"rnb1kbnr/pp1ppppp/8/1q6/2PpP3/5N2/PP3PPP/RNBQ1K1R b kq c3 0 6",
	"1r2k2r/p5bp/4p1p1/q2pB1N1/6P1/6QP/1P6/2KR3R b k - 0 1",
	"6k1/Qp1r1pp1/p1rP3p/P3q3/2Bnb1P1/1P3PNP/4p1K1/R1R5 b - - 0 1",
	"7k/8/8/8/1RRNN3/1BBQQ3/1KQQQ3/1QQQQ3 b - - 0 1",
	"4k3/p1P3p1/2q1np1p/3N4/8/1Q3PP1/6KP/8 w - - 0 1",
	"8/8/8/1p2q3/1P2rkp1/2P5/5K1Q/8 b - - 6 4",
	"rnbqk3/p7/2P5/1B6/8/8/8/4K3 w q - 0 1",
	"8/8/3p4/4r3/2RKP3/5k2/8/8 b - - 0 1",
	"4k3/8/8/K2pP2r/8/8/8/8 w - d6 0 1",
}

func TestFenRoundTrip(t *testing.T) {
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		if p.String() != fen {
			t.Error(fen, p.String())
		}
	}
}

func TestInvalidFen(t *testing.T) {
	var tests = []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkX - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1",
		"rnbqkbxr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		// two white kings
		"4k3/8/8/8/8/8/8/3KK3 w - - 0 1",
		// no black king
		"8/8/8/8/8/8/8/4K3 w - - 0 1",
		// pawn on the last rank
		"P3k3/8/8/8/8/8/8/4K3 w - - 0 1",
		// side not to move is in check
		"4k3/8/8/8/8/8/8/4R1K1 w - - 0 1",
		"4k3/8/8/8/8/8/4R3/4K3 w - - 0 1",
	}
	for _, fen := range tests {
		var _, err = NewPositionFromFEN(fen)
		if !errors.Is(err, ErrInvalidPosition) {
			t.Error(fen, err)
		}
	}
}

func TestSanitize(t *testing.T) {
	var tests = []struct {
		fen  string
		want string
	}{
		// no pawn can take en passant
		{"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2",
			"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2"},
		{"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
			"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3"},
		// rooks and kings off their squares
		{"4k3/8/8/8/8/8/8/R3K1R1 w KQkq - 0 1", "4k3/8/8/8/8/8/8/R3K1R1 w Q - 0 1"},
		{"r3k2r/8/8/8/8/8/8/4K3 b KQkq - 3 40", "r3k2r/8/8/8/8/8/8/4K3 b kq - 3 40"},
		// missing clocks
		{"4k3/8/8/8/8/8/8/4K3 w - -", "4k3/8/8/8/8/8/8/4K3 w - - 0 1"},
	}
	for _, test := range tests {
		var p, err = NewPositionFromFEN(test.fen)
		if err != nil {
			t.Fatal(err)
		}
		if p.String() != test.want {
			t.Error(test.fen, p.String())
		}
	}
}

func TestMakeUnmake(t *testing.T) {
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		checkMakeUnmake(t, &p, 3)
	}
}

// checkMakeUnmake walks the legal move tree checking that every move is
// reversed bit for bit and the incremental key matches a full recompute.
func checkMakeUnmake(t *testing.T, p *Position, depth int) {
	if depth == 0 {
		return
	}
	var buffer [MaxMoves]OrderedMove
	for _, om := range p.GenerateMoves(buffer[:]) {
		var before = *p
		var undo Undo
		if !p.DoMove(om.Move, &undo) {
			if *p != before {
				t.Fatal("illegal move changed position", before.String(), om.Move)
			}
			continue
		}
		if p.Key != p.computeKey() {
			t.Fatal("key mismatch", before.String(), om.Move)
		}
		if p.Checkers != p.computeCheckers() {
			t.Fatal("checkers mismatch", before.String(), om.Move)
		}
		checkMakeUnmake(t, p, depth-1)
		p.UndoMove(om.Move, &undo)
		if *p != before {
			t.Fatal("unmake mismatch", before.String(), om.Move, p.String())
		}
	}
}

func TestLegalMovesLeaveKingSafe(t *testing.T) {
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		for _, move := range p.GenerateLegalMoves() {
			var child Position
			if !p.MakeMove(move, &child) {
				t.Fatal(fen, move)
			}
			var kingSq = child.KingSquare(p.WhiteMove)
			if child.isAttackedBySide(kingSq, child.WhiteMove) {
				t.Error(fen, move)
			}
		}
	}
}

func TestNullMove(t *testing.T) {
	var p, err = NewPositionFromFEN("rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3")
	if err != nil {
		t.Fatal(err)
	}
	var before = p
	var undo Undo
	p.DoNullMove(&undo)
	if p.WhiteMove || p.EpSquare != SquareNone || p.Key != p.computeKey() {
		t.Error(p.String())
	}
	p.UndoNullMove(&undo)
	if p != before {
		t.Error(p.String())
	}
}

func TestMirrorPosition(t *testing.T) {
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		var mirror = MirrorPosition(&p)
		var back = MirrorPosition(&mirror)
		if back.String() != p.String() {
			t.Error(fen, back.String())
		}
		if Perft(&p, 2) != Perft(&mirror, 2) {
			t.Error(fen, mirror.String())
		}
	}
}

func TestMoveFlags(t *testing.T) {
	var p, err = NewPositionFromFEN("n1n1k3/1P6/8/8/8/8/8/R3K2R w KQ - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var promotions, castles, captures int
	for _, move := range p.GenerateLegalMoves() {
		switch move.Flag() {
		case FlagPromotion:
			promotions++
			if move.Promotion() == Empty {
				t.Error(move)
			}
			if move.CapturedPiece() == Knight {
				captures++
			}
		case FlagCastleKing, FlagCastleQueen:
			castles++
		}
	}
	if promotions != 12 || captures != 8 || castles != 2 {
		t.Error(promotions, captures, castles)
	}
}
