package common

import (
	"errors"
	"strings"
	"testing"
)

func TestSetPositionIllegalMove(t *testing.T) {
	var _, err = SetPosition(InitialPositionFen, []string{"e2e4", "e7e5", "e1e3"})
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatal(err)
	}
	if !strings.Contains(err.Error(), "ply 3") {
		t.Error(err)
	}
	_, err = SetPosition("not a fen", nil)
	if !errors.Is(err, ErrInvalidPosition) {
		t.Error(err)
	}
}

func TestGameOutcome(t *testing.T) {
	var tests = []struct {
		fen   string
		moves string
		want  Outcome
	}{
		{InitialPositionFen, "", OutcomeNone},
		{InitialPositionFen, "f2f3 e7e5 g2g4 d8h4", OutcomeCheckmate},
		{"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", "", OutcomeStalemate},
		{"4k3/8/8/8/8/8/8/R3K3 w - - 99 80", "a1a2", OutcomeFiftyMove},
		{"4k3/8/8/8/8/8/8/4KB2 w - - 0 1", "", OutcomeInsufficientMaterial},
		{InitialPositionFen, "g1f3 g8f6 f3g1 f6g8 g1f3 g8f6 f3g1 f6g8", OutcomeRepetition},
		{InitialPositionFen, "g1f3 g8f6 f3g1 f6g8", OutcomeNone},
	}
	for _, test := range tests {
		var positions, err = SetPosition(test.fen, strings.Fields(test.moves))
		if err != nil {
			t.Fatal(err)
		}
		var got = GameOutcome(positions)
		if got != test.want {
			t.Error(test.fen, test.moves, got, test.want)
		}
	}
}

func TestFullMoveCounter(t *testing.T) {
	var positions, err = SetPosition(InitialPositionFen, []string{"e2e4", "e7e5", "g1f3"})
	if err != nil {
		t.Fatal(err)
	}
	var last = positions[len(positions)-1]
	const want = "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2"
	if last.String() != want {
		t.Error(last.String())
	}
}

func TestSAN(t *testing.T) {
	var tests = []struct {
		fen string
		lan string
		san string
	}{
		{InitialPositionFen, "g1f3", "Nf3"},
		{InitialPositionFen, "e2e4", "e4"},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", "e1c1", "O-O-O"},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", "d5e6", "dxe6"},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", "e5f7", "Nxf7"},
		{"n1n1k3/1P6/8/8/8/8/8/R3K2R w KQ - 0 1", "b7c8q", "bxc8=Q+"},
		{"n1n1k3/1P6/8/8/8/8/8/R3K2R w KQ - 0 1", "b7b8n", "b8=N"},
		{"4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1", "a1a8", "Ra8+"},
		{"4k3/8/8/8/8/8/8/R4RK1 w - - 0 1", "a1d1", "Rad1"},
		{"6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8", "Ra8#"},
	}
	for _, test := range tests {
		var p, err = NewPositionFromFEN(test.fen)
		if err != nil {
			t.Fatal(err)
		}
		var mv = p.ParseMoveLAN(test.lan)
		if mv == MoveEmpty {
			t.Fatal(test.fen, test.lan)
		}
		var san = MoveToSAN(&p, mv)
		if san != test.san {
			t.Error(test.fen, test.lan, san)
		}
		if ParseMoveSAN(&p, san) != mv {
			t.Error(test.fen, san)
		}
	}
}
