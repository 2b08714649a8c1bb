package games

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kestrel-chess/kestrel/pkg/common"
)

const testPgn = `[Event "Test"]
[Site "?"]
[Date "2024.01.01"]
[Round "1"]
[White "A"]
[Black "B"]
[Result "1-0"]

1. e4 e5 2. Nf3 Nc6 3. Bc4 Nf6 4. O-O Be7 5. d4 exd4 1-0

[Event "Test"]
[Site "?"]
[Date "2024.01.01"]
[Round "2"]
[White "B"]
[Black "A"]
[Result "0-1"]

1. f3 e5 2. g4 Qh4# 0-1

`

func TestReplayFile(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "games.pgn")
	if err := os.WriteFile(path, []byte(testPgn), 0o644); err != nil {
		t.Fatal(err)
	}
	var outcomes []common.Outcome
	var stats, err = ReplayFile(context.Background(), path, zerolog.Nop(),
		func(tags map[string]string, positions []common.Position) error {
			outcomes = append(outcomes, common.GameOutcome(positions))
			return nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Games != 2 || stats.Mismatches != 0 || stats.Positions != 11+5 {
		t.Error(stats)
	}
	if len(outcomes) != 2 || outcomes[0] != common.OutcomeNone || outcomes[1] != common.OutcomeCheckmate {
		t.Error(outcomes)
	}
}

func TestSameBoard(t *testing.T) {
	var tests = []struct {
		fen1, fen2 string
		same       bool
	}{
		{"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
			"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1", true},
		{"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1",
			"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 1", false},
		{"8/8/8/8/8/8/8/8", "8/8/8/8/8/8/8/8 w - - 0 1", false},
	}
	for _, test := range tests {
		if got := sameBoard(test.fen1, test.fen2); got != test.same {
			t.Error(test.fen1, test.fen2, got)
		}
	}
}
