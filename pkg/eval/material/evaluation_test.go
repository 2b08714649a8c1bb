package eval

import (
	"testing"

	"github.com/kestrel-chess/kestrel/pkg/common"
)

func TestEvaluate(t *testing.T) {
	var tests = []struct {
		fen  string
		want int
	}{
		{common.InitialPositionFen, 0},
		{"4k3/8/8/8/8/8/4P3/R3K3 w - - 0 1", 600},
		{"4k3/8/8/8/8/8/4P3/R3K3 b - - 0 1", -600},
		{"3qk3/8/8/8/8/8/8/1NB1K3 w - - 0 1", 320 + 330 - 950},
	}
	var e = NewEvaluationService()
	for _, test := range tests {
		var p, err = common.NewPositionFromFEN(test.fen)
		if err != nil {
			t.Fatal(err)
		}
		if got := e.Evaluate(&p); got != test.want {
			t.Error(test.fen, got, test.want)
		}
	}
}
