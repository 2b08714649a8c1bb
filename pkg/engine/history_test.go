package engine

import (
	"testing"

	. "github.com/kestrel-chess/kestrel/pkg/common"
)

func TestHistoryUpdate(t *testing.T) {
	var p, _ = NewPositionFromFEN(InitialPositionFen)
	var a3 = p.ParseMoveLAN("a2a3")
	var e4 = p.ParseMoveLAN("e2e4")
	var nf3 = p.ParseMoveLAN("g1f3")
	var d4 = p.ParseMoveLAN("d2d4")

	var table history
	var h = historyContext{table: &table, side: true, rows: [2]int{-1, 5}}

	h.Update([]Move{a3, e4, nf3, d4}, nf3, 10)
	if h.ReadTotal(nf3) <= 0 {
		t.Error(h.ReadTotal(nf3))
	}
	if h.ReadTotal(a3) >= 0 || h.ReadTotal(e4) >= 0 {
		t.Error(h.ReadTotal(a3), h.ReadTotal(e4))
	}
	// moves after the best move are untouched
	if h.ReadTotal(d4) != 0 {
		t.Error(h.ReadTotal(d4))
	}

	// the other side reads its own entries
	var black = historyContext{table: &table, side: false, rows: [2]int{-1, -1}}
	if black.ReadTotal(nf3) != 0 {
		t.Error(black.ReadTotal(nf3))
	}

	for i := 0; i < 1000; i++ {
		h.Update([]Move{nf3}, nf3, 20)
	}
	if got := h.ReadTotal(nf3); got > 2*historyMax {
		t.Error(got)
	}

	table.clear()
	if h.ReadTotal(nf3) != 0 {
		t.Error(h.ReadTotal(nf3))
	}
}

func TestValueTT(t *testing.T) {
	for _, v := range []int{0, 150, -150, winIn(7), lossIn(4)} {
		for _, height := range []int{0, 3, 10} {
			if got := valueFromTT(valueToTT(v, height), height); got != v {
				t.Error(v, height, got)
			}
		}
	}
	// mate found 3 plies below a node at height 4, read back at height 1
	if got := valueFromTT(valueToTT(winIn(7), 4), 1); got != winIn(4) {
		t.Error(got)
	}
}
