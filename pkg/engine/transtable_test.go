package engine

import (
	"sync"
	"testing"

	. "github.com/kestrel-chess/kestrel/pkg/common"
)

func TestTransTable(t *testing.T) {
	var p, _ = NewPositionFromFEN(InitialPositionFen)
	var e4 = p.ParseMoveLAN("e2e4")
	var d4 = p.ParseMoveLAN("d2d4")

	var tt = newTransTable(1)
	tt.IncDate()
	var key = p.Key

	if _, _, _, _, ok := tt.Read(key); ok {
		t.Fatal("empty table hit")
	}

	tt.Update(key, 5, 30, boundExact, e4)
	var depth, score, bound, move, ok = tt.Read(key)
	if !ok || depth != 5 || score != 30 || bound != boundExact || move != e4 {
		t.Fatal(depth, score, bound, move, ok)
	}

	// a shallower bound on the same key keeps the stored move
	tt.Update(key, 4, 10, boundUpper, MoveEmpty)
	_, score, bound, move, _ = tt.Read(key)
	if score != 10 || bound != boundUpper || move != e4 {
		t.Error(score, bound, move)
	}

	// different key in the same slot, older depth and current date
	var other = key ^ (1 << 40)
	tt.Update(other, 1, 0, boundLower, d4)
	if _, _, _, _, ok := tt.Read(other); ok {
		t.Error("shallow entry replaced deeper one")
	}
	tt.IncDate()
	tt.Update(other, 1, 0, boundLower, d4)
	if _, _, _, move, ok := tt.Read(other); !ok || move != d4 {
		t.Error("stale entry not replaced")
	}

	tt.Clear()
	if _, _, _, _, ok := tt.Read(other); ok {
		t.Error("hit after clear")
	}
}

func TestTransTableHashFull(t *testing.T) {
	var tt = newTransTable(1)
	tt.IncDate()
	if tt.HashFull() != 0 {
		t.Fatal(tt.HashFull())
	}
	for i := 0; i < 500; i++ {
		tt.Update(uint64(i)|1<<32, 1, 0, boundExact, MoveEmpty)
	}
	if got := tt.HashFull(); got != 500 {
		t.Error(got)
	}
	tt.IncDate()
	if got := tt.HashFull(); got != 0 {
		t.Error(got)
	}
}

// Run with -race: HashFull is called from the main thread while search
// threads write entries.
func TestTransTableHashFullConcurrent(t *testing.T) {
	var tt = newTransTable(1)
	tt.IncDate()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 20000; i++ {
				var key = uint64(i%1000) | uint64(w+1)<<32
				tt.Update(key, i%10, i, boundLower, MoveEmpty)
				tt.Read(key)
			}
		}(w)
	}
	for i := 0; i < 100; i++ {
		if got := tt.HashFull(); got < 0 || got > 1000 {
			t.Error(got)
		}
	}
	wg.Wait()
	if got := tt.HashFull(); got != 1000 {
		t.Error(got)
	}
}

func TestNullTransTable(t *testing.T) {
	var tt = newTransTableOrNull(0)
	tt.Update(1, 1, 1, boundExact, MoveEmpty)
	if _, _, _, _, ok := tt.Read(1); ok {
		t.Error("null table hit")
	}
	if tt.HashFull() != 0 || tt.Size() != 0 {
		t.Error(tt.HashFull(), tt.Size())
	}
}

func TestTransTableDateWraps(t *testing.T) {
	var tt = newTransTable(1)
	for i := 0; i < 600; i++ {
		tt.IncDate()
		if tt.date == 0 {
			t.Fatal("date reached the empty marker")
		}
	}
}
