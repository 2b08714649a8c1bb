package evalbuilder

import (
	"testing"

	"github.com/kestrel-chess/kestrel/pkg/common"
)

func TestGet(t *testing.T) {
	var p, err = common.NewPositionFromFEN(common.InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range append([]string{""}, Names...) {
		var builder, err = Get(name)
		if err != nil {
			t.Fatal(name, err)
		}
		if e := builder(); e == nil {
			t.Fatal(name)
		} else {
			e.Evaluate(&p)
		}
	}
	if _, err := Get("nnue"); err == nil {
		t.Error("unknown evaluator accepted")
	}
}
