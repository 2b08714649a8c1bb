package common

import (
	"strings"
	"unicode"

	"golang.org/x/exp/constraints"
)

func Min[T constraints.Ordered](l, r T) T {
	if l < r {
		return l
	}
	return r
}

func Max[T constraints.Ordered](l, r T) T {
	if l > r {
		return l
	}
	return r
}

func Abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func AbsDelta[T constraints.Signed](x, y T) T {
	if x > y {
		return x - y
	}
	return y - x
}

func let(ok bool, yes, no int) int {
	if ok {
		return yes
	}
	return no
}

type coloredPiece struct {
	Type int
	Side bool
}

func parsePiece(ch rune) coloredPiece {
	var side = unicode.IsUpper(ch)
	var i = strings.IndexRune("pnbrqk", unicode.ToLower(ch))
	if i < 0 {
		return coloredPiece{Empty, false}
	}
	return coloredPiece{i + Pawn, side}
}

func pieceToChar(pieceType int, side bool) byte {
	var ch = "pnbrqk"[pieceType-Pawn]
	if side {
		ch -= 'a' - 'A'
	}
	return ch
}
