package common

import "math/bits"

const (
	FileAMask uint64 = 0x0101010101010101 << iota
	FileBMask
	FileCMask
	FileDMask
	FileEMask
	FileFMask
	FileGMask
	FileHMask
)

const (
	Rank1Mask uint64 = 0xFF << (8 * iota)
	Rank2Mask
	Rank3Mask
	Rank4Mask
	Rank5Mask
	Rank6Mask
	Rank7Mask
	Rank8Mask
)

const (
	DarkSquares  uint64 = 0xAA55AA55AA55AA55
	LightSquares        = ^DarkSquares
)

var (
	FileMask = [8]uint64{FileAMask, FileBMask, FileCMask, FileDMask, FileEMask, FileFMask, FileGMask, FileHMask}
	RankMask = [8]uint64{Rank1Mask, Rank2Mask, Rank3Mask, Rank4Mask, Rank5Mask, Rank6Mask, Rank7Mask, Rank8Mask}
)

var (
	SquareMask       [64]uint64
	KnightAttacks    [64]uint64
	KingAttacks      [64]uint64
	AdjacentFiles    [8]uint64
	whitePawnAttacks [64]uint64
	blackPawnAttacks [64]uint64
	betweenMask      [64][64]uint64
	rookMoves        [64]uint64
	bishopMoves      [64]uint64
	rays             [dirCount][64]uint64
)

// Ray directions. The first four increase the square index, so the nearest
// blocker on those rays is the lowest set bit.
const (
	dirNorth = iota
	dirEast
	dirNorthEast
	dirNorthWest
	dirSouth
	dirWest
	dirSouthEast
	dirSouthWest
	dirCount
)

var dirDeltas = [dirCount][2]int{
	dirNorth:     {0, 1},
	dirEast:      {1, 0},
	dirNorthEast: {1, 1},
	dirNorthWest: {-1, 1},
	dirSouth:     {0, -1},
	dirWest:      {-1, 0},
	dirSouthEast: {1, -1},
	dirSouthWest: {-1, -1},
}

func FirstOne(b uint64) int {
	return bits.TrailingZeros64(b)
}

func LastOne(b uint64) int {
	return 63 - bits.LeadingZeros64(b)
}

func PopCount(b uint64) int {
	return bits.OnesCount64(b)
}

func MoreThanOne(b uint64) bool {
	return b&(b-1) != 0
}

func Up(b uint64) uint64 {
	return b << 8
}

func Down(b uint64) uint64 {
	return b >> 8
}

func Left(b uint64) uint64 {
	return (b &^ FileAMask) >> 1
}

func Right(b uint64) uint64 {
	return (b &^ FileHMask) << 1
}

func UpFill(b uint64) uint64 {
	b |= b << 8
	b |= b << 16
	b |= b << 32
	return b
}

func DownFill(b uint64) uint64 {
	b |= b >> 8
	b |= b >> 16
	b |= b >> 32
	return b
}

func FileFill(b uint64) uint64 {
	return UpFill(b) | DownFill(b)
}

func AllWhitePawnAttacks(b uint64) uint64 {
	return ((b &^ FileAMask) << 7) | ((b &^ FileHMask) << 9)
}

func AllBlackPawnAttacks(b uint64) uint64 {
	return ((b &^ FileAMask) >> 9) | ((b &^ FileHMask) >> 7)
}

// PawnAttacks returns squares attacked by a pawn of the given colour standing on sq.
func PawnAttacks(sq int, white bool) uint64 {
	if white {
		return whitePawnAttacks[sq]
	}
	return blackPawnAttacks[sq]
}

func slide(sq, dir int, occ uint64) uint64 {
	var ray = rays[dir][sq]
	var blockers = ray & occ
	if blockers == 0 {
		return ray
	}
	var blocker int
	if dir < dirSouth {
		blocker = FirstOne(blockers)
	} else {
		blocker = LastOne(blockers)
	}
	return ray ^ rays[dir][blocker]
}

func RookAttacks(sq int, occ uint64) uint64 {
	return slide(sq, dirNorth, occ) | slide(sq, dirSouth, occ) |
		slide(sq, dirEast, occ) | slide(sq, dirWest, occ)
}

func BishopAttacks(sq int, occ uint64) uint64 {
	return slide(sq, dirNorthEast, occ) | slide(sq, dirNorthWest, occ) |
		slide(sq, dirSouthEast, occ) | slide(sq, dirSouthWest, occ)
}

func QueenAttacks(sq int, occ uint64) uint64 {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// BetweenMask returns squares strictly between two aligned squares, or 0.
func BetweenMask(from, to int) uint64 {
	return betweenMask[from][to]
}

func onBoard(file, rank int) bool {
	return file >= FileA && file <= FileH && rank >= Rank1 && rank <= Rank8
}

func stepMask(sq int, deltas [][2]int) uint64 {
	var result uint64
	for _, d := range deltas {
		var f, r = File(sq) + d[0], Rank(sq) + d[1]
		if onBoard(f, r) {
			result |= SquareMask[MakeSquare(f, r)]
		}
	}
	return result
}

func init() {
	for sq := range SquareMask {
		SquareMask[sq] = uint64(1) << uint(sq)
	}
	for f := FileA; f <= FileH; f++ {
		AdjacentFiles[f] = Left(FileMask[f]) | Right(FileMask[f])
	}

	var knightDeltas = [][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	var kingDeltas = [][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	for sq := 0; sq < 64; sq++ {
		KnightAttacks[sq] = stepMask(sq, knightDeltas)
		KingAttacks[sq] = stepMask(sq, kingDeltas)
		whitePawnAttacks[sq] = stepMask(sq, [][2]int{{-1, 1}, {1, 1}})
		blackPawnAttacks[sq] = stepMask(sq, [][2]int{{-1, -1}, {1, -1}})
	}

	for sq := 0; sq < 64; sq++ {
		for dir, d := range dirDeltas {
			var between uint64
			for f, r := File(sq)+d[0], Rank(sq)+d[1]; onBoard(f, r); f, r = f+d[0], r+d[1] {
				var to = MakeSquare(f, r)
				rays[dir][sq] |= SquareMask[to]
				betweenMask[sq][to] = between
				between |= SquareMask[to]
			}
		}
		rookMoves[sq] = RookAttacks(sq, 0)
		bishopMoves[sq] = BishopAttacks(sq, 0)
	}
}
