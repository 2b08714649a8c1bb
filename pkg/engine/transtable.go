package engine

import (
	"sync/atomic"

	. "github.com/kestrel-chess/kestrel/pkg/common"
)

const (
	boundLower = 1 << iota
	boundUpper
)

const boundExact = boundLower | boundUpper

type TransTable interface {
	Size() (megabytes int)
	IncDate()
	Clear()
	HashFull() (permill int)
	Read(key uint64) (depth, score, bound int, move Move, found bool)
	Update(key uint64, depth, score, bound int, move Move)
}

func newTransTableOrNull(megabytes int) TransTable {
	if megabytes <= 0 {
		return nullTransTable{}
	}
	return newTransTable(megabytes)
}

func roundPowerOfTwo(size int) int {
	var x = 1
	for (x << 1) <= size {
		x <<= 1
	}
	return x
}

// 16 bytes. gate is taken with CAS by the reader or writer; a goroutine that
// loses the race skips the entry instead of waiting.
type transEntry struct {
	gate     int32
	key32    uint32
	moveDate uint32
	score    int16
	depth    int8
	bound    uint8
}

func (entry *transEntry) Move() Move {
	return Move(entry.moveDate & 0xffffff)
}

func (entry *transEntry) Date() uint8 {
	return uint8(entry.moveDate >> 24)
}

func (entry *transEntry) SetMoveAndDate(move Move, date uint8) {
	entry.moveDate = uint32(move)&0xffffff | uint32(date)<<24
}

type transTable struct {
	megabytes int
	entries   []transEntry
	date      uint8
	mask      uint32
}

// good test: position fen 8/k7/3p4/p2P1p2/P2P1P2/8/8/K7 w - - 0 1
// good test: position fen 8/pp6/2p5/P1P5/1P3k2/3K4/8/8 w - - 5 47
func newTransTable(megabytes int) *transTable {
	var size = roundPowerOfTwo(1024 * 1024 * megabytes / 16)
	return &transTable{
		megabytes: megabytes,
		entries:   make([]transEntry, size),
		mask:      uint32(size - 1),
	}
}

func (tt *transTable) Size() int {
	return tt.megabytes
}

// IncDate starts a new generation. Zero is reserved for empty entries.
func (tt *transTable) IncDate() {
	tt.date = tt.date%255 + 1
}

func (tt *transTable) Clear() {
	tt.date = 0
	for i := range tt.entries {
		tt.entries[i] = transEntry{}
	}
}

// HashFull samples the first entries and returns the per mille written in
// the current generation.
func (tt *transTable) HashFull() int {
	var sample = Min(1000, len(tt.entries))
	var used = 0
	for i := 0; i < sample; i++ {
		var entry = &tt.entries[i]
		// entries held by a search thread are counted as used
		if !atomic.CompareAndSwapInt32(&entry.gate, 0, 1) {
			used++
			continue
		}
		if entry.Date() == tt.date {
			used++
		}
		atomic.StoreInt32(&entry.gate, 0)
	}
	return used * 1000 / sample
}

func (tt *transTable) Read(key uint64) (depth, score, bound int, move Move, ok bool) {
	var entry = &tt.entries[uint32(key)&tt.mask]
	if atomic.CompareAndSwapInt32(&entry.gate, 0, 1) {
		if entry.key32 == uint32(key>>32) && entry.bound != 0 {
			entry.SetMoveAndDate(entry.Move(), tt.date)
			score = int(entry.score)
			move = entry.Move()
			depth = int(entry.depth)
			bound = int(entry.bound)
			ok = true
		}
		atomic.StoreInt32(&entry.gate, 0)
	}
	return
}

func (tt *transTable) Update(key uint64, depth, score, bound int, move Move) {
	var entry = &tt.entries[uint32(key)&tt.mask]
	if atomic.CompareAndSwapInt32(&entry.gate, 0, 1) {
		var replace bool
		if entry.key32 == uint32(key>>32) {
			replace = depth >= int(entry.depth)-3 || bound == boundExact
		} else {
			replace = entry.Date() != tt.date ||
				depth >= int(entry.depth)
		}
		if replace {
			if move == MoveEmpty && entry.key32 == uint32(key>>32) {
				move = entry.Move()
			}
			entry.key32 = uint32(key >> 32)
			entry.score = int16(score)
			entry.depth = int8(Min(depth, 127))
			entry.bound = uint8(bound)
			entry.SetMoveAndDate(move, tt.date)
		}
		atomic.StoreInt32(&entry.gate, 0)
	}
}

// nullTransTable is used when the hash size is zero.
type nullTransTable struct{}

func (nullTransTable) Size() int     { return 0 }
func (nullTransTable) IncDate()      {}
func (nullTransTable) Clear()        {}
func (nullTransTable) HashFull() int { return 0 }
func (nullTransTable) Update(key uint64, depth, score, bound int, move Move) {}

func (nullTransTable) Read(key uint64) (depth, score, bound int, move Move, found bool) {
	return
}
