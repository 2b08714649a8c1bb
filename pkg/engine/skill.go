package engine

import . "github.com/kestrel-chess/kestrel/pkg/common"

// noisyEvaluator weakens play by adding a pseudo random term to the score.
// The term depends only on the position and the seed, so a position keeps
// its score for the whole search and the hash table stays consistent.
type noisyEvaluator struct {
	inner     Evaluator
	seed      uint64
	amplitude int
}

func (e *noisyEvaluator) Evaluate(p *Position) int {
	var h = mix64(p.Key ^ e.seed)
	var noise = int(h%uint64(2*e.amplitude+1)) - e.amplitude
	return e.inner.Evaluate(p) + noise
}

// splitmix64 finalizer
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
