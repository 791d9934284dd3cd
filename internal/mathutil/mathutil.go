// Package mathutil holds the small numeric helpers shared by the scene
// builders.
package mathutil

import "math/rand/v2"

// Lerp moves current toward target by the fraction speed.
func Lerp(current, target, speed float32) float32 {
	return current + (target-current)*speed
}

func Clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}

// RandomRange returns a value in [lo, hi).
func RandomRange(rng *rand.Rand, lo, hi float32) float32 {
	return rng.Float32()*(hi-lo) + lo
}

// RandomInt returns an integer in [lo, hi], inclusive. A reversed range
// returns lo.
func RandomInt(rng *rand.Rand, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// RandomColor picks a 0xRRGGBB colour from palette, or fallback when the
// palette is empty.
func RandomColor(rng *rand.Rand, palette []uint32, fallback uint32) uint32 {
	if len(palette) == 0 {
		return fallback
	}
	return palette[rng.IntN(len(palette))]
}

// NewRand returns a deterministic source for the given seed and stream, so
// independent builders draw from independent sequences.
func NewRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}
