package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLerpAndClamp(t *testing.T) {
	assert.InDelta(t, 5, Lerp(0, 10, 0.5), 1e-6)
	assert.InDelta(t, 10, Lerp(10, 10, 0.3), 1e-6)
	assert.Equal(t, float32(1), Clamp(3, -1, 1))
	assert.Equal(t, float32(-1), Clamp(-3, -1, 1))
	assert.Equal(t, float32(0.5), Clamp(0.5, -1, 1))
}

func TestRandomHelpers(t *testing.T) {
	rng := NewRand(1, 1)
	for range 1000 {
		v := RandomRange(rng, 2, 3)
		assert.True(t, v >= 2 && v < 3, "range %v", v)
		n := RandomInt(rng, 4, 6)
		assert.True(t, n >= 4 && n <= 6, "int %d", n)
	}
	assert.Equal(t, 9, RandomInt(rng, 9, 2))
	assert.Equal(t, uint32(0xabcdef), RandomColor(rng, nil, 0xabcdef))
	assert.Contains(t, []uint32{1, 2}, RandomColor(rng, []uint32{1, 2}, 0))
}

func TestStreamsAreIndependent(t *testing.T) {
	a, b := NewRand(5, 1), NewRand(5, 1)
	c := NewRand(5, 2)
	assert.Equal(t, a.Uint64(), b.Uint64())
	assert.NotEqual(t, NewRand(5, 1).Uint64(), c.Uint64())
}
