package jpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDCTZeroBlockIsFlat(t *testing.T) {
	var block [64]int32
	out := idct8x8(&block)
	for _, v := range out {
		assert.InDelta(t, 0, v, 1e-9)
	}
}

func TestIDCTDCOnlyIsConstant(t *testing.T) {
	var block [64]int32
	block[0] = 16 // DC coefficient, natural-order index 0
	out := idct8x8(&block)
	first := out[0]
	for _, v := range out {
		assert.InDelta(t, first, v, 1e-9)
	}
	// DC-only IDCT for an 8-point type-II basis: a constant equal to
	// coefficient/8 once the c(0)=1/sqrt(2) normalization on both passes
	// and the 1/2 scaling factors are folded together.
	assert.InDelta(t, 2.0, first, 1e-9)
}

func TestIDCTAndStoreClampsAndLevelShifts(t *testing.T) {
	var block [64]int32
	block[0] = 2000 // large DC, should clamp high after +128 level shift
	plane := make([]byte, 8*8)
	idctAndStore(&block, plane, 8, 0, 0)
	for _, v := range plane {
		assert.Equal(t, byte(255), v)
	}

	var neg [64]int32
	neg[0] = -2000
	idctAndStore(&neg, plane, 8, 0, 0)
	for _, v := range plane {
		assert.Equal(t, byte(0), v)
	}
}

func TestClamp8(t *testing.T) {
	assert.Equal(t, byte(0), clamp8(-5))
	assert.Equal(t, byte(255), clamp8(300))
	assert.Equal(t, byte(128), clamp8(127.6))
}

func TestZigzagIsPermutation(t *testing.T) {
	seen := make([]bool, 64)
	for _, idx := range zigzag {
		assert.False(t, seen[idx], "duplicate natural index %d", idx)
		seen[idx] = true
	}
	for i, ok := range seen {
		assert.True(t, ok, "natural index %d never produced", i)
	}
}
