package jp2k

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTier1DecoderPadding(t *testing.T) {
	t1 := newTier1Decoder(4, 3, orientLL, 0)
	assert.Equal(t, (4+2)*(3+2), len(t1.data))
	assert.Equal(t, len(t1.data), len(t1.flags))
}

func TestTier1IdxIsPaddedByOne(t *testing.T) {
	t1 := newTier1Decoder(4, 3, orientLL, 0)
	// (0,0) must not collide with the padding border at index 0.
	assert.Equal(t, (0+1)*(4+2)+(0+1), t1.idx(0, 0))
	assert.NotEqual(t, 0, t1.idx(0, 0))
}

func TestTier1CoefficientsExtractsUnpadded(t *testing.T) {
	t1 := newTier1Decoder(2, 2, orientLL, 0)
	t1.data[t1.idx(0, 0)] = 5
	t1.data[t1.idx(1, 1)] = -3
	coeffs := t1.coefficients()
	assert.Equal(t, []int32{5, 0, 0, -3}, coeffs)
}

func TestTier1UpdateNeighborsPropagatesSignificance(t *testing.T) {
	t1 := newTier1Decoder(3, 3, orientLL, 0)
	idx := t1.idx(1, 1)
	t1.flags[idx] |= t1Sig | t1Sign
	t1.updateNeighbors(1, 1)

	assert.NotEqual(t, uint32(0), t1.flags[t1.idx(1, 0)]&t1SigS)
	assert.NotEqual(t, uint32(0), t1.flags[t1.idx(1, 0)]&t1SignS)
	assert.NotEqual(t, uint32(0), t1.flags[t1.idx(1, 2)]&t1SigN)
	assert.NotEqual(t, uint32(0), t1.flags[t1.idx(0, 1)]&t1SigE)
	assert.NotEqual(t, uint32(0), t1.flags[t1.idx(2, 1)]&t1SigW)
	// diagonals get significance only, never a sign bit.
	assert.NotEqual(t, uint32(0), t1.flags[t1.idx(0, 0)]&t1SigSE)
	assert.Equal(t, uint32(0), t1.flags[t1.idx(0, 0)]&(t1SignN|t1SignS|t1SignE|t1SignW))
}

func TestTier1DecodeZeroPassesLeavesDataZero(t *testing.T) {
	t1 := newTier1Decoder(2, 2, orientLL, 0)
	t1.decode([]byte{0x00}, 0, 5)
	for _, v := range t1.data {
		assert.Equal(t, int32(0), v)
	}
}
