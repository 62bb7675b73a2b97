package jp2k

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitCount(t *testing.T) {
	assert.Equal(t, 0, bitCount(0, 2))
	assert.Equal(t, 1, bitCount(t1SigN, 2))
	assert.Equal(t, 2, bitCount(t1SigN|t1SigS, 2))
	// clamps at max even with more bits set.
	assert.Equal(t, 2, bitCount(t1SigN|t1SigS|t1SigE|t1SigW, 2))
}

func TestZeroCodingContextNoNeighbors(t *testing.T) {
	assert.Equal(t, 0, zeroCodingContext(0, orientLL))
	assert.Equal(t, 0, zeroCodingContext(0, orientHH))
}

func TestZeroCodingContextHLSwapsAxes(t *testing.T) {
	// a single horizontal-adjacent significant neighbor maps to LH's
	// "vertical" context once HL swaps h/v.
	flags := uint32(t1SigE)
	lh := zeroCodingContext(flags, orientLH)
	hl := zeroCodingContext(flags, orientHL)
	assert.NotEqual(t, lh, hl)
}

func TestSignCodingContextSymmetric(t *testing.T) {
	ctxPos, signPos := signCodingContext(t1SigE)
	ctxNeg, signNeg := signCodingContext(t1SigE | t1SignE)
	assert.Equal(t, ctxPos, ctxNeg)
	assert.Equal(t, 0, signPos)
	assert.Equal(t, 1, signNeg)
}

func TestSignCodingContextNoNeighborsIsUniform(t *testing.T) {
	ctx, sign := signCodingContext(0)
	assert.Equal(t, ctxSignStart, ctx)
	assert.Equal(t, 0, sign)
}

func TestMagRefContext(t *testing.T) {
	assert.Equal(t, ctxMagRefStart, magRefContext(0))
	assert.Equal(t, ctxMagRefStart+1, magRefContext(t1Refine))
	assert.Equal(t, ctxMagRefStart+2, magRefContext(t1Refine|t1SigN))
}
