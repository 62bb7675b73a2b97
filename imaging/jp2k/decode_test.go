package jp2k

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCeilDiv(t *testing.T) {
	assert.Equal(t, 0, ceilDiv(0, 4))
	assert.Equal(t, 0, ceilDiv(-3, 4))
	assert.Equal(t, 3, ceilDiv(9, 3))
	assert.Equal(t, 4, ceilDiv(10, 3))
}

func TestMaxMinInt(t *testing.T) {
	assert.Equal(t, 5, maxInt(5, 3))
	assert.Equal(t, 3, maxInt(3, 3))
	assert.Equal(t, 3, minInt(5, 3))
	assert.Equal(t, 3, minInt(3, 3))
}

func TestPow2(t *testing.T) {
	assert.Equal(t, 1.0, pow2(0))
	assert.Equal(t, 8.0, pow2(3))
	assert.Equal(t, 0.25, pow2(-2))
}

func TestSubbandQuantIndex(t *testing.T) {
	assert.Equal(t, 0, subbandQuantIndex(orientLL, 0))
	assert.Equal(t, 1, subbandQuantIndex(orientHL, 1))
	assert.Equal(t, 2, subbandQuantIndex(orientLH, 1))
	assert.Equal(t, 3, subbandQuantIndex(orientHH, 1))
	assert.Equal(t, 4, subbandQuantIndex(orientHL, 2))
}

func TestDequantizeReversibleIsNoop(t *testing.T) {
	coeffs := []int32{1, -2, 3}
	dequantize(coeffs, 9, 1000, true)
	assert.Equal(t, []int32{1, -2, 3}, coeffs)
}

func TestDequantizeIrreversibleScalesUp(t *testing.T) {
	coeffs := []int32{4}
	dequantize(coeffs, 31, 0, false) // stepSize = (1+0)*2^0 = 1
	assert.Equal(t, int32(4), coeffs[0])

	coeffs2 := []int32{4}
	dequantize(coeffs2, 32, 0, false) // stepSize = 2
	assert.Equal(t, int32(8), coeffs2[0])
}

func TestTileCursorSkipMarkerIfPresent(t *testing.T) {
	tc := &tileCursor{data: []byte{0xff, 0x91, 0, 0, 0, 0, 0xaa}}
	tc.skipMarkerIfPresent(0xff, 0x91, 4)
	assert.Equal(t, 6, tc.pos)

	tc2 := &tileCursor{data: []byte{0x00, 0x00}}
	tc2.skipMarkerIfPresent(0xff, 0x91, 4)
	assert.Equal(t, 0, tc2.pos)
}

func TestBuildImageGray(t *testing.T) {
	p := newPlane(1, 1)
	p.set(0, 0, 255)
	s := siz{width: 1, height: 1, bitDepth: []int{8}}
	img, err := buildImage([]*plane{p}, s)
	require.NoError(t, err)
	assert.Equal(t, color.Gray{Y: 255}, img.At(0, 0))
}

func TestBuildImageRGB(t *testing.T) {
	r := newPlane(1, 1)
	r.set(0, 0, 255)
	g := newPlane(1, 1)
	g.set(0, 0, 0)
	b := newPlane(1, 1)
	b.set(0, 0, 0)
	s := siz{width: 1, height: 1, bitDepth: []int{8, 8, 8}}
	img, err := buildImage([]*plane{r, g, b}, s)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 0, B: 0, A: 255}, img.At(0, 0))
}
