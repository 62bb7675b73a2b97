package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampByte(t *testing.T) {
	assert.Equal(t, uint8(0), clampByte(-1))
	assert.Equal(t, uint8(255), clampByte(256))
	assert.Equal(t, uint8(128), clampByte(127.6))
}

func TestPaintFullCoverageOpaque(t *testing.T) {
	dst := NewBitmap(1, 1, BGRA)
	mask := NewOpaqueMask(1, 1)
	Paint(dst, mask, nil, 10, 20, 30, 1.0)
	r, g, b, a := dst.GetRGBA(0, 0)
	assert.Equal(t, uint8(10), r)
	assert.Equal(t, uint8(20), g)
	assert.Equal(t, uint8(30), b)
	assert.Equal(t, uint8(255), a)
}

func TestPaintZeroAlphaIsNoop(t *testing.T) {
	dst := NewBitmap(1, 1, BGRA)
	mask := NewOpaqueMask(1, 1)
	Paint(dst, mask, nil, 10, 20, 30, 0)
	r, g, b, a := dst.GetRGBA(0, 0)
	assert.Zero(t, r)
	assert.Zero(t, g)
	assert.Zero(t, b)
	assert.Zero(t, a)
}

func TestPaintRespectsClip(t *testing.T) {
	dst := NewBitmap(1, 1, BGRA)
	mask := NewOpaqueMask(1, 1)
	clip := NewMask(1, 1) // fully clipped out
	Paint(dst, mask, clip, 10, 20, 30, 1.0)
	_, _, _, a := dst.GetRGBA(0, 0)
	assert.Zero(t, a)
}

func TestBlendOverOntoOpaqueBackground(t *testing.T) {
	dst := NewBitmap(1, 1, BGRA)
	dst.SetRGBA(0, 0, 0, 0, 0, 255) // opaque black backdrop
	blendOver(dst, 0, 0, 255, 255, 255, 0.5)
	r, g, b, a := dst.GetRGBA(0, 0)
	assert.Equal(t, uint8(255), a)
	// halfway between black backdrop and white source.
	assert.InDelta(t, 128, int(r), 2)
	assert.InDelta(t, 128, int(g), 2)
	assert.InDelta(t, 128, int(b), 2)
}

func TestPaintMaskAtClipsToOrigin(t *testing.T) {
	dst := NewBitmap(3, 3, BGRA)
	mask := NewOpaqueMask(2, 2)
	PaintMaskAt(dst, nil, mask, 2, 2, 1, 2, 3, 1.0)
	// only the in-bounds corner (2,2) should have been painted.
	_, _, _, a := dst.GetRGBA(2, 2)
	assert.Equal(t, uint8(255), a)
	_, _, _, a2 := dst.GetRGBA(0, 0)
	assert.Zero(t, a2)
}

func TestPaintImageSkipsTransparentSource(t *testing.T) {
	dst := NewBitmap(1, 1, BGRA)
	invMap := func(x, y int) (float64, float64, bool) { return 0.5, 0.5, true }
	srcAt := func(u, v float64) (uint8, uint8, uint8, uint8) { return 1, 2, 3, 0 }
	PaintImage(dst, nil, 0, 0, 1, 1, 1.0, invMap, srcAt)
	_, _, _, a := dst.GetRGBA(0, 0)
	assert.Zero(t, a)
}

func TestPaintImagePaintsOpaqueSource(t *testing.T) {
	dst := NewBitmap(1, 1, BGRA)
	invMap := func(x, y int) (float64, float64, bool) { return 0.5, 0.5, true }
	srcAt := func(u, v float64) (uint8, uint8, uint8, uint8) { return 9, 8, 7, 255 }
	PaintImage(dst, nil, 0, 0, 1, 1, 1.0, invMap, srcAt)
	r, g, b, a := dst.GetRGBA(0, 0)
	assert.Equal(t, uint8(9), r)
	assert.Equal(t, uint8(8), g)
	assert.Equal(t, uint8(7), b)
	assert.Equal(t, uint8(255), a)
}
