package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlign4(t *testing.T) {
	assert.Equal(t, 0, align4(0))
	assert.Equal(t, 4, align4(1))
	assert.Equal(t, 4, align4(4))
	assert.Equal(t, 8, align4(5))
}

func TestNewBitmapStrideIsPadded(t *testing.T) {
	b := NewBitmap(5, 2, BGR) // 5*3=15 bytes/row, padded to 16
	assert.Equal(t, 16, b.Stride)
	assert.Equal(t, 32, len(b.Pix))
}

func TestNewBitmapClampsNegativeDims(t *testing.T) {
	b := NewBitmap(-1, -4, Gray)
	assert.Equal(t, 0, b.Width)
	assert.Equal(t, 0, b.Height)
}

func TestBitmapSetGetRGBARoundTripsBGRA(t *testing.T) {
	b := NewBitmap(2, 2, BGRA)
	b.SetRGBA(1, 0, 10, 20, 30, 128)
	r, g, bl, a := b.GetRGBA(1, 0)
	assert.Equal(t, uint8(10), r)
	assert.Equal(t, uint8(20), g)
	assert.Equal(t, uint8(30), bl)
	assert.Equal(t, uint8(128), a)
}

func TestBitmapBGRXForcesOpaque(t *testing.T) {
	b := NewBitmap(1, 1, BGRX)
	b.SetRGBA(0, 0, 1, 2, 3, 0) // alpha 0 requested...
	_, _, _, a := b.GetRGBA(0, 0)
	assert.Equal(t, uint8(255), a) // ...but BGRX always reports opaque.
}

func TestBitmapGraySetGet(t *testing.T) {
	b := NewBitmap(1, 1, Gray)
	b.SetRGBA(0, 0, 0, 0, 0, 77)
	r, g, bl, a := b.GetRGBA(0, 0)
	assert.Equal(t, uint8(77), r)
	assert.Equal(t, uint8(77), g)
	assert.Equal(t, uint8(77), bl)
	assert.Equal(t, uint8(255), a)
}

func TestBitmapOutOfBoundsIsNoop(t *testing.T) {
	b := NewBitmap(1, 1, BGRA)
	assert.NotPanics(t, func() { b.SetRGBA(5, 5, 1, 2, 3, 4) })
	r, g, bl, a := b.GetRGBA(-1, 0)
	assert.Equal(t, uint8(0), r)
	assert.Equal(t, uint8(0), g)
	assert.Equal(t, uint8(0), bl)
	assert.Equal(t, uint8(0), a)
}

func TestBitmapFillOpaque(t *testing.T) {
	b := NewBitmap(2, 2, BGRA)
	b.FillOpaque(1, 2, 3)
	r, g, bl, a := b.GetRGBA(1, 1)
	assert.Equal(t, uint8(1), r)
	assert.Equal(t, uint8(2), g)
	assert.Equal(t, uint8(3), bl)
	assert.Equal(t, uint8(255), a)
}

func TestMaskInOutOfBounds(t *testing.T) {
	m := NewMask(2, 2)
	assert.Equal(t, uint8(0), m.At(-1, 0))
	assert.Equal(t, uint8(0), m.At(2, 0))
}

func TestNewOpaqueMaskIsAllFF(t *testing.T) {
	m := NewOpaqueMask(2, 2)
	for _, v := range m.Alpha {
		assert.Equal(t, uint8(255), v)
	}
}

func TestMaskIntersect(t *testing.T) {
	a := NewOpaqueMask(1, 1)
	b := NewMask(1, 1)
	b.set(0, 0, 128)
	out := a.Intersect(b)
	assert.Equal(t, uint8(128), out.At(0, 0))

	half := NewMask(1, 1)
	half.set(0, 0, 128)
	out2 := half.Intersect(half)
	assert.Equal(t, uint8(64), out2.At(0, 0))
}

func TestMaskClone(t *testing.T) {
	m := NewMask(1, 1)
	m.set(0, 0, 50)
	c := m.Clone()
	c.set(0, 0, 99)
	require.Equal(t, uint8(50), m.At(0, 0))
	assert.Equal(t, uint8(99), c.At(0, 0))
}
