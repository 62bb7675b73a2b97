package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func square(x0, y0, x1, y1 float64) *Path {
	p := NewPath()
	p.MoveTo(x0, y0)
	p.LineTo(x1, y0)
	p.LineTo(x1, y1)
	p.LineTo(x0, y1)
	p.Close()
	return p
}

func TestRasterizeFilledSquareIsFullyCovered(t *testing.T) {
	p := square(1, 1, 3, 3)
	mask := Rasterize(p, NonZero, 4, 4)
	assert.Equal(t, uint8(255), mask.At(1, 1))
	assert.Equal(t, uint8(255), mask.At(2, 2))
	assert.Equal(t, uint8(0), mask.At(0, 0))
	assert.Equal(t, uint8(0), mask.At(3, 3))
}

func TestRasterizeEmptyPathReturnsEmptyMask(t *testing.T) {
	mask := Rasterize(NewPath(), NonZero, 4, 4)
	for _, v := range mask.Alpha {
		assert.Equal(t, uint8(0), v)
	}
}

func TestRasterizeEvenOddHoleInMiddle(t *testing.T) {
	p := NewPath()
	// outer square wound one way...
	p.MoveTo(0, 0)
	p.LineTo(6, 0)
	p.LineTo(6, 6)
	p.LineTo(0, 6)
	p.Close()
	// ...inner square wound the same way: even-odd treats the overlap as a
	// hole, non-zero does not.
	p.MoveTo(2, 2)
	p.LineTo(4, 2)
	p.LineTo(4, 4)
	p.LineTo(2, 4)
	p.Close()

	evenOdd := Rasterize(p, EvenOdd, 6, 6)
	nonZero := Rasterize(p, NonZero, 6, 6)
	assert.Equal(t, uint8(0), evenOdd.At(3, 3))
	assert.Equal(t, uint8(255), nonZero.At(3, 3))
	// both rules agree outside the inner square.
	assert.Equal(t, uint8(255), evenOdd.At(1, 1))
	assert.Equal(t, uint8(255), nonZero.At(1, 1))
}

func TestAddSpanPartialPixelCoverage(t *testing.T) {
	cov := make([]float32, 3)
	addSpan(cov, 0, 0.5, 1.5, 1.0)
	assert.InDelta(t, 0.5, cov[0], 1e-6)
	assert.InDelta(t, 0.5, cov[1], 1e-6)
	assert.InDelta(t, 0, cov[2], 1e-6)
}

func TestAddSpanFullPixelsInMiddle(t *testing.T) {
	cov := make([]float32, 5)
	addSpan(cov, 0, 0.5, 3.5, 1.0)
	assert.InDelta(t, 0.5, cov[0], 1e-6)
	assert.InDelta(t, 1.0, cov[1], 1e-6)
	assert.InDelta(t, 1.0, cov[2], 1e-6)
	assert.InDelta(t, 0.5, cov[3], 1e-6)
	assert.InDelta(t, 0, cov[4], 1e-6)
}

func TestAddSpanOutOfRangeIsNoop(t *testing.T) {
	cov := make([]float32, 2)
	addSpan(cov, 10, 0, 1, 1.0) // entirely before minX's window
	for _, v := range cov {
		assert.Equal(t, float32(0), v)
	}
}
