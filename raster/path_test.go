package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathLineToTracksCurrentPoint(t *testing.T) {
	p := NewPath()
	p.MoveTo(1, 2)
	p.LineTo(3, 4)
	x, y := p.CurrentPoint()
	assert.InDelta(t, 3, x, 1e-6)
	assert.InDelta(t, 4, y, 1e-6)
}

func TestPathLineToWithoutMoveToStartsImplicitSubpath(t *testing.T) {
	p := NewPath()
	p.LineTo(5, 5)
	x, y := p.CurrentPoint()
	assert.InDelta(t, 5, x, 1e-6)
	assert.InDelta(t, 5, y, 1e-6)
}

func TestPathSubpathsDropsDegenerateSinglePointSubpath(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0) // never extended with a LineTo: a single point, not a subpath
	subs := p.Subpaths()
	assert.Empty(t, subs)
}

func TestPathSubpathsCollectsMultipleSubpaths(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.LineTo(10, 10)
	p.Close()
	p.MoveTo(20, 20)
	p.LineTo(30, 30)
	subs := p.Subpaths()
	require.Len(t, subs, 2)
	assert.Len(t, subs[0], 3)
	assert.Len(t, subs[1], 2)
}

func TestPathCubicToEndsAtControlPoint3(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.CubicTo(1, 5, 4, 5, 5, 0)
	x, y := p.CurrentPoint()
	assert.InDelta(t, 5, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
}

func TestPathBoundsClipsToMaxDims(t *testing.T) {
	p := NewPath()
	p.MoveTo(-5, -5)
	p.LineTo(1000, 1000)
	minX, minY, maxX, maxY := p.Bounds(100, 50)
	assert.Equal(t, 0, minX)
	assert.Equal(t, 0, minY)
	assert.Equal(t, 100, maxX)
	assert.Equal(t, 50, maxY)
}

func TestPathBoundsEmptyPath(t *testing.T) {
	p := NewPath()
	minX, minY, maxX, maxY := p.Bounds(100, 100)
	assert.Equal(t, 0, minX)
	assert.Equal(t, 0, minY)
	assert.Equal(t, 0, maxX)
	assert.Equal(t, 0, maxY)
}
