package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGlyphCacheDefaultsLimit(t *testing.T) {
	c := NewGlyphCache(0)
	assert.Equal(t, 256, c.limit)
}

func TestGlyphCacheRasterizeGlyphCachesResult(t *testing.T) {
	c := NewGlyphCache(10)
	calls := 0
	key := GlyphKey{Font: "F1", Code: 'A', Size: 12 * 64}
	build := func() (*Path, FillRule, int, int) {
		calls++
		p := NewPath()
		p.MoveTo(0, 0)
		p.LineTo(2, 0)
		p.LineTo(2, 2)
		p.LineTo(0, 2)
		p.Close()
		return p, NonZero, 0, 0
	}
	m1, ox1, oy1 := c.RasterizeGlyph(key, 2, 2, build)
	m2, ox2, oy2 := c.RasterizeGlyph(key, 2, 2, build)
	assert.Equal(t, 1, calls, "build should only run once, second call hits the cache")
	assert.Same(t, m1, m2)
	assert.Equal(t, ox1, ox2)
	assert.Equal(t, oy1, oy2)
}

func TestGlyphCacheEvictsOldestWhenFull(t *testing.T) {
	c := NewGlyphCache(1)
	build := func() (*Path, FillRule, int, int) {
		p := NewPath()
		p.MoveTo(0, 0)
		p.LineTo(1, 0)
		p.LineTo(1, 1)
		p.Close()
		return p, NonZero, 0, 0
	}
	k1 := GlyphKey{Font: "F", Code: 'A'}
	k2 := GlyphKey{Font: "F", Code: 'B'}
	c.RasterizeGlyph(k1, 1, 1, build)
	c.RasterizeGlyph(k2, 1, 1, build)
	_, ok := c.get(k1)
	assert.False(t, ok, "k1 should have been evicted once the 1-entry cache filled")
	_, ok2 := c.get(k2)
	require.True(t, ok2)
}
