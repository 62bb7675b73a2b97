package raster

// GlyphKey identifies one cached glyph rasterization: the font resource
// name, a caller-chosen glyph code (render's glyph boxes store the box
// width in quarter pixels there), and the device-space size it was
// rasterized at (glyphs rasterized at a different size need a different
// mask, unlike vector outlines which could be scaled losslessly — this
// cache trades that generality for a flat, simple key).
type GlyphKey struct {
	Font string
	Code uint32
	Size int32 // size in 26.6 fixed point, rounded, so near-identical scales share a cache entry
}

// GlyphCache memoizes rasterized glyph coverage masks across a page's text
// showing operators (spec §4.8): a run of text re-draws the same handful of
// glyphs many times, and rasterizing a path is the most expensive step in
// the pipeline.
type GlyphCache struct {
	entries map[GlyphKey]*glyphEntry
	order   []GlyphKey // least recently used first; get moves a hit to the end
	limit   int
}

type glyphEntry struct {
	mask       *Mask
	offX, offY int // mask's top-left corner relative to the glyph origin, in pixels
}

// NewGlyphCache returns a cache holding at most `limit` rasterized glyphs,
// evicting the least recently used glyph once full.
func NewGlyphCache(limit int) *GlyphCache {
	if limit <= 0 {
		limit = 256
	}
	return &GlyphCache{entries: map[GlyphKey]*glyphEntry{}, limit: limit}
}

func (c *GlyphCache) get(key GlyphKey) (*glyphEntry, bool) {
	e, ok := c.entries[key]
	if ok {
		for i, k := range c.order {
			if k == key { // move to the most recently used end
				copy(c.order[i:], c.order[i+1:])
				c.order[len(c.order)-1] = key
				break
			}
		}
	}
	return e, ok
}

func (c *GlyphCache) put(key GlyphKey, e *glyphEntry) {
	if _, exists := c.entries[key]; !exists {
		if len(c.order) >= c.limit {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = e
}

// RasterizeGlyph returns the coverage mask for `key`'s glyph box, building
// and caching it on first use via `build` (typically a small filled or
// outlined rectangle sized to the glyph's advance width and the font's
// ascent/descent — see render's interpreter.drawGlyphBoxCached, since this engine does
// not extract true Type1/TrueType outlines, spec §9 Open Question).
func (c *GlyphCache) RasterizeGlyph(key GlyphKey, width, height int, build func() (*Path, FillRule, int, int)) (*Mask, int, int) {
	if e, ok := c.get(key); ok {
		return e.mask, e.offX, e.offY
	}
	path, rule, offX, offY := build()
	mask := Rasterize(path, rule, width, height)
	e := &glyphEntry{mask: mask, offX: offX, offY: offY}
	c.put(key, e)
	return mask, offX, offY
}
