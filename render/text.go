package render

import (
	"math"

	"github.com/benoitkugler/pdf/fonts"
	"github.com/benoitkugler/pdf/model"
	"github.com/benoitkugler/pdf/raster"
)

// textMove applies Td/TD/'s translation to the text line matrix, then
// resets the text matrix to it (9.4.2): both operators move relative to
// the start of the current line, not the current glyph position.
func (it *interpreter) textMove(tx, ty float64) {
	it.tlm = model.Translated(model.Fl(tx), model.Fl(ty)).Multiply(it.tlm)
	it.tm = it.tlm
}

func (it *interpreter) setFont(name model.ObjName, size model.Fl) {
	res := it.resources()
	if res == nil || res.Font == nil {
		it.warnf("content stream: Tf %s with no font resources", name)
		return
	}
	dict, ok := res.Font[model.Name(name)]
	if !ok || dict == nil {
		it.warnf("content stream: unknown font %s", name)
		return
	}
	it.bindFont(dict, model.Name(name), float64(size))
}

func (it *interpreter) bindFont(dict *model.Font, name model.Name, size float64) {
	built, ok := it.fonts[dict]
	if !ok {
		bf, err := fonts.BuildFont(dict)
		if err != nil {
			it.warnf("content stream: font %s: %s", name, err)
			return
		}
		built = bf.Font
		it.fonts[dict] = built
	}
	it.gs.font = built
	if name != "" {
		it.gs.fontName = name
	}
	it.gs.fontSize = size
}

// showSpaceText runs TJ's array of text runs and numeric adjustments,
// threading the text matrix across the whole array the way a run of Tj
// calls would, but letting each adjustment nudge the matrix without
// actually drawing anything (9.4.3).
func (it *interpreter) showSpaceText(texts []fonts.TextSpaced) {
	for _, ts := range texts {
		it.showText(ts.CharCodes)
		if ts.SpaceSubtractedAfter != 0 {
			adj := float64(ts.SpaceSubtractedAfter) / 1000 * it.gs.fontSize * it.gs.hscale
			it.tm = model.Translated(model.Fl(-adj), 0).Multiply(it.tm)
		}
	}
}

// showText draws `code` glyph by glyph and advances the text matrix,
// following the per-glyph displacement formula of 9.4.3: tx = ((w0 * Tfs)
// + Tc + Tw) * Th, with w0 already folded into Font.DecodeAdvance's
// return value.
func (it *interpreter) showText(code []byte) {
	font := it.gs.font
	if font == nil || it.gs.fontSize == 0 {
		return
	}
	for len(code) > 0 {
		advance, consumed := font.DecodeAdvance(code, model.Fl(it.gs.fontSize))
		if consumed == 0 {
			break
		}
		glyphCode := code[0]
		isSpace := consumed == 1 && glyphCode == 0x20
		it.drawGlyphBox(float64(advance) / it.gs.fontSize)

		tx := float64(advance) + it.gs.charSpace
		if isSpace {
			tx += it.gs.wordSpace
		}
		tx *= it.gs.hscale
		it.tm = model.Translated(model.Fl(tx), 0).Multiply(it.tm)

		code = code[consumed:]
	}
}

// drawGlyphBox paints the advance-width-and-font-metrics rectangle that
// stands in for a glyph's true outline: `fonts/truetype` extracts metric
// tables only (Head/Hhea/OS2/Cmap/Post/Htmx/Kern), never glyf contours or
// Type1/CFF charstrings, so this engine has no vector shape to rasterize
// for any font program it can parse. The box spans the glyph's advance
// width and the font descriptor's ascent/descent, positioned and painted
// exactly where a real glyph would sit; it reproduces layout (text extent,
// line breaks, positioning) faithfully without reproducing letterforms.
// widthFrac is the glyph's advance as a fraction of the em square (w0/1000
// in 9.4.3's terms), already divorced from Tfs so this function can apply
// the full text-rendering matrix itself.
func (it *interpreter) drawGlyphBox(widthFrac float64) {
	mode := it.gs.renderMode
	if mode == 3 || mode == 7 || widthFrac <= 0 {
		return // invisible text (Tr 3) or a zero-width glyph (space, combining mark)
	}
	desc := it.gs.font.Desc()
	ascFrac, descFrac := 0.75, -0.2
	if desc.Ascent != 0 || desc.Descent != 0 {
		ascFrac, descFrac = desc.Ascent/1000, desc.Descent/1000
	}
	if ascFrac <= descFrac {
		ascFrac, descFrac = 0.75, -0.2
	}
	// shrink the box a little so adjacent glyphs don't visually merge into
	// a solid bar; 9.4.3's advance already accounts for real inter-glyph
	// gaps, a glyph box occupying its entire cell looks too dense.
	const inset = 0.08
	w0, w1 := inset*widthFrac, (1-inset)*widthFrac

	glyphSpace := model.Matrix{
		model.Fl(it.gs.fontSize * it.gs.hscale), 0,
		0, model.Fl(it.gs.fontSize),
		0, model.Fl(it.gs.textRise),
	}
	trm := glyphSpace.Multiply(it.tm).Multiply(it.gs.ctm)

	corners := [4][2]float64{
		applyF(trm, w0, descFrac),
		applyF(trm, w1, descFrac),
		applyF(trm, w1, ascFrac),
		applyF(trm, w0, ascFrac),
	}

	// a filled rectangle has no distinct outline to stroke, so the
	// fill+stroke modes (2, 6) paint as plain fill; only the stroke-only
	// modes (1, 5) use the stroke colour.
	color := it.gs.fillColor
	if mode == 1 || mode == 5 {
		color = it.gs.strokeColor
	}
	alpha := it.gs.fillAlpha
	if mode == 1 || mode == 5 {
		alpha = it.gs.strokeAlpha
	}

	if axisAligned(trm) {
		it.drawGlyphBoxCached(corners, color, alpha)
		return
	}
	it.drawGlyphBoxDirect(corners, color, alpha)
}

func applyF(m model.Matrix, x, y float64) [2]float64 {
	dx, dy := m.Apply(model.Fl(x), model.Fl(y))
	return [2]float64{float64(dx), float64(dy)}
}

// axisAligned reports whether m maps axis-aligned rectangles to
// axis-aligned rectangles (no rotation or shear), the case the glyph cache
// fast path handles; rotated text falls back to a per-glyph rasterization.
func axisAligned(m model.Matrix) bool {
	const eps = 1e-6
	return math.Abs(float64(m[1])) < eps && math.Abs(float64(m[2])) < eps
}

func (it *interpreter) drawGlyphBoxCached(corners [4][2]float64, color [3]float64, alpha float64) {
	minX, minY, maxX, maxY := bboxOf(corners)
	ox, oy := int(math.Floor(minX)), int(math.Floor(minY))
	w, h := int(math.Ceil(maxX))-ox, int(math.Ceil(maxY))-oy
	if w <= 0 || h <= 0 {
		return
	}
	key := raster.GlyphKey{
		Font: string(it.gs.fontName),
		Code: uint32(math.Round((corners[2][0] - corners[0][0]) * 4)),
		Size: int32(math.Round(float64(h) * 64)),
	}
	mask, _, _ := it.glyphs.RasterizeGlyph(key, w, h, func() (*raster.Path, raster.FillRule, int, int) {
		p := raster.NewPath()
		p.MoveTo(corners[0][0]-float64(ox), corners[0][1]-float64(oy))
		p.LineTo(corners[1][0]-float64(ox), corners[1][1]-float64(oy))
		p.LineTo(corners[2][0]-float64(ox), corners[2][1]-float64(oy))
		p.LineTo(corners[3][0]-float64(ox), corners[3][1]-float64(oy))
		p.Close()
		return p, raster.NonZero, 0, 0
	})
	raster.PaintMaskAt(it.dst, it.gs.clip, mask, ox, oy, toByte(color[0]), toByte(color[1]), toByte(color[2]), alpha)
}

func (it *interpreter) drawGlyphBoxDirect(corners [4][2]float64, color [3]float64, alpha float64) {
	p := raster.NewPath()
	p.MoveTo(corners[0][0], corners[0][1])
	p.LineTo(corners[1][0], corners[1][1])
	p.LineTo(corners[2][0], corners[2][1])
	p.LineTo(corners[3][0], corners[3][1])
	p.Close()
	mask := raster.Rasterize(p, raster.NonZero, it.dst.Width, it.dst.Height)
	it.paintMaskFull(mask, color, alpha)
}

func bboxOf(corners [4][2]float64) (minX, minY, maxX, maxY float64) {
	minX, minY = corners[0][0], corners[0][1]
	maxX, maxY = minX, minY
	for _, c := range corners[1:] {
		if c[0] < minX {
			minX = c[0]
		}
		if c[1] < minY {
			minY = c[1]
		}
		if c[0] > maxX {
			maxX = c[0]
		}
		if c[1] > maxY {
			maxY = c[1]
		}
	}
	return
}
