// Package render drives the content-stream interpreter spec §4.7-§4.9
// describe: it walks a page's parsed `contentstream.Operation` values,
// maintains the graphics/text state stack, and paints through package
// raster into a device bitmap. Grounded on the teacher's `contentstream`
// package for the operator vocabulary; the interpreter loop itself has no
// teacher equivalent (the teacher only writes content streams, it never
// executes them) so its dispatch shape follows spec §9's design note
// ("operator dispatch table keyed by concrete Operation type").
package render

import (
	"github.com/benoitkugler/pdf/fonts"
	"github.com/benoitkugler/pdf/model"
	"github.com/benoitkugler/pdf/raster"
)

// gstate is the graphics state 8.4 describes, one instance per `q`/`Q`
// nesting level.
type gstate struct {
	ctm model.Matrix

	fillColor   [3]float64
	strokeColor [3]float64
	fillCS      model.ColorSpace
	strokeCS    model.ColorSpace
	fillAlpha   float64
	strokeAlpha float64

	lineWidth  float64
	lineCap    raster.LineCap
	lineJoin   raster.LineJoin
	miterLimit float64
	dash       []float64
	dashPhase  float64

	clip *raster.Mask

	// text state (9.3), persists across BT/ET per 9.4.1 except Tm/Tlm
	charSpace  float64
	wordSpace  float64
	hscale     float64
	leading    float64
	font       fonts.Font
	fontName   model.Name
	fontSize   float64
	textRise   float64
	renderMode int
}

// clone returns the gstate a `q` pushes: sharing clip is safe because the
// interpreter never mutates a *raster.Mask in place, only replaces
// gs.clip wholesale (via Mask.Intersect, which allocates) when `W`/`W*`
// narrows it, so an outer and inner clip never alias a written-to mask.
func (g gstate) clone() gstate {
	out := g
	out.dash = append([]float64(nil), g.dash...)
	return out
}

func newGState(ctm model.Matrix, clip *raster.Mask) gstate {
	return gstate{
		ctm:         ctm,
		fillCS:      model.ColorSpaceName(model.ColorSpaceGray),
		strokeCS:    model.ColorSpaceName(model.ColorSpaceGray),
		fillAlpha:   1,
		strokeAlpha: 1,
		lineWidth:   1,
		miterLimit:  10,
		clip:        clip,
		hscale:      1,
	}
}
