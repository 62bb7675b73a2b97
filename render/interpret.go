package render

import (
	"math"
	"sync"

	"github.com/benoitkugler/pdf/contentstream"
	"github.com/benoitkugler/pdf/fonts"
	"github.com/benoitkugler/pdf/model"
	"github.com/benoitkugler/pdf/raster"
)

// maxFormDepth bounds recursive Do invocations of Form XObjects against a
// form that (directly or through a cycle of resource dictionaries) invokes
// itself. It is its own cap, lower than the object layer's ref-chain
// limit (reader's maxRefChainDepth, 16).
const maxFormDepth = 12

// warnMu serializes every Warnf call this package makes against a shared
// *model.Document, the one piece of mutable state RenderPages' per-page
// goroutines still touch concurrently (spec §5: "if an implementation
// parallelizes, it must serialize cache inserts").
var warnMu sync.Mutex

// interpreter walks one content stream's operations, the operator-dispatch
// table spec §9's design note calls for: a single type switch over the
// `contentstream.Operation` values, rather than a class hierarchy.
type interpreter struct {
	doc    *model.Document
	dst    *raster.Bitmap
	glyphs *raster.GlyphCache
	fonts  map[*model.Font]fonts.Font

	gs    gstate
	stack []gstate

	path           *raster.Path
	pendingClip    raster.FillRule
	hasPendingClip bool

	tm, tlm model.Matrix // text matrix / text line matrix (9.4.2), not part of gstate

	res   []*model.ResourcesDict
	depth int
}

func newInterpreter(doc *model.Document, dst *raster.Bitmap, ctm model.Matrix) *interpreter {
	return &interpreter{
		doc:    doc,
		dst:    dst,
		glyphs: raster.NewGlyphCache(256),
		fonts:  map[*model.Font]fonts.Font{},
		gs:     newGState(ctm, raster.NewOpaqueMask(dst.Width, dst.Height)),
		path:   raster.NewPath(),
	}
}

func (it *interpreter) warnf(format string, args ...interface{}) {
	warnMu.Lock()
	it.doc.Warnf(format, args...)
	warnMu.Unlock()
}

func (it *interpreter) resources() *model.ResourcesDict {
	if len(it.res) == 0 {
		return nil
	}
	return it.res[len(it.res)-1]
}

// run executes `ops` with `res` shadowing resource-name lookups, the shape
// both a page's top-level content and a Form XObject's nested content
// share (spec §4.7 "Do ... re-enters the interpreter").
func (it *interpreter) run(ops []contentstream.Operation, res *model.ResourcesDict) {
	it.res = append(it.res, res)
	defer func() { it.res = it.res[:len(it.res)-1] }()
	for _, op := range ops {
		it.exec(op)
	}
}

func (it *interpreter) exec(op contentstream.Operation) {
	switch o := op.(type) {
	// --- graphics state stack ---
	case contentstream.OpSave:
		it.stack = append(it.stack, it.gs.clone())
	case contentstream.OpRestore:
		if n := len(it.stack); n > 0 {
			it.gs = it.stack[n-1]
			it.stack = it.stack[:n-1]
		}
	case contentstream.OpConcat:
		it.gs.ctm = o.Matrix.Multiply(it.gs.ctm)
	case contentstream.OpSetExtGState:
		it.applyExtGState(o.Dict)
	case contentstream.OpSetLineWidth:
		it.gs.lineWidth = float64(o.W)
	case contentstream.OpSetLineCap:
		it.gs.lineCap = raster.LineCap(o.Style)
	case contentstream.OpSetLineJoin:
		it.gs.lineJoin = raster.LineJoin(o.Style)
	case contentstream.OpSetMiterLimit:
		it.gs.miterLimit = float64(o.Limit)
	case contentstream.OpSetDash:
		it.gs.dash = append([]float64(nil), toFloat64s(o.Dash.Array)...)
		it.gs.dashPhase = float64(o.Dash.Phase)
	case contentstream.OpSetFlat, contentstream.OpSetRenderingIntent:
		// flatness tolerance and rendering intent have no effect on a
		// fixed-subdivision flattener / device-colour-only compositor.

	// --- path construction ---
	case contentstream.OpMoveTo:
		it.moveTo(o.X, o.Y)
	case contentstream.OpLineTo:
		it.lineTo(o.X, o.Y)
	case contentstream.OpCubicTo:
		it.cubicTo(o.X1, o.Y1, o.X2, o.Y2, o.X3, o.Y3)
	case contentstream.OpCurveTo1:
		cx, cy := it.path.CurrentPoint()
		it.cubicToDevice(dpoint{cx, cy}, it.devicePt(o.X2, o.Y2), it.devicePt(o.X3, o.Y3))
	case contentstream.OpCurveTo:
		end := it.devicePt(o.X3, o.Y3)
		it.cubicToDevice(it.devicePt(o.X1, o.Y1), end, end)
	case contentstream.OpClosePath:
		it.path.Close()
	case contentstream.OpRectangle:
		it.rectangle(o.X, o.Y, o.W, o.H)

	// --- path painting ---
	case contentstream.OpFill:
		it.paint(true, false, raster.NonZero)
	case contentstream.OpEOFill:
		it.paint(true, false, raster.EvenOdd)
	case contentstream.OpStroke:
		it.paint(false, true, raster.NonZero)
	case contentstream.OpCloseStroke:
		it.path.Close()
		it.paint(false, true, raster.NonZero)
	case contentstream.OpFillStroke:
		it.paint(true, true, raster.NonZero)
	case contentstream.OpEOFillStroke:
		it.paint(true, true, raster.EvenOdd)
	case contentstream.OpCloseFillStroke:
		it.path.Close()
		it.paint(true, true, raster.NonZero)
	case contentstream.OpCloseEOFillStroke:
		it.path.Close()
		it.paint(true, true, raster.EvenOdd)
	case contentstream.OpEndPath:
		it.paint(false, false, raster.NonZero)
	case contentstream.OpClip:
		it.hasPendingClip, it.pendingClip = true, raster.NonZero
	case contentstream.OpEOClip:
		it.hasPendingClip, it.pendingClip = true, raster.EvenOdd

	// --- colour ---
	case contentstream.OpSetFillGray:
		it.gs.fillCS = model.ColorSpaceName(model.ColorSpaceGray)
		it.gs.fillColor = toRGB64(it.gs.fillCS, []model.Fl{o.G})
	case contentstream.OpSetStrokeGray:
		it.gs.strokeCS = model.ColorSpaceName(model.ColorSpaceGray)
		it.gs.strokeColor = toRGB64(it.gs.strokeCS, []model.Fl{o.G})
	case contentstream.OpSetFillRGBColor:
		it.gs.fillCS = model.ColorSpaceName(model.ColorSpaceRGB)
		it.gs.fillColor = [3]float64{float64(o.R), float64(o.G), float64(o.B)}
	case contentstream.OpSetStrokeRGBColor:
		it.gs.strokeCS = model.ColorSpaceName(model.ColorSpaceRGB)
		it.gs.strokeColor = [3]float64{float64(o.R), float64(o.G), float64(o.B)}
	case contentstream.OpSetFillCMYKColor:
		it.gs.fillCS = model.ColorSpaceName(model.ColorSpaceCMYK)
		it.gs.fillColor = toRGB64(it.gs.fillCS, []model.Fl{o.C, o.M, o.Y, o.K})
	case contentstream.OpSetStrokeCMYKColor:
		it.gs.strokeCS = model.ColorSpaceName(model.ColorSpaceCMYK)
		it.gs.strokeColor = toRGB64(it.gs.strokeCS, []model.Fl{o.C, o.M, o.Y, o.K})
	case contentstream.OpSetFillColorSpace:
		it.gs.fillCS = it.resolveColorSpace(o.ColorSpace)
		it.gs.fillColor = [3]float64{}
	case contentstream.OpSetStrokeColorSpace:
		it.gs.strokeCS = it.resolveColorSpace(o.ColorSpace)
		it.gs.strokeColor = [3]float64{}
	case contentstream.OpSetFillColor:
		it.gs.fillColor = toRGB64(it.gs.fillCS, o.Color)
	case contentstream.OpSetStrokeColor:
		it.gs.strokeColor = toRGB64(it.gs.strokeCS, o.Color)
	case contentstream.OpSetFillColorN:
		it.gs.fillColor = toRGB64(it.gs.fillCS, o.Color)
	case contentstream.OpSetStrokeColorN:
		it.gs.strokeColor = toRGB64(it.gs.strokeCS, o.Color)
	case contentstream.OpShFill:
		// shading patterns are not rasterized; spec §9(c) treats the
		// unimplemented parts of pattern colour as silent no-ops here
		// rather than UnsupportedFeature, since `sh` only ever paints
		// within the existing clip and skipping it leaves that region
		// untouched rather than wrong.

	// --- text ---
	case contentstream.OpBeginText:
		it.tm, it.tlm = model.Identity, model.Identity
	case contentstream.OpEndText:
		// no state to tear down: Tm/Tlm are reset by the next BT.
	case contentstream.OpSetCharSpacing:
		it.gs.charSpace = float64(o.CharSpace)
	case contentstream.OpSetWordSpacing:
		it.gs.wordSpace = float64(o.WordSpace)
	case contentstream.OpSetHorizScaling:
		it.gs.hscale = float64(o.Scale) / 100
	case contentstream.OpSetTextLeading:
		it.gs.leading = float64(o.L)
	case contentstream.OpSetTextRise:
		it.gs.textRise = float64(o.Rise)
	case contentstream.OpSetTextRender:
		it.gs.renderMode = int(o.Render)
	case contentstream.OpSetFont:
		it.setFont(o.Font, o.Size)
	case contentstream.OpTextMove:
		it.textMove(float64(o.X), float64(o.Y))
	case contentstream.OpTextMoveSet:
		it.gs.leading = -float64(o.Y)
		it.textMove(float64(o.X), float64(o.Y))
	case contentstream.OpTextNextLine:
		it.textMove(0, -it.gs.leading)
	case contentstream.OpSetTextMatrix:
		it.tm, it.tlm = o.Matrix, o.Matrix
	case contentstream.OpShowText:
		it.showText([]byte(o.Text))
	case contentstream.OpMoveShowText:
		it.textMove(0, -it.gs.leading)
		it.showText([]byte(o.Text))
	case contentstream.OpMoveSetShowText:
		it.gs.wordSpace, it.gs.charSpace = float64(o.WordSpacing), float64(o.CharacterSpacing)
		it.textMove(0, -it.gs.leading)
		it.showText([]byte(o.Text))
	case contentstream.OpShowSpaceText:
		it.showSpaceText(o.Texts)
	case contentstream.OpSetCharWidth, contentstream.OpSetCacheDevice:
		// Type3 glyph-metric operators: Type3 glyph procedures are not
		// executed (spec §9(c) UnsupportedFeature), so the advance/bbox
		// they declare is never consulted.

	// --- XObjects and inline images ---
	case contentstream.OpXObject:
		it.doXObject(o.XObject)
	case contentstream.OpBeginImage:
		it.drawInlineImage(o)

	case contentstream.OpBeginMarkedContent, contentstream.OpEndMarkedContent,
		contentstream.OpMarkPoint, contentstream.OpBeginIgnoreUndef, contentstream.OpEndIgnoreUndef:
		// marked content and optional-content bracketing carry no visual
		// effect for this engine: annotations/marked-content structure
		// extraction is out of scope (spec §1 non-goals).

	default:
		// unknown operator: skipped with its operands discarded, per
		// spec §4.7.
	}
}

func toFloat64s(fs []model.Fl) []float64 {
	out := make([]float64, len(fs))
	for i, f := range fs {
		out[i] = float64(f)
	}
	return out
}

func (it *interpreter) resolveColorSpace(name model.ObjName) model.ColorSpace {
	res := it.resources()
	var table model.ResourcesColorSpace
	if res != nil {
		table = model.ResourcesColorSpace(res.ColorSpace)
	}
	cs, err := table.Resolve(model.Name(name))
	if err != nil {
		it.warnf("content stream: %s", err)
		return model.ColorSpaceName(model.ColorSpaceGray)
	}
	return cs
}

func (it *interpreter) applyExtGState(name model.ObjName) {
	res := it.resources()
	if res == nil {
		return
	}
	gs, ok := res.ExtGState[model.Name(name)]
	if !ok || gs == nil {
		it.warnf("content stream: unknown ExtGState %s", name)
		return
	}
	if gs.LW > 0 {
		it.gs.lineWidth = float64(gs.LW)
	}
	if gs.LC != model.Undef {
		it.gs.lineCap = raster.LineCap(gs.LC)
	}
	if gs.LJ != model.Undef {
		it.gs.lineJoin = raster.LineJoin(gs.LJ)
	}
	if gs.ML > 0 {
		it.gs.miterLimit = float64(gs.ML)
	}
	if gs.D != nil {
		it.gs.dash = toFloat64s(gs.D.Array)
		it.gs.dashPhase = float64(gs.D.Phase)
	}
	it.gs.fillAlpha = float64(gs.Ca)
	it.gs.strokeAlpha = float64(gs.CA)
	if gs.Font.Font != nil {
		it.bindFont(gs.Font.Font, "", float64(gs.Font.Size))
	}
}

// --- path helpers: every coordinate is transformed to device space the
// moment it is read off an operand, per the common simplifying assumption
// (shared with most PDF renderers) that a content stream never changes the
// CTM in the middle of building one path. ---

type dpoint struct{ x, y float64 }

func (it *interpreter) devicePt(x, y model.Fl) dpoint {
	dx, dy := it.gs.ctm.Apply(x, y)
	return dpoint{float64(dx), float64(dy)}
}

func (it *interpreter) moveTo(x, y model.Fl) {
	p := it.devicePt(x, y)
	it.path.MoveTo(p.x, p.y)
}

func (it *interpreter) lineTo(x, y model.Fl) {
	p := it.devicePt(x, y)
	it.path.LineTo(p.x, p.y)
}

func (it *interpreter) cubicTo(x1, y1, x2, y2, x3, y3 model.Fl) {
	it.cubicToDevice(it.devicePt(x1, y1), it.devicePt(x2, y2), it.devicePt(x3, y3))
}

// cubicToDevice appends a cubic Bézier already expressed in device points.
// OpCurveTo1 (`v`) and OpCurveTo (`y`) reuse it, substituting the current
// point or the endpoint for whichever control point their operand omits.
func (it *interpreter) cubicToDevice(c1, c2, end dpoint) {
	it.path.CubicTo(c1.x, c1.y, c2.x, c2.y, end.x, end.y)
}

func (it *interpreter) rectangle(x, y, w, h model.Fl) {
	p0 := it.devicePt(x, y)
	p1 := it.devicePt(x+w, y)
	p2 := it.devicePt(x+w, y+h)
	p3 := it.devicePt(x, y+h)
	it.path.MoveTo(p0.x, p0.y)
	it.path.LineTo(p1.x, p1.y)
	it.path.LineTo(p2.x, p2.y)
	it.path.LineTo(p3.x, p3.y)
	it.path.Close()
}

// deviceScale approximates the uniform scale factor the CTM applies,
// needed to turn a user-space line width into a device-space one: the
// square root of the area scale factor, exact for similarity transforms
// (scale + rotation) and a reasonable approximation otherwise.
func (it *interpreter) deviceScale() float64 {
	m := it.gs.ctm
	area := float64(m[0])*float64(m[3]) - float64(m[1])*float64(m[2])
	return math.Sqrt(math.Abs(area))
}

func (it *interpreter) strokeStyle() raster.StrokeStyle {
	scale := it.deviceScale()
	width := it.gs.lineWidth * scale
	dash := make([]float64, len(it.gs.dash))
	for i, d := range it.gs.dash {
		dash[i] = d * scale
	}
	return raster.StrokeStyle{
		Width:      width,
		Cap:        it.gs.lineCap,
		Join:       it.gs.lineJoin,
		MiterLimit: it.gs.miterLimit,
		Dash:       dash,
		DashPhase:  it.gs.dashPhase * scale,
	}
}

func (it *interpreter) paint(fill, stroke bool, rule raster.FillRule) {
	if fill {
		mask := raster.Rasterize(it.path, rule, it.dst.Width, it.dst.Height)
		it.paintMaskFull(mask, it.gs.fillColor, it.gs.fillAlpha)
	}
	if stroke {
		outline := raster.Stroke(it.path, it.strokeStyle())
		mask := raster.Rasterize(outline, raster.NonZero, it.dst.Width, it.dst.Height)
		it.paintMaskFull(mask, it.gs.strokeColor, it.gs.strokeAlpha)
	}
	if it.hasPendingClip {
		mask := raster.Rasterize(it.path, it.pendingClip, it.dst.Width, it.dst.Height)
		it.gs.clip = it.gs.clip.Intersect(mask)
		it.hasPendingClip = false
	}
	it.path = raster.NewPath()
}

func (it *interpreter) paintMaskFull(mask *raster.Mask, color [3]float64, alpha float64) {
	r, g, b := toByte(color[0]), toByte(color[1]), toByte(color[2])
	raster.Paint(it.dst, mask, it.gs.clip, r, g, b, alpha)
}

func toByte(f float64) uint8 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 255
	}
	return uint8(f*255 + 0.5)
}

// toRGB64 converts a colour operator's raw component operands straight to
// the [3]float64 RGB the graphics state stores, so paint time never needs
// `cs` or the original components again (sc/scn set colour once; it may be
// painted many times before the next colour operator).
func toRGB64(cs model.ColorSpace, comps []model.Fl) [3]float64 {
	if cs == nil {
		cs = model.ColorSpaceName(model.ColorSpaceGray)
	}
	rgb := cs.ToRGB(comps)
	return [3]float64{float64(rgb[0]), float64(rgb[1]), float64(rgb[2])}
}
