package raster

import "golang.org/x/image/math/fixed"

// FillRule selects how a path's winding numbers decide "inside" (8.5.3).
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// Path is a sequence of closed or open subpaths, built from the same
// move/line/cubic vocabulary content-stream path operators use (spec §4.7
// OpMoveTo/OpLineTo/OpCubicTo/OpClosePath), already flattened to line
// segments in 26.6 fixed point (spec §4.8).
type Path struct {
	subpaths [][]fixed.Point26_6
	closed   []bool
	cur      []fixed.Point26_6
	start    fixed.Point26_6
	hasStart bool
	pos      fixed.Point26_6
}

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }

func point(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: toFixed(x), Y: toFixed(y)}
}

// NewPath returns an empty path.
func NewPath() *Path { return &Path{} }

// MoveTo starts a new subpath, flushing the current one.
func (p *Path) MoveTo(x, y float64) {
	p.flush(false)
	p.start = point(x, y)
	p.pos = p.start
	p.hasStart = true
	p.cur = []fixed.Point26_6{p.start}
}

// LineTo appends a straight segment to the current subpath.
func (p *Path) LineTo(x, y float64) {
	if !p.hasStart {
		p.MoveTo(x, y)
		return
	}
	p.pos = point(x, y)
	p.cur = append(p.cur, p.pos)
}

// curveSteps is the fixed subdivision count used to flatten a cubic Bézier
// into line segments. A fixed step count (rather than adaptive flatness
// testing) trades a little precision on very large curves for a much
// simpler rasterizer; at typical glyph/path scales the difference is not
// visible.
const curveSteps = 16

// CubicTo appends a cubic Bézier curve, flattened to curveSteps segments.
func (p *Path) CubicTo(x1, y1, x2, y2, x3, y3 float64) {
	if !p.hasStart {
		p.MoveTo(x1, y1)
	}
	x0, y0 := float64(p.pos.X)/64, float64(p.pos.Y)/64
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		mt := 1 - t
		a := mt * mt * mt
		b := 3 * mt * mt * t
		c := 3 * mt * t * t
		d := t * t * t
		x := a*x0 + b*x1 + c*x2 + d*x3
		y := a*y0 + b*y1 + c*y2 + d*y3
		p.pos = point(x, y)
		p.cur = append(p.cur, p.pos)
	}
}

// CurrentPoint returns the path's current point, the implicit first
// operand of `v` (8.5.2.1) whose first control point coincides with it.
func (p *Path) CurrentPoint() (float64, float64) {
	return float64(p.pos.X) / 64, float64(p.pos.Y) / 64
}

// Close closes the current subpath back to its start point (8.5.2.1 `h`).
func (p *Path) Close() {
	if !p.hasStart {
		return
	}
	p.flush(true)
}

func (p *Path) flush(closed bool) {
	if len(p.cur) > 1 {
		p.subpaths = append(p.subpaths, p.cur)
		p.closed = append(p.closed, closed)
	}
	p.cur = nil
	p.hasStart = false
}

// Subpaths finalizes and returns the path's flattened polylines. Every
// subpath is implicitly closed for filling purposes (8.5.3: "an open
// subpath shall be implicitly closed").
func (p *Path) Subpaths() [][]fixed.Point26_6 {
	p.flush(false)
	return p.subpaths
}

// Bounds returns the integer pixel bounding box of the path, clipped to
// [0, maxW) x [0, maxH).
func (p *Path) Bounds(maxW, maxH int) (minX, minY, maxX, maxY int) {
	subs := p.Subpaths()
	if len(subs) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = 1<<30, 1<<30
	maxX, maxY = -(1 << 30), -(1 << 30)
	for _, sp := range subs {
		for _, pt := range sp {
			x, y := pt.X.Floor(), pt.Y.Floor()
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			x2 := pt.X.Ceil()
			y2 := pt.Y.Ceil()
			if x2 > maxX {
				maxX = x2
			}
			if y2 > maxY {
				maxY = y2
			}
		}
	}
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > maxW {
		maxX = maxW
	}
	if maxY > maxH {
		maxY = maxH
	}
	return
}
