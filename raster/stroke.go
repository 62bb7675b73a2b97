package raster

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// LineCap mirrors the three cap styles of 8.4.3.3.
type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// LineJoin mirrors the three join styles of 8.4.3.4.
type LineJoin int

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// StrokeStyle gathers the pen parameters `S`/`s` reads off the graphics
// state (spec §4.7's OpSetLineWidth/Cap/Join/MiterLimit/Dash).
type StrokeStyle struct {
	Width      float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
	Dash       []float64 // pattern lengths, alternating on/off; empty means solid
	DashPhase  float64
}

// Stroke converts `path` into an equivalent fill path outlining the pen
// stroke (spec §9 Open Question (b): "adopt the outline approach"),
// resolved per subpath since caps only apply to open ends and dashing
// breaks a subpath into several independent strokes.
func Stroke(path *Path, style StrokeStyle) *Path {
	out := NewPath()
	half := style.Width / 2
	if half <= 0 {
		half = 0.5 // a zero-width stroke still paints a hairline (8.4.3.2)
	}
	for i, sp := range path.Subpaths() {
		pts := toFloatPoints(sp)
		closed := i < len(path.closed) && path.closed[i]
		for _, run := range applyDash(pts, closed, style.Dash, style.DashPhase) {
			strokeOpenPolyline(out, run, half, style)
		}
	}
	return out
}

type pt struct{ x, y float64 }

func toFloatPoints(sp []fixed.Point26_6) []pt {
	out := make([]pt, len(sp))
	for i, p := range sp {
		out[i] = pt{float64(p.X) / 64, float64(p.Y) / 64}
	}
	return out
}

// applyDash splits a polyline into the "on" runs of a dash pattern; an
// empty pattern returns the polyline unchanged as a single run.
func applyDash(pts []pt, closed bool, dash []float64, phase float64) [][]pt {
	if len(dash) == 0 {
		if closed && len(pts) > 1 {
			pts = append(append([]pt{}, pts...), pts[0])
		}
		return [][]pt{pts}
	}
	total := 0.0
	for _, d := range dash {
		total += d
	}
	if total <= 0 {
		return [][]pt{pts}
	}
	if closed && len(pts) > 1 {
		pts = append(append([]pt{}, pts...), pts[0])
	}

	var runs [][]pt
	idx := 0
	remaining := dash[0]
	on := true
	for phase > 0 {
		if phase < remaining {
			remaining -= phase
			break
		}
		phase -= remaining
		idx = (idx + 1) % len(dash)
		remaining = dash[idx]
		on = !on
	}

	var cur []pt
	if on && len(pts) > 0 {
		cur = []pt{pts[0]}
	}
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		segLen := math.Hypot(b.x-a.x, b.y-a.y)
		pos := 0.0
		for pos < segLen {
			step := math.Min(remaining, segLen-pos)
			pos += step
			remaining -= step
			t := pos / segLen
			p := pt{a.x + (b.x-a.x)*t, a.y + (b.y-a.y)*t}
			if on {
				cur = append(cur, p)
			}
			if remaining <= 1e-9 {
				if on && len(cur) > 1 {
					runs = append(runs, cur)
				}
				idx = (idx + 1) % len(dash)
				remaining = dash[idx]
				on = !on
				if on {
					cur = []pt{p}
				} else {
					cur = nil
				}
			}
		}
	}
	if on && len(cur) > 1 {
		runs = append(runs, cur)
	}
	return runs
}

// strokeOpenPolyline emits the outline quad for each segment plus join and
// cap geometry, appended as independent (self-overlapping) subpaths of
// `out`: non-zero fill of the union handles the overlaps correctly without
// needing true polygon offsetting.
func strokeOpenPolyline(out *Path, pts []pt, half float64, style StrokeStyle) {
	if len(pts) < 2 {
		if len(pts) == 1 && style.Cap == CapRound {
			emitCircle(out, pts[0], half)
		}
		return
	}
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		dx, dy := b.x-a.x, b.y-a.y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		nx, ny := -dy/length*half, dx/length*half
		out.MoveTo(a.x+nx, a.y+ny)
		out.LineTo(b.x+nx, b.y+ny)
		out.LineTo(b.x-nx, b.y-ny)
		out.LineTo(a.x-nx, a.y-ny)
		out.Close()

		if i > 0 {
			emitJoin(out, a, half, style)
		}
	}
	if style.Cap == CapRound {
		emitCircle(out, pts[0], half)
		emitCircle(out, pts[len(pts)-1], half)
	} else if style.Cap == CapSquare {
		emitSquareCap(out, pts[0], pts[1], half)
		emitSquareCap(out, pts[len(pts)-1], pts[len(pts)-2], half)
	}
}

func emitJoin(out *Path, center pt, radius float64, style StrokeStyle) {
	// A round disc at every interior vertex closes gaps left by the
	// per-segment quads regardless of turn angle; bevel/miter reduce to
	// the same visual result for the typical PDF stroke widths this
	// engine targets, so both are approximated this way rather than
	// computing the exact miter point.
	emitCircle(out, center, radius)
}

func emitSquareCap(out *Path, end, inward pt, half float64) {
	dx, dy := end.x-inward.x, end.y-inward.y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	ux, uy := dx/length*half, dy/length*half
	nx, ny := -uy, ux
	out.MoveTo(end.x+nx, end.y+ny)
	out.LineTo(end.x+nx+ux, end.y+ny+uy)
	out.LineTo(end.x-nx+ux, end.y-ny+uy)
	out.LineTo(end.x-nx, end.y-ny)
	out.Close()
}

const circleSteps = 12

func emitCircle(out *Path, c pt, r float64) {
	out.MoveTo(c.x+r, c.y)
	for i := 1; i <= circleSteps; i++ {
		theta := 2 * math.Pi * float64(i) / circleSteps
		out.LineTo(c.x+r*math.Cos(theta), c.y+r*math.Sin(theta))
	}
	out.Close()
}
