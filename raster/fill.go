package raster

import (
	"sort"

	"golang.org/x/image/math/fixed"
)

// subScanlines is the number of horizontal sample lines per output pixel
// row. Coverage along x is computed analytically (exact fractional-pixel
// span overlap), so only y needs supersampling; 4 sublines is the usual
// sweet spot between visible staircasing and rasterizer cost.
const subScanlines = 4

type edge struct {
	x0, y0, x1, y1 float64 // y0 < y1
	winding        int     // +1 if the original segment went downward, -1 otherwise
}

func buildEdges(subpaths [][]fixed.Point26_6) []edge {
	var edges []edge
	for _, sp := range subpaths {
		n := len(sp)
		for i := 0; i < n; i++ {
			a := sp[i]
			b := sp[(i+1)%n] // subpaths are implicitly closed for filling (8.5.3)
			if a.Y == b.Y {
				continue // horizontal edges never cross a scanline
			}
			x0, y0 := float64(a.X)/64, float64(a.Y)/64
			x1, y1 := float64(b.X)/64, float64(b.Y)/64
			w := 1
			if y0 > y1 {
				x0, y0, x1, y1 = x1, y1, x0, y0
				w = -1
			}
			edges = append(edges, edge{x0: x0, y0: y0, x1: x1, y1: y1, winding: w})
		}
	}
	return edges
}

// Rasterize fills `path` per `rule` and returns its coverage as a Mask the
// size of (width, height), the intermediate form both `render`'s paint
// operators and its clip-path construction (`W`/`W*`) consume.
func Rasterize(path *Path, rule FillRule, width, height int) *Mask {
	mask := NewMask(width, height)
	edges := buildEdges(path.Subpaths())
	if len(edges) == 0 {
		return mask
	}

	minX, minY, maxX, maxY := path.Bounds(width, height)
	if minX >= maxX || minY >= maxY {
		return mask
	}
	rowWidth := maxX - minX
	cov := make([]float32, rowWidth)

	type crossing struct {
		x       float64
		winding int
	}
	var xs []crossing

	for y := minY; y < maxY; y++ {
		for i := range cov {
			cov[i] = 0
		}
		for s := 0; s < subScanlines; s++ {
			sy := float64(y) + (float64(s)+0.5)/subScanlines
			xs = xs[:0]
			for _, e := range edges {
				if sy < e.y0 || sy >= e.y1 {
					continue
				}
				t := (sy - e.y0) / (e.y1 - e.y0)
				x := e.x0 + t*(e.x1-e.x0)
				xs = append(xs, crossing{x: x, winding: e.winding})
			}
			if len(xs) == 0 {
				continue
			}
			sort.Slice(xs, func(i, j int) bool { return xs[i].x < xs[j].x })

			winding := 0
			spanStart := 0.0
			inside := false
			for _, c := range xs {
				wasInside := inside
				winding += c.winding
				switch rule {
				case EvenOdd:
					inside = winding%2 != 0
				default:
					inside = winding != 0
				}
				if !wasInside && inside {
					spanStart = c.x
				} else if wasInside && !inside {
					addSpan(cov, minX, spanStart, c.x, 1.0/subScanlines)
				}
			}
		}
		rowOff := y * mask.Width
		for i, c := range cov {
			if c <= 0 {
				continue
			}
			if c > 1 {
				c = 1
			}
			x := minX + i
			if x < 0 || x >= mask.Width {
				continue
			}
			mask.Alpha[rowOff+x] = uint8(c*255 + 0.5)
		}
	}
	return mask
}

func addSpan(cov []float32, minX int, xa, xb float64, weight float32) {
	if xb <= xa {
		return
	}
	xa -= float64(minX)
	xb -= float64(minX)
	if xb <= 0 || xa >= float64(len(cov)) {
		return
	}
	if xa < 0 {
		xa = 0
	}
	if xb > float64(len(cov)) {
		xb = float64(len(cov))
	}
	ixa := int(xa)
	ixb := int(xb)
	if ixa == ixb {
		if ixa >= 0 && ixa < len(cov) {
			cov[ixa] += weight * float32(xb-xa)
		}
		return
	}
	if ixa >= 0 && ixa < len(cov) {
		cov[ixa] += weight * float32(float64(ixa+1)-xa)
	}
	for x := ixa + 1; x < ixb; x++ {
		cov[x] += weight
	}
	if ixb >= 0 && ixb < len(cov) {
		cov[ixb] += weight * float32(xb-float64(ixb))
	}
}
