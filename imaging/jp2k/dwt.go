package jp2k

// inverse 5-3 reversible and 9-7 irreversible discrete wavelet transforms
// (Annex F), applied as 1-D lifting steps along rows then columns, per
// resolution level from the lowest (LL-only) up to the full-resolution
// image, the standard Mallat pyramid JPEG 2000 builds its resolutions
// from.

// lifting53Inverse undoes the 5-3 reversible transform's interleaved
// low/high-pass sequence in place (F.3.1/F.3.2), where even indices hold
// low-pass and odd indices hold high-pass coefficients.
func lifting53Inverse(x []int32) {
	n := len(x)
	if n <= 1 {
		return
	}
	// undo update step (low-pass, even samples)
	for i := 0; i < n; i += 2 {
		var a, b int32
		if i-1 >= 0 {
			a = x[i-1]
		} else {
			a = x[i+1]
		}
		if i+1 < n {
			b = x[i+1]
		} else {
			b = a
		}
		x[i] -= (a + b + 2) >> 2
	}
	// undo predict step (high-pass, odd samples)
	for i := 1; i < n; i += 2 {
		var a, b int32
		a = x[i-1]
		if i+1 < n {
			b = x[i+1]
		} else {
			b = a
		}
		x[i] += (a + b) >> 1
	}
}

// 9-7 lifting constants (F.4).
const (
	alpha97 = -1.586134342059924
	beta97  = -0.052980118572961
	gamma97 = 0.882911075530934
	delta97 = 0.443506852043971
	k97     = 1.230174104914001
)

func lifting97Inverse(x []float64) {
	n := len(x)
	if n <= 1 {
		return
	}
	invK := 1 / k97
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			x[i] *= k97
		} else {
			x[i] *= invK
		}
	}
	step := func(coef float64, even bool) {
		start := 1
		if even {
			start = 0
		}
		for i := start; i < n; i += 2 {
			var a, b float64
			if i-1 >= 0 {
				a = x[i-1]
			} else if i+1 < n {
				a = x[i+1]
			}
			if i+1 < n {
				b = x[i+1]
			} else {
				b = a
			}
			x[i] -= coef * (a + b)
		}
	}
	step(delta97, true)
	step(gamma97, false)
	step(beta97, true)
	step(alpha97, false)
}

// plane is a rectangular int32 buffer with its own stride, used for both
// whole sub-band planes and the combined per-resolution coefficient grid.
type plane struct {
	w, h   int
	pix    []int32
}

func newPlane(w, h int) *plane { return &plane{w: w, h: h, pix: make([]int32, w*h)} }

func (p *plane) at(x, y int) int32     { return p.pix[y*p.w+x] }
func (p *plane) set(x, y int, v int32) { p.pix[y*p.w+x] = v }

// idwt2D53 performs one level of the inverse 5-3 transform on a combined
// LL|HL / LH|HH quadrant buffer of size w x h, in place, producing the
// next (larger) resolution's LL plane.
func idwt2D53(p *plane) {
	row := make([]int32, p.w)
	for y := 0; y < p.h; y++ {
		copy(row, p.pix[y*p.w:(y+1)*p.w])
		lifting53Inverse(row)
		copy(p.pix[y*p.w:(y+1)*p.w], row)
	}
	col := make([]int32, p.h)
	for x := 0; x < p.w; x++ {
		for y := 0; y < p.h; y++ {
			col[y] = p.at(x, y)
		}
		lifting53Inverse(col)
		for y := 0; y < p.h; y++ {
			p.set(x, y, col[y])
		}
	}
}

func idwt2D97(p *plane) {
	row := make([]float64, p.w)
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			row[x] = float64(p.at(x, y))
		}
		lifting97Inverse(row)
		for x := 0; x < p.w; x++ {
			p.set(x, y, int32(row[x]+sign(row[x])*0.5))
		}
	}
	col := make([]float64, p.h)
	for x := 0; x < p.w; x++ {
		for y := 0; y < p.h; y++ {
			col[y] = float64(p.at(x, y))
		}
		lifting97Inverse(col)
		for y := 0; y < p.h; y++ {
			p.set(x, y, int32(col[y]+sign(col[y])*0.5))
		}
	}
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// interleave assembles one resolution level's combined buffer from its
// four sub-band planes (LL from the previous level, HL/LH/HH from this
// one) into the even/odd-interleaved layout the lifting scheme expects
// (Annex F: even samples at even positions, odd at odd).
func interleave(ll, hl, lh, hh *plane) *plane {
	w := ll.w + hl.w
	h := ll.h + lh.h
	out := newPlane(w, h)
	for y := 0; y < ll.h; y++ {
		for x := 0; x < ll.w; x++ {
			out.set(2*x, 2*y, ll.at(x, y))
		}
	}
	for y := 0; y < hl.h; y++ {
		for x := 0; x < hl.w; x++ {
			out.set(2*x+1, 2*y, hl.at(x, y))
		}
	}
	for y := 0; y < lh.h; y++ {
		for x := 0; x < lh.w; x++ {
			out.set(2*x, 2*y+1, lh.at(x, y))
		}
	}
	for y := 0; y < hh.h; y++ {
		for x := 0; x < hh.w; x++ {
			out.set(2*x+1, 2*y+1, hh.at(x, y))
		}
	}
	return out
}
