package jp2k

import (
	"fmt"
	"image"
	"image/color"
)

// componentPlan holds one tile-component's resolution/sub-band layout
// for the whole decode, built once SIZ/COD/QCD are known.
type componentPlan struct {
	comp        int
	tcx0, tcy0  int
	tcx1, tcy1  int
	numDecomps  int
	style       codingStyle
	quant       quantStyle
	resolutions []resolutionInfo
}

type resolutionInfo struct {
	x0, y0, x1, y1 int
	subbands       []*subbandInfo
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// buildComponentPlan computes the resolution/sub-band geometry for one
// tile-component (Annex B.5's reference-grid-to-sub-band coordinate
// mapping).
func (d *decoder) buildComponentPlan(comp, tx0, ty0, tx1, ty1 int) (componentPlan, error) {
	xr, yr := d.siz.xrsiz[comp], d.siz.yrsiz[comp]
	p := componentPlan{
		comp: comp,
		tcx0: ceilDiv(tx0, xr), tcy0: ceilDiv(ty0, yr),
		tcx1: ceilDiv(tx1, xr), tcy1: ceilDiv(ty1, yr),
		style: d.codingStyleFor(comp),
		quant: d.quantStyleFor(comp),
	}
	n := p.style.numDecomps
	p.numDecomps = n
	if p.style.cbStyle&cbStyleBypass != 0 {
		return p, fmt.Errorf("%w: bypass code-block coding mode", ErrUnsupported)
	}

	qi := 0
	nextQuant := func() (int, int) {
		e, m := 0, 0
		if qi < len(p.quant.exponents) {
			e = p.quant.exponents[qi]
		}
		if qi < len(p.quant.mantissas) {
			m = p.quant.mantissas[qi]
		}
		qi++
		return e, m
	}
	p.resolutions = make([]resolutionInfo, n+1)
	for r := 0; r <= n; r++ {
		shift := uint(n - r)
		rx0, ry0 := ceilDiv(p.tcx0, 1<<shift), ceilDiv(p.tcy0, 1<<shift)
		rx1, ry1 := ceilDiv(p.tcx1, 1<<shift), ceilDiv(p.tcy1, 1<<shift)
		res := resolutionInfo{x0: rx0, y0: ry0, x1: rx1, y1: ry1}
		cbwExp, cbhExp := p.style.cbWidthExp, p.style.cbHeightExp
		if r == 0 {
			_, _ = nextQuant() // LL exponent/mantissa, applied at reconstruction
			sb := newSubband(orientLL, rx0, ry0, rx1-rx0, ry1-ry0, cbwExp, cbhExp)
			res.subbands = []*subbandInfo{sb}
		} else {
			d := n - r + 1
			band := func(orientation, ox, oy int) *subbandInfo {
				bx0 := ceilDiv(p.tcx0-ox*(1<<uint(d-1)), 1<<uint(d))
				bx1 := ceilDiv(p.tcx1-ox*(1<<uint(d-1)), 1<<uint(d))
				by0 := ceilDiv(p.tcy0-oy*(1<<uint(d-1)), 1<<uint(d))
				by1 := ceilDiv(p.tcy1-oy*(1<<uint(d-1)), 1<<uint(d))
				if bx1 < bx0 {
					bx1 = bx0
				}
				if by1 < by0 {
					by1 = by0
				}
				_, _ = nextQuant()
				return newSubband(orientation, bx0, by0, bx1-bx0, by1-by0, cbwExp, cbhExp)
			}
			res.subbands = []*subbandInfo{
				band(orientHL, 1, 0),
				band(orientLH, 0, 1),
				band(orientHH, 1, 1),
			}
		}
		p.resolutions[r] = res
	}
	return p, nil
}

// tileCursor walks one tile's decoded payload packet by packet, in the
// progression order COD specifies, filling in each code-block's header
// fields and body bytes (single quality layer, so every included
// code-block receives exactly one packet's worth of data).
type tileCursor struct {
	data []byte
	pos  int
}

func (tc *tileCursor) skipMarkerIfPresent(b0, b1 byte, extra int) {
	if tc.pos+2 <= len(tc.data) && tc.data[tc.pos] == b0 && tc.data[tc.pos+1] == b1 {
		tc.pos += 2 + extra
	}
}

func (tc *tileCursor) readPacket(subbands []*subbandInfo) error {
	tc.skipMarkerIfPresent(0xff, 0x91, 4) // SOP: marker + Lsop(2) + Nsop(2)
	if tc.pos > len(tc.data) {
		return fmt.Errorf("jp2k: tile data exhausted before packet")
	}
	br := newPacketBitReader(tc.data[tc.pos:])
	included, err := readPacketHeader(br, subbands)
	if err != nil {
		return err
	}
	tc.pos += br.bytePos
	if !included {
		return nil
	}
	tc.skipMarkerIfPresent(0xff, 0x92, 0) // EPH
	for _, sb := range subbands {
		for i := range sb.blocks {
			cb := &sb.blocks[i]
			if cb.numPasses == 0 && !cb.included {
				continue
			}
			if cb.pendingLength == 0 {
				continue
			}
			end := tc.pos + cb.pendingLength
			if end > len(tc.data) {
				end = len(tc.data)
			}
			cb.data = tc.data[tc.pos:end]
			tc.pos = end
			cb.pendingLength = 0
		}
	}
	return nil
}

// decodeTileComponent runs Tier-1 on every included code-block of every
// sub-band, dequantizes, and reconstructs the tile-component's samples by
// repeated inverse DWT from the lowest resolution up.
func (p *componentPlan) decodeTileComponent() *plane {
	ll := newPlane(p.resolutions[0].x1-p.resolutions[0].x0, p.resolutions[0].y1-p.resolutions[0].y0)
	fillSubbandInto(ll, p.resolutions[0].subbands[0], p.quant, p.numDecomps, 0)

	reversible := p.style.transform == 1
	for r := 1; r <= p.numDecomps; r++ {
		res := p.resolutions[r]
		hl, lh, hh := res.subbands[0], res.subbands[1], res.subbands[2]
		hlP := newPlane(hl.w, hl.h)
		lhP := newPlane(lh.w, lh.h)
		hhP := newPlane(hh.w, hh.h)
		fillSubbandInto(hlP, hl, p.quant, p.numDecomps, r)
		fillSubbandInto(lhP, lh, p.quant, p.numDecomps, r)
		fillSubbandInto(hhP, hh, p.quant, p.numDecomps, r)
		combined := interleave(ll, hlP, lhP, hhP)
		if reversible {
			idwt2D53(combined)
		} else {
			idwt2D97(combined)
		}
		ll = combined
	}
	return ll
}

// fillSubbandInto runs Tier-1 on every code-block of sb, dequantizes the
// result, and writes it into dst at the code-block's sub-band-relative
// offset (code-block x0/y0 are already relative to the sub-band origin,
// per newSubband).
func fillSubbandInto(dst *plane, sb *subbandInfo, q quantStyle, numDecomps, resolution int) {
	if sb.w <= 0 || sb.h <= 0 {
		return
	}
	reversible := q.style == 0
	guardBits := q.guardBits
	idx := subbandQuantIndex(sb.orientation, resolution)
	exponent, mantissa := 0, 0
	if idx < len(q.exponents) {
		exponent = q.exponents[idx]
		mantissa = q.mantissas[idx]
	}
	for bi := range sb.blocks {
		cb := &sb.blocks[bi]
		if !cb.included || len(cb.data) == 0 {
			continue
		}
		maxBitplane := guardBits + exponent - 1 - cb.zeroBitplanes
		if maxBitplane < 0 {
			maxBitplane = 0
		}
		t1 := newTier1Decoder(cb.w, cb.h, sb.orientation, 0)
		t1.decode(cb.data, cb.numPasses, maxBitplane)
		coeffs := t1.coefficients()
		dequantize(coeffs, exponent, mantissa, reversible)
		for y := 0; y < cb.h; y++ {
			for x := 0; x < cb.w; x++ {
				dst.set(cb.x0+x, cb.y0+y, coeffs[y*cb.w+x])
			}
		}
	}
}

// subbandQuantIndex maps (orientation, resolution) to the QCD/QCC
// exponent/mantissa list index, ordered LL, then (HL,LH,HH) per
// resolution level from 1 upward (Table A.28's sub-band ordering).
func subbandQuantIndex(orientation, resolution int) int {
	if resolution == 0 {
		return 0
	}
	return 1 + (resolution-1)*3 + orientation - 1
}

// dequantize applies scalar dequantization in place (Annex E.1). The 5-3
// reversible transform needs none: Tier-1's integer magnitude already is
// the exact coefficient. The 9-7 irreversible transform multiplies by the
// step size derived from exponent/mantissa (E-3), rounded back to int32
// since the lifting stages that follow work on this plane's int32 storage
// until idwt2D97 promotes it to float64 internally.
func dequantize(coeffs []int32, exponent, mantissa int, reversible bool) {
	if reversible {
		return
	}
	stepSize := (1 + float64(mantissa)/2048) * pow2(float64(exponent)-31)
	for i, c := range coeffs {
		v := float64(c) * stepSize
		coeffs[i] = int32(v + sign(v)*0.5)
	}
}

func pow2(e float64) float64 {
	r := 1.0
	neg := e < 0
	if neg {
		e = -e
	}
	for i := 0.0; i < e; i++ {
		r *= 2
	}
	if neg {
		return 1 / r
	}
	return r
}

func (d *decoder) assemble() (image.Image, error) {
	if d.cod.numLayers > 1 {
		return nil, fmt.Errorf("%w: %d quality layers (only the first is decoded)", ErrUnsupported, d.cod.numLayers)
	}
	numXTiles := ceilDiv(d.siz.width-d.siz.xTOsiz, d.siz.xTsiz)
	if numXTiles < 1 {
		numXTiles = 1
	}

	nComp := d.siz.numComps
	full := make([]*plane, nComp)

	for _, tile := range d.tiles {
		tx := tile.index % numXTiles
		ty := tile.index / numXTiles
		tx0 := maxInt(d.siz.xTOsiz+tx*d.siz.xTsiz, d.siz.xOsiz)
		ty0 := maxInt(d.siz.yTOsiz+ty*d.siz.yTsiz, d.siz.yOsiz)
		tx1 := minInt(d.siz.xTOsiz+(tx+1)*d.siz.xTsiz, d.siz.width)
		ty1 := minInt(d.siz.yTOsiz+(ty+1)*d.siz.yTsiz, d.siz.height)

		plans := make([]componentPlan, nComp)
		for c := 0; c < nComp; c++ {
			p, err := d.buildComponentPlan(c, tx0, ty0, tx1, ty1)
			if err != nil {
				return nil, err
			}
			plans[c] = p
		}

		resOuter := d.cod.progression <= 2
		cur := &tileCursor{data: tile.data}
		maxRes := 0
		for _, p := range plans {
			if p.numDecomps > maxRes {
				maxRes = p.numDecomps
			}
		}
		if resOuter {
			for r := 0; r <= maxRes; r++ {
				for c := 0; c < nComp; c++ {
					if r > plans[c].numDecomps {
						continue
					}
					if err := cur.readPacket(plans[c].resolutions[r].subbands); err != nil {
						return nil, err
					}
				}
			}
		} else {
			for c := 0; c < nComp; c++ {
				for r := 0; r <= plans[c].numDecomps; r++ {
					if err := cur.readPacket(plans[c].resolutions[r].subbands); err != nil {
						return nil, err
					}
				}
			}
		}

		tileComp := make([]*plane, nComp)
		for c := 0; c < nComp; c++ {
			tileComp[c] = plans[c].decodeTileComponent()
		}

		if d.cod.mct != 0 && nComp >= 3 {
			if plans[0].style.transform == 1 {
				inverseRCT(tileComp[0].pix, tileComp[1].pix, tileComp[2].pix)
			} else {
				inverseICT(tileComp[0].pix, tileComp[1].pix, tileComp[2].pix)
			}
		}

		for c := 0; c < nComp; c++ {
			if full[c] == nil {
				full[c] = newPlane(d.siz.width, d.siz.height)
			}
			levelShift := int32(0)
			if !d.siz.signed[c] {
				levelShift = int32(1) << uint(d.siz.bitDepth[c]-1)
			}
			maxVal := int32(1)<<uint(d.siz.bitDepth[c]) - 1
			src := tileComp[c]
			for y := 0; y < src.h; y++ {
				dy := ty0 + y
				if dy >= d.siz.height {
					break
				}
				for x := 0; x < src.w; x++ {
					dx := tx0 + x
					if dx >= d.siz.width {
						break
					}
					v := src.at(x, y) + levelShift
					if v < 0 {
						v = 0
					}
					if v > maxVal {
						v = maxVal
					}
					full[c].set(dx, dy, v)
				}
			}
		}
	}

	return buildImage(full, d.siz)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// buildImage scales each component plane to 8-bit and assembles the
// result per component count, matching imaging/jpeg's colour-model
// dispatch in spirit: 1 => Gray; any other count => NRGBA, where 3 or more
// components fill R, G, B from the first three, a fourth component (only
// when there are exactly 4) becomes alpha, and 2 components give a gray
// NRGBA from the first one alone.
func buildImage(planes []*plane, s siz) (image.Image, error) {
	w, h := s.width, s.height
	to8 := func(c int, v int32) uint8 {
		maxVal := (int32(1) << uint(s.bitDepth[c])) - 1
		if maxVal <= 0 {
			return 0
		}
		return uint8(v * 255 / maxVal)
	}
	switch len(planes) {
	case 1:
		img := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.SetGray(x, y, color.Gray{Y: to8(0, planes[0].at(x, y))})
			}
		}
		return img, nil
	default:
		img := image.NewNRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r := to8(0, planes[0].at(x, y))
				g := r
				b := r
				if len(planes) >= 3 {
					g = to8(1, planes[1].at(x, y))
					b = to8(2, planes[2].at(x, y))
				}
				a := uint8(255)
				if len(planes) == 4 {
					a = to8(3, planes[3].at(x, y))
				}
				img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: a})
			}
		}
		return img, nil
	}
}
