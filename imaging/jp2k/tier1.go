package jp2k

// codeBlockStyle bits from COD/COC's SPcod byte (Table A.18). Only
// cbStyleBypass is checked (buildComponentPlan rejects it); the other
// bits are not acted on.
const (
	cbStyleBypass    = 1 << 0 // lazy coding of some magnitude-refinement passes
	cbStyleResetCtx  = 1 << 1
	cbStyleTermAll   = 1 << 2
	cbStyleSegSymbol = 1 << 5
)

// tier1Decoder decodes one code-block's wavelet coefficients from its
// entropy-coded passes (Annex D), grounded on cocosip-go-dicom-codec's
// Tier-1 decoder: significance propagation, magnitude refinement and
// cleanup passes driven by an MQ decoder shared across all three, with a
// one-sample padding border so neighbor lookups never need bounds checks.
type tier1Decoder struct {
	w, h        int
	data        []int32
	flags       []uint32
	mq          *mqDecoder
	orientation int
	style       int
}

func newTier1Decoder(w, h, orientation, style int) *tier1Decoder {
	pw, ph := w+2, h+2
	return &tier1Decoder{
		w: w, h: h,
		data:        make([]int32, pw*ph),
		flags:       make([]uint32, pw*ph),
		orientation: orientation,
		style:       style,
	}
}

func (t *tier1Decoder) idx(x, y int) int { return (y+1)*(t.w+2) + (x + 1) }

// decode runs numPasses entropy-coded passes over data starting at
// bit-plane maxBitplane, the standard JPEG 2000 pass cycle: cleanup for
// the first bit-plane, then significance-propagation, magnitude-refinement,
// cleanup for every subsequent one.
func (t *tier1Decoder) decode(data []byte, numPasses, maxBitplane int) {
	t.mq = newMQDecoder(data)
	passType := 2 // start on cleanup
	bitplane := maxBitplane
	for p := 0; p < numPasses && bitplane >= 0; p++ {
		if passType == 0 {
			for i := range t.flags {
				t.flags[i] &^= t1Visit
			}
		}
		switch passType {
		case 0:
			t.sigPropPass(bitplane)
		case 1:
			t.magRefPass(bitplane)
		case 2:
			t.cleanupPass(bitplane)
		}
		if passType == 2 {
			passType = 0
			bitplane--
		} else {
			passType++
		}
	}
}

func (t *tier1Decoder) sigPropPass(bitplane int) {
	for k := 0; k < t.h; k += 4 {
		for x := 0; x < t.w; x++ {
			for dy := 0; dy < 4 && k+dy < t.h; dy++ {
				y := k + dy
				idx := t.idx(x, y)
				flags := t.flags[idx]
				if flags&t1Sig != 0 || flags&t1SigNeighbors == 0 {
					continue
				}
				ctx := zeroCodingContext(flags, t.orientation)
				bit := t.mq.decode(ctx)
				t.flags[idx] |= t1Visit
				if bit != 0 {
					t.makeSignificant(x, y, idx, bitplane)
				}
			}
		}
	}
}

func (t *tier1Decoder) magRefPass(bitplane int) {
	for k := 0; k < t.h; k += 4 {
		for x := 0; x < t.w; x++ {
			for dy := 0; dy < 4 && k+dy < t.h; dy++ {
				y := k + dy
				idx := t.idx(x, y)
				flags := t.flags[idx]
				if flags&t1Sig == 0 || flags&t1Visit != 0 {
					continue
				}
				ctx := magRefContext(flags)
				bit := t.mq.decode(ctx)
				if bit != 0 {
					if t.data[idx] >= 0 {
						t.data[idx] += int32(1) << uint(bitplane)
					} else {
						t.data[idx] -= int32(1) << uint(bitplane)
					}
				}
				t.flags[idx] |= t1Refine
			}
		}
	}
}

func (t *tier1Decoder) cleanupPass(bitplane int) {
	for k := 0; k < t.h; k += 4 {
		for x := 0; x < t.w; x++ {
			full := k+3 < t.h
			canRL := full
			if full {
				for dy := 0; dy < 4; dy++ {
					idx := t.idx(x, k+dy)
					f := t.flags[idx]
					if f&t1Visit != 0 || f&t1Sig != 0 || f&t1SigNeighbors != 0 {
						canRL = false
						break
					}
				}
			}
			if canRL {
				if t.mq.decode(ctxRunLen) == 0 {
					continue
				}
				runlen := t.mq.decode(ctxUniform)<<1 | t.mq.decode(ctxUniform)
				first := true
				for dy := runlen; dy < 4; dy++ {
					y := k + dy
					idx := t.idx(x, y)
					var sig int
					if first {
						sig = 1
						first = false
					} else {
						ctx := zeroCodingContext(t.flags[idx], t.orientation)
						sig = t.mq.decode(ctx)
					}
					if sig != 0 {
						t.makeSignificant(x, y, idx, bitplane)
					}
				}
				continue
			}
			for dy := 0; dy < 4 && k+dy < t.h; dy++ {
				y := k + dy
				idx := t.idx(x, y)
				flags := t.flags[idx]
				if flags&t1Visit != 0 || flags&t1Sig != 0 {
					t.flags[idx] &^= t1Visit
					continue
				}
				ctx := zeroCodingContext(flags, t.orientation)
				if t.mq.decode(ctx) != 0 {
					t.makeSignificant(x, y, idx, bitplane)
				}
			}
		}
	}
}

func (t *tier1Decoder) makeSignificant(x, y, idx, bitplane int) {
	signCtx, predicted := signCodingContext(t.flags[idx])
	signBit := t.mq.decode(signCtx)
	sign := signBit ^ predicted
	val := int32(1) << uint(bitplane)
	if sign != 0 {
		t.flags[idx] |= t1Sign
		t.data[idx] = -val
	} else {
		t.data[idx] = val
	}
	t.flags[idx] |= t1Sig
	t.updateNeighbors(x, y)
}

func (t *tier1Decoder) updateNeighbors(x, y int) {
	sign := t.flags[t.idx(x, y)] & t1Sign
	set := func(nx, ny int, sigBit, signBit uint32) {
		i := t.idx(nx, ny)
		t.flags[i] |= sigBit
		if sign != 0 {
			t.flags[i] |= signBit
		}
	}
	set(x, y-1, t1SigS, t1SignS)
	set(x, y+1, t1SigN, t1SignN)
	set(x-1, y, t1SigE, t1SignE)
	set(x+1, y, t1SigW, t1SignW)
	// diagonals carry significance only, no sign contribution (Table D.4).
	t.flags[t.idx(x-1, y-1)] |= t1SigSE
	t.flags[t.idx(x+1, y-1)] |= t1SigSW
	t.flags[t.idx(x-1, y+1)] |= t1SigNE
	t.flags[t.idx(x+1, y+1)] |= t1SigNW
}

// coefficients extracts the unpadded signed coefficient buffer.
func (t *tier1Decoder) coefficients() []int32 {
	out := make([]int32, t.w*t.h)
	for y := 0; y < t.h; y++ {
		for x := 0; x < t.w; x++ {
			out[y*t.w+x] = t.data[t.idx(x, y)]
		}
	}
	return out
}
