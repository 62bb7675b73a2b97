package jp2k

// mqState is one entry of the MQ-coder's probability estimation table
// (ISO/IEC 15444-1 Table E.1 / JBIG2 Annex E, shared by JPEG 2000's
// arithmetic coder): Qe is the probability of the less-likely symbol,
// nmps/nlps are the next state on an MPS/LPS transition, and switch
// flips which symbol is "more probable" when true.
type mqState struct {
	qe           uint32
	nmps, nlps   uint8
	switchMPS    bool
}

// mqStates is the standard 47-state table (Table E.1).
var mqStates = [47]mqState{
	{0x5601, 1, 1, true}, {0x3401, 2, 6, false}, {0x1801, 3, 9, false},
	{0x0AC1, 4, 12, false}, {0x0521, 5, 29, false}, {0x0221, 38, 33, false},
	{0x5601, 7, 6, true}, {0x5401, 8, 14, false}, {0x4801, 9, 14, false},
	{0x3801, 10, 14, false}, {0x3001, 11, 17, false}, {0x2401, 12, 18, false},
	{0x1C01, 13, 20, false}, {0x1601, 29, 21, false}, {0x5601, 15, 14, true},
	{0x5401, 16, 14, false}, {0x5101, 17, 15, false}, {0x4801, 18, 16, false},
	{0x3801, 19, 17, false}, {0x3401, 20, 18, false}, {0x3001, 21, 19, false},
	{0x2801, 22, 19, false}, {0x2401, 23, 20, false}, {0x2201, 24, 21, false},
	{0x1C01, 25, 22, false}, {0x1801, 26, 23, false}, {0x1601, 27, 24, false},
	{0x1401, 28, 25, false}, {0x1201, 29, 26, false}, {0x1101, 30, 27, false},
	{0x0AC1, 31, 28, false}, {0x09C1, 32, 29, false}, {0x08A1, 33, 30, false},
	{0x0521, 34, 31, false}, {0x0441, 35, 32, false}, {0x02A1, 36, 33, false},
	{0x0221, 37, 34, false}, {0x0141, 38, 35, false}, {0x0111, 39, 36, false},
	{0x0085, 40, 37, false}, {0x0049, 41, 38, false}, {0x0025, 42, 39, false},
	{0x0015, 43, 40, false}, {0x0009, 44, 41, false}, {0x0005, 45, 42, false},
	{0x0001, 45, 43, false}, {0x5601, 46, 46, false},
}

// mqContext is one of the MQ-coder's per-context probability/MPS state
// pairs (19 contexts: zero-coding ×9 by sub-band orientation, sign ×5,
// magnitude-refinement ×3, run-length, uniform).
type mqContext struct {
	state uint8
	mps   uint8
}

// MQ context indices (Annex C.3, Table D.7's JPEG 2000 assignment): 9
// zero-coding contexts, 5 sign contexts, 3 magnitude-refinement contexts,
// 1 run-length context, 1 uniform context — 19 total.
const (
	ctxZeroCodingStart = 0  // 9 contexts, 0..8
	ctxSignStart       = 9  // 5 contexts, 9..13
	ctxMagRefStart     = 14 // 3 contexts, 14..16
	ctxRunLen          = 17
	ctxUniform         = 18
)

func defaultContexts() [19]mqContext {
	var c [19]mqContext
	c[ctxZeroCodingStart] = mqContext{state: 4, mps: 0}
	for i := 1; i < 9; i++ {
		c[i] = mqContext{state: 0, mps: 0}
	}
	for i := ctxSignStart; i < ctxSignStart+5; i++ {
		c[i] = mqContext{state: 0, mps: 0}
	}
	c[ctxMagRefStart] = mqContext{state: 0, mps: 0}
	c[ctxMagRefStart+1] = mqContext{state: 0, mps: 0}
	c[ctxMagRefStart+2] = mqContext{state: 0, mps: 0}
	c[ctxRunLen] = mqContext{state: 3, mps: 0}
	c[ctxUniform] = mqContext{state: 46, mps: 0}
	return c
}

// mqDecoder implements the MQ arithmetic decoder (Annex C.3), INITDEC
// through DECODE/BYTEIN, driven by a shared context table per code-block.
type mqDecoder struct {
	data []byte
	bp   int

	c      uint32
	a      uint32
	ct     int
	ctx    [19]mqContext
}

func newMQDecoder(data []byte) *mqDecoder {
	d := &mqDecoder{data: data, ctx: defaultContexts()}
	d.initDec()
	return d
}

func (d *mqDecoder) byteAt(i int) uint32 {
	if i < 0 || i >= len(d.data) {
		return 0xff
	}
	return uint32(d.data[i])
}

func (d *mqDecoder) initDec() {
	d.bp = 0
	b0 := d.byteAt(0)
	d.c = b0 << 16
	d.byteIn()
	d.c <<= 7
	d.ct -= 7
	d.a = 0x8000
}

func (d *mqDecoder) byteIn() {
	if d.byteAt(d.bp) == 0xff {
		if d.byteAt(d.bp+1) > 0x8f {
			d.c += 0xff00
			d.ct = 8
		} else {
			d.bp++
			d.c += d.byteAt(d.bp) << 9
			d.ct = 7
		}
	} else {
		d.bp++
		d.c += d.byteAt(d.bp) << 8
		d.ct = 8
	}
}

// decode returns one decoded bit using context index ctxIdx.
func (d *mqDecoder) decode(ctxIdx int) int {
	cx := &d.ctx[ctxIdx]
	st := mqStates[cx.state]
	d.a -= st.qe

	var bit int
	if (d.c >> 16) < uint32(st.qe) {
		// LPS exchange or MPS exchange depending on A vs Qe.
		if d.a < st.qe {
			bit = int(cx.mps)
			cx.state = st.nmps
		} else {
			bit = int(1 - cx.mps)
			if st.switchMPS {
				cx.mps = 1 - cx.mps
			}
			cx.state = st.nlps
		}
		d.a = st.qe
	} else {
		d.c -= uint32(st.qe) << 16
		if d.a&0x8000 != 0 {
			return int(cx.mps)
		}
		if d.a < st.qe {
			bit = int(1 - cx.mps)
			if st.switchMPS {
				cx.mps = 1 - cx.mps
			}
			cx.state = st.nlps
		} else {
			bit = int(cx.mps)
			cx.state = st.nmps
		}
	}

	for d.a&0x8000 == 0 {
		if d.ct == 0 {
			d.byteIn()
		}
		d.a <<= 1
		d.c <<= 1
		d.ct--
	}
	return bit
}

// rawDecoder reads raw (bypass) bits used by the lazy run-length coding
// mode's magnitude-refinement bit-plane (cblkstyle bit BYPASS), a plain
// MSB-first bit reader over the remaining code-block bytes.
type rawDecoder struct {
	data  []byte
	pos   int
	accum uint32
	nbits uint
}

func newRawDecoder(data []byte) *rawDecoder { return &rawDecoder{data: data} }

func (r *rawDecoder) decode() int {
	if r.nbits == 0 {
		var b byte
		if r.pos < len(r.data) {
			b = r.data[r.pos]
			r.pos++
		}
		r.accum = uint32(b)
		r.nbits = 8
	}
	r.nbits--
	return int((r.accum >> r.nbits) & 1)
}
