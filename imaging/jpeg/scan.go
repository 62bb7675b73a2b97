package jpeg

import (
	"fmt"
	"image"
)

// bitReader pulls bits from the entropy-coded segment following SOS,
// undoing byte stuffing (spec §4.5: "0xFF followed by 0x00 means literal
// 0xFF; 0xFF followed by any other marker is a marker").
type bitReader struct {
	d        *decoder
	acc      uint32
	nbits    uint
	marker   byte // set once a real marker (not a stuffed 0xFF00) is hit
	unreadErr error
}

func newBitReader(d *decoder) *bitReader { return &bitReader{d: d} }

func (br *bitReader) fill() {
	for br.nbits <= 24 {
		if br.marker != 0 {
			br.acc <<= 8
			br.nbits += 8
			continue
		}
		b, err := br.d.r.ReadByte()
		if err != nil {
			br.unreadErr = err
			br.acc <<= 8
			br.nbits += 8
			continue
		}
		if b == 0xFF {
			b2, err := br.d.r.ReadByte()
			if err != nil {
				br.unreadErr = err
				br.acc <<= 8
				br.nbits += 8
				continue
			}
			if b2 == 0x00 {
				// stuffed byte: literal 0xFF
			} else if b2 >= markerRST0 && b2 <= markerRST7 {
				br.marker = b2
				br.acc <<= 8
				br.nbits += 8
				continue
			} else {
				br.marker = b2
				br.acc <<= 8
				br.nbits += 8
				continue
			}
		}
		br.acc = br.acc<<8 | uint32(b)
		br.nbits += 8
	}
}

func (br *bitReader) readBit() (int, error) {
	if br.nbits < 1 {
		br.fill()
	}
	if br.nbits < 1 {
		if br.unreadErr != nil {
			return 0, br.unreadErr
		}
		return 0, fmt.Errorf("jpeg: out of bits")
	}
	br.nbits--
	bit := (br.acc >> br.nbits) & 1
	return int(bit), nil
}

func (br *bitReader) readBits(n int) (int32, error) {
	var v int32
	for i := 0; i < n; i++ {
		b, err := br.readBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | int32(b)
	}
	return v, nil
}

// decodeHuffman walks h starting from the fast 8-bit table, falling back
// to a bit-by-bit slow path for codes longer than 8 bits.
func (br *bitReader) decodeHuffman(h *huffTable) (byte, error) {
	if br.nbits < 8 {
		br.fill()
	}
	if br.nbits >= 8 {
		idx := (br.acc >> (br.nbits - 8)) & 0xff
		if entry := h.fast[idx]; entry != 0 {
			length := int(entry & 0xff)
			br.nbits -= uint(length)
			return byte(entry >> 8), nil
		}
	}
	var code int32
	for length := 1; length <= h.maxCodeLen; length++ {
		bit, err := br.readBit()
		if err != nil {
			return 0, err
		}
		code = code<<1 | int32(bit)
		if h.maxCode[length] >= code && code >= h.minCode[length] {
			return h.symbols[h.valPtr[length]+int(code-h.minCode[length])], nil
		}
	}
	return 0, fmt.Errorf("jpeg: bad Huffman code")
}

// extend implements JPEG's sign-extension of a received magnitude-category
// value (Annex F.2.2.1 EXTEND): values in [0, 2^(s-1)) are negative.
func extend(v int32, s int) int32 {
	if s == 0 {
		return 0
	}
	vt := int32(1) << (s - 1)
	if v < vt {
		return v - (1<<s - 1)
	}
	return v
}

func (br *bitReader) receive(s int) (int32, error) {
	if s == 0 {
		return 0, nil
	}
	return br.readBits(s)
}

func (d *decoder) processDHT() error {
	seg, err := d.readSegment()
	if err != nil {
		return err
	}
	for len(seg) > 0 {
		class := seg[0] >> 4
		id := seg[0] & 0x0f
		if id > 3 {
			return fmt.Errorf("jpeg: invalid huffman table id")
		}
		seg = seg[1:]
		if len(seg) < 16 {
			return fmt.Errorf("jpeg: short DHT")
		}
		var counts [16]byte
		copy(counts[:], seg[:16])
		seg = seg[16:]
		n := 0
		for _, c := range counts {
			n += int(c)
		}
		if len(seg) < n {
			return fmt.Errorf("jpeg: short DHT symbol list")
		}
		symbols := append([]byte(nil), seg[:n]...)
		seg = seg[n:]
		table, err := buildHuffTable(counts, symbols)
		if err != nil {
			return err
		}
		if class == 0 {
			d.huffDC[id] = table
		} else {
			d.huffAC[id] = table
		}
	}
	return nil
}

// scanComponent augments component with its per-scan Huffman table ids.
type scanComponent struct {
	comp      *component
	dcTableID byte
	acTableID byte
}

func (d *decoder) processSOS() (image.Image, error) {
	seg, err := d.readSegment()
	if err != nil {
		return nil, err
	}
	if len(seg) < 1 {
		return nil, fmt.Errorf("jpeg: short SOS")
	}
	ns := int(seg[0])
	if len(seg) < 1+2*ns+3 {
		return nil, fmt.Errorf("jpeg: short SOS component list")
	}
	scanComps := make([]scanComponent, ns)
	for i := 0; i < ns; i++ {
		id := seg[1+2*i]
		sel := seg[2+2*i]
		var comp *component
		for ci := range d.comps {
			if d.comps[ci].id == id {
				comp = &d.comps[ci]
			}
		}
		if comp == nil {
			return nil, fmt.Errorf("jpeg: SOS references unknown component")
		}
		scanComps[i] = scanComponent{comp: comp, dcTableID: sel >> 4, acTableID: sel & 0x0f}
	}

	maxH, maxV := 1, 1
	for _, c := range d.comps {
		if c.h > maxH {
			maxH = c.h
		}
		if c.v > maxV {
			maxV = c.v
		}
	}
	mcuW, mcuH := 8*maxH, 8*maxV
	mcusX := (d.width + mcuW - 1) / mcuW
	mcusY := (d.height + mcuH - 1) / mcuH

	// per-component plane, sized to whole MCUs (cropped to Width/Height
	// by the caller when building the final image).
	planes := make([][]byte, len(d.comps))
	strides := make([]int, len(d.comps))
	for i, c := range d.comps {
		w := mcusX * c.h * 8
		h := mcusY * c.v * 8
		planes[i] = make([]byte, w*h)
		strides[i] = w
	}

	br := newBitReader(d)
	restartCountdown := d.restartInterval
	if restartCountdown == 0 {
		restartCountdown = 1 << 30
	}

	var block [64]int32
	for my := 0; my < mcusY; my++ {
		for mx := 0; mx < mcusX; mx++ {
			for _, sc := range scanComps {
				c := sc.comp
				ci := componentIndex(d.comps, c)
				for by := 0; by < c.v; by++ {
					for bx := 0; bx < c.h; bx++ {
						if err := decodeBlock(br, d, sc, &block); err != nil {
							return nil, err
						}
						idctAndStore(&block, planes[ci], strides[ci],
							(mx*c.h+bx)*8, (my*c.v+by)*8)
					}
				}
			}
			restartCountdown--
			if restartCountdown == 0 && !(my == mcusY-1 && mx == mcusX-1) {
				if err := d.handleRestart(br); err != nil {
					return nil, err
				}
				for i := range d.comps {
					d.comps[i].dcPred = 0
				}
				restartCountdown = d.restartInterval
			}
		}
	}

	return d.assembleImage(planes, strides, maxH, maxV)
}

func componentIndex(comps []component, c *component) int {
	for i := range comps {
		if &comps[i] == c {
			return i
		}
	}
	return 0
}

func decodeBlock(br *bitReader, d *decoder, sc scanComponent, block *[64]int32) error {
	for i := range block {
		block[i] = 0
	}
	dcTable := d.huffDC[sc.dcTableID]
	acTable := d.huffAC[sc.acTableID]
	if dcTable == nil || acTable == nil {
		return fmt.Errorf("jpeg: missing huffman table for scan")
	}

	s, err := br.decodeHuffman(dcTable)
	if err != nil {
		return err
	}
	diffBits, err := br.receive(int(s))
	if err != nil {
		return err
	}
	diff := extend(diffBits, int(s))
	sc.comp.dcPred += diff
	block[0] = sc.comp.dcPred

	quant := d.quant[sc.comp.quantID]
	k := 1
	for k < 64 {
		rs, err := br.decodeHuffman(acTable)
		if err != nil {
			return err
		}
		run := int(rs >> 4)
		size := int(rs & 0x0f)
		if size == 0 {
			if run == 15 {
				k += 16 // ZRL
				continue
			}
			break // EOB
		}
		k += run
		if k >= 64 {
			return fmt.Errorf("jpeg: AC coefficient index overflow")
		}
		bits, err := br.receive(size)
		if err != nil {
			return err
		}
		block[zigzag[k]] = extend(bits, size) * quant[k]
		k++
	}
	block[0] *= quant[0]
	return nil
}

func (d *decoder) handleRestart(br *bitReader) error {
	// the bit reader stops at the first marker it meets. When the last MCU
	// ended before the reader got that far, drop the padding bits and read
	// on up to the marker; then consume it and reset the bit accumulator
	// for the next MCU run.
	if br.marker == 0 {
		br.acc, br.nbits = 0, 0
		br.fill()
	}
	if br.marker < markerRST0 || br.marker > markerRST7 {
		return fmt.Errorf("jpeg: expected restart marker, got %#x", br.marker)
	}
	br.marker = 0
	br.acc = 0
	br.nbits = 0
	return nil
}
