package jp2k

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
)

// codestream marker values (ISO/IEC 15444-1 Annex A.3).
const (
	markerSOC = 0x4f
	markerSIZ = 0x51
	markerCOD = 0x52
	markerCOC = 0x53
	markerQCD = 0x5c
	markerQCC = 0x5d
	markerRGN = 0x5e
	markerPOC = 0x5f
	markerPPM = 0x60
	markerPPT = 0x61
	markerTLM = 0x55
	markerPLM = 0x57
	markerPLT = 0x58
	markerCRG = 0x63
	markerCOM = 0x64
	markerSOT = 0x90
	markerSOP = 0x91
	markerEPH = 0x92
	markerSOD = 0x93
	markerEOC = 0xd9
)

// siz holds the SIZ marker's image and tile geometry (Table A.9).
type siz struct {
	width, height   int // Xsiz, Ysiz
	xOsiz, yOsiz    int
	xTsiz, yTsiz    int
	xTOsiz, yTOsiz  int
	numComps        int
	bitDepth        []int
	signed          []bool
	xrsiz, yrsiz    []int
}

// codingStyle holds one COD/COC's decomposition and code-block parameters
// (Table A.13/A.16), shared by the default (COD) and any per-component
// override (COC, applied per component when present).
type codingStyle struct {
	progression      int
	numLayers        int
	mct              int // 0 none, 1 reversible/irreversible per transform
	numDecomps       int
	cbWidthExp       int // xcb
	cbHeightExp      int // ycb
	cbStyle          int
	transform        int // 0 = 9-7 irreversible, 1 = 5-3 reversible
	precinctWidthExp []int
	precinctHeightExp []int
}

func defaultPrecincts(n int) ([]int, []int) {
	w := make([]int, n)
	h := make([]int, n)
	for i := range w {
		w[i], h[i] = 15, 15 // PPx=PPy=15 means "no precinct partition" (one precinct)
	}
	return w, h
}

// quantStyle holds one QCD/QCC's dequantization parameters (Table A.28).
type quantStyle struct {
	style    int // 0 none, 1 scalar derived, 2 scalar expounded
	guardBits int
	// exponents/mantissas per sub-band, indexed as the codestream orders
	// them: LL of resolution 0, then (HL,LH,HH) of each following
	// resolution level.
	exponents []int
	mantissas []int
}

type decoder struct {
	r *bytes.Reader

	siz         siz
	cod         codingStyle
	coc         map[int]codingStyle // per-component override, by component index
	qcd         quantStyle
	qcc         map[int]quantStyle

	tiles []tileData
}

// tileData is one tile-part's raw entropy-coded payload plus the tile
// index it belongs to; SOT's TNsot/TPsot fields are not tracked separately
// since this decoder only supports a single tile-part per tile.
type tileData struct {
	index int
	data  []byte
}

func (d *decoder) readUint16() (int, error) {
	var b [2]byte
	if _, err := d.r.Read(b[:]); err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint16(b[:])), nil
}

func (d *decoder) readMarker() (int, error) {
	var b [2]byte
	n, err := d.r.Read(b[:])
	if err != nil || n < 2 {
		return 0, fmt.Errorf("jp2k: truncated codestream")
	}
	if b[0] != 0xff {
		return 0, fmt.Errorf("jp2k: expected marker, got %#x%#x", b[0], b[1])
	}
	return int(b[1]), nil
}

func (d *decoder) readSegment() ([]byte, error) {
	length, err := d.readUint16()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, length-2)
	if _, err := d.r.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (d *decoder) decode() (image.Image, error) {
	m, err := d.readMarker()
	if err != nil || m != markerSOC {
		return nil, fmt.Errorf("jp2k: missing SOC marker")
	}
	d.coc = map[int]codingStyle{}
	d.qcc = map[int]quantStyle{}

	for {
		m, err := d.readMarker()
		if err != nil {
			return nil, err
		}
		switch m {
		case markerSIZ:
			if err := d.parseSIZ(); err != nil {
				return nil, err
			}
		case markerCOD:
			cod, err := d.parseCOD()
			if err != nil {
				return nil, err
			}
			d.cod = cod
		case markerCOC:
			if err := d.parseCOC(); err != nil {
				return nil, err
			}
		case markerQCD:
			q, err := d.parseQCD()
			if err != nil {
				return nil, err
			}
			d.qcd = q
		case markerQCC:
			if err := d.parseQCC(); err != nil {
				return nil, err
			}
		case markerPOC:
			return nil, fmt.Errorf("%w: POC progression override", ErrUnsupported)
		case markerPPM, markerPLM, markerTLM:
			// packed packet headers / packet-length markers: this decoder
			// reads packet headers inline with packet data instead.
			if _, err := d.readSegment(); err != nil {
				return nil, err
			}
		case markerSOT:
			tile, err := d.parseTilePart()
			if err != nil {
				return nil, err
			}
			d.tiles = append(d.tiles, tile)
		case markerEOC:
			return d.assemble()
		default:
			if _, err := d.readSegment(); err != nil {
				return nil, err
			}
		}
	}
}

func (d *decoder) parseSIZ() error {
	seg, err := d.readSegment()
	if err != nil {
		return err
	}
	if len(seg) < 38 {
		return fmt.Errorf("jp2k: short SIZ")
	}
	s := siz{}
	s.width = int(binary.BigEndian.Uint32(seg[2:6]))
	s.height = int(binary.BigEndian.Uint32(seg[6:10]))
	s.xOsiz = int(binary.BigEndian.Uint32(seg[10:14]))
	s.yOsiz = int(binary.BigEndian.Uint32(seg[14:18]))
	s.xTsiz = int(binary.BigEndian.Uint32(seg[18:22]))
	s.yTsiz = int(binary.BigEndian.Uint32(seg[22:26]))
	s.xTOsiz = int(binary.BigEndian.Uint32(seg[26:30]))
	s.yTOsiz = int(binary.BigEndian.Uint32(seg[30:34]))
	s.numComps = int(binary.BigEndian.Uint16(seg[34:36]))
	off := 36
	for i := 0; i < s.numComps; i++ {
		if off+3 > len(seg) {
			return fmt.Errorf("jp2k: short SIZ component list")
		}
		ssiz := seg[off]
		signed := ssiz&0x80 != 0
		depth := int(ssiz&0x7f) + 1
		s.bitDepth = append(s.bitDepth, depth)
		s.signed = append(s.signed, signed)
		s.xrsiz = append(s.xrsiz, int(seg[off+1]))
		s.yrsiz = append(s.yrsiz, int(seg[off+2]))
		off += 3
	}
	d.siz = s
	return nil
}

func (d *decoder) parseCOD() (codingStyle, error) {
	seg, err := d.readSegment()
	if err != nil {
		return codingStyle{}, err
	}
	if len(seg) < 5 {
		return codingStyle{}, fmt.Errorf("jp2k: short COD")
	}
	scod := seg[0]
	cs := codingStyle{
		progression: int(seg[1]),
		numLayers:   int(binary.BigEndian.Uint16(seg[2:4])),
		mct:         int(seg[4]),
	}
	spcod := seg[5:]
	if len(spcod) < 5 {
		return codingStyle{}, fmt.Errorf("jp2k: short COD SPcod")
	}
	cs.numDecomps = int(spcod[0])
	cs.cbWidthExp = int(spcod[1]) + 2
	cs.cbHeightExp = int(spcod[2]) + 2
	cs.cbStyle = int(spcod[3])
	cs.transform = int(spcod[4])
	if scod&0x01 != 0 {
		// precincts explicitly signalled, one byte per resolution level.
		n := cs.numDecomps + 1
		start := 5
		for i := 0; i < n && start+i < len(spcod); i++ {
			b := spcod[start+i]
			cs.precinctWidthExp = append(cs.precinctWidthExp, int(b&0x0f))
			cs.precinctHeightExp = append(cs.precinctHeightExp, int(b>>4))
		}
	} else {
		cs.precinctWidthExp, cs.precinctHeightExp = defaultPrecincts(cs.numDecomps + 1)
	}
	return cs, nil
}

func (d *decoder) parseCOC() error {
	seg, err := d.readSegment()
	if err != nil {
		return err
	}
	compSizeBytes := 1
	if d.siz.numComps > 256 {
		compSizeBytes = 2
	}
	if len(seg) < compSizeBytes+1 {
		return fmt.Errorf("jp2k: short COC")
	}
	var comp int
	if compSizeBytes == 1 {
		comp = int(seg[0])
	} else {
		comp = int(binary.BigEndian.Uint16(seg[0:2]))
	}
	scoc := seg[compSizeBytes]
	spcoc := seg[compSizeBytes+1:]
	cs := d.cod // inherit progression/layers/mct from the default style
	cs.numDecomps = int(spcoc[0])
	cs.cbWidthExp = int(spcoc[1]) + 2
	cs.cbHeightExp = int(spcoc[2]) + 2
	cs.cbStyle = int(spcoc[3])
	cs.transform = int(spcoc[4])
	if scoc&0x01 != 0 {
		n := cs.numDecomps + 1
		start := 5
		cs.precinctWidthExp = nil
		cs.precinctHeightExp = nil
		for i := 0; i < n && start+i < len(spcoc); i++ {
			b := spcoc[start+i]
			cs.precinctWidthExp = append(cs.precinctWidthExp, int(b&0x0f))
			cs.precinctHeightExp = append(cs.precinctHeightExp, int(b>>4))
		}
	} else {
		cs.precinctWidthExp, cs.precinctHeightExp = defaultPrecincts(cs.numDecomps + 1)
	}
	d.coc[comp] = cs
	return nil
}

func (d *decoder) parseQuantSeg(seg []byte) quantStyle {
	sqcd := seg[0]
	style := int(sqcd & 0x1f)
	guard := int(sqcd >> 5)
	q := quantStyle{style: style, guardBits: guard}
	body := seg[1:]
	switch style {
	case 0: // no quantization: one exponent byte per sub-band
		for i := 0; i < len(body); i++ {
			q.exponents = append(q.exponents, int(body[i]>>3))
			q.mantissas = append(q.mantissas, 0)
		}
	default: // scalar derived (1) or expounded (2): 2 bytes per sub-band
		for i := 0; i+1 < len(body); i += 2 {
			v := binary.BigEndian.Uint16(body[i : i+2])
			q.exponents = append(q.exponents, int(v>>11))
			q.mantissas = append(q.mantissas, int(v&0x7ff))
		}
	}
	return q
}

func (d *decoder) parseQCD() (quantStyle, error) {
	seg, err := d.readSegment()
	if err != nil {
		return quantStyle{}, err
	}
	return d.parseQuantSeg(seg), nil
}

func (d *decoder) parseQCC() error {
	seg, err := d.readSegment()
	if err != nil {
		return err
	}
	compSizeBytes := 1
	if d.siz.numComps > 256 {
		compSizeBytes = 2
	}
	var comp int
	if compSizeBytes == 1 {
		comp = int(seg[0])
	} else {
		comp = int(binary.BigEndian.Uint16(seg[0:2]))
	}
	d.qcc[comp] = d.parseQuantSeg(seg[compSizeBytes:])
	return nil
}

// codingStyleFor returns the effective coding style for a component,
// applying any COC override over the default COD.
func (d *decoder) codingStyleFor(comp int) codingStyle {
	if cs, ok := d.coc[comp]; ok {
		return cs
	}
	return d.cod
}

func (d *decoder) quantStyleFor(comp int) quantStyle {
	if q, ok := d.qcc[comp]; ok {
		return q
	}
	return d.qcd
}

func (d *decoder) parseTilePart() (tileData, error) {
	seg, err := d.readSegment()
	if err != nil {
		return tileData{}, err
	}
	if len(seg) < 8 {
		return tileData{}, fmt.Errorf("jp2k: short SOT")
	}
	tileIndex := int(binary.BigEndian.Uint16(seg[0:2]))
	partLength := int(binary.BigEndian.Uint32(seg[2:6]))

	m, err := d.readMarker()
	if err != nil {
		return tileData{}, err
	}
	for m != markerSOD {
		if _, err := d.readSegment(); err != nil {
			return tileData{}, err
		}
		m, err = d.readMarker()
		if err != nil {
			return tileData{}, err
		}
	}

	// partLength counts from SOT's own length field through the end of the
	// tile-part's data; what's left after SOT+SOD headers is the payload.
	var payload []byte
	if partLength > 0 {
		remaining := partLength - (2 + len(seg)) - 2
		if remaining < 0 {
			remaining = 0
		}
		payload = make([]byte, remaining)
		if _, err := d.r.Read(payload); err != nil {
			return tileData{}, err
		}
	} else {
		// length 0 (or unknown) means "rest of codestream up to EOC".
		rest := make([]byte, d.r.Len())
		if _, err := d.r.Read(rest); err != nil {
			return tileData{}, err
		}
		// trailing EOC, if present, belongs to the outer loop: peel it off.
		if len(rest) >= 2 && rest[len(rest)-2] == 0xff && rest[len(rest)-1] == markerEOC {
			payload = rest[:len(rest)-2]
			d.r.Seek(-2, 1)
		} else {
			payload = rest
		}
	}
	return tileData{index: tileIndex, data: payload}, nil
}
