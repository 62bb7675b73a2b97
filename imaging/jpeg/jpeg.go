// Package jpeg decodes baseline JFIF/Adobe JPEG streams (spec §4.5): the
// format a PDF's /DCTDecode filter hands off whole, rather than bytes this
// module's generic filter pipeline can decode itself (reader/parser/
// filters/dctDecode.go only locates the stream's end, it never decodes the
// entropy-coded data). Grounded on `dlecorfec-progjpeg`, a fork of Go's
// standard `image/jpeg` trimmed here to the same baseline-only subset: no
// progressive (SOF2) or lossless scans, matching spec §9(c)'s instruction
// to treat those as UnsupportedFeature rather than degrade silently.
package jpeg

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
)

// marker byte values (segments are 0xFFxx).
const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOF0 = 0xC0
	markerSOF1 = 0xC1
	markerSOF2 = 0xC2
	markerSOF3 = 0xC3
	markerDHT  = 0xC4
	markerDQT  = 0xDB
	markerDRI  = 0xDD
	markerSOS  = 0xDA
	markerRST0 = 0xD0
	markerRST7 = 0xD7
	markerAPP0 = 0xE0
	markerAPP14 = 0xEE
	markerCOM  = 0xFE
)

// ErrUnsupported flags a structurally valid but unsupported JPEG, per
// spec §9(c): progressive/lossless frames are never silently degraded.
var ErrUnsupported = errors.New("jpeg: unsupported feature")

// component describes one SOF component (Table B.2).
type component struct {
	id        byte
	h, v      int // sampling factors
	quantID   byte
	dcTableID byte
	acTableID byte
	dcPred    int32
}

// adobeTransform mirrors APP14's transform byte. The decoder records whether
// an APP14 segment was seen in adobeSeen; it never stores transformUnknown.
type adobeTransform int

const (
	transformUnknown adobeTransform = -1
	transformUnknown0 adobeTransform = 0
	transformYCbCr   adobeTransform = 1
	transformYCCK    adobeTransform = 2
)

type decoder struct {
	r   *bufio.Reader
	buf [65536]byte

	width, height int
	comps         []component
	quant         [4][64]int32 // dequant tables, zigzag order
	huffDC        [4]*huffTable
	huffAC        [4]*huffTable
	restartInterval int

	adobeTransform adobeTransform
	adobeSeen      bool
	jfifSeen       bool

	progressive bool
}

// Decode parses a baseline JPEG stream and returns the converted RGB(A)/
// gray/CMYK image, the same error taxonomy boundary (spec §7) every other
// codec in this module uses: malformed markers or tables are reported, not
// papered over with a best guess.
func Decode(r io.Reader) (image.Image, error) {
	d := &decoder{r: bufio.NewReaderSize(r, 32<<10)}
	return d.decode()
}

func (d *decoder) readFull(p []byte) error {
	_, err := io.ReadFull(d.r, p)
	return err
}

func (d *decoder) readMarker() (byte, error) {
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return 0, err
		}
		if b != 0xFF {
			continue
		}
		for {
			b, err = d.r.ReadByte()
			if err != nil {
				return 0, err
			}
			if b != 0xFF {
				break
			}
		}
		if b == 0x00 {
			continue // stuffed byte outside entropy data, ignore
		}
		return b, nil
	}
}

func (d *decoder) readSegment() ([]byte, error) {
	var lenBuf [2]byte
	if err := d.readFull(lenBuf[:]); err != nil {
		return nil, err
	}
	n := int(lenBuf[0])<<8 | int(lenBuf[1])
	if n < 2 {
		return nil, fmt.Errorf("jpeg: invalid segment length %d", n)
	}
	buf := make([]byte, n-2)
	if err := d.readFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (d *decoder) decode() (image.Image, error) {
	m, err := d.readMarker()
	if err != nil {
		return nil, err
	}
	if m != markerSOI {
		return nil, fmt.Errorf("jpeg: missing SOI marker")
	}

	for {
		m, err := d.readMarker()
		if err != nil {
			return nil, err
		}
		switch {
		case m == markerSOF0 || m == markerSOF1:
			if err := d.processSOF(); err != nil {
				return nil, err
			}
		case m == markerSOF2 || m == markerSOF3:
			return nil, fmt.Errorf("%w: progressive/lossless JPEG (SOF%d)", ErrUnsupported, m-markerSOF0)
		case m == markerDHT:
			if err := d.processDHT(); err != nil {
				return nil, err
			}
		case m == markerDQT:
			if err := d.processDQT(); err != nil {
				return nil, err
			}
		case m == markerDRI:
			if err := d.processDRI(); err != nil {
				return nil, err
			}
		case m == markerAPP0:
			if err := d.processAPP0(); err != nil {
				return nil, err
			}
		case m == markerAPP14:
			if err := d.processAPP14(); err != nil {
				return nil, err
			}
		case m == markerSOS:
			img, err := d.processSOS()
			if err != nil {
				return nil, err
			}
			return img, nil
		case m == markerEOI:
			return nil, fmt.Errorf("jpeg: EOI before SOS")
		case m >= markerRST0 && m <= markerRST7:
			// stray restart marker outside a scan: skip
		default:
			seg, err := d.readSegment()
			if err != nil {
				return nil, err
			}
			_ = seg // APPn/COM and anything else we don't special-case
		}
	}
}

func (d *decoder) processSOF() error {
	seg, err := d.readSegment()
	if err != nil {
		return err
	}
	if len(seg) < 6 {
		return fmt.Errorf("jpeg: short SOF segment")
	}
	precision := seg[0]
	if precision != 8 {
		return fmt.Errorf("%w: %d-bit JPEG precision", ErrUnsupported, precision)
	}
	d.height = int(seg[1])<<8 | int(seg[2])
	d.width = int(seg[3])<<8 | int(seg[4])
	nComp := int(seg[5])
	if nComp < 1 || nComp > 4 {
		return fmt.Errorf("jpeg: invalid component count %d", nComp)
	}
	if len(seg) < 6+3*nComp {
		return fmt.Errorf("jpeg: short SOF component list")
	}
	d.comps = make([]component, nComp)
	for i := 0; i < nComp; i++ {
		b := seg[6+3*i:]
		d.comps[i] = component{
			id:      b[0],
			h:       int(b[1] >> 4),
			v:       int(b[1] & 0x0f),
			quantID: b[2],
		}
		if d.comps[i].h < 1 || d.comps[i].h > 4 || d.comps[i].v < 1 || d.comps[i].v > 4 {
			return fmt.Errorf("jpeg: invalid sampling factor")
		}
	}
	return nil
}

func (d *decoder) processDQT() error {
	seg, err := d.readSegment()
	if err != nil {
		return err
	}
	for len(seg) > 0 {
		pq := seg[0] >> 4
		tq := seg[0] & 0x0f
		seg = seg[1:]
		if tq > 3 {
			return fmt.Errorf("jpeg: invalid quant table id")
		}
		var table [64]int32
		if pq == 0 {
			if len(seg) < 64 {
				return fmt.Errorf("jpeg: short DQT")
			}
			for i := 0; i < 64; i++ {
				table[i] = int32(seg[i])
			}
			seg = seg[64:]
		} else {
			if len(seg) < 128 {
				return fmt.Errorf("jpeg: short DQT")
			}
			for i := 0; i < 64; i++ {
				table[i] = int32(seg[2*i])<<8 | int32(seg[2*i+1])
			}
			seg = seg[128:]
		}
		d.quant[tq] = table
	}
	return nil
}

func (d *decoder) processDRI() error {
	seg, err := d.readSegment()
	if err != nil {
		return err
	}
	if len(seg) < 2 {
		return fmt.Errorf("jpeg: short DRI")
	}
	d.restartInterval = int(seg[0])<<8 | int(seg[1])
	return nil
}

func (d *decoder) processAPP0() error {
	seg, err := d.readSegment()
	if err != nil {
		return err
	}
	if len(seg) >= 5 && string(seg[:5]) == "JFIF\x00" {
		d.jfifSeen = true
	}
	return nil
}

func (d *decoder) processAPP14() error {
	seg, err := d.readSegment()
	if err != nil {
		return err
	}
	if len(seg) >= 12 && string(seg[:5]) == "Adobe" {
		d.adobeSeen = true
		d.adobeTransform = adobeTransform(seg[11])
	}
	return nil
}
