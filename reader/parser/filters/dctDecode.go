package filters

import (
	"errors"
	"io"
)

// SkipperDCT locates the end of a DCTDecode (baseline JPEG) stream by
// walking its marker segments, the way a JPEG decoder would, rather than
// scanning for a literal 0xFFD9: entropy-coded scan data byte-stuffs every
// literal 0xFF with a following 0x00, so any unstuffed 0xFF starts a real
// marker.
type SkipperDCT struct{}

const (
	jpegMarkerPrefix = 0xFF
	jpegSOI          = 0xD8
	jpegEOI          = 0xD9
)

// markers that carry no length-prefixed payload
func jpegStandaloneMarker(m byte) bool {
	return m == 0x01 || (m >= 0xD0 && m <= 0xD9)
}

// Skip implements Skipper for a DCTDecode filter.
func (f SkipperDCT) Skip(encoded io.Reader) (int, error) {
	r := newCountReader(encoded)

	if err := expectMarker(r, jpegSOI); err != nil {
		return 0, err
	}

	for {
		b, err := r.ReadByte()
		if err != nil {
			return r.totalRead, unexpectedEOF(err)
		}
		if b != jpegMarkerPrefix {
			continue // padding byte (0xFF fill or stray byte) between segments
		}
		marker, err := readMarkerByte(r)
		if err != nil {
			return r.totalRead, err
		}
		if marker == jpegEOI {
			return r.totalRead, nil
		}
		if jpegStandaloneMarker(marker) {
			continue
		}
		length, err := readUint16(r)
		if err != nil {
			return r.totalRead, unexpectedEOF(err)
		}
		if length < 2 {
			return r.totalRead, errors.New("invalid JPEG segment length")
		}
		if err := discard(r, int(length)-2); err != nil {
			return r.totalRead, unexpectedEOF(err)
		}
		if marker == 0xDA { // start of scan: entropy-coded data follows
			if err := skipEntropyData(r); err != nil {
				return r.totalRead, unexpectedEOF(err)
			}
		}
	}
}

func expectMarker(r *countReader, want byte) error {
	prefix, err := r.ReadByte()
	if err != nil {
		return unexpectedEOF(err)
	}
	marker, err := r.ReadByte()
	if err != nil {
		return unexpectedEOF(err)
	}
	if prefix != jpegMarkerPrefix || marker != want {
		return errors.New("missing JPEG start marker")
	}
	return nil
}

// readMarkerByte consumes 0xFF fill bytes that may precede a marker code.
func readMarkerByte(r *countReader) (byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, unexpectedEOF(err)
		}
		if b != jpegMarkerPrefix {
			return b, nil
		}
	}
}

func readUint16(r *countReader) (uint16, error) {
	hi, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	lo, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

func discard(r *countReader, n int) error {
	buf := make([]byte, 4096)
	for n > 0 {
		k := n
		if k > len(buf) {
			k = len(buf)
		}
		read, err := io.ReadFull(r, buf[:k])
		n -= read
		if err != nil {
			return err
		}
	}
	return nil
}

// skipEntropyData advances past Huffman-coded scan data until it finds the
// next unstuffed marker, then rewinds so the caller reads it normally.
func skipEntropyData(r *countReader) error {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		if b != jpegMarkerPrefix {
			continue
		}
		next, err := r.ReadByte()
		if err != nil {
			return err
		}
		if next == 0x00 || (next >= 0xD0 && next <= 0xD7) {
			// stuffed 0xFF, or a restart marker: still entropy data
			continue
		}
		// real marker: push it back so the caller's loop re-reads it
		r.pushback = []byte{jpegMarkerPrefix, next}
		return nil
	}
}
