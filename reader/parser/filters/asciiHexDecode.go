package filters

import (
	"bytes"
	"encoding/hex"
	"io"
	"io/ioutil"
)

type SkipperAsciiHex struct{}

const eodHexDecode = '>'

// Skip implements Skipper for an ASCIIHexDecode filter.
func (f SkipperAsciiHex) Skip(encoded io.Reader) (int, error) {
	// we make sure not to read passed EOD
	origin := newCountReader(encoded)
	r := newReacher(origin, []byte{eodHexDecode})
	_, err := ioutil.ReadAll(r)
	return origin.totalRead, err
}

// decodeASCIIHex reads up to and including the ">" marker and returns the
// decoded bytes, tolerating whitespace and an odd trailing digit (padded
// with an implicit 0, per ISO 32000 7.4.2).
func decodeASCIIHex(src io.Reader) (io.Reader, error) {
	origin := newCountReader(src)
	r := newReacher(origin, []byte{eodHexDecode})
	encoded, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	encoded = bytes.TrimSuffix(encoded, []byte{eodHexDecode})
	digits := make([]byte, 0, len(encoded))
	for _, c := range encoded {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
			digits = append(digits, c)
		}
	}
	if len(digits)%2 != 0 {
		digits = append(digits, '0')
	}
	decoded := make([]byte, hex.DecodedLen(len(digits)))
	n, err := hex.Decode(decoded, digits)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(decoded[:n]), nil
}
