package filters

import (
	"bytes"
	"encoding/ascii85"
	"io"
	"io/ioutil"
)

type SkipperAscii85 struct{}

const eodASCII85 = "~>"

// Skip implements Skipper for an ASCII85Decode filter.
func (f SkipperAscii85) Skip(encoded io.Reader) (int, error) {
	// we make sure not to read passed EOD
	origin := newCountReader(encoded)
	r := newReacher(origin, []byte(eodASCII85))
	_, err := ioutil.ReadAll(r)
	return origin.totalRead, err
}

// decodeASCII85 reads up to and including the "~>" marker and returns the
// decoded bytes. PDF's ASCII85Decode uses the same alphabet and "z"
// shortcut as Adobe's, which matches the standard library's
// encoding/ascii85.
func decodeASCII85(src io.Reader) (io.Reader, error) {
	origin := newCountReader(src)
	r := newReacher(origin, []byte(eodASCII85))
	encoded, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	encoded = bytes.TrimSuffix(encoded, []byte(eodASCII85))
	encoded = bytes.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n', '\f', '\v':
			return -1
		}
		return r
	}, encoded)
	decoded := make([]byte, len(encoded)) // generous upper bound
	n, _, err := ascii85.Decode(decoded, encoded, true)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(decoded[:n]), nil
}
