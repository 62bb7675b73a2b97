// Package filters provide logic to handle binary
// data encoded with PDF filters, such as inline data images.
// Regular stream objects provide a Length information, but inline data images don't,
// which requires to detect the End of Data marker, which depends on the filter.
// This package only parse encoded content. See pdfcpu/filter for an alternative
// to also encode data.
package filters

import (
	"fmt"
	"io"
)

// PDF defines the following filters. See also 7.4 in the PDF spec,
// and 8.9.7 - Inline Images
const (
	ASCII85   = "ASCII85Decode"
	ASCIIHex  = "ASCIIHexDecode"
	RunLength = "RunLengthDecode"
	LZW       = "LZWDecode"
	Flate     = "FlateDecode"
	DCT       = "DCTDecode"
	CCITTFax  = "CCITTFaxDecode"
	JBIG2     = "JBIG2Decode"
	JPX       = "JPXDecode"
)

// Skipper reads the input data and stop exactly after
// the EOD marker. It returns the number of bytes read (including EOD).
// Since some filters take additional parameters, skippers should
// be directly created by their concrete types, but this interface is exposed as a
// convenience.
type Skipper interface {
	Skip(io.Reader) (int, error)
}

// Decode returns a reader producing the bytes obtained by applying the
// filter `name` (one of the constants above) to `src`.
//
// DCTDecode and JPXDecode are left untouched: the compressed image data
// is handed as-is to the dedicated image codec, which needs the full
// marker stream rather than a plain byte decode.
func Decode(name string, params map[string]int, src io.Reader) (io.Reader, error) {
	switch name {
	case ASCII85:
		return decodeASCII85(src)
	case ASCIIHex:
		return decodeASCIIHex(src)
	case RunLength:
		return decodeRunLength(src)
	case Flate:
		p, err := processFlateParams(params)
		if err != nil {
			return nil, err
		}
		return flateDecoder(p, src)
	case LZW:
		earlyChange := true
		if ec, ok := params["EarlyChange"]; ok && ec == 0 {
			earlyChange = false
		}
		return lzwDecoder(earlyChange, src), nil
	case CCITTFax:
		return ccittDecoder(ccittParamsFromMap(params), src)
	case DCT, JPX:
		return src, nil
	default:
		return nil, fmt.Errorf("unsupported filter: %s", name)
	}
}
