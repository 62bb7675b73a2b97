package filters

import (
	"bufio"
	"io"

	"github.com/benoitkugler/pdf/reader/parser/filters/ccitt"
)

type SkipperCCITT struct {
	Params ccitt.CCITTParams
}

// Skip implements Skipper for a CCITT filter.
func (f SkipperCCITT) Skip(encoded io.Reader) (int, error) {
	r := newCountReader(encoded)
	rc, err := ccitt.NewReader(r, f.Params)
	if err != nil {
		return 0, err
	}
	_, err = io.ReadAll(rc)
	return r.totalRead, err
}

func ccittDecoder(params ccitt.CCITTParams, src io.Reader) (io.Reader, error) {
	return ccitt.NewReader(bufio.NewReader(src), params)
}

// ccittParamsFromMap builds CCITT decode parameters from the generic
// DecodeParms representation used across this package, applying the
// ISO 32000 Table 11 defaults for the entries that are absent.
func ccittParamsFromMap(params map[string]int) ccitt.CCITTParams {
	cols := 1728
	if c, ok := params["Columns"]; ok {
		cols = c
	}
	endOfBlock := true
	if v, has := params["EndOfBlock"]; has && v != 1 {
		endOfBlock = false
	}
	return ccitt.CCITTParams{
		Encoding:   int32(params["K"]),
		Columns:    int32(cols),
		Rows:       int32(params["Rows"]),
		EndOfBlock: endOfBlock,
		EndOfLine:  params["EndOfLine"] == 1,
		Black:      params["BlackIs1"] == 1,
		ByteAlign:  params["EncodedByteAlign"] == 1,
	}
}
