package model

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/benoitkugler/pdf/reader/parser/filters"
)

const (
	ASCII85   Name = "ASCII85Decode"
	ASCIIHex  Name = "ASCIIHexDecode"
	RunLength Name = "RunLengthDecode"
	LZW       Name = "LZWDecode"
	Flate     Name = "FlateDecode"
	CCITTFax  Name = "CCITTFaxDecode"
	JBIG2     Name = "JBIG2Decode"
	DCT       Name = "DCTDecode"
	JPX       Name = "JPXDecode"
)

// Filter is one entry of a stream's /Filter pipeline, together with its
// associated /DecodeParms dictionary (boolean values stored as 0 or 1).
type Filter struct {
	Name        Name
	DecodeParms map[string]int
}

// Filters is the (possibly empty) ordered pipeline applied to a stream's
// raw bytes, as found in /Filter and /DecodeParms.
type Filters []Filter

// DecodeReader applies every filter in the pipeline, in order, to `r`.
// DCTDecode and JPXDecode are passed through unchanged: the compressed
// image bytes are handed to the image codecs rather than decoded here.
func (fs Filters) DecodeReader(r io.Reader) (io.Reader, error) {
	var err error
	for _, f := range fs {
		r, err = filters.Decode(string(f.Name), f.DecodeParms, r)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", f.Name, err)
		}
	}
	return r, nil
}

// Decode fully decodes `content` (an already-extracted encoded stream
// body) and returns the resulting bytes.
func (fs Filters) Decode(content []byte) ([]byte, error) {
	r, err := fs.DecodeReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	return ioutil.ReadAll(r)
}

// Stream is the pair (filter pipeline, possibly filtered content) shared
// by every PDF object carrying binary data: content streams, XObjects,
// embedded files and inline images.
type Stream struct {
	Filter  Filters
	Content []byte // as read from the file, not decoded
}

// Decode returns the fully decoded content of the stream.
func (s Stream) Decode() ([]byte, error) {
	return s.Filter.Decode(s.Content)
}

func (s Stream) Length() int { return len(s.Content) }

// ContentStream is a decoded content stream (/Contents of a page, or the
// body of a Form XObject / Type3 glyph procedure): once parsed, it is of
// no use to keep the raw filtered bytes around.
type ContentStream struct {
	Stream
}
