// Package jp2k decodes JPEG 2000 images (spec §4.6): the format a PDF's
// /JPXDecode filter hands off whole, exactly as /DCTDecode does for
// imaging/jpeg (reader/parser/filters/filters.go never decodes JPX content,
// it only passes it through). Scope is deliberately narrower than the full
// ISO/IEC 15444-1 standard: single quality layer per precinct (SNR
// progressive multi-layer decode is, as recorded in DESIGN.md, out of
// reasonable scope for a from-scratch implementation), the 5-3 reversible
// and 9-7 irreversible wavelet transforms, and the reversible/irreversible
// multi-component transform. Grounded on `mrjoshuak-go-jpeg2000`'s package
// shape and `cocosip-go-dicom-codec`'s Tier-1 decoder (other_examples/).
package jp2k

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"io/ioutil"
)

// ErrUnsupported flags a structurally valid but unsupported codestream
// feature (multiple quality layers beyond the first, non-default
// progression orders with POC overrides, the bypass code-block style),
// mirroring imaging/jpeg's ErrUnsupported boundary (spec §9(c)). RGN
// (ROI shifting) segments are not flagged: they are skipped, and the
// coefficients are decoded without the ROI shift.
var ErrUnsupported = errors.New("jp2k: unsupported feature")

var jp2Signature = []byte{0x00, 0x00, 0x00, 0x0c, 'j', 'P', ' ', ' ', 0x0d, 0x0a, 0x87, 0x0a}

// Decode reads a JP2-boxed or raw J2K codestream image and returns the
// decoded image.Image.
func Decode(r io.Reader) (image.Image, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	codestream := data
	switch {
	case len(data) >= 12 && bytes.Equal(data[:12], jp2Signature):
		cs, err := extractCodestream(data)
		if err != nil {
			return nil, err
		}
		codestream = cs
	case len(data) >= 2 && data[0] == 0xff && data[1] == markerSOC:
		// raw codestream, used as-is.
	default:
		return nil, fmt.Errorf("jp2k: not a JP2 or J2K stream")
	}
	d := &decoder{r: bytes.NewReader(codestream)}
	return d.decode()
}

// box is one top-level JP2 container box (ISO/IEC 15444-1 Annex I).
type box struct {
	typ     [4]byte
	content []byte
}

// extractCodestream walks the JP2 box structure down to jp2h/jp2c,
// returning the raw codestream held by the jp2c box. Only the boxes this
// decoder needs are inspected; unknown boxes are skipped by length.
func extractCodestream(data []byte) ([]byte, error) {
	r := bytes.NewReader(data)
	for {
		b, err := readBox(r)
		// a box whose length field is 0 (ISO/IEC 15444-1 I.4: "box
		// extends to the end of file") reports io.EOF alongside its
		// content, so the type must still be checked before breaking.
		if err != nil && err != io.EOF {
			return nil, err
		}
		if string(b.typ[:]) == "jp2c" {
			return b.content, nil
		}
		if err == io.EOF {
			break
		}
	}
	return nil, fmt.Errorf("jp2k: no jp2c box found")
}

func readBox(r *bytes.Reader) (box, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return box{}, err
	}
	length := binary.BigEndian.Uint32(hdr[:4])
	var b box
	copy(b.typ[:], hdr[4:8])
	switch length {
	case 0:
		rest, err := ioutil.ReadAll(r)
		if err != nil {
			return box{}, err
		}
		b.content = rest
		return b, io.EOF
	case 1:
		var ext [8]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			return box{}, err
		}
		n := binary.BigEndian.Uint64(ext[:]) - 16
		b.content = make([]byte, n)
		_, err := io.ReadFull(r, b.content)
		return b, err
	default:
		b.content = make([]byte, length-8)
		_, err := io.ReadFull(r, b.content)
		return b, err
	}
}
