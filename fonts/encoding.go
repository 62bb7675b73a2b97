package fonts

import (
	"bytes"
	"log"

	"github.com/benoitkugler/pdf/fonts/simpleencodings"
	"github.com/benoitkugler/pdf/fonts/type1"
	type1c "github.com/benoitkugler/pdf/fonts/type1C"
	"github.com/benoitkugler/pdf/model"
)

// We follow here the logic from poppler, which itself is based on the PDF spec.
// Encodings start with a base encoding, which can come from
// (in order of priority):
//   1. FontDict.Encoding or FontDict.Encoding.BaseEncoding
//        - MacRoman / MacExpert / WinAnsi / Standard
//   2. embedded font file (Type1 only)
//   3. default:
//        - TrueType --> WinAnsiEncoding
//        - others --> StandardEncoding
// and then add a list of differences (if any) from
// FontDict.Encoding.Differences.
//
// BuildFont uses this byte-to-glyph-name table to build the font's
// rune-to-byte map, and, for a font that omits its Widths array, to build
// one from standard-14 metrics (see fallbackWidths): rendering itself only
// needs the Widths array indexed by raw character code, never the glyph name.
func resolveSimpleEncoding(subtype model.FontSimple) [256]string {
	var (
		enc  model.Encoding
		desc model.FontDescriptor
	)
	isTrueType := false
	switch ft := subtype.(type) {
	case model.Type1:
		enc, desc = ft.Encoding, ft.FontDescriptor
	case model.TrueType:
		enc, desc = ft.Encoding, ft.FontDescriptor
		isTrueType = true
	case model.Type3:
		enc = ft.Encoding
		if ft.FontDescriptor != nil {
			desc = *ft.FontDescriptor
		}
	}

	var baseEnc *simpleencodings.Encoding
	if predefEnc, ok := enc.(model.SimpleEncodingPredefined); ok {
		// the font dict overrides the font builtin encoding
		baseEnc = simpleencodings.PredefinedEncodings[predefEnc]
	} else if encDict, ok := enc.(*model.SimpleEncodingDict); ok && encDict.BaseEncoding != "" {
		baseEnc = simpleencodings.PredefinedEncodings[model.PredefinedEncoding(encDict.BaseEncoding)]
	} else if !isTrueType {
		// check embedded font file for base encoding (Type1 only: trying to
		// get an encoding out of a TrueType font is a losing proposition)
		baseEnc = builtinType1Encoding(desc)
	}

	if baseEnc == nil { // get default base encoding
		if isTrueType {
			baseEnc = &simpleencodings.WinAnsi
		} else {
			baseEnc = &simpleencodings.Standard
		}
	}

	// merge differences into encoding
	if encDict, ok := enc.(*model.SimpleEncodingDict); ok {
		return encDict.Differences.Apply(baseEnc.Names)
	}
	return baseEnc.Names
}

// try to read the embedded font file and return the font builtin
// encoding. If the descriptor has no embedded file or an error occurs,
// default to Standard.
func builtinType1Encoding(desc model.FontDescriptor) *simpleencodings.Encoding {
	// special case for two standard fonts where we dont need to read the font file
	if desc.FontName == "ZapfDingbats" {
		return &simpleencodings.ZapfDingbats
	} else if desc.FontName == "Symbol" {
		return &simpleencodings.Symbol
	}

	if desc.FontFile == nil {
		return &simpleencodings.Standard
	}
	content, err := desc.FontFile.Decode()
	if err != nil {
		log.Printf("unable to decode embedded font file: %s\n", err)
		return &simpleencodings.Standard
	}
	if desc.FontFile.Subtype == "Type1C" {
		enc, err := type1c.ParseEncoding(bytes.NewReader(content))
		if err != nil {
			log.Printf("invalid Type1C embedded font file: %s\n", err)
			return &simpleencodings.Standard
		}
		return enc
	}
	enc, err := type1.ParseEncoding(bytes.NewReader(content))
	if err != nil {
		log.Printf("invalid Type1 embedded font file: %s\n", err)
		return &simpleencodings.Standard
	}
	if enc == nil { // no /Encoding entry in the font program
		return &simpleencodings.Standard
	}
	return enc
}
