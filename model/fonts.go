package model

// Font is a PDF font dictionnary
type Font struct {
	Subtype   FontType
	ToUnicode *UnicodeCMap // optional, maps character codes to Unicode for text extraction
}

// FontDict is an alias kept for readability at call sites that build a
// font's rendering metrics from its resolved dictionary (see package fonts).
type FontDict = Font

type FontType interface {
	isFontType()
}

// FontSimple is implemented by the three single-byte font subtypes: a
// simple font maps each one-byte character code directly to a glyph,
// as opposed to Type0's multi-byte codes resolved through a CMap.
type FontSimple interface {
	FontType
	isFontSimple()
}

// Type0 is a composite font: character codes (one to four bytes) are
// mapped to CIDs by Encoding, then to glyphs by the descendant CIDFont.
type Type0 struct {
	Encoding        CMapEncoding // predefined CMap name, or an embedded CMap stream
	DescendantFonts CIDFontDict  // PDF allows an array but constrains it to a single element
}

// CMapEncoding is either the name of a predefined CMap or an embedded CMap
// stream (table 118).
type CMapEncoding interface {
	isCMapEncoding()
}

type CMapEncodingPredefined Name

func (CMapEncodingPredefined) isCMapEncoding() {}

// CMapEncodingEmbedded is an embedded CMap stream, optionally extending
// another CMap named by UseCMap.
type CMapEncodingEmbedded struct {
	Stream
	UseCMap CMapEncoding // optional
}

func (*CMapEncodingEmbedded) isCMapEncoding() {}

// CIDFontDict is the single descendant font of a Type0 font (table 117).
type CIDFontDict struct {
	Subtype        Name // CIDFontType0 or CIDFontType2
	CIDSystemInfo  CIDSystemInfo
	FontDescriptor FontDescriptor
	DW             float64          // default glyph width, defaults to 1000 when zero
	W              map[CID]float64 // sparse per-CID widths, overriding DW
}

// UnicodeCMap is a ToUnicode CMap stream (9.10.3): a embedded stream mapping
// character codes (here already resolved to CIDs by the caller) to Unicode
// sequences, optionally extending a base CMap.
type UnicodeCMap struct {
	Stream
	UseCMap UnicodeCMapUse // optional
}

// UnicodeCMapUse is either another embedded UnicodeCMap or the name of a
// predefined one.
type UnicodeCMapUse interface {
	isUnicodeCMapUse()
}

type UnicodeCMapBasePredefined Name

func (UnicodeCMapBasePredefined) isUnicodeCMapUse() {}
func (UnicodeCMap) isUnicodeCMapUse()               {}

type Type1 struct {
	BaseFont            Name
	FirstChar, LastChar byte
	Widths              []float64 // length (LastChar − FirstChar + 1) index i is char FirstChar + i
	FontDescriptor      FontDescriptor
	Encoding            Encoding // optional
}
type TrueType Type1

// FontType1 and FontTrueType name the simple-font subtypes the way the
// `fonts` package's BuildFont switches over them; they are the same types
// as Type1 and TrueType, just spelled out for that call site.
type FontType1 = Type1
type FontTrueType = TrueType

type Type3 struct {
	FontBBox            Rectangle
	FontMatrix          Matrix
	CharProcs           map[Name]ContentStream
	Encoding            Encoding
	FirstChar, LastChar byte
	Widths              []float64 // length (LastChar − FirstChar + 1) index i is char FirstChar + i
	FontDescriptor      *FontDescriptor // optional: built from FontBBox when absent
	Resources           ResourcesDict
}

type FontType3 = Type3
type FontType0 = Type0

func (Type0) isFontType()    {}
func (Type1) isFontType()    {}
func (Type3) isFontType()    {}
func (TrueType) isFontType() {}

func (Type1) isFontSimple()    {}
func (Type3) isFontSimple()    {}
func (TrueType) isFontSimple() {}

type FontFlag uint32

const (
	FixedPitch  FontFlag = 1
	Serif       FontFlag = 1 << 2
	Symbolic    FontFlag = 1 << 3
	Script      FontFlag = 1 << 4
	Nonsymbolic FontFlag = 1 << 6
	Italic      FontFlag = 1 << 7
	AllCap      FontFlag = 1 << 17
	SmallCap    FontFlag = 1 << 18
	ForceBold   FontFlag = 1 << 19
)

type FontDescriptor struct {
	FontName        Name
	Flags           FontFlag
	FontBBox        Rectangle
	ItalicAngle     int
	Ascent, Descent float64
	Leading         float64
	CapHeight       float64
	XHeight         float64
	StemV, StemH    float64
	AvgWidth        float64
	MaxWidth        float64
	MissingWidth    float64
	FontFile        *FontFile // optional, embedded program (FontFile/FontFile2/FontFile3)
}

// FontFile is an embedded font program: Type1 (plain or PFB-wrapped),
// TrueType, or Type1C/CIDFontType0C/OpenType (compact, in Subtype).
type FontFile struct {
	Stream
	Subtype Name // empty for FontFile/FontFile2, "Type1C", "CIDFontType0C" or "OpenType" for FontFile3
}

type Encoding interface {
	isEncoding()
}

// SimpleEncoding is the Encoding entry of a simple (single-byte) font: it
// aliases Encoding since, for PDF's purposes, only simple fonts carry one.
type SimpleEncoding = Encoding

func (PredefinedEncoding) isEncoding() {}

type PredefinedEncoding Name

// SimpleEncodingPredefined names a base encoding understood by name, with
// no Differences array.
type SimpleEncodingPredefined = PredefinedEncoding

const (
	MacRomanEncoding  PredefinedEncoding = "MacRomanEncoding"
	MacExpertEncoding PredefinedEncoding = "MacExpertEncoding"
	WinAnsiEncoding   PredefinedEncoding = "WinAnsiEncoding"
)

func (*EncodingDict) isEncoding() {}

// SimpleEncodingDict is an Encoding dictionary overriding a base encoding
// with a Differences array (table 114).
type SimpleEncodingDict = EncodingDict

// Differences describes the differences from the encoding specified by BaseEncoding
// It is written in a PDF file as a more condensed form: it's an array:
// 	[ code1, name1_1, name1_2, code2, name2_1, name2_2, name2_3 ... ]
type Differences map[byte]Name

// Apply overlays the differences on top of a base encoding's 256 glyph
// names, returning a new array.
func (d Differences) Apply(base [256]string) [256]string {
	out := base
	for code, name := range d {
		out[code] = string(name)
	}
	return out
}

type EncodingDict struct {
	BaseEncoding Name        // optionnal
	Differences  Differences // optionnal
}
