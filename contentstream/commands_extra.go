package contentstream

import (
	"bytes"
	"fmt"

	"github.com/benoitkugler/pdf/model"
)

type bytesBuffer = bytes.Buffer

// the remaining path, painting, text and graphics-state operators,
// kept in their own file since they were not needed by the writer
// side of this package until the interpreter required the full
// operator surface described in ISO 32000 8.2 and 9.2.

// c
type OpCubicTo struct {
	X1, Y1, X2, Y2, X3, Y3 Fl
}

func (o OpCubicTo) Add(out *bytesBuffer) {
	fmt.Fprintf(out, "%.3f %.3f %.3f %.3f %.3f %.3f c", o.X1, o.Y1, o.X2, o.Y2, o.X3, o.Y3)
}

// v : first control point coincides with the current point
type OpCurveTo1 struct {
	X2, Y2, X3, Y3 Fl
}

func (o OpCurveTo1) Add(out *bytesBuffer) {
	fmt.Fprintf(out, "%.3f %.3f %.3f %.3f v", o.X2, o.Y2, o.X3, o.Y3)
}

// y : second control point coincides with the final point
type OpCurveTo struct {
	X1, Y1, X3, Y3 Fl
}

func (o OpCurveTo) Add(out *bytesBuffer) {
	fmt.Fprintf(out, "%.3f %.3f %.3f %.3f y", o.X1, o.Y1, o.X3, o.Y3)
}

// h
type OpClosePath struct{}

func (o OpClosePath) Add(out *bytesBuffer) { out.WriteByte('h') }

// cm : the new matrix is concatenated with (applied before) the CTM
type OpConcat struct {
	Matrix model.Matrix
}

func (o OpConcat) Add(out *bytesBuffer) {
	fmt.Fprintf(out, "%.3f %.3f %.3f %.3f %.3f %.3f cm",
		o.Matrix[0], o.Matrix[1], o.Matrix[2], o.Matrix[3], o.Matrix[4], o.Matrix[5])
}

// B
type OpFillStroke struct{}

func (o OpFillStroke) Add(out *bytesBuffer) { out.WriteByte('B') }

// B*
type OpEOFillStroke struct{}

func (o OpEOFillStroke) Add(out *bytesBuffer) { out.WriteString("B*") }

// b
type OpCloseFillStroke struct{}

func (o OpCloseFillStroke) Add(out *bytesBuffer) { out.WriteByte('b') }

// b*
type OpCloseEOFillStroke struct{}

func (o OpCloseEOFillStroke) Add(out *bytesBuffer) { out.WriteString("b*") }

// s
type OpCloseStroke struct{}

func (o OpCloseStroke) Add(out *bytesBuffer) { out.WriteByte('s') }

// f*
type OpEOFill struct{}

func (o OpEOFill) Add(out *bytesBuffer) { out.WriteString("f*") }

// W*
type OpEOClip struct{}

func (o OpEOClip) Add(out *bytesBuffer) { out.WriteString("W*") }

// J
type OpSetLineCap struct {
	Style uint8 // 0 butt, 1 round, 2 square
}

func (o OpSetLineCap) Add(out *bytesBuffer) { fmt.Fprintf(out, "%d J", o.Style) }

// j
type OpSetLineJoin struct {
	Style uint8 // 0 miter, 1 round, 2 bevel
}

func (o OpSetLineJoin) Add(out *bytesBuffer) { fmt.Fprintf(out, "%d j", o.Style) }

// M
type OpSetMiterLimit struct {
	Limit Fl
}

func (o OpSetMiterLimit) Add(out *bytesBuffer) { fmt.Fprintf(out, "%.3f M", o.Limit) }

// i
type OpSetFlat struct {
	Flatness Fl
}

func (o OpSetFlat) Add(out *bytesBuffer) { fmt.Fprintf(out, "%.3f i", o.Flatness) }

// k
type OpSetFillCMYKColor struct {
	C, M, Y, K Fl
}

func (o OpSetFillCMYKColor) Add(out *bytesBuffer) {
	fmt.Fprintf(out, "%.3f %.3f %.3f %.3f k", o.C, o.M, o.Y, o.K)
}

// K
type OpSetStrokeCMYKColor struct {
	C, M, Y, K Fl
}

func (o OpSetStrokeCMYKColor) Add(out *bytesBuffer) {
	fmt.Fprintf(out, "%.3f %.3f %.3f %.3f K", o.C, o.M, o.Y, o.K)
}

// Tc
type OpSetCharSpacing struct {
	CharSpace Fl
}

func (o OpSetCharSpacing) Add(out *bytesBuffer) { fmt.Fprintf(out, "%.3f Tc", o.CharSpace) }

// Tw
type OpSetWordSpacing struct {
	WordSpace Fl
}

func (o OpSetWordSpacing) Add(out *bytesBuffer) { fmt.Fprintf(out, "%.3f Tw", o.WordSpace) }

// Tz
type OpSetHorizScaling struct {
	Scale Fl // percentage, 100 is the default
}

func (o OpSetHorizScaling) Add(out *bytesBuffer) { fmt.Fprintf(out, "%.3f Tz", o.Scale) }

// Ts
type OpSetTextRise struct {
	Rise Fl
}

func (o OpSetTextRise) Add(out *bytesBuffer) { fmt.Fprintf(out, "%.3f Ts", o.Rise) }

// Tr
type OpSetTextRender struct {
	Render Fl // an integer in practice, kept as Fl to reuse the number parser
}

func (o OpSetTextRender) Add(out *bytesBuffer) { fmt.Fprintf(out, "%d Tr", int(o.Render)) }

// T*
type OpTextNextLine struct{}

func (o OpTextNextLine) Add(out *bytesBuffer) { out.WriteString("T*") }

// TD : like Td, but also sets the leading to -Y
type OpTextMoveSet struct {
	X, Y Fl
}

func (o OpTextMoveSet) Add(out *bytesBuffer) { fmt.Fprintf(out, "%.3f %.3f TD", o.X, o.Y) }

// " : sets word and character spacing, moves to the next line and shows text
type OpMoveSetShowText struct {
	WordSpacing, CharacterSpacing Fl
	Text                          string // unescaped
}

func (o OpMoveSetShowText) Add(out *bytesBuffer) {
	fmt.Fprintf(out, "%.3f %.3f %s\"", o.WordSpacing, o.CharacterSpacing, model.EspaceByteString([]byte(o.Text)))
}

// BX
type OpBeginIgnoreUndef struct{}

func (o OpBeginIgnoreUndef) Add(out *bytesBuffer) { out.WriteString("BX") }

// EX
type OpEndIgnoreUndef struct{}

func (o OpEndIgnoreUndef) Add(out *bytesBuffer) { out.WriteString("EX") }

// d0 : Type3 glyph width, used outside any clipping/colour context
type OpSetCharWidth struct {
	WX, WY int
}

func (o OpSetCharWidth) Add(out *bytesBuffer) { fmt.Fprintf(out, "%d %d d0", o.WX, o.WY) }

// d1 : Type3 glyph width and bounding box, also constrains colour operators
type OpSetCacheDevice struct {
	WX, WY             int
	LLX, LLY, URX, URY int
}

func (o OpSetCacheDevice) Add(out *bytesBuffer) {
	fmt.Fprintf(out, "%d %d %d %d %d %d d1", o.WX, o.WY, o.LLX, o.LLY, o.URX, o.URY)
}
