package model

import (
	"fmt"
	"strconv"
)

// implements basic types found in PDF files

// Object is a node of a PDF syntax tree.
//
// It serves two purposes:
//   - representing a PDF file in-memory, before turning it into a Document.
//     In this case, it is obtained from a PDF file by tokenizing and parsing its content,
//     and the concrete types used will be the basic PDF types defined in this file.
//   - allowing arbitrary user defined content, which is needed for some edge-cases like
//     property list or signature build information.
//     In this case, custom type may be used, but care should be taken to handle indirect objects:
//     when implementing WriteToPDF, new objects must be created using CreateObject.
//
// Note that the PDF null object is represented by its own concrete type,
// so Object must never be nil.
type Object interface {
	// Clone must return a deep copy of the object, preserving the concrete type.
	Clone() Object
}

type ObjNull struct{}

func (ObjNull) String() string { return "<null>" }

func (n ObjNull) Clone() Object { return n }

// ObjName is a symbol to be referenced,
// and it is included in PDF without encoding, by prepending/
type ObjName string

// String returns the PDF representation of a name
func (n ObjName) String() string {
	return "/" + string(n)
}

func (n ObjName) Clone() Object { return n }

// ObjFloat implements MaybeFloat
type ObjFloat Fl

func (f ObjFloat) Clone() Object { return f }

// ObjBool represents a PDF boolean object.
type ObjBool bool

func (boolean ObjBool) Clone() Object { return boolean }

// ObjInt represents a PDF integer object.
type ObjInt int

func (i ObjInt) Clone() Object { return i }

// ObjStringLiteral represents a PDF string literal object, already
// unescaped and, once decrypted, ready to use.
type ObjStringLiteral string

func (s ObjStringLiteral) Clone() Object { return s }

// ObjHexLiteral represents a PDF hex literal object, already
// decoded from its hexadecimal form.
type ObjHexLiteral string

func (h ObjHexLiteral) Clone() Object { return h }

// ObjIndirectRef represents a PDF indirect object.
// This type will be found in a parsed PDF, but not in the model
// (see the `Reference` type documentation).
type ObjIndirectRef struct {
	ObjectNumber     int
	GenerationNumber int
}

func (ir ObjIndirectRef) Clone() Object { return ir }

// ObjCommand is a PDF operation found in content streams.
type ObjCommand string

func (cmd ObjCommand) Clone() Object { return cmd }

// ObjArray represents a PDF array object.
type ObjArray []Object

func (arr ObjArray) Clone() Object {
	out := make(ObjArray, len(arr))
	for i, v := range arr {
		out[i] = v.Clone()
	}
	return out
}

// ObjDict represents a PDF dict object.
type ObjDict map[Name]Object

func (d ObjDict) Clone() Object {
	out := make(ObjDict, len(d))
	for k, v := range d {
		out[k] = v.Clone()
	}
	return out
}

// ObjStream is a stream: a dictionary together with the raw bytes
// found between its `stream` and `endstream` keywords, still encoded
// with whatever /Filter chain the dictionary declares.
type ObjStream struct {
	Args    ObjDict
	Content []byte // as found in the PDF file, that is, still encoded
}

func (stream ObjStream) Clone() Object {
	return ObjStream{
		Args:    stream.Args.Clone().(ObjDict),
		Content: append([]byte(nil), stream.Content...),
	}
}

// bypassEncrypt reports whether the stream uses the Crypt filter
// with the Identity crypt filter name, meaning it was never encrypted.
func (stream ObjStream) bypassEncrypt() bool {
	fs := stream.Args["Filter"]
	if fs, ok := fs.(ObjArray); ok {
		return len(fs) == 1 && fs[0] == ObjName("Crypt")
	}
	return fs == ObjName("Crypt")
}

// ----------------------- utils commonly used -----------------------

// Name is so used that it deservers a shorted alias
type Name = ObjName

// Fl is the numeric type used for float values.
type Fl = float32

// MaybeInt is an Int or nothing
// It'a an other way to specify *int,
// safer to use and pass by value.
type MaybeInt interface {
	isMaybeInt()
}

func (i ObjInt) isMaybeInt() {}

// MaybeFloat is a Float or nothing
// It'a an other way to specify *Fl,
// safer to use and pass by value.
type MaybeFloat interface {
	isMaybeFloat()
}

func (f ObjFloat) isMaybeFloat() {}

// MaybeBool is a Bool or nothing
// It'a an other way to specify *Fl,
// safer to use and pass by value.
type MaybeBool interface {
	isMaybeBool()
}

func (b ObjBool) isMaybeBool() {}

// IsString return `true` is `o` is either a StringLitteral
// or an HexLitteral
func IsString(o Object) (string, bool) {
	switch s := o.(type) {
	case ObjStringLiteral:
		return string(s), true
	case ObjHexLiteral:
		return string(s), true
	default:
		return "", false
	}
}

// IsNumber return `true` is `o` is either a Float
// or an Int
func IsNumber(o Object) (Fl, bool) {
	switch t := o.(type) {
	case ObjFloat:
		return Fl(t), true
	case ObjInt:
		return Fl(t), true
	default:
		return 0, false
	}
}

type Rectangle struct {
	Llx, Lly, Urx, Ury Fl // lower-left x, lower-left y, upper-right x, and upper-right y coordinates of the rectangle
}

func (r Rectangle) String() string {
	return fmt.Sprintf("[%s %s %s %s]",
		strconv.FormatFloat(float64(r.Llx), 'f', -1, 32),
		strconv.FormatFloat(float64(r.Lly), 'f', -1, 32),
		strconv.FormatFloat(float64(r.Urx), 'f', -1, 32),
		strconv.FormatFloat(float64(r.Ury), 'f', -1, 32))
}

// Height returns the absolute value of the height of the rectangle.
func (r Rectangle) Height() Fl {
	h := r.Ury - r.Lly
	if h < 0 {
		return -h
	}
	return h
}

// Width returns the absolute value of the width of the rectangle.
func (r Rectangle) Width() Fl {
	w := r.Urx - r.Llx
	if w < 0 {
		return -w
	}
	return w
}

// Rotation encodes an optional clock-wise rotation.
type Rotation uint8

const (
	Unset Rotation = iota // use the inherited value
	Zero
	Quarter
	Half
	ThreeQuarter
)

// NewRotation validate the input and returns
// a rotation, which may be unset.
func NewRotation(degrees int) Rotation {
	if degrees%90 != 0 {
		return Unset
	}
	r := Rotation((degrees / 90) % 4)
	return r + 1
}

func (r Rotation) Degrees() int {
	if r == Unset {
		return 0
	}
	return 90 * int(r-1)
}
