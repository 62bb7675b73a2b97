package model

import "fmt"

// Image is the dictionary shared by inline images (BI/ID/EI) and Image
// XObjects: sample data plus enough metadata to expand it to RGB.
// Grounded on the teacher's reader/images.go resolveOneXObjectImage, which
// reads this same field set off a pdfcpu stream dict; here the fields are
// populated either by reader/parser/content_inline_image.go (inline images)
// or by the `reader` package's XObject resolver (Image XObjects).
type Image struct {
	Stream

	Width, Height    int
	ColorSpace       ColorSpace // nil means "resolve from resources"
	BitsPerComponent uint8
	Intent           Name
	ImageMask        bool      // if true, BitsPerComponent is always 1 and ColorSpace is ignored
	Decode           [][2]Fl   // one pair per color component; empty means the colorspace default range
	Interpolate      bool
	SMask            *Image // optional soft mask, same dimensions or resampled by the renderer
}

// PDFFields writes the inline-image characteristics dictionary (without
// the enclosing BI/ID/EI keywords). `short` selects the abbreviated
// inline-image key names (table 93) over the XObject dictionary names.
func (img Image) PDFFields(short bool) string {
	w, h, bpc, im, in, dec := "W", "H", "BPC", "IM", "I", "D"
	if !short {
		w, h, bpc, im, in, dec = "Width", "Height", "BitsPerComponent", "ImageMask", "Interpolate", "Decode"
	}
	out := fmt.Sprintf("/%s %d /%s %d", w, img.Width, h, img.Height)
	if img.ImageMask {
		out += fmt.Sprintf(" /%s true", im)
	} else {
		out += fmt.Sprintf(" /%s %d", bpc, img.BitsPerComponent)
	}
	if img.Interpolate {
		out += fmt.Sprintf(" /%s true", in)
	}
	if len(img.Decode) != 0 {
		out += " /" + dec + " ["
		for _, d := range img.Decode {
			out += fmt.Sprintf("%s %s ", fmtFloat(d[0]), fmtFloat(d[1]))
		}
		out += "]"
	}
	return out
}

func fmtFloat(f Fl) string {
	return fmt.Sprintf("%g", f)
}

// XObject is either a Form or an Image XObject, the two concrete shapes
// the `Do` content-stream operator may invoke (spec 4.7 "XObject
// invocation"). Kept as a small closed interface rather than an
// undifferentiated struct so the render package can type-switch instead
// of inspecting a /Subtype name at draw time.
type XObject interface {
	isXObject()
}

func (*XObjectImage) isXObject() {}
func (*XObjectForm) isXObject()  {}

// XObjectImage is the Image XObject form of Image: a self-contained raster
// resource referenced by name from a page or form's /Resources /XObject.
type XObjectImage struct {
	Image
}

// XObjectForm is a self-contained sequence of graphics operators with its
// own resource dictionary and bounding box, invoked by `Do` as if its
// content were inlined at the current CTM (spec 4.7).
type XObjectForm struct {
	ContentStream
	BBox      Rectangle
	Matrix    Matrix // defaults to Identity when the /Matrix entry is absent
	Resources *ResourcesDict
	Group     *TransparencyGroup // optional, for soft-mask/transparency group forms
}

// TransparencyGroup records just enough of a Group dictionary for the
// renderer to know an XObject form is a soft-mask source; full transparency
// group compositing (isolated/knockout blending) is out of scope.
type TransparencyGroup struct {
	ColorSpace ColorSpace
	Isolated   bool
	Knockout   bool
}
