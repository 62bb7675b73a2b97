package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/benoitkugler/pdf/contentstream"
	"github.com/benoitkugler/pdf/imaging/jp2k"
	"github.com/benoitkugler/pdf/imaging/jpeg"
	"github.com/benoitkugler/pdf/model"
	"github.com/benoitkugler/pdf/raster"
)

// lastFilter returns the name of the final filter in img's pipeline, the
// one that determines what Decode's bytes actually are: DCTDecode and
// JPXDecode pass raw compressed image data through unchanged (model.
// Filters.DecodeReader), so their content still needs a codec, not a
// bit-packed sample reader.
func lastFilter(img model.Image) model.Name {
	if n := len(img.Filter); n > 0 {
		return img.Filter[n-1].Name
	}
	return ""
}

// sampleCodecImage builds a srcAt source from a fully decoded image.Image
// (the output of imaging/jpeg or imaging/jp2k), sampling through the
// standard image.Image colour model rather than re-deriving a bit-packed
// reader for every codec's native pixel format.
func sampleCodecImage(img image.Image, smaskAt func(x, y int) uint8) func(u, v float64) (r, g, b, a uint8) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	return func(u, v float64) (r, g, b, a uint8) {
		col := int(u * float64(w))
		row := int((1 - v) * float64(h))
		if col < 0 {
			col = 0
		} else if col >= w {
			col = w - 1
		}
		if row < 0 {
			row = 0
		} else if row >= h {
			row = h - 1
		}
		rr, gg, bb, _ := color.NRGBAModel.Convert(img.At(bounds.Min.X+col, bounds.Min.Y+row)).RGBA()
		a = 255
		if smaskAt != nil {
			a = smaskAt(col, row)
		}
		return uint8(rr >> 8), uint8(gg >> 8), uint8(bb >> 8), a
	}
}

// readBits extracts an n-bit (n in {1,2,4,8,16}) big-endian sample
// starting at the given bit offset within data, the row layout 7.4.3's
// image sample tables use: samples pack left to right, MSB first, with
// each row padded to a byte boundary.
func readBits(data []byte, bitOffset, n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		bit := bitOffset + i
		byteIdx := bit / 8
		if byteIdx >= len(data) {
			return v << uint(n-i)
		}
		shift := 7 - uint(bit%8)
		b := (data[byteIdx] >> shift) & 1
		v = v<<1 | uint32(b)
	}
	return v
}

// sampleImage decodes img's content once and returns a source function
// srcAt(u, v) -> RGBA for the unit square, u,v in [0,1); (0,0) is the
// image's top-left sample per 8.9.5's row-major sample order. fillColor
// is the current non-stroking colour, used for ImageMask painting
// (8.9.6.2: a 0 sample paints, a 1 sample is transparent, reversed by an
// explicit Decode [1 0]).
func sampleImage(img model.Image, cs model.ColorSpace, fillColor [3]float64) (func(u, v float64) (r, g, b, a uint8), error) {
	var smaskAt func(x, y int) uint8
	if img.SMask != nil {
		sm := img.SMask
		smData, err := sm.Decode()
		if err == nil {
			smBpc := int(sm.BitsPerComponent)
			smRowBytes := (sm.Width*smBpc + 7) / 8
			smMax := float64((uint32(1) << uint(smBpc)) - 1)
			smaskAt = func(x, y int) uint8 {
				if y < 0 || y >= sm.Height || x < 0 || x >= sm.Width {
					return 255
				}
				bitOff := y*smRowBytes*8 + x*smBpc
				raw := readBits(smData, bitOff, smBpc)
				v := float64(raw) / smMax
				return toByte(v)
			}
		}
	}

	// DCTDecode/JPXDecode leave their stream content as raw compressed
	// bytes (model.Filters.Decode passes them through unchanged): route
	// through the matching codec instead of the generic bit-packed sample
	// reader below, which would otherwise misread compressed bytes as
	// pixel samples.
	switch lastFilter(img) {
	case model.DCT:
		decoded, err := jpeg.Decode(bytes.NewReader(img.Content))
		if err != nil {
			return nil, fmt.Errorf("JPEG image data: %w", err)
		}
		return sampleCodecImage(decoded, smaskAt), nil
	case model.JPX:
		decoded, err := jp2k.Decode(bytes.NewReader(img.Content))
		if err != nil {
			return nil, fmt.Errorf("JPEG 2000 image data: %w", err)
		}
		return sampleCodecImage(decoded, smaskAt), nil
	}

	data, err := img.Decode()
	if err != nil {
		return nil, err
	}

	bpc := int(img.BitsPerComponent)
	nComp := 1
	if img.ImageMask {
		bpc = 1
	} else if cs != nil {
		nComp = cs.NbColorComponents()
	}
	rowBits := img.Width * nComp * bpc
	rowBytes := (rowBits + 7) / 8

	maxVal := float64((uint32(1) << uint(bpc)) - 1)

	decodeRanges := img.Decode
	if len(decodeRanges) == 0 {
		decodeRanges = make([][2]model.Fl, nComp)
		for i := range decodeRanges {
			decodeRanges[i] = [2]model.Fl{0, 1}
		}
		if _, isIndexed := cs.(model.ColorSpaceIndexed); isIndexed {
			decodeRanges[0] = [2]model.Fl{0, model.Fl(maxVal)}
		}
	}

	srcAt := func(u, v float64) (r, g, b, a uint8) {
		col := int(u * float64(img.Width))
		row := int((1 - v) * float64(img.Height))
		if col < 0 {
			col = 0
		}
		if col >= img.Width {
			col = img.Width - 1
		}
		if row < 0 {
			row = 0
		}
		if row >= img.Height {
			row = img.Height - 1
		}

		a = 255
		if smaskAt != nil {
			a = smaskAt(col, row)
		}

		if img.ImageMask {
			bitOff := row*rowBytes*8 + col
			raw := readBits(data, bitOff, 1)
			lo := float64(decodeRanges[0][0])
			paints := (lo == 0) == (raw == 0)
			if !paints {
				return 0, 0, 0, 0
			}
			return toByte(fillColor[0]), toByte(fillColor[1]), toByte(fillColor[2]), a
		}

		comps := make([]model.Fl, nComp)
		for c := 0; c < nComp; c++ {
			bitOff := row*rowBytes*8 + (col*nComp+c)*bpc
			raw := readBits(data, bitOff, bpc)
			lo, hi := decodeRanges[c][0], decodeRanges[c][1]
			comps[c] = lo + model.Fl(raw)*(hi-lo)/model.Fl(maxVal)
		}
		rgb := cs.ToRGB(comps)
		return toByte(float64(rgb[0])), toByte(float64(rgb[1])), toByte(float64(rgb[2])), a
	}
	return srcAt, nil
}

// paintImageMapped paints one image (XObject or inline) into the device
// bitmap through ctm, the unit-square-to-device mapping 8.9.5.2 defines for
// both forms: `1 0 0 1 0 0 cm /Im Do` paints into the unit square the CTM
// describes, so ctm alone (not a separate /Matrix, that's a Form-only
// concept) positions the image.
func (it *interpreter) paintImageMapped(img model.Image, cs model.ColorSpace, ctm model.Matrix) {
	if img.Width <= 0 || img.Height <= 0 {
		return
	}
	inv, ok := ctm.Invert()
	if !ok {
		it.warnf("content stream: image with singular matrix, skipped")
		return
	}
	srcAt, err := sampleImage(img, cs, it.gs.fillColor)
	if err != nil {
		it.warnf("content stream: image data: %s", err)
		return
	}

	corners := [4][2]float64{
		applyF(ctm, 0, 0),
		applyF(ctm, 1, 0),
		applyF(ctm, 1, 1),
		applyF(ctm, 0, 1),
	}
	minXf, minYf, maxXf, maxYf := bboxOf(corners)
	minX, minY := int(minXf), int(minYf)
	maxX, maxY := int(maxXf)+1, int(maxYf)+1
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > it.dst.Width {
		maxX = it.dst.Width
	}
	if maxY > it.dst.Height {
		maxY = it.dst.Height
	}

	invMap := func(x, y int) (u, v float64, ok bool) {
		fx, fy := inv.Apply(model.Fl(x)+0.5, model.Fl(y)+0.5)
		u, v = float64(fx), float64(fy)
		if u < 0 || u >= 1 || v < 0 || v >= 1 {
			return 0, 0, false
		}
		return u, v, true
	}
	raster.PaintImage(it.dst, it.gs.clip, minX, minY, maxX, maxY, it.gs.fillAlpha, invMap, srcAt)
}

func (it *interpreter) doXObject(name model.ObjName) {
	res := it.resources()
	if res == nil {
		return
	}
	xobj, ok := res.XObject[model.Name(name)]
	if !ok || xobj == nil {
		it.warnf("content stream: unknown XObject %s", name)
		return
	}
	switch x := xobj.(type) {
	case *model.XObjectImage:
		cs := x.ColorSpace
		if cs == nil && !x.ImageMask {
			it.warnf("content stream: image XObject %s has no colour space", name)
			return
		}
		it.paintImageMapped(x.Image, cs, it.gs.ctm)
	case *model.XObjectForm:
		it.doForm(x)
	}
}

func (it *interpreter) doForm(form *model.XObjectForm) {
	if it.depth >= maxFormDepth {
		it.warnf("content stream: form XObject nesting too deep, skipped")
		return
	}
	ops, err := parseContentOps(form.Stream, it.resourcesColorSpace(form.Resources))
	if err != nil {
		it.warnf("content stream: form XObject content: %s", err)
		return
	}
	saved := it.gs.clone()
	it.gs.ctm = form.Matrix.Multiply(it.gs.ctm)
	it.depth++
	it.run(ops, form.Resources)
	it.depth--
	it.gs = saved
}

func (it *interpreter) resourcesColorSpace(res *model.ResourcesDict) model.ResourcesColorSpace {
	if res == nil {
		return nil
	}
	return model.ResourcesColorSpace(res.ColorSpace)
}

// drawInlineImage paints a BI/ID/EI image directly against the current
// resources' colour space table, the one place an image's colour space is
// still an unresolved ImageColorSpace rather than a model.ColorSpace:
// contentstream.OpBeginImage's own resolver is unexported, so this mirrors
// its type switch instead of duplicating its private logic by copy-paste.
func (it *interpreter) drawInlineImage(op contentstream.OpBeginImage) {
	var cs model.ColorSpace
	if op.Image.ImageMask {
		// ImageMask images ignore colour space entirely (8.9.6.2).
	} else {
		switch c := op.ColorSpace.(type) {
		case contentstream.ImageColorSpaceName:
			cs = it.resolveColorSpace(model.ObjName(c.ColorSpaceName))
		case contentstream.ImageColorSpaceIndexed:
			cs = c.ToColorSpace()
		default:
			it.warnf("content stream: inline image missing colour space")
			return
		}
	}
	it.paintImageMapped(op.Image, cs, it.gs.ctm)
}
