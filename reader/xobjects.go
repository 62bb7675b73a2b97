package reader

import (
	"github.com/benoitkugler/pdf/model"
	"github.com/benoitkugler/pdf/perror"
)

// buildXObject resolves a /XObject resource entry, dispatching on /Subtype
// into the two shapes `Do` may invoke (spec ยง4.7).
func (r *resolver) buildXObject(o model.Object) (model.XObject, error) {
	s, ok := r.resolve(o).(model.ObjStream)
	if !ok {
		return nil, perror.New(perror.MalformedStructure, "XObject is not a stream")
	}
	subtype, _ := r.name(s.Args["Subtype"])
	switch subtype {
	case "Form":
		return r.buildXObjectForm(s)
	default: // "Image", or missing/malformed Subtype: treat as an image
		return r.buildXObjectImage(s)
	}
}

func (r *resolver) buildXObjectImage(s model.ObjStream) (*model.XObjectImage, error) {
	img, err := r.buildImage(s)
	if err != nil {
		return nil, err
	}
	return &model.XObjectImage{Image: img}, nil
}

// buildImage is shared between Image XObjects and inline images' resolved
// form, both of which carry the same field set (spec ยง4.7/ยง4.9).
func (r *resolver) buildImage(s model.ObjStream) (model.Image, error) {
	d := s.Args
	var img model.Image

	filters, err := r.streamFilters(s)
	if err != nil {
		r.doc.Warnf("image stream: %s", err)
	}
	img.Stream = model.Stream{Filter: filters, Content: s.Content}

	img.Width, _ = r.integer(d["Width"])
	img.Height, _ = r.integer(d["Height"])

	if mask, ok := r.boolean(d["ImageMask"]); ok {
		img.ImageMask = mask
	}

	if bpc, ok := r.integer(d["BitsPerComponent"]); ok {
		img.BitsPerComponent = uint8(bpc)
	} else if img.ImageMask {
		img.BitsPerComponent = 1
	}

	if intent, ok := r.name(d["Intent"]); ok {
		img.Intent = intent
	}

	if !img.ImageMask {
		if cs, ok := d["ColorSpace"]; ok {
			colorSpace, err := r.buildColorSpace(cs)
			if err != nil {
				r.doc.Warnf("image color space: %s", err)
			} else {
				img.ColorSpace = colorSpace
			}
		}
	}

	if decode := r.array(d["Decode"]); len(decode) > 0 && len(decode)%2 == 0 {
		img.Decode = make([][2]model.Fl, len(decode)/2)
		for i := range img.Decode {
			lo, _ := r.number(decode[2*i])
			hi, _ := r.number(decode[2*i+1])
			img.Decode[i] = [2]model.Fl{lo, hi}
		}
	}

	if interp, ok := r.boolean(d["Interpolate"]); ok {
		img.Interpolate = interp
	}

	if smaskStream, ok := r.resolve(d["SMask"]).(model.ObjStream); ok {
		smask, err := r.buildImage(smaskStream)
		if err != nil {
			r.doc.Warnf("soft mask: %s", err)
		} else {
			img.SMask = &smask
		}
	}

	return img, nil
}

func (r *resolver) buildXObjectForm(s model.ObjStream) (*model.XObjectForm, error) {
	d := s.Args
	var form model.XObjectForm

	filters, err := r.streamFilters(s)
	if err != nil {
		r.doc.Warnf("form xobject: %s", err)
	}
	form.Stream = model.Stream{Filter: filters, Content: s.Content}

	if box, ok := r.rectangle(d["BBox"]); ok {
		form.BBox = box
	}

	if m := r.array(d["Matrix"]); len(m) == 6 {
		var mat model.Matrix
		for i, v := range m {
			f, _ := r.number(v)
			mat[i] = f
		}
		form.Matrix = mat
	} else {
		form.Matrix = model.Identity
	}

	form.Resources = r.buildResourcesOrNil(d["Resources"])

	if group := r.dict(d["Group"]); group != nil {
		tg := &model.TransparencyGroup{}
		if cs, ok := group["CS"]; ok {
			if colorSpace, err := r.buildColorSpace(cs); err == nil {
				tg.ColorSpace = colorSpace
			}
		}
		if iso, ok := r.boolean(group["I"]); ok {
			tg.Isolated = iso
		}
		if ko, ok := r.boolean(group["K"]); ok {
			tg.Knockout = ko
		}
		form.Group = tg
	}

	return &form, nil
}
