package reader

import (
	"github.com/benoitkugler/pdf/model"
	"github.com/benoitkugler/pdf/reader/parser"
)

// buildResourcesOrNil resolves a /Resources dictionary, returning nil when
// absent so callers can tell "no Resources here, inherit" from "empty
// Resources dictionary" (spec ยง4.9 inheritance).
func (r *resolver) buildResourcesOrNil(o model.Object) *model.ResourcesDict {
	d := r.dict(o)
	if d == nil {
		return nil
	}
	out := r.buildResources(d)
	return &out
}

func (r *resolver) buildResources(d model.ObjDict) model.ResourcesDict {
	out := model.NewResourcesDict()

	if fonts := r.dict(d["Font"]); fonts != nil {
		for name, ref := range fonts {
			fd := r.dict(ref)
			if fd == nil {
				continue
			}
			f, err := r.buildFont(fd)
			if err != nil {
				r.doc.Warnf("font %s: %s", name, err)
				continue
			}
			out.Font[name] = f
		}
	}

	if css := r.dict(d["ColorSpace"]); css != nil {
		for name, ref := range css {
			cs, err := r.buildColorSpace(ref)
			if err != nil {
				r.doc.Warnf("color space %s: %s", name, err)
				continue
			}
			out.ColorSpace[name] = cs
		}
	}

	if xobjs := r.dict(d["XObject"]); xobjs != nil {
		for name, ref := range xobjs {
			xo, err := r.buildXObject(ref)
			if err != nil {
				r.doc.Warnf("xobject %s: %s", name, err)
				continue
			}
			out.XObject[name] = xo
		}
	}

	if gss := r.dict(d["ExtGState"]); gss != nil {
		for name, ref := range gss {
			gd := r.dict(ref)
			if gd == nil {
				continue
			}
			gs := r.buildGraphicState(gd)
			out.ExtGState[name] = &gs
		}
	}

	return out
}

func (r *resolver) buildGraphicState(d model.ObjDict) model.GraphicState {
	var gs model.GraphicState
	gs.LC, gs.LJ = model.Undef, model.Undef
	gs.CA, gs.Ca = 1, 1
	if lw, ok := r.number(d["LW"]); ok {
		gs.LW = lw
	}
	if lc, ok := r.integer(d["LC"]); ok {
		gs.LC = lc
	}
	if lj, ok := r.integer(d["LJ"]); ok {
		gs.LJ = lj
	}
	if ml, ok := r.number(d["ML"]); ok {
		gs.ML = ml
	}
	if ca, ok := r.number(d["ca"]); ok {
		gs.Ca = ca
	}
	if CA, ok := r.number(d["CA"]); ok {
		gs.CA = CA
	}
	if ri, ok := r.name(d["RI"]); ok {
		gs.RI = ri
	}
	return gs
}

// buildColorSpace resolves a colour-space value found either in a resource
// dictionary or inline (spec ยง4.1 the Array/Dict object forms), following
// the closed families (DeviceGray/RGB/CMYK, Indexed) this engine evaluates
// precisely and degrading everything else to UnsupportedColorSpace (spec
// ยง9(c) treats ICC profiles as a boundary UnsupportedFeature; here colour
// *approximation* of an unsupported family still lets rendering proceed,
// per spec ยง7 "rendering a page never fails catastrophically").
func (r *resolver) buildColorSpace(o model.Object) (model.ColorSpace, error) {
	switch v := r.resolve(o).(type) {
	case model.ObjName:
		switch model.ColorSpaceName(v) {
		case model.ColorSpaceGray, model.ColorSpaceRGB, model.ColorSpaceCMYK:
			return model.ColorSpaceName(v), nil
		}
		return model.UnsupportedColorSpace{Name: string(v), N: 1}, nil
	case model.ObjArray:
		return r.buildColorSpaceArray(v)
	default:
		return model.ColorSpaceName(model.ColorSpaceGray), nil
	}
}

func (r *resolver) buildColorSpaceArray(arr model.ObjArray) (model.ColorSpace, error) {
	if len(arr) == 0 {
		return model.ColorSpaceName(model.ColorSpaceGray), nil
	}
	family, _ := r.name(arr[0])
	switch family {
	case "ICCBased":
		n := 3
		if len(arr) > 1 {
			if d := r.dict(arr[1]); d != nil {
				if nc, ok := r.integer(d["N"]); ok {
					n = nc
				}
			}
		}
		return model.UnsupportedColorSpace{Name: "ICCBased", N: n}, nil
	case "Indexed":
		if len(arr) < 4 {
			return model.UnsupportedColorSpace{Name: "Indexed", N: 1}, nil
		}
		base, err := r.buildColorSpace(arr[1])
		if err != nil {
			return nil, err
		}
		baseName, ok := base.(model.ColorSpaceName)
		if !ok {
			// only device-colour bases are evaluated precisely; anything
			// else degrades to an approximate palette lookup.
			baseName = model.ColorSpaceRGB
		}
		hival, _ := r.integer(arr[2])
		table := r.colorTable(arr[3])
		return model.ColorSpaceIndexed{Base: baseName, Hival: uint8(hival), Lookup: table}, nil
	case "CalGray":
		return model.UnsupportedColorSpace{Name: "CalGray", N: 1}, nil
	case "CalRGB", "Lab":
		return model.UnsupportedColorSpace{Name: string(family), N: 3}, nil
	case "Separation":
		return model.UnsupportedColorSpace{Name: "Separation", N: 1}, nil
	case "DeviceN":
		n := 1
		if len(arr) > 1 {
			if names := r.array(arr[1]); names != nil {
				n = len(names)
			}
		}
		return model.UnsupportedColorSpace{Name: "DeviceN", N: n}, nil
	case "Pattern":
		if len(arr) > 1 {
			return r.buildColorSpace(arr[1])
		}
		return model.UnsupportedColorSpace{Name: "Pattern", N: 1}, nil
	default:
		return r.buildColorSpace(arr[0])
	}
}

func (r *resolver) colorTable(o model.Object) model.ColorTable {
	switch v := r.resolve(o).(type) {
	case model.ObjStringLiteral:
		return model.ColorTableBytes(v)
	case model.ObjHexLiteral:
		return model.ColorTableBytes(v)
	case model.ObjStream:
		filters, _ := r.streamFilters(v)
		decoded, err := filters.Decode(v.Content)
		if err != nil {
			r.doc.Warnf("indexed color table: %s", err)
			return model.ColorTableBytes(nil)
		}
		return model.ColorTableStream{DecodedContent: decoded}
	default:
		return model.ColorTableBytes(nil)
	}
}

func (r *resolver) streamFilters(s model.ObjStream) (model.Filters, error) {
	return parser.ParseFilters(s.Args["Filter"], s.Args["DecodeParms"], r.resolveErr)
}
