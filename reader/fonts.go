package reader

import (
	"github.com/benoitkugler/pdf/model"
)

// buildFont resolves a /Font resource entry into the raw dictionary shape
// package fonts builds rendering metrics from (spec ยง4.9 "font dictionary
// loading"): this layer only extracts the fields ISO 32000 9.6-9.8 define,
// it never computes glyph widths or encodings itself.
func (r *resolver) buildFont(d model.ObjDict) (*model.Font, error) {
	subtypeName, _ := r.name(d["Subtype"])

	var toUnicode *model.UnicodeCMap
	if s, ok := r.resolve(d["ToUnicode"]).(model.ObjStream); ok {
		cmap := r.buildUnicodeCMap(s)
		toUnicode = &cmap
	}

	var subtype model.FontType
	switch subtypeName {
	case "Type0":
		subtype = r.buildType0(d)
	case "Type3":
		subtype = r.buildType3(d)
	case "TrueType":
		subtype = model.TrueType(r.buildSimpleFont(d))
	default: // Type1, MMType1 and anything else behave like Type1
		subtype = r.buildSimpleFont(d)
	}

	return &model.Font{Subtype: subtype, ToUnicode: toUnicode}, nil
}

func (r *resolver) buildUnicodeCMap(s model.ObjStream) model.UnicodeCMap {
	filters, err := r.streamFilters(s)
	if err != nil {
		r.doc.Warnf("ToUnicode stream: %s", err)
	}
	cmap := model.UnicodeCMap{Stream: model.Stream{Filter: filters, Content: s.Content}}
	if use, ok := r.name(s.Args["UseCMap"]); ok {
		cmap.UseCMap = model.UnicodeCMapBasePredefined(use)
	}
	return cmap
}

func (r *resolver) buildSimpleFont(d model.ObjDict) model.Type1 {
	var out model.Type1
	out.BaseFont, _ = r.name(d["BaseFont"])
	if fc, ok := r.integer(d["FirstChar"]); ok {
		out.FirstChar = byte(fc)
	}
	if lc, ok := r.integer(d["LastChar"]); ok {
		out.LastChar = byte(lc)
	}
	if widths := r.array(d["Widths"]); widths != nil {
		out.Widths = make([]float64, len(widths))
		for i, w := range widths {
			f, _ := r.number(w)
			out.Widths[i] = float64(f)
		}
	}
	if fd := r.dict(d["FontDescriptor"]); fd != nil {
		out.FontDescriptor = r.buildFontDescriptor(fd)
	}
	out.Encoding = r.buildEncoding(d["Encoding"])
	return out
}

func (r *resolver) buildEncoding(o model.Object) model.Encoding {
	switch v := r.resolve(o).(type) {
	case model.ObjName:
		return model.PredefinedEncoding(v)
	case model.ObjDict:
		enc := &model.EncodingDict{}
		if base, ok := r.name(v["BaseEncoding"]); ok {
			enc.BaseEncoding = base
		}
		if diffs := r.array(v["Differences"]); diffs != nil {
			enc.Differences = r.buildDifferences(diffs)
		}
		return enc
	default:
		return nil
	}
}

// buildDifferences expands the compact [ code1 name1 name2 code2 name3 ... ]
// array form (table 114) into a per-code lookup.
func (r *resolver) buildDifferences(arr model.ObjArray) model.Differences {
	out := model.Differences{}
	var code int
	for _, item := range arr {
		switch v := r.resolve(item).(type) {
		case model.ObjInt:
			code = int(v)
		case model.ObjFloat:
			code = int(v)
		case model.ObjName:
			if code >= 0 && code <= 255 {
				out[byte(code)] = v
				code++
			}
		}
	}
	return out
}

func (r *resolver) buildFontDescriptor(d model.ObjDict) model.FontDescriptor {
	var desc model.FontDescriptor
	desc.FontName, _ = r.name(d["FontName"])
	if flags, ok := r.integer(d["Flags"]); ok {
		desc.Flags = model.FontFlag(flags)
	}
	if box, ok := r.rectangle(d["FontBBox"]); ok {
		desc.FontBBox = box
	}
	if a, ok := r.integer(d["ItalicAngle"]); ok {
		desc.ItalicAngle = a
	}
	if v, ok := r.number(d["Ascent"]); ok {
		desc.Ascent = float64(v)
	}
	if v, ok := r.number(d["Descent"]); ok {
		desc.Descent = float64(v)
	}
	if v, ok := r.number(d["Leading"]); ok {
		desc.Leading = float64(v)
	}
	if v, ok := r.number(d["CapHeight"]); ok {
		desc.CapHeight = float64(v)
	}
	if v, ok := r.number(d["XHeight"]); ok {
		desc.XHeight = float64(v)
	}
	if v, ok := r.number(d["StemV"]); ok {
		desc.StemV = float64(v)
	}
	if v, ok := r.number(d["StemH"]); ok {
		desc.StemH = float64(v)
	}
	if v, ok := r.number(d["AvgWidth"]); ok {
		desc.AvgWidth = float64(v)
	}
	if v, ok := r.number(d["MaxWidth"]); ok {
		desc.MaxWidth = float64(v)
	}
	if v, ok := r.number(d["MissingWidth"]); ok {
		desc.MissingWidth = float64(v)
	}
	for _, field := range [...]model.Name{"FontFile", "FontFile2", "FontFile3"} {
		stream, isStream := r.resolve(d[field]).(model.ObjStream)
		if !isStream {
			continue
		}
		filters, err := r.streamFilters(stream)
		if err != nil {
			r.doc.Warnf("font file: %s", err)
		}
		subtype, _ := r.name(stream.Args["Subtype"])
		desc.FontFile = &model.FontFile{
			Stream:  model.Stream{Filter: filters, Content: stream.Content},
			Subtype: subtype,
		}
		break
	}
	return desc
}

func (r *resolver) buildType3(d model.ObjDict) model.Type3 {
	var out model.Type3
	if box, ok := r.rectangle(d["FontBBox"]); ok {
		out.FontBBox = box
	}
	if m := r.array(d["FontMatrix"]); len(m) == 6 {
		var mat model.Matrix
		for i, v := range m {
			f, _ := r.number(v)
			mat[i] = f
		}
		out.FontMatrix = mat
	} else {
		out.FontMatrix = model.Matrix{0.001, 0, 0, 0.001, 0, 0}
	}
	if cp := r.dict(d["CharProcs"]); cp != nil {
		out.CharProcs = map[model.Name]model.ContentStream{}
		for name, ref := range cp {
			if s, ok := r.resolve(ref).(model.ObjStream); ok {
				out.CharProcs[name] = r.streamToContentStream(s)
			}
		}
	}
	out.Encoding = r.buildEncoding(d["Encoding"])
	if fc, ok := r.integer(d["FirstChar"]); ok {
		out.FirstChar = byte(fc)
	}
	if lc, ok := r.integer(d["LastChar"]); ok {
		out.LastChar = byte(lc)
	}
	if widths := r.array(d["Widths"]); widths != nil {
		out.Widths = make([]float64, len(widths))
		for i, w := range widths {
			f, _ := r.number(w)
			out.Widths[i] = float64(f)
		}
	}
	if fd := r.dict(d["FontDescriptor"]); fd != nil {
		desc := r.buildFontDescriptor(fd)
		out.FontDescriptor = &desc
	}
	if res := r.buildResourcesOrNil(d["Resources"]); res != nil {
		out.Resources = *res
	} else {
		out.Resources = model.NewResourcesDict()
	}
	return out
}

// buildType0 resolves a composite font's single descendant CIDFont (PDF
// allows an array but constrains it to one element, table 121).
func (r *resolver) buildType0(d model.ObjDict) model.Type0 {
	var out model.Type0
	out.Encoding = r.buildCMapEncoding(d["Encoding"])

	descendants := r.array(d["DescendantFonts"])
	if len(descendants) == 0 {
		return out
	}
	cd := r.dict(descendants[0])
	if cd == nil {
		return out
	}
	var cid model.CIDFontDict
	cid.Subtype, _ = r.name(cd["Subtype"])
	if si := r.dict(cd["CIDSystemInfo"]); si != nil {
		reg, _ := r.str(si["Registry"])
		ord, _ := r.str(si["Ordering"])
		sup, _ := r.integer(si["Supplement"])
		cid.CIDSystemInfo = model.CIDSystemInfo{Registry: reg, Ordering: ord, Supplement: sup}
	}
	if fd := r.dict(cd["FontDescriptor"]); fd != nil {
		cid.FontDescriptor = r.buildFontDescriptor(fd)
	}
	if dw, ok := r.number(cd["DW"]); ok {
		cid.DW = float64(dw)
	} else {
		cid.DW = 1000
	}
	cid.W = r.buildCIDWidths(r.array(cd["W"]))
	out.DescendantFonts = cid
	return out
}

func (r *resolver) buildCMapEncoding(o model.Object) model.CMapEncoding {
	switch v := r.resolve(o).(type) {
	case model.ObjName:
		return model.CMapEncodingPredefined(v)
	case model.ObjStream:
		filters, err := r.streamFilters(v)
		if err != nil {
			r.doc.Warnf("embedded CMap: %s", err)
		}
		enc := &model.CMapEncodingEmbedded{Stream: model.Stream{Filter: filters, Content: v.Content}}
		if use, ok := r.name(v.Args["UseCMap"]); ok {
			enc.UseCMap = model.CMapEncodingPredefined(use)
		}
		return enc
	default:
		return model.CMapEncodingPredefined("Identity-H")
	}
}

// buildCIDWidths expands the W array's two forms (9.7.4.3): `c [w1 w2 ...]`
// for a run of consecutive CIDs, and `cFirst cLast w` for a constant range.
func (r *resolver) buildCIDWidths(arr model.ObjArray) map[model.CID]float64 {
	out := map[model.CID]float64{}
	for i := 0; i < len(arr); {
		first, ok := r.integer(arr[i])
		if !ok {
			break
		}
		i++
		if i >= len(arr) {
			break
		}
		if widths := r.array(arr[i]); widths != nil {
			for j, w := range widths {
				f, _ := r.number(w)
				out[model.CID(first+j)] = float64(f)
			}
			i++
			continue
		}
		last, ok := r.integer(arr[i])
		if !ok {
			break
		}
		i++
		if i >= len(arr) {
			break
		}
		w, _ := r.number(arr[i])
		i++
		for c := first; c <= last; c++ {
			out[model.CID(c)] = float64(w)
		}
	}
	return out
}
