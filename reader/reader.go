// Package reader binds a parsed PDF object graph (package `file`) to the
// typed `model.Document`: it walks the Catalog, resolves inherited page
// attributes, and builds the font/colour-space/XObject resources a page
// needs to be rendered. It is the missing link spec ยง4.9's page
// orchestrator sits on top of.
//
// Grounded on the teacher's `reader` package (catalog.go, pages.go,
// resources.go, images.go), trimmed to the object kinds spec.md names:
// AcroForm, annotations beyond their raw dictionary, outlines, structure
// trees, multimedia and shading/pattern detail are out of scope (spec ยง1).
package reader

import (
	"strconv"
	"time"
	"unicode/utf16"

	"github.com/benoitkugler/pdf/model"
	"github.com/benoitkugler/pdf/perror"
	"github.com/benoitkugler/pdf/reader/encodings"
	"github.com/benoitkugler/pdf/reader/file"
)

// Options configures how a PDF is opened. It mirrors the teacher's
// file.Configuration but lives at this package's boundary since spec ยง6
// names it as part of the external interface.
type Options struct {
	// Password is tried as both the user and owner password (spec ยง4.4).
	Password string
}

// maxRefChainDepth bounds chasing a Ref-to-Ref chain (spec ยง3 "a Ref whose
// target is itself a Ref chases through chains with depth โ‰ค 16").
const maxRefChainDepth = 16

// resolver wraps the flat object table produced by package `file` with the
// bounded-depth, cycle-safe resolution spec ยง3's indirect-object cache
// requires: every object number resolves to the same instance, and a Ref
// cycle or dangling target yields Null rather than looping or erroring.
type resolver struct {
	objects file.XrefTable
	doc     *model.Document
}

func (r *resolver) resolve(o model.Object) model.Object {
	if o == nil {
		return model.ObjNull{}
	}
	if ref, ok := o.(model.ObjIndirectRef); ok {
		return r.resolveRef(ref, 0)
	}
	return o
}

func (r *resolver) resolveRef(ref model.ObjIndirectRef, depth int) model.Object {
	if depth >= maxRefChainDepth {
		r.doc.Warnf("reference chain exceeded depth %d at object %d", maxRefChainDepth, ref.ObjectNumber)
		return model.ObjNull{}
	}
	obj, ok := r.objects[ref.ObjectNumber]
	if !ok {
		r.doc.Warnf("unresolved reference to object %d", ref.ObjectNumber)
		return model.ObjNull{}
	}
	if next, ok := obj.(model.ObjIndirectRef); ok {
		return r.resolveRef(next, depth+1)
	}
	return obj
}

func (r *resolver) dict(o model.Object) model.ObjDict {
	if d, ok := r.resolve(o).(model.ObjDict); ok {
		return d
	}
	return nil
}

func (r *resolver) array(o model.Object) model.ObjArray {
	if a, ok := r.resolve(o).(model.ObjArray); ok {
		return a
	}
	return nil
}

func (r *resolver) stream(o model.Object) (model.ObjDict, []byte, bool) {
	if s, ok := r.resolve(o).(model.ObjStream); ok {
		return s.Args, s.Content, true
	}
	return nil, nil, false
}

func (r *resolver) name(o model.Object) (model.Name, bool) {
	n, ok := r.resolve(o).(model.ObjName)
	return n, ok
}

func (r *resolver) number(o model.Object) (model.Fl, bool) {
	return model.IsNumber(r.resolve(o))
}

func (r *resolver) integer(o model.Object) (int, bool) {
	f, ok := r.number(o)
	return int(f), ok
}

func (r *resolver) str(o model.Object) (string, bool) {
	return model.IsString(r.resolve(o))
}

func (r *resolver) boolean(o model.Object) (bool, bool) {
	b, ok := r.resolve(o).(model.ObjBool)
	return bool(b), ok
}

func (r *resolver) rectangle(o model.Object) (model.Rectangle, bool) {
	arr := r.array(o)
	if len(arr) != 4 {
		return model.Rectangle{}, false
	}
	var nums [4]model.Fl
	for i, v := range arr {
		f, ok := r.number(v)
		if !ok {
			return model.Rectangle{}, false
		}
		nums[i] = f
	}
	return model.Rectangle{Llx: nums[0], Lly: nums[1], Urx: nums[2], Ury: nums[3]}, true
}

// ParsePDFFile opens a PDF file from disk, reconstructs its cross-reference
// table, and binds the Catalog into a model.Document. The second return
// value is the underlying parsed object table, exposed for callers (like
// the decode demo) that need to walk streams the Document accessors don't
// surface directly.
func ParsePDFFile(filename string, opts Options) (model.Document, file.PDFFile, error) {
	pf, err := file.ReadFile(filename, &file.Configuration{Password: opts.Password})
	if err != nil {
		return model.Document{}, file.PDFFile{}, classifyOpenError(err)
	}
	doc, err := newDocument(pf)
	return doc, pf, err
}

// classifyOpenError maps the lower layer's plain errors onto the taxonomy
// spec ยง7 exposes at the boundary. The file package doesn't carry a typed
// error (it predates this package), so the mapping is a best-effort string
// match on its one password-related sentinel; anything else is structural.
func classifyOpenError(err error) error {
	if err == nil {
		return nil
	}
	if err.Error() == "incorrect password" {
		return perror.Wrap(perror.Unauthorized, "", err)
	}
	return perror.Wrap(perror.MalformedStructure, "opening PDF file", err)
}

func newDocument(pf file.PDFFile) (model.Document, error) {
	doc := model.Document{Version: pf.HeaderVersion}
	r := &resolver{objects: pf.XrefTable, doc: &doc}

	root := r.dict(pf.Root)
	if root == nil {
		return doc, perror.New(perror.MalformedStructure, "missing document Catalog")
	}

	pagesRoot, ok := root["Pages"]
	if !ok {
		return doc, perror.New(perror.MalformedStructure, "Catalog missing /Pages")
	}
	tree, err := r.buildPageTree(pagesRoot, nil, 0)
	if err != nil {
		return doc, err
	}
	if tree == nil {
		tree = &model.PageTree{}
	}
	doc.Catalog = model.Catalog{Pages: *tree}

	if pf.Info != nil {
		doc.Trailer.Info = r.buildInfo(*pf.Info)
	}
	doc.Trailer.ID = pf.ID

	return doc, nil
}

func (r *resolver) buildInfo(ref model.ObjIndirectRef) model.Info {
	d := r.dict(ref)
	get := func(key string) string {
		s, _ := r.str(d[model.Name(key)])
		return decodePDFTextString(s)
	}
	return model.Info{
		Title:        get("Title"),
		Author:       get("Author"),
		Subject:      get("Subject"),
		Keywords:     get("Keywords"),
		Creator:      get("Creator"),
		Producer:     get("Producer"),
		CreationDate: parsePDFDate(get("CreationDate")),
		ModDate:      parsePDFDate(get("ModDate")),
	}
}

// decodePDFTextString decodes a text string per 7.9.2.2: either UTF-16BE
// with a leading byte-order mark, or PDFDocEncoding. Info dictionary values
// come through as raw bytes (ObjStringLiteral/ObjHexLiteral content), so
// this is the one place that turns them into readable Go strings.
func decodePDFTextString(s string) string {
	b := []byte(s)
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		b = b[2:]
		units := make([]uint16, len(b)/2)
		for i := range units {
			units[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
		}
		return string(utf16.Decode(units))
	}
	return encodings.PDFDocEncodingToString(b)
}

// parsePDFDate parses the "D:YYYYMMDDHHmmSSOHH'mm" form of 7.9.4. Any
// deviation yields the zero time rather than an error: dates are purely
// informational metadata, never load-bearing for rendering.
func parsePDFDate(s string) time.Time {
	if len(s) >= 2 && s[:2] == "D:" {
		s = s[2:]
	}
	if len(s) < 14 {
		return time.Time{}
	}
	layout := "20060102150405"
	t, err := time.Parse(layout, s[:14])
	if err != nil {
		return time.Time{}
	}
	rest := s[14:]
	if len(rest) == 0 {
		return t
	}
	switch rest[0] {
	case 'Z':
		return t
	case '+', '-':
		if len(rest) < 6 {
			return t
		}
		hh, err1 := strconv.Atoi(rest[1:3])
		mm, err2 := strconv.Atoi(rest[4:6])
		if err1 != nil || err2 != nil {
			return t
		}
		offset := time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute
		if rest[0] == '+' {
			t = t.Add(-offset)
		} else {
			t = t.Add(offset)
		}
	}
	return t
}
