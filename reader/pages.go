package reader

import (
	"github.com/benoitkugler/pdf/model"
	"github.com/benoitkugler/pdf/perror"
	"github.com/benoitkugler/pdf/reader/parser"
)

// buildPageTree recursively resolves a /Pages or /Page node, inheriting
// Resources/MediaBox/CropBox/Rotate the way spec ยง4.9 describes ("resolves
// inherited attributes ... from the leaf upward"): a node only overrides an
// inherited field when its own dictionary sets it.
//
// `node` is typed model.Object (not model.ObjDict) because it may itself be
// an unresolved Ref; `parent` threads the Go pointer a PageObject/PageTree
// needs for its own on-demand inheritance walk (model.PageObject.Inherited*).
func (r *resolver) buildPageTree(node model.Object, parent *model.PageTree, depth int) (*model.PageTree, error) {
	if depth > 512 {
		return nil, perror.New(perror.ResourceLimit, "page tree recursion depth exceeded")
	}
	d := r.dict(node)
	if d == nil {
		return nil, perror.New(perror.MalformedStructure, "page tree node is not a dictionary")
	}

	tree := &model.PageTree{Parent: parent}
	if res := r.buildResourcesOrNil(d["Resources"]); res != nil {
		tree.Resources = res
	}
	if box, ok := r.rectangle(d["MediaBox"]); ok {
		tree.MediaBox = &box
	}
	if box, ok := r.rectangle(d["CropBox"]); ok {
		tree.CropBox = &box
	}
	if rot, ok := r.integer(d["Rotate"]); ok {
		rr := model.NewRotation(rot)
		tree.Rotate = &rr
	}

	kids := r.array(d["Kids"])
	tree.Kids = make([]model.PageNode, 0, len(kids))
	for _, kidRef := range kids {
		kidDict := r.dict(kidRef)
		if kidDict == nil {
			r.doc.Warnf("skipping malformed page tree kid")
			continue
		}
		typ, _ := r.name(kidDict["Type"])
		if typ == "Pages" || kidDict["Kids"] != nil {
			sub, err := r.buildPageTree(kidRef, tree, depth+1)
			if err != nil {
				return nil, err
			}
			tree.Kids = append(tree.Kids, sub)
		} else {
			page, err := r.buildPageObject(kidDict, tree)
			if err != nil {
				return nil, err
			}
			tree.Kids = append(tree.Kids, page)
		}
	}
	return tree, nil
}

func (r *resolver) buildPageObject(d model.ObjDict, parent *model.PageTree) (*model.PageObject, error) {
	page := &model.PageObject{Parent: parent}
	if res := r.buildResourcesOrNil(d["Resources"]); res != nil {
		page.Resources = res
	}
	if box, ok := r.rectangle(d["MediaBox"]); ok {
		page.MediaBox = &box
	}
	if box, ok := r.rectangle(d["CropBox"]); ok {
		page.CropBox = &box
	}
	if rot, ok := r.integer(d["Rotate"]); ok {
		rr := model.NewRotation(rot)
		page.Rotate = &rr
	}

	page.Contents = r.buildContents(d["Contents"])
	return page, nil
}

// buildContents resolves /Contents, which is either a single stream or an
// array of streams (spec ยง4.9 "single stream or array of streams"). Each
// stream keeps its own filter pipeline; concatenation into one logical
// byte sequence happens lazily in the render package, which must insert a
// separating whitespace byte between streams per 7.8.2.
func (r *resolver) buildContents(o model.Object) model.Contents {
	switch v := r.resolve(o).(type) {
	case model.ObjStream:
		return model.Contents{r.streamToContentStream(v)}
	case model.ObjArray:
		out := make(model.Contents, 0, len(v))
		for _, item := range v {
			s, ok := r.resolve(item).(model.ObjStream)
			if !ok {
				continue
			}
			out = append(out, r.streamToContentStream(s))
		}
		return out
	default:
		return nil
	}
}

func (r *resolver) streamToContentStream(s model.ObjStream) model.ContentStream {
	filters, err := parser.ParseFilters(s.Args["Filter"], s.Args["DecodeParms"], r.resolveErr)
	if err != nil {
		r.doc.Warnf("invalid filter chain: %s", err)
	}
	return model.ContentStream{Stream: model.Stream{Filter: filters, Content: s.Content}}
}

// resolveErr adapts resolve to the (Object) (Object, error) shape package
// parser's ParseFilters expects; resolution never fails at this layer, a
// dangling reference already collapsed to Null inside resolve itself.
func (r *resolver) resolveErr(o model.Object) (model.Object, error) {
	return r.resolve(o), nil
}
