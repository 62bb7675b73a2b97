package model

// PageNode is either an intermediate PageTree or a leaf PageObject (spec
// ยง4.9 "walks the Pages tree"). Cycles in Kids/Parent back-pointers are
// tolerated: Flatten follows only Kids, and the attribute-inheritance walks
// up Parent stop after maxPageTreeDepth steps, so neither can loop forever.
type PageNode interface {
	isPageNode()
}

func (*PageTree) isPageNode()   {}
func (*PageObject) isPageNode() {}

// PageTree is an intermediate node of the page hierarchy (/Type /Pages).
// Resources, MediaBox, CropBox and Rotate are inherited by descendants
// that don't set their own (spec ยง4.9 "resolves inherited attributes").
type PageTree struct {
	Parent    *PageTree
	Kids      []PageNode
	Resources *ResourcesDict
	MediaBox  *Rectangle
	CropBox   *Rectangle
	Rotate    *Rotation
}

// maxPageTreeDepth bounds the Kids walk against a malicious or accidental
// cycle in the tree, matching the 512 recursion ceiling spec ยง3 requires
// for every traversal of the (otherwise cyclic-tolerant) object graph.
const maxPageTreeDepth = 512

// Count returns the number of leaf PageObjects in the tree.
func (p *PageTree) Count() int { return len(p.Flatten()) }

// Flatten returns every leaf PageObject, in document order (page index i
// is Flatten()[i]).
func (p *PageTree) Flatten() []*PageObject {
	var out []*PageObject
	p.flattenInto(&out, 0)
	return out
}

func (p *PageTree) flattenInto(out *[]*PageObject, depth int) {
	if p == nil || depth > maxPageTreeDepth {
		return
	}
	for _, kid := range p.Kids {
		switch kid := kid.(type) {
		case *PageTree:
			kid.flattenInto(out, depth+1)
		case *PageObject:
			*out = append(*out, kid)
		}
	}
}

// PageObject is a leaf of the page tree (/Type /Page): the unit the
// renderer operates on.
type PageObject struct {
	Parent    *PageTree
	Resources *ResourcesDict // nil means inherit from Parent
	MediaBox  *Rectangle     // nil means inherit from Parent
	CropBox   *Rectangle     // nil means inherit; still nil defaults to MediaBox
	Rotate    *Rotation      // nil means inherit from Parent; only multiples of 90 are valid
	Contents  Contents
}

// Contents lists the page's content streams in /Contents order, one entry
// per stream; they are kept apart here, and the render package decodes them
// and joins them with a newline between streams.
type Contents []ContentStream

// InheritedResources walks Parent pointers until a non-nil /Resources is
// found, defaulting to an empty (but initialized) dictionary.
func (p *PageObject) InheritedResources() ResourcesDict {
	if p.Resources != nil {
		return *p.Resources
	}
	for parent, depth := p.Parent, 0; parent != nil && depth < maxPageTreeDepth; parent, depth = parent.Parent, depth+1 {
		if parent.Resources != nil {
			return *parent.Resources
		}
	}
	return NewResourcesDict()
}

// InheritedMediaBox walks Parent pointers for the nearest /MediaBox,
// defaulting to US Letter (612x792 points) per common reader practice
// when the hierarchy never sets one.
func (p *PageObject) InheritedMediaBox() Rectangle {
	if p.MediaBox != nil {
		return *p.MediaBox
	}
	for parent, depth := p.Parent, 0; parent != nil && depth < maxPageTreeDepth; parent, depth = parent.Parent, depth+1 {
		if parent.MediaBox != nil {
			return *parent.MediaBox
		}
	}
	return Rectangle{0, 0, 612, 792}
}

// InheritedCropBox walks Parent pointers for the nearest /CropBox, falling
// back to the (already-inherited) MediaBox.
func (p *PageObject) InheritedCropBox() Rectangle {
	if p.CropBox != nil {
		return *p.CropBox
	}
	for parent, depth := p.Parent, 0; parent != nil && depth < maxPageTreeDepth; parent, depth = parent.Parent, depth+1 {
		if parent.CropBox != nil {
			return *parent.CropBox
		}
	}
	return p.InheritedMediaBox()
}

// InheritedRotate walks Parent pointers for the nearest /Rotate, defaulting
// to Zero.
func (p *PageObject) InheritedRotate() Rotation {
	if p.Rotate != nil {
		return *p.Rotate
	}
	for parent, depth := p.Parent, 0; parent != nil && depth < maxPageTreeDepth; parent, depth = parent.Parent, depth+1 {
		if parent.Rotate != nil {
			return *parent.Rotate
		}
	}
	return Zero
}
