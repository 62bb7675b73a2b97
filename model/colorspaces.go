package model

import "fmt"

// ColorSpaceName names one of the three device colour spaces, which are
// the only ones this reader evaluates precisely: content producers rarely
// rely on exact CIE-based reproduction, and resolving a device colour is
// all a software rasterizer needs to composite pixels.
type ColorSpaceName Name

const (
	ColorSpaceGray ColorSpaceName = "DeviceGray"
	ColorSpaceRGB  ColorSpaceName = "DeviceRGB"
	ColorSpaceCMYK ColorSpaceName = "DeviceCMYK"
)

// ColorSpace turns a colour's numeric components, as found in content
// stream colour operators (sc, scn, ...) or image sample data, into linear
// RGB in [0, 1].
type ColorSpace interface {
	// NbColorComponents is the number of numbers making up one colour.
	NbColorComponents() int
	ToRGB(comps []Fl) [3]Fl
}

func (c ColorSpaceName) NbColorComponents() int {
	switch c {
	case ColorSpaceGray:
		return 1
	case ColorSpaceCMYK:
		return 4
	default: // ColorSpaceRGB and anything else resolved to this name
		return 3
	}
}

func (c ColorSpaceName) ToRGB(comps []Fl) [3]Fl {
	switch c {
	case ColorSpaceGray:
		if len(comps) < 1 {
			return [3]Fl{}
		}
		g := clamp01(comps[0])
		return [3]Fl{g, g, g}
	case ColorSpaceCMYK:
		if len(comps) < 4 {
			return [3]Fl{}
		}
		return cmykToRGB(comps[0], comps[1], comps[2], comps[3])
	default:
		if len(comps) < 3 {
			return [3]Fl{}
		}
		return [3]Fl{clamp01(comps[0]), clamp01(comps[1]), clamp01(comps[2])}
	}
}

func clamp01(f Fl) Fl {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func cmykToRGB(c, m, y, k Fl) [3]Fl {
	c, m, y, k = clamp01(c), clamp01(m), clamp01(y), clamp01(k)
	return [3]Fl{
		(1 - c) * (1 - k),
		(1 - m) * (1 - k),
		(1 - y) * (1 - k),
	}
}

// ColorTable is the palette of an Indexed colour space: either bytes found
// directly inline, or the decoded content of a resource-dict stream.
type ColorTable interface {
	Bytes() []byte
}

// ColorTableBytes is a palette given as a raw byte string, as allowed for
// inline images.
type ColorTableBytes []byte

func (c ColorTableBytes) Bytes() []byte { return []byte(c) }

// ColorTableStream is a palette stored as a content stream; DecodedContent
// must hold the stream content after its filter pipeline has been applied.
type ColorTableStream struct {
	DecodedContent []byte
}

func (c ColorTableStream) Bytes() []byte { return c.DecodedContent }

// ColorSpaceIndexed is a palette colour space: one colour component, an
// index into Lookup, itself expressed in components of Base.
type ColorSpaceIndexed struct {
	Base   ColorSpaceName
	Hival  uint8
	Lookup ColorTable
}

func (c ColorSpaceIndexed) NbColorComponents() int { return 1 }

func (c ColorSpaceIndexed) ToRGB(comps []Fl) [3]Fl {
	if len(comps) == 0 || c.Lookup == nil {
		return [3]Fl{}
	}
	index := int(comps[0])
	n := c.Base.NbColorComponents()
	table := c.Lookup.Bytes()
	start := index * n
	if start < 0 || start+n > len(table) {
		return [3]Fl{}
	}
	baseComps := make([]Fl, n)
	for i := 0; i < n; i++ {
		baseComps[i] = Fl(table[start+i]) / 255
	}
	return c.Base.ToRGB(baseComps)
}

// UnsupportedColorSpace stands in for colour spaces this reader does not
// interpret precisely: CalGray, CalRGB, Lab, ICCBased, Separation, DeviceN.
// Colours are approximated as mid-grey, so rendering degrades gracefully
// instead of failing outright.
type UnsupportedColorSpace struct {
	Name string
	N    int // declared number of components; 0 defaults to 1
}

func (c UnsupportedColorSpace) NbColorComponents() int {
	if c.N <= 0 {
		return 1
	}
	return c.N
}

func (c UnsupportedColorSpace) ToRGB([]Fl) [3]Fl {
	return [3]Fl{0.5, 0.5, 0.5}
}

// ResourcesColorSpace is the /ColorSpace subset of a page's resources,
// enough to resolve the colour space operands used by content streams and
// inline images.
type ResourcesColorSpace map[Name]ColorSpace

// Resolve returns the colour space registered under `name`, falling back to
// the three device spaces which may be referenced without appearing in the
// resource dictionary.
func (r ResourcesColorSpace) Resolve(name Name) (ColorSpace, error) {
	switch ColorSpaceName(name) {
	case ColorSpaceGray, ColorSpaceRGB, ColorSpaceCMYK:
		return ColorSpaceName(name), nil
	}
	if cs, ok := r[name]; ok && cs != nil {
		return cs, nil
	}
	return nil, fmt.Errorf("unknown color space %s", name)
}

// Pattern is either a tiling or shading pattern. Pattern fills are not
// rasterized precisely by this engine; the interpreter substitutes a flat
// approximation (see UnsupportedColorSpace), so no concrete implementation
// is required here beyond letting resource dictionaries record their names.
type Pattern interface {
	isPattern()
}

// ShadingDict records enough of a shading dictionary to note its presence
// in a resource dictionary; gradient evaluation is not implemented.
type ShadingDict struct {
	ColorSpace ColorSpace
}

// PropertyList is the (unresolved) dictionary referenced by a marked-content
// BDC/DP operator. This engine does not interpret marked content for
// structure purposes, only records that a property list was referenced.
type PropertyList struct{}
