package render

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Flags mirrors the render_page bitmask (spec §6): most of it (LcdText,
// ForceHalftone, printing-specific smoothing) has no effect on this
// engine's single anti-aliased rasterizer, but the flags are still parsed
// and stored so a caller's existing flag combinations round-trip. No part
// of the renderer reads them: Grayscale and Annotations do not change the
// output either, and the bitmap format is the same for every flag set.
type Flags uint32

const (
	FlagAnnotations Flags = 1 << iota
	FlagLcdText
	FlagNoNativeText
	FlagGrayscale
	FlagLimitImageCache
	FlagForceHalftone
	FlagPrinting
	FlagNoSmoothText
	FlagNoSmoothImage
	FlagNoSmoothPath
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }

// Options configures one render_page call. Grounded on the teacher's
// go-playground/validator usage pattern for its own input DTOs (see
// SPEC_FULL.md's domain-stack section): struct tags express the
// constraints instead of hand-written range checks scattered through
// RenderPage.
type Options struct {
	Width      int `validate:"required,gt=0,lte=20000"`
	Height     int `validate:"required,gt=0,lte=20000"`
	Background [3]uint8
	Flags      Flags
}

var validate = validator.New()

func (o Options) validated() (Options, error) {
	if err := validate.Struct(o); err != nil {
		return o, fmt.Errorf("render options: %w", err)
	}
	return o, nil
}
