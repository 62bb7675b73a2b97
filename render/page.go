// Package render implements render_page: turning one parsed PDF page into
// an RGB raster.Bitmap by driving the content-stream interpreter (spec §6).
package render

import (
	"bytes"
	"fmt"

	"github.com/benoitkugler/pdf/contentstream"
	"github.com/benoitkugler/pdf/model"
	"github.com/benoitkugler/pdf/raster"
	"github.com/benoitkugler/pdf/reader/parser"
	"golang.org/x/sync/errgroup"
)

// joinedContent concatenates a page's content streams, separated by a
// newline so an operator split across two streams never runs its final
// and first tokens together (7.8.2: "the division between streams may
// occur only at the boundaries between lexical tokens").
func joinedContent(streams model.Contents) ([]byte, error) {
	var buf bytes.Buffer
	for i, cs := range streams {
		data, err := cs.Decode()
		if err != nil {
			return nil, fmt.Errorf("content stream %d: %w", i, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// parseContentOps decodes and parses a Form XObject's content stream, the
// same pipeline a page's top-level /Contents goes through in
// renderOnePage, reused here so a `Do` on a Form doesn't duplicate that
// decode-then-parse sequence.
func parseContentOps(stream model.Stream, res model.ResourcesColorSpace) ([]contentstream.Operation, error) {
	data, err := stream.Decode()
	if err != nil {
		return nil, err
	}
	return parser.ParseContent(data, res)
}

// pageCTM builds the matrix mapping unrotated, origin-at-lower-left PDF
// user space (inside mb) to a top-left-origin, Y-down device bitmap of
// size pw x ph, applying /Rotate (7.7.3.3: clockwise when viewed) before
// the final flip. Grounded on the common page-to-device derivation every
// PDF rasterizer performs; this engine's version is untested against a
// reference image, so the rotation direction is a best-effort reading of
// 7.7.3.3 rather than something verified pixel-for-pixel.
func pageCTM(mb model.Rectangle, rotate model.Rotation, pw, ph int) model.Matrix {
	base := model.Translated(-mb.Llx, -mb.Lly)

	w, h := mb.Width(), mb.Height()
	rot := model.Identity
	rw, rh := w, h
	switch rotate {
	case model.Quarter:
		rot = model.Matrix{0, 1, -1, 0, h, 0}
		rw, rh = h, w
	case model.Half:
		rot = model.Matrix{-1, 0, 0, -1, w, h}
	case model.ThreeQuarter:
		rot = model.Matrix{0, -1, 1, 0, 0, w}
		rw, rh = h, w
	}

	var sx, sy model.Fl
	if rw > 0 {
		sx = model.Fl(pw) / rw
	}
	if rh > 0 {
		sy = model.Fl(ph) / rh
	}
	flip := model.Matrix{sx, 0, 0, -sy, 0, model.Fl(ph)}

	return base.Multiply(rot).Multiply(flip)
}

// RenderPage rasterizes the index'th page (0-based) of doc at opts.Width x
// opts.Height, returning nil (no error) when index is out of range, the
// Option<Bitmap> shape spec §7 calls for: an invalid page is not this
// engine's error to raise, it's the caller asking for something that
// doesn't exist.
func RenderPage(doc *model.Document, index int, opts Options) (*raster.Bitmap, error) {
	opts, err := opts.validated()
	if err != nil {
		return nil, err
	}
	pages := doc.Catalog.Pages.Flatten()
	if index < 0 || index >= len(pages) {
		return nil, nil
	}
	return renderOnePage(doc, pages[index], opts)
}

func renderOnePage(doc *model.Document, page *model.PageObject, opts Options) (*raster.Bitmap, error) {
	dst := raster.NewBitmap(opts.Width, opts.Height, raster.BGRA)
	dst.FillOpaque(opts.Background[0], opts.Background[1], opts.Background[2])

	mb := page.InheritedMediaBox()
	rotate := page.InheritedRotate()
	ctm := pageCTM(mb, rotate, opts.Width, opts.Height)

	content, err := joinedContent(page.Contents)
	if err != nil {
		return nil, fmt.Errorf("page content: %w", err)
	}
	res := page.InheritedResources()
	ops, err := parser.ParseContent(content, model.ResourcesColorSpace(res.ColorSpace))
	if err != nil {
		return nil, fmt.Errorf("page content: %w", err)
	}

	it := newInterpreter(doc, dst, ctm)
	it.run(ops, &res)
	return dst, nil
}

// RenderPages rasterizes every page of doc concurrently, one goroutine per
// page (spec §5's "if an implementation parallelizes" clause governs this
// path: it.warnf serializes the shared Warnings log every page's
// interpreter writes through).
func RenderPages(doc *model.Document, opts Options) ([]*raster.Bitmap, error) {
	opts, err := opts.validated()
	if err != nil {
		return nil, err
	}
	pages := doc.Catalog.Pages.Flatten()
	out := make([]*raster.Bitmap, len(pages))

	var g errgroup.Group
	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			bmp, err := renderOnePage(doc, page, opts)
			if err != nil {
				return fmt.Errorf("page %d: %w", i, err)
			}
			out[i] = bmp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
