// Package model is the in-memory, typed object model a parsed PDF is
// turned into: a tagged `Object` sum for the raw syntax tree (types.go),
// and the higher-level `Document`/`Catalog`/`PageTree` shapes the `reader`
// package builds on top of it once references are resolved.
//
// Unlike the teacher this package is derived from, this model is read-only:
// there is no `Write`/`WriteFile` here, since serializing PDFs is out of
// scope for this engine (see spec ยง1 non-goals). `Document` only ever
// flows one way, from bytes to pixels.
package model

import (
	"fmt"
	"time"
)

// Document is the top-level handle returned once a PDF has been parsed and
// its object graph bound into typed values. It never owns a back-reference
// to the byte source: all lazy resolution has already happened by the time
// a Document exists (see the `reader` package for how it's built).
type Document struct {
	Version string // header version, e.g. "1.7"
	Catalog Catalog
	Trailer Trailer

	// Warnings accumulates non-fatal recovery notes produced while the
	// object layer worked around malformed input (spec ยง7, "lenient for
	// the object layer"): unresolved references, out-of-range indices,
	// type mismatches papered over with a zero value.
	Warnings []string
}

// Warnf appends a formatted warning to the document's lenient-recovery log.
func (doc *Document) Warnf(format string, args ...interface{}) {
	doc.Warnings = append(doc.Warnings, fmt.Sprintf(format, args...))
}

// Catalog is the root of the document: the page tree plus the metadata a
// caller can reach without walking into page content.
type Catalog struct {
	Pages PageTree
}

// Trailer carries the document-level metadata kept outside the Catalog:
// the Info dictionary and the file identifier used by the encryption
// key-derivation algorithm (spec ยง4.4).
type Trailer struct {
	Info Info
	ID   [2]string
}

// Info is the /Info dictionary: free-form descriptive metadata (spec ยง6
// "metadata map"). Every field is optional and left empty when absent or
// unreadable.
type Info struct {
	Title        string
	Author       string
	Subject      string
	Keywords     string
	Creator      string
	Producer     string
	CreationDate time.Time
	ModDate      time.Time
}
