package file

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/benoitkugler/pdf/reader/parser"
)

// buildXRefStreamPDF assembles a tiny PDF using a cross-reference stream
// (as introduced in PDF 1.5) instead of a traditional xref table, with an
// uncompressed W=[1 2 1] entry layout so the test can check the decoded
// offsets without involving a Flate codec.
func buildXRefStreamPDF() (data []byte, offsets map[int]int64) {
	var buf bytes.Buffer
	offsets = map[int]int64{}

	buf.WriteString("%PDF-1.5\n")

	offsets[1] = int64(buf.Len())
	buf.WriteString("1 0 obj\n<</Type/Catalog/Pages 2 0 R>>\nendobj\n")

	offsets[2] = int64(buf.Len())
	buf.WriteString("2 0 obj\n<</Type/Pages/Kids[]/Count 0>>\nendobj\n")

	offsets[3] = int64(buf.Len())
	buf.WriteString("3 0 obj\n<</Length 0>>\nstream\n\nendstream\nendobj\n")

	xrefObjOffset := int64(buf.Len())
	offsets[4] = xrefObjOffset // the xref stream is object 4, self-referencing

	entry := func(typ byte, f2 int, f3 int) []byte {
		return []byte{typ, byte(f2 >> 8), byte(f2), byte(f3)}
	}
	var entries bytes.Buffer
	entries.Write(entry(0, 0, 255))                 // object 0: free list head
	entries.Write(entry(1, int(offsets[1]), 0))      // object 1
	entries.Write(entry(1, int(offsets[2]), 0))      // object 2
	entries.Write(entry(1, int(offsets[3]), 0))      // object 3
	entries.Write(entry(1, int(xrefObjOffset), 0))   // object 4 (self)

	fmt.Fprintf(&buf, "4 0 obj\n<</Type/XRef/Size 5/W[1 2 1]/Root 1 0 R/Length %d>>\nstream\n", entries.Len())
	buf.Write(entries.Bytes())
	buf.WriteString("\nendstream\nendobj\n")

	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF", xrefObjOffset)

	return buf.Bytes(), offsets
}

func TestXrefStream(t *testing.T) {
	data, expected := buildXRefStreamPDF()

	ctx, err := newContext(bytes.NewReader(data), nil)
	if err != nil {
		t.Fatal(err)
	}
	o, err := ctx.offsetLastXRefSection(0)
	if err != nil {
		t.Fatal(err)
	}

	ctx.HeaderVersion, err = headerVersion(ctx.rs)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.parseXRefStream(o); err != nil {
		t.Fatal(err)
	}

	for obj, entry := range ctx.xrefTable.objects {
		if entry.free {
			continue
		}
		expectedOffset, ok := expected[obj.ObjectNumber]
		if !ok {
			t.Fatalf("unexpected object %d in xref table", obj.ObjectNumber)
		}
		if entry.offset != expectedOffset {
			t.Fatalf("for object %d, expected %d, got %d", obj.ObjectNumber, expectedOffset, entry.offset)
		}
	}
	if ctx.trailer.root == nil || ctx.trailer.root.ObjectNumber != 1 {
		t.Fatal("expected Root to resolve to object 1")
	}
	if ctx.trailer.size != 5 {
		t.Errorf("expected Size 5, got %d", ctx.trailer.size)
	}

	// sanity check parseXRefStreamDict independently
	d := parser.Dict{
		"Size":   parser.Integer(5),
		"W":      parser.Array{parser.Integer(1), parser.Integer(2), parser.Integer(1)},
		"Length": parser.Integer(20),
	}
	sd, err := parseXRefStreamDict(d)
	if err != nil {
		t.Fatal(err)
	}
	if sd.count() != 5 || sd.entrySize() != 4 {
		t.Errorf("unexpected xrefStreamDict: %+v", sd)
	}
}
