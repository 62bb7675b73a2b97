package file

import (
	"bytes"
	"fmt"
	"testing"
)

// buildMinimalPDF assembles a tiny, valid, single-page PDF with a
// traditional (table-based) cross-reference section, recording the file
// offset of each indirect object as it is written.
func buildMinimalPDF() (data []byte, offsets map[int]int64) {
	var buf bytes.Buffer
	offsets = map[int]int64{}

	buf.WriteString("%PDF-1.7\n")

	offsets[1] = int64(buf.Len())
	buf.WriteString("1 0 obj\n<</Type/Catalog/Pages 2 0 R>>\nendobj\n")

	offsets[2] = int64(buf.Len())
	buf.WriteString("2 0 obj\n<</Type/Pages/Kids[3 0 R]/Count 1>>\nendobj\n")

	offsets[3] = int64(buf.Len())
	buf.WriteString("3 0 obj\n<</Type/Page/Parent 2 0 R/MediaBox[0 0 612 792]/Resources<<>>/Contents 4 0 R>>\nendobj\n")

	offsets[4] = int64(buf.Len())
	content := "BT /F1 12 Tf 72 712 Td (Hello) Tj ET"
	fmt.Fprintf(&buf, "4 0 obj\n<</Length %d>>\nstream\n%s\nendstream\nendobj\n", len(content), content)

	xrefOffset := int64(buf.Len())
	buf.WriteString("xref\n0 5\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 4; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	buf.WriteString("trailer\n<</Size 5/Root 1 0 R>>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF", xrefOffset)

	return buf.Bytes(), offsets
}

func TestOffset(t *testing.T) {
	data, offsets := buildMinimalPDF()

	ctx, err := newContext(bytes.NewReader(data), nil)
	if err != nil {
		t.Fatal(err)
	}
	o, err := ctx.offsetLastXRefSection(0)
	if err != nil {
		t.Fatal(err)
	}

	err = ctx.buildXRefTableStartingAt(o)
	if err != nil {
		t.Fatal(err)
	}
	// 4 real objects plus the free-list head the table lists as object 0.
	if L := len(ctx.xrefTable.objects); L != 5 {
		t.Errorf("expected 5 xref entries, got %d", L)
	}
	for on, expectedOffset := range offsets {
		ref := -1
		for r, entry := range ctx.xrefTable.objects {
			if r.ObjectNumber == on {
				ref = int(entry.offset)
			}
		}
		if int64(ref) != expectedOffset {
			t.Errorf("object %d: expected offset %d, got %d", on, expectedOffset, ref)
		}
	}
}

func BenchmarkReadXRef(b *testing.B) {
	data, _ := buildMinimalPDF()
	for i := 0; i < b.N; i++ {
		if _, err := Read(bytes.NewReader(data), nil); err != nil {
			b.Fatal(err)
		}
	}
}

func TestLines(t *testing.T) {
	expected := [...]string{
		"abc",
		"d",
		" ",
		"efgh ",
	}
	expectedOffsets := [...]int64{2, 7, 9, 11}
	input := []byte("\r\nabc\r\nd\r \nefgh \r\n\n\n")
	tk := newLineReader(bytes.NewReader(input))
	var (
		sl      []byte
		lines   [4]string
		offsets [4]int64
	)
	sl, offsets[0] = tk.readLine()
	lines[0] = string(sl)
	sl, offsets[1] = tk.readLine()
	lines[1] = string(sl)
	sl, offsets[2] = tk.readLine()
	lines[2] = string(sl)
	sl, offsets[3] = tk.readLine()
	lines[3] = string(sl)

	if lines != expected {
		t.Errorf("expected lines %v, got %v", expected, lines)
	}
	if expectedOffsets != offsets {
		t.Errorf("expected lines %v, got %v", expectedOffsets, offsets)
	}
	if l, _ := tk.readLine(); len(l) != 0 {
		t.Error("unexpected input")
	}
}

func TestBypass(t *testing.T) {
	data, _ := buildMinimalPDF()

	ctx, err := newContext(bytes.NewReader(data), nil)
	if err != nil {
		t.Fatal(err)
	}
	err = ctx.bypassXrefSection()
	if err != nil {
		t.Fatal(err)
	}
	// 4 real objects plus the synthetic free-list head at object 0.
	if L := len(ctx.xrefTable.objects); L != 5 {
		t.Errorf("expected 5 xref entries, got %d", L)
	}
}

func TestReadMinimal(t *testing.T) {
	data, _ := buildMinimalPDF()

	out, err := Read(bytes.NewReader(data), nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Root.ObjectNumber != 1 {
		t.Errorf("expected Root to reference object 1, got %d", out.Root.ObjectNumber)
	}
	if out.HeaderVersion != "1.7" {
		t.Errorf("expected header version 1.7, got %s", out.HeaderVersion)
	}
	if len(out.XrefTable) != 4 {
		t.Errorf("expected 4 resolved objects, got %d", len(out.XrefTable))
	}
}
