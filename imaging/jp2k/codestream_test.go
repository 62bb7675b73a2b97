package jp2k

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPrecinctsMeansNoPartition(t *testing.T) {
	w, h := defaultPrecincts(3)
	require.Len(t, w, 3)
	require.Len(t, h, 3)
	for i := range w {
		assert.Equal(t, 15, w[i])
		assert.Equal(t, 15, h[i])
	}
}

func TestParseQuantSegNoQuantization(t *testing.T) {
	d := &decoder{}
	// SQcd = style 0, guard bits 3 (0b011_00000); one exponent byte per
	// sub-band, exponent in the top 5 bits.
	seg := []byte{0b011_00000, 8 << 3, 9 << 3}
	q := d.parseQuantSeg(seg)
	assert.Equal(t, 0, q.style)
	assert.Equal(t, 3, q.guardBits)
	assert.Equal(t, []int{8, 9}, q.exponents)
	assert.Equal(t, []int{0, 0}, q.mantissas)
}

func TestParseQuantSegScalarExpounded(t *testing.T) {
	d := &decoder{}
	var buf bytes.Buffer
	buf.WriteByte(0b010_00010) // style 2, guard bits 2
	var entry [2]byte
	// exponent 7, mantissa 100 packed as exponent<<11 | mantissa
	binary.BigEndian.PutUint16(entry[:], uint16(7<<11|100))
	buf.Write(entry[:])
	q := d.parseQuantSeg(buf.Bytes())
	assert.Equal(t, 2, q.style)
	assert.Equal(t, 2, q.guardBits)
	assert.Equal(t, []int{7}, q.exponents)
	assert.Equal(t, []int{100}, q.mantissas)
}

func TestCodingStyleForFallsBackToDefault(t *testing.T) {
	d := &decoder{cod: codingStyle{numDecomps: 5}, coc: map[int]codingStyle{2: {numDecomps: 1}}}
	assert.Equal(t, 1, d.codingStyleFor(2).numDecomps)
	assert.Equal(t, 5, d.codingStyleFor(0).numDecomps)
}

func TestQuantStyleForFallsBackToDefault(t *testing.T) {
	d := &decoder{qcd: quantStyle{guardBits: 4}, qcc: map[int]quantStyle{1: {guardBits: 2}}}
	assert.Equal(t, 2, d.quantStyleFor(1).guardBits)
	assert.Equal(t, 4, d.quantStyleFor(0).guardBits)
}

func TestReadUint16(t *testing.T) {
	d := &decoder{r: bytes.NewReader([]byte{0x01, 0x02})}
	v, err := d.readUint16()
	require.NoError(t, err)
	assert.Equal(t, 0x0102, v)
}

func TestReadMarkerRejectsNonFF(t *testing.T) {
	d := &decoder{r: bytes.NewReader([]byte{0x00, 0x51})}
	_, err := d.readMarker()
	assert.Error(t, err)
}

func TestReadMarkerParsesSIZ(t *testing.T) {
	d := &decoder{r: bytes.NewReader([]byte{0xff, byte(markerSIZ)})}
	m, err := d.readMarker()
	require.NoError(t, err)
	assert.Equal(t, markerSIZ, m)
}
