package jp2k

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeBox builds one JP2 box with an explicit 32-bit length field.
func makeBox(typ string, content []byte) []byte {
	var buf bytes.Buffer
	var lenField [4]byte
	binary.BigEndian.PutUint32(lenField[:], uint32(8+len(content)))
	buf.Write(lenField[:])
	buf.WriteString(typ)
	buf.Write(content)
	return buf.Bytes()
}

func TestReadBoxExplicitLength(t *testing.T) {
	data := makeBox("ftyp", []byte("jp2 "))
	b, err := readBox(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "ftyp", string(b.typ[:]))
	assert.Equal(t, []byte("jp2 "), b.content)
}

func TestReadBoxRestOfFile(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 0}) // length 0: box extends to EOF
	buf.WriteString("jp2c")
	payload := []byte{0xff, 0x4f, 0x01, 0x02, 0x03}
	buf.Write(payload)

	b, err := readBox(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "jp2c", string(b.typ[:]))
	assert.Equal(t, payload, b.content)
}

func TestExtractCodestreamFindsRestOfFileJP2CBox(t *testing.T) {
	var data []byte
	data = append(data, makeBox("ftyp", []byte("jp2 "))...)
	data = append(data, makeBox("jp2h", []byte("ihdr-stub"))...)
	// jp2c encoded as "rest of file" (length field 0), the common
	// real-world layout for the final box in a JP2 file.
	var jp2c bytes.Buffer
	jp2c.Write([]byte{0, 0, 0, 0})
	jp2c.WriteString("jp2c")
	codestream := []byte{0xff, 0x4f, 0xff, 0x51, 0x00, 0x00}
	jp2c.Write(codestream)
	data = append(data, jp2c.Bytes()...)

	got, err := extractCodestream(data)
	require.NoError(t, err)
	assert.Equal(t, codestream, got)
}

func TestExtractCodestreamExplicitLengthJP2CBox(t *testing.T) {
	var data []byte
	data = append(data, makeBox("ftyp", []byte("jp2 "))...)
	codestream := []byte{0xff, 0x4f, 0xff, 0x51}
	data = append(data, makeBox("jp2c", codestream)...)

	got, err := extractCodestream(data)
	require.NoError(t, err)
	assert.Equal(t, codestream, got)
}

func TestExtractCodestreamNoJP2CBox(t *testing.T) {
	data := makeBox("ftyp", []byte("jp2 "))
	_, err := extractCodestream(data)
	assert.Error(t, err)
}

func TestDecodeRejectsUnknownFormat(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not a jpeg 2000 stream at all")))
	assert.Error(t, err)
}
