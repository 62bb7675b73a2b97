package jpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHuffTableSymbolCountMismatch(t *testing.T) {
	var counts [16]byte
	counts[0] = 2 // claims two 1-bit codes
	_, err := buildHuffTable(counts, []byte{0x01})
	assert.Error(t, err)
}

func TestBuildHuffTableSingleCode(t *testing.T) {
	var counts [16]byte
	counts[0] = 1 // one symbol of length 1
	h, err := buildHuffTable(counts, []byte{0x42})
	require.NoError(t, err)
	assert.Equal(t, 1, h.maxCodeLen)
	assert.Equal(t, int32(0), h.minCode[1])
	assert.Equal(t, int32(0), h.maxCode[1])
	// the fast table's top bit selects the only code, symbol 0x42.
	assert.Equal(t, uint16(0x42)<<8|1, h.fast[0])
	assert.Equal(t, uint16(0x42)<<8|1, h.fast[127])
	assert.Equal(t, uint16(0), h.fast[128])
}

func TestBuildHuffTableTwoLengths(t *testing.T) {
	var counts [16]byte
	counts[0] = 1 // one symbol of length 1: code 0
	counts[1] = 1 // one symbol of length 2: code 2 (10)
	h, err := buildHuffTable(counts, []byte{0xAA, 0xBB})
	require.NoError(t, err)
	assert.Equal(t, int32(0), h.minCode[1])
	assert.Equal(t, int32(2), h.minCode[2])
	assert.Equal(t, int32(2), h.maxCode[2])
	// code "0" (length 1) occupies the top half of the fast table.
	assert.Equal(t, uint16(0xAA)<<8|1, h.fast[0])
	// code "10" (length 2) occupies entries with top two bits 10.
	assert.Equal(t, uint16(0xBB)<<8|2, h.fast[0x80])
}
