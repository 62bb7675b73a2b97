package jp2k

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog2Ceil(t *testing.T) {
	assert.Equal(t, 0, log2Ceil(1))
	assert.Equal(t, 1, log2Ceil(2))
	assert.Equal(t, 2, log2Ceil(3))
	assert.Equal(t, 2, log2Ceil(4))
	assert.Equal(t, 3, log2Ceil(5))
}

func TestNumPassesCodeOnePass(t *testing.T) {
	br := newPacketBitReader([]byte{0b0_0000000})
	assert.Equal(t, 1, numPassesCode(br))
}

func TestNumPassesCodeTwoPasses(t *testing.T) {
	br := newPacketBitReader([]byte{0b10_000000})
	assert.Equal(t, 2, numPassesCode(br))
}

func TestNumPassesCodeThreeToFive(t *testing.T) {
	// "11" + 2 bits value 1 -> 3+1 = 4 passes
	br := newPacketBitReader([]byte{0b1101_0000})
	assert.Equal(t, 4, numPassesCode(br))
}

func TestNumPassesCodeSixToThirtySeven(t *testing.T) {
	// bit0=1, bit1=1, then "11" (2-bit escape), then 5 bits value 2
	// -> 6+2 = 8 passes
	br := newPacketBitReader([]byte{0b11110001, 0b00000000})
	assert.Equal(t, 8, numPassesCode(br))
}

func TestPacketBitReaderBitStuffing(t *testing.T) {
	// after a 0xFF byte, the next byte only contributes its low 7 bits.
	br := newPacketBitReader([]byte{0xff, 0x81})
	bits := make([]int, 8+7)
	for i := range bits {
		bits[i] = br.readBit()
	}
	// first byte: all 8 bits of 0xff
	for i := 0; i < 8; i++ {
		assert.Equal(t, 1, bits[i], "bit %d", i)
	}
	// second byte 0x81 = 1000_0001, but only the low 7 bits (000_0001) are
	// read after a preceding 0xff, MSB forced off per the stuffing rule.
	want := []int{0, 0, 0, 0, 0, 0, 1}
	assert.Equal(t, want, bits[8:])
}

func TestPacketBitReaderAlignToByte(t *testing.T) {
	br := newPacketBitReader([]byte{0xf0, 0x0f})
	br.readBit()
	br.readBit()
	br.readBit()
	assert.Equal(t, 0, br.bytePos)
	br.alignToByte()
	assert.Equal(t, 1, br.bytePos)
	assert.Equal(t, uint(0), br.bitPos)
}

func TestNewSubbandZeroSize(t *testing.T) {
	sb := newSubband(orientHL, 0, 0, 0, 0, 6, 6)
	assert.Nil(t, sb.blocks)
}

func TestNewSubbandCodeBlockGrid(t *testing.T) {
	sb := newSubband(orientLL, 0, 0, 10, 10, 2, 2) // 4x4 code blocks
	assert.Equal(t, 3, sb.cbW)
	assert.Equal(t, 3, sb.cbH)
	assert.Len(t, sb.blocks, 9)
	// last column/row blocks are clipped to the sub-band boundary.
	last := sb.blocks[len(sb.blocks)-1]
	assert.Equal(t, 2, last.w)
	assert.Equal(t, 2, last.h)
}
