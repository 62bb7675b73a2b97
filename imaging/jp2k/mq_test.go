package jp2k

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMQStatesTableShape(t *testing.T) {
	require.Len(t, mqStates, 47)
	for i, s := range mqStates {
		assert.True(t, s.qe > 0, "state %d has zero Qe", i)
		assert.True(t, int(s.nmps) < 47, "state %d nmps out of range", i)
		assert.True(t, int(s.nlps) < 47, "state %d nlps out of range", i)
	}
}

func TestDefaultContexts(t *testing.T) {
	ctx := defaultContexts()
	assert.Equal(t, uint8(4), ctx[ctxZeroCodingStart].state)
	assert.Equal(t, uint8(3), ctx[ctxRunLen].state)
	assert.Equal(t, uint8(46), ctx[ctxUniform].state)
	for i := ctxZeroCodingStart + 1; i < ctxSignStart; i++ {
		assert.Equal(t, uint8(0), ctx[i].state)
	}
}

func TestMQContextIndicesDoNotCollide(t *testing.T) {
	seen := map[int]bool{}
	indices := []int{}
	for i := ctxZeroCodingStart; i < ctxZeroCodingStart+9; i++ {
		indices = append(indices, i)
	}
	for i := ctxSignStart; i < ctxSignStart+5; i++ {
		indices = append(indices, i)
	}
	for i := ctxMagRefStart; i < ctxMagRefStart+3; i++ {
		indices = append(indices, i)
	}
	indices = append(indices, ctxRunLen, ctxUniform)
	for _, idx := range indices {
		assert.False(t, seen[idx], "context index %d used twice", idx)
		seen[idx] = true
		assert.True(t, idx >= 0 && idx < 19, "context index %d out of [0,19)", idx)
	}
	assert.Len(t, seen, 19)
}

func TestRawDecoderMSBFirst(t *testing.T) {
	r := newRawDecoder([]byte{0b10110000})
	bits := make([]int, 8)
	for i := range bits {
		bits[i] = r.decode()
	}
	assert.Equal(t, []int{1, 0, 1, 1, 0, 0, 0, 0}, bits)
}

func TestMQDecoderInitDecDoesNotPanicOnEmptyData(t *testing.T) {
	assert.NotPanics(t, func() {
		d := newMQDecoder(nil)
		_ = d.decode(ctxUniform)
	})
}
