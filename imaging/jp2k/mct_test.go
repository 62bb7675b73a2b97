package jp2k

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInverseRCTZeroChromaIsGray(t *testing.T) {
	y := []int32{10, 20, 30}
	cb := []int32{0, 0, 0}
	cr := []int32{0, 0, 0}
	inverseRCT(y, cb, cr)
	assert.Equal(t, []int32{10, 20, 30}, y)
	assert.Equal(t, []int32{10, 20, 30}, cb)
	assert.Equal(t, []int32{10, 20, 30}, cr)
}

func TestInverseICTZeroChromaIsGray(t *testing.T) {
	y := []int32{100}
	cb := []int32{0}
	cr := []int32{0}
	inverseICT(y, cb, cr)
	assert.Equal(t, int32(100), y[0])
	assert.Equal(t, int32(100), cb[0])
	assert.Equal(t, int32(100), cr[0])
}
