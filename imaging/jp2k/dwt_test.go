package jp2k

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifting53InverseAllZero(t *testing.T) {
	x := make([]int32, 8)
	lifting53Inverse(x)
	for _, v := range x {
		assert.Equal(t, int32(0), v)
	}
}

func TestLifting53InverseShortInputNoop(t *testing.T) {
	x := []int32{7}
	lifting53Inverse(x)
	assert.Equal(t, []int32{7}, x)
}

func TestLifting97InverseAllZero(t *testing.T) {
	x := make([]float64, 8)
	lifting97Inverse(x)
	for _, v := range x {
		assert.InDelta(t, 0, v, 1e-9)
	}
}

func TestPlaneAtSet(t *testing.T) {
	p := newPlane(3, 2)
	p.set(2, 1, 42)
	assert.Equal(t, int32(42), p.at(2, 1))
	assert.Equal(t, int32(0), p.at(0, 0))
}

func TestIDWT2D53AllZeroStaysZero(t *testing.T) {
	p := newPlane(4, 4)
	idwt2D53(p)
	for _, v := range p.pix {
		assert.Equal(t, int32(0), v)
	}
}

func TestInterleaveLayout(t *testing.T) {
	ll := newPlane(1, 1)
	ll.set(0, 0, 1)
	hl := newPlane(1, 1)
	hl.set(0, 0, 2)
	lh := newPlane(1, 1)
	lh.set(0, 0, 3)
	hh := newPlane(1, 1)
	hh.set(0, 0, 4)

	out := interleave(ll, hl, lh, hh)
	assert.Equal(t, 2, out.w)
	assert.Equal(t, 2, out.h)
	assert.Equal(t, int32(1), out.at(0, 0))
	assert.Equal(t, int32(2), out.at(1, 0))
	assert.Equal(t, int32(3), out.at(0, 1))
	assert.Equal(t, int32(4), out.at(1, 1))
}

func TestSign(t *testing.T) {
	assert.Equal(t, -1.0, sign(-3.2))
	assert.Equal(t, 1.0, sign(0))
	assert.Equal(t, 1.0, sign(3.2))
}
