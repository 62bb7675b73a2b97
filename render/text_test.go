package render

import (
	"testing"

	"github.com/benoitkugler/pdf/model"
	"github.com/stretchr/testify/assert"
)

func TestApplyFMapsThroughMatrix(t *testing.T) {
	m := model.Translated(1, 2)
	got := applyF(m, 3, 4)
	assert.InDelta(t, 4, got[0], 1e-9)
	assert.InDelta(t, 6, got[1], 1e-9)
}

func TestAxisAlignedTrueForScaleAndTranslate(t *testing.T) {
	m := model.Matrix{2, 0, 0, 3, 5, 7}
	assert.True(t, axisAligned(m))
}

func TestAxisAlignedFalseForRotation(t *testing.T) {
	m := model.Matrix{0, 1, -1, 0, 0, 0}
	assert.False(t, axisAligned(m))
}

func TestBboxOfUnorderedCorners(t *testing.T) {
	corners := [4][2]float64{{3, 3}, {0, 5}, {4, -1}, {1, 2}}
	minX, minY, maxX, maxY := bboxOf(corners)
	assert.Equal(t, 0.0, minX)
	assert.Equal(t, -1.0, minY)
	assert.Equal(t, 4.0, maxX)
	assert.Equal(t, 5.0, maxY)
}

func TestTextMoveTranslatesRelativeToLineStart(t *testing.T) {
	it := newTestInterpreter(model.Identity)
	it.tlm = model.Translated(10, 0)
	it.tm = it.tlm
	it.textMove(2, 3)
	x, y := it.tm.Apply(0, 0)
	assert.InDelta(t, 12, x, 1e-6)
	assert.InDelta(t, 3, y, 1e-6)
	// the new line matrix becomes the base for a following Td.
	x2, y2 := it.tlm.Apply(0, 0)
	assert.InDelta(t, 12, x2, 1e-6)
	assert.InDelta(t, 3, y2, 1e-6)
}
