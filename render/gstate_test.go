package render

import (
	"testing"

	"github.com/benoitkugler/pdf/model"
	"github.com/stretchr/testify/assert"
)

func TestNewGStateDefaults(t *testing.T) {
	gs := newGState(model.Identity, nil)
	assert.Equal(t, 1.0, gs.fillAlpha)
	assert.Equal(t, 1.0, gs.strokeAlpha)
	assert.Equal(t, 1.0, gs.lineWidth)
	assert.Equal(t, 10.0, gs.miterLimit)
	assert.Equal(t, 1.0, gs.hscale)
	assert.Equal(t, model.ColorSpaceName(model.ColorSpaceGray), gs.fillCS)
}

func TestGStateCloneDeepCopiesDash(t *testing.T) {
	gs := newGState(model.Identity, nil)
	gs.dash = []float64{1, 2, 3}
	clone := gs.clone()
	clone.dash[0] = 99
	assert.Equal(t, 1.0, gs.dash[0], "mutating the clone's dash slice must not affect the original")
}
