package render

import (
	"testing"

	"github.com/benoitkugler/pdf/model"
	"github.com/stretchr/testify/assert"
)

func TestPageCTMUnrotatedMapsOriginToBottomAndFarCornerToTop(t *testing.T) {
	mb := model.Rectangle{Llx: 0, Lly: 0, Urx: 100, Ury: 200}
	ctm := pageCTM(mb, model.Zero, 50, 100)

	x, y := ctm.Apply(0, 0)
	assert.InDelta(t, 0, x, 1e-4)
	assert.InDelta(t, 100, y, 1e-4) // PDF's bottom-left lands at the device's bottom row

	x, y = ctm.Apply(100, 200)
	assert.InDelta(t, 50, x, 1e-4)
	assert.InDelta(t, 0, y, 1e-4) // PDF's top-right lands at the device's top row
}

func TestPageCTMQuarterRotationSwapsAxes(t *testing.T) {
	mb := model.Rectangle{Llx: 0, Lly: 0, Urx: 100, Ury: 200}
	ctm := pageCTM(mb, model.Quarter, 100, 50)

	x, y := ctm.Apply(0, 0)
	assert.InDelta(t, 100, x, 1e-4)
	assert.InDelta(t, 50, y, 1e-4)

	x, y = ctm.Apply(100, 200)
	assert.InDelta(t, 0, x, 1e-4)
	assert.InDelta(t, 0, y, 1e-4)
}

func TestPageCTMOffsetMediaBoxIsTranslatedOut(t *testing.T) {
	mb := model.Rectangle{Llx: 10, Lly: 20, Urx: 110, Ury: 220}
	ctm := pageCTM(mb, model.Zero, 50, 100)

	x, y := ctm.Apply(10, 20) // the mediabox's own lower-left corner
	assert.InDelta(t, 0, x, 1e-4)
	assert.InDelta(t, 100, y, 1e-4)
}
