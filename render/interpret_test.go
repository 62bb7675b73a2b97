package render

import (
	"testing"

	"github.com/benoitkugler/pdf/contentstream"
	"github.com/benoitkugler/pdf/model"
	"github.com/benoitkugler/pdf/raster"
	"github.com/stretchr/testify/assert"
)

func TestToByteClampsAndRounds(t *testing.T) {
	assert.Equal(t, uint8(0), toByte(-0.5))
	assert.Equal(t, uint8(255), toByte(1.5))
	assert.Equal(t, uint8(128), toByte(0.5))
	assert.Equal(t, uint8(0), toByte(0))
	assert.Equal(t, uint8(255), toByte(1))
}

func TestToFloat64sConverts(t *testing.T) {
	got := toFloat64s([]model.Fl{0.5, 1, -2})
	assert.Equal(t, []float64{0.5, 1, -2}, got)
}

func TestToRGB64NilColorSpaceDefaultsToGray(t *testing.T) {
	rgb := toRGB64(nil, []model.Fl{0.5})
	assert.Equal(t, [3]float64{0.5, 0.5, 0.5}, rgb)
}

func TestToRGB64RGBColorSpace(t *testing.T) {
	cs := model.ColorSpaceName(model.ColorSpaceRGB)
	rgb := toRGB64(cs, []model.Fl{0.1, 0.2, 0.3})
	assert.InDelta(t, 0.1, rgb[0], 1e-6)
	assert.InDelta(t, 0.2, rgb[1], 1e-6)
	assert.InDelta(t, 0.3, rgb[2], 1e-6)
}

func newTestInterpreter(ctm model.Matrix) *interpreter {
	dst := raster.NewBitmap(10, 10, raster.BGRA)
	return newInterpreter(nil, dst, ctm)
}

func TestDeviceScaleIdentityIsOne(t *testing.T) {
	it := newTestInterpreter(model.Identity)
	assert.InDelta(t, 1.0, it.deviceScale(), 1e-9)
}

func TestDeviceScaleUniformScale(t *testing.T) {
	it := newTestInterpreter(model.Scaled(2, 2))
	assert.InDelta(t, 2.0, it.deviceScale(), 1e-9)
}

func TestStrokeStyleScalesWidthAndDash(t *testing.T) {
	it := newTestInterpreter(model.Scaled(2, 2))
	it.gs.lineWidth = 1
	it.gs.dash = []float64{2, 3}
	it.gs.dashPhase = 1
	style := it.strokeStyle()
	assert.InDelta(t, 2.0, style.Width, 1e-9)
	assert.Equal(t, []float64{4, 6}, style.Dash)
	assert.InDelta(t, 2.0, style.DashPhase, 1e-9)
}

func TestExecSetLineWidthUpdatesGState(t *testing.T) {
	it := newTestInterpreter(model.Identity)
	it.exec(contentstream.OpSetLineWidth{W: 3.5})
	assert.Equal(t, 3.5, it.gs.lineWidth)
}

func TestExecSaveRestoreRoundTripsGState(t *testing.T) {
	it := newTestInterpreter(model.Identity)
	it.exec(contentstream.OpSetLineWidth{W: 2})
	it.exec(contentstream.OpSave{})
	it.exec(contentstream.OpSetLineWidth{W: 9})
	assert.Equal(t, 9.0, it.gs.lineWidth)
	it.exec(contentstream.OpRestore{})
	assert.Equal(t, 2.0, it.gs.lineWidth)
}

func TestExecConcatPremultipliesCTM(t *testing.T) {
	it := newTestInterpreter(model.Identity)
	it.exec(contentstream.OpConcat{Matrix: model.Translated(5, 0)})
	x, y := it.gs.ctm.Apply(0, 0)
	assert.InDelta(t, 5, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
}

func TestMoveToAndLineToBuildDevicePath(t *testing.T) {
	it := newTestInterpreter(model.Identity)
	it.moveTo(1, 1)
	it.lineTo(4, 1)
	x, y := it.path.CurrentPoint()
	assert.InDelta(t, 4, x, 1e-6)
	assert.InDelta(t, 1, y, 1e-6)
}

func TestRectangleBuildsAClosedQuad(t *testing.T) {
	it := newTestInterpreter(model.Identity)
	it.rectangle(0, 0, 2, 3)
	subs := it.path.Subpaths()
	assert.Len(t, subs, 1)
	assert.Len(t, subs[0], 4)
}
