package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrokeProducesNonEmptyOutlineForAnOpenLine(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	out := Stroke(p, StrokeStyle{Width: 2})
	subs := out.Subpaths()
	assert.NotEmpty(t, subs)
}

func TestStrokeZeroWidthStillPaintsHairline(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	out := Stroke(p, StrokeStyle{Width: 0})
	subs := out.Subpaths()
	require.NotEmpty(t, subs)
	// the quad's corners should span roughly the 0.5-unit hairline half-width
	// perpendicular to the (horizontal) segment.
	var minY, maxY float64 = 1e9, -1e9
	for _, pt := range subs[0] {
		y := float64(pt.Y) / 64
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	assert.InDelta(t, 1.0, maxY-minY, 0.05)
}

func TestApplyDashEmptyPatternReturnsWholePolyline(t *testing.T) {
	pts := []pt{{0, 0}, {1, 0}, {2, 0}}
	runs := applyDash(pts, false, nil, 0)
	require.Len(t, runs, 1)
	assert.Equal(t, pts, runs[0])
}

func TestApplyDashZeroTotalLengthReturnsWholePolyline(t *testing.T) {
	pts := []pt{{0, 0}, {5, 0}}
	runs := applyDash(pts, false, []float64{0, 0}, 0)
	require.Len(t, runs, 1)
	assert.Equal(t, pts, runs[0])
}

func TestApplyDashSplitsOnOffPattern(t *testing.T) {
	// a 10-unit horizontal line, dash [2 on, 2 off]: on-runs at [0,2],
	// [4,6], [8,10].
	pts := []pt{{0, 0}, {10, 0}}
	runs := applyDash(pts, false, []float64{2, 2}, 0)
	require.Len(t, runs, 3)
	for _, r := range runs {
		require.Len(t, r, 2)
		assert.InDelta(t, 2.0, r[1].x-r[0].x, 1e-6)
	}
	assert.InDelta(t, 0, runs[0][0].x, 1e-6)
	assert.InDelta(t, 4, runs[1][0].x, 1e-6)
	assert.InDelta(t, 8, runs[2][0].x, 1e-6)
}

func TestEmitCircleClosesBackToStart(t *testing.T) {
	out := NewPath()
	emitCircle(out, pt{0, 0}, 1)
	subs := out.Subpaths()
	require.Len(t, subs, 1)
	first := subs[0][0]
	last := subs[0][len(subs[0])-1]
	// the outline should return to (within float precision) its start point.
	assert.InDelta(t, float64(first.X)/64, float64(last.X)/64, 0.01)
	assert.InDelta(t, float64(first.Y)/64, float64(last.Y)/64, 0.01)
}
