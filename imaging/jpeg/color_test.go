package jpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsampleIdentity(t *testing.T) {
	plane := []byte{1, 2, 3, 4, 5, 6}
	out, stride := upsample(plane, 3, 3, 2, 1, 1)
	assert.Equal(t, plane, out)
	assert.Equal(t, 3, stride)
}

func TestUpsample2x2(t *testing.T) {
	// one 2x2 MCU chroma plane: 10 11 / 12 13
	plane := []byte{10, 11, 12, 13}
	out, stride := upsample(plane, 2, 2, 2, 2, 2)
	require.Equal(t, 4, stride)
	want := []byte{
		10, 10, 11, 11,
		10, 10, 11, 11,
		12, 12, 13, 13,
		12, 12, 13, 13,
	}
	assert.Equal(t, want, out)
}

func TestUpsampleHorizontalOnly(t *testing.T) {
	plane := []byte{5, 9}
	out, stride := upsample(plane, 2, 2, 1, 2, 1)
	require.Equal(t, 4, stride)
	assert.Equal(t, []byte{5, 5, 9, 9}, out)
}

func TestYCbCrToRGBGray(t *testing.T) {
	// neutral chroma (128,128) should reproduce the luma in every channel.
	r, g, b := ycbcrToRGB(200, 128, 128)
	assert.Equal(t, byte(200), r)
	assert.Equal(t, byte(200), g)
	assert.Equal(t, byte(200), b)
}

func TestYCbCrToRGBClamps(t *testing.T) {
	// extreme Cr pushes R past 255, extreme Cb pushes B past 255.
	r, _, b := ycbcrToRGB(255, 255, 255)
	assert.Equal(t, byte(255), r)
	assert.Equal(t, byte(255), b)
}

func TestAssembleImageGray(t *testing.T) {
	d := &decoder{width: 2, height: 2, comps: []component{{h: 1, v: 1}}}
	planes := [][]byte{{1, 2, 3, 4}}
	strides := []int{2}
	img, err := d.assembleImage(planes, strides, 1, 1)
	require.NoError(t, err)
	gray, ok := img.(interface{ GrayAt(x, y int) byte })
	_ = gray
	_ = ok
	g0 := img.At(0, 0)
	yr, _, _, _ := g0.RGBA()
	assert.Equal(t, uint32(1*0x101), yr)
}

func TestAssembleImageUnsupportedComponentCount(t *testing.T) {
	d := &decoder{width: 1, height: 1, comps: []component{{h: 1, v: 1}, {h: 1, v: 1}}}
	planes := [][]byte{{1}, {2}}
	strides := []int{1, 1}
	_, err := d.assembleImage(planes, strides, 1, 1)
	assert.ErrorIs(t, err, errUnsupportedComponentCount)
}
