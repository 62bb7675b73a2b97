package render

import (
	"testing"

	"github.com/benoitkugler/pdf/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastFilterEmptyPipelineIsEmptyName(t *testing.T) {
	img := model.Image{}
	assert.Equal(t, model.Name(""), lastFilter(img))
}

func TestLastFilterReturnsTheFinalEntry(t *testing.T) {
	img := model.Image{Stream: model.Stream{Filter: model.Filters{
		{Name: "FlateDecode"},
		{Name: model.DCT},
	}}}
	assert.Equal(t, model.DCT, lastFilter(img))
}

func TestReadBitsExtractsMSBFirst(t *testing.T) {
	data := []byte{0b10110000}
	assert.Equal(t, uint32(1), readBits(data, 0, 1))
	assert.Equal(t, uint32(0), readBits(data, 1, 1))
	assert.Equal(t, uint32(0b1011), readBits(data, 0, 4))
}

func TestReadBitsPastEndOfDataPadsWithZero(t *testing.T) {
	data := []byte{0xFF}
	// only 8 bits available; asking for 4 bits starting at bit 6 runs off
	// the end and should zero-pad rather than panic.
	got := readBits(data, 6, 4)
	assert.Equal(t, uint32(0b1100), got)
}

// grayColorSpace is a minimal model.ColorSpace double exercising the
// generic bit-packed sampling path of sampleImage without pulling in a
// real colour space implementation.
type grayColorSpace struct{}

func (grayColorSpace) NbColorComponents() int { return 1 }
func (grayColorSpace) ToRGB(comps []model.Fl) [3]model.Fl {
	return [3]model.Fl{comps[0], comps[0], comps[0]}
}

func TestSampleImageGenericPathReadsGraySamples(t *testing.T) {
	// a 2x1 8-bit gray image: left pixel black, right pixel white.
	img := model.Image{
		Stream:           model.Stream{Content: []byte{0x00, 0xFF}},
		Width:            2,
		Height:           1,
		BitsPerComponent: 8,
	}
	srcAt, err := sampleImage(img, grayColorSpace{}, [3]float64{0, 0, 0})
	require.NoError(t, err)

	r, g, b, a := srcAt(0.25, 0.5) // left column
	assert.Equal(t, uint8(0), r)
	assert.Equal(t, uint8(0), g)
	assert.Equal(t, uint8(0), b)
	assert.Equal(t, uint8(255), a)

	r, g, b, _ = srcAt(0.75, 0.5) // right column
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(255), g)
	assert.Equal(t, uint8(255), b)
}

func TestSampleImageMaskPaintsOnZeroSampleByDefault(t *testing.T) {
	// ImageMask, 2x1, 1 bit per sample: left sample 0 (paints), right
	// sample 1 (transparent), no explicit /Decode array (8.9.6.2 default).
	img := model.Image{
		Stream:    model.Stream{Content: []byte{0b01000000}},
		Width:     2,
		Height:    1,
		ImageMask: true,
	}
	fill := [3]float64{1, 0, 0}
	srcAt, err := sampleImage(img, nil, fill)
	require.NoError(t, err)

	r, g, b, a := srcAt(0.25, 0.5)
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(0), g)
	assert.Equal(t, uint8(0), b)
	assert.Equal(t, uint8(255), a)

	_, _, _, a2 := srcAt(0.75, 0.5)
	assert.Zero(t, a2)
}
