package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsHas(t *testing.T) {
	f := FlagAnnotations | FlagGrayscale
	assert.True(t, f.has(FlagAnnotations))
	assert.True(t, f.has(FlagGrayscale))
	assert.False(t, f.has(FlagLcdText))
}

func TestOptionsValidatedRejectsZeroDimensions(t *testing.T) {
	_, err := Options{Width: 0, Height: 100}.validated()
	assert.Error(t, err)
}

func TestOptionsValidatedRejectsOversizedDimensions(t *testing.T) {
	_, err := Options{Width: 20001, Height: 100}.validated()
	assert.Error(t, err)
}

func TestOptionsValidatedAcceptsInRangeDimensions(t *testing.T) {
	opts, err := Options{Width: 800, Height: 600}.validated()
	require.NoError(t, err)
	assert.Equal(t, 800, opts.Width)
	assert.Equal(t, 600, opts.Height)
}
