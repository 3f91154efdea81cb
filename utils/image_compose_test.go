package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCompositeImagesDimensions(t *testing.T) {
	first := solidImage(100, 200, color.RGBA{R: 255, A: 255})
	// Half the height of the first, so it gets scaled up 2x
	second := solidImage(50, 100, color.RGBA{B: 255, A: 255})

	data, err := CompositeImages([]image.Image{first, second})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 200, decoded.Bounds().Dy())
	// 100 + 50*2 after scaling to the shared height
	assert.Equal(t, 200, decoded.Bounds().Dx())
}

func TestCompositeImagesEmptyInput(t *testing.T) {
	data, err := CompositeImages(nil)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCompositeImageFilesSkipsMissing(t *testing.T) {
	data, err := CompositeImageFiles([]string{"", "does/not/exist.png"})
	require.NoError(t, err)
	assert.Nil(t, data)
}
