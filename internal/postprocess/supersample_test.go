package postprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func filled(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestDownsampleKeepsSolidColor(t *testing.T) {
	c := color.NRGBA{R: 0, G: 32, B: 77, A: 255}
	out := Downsample(filled(40, 30, c), 20, 15)

	assert.Equal(t, image.Rect(0, 0, 20, 15), out.Bounds())
	got := out.NRGBAAt(10, 7)
	assert.InDelta(t, int(c.G), int(got.G), 1)
	assert.InDelta(t, int(c.B), int(got.B), 1)
	assert.InDelta(t, 255, int(got.A), 1)
}

func TestDownsampleNoopWhenSmallEnough(t *testing.T) {
	img := filled(8, 8, color.NRGBA{A: 255})
	assert.Same(t, img, Downsample(img, 8, 8))
}

func TestFit(t *testing.T) {
	img := filled(3, 5, color.NRGBA{R: 200, A: 255})
	out := Fit(img, 12, 7)
	assert.Equal(t, image.Rect(0, 0, 12, 7), out.Bounds())
	assert.Same(t, out, Fit(out, 12, 7))
}
