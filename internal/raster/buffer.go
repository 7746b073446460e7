package raster

import (
	"image"
	"image/color"
	"math"
)

// FrameBuffer is the render target: flat slices for cache locality.
// It is passed explicitly to every draw call; nothing is global.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // NDC depth per pixel, len = W*H, initialized to +inf
}

// NewFrameBuffer allocates a transparent color buffer and +inf z-buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, w*h*4),
		ZBuf:   make([]float64, w*h),
	}
	fb.resetDepth()
	return fb
}

// Clear fills the color buffer with c and resets depth.
func (fb *FrameBuffer) Clear(c color.NRGBA) {
	for i := 0; i < len(fb.Color); i += 4 {
		fb.Color[i] = c.R
		fb.Color[i+1] = c.G
		fb.Color[i+2] = c.B
		fb.Color[i+3] = c.A
	}
	fb.resetDepth()
}

// ClearBackdrop stretches tex over the whole target and resets depth.
func (fb *FrameBuffer) ClearBackdrop(tex *image.NRGBA) {
	w, h := float64(fb.Width), float64(fb.Height)
	for y := 0; y < fb.Height; y++ {
		v := (float64(y) + 0.5) / h
		row := y * fb.Width * 4
		for x := 0; x < fb.Width; x++ {
			u := (float64(x) + 0.5) / w
			c := SampleBilinear(tex, u, v)
			i := row + x*4
			fb.Color[i] = c.R
			fb.Color[i+1] = c.G
			fb.Color[i+2] = c.B
			fb.Color[i+3] = c.A
		}
	}
	fb.resetDepth()
}

// Image copies the color buffer into a new NRGBA image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}

// At returns the color at pixel (x, y).
func (fb *FrameBuffer) At(x, y int) color.NRGBA {
	i := (y*fb.Width + x) * 4
	return color.NRGBA{R: fb.Color[i], G: fb.Color[i+1], B: fb.Color[i+2], A: fb.Color[i+3]}
}

func (fb *FrameBuffer) resetDepth() {
	inf := math.Inf(1)
	for i := range fb.ZBuf {
		fb.ZBuf[i] = inf
	}
}
