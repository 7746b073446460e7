package raster

import (
	"image"
	"image/color"
	"math"
)

// SampleBilinear filters tex at normalized coordinates (u, v), where (0, 0)
// is the top-left corner and (1, 1) the bottom-right. Texel centers sit at
// half-texel offsets and lookups clamp to the edge.
func SampleBilinear(tex *image.NRGBA, u, v float64) color.NRGBA {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return color.NRGBA{}
	}

	fx := clampF(u, 0, 1)*float64(w) - 0.5
	fy := clampF(v, 0, 1)*float64(h) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	x1 := clampI(x0+1, 0, w-1)
	y1 := clampI(y0+1, 0, h-1)
	x0 = clampI(x0, 0, w-1)
	y0 = clampI(y0, 0, h-1)

	stride := tex.Stride
	pix := tex.Pix
	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	ch := func(c int) uint8 {
		f := float64(pix[i00+c])*w00 + float64(pix[i10+c])*w10 +
			float64(pix[i01+c])*w01 + float64(pix[i11+c])*w11
		return uint8(f + 0.5)
	}
	return color.NRGBA{R: ch(0), G: ch(1), B: ch(2), A: ch(3)}
}

func clampF(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func clampI(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
